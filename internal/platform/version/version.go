// Package version holds the build version, set at link time:
//
//	go build -ldflags "-X solution_share/internal/platform/version.Version=v1.2.3" ./cmd/server
package version

var Version = "dev"
