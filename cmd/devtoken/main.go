// Command devtoken prints a bearer token signed with the configured secret,
// for local testing against a development server.
package main

import (
	"flag"
	"fmt"
	"os"
	"solution_share/internal/common/security"
	"solution_share/internal/platform/config"
	"time"
)

func main() {
	uid := flag.String("uid", "", "token subject (user id)")
	email := flag.String("email", "", "email claim")
	flag.Parse()

	if *uid == "" || *email == "" {
		fmt.Fprintln(os.Stderr, "usage: devtoken -uid <id> -email <address>")
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	auth := security.NewJWTAuthenticator(cfg.JWTKey, cfg.JWTIssuer, cfg.JWTAudience, cfg.JWTExp)
	token, err := auth.IssueToken(*uid, *email, time.Now())
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	fmt.Println(token)
}
