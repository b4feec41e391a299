package model

import "strings"

type Contest struct {
	ID               string `json:"id"`
	Series           string `json:"series"`
	Title            string `json:"title"`
	StartEpochSecond int64  `json:"start_epoch_second"`
	DurationSecond   int64  `json:"duration_second"`
}

// Problem rows come from the external catalog import; this service only reads them.
type Problem struct {
	ID           string `json:"id"`
	ContestID    string `json:"contest_id"`
	ProblemIndex string `json:"problem_index"`
	Title        string `json:"title"`
}

type ContestSeries string

const (
	SeriesABC   ContestSeries = "ABC"
	SeriesARC   ContestSeries = "ARC"
	SeriesAGC   ContestSeries = "AGC"
	SeriesAHC   ContestSeries = "AHC"
	SeriesOther ContestSeries = "OTHER"
)

// ParseContestSeries classifies a contest id or series name by its prefix,
// case-insensitively. Anything unrecognised is OTHER.
func ParseContestSeries(s string) ContestSeries {
	lower := strings.ToLower(strings.TrimSpace(s))
	switch {
	case strings.HasPrefix(lower, "abc"):
		return SeriesABC
	case strings.HasPrefix(lower, "arc"):
		return SeriesARC
	case strings.HasPrefix(lower, "agc"):
		return SeriesAGC
	case strings.HasPrefix(lower, "ahc"):
		return SeriesAHC
	default:
		return SeriesOther
	}
}

// ContestProblems is one contest's problem set within a series listing.
type ContestProblems struct {
	ContestID string    `json:"contest_id"`
	Problems  []Problem `json:"problems"`
}
