package site

import (
	"fmt"
	"time"
)

// Outcome is the final state of a build.
type Outcome string

const (
	OutcomeSuccess  Outcome = "success"
	OutcomeFailed   Outcome = "failed"
	OutcomeCanceled Outcome = "canceled"
)

// Report summarizes a single site build.
type Report struct {
	BuildID     string
	OutputDir   string
	Pages       int
	Drafts      int
	StaticFiles int
	Start       time.Time
	End         time.Time
	Outcome     Outcome
}

// Duration returns the wall time of the build.
func (r *Report) Duration() time.Duration {
	return r.End.Sub(r.Start)
}

func (r *Report) String() string {
	return fmt.Sprintf("build %s: %s, %d pages, %d static files", r.BuildID, r.Outcome, r.Pages, r.StaticFiles)
}
