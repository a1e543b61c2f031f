// Package doctor runs health checks against a basket installation.
package doctor

import (
	"context"
	"fmt"
)

// Status is the outcome of a single check item.
type Status int

const (
	StatusPass Status = iota
	StatusWarn
	StatusFail
)

func (s Status) String() string {
	switch s {
	case StatusPass:
		return "pass"
	case StatusWarn:
		return "warn"
	case StatusFail:
		return "fail"
	default:
		return "unknown"
	}
}

// MarshalText encodes the status by name.
func (s Status) MarshalText() ([]byte, error) {
	if s < StatusPass || s > StatusFail {
		return nil, fmt.Errorf("invalid status %d", int(s))
	}
	return []byte(s.String()), nil
}

// CheckItem is one line of a check result.
type CheckItem struct {
	Label  string `json:"label"`
	Status Status `json:"status"`
	Detail string `json:"detail,omitempty"`
}

// Result groups the items produced by one check.
type Result struct {
	Name  string      `json:"name"`
	Items []CheckItem `json:"items"`
}

// Check is a single diagnostic.
type Check interface {
	Name() string
	Run(ctx context.Context) Result
}

// Counts tallies check items by status.
type Counts struct {
	Passed int `json:"passed"`
	Warned int `json:"warned"`
	Failed int `json:"failed"`
}

// Report is the combined outcome of a doctor run.
type Report struct {
	Healthy bool     `json:"healthy"`
	Summary Counts   `json:"summary"`
	Checks  []Result `json:"checks"`
}

// Run executes the checks in order and summarizes them. A cancelled context
// stops before the next check starts.
func Run(ctx context.Context, checks []Check) Report {
	results := make([]Result, 0, len(checks))
	for _, check := range checks {
		if ctx.Err() != nil {
			break
		}
		results = append(results, check.Run(ctx))
	}
	return NewReport(results)
}

// NewReport summarizes results. A report is healthy when nothing failed.
func NewReport(results []Result) Report {
	var counts Counts
	for _, r := range results {
		for _, item := range r.Items {
			switch item.Status {
			case StatusPass:
				counts.Passed++
			case StatusWarn:
				counts.Warned++
			case StatusFail:
				counts.Failed++
			}
		}
	}

	return Report{
		Healthy: counts.Failed == 0,
		Summary: counts,
		Checks:  results,
	}
}
