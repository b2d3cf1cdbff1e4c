package report

import (
	"github.com/google/uuid"

	"github.com/imamik/hpcgate/internal/validators"
)

// Outcome summarizes a report for display and exit codes.
type Outcome string

const (
	// OutcomeClean means no validator raised any finding.
	OutcomeClean Outcome = "clean"
	// OutcomePassedWithFindings means the gate passes and would also pass
	// without suppression.
	OutcomePassedWithFindings Outcome = "passed-with-findings"
	// OutcomePassedWithSuppressed means the gate passes only because
	// blocking findings were suppressed.
	OutcomePassedWithSuppressed Outcome = "passed-with-suppressed"
	// OutcomePassedAllSuppressed means the gate would pass without
	// suppression and every finding it raised was suppressed.
	OutcomePassedAllSuppressed Outcome = "passed-all-suppressed"
	// OutcomeBlocked means unsuppressed findings reach the fail level.
	OutcomeBlocked Outcome = "blocked"
)

// Report is the aggregated result of a validation run.
type Report struct {
	RunID     string              `json:"runId"`
	FailLevel validators.Severity `json:"failLevel"`
	// Findings are the reported results, in run order.
	Findings []validators.Result `json:"findings"`
	// Suppressed counts filtered findings per validator type name.
	Suppressed map[string]int `json:"suppressed,omitempty"`
	// RawCounts counts every finding per severity name, suppressed or not.
	RawCounts map[string]int `json:"rawCounts"`
	// RawBlocking is the gate decision without suppression.
	RawBlocking bool    `json:"rawBlocking"`
	MayProceed  bool    `json:"mayProceed"`
	Outcome     Outcome `json:"outcome"`
}

// Aggregate filters results through suppression and computes the gate
// against failLevel. results is not modified.
func Aggregate(results []validators.Result, suppression Suppression, failLevel validators.Severity) *Report {
	r := &Report{
		RunID:      uuid.NewString(),
		FailLevel:  failLevel,
		Findings:   make([]validators.Result, 0, len(results)),
		Suppressed: make(map[string]int),
		RawCounts:  make(map[string]int, len(validators.Severities())),
		MayProceed: true,
	}
	for _, sev := range validators.Severities() {
		r.RawCounts[sev.String()] = 0
	}

	for _, res := range results {
		r.RawCounts[res.Severity.String()]++
		blocking := res.Severity.AtLeast(failLevel)
		if blocking {
			r.RawBlocking = true
		}
		if suppression.Suppresses(res.Type) {
			r.Suppressed[res.Type.String()]++
			continue
		}
		if blocking {
			r.MayProceed = false
		}
		r.Findings = append(r.Findings, res)
	}

	switch {
	case !r.MayProceed:
		r.Outcome = OutcomeBlocked
	case r.RawBlocking:
		r.Outcome = OutcomePassedWithSuppressed
	case len(r.Findings) > 0:
		r.Outcome = OutcomePassedWithFindings
	case len(results) > 0:
		r.Outcome = OutcomePassedAllSuppressed
	default:
		r.Outcome = OutcomeClean
	}
	return r
}

// SuppressedTotal returns the number of filtered findings.
func (r *Report) SuppressedTotal() int {
	n := 0
	for _, c := range r.Suppressed {
		n += c
	}
	return n
}

// RawTotal returns the number of findings before suppression.
func (r *Report) RawTotal() int {
	n := 0
	for _, c := range r.RawCounts {
		n += c
	}
	return n
}

// Count returns the number of reported findings of sev.
func (r *Report) Count(sev validators.Severity) int {
	n := 0
	for _, f := range r.Findings {
		if f.Severity == sev {
			n++
		}
	}
	return n
}
