// Package report turns raw validation results into a gated report.
//
// Suppression removes findings of selected validator types from the report
// and from the gate decision, but never from the raw counters: a caller can
// always tell "no problems" apart from "problems that were suppressed".
package report
