package services

import "legacybook/internal/tagging"

// QualityGate decides whether a classified submission is rejected before any
// media is uploaded. A non-empty string is the rejection reason surfaced to
// the caller as a 422.
//
// The current policy is fail-open: low-confidence content is flagged for
// manual review instead of rejected, so the default gate accepts everything.
// The seam stays because the wire protocol's rejected response depends on it.
type QualityGate interface {
	Evaluate(result tagging.Result) string
}

// AcceptAllGate accepts every submission.
type AcceptAllGate struct{}

func (AcceptAllGate) Evaluate(tagging.Result) string {
	return ""
}
