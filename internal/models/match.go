package models

import (
	"time"
)

// MatchMethod identifies which matching strategy produced a result.
type MatchMethod string

const (
	MethodExact   MatchMethod = "exact"   // fixed channel identifier (paybill/till)
	MethodPattern MatchMethod = "pattern" // regex pattern hit
	MethodKeyword MatchMethod = "keyword" // keyword overlap
	MethodAmount  MatchMethod = "amount"  // amount-pattern plausibility
	MethodManual  MatchMethod = "manual"  // human correction
	MethodNone    MatchMethod = "none"    // no rule matched
)

// MatchResult is the outcome of one matching-engine evaluation.
// Confidence is a heuristic score in [0,1], not a calibrated probability.
type MatchResult struct {
	Rule       *MerchantRule
	Confidence float64
	Method     MatchMethod
	Metadata   map[string]string
}

// NoMatch is the zero-confidence fallback result.
func NoMatch() MatchResult {
	return MatchResult{Method: MethodNone, Confidence: 0}
}

// Matched reports whether a rule was found at any confidence.
func (m MatchResult) Matched() bool {
	return m.Rule != nil
}

// MatchRecord is the persisted audit trail of a categorization attempt.
// Exactly one record exists per transaction; it is created on the first
// categorization pass and mutated only through explicit feedback.
type MatchRecord struct {
	ID                  string
	TransactionID       string
	RuleID              string
	Method              MatchMethod
	Confidence          float64
	CreatedAt           time.Time
	WasCorrect          *bool
	CorrectedCategoryID string
}
