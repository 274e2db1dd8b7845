// Package parsererror defines the structured error types used by the
// statement parsers and the matching engine.
package parsererror

import (
	"fmt"
	"strings"
)

// RowError represents a row-level parse failure: a line looked like a
// transaction but a required field could not be extracted. Recoverable;
// the caller logs it and continues with the next line.
type RowError struct {
	Line    int
	Field   string
	Snippet string
	Err     error
}

func (e *RowError) Error() string {
	return fmt.Sprintf("line %d: failed to extract %s from '%s': %v",
		e.Line, e.Field, e.Snippet, e.Err)
}

func (e *RowError) Unwrap() error {
	return e.Err
}

// RuleError represents an invalid merchant rule, typically a regex pattern
// that does not compile. Recoverable; the rule (or pattern) is skipped for
// the current matching pass only.
type RuleError struct {
	RuleID  string
	Pattern string
	Err     error
}

func (e *RuleError) Error() string {
	return fmt.Sprintf("rule %s: invalid pattern '%s': %v", e.RuleID, e.Pattern, e.Err)
}

func (e *RuleError) Unwrap() error {
	return e.Err
}

// TemplateError represents an unknown statement template id. Fatal for the
// parse call that requested it.
type TemplateError struct {
	TemplateID string
}

func (e *TemplateError) Error() string {
	return fmt.Sprintf("unknown statement template '%s'", e.TemplateID)
}

// InvalidFormatError represents input that does not conform to the expected
// document format at all (e.g. not a PDF).
type InvalidFormatError struct {
	FilePath       string
	ExpectedFormat string
	Msg            string
}

func (e *InvalidFormatError) Error() string {
	return fmt.Sprintf("invalid format in file '%s': %s. Expected: %s",
		e.FilePath, e.Msg, e.ExpectedFormat)
}

// ParseReport aggregates the outcome of parsing one statement. Extraction
// failures are counted and reported rather than aborting the statement;
// partial success is the expected steady state on real-world PDF noise.
type ParseReport struct {
	Parsed    int
	Skipped   int
	RowErrors []error
}

// Record adds a row-level error to the report.
func (r *ParseReport) Record(err error) {
	r.Skipped++
	r.RowErrors = append(r.RowErrors, err)
}

// Summary returns a one-line description of extraction quality.
func (r *ParseReport) Summary() string {
	if r.Skipped == 0 {
		return fmt.Sprintf("%d rows parsed", r.Parsed)
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%d rows parsed, %d skipped:", r.Parsed, r.Skipped)
	for _, err := range r.RowErrors {
		fmt.Fprintf(&b, "\n  %v", err)
	}
	return b.String()
}
