package parsererror

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRowError(t *testing.T) {
	cause := errors.New("no amount columns")
	err := &RowError{Line: 12, Field: "amount", Snippet: "TDN7TZ7G9L ...", Err: cause}

	assert.Contains(t, err.Error(), "line 12")
	assert.Contains(t, err.Error(), "amount")
	assert.True(t, errors.Is(err, cause))
}

func TestRuleError(t *testing.T) {
	cause := errors.New("missing closing )")
	err := &RuleError{RuleID: "kplc", Pattern: "KPLC(", Err: cause}

	assert.Contains(t, err.Error(), "kplc")
	assert.Contains(t, err.Error(), "KPLC(")
	assert.Equal(t, cause, errors.Unwrap(err))
}

func TestTemplateError(t *testing.T) {
	err := &TemplateError{TemplateID: "equity-bank"}
	assert.Equal(t, "unknown statement template 'equity-bank'", err.Error())
}

func TestParseReport(t *testing.T) {
	r := &ParseReport{}
	r.Parsed = 3
	assert.Equal(t, "3 rows parsed", r.Summary())

	r.Record(fmt.Errorf("bad row"))
	assert.Equal(t, 1, r.Skipped)
	assert.Len(t, r.RowErrors, 1)
	assert.Contains(t, r.Summary(), "3 rows parsed, 1 skipped")
	assert.Contains(t, r.Summary(), "bad row")
}
