package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func validRule() MerchantRule {
	return MerchantRule{
		ID:         "kplc",
		Name:       "Kenya Power",
		Patterns:   []string{"KPLC"},
		CategoryID: "utilities",
		Confidence: 0.95,
		Active:     true,
	}
}

func TestMerchantRuleValidate(t *testing.T) {
	rule := validRule()
	assert.NoError(t, rule.Validate())

	rule = validRule()
	rule.ID = ""
	assert.Error(t, rule.Validate())

	rule = validRule()
	rule.CategoryID = ""
	assert.Error(t, rule.Validate())

	rule = validRule()
	rule.Confidence = 1.5
	assert.Error(t, rule.Validate())

	rule = validRule()
	rule.Patterns = nil
	rule.Keywords = nil
	rule.PaybillNumber = ""
	rule.TillNumber = ""
	assert.Error(t, rule.Validate(), "a rule needs at least one matchable signal")
}

func TestMerchantRuleMatchesChannel(t *testing.T) {
	rule := validRule()
	// No channel restriction applies everywhere.
	assert.True(t, rule.MatchesChannel("paybill"))
	assert.True(t, rule.MatchesChannel(""))

	rule.Channels = []string{"paybill", "till"}
	assert.True(t, rule.MatchesChannel("paybill"))
	assert.False(t, rule.MatchesChannel("send_money"))
}

func TestCategoryKeywordList(t *testing.T) {
	c := Category{ID: "utilities", Keywords: "KPLC, Water , electricity,,"}
	assert.Equal(t, []string{"kplc", "water", "electricity"}, c.KeywordList())

	c.Keywords = ""
	assert.Nil(t, c.KeywordList())
}

func TestMatchResultMatched(t *testing.T) {
	assert.False(t, NoMatch().Matched())
	rule := validRule()
	assert.True(t, MatchResult{Rule: &rule, Confidence: 0.5}.Matched())
}
