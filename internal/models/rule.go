package models

import (
	"fmt"
)

// MerchantType classifies the kind of counterparty a rule describes.
type MerchantType string

const (
	MerchantUtility    MerchantType = "utility"
	MerchantRetail     MerchantType = "retail"
	MerchantTelecom    MerchantType = "telecom"
	MerchantFinancial  MerchantType = "financial"
	MerchantTransport  MerchantType = "transport"
	MerchantEntertain  MerchantType = "entertainment"
	MerchantIndividual MerchantType = "individual"
	MerchantOther      MerchantType = "other"
)

// Rule frequency classes. FrequencyIrregular rules never mark a
// transaction as recurring.
const (
	FrequencyDaily     = "daily"
	FrequencyWeekly    = "weekly"
	FrequencyMonthly   = "monthly"
	FrequencyIrregular = "irregular"
)

// AmountPattern describes the amounts a merchant plausibly charges.
// Typical lists exact recurring amounts; Min/Max bound a plausible range.
// Either part may be omitted. Values are plain floats: they feed the
// heuristic confidence math, not ledger arithmetic.
type AmountPattern struct {
	Typical []float64 `yaml:"typical,omitempty"`
	Min     *float64  `yaml:"min,omitempty"`
	Max     *float64  `yaml:"max,omitempty"`
}

// MerchantRule is one categorization rule. Rules are operator-maintained
// configuration data and are read-only to the matching engine, which caches
// the active set and compiles the regex patterns once per refresh.
type MerchantRule struct {
	ID            string         `yaml:"id"`
	Name          string         `yaml:"name"`
	MerchantType  MerchantType   `yaml:"merchant_type"`
	Channels      []string       `yaml:"channels,omitempty"` // allowed payment channels (paybill, till, send_money...)
	Patterns      []string       `yaml:"patterns,omitempty"` // regex patterns, kept as data
	Keywords      []string       `yaml:"keywords,omitempty"`
	PaybillNumber string         `yaml:"paybill_number,omitempty"`
	TillNumber    string         `yaml:"till_number,omitempty"`
	CategoryID    string         `yaml:"category_id"`
	Confidence    float64        `yaml:"confidence"` // base confidence in [0,1]
	AmountPattern *AmountPattern `yaml:"amount_pattern,omitempty"`
	Frequency     string         `yaml:"frequency,omitempty"`
	Active        bool           `yaml:"active"`
}

// Validate checks the structural fields of a rule. Regex validity is not
// checked here; patterns are compiled at cache refresh and invalid ones are
// reported as per-rule errors there.
func (r *MerchantRule) Validate() error {
	if r.ID == "" {
		return fmt.Errorf("rule has no id")
	}
	if r.CategoryID == "" {
		return fmt.Errorf("rule %s has no category", r.ID)
	}
	if r.Confidence < 0 || r.Confidence > 1 {
		return fmt.Errorf("rule %s confidence %v outside [0,1]", r.ID, r.Confidence)
	}
	if len(r.Patterns) == 0 && len(r.Keywords) == 0 && r.PaybillNumber == "" && r.TillNumber == "" {
		return fmt.Errorf("rule %s has no matchable signal", r.ID)
	}
	return nil
}

// MatchesChannel reports whether the rule applies to the given payment
// channel. A rule with no channel restriction applies everywhere.
func (r *MerchantRule) MatchesChannel(channel string) bool {
	if len(r.Channels) == 0 {
		return true
	}
	for _, c := range r.Channels {
		if c == channel {
			return true
		}
	}
	return false
}
