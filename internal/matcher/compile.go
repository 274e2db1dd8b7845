package matcher

import (
	"regexp"

	"wanjohi/mpesa-csv/internal/logging"
	"wanjohi/mpesa-csv/internal/models"
	"wanjohi/mpesa-csv/internal/parsererror"
)

// CompiledRule is a merchant rule with its regex patterns compiled.
// Patterns are compiled once at cache refresh, not per match.
type CompiledRule struct {
	models.MerchantRule
	Regexps []*regexp.Regexp
}

// CompileRules compiles the regex patterns of every rule. An invalid
// pattern is a per-rule error: it is logged and skipped, and the rule keeps
// its remaining patterns and keyword/identifier signals. Rule errors are
// never fatal to a matching pass.
func CompileRules(rules []models.MerchantRule, logger logging.Logger) []CompiledRule {
	compiled := make([]CompiledRule, 0, len(rules))
	for _, rule := range rules {
		cr := CompiledRule{MerchantRule: rule}
		for _, pattern := range rule.Patterns {
			re, err := regexp.Compile("(?i)" + pattern)
			if err != nil {
				ruleErr := &parsererror.RuleError{RuleID: rule.ID, Pattern: pattern, Err: err}
				logger.WithError(ruleErr).Warn("Skipping invalid rule pattern",
					logging.Field{Key: logging.FieldRuleID, Value: rule.ID})
				continue
			}
			cr.Regexps = append(cr.Regexps, re)
		}
		compiled = append(compiled, cr)
	}
	return compiled
}
