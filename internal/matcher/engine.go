// Package matcher implements the merchant rule matching engine: it
// evaluates a transaction against the cached rule set with layered match
// strategies and returns the best rule with a confidence score and method
// tag.
package matcher

import (
	"fmt"
	"strings"

	"wanjohi/mpesa-csv/internal/logging"
	"wanjohi/mpesa-csv/internal/models"
)

// Confidence thresholds for the short-circuiting passes. The strict
// priority order trades recall for precision: the cheapest, most specific
// signal is tried first and returns immediately when confident enough.
const (
	exactShortCircuit   = 0.9
	patternShortCircuit = 0.8
)

// Engine evaluates transactions against the cached merchant rule set.
type Engine struct {
	cache  *RuleCache
	logger logging.Logger
}

// NewEngine creates a matching engine over the given rule cache.
func NewEngine(cache *RuleCache, logger logging.Logger) *Engine {
	if logger == nil {
		logger = logging.GetLogger()
	}
	return &Engine{cache: cache, logger: logger}
}

// Match evaluates the transaction against the active rules, in strict
// priority order: exact channel identifier, regex pattern scaled by amount
// plausibility, then keyword overlap. The first two passes short-circuit on
// a sufficiently confident hit; otherwise the best accumulated candidate
// wins. No rule at all is a valid zero-confidence outcome, not an error.
func (e *Engine) Match(tx models.TransactionRow) (models.MatchResult, error) {
	rules, err := e.cache.Rules()
	if err != nil {
		return models.NoMatch(), fmt.Errorf("loading rules: %w", err)
	}

	amount := amountValue(tx)
	best := models.NoMatch()
	consider := func(r models.MatchResult) {
		if r.Confidence > best.Confidence {
			best = r
		}
	}

	// Pass 1: exact channel identifier (paybill/till code).
	if tx.ChannelCode != "" {
		for i := range rules {
			rule := &rules[i]
			if !matchesIdentifier(rule, tx.ChannelCode) || !rule.MatchesChannel(tx.Channel) {
				continue
			}
			result := models.MatchResult{
				Rule:       &rule.MerchantRule,
				Confidence: clamp(rule.Confidence),
				Method:     models.MethodExact,
				Metadata:   map[string]string{"identifier": tx.ChannelCode},
			}
			if result.Confidence > exactShortCircuit {
				e.logMatch(tx, result)
				return result, nil
			}
			consider(result)
		}
	}

	// Pass 2: regex patterns against description and merchant name,
	// scaled by amount plausibility.
	haystack := tx.Description
	if tx.Merchant != "" {
		haystack += "\n" + tx.Merchant
	}
	for i := range rules {
		rule := &rules[i]
		for _, re := range rule.Regexps {
			if !re.MatchString(haystack) {
				continue
			}
			confidence := clamp(rule.Confidence * amountFactor(rule.AmountPattern, amount))
			result := models.MatchResult{
				Rule:       &rule.MerchantRule,
				Confidence: confidence,
				Method:     models.MethodPattern,
				Metadata:   map[string]string{"pattern": re.String()},
			}
			if confidence > patternShortCircuit {
				e.logMatch(tx, result)
				return result, nil
			}
			consider(result)
			break
		}
	}

	// Pass 3: keyword overlap. Always the weakest signal: it never
	// displaces an exact or pattern candidate, however high it scores, and
	// only fills in when the stronger passes found nothing. The
	// best-scoring rule across all rules is kept.
	if !best.Matched() {
		lowered := strings.ToLower(haystack)
		for i := range rules {
			rule := &rules[i]
			if len(rule.Keywords) == 0 {
				continue
			}
			matched := 0
			for _, kw := range rule.Keywords {
				if strings.Contains(lowered, strings.ToLower(kw)) {
					matched++
				}
			}
			if matched == 0 {
				continue
			}
			confidence := clamp(rule.Confidence * float64(matched) / float64(len(rule.Keywords)))
			consider(models.MatchResult{
				Rule:       &rule.MerchantRule,
				Confidence: confidence,
				Method:     models.MethodKeyword,
				Metadata:   map[string]string{"matched_keywords": fmt.Sprintf("%d/%d", matched, len(rule.Keywords))},
			})
		}
	}

	if best.Matched() {
		e.logMatch(tx, best)
	}
	return best, nil
}

func matchesIdentifier(rule *CompiledRule, code string) bool {
	return (rule.PaybillNumber != "" && rule.PaybillNumber == code) ||
		(rule.TillNumber != "" && rule.TillNumber == code)
}

func amountValue(tx models.TransactionRow) float64 {
	f, _ := tx.Amount.Float64()
	return f
}

func clamp(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func (e *Engine) logMatch(tx models.TransactionRow, result models.MatchResult) {
	e.logger.Debug("Matched transaction to rule",
		logging.Field{Key: logging.FieldTransactionID, Value: tx.ID()},
		logging.Field{Key: logging.FieldRuleID, Value: result.Rule.ID},
		logging.Field{Key: logging.FieldMethod, Value: string(result.Method)},
		logging.Field{Key: logging.FieldConfidence, Value: result.Confidence})
}
