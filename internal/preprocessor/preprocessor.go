// Package preprocessor derives the per-transaction feature bundle consumed
// by the categorization pass: normalized description, merchant guess,
// payment info, and extracted sub-patterns, scored with an aggregate
// confidence.
package preprocessor

import (
	"strings"

	"wanjohi/mpesa-csv/internal/logging"
	"wanjohi/mpesa-csv/internal/matcher"
	"wanjohi/mpesa-csv/internal/models"
	"wanjohi/mpesa-csv/internal/textnorm"
)

// Confidence bonuses applied on top of the merchant-guess confidence.
// Extracted codes and references are strong evidence that the description
// really is a structured statement line.
const (
	codeBonus       = 0.1
	referenceBonus  = 0.1
	keywordBonus    = 0.02
	keywordBonusCap = 0.1
)

// patternGuessThreshold: below this pattern-based confidence the keyword
// overlap guess is also considered.
const patternGuessThreshold = 0.8

// Preprocessor computes PreprocessedTransaction values from parsed
// transactions and the cached rule set.
type Preprocessor struct {
	cache    *matcher.RuleCache
	currency string
	logger   logging.Logger
}

// New creates a preprocessor over the shared rule cache. The currency is a
// statement-level property, not a per-row one, so it is fixed at
// construction.
func New(cache *matcher.RuleCache, currency string, logger logging.Logger) *Preprocessor {
	if logger == nil {
		logger = logging.GetLogger()
	}
	return &Preprocessor{cache: cache, currency: currency, logger: logger}
}

// Preprocess derives the ephemeral feature view of one transaction. The
// result is recomputed on every call and never persisted.
func (p *Preprocessor) Preprocess(tx models.TransactionRow) (models.PreprocessedTransaction, error) {
	rules, err := p.cache.Rules()
	if err != nil {
		return models.PreprocessedTransaction{}, err
	}

	patterns := models.ExtractedPatterns{
		TransactionCode: textnorm.ExtractTransactionCode(tx.Description),
		ReferenceNumber: textnorm.ExtractReferenceNumber(tx.Description),
		Keywords:        textnorm.ExtractKeywords(tx.Description),
	}

	guess, recurring := p.guessMerchant(tx, rules)

	result := models.PreprocessedTransaction{
		Tx:                    tx,
		NormalizedDescription: textnorm.Normalize(tx.Description),
		Merchant:              guess,
		Payment: models.PaymentInfo{
			Channel:     tx.Channel,
			Amount:      tx.Amount,
			Currency:    p.currency,
			IsRecurring: recurring,
		},
		Patterns:   patterns,
		Confidence: aggregateConfidence(guess.Confidence, patterns),
	}
	return result, nil
}

// guessMerchant scans the rule set for the likeliest counterparty.
// Pattern hits take precedence; keyword overlap is consulted only when the
// best pattern confidence is inconclusive, and replaces the guess only when
// it scores strictly higher. It also reports whether any non-irregular
// frequency rule pattern matched, which marks the transaction recurring.
func (p *Preprocessor) guessMerchant(tx models.TransactionRow, rules []matcher.CompiledRule) (models.MerchantGuess, bool) {
	haystack := tx.Description
	if tx.Merchant != "" {
		haystack += "\n" + tx.Merchant
	}
	lowered := strings.ToLower(haystack)

	var best models.MerchantGuess
	recurring := false

	for i := range rules {
		rule := &rules[i]
		for _, re := range rule.Regexps {
			if !re.MatchString(haystack) {
				continue
			}
			if rule.Frequency != "" && rule.Frequency != models.FrequencyIrregular {
				recurring = true
			}
			if rule.Confidence > best.Confidence {
				best = models.MerchantGuess{
					Name:       rule.Name,
					Type:       rule.MerchantType,
					Confidence: rule.Confidence,
				}
			}
			break
		}
	}

	if best.Confidence < patternGuessThreshold {
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
			score := rule.Confidence * float64(matched) / float64(len(rule.Keywords))
			if score > best.Confidence {
				best = models.MerchantGuess{
					Name:       rule.Name,
					Type:       rule.MerchantType,
					Confidence: score,
				}
			}
		}
	}

	if best.Name == "" && tx.Merchant != "" {
		// No rule knows this counterparty; carry the parsed merchant
		// string forward at zero confidence.
		best = models.MerchantGuess{Name: tx.Merchant, Type: models.MerchantOther}
	}
	return best, recurring
}

// aggregateConfidence folds the extraction signals into one score in [0,1].
// Heuristic, not probabilistic: it exists so the orchestrator can apply a
// single acceptance threshold.
func aggregateConfidence(merchant float64, patterns models.ExtractedPatterns) float64 {
	confidence := merchant
	if patterns.TransactionCode != "" {
		confidence += codeBonus
	}
	if patterns.ReferenceNumber != "" {
		confidence += referenceBonus
	}
	kw := keywordBonus * float64(len(patterns.Keywords))
	if kw > keywordBonusCap {
		kw = keywordBonusCap
	}
	confidence += kw
	if confidence > 1 {
		confidence = 1
	}
	return confidence
}
