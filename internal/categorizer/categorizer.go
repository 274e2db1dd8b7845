// Package categorizer orchestrates category assignment: it applies the
// matching engine's result against an acceptance threshold, falls back to
// category keyword overlap, and records every outcome as a match record so
// audit coverage is total.
package categorizer

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"wanjohi/mpesa-csv/internal/audit"
	"wanjohi/mpesa-csv/internal/logging"
	"wanjohi/mpesa-csv/internal/matcher"
	"wanjohi/mpesa-csv/internal/models"
	"wanjohi/mpesa-csv/internal/preprocessor"
	"wanjohi/mpesa-csv/internal/store"
	"wanjohi/mpesa-csv/internal/textnorm"
)

// Service applies categorization decisions to transactions.
type Service struct {
	engine    *matcher.Engine
	pre       *preprocessor.Preprocessor
	source    store.RuleSource
	records   audit.Store
	threshold float64
	logger    logging.Logger
	now       func() time.Time
}

// NewService creates the orchestrator. threshold is the minimum engine
// confidence at which a rule's category is accepted directly.
func NewService(engine *matcher.Engine, pre *preprocessor.Preprocessor, source store.RuleSource, records audit.Store, threshold float64, logger logging.Logger) *Service {
	if logger == nil {
		logger = logging.GetLogger()
	}
	return &Service{
		engine:    engine,
		pre:       pre,
		source:    source,
		records:   records,
		threshold: threshold,
		logger:    logger,
		now:       time.Now,
	}
}

// Categorize assigns a category to the transaction and records the match
// outcome. Transactions that already carry a category are returned
// unchanged without a new record. Every evaluated transaction gets exactly
// one match record, including the unmatched ones, which are recorded at
// zero confidence.
func (s *Service) Categorize(ctx context.Context, tx models.TransactionRow) (models.TransactionRow, error) {
	if tx.IsCategorized() {
		s.logger.Debug("Transaction already categorized, skipping",
			logging.Field{Key: logging.FieldTransactionID, Value: tx.ID()},
			logging.Field{Key: logging.FieldCategory, Value: tx.Category})
		return tx, nil
	}

	pre, err := s.pre.Preprocess(tx)
	if err != nil {
		return tx, fmt.Errorf("preprocessing transaction %s: %w", tx.ID(), err)
	}
	s.logger.Debug("Preprocessed transaction",
		logging.Field{Key: logging.FieldTransactionID, Value: tx.ID()},
		logging.Field{Key: logging.FieldMerchant, Value: pre.Merchant.Name},
		logging.Field{Key: logging.FieldConfidence, Value: pre.Confidence})

	// The engine matches against the raw merchant string. When the parser
	// found none, a rule-derived guess stands in for the matching pass
	// only; the transaction itself is never rewritten with a guess.
	matchTx := tx
	if matchTx.Merchant == "" && pre.Merchant.Confidence > 0 {
		matchTx.Merchant = pre.Merchant.Name
	}

	result, err := s.engine.Match(matchTx)
	if err != nil {
		return tx, fmt.Errorf("matching transaction %s: %w", tx.ID(), err)
	}

	rec := models.MatchRecord{
		ID:            uuid.NewString(),
		TransactionID: tx.ID(),
		Method:        result.Method,
		Confidence:    result.Confidence,
		CreatedAt:     s.now(),
	}
	if result.Rule != nil {
		rec.RuleID = result.Rule.ID
	}
	if err := s.records.Create(ctx, rec); err != nil {
		return tx, fmt.Errorf("recording match for %s: %w", tx.ID(), err)
	}

	// Keyword overlap is never confident on its own: a keyword-method
	// result always goes through the category fallback, whatever its score.
	if result.Matched() && result.Method != models.MethodKeyword && result.Confidence >= s.threshold {
		tx.Category = result.Rule.CategoryID
		s.logger.Info("Categorized transaction",
			logging.Field{Key: logging.FieldTransactionID, Value: tx.ID()},
			logging.Field{Key: logging.FieldCategory, Value: tx.Category},
			logging.Field{Key: logging.FieldMethod, Value: string(result.Method)},
			logging.Field{Key: logging.FieldConfidence, Value: result.Confidence})
		return tx, nil
	}

	category, err := s.keywordFallback(tx, pre.Patterns.Keywords)
	if err != nil {
		return tx, err
	}
	if category != "" {
		tx.Category = category
		s.logger.Info("Categorized transaction by keyword fallback",
			logging.Field{Key: logging.FieldTransactionID, Value: tx.ID()},
			logging.Field{Key: logging.FieldCategory, Value: tx.Category})
		return tx, nil
	}

	s.logger.Debug("No category found for transaction",
		logging.Field{Key: logging.FieldTransactionID, Value: tx.ID()})
	return tx, nil
}

// CategorizeBatch categorizes each transaction independently. A failed
// transaction does not abort the batch; the first error is returned after
// the pass completes.
func (s *Service) CategorizeBatch(ctx context.Context, txs []models.TransactionRow) ([]models.TransactionRow, error) {
	out := make([]models.TransactionRow, len(txs))
	var firstErr error
	for i, tx := range txs {
		categorized, err := s.Categorize(ctx, tx)
		if err != nil && firstErr == nil {
			firstErr = err
		}
		out[i] = categorized
	}
	return out, firstErr
}

// RecategorizeWithFeedback applies a human correction: the existing match
// record is updated in place with the feedback and the corrected category.
// This is the only path that mutates a match record after creation.
func (s *Service) RecategorizeWithFeedback(ctx context.Context, transactionID, newCategoryID string, wasCorrect bool) error {
	rec, err := s.records.GetByTransaction(ctx, transactionID)
	if err != nil {
		return fmt.Errorf("loading match record for %s: %w", transactionID, err)
	}
	if rec == nil {
		return fmt.Errorf("no match record for transaction %s", transactionID)
	}

	rec.WasCorrect = &wasCorrect
	rec.CorrectedCategoryID = newCategoryID
	rec.Method = models.MethodManual
	if err := s.records.Update(ctx, *rec); err != nil {
		return fmt.Errorf("updating match record for %s: %w", transactionID, err)
	}

	s.logger.Info("Applied categorization feedback",
		logging.Field{Key: logging.FieldTransactionID, Value: transactionID},
		logging.Field{Key: logging.FieldCategory, Value: newCategoryID})
	return nil
}

// keywordFallback picks the category whose keyword list best overlaps the
// keywords the preprocessor extracted from the description, plus any
// parsed merchant name. Zero overlap means no category.
func (s *Service) keywordFallback(tx models.TransactionRow, keywords []string) (string, error) {
	categories, err := s.source.ListCategories()
	if err != nil {
		return "", fmt.Errorf("loading categories: %w", err)
	}
	if len(categories) == 0 {
		return "", nil
	}

	txKeywords := append(append([]string{}, keywords...), textnorm.ExtractKeywords(tx.Merchant)...)
	if len(txKeywords) == 0 {
		return "", nil
	}
	txSet := make(map[string]bool, len(txKeywords))
	for _, kw := range txKeywords {
		txSet[kw] = true
	}

	bestScore := 0.0
	bestID := ""
	for i := range categories {
		keywords := categories[i].KeywordList()
		if len(keywords) == 0 {
			continue
		}
		overlap := 0
		for _, kw := range keywords {
			if txSet[kw] {
				overlap++
			}
		}
		if overlap == 0 {
			continue
		}
		union := len(txSet) + len(keywords) - overlap
		score := float64(overlap) / float64(union)
		if score > bestScore {
			bestScore = score
			bestID = categories[i].ID
		}
	}
	return bestID, nil
}
