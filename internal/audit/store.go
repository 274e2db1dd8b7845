// Package audit persists match records: the one-per-transaction trail of
// how each categorization decision was made, including later human
// feedback.
package audit

import (
	"context"

	"wanjohi/mpesa-csv/internal/models"
)

// Store is the match-record persistence interface. Create is idempotent
// per transaction: a second create for the same transaction leaves the
// existing record untouched. Records are otherwise mutated only through
// Update, the explicit feedback path.
type Store interface {
	Create(ctx context.Context, rec models.MatchRecord) error
	GetByTransaction(ctx context.Context, transactionID string) (*models.MatchRecord, error)
	Update(ctx context.Context, rec models.MatchRecord) error
}
