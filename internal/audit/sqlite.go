package audit

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"

	"wanjohi/mpesa-csv/internal/models"
)

//go:embed schema.sql
var schema string

// SQLiteStore persists match records in a sqlite database.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLite opens or creates the database at the given path and applies
// the schema.
func OpenSQLite(dbPath string) (*SQLiteStore, error) {
	if dir := filepath.Dir(dbPath); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create db directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("execute schema: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Create inserts the record unless one already exists for the transaction.
// The UNIQUE(transaction_id) constraint plus INSERT OR IGNORE makes the
// call idempotent without a read-then-write race.
func (s *SQLiteStore) Create(ctx context.Context, rec models.MatchRecord) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT OR IGNORE INTO match_records
			(id, transaction_id, rule_id, method, confidence, created_at, was_correct, corrected_category_id)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.TransactionID, rec.RuleID, string(rec.Method),
		rec.Confidence, rec.CreatedAt, boolPtrToInt(rec.WasCorrect), rec.CorrectedCategoryID)
	if err != nil {
		return fmt.Errorf("create match record: %w", err)
	}
	return nil
}

// GetByTransaction returns the record for the transaction, or nil when
// none exists.
func (s *SQLiteStore) GetByTransaction(ctx context.Context, transactionID string) (*models.MatchRecord, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, transaction_id, rule_id, method, confidence, created_at, was_correct, corrected_category_id
		FROM match_records WHERE transaction_id = ?`, transactionID)

	var rec models.MatchRecord
	var method string
	var wasCorrect sql.NullInt64
	err := row.Scan(&rec.ID, &rec.TransactionID, &rec.RuleID, &method,
		&rec.Confidence, &rec.CreatedAt, &wasCorrect, &rec.CorrectedCategoryID)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get match record: %w", err)
	}
	rec.Method = models.MatchMethod(method)
	if wasCorrect.Valid {
		v := wasCorrect.Int64 != 0
		rec.WasCorrect = &v
	}
	return &rec, nil
}

// Update overwrites the mutable fields of an existing record.
func (s *SQLiteStore) Update(ctx context.Context, rec models.MatchRecord) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE match_records
		SET rule_id = ?, method = ?, confidence = ?, was_correct = ?, corrected_category_id = ?
		WHERE id = ?`,
		rec.RuleID, string(rec.Method), rec.Confidence,
		boolPtrToInt(rec.WasCorrect), rec.CorrectedCategoryID, rec.ID)
	if err != nil {
		return fmt.Errorf("update match record: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update match record: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("update match record: no record with id %s", rec.ID)
	}
	return nil
}

func boolPtrToInt(b *bool) interface{} {
	if b == nil {
		return nil
	}
	if *b {
		return 1
	}
	return 0
}
