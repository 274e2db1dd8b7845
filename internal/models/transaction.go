// Package models provides the data structures used throughout the application.
package models

import (
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// TxType classifies the direction of a transaction.
type TxType string

const (
	TypeIncome   TxType = "income"
	TypeExpense  TxType = "expense"
	TypeTransfer TxType = "transfer"
)

// TxStatus is the settlement status reported by the statement.
type TxStatus string

const (
	StatusCompleted TxStatus = "COMPLETED"
	StatusFailed    TxStatus = "FAILED"
	StatusPending   TxStatus = "PENDING"
)

// RawToken is a positioned text fragment produced by the PDF extractor.
// Tokens are transient; they are consumed immediately by the line parser.
type RawToken struct {
	Text string
	X    float64
	Y    float64
	Page int
}

// TransactionRow represents a single recognized statement row.
// Amount is always non-negative; direction is carried solely in Type.
// After cleanup the same shape represents a canonical transaction, with the
// added guarantee of uniqueness per Reference and a resolved amount.
type TransactionRow struct {
	Reference   string          `csv:"Reference" yaml:"reference"`
	Timestamp   time.Time       `csv:"-" yaml:"timestamp"`
	Date        string          `csv:"Date" yaml:"-"` // Timestamp formatted for CSV output
	Description string          `csv:"Description" yaml:"description"`
	Amount      decimal.Decimal `csv:"Amount" yaml:"amount"`
	Type        TxType          `csv:"Type" yaml:"type"`
	Status      TxStatus        `csv:"Status" yaml:"status"`
	Merchant    string          `csv:"Merchant" yaml:"merchant,omitempty"`
	Channel     string          `csv:"Channel" yaml:"channel,omitempty"`          // payment channel kind: paybill, till, send_money...
	ChannelCode string          `csv:"ChannelCode" yaml:"channel_code,omitempty"` // fixed identifier (paybill/till number) when present
	Category    string          `csv:"Category" yaml:"category,omitempty"`
}

// IsCategorized reports whether the transaction already carries a category.
func (t *TransactionRow) IsCategorized() bool {
	return t.Category != ""
}

// IsExpense returns true for outgoing money.
func (t *TransactionRow) IsExpense() bool {
	return t.Type == TypeExpense
}

// IsIncome returns true for incoming money.
func (t *TransactionRow) IsIncome() bool {
	return t.Type == TypeIncome
}

// ID returns a stable identifier for the row, used to key match records.
// The statement reference is the natural key; rows without one fall back to
// timestamp plus description.
func (t *TransactionRow) ID() string {
	if t.Reference != "" {
		return t.Reference
	}
	return t.Timestamp.Format("20060102150405") + "-" + t.Description
}

var amountCleanRe = regexp.MustCompile(`[^\d.\-]`)

// ParseAmount converts a statement amount string such as "5,000.00" or
// "KSh 1,200.50" to a decimal. Unparseable input yields zero.
func ParseAmount(s string) decimal.Decimal {
	s = strings.TrimSpace(s)
	s = amountCleanRe.ReplaceAllString(s, "")
	if s == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// ParseStatus maps a status keyword from the statement to a TxStatus.
// Unknown values default to COMPLETED since M-PESA statements only list
// settled rows without an explicit status on some layouts.
func ParseStatus(s string) TxStatus {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "FAILED":
		return StatusFailed
	case "PENDING":
		return StatusPending
	default:
		return StatusCompleted
	}
}
