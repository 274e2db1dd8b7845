package models

import "github.com/shopspring/decimal"

// MerchantGuess is the preprocessor's best guess at the counterparty.
type MerchantGuess struct {
	Name       string
	Type       MerchantType
	Confidence float64
}

// PaymentInfo summarizes how the transaction was paid.
type PaymentInfo struct {
	Channel     string
	Amount      decimal.Decimal
	Currency    string
	IsRecurring bool
}

// ExtractedPatterns holds code and keyword sub-patterns pulled from the
// transaction description.
type ExtractedPatterns struct {
	TransactionCode string
	ReferenceNumber string
	Keywords        []string
}

// PreprocessedTransaction is the derived, ephemeral view of a transaction
// used by the categorization pass. It is never persisted; it is recomputed
// from the transaction and the cached rule set each time.
type PreprocessedTransaction struct {
	Tx                    TransactionRow
	NormalizedDescription string
	Merchant              MerchantGuess
	Payment               PaymentInfo
	Patterns              ExtractedPatterns
	Confidence            float64
}
