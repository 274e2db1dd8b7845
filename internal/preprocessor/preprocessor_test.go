package preprocessor

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wanjohi/mpesa-csv/internal/logging"
	"wanjohi/mpesa-csv/internal/matcher"
	"wanjohi/mpesa-csv/internal/models"
	"wanjohi/mpesa-csv/internal/store"
)

func newTestPreprocessor(t *testing.T, rules ...models.MerchantRule) *Preprocessor {
	t.Helper()
	source := &store.MockRuleSource{Rules: rules}
	cache := matcher.NewRuleCache(source, time.Minute, &logging.MockLogger{})
	return New(cache, "KES", &logging.MockLogger{})
}

func kplcRule() models.MerchantRule {
	return models.MerchantRule{
		ID:           "kplc",
		Name:         "Kenya Power",
		MerchantType: models.MerchantUtility,
		Patterns:     []string{"KPLC", "KENYA\\s*POWER"},
		Keywords:     []string{"kplc", "prepaid"},
		CategoryID:   "utilities",
		Confidence:   0.95,
		Frequency:    models.FrequencyMonthly,
		Active:       true,
	}
}

func TestPreprocessPatternGuess(t *testing.T) {
	p := newTestPreprocessor(t, kplcRule())

	tx := models.TransactionRow{
		Description: "Pay Bill Online to KPLC PREPAID",
		Amount:      decimal.NewFromInt(1000),
		Channel:     "paybill",
	}
	pre, err := p.Preprocess(tx)
	require.NoError(t, err)

	assert.Equal(t, "Kenya Power", pre.Merchant.Name)
	assert.Equal(t, models.MerchantUtility, pre.Merchant.Type)
	assert.InDelta(t, 0.95, pre.Merchant.Confidence, 1e-9)
	assert.Equal(t, "KES", pre.Payment.Currency)
	assert.Equal(t, "paybill", pre.Payment.Channel)
	assert.True(t, pre.Payment.Amount.Equal(decimal.NewFromInt(1000)))
}

func TestPreprocessKeywordReplacesWeakPatternGuess(t *testing.T) {
	weakPattern := models.MerchantRule{
		ID: "market", Name: "Open Market", MerchantType: models.MerchantRetail,
		Patterns:   []string{"MARKET"},
		CategoryID: "shopping", Confidence: 0.5, Active: true,
	}
	strongKeywords := models.MerchantRule{
		ID: "naivas", Name: "Naivas", MerchantType: models.MerchantRetail,
		Keywords:   []string{"naivas"},
		CategoryID: "groceries", Confidence: 0.9, Active: true,
	}
	p := newTestPreprocessor(t, weakPattern, strongKeywords)

	pre, err := p.Preprocess(models.TransactionRow{Description: "Naivas market branch"})
	require.NoError(t, err)
	// Pattern guess scored 0.5, below the decisive threshold, so the
	// keyword guess at 0.9 replaces it.
	assert.Equal(t, "Naivas", pre.Merchant.Name)
	assert.InDelta(t, 0.9, pre.Merchant.Confidence, 1e-9)
}

func TestPreprocessStrongPatternGuessSticks(t *testing.T) {
	pattern := kplcRule()
	keywordOnly := models.MerchantRule{
		ID: "tokens", Name: "Token Vendor",
		Keywords:   []string{"prepaid"},
		CategoryID: "misc", Confidence: 0.99, Active: true,
	}
	p := newTestPreprocessor(t, pattern, keywordOnly)

	pre, err := p.Preprocess(models.TransactionRow{Description: "KPLC PREPAID purchase"})
	require.NoError(t, err)
	// The pattern guess already cleared 0.8; keyword overlap is not
	// consulted even though it would score higher.
	assert.Equal(t, "Kenya Power", pre.Merchant.Name)
}

func TestPreprocessRecurring(t *testing.T) {
	p := newTestPreprocessor(t, kplcRule())

	pre, err := p.Preprocess(models.TransactionRow{Description: "KPLC PREPAID"})
	require.NoError(t, err)
	assert.True(t, pre.Payment.IsRecurring)
}

func TestPreprocessIrregularFrequencyNotRecurring(t *testing.T) {
	rule := kplcRule()
	rule.Frequency = models.FrequencyIrregular
	p := newTestPreprocessor(t, rule)

	pre, err := p.Preprocess(models.TransactionRow{Description: "KPLC PREPAID"})
	require.NoError(t, err)
	assert.False(t, pre.Payment.IsRecurring)
}

func TestPreprocessAggregateConfidenceCapped(t *testing.T) {
	p := newTestPreprocessor(t, kplcRule())

	// Merchant 0.95, transaction code bonus 0.1 and keyword bonuses would
	// push past 1.0; the aggregate is capped there.
	pre, err := p.Preprocess(models.TransactionRow{Description: "KPLC PREPAID TOKEN TDN7TZ7G9L"})
	require.NoError(t, err)
	assert.Equal(t, "TDN7TZ7G9L", pre.Patterns.TransactionCode)
	assert.Equal(t, 1.0, pre.Confidence)
}

func TestPreprocessConfidenceFromSignalsOnly(t *testing.T) {
	p := newTestPreprocessor(t)

	// No rule matches: merchant confidence is 0 and the aggregate is just
	// the keyword bonus (two keywords, 0.02 each).
	pre, err := p.Preprocess(models.TransactionRow{Description: "hello world"})
	require.NoError(t, err)
	assert.Empty(t, pre.Patterns.TransactionCode)
	assert.InDelta(t, 0.04, pre.Confidence, 1e-9)
}

func TestPreprocessFallsBackToParsedMerchant(t *testing.T) {
	p := newTestPreprocessor(t)

	pre, err := p.Preprocess(models.TransactionRow{
		Description: "Customer Transfer to 07XXXXX123 - JOHN DOE",
		Merchant:    "JOHN DOE",
	})
	require.NoError(t, err)
	assert.Equal(t, "JOHN DOE", pre.Merchant.Name)
	assert.Equal(t, models.MerchantOther, pre.Merchant.Type)
	assert.Zero(t, pre.Merchant.Confidence)
}

func TestPreprocessNormalizedDescription(t *testing.T) {
	p := newTestPreprocessor(t)

	pre, err := p.Preprocess(models.TransactionRow{
		Description: "Pay Bill to ACME Ltd KSh 1,200.00",
	})
	require.NoError(t, err)
	assert.Equal(t, "pay bill acme limited", pre.NormalizedDescription)
}
