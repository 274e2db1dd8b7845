package common

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wanjohi/mpesa-csv/internal/models"
)

func sampleTransactions() []models.TransactionRow {
	return []models.TransactionRow{
		{
			Reference:   "TDN7TZ7G9L",
			Timestamp:   time.Date(2025, 4, 23, 15, 44, 41, 0, time.UTC),
			Description: "Customer Transfer to 07XXXXX123 - Ian Otwona Akhulunya",
			Amount:      decimal.NewFromInt(5000),
			Type:        models.TypeExpense,
			Status:      models.StatusCompleted,
			Merchant:    "Ian Otwona Akhulunya",
			Channel:     "send_money",
		},
		{
			Reference:   "TDJ8EP0V12",
			Timestamp:   time.Date(2025, 4, 19, 9, 12, 3, 0, time.UTC),
			Description: "Funds received from 2547XXXXX - JANE WAMBUI",
			Amount:      decimal.NewFromFloat(140),
			Type:        models.TypeIncome,
			Status:      models.StatusCompleted,
			Merchant:    "JANE WAMBUI",
			Channel:     "receive_money",
			Category:    "income",
		},
	}
}

func TestWriteAndReadTransactionsCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.csv")

	require.NoError(t, WriteTransactionsToCSV(sampleTransactions(), path))

	rows, err := ReadTransactionsFromCSV(path)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, "TDN7TZ7G9L", rows[0].Reference)
	assert.True(t, rows[0].Amount.Equal(decimal.NewFromInt(5000)))
	assert.Equal(t, models.TypeExpense, rows[0].Type)
	assert.Equal(t, time.Date(2025, 4, 23, 15, 44, 41, 0, time.UTC), rows[0].Timestamp)
	assert.Equal(t, "income", rows[1].Category)
}

func TestWriteTransactionsDerivesDateColumn(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.csv")
	txs := []models.TransactionRow{{
		Reference: "TDA0AAAA01",
		Timestamp: time.Date(2025, 1, 1, 8, 30, 0, 0, time.UTC),
		Amount:    decimal.NewFromFloat(140.5),
		Type:      models.TypeIncome,
	}}

	require.NoError(t, WriteTransactionsToCSV(txs, path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "2025-01-01 08:30:00")
	assert.Contains(t, string(data), "140.5")
}

func TestWriteTransactionsNilInput(t *testing.T) {
	err := WriteTransactionsToCSV(nil, filepath.Join(t.TempDir(), "out.csv"))
	assert.Error(t, err)
}

func TestWriteTransactionsCustomDelimiter(t *testing.T) {
	SetDelimiter(';')
	defer SetDelimiter(',')

	path := filepath.Join(t.TempDir(), "out.csv")
	require.NoError(t, WriteTransactionsToCSV(sampleTransactions(), path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	header := strings.SplitN(string(data), "\n", 2)[0]
	assert.Contains(t, header, "Reference;Date;Description")
}

func TestReadTransactionsMissingFile(t *testing.T) {
	_, err := ReadTransactionsFromCSV(filepath.Join(t.TempDir(), "missing.csv"))
	assert.Error(t, err)
}
