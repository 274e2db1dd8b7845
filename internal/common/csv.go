// Package common provides shared CSV read/write helpers used by the CLI
// commands.
package common

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gocarina/gocsv"

	"wanjohi/mpesa-csv/internal/logging"
	"wanjohi/mpesa-csv/internal/models"
)

var log = logging.GetLogger()

// Delimiter is the CSV output delimiter, configurable via SetDelimiter or
// the CSV_DELIMITER environment variable.
var Delimiter rune = ','

// dateLayout is the statement-local date format used in CSV output.
const dateLayout = "2006-01-02 15:04:05"

func init() {
	if val := os.Getenv("CSV_DELIMITER"); val != "" {
		SetDelimiter([]rune(val)[0])
	}
}

// SetDelimiter sets the delimiter for CSV output.
func SetDelimiter(delim rune) {
	Delimiter = delim
	gocsv.TagSeparator = fmt.Sprintf("%c", delim)
}

// SetLogger injects a configured logger.
func SetLogger(logger logging.Logger) {
	if logger == nil {
		return
	}
	log = logger
}

// ReadTransactionsFromCSV reads a previously exported transaction CSV back
// into rows, restoring the Timestamp from the Date column.
func ReadTransactionsFromCSV(filePath string) ([]models.TransactionRow, error) {
	log.Info("Reading transactions CSV", logging.Field{Key: logging.FieldFile, Value: filePath})

	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("error opening CSV file: %w", err)
	}
	defer func() {
		if err := file.Close(); err != nil {
			log.WithError(err).Warn("Failed to close file")
		}
	}()

	var rows []models.TransactionRow
	if err := gocsv.UnmarshalFile(file, &rows); err != nil {
		return nil, fmt.Errorf("error parsing CSV file: %w", err)
	}
	for i := range rows {
		if rows[i].Date != "" {
			if ts, err := parseDate(rows[i].Date); err == nil {
				rows[i].Timestamp = ts
			}
		}
	}

	log.Info("Read transactions CSV",
		logging.Field{Key: logging.FieldCount, Value: len(rows)})
	return rows, nil
}

// WriteTransactionsToCSV writes transactions to a CSV file. Amounts are
// fixed to two decimals and the Date column is derived from the Timestamp.
func WriteTransactionsToCSV(transactions []models.TransactionRow, csvFile string) error {
	if transactions == nil {
		return fmt.Errorf("cannot write nil transactions to CSV")
	}

	log.Info("Writing transactions to CSV file",
		logging.Field{Key: logging.FieldOutputFile, Value: csvFile},
		logging.Field{Key: logging.FieldCount, Value: len(transactions)})

	if dir := filepath.Dir(csvFile); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return fmt.Errorf("error creating directory: %w", err)
		}
	}

	file, err := os.Create(csvFile)
	if err != nil {
		return fmt.Errorf("error creating CSV file: %w", err)
	}
	defer func() {
		if err := file.Close(); err != nil {
			log.WithError(err).Warn("Failed to close file")
		}
	}()

	for i := range transactions {
		if !transactions[i].Timestamp.IsZero() {
			transactions[i].Date = transactions[i].Timestamp.Format(dateLayout)
		}
		transactions[i].Amount = models.ParseAmount(transactions[i].Amount.StringFixed(2))
	}

	csvWriter := csv.NewWriter(file)
	csvWriter.Comma = Delimiter
	if err := gocsv.MarshalCSV(&transactions, gocsv.NewSafeCSVWriter(csvWriter)); err != nil {
		return fmt.Errorf("error writing CSV data: %w", err)
	}

	log.Info("Wrote transactions to CSV file",
		logging.Field{Key: logging.FieldOutputFile, Value: csvFile},
		logging.Field{Key: logging.FieldCount, Value: len(transactions)})
	return nil
}

func parseDate(s string) (t time.Time, err error) {
	return time.Parse(dateLayout, s)
}
