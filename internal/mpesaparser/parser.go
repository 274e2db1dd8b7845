// Package mpesaparser recognizes and decodes transaction rows from extracted
// M-PESA statement text, and collapses duplicate/split rows into one
// canonical transaction per real-world event.
package mpesaparser

import (
	"fmt"
	"io"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"wanjohi/mpesa-csv/internal/logging"
	"wanjohi/mpesa-csv/internal/models"
	"wanjohi/mpesa-csv/internal/parsererror"
	"wanjohi/mpesa-csv/internal/pdfextract"
)

var log = logging.GetLogger()

// SetLogger allows setting a configured logger.
func SetLogger(logger logging.Logger) {
	if logger != nil {
		log = logger
	}
}

// Parse extracts and parses transaction rows from a PDF statement stream
// using the given extractor and template id. Rows are cleaned and
// deduplicated before being returned, newest first.
func Parse(r io.Reader, extractor pdfextract.Extractor, templateID string) ([]models.TransactionRow, *parsererror.ParseReport, error) {
	tpl, err := LookupTemplate(templateID)
	if err != nil {
		return nil, nil, err
	}

	text, err := pdfextract.ExtractTextFromReader(r, extractor)
	if err != nil {
		return nil, nil, err
	}

	rows, report := ParseStatement(text, tpl)
	canonical := Cleanup(rows)
	SortNewestFirst(canonical)

	log.Info("Parsed statement",
		logging.Field{Key: logging.FieldTemplate, Value: templateID},
		logging.Field{Key: logging.FieldCount, Value: len(canonical)})

	return canonical, report, nil
}

var blankLinesRe = regexp.MustCompile(`\n{2,}`)

// ParseStatement parses raw statement text into transaction rows.
// Row-level failures are recorded in the report and never abort the
// statement; partial success is the expected steady state.
func ParseStatement(text string, tpl *Template) ([]models.TransactionRow, *parsererror.ParseReport) {
	report := &parsererror.ParseReport{}
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = blankLinesRe.ReplaceAllString(text, "\n")

	var rows []models.TransactionRow
	for i, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		// A line is a transaction candidate iff it carries both a receipt
		// reference and a timestamp. Loosening either side lets page
		// headers and footers through.
		if !tpl.Reference.MatchString(line) || !tpl.Timestamp.MatchString(line) {
			continue
		}

		row, err := parseLine(line, i+1, tpl)
		if err != nil {
			log.WithError(err).Debug("Skipping malformed row")
			report.Record(err)
			continue
		}
		report.Parsed++
		rows = append(rows, row)
	}
	return rows, report
}

func parseLine(line string, lineNum int, tpl *Template) (models.TransactionRow, error) {
	var row models.TransactionRow

	rowErr := func(field string, err error) (models.TransactionRow, error) {
		snippet := line
		if len(snippet) > 60 {
			snippet = snippet[:60]
		}
		return models.TransactionRow{}, &parsererror.RowError{Line: lineNum, Field: field, Snippet: snippet, Err: err}
	}

	row.Reference = tpl.Reference.FindString(line)
	if row.Reference == "" {
		return rowErr("reference", fmt.Errorf("no receipt code"))
	}

	tsLoc := tpl.Timestamp.FindStringIndex(line)
	if tsLoc == nil {
		return rowErr("timestamp", fmt.Errorf("no timestamp"))
	}
	ts, err := time.Parse(tpl.TimeLayout, line[tsLoc[0]:tsLoc[1]])
	if err != nil {
		return rowErr("timestamp", err)
	}
	row.Timestamp = ts
	row.Date = ts.Format("2006-01-02 15:04:05")

	stLoc := tpl.Status.FindStringIndex(line)
	if stLoc == nil {
		return rowErr("status", fmt.Errorf("no status keyword"))
	}
	row.Status = models.ParseStatus(line[stLoc[0]:stLoc[1]])

	// The description is whatever sits between the timestamp and the
	// status keyword.
	if stLoc[0] > tsLoc[1] {
		row.Description = strings.TrimSpace(line[tsLoc[1]:stLoc[0]])
	}

	amounts := tpl.Amount.FindAllString(line[stLoc[1]:], -1)
	if len(amounts) == 0 {
		return rowErr("amount", fmt.Errorf("no amount columns"))
	}

	values := make([]decimal.Decimal, len(amounts))
	for i, a := range amounts {
		values[i] = models.ParseAmount(a)
	}

	if len(values) >= 3 {
		// The last value is the running balance; the two before it are the
		// paid-in and withdrawn columns.
		paidIn := values[len(values)-3]
		withdrawn := values[len(values)-2]
		row.Amount, row.Type = resolveColumns(paidIn, withdrawn, row.Description)
	} else {
		// Only one amount (plus, possibly, the balance): direction comes
		// from keyword rules on the description.
		row.Amount = values[0]
		row.Type = typeFromKeywords(row.Description)
	}

	row.Merchant, row.Channel, row.ChannelCode = extractMerchant(row.Description)
	return row, nil
}

// resolveColumns decides amount and direction from the paid-in/withdrawn
// column pair. Exactly one of the two is nonzero on a clean row. Both
// nonzero should not happen in clean statements; the defensive behavior of
// picking the larger is preserved from the statement layouts observed in the
// wild rather than asserted as correct.
func resolveColumns(paidIn, withdrawn decimal.Decimal, desc string) (decimal.Decimal, models.TxType) {
	switch {
	case paidIn.IsPositive() && withdrawn.IsZero():
		return paidIn, models.TypeIncome
	case withdrawn.IsPositive() && paidIn.IsZero():
		return withdrawn, models.TypeExpense
	case paidIn.GreaterThan(withdrawn):
		return paidIn, models.TypeIncome
	default:
		return withdrawn, models.TypeExpense
	}
}

var incomeKeywordsRe = regexp.MustCompile(`(?i)\breceived\b|\bfunds received\b|\bdeposit\b|\bpayment from\b`)

func typeFromKeywords(desc string) models.TxType {
	if incomeKeywordsRe.MatchString(desc) {
		return models.TypeIncome
	}
	return models.TypeExpense
}

// SortNewestFirst orders transactions by timestamp, newest first. Cleanup
// does not guarantee order, so callers that need chronology sort explicitly.
func SortNewestFirst(rows []models.TransactionRow) {
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].Timestamp.After(rows[j].Timestamp)
	})
}
