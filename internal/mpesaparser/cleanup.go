package mpesaparser

import (
	"regexp"

	"wanjohi/mpesa-csv/internal/logging"
	"wanjohi/mpesa-csv/internal/models"
)

var (
	primaryRowRe    = regexp.MustCompile(`(?i)transfer to|pay\s?bill|merchant payment|business payment|funds received|customer transfer`)
	overdraftRowRe  = regexp.MustCompile(`(?i)overdraft|od loan|fuliza`)
	chargeRowRe     = regexp.MustCompile(`(?i)charge|fee`)
	literalAmountRe = regexp.MustCompile(`\d{1,3}(?:,\d{3})*\.\d{2}`)
)

// Cleanup collapses raw rows into one canonical transaction per real-world
// event. Rows sharing a reference (a transfer and its fee or overdraft legs)
// resolve to a single row by a deterministic priority; rows without a
// reference pass through unchanged. Output order is not guaranteed.
func Cleanup(rows []models.TransactionRow) []models.TransactionRow {
	groups := make(map[string][]models.TransactionRow)
	var order []string
	var noRef []models.TransactionRow

	for _, row := range rows {
		if row.Reference == "" {
			noRef = append(noRef, row)
			continue
		}
		if _, ok := groups[row.Reference]; !ok {
			order = append(order, row.Reference)
		}
		groups[row.Reference] = append(groups[row.Reference], row)
	}

	out := make([]models.TransactionRow, 0, len(order)+len(noRef))
	for _, ref := range order {
		group := groups[ref]
		if len(group) == 1 {
			out = append(out, repairAmount(group[0]))
			continue
		}
		out = append(out, resolveGroup(group))
	}
	return append(out, noRef...)
}

// repairAmount patches a zero-amount single row from a literal amount string
// embedded in its description. This is a narrow heuristic kept for specific
// statement layouts, not a general rule.
func repairAmount(row models.TransactionRow) models.TransactionRow {
	if !row.Amount.IsZero() {
		return row
	}
	if m := literalAmountRe.FindString(row.Description); m != "" {
		row.Amount = models.ParseAmount(m)
		log.Debug("Repaired zero amount from description",
			logging.Field{Key: "reference", Value: row.Reference})
	}
	return row
}

// resolveGroup picks the canonical row for a multi-row reference group.
// Priority: the primary transfer/payment/bill row, then an overdraft row
// with a positive amount, then a charge/fee row, then the first row. The
// scan is over the stable input order, so the choice is deterministic.
func resolveGroup(group []models.TransactionRow) models.TransactionRow {
	if primary, ok := findPrimary(group); ok {
		if primary.Amount.IsZero() {
			if od, ok := findRow(group, overdraftRowRe); ok && od.Amount.IsPositive() {
				primary.Amount = od.Amount
			}
		}
		return primary
	}

	if od, ok := findRow(group, overdraftRowRe); ok && od.Amount.IsPositive() {
		return od
	}

	if charge, ok := findRow(group, chargeRowRe); ok {
		return charge
	}

	return group[0]
}

// findPrimary locates the row describing the primary event. A fee or
// overdraft leg repeats the transfer verb ("Customer Transfer of Funds
// Charge"), so those are excluded even when the verb pattern hits.
func findPrimary(group []models.TransactionRow) (models.TransactionRow, bool) {
	for _, row := range group {
		if primaryRowRe.MatchString(row.Description) &&
			!chargeRowRe.MatchString(row.Description) &&
			!overdraftRowRe.MatchString(row.Description) {
			return row, true
		}
	}
	return models.TransactionRow{}, false
}

func findRow(group []models.TransactionRow, re *regexp.Regexp) (models.TransactionRow, bool) {
	for _, row := range group {
		if re.MatchString(row.Description) {
			return row, true
		}
	}
	return models.TransactionRow{}, false
}
