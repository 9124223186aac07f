package parse

import (
	"strings"
	"time"

	"github.com/peepalytics/statement-extractor/internal/models"
)

// Stats counts what happened to each grouped row during assembly. The
// counts are informational; skipped rows are routine, not failures.
type Stats struct {
	Rows           int
	Transactions   int
	SkippedKeyword int
	NoAmounts      int
	NoDate         int
}

// extractDigits keeps only the digit characters of s.
func extractDigits(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// MaskAccountNumber masks all but the last three digits of an account
// number with '*'. Digit strings of three or fewer keep only their last
// digit, so the unmasked suffix never exceeds three characters and the
// mask length is never negative. An empty string masks to an empty string.
func MaskAccountNumber(digits string) string {
	if digits == "" {
		return ""
	}
	keep := 3
	if len(digits) <= 3 {
		keep = 1
	}
	return strings.Repeat("*", len(digits)-keep) + digits[len(digits)-keep:]
}

// findAccountNumber scans a page's boxes for one mentioning "account
// number" and returns the masked digit string, or nil when no box matches.
func findAccountNumber(page models.PageOCR) *string {
	for _, box := range page {
		if strings.Contains(strings.ToLower(box.Text), "account number") {
			digits := extractDigits(box.Text)
			if digits == "" {
				return nil
			}
			masked := MaskAccountNumber(digits)
			return &masked
		}
	}
	return nil
}

// Assemble builds a statement record from the account-information page and
// the transaction-table page. Rows are grouped by vertical proximity,
// repaired for split amounts, parsed in top-to-bottom page order, and the
// statement period is derived as the min/max over transaction dates.
func Assemble(accountPage, transactionPage models.PageOCR, rowThreshold float64) (*models.StatementRecord, Stats) {
	rec := &models.StatementRecord{
		MaskedAccountNumber: findAccountNumber(accountPage),
	}

	words := make([]models.WordObservation, 0, len(transactionPage))
	for _, box := range transactionPage {
		w := box.Word()
		w.Text = strings.TrimSpace(w.Text)
		if w.Text == "" {
			continue
		}
		words = append(words, w)
	}

	var stats Stats
	for _, row := range GroupRows(words, rowThreshold) {
		stats.Rows++
		txn, outcome := ParseRow(MergeNumberParts(row.Texts()))
		switch outcome {
		case RowTransaction:
			stats.Transactions++
			rec.Transactions = append(rec.Transactions, txn)
		case RowSkippedKeyword:
			stats.SkippedKeyword++
		case RowNoAmounts:
			stats.NoAmounts++
		case RowNoDate:
			stats.NoDate++
		}
	}

	rec.StartDate, rec.EndDate = statementPeriod(rec.Transactions)
	return rec, stats
}

// statementPeriod returns the earliest and latest transaction dates, or
// nils for an empty transaction list.
func statementPeriod(txns []models.Transaction) (start, end *string) {
	var min, max time.Time
	for _, txn := range txns {
		t, err := time.Parse(outputDateLayout, txn.Date)
		if err != nil {
			continue
		}
		if min.IsZero() || t.Before(min) {
			min = t
		}
		if max.IsZero() || t.After(max) {
			max = t
		}
	}
	if min.IsZero() {
		return nil, nil
	}
	s := min.Format(outputDateLayout)
	e := max.Format(outputDateLayout)
	return &s, &e
}
