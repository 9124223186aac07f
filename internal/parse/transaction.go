package parse

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/peepalytics/statement-extractor/internal/models"
)

// RowOutcome tags what ParseRow did with a row, so callers can distinguish
// "deliberately absent" from "malformed and dropped" without relying on
// error values for control flow.
type RowOutcome int

const (
	// RowTransaction means the row produced a valid transaction.
	RowTransaction RowOutcome = iota
	// RowSkippedKeyword means the row matched a header/footer/summary keyword.
	RowSkippedKeyword
	// RowNoAmounts means no token parsed as a numeric amount.
	RowNoAmounts
	// RowNoDate means the row had amounts but its leading token(s) did not
	// parse as a date. Such rows are dropped: the statement period is
	// derived from transaction dates, so undated entries never enter the
	// transaction list.
	RowNoDate
)

func (o RowOutcome) String() string {
	switch o {
	case RowTransaction:
		return "transaction"
	case RowSkippedKeyword:
		return "skipped-keyword"
	case RowNoAmounts:
		return "no-amounts"
	case RowNoDate:
		return "no-date"
	}
	return "unknown"
}

// Tokens matching any of these (case-insensitive, whole token) mark
// header, footer and summary rows, which are never transactions.
var skipKeywords = map[string]bool{
	"close":    true,
	"date":     true,
	"total":    true,
	"interest": true,
	"charges":  true,
}

// Statement dates print as "05 Jan 2024"; transactions re-render them
// as dd-mm-yyyy.
const (
	statementDateLayout = "2 Jan 2006"
	outputDateLayout    = "02-01-2006"
)

// parseAmount converts a token like "1,234.56" or "$25.99" to a decimal.
// The second return reports whether the token is numeric at all; a false
// means "not an amount column", not an error.
func parseAmount(s string) (decimal.Decimal, bool) {
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, ",", "")
	s = strings.ReplaceAll(s, "$", "")
	if s == "" {
		return decimal.Decimal{}, false
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, false
	}
	return d, true
}

// parseRowDate tries to read a date from the front of the token list.
// OCR may deliver "05 Jan 2024" as one token or as three; both forms are
// accepted. Returns the rendered dd-mm-yyyy date and how many tokens the
// date consumed, or consumed == 0 on failure.
func parseRowDate(tokens []string) (string, int) {
	if len(tokens) == 0 {
		return "", 0
	}
	if t, err := time.Parse(statementDateLayout, tokens[0]); err == nil {
		return t.Format(outputDateLayout), 1
	}
	if len(tokens) >= 3 {
		joined := tokens[0] + " " + tokens[1] + " " + tokens[2]
		if t, err := time.Parse(statementDateLayout, joined); err == nil {
			return t.Format(outputDateLayout), 3
		}
	}
	return "", 0
}

// ParseRow classifies a merged token row into a transaction.
//
// Amounts are taken from the tokens after the date; when three or more
// parse as numbers the last three become (money out, money in, borrowings),
// two become (money out, borrowings), one becomes borrowings alone. Rows
// with more than three numeric tokens keep only the last three; earlier
// numerics fold into the description, which can misattribute columns on
// malformed rows.
func ParseRow(tokens []string) (models.Transaction, RowOutcome) {
	for _, t := range tokens {
		if skipKeywords[strings.ToLower(t)] {
			return models.Transaction{}, RowSkippedKeyword
		}
	}

	date, consumed := parseRowDate(tokens)
	rest := tokens[consumed:]

	var amounts []decimal.Decimal
	for _, t := range rest {
		if d, ok := parseAmount(t); ok {
			amounts = append(amounts, d)
		}
	}
	if len(amounts) == 0 {
		return models.Transaction{}, RowNoAmounts
	}
	if date == "" {
		return models.Transaction{}, RowNoDate
	}

	txn := models.Transaction{Date: date}

	// Amount tokens sit at the right edge of the row; everything between
	// the date and the numeric suffix is the description.
	descEnd := len(rest) - len(amounts)
	if descEnd < 0 {
		descEnd = 0
	}
	txn.Description = strings.TrimSpace(strings.Join(rest[:descEnd], " "))

	switch {
	case len(amounts) >= 3:
		last := amounts[len(amounts)-3:]
		txn.MoneyOut = models.NewAmount(last[0])
		txn.MoneyIn = models.NewAmount(last[1])
		txn.Borrowings = models.NewAmount(last[2])
	case len(amounts) == 2:
		txn.MoneyOut = models.NewAmount(amounts[0])
		txn.Borrowings = models.NewAmount(amounts[1])
	default:
		txn.Borrowings = models.NewAmount(amounts[0])
	}

	return txn, RowTransaction
}
