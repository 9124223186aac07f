package parse

import (
	"testing"

	"github.com/peepalytics/statement-extractor/internal/models"
)

func TestMaskAccountNumber(t *testing.T) {
	tests := []struct {
		digits   string
		expected string
	}{
		{"1234567890", "*******890"},
		{"1234", "*234"},
		{"123", "**3"},
		{"12", "*2"},
		{"1", "1"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.digits, func(t *testing.T) {
			got := MaskAccountNumber(tt.digits)
			if got != tt.expected {
				t.Errorf("MaskAccountNumber(%q): got %q, want %q", tt.digits, got, tt.expected)
			}
		})
	}
}

// box builds an axis-aligned TextBox for test pages.
func box(text string, x, y float64) models.TextBox {
	return models.TextBox{
		Box: models.Polygon{
			{X: x, Y: y},
			{X: x + 100, Y: y},
			{X: x + 100, Y: y + 20},
			{X: x, Y: y + 20},
		},
		Text:       text,
		Confidence: 0.99,
	}
}

func TestAssemble(t *testing.T) {
	accountPage := models.PageOCR{
		box("Statement of Account", 10, 10),
		box("Account Number: 1234567890", 10, 50),
	}

	transactionPage := models.PageOCR{
		// Header row, must be skipped
		box("Date", 10, 10),
		box("Description", 150, 10),
		box("Balance", 400, 12),
		// First transaction, words out of order
		box("1,234.56", 400, 50),
		box("05", 10, 50),
		box("Jan", 40, 52),
		box("2024", 80, 51),
		box("POS", 150, 50),
		box("Purchase", 200, 49),
		// Second transaction with a split amount
		box("12", 10, 100),
		box("Feb", 40, 100),
		box("2024", 80, 101),
		box("Salary", 150, 99),
		box("1", 330, 100),
		box("500.00", 360, 100),
		box("2,000.00", 450, 101),
		box("15,000.00", 550, 100),
		// Summary row, must be skipped
		box("Total", 10, 150),
		box("18,734.56", 400, 150),
	}

	rec, stats := Assemble(accountPage, transactionPage, 10)

	if rec.MaskedAccountNumber == nil || *rec.MaskedAccountNumber != "*******890" {
		t.Errorf("masked account: got %v, want *******890", rec.MaskedAccountNumber)
	}

	if len(rec.Transactions) != 2 {
		t.Fatalf("expected 2 transactions, got %d", len(rec.Transactions))
	}

	first := rec.Transactions[0]
	if first.Date != "05-01-2024" || first.Description != "POS Purchase" {
		t.Errorf("first txn: got %q %q", first.Date, first.Description)
	}
	if got := amountString(first.Borrowings); got != "1234.56" {
		t.Errorf("first txn borrowings: got %q, want 1234.56", got)
	}

	second := rec.Transactions[1]
	if second.Date != "12-02-2024" || second.Description != "Salary" {
		t.Errorf("second txn: got %q %q", second.Date, second.Description)
	}
	if got := amountString(second.MoneyOut); got != "1500.00" {
		t.Errorf("second txn money out: got %q, want 1500.00", got)
	}
	if got := amountString(second.MoneyIn); got != "2000.00" {
		t.Errorf("second txn money in: got %q, want 2000.00", got)
	}
	if got := amountString(second.Borrowings); got != "15000.00" {
		t.Errorf("second txn borrowings: got %q, want 15000.00", got)
	}

	if rec.StartDate == nil || *rec.StartDate != "05-01-2024" {
		t.Errorf("start date: got %v, want 05-01-2024", rec.StartDate)
	}
	if rec.EndDate == nil || *rec.EndDate != "12-02-2024" {
		t.Errorf("end date: got %v, want 12-02-2024", rec.EndDate)
	}

	if stats.Transactions != 2 {
		t.Errorf("stats.Transactions: got %d, want 2", stats.Transactions)
	}
	if stats.SkippedKeyword != 2 {
		t.Errorf("stats.SkippedKeyword: got %d, want 2", stats.SkippedKeyword)
	}
}

func TestAssembleEmptyPages(t *testing.T) {
	rec, stats := Assemble(nil, nil, 10)

	if rec.MaskedAccountNumber != nil {
		t.Errorf("expected nil masked account, got %v", *rec.MaskedAccountNumber)
	}
	if len(rec.Transactions) != 0 {
		t.Errorf("expected no transactions, got %d", len(rec.Transactions))
	}
	if rec.StartDate != nil || rec.EndDate != nil {
		t.Error("expected nil period for empty statement")
	}
	if stats.Rows != 0 {
		t.Errorf("expected 0 rows, got %d", stats.Rows)
	}
}

func TestAssembleAccountNumberWithoutDigits(t *testing.T) {
	accountPage := models.PageOCR{
		box("Account Number: unknown", 10, 10),
	}
	rec, _ := Assemble(accountPage, nil, 10)
	if rec.MaskedAccountNumber != nil {
		t.Errorf("expected nil masked account for digitless text, got %q", *rec.MaskedAccountNumber)
	}
}
