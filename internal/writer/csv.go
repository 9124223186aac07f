package writer

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"

	"github.com/peepalytics/statement-extractor/internal/models"
)

// CSVWriter writes statement transactions to CSV in the column layout the
// transaction dashboard consumes: date, description, money_out, money_in,
// borrowings. Unset amounts become empty cells.
type CSVWriter struct {
	IncludeHeader bool
}

// WriteToFile writes the statement's transactions to a CSV file at the
// given path.
func (w *CSVWriter) WriteToFile(path string, rec *models.StatementRecord) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file %q: %w", path, err)
	}
	defer f.Close()

	return w.Write(f, rec)
}

// Write writes the statement in CSV format to the given writer.
func (w *CSVWriter) Write(out io.Writer, rec *models.StatementRecord) error {
	writer := csv.NewWriter(out)
	defer writer.Flush()

	// Metadata as comment rows ahead of the table
	if w.IncludeHeader {
		if rec.MaskedAccountNumber != nil {
			writer.Write([]string{"# Account Number", *rec.MaskedAccountNumber})
		}
		if rec.StartDate != nil && rec.EndDate != nil {
			writer.Write([]string{"# Statement Period", *rec.StartDate + " to " + *rec.EndDate})
		}
	}

	header := []string{"date", "description", "money_out", "money_in", "borrowings"}
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, txn := range rec.Transactions {
		row := []string{
			txn.Date,
			txn.Description,
			formatAmount(txn.MoneyOut),
			formatAmount(txn.MoneyIn),
			formatAmount(txn.Borrowings),
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	return nil
}

func formatAmount(amt *models.Amount) string {
	if amt == nil {
		return ""
	}
	return amt.StringFixed(2)
}
