package writer

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/peepalytics/statement-extractor/internal/models"
)

// WriteJSON writes the statement record as indented JSON to the given
// path. This is the shape the downstream record consumer reads:
// masked_account_number, start_date, end_date and the transaction list
// with amounts as numbers or null.
func WriteJSON(path string, rec *models.StatementRecord) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file %q: %w", path, err)
	}
	defer f.Close()

	return EncodeJSON(f, rec)
}

// EncodeJSON writes the statement record as indented JSON to the writer.
func EncodeJSON(out io.Writer, rec *models.StatementRecord) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(rec); err != nil {
		return fmt.Errorf("failed to encode statement record: %w", err)
	}
	return nil
}
