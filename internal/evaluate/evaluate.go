// Package evaluate scores OCR predictions against a ground-truth
// statement record using fuzzy field matching.
package evaluate

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/peepalytics/statement-extractor/internal/models"
	"github.com/peepalytics/statement-extractor/internal/ocr"
)

// MatchThreshold is the minimum similarity ratio for two normalized
// strings to count as the same field.
const MatchThreshold = 0.95

// Report holds the scoring result for one page's predictions.
type Report struct {
	Matched     int
	Predicted   int
	GroundTruth int
	Precision   float64
	Recall      float64
	F1          float64
}

// Normalize lowercases, trims and strips commas so that formatting
// noise does not defeat field comparison.
func Normalize(v string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(v)), ",", "")
}

// Ratio returns the similarity of two normalized strings as
// 1 - distance/maxLen over the Levenshtein distance, in [0, 1].
func Ratio(a, b string) float64 {
	a = Normalize(a)
	b = Normalize(b)
	if a == b {
		return 1
	}
	maxLen := len([]rune(a))
	if l := len([]rune(b)); l > maxLen {
		maxLen = l
	}
	if maxLen == 0 {
		return 1
	}
	dist := fuzzy.LevenshteinDistance(a, b)
	return 1 - float64(dist)/float64(maxLen)
}

// Match reports whether two field values are fuzzily equal at the
// standard threshold.
func Match(a, b string) bool {
	return Ratio(a, b) >= MatchThreshold
}

// Fields flattens a statement record into the ordered list of scoreable
// field values: masked account number, period bounds, then per
// transaction its date, description and whichever amounts are set.
func Fields(rec models.StatementRecord) []string {
	var fields []string
	fields = append(fields, deref(rec.MaskedAccountNumber))
	fields = append(fields, deref(rec.StartDate))
	fields = append(fields, deref(rec.EndDate))

	for _, txn := range rec.Transactions {
		fields = append(fields, txn.Date, txn.Description)
		for _, amt := range []*models.Amount{txn.MoneyOut, txn.MoneyIn, txn.Borrowings} {
			if amt != nil {
				fields = append(fields, amt.StringFixed(2))
			}
		}
	}
	return fields
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// Score greedily matches ground-truth fields against predicted strings,
// one-to-one, so each prediction is usable at most once, and computes
// precision, recall and F1 over the flattened field lists.
func Score(groundTruth, predicted []string) Report {
	r := Report{GroundTruth: len(groundTruth), Predicted: len(predicted)}

	usedPred := make(map[int]bool)
	for _, gt := range groundTruth {
		for j, pred := range predicted {
			if usedPred[j] {
				continue
			}
			if Match(gt, pred) {
				r.Matched++
				usedPred[j] = true
				break
			}
		}
	}

	if r.Predicted > 0 {
		r.Precision = float64(r.Matched) / float64(r.Predicted)
	}
	if r.GroundTruth > 0 {
		r.Recall = float64(r.Matched) / float64(r.GroundTruth)
	}
	if r.Precision+r.Recall > 0 {
		r.F1 = 2 * r.Precision * r.Recall / (r.Precision + r.Recall)
	}
	return r
}

// EvaluateFiles scores an OCR prediction file against a ground-truth
// record file (the StatementRecord JSON shape).
func EvaluateFiles(gtPath, predPath string) (Report, error) {
	gtData, err := os.ReadFile(gtPath)
	if err != nil {
		return Report{}, fmt.Errorf("reading ground truth: %w", err)
	}
	var rec models.StatementRecord
	if err := json.Unmarshal(gtData, &rec); err != nil {
		return Report{}, fmt.Errorf("parsing ground truth %s: %w", gtPath, err)
	}

	page, err := ocr.LoadResultFile(predPath)
	if err != nil {
		return Report{}, err
	}
	var predicted []string
	for _, box := range page {
		if strings.TrimSpace(box.Text) != "" {
			predicted = append(predicted, box.Text)
		}
	}

	return Score(Fields(rec), predicted), nil
}
