package parse

import (
	"regexp"
	"sort"

	"github.com/peepalytics/statement-extractor/internal/models"
)

// DefaultRowThreshold is the vertical gap (in pixel units at the OCR
// engine's rendering resolution) above which two observations are placed
// in separate rows. Tuned for 300 DPI; pass a different value through
// config when rendering at another resolution.
const DefaultRowThreshold = 10.0

// Row is an ordered sequence of word observations sharing a vertical band,
// sorted left to right. Rows are transient: they exist only between
// grouping and transaction parsing.
type Row []models.WordObservation

// Texts returns the row's token strings in reading order.
func (r Row) Texts() []string {
	texts := make([]string, len(r))
	for i, w := range r {
		texts[i] = w.Text
	}
	return texts
}

// GroupRows clusters unordered word observations into physical text rows.
//
// Observations are sorted by vertical center, then split greedily: a new
// row starts whenever the gap from the previous observation's y meets or
// exceeds the threshold. This is single-linkage clustering along one axis,
// not a true 2D row detector; a threshold too small splits one physical
// row, too large merges adjacent rows. Within each row, observations are
// re-sorted by x to restore the left-to-right order lost during grouping.
func GroupRows(words []models.WordObservation, threshold float64) []Row {
	if len(words) == 0 {
		return nil
	}

	sorted := make([]models.WordObservation, len(words))
	copy(sorted, words)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Y < sorted[j].Y
	})

	var rows []Row
	current := Row{sorted[0]}
	lastY := sorted[0].Y
	for _, w := range sorted[1:] {
		if abs(w.Y-lastY) < threshold {
			current = append(current, w)
		} else {
			rows = append(rows, current)
			current = Row{w}
		}
		lastY = w.Y
	}
	rows = append(rows, current)

	for _, row := range rows {
		sort.SliceStable(row, func(i, j int) bool {
			return row[i].X < row[j].X
		})
	}
	return rows
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

// OCR splits amounts at the thousand separator, e.g. "1,234.56" arrives as
// "1" followed by "234.56". These two patterns identify such a pair.
var (
	splitNumberHead = regexp.MustCompile(`^\d{1,3}$`)
	splitNumberTail = regexp.MustCompile(`^\d{3}\.\d{2}$`)
)

// MergeNumberParts repairs thousand-separator splits in a row's tokens.
// Only one merge depth is attempted, no chaining across three or more
// fragments, which covers amounts up to 999,999.99 as seen in practice.
// The function is idempotent: a merged token no longer matches either
// fragment pattern.
func MergeNumberParts(tokens []string) []string {
	merged := make([]string, 0, len(tokens))
	for i := 0; i < len(tokens); i++ {
		if i+1 < len(tokens) &&
			splitNumberHead.MatchString(tokens[i]) &&
			splitNumberTail.MatchString(tokens[i+1]) {
			merged = append(merged, tokens[i]+","+tokens[i+1])
			i++
			continue
		}
		merged = append(merged, tokens[i])
	}
	return merged
}
