package redact

import (
	"strings"
	"unicode/utf8"

	"github.com/peepalytics/statement-extractor/internal/models"
)

// substringMargin widens a located sub-box by this fraction of the source
// box width on each side. Redaction must over-cover, never under-cover.
const substringMargin = 0.05

// LocateSubstring computes a tight bounding polygon for a substring of a
// recognized text box. It returns false when the target is empty, the box
// text is empty, or the target is not a contiguous substring of the text.
//
// The horizontal extent is found by proportional interpolation over
// character index along the box's top edge. Statement fonts are close
// enough to monospaced for that to hold; where it does not, the margin
// absorbs the error. The original top/bottom y-coordinates are kept on
// both sides; no vertical sub-boxing is attempted.
func LocateSubstring(box models.TextBox, target string) (models.Polygon, bool) {
	if box.Text == "" || target == "" {
		return models.Polygon{}, false
	}
	byteIdx := strings.Index(box.Text, target)
	if byteIdx < 0 {
		return models.Polygon{}, false
	}

	start := utf8.RuneCountInString(box.Text[:byteIdx])
	length := utf8.RuneCountInString(target)
	total := utf8.RuneCountInString(box.Text)

	x1 := box.Box[0].X
	x2 := box.Box[1].X
	width := x2 - x1

	offsetStart := float64(start) / float64(total)
	offsetEnd := float64(start+length) / float64(total)

	margin := substringMargin * width
	startX := x1 + offsetStart*width - margin
	if startX < 0 {
		startX = 0
	}
	endX := x1 + offsetEnd*width + margin
	if endX > x2 {
		endX = x2
	}

	return models.Polygon{
		{X: startX, Y: box.Box[0].Y},
		{X: endX, Y: box.Box[1].Y},
		{X: endX, Y: box.Box[2].Y},
		{X: startX, Y: box.Box[3].Y},
	}, true
}
