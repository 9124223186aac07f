package redact

import (
	"testing"

	"github.com/peepalytics/statement-extractor/internal/models"
)

func textBox(text string, x1, y1, x2, y2 float64) models.TextBox {
	return models.TextBox{
		Box: models.Polygon{
			{X: x1, Y: y1},
			{X: x2, Y: y1},
			{X: x2, Y: y2},
			{X: x1, Y: y2},
		},
		Text:       text,
		Confidence: 0.98,
	}
}

func TestLocateSubstringNoMatch(t *testing.T) {
	box := textBox("Account Number: 1234567890", 100, 50, 600, 80)

	tests := []struct {
		name   string
		box    models.TextBox
		target string
	}{
		{"empty target", box, ""},
		{"empty box text", textBox("", 100, 50, 600, 80), "123"},
		{"target not a substring", box, "9999"},
		{"non-contiguous target", box, "Account 1234"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, ok := LocateSubstring(tt.box, tt.target); ok {
				t.Error("expected no match")
			}
		})
	}
}

func TestLocateSubstringBounds(t *testing.T) {
	// For any contained substring the located polygon must stay within
	// [x1 - margin, x2] horizontally and keep the box's y-range exactly.
	box := textBox("Account Number: 1234567890", 100, 50, 600, 80)
	width := 500.0
	margin := substringMargin * width

	targets := []string{"1234567890", "Account", "Number", "0", "Account Number: 1234567890"}
	for _, target := range targets {
		t.Run(target, func(t *testing.T) {
			poly, ok := LocateSubstring(box, target)
			if !ok {
				t.Fatalf("expected match for %q", target)
			}

			if poly[0].X < 100-margin || poly[1].X > 600 {
				t.Errorf("x-range [%f, %f] outside [%f, 600]", poly[0].X, poly[1].X, 100-margin)
			}
			if poly[0].X >= poly[1].X {
				t.Errorf("degenerate polygon: start %f >= end %f", poly[0].X, poly[1].X)
			}
			if poly[0].Y != 50 || poly[1].Y != 50 || poly[2].Y != 80 || poly[3].Y != 80 {
				t.Errorf("y-coordinates changed: %v", poly)
			}
			// Left and right edges are vertical
			if poly[0].X != poly[3].X || poly[1].X != poly[2].X {
				t.Errorf("edges not vertical: %v", poly)
			}
		})
	}
}

func TestLocateSubstringProportional(t *testing.T) {
	// A target in the second half of the text must sit in the right
	// half of the box (minus margin slack).
	box := textBox("abcdefghij", 0, 0, 100, 20)

	poly, ok := LocateSubstring(box, "ghij")
	if !ok {
		t.Fatal("expected match")
	}
	// "ghij" starts at character 6 of 10, so 60% across, minus the 5% margin.
	if poly[0].X != 55 {
		t.Errorf("start x: got %f, want 55", poly[0].X)
	}
	// Ends at the box edge: 100% across plus margin, clamped to x2.
	if poly[1].X != 100 {
		t.Errorf("end x: got %f, want 100", poly[1].X)
	}
}

func TestLocateSubstringClampsAtZero(t *testing.T) {
	// A box flush against the left image edge cannot produce negative
	// coordinates.
	box := textBox("1234 account", 0, 0, 100, 20)
	poly, ok := LocateSubstring(box, "1234")
	if !ok {
		t.Fatal("expected match")
	}
	if poly[0].X < 0 {
		t.Errorf("start x went negative: %f", poly[0].X)
	}
}
