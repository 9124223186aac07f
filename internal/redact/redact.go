package redact

import (
	"fmt"
	"image"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/fogleman/gg"

	"github.com/peepalytics/statement-extractor/internal/models"
)

var representativePattern = regexp.MustCompile(`(?i)your\s+representative\s*[:\-]?\s*(.+)`)

// AccountNumberTargets finds redaction targets for account numbers: boxes
// whose text mentions "account number" yield a sub-polygon around the
// digit string. Boxes where the digits are not a contiguous substring of
// the text (OCR inserted spacing inside the number) produce no target;
// that is a locator miss, not a failure.
func AccountNumberTargets(page models.PageOCR) []models.RedactionTarget {
	var targets []models.RedactionTarget
	for _, box := range page {
		if !strings.Contains(strings.ToLower(box.Text), "account number") {
			continue
		}
		digits := digitsOf(box.Text)
		if digits == "" {
			continue
		}
		if poly, ok := LocateSubstring(box, digits); ok {
			targets = append(targets, models.RedactionTarget{Polygon: poly, Source: box})
		}
	}
	return targets
}

// RepresentativeTargets finds redaction targets for representative names:
// boxes matching "your representative: <name>" yield a sub-polygon around
// the captured name.
func RepresentativeTargets(page models.PageOCR) []models.RedactionTarget {
	var targets []models.RedactionTarget
	for _, box := range page {
		m := representativePattern.FindStringSubmatch(box.Text)
		if m == nil {
			continue
		}
		name := strings.TrimSpace(m[1])
		if poly, ok := LocateSubstring(box, name); ok {
			targets = append(targets, models.RedactionTarget{Polygon: poly, Source: box})
		}
	}
	return targets
}

func digitsOf(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// PageTargets collects every redaction target for one page.
func PageTargets(page models.PageOCR) []models.RedactionTarget {
	return append(AccountNumberTargets(page), RepresentativeTargets(page)...)
}

// RedactPages paints solid black over every redaction target found on each
// page and writes every page, redacted or not, to
// {outputDir}/page_{n}_redacted.jpg, 1-indexed in input order. The input
// images are never modified; painting happens on a copy. The returned
// slice is one-to-one with the input pages.
//
// A page with zero targets is a no-op, not a skip: its original image is
// still written to the output path.
func RedactPages(images []image.Image, pages []models.PageOCR, outputDir string) ([]image.Image, error) {
	if len(images) != len(pages) {
		return nil, fmt.Errorf("page count mismatch: %d images, %d OCR results", len(images), len(pages))
	}

	out := make([]image.Image, 0, len(images))
	for i, img := range images {
		targets := PageTargets(pages[i])

		redacted := img
		if len(targets) > 0 {
			redacted = paintTargets(img, targets)
		}

		path := filepath.Join(outputDir, fmt.Sprintf("page_%d_redacted.jpg", i+1))
		if err := imaging.Save(redacted, path); err != nil {
			return nil, fmt.Errorf("writing redacted page %d: %w", i+1, err)
		}
		out = append(out, redacted)
	}
	return out, nil
}

// paintTargets fills each target polygon with opaque black on a copy of
// the page image.
func paintTargets(img image.Image, targets []models.RedactionTarget) image.Image {
	dc := gg.NewContextForImage(img)
	dc.SetRGB(0, 0, 0)
	for _, t := range targets {
		dc.MoveTo(t.Polygon[0].X, t.Polygon[0].Y)
		for _, p := range t.Polygon[1:] {
			dc.LineTo(p.X, p.Y)
		}
		dc.ClosePath()
		dc.Fill()
	}
	return dc.Image()
}
