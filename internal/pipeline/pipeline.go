// Package pipeline runs the full extraction sequence for one statement
// PDF: validate, rasterize, deskew, OCR, parse, redact.
package pipeline

import (
	"context"
	"fmt"
	"image"

	"github.com/peepalytics/statement-extractor/internal/config"
	"github.com/peepalytics/statement-extractor/internal/models"
	"github.com/peepalytics/statement-extractor/internal/ocr"
	"github.com/peepalytics/statement-extractor/internal/parse"
	"github.com/peepalytics/statement-extractor/internal/preprocess"
	"github.com/peepalytics/statement-extractor/internal/redact"
)

// Pipeline orchestrates the extraction stages. Pages are processed in
// sequence; per-page OCR failures are contained so one bad page does not
// abort the pages already completed.
type Pipeline struct {
	Cfg    config.Config
	Engine ocr.Engine
	// Progress receives stage-level status lines; nil disables reporting.
	Progress func(format string, args ...any)
}

func (p *Pipeline) progressf(format string, args ...any) {
	if p.Progress != nil {
		p.Progress(format, args...)
	}
}

// Run extracts a statement record from the PDF at pdfPath and writes the
// redacted page images into the configured output directory. Partial
// outputs already written stay on disk when a later stage fails.
func (p *Pipeline) Run(ctx context.Context, pdfPath string) (*models.StatementRecord, error) {
	pageCount, err := preprocess.Validate(pdfPath)
	if err != nil {
		return nil, fmt.Errorf("validation stage: %w", err)
	}
	p.progressf("  Validated PDF: %d page(s)", pageCount)

	images, err := preprocess.Rasterize(pdfPath, p.Cfg.DPI)
	if err != nil {
		return nil, fmt.Errorf("conversion stage: %w", err)
	}
	for i, img := range images {
		images[i] = preprocess.Deskew(img, p.Cfg.DeskewThreshold)
	}
	if err := preprocess.SavePages(images, p.Cfg.OutputDir); err != nil {
		return nil, fmt.Errorf("conversion stage: %w", err)
	}
	p.progressf("  Rasterized %d page(s) at %d DPI", len(images), p.Cfg.DPI)

	pages, err := p.recognize(ctx, images)
	if err != nil {
		return nil, fmt.Errorf("OCR stage: %w", err)
	}

	if p.Cfg.TransactionPage >= len(pages) || p.Cfg.AccountPage >= len(pages) {
		return nil, fmt.Errorf("parsing stage: statement has %d page(s), need account page %d and transaction page %d",
			len(pages), p.Cfg.AccountPage+1, p.Cfg.TransactionPage+1)
	}

	rec, stats := parse.Assemble(pages[p.Cfg.AccountPage], pages[p.Cfg.TransactionPage], p.Cfg.RowThreshold)
	p.progressf("  Parsed %d transaction(s) from %d row(s) (skipped: %d header/footer, %d no amounts, %d no date)",
		stats.Transactions, stats.Rows, stats.SkippedKeyword, stats.NoAmounts, stats.NoDate)

	if _, err := redact.RedactPages(images, pages, p.Cfg.OutputDir); err != nil {
		return nil, fmt.Errorf("redaction stage: %w", err)
	}
	p.progressf("  Wrote %d redacted page(s) to %s", len(images), p.Cfg.OutputDir)

	return rec, nil
}

// recognize runs OCR per page with a per-page bulkhead: a page whose
// recognition fails contributes an empty result instead of aborting the
// run. Recognition failing on every page is structural and propagates.
func (p *Pipeline) recognize(ctx context.Context, images []image.Image) ([]models.PageOCR, error) {
	pages := make([]models.PageOCR, len(images))
	failed := 0
	for i, img := range images {
		enhanced := preprocess.EnhanceForOCR(img)
		page, err := p.Engine.Recognize(ctx, enhanced)
		if err != nil {
			failed++
			p.progressf("  Warning: OCR failed on page %d: %v", i+1, err)
			continue
		}
		pages[i] = page
		p.progressf("  Page %d: %d text box(es)", i+1, len(page))
	}
	if failed == len(images) {
		return nil, fmt.Errorf("recognition failed on all %d page(s)", len(images))
	}
	return pages, nil
}
