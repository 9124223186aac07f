// Package ocr is the boundary to the OCR engine. The engine is a black
// box returning recognized text boxes per page image; everything
// downstream treats its output as positionally unordered.
package ocr

import (
	"context"
	"fmt"
	"image"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/disintegration/imaging"

	"github.com/peepalytics/statement-extractor/internal/models"
)

// Engine recognizes text on a single page image.
type Engine interface {
	Recognize(ctx context.Context, img image.Image) (models.PageOCR, error)
}

// TesseractEngine shells out to the tesseract binary in TSV mode, which
// emits one row per recognized word with its axis-aligned bounding box.
// Requires tesseract-ocr to be installed.
type TesseractEngine struct {
	// Binary is the tesseract executable; defaults to "tesseract" on PATH.
	Binary string
	// Lang is the recognition language; defaults to "eng".
	Lang string
}

func (e *TesseractEngine) binary() string {
	if e.Binary != "" {
		return e.Binary
	}
	return "tesseract"
}

func (e *TesseractEngine) lang() string {
	if e.Lang != "" {
		return e.Lang
	}
	return "eng"
}

// Recognize runs tesseract over the page image and returns one TextBox
// per recognized word.
func (e *TesseractEngine) Recognize(ctx context.Context, img image.Image) (models.PageOCR, error) {
	if _, err := exec.LookPath(e.binary()); err != nil {
		return nil, fmt.Errorf("tesseract not available (install tesseract-ocr): %w", err)
	}

	tmpDir, err := os.MkdirTemp("", "ocr-page-*")
	if err != nil {
		return nil, fmt.Errorf("creating temp dir: %w", err)
	}
	defer os.RemoveAll(tmpDir)

	imgPath := filepath.Join(tmpDir, "page.png")
	if err := imaging.Save(img, imgPath); err != nil {
		return nil, fmt.Errorf("saving page image for OCR: %w", err)
	}

	// PSM 4 = single column of text of variable sizes, which suits
	// statement layouts. "tsv" makes tesseract emit word-level boxes.
	cmd := exec.CommandContext(ctx, e.binary(), imgPath, "stdout", "-l", e.lang(), "--psm", "4", "tsv")
	out, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("tesseract failed: %w", err)
	}

	return parseTSV(string(out)), nil
}

// TSV columns: level page block par line word left top width height conf text.
// Level 5 rows are words; everything else is layout structure.
const (
	tsvLevel  = 0
	tsvLeft   = 6
	tsvTop    = 7
	tsvWidth  = 8
	tsvHeight = 9
	tsvConf   = 10
	tsvText   = 11
)

// parseTSV converts tesseract TSV output into text boxes. Malformed rows
// and empty words are dropped silently; one bad row must not abort the page.
func parseTSV(data string) models.PageOCR {
	var page models.PageOCR
	for i, line := range strings.Split(data, "\n") {
		if i == 0 {
			continue // header
		}
		fields := strings.Split(line, "\t")
		if len(fields) <= tsvText || fields[tsvLevel] != "5" {
			continue
		}
		text := strings.TrimSpace(fields[tsvText])
		if text == "" {
			continue
		}

		left, err1 := strconv.ParseFloat(fields[tsvLeft], 64)
		top, err2 := strconv.ParseFloat(fields[tsvTop], 64)
		width, err3 := strconv.ParseFloat(fields[tsvWidth], 64)
		height, err4 := strconv.ParseFloat(fields[tsvHeight], 64)
		if err1 != nil || err2 != nil || err3 != nil || err4 != nil {
			continue
		}
		conf, err := strconv.ParseFloat(fields[tsvConf], 64)
		if err != nil || conf < 0 {
			continue
		}

		page = append(page, models.TextBox{
			Box: models.Polygon{
				{X: left, Y: top},
				{X: left + width, Y: top},
				{X: left + width, Y: top + height},
				{X: left, Y: top + height},
			},
			Text:       text,
			Confidence: conf / 100,
		})
	}
	return page
}
