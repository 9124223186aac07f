package ocr

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/peepalytics/statement-extractor/internal/models"
)

// Prediction files store one page's OCR output as a JSON list of
// [box, [text, confidence]] entries, where box is four [x, y] pairs.
// These files come from an upstream recognition run and let the parsing
// and evaluation stages operate without re-running the engine.

// LoadResultFile reads a precomputed OCR result file for one page.
func LoadResultFile(path string) (models.PageOCR, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading OCR result file: %w", err)
	}
	page, err := DecodeResults(data)
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", path, err)
	}
	return page, nil
}

// DecodeResults parses the [box, [text, confidence]] JSON shape into
// text boxes. Entries that do not match the shape are rejected; a result
// file is either wholly trustworthy or not usable at all.
func DecodeResults(data []byte) (models.PageOCR, error) {
	var entries [][2]json.RawMessage
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, err
	}

	page := make(models.PageOCR, 0, len(entries))
	for i, entry := range entries {
		var pts [][2]float64
		if err := json.Unmarshal(entry[0], &pts); err != nil {
			return nil, fmt.Errorf("entry %d: bad box: %w", i, err)
		}
		if len(pts) != 4 {
			return nil, fmt.Errorf("entry %d: expected 4 box points, got %d", i, len(pts))
		}

		var meta []json.RawMessage
		if err := json.Unmarshal(entry[1], &meta); err != nil || len(meta) < 2 {
			return nil, fmt.Errorf("entry %d: bad text/confidence pair", i)
		}
		var text string
		if err := json.Unmarshal(meta[0], &text); err != nil {
			return nil, fmt.Errorf("entry %d: bad text: %w", i, err)
		}
		var conf float64
		if err := json.Unmarshal(meta[1], &conf); err != nil {
			return nil, fmt.Errorf("entry %d: bad confidence: %w", i, err)
		}

		var box models.Polygon
		for j, pt := range pts {
			box[j] = models.Point{X: pt[0], Y: pt[1]}
		}
		page = append(page, models.TextBox{Box: box, Text: text, Confidence: conf})
	}
	return page, nil
}
