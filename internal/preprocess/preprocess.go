// Package preprocess turns an input PDF into page images ready for OCR:
// validation, rasterization at a target DPI, deskewing, and contrast
// enhancement for the recognition pass.
package preprocess

import (
	"fmt"
	"image"
	"image/color"
	"math"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"
	"github.com/gen2brain/go-fitz"
	"github.com/ledongthuc/pdf"
)

// DefaultDPI is the rasterization resolution. Row-grouping thresholds
// downstream are tuned against it.
const DefaultDPI = 300

// DefaultDeskewThreshold is the minimum detected skew, in degrees, worth
// correcting. Rotating below it costs more quality than it recovers.
const DefaultDeskewThreshold = 1.0

// Validate checks that the input file is a readable PDF and returns its
// page count. An unreadable or empty PDF is a structural failure that
// aborts the run for this statement.
func Validate(path string) (int, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return 0, fmt.Errorf("unreadable PDF %s: %w", path, err)
	}
	defer f.Close()

	n := r.NumPage()
	if n == 0 {
		return 0, fmt.Errorf("PDF %s has no pages", path)
	}
	return n, nil
}

// Rasterize renders every page of the PDF to an image at the given DPI,
// in page order.
func Rasterize(path string, dpi int) ([]image.Image, error) {
	doc, err := fitz.New(path)
	if err != nil {
		return nil, fmt.Errorf("opening PDF for rendering: %w", err)
	}
	defer doc.Close()

	images := make([]image.Image, 0, doc.NumPage())
	for i := 0; i < doc.NumPage(); i++ {
		img, err := doc.ImageDPI(i, float64(dpi))
		if err != nil {
			return nil, fmt.Errorf("rendering page %d: %w", i+1, err)
		}
		images = append(images, img)
	}
	if len(images) == 0 {
		return nil, fmt.Errorf("PDF produced no page images")
	}
	return images, nil
}

// Deskew straightens a scanned page. The skew angle is estimated by
// scoring small trial rotations; if the best angle is below the threshold
// the original image is returned untouched, preserving quality.
func Deskew(img image.Image, threshold float64) image.Image {
	angle := estimateSkew(img)
	if math.Abs(angle) < threshold {
		return img
	}
	return imaging.Rotate(img, angle, color.White)
}

// estimateSkew searches rotation angles in [-5, 5] degrees for the one
// that maximizes the variance of per-row darkness. Straight text lines
// concentrate dark pixels into narrow horizontal bands, so the correct
// rotation scores highest.
func estimateSkew(img image.Image) float64 {
	// Work on a small grayscale proxy; precision beyond half a degree
	// is below what scanned statements exhibit.
	proxy := imaging.Resize(img, 400, 0, imaging.Box)
	proxy = imaging.Grayscale(proxy)

	bestAngle := 0.0
	bestScore := rowVariance(proxy)
	for angle := -5.0; angle <= 5.0; angle += 0.5 {
		if angle == 0 {
			continue
		}
		rotated := imaging.Rotate(proxy, angle, color.White)
		if score := rowVariance(rotated); score > bestScore {
			bestScore = score
			bestAngle = angle
		}
	}
	return bestAngle
}

// rowVariance computes the variance of summed darkness per image row.
func rowVariance(img *image.NRGBA) float64 {
	b := img.Bounds()
	h := b.Dy()
	if h == 0 {
		return 0
	}

	sums := make([]float64, h)
	mean := 0.0
	for y := 0; y < h; y++ {
		var rowSum float64
		for x := b.Min.X; x < b.Max.X; x++ {
			c := img.NRGBAAt(x, b.Min.Y+y)
			rowSum += 255 - float64(c.R)
		}
		sums[y] = rowSum
		mean += rowSum
	}
	mean /= float64(h)

	variance := 0.0
	for _, s := range sums {
		d := s - mean
		variance += d * d
	}
	return variance / float64(h)
}

// EnhanceForOCR applies a contrast chain that makes statement text easier
// for the OCR engine to read: grayscale, contrast boost, sharpening and a
// mild brightness lift. The enhanced copy feeds recognition only; the
// redaction output keeps the unenhanced page.
func EnhanceForOCR(img image.Image) image.Image {
	out := imaging.Grayscale(img)
	out = imaging.AdjustContrast(out, 30)
	out = imaging.Sharpen(out, 1.5)
	out = imaging.AdjustBrightness(out, 10)
	return out
}

// SavePages writes each page image to {dir}/page_{n}.jpg, 1-indexed,
// creating the directory if needed. These intermediates are what the OCR
// prediction files and redaction outputs are keyed against.
func SavePages(images []image.Image, dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating output dir %s: %w", dir, err)
	}
	for i, img := range images {
		path := filepath.Join(dir, fmt.Sprintf("page_%d.jpg", i+1))
		if err := imaging.Save(img, path); err != nil {
			return fmt.Errorf("saving page %d: %w", i+1, err)
		}
	}
	return nil
}
