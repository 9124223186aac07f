package preprocess

import (
	"image"
	"image/color"
	"image/draw"
	"os"
	"path/filepath"
	"testing"
)

// straightPage draws horizontal black bars on a white page, mimicking
// unrotated lines of text.
func straightPage(w, h int) image.Image {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)
	for y := 20; y < h-20; y += 30 {
		bar := image.Rect(10, y, w-10, y+8)
		draw.Draw(img, bar, image.NewUniform(color.Black), image.Point{}, draw.Src)
	}
	return img
}

func TestDeskewLeavesStraightImageUntouched(t *testing.T) {
	img := straightPage(400, 300)

	out := Deskew(img, DefaultDeskewThreshold)
	if out != img {
		t.Error("straight page should be returned as-is")
	}
}

func TestEstimateSkewStraight(t *testing.T) {
	angle := estimateSkew(straightPage(400, 300))
	if angle != 0 {
		t.Errorf("estimated skew: got %f, want 0", angle)
	}
}

func TestEnhanceForOCRPreservesBounds(t *testing.T) {
	img := straightPage(200, 150)

	out := EnhanceForOCR(img)
	if got, want := out.Bounds().Dx(), 200; got != want {
		t.Errorf("width: got %d, want %d", got, want)
	}
	if got, want := out.Bounds().Dy(), 150; got != want {
		t.Errorf("height: got %d, want %d", got, want)
	}
}

func TestSavePages(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "pages")
	images := []image.Image{straightPage(100, 80), straightPage(100, 80)}

	if err := SavePages(images, dir); err != nil {
		t.Fatalf("SavePages: %v", err)
	}
	for _, name := range []string{"page_1.jpg", "page_2.jpg"} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Errorf("missing %s: %v", name, err)
		}
	}
}

func TestValidateMissingFile(t *testing.T) {
	if _, err := Validate(filepath.Join(t.TempDir(), "nope.pdf")); err == nil {
		t.Error("expected error for missing file")
	}
}
