package utils

import (
	"image"
	"image/color"
	"path/filepath"
	"testing"
)

func checker(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := range h {
		for x := range w {
			if (x+y)%2 == 0 {
				img.SetNRGBA(x, y, color.NRGBA{R: 255, G: 255, B: 255, A: 255})
			} else {
				img.SetNRGBA(x, y, color.NRGBA{A: 255})
			}
		}
	}
	return img
}

func TestSaveAndReadImage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "checker.png")
	src := checker(5, 3)
	if err := SaveImage(src, path); err != nil {
		t.Fatalf("SaveImage() error = %v", err)
	}
	img, err := ReadImage(path)
	if err != nil {
		t.Fatalf("ReadImage() error = %v", err)
	}
	if img.Bounds() != src.Bounds() {
		t.Fatalf("bounds = %v, want %v", img.Bounds(), src.Bounds())
	}
	for y := range 3 {
		for x := range 5 {
			r1, g1, b1, a1 := img.At(x, y).RGBA()
			r2, g2, b2, a2 := src.At(x, y).RGBA()
			if r1 != r2 || g1 != g2 || b1 != b2 || a1 != a2 {
				t.Errorf("pixel (%d,%d) differs after round trip", x, y)
			}
		}
	}
}

func TestReadImageMissing(t *testing.T) {
	if _, err := ReadImage(filepath.Join(t.TempDir(), "missing.png")); err == nil {
		t.Error("ReadImage() of a missing file returned nil error")
	}
}

func TestResize(t *testing.T) {
	got := Resize(checker(8, 6), 4, 3)
	if got.Bounds() != image.Rect(0, 0, 4, 3) {
		t.Errorf("Resize bounds = %v, want 4x3", got.Bounds())
	}
}

func TestResizeMaskStaysBinary(t *testing.T) {
	got := ResizeMask(checker(7, 5), 13, 9)
	if got.Bounds() != image.Rect(0, 0, 13, 9) {
		t.Fatalf("ResizeMask bounds = %v, want 13x9", got.Bounds())
	}
	for y := range 9 {
		for x := range 13 {
			c := got.NRGBAAt(x, y)
			if c.R != 0 && c.R != 255 {
				t.Fatalf("pixel (%d,%d) = %v, want pure black or white", x, y, c)
			}
		}
	}
}

func TestScale(t *testing.T) {
	tests := []struct {
		ratio      float64
		nearest    bool
		wantW, wantH int
	}{
		{0.5, false, 5, 3},
		{0.5, true, 5, 3},
		{2, true, 20, 10},
		{-1, false, 10, 5},
	}
	for _, tt := range tests {
		got := Scale(checker(10, 5), tt.ratio, tt.nearest)
		if got.Bounds().Dx() != tt.wantW || got.Bounds().Dy() != tt.wantH {
			t.Errorf("Scale(%v, %v) size = %v, want %dx%d", tt.ratio, tt.nearest, got.Bounds().Size(), tt.wantW, tt.wantH)
		}
	}
}

func TestSideBySide(t *testing.T) {
	left := checker(3, 4)
	right := image.NewGray(image.Rect(10, 10, 12, 12))
	right.SetGray(10, 10, color.Gray{Y: 7})

	got := SideBySide(left, right)
	if got.Bounds() != image.Rect(0, 0, 5, 4) {
		t.Fatalf("bounds = %v, want 5x4", got.Bounds())
	}
	if c := got.NRGBAAt(0, 0); c.R != 255 {
		t.Errorf("left image not copied: %v", c)
	}
	if c := got.NRGBAAt(3, 0); c.R != 7 {
		t.Errorf("right image origin not honored: %v", c)
	}
	if c := got.NRGBAAt(4, 3); c != (color.NRGBA{R: 255, G: 255, B: 255, A: 255}) {
		t.Errorf("padding = %v, want white", c)
	}
}

func TestResultPath(t *testing.T) {
	tests := map[string]string{
		"data/target_01.jpg": "data/target_01_pb_result.png",
		"bg.png":             "bg_pb_result.png",
		"noext":              "noext_pb_result.png",
	}
	for in, want := range tests {
		if got := ResultPath(in); got != want {
			t.Errorf("ResultPath(%q) = %q, want %q", in, got, want)
		}
	}
}
