package poisson

import (
	"math"
	"math/rand/v2"
)

// Test helper functions shared across package tests.

// randomImage returns an image whose samples are whole 8-bit levels in [0,1].
func randomImage(h, w, c int, seed uint64) *Image {
	r := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	im := NewImage(h, w, c)
	for i := range im.Pix {
		im.Pix[i] = float64(r.IntN(256)) / 255.0
	}
	return im
}

// maxAbsDiff returns the largest element-wise difference of two images.
func maxAbsDiff(a, b *Image) float64 {
	d := 0.0
	for i := range a.Pix {
		d = max(d, math.Abs(a.Pix[i]-b.Pix[i]))
	}
	return d
}

// boxMask sets the pixels in rows [y0,y1) and columns [x0,x1).
func boxMask(h, w, y0, y1, x0, x1 int) *Mask {
	m := NewMask(h, w)
	for y := y0; y < y1; y++ {
		for x := x0; x < x1; x++ {
			m.Set(y, x, true)
		}
	}
	return m
}

func approxEqual(a, b, tolerance float64) bool {
	return math.Abs(a-b) <= tolerance
}
