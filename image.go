package poisson

import (
	"image"
	"image/color"

	"github.com/lucasb-eyer/go-colorful"
)

// Image is an H×W×C grid of intensities, nominally in [0,1].
type Image struct {
	H, W, C int
	Pix     []float64 // Interleaved channels, len = H*W*C
}

// NewImage allocates a zeroed image.
func NewImage(h, w, c int) *Image {
	return &Image{H: h, W: w, C: c, Pix: make([]float64, h*w*c)}
}

func (im *Image) offset(y, x, c int) int {
	return (y*im.W+x)*im.C + c
}

func (im *Image) At(y, x, c int) float64 {
	return im.Pix[im.offset(y, x, c)]
}

func (im *Image) Set(y, x, c int, v float64) {
	im.Pix[im.offset(y, x, c)] = v
}

// Clone returns a deep copy.
func (im *Image) Clone() *Image {
	out := &Image{H: im.H, W: im.W, C: im.C, Pix: make([]float64, len(im.Pix))}
	copy(out.Pix, im.Pix)
	return out
}

// Channel copies channel c into an H×W plane.
func (im *Image) Channel(c int) []float64 {
	plane := make([]float64, im.H*im.W)
	for i := range plane {
		plane[i] = im.Pix[i*im.C+c]
	}
	return plane
}

// Size returns the spatial size as an image.Point (X = width).
func (im *Image) Size() image.Point {
	return image.Pt(im.W, im.H)
}

// FromImage converts img to a 3-channel RGB image with values in [0,1].
// Alpha is dropped.
func FromImage(img image.Image) *Image {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	out := NewImage(h, w, 3)
	for y := range h {
		for x := range w {
			c, _ := colorful.MakeColor(img.At(b.Min.X+x, b.Min.Y+y))
			off := out.offset(y, x, 0)
			out.Pix[off] = c.R
			out.Pix[off+1] = c.G
			out.Pix[off+2] = c.B
		}
	}
	return out
}

// FromGray converts img to a single-channel image with values in [0,1]
// using the standard library's gray model.
func FromGray(img image.Image) *Image {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	out := NewImage(h, w, 1)
	for y := range h {
		for x := range w {
			g := color.Gray16Model.Convert(img.At(b.Min.X+x, b.Min.Y+y)).(color.Gray16)
			out.Pix[labelOffset(w, x, y)] = float64(g.Y) / 65535.0
		}
	}
	return out
}

// NRGBA renders the image as 8-bit opaque RGB. One-channel images are
// replicated to gray, other channel counts use the first three channels.
func (im *Image) NRGBA() *image.NRGBA {
	out := image.NewNRGBA(image.Rect(0, 0, im.W, im.H))
	for y := range im.H {
		for x := range im.W {
			off := im.offset(y, x, 0)
			var c colorful.Color
			if im.C < 3 {
				v := im.Pix[off]
				c = colorful.Color{R: v, G: v, B: v}
			} else {
				c = colorful.Color{R: im.Pix[off], G: im.Pix[off+1], B: im.Pix[off+2]}
			}
			r, g, b := c.Clamped().RGB255()
			out.SetNRGBA(x, y, color.NRGBA{R: r, G: g, B: b, A: 255})
		}
	}
	return out
}

// Gray renders channel 0 as an 8-bit gray image.
func (im *Image) Gray() *image.Gray {
	out := image.NewGray(image.Rect(0, 0, im.W, im.H))
	for y := range im.H {
		for x := range im.W {
			a := min(1, max(0, im.At(y, x, 0)))
			out.SetGray(x, y, color.Gray{Y: uint8(a*255 + 0.5)})
		}
	}
	return out
}

// Mask marks the pixels that are solved for (true) versus taken from the
// background (false).
type Mask struct {
	H, W int
	Bits []bool // len = H*W
}

func NewMask(h, w int) *Mask {
	return &Mask{H: h, W: w, Bits: make([]bool, h*w)}
}

func (m *Mask) At(y, x int) bool {
	return m.Bits[labelOffset(m.W, x, y)]
}

func (m *Mask) Set(y, x int, v bool) {
	m.Bits[labelOffset(m.W, x, y)] = v
}

// Fill sets every pixel to v.
func (m *Mask) Fill(v bool) {
	for i := range m.Bits {
		m.Bits[i] = v
	}
}

// Count returns the number of set pixels.
func (m *Mask) Count() int {
	n := 0
	for _, b := range m.Bits {
		if b {
			n++
		}
	}
	return n
}

// MaskFromImage marks every pixel whose color channels are not all zero.
func MaskFromImage(img image.Image) *Mask {
	b := img.Bounds()
	m := NewMask(b.Dy(), b.Dx())
	for y := range m.H {
		for x := range m.W {
			r, g, bl, _ := img.At(b.Min.X+x, b.Min.Y+y).RGBA()
			m.Bits[labelOffset(m.W, x, y)] = r+g+bl > 0
		}
	}
	return m
}
