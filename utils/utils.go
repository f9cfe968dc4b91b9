package utils

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	_ "image/jpeg"
	"image/png"
	"log"
	"os"
	"path/filepath"
	"strings"

	xdraw "golang.org/x/image/draw"
)

func ReadImage(path string) (image.Image, error) {
	file, err := os.Open(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("utils: open %s: %w", path, err)
	}
	defer file.Close()
	img, _, err := image.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("utils: decode %s: %w", path, err)
	}
	return img, nil
}

// MustReadImage is ReadImage for drivers that cannot continue without
// their input.
func MustReadImage(path string) image.Image {
	img, err := ReadImage(path)
	if err != nil {
		panic(err)
	}
	return img
}

func SaveImage(img image.Image, filename string) error {
	f, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer f.Close()
	return png.Encode(f, img)
}

// ResultPath derives the output name of a blend from its target image,
// e.g. target_01.jpg -> target_01_pb_result.png.
func ResultPath(target string) string {
	ext := filepath.Ext(target)
	return strings.TrimSuffix(target, ext) + "_pb_result.png"
}

// Resize scales img to w×h with Catmull-Rom filtering.
func Resize(img image.Image, w, h int) *image.NRGBA {
	dst := image.NewNRGBA(image.Rect(0, 0, max(w, 1), max(h, 1)))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), img, img.Bounds(), xdraw.Src, nil)
	return dst
}

// ResizeMask scales a mask image to w×h with nearest-neighbor sampling so
// that every output pixel keeps a value present in the input.
func ResizeMask(img image.Image, w, h int) *image.NRGBA {
	dst := image.NewNRGBA(image.Rect(0, 0, max(w, 1), max(h, 1)))
	xdraw.NearestNeighbor.Scale(dst, dst.Bounds(), img, img.Bounds(), xdraw.Src, nil)
	return dst
}

// Scale resizes img by ratio. Masks should pass nearest = true.
func Scale(img image.Image, ratio float64, nearest bool) *image.NRGBA {
	if ratio <= 0 {
		log.Println("scale warning: non-positive ratio, using 1")
		ratio = 1
	}
	b := img.Bounds()
	w := int(float64(b.Dx())*ratio + 0.5)
	h := int(float64(b.Dy())*ratio + 0.5)
	if nearest {
		return ResizeMask(img, w, h)
	}
	return Resize(img, w, h)
}

// SideBySide lays the images out left to right on a white canvas,
// top-aligned.
func SideBySide(images ...image.Image) *image.NRGBA {
	w, h := 0, 0
	for _, img := range images {
		b := img.Bounds()
		w += b.Dx()
		h = max(h, b.Dy())
	}
	out := image.NewNRGBA(image.Rect(0, 0, max(w, 1), max(h, 1)))
	draw.Draw(out, out.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)
	x := 0
	for _, img := range images {
		b := img.Bounds()
		draw.Draw(out, image.Rect(x, 0, x+b.Dx(), b.Dy()), img, b.Min, draw.Src)
		x += b.Dx()
	}
	return out
}
