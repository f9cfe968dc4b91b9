package poisson

import "fmt"

// Composite places rec over bg where mask is set:
// out = rec*mask + bg*(1-mask). Unmasked pixels are copied from bg.
func Composite(rec *Image, mask *Mask, bg *Image) (*Image, error) {
	if err := checkShapes(rec, mask, bg); err != nil {
		return nil, err
	}
	out := bg.Clone()
	for y := range bg.H {
		for x := range bg.W {
			if !mask.At(y, x) {
				continue
			}
			off := bg.offset(y, x, 0)
			copy(out.Pix[off:off+bg.C], rec.Pix[off:off+bg.C])
		}
	}
	return out, nil
}

// NaiveBlend pastes fg into bg through the mask without any gradient
// matching. Useful as a reference next to PoissonBlend.
func NaiveBlend(fg *Image, mask *Mask, bg *Image) (*Image, error) {
	return Composite(fg, mask, bg)
}

// unpack writes the solved variables of one channel into dst. v holds
// 8-bit range values; dst receives them divided back to [0,1].
// With clip the values are clamped to [0,255] first; quantize clamps too
// and rounds to whole levels.
func unpack(dst *Image, c int, t *IndexTable, v []float64, clip, quantize bool) {
	for i := range t.Len() {
		y, x := t.Coord(i)
		s := v[i]
		if clip || quantize {
			s = min(255, max(0, s))
		}
		if quantize {
			s = float64(uint8(s + 0.5))
		}
		dst.Set(y, x, c, s/255.0)
	}
}

func checkShapes(fg *Image, mask *Mask, bg *Image) error {
	if fg.H == 0 || fg.W == 0 || bg.H == 0 || bg.W == 0 {
		return ErrEmptyImage
	}
	if fg.H != bg.H || fg.W != bg.W || fg.C != bg.C {
		return fmt.Errorf("%w: foreground %dx%dx%d, background %dx%dx%d",
			ErrShapeMismatch, fg.H, fg.W, fg.C, bg.H, bg.W, bg.C)
	}
	if mask.H != bg.H || mask.W != bg.W {
		return fmt.Errorf("%w: mask %dx%d, background %dx%d",
			ErrShapeMismatch, mask.H, mask.W, bg.H, bg.W)
	}
	if len(mask.Bits) != mask.H*mask.W {
		return fmt.Errorf("%w: mask has %d bits for %dx%d", ErrShapeMismatch, len(mask.Bits), mask.H, mask.W)
	}
	return nil
}
