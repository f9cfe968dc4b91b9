// Package poisson reconstructs images from their gradients and blends
// image regions in the gradient domain.
//
// Both operations assemble a sparse linear system per color channel, solve
// it in the least-squares sense with LSQR and reshape the solution back
// onto the pixel grid through the IndexTable used to build it.
package poisson

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
)

var (
	// ErrShapeMismatch is returned when images and mask disagree in size.
	ErrShapeMismatch = errors.New("poisson: shape mismatch")
	// ErrEmptyImage is returned for images without pixels.
	ErrEmptyImage = errors.New("poisson: empty image")
)

// byteScale maps solver intensities to the 8-bit output range.
const byteScale = 255.0

type Engine struct {
	Options Options
}

func New(opt Options) *Engine {
	return &Engine{Options: opt}
}

// Reconstruct recovers s from its own horizontal and vertical differences
// and the value of its top-left pixel, channel by channel.
func Reconstruct(s *Image) (*Image, error) {
	return New(OptionsFromSize(s.Size())).Reconstruct(s)
}

// PoissonBlend composites the masked region of fg into bg by matching the
// Laplacian of fg instead of its intensities. fg, mask and bg must share
// height and width; fg and bg must share the channel count.
func PoissonBlend(fg *Image, mask *Mask, bg *Image) (*Image, error) {
	return New(OptionsFromSize(bg.Size())).PoissonBlend(fg, mask, bg)
}

func (e *Engine) Reconstruct(s *Image) (*Image, error) {
	if s.H == 0 || s.W == 0 || s.C == 0 {
		return nil, ErrEmptyImage
	}
	if len(s.Pix) != s.H*s.W*s.C {
		return nil, fmt.Errorf("%w: %d samples for %dx%dx%d", ErrShapeMismatch, len(s.Pix), s.H, s.W, s.C)
	}
	t := NewIndexTable(s.H, s.W)
	out := NewImage(s.H, s.W, s.C)
	err := e.eachChannel(s.C, func(c int) error {
		sys := GradientSystem(s.Channel(c), t)
		v, err := e.solve("reconstruct", c, sys)
		if err != nil {
			return err
		}
		unpack(out, c, sys.Table, v, false, false)
		return nil
	})
	if err != nil {
		return nil, err
	}
	Logger().Info("reconstructed", "height", s.H, "width", s.W, "channels", s.C)
	return out, nil
}

func (e *Engine) PoissonBlend(fg *Image, mask *Mask, bg *Image) (*Image, error) {
	if err := checkShapes(fg, mask, bg); err != nil {
		return nil, err
	}
	t := NewMaskedIndexTable(mask)
	if t.Len() == 0 {
		Logger().Debug("empty mask, returning background")
		return bg.Clone(), nil
	}
	rec := NewImage(bg.H, bg.W, bg.C)
	err := e.eachChannel(bg.C, func(c int) error {
		sys := PoissonSystem(fg, bg, c, t, e.Options.Boundary)
		v, err := e.solve("blend", c, sys)
		if err != nil {
			return err
		}
		unpack(rec, c, sys.Table, v, true, e.Options.Quantize)
		return nil
	})
	if err != nil {
		return nil, err
	}
	out, err := Composite(rec, mask, bg)
	if err != nil {
		return nil, err
	}
	Logger().Info("blended", "height", bg.H, "width", bg.W, "channels", bg.C, "unknowns", t.Len())
	return out, nil
}

// solve runs LSQR on sys and returns the solution in the 8-bit range.
func (e *Engine) solve(op string, c int, sys *System) ([]float64, error) {
	rows, cols := sys.A.Dims()
	log := Logger().With("op", op, "channel", c)
	log.Debug("system assembled", "rows", rows, "unknowns", cols, "nnz", sys.A.NNZ())

	res, err := LSQR(sys.A, sys.B, e.Options.solverOptions())
	if err != nil {
		return nil, fmt.Errorf("channel %d: %w", c, err)
	}
	level := slog.LevelDebug
	if res.Stop == StopIterationLimit {
		level = slog.LevelWarn
	}
	log.Log(context.Background(), level, "solved",
		"iterations", res.Iterations,
		"stop", res.Stop.String(),
		"residual", res.ResidualNorm)

	for i := range res.X {
		res.X[i] *= byteScale
	}
	return res.X, nil
}

// eachChannel runs fn for every channel, concurrently when Options.Parallel
// is set. Each call owns its system; results land in disjoint channels.
func (e *Engine) eachChannel(channels int, fn func(c int) error) error {
	if !e.Options.Parallel || channels < 2 {
		for c := range channels {
			if err := fn(c); err != nil {
				return err
			}
		}
		return nil
	}
	errs := make([]error, channels)
	var wg sync.WaitGroup
	for c := range channels {
		wg.Go(func() {
			errs[c] = fn(c)
		})
	}
	wg.Wait()
	return errors.Join(errs...)
}
