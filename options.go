package poisson

import "image"

// Boundary selects how blend equations treat neighbors outside the image.
type Boundary int

const (
	// BoundaryReplicate treats an out-of-image neighbor as the pixel itself,
	// in both the foreground Laplacian and the unknowns.
	BoundaryReplicate Boundary = iota
	// BoundaryZero keeps the full 4-neighbor diagonal and treats
	// out-of-image neighbors as known pixels of intensity 0.
	BoundaryZero
)

func (b Boundary) String() string {
	switch b {
	case BoundaryZero:
		return "zero"
	default:
		return "replicate"
	}
}

type Options struct {
	// LSQR tolerances, see SolverOptions.
	// Ideal start: 1e-10. Values above ~1e-6 leave visible low-frequency
	// error in large masks.
	ATol float64
	BTol float64
	// Per-channel iteration cap. 0 => 4*unknowns.
	// Gradient-only systems converge in far fewer iterations; large blend
	// regions may need the full allowance.
	MaxIterations int
	// Tikhonov damping passed to the solver. Keep 0 for exact blends;
	// small values (1e-3) pull solutions toward zero.
	Damp float64
	// Border policy for blend equations.
	Boundary Boundary
	// Round blended values to 8-bit levels before compositing.
	Quantize bool
	// Solve channels on separate goroutines.
	Parallel bool
}

func DefaultOptions() Options {
	return Options{
		ATol:     1e-10,
		BTol:     1e-10,
		Boundary: BoundaryReplicate,
		Quantize: true,
	}
}

// OptionsFromSize derives the iteration cap and parallelism from the
// image size.
func OptionsFromSize(size image.Point) Options {
	opt := DefaultOptions()
	if size.X <= 0 || size.Y <= 0 {
		return opt
	}
	pixels := size.X * size.Y
	opt.MaxIterations = max(100, min(4*pixels, 200_000))
	opt.Parallel = pixels > 256*256
	return opt
}

func (o Options) solverOptions() SolverOptions {
	return SolverOptions{
		ATol:          o.ATol,
		BTol:          o.BTol,
		MaxIterations: o.MaxIterations,
		Damp:          o.Damp,
	}
}
