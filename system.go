package poisson

// System is a sparse linear system A·v = b over the variables of Table.
type System struct {
	A     *CSR
	B     []float64
	Table *IndexTable
}

var (
	dx4 = [4]int{0, 0, -1, 1}
	dy4 = [4]int{-1, 1, 0, 0}
)

// GradientSystem builds the toy reconstruction system for the plane s
// (len = t.H*t.W): one row per horizontal pair, one row per vertical pair,
// then an anchor row pinning the top-left variable to s[0,0].
func GradientSystem(s []float64, t *IndexTable) *System {
	h, w := t.H, t.W
	rows := h*(w-1) + (h-1)*w + 1
	trip := NewTriplets(rows, t.Len())
	b := make([]float64, rows)

	e := 0
	for y := range h {
		for x := range w - 1 {
			right, _ := t.Var(y, x+1)
			left, _ := t.Var(y, x)
			trip.Add(e, right, 1)
			trip.Add(e, left, -1)
			b[e] = s[labelOffset(w, x+1, y)] - s[labelOffset(w, x, y)]
			e++
		}
	}
	for y := range h - 1 {
		for x := range w {
			down, _ := t.Var(y+1, x)
			up, _ := t.Var(y, x)
			trip.Add(e, down, 1)
			trip.Add(e, up, -1)
			b[e] = s[labelOffset(w, x, y+1)] - s[labelOffset(w, x, y)]
			e++
		}
	}

	origin, _ := t.Var(0, 0)
	trip.Add(e, origin, 1)
	b[e] = s[0]

	return &System{A: trip.ToCSR(), B: b, Table: t}
}

// PoissonSystem builds the blend equations for channel c. The unknowns are
// the variables of t; every other pixel is a known background pixel.
//
// Row i belongs to variable i. Its right-hand side is the discrete
// Laplacian of fg at the pixel plus the background value of every known
// in-image neighbor.
func PoissonSystem(fg, bg *Image, c int, t *IndexTable, boundary Boundary) *System {
	h, w := t.H, t.W
	n := t.Len()
	trip := NewTriplets(n, n)
	b := make([]float64, n)
	dirichlet := false

	for e := range n {
		y, x := t.Coord(e)
		center := fg.At(y, x, c)
		lap := 0.0
		diag := 4.0
		for k := range 4 {
			ny, nx := y+dy4[k], x+dx4[k]
			if ny < 0 || ny >= h || nx < 0 || nx >= w {
				// Replicated border: zero difference.
				if boundary == BoundaryReplicate {
					diag--
				}
				continue
			}
			lap += center - fg.At(ny, nx, c)
			if v, ok := t.Var(ny, nx); ok {
				trip.Add(e, v, -1)
			} else {
				b[e] += bg.At(ny, nx, c)
				dirichlet = true
			}
		}
		trip.Add(e, e, diag)
		b[e] += lap
	}

	// Without a single known neighbor the replicated system only fixes
	// differences, so pin the first unknown to the foreground.
	if n > 0 && !dirichlet && boundary == BoundaryReplicate {
		row := trip.Grow(1)
		trip.Add(row, 0, 1)
		y, x := t.Coord(0)
		b = append(b, fg.At(y, x, c))
	}

	return &System{A: trip.ToCSR(), B: b, Table: t}
}
