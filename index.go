package poisson

// IndexTable maps pixel coordinates to unknowns of a linear system.
// Variables are numbered in raster order, so reshaping a solution vector
// with the same table is the exact inverse of the mapping.
type IndexTable struct {
	H, W int
	vars []int // len = H*W, -1 for pixels that are not unknowns
	ys   []int // len = Len()
	xs   []int
}

// NewIndexTable indexes every pixel of an h×w grid.
func NewIndexTable(h, w int) *IndexTable {
	t := &IndexTable{
		H:    h,
		W:    w,
		vars: make([]int, h*w),
		ys:   make([]int, 0, h*w),
		xs:   make([]int, 0, h*w),
	}
	for y := range h {
		for x := range w {
			t.vars[labelOffset(w, x, y)] = len(t.ys)
			t.ys = append(t.ys, y)
			t.xs = append(t.xs, x)
		}
	}
	return t
}

// NewMaskedIndexTable indexes the pixels where m is set.
func NewMaskedIndexTable(m *Mask) *IndexTable {
	n := m.Count()
	t := &IndexTable{
		H:    m.H,
		W:    m.W,
		vars: make([]int, m.H*m.W),
		ys:   make([]int, 0, n),
		xs:   make([]int, 0, n),
	}
	for y := range m.H {
		for x := range m.W {
			idx := labelOffset(m.W, x, y)
			if !m.Bits[idx] {
				t.vars[idx] = -1
				continue
			}
			t.vars[idx] = len(t.ys)
			t.ys = append(t.ys, y)
			t.xs = append(t.xs, x)
		}
	}
	return t
}

// Len returns the number of variables.
func (t *IndexTable) Len() int {
	return len(t.ys)
}

// Var returns the variable of (y, x). ok is false for coordinates outside
// the grid and for pixels that are not unknowns.
func (t *IndexTable) Var(y, x int) (v int, ok bool) {
	if y < 0 || y >= t.H || x < 0 || x >= t.W {
		return -1, false
	}
	v = t.vars[labelOffset(t.W, x, y)]
	return v, v >= 0
}

// Coord returns the pixel of variable v.
func (t *IndexTable) Coord(v int) (y, x int) {
	return t.ys[v], t.xs[v]
}

func labelOffset(w, x, y int) int {
	return y*w + x
}
