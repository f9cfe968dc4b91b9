package poisson

import (
	"fmt"
	"slices"

	"gonum.org/v1/gonum/mat"
)

// Triplets accumulates matrix entries in coordinate form while a system is
// being assembled. Entries written twice to the same position are summed.
type Triplets struct {
	rows, cols int
	i, j       []int
	v          []float64
}

// NewTriplets returns an empty rows×cols accumulator.
func NewTriplets(rows, cols int) *Triplets {
	return &Triplets{rows: rows, cols: cols}
}

// Dims returns the matrix size.
func (t *Triplets) Dims() (r, c int) {
	return t.rows, t.cols
}

// Add appends v at (i, j).
func (t *Triplets) Add(i, j int, v float64) {
	if i < 0 || i >= t.rows || j < 0 || j >= t.cols {
		panic(fmt.Sprintf("poisson: triplet (%d, %d) outside %dx%d", i, j, t.rows, t.cols))
	}
	t.i = append(t.i, i)
	t.j = append(t.j, j)
	t.v = append(t.v, v)
}

// Grow appends rows to the matrix and returns the index of the first new row.
func (t *Triplets) Grow(rows int) int {
	first := t.rows
	t.rows += rows
	return first
}

// Len returns the number of entries written so far.
func (t *Triplets) Len() int {
	return len(t.v)
}

// ToCSR compresses the accumulated entries. Explicit zeros are dropped.
func (t *Triplets) ToCSR() *CSR {
	m := &CSR{
		rows:   t.rows,
		cols:   t.cols,
		rowPtr: make([]int, t.rows+1),
	}
	for _, r := range t.i {
		m.rowPtr[r+1]++
	}
	for r := range t.rows {
		m.rowPtr[r+1] += m.rowPtr[r]
	}

	colIdx := make([]int, len(t.v))
	vals := make([]float64, len(t.v))
	next := slices.Clone(m.rowPtr[:t.rows])
	for k, r := range t.i {
		p := next[r]
		colIdx[p] = t.j[k]
		vals[p] = t.v[k]
		next[r]++
	}

	// Sort each row by column and fold duplicates.
	m.colIdx = make([]int, 0, len(colIdx))
	m.vals = make([]float64, 0, len(vals))
	order := make([]int, 0, 8)
	for r := range t.rows {
		start, end := m.rowPtr[r], m.rowPtr[r+1]
		order = order[:0]
		for p := start; p < end; p++ {
			order = append(order, p)
		}
		slices.SortFunc(order, func(a, b int) int { return colIdx[a] - colIdx[b] })

		m.rowPtr[r] = len(m.vals)
		for k := 0; k < len(order); {
			c := colIdx[order[k]]
			sum := 0.0
			for k < len(order) && colIdx[order[k]] == c {
				sum += vals[order[k]]
				k++
			}
			if sum != 0 {
				m.colIdx = append(m.colIdx, c)
				m.vals = append(m.vals, sum)
			}
		}
	}
	m.rowPtr[t.rows] = len(m.vals)
	return m
}

// CSR is a compressed sparse row matrix. It implements mat.Matrix.
type CSR struct {
	rows, cols int
	rowPtr     []int
	colIdx     []int
	vals       []float64
}

var _ mat.Matrix = (*CSR)(nil)

// Dims returns the matrix size.
func (m *CSR) Dims() (r, c int) {
	return m.rows, m.cols
}

// At returns the element at (i, j).
func (m *CSR) At(i, j int) float64 {
	if i < 0 || i >= m.rows || j < 0 || j >= m.cols {
		panic(mat.ErrIndexOutOfRange)
	}
	row := m.colIdx[m.rowPtr[i]:m.rowPtr[i+1]]
	if k, found := slices.BinarySearch(row, j); found {
		return m.vals[m.rowPtr[i]+k]
	}
	return 0
}

// T returns the implicit transpose.
func (m *CSR) T() mat.Matrix {
	return mat.Transpose{Matrix: m}
}

// NNZ returns the number of stored non-zero entries.
func (m *CSR) NNZ() int {
	return len(m.vals)
}

// Row returns the column indices and values of row i. The slices alias the
// matrix storage.
func (m *CSR) Row(i int) (cols []int, vals []float64) {
	start, end := m.rowPtr[i], m.rowPtr[i+1]
	return m.colIdx[start:end], m.vals[start:end]
}

// MulVecTo computes dst = A·x.
func (m *CSR) MulVecTo(dst, x []float64) {
	if len(x) != m.cols || len(dst) != m.rows {
		panic(mat.ErrShape)
	}
	for r := range m.rows {
		sum := 0.0
		for p := m.rowPtr[r]; p < m.rowPtr[r+1]; p++ {
			sum += m.vals[p] * x[m.colIdx[p]]
		}
		dst[r] = sum
	}
}

// MulTransVecTo computes dst = Aᵀ·y.
func (m *CSR) MulTransVecTo(dst, y []float64) {
	if len(y) != m.rows || len(dst) != m.cols {
		panic(mat.ErrShape)
	}
	clear(dst)
	for r := range m.rows {
		yr := y[r]
		if yr == 0 {
			continue
		}
		for p := m.rowPtr[r]; p < m.rowPtr[r+1]; p++ {
			dst[m.colIdx[p]] += m.vals[p] * yr
		}
	}
}

// Dense expands the matrix. Intended for small systems and debugging; it
// returns nil for a matrix with no rows or columns.
func (m *CSR) Dense() *mat.Dense {
	if m.rows == 0 || m.cols == 0 {
		return nil
	}
	d := mat.NewDense(m.rows, m.cols, nil)
	for r := range m.rows {
		for p := m.rowPtr[r]; p < m.rowPtr[r+1]; p++ {
			d.Set(r, m.colIdx[p], m.vals[p])
		}
	}
	return d
}
