package utils

import (
	"fmt"

	"github.com/james-bowman/sparse"
	"github.com/james-bowman/sparse/blas"
	"gonum.org/v1/gonum/mat"
)

// DOK accumulates entries of an operator before it is frozen into CSR form.
type DOK struct {
	M    *sparse.DOK
	name string
}

func NewDOK(nr, nc int, name string) (R DOK) {
	R = DOK{
		M:    sparse.NewDOK(nr, nc),
		name: name,
	}
	return
}

func (m DOK) Dims() (r, c int) { return m.M.Dims() }

// Add sums into an entry, repeated contributions from neighbouring points accumulate.
func (m DOK) Add(i, j int, val float64) {
	if val == 0 {
		return
	}
	m.M.Set(i, j, m.M.At(i, j)+val)
}

func (m DOK) ToCSR() CSR {
	return CSR{
		M:        m.M.ToCSR(),
		readOnly: true,
		name:     m.name,
	}
}

// CSR is a read only compressed row operator with allocation free products.
type CSR struct {
	M        *sparse.CSR
	readOnly bool
	name     string
}

func NewCSR(nr, nc int, name string) (R CSR) {
	R = CSR{
		M:    sparse.NewCSR(nr, nc, nil, nil, nil),
		name: name,
	}
	return
}

// Dims, At and T minimally satisfy the mat.Matrix interface.
func (m CSR) Dims() (r, c int)              { return m.M.Dims() }
func (m CSR) At(i, j int) float64           { return m.M.At(i, j) }
func (m CSR) T() mat.Matrix                 { return m.M.T() }
func (m CSR) RawMatrix() *blas.SparseMatrix { return m.M.RawMatrix() }
func (m CSR) Name() string                  { return m.name }
func (m CSR) NNZ() int                      { return m.M.NNZ() }
func (m CSR) Data() []float64 {
	return m.RawMatrix().Data
}

// MulCSR forms the product a*b as a new read only CSR.
func MulCSR(a, b CSR, name string) (R CSR) {
	var (
		nr, _ = a.Dims()
		_, nc = b.Dims()
	)
	R = NewCSR(nr, nc, name)
	R.M.Mul(a.M, b.M)
	R.readOnly = true
	return
}

// MulVec computes y = M x, overwriting y.
func (m CSR) MulVec(y, x []float64) {
	var (
		raw    = m.RawMatrix()
		nr, nc = m.Dims()
	)
	m.checkDims(len(y), len(x), nr, nc)
	for i := 0; i < nr; i++ {
		var sum float64
		for k := raw.Indptr[i]; k < raw.Indptr[i+1]; k++ {
			sum += raw.Data[k] * x[raw.Ind[k]]
		}
		y[i] = sum
	}
}

func (m CSR) checkDims(ny, nx, nr, nc int) {
	if ny != nr || nx != nc {
		err := fmt.Errorf("dimension mismatch in product with operator \"%v\": [%d x %d] with x[%d], y[%d]",
			m.name, nr, nc, nx, ny)
		panic(err)
	}
}
