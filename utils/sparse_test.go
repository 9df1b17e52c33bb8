package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"gonum.org/v1/gonum/mat"
)

func TestCSR(t *testing.T) {
	a := NewDOK(2, 3, "A")
	a.Add(0, 0, 1)
	a.Add(0, 2, 2)
	a.Add(0, 2, 0.5) // accumulates
	a.Add(1, 1, -3)
	a.Add(1, 0, 0)
	A := a.ToCSR()
	assert.Equal(t, 3, A.NNZ())
	assert.Equal(t, "A", A.Name())
	Ad := mat.NewDense(2, 3, []float64{1, 0, 2.5, 0, -3, 0})
	assert.True(t, mat.Equal(Ad, A))
	{ // Products with vectors
		x := []float64{1, 2, 3}
		y := []float64{9, 9}
		A.MulVec(y, x)
		assert.Equal(t, []float64{8.5, -6}, y)
		assert.Panics(t, func() { A.MulVec(make([]float64, 3), x) })
	}
	{ // Operator products
		b := NewDOK(3, 2, "B")
		b.Add(0, 1, 2)
		b.Add(2, 0, 4)
		b.Add(1, 1, 1)
		C := MulCSR(A, b.ToCSR(), "AB")
		var Cd mat.Dense
		Cd.Mul(Ad, mat.NewDense(3, 2, []float64{0, 2, 0, 1, 4, 0}))
		assert.True(t, mat.EqualApprox(&Cd, C, 1.e-14))
		assert.Equal(t, "AB", C.Name())
	}
}
