package ode

import (
	"fmt"
	"strings"
)

// Tableau holds explicit Runge-Kutta coefficients, A is strictly lower triangular.
type Tableau struct {
	Name  string
	Order int
	A     [][]float64
	B, C  []float64
}

func (tb Tableau) Stages() int { return len(tb.B) }

func Euler1() Tableau {
	return Tableau{Name: "Euler1", Order: 1, A: [][]float64{{0}}, B: []float64{1}, C: []float64{0}}
}

func Heun2() Tableau {
	return Tableau{
		Name:  "Heun2",
		Order: 2,
		A:     [][]float64{{0, 0}, {1, 0}},
		B:     []float64{0.5, 0.5},
		C:     []float64{0, 1},
	}
}

func Kutta3() Tableau {
	return Tableau{
		Name:  "Kutta3",
		Order: 3,
		A:     [][]float64{{0, 0, 0}, {0.5, 0, 0}, {-1, 2, 0}},
		B:     []float64{1. / 6, 2. / 3, 1. / 6},
		C:     []float64{0, 0.5, 1},
	}
}

var TableauNames = map[string]func() Tableau{
	"euler1": Euler1,
	"heun2":  Heun2,
	"kutta3": Kutta3,
}

func NewTableau(label string) (tb Tableau, err error) {
	if len(label) == 0 {
		return Kutta3(), nil
	}
	f, ok := TableauNames[strings.ToLower(label)]
	if !ok {
		err = fmt.Errorf("unable to use tableau named %s", label)
		return
	}
	return f(), nil
}

// row returns the coefficients of stage i, the final update being row Stages().
func (tb Tableau) row(i int) (a []float64, c float64) {
	if i == tb.Stages() {
		return tb.B, 1
	}
	return tb.A[i], tb.C[i]
}
