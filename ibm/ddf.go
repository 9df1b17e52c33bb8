package ibm

import (
	"math"

	"github.com/notargets/viscousflow/types"
)

// Kernel is a one dimensional discrete delta function in grid units, the 2D kernel is the tensor product.
type Kernel struct {
	Type    types.DDFType
	Support float64
	Phi     func(r float64) float64
}

func NewKernel(dt types.DDFType) (k Kernel) {
	k.Type = dt
	switch dt {
	case types.DDF_Witchhat:
		k.Support, k.Phi = 1, witchhat
	case types.DDF_M4Prime:
		k.Support, k.Phi = 2, m4prime
	case types.DDF_Peskin4:
		k.Support, k.Phi = 2, peskin4
	default:
		k.Type = types.DDF_Roma
		k.Support, k.Phi = 1.5, roma
	}
	return
}

func roma(r float64) float64 {
	r = math.Abs(r)
	switch {
	case r <= 0.5:
		return (1 + math.Sqrt(1-3*r*r)) / 3
	case r <= 1.5:
		rm := 1 - r
		return (5 - 3*r - math.Sqrt(1-3*rm*rm)) / 6
	}
	return 0
}

func witchhat(r float64) float64 {
	return math.Max(0, 1-math.Abs(r))
}

func m4prime(r float64) float64 {
	r = math.Abs(r)
	switch {
	case r <= 1:
		return 1 - 2.5*r*r + 1.5*r*r*r
	case r <= 2:
		return 0.5 * (2 - r) * (2 - r) * (1 - r)
	}
	return 0
}

func peskin4(r float64) float64 {
	if math.Abs(r) >= 2 {
		return 0
	}
	return 0.25 * (1 + math.Cos(0.5*math.Pi*r))
}
