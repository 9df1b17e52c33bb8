package grid

import (
	"math"

	"gonum.org/v1/gonum/integrate/quad"

	"github.com/notargets/viscousflow/utils"
)

const besselTol = 1.e-15

// LatticeBessel returns exp(-x) I_m(x) from the integral (1/pi) int_0^pi exp(x(cos t - 1)) cos(m t) dt.
func LatticeBessel(m int, x float64) float64 {
	if x == 0 {
		if m == 0 {
			return 1
		}
		return 0
	}
	npts := 128
	if x > 100 {
		npts = 512
	}
	f := func(t float64) float64 {
		return math.Exp(x*(math.Cos(t)-1)) * math.Cos(float64(m)*t)
	}
	return quad.Fixed(f, 0, math.Pi, npts, quad.Legendre{}, 0) / math.Pi
}

/*
IntegratingFactor applies exp(A L) to a node field, L being the 5-point Laplacian on the unbounded
lattice. The lattice heat kernel is separable, exp(-4A) I_m(2A) I_n(2A), so the operator is applied as
two one dimensional convolutions with B[k] = exp(-2A) I_k(2A), truncated where B falls below besselTol.
Both passes are split by rows across the CPUs.
*/
type IntegratingFactor struct {
	A      float64
	Nx, Ny int
	B      []float64
	tmp    []float64
	pm     *utils.PartitionMap
}

func NewIntegratingFactor(g *PhysicalGrid, kind NodeKind, a float64) (e *IntegratingFactor) {
	nx, ny := g.NodeDims(kind)
	e = &IntegratingFactor{
		A:   a,
		Nx:  nx,
		Ny:  ny,
		tmp: make([]float64, nx*ny),
		pm:  utils.NewCPUPartitionMap(ny),
	}
	maxK := nx
	if ny > maxK {
		maxK = ny
	}
	e.B = append(e.B, LatticeBessel(0, 2*a))
	for k := 1; k < maxK; k++ {
		b := LatticeBessel(k, 2*a)
		if math.Abs(b) < besselTol {
			break
		}
		e.B = append(e.B, b)
	}
	return
}

// Apply computes out = exp(A L) in, out may alias in.
func (e *IntegratingFactor) Apply(out, in *Nodes) {
	var (
		nx, ny = e.Nx, e.Ny
		K      = len(e.B) - 1
	)
	if in.Nx != nx || in.Ny != ny || out.Nx != nx || out.Ny != ny {
		panic("integrating factor applied to a node field of the wrong size")
	}
	if K == 0 {
		copy(out.Data, in.Data)
		return
	}
	e.pm.Run(func(_, jMin, jMax int) {
		for j := jMin; j < jMax; j++ {
			row := in.Data[j*nx : (j+1)*nx]
			for i := 0; i < nx; i++ {
				sum := e.B[0] * row[i]
				for k := 1; k <= K; k++ {
					if i-k >= 0 {
						sum += e.B[k] * row[i-k]
					}
					if i+k < nx {
						sum += e.B[k] * row[i+k]
					}
				}
				e.tmp[i+nx*j] = sum
			}
		}
	})
	e.pm.Run(func(_, jMin, jMax int) {
		for j := jMin; j < jMax; j++ {
			for i := 0; i < nx; i++ {
				sum := e.B[0] * e.tmp[i+nx*j]
				for k := 1; k <= K; k++ {
					if j-k >= 0 {
						sum += e.B[k] * e.tmp[i+nx*(j-k)]
					}
					if j+k < ny {
						sum += e.B[k] * e.tmp[i+nx*(j+k)]
					}
				}
				out.Data[i+nx*j] = sum
			}
		}
	})
}
