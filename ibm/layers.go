package ibm

import (
	"github.com/notargets/viscousflow/grid"
	"github.com/notargets/viscousflow/utils"
)

/*
DoubleLayer maps a velocity jump across the surface to the grid as the divergence of the regularized
tensor [u] n. The diagonal of the tensor lives on primal nodes, the off diagonal on dual nodes.
*/
type DoubleLayer struct {
	RP, RD utils.CSR
	nx, ny []float64
	tensor *grid.EdgeGradient
	buf    []float64
}

func newDoubleLayer(g *grid.PhysicalGrid, k Kernel, x, y, nx, ny, ds []float64) *DoubleLayer {
	return &DoubleLayer{
		RP:     regularization(nodes(g, grid.Primal), k, g.Dx, x, y, ds, "DoubleLayerPrimal"),
		RD:     regularization(nodes(g, grid.Dual), k, g.Dx, x, y, ds, "DoubleLayerDual"),
		nx:     nx,
		ny:     ny,
		tensor: grid.NewEdgeGradient(g),
		buf:    make([]float64, len(x)),
	}
}

// Apply overwrites out with the unscaled double layer of jump.
func (dl *DoubleLayer) Apply(out *grid.Edges, jump grid.VectorData) {
	product := func(a, b []float64) []float64 {
		for p := range dl.buf {
			dl.buf[p] = a[p] * b[p]
		}
		return dl.buf
	}
	dl.RP.MulVec(dl.tensor.XX, product(jump.U, dl.nx))
	dl.RP.MulVec(dl.tensor.YY, product(jump.V, dl.ny))
	dl.RD.MulVec(dl.tensor.XY, product(jump.U, dl.ny))
	dl.RD.MulVec(dl.tensor.YX, product(jump.V, dl.nx))
	grid.DivergenceTensor(out, dl.tensor)
}

// SingleLayer regularizes a surface density onto primal nodes.
type SingleLayer struct {
	RP utils.CSR
}

func newSingleLayer(g *grid.PhysicalGrid, k Kernel, x, y, ds []float64) *SingleLayer {
	return &SingleLayer{
		RP: regularization(nodes(g, grid.Primal), k, g.Dx, x, y, ds, "SingleLayer"),
	}
}

func (sl *SingleLayer) Apply(out *grid.Nodes, sigma grid.ScalarData) {
	if out.Kind != grid.Primal {
		panic("single layer output must be a primal node field")
	}
	sl.RP.MulVec(out.Data, sigma)
}
