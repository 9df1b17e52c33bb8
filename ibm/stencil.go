package ibm

import (
	"math"

	"github.com/notargets/viscousflow/grid"
	"github.com/notargets/viscousflow/utils"
)

// family is a lattice of grid locations x0 + i*Dx, y0 + j*Dx stored with i varying fastest.
type family struct {
	x0, y0 float64
	nx, ny int
}

func (f family) size() int { return f.nx * f.ny }

func uEdges(g *grid.PhysicalGrid) family {
	return family{x0: g.XDual(0), y0: g.YPrimal(0), nx: g.NX, ny: g.NY - 1}
}

func vEdges(g *grid.PhysicalGrid) family {
	return family{x0: g.XPrimal(0), y0: g.YDual(0), nx: g.NX - 1, ny: g.NY}
}

func nodes(g *grid.PhysicalGrid, kind grid.NodeKind) family {
	nx, ny := g.NodeDims(kind)
	if kind == grid.Primal {
		return family{x0: g.XPrimal(0), y0: g.YPrimal(0), nx: nx, ny: ny}
	}
	return family{x0: g.XDual(0), y0: g.YDual(0), nx: nx, ny: ny}
}

// visit calls fn for every lattice location inside the kernel support around (X, Y).
func (f family) visit(k Kernel, dx, X, Y float64, fn func(row int, w float64)) {
	var (
		sx = (X - f.x0) / dx
		sy = (Y - f.y0) / dx
		i0 = max(0, int(math.Ceil(sx-k.Support)))
		i1 = min(f.nx-1, int(math.Floor(sx+k.Support)))
		j0 = max(0, int(math.Ceil(sy-k.Support)))
		j1 = min(f.ny-1, int(math.Floor(sy+k.Support)))
	)
	for j := j0; j <= j1; j++ {
		wy := k.Phi(float64(j) - sy)
		if wy == 0 {
			continue
		}
		for i := i0; i <= i1; i++ {
			if w := wy * k.Phi(float64(i)-sx); w != 0 {
				fn(i+f.nx*j, w)
			}
		}
	}
}

// regularization spreads point values onto the family, each point weighted by ds/Dx^2.
func regularization(f family, k Kernel, dx float64, x, y, ds []float64, name string) utils.CSR {
	R := utils.NewDOK(f.size(), len(x), name)
	for p := range x {
		scale := ds[p] / (dx * dx)
		f.visit(k, dx, x[p], y[p], func(row int, w float64) {
			R.Add(row, p, scale*w)
		})
	}
	return R.ToCSR()
}

// interpolation samples the family at the points, every weight multiplied by scale.
func interpolation(f family, k Kernel, dx, scale float64, x, y []float64, name string) utils.CSR {
	E := utils.NewDOK(len(x), f.size(), name)
	for p := range x {
		f.visit(k, dx, x[p], y[p], func(col int, w float64) {
			E.Add(p, col, scale*w)
		})
	}
	return E.ToCSR()
}
