package grid

import (
	"fmt"
	"math"

	"github.com/notargets/viscousflow/utils"
)

/*
	PhysicalGrid is a uniform staggered grid.
		- Dual nodes sit at cell centres and carry vorticity and streamfunction, one ghost layer surrounds
		  the physical domain so that NX, NY count ghosts.
		- Primal nodes sit at cell corners and carry pressure-like scalars.
		- Edges carry velocity, the u component at (dual x, primal y) and the v component at (primal x, dual y).
	Dual node (i,j) is at (XMin+(i-1/2)Dx, YMin+(j-1/2)Dx), primal node (i,j) is at (XMin+i*Dx, YMin+j*Dx).
*/
type PhysicalGrid struct {
	NX, NY     int
	Dx         float64
	XMin, YMin float64
}

func NewPhysicalGrid(xlim, ylim [2]float64, dx float64) (g *PhysicalGrid, err error) {
	if dx <= 0 || math.IsNaN(dx) {
		err = fmt.Errorf("%w: grid cell size must be positive, have %v", utils.ErrConfiguration, dx)
		return
	}
	if !(xlim[1] > xlim[0]) || !(ylim[1] > ylim[0]) {
		err = fmt.Errorf("%w: grid extents must be increasing, have x%v y%v", utils.ErrConfiguration, xlim, ylim)
		return
	}
	var (
		nx, okx = cellCount(xlim, dx)
		ny, oky = cellCount(ylim, dx)
	)
	if !okx || !oky {
		err = fmt.Errorf("%w: extents x%v y%v are not a whole number of cells of size %v",
			utils.ErrConfiguration, xlim, ylim, dx)
		return
	}
	g = &PhysicalGrid{
		NX:   nx + 2,
		NY:   ny + 2,
		Dx:   dx,
		XMin: xlim[0],
		YMin: ylim[0],
	}
	return
}

func cellCount(lim [2]float64, dx float64) (n int, ok bool) {
	ncell := (lim[1] - lim[0]) / dx
	n = int(math.Round(ncell))
	ok = n > 0 && math.Abs(ncell-float64(n)) <= utils.GRIDTOL*math.Max(1, ncell)
	return
}

func (g *PhysicalGrid) XDual(i int) float64   { return g.XMin + (float64(i)-0.5)*g.Dx }
func (g *PhysicalGrid) YDual(j int) float64   { return g.YMin + (float64(j)-0.5)*g.Dx }
func (g *PhysicalGrid) XPrimal(i int) float64 { return g.XMin + float64(i)*g.Dx }
func (g *PhysicalGrid) YPrimal(j int) float64 { return g.YMin + float64(j)*g.Dx }

// Limits returns the physical extents tiled by the interior cells.
func (g *PhysicalGrid) Limits() (xlim, ylim [2]float64) {
	xlim = [2]float64{g.XMin, g.XMin + float64(g.NX-2)*g.Dx}
	ylim = [2]float64{g.YMin, g.YMin + float64(g.NY-2)*g.Dx}
	return
}

func (g *PhysicalGrid) NodeDims(kind NodeKind) (nx, ny int) {
	if kind == Primal {
		return g.NX - 1, g.NY - 1
	}
	return g.NX, g.NY
}

func (g *PhysicalGrid) NodeCoords(kind NodeKind, i, j int) (x, y float64) {
	if kind == Primal {
		return g.XPrimal(i), g.YPrimal(j)
	}
	return g.XDual(i), g.YDual(j)
}

func (g *PhysicalGrid) String() string {
	xlim, ylim := g.Limits()
	return fmt.Sprintf("PhysicalGrid: %d x %d dual cells, Dx = %8.5f, x in [%8.4f, %8.4f], y in [%8.4f, %8.4f]",
		g.NX, g.NY, g.Dx, xlim[0], xlim[1], ylim[0], ylim[1])
}
