package NavierStokes

import (
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/notargets/viscousflow/grid"
)

func (ns *NavierStokes) Vorticity(sol *Solution) (omega *grid.Nodes) {
	omega = grid.NewNodes(ns.Grid, grid.Dual)
	copy(omega.Data, sol.W)
	omega.Scale(1 / ns.Grid.Dx)
	return
}

func (ns *NavierStokes) Velocity(sol *Solution) (u *grid.Edges) {
	u = grid.NewEdges(ns.Grid)
	ns.velocity(u, grid.NewNodes(ns.Grid, grid.Dual), sol.W, sol.Time)
	return
}

// Streamfunction is the disturbance streamfunction -Dx L^-1 w, the freestream not included.
func (ns *NavierStokes) Streamfunction(sol *Solution) (psi *grid.Nodes) {
	psi = grid.NewNodes(ns.Grid, grid.Dual)
	copy(psi.Data, sol.W)
	ns.Lap.Solve(psi, psi)
	psi.Scale(-ns.Grid.Dx)
	return
}

// Circulation is the integral of vorticity over the grid.
func (ns *NavierStokes) Circulation(sol *Solution) (gamma float64) {
	for _, w := range sol.W {
		gamma += w
	}
	return gamma * ns.Grid.Dx
}

func (ns *NavierStokes) primalLaplacian() *grid.Laplacian {
	ns.primOnce.Do(func() {
		ns.lapPrimal = grid.NewLaplacian(ns.Grid, grid.Primal)
	})
	return ns.lapPrimal
}

/*
Pressure solves the pressure Poisson equation on primal nodes,
	lap p = div(-N - R f - DL([u])/(Re Dx))
using the multipliers held in sol. The freestream acceleration is not included.
*/
func (ns *NavierStokes) Pressure(sol *Solution) (p *grid.Nodes) {
	var (
		g   = ns.Grid
		dx  = g.Dx
		acc = grid.NewEdges(g)
		q   = grid.NewEdges(g)
	)
	ns.velocity(q, grid.NewNodes(g, grid.Dual), sol.W, sol.Time)
	grid.ConvectiveDerivative(q, q, grid.NewConvectiveCache(g))
	acc.AddScaled(-1/dx, q)
	if ns.Im.HasPoints() {
		ns.Im.Regularize(q, ns.pointView(sol.Constraint))
		acc.AddScaled(-1, q)
	}
	if dl, ok := ns.Im.DL.Get(); ok {
		jump := grid.NewVectorData(ns.NumPts())
		ns.velocityJump(jump, sol.Time)
		dl.Apply(q, jump)
		acc.AddScaled(-1/(ns.Re*dx), q)
	}
	p = grid.NewNodes(g, grid.Primal)
	grid.Divergence(p, acc)
	ns.primalLaplacian().Solve(p, p)
	p.Scale(dx)
	return
}

// ScalarPotential solves lap phi = single layer of the normal velocity jump. It is zero when both
// sides of the surface carry fluid.
func (ns *NavierStokes) ScalarPotential(sol *Solution) (phi *grid.Nodes) {
	phi = grid.NewNodes(ns.Grid, grid.Primal)
	sl, ok := ns.Im.SL.Get()
	if !ok {
		return
	}
	var (
		N     = ns.NumPts()
		jump  = grid.NewVectorData(N)
		sigma = make(grid.ScalarData, N)
		im    = ns.Im
	)
	ns.velocityJump(jump, sol.Time)
	for p := range sigma {
		sigma[p] = im.NX[p]*jump.U[p] + im.NY[p]*jump.V[p]
	}
	sl.Apply(phi, sigma)
	ns.primalLaplacian().Solve(phi, phi)
	phi.Scale(ns.Grid.Dx * ns.Grid.Dx)
	return
}

// Force on body k, the sum of the multipliers weighted by arc length.
func (ns *NavierStokes) Force(sol *Solution, k int) (F r2.Vec) {
	var (
		f      = ns.pointView(sol.Constraint)
		i0, i1 = ns.Bodies.PointRange(k)
	)
	for p := i0; p < i1; p++ {
		F.X += f.U[p] * ns.Im.DS[p]
		F.Y += f.V[p] * ns.Im.DS[p]
	}
	return
}

// FilteredTraction smooths the multipliers with the composite matrices, normalized row by row.
func (ns *NavierStokes) FilteredTraction(sol *Solution) (ft grid.VectorData) {
	var (
		N    = ns.NumPts()
		ones = grid.NewVectorData(N)
		norm = grid.NewVectorData(N)
	)
	ft = grid.NewVectorData(N)
	if N == 0 {
		return
	}
	ones.Fill(1)
	ns.Im.Smooth(norm, ones)
	ns.Im.Smooth(ft, ns.pointView(sol.Constraint))
	for p := 0; p < N; p++ {
		ft.U[p] /= norm.U[p]
		ft.V[p] /= norm.V[p]
	}
	return
}
