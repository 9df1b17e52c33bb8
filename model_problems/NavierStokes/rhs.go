package NavierStokes

import (
	"github.com/notargets/viscousflow/bodies"
	"github.com/notargets/viscousflow/grid"
	"github.com/notargets/viscousflow/ibm"
	"github.com/notargets/viscousflow/ode"
	"github.com/notargets/viscousflow/types"
)

// velocity reconstructs u = -curl(L^-1 w) + U_inf(t) on the edges, psi is left holding L^-1 w.
func (ns *NavierStokes) velocity(out *grid.Edges, psi *grid.Nodes, w []float64, t float64) {
	copy(psi.Data, w)
	ns.Lap.Solve(psi, psi)
	grid.Curl(out, psi)
	U := ns.Freestream.Velocity(t)
	for i := range out.U {
		out.U[i] = -out.U[i] + U.X
	}
	for i := range out.V {
		out.V[i] = -out.V[i] + U.Y
	}
}

// surfaceVelocity fills ub with the rigid body velocity at every Lagrange point.
func (ns *NavierStokes) surfaceVelocity(ub grid.VectorData, t float64) {
	for k, b := range ns.Bodies {
		i0, i1 := ns.Bodies.PointRange(k)
		ns.Motions[k].SurfaceVelocity(b, t, ub.U[i0:i1], ub.V[i0:i1])
	}
}

// velocityJump is the body velocity relative to the freestream, sign reversed for internal flow.
func (ns *NavierStokes) velocityJump(jump grid.VectorData, t float64) {
	ns.surfaceVelocity(jump, t)
	var (
		U    = ns.Freestream.Velocity(t)
		sign = 1.
	)
	if ns.flowSide == types.InternalFlow {
		sign = -1
	}
	for p := range jump.U {
		jump.U[p] = sign * (jump.U[p] - U.X)
		jump.V[p] = sign * (jump.V[p] - U.Y)
	}
}

/*
RHS evaluates the explicit part of dw/dt into dw:
	1. zero the edge accumulator
	2. subtract the convective derivative of the reconstructed velocity, scaled by 1/Dx
	3. subtract the double layer of the velocity jump, scaled by 1/(Re Dx), when the layer is present
	4. take the curl of the accumulator onto dual nodes
	5. add Dx*amplitude(t)*pattern for every pulse
The result depends only on (w, t) and the current body configuration.
*/
func (ns *NavierStokes) RHS(dw, w []float64, t float64) {
	var (
		dx  = ns.Grid.Dx
		acc = ns.acc
	)
	acc.Fill(0)
	ns.velocity(ns.vel, ns.psi, w, t)
	grid.ConvectiveDerivative(ns.vel, ns.vel, ns.conv)
	acc.AddScaled(-1/dx, ns.vel)
	if dl, ok := ns.Im.DL.Get(); ok {
		ns.velocityJump(ns.jump, t)
		dl.Apply(ns.dlE, ns.jump)
		acc.AddScaled(-1/(ns.Re*dx), ns.dlE)
	}
	out := ns.view(ns.out, dw)
	grid.CurlEdges(out, acc)
	for _, p := range ns.pulses {
		if a := p.amplitude(t); a != 0 {
			out.AddScaled(dx*a, p.field)
		}
	}
}

// ConstraintRHS is the body velocity relative to the freestream at the points, U components first.
func (ns *NavierStokes) ConstraintRHS(r2 []float64, t float64) {
	ns.surfaceVelocity(ns.ub, t)
	U := ns.Freestream.Velocity(t)
	N := ns.NumPts()
	for p := 0; p < N; p++ {
		r2[p] = ns.ub.U[p] - U.X
		r2[N+p] = ns.ub.V[p] - U.Y
	}
}

func (ns *NavierStokes) pointView(f []float64) grid.VectorData {
	N := ns.NumPts()
	return grid.VectorData{U: f[:N], V: f[N : 2*N]}
}

// ForceOp computes B1T f = curl(R f).
func (ns *NavierStokes) ForceOp(out, f []float64) {
	ns.Im.Regularize(ns.qE, ns.pointView(f))
	grid.CurlEdges(ns.view(ns.out, out), ns.qE)
}

// ConstraintOp computes B2 w = -E curl(L^-1 w), the point velocity less the freestream.
func (ns *NavierStokes) ConstraintOp(out, w []float64) {
	copy(ns.psi.Data, w)
	ns.Lap.Solve(ns.psi, ns.psi)
	grid.Curl(ns.qE, ns.psi)
	v := ns.pointView(out)
	ns.Im.Interpolate(v, ns.qE)
	for p := range v.U {
		v.U[p], v.V[p] = -v.U[p], -v.V[p]
	}
}

// Linear applies exp(tau L/(Re Dx^2)); one integrating factor is kept per tau.
func (ns *NavierStokes) Linear(out, in []float64, tau float64) {
	E, ok := ns.factors[tau]
	if !ok {
		E = grid.NewIntegratingFactor(ns.Grid, grid.Dual, tau/(ns.Re*ns.Grid.Dx*ns.Grid.Dx))
		ns.factors[tau] = E
	}
	E.Apply(ns.view(ns.out, out), ns.view(ns.in, in))
}

// AuxRHS is the rate of change of each body's (Cx, Cy, Alpha).
func (ns *NavierStokes) AuxRHS(daux, aux []float64, t float64) {
	bodies.AuxRate(daux, ns.Motions, t)
}

// ODEFunction bundles the system for the constrained integrator. Only moving bodies carry the
// auxiliary state and the update hook.
func (ns *NavierStokes) ODEFunction() (fn ode.Function) {
	fn = ode.Function{
		StateRHS: ns.RHS,
		Linear:   ns.Linear,
	}
	if ns.BodyConfig == types.Unbounded {
		return
	}
	fn.ConstraintRHS = ns.ConstraintRHS
	fn.ForceOp = ns.ForceOp
	fn.ConstraintOp = ns.ConstraintOp
	if ns.BodyConfig == types.MovingBodies {
		fn.AuxRHS = ns.AuxRHS
		fn.UpdateParams = func(aux []float64, t float64) error { return ns.UpdateBodies(aux) }
	}
	return
}

// Immersion exposes the current coupling operators.
func (ns *NavierStokes) Immersion() *ibm.Immersion { return ns.Im }
