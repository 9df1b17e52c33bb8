package NavierStokes

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/notargets/viscousflow/bodies"
	"github.com/notargets/viscousflow/grid"
	"github.com/notargets/viscousflow/ibm"
	"github.com/notargets/viscousflow/ode"
	"github.com/notargets/viscousflow/types"
	"github.com/notargets/viscousflow/utils"
)

func baseParams(dx, dt float64) Parameters {
	return Parameters{
		Re:   100,
		Dx:   dx,
		XLim: [2]float64{-1, 1},
		YLim: [2]float64{-1, 1},
		Dt:   dt,
	}
}

func circle(t *testing.T, n int) bodies.BodyList {
	b, err := bodies.NewCircle(0.25, n)
	require.NoError(t, err)
	return bodies.BodyList{b}
}

func plate(t *testing.T, n int) bodies.BodyList {
	b, err := bodies.NewPlate(0.5, n)
	require.NoError(t, err)
	return bodies.BodyList{b}
}

func TestAssembly(t *testing.T) {
	{ // Unbounded flow carries no constraint
		ns, err := NewNavierStokes(baseParams(0.05, 0.01))
		require.NoError(t, err)
		assert.Equal(t, types.Unbounded, ns.BodyConfig)
		assert.Equal(t, 0, ns.NumPts())
		nw, nf, naux := ns.StateSizes()
		assert.Equal(t, 42*42, nw)
		assert.Equal(t, 0, nf)
		assert.Equal(t, 0, naux)
		fn := ns.ODEFunction()
		assert.False(t, fn.Constrained())
		assert.False(t, fn.Moving())
		assert.False(t, ns.Im.DL.IsPresent())
	}
	{ // Static body: composite smoothing is exactly the filtered interpolation times the regularization
		p := baseParams(0.05, 0.01)
		p.Bodies = circle(t, 32)
		p.StaticPoints = true
		ns, err := NewNavierStokes(p)
		require.NoError(t, err)
		assert.Equal(t, types.StaticBodies, ns.BodyConfig)
		assert.Equal(t, 32, ns.NumPts())
		assert.True(t, mat.Equal(ns.Im.CfU, utils.MulCSR(ns.Im.EfU, ns.Im.RU, "Cf")))
		assert.True(t, mat.Equal(ns.Im.CfV, utils.MulCSR(ns.Im.EfV, ns.Im.RV, "Cf")))
		_, nf, naux := ns.StateSizes()
		assert.Equal(t, 64, nf)
		assert.Equal(t, 0, naux)
		fn := ns.ODEFunction()
		assert.True(t, fn.Constrained())
		assert.False(t, fn.Moving())
		assert.True(t, ns.Im.DL.IsPresent())
		assert.True(t, ns.Im.SL.IsPresent())
	}
	{ // An open body forces the combined flow side
		core, logs := observer.New(zap.WarnLevel)
		p := baseParams(0.05, 0.01)
		p.Bodies = plate(t, 10)
		p.FlowSide = types.ExternalFlow
		ns, err := NewNavierStokes(p, WithLogger(zap.New(core)))
		require.NoError(t, err)
		assert.Equal(t, types.ExternalInternalFlow, ns.FlowSide())
		assert.False(t, ns.Im.DL.IsPresent())
		assert.False(t, ns.Im.SL.IsPresent())
		assert.Equal(t, 1, logs.FilterMessageSnippet("flow side forced").Len())
		assert.Equal(t, types.MovingBodies, ns.BodyConfig)
		assert.True(t, ns.ODEFunction().Moving())
	}
	{ // Static points with a translating motion is allowed but reported
		core, logs := observer.New(zap.WarnLevel)
		p := baseParams(0.05, 0.01)
		p.Bodies = circle(t, 32)
		p.StaticPoints = true
		p.Motions = []bodies.RigidBodyMotion{bodies.NewRigidBodyMotion(bodies.ConstantVelocity{U: r2.Vec{X: 1}})}
		_, err := NewNavierStokes(p, WithLogger(zap.New(core)))
		require.NoError(t, err)
		assert.Equal(t, 1, logs.FilterMessageSnippet("static points").Len())
	}
	{ // Pitching in place also moves the points
		core, logs := observer.New(zap.WarnLevel)
		p := baseParams(0.05, 0.01)
		p.Bodies = plate(t, 10)
		p.FlowSide = types.ExternalInternalFlow
		p.StaticPoints = true
		p.Motions = []bodies.RigidBodyMotion{bodies.NewRigidBodyMotion(bodies.ConstantVelocity{Omega: 0.5})}
		_, err := NewNavierStokes(p, WithLogger(zap.New(core)))
		require.NoError(t, err)
		assert.Equal(t, 1, logs.FilterMessageSnippet("static points").Len())
	}
	{ // A body held at its placement is not reported
		core, logs := observer.New(zap.WarnLevel)
		p := baseParams(0.05, 0.01)
		p.Bodies = circle(t, 32)
		p.StaticPoints = true
		_, err := NewNavierStokes(p, WithLogger(zap.New(core)))
		require.NoError(t, err)
		assert.Equal(t, 0, logs.Len())
	}
}

func TestConfigurationErrors(t *testing.T) {
	{ // A short motion list fails before the grid is allocated; this grid would not fit in memory
		p := baseParams(1.e-5, 0.01)
		p.Bodies = append(circle(t, 32), circle(t, 32)...)
		p.Motions = []bodies.RigidBodyMotion{bodies.NullMotion(p.Bodies[0])}
		ns, err := NewNavierStokes(p)
		assert.Nil(t, ns)
		assert.True(t, errors.Is(err, ErrConfiguration))
	}
	for _, mod := range []func(p *Parameters){
		func(p *Parameters) { p.Re = 0 },
		func(p *Parameters) { p.Re = math.NaN() },
		func(p *Parameters) { p.Dt = -1 },
		func(p *Parameters) { p.Dx = 0 },
		func(p *Parameters) { p.XLim = [2]float64{1, -1} },
		func(p *Parameters) { p.Dx = 0.3 },
		func(p *Parameters) { p.Bodies = bodies.BodyList{nil} },
		func(p *Parameters) { p.Freestream = Freestream{Type: types.VariableFreestream} },
		func(p *Parameters) { p.Pulses = []Pulse{{}} },
	} {
		p := baseParams(0.05, 0.01)
		mod(&p)
		_, err := NewNavierStokes(p)
		assert.True(t, errors.Is(err, ErrConfiguration), "%v", err)
	}
}

func movingCircleParams(t *testing.T) Parameters {
	p := baseParams(0.05, 0.01)
	p.Bodies = circle(t, 32)
	p.Motions = []bodies.RigidBodyMotion{bodies.NewRigidBodyMotion(bodies.Oscillation{
		Ax: 0.05, AAlpha: 0.1, Omega: 2 * math.Pi,
	})}
	p.Freestream = NewVariableFreestream(bodies.Ramp{U: r2.Vec{X: 1}, Tau: 0.1})
	p.Pulses = []Pulse{NewGaussianPulse(0.5, 0.2, 0.1, 1, 0.05, 0.02)}
	p.FlowSide = types.ExternalFlow
	return p
}

func TestRHS(t *testing.T) {
	{ // Repeated evaluation is bit identical
		ns, err := NewNavierStokes(movingCircleParams(t))
		require.NoError(t, err)
		sol := ns.NewSolution(0, func(x, y float64) float64 {
			return LambOseen(1, 0.2)(x-0.3, y+0.1)
		})
		require.NoError(t, ns.UpdateBodies(sol.Aux))
		nw, nf, _ := ns.StateSizes()
		dw1, dw2 := make([]float64, nw), make([]float64, nw)
		ns.RHS(dw1, sol.W, 0.04)
		// Dirty the shared scratch between the two calls
		ns.ConstraintOp(make([]float64, nf), dw1)
		ns.ForceOp(make([]float64, nw), make([]float64, nf))
		ns.RHS(dw2, sol.W, 0.04)
		assert.Equal(t, dw1, dw2)
		assert.Equal(t, -1, utils.FirstNonFinite(dw1))
	}
	{ // A fluid at rest stays at rest
		ns, err := NewNavierStokes(baseParams(0.05, 0.01))
		require.NoError(t, err)
		sol := ns.NewSolution(0, nil)
		dw := make([]float64, len(sol.W))
		ns.RHS(dw, sol.W, 0)
		for _, v := range dw {
			assert.Equal(t, 0., v)
		}
	}
	{ // A pulse deposits Dx*amplitude*pattern
		p := baseParams(0.05, 0.01)
		pulse := NewGaussianPulse(0, 0, 0.15, 2, 0.1, 0.05)
		p.Pulses = []Pulse{pulse}
		ns, err := NewNavierStokes(p)
		require.NoError(t, err)
		sol := ns.NewSolution(0, nil)
		dw := make([]float64, len(sol.W))
		ns.RHS(dw, sol.W, 0.12)
		// Total circulation rate is the strength times the amplitude
		rate := floats.Sum(dw) * ns.Grid.Dx
		assert.InDelta(t, 2*pulse.Amplitude(0.12), rate, 1.e-6)
	}
}

func TestRefresh(t *testing.T) {
	p := baseParams(0.05, 0.01)
	p.Bodies = circle(t, 32)
	p.Motions = []bodies.RigidBodyMotion{bodies.NewRigidBodyMotion(bodies.ConstantVelocity{U: r2.Vec{X: 0.5}})}
	ns, err := NewNavierStokes(p)
	require.NoError(t, err)
	var (
		x0 = append([]float64{}, ns.Im.X...)
		y0 = append([]float64{}, ns.Im.Y...)
		a  = 0.13
		b  = -0.07
	)
	{ // A rigid translation moves every Lagrange point by the same vector
		require.NoError(t, ns.UpdateBodies([]float64{a, b, 0}))
		for i := range x0 {
			assert.InDelta(t, x0[i]+a, ns.Im.X[i], 1.e-14)
			assert.InDelta(t, y0[i]+b, ns.Im.Y[i], 1.e-14)
		}
		moved, err := p.Bodies.Transform([]bodies.RigidTransform{bodies.NewRigidTransform(r2.Vec{X: a, Y: b}, 0)})
		require.NoError(t, err)
		im, err := ibm.Build(moved, ns.Grid, ns.FlowSide(), ns.DDF())
		require.NoError(t, err)
		assert.True(t, mat.Equal(im.RU, ns.Im.RU))
		assert.True(t, mat.Equal(im.EV, ns.Im.EV))
		assert.True(t, mat.Equal(ns.Im.CfU, utils.MulCSR(ns.Im.EfU, ns.Im.RU, "Cf")))
	}
	{ // The stored bodies do not alias the caller's list
		bl := ns.Bodies
		require.NoError(t, ns.SetBodies(bl))
		bl[0].X[0] = 99
		assert.NotEqual(t, 99., ns.Bodies[0].X[0])
		assert.NotEqual(t, 99., ns.Im.X[0])
	}
	{ // The point count is fixed once the system exists
		err := ns.SetBodies(circle(t, 40))
		assert.True(t, errors.Is(err, ErrConfiguration))
		err = ns.UpdateBodies([]float64{0, 0})
		assert.True(t, errors.Is(err, ErrConfiguration))
	}
}

func TestUnboundedFlow(t *testing.T) {
	{ // Circulation is conserved by a pair of co-rotating vortices
		p := baseParams(0.025, 0.01)
		ns, err := NewNavierStokes(p)
		require.NoError(t, err)
		sol := ns.NewSolution(0, func(x, y float64) float64 {
			return LambOseen(0.2, 0.08)(x-0.15, y) + LambOseen(0.2, 0.08)(x+0.15, y)
		})
		gamma0 := ns.Circulation(sol)
		assert.InDelta(t, 0.4, gamma0, 1.e-6)
		_, err = ns.Solve(context.Background(), sol, 0.1, ode.Kutta3(), 0)
		require.NoError(t, err)
		assert.InDelta(t, gamma0, ns.Circulation(sol), 1.e-4*gamma0)
		assert.InDelta(t, 0.1, sol.Time, 1.e-12)
	}
	{ // A Gaussian vortex spreads as sigma^2 + 4t/Re
		var (
			p           = baseParams(0.02, 0.01)
			gamma       = 1.
			sigma       = 0.2
			tEnd        = 0.5
			sigT        = math.Sqrt(sigma*sigma + 4*tEnd/p.Re)
			exact       = LambOseen(gamma, sigT)
			peak        = gamma / (math.Pi * sigT * sigT)
			maxErr, cnt float64
		)
		ns, err := NewNavierStokes(p)
		require.NoError(t, err)
		sol := ns.NewSolution(0, LambOseen(gamma, sigma))
		tr, err := ns.Solve(context.Background(), sol, tEnd, ode.Kutta3(), 10)
		require.NoError(t, err)
		assert.Equal(t, 6, tr.Len())
		omega := ns.Vorticity(sol)
		for j := 0; j < omega.Ny; j++ {
			for i := 0; i < omega.Nx; i++ {
				x, y := ns.Grid.NodeCoords(grid.Dual, i, j)
				if math.Hypot(x, y) > 0.5 {
					continue
				}
				maxErr = math.Max(maxErr, math.Abs(omega.At(i, j)-exact(x, y)))
				cnt++
			}
		}
		assert.Greater(t, cnt, 0.)
		assert.Less(t, maxErr, 0.02*peak)
	}
}

func TestBodyFlow(t *testing.T) {
	{ // Flow past a fixed circle: no slip at the points, drag downstream, no lift
		p := baseParams(0.05, 0.01)
		p.Bodies = circle(t, 32)
		p.StaticPoints = true
		p.Freestream = NewStaticFreestream(r2.Vec{X: 1})
		ns, err := NewNavierStokes(p)
		require.NoError(t, err)
		sol := ns.NewSolution(0, nil)
		_, err = ns.Solve(context.Background(), sol, 0.05, ode.Kutta3(), 0)
		require.NoError(t, err)
		pts := grid.NewVectorData(ns.NumPts())
		ns.Im.Interpolate(pts, ns.Velocity(sol))
		for i := range pts.U {
			assert.InDelta(t, 0., pts.U[i], 1.e-8)
			assert.InDelta(t, 0., pts.V[i], 1.e-8)
		}
		F := ns.Force(sol, 0)
		assert.Greater(t, F.X, 0.)
		assert.Less(t, math.Abs(F.Y), 1.e-3*F.X)
		ft := ns.FilteredTraction(sol)
		assert.Equal(t, -1, utils.FirstNonFinite(ft.U))
		phi := ns.ScalarPotential(sol)
		assert.Equal(t, -1, utils.FirstNonFinite(phi.Data))
		assert.NotEqual(t, 0., floats.Norm(phi.Data, 2))
	}
	{ // A heaving plate: body configuration follows the motion and the points move with the body
		p := baseParams(0.05, 0.01)
		p.Bodies = plate(t, 10)
		law := bodies.Oscillation{Ay: 0.1, Omega: 2 * math.Pi}
		p.Motions = []bodies.RigidBodyMotion{bodies.NewRigidBodyMotion(law)}
		ns, err := NewNavierStokes(p)
		require.NoError(t, err)
		sol := ns.NewSolution(0, nil)
		require.Len(t, sol.Aux, 3)
		_, err = ns.Solve(context.Background(), sol, 0.05, ode.Kutta3(), 0)
		require.NoError(t, err)
		ks := law.Evaluate(sol.Time)
		assert.InDelta(t, ks.C.Y, sol.Aux[1], 1.e-6)
		assert.InDelta(t, ks.C.Y, ns.Bodies[0].Transform.C.Y, 1.e-6)
		pts := grid.NewVectorData(ns.NumPts())
		ns.Im.Interpolate(pts, ns.Velocity(sol))
		for i := range pts.U {
			assert.InDelta(t, 0., pts.U[i], 1.e-8)
			assert.InDelta(t, ks.DC.Y, pts.V[i], 1.e-8)
		}
		phi := ns.ScalarPotential(sol)
		assert.Equal(t, 0., floats.Norm(phi.Data, 2))
	}
	{ // A body placed off the origin without a motion stays where it was placed
		p := baseParams(0.05, 0.01)
		placed := bodies.NewRigidTransform(r2.Vec{X: 0.4}, 0.2)
		p.Bodies = bodies.BodyList{placed.Apply(circle(t, 32)[0])}
		ns, err := NewNavierStokes(p)
		require.NoError(t, err)
		assert.Equal(t, types.MovingBodies, ns.BodyConfig)
		x0 := append([]float64{}, ns.Im.X...)
		y0 := append([]float64{}, ns.Im.Y...)
		sol := ns.NewSolution(0, nil)
		assert.Equal(t, []float64{0.4, 0, 0.2}, sol.Aux)
		_, err = ns.Solve(context.Background(), sol, 0.02, ode.Kutta3(), 0)
		require.NoError(t, err)
		assert.InDeltaSlice(t, []float64{0.4, 0, 0.2}, sol.Aux, 1.e-14)
		assert.InDelta(t, 0.4, ns.Bodies[0].Transform.C.X, 1.e-14)
		for i := range x0 {
			assert.InDelta(t, x0[i], ns.Im.X[i], 1.e-12)
			assert.InDelta(t, y0[i], ns.Im.Y[i], 1.e-12)
		}
	}
	{ // Non-finite forcing is reported
		p := baseParams(0.05, 0.01)
		p.Pulses = []Pulse{{
			Shape:     func(x, y float64) float64 { return 1 },
			Amplitude: func(t float64) float64 { return math.NaN() },
		}}
		ns, err := NewNavierStokes(p)
		require.NoError(t, err)
		_, err = ns.Solve(context.Background(), ns.NewSolution(0, nil), 0.05, ode.Kutta3(), 0)
		assert.True(t, errors.Is(err, ErrNumericalFailure))
	}
}

func TestDiagnostics(t *testing.T) {
	ns, err := NewNavierStokes(baseParams(0.05, 0.01))
	require.NoError(t, err)
	sol := ns.NewSolution(0, LambOseen(1, 0.2))
	{ // Vorticity undoes the Dx scaling of the state
		omega := ns.Vorticity(sol)
		i, j := 20, 20
		x, y := ns.Grid.NodeCoords(grid.Dual, i, j)
		assert.InDelta(t, LambOseen(1, 0.2)(x, y), omega.At(i, j), 1.e-12)
	}
	{ // Velocity is the curl of the streamfunction
		psi := ns.Streamfunction(sol)
		u := ns.Velocity(sol)
		q := grid.NewEdges(ns.Grid)
		grid.Curl(q, psi)
		for i := range q.U {
			assert.InDelta(t, q.U[i]/ns.Grid.Dx, u.U[i], 1.e-12)
		}
	}
	{ // Low pressure in the vortex core
		pr := ns.Pressure(sol)
		assert.Less(t, pr.At(20, 20), pr.At(2, 2))
	}
	{ // No bodies, no traction
		assert.Equal(t, 0, ns.FilteredTraction(sol).Len())
	}
}
