package NavierStokes

import (
	"fmt"
	"sync"

	"go.uber.org/zap"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/notargets/viscousflow/bodies"
	"github.com/notargets/viscousflow/grid"
	"github.com/notargets/viscousflow/ibm"
	"github.com/notargets/viscousflow/ode"
	"github.com/notargets/viscousflow/types"
	"github.com/notargets/viscousflow/utils"
)

var (
	ErrConfiguration    = utils.ErrConfiguration
	ErrNumericalFailure = utils.ErrNumericalFailure
)

// Solution is the composite state: W = Dx*vorticity on dual nodes, the Lagrange multipliers on the
// body points (U components then V components) and the (Cx, Cy, Alpha) configuration of each moving body.
type Solution = ode.State

// Parameters describe a flow problem. Motions may be empty, meaning every body is stationary.
type Parameters struct {
	Re           float64
	Dx           float64
	XLim, YLim   [2]float64
	Dt           float64
	Freestream   Freestream
	Bodies       bodies.BodyList
	Motions      []bodies.RigidBodyMotion
	Pulses       []Pulse
	StaticPoints bool
	FlowSide     types.FlowSide
	DDF          types.DDFType
}

func (p Parameters) validate() (err error) {
	switch {
	case !(p.Re > 0):
		err = fmt.Errorf("%w: Reynolds number must be positive, have %v", ErrConfiguration, p.Re)
	case !(p.Dx > 0):
		err = fmt.Errorf("%w: cell size must be positive, have %v", ErrConfiguration, p.Dx)
	case !(p.Dt > 0):
		err = fmt.Errorf("%w: time step must be positive, have %v", ErrConfiguration, p.Dt)
	case len(p.Motions) != 0 && len(p.Motions) != len(p.Bodies):
		err = fmt.Errorf("%w: have %d motions for %d bodies", ErrConfiguration, len(p.Motions), len(p.Bodies))
	case p.FlowSide > types.ExternalInternalFlow:
		err = fmt.Errorf("%w: unknown flow side %d", ErrConfiguration, p.FlowSide)
	case p.DDF > types.DDF_Peskin4:
		err = fmt.Errorf("%w: unknown delta function %d", ErrConfiguration, p.DDF)
	case p.Freestream.Type == types.VariableFreestream && p.Freestream.Law == nil:
		err = fmt.Errorf("%w: variable freestream without a kinematic law", ErrConfiguration)
	}
	if err != nil {
		return
	}
	for k, b := range p.Bodies {
		if b == nil {
			return fmt.Errorf("%w: body %d is nil", ErrConfiguration, k)
		}
	}
	for k, m := range p.Motions {
		if m.Kin == nil {
			return fmt.Errorf("%w: motion %d has no kinematics", ErrConfiguration, k)
		}
	}
	for k, pl := range p.Pulses {
		if pl.Shape == nil || pl.Amplitude == nil {
			return fmt.Errorf("%w: pulse %d needs a shape and an amplitude", ErrConfiguration, k)
		}
	}
	return
}

type Option func(ns *NavierStokes)

func WithLogger(l *zap.Logger) Option {
	return func(ns *NavierStokes) {
		if l != nil {
			ns.log = l
		}
	}
}

/*
NavierStokes is the vorticity form of the incompressible equations on an unbounded Cartesian grid, with
immersed bodies held by Lagrange multipliers. The state w = Dx*omega evolves as

	dw/dt = L w/(Re Dx^2) + curl(-N - DL([u])/(Re Dx)) + Dx*pulses - B1T f
	B2 w  = U_body - U_inf

where u = -curl(L^-1 w) + U_inf, N = (u.grad)u, B1T f = curl(R f) and B2 w = -E curl(L^-1 w).
The scratch buffers belong to the system and are overwritten by every evaluation, so one system
supports a single integration at a time.
*/
type NavierStokes struct {
	Re, Dt      float64
	Grid        *grid.PhysicalGrid
	Freestream  Freestream
	Bodies      bodies.BodyList
	Motions     []bodies.RigidBodyMotion
	Pulses      []Pulse
	PointMotion types.PointMotionType
	BodyConfig  types.BodyConfig
	Im          *ibm.Immersion
	Lap         *grid.Laplacian

	flowSide  types.FlowSide
	ddf       types.DDFType
	pulses    []modulatedField
	factors   map[float64]*grid.IntegratingFactor
	lapPrimal *grid.Laplacian
	primOnce  sync.Once
	log       *zap.Logger

	// Scratch, valid only within a single evaluation
	vel, acc, dlE, qE *grid.Edges
	conv              *grid.ConvectiveCache
	psi, out, in      *grid.Nodes
	ub, jump, pts     grid.VectorData
}

func NewNavierStokes(params Parameters, opts ...Option) (ns *NavierStokes, err error) {
	if err = params.validate(); err != nil {
		return
	}
	var g *grid.PhysicalGrid
	if g, err = grid.NewPhysicalGrid(params.XLim, params.YLim, params.Dx); err != nil {
		return
	}
	ns = &NavierStokes{
		Re:         params.Re,
		Dt:         params.Dt,
		Grid:       g,
		Freestream: params.Freestream,
		Pulses:     params.Pulses,
		flowSide:   params.FlowSide,
		ddf:        params.DDF,
		factors:    make(map[float64]*grid.IntegratingFactor),
		log:        zap.NewNop(),
	}
	for _, opt := range opts {
		opt(ns)
	}
	ns.PointMotion = types.MovingPoints
	if params.StaticPoints {
		ns.PointMotion = types.StaticPoints
	}
	ns.BodyConfig = types.NewBodyConfig(len(params.Bodies), ns.PointMotion)
	ns.Motions = make([]bodies.RigidBodyMotion, len(params.Bodies))
	for k := range ns.Motions {
		if len(params.Motions) != 0 {
			ns.Motions[k] = params.Motions[k]
		} else {
			ns.Motions[k] = bodies.NullMotion(params.Bodies[k])
		}
	}
	if params.Bodies.AnyOpen() && ns.flowSide != types.ExternalInternalFlow {
		ns.log.Warn("open body present, flow side forced to the combined mode",
			zap.Stringer("requested", ns.flowSide))
		ns.flowSide = types.ExternalInternalFlow
	}
	if ns.BodyConfig == types.StaticBodies {
		for k, m := range ns.Motions {
			if ks := m.Kin.Evaluate(0); ks.DC != (r2.Vec{}) || ks.DAlpha != 0 {
				ns.log.Warn("static points requested for a moving body",
					zap.Int("body", k), zap.Float64("u", ks.DC.X), zap.Float64("v", ks.DC.Y),
					zap.Float64("omega", ks.DAlpha))
			}
		}
	}
	if err = ns.SetBodies(params.Bodies); err != nil {
		return nil, err
	}
	ns.Lap = grid.NewLaplacian(g, grid.Dual)
	for _, p := range params.Pulses {
		ns.pulses = append(ns.pulses, newModulatedField(g, p))
	}
	ns.allocate()
	ns.log.Info("navier-stokes system assembled",
		zap.Float64("Re", ns.Re),
		zap.Stringer("grid", g),
		zap.Stringer("bodyConfig", ns.BodyConfig),
		zap.Stringer("freestream", ns.Freestream.Type),
		zap.Stringer("flowSide", ns.flowSide),
		zap.Stringer("ddf", ns.ddf),
		zap.Int("points", ns.NumPts()),
		zap.Int("pulses", len(ns.pulses)))
	return
}

func (ns *NavierStokes) allocate() {
	var (
		g = ns.Grid
		N = ns.NumPts()
	)
	ns.vel, ns.acc = grid.NewEdges(g), grid.NewEdges(g)
	ns.dlE, ns.qE = grid.NewEdges(g), grid.NewEdges(g)
	ns.conv = grid.NewConvectiveCache(g)
	ns.psi = grid.NewNodes(g, grid.Dual)
	ns.out, ns.in = &grid.Nodes{Kind: grid.Dual, Nx: g.NX, Ny: g.NY}, &grid.Nodes{Kind: grid.Dual, Nx: g.NX, Ny: g.NY}
	ns.ub, ns.jump, ns.pts = grid.NewVectorData(N), grid.NewVectorData(N), grid.NewVectorData(N)
}

// FlowSide is the effective flow side, which differs from the requested one when a body is open.
func (ns *NavierStokes) FlowSide() types.FlowSide { return ns.flowSide }

func (ns *NavierStokes) DDF() types.DDFType { return ns.ddf }

func (ns *NavierStokes) NumPts() int { return ns.Im.NumPts }

// StateSizes are the lengths of the state, constraint and auxiliary vectors.
func (ns *NavierStokes) StateSizes() (nw, nf, naux int) {
	nw = ns.Grid.NX * ns.Grid.NY
	nf = 2 * ns.NumPts()
	if ns.BodyConfig == types.MovingBodies {
		naux = 3 * len(ns.Bodies)
	}
	return
}

// NewSolution samples Dx*omega0 on the dual nodes; omega0 may be nil for a fluid at rest.
// Moving bodies start from the configuration their motions prescribe at t0.
func (ns *NavierStokes) NewSolution(t0 float64, omega0 func(x, y float64) float64) (sol *Solution) {
	sol = ode.NewState(ns.StateSizes())
	sol.Time = t0
	if omega0 != nil {
		w := SampleDual(ns.Grid, omega0)
		w.Scale(ns.Grid.Dx)
		copy(sol.W, w.Data)
	}
	if len(sol.Aux) != 0 {
		tl := make([]bodies.RigidTransform, len(ns.Motions))
		for k, m := range ns.Motions {
			tl[k] = m.Transform(t0)
		}
		copy(sol.Aux, bodies.AuxState(tl))
	}
	return
}

// view wraps a flat state slice as a dual node field without allocating.
func (ns *NavierStokes) view(n *grid.Nodes, data []float64) *grid.Nodes {
	n.Data = data
	return n
}

func (ns *NavierStokes) String() string {
	return fmt.Sprintf("Re = %8.3f, dt = %8.5f, %v, %v, %v, %d points, %d pulses",
		ns.Re, ns.Dt, ns.Grid, ns.BodyConfig, ns.Freestream, ns.NumPts(), len(ns.pulses))
}
