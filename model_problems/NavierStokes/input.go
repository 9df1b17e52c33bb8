package NavierStokes

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/notargets/viscousflow/InputParameters"
	"github.com/notargets/viscousflow/bodies"
	"github.com/notargets/viscousflow/ode"
	"github.com/notargets/viscousflow/types"
)

// pointSpacing is the default Lagrange point spacing in units of the cell size.
const pointSpacing = 1.5

// Case is a complete run description: the system parameters plus how to start and march it.
type Case struct {
	Title     string
	Params    Parameters
	Omega0    func(x, y float64) float64
	Tableau   ode.Tableau
	FinalTime float64
	Stride    int
}

func NewCase(ip *InputParameters.InputParametersNS) (c Case, err error) {
	if err = ip.Validate(); err != nil {
		return
	}
	c = Case{
		Title:     ip.Title,
		FinalTime: ip.FinalTime,
		Stride:    ip.Stride,
		Omega0:    InitialVorticity(ip.InitialVortices),
	}
	if c.Tableau, err = ode.NewTableau(ip.Tableau); err != nil {
		err = fmt.Errorf("%w: %v", ErrConfiguration, err)
		return
	}
	c.Params, err = ParametersFromInput(ip)
	return
}

// ParametersFromInput builds the system description of a validated input file.
func ParametersFromInput(ip *InputParameters.InputParametersNS) (p Parameters, err error) {
	p = Parameters{
		Re:           ip.Re,
		Dx:           ip.Dx,
		XLim:         ip.XLim,
		YLim:         ip.YLim,
		Dt:           ip.Dt,
		StaticPoints: ip.StaticPoints,
	}
	if p.FlowSide, err = types.NewFlowSide(ip.FlowSide); err != nil {
		err = fmt.Errorf("%w: %v", ErrConfiguration, err)
		return
	}
	if p.DDF, err = types.NewDDFType(ip.DDF); err != nil {
		err = fmt.Errorf("%w: %v", ErrConfiguration, err)
		return
	}
	U := r2.Vec{X: ip.Freestream.U[0], Y: ip.Freestream.U[1]}
	if ip.Freestream.RampTime > 0 {
		p.Freestream = NewVariableFreestream(bodies.Ramp{U: U, Tau: ip.Freestream.RampTime})
	} else {
		p.Freestream = NewStaticFreestream(U)
	}
	var anyMotion bool
	for k, bi := range ip.Bodies {
		var b *bodies.Body
		if b, err = newBodyFromInput(bi, ip.Dx); err != nil {
			err = fmt.Errorf("body %d: %w", k, err)
			return
		}
		T := bodies.NewRigidTransform(r2.Vec{X: bi.Center[0], Y: bi.Center[1]}, deg(bi.Angle))
		p.Bodies = append(p.Bodies, T.Apply(b))
		p.Motions = append(p.Motions, bodies.NewRigidBodyMotion(kinematicsFromInput(bi.Motion, T)))
		anyMotion = anyMotion || bi.Motion != nil
	}
	if !anyMotion {
		p.StaticPoints = true
	}
	for _, pi := range ip.Pulses {
		p.Pulses = append(p.Pulses,
			NewGaussianPulse(pi.Center[0], pi.Center[1], pi.Sigma, pi.Strength, pi.T0, pi.SigmaT))
	}
	return
}

func deg(a float64) float64 { return a * math.Pi / 180 }

func newBodyFromInput(bi InputParameters.BodyInput, dx float64) (b *bodies.Body, err error) {
	var (
		ds = pointSpacing * dx
		n  = func(length float64) int {
			if bi.NPoints > 0 {
				return bi.NPoints
			}
			return int(math.Ceil(length / ds))
		}
	)
	switch bi.Shape {
	case "circle":
		b, err = bodies.NewCircle(bi.Radius, n(2*math.Pi*bi.Radius))
	case "ellipse":
		h := math.Pow(bi.A-bi.B, 2) / math.Pow(bi.A+bi.B, 2)
		perim := math.Pi * (bi.A + bi.B) * (1 + 3*h/(10+math.Sqrt(4-3*h)))
		b, err = bodies.NewEllipse(bi.A, bi.B, n(perim))
	case "plate":
		b, err = bodies.NewPlate(bi.Length, n(bi.Length))
	case "polygon":
		if bi.DS > 0 {
			ds = bi.DS
		}
		b, err = bodies.NewPolygon(bi.XV, bi.YV, ds)
	default:
		err = fmt.Errorf("%w: unknown shape %q", ErrConfiguration, bi.Shape)
	}
	return
}

// kinematicsFromInput anchors a motion at the placement T, a nil motion holds the body there.
func kinematicsFromInput(mi *InputParameters.MotionInput, T bodies.RigidTransform) bodies.Kinematics {
	if mi == nil {
		return bodies.Stationary{C: T.C, Alpha: T.Alpha}
	}
	U := r2.Vec{X: mi.U[0], Y: mi.U[1]}
	switch mi.Type {
	case "constant":
		return bodies.ConstantVelocity{C0: T.C, Alpha0: T.Alpha, U: U, Omega: mi.Omega}
	case "oscillation":
		return bodies.Oscillation{
			C0: T.C, Alpha0: T.Alpha,
			Ax: mi.Ax, Ay: mi.Ay, AAlpha: deg(mi.AAlpha),
			PhiX: deg(mi.PhiX), PhiY: deg(mi.PhiY), PhiAlpha: deg(mi.PhiAlpha),
			Omega: mi.Omega,
		}
	case "ramp":
		return bodies.Ramp{C0: T.C, Alpha0: T.Alpha, U: U, Tau: mi.Tau}
	}
	return bodies.Stationary{C: T.C, Alpha: T.Alpha}
}

// InitialVorticity superposes Lamb-Oseen vortices, nil when there are none.
func InitialVorticity(vl []InputParameters.VortexInput) func(x, y float64) float64 {
	if len(vl) == 0 {
		return nil
	}
	type vortex struct {
		xc, yc float64
		omega  func(x, y float64) float64
	}
	vs := make([]vortex, len(vl))
	for k, v := range vl {
		vs[k] = vortex{xc: v.Center[0], yc: v.Center[1], omega: LambOseen(v.Gamma, v.Sigma)}
	}
	return func(x, y float64) (w float64) {
		for _, v := range vs {
			w += v.omega(x-v.xc, y-v.yc)
		}
		return
	}
}
