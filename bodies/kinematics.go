package bodies

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// KinematicState is the position, velocity and acceleration of a rigid frame at one instant.
type KinematicState struct {
	C, DC, DDC            r2.Vec
	Alpha, DAlpha, DDAlpha float64
}

type Kinematics interface {
	Evaluate(t float64) KinematicState
}

// Stationary holds a frame fixed at C, Alpha.
type Stationary struct {
	C     r2.Vec
	Alpha float64
}

func (s Stationary) Evaluate(t float64) KinematicState {
	return KinematicState{C: s.C, Alpha: s.Alpha}
}

// ConstantVelocity translates with U and rotates with Omega from C0, Alpha0 at t = 0.
type ConstantVelocity struct {
	C0     r2.Vec
	Alpha0 float64
	U      r2.Vec
	Omega  float64
}

func (cv ConstantVelocity) Evaluate(t float64) KinematicState {
	return KinematicState{
		C:      r2.Add(cv.C0, r2.Scale(t, cv.U)),
		DC:     cv.U,
		Alpha:  cv.Alpha0 + cv.Omega*t,
		DAlpha: cv.Omega,
	}
}

/*
Oscillation is harmonic heaving in x and y and pitching about the centre, all at angular frequency Omega:
	C(t)     = C0 + (Ax sin(Omega t + PhiX), Ay sin(Omega t + PhiY))
	Alpha(t) = Alpha0 + AAlpha sin(Omega t + PhiAlpha)
*/
type Oscillation struct {
	C0                   r2.Vec
	Alpha0               float64
	Ax, Ay, AAlpha       float64
	PhiX, PhiY, PhiAlpha float64
	Omega                float64
}

func (o Oscillation) Evaluate(t float64) KinematicState {
	var (
		w  = o.Omega
		w2 = w * w
		sx = math.Sin(w*t + o.PhiX)
		sy = math.Sin(w*t + o.PhiY)
		sa = math.Sin(w*t + o.PhiAlpha)
		cx = math.Cos(w*t + o.PhiX)
		cy = math.Cos(w*t + o.PhiY)
		ca = math.Cos(w*t + o.PhiAlpha)
	)
	return KinematicState{
		C:       r2.Vec{X: o.C0.X + o.Ax*sx, Y: o.C0.Y + o.Ay*sy},
		DC:      r2.Vec{X: o.Ax * w * cx, Y: o.Ay * w * cy},
		DDC:     r2.Vec{X: -o.Ax * w2 * sx, Y: -o.Ay * w2 * sy},
		Alpha:   o.Alpha0 + o.AAlpha*sa,
		DAlpha:  o.AAlpha * w * ca,
		DDAlpha: -o.AAlpha * w2 * sa,
	}
}

// Ramp smoothly accelerates from rest to velocity U with time constant Tau, U(1 - exp(-t/Tau)).
type Ramp struct {
	C0     r2.Vec
	Alpha0 float64
	U      r2.Vec
	Tau    float64
}

func (r Ramp) Evaluate(t float64) KinematicState {
	if r.Tau <= 0 {
		return ConstantVelocity{C0: r.C0, Alpha0: r.Alpha0, U: r.U}.Evaluate(t)
	}
	e := math.Exp(-t / r.Tau)
	return KinematicState{
		C:     r2.Add(r.C0, r2.Scale(t-r.Tau*(1-e), r.U)),
		DC:    r2.Scale(1-e, r.U),
		DDC:   r2.Scale(e/r.Tau, r.U),
		Alpha: r.Alpha0,
	}
}
