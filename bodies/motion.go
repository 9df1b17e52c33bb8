package bodies

import (
	"gonum.org/v1/gonum/spatial/r2"
)

// RigidBodyMotion drives one body with a kinematic law.
type RigidBodyMotion struct {
	Kin Kinematics
}

func NewRigidBodyMotion(k Kinematics) RigidBodyMotion {
	return RigidBodyMotion{Kin: k}
}

// NullMotion holds b at its current placement.
func NullMotion(b *Body) RigidBodyMotion {
	return RigidBodyMotion{Kin: Stationary{C: b.Transform.C, Alpha: b.Transform.Alpha}}
}

func (m RigidBodyMotion) Transform(t float64) RigidTransform {
	ks := m.Kin.Evaluate(t)
	return RigidTransform{C: ks.C, Alpha: ks.Alpha}
}

// SurfaceVelocity fills u, v with the rigid velocity DC + DAlpha k x (x - C) at the body's world points.
func (m RigidBodyMotion) SurfaceVelocity(b *Body, t float64, u, v []float64) {
	ks := m.Kin.Evaluate(t)
	c := b.Transform.C
	for i := range b.X {
		u[i] = ks.DC.X - ks.DAlpha*(b.Y[i]-c.Y)
		v[i] = ks.DC.Y + ks.DAlpha*(b.X[i]-c.X)
	}
}

// MaxSpeed is the largest rigid surface speed on b at time t.
func (m RigidBodyMotion) MaxSpeed(b *Body, t float64) (s float64) {
	u, v := make([]float64, b.Len()), make([]float64, b.Len())
	m.SurfaceVelocity(b, t, u, v)
	for i := range u {
		if sp := r2.Norm(r2.Vec{X: u[i], Y: v[i]}); sp > s {
			s = sp
		}
	}
	return
}

// AuxState packs the configuration (Cx, Cy, Alpha) of each body; AuxRate is its time derivative.
func AuxState(tl []RigidTransform) (aux []float64) {
	aux = make([]float64, 3*len(tl))
	for i, T := range tl {
		aux[3*i], aux[3*i+1], aux[3*i+2] = T.C.X, T.C.Y, T.Alpha
	}
	return
}

func AuxTransforms(aux []float64) (tl []RigidTransform) {
	tl = make([]RigidTransform, len(aux)/3)
	for i := range tl {
		tl[i] = RigidTransform{C: r2.Vec{X: aux[3*i], Y: aux[3*i+1]}, Alpha: aux[3*i+2]}
	}
	return
}

func AuxRate(daux []float64, ml []RigidBodyMotion, t float64) {
	for i, m := range ml {
		ks := m.Kin.Evaluate(t)
		daux[3*i], daux[3*i+1], daux[3*i+2] = ks.DC.X, ks.DC.Y, ks.DAlpha
	}
}
