package bodies

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// RigidTransform places a body's local frame at centre C rotated counter-clockwise by Alpha.
type RigidTransform struct {
	C     r2.Vec
	Alpha float64
}

func IdentityTransform() RigidTransform { return RigidTransform{} }

func NewRigidTransform(c r2.Vec, alpha float64) RigidTransform {
	return RigidTransform{C: c, Alpha: alpha}
}

func (T RigidTransform) apply(xl, yl, x, y []float64, translate bool) {
	var (
		cs, sn = math.Cos(T.Alpha), math.Sin(T.Alpha)
	)
	for i := range xl {
		x[i] = cs*xl[i] - sn*yl[i]
		y[i] = sn*xl[i] + cs*yl[i]
		if translate {
			x[i] += T.C.X
			y[i] += T.C.Y
		}
	}
}

// Apply returns a deep copy of b placed by T.
func (T RigidTransform) Apply(b *Body) (r *Body) {
	r = b.Copy()
	r.place(T)
	return
}

// Translate shifts the centre by d in the world frame.
func (T RigidTransform) Translate(d r2.Vec) RigidTransform {
	return RigidTransform{C: r2.Add(T.C, d), Alpha: T.Alpha}
}
