package bodies

import (
	"errors"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/notargets/viscousflow/utils"
)

func TestShapes(t *testing.T) {
	{ // Circle
		b, err := NewCircle(0.5, 40)
		require.NoError(t, err)
		assert.Equal(t, 40, b.Len())
		assert.True(t, b.Closed)
		var perim float64
		for i := range b.X {
			assert.InDelta(t, 0.5, math.Hypot(b.X[i], b.Y[i]), 1.e-14)
			assert.InDelta(t, 1., math.Hypot(b.NX[i], b.NY[i]), 1.e-14)
			// Outward normals
			assert.Greater(t, b.NX[i]*b.X[i]+b.NY[i]*b.Y[i], 0.)
			perim += b.DS[i]
		}
		assert.InDelta(t, math.Pi, perim, 1.e-13)
		c := b.Centroid()
		assert.InDelta(t, 0., c.X, 1.e-14)
		assert.InDelta(t, 0., c.Y, 1.e-14)
	}
	{ // Ellipse perimeter approaches Ramanujan's formula
		b, err := NewEllipse(1, 0.5, 400)
		require.NoError(t, err)
		var perim float64
		for _, ds := range b.DS {
			perim += ds
		}
		h := math.Pow(0.5/1.5, 2)
		ram := math.Pi * 1.5 * (1 + 3*h/(10+math.Sqrt(4-3*h)))
		assert.InDelta(t, ram, perim, 1.e-3)
	}
	{ // Plate
		b, err := NewPlate(1, 10)
		require.NoError(t, err)
		assert.False(t, b.Closed)
		assert.InDelta(t, -0.45, b.X[0], 1.e-14)
		assert.InDelta(t, 0.45, b.X[9], 1.e-14)
		assert.Equal(t, 1., b.NY[3])
	}
	{ // Polygon: a unit square split into segments of at most 0.3
		b, err := NewPolygon([]float64{0, 1, 1, 0}, []float64{0, 0, 1, 1}, 0.3)
		require.NoError(t, err)
		assert.Equal(t, 16, b.Len())
		var perim float64
		for _, ds := range b.DS {
			perim += ds
		}
		assert.InDelta(t, 4., perim, 1.e-14)
		// First side runs along y = 0 with the outward normal pointing down
		assert.Equal(t, 0., b.Y[0])
		assert.Equal(t, -1., b.NY[0])
	}
	{ // Invalid shapes
		for _, f := range []func() (*Body, error){
			func() (*Body, error) { return NewCircle(0, 10) },
			func() (*Body, error) { return NewCircle(1, 2) },
			func() (*Body, error) { return NewEllipse(1, -1, 10) },
			func() (*Body, error) { return NewPlate(1, 1) },
			func() (*Body, error) { return NewPolygon([]float64{0, 1}, []float64{0, 0}, 0.1) },
		} {
			_, err := f()
			assert.True(t, errors.Is(err, utils.ErrConfiguration))
		}
	}
}

func TestTransforms(t *testing.T) {
	b, err := NewPlate(1, 4)
	require.NoError(t, err)
	{ // Rotation by 90 degrees about a displaced centre
		T := NewRigidTransform(r2.Vec{X: 1, Y: 2}, math.Pi/2)
		m := T.Apply(b)
		for i := range m.X {
			assert.InDelta(t, 1., m.X[i], 1.e-14)
			assert.InDelta(t, 2+b.XL[i], m.Y[i], 1.e-14)
			assert.InDelta(t, -1., m.NX[i], 1.e-14)
		}
		// The source is untouched and shares no storage
		assert.InDelta(t, -0.375, b.X[0], 1.e-14)
		m.XL[0] = 7
		assert.NotEqual(t, 7., b.XL[0])
	}
	{ // Translation composes with the current centre
		T := IdentityTransform().Translate(r2.Vec{X: 0.5}).Translate(r2.Vec{Y: -0.5})
		assert.Equal(t, r2.Vec{X: 0.5, Y: -0.5}, T.C)
	}
	{ // Lists
		c, err := NewCircle(0.1, 8)
		require.NoError(t, err)
		bl := BodyList{b, c}
		assert.Equal(t, 12, bl.NumPts())
		assert.True(t, bl.AnyOpen())
		i0, i1 := bl.PointRange(1)
		assert.Equal(t, 4, i0)
		assert.Equal(t, 12, i1)
		x, _ := bl.Positions()
		assert.Equal(t, c.X[0], x[4])
		assert.Len(t, bl.Areas(), 12)

		cp := bl.Copy()
		assert.Empty(t, cmp.Diff(bl, cp, cmpopts.EquateEmpty()))
		cp[1].X[0] = 5
		assert.NotEqual(t, 5., c.X[0])

		_, err = bl.Transform([]RigidTransform{IdentityTransform()})
		assert.True(t, errors.Is(err, utils.ErrConfiguration))
		moved, err := bl.Transform([]RigidTransform{IdentityTransform(), NewRigidTransform(r2.Vec{X: 1}, 0)})
		require.NoError(t, err)
		assert.InDelta(t, c.X[0]+1, moved[1].X[0], 1.e-14)
		assert.Equal(t, r2.Vec{X: 1}, moved.Transforms()[1].C)
	}
}

func TestKinematics(t *testing.T) {
	{ // Oscillation derivatives agree with finite differences
		o := Oscillation{C0: r2.Vec{X: 1}, Ax: 0.3, Ay: 0.2, AAlpha: 0.1, PhiY: 0.5, Omega: 3}
		h := 1.e-6
		t0 := 0.37
		k0, kp, km := o.Evaluate(t0), o.Evaluate(t0+h), o.Evaluate(t0-h)
		assert.InDelta(t, (kp.C.X-km.C.X)/(2*h), k0.DC.X, 1.e-8)
		assert.InDelta(t, (kp.C.Y-km.C.Y)/(2*h), k0.DC.Y, 1.e-8)
		assert.InDelta(t, (kp.Alpha-km.Alpha)/(2*h), k0.DAlpha, 1.e-8)
		assert.InDelta(t, (kp.DC.Y-km.DC.Y)/(2*h), k0.DDC.Y, 1.e-6)
	}
	{ // Ramp reaches its terminal velocity
		r := Ramp{U: r2.Vec{X: 2}, Tau: 0.1}
		assert.Equal(t, r2.Vec{}, r.Evaluate(0).DC)
		assert.InDelta(t, 2., r.Evaluate(5).DC.X, 1.e-12)
		assert.InDelta(t, 2*(5-0.1), r.Evaluate(5).C.X, 1.e-12)
	}
	{ // Surface velocity of a spinning circle is tangential
		c, err := NewCircle(0.5, 16)
		require.NoError(t, err)
		m := NewRigidBodyMotion(ConstantVelocity{Omega: 2})
		u, v := make([]float64, 16), make([]float64, 16)
		m.SurfaceVelocity(c, 0, u, v)
		for i := range u {
			assert.InDelta(t, 0., u[i]*c.X[i]+v[i]*c.Y[i], 1.e-14)
			assert.InDelta(t, 1., math.Hypot(u[i], v[i]), 1.e-14)
		}
		assert.InDelta(t, 1., m.MaxSpeed(c, 0), 1.e-14)
	}
	{ // A null motion holds the body at its placement
		c, err := NewCircle(0.25, 12)
		require.NoError(t, err)
		placed := NewRigidTransform(r2.Vec{X: 0.4, Y: -0.2}, 0.3).Apply(c)
		m := NullMotion(placed)
		for _, tt := range []float64{0, 1, 10} {
			assert.Equal(t, placed.Transform, m.Transform(tt))
		}
		u, v := make([]float64, 12), make([]float64, 12)
		m.SurfaceVelocity(placed, 1, u, v)
		assert.Equal(t, make([]float64, 12), u)
		assert.Equal(t, make([]float64, 12), v)
	}
	{ // Auxiliary state packing
		tl := []RigidTransform{NewRigidTransform(r2.Vec{X: 1, Y: 2}, 3), NewRigidTransform(r2.Vec{X: 4, Y: 5}, 6)}
		aux := AuxState(tl)
		assert.Equal(t, []float64{1, 2, 3, 4, 5, 6}, aux)
		assert.Equal(t, tl, AuxTransforms(aux))
		daux := make([]float64, 6)
		c, err := NewCircle(0.25, 8)
		require.NoError(t, err)
		AuxRate(daux, []RigidBodyMotion{
			NewRigidBodyMotion(ConstantVelocity{U: r2.Vec{X: 1}, Omega: 0.5}), NullMotion(c),
		}, 1)
		assert.Equal(t, []float64{1, 0, 0.5, 0, 0, 0}, daux)
	}
}
