package bodies

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/notargets/viscousflow/utils"
)

/*
Body is a rigid shape discretized into Lagrange points. The local frame geometry (points, unit normals
and arc length weights) is fixed at construction; only the world frame copy moves, through a RigidTransform.
Normals point out of closed bodies; for open bodies they point to the +y side of the local frame.
*/
type Body struct {
	Name      string
	Closed    bool
	XL, YL    []float64
	NXL, NYL  []float64
	DS        []float64
	X, Y      []float64
	NX, NY    []float64
	Transform RigidTransform
}

func newBody(name string, closed bool, n int) (b *Body) {
	b = &Body{
		Name:   name,
		Closed: closed,
		XL:     make([]float64, n),
		YL:     make([]float64, n),
		NXL:    make([]float64, n),
		NYL:    make([]float64, n),
		DS:     make([]float64, n),
	}
	return
}

// NewCircle places n points uniformly around a circle centred on the local origin.
func NewCircle(radius float64, n int) (b *Body, err error) {
	if radius <= 0 || n < 3 {
		err = fmt.Errorf("%w: circle needs radius > 0 and at least 3 points, have %v, %d",
			utils.ErrConfiguration, radius, n)
		return
	}
	b = newBody("circle", true, n)
	dth := 2 * math.Pi / float64(n)
	for i := 0; i < n; i++ {
		th := float64(i) * dth
		b.XL[i], b.YL[i] = radius*math.Cos(th), radius*math.Sin(th)
		b.NXL[i], b.NYL[i] = math.Cos(th), math.Sin(th)
		b.DS[i] = radius * dth
	}
	b.place(IdentityTransform())
	return
}

// NewEllipse places n points at uniform parametric angle around an ellipse with semi-axes a (x) and b (y).
func NewEllipse(a, bb float64, n int) (b *Body, err error) {
	if a <= 0 || bb <= 0 || n < 3 {
		err = fmt.Errorf("%w: ellipse needs positive semi-axes and at least 3 points, have %v, %v, %d",
			utils.ErrConfiguration, a, bb, n)
		return
	}
	b = newBody("ellipse", true, n)
	dth := 2 * math.Pi / float64(n)
	for i := 0; i < n; i++ {
		th := float64(i) * dth
		b.XL[i], b.YL[i] = a*math.Cos(th), bb*math.Sin(th)
		nx, ny := math.Cos(th)/a, math.Sin(th)/bb
		nn := math.Hypot(nx, ny)
		b.NXL[i], b.NYL[i] = nx/nn, ny/nn
	}
	b.closedArcLengths()
	b.place(IdentityTransform())
	return
}

// NewPlate places n points at the midpoints of n equal segments of a flat plate along the local x axis.
func NewPlate(length float64, n int) (b *Body, err error) {
	if length <= 0 || n < 2 {
		err = fmt.Errorf("%w: plate needs length > 0 and at least 2 points, have %v, %d",
			utils.ErrConfiguration, length, n)
		return
	}
	b = newBody("plate", false, n)
	ds := length / float64(n)
	for i := 0; i < n; i++ {
		b.XL[i] = -0.5*length + (float64(i)+0.5)*ds
		b.NYL[i] = 1
		b.DS[i] = ds
	}
	b.place(IdentityTransform())
	return
}

// NewPolygon subdivides each side of a counter-clockwise polygon into segments no longer than ds,
// with points at the segment midpoints.
func NewPolygon(xv, yv []float64, ds float64) (b *Body, err error) {
	nv := len(xv)
	if nv < 3 || len(yv) != nv || ds <= 0 {
		err = fmt.Errorf("%w: polygon needs at least 3 vertices with matching coordinates and ds > 0",
			utils.ErrConfiguration)
		return
	}
	var xs, ys, nxs, nys, dss []float64
	for k := 0; k < nv; k++ {
		var (
			x0, y0 = xv[k], yv[k]
			x1, y1 = xv[(k+1)%nv], yv[(k+1)%nv]
			side   = math.Hypot(x1-x0, y1-y0)
			nseg   = int(math.Ceil(side/ds - utils.NODETOL))
		)
		if side == 0 {
			continue
		}
		if nseg < 1 {
			nseg = 1
		}
		seg := side / float64(nseg)
		tx, ty := (x1-x0)/side, (y1-y0)/side
		for s := 0; s < nseg; s++ {
			f := (float64(s) + 0.5) / float64(nseg)
			xs = append(xs, x0+f*(x1-x0))
			ys = append(ys, y0+f*(y1-y0))
			nxs = append(nxs, ty)
			nys = append(nys, -tx)
			dss = append(dss, seg)
		}
	}
	b = newBody("polygon", true, len(xs))
	copy(b.XL, xs)
	copy(b.YL, ys)
	copy(b.NXL, nxs)
	copy(b.NYL, nys)
	copy(b.DS, dss)
	b.place(IdentityTransform())
	return
}

func (b *Body) closedArcLengths() {
	n := len(b.XL)
	for i := 0; i < n; i++ {
		ip, im := (i+1)%n, (i-1+n)%n
		b.DS[i] = 0.5 * (math.Hypot(b.XL[ip]-b.XL[i], b.YL[ip]-b.YL[i]) +
			math.Hypot(b.XL[i]-b.XL[im], b.YL[i]-b.YL[im]))
	}
}

func (b *Body) place(T RigidTransform) {
	n := len(b.XL)
	if len(b.X) != n {
		b.X, b.Y = make([]float64, n), make([]float64, n)
		b.NX, b.NY = make([]float64, n), make([]float64, n)
	}
	T.apply(b.XL, b.YL, b.X, b.Y, true)
	T.apply(b.NXL, b.NYL, b.NX, b.NY, false)
	b.Transform = T
}

func (b *Body) Len() int { return len(b.XL) }

// Copy is a deep copy; the local geometry is duplicated too so that copies never alias.
func (b *Body) Copy() (r *Body) {
	dup := func(s []float64) []float64 {
		c := make([]float64, len(s))
		copy(c, s)
		return c
	}
	r = &Body{
		Name:      b.Name,
		Closed:    b.Closed,
		XL:        dup(b.XL),
		YL:        dup(b.YL),
		NXL:       dup(b.NXL),
		NYL:       dup(b.NYL),
		DS:        dup(b.DS),
		X:         dup(b.X),
		Y:         dup(b.Y),
		NX:        dup(b.NX),
		NY:        dup(b.NY),
		Transform: b.Transform,
	}
	return
}

// Centroid is the arc length weighted mean of the world points.
func (b *Body) Centroid() (c r2.Vec) {
	var s float64
	for i := range b.X {
		c.X += b.DS[i] * b.X[i]
		c.Y += b.DS[i] * b.Y[i]
		s += b.DS[i]
	}
	return r2.Scale(1/s, c)
}

func (b *Body) String() string {
	return fmt.Sprintf("%s: %d points, closed = %v, centre = (%8.4f, %8.4f), angle = %8.4f",
		b.Name, b.Len(), b.Closed, b.Transform.C.X, b.Transform.C.Y, b.Transform.Alpha)
}
