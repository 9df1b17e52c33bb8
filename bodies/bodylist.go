package bodies

import (
	"fmt"

	"github.com/notargets/viscousflow/utils"
)

// BodyList is an ordered set of bodies whose Lagrange points are concatenated in order.
type BodyList []*Body

func (bl BodyList) NumPts() (n int) {
	for _, b := range bl {
		n += b.Len()
	}
	return
}

// PointRange returns the half open range of body k's points in the concatenated ordering.
func (bl BodyList) PointRange(k int) (start, end int) {
	for i := 0; i < k; i++ {
		start += bl[i].Len()
	}
	end = start + bl[k].Len()
	return
}

func (bl BodyList) gather(sel func(b *Body) []float64) (out []float64) {
	out = make([]float64, 0, bl.NumPts())
	for _, b := range bl {
		out = append(out, sel(b)...)
	}
	return
}

// Positions returns the concatenated world coordinates of all points.
func (bl BodyList) Positions() (x, y []float64) {
	x = bl.gather(func(b *Body) []float64 { return b.X })
	y = bl.gather(func(b *Body) []float64 { return b.Y })
	return
}

func (bl BodyList) Normals() (nx, ny []float64) {
	nx = bl.gather(func(b *Body) []float64 { return b.NX })
	ny = bl.gather(func(b *Body) []float64 { return b.NY })
	return
}

// Areas returns the arc length weight of every point.
func (bl BodyList) Areas() []float64 {
	return bl.gather(func(b *Body) []float64 { return b.DS })
}

func (bl BodyList) AnyOpen() bool {
	for _, b := range bl {
		if !b.Closed {
			return true
		}
	}
	return false
}

func (bl BodyList) Copy() (r BodyList) {
	r = make(BodyList, len(bl))
	for i, b := range bl {
		r[i] = b.Copy()
	}
	return
}

// Transform applies one rigid transform per body and returns a new, unaliased list.
func (bl BodyList) Transform(tl []RigidTransform) (r BodyList, err error) {
	if len(tl) != len(bl) {
		err = fmt.Errorf("%w: have %d transforms for %d bodies", utils.ErrConfiguration, len(tl), len(bl))
		return
	}
	r = make(BodyList, len(bl))
	for i, b := range bl {
		r[i] = tl[i].Apply(b)
	}
	return
}

func (bl BodyList) Transforms() (tl []RigidTransform) {
	tl = make([]RigidTransform, len(bl))
	for i, b := range bl {
		tl[i] = b.Transform
	}
	return
}
