package ibm

import (
	"fmt"

	"github.com/notargets/viscousflow/bodies"
	"github.com/notargets/viscousflow/grid"
	"github.com/notargets/viscousflow/types"
	"github.com/notargets/viscousflow/utils"
)

/*
Immersion couples Lagrange point data on the bodies to grid fields.
	RU, RV   regularization of the two force components onto u and v edges, weights ds/Dx^2
	EU, EV   interpolation of u and v edges to the points, unit weights
	EfU, EfV filtered interpolation, weights Dx^2
	CfU, CfV composite smoothing Ef*R, N x N
DL and SL are absent when both sides of the surface carry fluid.
*/
type Immersion struct {
	NumPts     int
	FlowSide   types.FlowSide
	Kernel     Kernel
	X, Y       []float64
	NX, NY, DS []float64
	RU, RV     utils.CSR
	EU, EV     utils.CSR
	EfU, EfV   utils.CSR
	CfU, CfV   utils.CSR
	DL         utils.Option[*DoubleLayer]
	SL         utils.Option[*SingleLayer]
}

// Build assembles the coupling operators for the current body positions. A nil or empty body list
// yields an Immersion with zero points and every operator absent.
func Build(bl bodies.BodyList, g *grid.PhysicalGrid, side types.FlowSide, ddf types.DDFType) (im *Immersion, err error) {
	im = &Immersion{
		FlowSide: side,
		Kernel:   NewKernel(ddf),
		DL:       utils.None[*DoubleLayer](),
		SL:       utils.None[*SingleLayer](),
	}
	if len(bl) == 0 {
		return
	}
	for k, b := range bl {
		if b == nil {
			err = fmt.Errorf("%w: body %d is nil", utils.ErrConfiguration, k)
			return nil, err
		}
		n := b.Len()
		for _, s := range [][]float64{b.X, b.Y, b.NX, b.NY, b.DS} {
			if len(s) != n {
				err = fmt.Errorf("%w: body %d (%s) has %d points but geometry arrays of length %d",
					utils.ErrConfiguration, k, b.Name, n, len(s))
				return nil, err
			}
		}
	}
	var (
		dx   = g.Dx
		k    = im.Kernel
		u, v = uEdges(g), vEdges(g)
	)
	im.NumPts = bl.NumPts()
	im.X, im.Y = bl.Positions()
	im.NX, im.NY = bl.Normals()
	im.DS = bl.Areas()

	im.RU = regularization(u, k, dx, im.X, im.Y, im.DS, "RegularizeU")
	im.RV = regularization(v, k, dx, im.X, im.Y, im.DS, "RegularizeV")
	im.EU = interpolation(u, k, dx, 1, im.X, im.Y, "InterpolateU")
	im.EV = interpolation(v, k, dx, 1, im.X, im.Y, "InterpolateV")
	im.EfU = interpolation(u, k, dx, dx*dx, im.X, im.Y, "FilteredInterpolateU")
	im.EfV = interpolation(v, k, dx, dx*dx, im.X, im.Y, "FilteredInterpolateV")
	im.CfU = utils.MulCSR(im.EfU, im.RU, "CompositeU")
	im.CfV = utils.MulCSR(im.EfV, im.RV, "CompositeV")

	if side != types.ExternalInternalFlow {
		im.DL = utils.Some(newDoubleLayer(g, k, im.X, im.Y, im.NX, im.NY, im.DS))
		im.SL = utils.Some(newSingleLayer(g, k, im.X, im.Y, im.DS))
	}
	return
}

func (im *Immersion) HasPoints() bool { return im.NumPts > 0 }

// Regularize overwrites out with the spread of point vector data f.
func (im *Immersion) Regularize(out *grid.Edges, f grid.VectorData) {
	im.RU.MulVec(out.U, f.U)
	im.RV.MulVec(out.V, f.V)
}

// Interpolate overwrites out with q sampled at the points.
func (im *Immersion) Interpolate(out grid.VectorData, q *grid.Edges) {
	im.EU.MulVec(out.U, q.U)
	im.EV.MulVec(out.V, q.V)
}

// Smooth applies the composite matrices, used to filter point forces.
func (im *Immersion) Smooth(out, f grid.VectorData) {
	im.CfU.MulVec(out.U, f.U)
	im.CfV.MulVec(out.V, f.V)
}

func (im *Immersion) String() string {
	return fmt.Sprintf("%d Lagrange points, %v, %s kernel, double layer = %v, single layer = %v",
		im.NumPts, im.FlowSide, im.Kernel.Type, im.DL.IsPresent(), im.SL.IsPresent())
}
