package NavierStokes

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/notargets/viscousflow/bodies"
	"github.com/notargets/viscousflow/ibm"
)

// UpdateBodies places every body at the (Cx, Cy, Alpha) packed in aux and rebuilds the coupling operators.
func (ns *NavierStokes) UpdateBodies(aux []float64) (err error) {
	if len(aux) != 3*len(ns.Bodies) {
		return fmt.Errorf("%w: have %d configuration entries for %d bodies", ErrConfiguration,
			len(aux), len(ns.Bodies))
	}
	var bl bodies.BodyList
	if bl, err = ns.Bodies.Transform(bodies.AuxTransforms(aux)); err != nil {
		return
	}
	return ns.SetBodies(bl)
}

// SetBodies stores a deep copy of bl and rebuilds the coupling operators with the flow side and delta
// function fixed at construction. The number of Lagrange points may not change once the system exists.
func (ns *NavierStokes) SetBodies(bl bodies.BodyList) (err error) {
	if ns.Im != nil {
		if len(bl) != len(ns.Bodies) || bl.NumPts() != ns.Im.NumPts {
			return fmt.Errorf("%w: replacement bodies have %d bodies and %d points, expected %d and %d",
				ErrConfiguration, len(bl), bl.NumPts(), len(ns.Bodies), ns.Im.NumPts)
		}
	}
	bl = bl.Copy()
	var im *ibm.Immersion
	if im, err = ibm.Build(bl, ns.Grid, ns.flowSide, ns.ddf); err != nil {
		return
	}
	ns.Bodies, ns.Im = bl, im
	if ce := ns.log.Check(zap.DebugLevel, "coupling operators rebuilt"); ce != nil && im.HasPoints() {
		ce.Write(zap.Int("points", im.NumPts), zap.Int("nnzR", im.RU.NNZ()+im.RV.NNZ()))
	}
	return
}
