package NavierStokes

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/notargets/viscousflow/bodies"
	"github.com/notargets/viscousflow/grid"
	"github.com/notargets/viscousflow/types"
)

// Freestream is either a constant vector or the velocity of a kinematic law.
type Freestream struct {
	Type types.FreestreamType
	U    r2.Vec
	Law  bodies.Kinematics
}

func NewStaticFreestream(u r2.Vec) Freestream {
	return Freestream{Type: types.StaticFreestream, U: u}
}

func NewVariableFreestream(law bodies.Kinematics) Freestream {
	return Freestream{Type: types.VariableFreestream, Law: law}
}

func (fs Freestream) Velocity(t float64) r2.Vec {
	if fs.Type == types.VariableFreestream {
		return fs.Law.Evaluate(t).DC
	}
	return fs.U
}

func (fs Freestream) String() string {
	if fs.Type == types.VariableFreestream {
		return fmt.Sprintf("%v %T", fs.Type, fs.Law)
	}
	return fmt.Sprintf("%v (%8.5f, %8.5f)", fs.Type, fs.U.X, fs.U.Y)
}

/*
Pulse is a vorticity source: a spatial pattern sampled on dual nodes at construction, modulated in time.
The contribution to the vorticity rate of change is Shape(x, y) * Amplitude(t).
*/
type Pulse struct {
	Shape     func(x, y float64) float64
	Amplitude func(t float64) float64
}

// NewGaussianPulse deposits a total circulation of strength, Gaussian in space with radius sigma
// about (xc, yc) and Gaussian in time with width sigmaT about t0.
func NewGaussianPulse(xc, yc, sigma, strength, t0, sigmaT float64) Pulse {
	return Pulse{
		Shape: func(x, y float64) float64 {
			r2 := (x-xc)*(x-xc) + (y-yc)*(y-yc)
			return strength * math.Exp(-r2/(sigma*sigma)) / (math.Pi * sigma * sigma)
		},
		Amplitude: func(t float64) float64 {
			dt := (t - t0) / sigmaT
			return math.Exp(-dt*dt) / (math.Sqrt(math.Pi) * sigmaT)
		},
	}
}

// modulatedField is a Pulse with its pattern sampled on the grid.
type modulatedField struct {
	field     *grid.Nodes
	amplitude func(t float64) float64
}

func newModulatedField(g *grid.PhysicalGrid, p Pulse) (mf modulatedField) {
	mf = modulatedField{field: SampleDual(g, p.Shape), amplitude: p.Amplitude}
	return
}

// SampleDual evaluates f at every dual node.
func SampleDual(g *grid.PhysicalGrid, f func(x, y float64) float64) (n *grid.Nodes) {
	n = grid.NewNodes(g, grid.Dual)
	for j := 0; j < n.Ny; j++ {
		for i := 0; i < n.Nx; i++ {
			x, y := g.NodeCoords(grid.Dual, i, j)
			n.Set(i, j, f(x, y))
		}
	}
	return
}

// LambOseen returns the vorticity of a Gaussian vortex of circulation gamma and radius sigma at the origin.
func LambOseen(gamma, sigma float64) func(x, y float64) float64 {
	return func(x, y float64) float64 {
		return gamma / (math.Pi * sigma * sigma) * math.Exp(-(x*x+y*y)/(sigma*sigma))
	}
}
