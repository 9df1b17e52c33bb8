package grid

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
)

type NodeKind uint8

const (
	Dual NodeKind = iota
	Primal
)

func (k NodeKind) String() string {
	if k == Primal {
		return "Primal"
	}
	return "Dual"
}

// Nodes is a scalar field on dual or primal nodes, stored with x varying fastest.
type Nodes struct {
	Kind   NodeKind
	Nx, Ny int
	Data   []float64
}

func NewNodes(g *PhysicalGrid, kind NodeKind) (n *Nodes) {
	nx, ny := g.NodeDims(kind)
	n = &Nodes{
		Kind: kind,
		Nx:   nx,
		Ny:   ny,
		Data: make([]float64, nx*ny),
	}
	return
}

func (n *Nodes) Idx(i, j int) int          { return i + n.Nx*j }
func (n *Nodes) At(i, j int) float64       { return n.Data[i+n.Nx*j] }
func (n *Nodes) Set(i, j int, val float64) { n.Data[i+n.Nx*j] = val }
func (n *Nodes) Fill(val float64) {
	for i := range n.Data {
		n.Data[i] = val
	}
}

func (n *Nodes) Copy() (r *Nodes) {
	r = &Nodes{Kind: n.Kind, Nx: n.Nx, Ny: n.Ny, Data: make([]float64, len(n.Data))}
	copy(r.Data, n.Data)
	return
}

func (n *Nodes) CopyFrom(src *Nodes) {
	n.checkSame(src)
	copy(n.Data, src.Data)
}

func (n *Nodes) Scale(s float64) *Nodes {
	floats.Scale(s, n.Data)
	return n
}

// AddScaled computes n += alpha*src.
func (n *Nodes) AddScaled(alpha float64, src *Nodes) *Nodes {
	n.checkSame(src)
	floats.AddScaled(n.Data, alpha, src.Data)
	return n
}

func (n *Nodes) Sum() float64 { return floats.Sum(n.Data) }

func (n *Nodes) checkSame(src *Nodes) {
	if n.Kind != src.Kind || n.Nx != src.Nx || n.Ny != src.Ny {
		panic(fmt.Errorf("mismatched node fields: %v[%d x %d] and %v[%d x %d]",
			n.Kind, n.Nx, n.Ny, src.Kind, src.Nx, src.Ny))
	}
}

// Edges is a velocity-like vector field on primal cell faces.
// U is NX x (NY-1), V is (NX-1) x NY in dual node counts.
type Edges struct {
	NX, NY int
	U, V   []float64
}

func NewEdges(g *PhysicalGrid) (e *Edges) {
	e = &Edges{
		NX: g.NX,
		NY: g.NY,
		U:  make([]float64, g.NX*(g.NY-1)),
		V:  make([]float64, (g.NX-1)*g.NY),
	}
	return
}

func (e *Edges) UIdx(i, j int) int { return i + e.NX*j }
func (e *Edges) VIdx(i, j int) int { return i + (e.NX-1)*j }

func (e *Edges) Fill(val float64) {
	for i := range e.U {
		e.U[i] = val
	}
	for i := range e.V {
		e.V[i] = val
	}
}

func (e *Edges) Copy() (r *Edges) {
	r = &Edges{NX: e.NX, NY: e.NY, U: make([]float64, len(e.U)), V: make([]float64, len(e.V))}
	copy(r.U, e.U)
	copy(r.V, e.V)
	return
}

func (e *Edges) CopyFrom(src *Edges) {
	copy(e.U, src.U)
	copy(e.V, src.V)
}

func (e *Edges) Scale(s float64) *Edges {
	floats.Scale(s, e.U)
	floats.Scale(s, e.V)
	return e
}

// AddScaled computes e += alpha*src.
func (e *Edges) AddScaled(alpha float64, src *Edges) *Edges {
	floats.AddScaled(e.U, alpha, src.U)
	floats.AddScaled(e.V, alpha, src.V)
	return e
}

// AddConstant adds a uniform vector, used for the freestream.
func (e *Edges) AddConstant(ux, uy float64) *Edges {
	floats.AddConst(ux, e.U)
	floats.AddConst(uy, e.V)
	return e
}

/*
EdgeGradient is the tensor layout of an edge field gradient.
XX and YY live on primal nodes, XY (d/dy of the u component) and YX (d/dx of the v component) live on dual nodes.
*/
type EdgeGradient struct {
	NX, NY         int
	XX, YY, XY, YX []float64
}

func NewEdgeGradient(g *PhysicalGrid) (t *EdgeGradient) {
	var (
		np = (g.NX - 1) * (g.NY - 1)
		nd = g.NX * g.NY
	)
	t = &EdgeGradient{
		NX: g.NX,
		NY: g.NY,
		XX: make([]float64, np),
		YY: make([]float64, np),
		XY: make([]float64, nd),
		YX: make([]float64, nd),
	}
	return
}

func (t *EdgeGradient) PIdx(i, j int) int { return i + (t.NX-1)*j }
func (t *EdgeGradient) DIdx(i, j int) int { return i + t.NX*j }

func (t *EdgeGradient) Fill(val float64) {
	for _, c := range [][]float64{t.XX, t.YY, t.XY, t.YX} {
		for i := range c {
			c[i] = val
		}
	}
}

// VectorData holds a two component quantity on Lagrange points.
type VectorData struct {
	U, V []float64
}

func NewVectorData(n int) VectorData {
	return VectorData{U: make([]float64, n), V: make([]float64, n)}
}

func (v VectorData) Len() int { return len(v.U) }

func (v VectorData) Copy() (r VectorData) {
	r = NewVectorData(v.Len())
	copy(r.U, v.U)
	copy(r.V, v.V)
	return
}

func (v VectorData) Fill(val float64) {
	for i := range v.U {
		v.U[i] = val
		v.V[i] = val
	}
}

// Flatten packs U then V into dst, Unflatten reverses it.
func (v VectorData) Flatten(dst []float64) {
	n := v.Len()
	copy(dst[:n], v.U)
	copy(dst[n:2*n], v.V)
}

func (v VectorData) Unflatten(src []float64) {
	n := v.Len()
	copy(v.U, src[:n])
	copy(v.V, src[n:2*n])
}

// ScalarData holds a scalar quantity on Lagrange points.
type ScalarData []float64
