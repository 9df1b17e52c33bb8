package grid

/*
	Discrete calculus on the staggered grid. All differences are unscaled, callers apply powers of 1/Dx.
	Dual ghost nodes are left at zero by the operators that produce dual fields.
*/

// Curl maps a dual node streamfunction to edges: u = dpsi/dy, v = -dpsi/dx.
func Curl(out *Edges, psi *Nodes) {
	var (
		nx, ny = out.NX, out.NY
	)
	if psi.Kind != Dual || psi.Nx != nx || psi.Ny != ny {
		panic("curl of nodes requires a dual node field matching the edges")
	}
	for j := 0; j < ny-1; j++ {
		for i := 0; i < nx; i++ {
			out.U[out.UIdx(i, j)] = psi.At(i, j+1) - psi.At(i, j)
		}
	}
	for j := 0; j < ny; j++ {
		for i := 0; i < nx-1; i++ {
			out.V[out.VIdx(i, j)] = psi.At(i, j) - psi.At(i+1, j)
		}
	}
}

// CurlEdges maps an edge field to its vorticity on interior dual nodes.
func CurlEdges(out *Nodes, q *Edges) {
	var (
		nx, ny = q.NX, q.NY
	)
	if out.Kind != Dual || out.Nx != nx || out.Ny != ny {
		panic("curl of edges requires a dual node output matching the edges")
	}
	out.Fill(0)
	for j := 1; j < ny-1; j++ {
		for i := 1; i < nx-1; i++ {
			out.Data[out.Idx(i, j)] = (q.V[q.VIdx(i, j)] - q.V[q.VIdx(i-1, j)]) -
				(q.U[q.UIdx(i, j)] - q.U[q.UIdx(i, j-1)])
		}
	}
}

// Divergence maps an edge field to primal nodes.
func Divergence(out *Nodes, q *Edges) {
	var (
		nx, ny = q.NX, q.NY
	)
	if out.Kind != Primal || out.Nx != nx-1 || out.Ny != ny-1 {
		panic("divergence of edges requires a primal node output matching the edges")
	}
	for j := 0; j < ny-1; j++ {
		for i := 0; i < nx-1; i++ {
			out.Data[out.Idx(i, j)] = (q.U[q.UIdx(i+1, j)] - q.U[q.UIdx(i, j)]) +
				(q.V[q.VIdx(i, j+1)] - q.V[q.VIdx(i, j)])
		}
	}
}

// Grad maps an edge field to its gradient tensor.
func Grad(out *EdgeGradient, q *Edges) {
	var (
		nx, ny = q.NX, q.NY
	)
	out.Fill(0)
	for j := 0; j < ny-1; j++ {
		for i := 0; i < nx-1; i++ {
			p := out.PIdx(i, j)
			out.XX[p] = q.U[q.UIdx(i+1, j)] - q.U[q.UIdx(i, j)]
			out.YY[p] = q.V[q.VIdx(i, j+1)] - q.V[q.VIdx(i, j)]
		}
	}
	for j := 1; j < ny-1; j++ {
		for i := 1; i < nx-1; i++ {
			d := out.DIdx(i, j)
			out.XY[d] = q.U[q.UIdx(i, j)] - q.U[q.UIdx(i, j-1)]
			out.YX[d] = q.V[q.VIdx(i, j)] - q.V[q.VIdx(i-1, j)]
		}
	}
}

/*
InterpolateTransposed places the velocity into the transpose of the gradient layout so that an
elementwise product with Grad yields the terms of (u.grad)u:
	XX <- u at primal nodes, YY <- v at primal nodes, XY <- v at dual nodes, YX <- u at dual nodes
*/
func InterpolateTransposed(out *EdgeGradient, q *Edges) {
	var (
		nx, ny = q.NX, q.NY
	)
	out.Fill(0)
	for j := 0; j < ny-1; j++ {
		for i := 0; i < nx-1; i++ {
			p := out.PIdx(i, j)
			out.XX[p] = 0.5 * (q.U[q.UIdx(i, j)] + q.U[q.UIdx(i+1, j)])
			out.YY[p] = 0.5 * (q.V[q.VIdx(i, j)] + q.V[q.VIdx(i, j+1)])
		}
	}
	for j := 1; j < ny-1; j++ {
		for i := 1; i < nx-1; i++ {
			d := out.DIdx(i, j)
			out.XY[d] = 0.5 * (q.V[q.VIdx(i, j)] + q.V[q.VIdx(i-1, j)])
			out.YX[d] = 0.5 * (q.U[q.UIdx(i, j)] + q.U[q.UIdx(i, j-1)])
		}
	}
}

// Product is the elementwise tensor product, out may alias a or b.
func Product(out, a, b *EdgeGradient) {
	for i := range out.XX {
		out.XX[i] = a.XX[i] * b.XX[i]
		out.YY[i] = a.YY[i] * b.YY[i]
	}
	for i := range out.XY {
		out.XY[i] = a.XY[i] * b.XY[i]
		out.YX[i] = a.YX[i] * b.YX[i]
	}
}

// InterpolateTensor sums each tensor row back onto the edge where that velocity component lives.
func InterpolateTensor(out *Edges, t *EdgeGradient) {
	var (
		nx, ny = out.NX, out.NY
	)
	out.Fill(0)
	for j := 0; j < ny-1; j++ {
		for i := 1; i < nx-1; i++ {
			out.U[out.UIdx(i, j)] = 0.5*(t.XX[t.PIdx(i-1, j)]+t.XX[t.PIdx(i, j)]) +
				0.5*(t.XY[t.DIdx(i, j)]+t.XY[t.DIdx(i, j+1)])
		}
	}
	for j := 1; j < ny-1; j++ {
		for i := 0; i < nx-1; i++ {
			out.V[out.VIdx(i, j)] = 0.5*(t.YX[t.DIdx(i, j)]+t.YX[t.DIdx(i+1, j)]) +
				0.5*(t.YY[t.PIdx(i, j-1)]+t.YY[t.PIdx(i, j)])
		}
	}
}

// DivergenceTensor maps a tensor field to edges, row by row; it is the negative adjoint of Grad.
func DivergenceTensor(out *Edges, t *EdgeGradient) {
	var (
		nx, ny = out.NX, out.NY
	)
	out.Fill(0)
	for j := 0; j < ny-1; j++ {
		for i := 1; i < nx-1; i++ {
			out.U[out.UIdx(i, j)] = (t.XX[t.PIdx(i, j)] - t.XX[t.PIdx(i-1, j)]) +
				(t.XY[t.DIdx(i, j+1)] - t.XY[t.DIdx(i, j)])
		}
	}
	for j := 1; j < ny-1; j++ {
		for i := 0; i < nx-1; i++ {
			out.V[out.VIdx(i, j)] = (t.YX[t.DIdx(i+1, j)] - t.YX[t.DIdx(i, j)]) +
				(t.YY[t.PIdx(i, j)] - t.YY[t.PIdx(i, j-1)])
		}
	}
}

// ConvectiveCache holds the tensor buffers used by ConvectiveDerivative.
type ConvectiveCache struct {
	Grad, Vel *EdgeGradient
}

func NewConvectiveCache(g *PhysicalGrid) *ConvectiveCache {
	return &ConvectiveCache{
		Grad: NewEdgeGradient(g),
		Vel:  NewEdgeGradient(g),
	}
}

// ConvectiveDerivative computes the unscaled (u.grad)u in place on out.
func ConvectiveDerivative(out, u *Edges, cache *ConvectiveCache) {
	Grad(cache.Grad, u)
	InterpolateTransposed(cache.Vel, u)
	Product(cache.Grad, cache.Grad, cache.Vel)
	InterpolateTensor(out, cache.Grad)
}
