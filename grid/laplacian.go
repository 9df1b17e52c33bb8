package grid

import (
	"math"
	"sync"

	"github.com/mjibson/go-dsp/fft"
	"gonum.org/v1/gonum/dsp/fourier"

	"github.com/notargets/viscousflow/utils"
)

/*
	LGF is the lattice Green's function of the 5-point Laplacian on the unbounded lattice,
	normalized so that L G = delta and G(0,0) = 0.
	Near the origin the values come from the exact diagonal G(k,k) = (1/pi) sum_{l=1..k} 1/(2l-1) and the
	recurrence L G = 0, which is stable enough in double precision out to lgfNear. Farther out the
	asymptotic expansion is used:
		G ~ (1/2pi)(ln r + gamma + 3/2 ln 2) - cos(4 theta)/(24 pi r^2)
*/
const lgfNear = 10

var (
	lgfOnce  sync.Once
	lgfTable [lgfNear + 2][lgfNear + 2]float64
)

const eulerGamma = 0.57721566490153286061

func buildLGFTable() {
	var (
		G = &lgfTable
	)
	diag := func(k int) (d float64) {
		for l := 1; l <= k; l++ {
			d += 1. / float64(2*l-1)
		}
		return d / math.Pi
	}
	G[0][0] = 0
	G[1][0] = 0.25
	G[1][1] = diag(1)
	for m := 1; m <= lgfNear; m++ {
		for n := 0; n < m; n++ {
			nm1 := n - 1
			if nm1 < 0 {
				nm1 = -nm1
			}
			G[m+1][n] = 4*G[m][n] - G[m-1][n] - G[m][n+1] - G[m][nm1]
		}
		G[m+1][m] = 2*G[m][m] - G[m][m-1]
		G[m+1][m+1] = diag(m + 1)
	}
}

func LGF(m, n int) float64 {
	if m < 0 {
		m = -m
	}
	if n < 0 {
		n = -n
	}
	if m < n {
		m, n = n, m
	}
	if m <= lgfNear {
		lgfOnce.Do(buildLGFTable)
		return lgfTable[m][n]
	}
	var (
		x, y = float64(m), float64(n)
		r2   = x*x + y*y
		c4   = (x*x*x*x - 6*x*x*y*y + y*y*y*y) / (r2 * r2)
	)
	return (0.5*math.Log(r2)+eulerGamma+1.5*math.Ln2)/(2*math.Pi) - c4/(24*math.Pi*r2)
}

/*
Laplacian is the 5-point operator on a node field together with its inverse on the unbounded lattice.
The inverse is a convolution with the LGF, carried out with zero padded FFTs; the transformed kernel
is computed once at construction. Solves run through fixed size plans over preallocated buffers,
so a Laplacian belongs to one caller at a time.
*/
type Laplacian struct {
	Kind           NodeKind
	Nx, Ny         int
	px, py         int
	kernelHat      [][]complex128
	work           [][]complex128
	col            []complex128
	rowFFT, colFFT *fourier.CmplxFFT
}

func NewLaplacian(g *PhysicalGrid, kind NodeKind) (l *Laplacian) {
	nx, ny := g.NodeDims(kind)
	l = &Laplacian{
		Kind: kind,
		Nx:   nx,
		Ny:   ny,
		px:   utils.NextPow2(2 * nx),
		py:   utils.NextPow2(2 * ny),
	}
	l.rowFFT, l.colFFT = fourier.NewCmplxFFT(l.px), fourier.NewCmplxFFT(l.py)
	l.col = make([]complex128, l.py)
	kernel := make([][]float64, l.py)
	l.work = make([][]complex128, l.py)
	for jy := 0; jy < l.py; jy++ {
		kernel[jy] = make([]float64, l.px)
		l.work[jy] = make([]complex128, l.px)
		n := jy
		if jy >= l.py/2 {
			n = jy - l.py
		}
		for ix := 0; ix < l.px; ix++ {
			m := ix
			if ix >= l.px/2 {
				m = ix - l.px
			}
			kernel[jy][ix] = LGF(m, n)
		}
	}
	l.kernelHat = fft.FFT2Real(kernel)
	return
}

// Apply computes out = L in on interior nodes, boundary nodes of out are zero.
func (l *Laplacian) Apply(out, in *Nodes) {
	l.check(out, in)
	out.Fill(0)
	for j := 1; j < l.Ny-1; j++ {
		for i := 1; i < l.Nx-1; i++ {
			out.Data[out.Idx(i, j)] = in.At(i+1, j) + in.At(i-1, j) + in.At(i, j+1) + in.At(i, j-1) -
				4*in.At(i, j)
		}
	}
}

// Solve computes out = L^-1 rhs with rhs taken as zero outside the grid. out may alias rhs.
func (l *Laplacian) Solve(out, rhs *Nodes) {
	l.check(out, rhs)
	for jy, row := range l.work {
		for ix := range row {
			row[ix] = 0
		}
		if jy < l.Ny {
			for ix, v := range rhs.Data[jy*l.Nx : (jy+1)*l.Nx] {
				row[ix] = complex(v, 0)
			}
			l.rowFFT.Coefficients(row, row)
		}
	}
	for ix := 0; ix < l.px; ix++ {
		for jy := range l.col {
			l.col[jy] = l.work[jy][ix]
		}
		l.colFFT.Coefficients(l.col, l.col)
		for jy := range l.col {
			l.col[jy] *= l.kernelHat[jy][ix]
		}
		l.colFFT.Sequence(l.col, l.col)
		// rows past Ny are not needed in the result
		for jy := 0; jy < l.Ny; jy++ {
			l.work[jy][ix] = l.col[jy]
		}
	}
	scale := 1 / float64(l.px*l.py)
	for j := 0; j < l.Ny; j++ {
		row := l.rowFFT.Sequence(l.work[j], l.work[j])
		for i := 0; i < l.Nx; i++ {
			out.Data[out.Idx(i, j)] = scale * real(row[i])
		}
	}
}

func (l *Laplacian) check(out, in *Nodes) {
	if out.Kind != l.Kind || in.Kind != l.Kind || out.Nx != l.Nx || in.Nx != l.Nx ||
		out.Ny != l.Ny || in.Ny != l.Ny {
		panic("laplacian applied to a node field of the wrong kind or size")
	}
}
