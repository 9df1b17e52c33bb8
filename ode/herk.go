package ode

import (
	"context"
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/notargets/viscousflow/utils"
)

/*
IFHERK is a half explicit Runge-Kutta method in integrating factor (Lawson) form. Stage i is

	w_i = H(c_i h) w_n + h sum_{j<i} a_ij H((c_i - c_j) h) (r1_j - B1T f_j)

and the multiplier of the previous stage, f_{i-1}, is chosen so that B2 w_i = r2(t_n + c_i h). This
needs the saddle point matrix S(tau) = B2 H(tau) B1T, which is assembled column by column, factorized
once and kept for every tau seen until the constraint operators change.
*/
type IFHERK struct {
	Fn    Function
	Cfg   Config
	Stats Statistics

	nw, nf, naux int
	schur        map[float64]*mat.LU
	synced       bool

	wn, wt, tmp, tmp2 []float64
	g                 [][]float64
	f                 [][]float64
	auxn              []float64
	daux              [][]float64
	r2, rhsF          []float64
	fcol              []float64
}

func NewIFHERK(fn Function, nw, nf, naux int, cfg Config) (it *IFHERK, err error) {
	if cfg.Dt <= 0 {
		err = fmt.Errorf("%w: time step must be positive, have %v", utils.ErrConfiguration, cfg.Dt)
		return
	}
	if fn.StateRHS == nil || fn.Linear == nil {
		err = fmt.Errorf("%w: state right hand side and linear operator are required", utils.ErrConfiguration)
		return
	}
	if nf > 0 && (!fn.Constrained() || fn.ConstraintRHS == nil) {
		err = fmt.Errorf("%w: %d constraints without constraint operators", utils.ErrConfiguration, nf)
		return
	}
	if naux > 0 && (fn.AuxRHS == nil || fn.UpdateParams == nil) {
		err = fmt.Errorf("%w: %d auxiliary states without an auxiliary right hand side and update hook",
			utils.ErrConfiguration, naux)
		return
	}
	if cfg.Tableau.Stages() == 0 {
		cfg.Tableau = Kutta3()
	}
	tb := cfg.Tableau
	for i := 1; i <= tb.Stages(); i++ {
		if a, _ := tb.row(i); a[i-1] == 0 {
			err = fmt.Errorf("%w: tableau %s has a zero subdiagonal coefficient at stage %d",
				utils.ErrConfiguration, tb.Name, i)
			return
		}
	}
	s := tb.Stages()
	it = &IFHERK{
		Fn:    fn,
		Cfg:   cfg,
		nw:    nw,
		nf:    nf,
		naux:  naux,
		schur: make(map[float64]*mat.LU),
		wn:    make([]float64, nw),
		wt:    make([]float64, nw),
		tmp:   make([]float64, nw),
		tmp2:  make([]float64, nw),
		g:     make([][]float64, s),
		f:     make([][]float64, s),
		auxn:  make([]float64, naux),
		daux:  make([][]float64, s),
		r2:    make([]float64, nf),
		rhsF:  make([]float64, nf),
		fcol:  make([]float64, nf),
	}
	for i := 0; i < s; i++ {
		it.g[i] = make([]float64, nw)
		it.f[i] = make([]float64, nf)
		it.daux[i] = make([]float64, naux)
	}
	return
}

// Invalidate discards every factorized saddle point matrix.
func (it *IFHERK) Invalidate() {
	for k := range it.schur {
		delete(it.schur, k)
	}
}

func (it *IFHERK) update(aux []float64, t float64) (err error) {
	if it.naux == 0 {
		return
	}
	if err = it.Fn.UpdateParams(aux, t); err != nil {
		return
	}
	it.Stats.UpdateCount++
	it.Invalidate()
	return
}

func (it *IFHERK) saddle(tau float64) (lu *mat.LU, err error) {
	var ok bool
	if lu, ok = it.schur[tau]; ok {
		return
	}
	var (
		nf = it.nf
		S  = mat.NewDense(nf, nf, nil)
		e  = make([]float64, nf)
	)
	for k := 0; k < nf; k++ {
		e[k] = 1
		it.Fn.ForceOp(it.tmp, e)
		it.Fn.Linear(it.tmp, it.tmp, tau)
		it.Fn.ConstraintOp(it.fcol, it.tmp)
		S.SetCol(k, it.fcol)
		e[k] = 0
	}
	lu = &mat.LU{}
	lu.Factorize(S)
	if math.IsInf(lu.Cond(), 1) {
		err = fmt.Errorf("%w: singular saddle point matrix for tau = %v", utils.ErrNumericalFailure, tau)
		return nil, err
	}
	it.schur[tau] = lu
	it.Stats.SchurBuildCount++
	return
}

func (it *IFHERK) solve(lu *mat.LU, f, rhs []float64) (err error) {
	var (
		x = mat.NewVecDense(len(f), f)
		b = mat.NewVecDense(len(rhs), rhs)
	)
	if err = lu.SolveVecTo(x, false, b); err != nil {
		var cond mat.Condition
		if errors.As(err, &cond) && !math.IsInf(float64(cond), 1) {
			return nil
		}
		err = fmt.Errorf("%w: %v", utils.ErrNumericalFailure, err)
	}
	return
}

// Step advances s by one step of size Cfg.Dt.
func (it *IFHERK) Step(s *State) (err error) {
	return it.step(s, it.Cfg.Dt)
}

func (it *IFHERK) step(s *State, h float64) (err error) {
	var (
		tb = it.Cfg.Tableau
		ns = tb.Stages()
		tn = s.Time
		fn = it.Fn
	)
	if !it.synced {
		if err = it.update(s.Aux, tn); err != nil {
			return
		}
		it.synced = true
	}
	copy(it.wn, s.W)
	copy(it.auxn, s.Aux)

	fn.StateRHS(it.g[0], s.W, tn)
	it.Stats.EvaluationCount++
	if it.naux > 0 {
		fn.AuxRHS(it.daux[0], s.Aux, tn)
	}
	for i := 1; i <= ns; i++ {
		a, c := tb.row(i)
		ti := tn + c*h
		if it.naux > 0 {
			copy(s.Aux, it.auxn)
			for j := 0; j < i; j++ {
				floats.AddScaled(s.Aux, h*a[j], it.daux[j])
			}
			if err = it.update(s.Aux, ti); err != nil {
				return
			}
		}
		fn.Linear(it.wt, it.wn, c*h)
		for j := 0; j < i; j++ {
			_, cj := tb.row(j)
			fn.Linear(it.tmp2, it.g[j], (c-cj)*h)
			floats.AddScaled(it.wt, h*a[j], it.tmp2)
		}
		if it.nf > 0 {
			_, cp := tb.row(i - 1)
			tau := (c - cp) * h
			scale := h * a[i-1]
			var lu *mat.LU
			if lu, err = it.saddle(tau); err != nil {
				return
			}
			fn.ConstraintOp(it.rhsF, it.wt)
			fn.ConstraintRHS(it.r2, ti)
			for k := range it.rhsF {
				it.rhsF[k] = (it.rhsF[k] - it.r2[k]) / scale
			}
			if err = it.solve(lu, it.f[i-1], it.rhsF); err != nil {
				return
			}
			fn.ForceOp(it.tmp, it.f[i-1])
			floats.Sub(it.g[i-1], it.tmp)
			fn.Linear(it.tmp, it.tmp, tau)
			floats.AddScaled(it.wt, -scale, it.tmp)
		}
		if i < ns {
			fn.StateRHS(it.g[i], it.wt, ti)
			it.Stats.EvaluationCount++
			if it.naux > 0 {
				fn.AuxRHS(it.daux[i], s.Aux, ti)
			}
		}
	}
	copy(s.W, it.wt)
	if it.nf > 0 {
		copy(s.Constraint, it.f[ns-1])
	}
	s.Time = tn + h
	it.Stats.StepCount++
	it.Stats.CurrentTime = s.Time
	if k := utils.FirstNonFinite(s.W); k >= 0 {
		return fmt.Errorf("%w: state entry %d is %v at t = %v", utils.ErrNumericalFailure, k, s.W[k], s.Time)
	}
	if k := utils.FirstNonFinite(s.Constraint); k >= 0 {
		return fmt.Errorf("%w: constraint entry %d is %v at t = %v", utils.ErrNumericalFailure, k,
			s.Constraint[k], s.Time)
	}
	return
}

// Integrate advances s to tEnd, shortening the last step if needed, and samples the trajectory
// every Cfg.Stride steps. The first and final states are always sampled.
func (it *IFHERK) Integrate(ctx context.Context, s *State, tEnd float64) (tr Trajectory, err error) {
	var (
		dt  = it.Cfg.Dt
		tol = 1.e-10 * dt
		n   int
	)
	tr.Append(s)
	for tEnd-s.Time > tol {
		if err = ctx.Err(); err != nil {
			return
		}
		h := dt
		if s.Time+h > tEnd+tol {
			h = tEnd - s.Time
		}
		if err = it.step(s, h); err != nil {
			return
		}
		n++
		if it.Cfg.Stride > 0 && n%it.Cfg.Stride == 0 {
			tr.Append(s)
		}
		if it.Cfg.MaxStepCount > 0 && n >= it.Cfg.MaxStepCount {
			break
		}
	}
	if tr.Times[len(tr.Times)-1] != s.Time {
		tr.Append(s)
	}
	return
}
