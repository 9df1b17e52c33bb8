package ode

/*
Function is the constrained system
	dw/dt = A w + r1(w, t) - B1T f
	B2 w  = r2(t)
together with optional auxiliary state carried alongside w. The integrating factor exp(tau A) is
supplied through Linear; f is the Lagrange multiplier enforcing the constraint.
*/
type Function struct {
	StateRHS      func(dw, w []float64, t float64)
	ConstraintRHS func(r2 []float64, t float64)
	ForceOp       func(out, f []float64)
	ConstraintOp  func(out, w []float64)
	Linear        func(out, in []float64, tau float64)
	// AuxRHS and UpdateParams are set together when the constraint operators depend on aux.
	AuxRHS       func(daux, aux []float64, t float64)
	UpdateParams func(aux []float64, t float64) error
}

func (fn Function) Constrained() bool { return fn.ForceOp != nil && fn.ConstraintOp != nil }
func (fn Function) Moving() bool      { return fn.AuxRHS != nil }

// State is the composite solution advanced by the integrator.
type State struct {
	Time       float64
	W          []float64
	Constraint []float64
	Aux        []float64
}

func NewState(nw, nf, naux int) *State {
	return &State{
		W:          make([]float64, nw),
		Constraint: make([]float64, nf),
		Aux:        make([]float64, naux),
	}
}

func (s *State) Copy() (r *State) {
	r = NewState(len(s.W), len(s.Constraint), len(s.Aux))
	r.CopyFrom(s)
	return
}

func (s *State) CopyFrom(src *State) {
	s.Time = src.Time
	copy(s.W, src.W)
	copy(s.Constraint, src.Constraint)
	copy(s.Aux, src.Aux)
}

type Config struct {
	// Dt is the fixed step size
	Dt float64

	Tableau Tableau

	// Stride, if > 0, stores every Stride-th step in the trajectory returned by Integrate
	// If 0, only the final state is stored
	Stride int

	// MaxStepCount if > 0 specifies the maximum number of steps Integrate will take
	MaxStepCount int
}

type Statistics struct {
	// StepCount is the number of completed steps
	StepCount int
	// EvaluationCount is the number of state right hand side evaluations
	EvaluationCount int
	// SchurBuildCount is the number of saddle point matrices assembled and factorized
	SchurBuildCount int
	// UpdateCount is the number of parameter update hook calls
	UpdateCount int
	// CurrentTime is the value of t up to which the integration was performed
	CurrentTime float64
}

// Trajectory is a sequence of samples of the solution.
type Trajectory struct {
	Times  []float64
	States []*State
}

func (tr *Trajectory) Append(s *State) {
	tr.Times = append(tr.Times, s.Time)
	tr.States = append(tr.States, s.Copy())
}

func (tr *Trajectory) Len() int { return len(tr.Times) }

func (tr *Trajectory) Last() *State {
	if len(tr.States) == 0 {
		return nil
	}
	return tr.States[len(tr.States)-1]
}
