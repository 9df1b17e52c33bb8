package NavierStokes

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/notargets/viscousflow/ode"
)

func (ns *NavierStokes) NewIntegrator(tb ode.Tableau, stride int) (it *ode.IFHERK, err error) {
	nw, nf, naux := ns.StateSizes()
	it, err = ode.NewIFHERK(ns.ODEFunction(), nw, nf, naux, ode.Config{
		Dt:      ns.Dt,
		Tableau: tb,
		Stride:  stride,
	})
	return
}

// Solve advances sol to finalTime, returning samples every stride steps.
func (ns *NavierStokes) Solve(ctx context.Context, sol *Solution, finalTime float64, tb ode.Tableau,
	stride int) (tr ode.Trajectory, err error) {
	var (
		it    *ode.IFHERK
		start = time.Now()
	)
	if it, err = ns.NewIntegrator(tb, stride); err != nil {
		return
	}
	ns.log.Info("integration started",
		zap.Float64("t0", sol.Time), zap.Float64("finalTime", finalTime),
		zap.String("tableau", it.Cfg.Tableau.Name), zap.Float64("dt", ns.Dt))
	tr, err = it.Integrate(ctx, sol, finalTime)
	fields := []zap.Field{
		zap.Int("steps", it.Stats.StepCount),
		zap.Int("evaluations", it.Stats.EvaluationCount),
		zap.Int("saddleBuilds", it.Stats.SchurBuildCount),
		zap.Float64("time", sol.Time),
		zap.Duration("elapsed", time.Since(start)),
	}
	if err != nil {
		ns.log.Error("integration stopped", append(fields, zap.Error(err))...)
		return
	}
	ns.log.Info("integration finished", append(fields, zap.Float64("circulation", ns.Circulation(sol)))...)
	return
}
