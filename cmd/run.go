/*
Copyright © 2020 NAME HERE <EMAIL ADDRESS>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/pkg/profile"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/notargets/viscousflow/InputParameters"
	"github.com/notargets/viscousflow/model_problems/NavierStokes"
	"github.com/notargets/viscousflow/utils"
)

type ModelRun struct {
	ICFile      string
	Profile     string
	ProfilePath string
}

// Report holds the sampled integral quantities of one run.
type Report struct {
	Title       string
	Re          float64
	Times       []float64
	Circulation []float64
	Forces      [][]r2.Vec // per sample, per body
}

// MeanForce on body k averaged over the samples at or after time from.
func (r Report) MeanForce(k int, from float64) (F r2.Vec) {
	var n int
	for i, t := range r.Times {
		if t >= from && k < len(r.Forces[i]) {
			F = r2.Add(F, r.Forces[i][k])
			n++
		}
	}
	if n > 0 {
		F = r2.Scale(1/float64(n), F)
	}
	return
}

func (r Report) Print(w io.Writer) {
	for i, t := range r.Times {
		fmt.Fprintf(w, "Time = %8.4f, Circulation = %12.8f", t, r.Circulation[i])
		for k, F := range r.Forces[i] {
			fmt.Fprintf(w, ", F[%d] = (%10.6f, %10.6f)", k, F.X, F.Y)
		}
		fmt.Fprintln(w)
	}
}

// RunCmd represents the run command
var RunCmd = &cobra.Command{
	Use:   "run",
	Short: "Integrate one flow case described by a YAML input file",
	Long:  `Integrate one flow case described by a YAML input file, printing circulation and body forces`,
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		mr := &ModelRun{}
		if mr.ICFile, err = cmd.Flags().GetString("inputConditionsFile"); err != nil {
			return
		}
		mr.Profile, _ = cmd.Flags().GetString("profile")
		mr.ProfilePath, _ = cmd.Flags().GetString("profilePath")
		var ip *InputParameters.InputParametersNS
		if ip, err = processInput(mr.ICFile, cmd.OutOrStdout()); err != nil {
			return
		}
		ip.Print()
		if stop := startProfile(mr); stop != nil {
			defer stop()
		}
		var logger *zap.Logger
		if logger, err = newLogger(); err != nil {
			return
		}
		defer func() { _ = logger.Sync() }()
		var rep Report
		if rep, err = RunCase(commandContext(cmd), ip, logger); err != nil {
			return
		}
		rep.Print(cmd.OutOrStdout())
		return
	},
}

func init() {
	rootCmd.AddCommand(RunCmd)
	RunCmd.Flags().StringP("inputConditionsFile", "I", "", "YAML file describing the case, see the example printed without one")
	RunCmd.Flags().StringP("profile", "p", "", "write a profile while running: cpu or mem")
	RunCmd.Flags().String("profilePath", ".", "directory for profile output")
}

func processInput(icFile string, w io.Writer) (ip *InputParameters.InputParametersNS, err error) {
	if len(icFile) == 0 {
		fmt.Fprintf(w, "Example File:%s\n", InputParameters.ExampleFile)
		err = fmt.Errorf("must supply an input parameters file (-I, --inputConditionsFile)")
		return
	}
	var data []byte
	if data, err = os.ReadFile(icFile); err != nil {
		return
	}
	ip = &InputParameters.InputParametersNS{}
	if err = ip.Parse(data); err != nil {
		return nil, fmt.Errorf("%s: %w", icFile, err)
	}
	return
}

func commandContext(cmd *cobra.Command) (ctx context.Context) {
	if ctx = cmd.Context(); ctx == nil {
		ctx = context.Background()
	}
	return
}

func startProfile(mr *ModelRun) (stop func()) {
	var mode func(*profile.Profile)
	switch mr.Profile {
	case "cpu":
		mode = profile.CPUProfile
	case "mem":
		mode = profile.MemProfile
	default:
		return
	}
	return profile.Start(mode, profile.ProfilePath(mr.ProfilePath), profile.NoShutdownHook).Stop
}

// RunCase assembles the system an input file describes and integrates it to the final time.
func RunCase(ctx context.Context, ip *InputParameters.InputParametersNS, logger *zap.Logger) (rep Report,
	err error) {
	var (
		c   NavierStokes.Case
		ns  *NavierStokes.NavierStokes
		log = logger.With(zap.String("case", ip.Title), zap.Float64("Re", ip.Re))
	)
	if c, err = NavierStokes.NewCase(ip); err != nil {
		return
	}
	if ns, err = NavierStokes.NewNavierStokes(c.Params, NavierStokes.WithLogger(log)); err != nil {
		return
	}
	sol := ns.NewSolution(0, c.Omega0)
	tr, err := ns.Solve(ctx, sol, c.FinalTime, c.Tableau, c.Stride)
	log.Debug("run complete", zap.String("memory", utils.GetMemUsage()))
	rep = Report{Title: c.Title, Re: c.Params.Re}
	for i, s := range tr.States {
		rep.Times = append(rep.Times, tr.Times[i])
		rep.Circulation = append(rep.Circulation, ns.Circulation(s))
		F := make([]r2.Vec, len(ns.Bodies))
		for k := range F {
			F[k] = ns.Force(s, k)
		}
		rep.Forces = append(rep.Forces, F)
	}
	return
}
