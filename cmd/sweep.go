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
	"runtime"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/notargets/viscousflow/InputParameters"
	"github.com/notargets/viscousflow/utils"
)

// SweepCmd represents the sweep command
var SweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Integrate one case at several Reynolds numbers concurrently",
	Long: `Integrate one case at several Reynolds numbers concurrently. Each run owns its own system,
the table printed at the end averages the body forces over the second half of each run.`,
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		var (
			icFile string
			res    []float64
			ip     *InputParameters.InputParametersNS
			logger *zap.Logger
			reps   []Report
		)
		if icFile, err = cmd.Flags().GetString("inputConditionsFile"); err != nil {
			return
		}
		if res, err = cmd.Flags().GetFloat64Slice("Re"); err != nil {
			return
		}
		if ip, err = processInput(icFile, cmd.OutOrStdout()); err != nil {
			return
		}
		if logger, err = newLogger(); err != nil {
			return
		}
		defer func() { _ = logger.Sync() }()
		if reps, err = Sweep(commandContext(cmd), ip, res, viper.GetInt("jobs"), logger); err != nil {
			return
		}
		PrintSweep(cmd.OutOrStdout(), reps, 0.5*ip.FinalTime)
		return
	},
}

func init() {
	rootCmd.AddCommand(SweepCmd)
	SweepCmd.Flags().StringP("inputConditionsFile", "I", "", "YAML file describing the case")
	SweepCmd.Flags().Float64Slice("Re", nil, "Reynolds numbers to run, replacing the one in the input file")
	SweepCmd.Flags().IntP("jobs", "j", runtime.NumCPU(), "number of runs in flight at once")
	_ = viper.BindPFlag("jobs", SweepCmd.Flags().Lookup("jobs"))
}

// Sweep runs the case once per Reynolds number, at most jobs at a time. The first failure cancels
// the runs still in flight. Reports are returned in the order of res.
func Sweep(ctx context.Context, ip *InputParameters.InputParametersNS, res []float64, jobs int,
	logger *zap.Logger) (reps []Report, err error) {
	if len(res) == 0 {
		err = fmt.Errorf("%w: no Reynolds numbers to sweep", utils.ErrConfiguration)
		return
	}
	reps = make([]Report, len(res))
	g, gctx := errgroup.WithContext(ctx)
	if jobs > 0 {
		g.SetLimit(jobs)
	}
	for i, re := range res {
		i, re := i, re
		g.Go(func() (err error) {
			run := *ip
			run.Re = re
			reps[i], err = RunCase(gctx, &run, logger)
			return
		})
	}
	err = g.Wait()
	return
}

func PrintSweep(w io.Writer, reps []Report, from float64) {
	for _, r := range reps {
		n := len(r.Times)
		if n == 0 {
			continue
		}
		fmt.Fprintf(w, "Re = %10.3f, Time = %8.4f, Circulation = %12.8f", r.Re, r.Times[n-1], r.Circulation[n-1])
		for k := range r.Forces[n-1] {
			F := r.MeanForce(k, from)
			fmt.Fprintf(w, ", <F[%d]> = (%10.6f, %10.6f)", k, F.X, F.Y)
		}
		fmt.Fprintln(w)
	}
}
