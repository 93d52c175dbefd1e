// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/HaichaoLee/mpm-1/inp"
	"github.com/HaichaoLee/mpm-1/mpm"
	"github.com/HaichaoLee/mpm-1/out"
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
)

// version of this program
const version = "1.0.0"

var rootCmd = &cobra.Command{
	Use:   "mpm",
	Short: "Explicit material point method solver",
	Long:  `mpm runs simulations with the material point method using the update-stress-first scheme.`,
}

var runCmd = &cobra.Command{
	Use:   "run <file.sim>",
	Short: "Run a simulation",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		verbose, _ := cmd.Flags().GetBool("verbose")
		alias, _ := cmd.Flags().GetString("alias")
		nworkers, _ := cmd.Flags().GetInt("nworkers")
		addr, _ := cmd.Flags().GetString("metrics-addr")
		resume, _ := cmd.Flags().GetBool("resume")
		tidx, _ := cmd.Flags().GetInt("tidx")

		// message
		if verbose {
			io.PfWhite("\nmpm v%s -- Go Material Point Method\n\n", version)
			io.Pf("Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.\n")
			io.Pf("Use of this source code is governed by a BSD-style\n")
			io.Pf("license that can be found in the LICENSE file.\n\n")
		}

		// input data
		sim, err := inp.ReadSim(args[0], alias)
		if err != nil {
			return
		}
		if cmd.Flags().Changed("nworkers") {
			sim.Solver.Nworkers = nworkers
		}

		// metrics
		var reg prometheus.Registerer
		if addr != "" {
			r := prometheus.NewRegistry()
			reg = r
			mux := http.NewServeMux()
			mux.Handle("/metrics", promhttp.HandlerFor(r, promhttp.HandlerOpts{}))
			go func() {
				if e := http.ListenAndServe(addr, mux); e != nil {
					io.PfRed("metrics server failed: %v\n", e)
				}
			}()
			if verbose {
				io.Pf("metrics available at http://%s/metrics\n", addr)
			}
		}

		// analysis
		analysis, err := mpm.NewAnalysis(sim, reg, verbose)
		if err != nil {
			return chk.Err("cannot set analysis up:\n%v", err)
		}
		if resume {
			if err = analysis.Resume(tidx); err != nil {
				return
			}
		}

		// run with cancellation
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		if err = analysis.Run(ctx); err != nil {
			return chk.Err("Run failed:\n%v", err)
		}
		return
	},
}

var genCmd = &cobra.Command{
	Use:   "gen <file.sim>",
	Short: "Generate a sample simulation file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		shape, _ := cmd.Flags().GetString("shape")
		sim, err := inp.SampleSim(shape)
		if err != nil {
			return
		}
		b, err := sim.Encode()
		if err != nil {
			return
		}
		if err = os.WriteFile(args[0], b, 0644); err != nil {
			return
		}
		io.Pf("file <%s> written\n", args[0])
		return
	},
}

var vtuCmd = &cobra.Command{
	Use:   "vtu <file.sim>",
	Short: "Convert results to VTK unstructured grid files for ParaView",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		alias, _ := cmd.Flags().GetString("alias")
		dirout, _ := cmd.Flags().GetString("dirout")
		o, err := out.StartFile(args[0], alias)
		if err != nil {
			return
		}
		if dirout == "" {
			dirout = filepath.Join(o.Sim.DirOut, "vtu")
		}
		return o.WriteVtuFiles(dirout)
	},
}

var resCmd = &cobra.Command{
	Use:   "res <file.sim>",
	Short: "Print the time series of results of the particle nearest to a point",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		alias, _ := cmd.Flags().GetString("alias")
		at, _ := cmd.Flags().GetFloat64Slice("at")
		keys, _ := cmd.Flags().GetStringSlice("keys")
		o, err := out.StartFile(args[0], alias)
		if err != nil {
			return
		}
		if err = o.Define("P", out.At(at)); err != nil {
			return
		}
		if err = o.LoadResults(nil); err != nil {
			return
		}
		series := make([][]float64, len(keys))
		for j, key := range keys {
			if series[j], err = o.GetRes(key, "P", 0); err != nil {
				return
			}
		}
		io.Pf("# particle %d\n%13s", o.GetIds("P")[0], "t")
		for _, key := range keys {
			io.Pf("%23s", key)
		}
		io.Pf("\n")
		for i, t := range o.Times {
			io.Pf("%13.6e", t)
			for j := range keys {
				io.Pf("%23.15e", series[j][i])
			}
			io.Pf("\n")
		}
		return
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Run: func(cmd *cobra.Command, args []string) {
		io.Pf("mpm v%s\n", version)
	},
}

func init() {
	runCmd.Flags().BoolP("verbose", "v", true, "show messages")
	runCmd.Flags().String("alias", "", "word to add to results")
	runCmd.Flags().Int("nworkers", 0, "number of goroutines; 0 means number of CPUs")
	runCmd.Flags().String("metrics-addr", "", "address to serve prometheus metrics; e.g. :2112")
	runCmd.Flags().Bool("resume", false, "continue a previous run from one of its outputs")
	runCmd.Flags().Int("tidx", -1, "output index to resume from; -1 means the last one")
	genCmd.Flags().String("shape", "qua4", "cell shape: qua4, qua9 or hex8")
	vtuCmd.Flags().String("alias", "", "word added to results")
	vtuCmd.Flags().String("dirout", "", "directory for vtu files; default is <dirout>/vtu")
	resCmd.Flags().String("alias", "", "word added to results")
	resCmd.Flags().Float64Slice("at", []float64{0, 0, 0}, "coordinates of point")
	resCmd.Flags().StringSlice("keys", []string{"x", "y", "vx", "vy"}, "keys of results")
	rootCmd.AddCommand(runCmd, genCmd, vtuCmd, resCmd, versionCmd)
}

func main() {

	// catch errors
	defer func() {
		if err := recover(); err != nil {
			io.PfRed("ERROR: %v\n", err)
			os.Exit(1)
		}
	}()

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
