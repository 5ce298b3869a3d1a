/*
Robustmdp is a small command-line driver around the IMDP solver: it builds
a system, runs value iteration, and optionally serves a live view of solve
progress over websocket. The CLI itself is a thin convenience; the real
entry point is problem.Solve, which any Go program can call directly.
*/
package main

import (
	"context"
	"flag"
	"fmt"
	"runtime"

	"github.com/niceyeti/robustmdp/ambiguity"
	"github.com/niceyeti/robustmdp/monitor"
	"github.com/niceyeti/robustmdp/problem"
	"github.com/niceyeti/robustmdp/property"
	"github.com/niceyeti/robustmdp/solverconfig"
	"github.com/niceyeti/robustmdp/system"
)

var (
	configPath *string
	nworkers   *int
	host       *string
	port       *string
	serveUI    *bool
	addr       string
)

func init() {
	configPath = flag.String("config", "./solver.yaml", "solver config path")
	nworkers = flag.Int("nworkers", runtime.NumCPU(), "number of Bellman worker shards")
	host = flag.String("host", "", "monitor host ip")
	port = flag.String("port", "8080", "monitor host port")
	serveUI = flag.Bool("serve-ui", false, "serve a live progress view while solving")
	flag.Parse()
	addr = *host + ":" + *port
}

func loadConfig() *solverconfig.Config {
	cfg, err := solverconfig.FromYaml(*configPath)
	if err != nil {
		return &solverconfig.Config{ConvergenceEps: 1e-6, NumShards: *nworkers}
	}
	return cfg
}

// exampleSystem builds a tiny 2-state IMDP as a placeholder subject for the
// CLI; real use wires a system built from a loaded model instead.
func exampleSystem() (*system.Factored[float64], error) {
	set, err := ambiguity.NewDenseFromBounds(
		[][]float64{{0.3, 0.4}, {0, 1}},
		[][]float64{{0.5, 0.6}, {0, 1}},
	)
	if err != nil {
		return nil, err
	}
	return system.NewNonFactored[float64](set, 2, 1, [][]int{{0}})
}

func run() error {
	cfg := loadConfig()

	sys, err := exampleSystem()
	if err != nil {
		return err
	}

	prop, err := property.New[float64](property.InfiniteTimeReachability, 0, cfg.ConvergenceEps, []int{1}, nil, nil, 0, sys.NumStates())
	if err != nil {
		return err
	}
	spec := &property.Specification[float64]{Property: prop, SatisfactionMode: property.Pessimistic, StrategyMode: property.Maximize}

	verProblem, err := problem.NewVerification[float64](sys, spec, nil, cfg.BellmanAlgorithm())
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var progress *monitor.Channel
	if *serveUI {
		progress = monitor.NewChannel(make([]float64, sys.NumStates()), 16)
		mon, err := monitor.New(ctx, addr, progress.Updates())
		if err != nil {
			return err
		}
		go func() {
			if err := mon.Serve(); err != nil {
				fmt.Println(err)
			}
		}()
	}

	opts := problem.Options{NumShards: cfg.NumShards}
	if progress != nil {
		opts.OnProgress = progress.Push
	}

	solution, err := problem.Solve[float64](verProblem, opts)
	if err != nil {
		return err
	}

	fmt.Printf("solved in %d iterations, values=%v\n", solution.Iterations, solution.Value)
	return nil
}

func main() {
	if err := run(); err != nil {
		fmt.Println(err)
	}
}
