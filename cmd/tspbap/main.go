// Command tspbap solves small symmetric TSPLIB instances to optimality with
// branch-and-price over red and blue perfect matchings.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/katalvlaran/colgen/bap"
	"github.com/katalvlaran/colgen/event"
	"github.com/katalvlaran/colgen/observe"
	"github.com/katalvlaran/colgen/tsp"
	"github.com/katalvlaran/colgen/tspbap"
)

type options struct {
	configPath  string
	debug       bool
	metricsAddr string
	optTour     string

	cfg tspbap.Config
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	return newCommand(&options{cfg: tspbap.DefaultConfig()})
}

func newCommand(o *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:          "tspbap INSTANCE.tsp",
		Short:        "Solves a TSPLIB instance by branch-and-price",
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := logrus.New()
			logger.SetOutput(cmd.ErrOrStderr())
			if o.debug {
				logger.SetLevel(logrus.DebugLevel)
			}

			cfg, err := resolveConfig(o.configPath, o.cfg, cmd.Flags())
			if err != nil {
				return err
			}

			ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer cancel()

			return o.run(ctx, logger, args[0], cfg, cmd)
		},
	}

	cmd.Flags().StringVarP(&o.configPath, "config", "c", "", "YAML file with solver settings; flags given explicitly win")
	cmd.Flags().BoolVar(&o.debug, "debug", false, "log every search event")
	cmd.Flags().StringVar(&o.metricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address, e.g. :9090")
	cmd.Flags().StringVar(&o.optTour, "opt-tour", "", "TSPLIB tour file to compare the result against")

	cmd.Flags().StringVar((*string)(&o.cfg.Cut), "cut", string(o.cfg.Cut), "min cut routine: stoer-wagner, edmonds-karp or dinic")
	cmd.Flags().StringVar(&o.cfg.Ordering, "ordering", o.cfg.Ordering, "node ordering: best-bound, dfs or bfs")
	cmd.Flags().StringVar(&o.cfg.Inheritance, "inheritance", o.cfg.Inheritance, "columns passed to children: master or solution")
	cmd.Flags().BoolVar(&o.cfg.WarmStart, "warm-start", o.cfg.WarmStart, "start from a 2-opt tour")
	cmd.Flags().BoolVar(&o.cfg.SeedColumns, "seed-columns", o.cfg.SeedColumns, "put the warm start tour in the root master")
	cmd.Flags().IntVar(&o.cfg.Restarts, "restarts", o.cfg.Restarts, "extra random 2-opt starts")
	cmd.Flags().Int64Var(&o.cfg.Seed, "seed", o.cfg.Seed, "seed of the random 2-opt starts")
	cmd.Flags().DurationVar(&o.cfg.TimeLimit, "time-limit", o.cfg.TimeLimit, "stop the search after this long, 0 for none")
	cmd.Flags().IntVar(&o.cfg.NodeLimit, "node-limit", o.cfg.NodeLimit, "stop after solving this many nodes, 0 for none")
	cmd.Flags().BoolVar(&o.cfg.ParallelPricing, "parallel-pricing", o.cfg.ParallelPricing, "solve both pricing problems concurrently")
	cmd.Flags().BoolVar(&o.cfg.ConsistencyChecks, "check", o.cfg.ConsistencyChecks, "verify inherited columns against branching decisions")

	return cmd
}

func (o *options) run(ctx context.Context, logger *logrus.Logger, path string, cfg tspbap.Config, cmd *cobra.Command) error {
	in, err := tsp.ReadFile(path)
	if err != nil {
		return err
	}
	logger.WithFields(logrus.Fields{
		"instance": in.Name,
		"cities":   in.N(),
		"cut":      cfg.Cut,
		"ordering": cfg.Ordering,
	}).Info("loaded instance")

	listeners := []event.Listener{observe.NewLogger(logger)}
	if o.metricsAddr != "" {
		reg := prometheus.NewRegistry()
		m, err := observe.NewMetrics("tspbap", reg)
		if err != nil {
			return err
		}
		listeners = append(listeners, m)
		srv := &http.Server{
			Addr:              o.metricsAddr,
			Handler:           promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
			ReadHeaderTimeout: 5 * time.Second,
		}
		go func() {
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				logger.WithError(err).Error("metrics server stopped")
			}
		}()
		defer srv.Close()
	}

	start := time.Now()
	res, err := tspbap.Solve(ctx, in, cfg, bap.WithListeners[tspbap.Matching](listeners...))
	if err != nil {
		return err
	}
	logger.WithFields(logrus.Fields{
		"nodes":      res.Stats.Nodes,
		"columns":    res.Stats.ColumnsGenerated,
		"cuts":       res.Stats.CutsAdded,
		"iterations": res.Stats.Iterations,
		"elapsed":    time.Since(start).Round(time.Millisecond),
	}).Info("search finished")

	out := cmd.OutOrStdout()
	if res.Tour == nil {
		fmt.Fprintln(out, "no tour found")
		return nil
	}
	fmt.Fprintf(out, "tour    %s\n", tsp.String(res.Tour))
	fmt.Fprintf(out, "cost    %g\n", res.Cost)
	fmt.Fprintf(out, "bound   %g\n", res.Bound)
	fmt.Fprintf(out, "optimal %t\n", res.Optimal)
	if cfg.WarmStart {
		fmt.Fprintf(out, "2-opt   %g\n", res.WarmCost)
	}

	if o.optTour != "" {
		known, err := tsp.ReadTourFile(o.optTour)
		if err != nil {
			return err
		}
		c, err := in.Cost(known)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "known   %g\n", c)
	}

	return nil
}
