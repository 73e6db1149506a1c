package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"cosmicstring-pta/internal/config"
	"cosmicstring-pta/internal/inference"
	"cosmicstring-pta/internal/store"
)

func sweepCmd(a *app) *cobra.Command {
	var cfgPath string
	var ablate string
	var workers int
	var dbPath string
	var noSave bool
	var withSamples bool

	c := &cobra.Command{
		Use:   "sweep",
		Short: "Rerun inference over a grid of one parameter, in parallel",
		Long: fmt.Sprintf(`Runs the run file once per grid value of --ablate and prints one row per
point in grid order as results come in. Parameters: %s.`, strings.Join(inference.AblationParams, ", ")),
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(cfgPath)
			if err != nil {
				return err
			}
			if dbPath != "" {
				cfg.Store.Path = dbPath
			}
			req, err := cfg.Request()
			if err != nil {
				return err
			}

			var db *store.Store
			if !noSave {
				db, err = store.Open(cfg.Store.Path)
				if err != nil {
					return err
				}
				defer db.Close()
			}

			out := cmd.OutOrStdout()
			first := true
			return inference.Sweep(cmd.Context(), a.logger, req, ablate, workers, func(p inference.SweepPoint) error {
				printSweepRow(out, p, first)
				first = false
				if db == nil {
					return nil
				}
				return db.SaveReport(cmd.Context(), p.Report, store.Ablation{Param: p.Param, Value: p.Value}, withSamples)
			})
		},
	}

	c.Flags().StringVarP(&cfgPath, "config", "c", "", "Run file (required)")
	c.Flags().StringVar(&ablate, "ablate", "alpha", "Parameter to sweep")
	c.Flags().IntVar(&workers, "workers", 4, "Concurrent runs")
	c.Flags().StringVar(&dbPath, "db", "", "Override the results database path")
	c.Flags().BoolVar(&noSave, "no-save", false, "Do not store the runs")
	c.Flags().BoolVar(&withSamples, "samples", false, "Also store every posterior draw")

	_ = c.MarkFlagRequired("config")
	return c
}

// printSweepRow prints one grid point, preceded by the table header for the first.
func printSweepRow(w io.Writer, p inference.SweepPoint, header bool) {
	if header {
		fmt.Fprintf(w, "Ablation: %s\n\n", p.Param)
		fmt.Fprintf(w, "%-10s | %-10s | %-12s | %-10s | %-12s | %s\n",
			"Value", "Accept", "log Gμ mean", "log Gμ 97%", "log P mean", "Samples")
		fmt.Fprintln(w, "-------------------------------------------------------------------------------")
	}
	s := p.Report.Summary
	fmt.Fprintf(w, "%-10.4g | %-10.3f | %-12.3f | %-10.3f | %-12.3f | %d\n",
		p.Value, p.Report.Chain.AcceptanceRate, s.LogGmu.Mean, s.LogGmu.Q975, s.LogP.Mean, s.N)
}
