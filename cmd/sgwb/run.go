package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"cosmicstring-pta/internal/config"
	"cosmicstring-pta/internal/inference"
	"cosmicstring-pta/internal/sampler"
	"cosmicstring-pta/internal/store"
)

func runCmd(a *app) *cobra.Command {
	var cfgPath string
	var seed int64
	var dbPath string
	var noSave bool

	c := &cobra.Command{
		Use:   "run",
		Short: "Sample the (Gμ, P) posterior for one run file",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(cfgPath)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("seed") {
				cfg.Sampler.Seed = seed
			}
			if dbPath != "" {
				cfg.Store.Path = dbPath
			}

			req, err := cfg.Request()
			if err != nil {
				return err
			}

			errOut := cmd.ErrOrStderr()
			rep, err := inference.NewRunner(a.logger).Run(cmd.Context(), req, func(p sampler.Progress) {
				fmt.Fprintf(errOut, "step %d/%d  acceptance %.3f\n", p.Step, p.TotalSteps, p.AcceptanceRate)
			})
			if err != nil {
				return err
			}
			printReport(cmd.OutOrStdout(), rep)

			if noSave {
				return nil
			}
			db, err := store.Open(cfg.Store.Path)
			if err != nil {
				return err
			}
			defer db.Close()
			if err := db.SaveReport(cmd.Context(), rep, store.Ablation{}, true); err != nil {
				return fmt.Errorf("save run: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Saved to:    %s\n", cfg.Store.Path)
			return nil
		},
	}

	c.Flags().StringVarP(&cfgPath, "config", "c", "", "Run file (required)")
	c.Flags().Int64Var(&seed, "seed", 0, "Override the sampler seed")
	c.Flags().StringVar(&dbPath, "db", "", "Override the results database path")
	c.Flags().BoolVar(&noSave, "no-save", false, "Do not store the run")

	_ = c.MarkFlagRequired("config")
	return c
}

func printReport(w io.Writer, rep *inference.Report) {
	req := rep.Request
	chain := rep.Chain

	fmt.Fprintf(w, "Run ID:      %s\n", rep.ID)
	fmt.Fprintf(w, "PTA:         %s (%d bins)\n", req.PTA.Name, req.PTA.Len())
	if req.UseLISA && req.LISA != nil {
		fmt.Fprintf(w, "LISA:        %s (%d bins)\n", req.LISA.Name, req.LISA.Len())
	}
	fmt.Fprintf(w, "Walkers:     %d x %d steps (burn-in %.0f%%, seed %d)\n",
		chain.NWalkers, chain.NSteps, 100*chain.BurnIn, req.Sampler.Seed)
	if chain.Cancelled {
		fmt.Fprintf(w, "Cancelled:   after %d steps\n", chain.StepsCompleted)
	}
	fmt.Fprintf(w, "Acceptance:  %.3f\n", chain.AcceptanceRate)
	fmt.Fprintf(w, "Samples:     %d\n", rep.Summary.N)
	fmt.Fprintf(w, "Elapsed:     %s\n", rep.Elapsed)
	fmt.Fprintln(w)

	if rep.Summary.N == 0 {
		fmt.Fprintln(w, "No samples retained.")
		return
	}
	fmt.Fprintf(w, "%-10s | %-9s | %-9s | %-9s | %-9s | %s\n", "Param", "Mean", "StdDev", "2.5%", "Median", "97.5%")
	fmt.Fprintln(w, "---------------------------------------------------------------------")
	for _, row := range []struct {
		name string
		s    inference.ParamSummary
	}{
		{"log10 Gμ", rep.Summary.LogGmu},
		{"log10 P", rep.Summary.LogP},
	} {
		fmt.Fprintf(w, "%-10s | %-9.3f | %-9.3f | %-9.3f | %-9.3f | %.3f\n",
			row.name, row.s.Mean, row.s.StdDev, row.s.Q025, row.s.Median, row.s.Q975)
	}
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Density levels: %.0f%% %.4g  %.0f%% %.4g\n",
		100*req.KDE.LevelA, rep.Levels.Level68, 100*req.KDE.LevelB, rep.Levels.Level95)
}
