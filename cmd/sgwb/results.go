package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"cosmicstring-pta/internal/store"
)

func resultsCmd() *cobra.Command {
	var dbPath string
	var limit int

	c := &cobra.Command{
		Use:   "results",
		Short: "List stored runs, newest first",
		RunE: func(cmd *cobra.Command, _ []string) error {
			db, err := store.Open(dbPath)
			if err != nil {
				return err
			}
			defer db.Close()

			rows, err := db.ListRuns(cmd.Context(), limit)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			if len(rows) == 0 {
				fmt.Fprintln(w, "No runs stored.")
				return nil
			}
			fmt.Fprintf(w, "%-8s | %-20s | %-14s | %-7s | %-7s | %-12s | %-10s | %s\n",
				"ID", "Created", "PTA", "Accept", "Samples", "log Gμ mean", "log P mean", "Ablation")
			fmt.Fprintln(w, "--------------------------------------------------------------------------------------------------------")
			for _, r := range rows {
				ablation := "-"
				if r.AblatedParam != "" {
					ablation = fmt.Sprintf("%s=%g", r.AblatedParam, r.AblatedValue)
				}
				fmt.Fprintf(w, "%-8s | %-20s | %-14s | %-7.3f | %-7d | %-12.3f | %-10.3f | %s\n",
					r.ID[:8], r.CreatedAt.Format(time.RFC3339), r.PTAName, r.AcceptanceRate,
					r.SampleCount, r.LogGmuMean, r.LogPMean, ablation)
			}
			return nil
		},
	}

	c.Flags().StringVar(&dbPath, "db", "sgwb_results.db", "Results database")
	c.Flags().IntVar(&limit, "limit", 20, "Maximum runs to list")
	return c
}
