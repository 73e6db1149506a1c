package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"cosmicstring-pta/internal/cosmology"
	"cosmicstring-pta/internal/spectrum"
	"cosmicstring-pta/internal/units"
)

func omegaCmd() *cobra.Command {
	var gmu, p float64
	var freqs []float64
	opts := spectrum.DefaultOptions()

	c := &cobra.Command{
		Use:   "omega",
		Short: "Evaluate Ω_gw(f) for one (Gμ, P)",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !(gmu > 0) || !(p > 0) {
				return fmt.Errorf("--gmu and --p must be > 0 (got %g, %g)", gmu, p)
			}
			if len(freqs) == 0 {
				return fmt.Errorf("at least one --f is required")
			}
			if err := opts.Validate(); err != nil {
				return err
			}

			model := spectrum.NewModel(cosmology.NewCache())
			omegas := model.Spectrum(freqs, gmu, p, opts)

			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "%-12s | %-12s | %s\n", "f (Hz)", "Ω_gw", "h_c")
			fmt.Fprintln(w, "------------------------------------------")
			for i, f := range freqs {
				fmt.Fprintf(w, "%-12.4g | %-12.4e | %.4e\n", f, omegas[i], units.OmegaGWToHc(f, omegas[i]))
			}
			return nil
		},
	}

	c.Flags().Float64Var(&gmu, "gmu", 1e-11, "String tension Gμ")
	c.Flags().Float64Var(&p, "p", 1, "Reconnection probability")
	c.Flags().Float64SliceVar(&freqs, "f", nil, "Frequencies in Hz (comma separated)")
	c.Flags().IntVar(&opts.Nk, "nk", opts.Nk, "Harmonic modes")
	c.Flags().Float64Var(&opts.Alpha, "alpha", opts.Alpha, "Loop-size scaling")
	c.Flags().Float64Var(opts.Beta, "beta", *opts.Beta, "Tension exponent of the loop density")
	c.Flags().BoolVar(&opts.AbsoluteTol, "absolute-tol", false, "Use the integrator tolerance as an absolute tolerance")
	c.Flags().Float64Var(&opts.ZMax, "zmax", opts.ZMax, "Upper redshift of the cosmology table")
	return c
}

func convertCmd() *cobra.Command {
	var quantity string
	var f, value, sigma float64

	c := &cobra.Command{
		Use:   "convert",
		Short: "Convert an h_c or S_h value (and error) to Ω_gw",
		RunE: func(cmd *cobra.Command, _ []string) error {
			q, err := units.ParseQuantity(quantity)
			if err != nil {
				return err
			}
			if !(f > 0) {
				return fmt.Errorf("--f must be > 0, got %g", f)
			}
			omega, omegaSigma, err := units.ToOmegaGW(q, f, value, sigma)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "Ω_gw:  %.6e ± %.6e\n", omega, omegaSigma)
			fmt.Fprintf(w, "S_h:   %.6e 1/Hz\n", units.OmegaGWToSh(f, omega))
			fmt.Fprintf(w, "h_c:   %.6e\n", units.OmegaGWToHc(f, omega))
			return nil
		},
	}

	c.Flags().StringVarP(&quantity, "quantity", "q", "hc", "Input quantity: omega|sh|hc")
	c.Flags().Float64Var(&f, "f", 0, "Frequency in Hz (required)")
	c.Flags().Float64Var(&value, "value", 0, "Value in the input quantity")
	c.Flags().Float64Var(&sigma, "error", 0, "1σ error in the input quantity")

	_ = c.MarkFlagRequired("f")
	return c
}
