// qcctl runs QC analyses from the command line against local image
// files and spectrophotometer exports.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/algamel98/textile-qc-app/internal/analyzer"
	"github.com/algamel98/textile-qc-app/internal/colorspace"
	"github.com/algamel98/textile-qc-app/internal/config"
	"github.com/algamel98/textile-qc-app/internal/factory"
	"github.com/algamel98/textile-qc-app/internal/pipeline"
	"github.com/algamel98/textile-qc-app/internal/spectral"
	"github.com/algamel98/textile-qc-app/internal/whiteness"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "qcctl",
		Short:         "Textile QC colorimetric analysis tool",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newCompareCmd())
	root.AddCommand(newSpectralCmd())
	return root
}

func newCompareCmd() *cobra.Command {
	var (
		settingsPath  string
		analysisWidth int
		timeout       time.Duration
	)

	cmd := &cobra.Command{
		Use:   "compare <reference-image> <test-image>",
		Short: "Compare a test fabric image against its approved reference",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			settings := config.DefaultQCSettings()
			if settingsPath != "" {
				data, err := os.ReadFile(settingsPath)
				if err != nil {
					return fmt.Errorf("failed to read settings file: %w", err)
				}
				if err := settings.MergeJSON(data); err != nil {
					return err
				}
			}

			cfg := &config.Config{
				RequestTimeout:    timeout,
				ImageFetchTimeout: timeout,
				UnitTimeout:       timeout,
				AnalysisWidth:     analysisWidth,
			}

			fetcher, err := factory.NewStorageFactory().CreateFetcher(factory.LocalFetcher, timeout)
			if err != nil {
				return err
			}

			pool := analyzer.NewWorkerPool(0)
			pool.Start()
			defer pool.Close()

			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()

			runner := pipeline.NewRunner(cfg, fetcher, pool, nil)
			result := runner.Run(ctx, args[0], args[1], settings)

			return printJSON(cmd, result)
		},
	}

	cmd.Flags().StringVar(&settingsPath, "settings", "", "JSON file with settings overrides")
	cmd.Flags().IntVar(&analysisWidth, "width", 640, "analysis width in pixels")
	cmd.Flags().DurationVar(&timeout, "timeout", 60*time.Second, "overall run timeout")
	return cmd
}

func newSpectralCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "spectral <reflectance-csv>",
		Short: "Evaluate a spectrophotometer reflectance export",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("failed to open spectral CSV: %w", err)
			}
			defer f.Close()

			samples, err := spectral.ParseReflectanceCSV(f)
			if err != nil {
				return err
			}

			xyz, err := spectral.SpectrumToXYZ(samples)
			if err != nil {
				return err
			}

			return printJSON(cmd, map[string]interface{}{
				"samples":         len(samples),
				"xyz":             xyz,
				"lab":             colorspace.XYZToLabOne(xyz, colorspace.D65),
				"cie":             whiteness.CIEWhitenessTint(xyz),
				"yellowness_e313": whiteness.YellownessE313(xyz),
				"hunter":          whiteness.HunterWhiteness(xyz),
				"berger":          whiteness.BergerWhiteness(xyz),
			})
		},
	}
}

func printJSON(cmd *cobra.Command, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return nil
}
