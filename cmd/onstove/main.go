package main

import (
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Jeremy-Prior/OnStove/internal/server"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "onstove",
		Short: "Geospatial clean cooking cost-benefit engine",
	}

	rootCmd.PersistentFlags().Float64("step", 0, "threshold step override for the electrification search")
	rootCmd.PersistentFlags().Int("max-iterations", 0, "iteration cap override for all searches")

	viper.SetEnvPrefix("ONSTOVE")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
	viper.BindPFlag("step", rootCmd.PersistentFlags().Lookup("step"))
	viper.BindPFlag("max-iterations", rootCmd.PersistentFlags().Lookup("max-iterations"))

	rootCmd.AddCommand(runCmd())
	rootCmd.AddCommand(calibrateCmd())
	rootCmd.AddCommand(validateCmd())
	rootCmd.AddCommand(serveCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runCmd() *cobra.Command {
	var opts runOptions

	cmd := &cobra.Command{
		Use:   "run [project-path]",
		Short: "Run the full calibration and allocation pipeline",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFull(cmd.Context(), args[0], opts)
		},
	}

	cmd.Flags().StringVar(&opts.cellsPath, "cells", "", "cell table CSV (default <project>/cells.csv)")
	cmd.Flags().StringVarP(&opts.outPath, "out", "o", "", "result table CSV (default <project>/results.csv)")
	cmd.Flags().StringVar(&opts.summaryPath, "summary", "", "write the run summary JSON here instead of stdout")
	cmd.Flags().BoolVar(&opts.noProgress, "no-progress", false, "disable the progress bar")
	return cmd
}

func calibrateCmd() *cobra.Command {
	var opts runOptions

	cmd := &cobra.Command{
		Use:   "calibrate [project-path]",
		Short: "Run the calibration stages only and write the calibrated table",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCalibrate(cmd.Context(), args[0], opts)
		},
	}

	cmd.Flags().StringVar(&opts.cellsPath, "cells", "", "cell table CSV (default <project>/cells.csv)")
	cmd.Flags().StringVarP(&opts.outPath, "out", "o", "", "calibrated table CSV (default <project>/calibrated.csv)")
	cmd.Flags().BoolVar(&opts.noProgress, "no-progress", false, "disable the progress bar")
	return cmd
}

func validateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate [project-path]",
		Short: "Validate a scenario without running the pipeline",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return runValidate(args[0])
		},
	}
}

func serveCmd() *cobra.Command {
	var port int
	var cellsPath string

	cmd := &cobra.Command{
		Use:   "serve [project-path]",
		Short: "Run the pipeline and serve the results over HTTP",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			srv := server.New(args[0], port, resultsRunner(args[0], cellsPath))
			return srv.Start()
		},
	}

	cmd.Flags().IntVarP(&port, "port", "p", 3000, "HTTP server port")
	cmd.Flags().StringVar(&cellsPath, "cells", "", "cell table CSV (default <project>/cells.csv)")
	return cmd
}
