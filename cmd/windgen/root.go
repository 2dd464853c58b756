package main

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "windgen",
	Short: "Utility-first CSS generator for Go/templ and HTML projects",
	Long: `Scan templates for class names and generate only the CSS they use.
Stylesheets may use @tailwind, @layer, @apply, @config, theme() and screen().`,
	// Default behavior: run build when no subcommand is given.
	// loadConfig must be called here because PreRunE of buildCmd
	// is not triggered when delegating via rootCmd.RunE.
	RunE: func(cmd *cobra.Command, _ []string) error {
		if err := loadConfig(cmd); err != nil {
			return err
		}
		return runBuild(cmd, nil)
	},
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	// Global persistent flags (inherited by all subcommands)
	pf := rootCmd.PersistentFlags()
	pf.BoolP("verbose", "v", false, "Enable verbose logging")
	pf.Bool("quiet", false, "Suppress all output (exit code only)")
	pf.Bool("color", false, "Force color output")
	pf.String("log-format", "", "Log format: text|json")
	pf.String("settings", ".windgen.yaml", "CLI settings file path")

	pf.StringP("input", "i", "", "Input stylesheet (default: @tailwind base, components and utilities)")
	pf.StringP("output", "o", "", "Output file (default: stdout)")
	pf.StringP("config", "c", "", "Engine config file (default: windgen.config.yaml if present)")
	pf.StringSlice("content", nil, "Content glob patterns, in addition to the config's content")
	pf.BoolP("minify", "m", false, "Minify the generated CSS")
	pf.Bool("prefixer", false, "Add vendor prefixes")
	pf.StringSlice("targets", nil, "Prefixer browser targets, e.g. chrome120,safari16.4 (default: current evergreen releases)")
	pf.String("format", "", "Report format: text|json")

	rootCmd.AddCommand(buildCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(completionCmd)
	rootCmd.AddCommand(versionCmd)
}
