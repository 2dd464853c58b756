package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/yacobolo/windgen"
	"github.com/yacobolo/windgen/internal/report"
)

var buildCmd = &cobra.Command{
	Use:     "build",
	Aliases: []string{"gen"},
	Short:   "Generate CSS once",
	Long: `Scan the content files for candidate classes and generate the CSS
for those that match a utility, component or layer rule.
Without --output the CSS is written to stdout.`,
	PreRunE: func(cmd *cobra.Command, _ []string) error {
		return loadConfig(cmd)
	},
	RunE: runBuild,
}

func runBuild(cmd *cobra.Command, _ []string) error {
	log, err := newLogger(cmd)
	if err != nil {
		return err
	}
	opts := buildOptions()
	opts.Logger = log

	res, buildErr := windgen.Generate(opts)
	if buildErr == nil && opts.Output == "" {
		if _, err := io.WriteString(cmd.OutOrStdout(), res.CSS); err != nil {
			return fmt.Errorf("writing css: %w", err)
		}
	}
	if err := writeReport(cmd, res, opts.Output); err != nil {
		return fmt.Errorf("writing report: %w", err)
	}
	if buildErr != nil {
		return errReported
	}
	return nil
}

// writeReport writes the build report. It goes to stderr unless the CSS
// went to a file and the report is JSON, so it never mixes with CSS on
// stdout.
func writeReport(cmd *cobra.Command, res *windgen.GenerateResult, output string) error {
	quiet := getBoolWithFallback("quiet", "quiet", false)
	format := windgen.DetermineOutputFormat(getStringWithFallback("format", "format", ""), quiet)

	w := cmd.ErrOrStderr()
	if output != "" && format == windgen.ReportJSON {
		w = cmd.OutOrStdout()
	}
	useColors := report.ShouldUseColors(getBoolWithFallback("color", "color", false))
	return windgen.WriteReport(w, res, format, useColors)
}
