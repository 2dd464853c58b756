package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Generate default .windgen.yaml and windgen.config.yaml files",
	Long: `Create a .windgen.yaml settings file and a windgen.config.yaml engine
config in the current directory with sensible defaults.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		force, _ := cmd.Flags().GetBool("force")

		files := []struct {
			name    string
			content string
		}{
			{".windgen.yaml", defaultSettings},
			{"windgen.config.yaml", defaultEngineConfig},
		}
		for _, f := range files {
			if _, err := os.Stat(f.name); err == nil && !force {
				return fmt.Errorf("%s already exists (use --force to overwrite)", f.name)
			}
		}
		for _, f := range files {
			if err := os.WriteFile(f.name, []byte(f.content), 0644); err != nil {
				return fmt.Errorf("writing %s: %w", f.name, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created %s\n", f.name)
		}
		return nil
	},
}

const defaultSettings = `# windgen CLI settings
# Docs: https://github.com/yacobolo/windgen

input: web/styles/app.css
output: web/static/app.css
config: windgen.config.yaml
minify: false
prefixer: true
targets: [chrome120, edge120, firefox115, safari16, ios16]
verbose: false

watch:
  debounce: 50ms
  metrics-addr: ""         # e.g. ":9100" to serve /metrics
`

const defaultEngineConfig = `# windgen engine config
content:
  - "internal/web/**/*.templ"
  - "web/**/*.html"

darkMode: media            # media | class | selector | [variant, "&:is(.dark *)"]

theme:
  extend:
    colors:
      brand:
        "500": "#3b82f6"

safelist: []
blocklist: []
`

func init() {
	initCmd.Flags().Bool("force", false, "Overwrite existing files")
}
