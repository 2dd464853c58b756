package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/cobra"
	"github.com/yacobolo/windgen"
	"github.com/yacobolo/windgen/internal/logger"
)

var k = koanf.New(".")

// loadConfig loads settings with precedence: flags > env > file > defaults.
// It must be called after cobra parses flags (in PreRunE or RunE).
func loadConfig(cmd *cobra.Command) error {
	settingsPath, _ := cmd.Flags().GetString("settings")
	if settingsPath == "" {
		settingsPath = ".windgen.yaml"
	}

	if err := loadConfigFromPath(settingsPath); err != nil {
		return err
	}

	// 3. CLI flags (highest precedence). Flags left at their default do not
	// override keys already loaded from the file or the environment.
	if err := k.Load(posflag.Provider(cmd.Flags(), ".", k), nil); err != nil {
		return fmt.Errorf("loading command flags: %w", err)
	}

	return nil
}

// loadConfigFromPath loads settings from a file and environment variables.
// This is separated from loadConfig to allow testing without a cobra command.
func loadConfigFromPath(settingsPath string) error {
	// 1. Settings file (lowest precedence among providers)
	if _, err := os.Stat(settingsPath); err == nil {
		if err := k.Load(file.Provider(settingsPath), yaml.Parser()); err != nil {
			return fmt.Errorf("loading settings file %s: %w", settingsPath, err)
		}
	}

	// 2. Environment variables (WINDGEN_* prefix)
	if err := k.Load(env.Provider("WINDGEN_", ".", func(s string) string {
		// WINDGEN_OUTPUT -> output
		// WINDGEN_METRICS_ADDR -> metrics-addr
		// WINDGEN_LOG_FORMAT -> log-format
		return strings.ReplaceAll(
			strings.ToLower(strings.TrimPrefix(s, "WINDGEN_")),
			"_", "-",
		)
	}), nil); err != nil {
		return fmt.Errorf("loading environment variables: %w", err)
	}

	return nil
}

// buildOptions constructs the library's Options from koanf state.
func buildOptions() windgen.Options {
	opts := windgen.Options{
		Input:    getStringWithFallback("input", "input", ""),
		Output:   getStringWithFallback("output", "output", ""),
		Config:   getStringWithFallback("config", "config", ""),
		Minify:   getBoolWithFallback("minify", "minify", false),
		Prefixer: getBoolWithFallback("prefixer", "prefixer", false),
	}
	if content := k.Strings("content"); len(content) > 0 {
		opts.Content = content
	}
	if targets := k.Strings("targets"); len(targets) > 0 {
		opts.Targets = targets
	}

	return opts
}

// watchSettings are the settings only the watch command uses.
type watchSettings struct {
	Debounce    time.Duration
	MetricsAddr string
}

func buildWatchSettings() watchSettings {
	return watchSettings{
		Debounce:    getDurationWithFallback("debounce", "watch.debounce", 50*time.Millisecond),
		MetricsAddr: getStringWithFallback("metrics-addr", "watch.metrics-addr", ""),
	}
}

// newLogger creates the logger for verbose and quiet settings. Logs are
// human readable unless log-format is json.
func newLogger(cmd *cobra.Command) (*logger.Logger, error) {
	level := "info"
	switch {
	case getBoolWithFallback("quiet", "quiet", false):
		level = "error"
	case getBoolWithFallback("verbose", "verbose", false):
		level = "debug"
	}
	format := getStringWithFallback("log-format", "log-format", "text")
	if format != "text" && format != "json" {
		return nil, fmt.Errorf("unknown log format %q (want text or json)", format)
	}
	return logger.New(logger.Options{
		Level:         level,
		HumanReadable: format == "text",
		Writer:        cmd.ErrOrStderr(),
	})
}

// getStringWithFallback checks the flag key first, then the config file key, then returns the default.
func getStringWithFallback(flagKey, configKey, defaultVal string) string {
	if v := k.String(flagKey); v != "" {
		return v
	}
	if v := k.String(configKey); v != "" {
		return v
	}
	return defaultVal
}

// getBoolWithFallback checks the flag key first, then the config file key, then returns the default.
func getBoolWithFallback(flagKey, configKey string, defaultVal bool) bool {
	if k.Exists(flagKey) {
		return k.Bool(flagKey)
	}
	if k.Exists(configKey) {
		return k.Bool(configKey)
	}
	return defaultVal
}

// getDurationWithFallback checks the flag key first, then the config file key, then returns the default.
// Zero durations count as unset.
func getDurationWithFallback(flagKey, configKey string, defaultVal time.Duration) time.Duration {
	if v := k.Duration(flagKey); v > 0 {
		return v
	}
	if v := k.Duration(configKey); v > 0 {
		return v
	}
	return defaultVal
}
