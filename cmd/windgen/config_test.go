package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/knadh/koanf/v2"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// resetKoanf creates a fresh koanf instance for each test.
func resetKoanf() {
	k = koanf.New(".")
}

// chdir moves the test into dir for the duration of the test.
func chdir(t *testing.T, dir string) {
	t.Helper()
	origDir, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() {
		_ = os.Chdir(origDir)
	})
}

func TestConfigFileLoading(t *testing.T) {
	resetKoanf()

	dir := t.TempDir()
	settingsPath := filepath.Join(dir, ".windgen.yaml")
	settings := `
input: styles/app.css
output: dist/app.css
config: tailwind.yaml
minify: true
verbose: true
content:
  - "web/**/*.html"

watch:
  debounce: 200ms
  metrics-addr: ":9100"
`
	require.NoError(t, os.WriteFile(settingsPath, []byte(settings), 0644))
	require.NoError(t, loadConfigFromPath(settingsPath))

	opts := buildOptions()
	assert.Equal(t, "styles/app.css", opts.Input)
	assert.Equal(t, "dist/app.css", opts.Output)
	assert.Equal(t, "tailwind.yaml", opts.Config)
	assert.True(t, opts.Minify)
	assert.False(t, opts.Prefixer)
	assert.Equal(t, []string{"web/**/*.html"}, opts.Content)
	assert.True(t, k.Bool("verbose"))

	ws := buildWatchSettings()
	assert.Equal(t, 200*time.Millisecond, ws.Debounce)
	assert.Equal(t, ":9100", ws.MetricsAddr)
}

func TestConfigFileNotFound_UsesDefaults(t *testing.T) {
	resetKoanf()

	// Point to non-existent settings, should not error
	require.NoError(t, loadConfigFromPath("/nonexistent/.windgen.yaml"))

	opts := buildOptions()
	assert.Empty(t, opts.Input)
	assert.Empty(t, opts.Output)
	assert.Empty(t, opts.Config)
	assert.Empty(t, opts.Content)
	assert.False(t, opts.Minify)

	ws := buildWatchSettings()
	assert.Equal(t, 50*time.Millisecond, ws.Debounce)
	assert.Empty(t, ws.MetricsAddr)
}

func TestEnvVarOverridesConfigFile(t *testing.T) {
	resetKoanf()

	dir := t.TempDir()
	settingsPath := filepath.Join(dir, ".windgen.yaml")
	settings := `
output: from-file.css
minify: false
watch:
  metrics-addr: ":1"
`
	require.NoError(t, os.WriteFile(settingsPath, []byte(settings), 0644))

	t.Setenv("WINDGEN_OUTPUT", "from-env.css")
	t.Setenv("WINDGEN_MINIFY", "true")
	t.Setenv("WINDGEN_METRICS_ADDR", ":2")

	require.NoError(t, loadConfigFromPath(settingsPath))

	opts := buildOptions()
	assert.Equal(t, "from-env.css", opts.Output)
	assert.True(t, opts.Minify)
	assert.Equal(t, ":2", buildWatchSettings().MetricsAddr)
}

func TestFlagsOverrideConfigFile(t *testing.T) {
	resetKoanf()

	dir := t.TempDir()
	settingsPath := filepath.Join(dir, ".windgen.yaml")
	settings := `
output: from-file.css
minify: true
targets: [safari15]
`
	require.NoError(t, os.WriteFile(settingsPath, []byte(settings), 0644))

	cmd := &cobra.Command{Use: "test"}
	f := cmd.Flags()
	f.String("settings", ".windgen.yaml", "")
	f.String("output", "", "")
	f.Bool("minify", false, "")
	f.Bool("prefixer", false, "")
	f.StringSlice("targets", nil, "")
	require.NoError(t, cmd.ParseFlags([]string{"--settings", settingsPath, "--output", "from-flag.css", "--prefixer", "--targets", "chrome110,firefox100"}))
	require.NoError(t, loadConfig(cmd))

	opts := buildOptions()
	assert.Equal(t, "from-flag.css", opts.Output)
	assert.True(t, opts.Minify, "unset flags keep the file value")
	assert.True(t, opts.Prefixer)
	assert.Equal(t, []string{"chrome110", "firefox100"}, opts.Targets)
}

func TestNewLogger(t *testing.T) {
	tests := []struct {
		name     string
		settings map[string]any
		debug    bool
		info     bool
		wantErr  bool
	}{
		{name: "default", info: true},
		{name: "verbose", settings: map[string]any{"verbose": true}, debug: true, info: true},
		{name: "quiet wins", settings: map[string]any{"verbose": true, "quiet": true}},
		{name: "json", settings: map[string]any{"log-format": "json"}, info: true},
		{name: "unknown format", settings: map[string]any{"log-format": "xml"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resetKoanf()
			for key, v := range tt.settings {
				require.NoError(t, k.Set(key, v))
			}
			cmd := &cobra.Command{}
			cmd.SetErr(&bytes.Buffer{})

			log, err := newLogger(cmd)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.debug, log.Enabled("debug"))
			assert.Equal(t, tt.info, log.Enabled("info"))
		})
	}
}

func TestBuildCommand(t *testing.T) {
	resetKoanf()
	dir := t.TempDir()
	chdir(t, dir)
	require.NoError(t, os.WriteFile("app.css", []byte("@tailwind utilities;\n"), 0644))
	require.NoError(t, os.WriteFile("index.html", []byte(`<div class="p-4"></div>`), 0644))

	var stdout, stderr bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
	})
	rootCmd.SetArgs([]string{"build", "--input", "app.css", "--content", "*.html", "--minify", "--quiet"})
	require.NoError(t, rootCmd.Execute())

	assert.Equal(t, ".p-4{padding:1rem}", stdout.String())
	assert.Empty(t, stderr.String())
}

func TestBuildCommand_Failure(t *testing.T) {
	resetKoanf()
	dir := t.TempDir()
	chdir(t, dir)
	require.NoError(t, os.WriteFile("app.css", []byte("@tailwind utilities;\n.x { @apply nope; }\n"), 0644))

	var stdout, stderr bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
	})
	rootCmd.SetArgs([]string{"build", "--input", "app.css", "--output", "out.css", "--quiet=false", "--format", "json"})
	err := rootCmd.Execute()
	require.ErrorIs(t, err, errReported)

	assert.Contains(t, stdout.String(), `"success": false`)
	assert.Contains(t, stdout.String(), "The `nope` class does not exist.")
	assert.NoFileExists(t, "out.css")
}

func TestWatchCommand_RequiresOutput(t *testing.T) {
	resetKoanf()
	chdir(t, t.TempDir())

	rootCmd.SetArgs([]string{"watch", "--output", ""})
	err := rootCmd.Execute()
	assert.ErrorIs(t, err, errNoOutput)
}

func TestInitCommand_CreatesConfigFiles(t *testing.T) {
	chdir(t, t.TempDir())

	cmd := rootCmd
	cmd.SetArgs([]string{"init"})
	require.NoError(t, cmd.Execute())

	// Verify files were created
	data, err := os.ReadFile(".windgen.yaml")
	require.NoError(t, err)
	assert.Contains(t, string(data), "output: web/static/app.css")
	assert.Contains(t, string(data), "watch:")

	data, err = os.ReadFile("windgen.config.yaml")
	require.NoError(t, err)
	assert.Contains(t, string(data), "content:")
	assert.Contains(t, string(data), "darkMode: media")
}

func TestInitCommand_RefusesOverwrite(t *testing.T) {
	chdir(t, t.TempDir())

	// Create existing file
	require.NoError(t, os.WriteFile("windgen.config.yaml", []byte("existing"), 0644))

	cmd := rootCmd
	cmd.SetArgs([]string{"init"})
	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")
	assert.NoFileExists(t, ".windgen.yaml")
}

func TestInitCommand_ForceOverwrite(t *testing.T) {
	chdir(t, t.TempDir())

	// Create existing file
	require.NoError(t, os.WriteFile(".windgen.yaml", []byte("existing"), 0644))

	cmd := rootCmd
	cmd.SetArgs([]string{"init", "--force"})
	require.NoError(t, cmd.Execute())

	data, err := os.ReadFile(".windgen.yaml")
	require.NoError(t, err)
	assert.Contains(t, string(data), "input: web/styles/app.css")
}

func TestVersionCommand(t *testing.T) {
	var out bytes.Buffer
	cmd := rootCmd
	cmd.SetOut(&out)
	t.Cleanup(func() { cmd.SetOut(nil) })
	cmd.SetArgs([]string{"version"})
	require.NoError(t, cmd.Execute())
	assert.Equal(t, "windgen dev\n", out.String())
}

func TestWatchKey(t *testing.T) {
	a := watchKey([]string{"a", "b"}, []string{"c"})
	assert.Equal(t, a, watchKey([]string{"a", "b"}, []string{"c"}))
	assert.NotEqual(t, a, watchKey([]string{"a"}, []string{"b", "c"}))
}

func TestGetStringWithFallback(t *testing.T) {
	resetKoanf()

	// No keys set - should return default
	assert.Equal(t, "default", getStringWithFallback("flag-key", "config.key", "default"))

	require.NoError(t, k.Set("config.key", "from-config"))
	assert.Equal(t, "from-config", getStringWithFallback("flag-key", "config.key", "default"))
}

func TestGetBoolWithFallback(t *testing.T) {
	resetKoanf()

	// No keys set - should return default
	assert.False(t, getBoolWithFallback("flag-key", "config.key", false))
	assert.True(t, getBoolWithFallback("flag-key", "config.key", true))
}

func TestGetDurationWithFallback(t *testing.T) {
	resetKoanf()

	// No keys set - should return default
	assert.Equal(t, time.Second, getDurationWithFallback("flag-key", "config.key", time.Second))

	require.NoError(t, k.Set("config.key", "250ms"))
	assert.Equal(t, 250*time.Millisecond, getDurationWithFallback("flag-key", "config.key", time.Second))
}
