package windgen

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/yacobolo/windgen/internal/cache"
	"github.com/yacobolo/windgen/internal/config"
	"github.com/yacobolo/windgen/internal/engine"
	"github.com/yacobolo/windgen/internal/logger"
	"github.com/yacobolo/windgen/internal/metrics"
)

// Options configures a file based build.
type Options struct {
	// Input is the source stylesheet. Empty means DefaultSource.
	Input string
	// Output is the file written. Empty means nothing is written; the CSS
	// is only returned.
	Output string
	// Config is the engine config file. Empty probes config.DefaultFiles
	// in the working directory and falls back to the defaults.
	Config string
	// Content globs scanned in addition to the config's content.
	Content []string

	Minify   bool
	Prefixer bool
	// Targets are the prefixer's browsers, like "safari16.4".
	Targets []string
	Plugins  []engine.Plugin
	Logger   *logger.Logger
	Metrics  *metrics.Metrics
	Cache    *cache.Cache
}

// GenerateResult describes a file based build. When a build fails the
// result is still returned next to the error so the failure can be
// reported; CSS is then empty and Err set.
type GenerateResult struct {
	Input  string
	Output string
	Config string
	CSS    string

	Stats     ScanStats
	FilesRead int

	Candidates int
	Rules      int
	Warnings   []string
	CacheHit   bool
	Duration   time.Duration
	// Written is false when the output file already had this content.
	Written bool

	Err    error
	source string
}

// Generate runs one file based build.
func Generate(opts Options) (*GenerateResult, error) {
	g := NewGenerator(opts)
	defer g.Close()
	return g.Run()
}

// Generator runs repeated file based builds, as in watch mode. Content
// files are only re-read when they changed, and the compiler is kept
// until the config file changes.
type Generator struct {
	opts    Options
	tracker *contentTracker

	compiler    *Compiler
	cfg         *config.Config
	cfgWarnings []string
	cfgPath     string
	cfgModTime  time.Time
	lastWritten string
}

// NewGenerator returns a generator for opts.
func NewGenerator(opts Options) *Generator {
	return &Generator{opts: opts, tracker: newContentTracker()}
}

// Run builds once.
func (g *Generator) Run() (*GenerateResult, error) {
	start := time.Now()
	res := &GenerateResult{Input: g.opts.Input, Output: g.opts.Output}
	fail := func(err error) (*GenerateResult, error) {
		res.Err = err
		res.Duration = time.Since(start)
		return res, err
	}

	source := DefaultSource
	if g.opts.Input != "" {
		data, err := os.ReadFile(g.opts.Input)
		if err != nil {
			return fail(fmt.Errorf("reading input: %w", err))
		}
		source = string(data)
	}
	res.source = source

	if err := g.loadConfig(); err != nil {
		return fail(err)
	}
	res.Config = g.cfgPath

	patterns := append(append([]string(nil), g.cfg.Content...), g.opts.Content...)
	if g.opts.Output != "" {
		patterns = append(patterns, "!"+g.opts.Output)
	}
	files, stats, err := ScanContent(patterns)
	if err != nil {
		return fail(fmt.Errorf("scan failed: %w", err))
	}
	res.Stats = stats

	content, read, err := g.tracker.load(files)
	if err != nil {
		return fail(err)
	}
	res.FilesRead = read
	g.opts.Metrics.ObserveScan(stats.FilesScanned, read)
	g.opts.Logger.Debug(fmt.Sprintf("scanned %d content files (%d read, %d skipped)", stats.FilesScanned, read, stats.FilesSkipped))

	built, err := g.compilerFor().Build(source, content...)
	if err != nil {
		return fail(err)
	}
	res.CSS = built.CSS
	res.Candidates = built.Candidates
	res.Rules = built.Rules
	res.Warnings = append(append([]string(nil), g.cfgWarnings...), built.Warnings...)
	res.CacheHit = built.CacheHit

	if g.opts.Output != "" && built.CSS != g.lastWritten {
		if err := writeOutput(g.opts.Output, built.CSS); err != nil {
			return fail(fmt.Errorf("write failed: %w", err))
		}
		g.lastWritten = built.CSS
		res.Written = true
	}
	res.Duration = time.Since(start)
	return res, nil
}

// loadConfig (re)loads the engine config when its file is new or changed.
func (g *Generator) loadConfig() error {
	path := g.opts.Config
	if path == "" {
		for _, f := range config.DefaultFiles {
			if _, err := os.Stat(f); err == nil {
				path = f
				break
			}
		}
	}
	if path == "" {
		if g.cfg == nil {
			g.cfg = config.Default()
		}
		return nil
	}

	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if g.cfg != nil && path == g.cfgPath && info.ModTime().Equal(g.cfgModTime) {
		return nil
	}

	cfg, verrs, err := config.Load(path)
	if err != nil {
		return err
	}
	g.cfgWarnings = g.cfgWarnings[:0]
	for _, v := range verrs {
		g.cfgWarnings = append(g.cfgWarnings, v.Error())
	}
	if g.compiler != nil {
		g.compiler.Close()
		g.compiler = nil
	}
	g.cfg, g.cfgPath, g.cfgModTime = cfg, path, info.ModTime()
	g.opts.Logger.Debug("loaded config " + path)
	return nil
}

func (g *Generator) compilerFor() *Compiler {
	if g.compiler == nil {
		input := g.opts.Input
		g.compiler = NewCompiler(g.cfg,
			WithInputPath(input),
			WithPlugins(g.opts.Plugins...),
			WithLogger(g.opts.Logger),
			WithMetrics(g.opts.Metrics),
			WithCache(g.opts.Cache),
			WithMinify(g.opts.Minify),
			WithPrefixer(g.opts.Prefixer),
			WithTargets(g.opts.Targets...),
		)
	}
	return g.compiler
}

// WatchedFiles returns the content globs and the single files a watcher
// needs to follow for this generator.
func (g *Generator) WatchedFiles() (patterns, files []string) {
	if g.cfg != nil {
		patterns = append(patterns, g.cfg.Content...)
	}
	patterns = append(patterns, g.opts.Content...)
	for _, f := range []string{g.opts.Input, g.cfgPath} {
		if f != "" {
			files = append(files, f)
		}
	}
	return patterns, files
}

// Close releases the compiler.
func (g *Generator) Close() {
	if g.compiler != nil {
		g.compiler.Close()
		g.compiler = nil
	}
}

func writeOutput(path, css string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return os.WriteFile(path, []byte(css), 0o644)
}
