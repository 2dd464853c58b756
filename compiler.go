package windgen

import (
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/yacobolo/windgen/internal/cache"
	"github.com/yacobolo/windgen/internal/config"
	"github.com/yacobolo/windgen/internal/css"
	"github.com/yacobolo/windgen/internal/dom"
	"github.com/yacobolo/windgen/internal/engine"
	"github.com/yacobolo/windgen/internal/extract"
	"github.com/yacobolo/windgen/internal/logger"
	"github.com/yacobolo/windgen/internal/metrics"
	"github.com/yacobolo/windgen/internal/prefixer"
)

// DefaultSource is compiled when no input stylesheet is given.
const DefaultSource = "@tailwind base;\n@tailwind components;\n@tailwind utilities;\n"

// Content is one piece of scanned content. Extension selects how it is
// read; HTML content also contributes its inline stylesheets.
type Content struct {
	File      string
	Raw       string
	Extension string
}

// Result is the outcome of one build.
type Result struct {
	CSS string
	// Candidates is the number of distinct candidates the context knows,
	// Rules the number of generated rules in the output.
	Candidates int
	Rules      int
	Warnings   []string
	CacheHit   bool
	Duration   time.Duration
}

// Option configures a Compiler.
type Option func(*Compiler)

// WithPlugins registers plugins after the core plugins.
func WithPlugins(plugins ...engine.Plugin) Option {
	return func(c *Compiler) { c.plugins = append(c.plugins, plugins...) }
}

// WithLogger forwards warnings and progress to l.
func WithLogger(l *logger.Logger) Option {
	return func(c *Compiler) { c.log = l }
}

// WithMetrics records builds in m.
func WithMetrics(m *metrics.Metrics) Option {
	return func(c *Compiler) { c.metrics = m }
}

// WithCache shares engine contexts through cc with other compilers.
func WithCache(cc *cache.Cache) Option {
	return func(c *Compiler) { c.cache = cc }
}

// WithMinify prints the stylesheet without whitespace.
func WithMinify(minify bool) Option {
	return func(c *Compiler) { c.minify = minify }
}

// WithPrefixer adds vendor prefixed fallbacks to the output.
func WithPrefixer(enabled bool) Option {
	return func(c *Compiler) { c.prefix = enabled }
}

// WithTargets sets the browsers the prefixer targets, like "chrome120" or
// "safari16.4". Empty means prefixer.DefaultTargets.
func WithTargets(targets ...string) Option {
	return func(c *Compiler) { c.targets = targets }
}

// WithInputPath names the stylesheet being compiled. It is used in error
// positions, to resolve @config paths and as the owner key in a shared
// cache.
func WithInputPath(path string) Option {
	return func(c *Compiler) { c.input = path }
}

// Compiler turns a stylesheet plus content into CSS. Builds are
// incremental: the engine context survives between builds as long as the
// configuration and the stylesheet's @layer rules stay the same, so only
// new candidates are matched. A Compiler runs one build at a time.
type Compiler struct {
	mu sync.Mutex

	cfg     *config.Config
	plugins []engine.Plugin
	log     *logger.Logger
	metrics *metrics.Metrics
	cache   *cache.Cache
	minify  bool
	prefix  bool
	targets []string
	input   string

	prefixer *prefixer.Prefixer

	// Without a shared cache the compiler keeps its own context.
	ctx    *engine.Context
	ctxKey uint64

	// @config files referenced from the stylesheet, by path.
	directiveConfigs map[string]loadedConfig
	// Extraction results per content file, valid while the hash matches.
	extracted map[string]extraction
}

type extraction struct {
	hash       uint64
	candidates []string
}

type loadedConfig struct {
	modTime  time.Time
	cfg      *config.Config
	warnings []string
}

// NewCompiler returns a compiler for cfg. A nil cfg means the defaults.
func NewCompiler(cfg *config.Config, opts ...Option) *Compiler {
	if cfg == nil {
		cfg = config.Default()
	}
	c := &Compiler{
		cfg:              cfg,
		directiveConfigs: map[string]loadedConfig{},
		extracted:        map[string]extraction{},
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.input == "" {
		c.input = "<input>"
	}
	return c
}

// Build compiles source against content and the compiler's raw content.
// Directive and syntax errors fail the build; everything else is reported
// as a warning.
func (c *Compiler) Build(source string, content ...Content) (*Result, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	start := time.Now()
	res, err := c.build(source, content)
	d := time.Since(start)
	if err != nil {
		c.metrics.ObserveBuild(d, 0, 0, 0, err)
		c.log.Error(err, "build failed")
		return nil, err
	}
	res.Duration = d
	c.metrics.ObserveBuild(d, res.Candidates, res.Rules, len(res.Warnings), nil)
	c.metrics.ObserveCache(res.CacheHit)
	for _, w := range res.Warnings {
		c.log.Warn(w)
	}
	c.log.WithFields(map[string]any{
		"input":      c.input,
		"candidates": res.Candidates,
		"rules":      res.Rules,
		"cache_hit":  res.CacheHit,
		"duration":   d.String(),
	}).Debug("build finished")
	return res, nil
}

func (c *Compiler) build(source string, content []Content) (*Result, error) {
	var styles []string
	var candidates []string
	seen := map[string]bool{}
	defer c.prune(seen)
	for _, item := range content {
		cands, inline := c.scan(item, seen)
		candidates = append(candidates, cands...)
		styles = append(styles, inline...)
	}
	if len(styles) > 0 {
		source = strings.Join(append([]string{source}, styles...), "\n")
	}

	fileName := c.input
	if fileName == "<input>" {
		fileName = ""
	}
	root, err := css.Parse(source, fileName)
	if err != nil {
		return nil, err
	}

	cfg, warnings, err := c.resolveConfig(root)
	if err != nil {
		return nil, err
	}
	for _, raw := range cfg.RawContent {
		cands, _ := c.scan(Content{Raw: raw.Raw, Extension: raw.Extension}, seen)
		candidates = append(candidates, cands...)
	}

	layers, err := engine.CollectLayers(root)
	if err != nil {
		return nil, err
	}

	ctx, hit, release, err := c.context(cfg, layers)
	if err != nil {
		return nil, err
	}
	defer release()

	built, err := ctx.Build(root, candidates)
	if err != nil {
		return nil, err
	}
	if c.prefix {
		if c.prefixer == nil {
			p, err := prefixer.New(c.targets)
			if err != nil {
				return nil, err
			}
			c.prefixer = p
		}
		stats, err := c.prefixer.Process(root)
		if err != nil {
			return nil, err
		}
		c.log.WithFields(map[string]any{
			"declarations": stats.Declarations,
			"rules":        stats.Rules,
		}).Debug("prefixed")
	}

	return &Result{
		CSS:        css.Stringify(root, c.minify),
		Candidates: built.Candidates,
		Rules:      built.Rules,
		Warnings:   append(warnings, built.Warnings...),
		CacheHit:   hit,
	}, nil
}

// scan extracts the candidates of one content item, memoised per file
// while its hash is unchanged, and returns the inline stylesheets of HTML
// content. Items without a file name are keyed by their hash.
func (c *Compiler) scan(item Content, seen map[string]bool) ([]string, []string) {
	html := dom.IsHTML(item.Extension)
	var styles []string
	hash := xxhash.Sum64String(item.Extension + "\x00" + item.Raw)
	key := item.File
	if key == "" {
		key = fmt.Sprintf("#%x", hash)
	}
	seen[key] = true
	prev, ok := c.extracted[key]
	ok = ok && prev.hash == hash
	cands := prev.candidates
	if ok && !html {
		return cands, nil
	}
	if !ok {
		cands = nil
	}

	if html {
		doc, err := dom.ScanString(item.Raw)
		if err != nil {
			c.log.Debug(fmt.Sprintf("html scan of %s failed: %v", item.File, err))
		} else {
			styles = doc.Styles
			if !ok {
				cands = append(cands, doc.Classes...)
			}
		}
	}
	if !ok {
		cands = append(cands, extract.Extract(item.Raw)...)
		c.extracted[key] = extraction{hash: hash, candidates: cands}
	}
	return cands, styles
}

// prune forgets extraction results for content not seen in the last build.
func (c *Compiler) prune(seen map[string]bool) {
	for key := range c.extracted {
		if !seen[key] {
			delete(c.extracted, key)
		}
	}
}

// resolveConfig returns the compiler's config, or the one an @config
// directive in root points at.
func (c *Compiler) resolveConfig(root *css.Node) (*config.Config, []string, error) {
	path, err := engine.ConfigDirective(root, c.input)
	if err != nil {
		return nil, nil, err
	}
	if path == "" {
		return c.cfg, nil, nil
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, nil, fmt.Errorf("@config: %w", err)
	}
	if lc, ok := c.directiveConfigs[path]; ok && lc.modTime.Equal(info.ModTime()) {
		return lc.cfg, lc.warnings, nil
	}
	cfg, verrs, err := config.Load(path)
	if err != nil {
		return nil, nil, err
	}
	lc := loadedConfig{modTime: info.ModTime(), cfg: cfg}
	for _, v := range verrs {
		lc.warnings = append(lc.warnings, v.Error())
	}
	c.directiveConfigs[path] = lc
	c.log.Debug("loaded " + path)
	return cfg, lc.warnings, nil
}

// context returns the engine context for cfg and layers, building one when
// the pair changed since the last build.
func (c *Compiler) context(cfg *config.Config, layers *engine.Layers) (*engine.Context, bool, func(), error) {
	key := cache.Key(cfg.Hash(), layers.Hash())
	newContext := func() (*engine.Context, error) {
		ctx, err := engine.NewContext(cfg, layers, c.plugins...)
		if err != nil {
			// Registration problems leave a usable context.
			c.log.Warn(err.Error())
		}
		return ctx, nil
	}

	if c.cache != nil {
		lease, err := c.cache.Acquire(c.input, key, newContext)
		if err != nil {
			return nil, false, nil, err
		}
		return lease.Context, lease.Hit, lease.Release, nil
	}

	if c.ctx != nil && c.ctxKey == key {
		return c.ctx, true, func() {}, nil
	}
	ctx, err := newContext()
	if err != nil {
		return nil, false, nil, err
	}
	c.ctx, c.ctxKey = ctx, key
	return ctx, false, func() {}, nil
}

// Close releases the compiler's hold on shared contexts.
func (c *Compiler) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.cache != nil {
		c.cache.Forget(c.input)
	}
	c.ctx = nil
}
