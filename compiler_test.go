package windgen

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yacobolo/windgen/internal/cache"
	"github.com/yacobolo/windgen/internal/config"
	"github.com/yacobolo/windgen/internal/css"
	"github.com/yacobolo/windgen/internal/engine"
	"github.com/yacobolo/windgen/internal/logger"
	"github.com/yacobolo/windgen/internal/metrics"
)

const utilitiesOnly = "@tailwind utilities;"

func html(raw string) Content {
	return Content{File: "index.html", Raw: raw, Extension: "html"}
}

func TestCompiler_Build(t *testing.T) {
	c := NewCompiler(nil, WithMinify(true))
	defer c.Close()

	res, err := c.Build(utilitiesOnly, html(`<div class="p-4 m-2"></div>`))
	require.NoError(t, err)
	assert.Equal(t, ".m-2{margin:0.5rem}.p-4{padding:1rem}", res.CSS)
	assert.Equal(t, 2, res.Rules)
	assert.Empty(t, res.Warnings)
	assert.False(t, res.CacheHit)
	assert.Positive(t, res.Duration)
}

func TestCompiler_Content(t *testing.T) {
	tests := []struct {
		name    string
		content Content
		want    string
	}{
		{"templ", Content{File: "a.templ", Raw: `<p class={ "underline" }>`, Extension: "templ"}, ".underline{text-decoration-line:underline}"},
		{"go source", Content{Raw: `cls := "hidden md:block"`, Extension: "go"}, `@media (min-width: 768px){.md\:block{display:block}}`},
		{"entity in html attribute", html(`<div class="content-['a&amp;b']">`), `content:'a&b'`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewCompiler(nil, WithMinify(true))
			defer c.Close()
			res, err := c.Build(utilitiesOnly, tt.content)
			require.NoError(t, err)
			assert.Contains(t, res.CSS, tt.want)
		})
	}
}

func TestCompiler_InlineStyles(t *testing.T) {
	c := NewCompiler(nil, WithMinify(true))
	defer c.Close()

	res, err := c.Build("@tailwind components;\n@tailwind utilities;", html(`
<style type="text/tailwindcss">
  @layer components { .card { @apply rounded-lg; } }
</style>
<div class="card"></div>`))
	require.NoError(t, err)
	assert.Contains(t, res.CSS, ".card{border-radius:0.5rem}")
}

func TestCompiler_Incremental(t *testing.T) {
	c := NewCompiler(nil, WithMinify(true))
	defer c.Close()

	first, err := c.Build(utilitiesOnly, html(`<div class="p-4">`))
	require.NoError(t, err)
	assert.False(t, first.CacheHit)

	second, err := c.Build(utilitiesOnly, html(`<div class="m-2">`))
	require.NoError(t, err)
	assert.True(t, second.CacheHit)
	assert.Equal(t, ".m-2{margin:0.5rem}.p-4{padding:1rem}", second.CSS, "earlier candidates are kept")

	third, err := c.Build(utilitiesOnly+"\n@layer utilities { .x { color: red; } }", html(`<div class="x">`))
	require.NoError(t, err)
	assert.False(t, third.CacheHit, "changed @layer rules need a new context")
	assert.Equal(t, ".x{color:red}", third.CSS)
}

func TestCompiler_NotClassInvalidation(t *testing.T) {
	c := NewCompiler(nil, WithMinify(true))
	defer c.Close()

	res, err := c.Build(utilitiesOnly, html(`<div class="card">`))
	require.NoError(t, err)
	assert.Empty(t, res.CSS)

	res, err = c.Build(utilitiesOnly+"\n@layer utilities { .card { padding: 2rem; } }", html(`<div class="card">`))
	require.NoError(t, err)
	assert.False(t, res.CacheHit)
	assert.Equal(t, ".card{padding:2rem}", res.CSS)
}

func TestCompiler_SharedCache(t *testing.T) {
	cc := cache.New()
	a := NewCompiler(nil, WithCache(cc), WithInputPath("a.css"))
	b := NewCompiler(nil, WithCache(cc), WithInputPath("b.css"))

	res, err := a.Build(utilitiesOnly)
	require.NoError(t, err)
	assert.False(t, res.CacheHit)

	res, err = b.Build(utilitiesOnly)
	require.NoError(t, err)
	assert.True(t, res.CacheHit)

	a.Close()
	assert.Equal(t, 1, cc.Stats().Entries)
	b.Close()
	assert.Zero(t, cc.Stats().Entries)
}

func TestCompiler_Prefixer(t *testing.T) {
	c := NewCompiler(nil, WithMinify(true), WithPrefixer(true))
	defer c.Close()
	res, err := c.Build(utilitiesOnly, html(`<div class="select-none sticky">`))
	require.NoError(t, err)
	assert.Contains(t, res.CSS, "-webkit-user-select:none;user-select:none")
	assert.Contains(t, res.CSS, "position:sticky")
	assert.NotContains(t, res.CSS, "-webkit-sticky")

	old := NewCompiler(nil, WithMinify(true), WithPrefixer(true), WithTargets("safari12"))
	defer old.Close()
	res, err = old.Build(utilitiesOnly, html(`<div class="sticky">`))
	require.NoError(t, err)
	assert.Contains(t, res.CSS, "position:-webkit-sticky")

	bad := NewCompiler(nil, WithPrefixer(true), WithTargets("netscape4"))
	defer bad.Close()
	_, err = bad.Build(utilitiesOnly)
	assert.ErrorContains(t, err, "invalid target")
}

func TestCompiler_ExtractionMemo(t *testing.T) {
	c := NewCompiler(nil, WithMinify(true))
	defer c.Close()

	for i := range 20 {
		_, err := c.Build(utilitiesOnly, html(fmt.Sprintf(`<div class="p-%d">`, i%12)))
		require.NoError(t, err)
	}
	assert.Len(t, c.extracted, 1, "edits to one file replace its entry")

	_, err := c.Build(utilitiesOnly,
		Content{File: "a.html", Raw: `<b class="m-1">`, Extension: "html"},
		Content{Raw: `"m-2"`, Extension: "go"},
	)
	require.NoError(t, err)
	assert.Len(t, c.extracted, 2, "content missing from a build is forgotten")
	assert.NotContains(t, c.extracted, "index.html")
}

func TestCompiler_Pretty(t *testing.T) {
	c := NewCompiler(nil)
	defer c.Close()
	res, err := c.Build(utilitiesOnly, html(`<div class="p-4">`))
	require.NoError(t, err)
	assert.Contains(t, res.CSS, "padding: 1rem;")
}

func TestCompiler_Errors(t *testing.T) {
	c := NewCompiler(nil, WithInputPath("app.css"))
	defer c.Close()

	_, err := c.Build(".a { color: red;")
	var syn *css.SyntaxError
	require.ErrorAs(t, err, &syn)
	assert.Equal(t, "app.css", syn.File)

	_, err = c.Build(".a { @apply nope; }")
	var de *engine.DirectiveError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, "@apply", de.Directive)
}

func TestCompiler_LoggerAndMetrics(t *testing.T) {
	var buf bytes.Buffer
	log, err := logger.New(logger.Options{Level: "warn", Writer: &buf})
	require.NoError(t, err)
	m := metrics.New()

	c := NewCompiler(nil, WithLogger(log), WithMetrics(m))
	defer c.Close()
	res, err := c.Build(utilitiesOnly)
	require.NoError(t, err)
	require.NotEmpty(t, res.Warnings)
	assert.Contains(t, buf.String(), "No utility classes were detected")

	families, err := m.Registry().Gather()
	require.NoError(t, err)
	names := map[string]bool{}
	for _, f := range families {
		names[f.GetName()] = true
	}
	assert.True(t, names["windgen_build_total"])
	assert.True(t, names["windgen_cache_lookups_total"])
}

func TestCompiler_Plugins(t *testing.T) {
	plugin := engine.PluginFunc(func(api *engine.API) {
		api.AddUtilities(engine.Rules{engine.R(".content-auto", engine.Decl("content-visibility", "auto"))})
	})
	c := NewCompiler(nil, WithPlugins(plugin), WithMinify(true))
	defer c.Close()
	res, err := c.Build(utilitiesOnly, html(`<div class="content-auto">`))
	require.NoError(t, err)
	assert.Equal(t, ".content-auto{content-visibility:auto}", res.CSS)
}

func TestCompiler_RawContent(t *testing.T) {
	cfg := config.Default()
	cfg.RawContent = []config.RawContent{{Raw: `<b class="font-bold">`, Extension: "html"}}
	c := NewCompiler(cfg, WithMinify(true))
	defer c.Close()
	res, err := c.Build(utilitiesOnly)
	require.NoError(t, err)
	assert.Equal(t, ".font-bold{font-weight:700}", res.CSS)
}

func TestCompiler_ConfigDirective(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "brand.yaml"), []byte(`
content:
  - "*.html"
theme:
  extend:
    colors:
      brand: "#123456"
`), 0o644))

	c := NewCompiler(nil, WithMinify(true), WithInputPath(filepath.Join(dir, "app.css")))
	defer c.Close()

	src := "@config \"./brand.yaml\";\n@tailwind utilities;"
	res, err := c.Build(src, html(`<p class="text-brand">`))
	require.NoError(t, err)
	assert.Contains(t, res.CSS, "rgb(18 52 86")
	assert.NotContains(t, res.CSS, "@config")

	res, err = c.Build(src, html(`<p class="text-brand">`))
	require.NoError(t, err)
	assert.True(t, res.CacheHit)

	_, err = c.Build("@config \"./missing.yaml\";\n@tailwind utilities;")
	assert.ErrorContains(t, err, "@config")
}
