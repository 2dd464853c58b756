package windgen

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

// touch moves the modification time forward so change detection does not
// depend on the file system's timestamp resolution.
func touch(t *testing.T, path string, by time.Duration) {
	t.Helper()
	info, err := os.Stat(path)
	require.NoError(t, err)
	mt := info.ModTime().Add(by)
	require.NoError(t, os.Chtimes(path, mt, mt))
}

type project struct {
	dir, input, output, config, page string
}

func newProject(t *testing.T) project {
	t.Helper()
	dir := t.TempDir()
	p := project{
		dir:    dir,
		input:  filepath.Join(dir, "styles", "app.css"),
		output: filepath.Join(dir, "dist", "app.css"),
		config: filepath.Join(dir, "windgen.config.yaml"),
		page:   filepath.Join(dir, "pages", "index.html"),
	}
	writeFile(t, p.input, utilitiesOnly)
	writeFile(t, p.page, `<div class="p-4"></div>`)
	writeFile(t, p.config, "content:\n  - "+filepath.ToSlash(filepath.Join(dir, "**", "*.html"))+"\n")
	return p
}

func (p project) options() Options {
	return Options{Input: p.input, Output: p.output, Config: p.config, Minify: true}
}

func TestGenerate(t *testing.T) {
	p := newProject(t)
	res, err := Generate(p.options())
	require.NoError(t, err)

	assert.Equal(t, ".p-4{padding:1rem}", res.CSS)
	assert.True(t, res.Written)
	assert.Equal(t, p.config, res.Config)
	assert.Equal(t, 1, res.Stats.FilesScanned)
	assert.Equal(t, 1, res.FilesRead)
	assert.Empty(t, res.Warnings)

	written, err := os.ReadFile(p.output)
	require.NoError(t, err)
	assert.Equal(t, res.CSS, string(written))
}

func TestGenerator_Rebuilds(t *testing.T) {
	p := newProject(t)
	g := NewGenerator(p.options())
	defer g.Close()

	_, err := g.Run()
	require.NoError(t, err)

	res, err := g.Run()
	require.NoError(t, err)
	assert.Zero(t, res.FilesRead, "unchanged files are not read again")
	assert.False(t, res.Written, "identical output is not rewritten")
	assert.True(t, res.CacheHit)

	writeFile(t, p.page, `<div class="p-4 m-2"></div>`)
	touch(t, p.page, 2*time.Second)
	res, err = g.Run()
	require.NoError(t, err)
	assert.Equal(t, 1, res.FilesRead)
	assert.True(t, res.Written)
	assert.Equal(t, ".m-2{margin:0.5rem}.p-4{padding:1rem}", res.CSS)

	writeFile(t, p.config, "content:\n  - "+filepath.ToSlash(filepath.Join(p.dir, "**", "*.html"))+"\nprefix: tw-\n")
	touch(t, p.config, 2*time.Second)
	res, err = g.Run()
	require.NoError(t, err)
	assert.False(t, res.CacheHit, "a changed config gets a new context")
	assert.Empty(t, res.CSS)
}

func TestGenerator_ExcludesOutput(t *testing.T) {
	p := newProject(t)
	opts := p.options()
	opts.Config = ""
	opts.Content = []string{filepath.Join(p.dir, "**", "*")}
	g := NewGenerator(opts)
	defer g.Close()

	_, err := g.Run()
	require.NoError(t, err)
	res, err := g.Run()
	require.NoError(t, err)
	assert.Equal(t, 1, res.Stats.FilesSkipped, "the output file is never scanned")
}

func TestGenerator_WatchedFiles(t *testing.T) {
	p := newProject(t)
	opts := p.options()
	opts.Content = []string{"extra/*.templ"}
	g := NewGenerator(opts)
	defer g.Close()
	_, err := g.Run()
	require.NoError(t, err)

	patterns, files := g.WatchedFiles()
	assert.Equal(t, []string{filepath.ToSlash(filepath.Join(p.dir, "**", "*.html")), "extra/*.templ"}, patterns)
	assert.Equal(t, []string{p.input, p.config}, files)
}

func TestGenerate_DefaultSource(t *testing.T) {
	p := newProject(t)
	res, err := Generate(Options{Content: []string{p.page}, Minify: true})
	require.NoError(t, err)
	assert.Contains(t, res.CSS, "box-sizing:border-box")
	assert.Contains(t, res.CSS, ".p-4{padding:1rem}")
	assert.False(t, res.Written)
}

func TestGenerate_Failure(t *testing.T) {
	p := newProject(t)
	writeFile(t, p.input, "@tailwind utilities;\n.btn {\n  @apply nope;\n}\n")

	res, err := Generate(p.options())
	require.Error(t, err)
	require.NotNil(t, res)
	assert.Equal(t, err, res.Err)
	_, statErr := os.Stat(p.output)
	assert.True(t, os.IsNotExist(statErr))

	var buf bytes.Buffer
	require.NoError(t, WriteReport(&buf, res, ReportText, false))
	out := buf.String()
	assert.Contains(t, out, p.input+":3:3: @apply: The `nope` class does not exist.")
	assert.Contains(t, out, "\t  @apply nope;\n\t  ^\n")
	assert.Contains(t, out, "Build failed")
}

func TestGenerate_MissingInput(t *testing.T) {
	res, err := Generate(Options{Input: filepath.Join(t.TempDir(), "nope.css")})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading input")
	assert.True(t, strings.HasSuffix(res.Input, "nope.css"))
}
