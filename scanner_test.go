package windgen

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsTemplGenerated(t *testing.T) {
	tests := []struct {
		name     string
		path     string
		expected bool
	}{
		{
			name:     "standard templ generated (_templ.go)",
			path:     "internal/web/features/sidebar_templ.go",
			expected: true,
		},
		{
			name:     "alternate templ generated (.templ.go)",
			path:     "internal/web/features/sidebar.templ.go",
			expected: true,
		},
		{
			name:     "regular go file",
			path:     "internal/api/handlers.go",
			expected: false,
		},
		{
			name:     "templ source file",
			path:     "internal/web/features/sidebar.templ",
			expected: false,
		},
		{
			name:     "file with templ in name but not generated",
			path:     "internal/templates/handler.go",
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := isTemplGenerated(tt.path)
			require.Equal(t, tt.expected, got, "isTemplGenerated(%q)", tt.path)
		})
	}
}

func TestShouldSkipFile(t *testing.T) {
	tests := []struct {
		name     string
		path     string
		expected bool
	}{
		{
			name:     "skip templ generated",
			path:     "internal/web/sidebar_templ.go",
			expected: true,
		},
		{
			name:     "scan templ source",
			path:     "internal/web/sidebar.templ",
			expected: false,
		},
		{
			name:     "absolute paths ignore the project gitignore",
			path:     "/tmp/web/index.html",
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := shouldSkipFile(tt.path)
			require.Equal(t, tt.expected, got, "shouldSkipFile(%q)", tt.path)
		})
	}
}

func TestSplitPatterns(t *testing.T) {
	include, exclude := splitPatterns([]string{"src/**/*.html", " !src/vendor/** ", "", "*.templ"})
	assert.Equal(t, []string{"src/**/*.html", "*.templ"}, include)
	assert.Equal(t, []string{"src/vendor/**"}, exclude)
}

func TestScanContent(t *testing.T) {
	dir := t.TempDir()
	for _, f := range []string{
		"web/index.html",
		"web/partials/nav.html",
		"web/vendor/lib.html",
		"views/page.templ",
		"views/page_templ.go",
		"views/handler.go",
	} {
		writeFile(t, filepath.Join(dir, f), "<p></p>")
	}
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "web", "empty.html"), 0o755))

	files, stats, err := ScanContent([]string{
		filepath.Join(dir, "web", "**", "*.html"),
		filepath.Join(dir, "views", "*"),
		filepath.Join(dir, "web", "index.html"),
		"!" + filepath.Join(dir, "web", "vendor", "**"),
	})
	require.NoError(t, err)

	rel := make([]string, len(files))
	for i, f := range files {
		r, err := filepath.Rel(dir, f)
		require.NoError(t, err)
		rel[i] = filepath.ToSlash(r)
	}
	assert.ElementsMatch(t, []string{"web/index.html", "web/partials/nav.html", "views/page.templ", "views/handler.go"}, rel)
	assert.Equal(t, ScanStats{FilesDiscovered: 6, FilesScanned: 4, FilesSkipped: 2}, stats)
}

func TestScanContent_BadPattern(t *testing.T) {
	_, _, err := ScanContent([]string{"src/[.html"})
	assert.ErrorContains(t, err, "glob pattern")
}

func TestContentTracker(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.html")
	b := filepath.Join(dir, "b.templ")
	writeFile(t, a, "p-4")
	writeFile(t, b, "m-2")

	tr := newContentTracker()
	content, read, err := tr.load([]string{a, b})
	require.NoError(t, err)
	assert.Equal(t, 2, read)
	require.Len(t, content, 2)
	assert.Equal(t, Content{File: a, Raw: "p-4", Extension: "html"}, content[0])
	assert.Equal(t, "templ", content[1].Extension)

	_, read, err = tr.load([]string{a, b})
	require.NoError(t, err)
	assert.Zero(t, read)

	writeFile(t, a, "p-8")
	touch(t, a, time.Second)
	content, read, err = tr.load([]string{a, b})
	require.NoError(t, err)
	assert.Equal(t, 1, read)
	assert.Equal(t, "p-8", content[0].Raw)

	require.NoError(t, os.Remove(b))
	content, _, err = tr.load([]string{a, b})
	require.NoError(t, err)
	assert.Len(t, content, 1)

	_, _, err = tr.load([]string{a})
	require.NoError(t, err)
	assert.NotContains(t, tr.files, b)
}

func TestGetRelativePath(t *testing.T) {
	cwd, err := os.Getwd()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("internal", "css"), GetRelativePath(filepath.Join(cwd, "internal", "css")))
}
