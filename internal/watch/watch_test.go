package watch

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDirs(t *testing.T) {
	tests := []struct {
		name     string
		patterns []string
		want     []string
	}{
		{"glob base", []string{"src/**/*.html"}, []string{"src"}},
		{"plain file", []string{"index.html"}, []string{"."}},
		{"nested dirs collapse", []string{"src/**/*.templ", "src/components/*.go"}, []string{"src"}},
		{"siblings stay", []string{"src/*.html", "src2/*.html"}, []string{"src", "src2"}},
		{"dot swallows relatives", []string{"*.html", "web/**/*.js"}, []string{"."}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			want := make([]string, len(tt.want))
			for i, w := range tt.want {
				want[i] = filepath.FromSlash(w)
			}
			assert.Equal(t, want, Dirs(tt.patterns))
		})
	}
}

func TestMatcher(t *testing.T) {
	match := Matcher([]string{"src/**/*.html", "./pages/*.templ"}, "styles/app.css", "")
	tests := []struct {
		path string
		want bool
	}{
		{"src/index.html", true},
		{"src/a/b/c.html", true},
		{"./src/x.html", true},
		{"src/x.js", false},
		{"pages/home.templ", true},
		{"pages/deep/home.templ", false},
		{"styles/app.css", true},
		{"styles/other.css", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, match(filepath.FromSlash(tt.path)), tt.path)
	}
}

func TestWatcher_DebouncedChanges(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "node_modules"), 0o755))

	batches := make(chan []string, 10)
	w, err := New([]string{dir},
		func(p string) bool { return strings.HasSuffix(p, ".html") },
		func(paths []string) { batches <- paths },
		Options{Debounce: 30 * time.Millisecond})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, w.Start(ctx))
	defer w.Stop()

	page := filepath.Join(dir, "index.html")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "node_modules", "x.html"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(page, []byte(`<div class="p-4">`), 0o644))
	require.NoError(t, os.WriteFile(page, []byte(`<div class="p-8">`), 0o644))

	select {
	case paths := <-batches:
		assert.Equal(t, []string{page}, paths)
	case <-time.After(5 * time.Second):
		t.Fatal("no change reported")
	}
}

func TestWatcher_NewDirectories(t *testing.T) {
	dir := t.TempDir()
	batches := make(chan []string, 10)
	w, err := New([]string{dir}, nil, func(paths []string) { batches <- paths }, Options{Debounce: 20 * time.Millisecond})
	require.NoError(t, err)
	require.NoError(t, w.Start(context.Background()))
	defer w.Stop()

	sub := filepath.Join(dir, "pages")
	require.NoError(t, os.Mkdir(sub, 0o755))
	file := filepath.Join(sub, "a.html")

	deadline := time.After(5 * time.Second)
	// The new directory is added asynchronously, so keep writing until the
	// file inside it is reported.
	for {
		require.NoError(t, os.WriteFile(file, []byte("x"), 0o644))
		select {
		case paths := <-batches:
			if assert.NotEmpty(t, paths) && paths[len(paths)-1] == file {
				return
			}
		case <-time.After(100 * time.Millisecond):
		case <-deadline:
			t.Fatal("file in new directory never reported")
		}
	}
}

func TestWatcher_MissingDir(t *testing.T) {
	w, err := New([]string{filepath.Join(t.TempDir(), "missing")}, nil, nil, Options{})
	require.NoError(t, err)
	require.NoError(t, w.Start(context.Background()))
	w.Stop()
	w.Stop()
}
