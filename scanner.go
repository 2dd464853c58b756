package windgen

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	ignore "github.com/sabhiram/go-gitignore"
)

// ScanStats tracks file scanning statistics
type ScanStats struct {
	FilesDiscovered int // Total files found by glob patterns
	FilesScanned    int // Files actually scanned (after filtering)
	FilesSkipped    int // Files skipped due to filtering
}

var (
	// gitignore caching
	gitIgnoreCache *ignore.GitIgnore
	gitIgnoreOnce  sync.Once
)

// isTemplGenerated checks if a file is a templ-generated Go file.
// Its classes are already found in the .templ source.
func isTemplGenerated(path string) bool {
	return strings.HasSuffix(path, "_templ.go") ||
		strings.HasSuffix(path, ".templ.go")
}

// loadGitIgnore loads the .gitignore file once (thread-safe)
// Gracefully degrades if .gitignore doesn't exist
func loadGitIgnore() *ignore.GitIgnore {
	gitIgnoreOnce.Do(func() {
		gi, err := ignore.CompileIgnoreFile(".gitignore")
		if err != nil {
			gitIgnoreCache = nil
			return
		}
		gitIgnoreCache = gi
	})
	return gitIgnoreCache
}

// shouldSkipFile determines if a file should be excluded from scanning
//
// Two-layer filtering:
// 1. Pattern check (fast): Skip *_templ.go files
// 2. Gitignore check: Skip gitignored files (only for relative paths)
func shouldSkipFile(path string) bool {
	if isTemplGenerated(path) {
		return true
	}

	// Absolute paths (like /tmp/...) should not be affected by project gitignore
	if !filepath.IsAbs(path) {
		gi := loadGitIgnore()
		if gi != nil && gi.MatchesPath(path) {
			return true
		}
	}

	return false
}

// splitPatterns separates include globs from `!` prefixed exclusions.
func splitPatterns(patterns []string) (include, exclude []string) {
	for _, p := range patterns {
		p = strings.TrimSpace(p)
		switch {
		case p == "":
		case strings.HasPrefix(p, "!"):
			exclude = append(exclude, filepath.ToSlash(filepath.Clean(p[1:])))
		default:
			include = append(include, p)
		}
	}
	return include, exclude
}

func excluded(path string, exclude []string) bool {
	slashed := filepath.ToSlash(filepath.Clean(path))
	for _, p := range exclude {
		if ok, _ := doublestar.Match(p, slashed); ok {
			return true
		}
	}
	return false
}

// ScanContent expands content glob patterns to the files to scan. Patterns
// starting with `!` exclude what they match. Generated templ files and
// gitignored files are skipped and counted in the stats.
func ScanContent(patterns []string) ([]string, ScanStats, error) {
	var allFiles []string
	seen := make(map[string]bool)
	stats := ScanStats{}
	include, exclude := splitPatterns(patterns)

	for _, pattern := range include {
		matches, err := doublestar.FilepathGlob(pattern)
		if err != nil {
			return nil, stats, fmt.Errorf("glob pattern %q: %w", pattern, err)
		}

		for _, match := range matches {
			if seen[match] {
				continue
			}
			seen[match] = true
			info, err := os.Stat(match)
			if err != nil || info.IsDir() {
				continue
			}
			stats.FilesDiscovered++

			if shouldSkipFile(match) || excluded(match, exclude) {
				stats.FilesSkipped++
				continue
			}
			allFiles = append(allFiles, match)
			stats.FilesScanned++
		}
	}

	return allFiles, stats, nil
}

// contentTracker remembers content files between builds so that only new
// or modified files are read again.
type contentTracker struct {
	files map[string]trackedFile
}

type trackedFile struct {
	modTime time.Time
	size    int64
	content Content
}

func newContentTracker() *contentTracker {
	return &contentTracker{files: map[string]trackedFile{}}
}

// load returns the content of files, reading those whose modification time
// or size changed, and the number of files read. Files that disappeared
// are forgotten.
func (t *contentTracker) load(files []string) ([]Content, int, error) {
	out := make([]Content, 0, len(files))
	read := 0
	present := make(map[string]bool, len(files))
	for _, f := range files {
		present[f] = true
		info, err := os.Stat(f)
		if err != nil {
			// Deleted between the glob and now.
			continue
		}
		if tf, ok := t.files[f]; ok && tf.modTime.Equal(info.ModTime()) && tf.size == info.Size() {
			out = append(out, tf.content)
			continue
		}
		data, err := os.ReadFile(f)
		if err != nil {
			return nil, read, fmt.Errorf("reading content file %s: %w", f, err)
		}
		read++
		c := Content{File: f, Raw: string(data), Extension: strings.TrimPrefix(filepath.Ext(f), ".")}
		t.files[f] = trackedFile{modTime: info.ModTime(), size: info.Size(), content: c}
		out = append(out, c)
	}
	for f := range t.files {
		if !present[f] {
			delete(t.files, f)
		}
	}
	return out, read, nil
}

// GetRelativePath returns a relative path from the current working directory
func GetRelativePath(absPath string) string {
	cwd, err := os.Getwd()
	if err != nil {
		return absPath
	}

	rel, err := filepath.Rel(cwd, absPath)
	if err != nil {
		return absPath
	}

	return rel
}
