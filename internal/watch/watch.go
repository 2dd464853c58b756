// Package watch drives rebuilds from file system changes.
package watch

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/fsnotify/fsnotify"
)

// Options configures a Watcher.
type Options struct {
	// Debounce is how long the watcher waits for more changes before
	// calling the handler. Default: 50ms.
	Debounce time.Duration
	// Ignore holds glob patterns matched against directory and file base
	// names. Matching directories are not descended into.
	Ignore []string
	// OnError receives watcher errors. They never stop the watcher.
	OnError func(error)
}

// DefaultIgnore is used when Options.Ignore is nil.
var DefaultIgnore = []string{".git", "node_modules", ".idea", "*.swp", "*~", ".#*"}

// Handler receives the sorted, distinct paths changed within one debounce
// window.
type Handler func(paths []string)

// Watcher watches directory trees and reports changed paths accepted by
// its match function, batched by a debounce window.
type Watcher struct {
	dirs     []string
	match    func(string) bool
	handler  Handler
	debounce time.Duration
	ignore   []string
	onError  func(error)

	fsw      *fsnotify.Watcher
	changes  chan string
	done     chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

// New creates a watcher for dirs. match may be nil to accept everything.
func New(dirs []string, match func(string) bool, handler Handler, opts Options) (*Watcher, error) {
	if opts.Debounce <= 0 {
		opts.Debounce = 50 * time.Millisecond
	}
	if opts.Ignore == nil {
		opts.Ignore = DefaultIgnore
	}
	if match == nil {
		match = func(string) bool { return true }
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	return &Watcher{
		dirs:     dirs,
		match:    match,
		handler:  handler,
		debounce: opts.Debounce,
		ignore:   opts.Ignore,
		onError:  opts.OnError,
		fsw:      fsw,
		changes:  make(chan string, 256),
		done:     make(chan struct{}),
	}, nil
}

// Start adds the directory trees and begins delivering changes. It returns
// once watching is set up.
func (w *Watcher) Start(ctx context.Context) error {
	for _, dir := range w.dirs {
		if err := w.addRecursive(dir); err != nil {
			return err
		}
	}
	w.wg.Add(2)
	go w.processEvents(ctx)
	go w.debounceLoop(ctx)
	return nil
}

// Stop ends watching and waits for the handler to return.
func (w *Watcher) Stop() {
	w.stopOnce.Do(func() {
		close(w.done)
		_ = w.fsw.Close()
	})
	w.wg.Wait()
}

func (w *Watcher) addRecursive(root string) error {
	if _, err := os.Stat(root); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil || !d.IsDir() {
			return nil
		}
		if path != root && w.ignored(path) {
			return filepath.SkipDir
		}
		return w.fsw.Add(path)
	})
}

func (w *Watcher) ignored(path string) bool {
	base := filepath.Base(path)
	for _, pattern := range w.ignore {
		if ok, _ := doublestar.Match(pattern, base); ok {
			return true
		}
	}
	return false
}

func (w *Watcher) processEvents(ctx context.Context) {
	defer w.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.done:
			return
		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if event.Has(fsnotify.Chmod) && !event.Has(fsnotify.Write) {
				continue
			}
			if event.Has(fsnotify.Create) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					if !w.ignored(event.Name) {
						_ = w.addRecursive(event.Name)
					}
					continue
				}
			}
			if w.ignored(event.Name) || !w.match(event.Name) {
				continue
			}
			select {
			case w.changes <- event.Name:
			default:
				// The pending batch already forces a rebuild.
			}
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			if w.onError != nil {
				w.onError(err)
			}
		}
	}
}

func (w *Watcher) debounceLoop(ctx context.Context) {
	defer w.wg.Done()
	batch := map[string]bool{}
	var timer *time.Timer
	var timerC <-chan time.Time

	flush := func() {
		if len(batch) > 0 && w.handler != nil {
			paths := make([]string, 0, len(batch))
			for p := range batch {
				paths = append(paths, p)
			}
			sort.Strings(paths)
			w.handler(paths)
		}
		batch = map[string]bool{}
		if timer != nil {
			timer.Stop()
			timer, timerC = nil, nil
		}
	}

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.done:
			return
		case p := <-w.changes:
			batch[p] = true
			if timer == nil {
				timer = time.NewTimer(w.debounce)
				timerC = timer.C
			} else {
				timer.Reset(w.debounce)
			}
		case <-timerC:
			flush()
		}
	}
}

// Dirs returns the base directories of glob patterns, without duplicates
// or directories nested in another one of the list.
func Dirs(patterns []string) []string {
	var dirs []string
	for _, p := range patterns {
		base, _ := doublestar.SplitPattern(filepath.ToSlash(p))
		dirs = append(dirs, filepath.Clean(filepath.FromSlash(base)))
	}
	sort.Strings(dirs)

	var out []string
	for _, d := range dirs {
		if len(out) > 0 && contains(out[len(out)-1], d) {
			continue
		}
		out = append(out, d)
	}
	return out
}

func contains(parent, child string) bool {
	if parent == child || parent == "." && !filepath.IsAbs(child) && !strings.HasPrefix(child, "..") {
		return true
	}
	return strings.HasPrefix(child, parent+string(filepath.Separator))
}

// Matcher returns a match function accepting paths matched by one of the
// glob patterns or equal to one of files.
func Matcher(patterns []string, files ...string) func(string) bool {
	exact := map[string]bool{}
	for _, f := range files {
		if f != "" {
			exact[filepath.Clean(f)] = true
		}
	}
	cleaned := make([]string, len(patterns))
	for i, p := range patterns {
		cleaned[i] = filepath.ToSlash(filepath.Clean(p))
	}
	return func(path string) bool {
		path = filepath.Clean(path)
		if exact[path] {
			return true
		}
		slashed := filepath.ToSlash(path)
		for _, p := range cleaned {
			if ok, _ := doublestar.Match(p, slashed); ok {
				return true
			}
		}
		return false
	}
}
