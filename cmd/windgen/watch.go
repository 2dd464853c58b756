package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/yacobolo/windgen"
	"github.com/yacobolo/windgen/internal/cache"
	"github.com/yacobolo/windgen/internal/logger"
	"github.com/yacobolo/windgen/internal/metrics"
	"github.com/yacobolo/windgen/internal/watch"
)

var errNoOutput = errors.New("watch needs an output file (--output)")

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Rebuild CSS whenever the input, config or content files change",
	Long: `Build once, then rebuild on every change to the input stylesheet,
the engine config or a content file. Changes arriving during a build
are coalesced into a single follow-up build.`,
	PreRunE: func(cmd *cobra.Command, _ []string) error {
		return loadConfig(cmd)
	},
	RunE: runWatch,
}

func init() {
	f := watchCmd.Flags()
	f.Duration("debounce", 0, "How long to wait for more changes before rebuilding (default 50ms)")
	f.String("metrics-addr", "", "Serve Prometheus metrics on this address, e.g. :9100")
}

func runWatch(cmd *cobra.Command, _ []string) error {
	log, err := newLogger(cmd)
	if err != nil {
		return err
	}
	opts := buildOptions()
	if opts.Output == "" {
		return errNoOutput
	}
	settings := buildWatchSettings()

	m := metrics.New()
	opts.Logger = log
	opts.Metrics = m
	opts.Cache = cache.New()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if settings.MetricsAddr != "" {
		go func() {
			if err := m.Serve(ctx, settings.MetricsAddr); err != nil {
				log.Error(err, "metrics server stopped")
			}
		}()
		log.Info("serving metrics on " + settings.MetricsAddr + "/metrics")
	}

	s := newWatchSession(cmd, opts, log)
	defer s.gen.Close()
	return s.run(ctx, settings.Debounce)
}

// watchSession rebuilds through one generator. The set of watched files
// depends on the engine config, so the watcher is recreated when a build
// changes it.
type watchSession struct {
	cmd       *cobra.Command
	output    string
	gen       *windgen.Generator
	log       *logger.Logger
	coalescer *watch.Coalescer
	restart   chan struct{}

	mu       sync.Mutex
	patterns []string
	files    []string
}

func newWatchSession(cmd *cobra.Command, opts windgen.Options, log *logger.Logger) *watchSession {
	s := &watchSession{
		cmd:     cmd,
		output:  opts.Output,
		gen:     windgen.NewGenerator(opts),
		log:     log,
		restart: make(chan struct{}, 1),
	}
	s.coalescer = watch.NewCoalescer(s.rebuild)
	return s
}

func (s *watchSession) rebuild() {
	res, err := s.gen.Run()
	if err == nil && !res.Written {
		s.log.Debug("output unchanged")
	}
	if werr := writeReport(s.cmd, res, s.output); werr != nil {
		s.log.Error(werr, "writing report")
	}

	patterns, files := s.gen.WatchedFiles()
	s.mu.Lock()
	changed := watchKey(patterns, files) != watchKey(s.patterns, s.files)
	s.patterns, s.files = patterns, files
	s.mu.Unlock()
	if changed {
		select {
		case s.restart <- struct{}{}:
		default:
		}
	}
}

func (s *watchSession) watched() ([]string, []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.patterns, s.files
}

func (s *watchSession) run(ctx context.Context, debounce time.Duration) error {
	s.coalescer.Request()
	select {
	case <-s.restart:
	default:
	}

	for {
		patterns, files := s.watched()
		dirs := watch.Dirs(append(append([]string(nil), patterns...), files...))
		w, err := watch.New(dirs, watch.Matcher(patterns, files...), func(paths []string) {
			s.log.Debug(fmt.Sprintf("%d files changed: %s", len(paths), strings.Join(paths, ", ")))
			s.coalescer.Request()
		}, watch.Options{
			Debounce: debounce,
			OnError:  func(err error) { s.log.Error(err, "watcher error") },
		})
		if err != nil {
			return fmt.Errorf("creating watcher: %w", err)
		}
		if err := w.Start(ctx); err != nil {
			w.Stop()
			return fmt.Errorf("starting watcher: %w", err)
		}
		s.log.Info(fmt.Sprintf("watching %d directories for changes", len(dirs)))

		select {
		case <-ctx.Done():
			w.Stop()
			return nil
		case <-s.restart:
			w.Stop()
		}
	}
}

func watchKey(patterns, files []string) string {
	return strings.Join(patterns, "\x00") + "\x01" + strings.Join(files, "\x00")
}
