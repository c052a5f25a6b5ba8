// Package watch reloads a graph file whenever it changes on disk.
package watch

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/msalah0e/kgview/internal/graph"
)

// DefaultDelay collapses the burst of events an editor save produces.
const DefaultDelay = 300 * time.Millisecond

// Handler receives each successfully decoded version of the file.
type Handler func(ctx context.Context, g *graph.Graph) error

// File watches one graph file.
type File struct {
	path    string
	delay   time.Duration
	handler Handler
	logger  *zap.Logger
	last    uint64
}

// New creates a watcher for path. A zero delay means DefaultDelay.
func New(path string, delay time.Duration, handler Handler, logger *zap.Logger) *File {
	if delay <= 0 {
		delay = DefaultDelay
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &File{path: path, delay: delay, handler: handler, logger: logger}
}

// Run loads the file once, then reloads it after each change until ctx is
// done. The parent directory is watched so that editors replacing the file
// by rename are seen. Decode and handler failures are logged and watching
// continues; only setup failures are returned.
func (f *File) Run(ctx context.Context) error {
	abs, err := filepath.Abs(f.path)
	if err != nil {
		return fmt.Errorf("resolve %s: %w", f.path, err)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer fsw.Close()

	if err := fsw.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("watch %s: %w", filepath.Dir(abs), err)
	}
	f.logger.Info("watching graph file", zap.String("path", abs))

	f.reload(ctx)

	var debounce <-chan time.Time
	var timer *time.Timer
	for {
		select {
		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != abs {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			f.logger.Debug("graph file changed",
				zap.String("file", event.Name),
				zap.String("operation", event.Op.String()))
			if timer != nil {
				timer.Stop()
			}
			timer = time.NewTimer(f.delay)
			debounce = timer.C

		case <-debounce:
			debounce = nil
			f.reload(ctx)

		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			f.logger.Error("file watcher error", zap.Error(err))

		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			f.logger.Info("stopping graph watcher")
			return nil
		}
	}
}

// reload decodes the file and hands it on unless its bytes are unchanged
// since the last successful load.
func (f *File) reload(ctx context.Context) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		f.logger.Error("read graph file", zap.String("path", f.path), zap.Error(err))
		return
	}
	sum := xxhash.Sum64(data)
	if f.last != 0 && sum == f.last {
		f.logger.Debug("graph file unchanged")
		return
	}

	format, err := graph.FormatFor(f.path)
	if err != nil {
		f.logger.Error("graph format", zap.Error(err))
		return
	}
	g, err := graph.Decode(bytes.NewReader(data), format)
	if err != nil {
		f.logger.Error("invalid graph after change", zap.String("path", f.path), zap.Error(err))
		return
	}
	if err := f.handler(ctx, g); err != nil {
		f.logger.Error("graph handler failed", zap.Error(err))
		return
	}
	f.last = sum
	f.logger.Info("graph reloaded",
		zap.Int("nodes", len(g.Nodes)),
		zap.Int("edges", len(g.Edges)))
}
