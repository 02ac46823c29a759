package partition

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/brizzai/swagger-split/internal/logger"
	"github.com/brizzai/swagger-split/internal/parser"
	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// DefaultDebounce is how long the input must stay quiet before a rerun
const DefaultDebounce = 100 * time.Millisecond

// RunFunc receives the outcome of every run started by Watch
type RunFunc func(plan *Plan, err error)

// Watch runs req once and then again every time the input document is
// written, until ctx is done. A failed run is passed to onRun and does not
// stop watching.
func (s *Service) Watch(ctx context.Context, req Request, debounce time.Duration, onRun RunFunc) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer func() {
		if err := watcher.Close(); err != nil {
			logger.Warn("Failed to close file watcher", zap.Error(err))
		}
	}()

	// Watch the directory so editors that replace the file are still seen
	if err := watcher.Add(req.Dir); err != nil {
		return &parser.NotFoundError{Path: req.Dir, Cause: err}
	}
	input := filepath.Join(req.Dir, parser.SwaggerFileName)

	run := func() {
		plan, err := s.Run(ctx, req)
		onRun(plan, err)
	}
	run()
	logger.Info("Watching for changes", zap.String("file", input))

	var timer *time.Timer
	fire := make(chan struct{}, 1)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("File watcher error", zap.Error(err))

		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != input || !(ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create)) {
				continue
			}
			logger.Debug("Input changed", zap.String("event", ev.Op.String()))
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(debounce, func() {
				select {
				case fire <- struct{}{}:
				default:
				}
			})

		case <-fire:
			run()
		}
	}
}
