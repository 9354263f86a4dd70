package intake

import (
	"context"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"

	"github.com/matzehuels/wordtiles/pkg/errors"
	"github.com/matzehuels/wordtiles/pkg/order"
)

// Watcher defaults.
const (
	DefaultDebounce = 500 * time.Millisecond
	DefaultInterval = time.Minute
)

// Watcher runs a Processor when order files appear and on a fixed interval.
type Watcher struct {
	proc     *Processor
	dir      string
	debounce time.Duration
	interval time.Duration
	logger   *log.Logger
}

// WatcherOption configures a Watcher.
type WatcherOption func(*Watcher)

// WithDebounce sets how long the watcher waits for file events to settle.
func WithDebounce(d time.Duration) WatcherOption { return func(w *Watcher) { w.debounce = d } }

// WithInterval sets the periodic rescan interval. Zero disables it.
func WithInterval(d time.Duration) WatcherOption { return func(w *Watcher) { w.interval = d } }

// WithWatcherLogger sets the logger.
func WithWatcherLogger(l *log.Logger) WatcherOption { return func(w *Watcher) { w.logger = l } }

// NewWatcher returns a watcher for the processor's order directory.
func NewWatcher(proc *Processor, opts ...WatcherOption) *Watcher {
	w := &Watcher{
		proc:     proc,
		dir:      proc.jsonDir,
		debounce: DefaultDebounce,
		interval: DefaultInterval,
	}
	for _, opt := range opts {
		opt(w)
	}
	if w.logger == nil {
		w.logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return w
}

// Run scans once, then watches until ctx is cancelled. It returns nil on
// cancellation.
func (w *Watcher) Run(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "create file watcher")
	}
	defer fw.Close()
	if err := fw.Add(w.dir); err != nil {
		return errors.Wrap(errors.ErrCodeFileNotFound, err, "watch %s", w.dir)
	}
	w.logger.Info("watching for orders", "dir", w.dir, "interval", w.interval)

	w.scan(ctx)

	var tickC <-chan time.Time
	if w.interval > 0 {
		ticker := time.NewTicker(w.interval)
		defer ticker.Stop()
		tickC = ticker.C
	}
	var timer *time.Timer
	var timerC <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return nil
		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if !relevant(event) {
				continue
			}
			w.logger.Debug("order file changed", "path", event.Name, "op", event.Op.String())
			if timer == nil {
				timer = time.NewTimer(w.debounce)
				timerC = timer.C
			} else {
				timer.Reset(w.debounce)
			}
		case <-timerC:
			timer, timerC = nil, nil
			w.scan(ctx)
		case <-tickC:
			w.scan(ctx)
		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("file watcher error", "error", err)
		}
	}
}

func (w *Watcher) scan(ctx context.Context) {
	summary, err := w.proc.ProcessPending(ctx)
	if err != nil && ctx.Err() == nil {
		w.logger.Error("scan failed", "error", err)
	}
	if summary.Total() > 0 {
		w.logger.Info("scan complete",
			"completed", len(summary.Completed),
			"exhausted", len(summary.Exhausted),
			"invalid", len(summary.Invalid),
			"failed", len(summary.Failed))
	}
}

func relevant(event fsnotify.Event) bool {
	if !strings.HasSuffix(event.Name, order.Ext) || strings.HasPrefix(filepath.Base(event.Name), ".") {
		return false
	}
	return event.Has(fsnotify.Create) || event.Has(fsnotify.Write) || event.Has(fsnotify.Rename)
}
