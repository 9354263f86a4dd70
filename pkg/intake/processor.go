package intake

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/wordtiles/pkg/errors"
	"github.com/matzehuels/wordtiles/pkg/observability"
	"github.com/matzehuels/wordtiles/pkg/order"
	"github.com/matzehuels/wordtiles/pkg/pipeline"
)

// Order outcomes reported in a Summary and to intake hooks.
const (
	StatusCompleted = "completed"
	StatusExhausted = "exhausted"
	StatusInvalid   = "invalid"
	StatusFailed    = "failed"
)

// Summary lists the order IDs handled by one ProcessPending call, by outcome.
type Summary struct {
	Completed []string
	Exhausted []string
	Invalid   []string
	Failed    []string
}

// Total returns the number of orders handled.
func (s Summary) Total() int {
	return len(s.Completed) + len(s.Exhausted) + len(s.Invalid) + len(s.Failed)
}

func (s *Summary) add(id, status string) {
	switch status {
	case StatusCompleted:
		s.Completed = append(s.Completed, id)
	case StatusExhausted:
		s.Exhausted = append(s.Exhausted, id)
	case StatusInvalid:
		s.Invalid = append(s.Invalid, id)
	default:
		s.Failed = append(s.Failed, id)
	}
}

// Processor lays out and renders pending orders.
type Processor struct {
	runner    *pipeline.Runner
	jsonDir   string
	outputDir string

	concurrency int
	template    pipeline.Options
	logger      *log.Logger
	hooks       observability.IntakeHooks

	mu     sync.Mutex
	queued map[string]bool
}

// Option configures a Processor.
type Option func(*Processor)

// WithConcurrency sets how many orders are processed at once. Values below
// one mean runtime.NumCPU().
func WithConcurrency(n int) Option { return func(p *Processor) { p.concurrency = n } }

// WithTemplate sets the engine and render settings applied to every order.
// Its word list, headline, order ID and formats are ignored.
func WithTemplate(opts pipeline.Options) Option { return func(p *Processor) { p.template = opts } }

// WithLogger sets the logger.
func WithLogger(l *log.Logger) Option { return func(p *Processor) { p.logger = l } }

// WithHooks sets the intake hooks. Defaults to observability.Intake().
func WithHooks(h observability.IntakeHooks) Option { return func(p *Processor) { p.hooks = h } }

// NewProcessor returns a processor reading orders from jsonDir and writing to
// outputDir. A nil runner uses an uncached one.
func NewProcessor(runner *pipeline.Runner, jsonDir, outputDir string, opts ...Option) *Processor {
	p := &Processor{
		runner:    runner,
		jsonDir:   jsonDir,
		outputDir: outputDir,
		queued:    make(map[string]bool),
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.concurrency < 1 {
		p.concurrency = runtime.NumCPU()
	}
	if p.logger == nil {
		p.logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	if p.hooks == nil {
		p.hooks = observability.Intake()
	}
	if p.runner == nil {
		p.runner = pipeline.NewRunner(nil, nil, p.logger)
	}
	return p
}

// ProcessPending processes every pending order. Orders already being
// processed by an overlapping call are skipped. Per-order failures are
// reported in the Summary; the error is non-nil only when the scan fails or
// ctx is cancelled.
func (p *Processor) ProcessPending(ctx context.Context) (Summary, error) {
	ids, err := Pending(p.jsonDir, p.outputDir)
	if err != nil {
		return Summary{}, err
	}
	if err := os.MkdirAll(p.outputDir, 0o755); err != nil {
		return Summary{}, errors.Wrap(errors.ErrCodeInternal, err, "create output directory")
	}
	ids = p.claim(ctx, ids)
	if len(ids) == 0 {
		return Summary{}, nil
	}
	p.logger.Info("processing orders", "pending", len(ids), "concurrency", p.concurrency)

	var (
		mu      sync.Mutex
		summary Summary
	)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.concurrency)
	for _, id := range ids {
		g.Go(func() error {
			defer p.release(id)
			if err := gctx.Err(); err != nil {
				return err
			}
			status := p.process(gctx, id)
			mu.Lock()
			summary.add(id, status)
			mu.Unlock()
			return nil
		})
	}
	err = g.Wait()
	return summary, err
}

// ProcessOrder processes a single order by ID and returns its outcome.
func (p *Processor) ProcessOrder(ctx context.Context, id string) (string, error) {
	if err := errors.ValidateOrderID(id); err != nil {
		return StatusInvalid, err
	}
	if err := os.MkdirAll(p.outputDir, 0o755); err != nil {
		return StatusFailed, errors.Wrap(errors.ErrCodeInternal, err, "create output directory")
	}
	if len(p.claim(ctx, []string{id})) == 0 {
		return "", errors.New(errors.ErrCodeInternal, "order %s is already being processed", id)
	}
	defer p.release(id)
	return p.run(ctx, id)
}

// claim marks ids as queued and returns the ones not already in flight.
func (p *Processor) claim(ctx context.Context, ids []string) []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	var out []string
	for _, id := range ids {
		if p.queued[id] {
			continue
		}
		p.queued[id] = true
		p.hooks.OnOrderQueued(ctx, id)
		out = append(out, id)
	}
	return out
}

func (p *Processor) release(id string) {
	p.mu.Lock()
	delete(p.queued, id)
	p.mu.Unlock()
}

func (p *Processor) process(ctx context.Context, id string) string {
	status, err := p.run(ctx, id)
	logger := p.logger.With("order", id, "status", status)
	switch status {
	case StatusCompleted:
		logger.Info("order complete")
	case StatusExhausted:
		logger.Warn("no layout found, will retry on next scan", "error", errors.UserMessage(err))
	default:
		logger.Error("order failed", "error", err)
	}
	return status
}

func (p *Processor) run(ctx context.Context, id string) (status string, err error) {
	start := time.Now()
	defer func() { p.hooks.OnOrderProcessed(ctx, id, status, time.Since(start)) }()

	o, err := order.Load(filepath.Join(p.jsonDir, id+order.Ext))
	if err != nil {
		return statusOf(err), err
	}

	opts := p.template
	opts.Words = o.Words
	opts.TopText = o.TopText
	opts.OrderID = o.OrderID
	opts.Formats = []string{pipeline.FormatPNG, pipeline.FormatPoster, pipeline.FormatJSON}
	if opts.Logger == nil {
		opts.Logger = p.logger
	}

	res, err := p.runner.Execute(ctx, opts)
	if err != nil {
		return statusOf(err), err
	}
	if err := p.write(id, o, res.Artifacts); err != nil {
		return StatusFailed, err
	}
	return StatusCompleted, nil
}

// write stores the artifacts and the completed order in a temporary
// directory and renames it to the order directory.
func (p *Processor) write(id string, o order.Order, artifacts map[string][]byte) error {
	tmp, err := os.MkdirTemp(p.outputDir, ".tmp-"+id+"-")
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "create staging directory")
	}
	defer os.RemoveAll(tmp)

	for format, data := range artifacts {
		name := FileName(format)
		if err := os.WriteFile(filepath.Join(tmp, name), data, 0o644); err != nil {
			return errors.Wrap(errors.ErrCodeInternal, err, "write %s", name)
		}
	}
	var receipt bytes.Buffer
	o.Completed = true
	if err := order.Encode(&receipt, o); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "encode order %s", id)
	}
	if err := os.WriteFile(filepath.Join(tmp, OrderFile), receipt.Bytes(), 0o644); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "write %s", OrderFile)
	}
	if err := os.Chmod(tmp, 0o755); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "chmod order directory")
	}
	if err := os.Rename(tmp, filepath.Join(p.outputDir, id)); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "publish order %s", id)
	}
	return nil
}

func statusOf(err error) string {
	switch errors.GetCode(err) {
	case errors.ErrCodePlacementExhausted:
		return StatusExhausted
	case errors.ErrCodeInvalidInput, errors.ErrCodeInvalidOrder, errors.ErrCodeOrderDecode, errors.ErrCodeFileNotFound:
		return StatusInvalid
	default:
		return StatusFailed
	}
}
