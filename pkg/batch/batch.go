package batch

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"runtime"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"shimmer-hq/shimmer/pkg/config"
	"shimmer-hq/shimmer/pkg/telemetry/logging"
	"shimmer-hq/shimmer/pkg/telemetry/metrics"
)

// ErrTimedOut is the error of a result whose line exceeded the line timeout.
var ErrTimedOut = errors.New("line timed out")

// ErrLineTooLong is the error of a result whose line is longer than
// MaxLineBytes. Func is not called for such a line; Result.Line still holds
// it so callers can pass it through.
var ErrLineTooLong = errors.New("line too long")

// Func processes one line. index is zero-based.
type Func[T any] func(ctx context.Context, index int, line string) (T, error)

// Result is the outcome of one line.
type Result[T any] struct {
	Index int
	Line  string
	Value T

	// Err is set when Func failed or panicked, or is ErrTimedOut.
	Err error

	// TimedOut is true when the line exceeded the line timeout. Value is
	// then the zero value.
	TimedOut bool

	Duration time.Duration
}

// Config controls a Processor.
type Config struct {
	// Workers is the number of lines processed concurrently.
	// Default: GOMAXPROCS
	Workers int

	// LineTimeout bounds each line. 0 means no bound.
	LineTimeout time.Duration

	// MaxLineBytes is the longest line Func is called for. Longer lines
	// fail with ErrLineTooLong.
	// Default: 1 MiB
	MaxLineBytes int
}

// FromConfig converts the batch section of the configuration.
func FromConfig(cfg config.BatchConfig) Config {
	return Config{
		Workers:      cfg.Workers,
		LineTimeout:  cfg.LineTimeout,
		MaxLineBytes: cfg.MaxLineBytes,
	}
}

// Processor runs a Func over a sequence of lines with a bounded worker pool
// and hands results to the caller in input order.
type Processor[T any] struct {
	config  Config
	op      string
	fn      Func[T]
	okFunc  func(T) bool
	metrics *metrics.Collector
	logger  *slog.Logger
}

// Option configures a Processor.
type Option[T any] func(*Processor[T])

// WithMetrics records one lines_total sample per line under op.
func WithMetrics[T any](collector *metrics.Collector) Option[T] {
	return func(p *Processor[T]) {
		p.metrics = collector
	}
}

// WithOutcome decides whether a successful value counts as "ok" or
// "failed" in metrics. By default every value without an error is ok.
func WithOutcome[T any](ok func(T) bool) Option[T] {
	return func(p *Processor[T]) {
		p.okFunc = ok
	}
}

// New creates a processor running fn for the named operation.
func New[T any](cfg Config, op string, fn Func[T], opts ...Option[T]) *Processor[T] {
	if cfg.Workers <= 0 {
		cfg.Workers = runtime.GOMAXPROCS(0)
	}
	if cfg.MaxLineBytes <= 0 {
		cfg.MaxLineBytes = config.DefaultBatchMaxLineBytes
	}

	p := &Processor[T]{
		config: cfg,
		op:     op,
		fn:     fn,
		logger: slog.Default().With("component", "batch", "op", op),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

type job struct {
	index int
	line  string
}

// Run processes lines and calls emit once per line, in input order, from
// the calling goroutine. It stops at the first emit error or when ctx is
// done, returning that error.
func (p *Processor[T]) Run(ctx context.Context, lines []string, emit func(Result[T]) error) error {
	return p.run(ctx, func(ctx context.Context, jobs chan<- job) error {
		for i, line := range lines {
			select {
			case jobs <- job{index: i, line: line}:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		return nil
	}, emit)
}

// Stream processes every line read from r like Run. Lines are split on
// "\n" with a trailing "\r" removed. A line longer than MaxLineBytes fails
// on its own with ErrLineTooLong; the stream goes on.
func (p *Processor[T]) Stream(ctx context.Context, r io.Reader, emit func(Result[T]) error) error {
	return p.run(ctx, func(ctx context.Context, jobs chan<- job) error {
		index := 0
		return ReadLines(r, func(line string) error {
			select {
			case jobs <- job{index: index, line: line}:
			case <-ctx.Done():
				return ctx.Err()
			}
			index++
			return nil
		})
	}, emit)
}

// ReadLines calls fn for every line of r, split as Stream splits them. Line
// length is not limited here. It stops at the first error from fn or r.
func ReadLines(r io.Reader, fn func(line string) error) error {
	br := bufio.NewReaderSize(r, 64*1024)
	for n := 1; ; n++ {
		line, err := br.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return fmt.Errorf("read line %d: %w", n, err)
		}
		if line == "" && err != nil {
			return nil
		}

		line = strings.TrimSuffix(line, "\n")
		line = strings.TrimSuffix(line, "\r")
		if ferr := fn(line); ferr != nil {
			return ferr
		}
		if err != nil {
			return nil
		}
	}
}

func (p *Processor[T]) run(parent context.Context, produce func(context.Context, chan<- job) error, emit func(Result[T]) error) error {
	ctx, cancel := context.WithCancel(parent)
	defer cancel()

	g, gctx := errgroup.WithContext(ctx)
	jobs := make(chan job, p.config.Workers)
	results := make(chan Result[T], p.config.Workers)

	g.Go(func() error {
		defer close(jobs)
		return produce(gctx, jobs)
	})

	for w := 0; w < p.config.Workers; w++ {
		g.Go(func() error {
			for j := range jobs {
				res := p.process(gctx, j)
				select {
				case results <- res:
				case <-gctx.Done():
					return gctx.Err()
				}
			}
			return nil
		})
	}

	waitErr := make(chan error, 1)
	go func() {
		waitErr <- g.Wait()
		close(results)
	}()

	// Results arrive in completion order; hold them until their turn. On
	// cancellation or an emit error the pool is left to wind down on its
	// own: a producer blocked in Read cannot be interrupted.
	pending := make(map[int]Result[T])
	next := 0

	for {
		select {
		case res, ok := <-results:
			if !ok {
				if err := <-waitErr; err != nil {
					return err
				}
				p.logger.Debug("batch complete", append(logging.Attrs(parent), "lines", next)...)
				return nil
			}

			pending[res.Index] = res
			for {
				r, ok := pending[next]
				if !ok {
					break
				}
				delete(pending, next)
				next++
				if err := emit(r); err != nil {
					return err
				}
			}

		case <-parent.Done():
			return parent.Err()
		}
	}
}

// process runs fn for one line, enforcing the line timeout.
func (p *Processor[T]) process(ctx context.Context, j job) Result[T] {
	start := time.Now()
	lineCtx := logging.WithLine(ctx, j.index+1)

	res := Result[T]{Index: j.index, Line: j.line}

	if len(j.line) > p.config.MaxLineBytes {
		res.Err = fmt.Errorf("line %d is %d bytes, limit %d: %w", j.index+1, len(j.line), p.config.MaxLineBytes, ErrLineTooLong)
		p.logger.Warn("line too long", append(logging.Attrs(lineCtx), "bytes", len(j.line), "max_line_bytes", p.config.MaxLineBytes)...)
	} else if p.config.LineTimeout <= 0 {
		res.Value, res.Err = p.call(lineCtx, j)
	} else {
		tctx, cancel := context.WithTimeout(lineCtx, p.config.LineTimeout)
		defer cancel()

		type outcome struct {
			value T
			err   error
		}
		done := make(chan outcome, 1)
		go func() {
			v, err := p.call(tctx, j)
			done <- outcome{v, err}
		}()

		select {
		case o := <-done:
			res.Value, res.Err = o.value, o.err
		case <-tctx.Done():
			if ctx.Err() == nil {
				res.TimedOut = true
				res.Err = ErrTimedOut
				p.logger.Warn("line timed out", append(logging.Attrs(lineCtx), "timeout", p.config.LineTimeout)...)
			} else {
				res.Err = ctx.Err()
			}
		}
	}

	res.Duration = time.Since(start)
	p.metrics.RecordLine(p.op, p.outcome(res), res.Duration)
	return res
}

// call runs fn, turning a panic into an error.
func (p *Processor[T]) call(ctx context.Context, j job) (v T, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic processing line %d: %v", j.index+1, r)
			p.logger.Error("recovered panic", append(logging.Attrs(ctx), "panic", r)...)
		}
	}()
	return p.fn(ctx, j.index, j.line)
}

func (p *Processor[T]) outcome(res Result[T]) string {
	switch {
	case res.TimedOut:
		return metrics.ResultTimedOut
	case res.Err != nil:
		return metrics.ResultFailed
	case p.okFunc != nil && !p.okFunc(res.Value):
		return metrics.ResultFailed
	default:
		return metrics.ResultOK
	}
}
