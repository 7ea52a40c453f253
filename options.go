package rangeset

import (
	"time"

	"github.com/sirupsen/logrus"
)

// Options configures ambient engine behavior that doesn't belong to
// any one component: logging, the time source, and how many input
// cursors may be advanced concurrently. There is no config-file layer
// here, matching the teacher's own literal-struct options (kv.opt,
// block.HeapOption) -- these are always built through functional
// options in Go, never parsed from YAML or env.
type Options struct {
	Logger      *logrus.Logger
	Clock       func() time.Time
	Concurrency int
}

// Option mutates an Options during construction.
type Option func(*Options)

// WithLogger overrides the logger the set-algebra iterator uses for
// debug-level logs when it disposes its inputs and when it propagates
// a fault. Defaults to logrus.StandardLogger().
func WithLogger(l *logrus.Logger) Option {
	return func(o *Options) { o.Logger = l }
}

// WithClock overrides the time source carried in Options. Defaults to
// time.Now. No component in this module reads Clock; backend/local
// detects staleness by comparing versions, not times.
func WithClock(clock func() time.Time) Option {
	return func(o *Options) { o.Clock = clock }
}

// WithConcurrency bounds how many input cursors AdvanceAll may advance
// at once. 0 (the default) means unbounded -- every cursor is
// advanced in its own goroutine.
func WithConcurrency(n int) Option {
	return func(o *Options) { o.Concurrency = n }
}

// DefaultOptions returns the engine's baseline Options.
func DefaultOptions() Options {
	return Options{
		Logger: logrus.StandardLogger(),
		Clock:  time.Now,
	}
}

// Apply folds a list of Option values onto DefaultOptions.
func Apply(opts ...Option) Options {
	o := DefaultOptions()
	for _, fn := range opts {
		fn(&o)
	}
	return o
}
