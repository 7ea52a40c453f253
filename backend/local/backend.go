package local

import (
	"bytes"
	"context"
	"errors"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/kvrange/rangeset"
	"github.com/kvrange/rangeset/internal/keyspace"
	"github.com/kvrange/rangeset/rangeread"
	"github.com/kvrange/rangeset/txn"
)

// pageSizes maps a StreamingMode to the record count per page, mimicking
// §4.A's streaming-mode semantics: iterator grows across iterations,
// small/medium/large are fixed working sets, want_all asks for
// everything in one page, exact returns exactly the caller's limit.
var pageSizes = map[rangeread.StreamingMode]int{
	rangeread.ModeSmall:  2,
	rangeread.ModeMedium: 16,
	rangeread.ModeLarge:  64,
	rangeread.ModeSerial: 16,
}

const iteratorBaseSize = 2
const iteratorMaxSize = 256

// Backend is an in-process implementation of rangeread.Backend over
// an internal/keyspace.Store. Safe for concurrent use by the multiple
// cursors one query may spawn.
type Backend struct {
	mu       sync.RWMutex
	store    keyspace.Store
	version  uint64
	logger   *logrus.Logger
	injector *Injector
}

var _ rangeread.Backend = (*Backend)(nil)

// New returns an empty Backend. opts configure logging and fault
// injection; the zero value logs to logrus.StandardLogger() and never
// injects faults.
func New(opts ...Option) *Backend {
	b := &Backend{logger: logrus.StandardLogger()}
	for _, o := range opts {
		o(b)
	}
	return b
}

// Option configures a Backend at construction.
type Option func(*Backend)

// WithLogger overrides the backend's logger.
func WithLogger(l *logrus.Logger) Option {
	return func(b *Backend) { b.logger = l }
}

// WithInjector arms fault injection on the backend.
func WithInjector(inj *Injector) Option {
	return func(b *Backend) { b.injector = inj }
}

// Set loads or replaces one key/value pair in the dataset and bumps
// the backend's version, the way a real cluster's committed writes
// move the store's read version forward under transactions reading an
// older one.
func (b *Backend) Set(key, val []byte) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.store.Set(key, val)
	b.version++
}

// Version returns the backend's current write version, for binding a
// new Transaction to "read at the latest version".
func (b *Backend) Version() uint64 {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.version
}

// NewTransaction returns a Transaction reading at the backend's
// current version.
func (b *Backend) NewTransaction(ctx context.Context) (*Transaction, context.CancelFunc) {
	return NewTransaction(ctx, b.Version())
}

// GetRange implements rangeread.Backend.
func (b *Backend) GetRange(ctx context.Context, tr txn.Transaction, sel rangeread.RangeSelector, opts rangeread.RangeOptions, iteration uint32, snapshot bool) (rangeread.Page, error) {
	if err := ctx.Err(); err != nil {
		return rangeread.Page{}, rangeset.WrapKind(rangeset.KindCancelled, rangeset.ErrCancelled)
	}
	if err := tr.CheckReadAllowed(); err != nil {
		return rangeread.Page{}, rangeset.WrapKind(rangeset.KindBackend, err)
	}

	rangeKey := string(sel.Begin.Reference)
	if b.injector != nil {
		b.mu.Lock()
		f, armed := b.injector.take(rangeKey, iteration)
		b.mu.Unlock()
		if armed {
			b.logger.WithFields(logrus.Fields{
				"range": rangeKey,
				"code":  f.Code,
			}).Debug("local: injected fault")
			return rangeread.Page{}, rangeset.WrapBackend(f.Code, errors.New("local: injected fault"))
		}
	}

	if lt, ok := tr.(*Transaction); ok {
		b.mu.RLock()
		stale := lt.version < b.version && !snapshot
		b.mu.RUnlock()
		if stale {
			return rangeread.Page{}, rangeset.WrapBackend("past_version", errors.New("local: read version superseded by a later write"))
		}
	}

	b.mu.RLock()
	defer b.mu.RUnlock()

	begin, beginOK := b.resolve(sel.Begin)
	end, endOK := b.resolve(sel.End)

	size := pageSize(opts, iteration)

	var records []rangeset.Record
	it := b.store.Iter()

	if opts.Reverse {
		if !endOK {
			it.SeekLast()
		} else if !it.Seek(end) {
			it.SeekLast()
		} else if bytes.Equal(it.Key(), end) {
			if !it.Prev() {
				return rangeread.Page{Reversed: true}, nil
			}
		}
		for it.Valid() && len(records) < size {
			k := it.Key()
			if beginOK && bytes.Compare(k, begin) < 0 {
				break
			}
			records = append(records, rangeset.Record{Key: bytes.Clone(k), Value: bytes.Clone(it.Val())})
			if !it.Prev() {
				break
			}
		}
	} else {
		if !beginOK {
			return rangeread.Page{}, nil
		}
		if !it.Seek(begin) {
			return rangeread.Page{}, nil
		}
		for it.Valid() && len(records) < size {
			k := it.Key()
			if endOK && bytes.Compare(k, end) >= 0 {
				break
			}
			records = append(records, rangeset.Record{Key: bytes.Clone(k), Value: bytes.Clone(it.Val())})
			if !it.Next() {
				break
			}
		}
	}

	hasMore := len(records) == size && it.Valid()
	if hasMore {
		k := it.Key()
		if opts.Reverse {
			hasMore = !beginOK || bytes.Compare(k, begin) >= 0
		} else {
			hasMore = !endOK || bytes.Compare(k, end) < 0
		}
	}

	if opts.TargetBytes > 0 {
		records, hasMore = capBytes(records, opts.TargetBytes, hasMore)
	}

	return rangeread.Page{
		Records:   records,
		HasMore:   hasMore,
		Iteration: iteration,
		Reversed:  opts.Reverse,
	}, nil
}

// resolve turns a KeySelector into a concrete key by seeking the
// keyspace to the reference key and stepping by Offset-1, per §6's
// encoding. ok is false when the selector resolves past either end of
// the keyspace -- an unbounded side of the range.
func (b *Backend) resolve(sel rangeread.KeySelector) (key []byte, ok bool) {
	it := b.store.Iter()
	ok = it.Seek(sel.Reference)
	if ok && !sel.OrEqual && bytes.Equal(it.Key(), sel.Reference) {
		ok = it.Next()
	}

	steps := int(sel.Offset) - 1
	for ok && steps > 0 {
		ok = it.Next()
		steps--
	}
	for ok && steps < 0 {
		ok = it.Prev()
		steps++
	}
	if !ok {
		return nil, false
	}
	return bytes.Clone(it.Key()), true
}

func pageSize(opts rangeread.RangeOptions, iteration uint32) int {
	switch opts.Mode {
	case rangeread.ModeExact:
		return opts.Limit
	case rangeread.ModeWantAll:
		if opts.Limit > 0 {
			return opts.Limit
		}
		return 1 << 30
	case rangeread.ModeIterator:
		size := iteratorBaseSize << (iteration - 1)
		if size > iteratorMaxSize || size <= 0 {
			size = iteratorMaxSize
		}
		if opts.Limit > 0 && size > opts.Limit {
			size = opts.Limit
		}
		return size
	default:
		size, ok := pageSizes[opts.Mode]
		if !ok {
			size = iteratorMaxSize
		}
		if opts.Limit > 0 && size > opts.Limit {
			size = opts.Limit
		}
		return size
	}
}

// capBytes trims records to fit a soft target_bytes budget, always
// keeping at least one record so a single oversized record cannot
// stall the reader forever.
func capBytes(records []rangeset.Record, target int, hasMore bool) ([]rangeset.Record, bool) {
	total := 0
	for i, r := range records {
		total += len(r.Key) + len(r.Value)
		if i > 0 && total > target {
			return records[:i], true
		}
	}
	return records, hasMore
}
