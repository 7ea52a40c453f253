package setalgebra

import (
	"context"

	"github.com/kvrange/rangeset"
	"github.com/kvrange/rangeset/cursor"
)

// stepIntersect implements §4.D's Intersect loop: find the maximum
// current key across all inputs, catch every lagging cursor up to it,
// and emit once every input agrees -- otherwise some cursor skipped
// past the max and the loop repeats with a new max.
func (it *Iterator[K, R]) stepIntersect(ctx context.Context) (rangeset.Record, bool, error) {
	for {
		for _, s := range it.slots {
			if s.ended {
				return rangeset.Record{}, false, nil
			}
		}

		maxIdx := 0
		for i := 1; i < len(it.slots); i++ {
			if it.cmp(it.slots[i].key, it.slots[maxIdx].key) > 0 {
				maxIdx = i
			}
		}
		kmax := it.slots[maxIdx].key

		if err := it.catchUpTo(ctx, kmax); err != nil {
			return rangeset.Record{}, false, err
		}
		for _, s := range it.slots {
			if s.ended {
				return rangeset.Record{}, false, nil
			}
		}

		allEqual := true
		for _, s := range it.slots {
			if it.cmp(s.key, kmax) != 0 {
				allEqual = false
				break
			}
		}
		if !allEqual {
			continue
		}

		result := it.slots[0].rec
		outcomes, err := cursor.AdvanceAll(ctx, it.cursors, it.opts.Concurrency)
		if err != nil {
			return rangeset.Record{}, false, err
		}
		for i, o := range outcomes {
			if o.Status == cursor.End {
				it.slots[i] = slot[K]{ended: true}
				continue
			}
			it.slots[i] = slot[K]{key: it.keyFn(o.Value), rec: o.Value}
		}
		return result, true, nil
	}
}

// catchUpTo advances every cursor lagging behind kmax one round at a
// time, a round being every still-lagging cursor advanced
// concurrently via AdvanceAll -- several cursors legitimately catching
// up at once is the same "backend pipelines independent ranges"
// reasoning AdvanceAll already relies on for seeding.
func (it *Iterator[K, R]) catchUpTo(ctx context.Context, kmax K) error {
	for {
		var lagging []int
		for i, s := range it.slots {
			if !s.ended && it.cmp(s.key, kmax) < 0 {
				lagging = append(lagging, i)
			}
		}
		if len(lagging) == 0 {
			return nil
		}

		batch := make([]cursor.AsyncCursor[rangeset.Record], len(lagging))
		for j, idx := range lagging {
			batch[j] = it.cursors[idx]
		}
		outcomes, err := cursor.AdvanceAll(ctx, batch, it.opts.Concurrency)
		if err != nil {
			return err
		}
		for j, idx := range lagging {
			o := outcomes[j]
			if o.Status == cursor.End {
				it.slots[idx] = slot[K]{ended: true}
				continue
			}
			it.slots[idx] = slot[K]{key: it.keyFn(o.Value), rec: o.Value}
		}
	}
}
