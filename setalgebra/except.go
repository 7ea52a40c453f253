package setalgebra

import (
	"context"

	"github.com/kvrange/rangeset"
	"github.com/kvrange/rangeset/cursor"
)

// stepExcept implements §4.D's Except loop. cursors[0] is the
// positive side P; cursors[1:] are the negative sides. Each negative
// cursor is caught up to P's current key (dropping values strictly
// less) and drops out permanently once exhausted. A collision at P's
// key suppresses emission for that key and advances P without
// returning; the loop then retries with P's new key.
func (it *Iterator[K, R]) stepExcept(ctx context.Context) (rangeset.Record, bool, error) {
	for {
		if it.slots[0].ended {
			return rangeset.Record{}, false, nil
		}
		kp := it.slots[0].key

		collision := false
		for i := 1; i < len(it.slots); i++ {
			if it.slots[i].ended {
				continue
			}
			for !it.slots[i].ended && it.cmp(it.slots[i].key, kp) < 0 {
				status, err := it.cursors[i].Advance(ctx)
				if status == cursor.Fault {
					return rangeset.Record{}, false, err
				}
				if status == cursor.End {
					it.slots[i] = slot[K]{ended: true}
					break
				}
				rec := it.cursors[i].Current()
				it.slots[i] = slot[K]{key: it.keyFn(rec), rec: rec}
			}
			if !it.slots[i].ended && it.cmp(it.slots[i].key, kp) == 0 {
				collision = true
			}
		}

		result := it.slots[0].rec
		status, err := it.cursors[0].Advance(ctx)
		if status == cursor.Fault {
			return rangeset.Record{}, false, err
		}
		if status == cursor.End {
			it.slots[0] = slot[K]{ended: true}
		} else {
			rec := it.cursors[0].Current()
			it.slots[0] = slot[K]{key: it.keyFn(rec), rec: rec}
		}

		if collision {
			continue
		}
		return result, true, nil
	}
}
