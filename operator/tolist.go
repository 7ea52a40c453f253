package operator

import (
	"context"

	"github.com/kvrange/rangeset/cursor"
)

// ToList is the pipeline's only materializing sink: it drains src to
// completion and disposes it, returning every emitted record in
// order. Stops at the first fault and returns it together with the
// records emitted before it; src is disposed in either case.
func ToList[T any](ctx context.Context, src cursor.AsyncCursor[T]) ([]T, error) {
	defer src.Dispose()
	var out []T
	for {
		status, err := src.Advance(ctx)
		switch status {
		case cursor.Advanced:
			out = append(out, src.Current())
		case cursor.End:
			return out, nil
		default:
			return out, err
		}
	}
}
