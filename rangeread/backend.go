package rangeread

import (
	"context"

	"github.com/kvrange/rangeset/txn"
)

// Backend is the external transport collaborator: the thing that
// actually issues range reads against the store and returns paged
// chunks of key/value pairs plus a "more" flag. The engine only
// depends on this shape; how the page is actually fetched over the
// wire is out of scope for the engine (§1).
//
// GetRange must respect tr's ambient cancellation signal (tr.Context())
// and return a backend error classified by rangeset.ClassifyBackendCode
// on failure (use rangeset.WrapBackend to attach the code). snapshot
// requests a read that does not add a read-conflict range.
type Backend interface {
	GetRange(ctx context.Context, tr txn.Transaction, sel RangeSelector, opts RangeOptions, iteration uint32, snapshot bool) (Page, error)
}
