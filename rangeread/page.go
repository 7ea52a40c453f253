package rangeread

import (
	"errors"

	"github.com/kvrange/rangeset"
)

var errExactRequiresLimit = errors.New("rangeread: streaming mode exact requires a positive limit")

// Page is one batch of records returned by a single backend range
// read. An empty page with HasMore=false is the only legal terminal
// shape; Records are strictly ordered according to the effective
// direction, and Iteration increases monotonically across successive
// pages of one range.
type Page struct {
	Records   []rangeset.Record
	HasMore   bool
	Iteration uint32
	Reversed  bool
}

// Empty reports whether the page carries no records. Per the page
// invariants this is only a legal terminal state when HasMore is
// also false.
func (p Page) Empty() bool { return len(p.Records) == 0 }
