// Package rangeset implements the set-algebra streaming engine of a
// client library for an ordered key/value store.
//
// Given several independent, lexicographically ordered streams of
// records pulled from a remote store (each defined by a key-range
// selector), the engine produces a single ordered stream that is the
// union, intersection, or difference of its inputs. The hard part is
// combining asynchronous I/O against the store, pipelined paged range
// scans, a k-way merge heap with stable tie-breaking, cancellation
// through an ambient transactional context, and a composable
// lazy-sequence operator model.
//
// The package does not commit writes, manage transactions, retry on
// conflict, cache results, or push predicates into the store. It
// assumes inputs are already sorted by the store's native key order.
package rangeset
