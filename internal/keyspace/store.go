// Package keyspace is an in-memory, lexicographically ordered store of
// byte-slice key/value pairs: the backing dataset for backend/local's
// reference implementation of the range-read transport contract.
//
// A server-side transport fixture has no reason to amortize insert
// cost the way a persistent index does -- Set only ever runs to load
// or replace a dataset before it is served, never on the read path a
// GetRange walks. So Store keeps its keys in two parallel sorted
// slices and locates one by binary search, the same shape the
// teacher's mem.File uses to locate a byte offset among its segments,
// generalized from an offset comparison to a byte-slice key
// comparison. Not safe for concurrent use; backend/local guards it
// with its own lock.
package keyspace

import (
	"sort"
	"unsafe"
)

// Store holds an ordered set of key/value pairs. The zero value is an
// empty, ready-to-use Store.
type Store struct {
	keys    []string
	vals    []string
	version uint64
}

// Reset clears every key/value pair.
func (s *Store) Reset() {
	s.keys = s.keys[:0]
	s.vals = s.vals[:0]
	s.version++
}

// Empty reports whether the store holds no keys.
func (s *Store) Empty() bool {
	return len(s.keys) == 0
}

// Set inserts or replaces the value for key.
func (s *Store) Set(key, val []byte) {
	k, v := b2s(key), b2s(val)
	i, found := s.search(k)
	s.version++
	if found {
		s.vals[i] = v
		return
	}
	s.keys = append(s.keys, "")
	s.vals = append(s.vals, "")
	copy(s.keys[i+1:], s.keys[i:])
	copy(s.vals[i+1:], s.vals[i:])
	s.keys[i] = k
	s.vals[i] = v
}

// Get retrieves the value for key. found is false when key is absent.
func (s *Store) Get(key []byte) (val []byte, found bool) {
	i, found := s.search(b2s(key))
	if !found {
		return nil, false
	}
	return s2b(s.vals[i]), true
}

// search returns the index of the smallest key >= key, and whether
// that index holds key exactly.
func (s *Store) search(key string) (int, bool) {
	i := sort.Search(len(s.keys), func(i int) bool { return s.keys[i] >= key })
	return i, i < len(s.keys) && s.keys[i] == key
}

func s2b(s string) []byte {
	if s == "" {
		return nil
	}
	return unsafe.Slice(unsafe.StringData(s), len(s))
}

func b2s(b []byte) string {
	return unsafe.String(unsafe.SliceData(b), len(b))
}
