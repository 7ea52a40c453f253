package keyspace

// Iter returns a cursor over s. Call SeekFirst, SeekLast, or Seek to
// position it before use.
func (s *Store) Iter() *Cursor {
	return &Cursor{root: s, version: s.version, index: -1}
}

// Cursor walks a Store in key order, forward or backward. If s is
// mutated underneath an open Cursor, the next call re-locates the
// cursor's last known key by binary search rather than tracking the
// mutation directly -- a Set that shifts later keys' slice positions
// would otherwise leave the cursor's index pointing at the wrong key.
type Cursor struct {
	root    *Store
	index   int
	key     string
	version uint64
}

func (it *Cursor) resync() bool {
	it.version = it.root.version
	if len(it.root.keys) == 0 {
		it.index = -1
		it.key = ""
		return false
	}
	return it.seek(it.key)
}

// Valid reports whether the cursor is positioned at a key/value pair.
func (it *Cursor) Valid() bool {
	if it.version != it.root.version {
		return it.resync()
	}
	return it.index >= 0 && it.index < len(it.root.keys)
}

// Key returns the current key. Valid only while Valid() is true, and
// only until the next call on the cursor.
func (it *Cursor) Key() []byte {
	return s2b(it.key)
}

// Val returns the current value.
func (it *Cursor) Val() []byte {
	if it.version != it.root.version {
		if !it.resync() {
			return nil
		}
	}
	if it.index < 0 || it.index >= len(it.root.vals) {
		return nil
	}
	return s2b(it.root.vals[it.index])
}

// Next advances to the next key. Returns false if none remain.
func (it *Cursor) Next() bool {
	if it.version != it.root.version {
		if !it.resync() {
			return false
		}
	}
	it.index++
	if it.index >= len(it.root.keys) {
		it.key = ""
		return false
	}
	it.key = it.root.keys[it.index]
	return true
}

// Prev moves to the previous key. Returns false if none remain.
func (it *Cursor) Prev() bool {
	if it.version != it.root.version {
		if !it.resync() {
			return false
		}
	}
	it.index--
	if it.index < 0 {
		it.key = ""
		return false
	}
	it.key = it.root.keys[it.index]
	return true
}

// SeekFirst positions the cursor at the smallest key.
func (it *Cursor) SeekFirst() bool {
	it.version = it.root.version
	it.index = 0
	if len(it.root.keys) == 0 {
		it.key = ""
		return false
	}
	it.key = it.root.keys[0]
	return true
}

// SeekLast positions the cursor at the largest key.
func (it *Cursor) SeekLast() bool {
	it.version = it.root.version
	it.index = len(it.root.keys) - 1
	if it.index < 0 {
		it.key = ""
		return false
	}
	it.key = it.root.keys[it.index]
	return true
}

// Seek positions the cursor at the first key >= key.
func (it *Cursor) Seek(key []byte) bool {
	it.version = it.root.version
	return it.seek(b2s(key))
}

func (it *Cursor) seek(key string) bool {
	i, _ := it.root.search(key)
	it.index = i
	if i >= len(it.root.keys) {
		it.key = ""
		return false
	}
	it.key = it.root.keys[i]
	return true
}
