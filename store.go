package iomock

import (
	"fmt"
	"iter"
	"slices"
	"strings"
	"sync"
)

// orderedMap maps strings to values through a KeyComparer. It remembers
// the spelling each key was first stored under and iterates in key order.
// It is not safe for concurrent use.
type orderedMap[V any] struct {
	cmp   KeyComparer
	items map[string]mapItem[V]
}

type mapItem[V any] struct {
	key   string
	value V
}

func newOrderedMap[V any](cmp KeyComparer) *orderedMap[V] {
	return &orderedMap[V]{cmp: cmp, items: make(map[string]mapItem[V])}
}

// Get returns the value stored under k and the spelling it was stored with.
func (m *orderedMap[V]) Get(k string) (V, string, bool) {
	it, ok := m.items[m.cmp.Key(k)]
	return it.value, it.key, ok
}

// Set stores v under k, keeping the original spelling if k already exists.
func (m *orderedMap[V]) Set(k string, v V) {
	fk := m.cmp.Key(k)
	if it, ok := m.items[fk]; ok {
		k = it.key
	}
	m.items[fk] = mapItem[V]{key: k, value: v}
}

// Delete removes k and reports whether it was present.
func (m *orderedMap[V]) Delete(k string) bool {
	fk := m.cmp.Key(k)
	if _, ok := m.items[fk]; !ok {
		return false
	}
	delete(m.items, fk)
	return true
}

func (m *orderedMap[V]) Len() int {
	return len(m.items)
}

// All yields every key and value in key order.
func (m *orderedMap[V]) All() iter.Seq2[string, V] {
	keys := make([]string, 0, len(m.items))
	for fk := range m.items {
		keys = append(keys, fk)
	}
	slices.Sort(keys)

	return func(yield func(string, V) bool) {
		for _, fk := range keys {
			it, ok := m.items[fk]
			if !ok {
				continue
			}
			if !yield(it.key, it.value) {
				return
			}
		}
	}
}

// Entry pairs a canonical path with its record.
type Entry struct {
	Path string    // Path is the canonical path as first stored.
	Data *FileData // Data is the record.
}

// Store is the virtual entry store: a map from canonical path to record
// guarded by a single mutex. Paths must be canonical; the store does not
// normalize them.
type Store struct {
	mu      sync.Mutex
	entries *orderedMap[*FileData]
}

// NewStore returns an empty store comparing paths with cmp.
func NewStore(cmp KeyComparer) *Store {
	return &Store{entries: newOrderedMap[*FileData](cmp)}
}

// Get returns the record stored at path.
func (s *Store) Get(path string) (*FileData, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	d, _, ok := s.entries.Get(path)
	return d, ok
}

// Put stores d at path, replacing any file there. Replacing a read-only or
// hidden entry fails with access denied, and a record never changes kind.
func (s *Store) Put(path string, d *FileData) error {
	return s.update(func(tx *storeTx) error {
		return tx.put(path, d)
	})
}

// Remove deletes the entry at path and reports whether it existed.
func (s *Store) Remove(path string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.entries.Delete(path)
}

// Exists reports whether an entry is stored at path.
func (s *Store) Exists(path string) bool {
	_, ok := s.Get(path)
	return ok
}

// Len returns the number of stored entries.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.entries.Len()
}

// Enumerate returns a snapshot of all entries in path order. Later
// mutations do not affect the returned slice.
func (s *Store) Enumerate() []Entry {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.tx().snapshot()
}

// update runs fn with exclusive access to the store. fn must not call
// other Store methods.
func (s *Store) update(fn func(tx *storeTx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return fn(s.tx())
}

func (s *Store) tx() *storeTx {
	return &storeTx{m: s.entries}
}

// storeTx exposes the map to code already holding the store lock.
type storeTx struct {
	m *orderedMap[*FileData]
}

func (tx *storeTx) get(path string) (*FileData, bool) {
	d, _, ok := tx.m.Get(path)
	return d, ok
}

// lookup returns the record and the spelling it is stored under.
func (tx *storeTx) lookup(path string) (*FileData, string, bool) {
	return tx.m.Get(path)
}

func (tx *storeTx) file(path string) (*FileData, bool) {
	d, ok := tx.get(path)
	if !ok || d.IsDirectory() {
		return nil, false
	}
	return d, true
}

func (tx *storeTx) dir(path string) (*FileData, bool) {
	d, ok := tx.get(path)
	if !ok || !d.IsDirectory() {
		return nil, false
	}
	return d, true
}

func (tx *storeTx) put(path string, d *FileData) error {
	if d == nil {
		return argumentNull("data", msgValueNull)
	}

	cur, ok := tx.get(path)
	if ok {
		switch {
		case cur.IsDirectory() && d.IsDirectory():
			return nil
		case cur.IsDirectory():
			return accessDenied(path)
		case d.IsDirectory():
			return newError(KindAlreadyExists, path, fmt.Sprintf(msgCannotCreate, path))
		case cur.isProtected():
			return accessDenied(path)
		}
	}

	tx.m.Set(path, d)
	return nil
}

func (tx *storeTx) remove(path string) bool {
	return tx.m.Delete(path)
}

func (tx *storeTx) snapshot() []Entry {
	out := make([]Entry, 0, tx.m.Len())
	for p, d := range tx.m.All() {
		out = append(out, Entry{Path: p, Data: d})
	}
	return out
}

// below returns every entry strictly below dir, in path order.
func (tx *storeTx) below(n *Normalizer, dir string) []Entry {
	var out []Entry
	for p, d := range tx.m.All() {
		if _, ok := n.Rel(dir, p, tx.m.cmp); ok {
			out = append(out, Entry{Path: p, Data: d})
		}
	}
	return out
}

// hasChildren reports whether any entry lies strictly below dir.
func (tx *storeTx) hasChildren(n *Normalizer, dir string) bool {
	prefix := dir
	if sep := string(n.platform.Separator()); !strings.HasSuffix(prefix, sep) {
		prefix += sep
	}
	prefixKey := tx.m.cmp.Key(prefix)
	for fk := range tx.m.items {
		if len(fk) > len(prefixKey) && strings.HasPrefix(fk, prefixKey) {
			return true
		}
	}
	return false
}
