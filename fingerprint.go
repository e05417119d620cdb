package iomock

import (
	"encoding/binary"
	"fmt"

	"github.com/zeebo/xxh3"
)

// Fingerprint returns a stable hash of the tree: every path with its kind,
// attributes and content. Timestamps and sharing modes are left out, so two
// trees built by the same steps at different times compare equal. Paths are
// hashed by key, so on Windows a change of letter case alone does not alter
// the fingerprint.
func (m *MockFileSystem) Fingerprint() (string, error) {
	h := xxh3.New()

	var num [8]byte
	for _, e := range m.store.Enumerate() {
		d := e.Data

		key := m.cmp.Key(e.Path)
		binary.LittleEndian.PutUint64(num[:], uint64(len(key)))
		_, _ = h.Write(num[:])
		_, _ = h.WriteString(key)

		kind := byte('f')
		if d.IsDirectory() {
			kind = 'd'
		}
		binary.LittleEndian.PutUint64(num[:], uint64(d.Attributes()))
		_, _ = h.Write([]byte{kind})
		_, _ = h.Write(num[:])

		if d.IsDirectory() {
			continue
		}
		b, err := d.load()
		if err != nil {
			return "", fmt.Errorf("iomock: fingerprint %q: %w", e.Path, err)
		}
		binary.LittleEndian.PutUint64(num[:], xxh3.Hash(b))
		_, _ = h.Write(num[:])
	}

	sum := h.Sum128().Bytes()
	return fmt.Sprintf("%x", sum), nil
}
