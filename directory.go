package iomock

import (
	"fmt"

	"go.uber.org/zap"
)

// mockDirectory implements DirectoryAPI over a MockFileSystem.
type mockDirectory struct {
	timestamps
	fs *MockFileSystem
}

// CreateDirectory creates path and every missing ancestor. It succeeds
// without change if the directory already exists.
func (dir *mockDirectory) CreateDirectory(path string) (DirectoryInfo, error) {
	m := dir.fs

	full, err := m.begin(OpCreateDirectory, path, "path")
	if err != nil {
		return nil, err
	}

	created := false
	err = m.store.update(func(tx *storeTx) error {
		if a, ok := m.conflictingAncestor(tx, full); ok {
			return newError(KindAlreadyExists, a, fmt.Sprintf(msgCannotCreate, a))
		}
		if d, ok := tx.get(full); ok {
			if !d.IsDirectory() {
				return newError(KindAlreadyExists, full, fmt.Sprintf(msgCannotCreate, full))
			}
			return nil
		}

		if err := m.ensureAncestors(tx, full); err != nil {
			return err
		}
		created = true
		return tx.put(full, m.newDirectoryData())
	})
	if err != nil {
		return nil, m.fail(OpCreateDirectory, err)
	}

	if created {
		m.done(OpCreateDirectory, full)
	}
	return newDirectoryHandle(m, full), nil
}

// Delete removes an empty directory, or with recursive set the directory
// and everything below it. Nothing is removed unless every entry can be.
func (dir *mockDirectory) Delete(path string, recursive bool) error {
	m := dir.fs

	full, err := m.begin(OpDeleteDirectory, path, "path")
	if err != nil {
		return err
	}

	removed := 0
	err = m.store.update(func(tx *storeTx) error {
		d, ok := tx.get(full)
		if !ok {
			return directoryNotFound(full)
		}
		if !d.IsDirectory() {
			return ioError(full, msgDirNameInvalid)
		}
		if m.norm.IsRoot(full) {
			return accessDenied(full)
		}

		children := tx.below(m.norm, full)
		if len(children) > 0 && !recursive {
			return ioError(full, msgDirNotEmpty)
		}
		if d.Attributes().Has(AttrReadOnly) {
			return accessDenied(full)
		}
		for _, c := range children {
			if c.Data.Attributes().Has(AttrReadOnly) {
				return accessDenied(c.Path)
			}
			if !c.Data.IsDirectory() {
				if err := c.Data.checkDelete(c.Path); err != nil {
					return err
				}
			}
		}

		for _, c := range children {
			tx.remove(c.Path)
		}
		tx.remove(full)
		removed = len(children) + 1
		return nil
	})
	if err != nil {
		return m.fail(OpDeleteDirectory, err)
	}

	m.done(OpDeleteDirectory, full, zap.Int("entries", removed))
	return nil
}

// Exists reports whether path names a directory, stored explicitly or
// implied by a descendant.
func (dir *mockDirectory) Exists(path string) bool {
	m := dir.fs
	m.counters.inc(OpStat)

	full, err := m.full(path, "path")
	if err != nil {
		return false
	}

	exists := false
	_ = m.store.update(func(tx *storeTx) error {
		exists = m.isDirectory(tx, full)
		return nil
	})
	return exists
}

// isDirectory reports whether full is a stored or implied directory.
func (m *MockFileSystem) isDirectory(tx *storeTx, full string) bool {
	if d, ok := tx.get(full); ok {
		return d.IsDirectory()
	}
	return tx.hasChildren(m.norm, full)
}

// Move renames a directory and re-keys every entry below it. The source
// may also be a single file.
func (dir *mockDirectory) Move(src, dst string) error {
	m := dir.fs
	m.counters.inc(OpMoveDirectory)

	srcFull, err := m.full(src, "sourceDirName")
	if err != nil {
		return m.fail(OpMoveDirectory, err)
	}
	dstFull, err := m.full(dst, "destDirName")
	if err != nil {
		return m.fail(OpMoveDirectory, err)
	}
	if err := m.admit(OpMoveDirectory, srcFull); err != nil {
		return err
	}

	moved := 0
	err = m.store.update(func(tx *storeTx) error {
		caseOnly := m.cmp.Equal(srcFull, dstFull)
		if srcFull == dstFull {
			return ioError(srcFull, msgSameSourceDest)
		}
		if !m.cmp.Equal(m.norm.Root(srcFull), m.norm.Root(dstFull)) {
			return ioError(srcFull, msgDifferentRoots)
		}

		sd, ok := tx.get(srcFull)
		if !ok {
			return directoryNotFound(srcFull)
		}
		if _, inside := m.norm.Rel(srcFull, dstFull, m.cmp); inside {
			return newError(KindSharingViolation, dstFull, msgInUseBare)
		}
		if _, exists := tx.get(dstFull); exists && !caseOnly {
			return newError(KindAlreadyExists, dstFull, fmt.Sprintf(msgCannotCreate, dstFull))
		}
		if !m.parentExists(tx, dstFull) {
			return directoryNotFound(dstFull)
		}

		children := tx.below(m.norm, srcFull)
		if !sd.IsDirectory() {
			if err := sd.checkMove(); err != nil {
				return err
			}
		}
		for _, c := range children {
			if !c.Data.IsDirectory() {
				if err := c.Data.checkMove(); err != nil {
					return err
				}
			}
		}

		tx.remove(srcFull)
		for _, c := range children {
			tx.remove(c.Path)
		}
		tx.m.Set(dstFull, sd)
		for _, c := range children {
			rel, _ := m.norm.Rel(srcFull, c.Path, m.cmp)
			tx.m.Set(m.norm.Child(dstFull, rel), c.Data)
		}
		moved = len(children) + 1
		return nil
	})
	if err != nil {
		return m.fail(OpMoveDirectory, err)
	}

	m.done(OpMoveDirectory, srcFull, zap.String("dest", dstFull), zap.Int("entries", moved))
	return nil
}

// GetParent returns the directory above path. ok is false at a root.
func (dir *mockDirectory) GetParent(path string) (DirectoryInfo, bool, error) {
	m := dir.fs

	full, err := m.begin(OpStat, path, "path")
	if err != nil {
		return nil, false, err
	}

	parent, ok := m.norm.Parent(full)
	if !ok {
		return nil, false, nil
	}
	return newDirectoryHandle(m, parent), true, nil
}

// GetDirectoryRoot returns the root of path, such as "C:\" or "\\server\share".
func (dir *mockDirectory) GetDirectoryRoot(path string) (string, error) {
	m := dir.fs

	full, err := m.begin(OpStat, path, "path")
	if err != nil {
		return "", err
	}
	return m.norm.Root(full), nil
}

// GetCurrentDirectory returns the directory relative paths resolve against.
func (dir *mockDirectory) GetCurrentDirectory() string {
	return dir.fs.CurrentDirectory()
}

// SetCurrentDirectory changes the current directory, which must exist.
func (dir *mockDirectory) SetCurrentDirectory(path string) error {
	m := dir.fs

	full, err := m.begin(OpStat, path, "path")
	if err != nil {
		return err
	}

	exists := false
	_ = m.store.update(func(tx *storeTx) error {
		exists = m.isDirectory(tx, full)
		return nil
	})
	if !exists {
		return m.fail(OpStat, directoryNotFound(full))
	}

	m.setCurrentDirectory(full)
	m.logger.Debug("changed current directory", zap.String("path", full))
	return nil
}

// GetLogicalDrives returns the drive roots present in the store, or "/" on POSIX.
func (dir *mockDirectory) GetLogicalDrives() []string {
	m := dir.fs

	var out []string
	for _, e := range m.store.Enumerate() {
		if m.norm.IsRoot(e.Path) && !isUNC(e.Path) {
			out = append(out, e.Path)
		}
	}
	return out
}

func isUNC(p string) bool {
	return len(p) >= 2 && p[0] == '\\' && p[1] == '\\'
}
