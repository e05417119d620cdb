package iomock

import (
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/text/encoding"
)

// mockFile implements FileAPI over a MockFileSystem.
type mockFile struct {
	timestamps
	fs *MockFileSystem
}

// Exists reports whether path names a file. Directories and malformed
// paths yield false.
func (f *mockFile) Exists(path string) bool {
	m := f.fs
	m.counters.inc(OpStat)

	full, err := m.full(path, "path")
	if err != nil {
		return false
	}
	d, ok := m.store.Get(full)
	return ok && !d.IsDirectory()
}

// ReadAllBytes returns the content of a file.
func (f *mockFile) ReadAllBytes(path string) ([]byte, error) {
	return f.read(path)
}

// ReadAllText decodes a file with the default encoding. A byte order mark
// overrides the encoding.
func (f *mockFile) ReadAllText(path string) (string, error) {
	return f.ReadAllTextEncoded(path, f.fs.encoding)
}

// ReadAllTextEncoded decodes a file with enc. A byte order mark overrides
// enc.
func (f *mockFile) ReadAllTextEncoded(path string, enc encoding.Encoding) (string, error) {
	b, err := f.read(path)
	if err != nil {
		return "", err
	}

	s, err := decodeText(b, enc)
	if err != nil {
		return "", f.fs.fail(OpRead, err)
	}
	return s, nil
}

// ReadAllLines returns the lines of a file decoded with the default encoding.
func (f *mockFile) ReadAllLines(path string) ([]string, error) {
	s, err := f.ReadAllText(path)
	if err != nil {
		return nil, err
	}
	return splitLines(s), nil
}

func (f *mockFile) read(path string) ([]byte, error) {
	m := f.fs

	full, err := m.begin(OpRead, path, "path")
	if err != nil {
		return nil, err
	}

	var out []byte
	err = m.store.update(func(tx *storeTx) error {
		d, ok := tx.get(full)
		if !ok {
			return fileNotFound(full)
		}
		if d.IsDirectory() {
			return accessDenied(full)
		}
		if err := d.checkOpen(full, AccessRead, ShareRead); err != nil {
			return err
		}

		b, err := d.Contents()
		out = b
		return err
	})
	if err != nil {
		return nil, m.fail(OpRead, err)
	}

	return out, nil
}

// WriteAllBytes creates or overwrites a file with b. b must not be nil.
func (f *mockFile) WriteAllBytes(path string, b []byte) error {
	if b == nil {
		return f.fs.reject(OpWrite, argumentNull("bytes", msgValueNull))
	}
	return f.write(OpWrite, path, func(bool) ([]byte, error) { return b, nil })
}

// WriteAllText creates or overwrites a file with contents in the default encoding.
func (f *mockFile) WriteAllText(path, contents string) error {
	return f.WriteAllTextEncoded(path, contents, f.fs.encoding)
}

// WriteAllTextEncoded creates or overwrites a file with contents encoded
// with enc, preceded by its byte order mark if it writes one.
func (f *mockFile) WriteAllTextEncoded(path, contents string, enc encoding.Encoding) error {
	return f.write(OpWrite, path, func(bool) ([]byte, error) {
		return encodeText(contents, enc, true)
	})
}

// WriteAllLines creates or overwrites a file with lines, each terminated
// by the platform newline. lines must not be nil.
func (f *mockFile) WriteAllLines(path string, lines []string) error {
	if lines == nil {
		return f.fs.reject(OpWrite, argumentNull("contents", msgValueNull))
	}
	return f.WriteAllText(path, joinLines(lines, f.fs.platform.Newline()))
}

// AppendAllText appends contents in the default encoding, creating the file
// if needed.
func (f *mockFile) AppendAllText(path, contents string) error {
	return f.AppendAllTextEncoded(path, contents, f.fs.encoding)
}

// AppendAllTextEncoded appends contents encoded with enc. A byte order mark
// is written only when the file starts out empty.
func (f *mockFile) AppendAllTextEncoded(path, contents string, enc encoding.Encoding) error {
	return f.write(OpAppend, path, func(fresh bool) ([]byte, error) {
		return encodeText(contents, enc, fresh)
	})
}

// AppendAllLines appends lines, each terminated by the platform newline.
func (f *mockFile) AppendAllLines(path string, lines []string) error {
	if lines == nil {
		return f.fs.reject(OpAppend, argumentNull("contents", msgValueNull))
	}
	return f.AppendAllText(path, joinLines(lines, f.fs.platform.Newline()))
}

// write replaces or, for OpAppend, extends a file with the bytes produced
// by payload. payload learns whether the file starts out empty.
func (f *mockFile) write(op Operation, path string, payload func(fresh bool) ([]byte, error)) error {
	m := f.fs

	full, err := m.begin(op, path, "path")
	if err != nil {
		return err
	}

	var n int
	err = m.store.update(func(tx *storeTx) error {
		d, ok := tx.get(full)
		if !ok {
			b, err := payload(true)
			if err != nil {
				return err
			}
			if err := m.ensureAncestors(tx, full); err != nil {
				return err
			}
			n = len(b)
			return tx.put(full, m.newFileData(b))
		}

		if d.IsDirectory() || d.isProtected() {
			return accessDenied(full)
		}
		if err := d.checkOpen(full, AccessWrite, ShareRead); err != nil {
			return err
		}

		if op != OpAppend {
			b, err := payload(true)
			if err != nil {
				return err
			}
			n = len(b)
			d.writeContents(b, m.clock())
			return nil
		}

		size, err := d.Length()
		if err != nil {
			return err
		}
		b, err := payload(size == 0)
		if err != nil {
			return err
		}
		n = len(b)
		return d.appendContents(b, m.clock())
	})
	if err != nil {
		return m.fail(op, err)
	}

	m.done(op, full, zap.Int("bytes", n))
	return nil
}

// Copy copies src to dst with its content and attributes. The copy gets
// the default sharing mode and fresh creation and access times.
func (f *mockFile) Copy(src, dst string, overwrite bool) error {
	m := f.fs
	m.counters.inc(OpCopy)

	srcFull, err := m.full(src, "sourceFileName")
	if err != nil {
		return m.fail(OpCopy, err)
	}
	dstFull, err := m.full(dst, "destFileName")
	if err != nil {
		return m.fail(OpCopy, err)
	}
	if err := m.admit(OpCopy, srcFull); err != nil {
		return err
	}

	err = m.store.update(func(tx *storeTx) error {
		sd, ok := tx.get(srcFull)
		if !ok {
			return fileNotFound(srcFull)
		}
		if sd.IsDirectory() {
			return accessDenied(srcFull)
		}
		if !m.parentExists(tx, dstFull) {
			return directoryNotFound(dstFull)
		}

		if dd, exists := tx.get(dstFull); exists {
			switch {
			case dd.IsDirectory():
				return accessDenied(dstFull)
			case !overwrite:
				return newError(KindAlreadyExists, dstFull, fmt.Sprintf(msgFileExists, dstFull))
			case m.cmp.Equal(srcFull, dstFull):
				return sharingViolation(dstFull)
			case dd.isProtected():
				return accessDenied(dstFull)
			}
			if err := dd.checkOpen(dstFull, AccessWrite, ShareNone); err != nil {
				return err
			}
		}
		if err := sd.checkOpen(srcFull, AccessRead, ShareRead); err != nil {
			return err
		}

		c, err := sd.copyFile()
		if err != nil {
			return err
		}
		t := m.clock()
		c.SetCreationTime(t)
		c.SetLastAccessTime(t)

		tx.m.Set(dstFull, c)
		return nil
	})
	if err != nil {
		return m.fail(OpCopy, err)
	}

	m.done(OpCopy, srcFull, zap.String("dest", dstFull))
	return nil
}

// Move renames src to dst. A rename that only changes letter case is
// allowed where names are case-insensitive.
func (f *mockFile) Move(src, dst string) error {
	m := f.fs
	m.counters.inc(OpMove)

	srcFull, err := m.full(src, "sourceFileName")
	if err != nil {
		return m.fail(OpMove, err)
	}
	dstFull, err := m.full(dst, "destFileName")
	if err != nil {
		return m.fail(OpMove, err)
	}
	if err := m.admit(OpMove, srcFull); err != nil {
		return err
	}

	err = m.store.update(func(tx *storeTx) error {
		sd, ok := tx.file(srcFull)
		if !ok {
			return newError(KindFileNotFound, srcFull, fmt.Sprintf(msgMoveSourceMissing, srcFull))
		}

		if m.cmp.Equal(srcFull, dstFull) {
			if srcFull == dstFull {
				return nil
			}
		} else if _, exists := tx.get(dstFull); exists {
			return newError(KindAlreadyExists, dstFull, msgMoveTargetExists)
		}

		if !m.parentExists(tx, dstFull) {
			return newError(KindDirectoryNotFound, dstFull, msgPartNotFoundBare)
		}
		if err := sd.checkMove(); err != nil {
			return err
		}

		tx.remove(srcFull)
		tx.m.Set(dstFull, sd)
		return nil
	})
	if err != nil {
		return m.fail(OpMove, err)
	}

	m.done(OpMove, srcFull, zap.String("dest", dstFull))
	return nil
}

// Delete removes a file. A missing file is not an error, but a missing
// parent directory is.
func (f *mockFile) Delete(path string) error {
	m := f.fs

	full, err := m.begin(OpDelete, path, "path")
	if err != nil {
		return err
	}

	err = m.store.update(func(tx *storeTx) error {
		d, ok := tx.get(full)
		if !ok {
			if !m.parentExists(tx, full) {
				return directoryNotFound(full)
			}
			return nil
		}
		if d.IsDirectory() || d.Attributes().Has(AttrReadOnly) {
			return accessDenied(full)
		}
		if err := d.checkDelete(full); err != nil {
			return err
		}

		tx.remove(full)
		return nil
	})
	if err != nil {
		return m.fail(OpDelete, err)
	}

	m.done(OpDelete, full)
	return nil
}

// GetAttributes returns the attributes of a file or directory.
func (f *mockFile) GetAttributes(path string) (FileAttributes, error) {
	d, _, err := f.fs.lookup(OpGetAttributes, path)
	if err != nil {
		return 0, err
	}
	return d.Attributes(), nil
}

// SetAttributes replaces the attributes of a file or directory.
func (f *mockFile) SetAttributes(path string, a FileAttributes) error {
	d, full, err := f.fs.lookup(OpSetAttributes, path)
	if err != nil {
		return err
	}

	d.SetAttributes(a)
	f.fs.done(OpSetAttributes, full, zap.Stringer("attributes", a))
	return nil
}

// Open opens a stream on path.
func (f *mockFile) Open(path string, mode FileMode, access FileAccess, share FileShare) (FileStream, error) {
	s, err := f.fs.open(path, mode, access, share)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// OpenRead opens an existing file for reading, sharing reads.
func (f *mockFile) OpenRead(path string) (FileStream, error) {
	return f.Open(path, ModeOpen, AccessRead, ShareRead)
}

// OpenWrite opens or creates a file for exclusive writing.
func (f *mockFile) OpenWrite(path string) (FileStream, error) {
	return f.Open(path, ModeOpenOrCreate, AccessWrite, ShareNone)
}

// Create creates or truncates a file and opens it for exclusive reading
// and writing.
func (f *mockFile) Create(path string) (FileStream, error) {
	return f.Open(path, ModeCreate, AccessReadWrite, ShareNone)
}
