package iomock

import (
	"fmt"
	"io"
	"io/fs"
	"sync"

	"go.uber.org/zap"
)

// Stream is an open file. It holds a private copy of the content; writes
// reach the file on Flush or Close.
//
// While a Stream is open its access and share mode take part in sharing
// checks for every other open, read, write, move and delete of the file.
type Stream struct {
	fs     *MockFileSystem // Owning filesystem.
	name   string          // Canonical path the stream was opened on.
	data   *FileData       // Record the stream writes back to.
	handle *openHandle     // Registration in data's open handles.
	access FileAccess      // Requested access.
	mu     sync.Mutex      // Guards the fields below.
	buf    []byte          // Working copy of the content.
	pos    int64           // Current position.
	floor  int64           // Lowest seekable position; non-zero in append mode.
	dirty  bool            // buf differs from the record.
	closed bool            // Tracks if the stream has been closed.
}

var (
	_ FileStream = (*Stream)(nil)
	_ fs.File    = (*Stream)(nil)
)

// open validates the mode and access combination, resolves the file
// according to mode and registers a handle on it.
func (m *MockFileSystem) open(path string, mode FileMode, access FileAccess, share FileShare) (*Stream, error) {
	m.counters.inc(OpOpen)

	if err := checkOpenArgs(mode, access, share); err != nil {
		return nil, m.fail(OpOpen, err)
	}
	full, err := m.full(path, "path")
	if err != nil {
		return nil, m.fail(OpOpen, err)
	}
	if err := m.admit(OpOpen, full); err != nil {
		return nil, err
	}

	s := &Stream{fs: m, name: full, access: access}
	err = m.store.update(func(tx *storeTx) error {
		d, ok := tx.get(full)
		if ok && d.IsDirectory() {
			return accessDenied(full)
		}

		switch {
		case ok && mode == ModeCreateNew:
			return newError(KindAlreadyExists, full, fmt.Sprintf(msgFileExists, full))
		case !ok && (mode == ModeOpen || mode == ModeTruncate):
			return fileNotFound(full)
		case !ok:
			if !m.parentExists(tx, full) {
				return directoryNotFound(full)
			}
			d = m.newFileData(nil)
			if err := tx.put(full, d); err != nil {
				return err
			}
		}

		truncate := ok && (mode == ModeCreate || mode == ModeTruncate)
		if access&AccessWrite != 0 && d.Attributes().Has(AttrReadOnly) {
			return accessDenied(full)
		}
		if truncate && d.Attributes().Has(AttrHidden) {
			return accessDenied(full)
		}

		h, err := d.acquire(full, access, share)
		if err != nil {
			return err
		}
		if truncate {
			d.writeContents(nil, m.clock())
		}

		b, err := d.Contents()
		if err != nil {
			d.release(h)
			return err
		}

		s.data, s.handle, s.buf = d, h, b
		if mode == ModeAppend {
			s.pos = int64(len(b))
			s.floor = s.pos
		}
		return nil
	})
	if err != nil {
		return nil, m.fail(OpOpen, err)
	}

	m.done(OpOpen, full,
		zap.Stringer("mode", mode),
		zap.Stringer("access", access),
		zap.Stringer("share", share),
	)
	return s, nil
}

func checkOpenArgs(mode FileMode, access FileAccess, share FileShare) error {
	if mode < ModeCreateNew || mode > ModeAppend {
		return argumentInvalid("mode", "", msgEnumOutOfRange)
	}
	if access < AccessRead || access > AccessReadWrite {
		return argumentInvalid("access", "", msgEnumOutOfRange)
	}
	if share < ShareNone || share > ShareReadWrite|ShareDelete {
		return argumentInvalid("share", "", msgEnumOutOfRange)
	}

	invalid := false
	switch mode {
	case ModeCreateNew, ModeCreate, ModeTruncate:
		invalid = access == AccessRead
	case ModeAppend:
		invalid = access != AccessWrite
	}
	if invalid {
		return argumentInvalid("access", "", fmt.Sprintf(msgInvalidCombination, mode, access))
	}
	return nil
}

// Name returns the canonical path the stream was opened on.
func (s *Stream) Name() string {
	return s.name
}

// Length returns the length of the stream content, including unflushed writes.
func (s *Stream) Length() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	return int64(len(s.buf))
}

// Stat returns a snapshot of the file as seen through the stream, so a
// Stream can serve as an [fs.File].
func (s *Stream) Stat() (fs.FileInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil, ioError(s.name, msgStreamClosed)
	}

	fi, err := newEntryInfo(s.fs.norm.Base(s.name), s.data)
	if err != nil {
		return nil, err
	}
	fi.size = int64(len(s.buf))
	return fi, nil
}

// Read implements io.Reader.
func (s *Stream) Read(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.check(OpStreamRead, AccessRead, msgStreamNoRead); err != nil {
		return 0, err
	}
	if s.pos >= int64(len(s.buf)) {
		return 0, io.EOF
	}

	n := copy(p, s.buf[s.pos:])
	s.pos += int64(n)
	return n, nil
}

// Write implements io.Writer. Writing past the end extends the stream,
// zero-filling any gap left by a Seek.
func (s *Stream) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.check(OpStreamWrite, AccessWrite, msgStreamNoWrite); err != nil {
		return 0, err
	}

	end := s.pos + int64(len(p))
	if end > int64(len(s.buf)) {
		grown := make([]byte, end)
		copy(grown, s.buf)
		s.buf = grown
	}
	copy(s.buf[s.pos:], p)
	s.pos = end
	s.dirty = true
	return len(p), nil
}

// Seek implements io.Seeker. Seeking past the end is allowed.
func (s *Stream) Seek(offset int64, whence int) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return 0, ioError(s.name, msgStreamClosed)
	}

	var base int64
	switch whence {
	case io.SeekStart:
	case io.SeekCurrent:
		base = s.pos
	case io.SeekEnd:
		base = int64(len(s.buf))
	default:
		return 0, argumentInvalid("origin", "", msgEnumOutOfRange)
	}

	next := base + offset
	switch {
	case next < 0:
		return 0, ioError(s.name, msgNegativeSeek)
	case next < s.floor:
		return 0, ioError(s.name, msgAppendSeek)
	}

	s.pos = next
	return next, nil
}

// Flush writes buffered changes to the file.
func (s *Stream) Flush() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ioError(s.name, msgStreamClosed)
	}
	s.flush()
	return nil
}

func (s *Stream) flush() {
	if !s.dirty {
		return
	}
	s.data.writeContents(s.buf, s.fs.clock())
	s.dirty = false
	s.fs.done(OpStreamWrite, s.name, zap.Int("bytes", len(s.buf)))
}

// Close flushes and releases the stream. Closing a closed stream is a
// no-op. If an injected close error is configured, the stream is still
// released to avoid leaking its sharing lock.
func (s *Stream) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}

	m := s.fs
	m.counters.inc(OpClose)
	err := m.admit(OpClose, s.name)
	if err == nil {
		s.flush()
	}

	s.data.release(s.handle)
	s.closed = true
	s.buf = nil
	return err
}

// check counts op and verifies the stream is open with the needed access.
func (s *Stream) check(op Operation, need FileAccess, msg string) error {
	if s.closed {
		return ioError(s.name, msgStreamClosed)
	}

	m := s.fs
	m.counters.inc(op)
	if s.access&need == 0 {
		return m.fail(op, ioError(s.name, msg))
	}
	return m.admit(op, s.name)
}
