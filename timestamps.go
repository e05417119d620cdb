package iomock

import (
	"time"

	"go.uber.org/zap"
)

// timeField selects one of the three timestamps of a record.
type timeField int

const (
	creationTime timeField = iota
	lastAccessTime
	lastWriteTime
)

var timeFieldNames = [...]string{"creation", "lastAccess", "lastWrite"}

func (f timeField) get(d *FileData) time.Time {
	switch f {
	case creationTime:
		return d.CreationTime()
	case lastAccessTime:
		return d.LastAccessTime()
	default:
		return d.LastWriteTime()
	}
}

func (f timeField) set(d *FileData, t time.Time) {
	switch f {
	case creationTime:
		d.SetCreationTime(t)
	case lastAccessTime:
		d.SetLastAccessTime(t)
	default:
		d.SetLastWriteTime(t)
	}
}

// timestamps implements TimestampAPI for both the file and directory APIs.
type timestamps struct {
	fs *MockFileSystem
}

func (ts timestamps) GetCreationTime(path string) (time.Time, error) {
	return ts.fs.getTime(path, creationTime, false)
}

func (ts timestamps) GetCreationTimeUTC(path string) (time.Time, error) {
	return ts.fs.getTime(path, creationTime, true)
}

func (ts timestamps) SetCreationTime(path string, t time.Time) error {
	return ts.fs.setTime(path, creationTime, t)
}

func (ts timestamps) SetCreationTimeUTC(path string, t time.Time) error {
	return ts.fs.setTime(path, creationTime, t.UTC())
}

func (ts timestamps) GetLastAccessTime(path string) (time.Time, error) {
	return ts.fs.getTime(path, lastAccessTime, false)
}

func (ts timestamps) GetLastAccessTimeUTC(path string) (time.Time, error) {
	return ts.fs.getTime(path, lastAccessTime, true)
}

func (ts timestamps) SetLastAccessTime(path string, t time.Time) error {
	return ts.fs.setTime(path, lastAccessTime, t)
}

func (ts timestamps) SetLastAccessTimeUTC(path string, t time.Time) error {
	return ts.fs.setTime(path, lastAccessTime, t.UTC())
}

func (ts timestamps) GetLastWriteTime(path string) (time.Time, error) {
	return ts.fs.getTime(path, lastWriteTime, false)
}

func (ts timestamps) GetLastWriteTimeUTC(path string) (time.Time, error) {
	return ts.fs.getTime(path, lastWriteTime, true)
}

func (ts timestamps) SetLastWriteTime(path string, t time.Time) error {
	return ts.fs.setTime(path, lastWriteTime, t)
}

func (ts timestamps) SetLastWriteTimeUTC(path string, t time.Time) error {
	return ts.fs.setTime(path, lastWriteTime, t.UTC())
}

func (m *MockFileSystem) getTime(path string, f timeField, utc bool) (time.Time, error) {
	d, _, err := m.lookup(OpGetAttributes, path)
	if err != nil {
		return time.Time{}, err
	}

	t := f.get(d)
	if utc {
		return t.UTC(), nil
	}
	return t.In(m.location), nil
}

func (m *MockFileSystem) setTime(path string, f timeField, t time.Time) error {
	d, full, err := m.lookup(OpSetAttributes, path)
	if err != nil {
		return err
	}
	if !d.IsDirectory() && d.Attributes().Has(AttrReadOnly) {
		return m.fail(OpSetAttributes, accessDenied(full))
	}

	f.set(d, t)
	m.done(OpSetAttributes, full, zap.String("field", timeFieldNames[f]), zap.Time("time", t))
	return nil
}

// lookup resolves path to an existing file or directory record.
func (m *MockFileSystem) lookup(op Operation, path string) (*FileData, string, error) {
	full, err := m.begin(op, path, "path")
	if err != nil {
		return nil, "", err
	}

	d, ok := m.store.Get(full)
	if !ok {
		return nil, "", m.fail(op, fileNotFound(full))
	}
	return d, full, nil
}

// reject counts op and fails it with an argument error found before the
// path was looked at.
func (m *MockFileSystem) reject(op Operation, err error) error {
	m.counters.inc(op)
	return m.fail(op, err)
}
