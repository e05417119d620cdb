package iomock

import (
	"bytes"
	"sync"
	"time"

	"golang.org/x/text/encoding"
)

// defaultZone is the fixed +04:00 offset of the default timestamps.
var defaultZone = time.FixedZone("+04:00", 4*60*60)

// Default timestamps stamped on records that were not given explicit ones.
var (
	DefaultCreationTime   = time.Date(2010, time.January, 2, 0, 0, 0, 0, defaultZone)
	DefaultLastAccessTime = time.Date(2010, time.February, 4, 0, 0, 0, 0, defaultZone)
	DefaultLastWriteTime  = time.Date(2010, time.January, 4, 0, 0, 0, 0, defaultZone)
)

// FileData is the record stored for one entry: content for files, plus
// attributes, timestamps and the declared sharing mode.
//
// Content may be supplied lazily; the supplier runs at most once, on first
// access, and its result is cached. All methods are safe for concurrent use.
type FileData struct {
	mu             sync.RWMutex
	contents       []byte                 // Materialized content.
	lazy           func() ([]byte, error) // Pending supplier; nil once materialized.
	isDir          bool                   // Directory flag.
	attributes     FileAttributes         // Attribute bitset.
	share          FileShare              // Declared sharing mode.
	creationTime   time.Time              // Creation timestamp.
	lastAccessTime time.Time              // Last access timestamp.
	lastWriteTime  time.Time              // Last write timestamp.
	handles        []*openHandle          // Streams currently open on this file.
}

func newRecord(isDir bool) *FileData {
	attrs := AttrNormal
	if isDir {
		attrs = AttrDirectory
	}
	return &FileData{
		isDir:          isDir,
		attributes:     attrs,
		share:          ShareReadWrite,
		creationTime:   DefaultCreationTime,
		lastAccessTime: DefaultLastAccessTime,
		lastWriteTime:  DefaultLastWriteTime,
	}
}

// NewFileData returns a file record holding a copy of b.
func NewFileData(b []byte) *FileData {
	d := newRecord(false)
	d.contents = bytes.Clone(b)
	if d.contents == nil {
		d.contents = []byte{}
	}
	return d
}

// NewTextFileData returns a file record holding s encoded as UTF-8 without
// a byte order mark.
func NewTextFileData(s string) *FileData {
	return NewFileData([]byte(s))
}

// NewEncodedFileData returns a file record holding s encoded with enc,
// including the encoding's byte order mark if it writes one.
func NewEncodedFileData(s string, enc encoding.Encoding) (*FileData, error) {
	b, err := encodeText(s, enc, true)
	if err != nil {
		return nil, err
	}
	return NewFileData(b), nil
}

// NewLazyFileData returns a file record whose content is produced by
// supplier on first access.
func NewLazyFileData(supplier func() ([]byte, error)) *FileData {
	d := newRecord(false)
	d.lazy = sync.OnceValues(supplier)
	return d
}

// NewDirectoryData returns a directory record.
func NewDirectoryData() *FileData {
	return newRecord(true)
}

// WithAttributes sets the attributes and returns d.
func (d *FileData) WithAttributes(a FileAttributes) *FileData {
	d.SetAttributes(a)
	return d
}

// WithShare sets the sharing mode and returns d.
func (d *FileData) WithShare(s FileShare) *FileData {
	d.SetShare(s)
	return d
}

// WithCreationTime sets the creation time and returns d.
func (d *FileData) WithCreationTime(t time.Time) *FileData {
	d.SetCreationTime(t)
	return d
}

// WithLastAccessTime sets the last access time and returns d.
func (d *FileData) WithLastAccessTime(t time.Time) *FileData {
	d.SetLastAccessTime(t)
	return d
}

// WithLastWriteTime sets the last write time and returns d.
func (d *FileData) WithLastWriteTime(t time.Time) *FileData {
	d.SetLastWriteTime(t)
	return d
}

// IsDirectory reports whether the record describes a directory.
func (d *FileData) IsDirectory() bool {
	return d.isDir
}

// Loaded reports whether the content has been materialized.
func (d *FileData) Loaded() bool {
	d.mu.RLock()
	defer d.mu.RUnlock()

	return d.lazy == nil
}

// Contents returns a copy of the content, invoking the lazy supplier if it
// has not run yet. Directories have no content.
func (d *FileData) Contents() ([]byte, error) {
	b, err := d.load()
	if err != nil {
		return nil, err
	}
	return bytes.Clone(b), nil
}

// load materializes and returns the shared content slice. Callers must not
// modify it.
func (d *FileData) load() ([]byte, error) {
	d.mu.RLock()
	lazy, b := d.lazy, d.contents
	d.mu.RUnlock()

	if lazy == nil {
		return b, nil
	}

	loaded, err := lazy()
	if err != nil {
		return nil, err
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	// A concurrent write may have replaced the content meanwhile.
	if d.lazy != nil {
		d.contents, d.lazy = bytes.Clone(loaded), nil
	}
	return d.contents, nil
}

// SetContents replaces the content with a copy of b, discarding any
// pending supplier.
func (d *FileData) SetContents(b []byte) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.contents, d.lazy = bytes.Clone(b), nil
	if d.contents == nil {
		d.contents = []byte{}
	}
}

// Length returns the content length.
func (d *FileData) Length() (int64, error) {
	b, err := d.load()
	if err != nil {
		return 0, err
	}
	return int64(len(b)), nil
}

// Attributes returns the attribute bitset.
func (d *FileData) Attributes() FileAttributes {
	d.mu.RLock()
	defer d.mu.RUnlock()

	return d.attributes
}

// SetAttributes replaces the attribute bitset. The directory flag follows
// the record kind, and an empty set on a file becomes AttrNormal.
func (d *FileData) SetAttributes(a FileAttributes) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.attributes = normalizeAttributes(a, d.isDir)
}

func normalizeAttributes(a FileAttributes, isDir bool) FileAttributes {
	if isDir {
		return (a | AttrDirectory) &^ AttrNormal
	}

	a &^= AttrDirectory
	if a == 0 {
		return AttrNormal
	}
	if a != AttrNormal {
		a &^= AttrNormal
	}
	return a
}

// Share returns the declared sharing mode.
func (d *FileData) Share() FileShare {
	d.mu.RLock()
	defer d.mu.RUnlock()

	return d.share
}

// SetShare sets the declared sharing mode.
func (d *FileData) SetShare(s FileShare) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.share = s
}

// CreationTime returns the creation timestamp.
func (d *FileData) CreationTime() time.Time {
	d.mu.RLock()
	defer d.mu.RUnlock()

	return d.creationTime
}

// SetCreationTime sets the creation timestamp.
func (d *FileData) SetCreationTime(t time.Time) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.creationTime = t
}

// LastAccessTime returns the last access timestamp.
func (d *FileData) LastAccessTime() time.Time {
	d.mu.RLock()
	defer d.mu.RUnlock()

	return d.lastAccessTime
}

// SetLastAccessTime sets the last access timestamp.
func (d *FileData) SetLastAccessTime(t time.Time) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.lastAccessTime = t
}

// LastWriteTime returns the last write timestamp.
func (d *FileData) LastWriteTime() time.Time {
	d.mu.RLock()
	defer d.mu.RUnlock()

	return d.lastWriteTime
}

// SetLastWriteTime sets the last write timestamp.
func (d *FileData) SetLastWriteTime(t time.Time) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.lastWriteTime = t
}

// isProtected reports whether the record refuses content replacement.
func (d *FileData) isProtected() bool {
	a := d.Attributes()
	return a&(AttrReadOnly|AttrHidden) != 0
}

// copyFile returns a new file record with d's content and attributes and
// the default sharing mode.
func (d *FileData) copyFile() (*FileData, error) {
	b, err := d.load()
	if err != nil {
		return nil, err
	}

	c := NewFileData(b)

	d.mu.RLock()
	defer d.mu.RUnlock()

	c.attributes = d.attributes
	c.creationTime = d.creationTime
	c.lastAccessTime = d.lastAccessTime
	c.lastWriteTime = d.lastWriteTime
	return c, nil
}

// touch stamps a content change at t.
func (d *FileData) touch(t time.Time) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.lastWriteTime = t
	d.lastAccessTime = t
}

// writeContents replaces the content and stamps the change.
func (d *FileData) writeContents(b []byte, t time.Time) {
	d.SetContents(b)
	d.touch(t)
}

// appendContents appends b to the current content and stamps the change.
func (d *FileData) appendContents(b []byte, t time.Time) error {
	cur, err := d.load()
	if err != nil {
		return err
	}

	d.mu.Lock()
	next := make([]byte, 0, len(cur)+len(b))
	next = append(append(next, cur...), b...)
	d.contents = next
	d.lastWriteTime, d.lastAccessTime = t, t
	d.mu.Unlock()

	return nil
}
