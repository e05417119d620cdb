package iomock

import (
	"io/fs"
	"time"
)

// EntryInfo is a point-in-time snapshot of an entry. It implements
// [fs.FileInfo] and [fs.DirEntry], so mock entries can be handed to code
// written against the io/fs interfaces.
type EntryInfo struct {
	name       string
	size       int64
	mode       fs.FileMode
	modTime    time.Time
	attributes FileAttributes
}

// Ensure interface implementations.
var (
	_ fs.FileInfo = (*EntryInfo)(nil)
	_ fs.DirEntry = (*EntryInfo)(nil)
)

// newEntryInfo snapshots d under the given base name. Lazy content is
// materialized to learn its size.
func newEntryInfo(name string, d *FileData) (*EntryInfo, error) {
	attrs := d.Attributes()

	var size int64
	if !d.IsDirectory() {
		n, err := d.Length()
		if err != nil {
			return nil, err
		}
		size = n
	}

	return &EntryInfo{
		name:       name,
		size:       size,
		mode:       modeOf(attrs, d.IsDirectory()),
		modTime:    d.LastWriteTime(),
		attributes: attrs,
	}, nil
}

// modeOf derives permission bits from the attributes: read-only entries
// lose their write bits.
func modeOf(a FileAttributes, isDir bool) fs.FileMode {
	mode := fs.FileMode(0o666)
	if isDir {
		mode = fs.ModeDir | 0o777
	}
	if a.Has(AttrReadOnly) {
		mode &^= 0o222
	}
	return mode
}

// Name returns the base name of the entry, or the root itself for a root.
func (fi *EntryInfo) Name() string {
	return fi.name
}

// Size returns the length in bytes for files; zero for directories.
func (fi *EntryInfo) Size() int64 {
	return fi.size
}

func (fi *EntryInfo) Mode() fs.FileMode {
	return fi.mode
}

func (fi *EntryInfo) ModTime() time.Time {
	return fi.modTime
}

// IsDir reports whether the entry describes a directory.
func (fi *EntryInfo) IsDir() bool {
	return fi.mode.IsDir()
}

// Sys returns the FileAttributes of the entry.
func (fi *EntryInfo) Sys() any {
	return fi.attributes
}

// Type returns the type bits for the entry.
func (fi *EntryInfo) Type() fs.FileMode {
	return fi.mode.Type()
}

// Info returns the entry as an fs.FileInfo and nil for an error.
func (fi *EntryInfo) Info() (fs.FileInfo, error) {
	return fi, nil
}

// Attributes returns the attributes captured in the snapshot.
func (fi *EntryInfo) Attributes() FileAttributes {
	return fi.attributes
}
