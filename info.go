package iomock

import (
	"fmt"
	"io/fs"
	"iter"
	"time"
)

// entryHandle is the part shared by file and directory handles. Handles
// hold a canonical path, not a snapshot: every call consults the store.
// A handle must not be moved by one goroutine while others use it.
type entryHandle struct {
	fs   *MockFileSystem
	full string
}

// Name returns the last segment of the path, or the root itself.
func (h *entryHandle) Name() string {
	return h.fs.norm.Base(h.full)
}

// FullName returns the canonical path.
func (h *entryHandle) FullName() string {
	return h.full
}

// Extension returns the extension of the name, including the dot.
func (h *entryHandle) Extension() string {
	return h.fs.path.GetExtension(h.full)
}

func (h *entryHandle) Attributes() (FileAttributes, error) {
	return h.fs.file.GetAttributes(h.full)
}

func (h *entryHandle) SetAttributes(a FileAttributes) error {
	return h.fs.file.SetAttributes(h.full, a)
}

func (h *entryHandle) CreationTime() (time.Time, error) {
	return h.fs.file.GetCreationTime(h.full)
}

func (h *entryHandle) CreationTimeUTC() (time.Time, error) {
	return h.fs.file.GetCreationTimeUTC(h.full)
}

func (h *entryHandle) SetCreationTime(t time.Time) error {
	return h.fs.file.SetCreationTime(h.full, t)
}

func (h *entryHandle) LastAccessTime() (time.Time, error) {
	return h.fs.file.GetLastAccessTime(h.full)
}

func (h *entryHandle) LastAccessTimeUTC() (time.Time, error) {
	return h.fs.file.GetLastAccessTimeUTC(h.full)
}

func (h *entryHandle) SetLastAccessTime(t time.Time) error {
	return h.fs.file.SetLastAccessTime(h.full, t)
}

func (h *entryHandle) LastWriteTime() (time.Time, error) {
	return h.fs.file.GetLastWriteTime(h.full)
}

func (h *entryHandle) LastWriteTimeUTC() (time.Time, error) {
	return h.fs.file.GetLastWriteTimeUTC(h.full)
}

func (h *entryHandle) SetLastWriteTime(t time.Time) error {
	return h.fs.file.SetLastWriteTime(h.full, t)
}

// Stat returns a snapshot of the entry.
func (h *entryHandle) Stat() (fs.FileInfo, error) {
	d, _, err := h.fs.lookup(OpStat, h.full)
	if err != nil {
		return nil, err
	}

	fi, err := newEntryInfo(h.Name(), d)
	if err != nil {
		return nil, h.fs.fail(OpStat, err)
	}
	return fi, nil
}

// FileHandle is a FileInfo bound to a path on a MockFileSystem.
type FileHandle struct {
	entryHandle
}

var _ FileInfo = (*FileHandle)(nil)

func newFileHandle(m *MockFileSystem, full string) *FileHandle {
	return &FileHandle{entryHandle{fs: m, full: full}}
}

// Exists reports whether a file exists at the path.
func (h *FileHandle) Exists() bool {
	return h.fs.file.Exists(h.full)
}

// Delete removes the file.
func (h *FileHandle) Delete() error {
	return h.fs.file.Delete(h.full)
}

// Length returns the content length of the file.
func (h *FileHandle) Length() (int64, error) {
	d, full, err := h.fs.lookup(OpStat, h.full)
	if err != nil {
		return 0, err
	}
	if d.IsDirectory() {
		return 0, h.fs.fail(OpStat, fileNotFound(full))
	}

	n, err := d.Length()
	if err != nil {
		return 0, h.fs.fail(OpStat, err)
	}
	return n, nil
}

// DirectoryName returns the path of the containing directory.
func (h *FileHandle) DirectoryName() string {
	parent, _ := h.fs.norm.Parent(h.full)
	return parent
}

// Directory returns a handle on the containing directory.
func (h *FileHandle) Directory() DirectoryInfo {
	return newDirectoryHandle(h.fs, h.DirectoryName())
}

func (h *FileHandle) IsReadOnly() (bool, error) {
	a, err := h.Attributes()
	if err != nil {
		return false, err
	}
	return a.Has(AttrReadOnly), nil
}

// SetReadOnly sets or clears the read-only attribute, keeping the others.
func (h *FileHandle) SetReadOnly(readOnly bool) error {
	a, err := h.Attributes()
	if err != nil {
		return err
	}
	if readOnly {
		a |= AttrReadOnly
	} else {
		a &^= AttrReadOnly
	}
	return h.SetAttributes(a)
}

// CopyTo copies the file and returns a handle on the copy.
func (h *FileHandle) CopyTo(dst string, overwrite bool) (FileInfo, error) {
	m := h.fs
	if err := m.file.Copy(h.full, dst, overwrite); err != nil {
		return nil, err
	}

	full, err := m.full(dst, "destFileName")
	if err != nil {
		return nil, err
	}
	return newFileHandle(m, full), nil
}

// MoveTo moves the file and rebinds the handle to the destination.
func (h *FileHandle) MoveTo(dst string) error {
	m := h.fs
	if err := m.file.Move(h.full, dst); err != nil {
		return err
	}

	full, err := m.full(dst, "destFileName")
	if err != nil {
		return err
	}
	h.full = full
	return nil
}

func (h *FileHandle) Open(mode FileMode, access FileAccess, share FileShare) (FileStream, error) {
	return h.fs.file.Open(h.full, mode, access, share)
}

func (h *FileHandle) OpenRead() (FileStream, error) {
	return h.fs.file.OpenRead(h.full)
}

func (h *FileHandle) OpenWrite() (FileStream, error) {
	return h.fs.file.OpenWrite(h.full)
}

func (h *FileHandle) Create() (FileStream, error) {
	return h.fs.file.Create(h.full)
}

// ReadAllText reads the file with the default encoding.
func (h *FileHandle) ReadAllText() (string, error) {
	return h.fs.file.ReadAllText(h.full)
}

// WriteAllText replaces the file content with s in the default encoding.
func (h *FileHandle) WriteAllText(s string) error {
	return h.fs.file.WriteAllText(h.full, s)
}

// DirectoryHandle is a DirectoryInfo bound to a path on a MockFileSystem.
type DirectoryHandle struct {
	entryHandle
}

var _ DirectoryInfo = (*DirectoryHandle)(nil)

func newDirectoryHandle(m *MockFileSystem, full string) *DirectoryHandle {
	return &DirectoryHandle{entryHandle{fs: m, full: full}}
}

// Exists reports whether a directory exists at the path.
func (h *DirectoryHandle) Exists() bool {
	return h.fs.directory.Exists(h.full)
}

// Delete removes the directory, which must be empty.
func (h *DirectoryHandle) Delete() error {
	return h.fs.directory.Delete(h.full, false)
}

// DeleteRecursive removes the directory and everything below it.
func (h *DirectoryHandle) DeleteRecursive() error {
	return h.fs.directory.Delete(h.full, true)
}

// Parent returns the directory above. ok is false at a root.
func (h *DirectoryHandle) Parent() (DirectoryInfo, bool) {
	parent, ok := h.fs.norm.Parent(h.full)
	if !ok {
		return nil, false
	}
	return newDirectoryHandle(h.fs, parent), true
}

// Root returns the root directory of the path.
func (h *DirectoryHandle) Root() DirectoryInfo {
	return newDirectoryHandle(h.fs, h.fs.norm.Root(h.full))
}

// Create creates the directory and any missing ancestors.
func (h *DirectoryHandle) Create() error {
	_, err := h.fs.directory.CreateDirectory(h.full)
	return err
}

// CreateSubdirectory creates path relative to the directory. The result
// must lie strictly below the directory.
func (h *DirectoryHandle) CreateSubdirectory(path string) (DirectoryInfo, error) {
	m := h.fs

	full, err := m.norm.normalize(path, h.full, "path")
	if err != nil {
		return nil, err
	}
	if _, below := m.norm.Rel(h.full, full, m.cmp); !below {
		return nil, argumentInvalid("path", path, fmt.Sprintf(msgNotSubdir, path, h.full))
	}
	return m.directory.CreateDirectory(full)
}

// MoveTo moves the directory and rebinds the handle to the destination.
func (h *DirectoryHandle) MoveTo(dst string) error {
	m := h.fs
	if err := m.directory.Move(h.full, dst); err != nil {
		return err
	}

	full, err := m.full(dst, "destDirName")
	if err != nil {
		return err
	}
	h.full = full
	return nil
}

// GetFiles returns handles on the matching files below the directory.
func (h *DirectoryHandle) GetFiles(pattern string, opt SearchOption) ([]FileInfo, error) {
	seq, err := h.EnumerateFiles(pattern, opt)
	if err != nil {
		return nil, err
	}
	return collectInfos(seq), nil
}

// GetDirectories returns handles on the matching directories below the directory.
func (h *DirectoryHandle) GetDirectories(pattern string, opt SearchOption) ([]DirectoryInfo, error) {
	seq, err := h.EnumerateDirectories(pattern, opt)
	if err != nil {
		return nil, err
	}
	return collectInfos(seq), nil
}

// GetFileSystemInfos returns handles on every matching entry below the directory.
func (h *DirectoryHandle) GetFileSystemInfos(pattern string, opt SearchOption) ([]FileSystemInfo, error) {
	seq, err := h.EnumerateFileSystemInfos(pattern, opt)
	if err != nil {
		return nil, err
	}
	return collectInfos(seq), nil
}

func (h *DirectoryHandle) EnumerateFiles(pattern string, opt SearchOption) (iter.Seq[FileInfo], error) {
	return enumerateInfos(h, pattern, opt, listFiles, func(e Entry) FileInfo {
		return newFileHandle(h.fs, e.Path)
	})
}

func (h *DirectoryHandle) EnumerateDirectories(pattern string, opt SearchOption) (iter.Seq[DirectoryInfo], error) {
	return enumerateInfos(h, pattern, opt, listDirectories, func(e Entry) DirectoryInfo {
		return newDirectoryHandle(h.fs, e.Path)
	})
}

func (h *DirectoryHandle) EnumerateFileSystemInfos(pattern string, opt SearchOption) (iter.Seq[FileSystemInfo], error) {
	return enumerateInfos(h, pattern, opt, listAll, h.fs.infoOf)
}

// infoOf wraps an entry in the handle matching its kind.
func (m *MockFileSystem) infoOf(e Entry) FileSystemInfo {
	if e.Data.IsDirectory() {
		return newDirectoryHandle(m, e.Path)
	}
	return newFileHandle(m, e.Path)
}

func enumerateInfos[T any](h *DirectoryHandle, pattern string, opt SearchOption, kinds entryKinds, wrap func(Entry) T) (iter.Seq[T], error) {
	l, err := h.fs.list(h.full, pattern, opt, kinds)
	if err != nil {
		return nil, err
	}

	return func(yield func(T) bool) {
		for e := range l.Entries() {
			if !yield(wrap(e)) {
				return
			}
		}
	}, nil
}

func collectInfos[T any](seq iter.Seq[T]) []T {
	out := []T{}
	for v := range seq {
		out = append(out, v)
	}
	return out
}

type fileInfoFactory struct {
	fs *MockFileSystem
}

// FromFileName returns a handle on name. The file need not exist.
func (f fileInfoFactory) FromFileName(name string) (FileInfo, error) {
	full, err := f.fs.full(name, "fileName")
	if err != nil {
		return nil, err
	}
	return newFileHandle(f.fs, full), nil
}

type directoryInfoFactory struct {
	fs *MockFileSystem
}

// FromDirectoryName returns a handle on name. The directory need not exist.
func (f directoryInfoFactory) FromDirectoryName(name string) (DirectoryInfo, error) {
	full, err := f.fs.full(name, "path")
	if err != nil {
		return nil, err
	}
	return newDirectoryHandle(f.fs, full), nil
}
