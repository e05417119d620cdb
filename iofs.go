package iomock

import (
	"io"
	"io/fs"
	"slices"
	"strings"
)

// DirFS exposes a directory of a MockFileSystem as an [io/fs] filesystem,
// so code written against fs.FS can run on the mock. Names are
// slash-separated and relative to the directory, as io/fs requires.
//
// Every call goes through the mock's file and directory operations: faults,
// latency, sharing modes and counters apply as they do for direct calls.
type DirFS struct {
	fs   *MockFileSystem
	root string
}

// Ensure interface implementations.
var (
	_ fs.FS         = (*DirFS)(nil)
	_ fs.StatFS     = (*DirFS)(nil)
	_ fs.ReadFileFS = (*DirFS)(nil)
	_ fs.ReadDirFS  = (*DirFS)(nil)
	_ fs.SubFS      = (*DirFS)(nil)
)

// DirFS returns an fs.FS rooted at dir, which must be an existing directory.
func (m *MockFileSystem) DirFS(dir string) (*DirFS, error) {
	full, err := m.full(dir, "path")
	if err != nil {
		return nil, err
	}
	if !m.directory.Exists(full) {
		return nil, directoryNotFound(full)
	}
	return &DirFS{fs: m, root: full}, nil
}

// resolve maps an io/fs name onto a canonical path below the root.
func (f *DirFS) resolve(op, name string) (string, error) {
	if !fs.ValidPath(name) {
		return "", &fs.PathError{Op: op, Path: name, Err: fs.ErrInvalid}
	}
	if name == "." {
		return f.root, nil
	}

	plat := f.fs.platform
	if plat == PlatformWindows && strings.ContainsAny(name, `\:`) {
		return "", &fs.PathError{Op: op, Path: name, Err: fs.ErrInvalid}
	}
	if err := f.fs.norm.Verify(name, "name"); err != nil {
		return "", &fs.PathError{Op: op, Path: name, Err: err}
	}

	rel := strings.ReplaceAll(name, "/", string(plat.Separator()))
	return f.fs.norm.Child(f.root, rel), nil
}

// Open opens name for reading. Files are opened with ShareReadWrite, so
// the open fails while another stream holds the file exclusively.
func (f *DirFS) Open(name string) (fs.File, error) {
	full, err := f.resolve("open", name)
	if err != nil {
		return nil, err
	}

	m := f.fs
	if m.directory.Exists(full) {
		entries, err := f.readDir(full)
		if err != nil {
			return nil, &fs.PathError{Op: "open", Path: name, Err: err}
		}
		fi, err := f.stat(name, full)
		if err != nil {
			return nil, &fs.PathError{Op: "open", Path: name, Err: err}
		}
		return &dirFile{info: fi, name: name, entries: entries}, nil
	}

	s, err := m.open(full, ModeOpen, AccessRead, ShareReadWrite)
	if err != nil {
		return nil, &fs.PathError{Op: "open", Path: name, Err: err}
	}
	return s, nil
}

// ReadFile reads the whole file, as File().ReadAllBytes does.
func (f *DirFS) ReadFile(name string) ([]byte, error) {
	full, err := f.resolve("readfile", name)
	if err != nil {
		return nil, err
	}

	b, err := f.fs.file.ReadAllBytes(full)
	if err != nil {
		return nil, &fs.PathError{Op: "readfile", Path: name, Err: err}
	}
	return b, nil
}

// ReadDir lists the directory sorted by name.
func (f *DirFS) ReadDir(name string) ([]fs.DirEntry, error) {
	full, err := f.resolve("readdir", name)
	if err != nil {
		return nil, err
	}

	entries, err := f.readDir(full)
	if err != nil {
		return nil, &fs.PathError{Op: "readdir", Path: name, Err: err}
	}
	return entries, nil
}

func (f *DirFS) readDir(full string) ([]fs.DirEntry, error) {
	m := f.fs

	l, err := m.list(full, "*", TopDirectoryOnly, listAll)
	if err != nil {
		return nil, err
	}

	out := []fs.DirEntry{}
	for e := range l.Entries() {
		fi, err := newEntryInfo(m.norm.Base(e.Path), e.Data)
		if err != nil {
			return nil, err
		}
		out = append(out, fi)
	}
	slices.SortFunc(out, func(a, b fs.DirEntry) int {
		return strings.Compare(a.Name(), b.Name())
	})
	return out, nil
}

// Stat returns a snapshot of name.
func (f *DirFS) Stat(name string) (fs.FileInfo, error) {
	full, err := f.resolve("stat", name)
	if err != nil {
		return nil, err
	}

	fi, err := f.stat(name, full)
	if err != nil {
		return nil, &fs.PathError{Op: "stat", Path: name, Err: err}
	}
	return fi, nil
}

func (f *DirFS) stat(name, full string) (*EntryInfo, error) {
	d, _, err := f.fs.lookup(OpStat, full)
	if err != nil {
		return nil, err
	}

	base := name
	if i := strings.LastIndexByte(name, '/'); i >= 0 {
		base = name[i+1:]
	}
	return newEntryInfo(base, d)
}

// Sub returns a DirFS rooted at dir.
func (f *DirFS) Sub(dir string) (fs.FS, error) {
	full, err := f.resolve("sub", dir)
	if err != nil {
		return nil, err
	}
	if !f.fs.directory.Exists(full) {
		return nil, &fs.PathError{Op: "sub", Path: dir, Err: directoryNotFound(full)}
	}
	return &DirFS{fs: f.fs, root: full}, nil
}

// dirFile is an open directory returned by DirFS.Open. Its listing is
// taken at open time.
type dirFile struct {
	info    fs.FileInfo
	name    string
	entries []fs.DirEntry
	offset  int
}

func (d *dirFile) Stat() (fs.FileInfo, error) {
	return d.info, nil
}

func (d *dirFile) Read([]byte) (int, error) {
	return 0, &fs.PathError{Op: "read", Path: d.name, Err: fs.ErrInvalid}
}

func (d *dirFile) Close() error {
	return nil
}

// ReadDir implements [fs.ReadDirFile].
func (d *dirFile) ReadDir(n int) ([]fs.DirEntry, error) {
	rest := d.entries[d.offset:]
	if n <= 0 {
		d.offset = len(d.entries)
		return slices.Clone(rest), nil
	}
	if len(rest) == 0 {
		return nil, io.EOF
	}

	n = min(n, len(rest))
	d.offset += n
	return slices.Clone(rest[:n]), nil
}
