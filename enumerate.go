package iomock

import (
	"iter"
	"slices"
	"strings"

	"go.uber.org/zap"
)

// entryKinds selects which records a listing returns.
type entryKinds int

const (
	listFiles entryKinds = 1 << iota
	listDirectories

	listAll = listFiles | listDirectories
)

func (k entryKinds) admits(d *FileData) bool {
	if d.IsDirectory() {
		return k&listDirectories != 0
	}
	return k&listFiles != 0
}

// listing is a snapshot of the entries below a directory, filtered lazily.
type listing struct {
	fs      *MockFileSystem
	dir     string
	entries []Entry
	match   PathMatcher
	opt     SearchOption
	kinds   entryKinds
}

// All yields the canonical path of every entry that passes the filter.
func (l *listing) All() iter.Seq[string] {
	return func(yield func(string) bool) {
		for _, e := range l.entries {
			if l.admits(e) && !yield(e.Path) {
				return
			}
		}
	}
}

// Entries yields every entry that passes the filter.
func (l *listing) Entries() iter.Seq[Entry] {
	return func(yield func(Entry) bool) {
		for _, e := range l.entries {
			if l.admits(e) && !yield(e) {
				return
			}
		}
	}
}

func (l *listing) admits(e Entry) bool {
	if !l.kinds.admits(e.Data) {
		return false
	}

	m := l.fs
	if l.opt == TopDirectoryOnly {
		rel, _ := m.norm.Rel(l.dir, e.Path, m.cmp)
		if strings.IndexByte(rel, m.platform.Separator()) >= 0 {
			return false
		}
	}
	return l.match.Matches(m.norm.Base(e.Path))
}

// list validates its arguments and snapshots every entry strictly below
// path. The queried directory itself is never part of its own listing.
func (m *MockFileSystem) list(path, pattern string, opt SearchOption, kinds entryKinds) (*listing, error) {
	full, err := m.begin(OpEnumerate, path, "path")
	if err != nil {
		return nil, err
	}
	if err := m.norm.verifySearchPattern(pattern); err != nil {
		return nil, m.fail(OpEnumerate, err)
	}
	if opt != TopDirectoryOnly && opt != AllDirectories {
		return nil, m.fail(OpEnumerate, argumentInvalid("searchOption", "", msgEnumOutOfRange))
	}

	var entries []Entry
	err = m.store.update(func(tx *storeTx) error {
		if d, ok := tx.get(full); ok && !d.IsDirectory() {
			return ioError(full, msgDirNameInvalid)
		}
		if !m.isDirectory(tx, full) {
			return directoryNotFound(full)
		}

		entries = tx.below(m.norm, full)
		return nil
	})
	if err != nil {
		return nil, m.fail(OpEnumerate, err)
	}

	m.logger.Debug("listed directory",
		zap.String("path", full),
		zap.String("pattern", pattern),
		zap.Int("candidates", len(entries)),
	)

	return &listing{
		fs:      m,
		dir:     full,
		entries: entries,
		match:   m.searchMatcher(pattern),
		opt:     opt,
		kinds:   kinds,
	}, nil
}

// searchMatcher compiles an enumeration pattern. An empty pattern matches
// nothing, as on the host OS.
func (m *MockFileSystem) searchMatcher(pattern string) PathMatcher {
	switch pattern {
	case "":
		return nothingMatcher{}
	case "*", "*.*":
		return NewWildcardMatcher()
	}
	return NewGlobMatcher(pattern, !m.platform.CaseSensitive())
}

func (dir *mockDirectory) collect(path, pattern string, opt SearchOption, kinds entryKinds) ([]string, error) {
	l, err := dir.fs.list(path, pattern, opt, kinds)
	if err != nil {
		return nil, err
	}

	out := slices.Collect(l.All())
	if out == nil {
		out = []string{}
	}
	return out, nil
}

func (dir *mockDirectory) stream(path, pattern string, opt SearchOption, kinds entryKinds) (iter.Seq[string], error) {
	l, err := dir.fs.list(path, pattern, opt, kinds)
	if err != nil {
		return nil, err
	}
	return l.All(), nil
}

// GetFiles lists the files below path whose names match pattern.
func (dir *mockDirectory) GetFiles(path, pattern string, opt SearchOption) ([]string, error) {
	return dir.collect(path, pattern, opt, listFiles)
}

// GetDirectories lists the directories below path whose names match pattern.
func (dir *mockDirectory) GetDirectories(path, pattern string, opt SearchOption) ([]string, error) {
	return dir.collect(path, pattern, opt, listDirectories)
}

// GetFileSystemEntries lists the files and directories below path whose
// names match pattern.
func (dir *mockDirectory) GetFileSystemEntries(path, pattern string, opt SearchOption) ([]string, error) {
	return dir.collect(path, pattern, opt, listAll)
}

// EnumerateFiles is GetFiles as a sequence. Argument and existence errors
// are reported up front; the listing reflects the store at call time.
func (dir *mockDirectory) EnumerateFiles(path, pattern string, opt SearchOption) (iter.Seq[string], error) {
	return dir.stream(path, pattern, opt, listFiles)
}

// EnumerateDirectories is GetDirectories as a sequence.
func (dir *mockDirectory) EnumerateDirectories(path, pattern string, opt SearchOption) (iter.Seq[string], error) {
	return dir.stream(path, pattern, opt, listDirectories)
}

// EnumerateFileSystemEntries is GetFileSystemEntries as a sequence.
func (dir *mockDirectory) EnumerateFileSystemEntries(path, pattern string, opt SearchOption) (iter.Seq[string], error) {
	return dir.stream(path, pattern, opt, listAll)
}
