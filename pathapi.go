package iomock

import (
	"fmt"
	"slices"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// mockPath implements PathAPI under the filesystem's platform rules.
type mockPath struct {
	fs *MockFileSystem
}

func (p *mockPath) DirectorySeparatorChar() rune {
	return rune(p.fs.platform.Separator())
}

func (p *mockPath) AltDirectorySeparatorChar() rune {
	return rune(p.fs.platform.AltSeparator())
}

func (p *mockPath) VolumeSeparatorChar() rune {
	return rune(p.fs.platform.VolumeSeparator())
}

func (p *mockPath) PathSeparator() rune {
	return rune(p.fs.platform.ListSeparator())
}

// Normalize returns the canonical absolute form of path.
func (p *mockPath) Normalize(path string) (string, error) {
	return p.fs.full(path, "path")
}

// GetFullPath returns the absolute form of path. Unlike Normalize it keeps
// one trailing separator if path ends with one.
func (p *mockPath) GetFullPath(path string) (string, error) {
	m := p.fs

	full, err := m.full(path, "path")
	if err != nil {
		return "", err
	}

	plat := m.platform
	if plat.isSeparator(path[len(path)-1]) && !m.norm.IsRoot(full) {
		full += string(plat.Separator())
	}
	return full, nil
}

// GetDirectoryName returns path without its last segment, with alternate
// separators rewritten. It returns "" for a root and for a bare name.
func (p *mockPath) GetDirectoryName(path string) (string, error) {
	n := p.fs.norm
	if err := n.Verify(path, "path"); err != nil {
		return "", err
	}

	s := n.toPrimary(path)
	root, rest, err := n.splitRoot(s)
	if err != nil {
		return "", err
	}
	if rest == "" {
		return "", nil
	}

	sep := n.platform.Separator()
	i := strings.LastIndexByte(s, sep)
	if i < len(root) {
		return root, nil
	}

	dir := strings.TrimRight(s[:i], string(sep))
	if len(dir) < len(root) {
		return root, nil
	}
	return dir, nil
}

// GetFileName returns the part of path after the last separator, or after
// the drive prefix.
func (p *mockPath) GetFileName(path string) string {
	plat := p.fs.platform
	if i := plat.lastSeparator(path); i >= 0 {
		return path[i+1:]
	}
	if plat.hasDrivePrefix(path) {
		return path[2:]
	}
	return path
}

// GetExtension returns the extension of the file name in path, including
// the leading dot. A name ending in a dot has no extension.
func (p *mockPath) GetExtension(path string) string {
	name := p.GetFileName(path)
	i := strings.LastIndexByte(name, '.')
	if i < 0 || i == len(name)-1 {
		return ""
	}
	return name[i:]
}

func (p *mockPath) GetFileNameWithoutExtension(path string) string {
	name := p.GetFileName(path)
	if i := strings.LastIndexByte(name, '.'); i >= 0 {
		return name[:i]
	}
	return name
}

func (p *mockPath) HasExtension(path string) bool {
	return p.GetExtension(path) != ""
}

// ChangeExtension replaces the extension of path with ext, which may be
// given with or without its leading dot. An empty ext removes the extension.
func (p *mockPath) ChangeExtension(path, ext string) string {
	if path == "" {
		return ""
	}

	name := p.GetFileName(path)
	stem := path
	if i := strings.LastIndexByte(name, '.'); i >= 0 {
		stem = path[:len(path)-len(name)+i]
	}

	if ext == "" {
		return stem
	}
	if ext[0] != '.' {
		ext = "." + ext
	}
	return stem + ext
}

// GetPathRoot returns the root prefix of path: "C:\", "C:", "\",
// "\\server\share", "/" or "" for a relative path.
func (p *mockPath) GetPathRoot(path string) (string, error) {
	n := p.fs.norm
	if err := n.Verify(path, "path"); err != nil {
		return "", err
	}

	root, _, err := n.splitRoot(n.toPrimary(path))
	if err != nil {
		return "", err
	}
	return root, nil
}

// IsPathRooted reports whether path starts with a separator or, on Windows,
// a drive prefix.
func (p *mockPath) IsPathRooted(path string) bool {
	plat := p.fs.platform
	if path == "" {
		return false
	}
	return plat.isSeparator(path[0]) || plat.hasDrivePrefix(path)
}

// Combine joins paths with the primary separator. A rooted element
// discards everything before it, and empty elements are skipped.
func (p *mockPath) Combine(paths ...string) (string, error) {
	plat := p.fs.platform
	invalid := string(plat.InvalidPathChars())

	var out string
	for _, s := range paths {
		if strings.ContainsAny(s, invalid) {
			return "", argumentInvalid("paths", s, msgIllegalCharacters)
		}
		switch {
		case s == "":
			continue
		case out == "" || p.IsPathRooted(s):
			out = s
		case plat.isSeparator(out[len(out)-1]) || (plat == PlatformWindows && out[len(out)-1] == ':'):
			out += s
		default:
			out += string(plat.Separator()) + s
		}
	}
	return out, nil
}

func (p *mockPath) GetInvalidPathChars() []rune {
	return slices.Clone(p.fs.platform.InvalidPathChars())
}

func (p *mockPath) GetInvalidFileNameChars() []rune {
	return slices.Clone(p.fs.platform.InvalidFileNameChars())
}

// GetTempPath returns the temporary directory with a trailing separator.
func (p *mockPath) GetTempPath() string {
	m := p.fs
	if m.norm.IsRoot(m.tempPath) {
		return m.tempPath
	}
	return m.tempPath + string(m.platform.Separator())
}

// GetTempFileName creates an empty, uniquely named file in the temporary
// directory and returns its path. The directory is created if missing.
func (p *mockPath) GetTempFileName() (string, error) {
	m := p.fs
	m.counters.inc(OpWrite)

	var full string
	err := m.store.update(func(tx *storeTx) error {
		if err := m.ensureAncestors(tx, m.norm.Child(m.tempPath, "x")); err != nil {
			return err
		}
		for {
			name := fmt.Sprintf("tmp%s.tmp", strings.ToUpper(randomHex(4)))
			full = m.norm.Child(m.tempPath, name)
			if _, exists := tx.get(full); !exists {
				return tx.put(full, m.newFileData(nil))
			}
		}
	})
	if err != nil {
		return "", m.fail(OpWrite, err)
	}

	m.done(OpWrite, full, zap.Bool("temp", true))
	return full, nil
}

// GetRandomFileName returns a random 8.3 name. No file is created.
func (p *mockPath) GetRandomFileName() string {
	s := randomHex(11)
	return s[:8] + "." + s[8:]
}

// randomHex returns n lowercase hex digits drawn from random UUIDs.
func randomHex(n int) string {
	var sb strings.Builder
	for sb.Len() < n {
		u := uuid.New()
		sb.WriteString(strings.ReplaceAll(u.String(), "-", ""))
	}
	return sb.String()[:n]
}
