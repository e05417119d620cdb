package iomock

import (
	"fmt"
	"strings"
)

// Platform selects the path rules the mock filesystem emulates.
type Platform int

const (
	PlatformWindows Platform = iota // PlatformWindows emulates drive letters, UNC roots and case-insensitive names.
	PlatformPOSIX                   // PlatformPOSIX emulates a single "/" root and case-sensitive names.
)

// String returns the platform name.
func (p Platform) String() string {
	switch p {
	case PlatformWindows:
		return "windows"
	case PlatformPOSIX:
		return "posix"
	default:
		return fmt.Sprintf("Platform(%d)", int(p))
	}
}

// ParsePlatform converts a name such as "windows" or "posix" to a Platform.
// "unix" and "linux" are accepted as POSIX aliases.
func ParsePlatform(s string) (Platform, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "windows", "win":
		return PlatformWindows, nil
	case "posix", "unix", "linux":
		return PlatformPOSIX, nil
	}
	return 0, fmt.Errorf("iomock: unknown platform %q", s)
}

// Separator returns the primary directory separator.
func (p Platform) Separator() byte {
	if p == PlatformWindows {
		return '\\'
	}
	return '/'
}

// AltSeparator returns the alternate directory separator.
// On POSIX it equals the primary separator.
func (p Platform) AltSeparator() byte {
	return '/'
}

// VolumeSeparator returns the drive separator, ':' on Windows and '/' on POSIX.
func (p Platform) VolumeSeparator() byte {
	if p == PlatformWindows {
		return ':'
	}
	return '/'
}

// ListSeparator returns the separator used in PATH-style lists.
func (p Platform) ListSeparator() byte {
	if p == PlatformWindows {
		return ';'
	}
	return ':'
}

// Newline returns the line terminator written by line-oriented calls.
func (p Platform) Newline() string {
	if p == PlatformWindows {
		return "\r\n"
	}
	return "\n"
}

// CaseSensitive reports whether entry names differing only in case are distinct.
func (p Platform) CaseSensitive() bool {
	return p != PlatformWindows
}

// Comparer returns the key comparison strategy for the platform.
func (p Platform) Comparer() KeyComparer {
	if p.CaseSensitive() {
		return Ordinal
	}
	return IgnoreCase
}

// InvalidPathChars returns the characters that may not appear anywhere in a path.
func (p Platform) InvalidPathChars() []rune {
	if p != PlatformWindows {
		return []rune{0}
	}

	chars := []rune{'"', '<', '>', '|'}
	for c := rune(0); c < 32; c++ {
		chars = append(chars, c)
	}
	return chars
}

// InvalidFileNameChars returns the characters that may not appear in a file name.
func (p Platform) InvalidFileNameChars() []rune {
	if p != PlatformWindows {
		return []rune{0, '/'}
	}

	return append(p.InvalidPathChars(), ':', '*', '?', '\\', '/')
}

func (p Platform) isSeparator(c byte) bool {
	return c == p.Separator() || c == p.AltSeparator()
}

// lastSeparator returns the index of the last separator in s, or -1.
func (p Platform) lastSeparator(s string) int {
	for i := len(s) - 1; i >= 0; i-- {
		if p.isSeparator(s[i]) {
			return i
		}
	}
	return -1
}

// hasDrivePrefix reports whether s starts with a drive letter and a volume separator.
func (p Platform) hasDrivePrefix(s string) bool {
	return p == PlatformWindows && len(s) >= 2 && s[1] == ':' && isASCIILetter(s[0])
}

func isASCIILetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}
