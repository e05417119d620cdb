package iomock

import (
	"strings"
)

// Verify checks that path is a legal absolute or relative path for the
// platform. Checks run in a fixed order so that callers observe the same
// error a host OS would report first: empty, blank, misplaced drive
// separator, illegal file-name characters in the last segment, then illegal
// path characters anywhere.
//
// param names the argument in the returned error.
func (n *Normalizer) Verify(path, param string) error {
	if path == "" {
		return argumentInvalid(param, path, msgEmptyFileName)
	}
	if strings.TrimSpace(path) == "" {
		return argumentInvalid(param, path, msgNotLegalForm)
	}

	p := n.platform
	if p == PlatformWindows && hasMisplacedVolumeSeparator(path) {
		return unsupportedFormat(path)
	}

	name := path
	if p.hasDrivePrefix(name) {
		name = name[2:]
	}
	if i := p.lastSeparator(name); i >= 0 {
		name = name[i+1:]
	}
	if strings.ContainsAny(name, string(p.InvalidFileNameChars())) {
		return argumentInvalid(param, path, msgIllegalCharacters)
	}
	if strings.ContainsAny(path, string(p.InvalidPathChars())) {
		return argumentInvalid(param, path, msgIllegalCharacters)
	}

	return nil
}

// hasMisplacedVolumeSeparator reports a ':' anywhere other than directly
// after a single leading drive letter.
func hasMisplacedVolumeSeparator(path string) bool {
	if path[0] == ':' {
		return true
	}
	if len(path) > 1 && path[1] == ':' && !isASCIILetter(path[0]) {
		return true
	}
	return strings.LastIndexByte(path, ':') > 1
}

// verifySearchPattern rejects patterns that climb out of the listed
// directory or contain characters no path may hold.
func (n *Normalizer) verifySearchPattern(pattern string) error {
	if strings.ContainsAny(pattern, string(n.platform.InvalidPathChars())) {
		return argumentInvalid("searchPattern", pattern, msgIllegalCharacters)
	}

	p := n.platform
	trimmed := strings.TrimRight(pattern, " ")
	for i := strings.Index(trimmed, ".."); i >= 0; {
		end := i + 2
		atEnd := end == len(trimmed)
		if atEnd || p.isSeparator(trimmed[end]) {
			return argumentInvalid("searchPattern", pattern, msgSearchPatternUp)
		}

		next := strings.Index(trimmed[end:], "..")
		if next < 0 {
			break
		}
		i = end + next
	}

	return nil
}
