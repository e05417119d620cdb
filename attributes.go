package iomock

import (
	"fmt"
	"strings"
)

// FileAttributes is the attribute bitset of an entry.
// Values match the host OS flags so they can be compared with real results.
type FileAttributes uint32

const (
	AttrReadOnly          FileAttributes = 0x1
	AttrHidden            FileAttributes = 0x2
	AttrSystem            FileAttributes = 0x4
	AttrDirectory         FileAttributes = 0x10
	AttrArchive           FileAttributes = 0x20
	AttrDevice            FileAttributes = 0x40
	AttrNormal            FileAttributes = 0x80
	AttrTemporary         FileAttributes = 0x100
	AttrSparseFile        FileAttributes = 0x200
	AttrReparsePoint      FileAttributes = 0x400
	AttrCompressed        FileAttributes = 0x800
	AttrOffline           FileAttributes = 0x1000
	AttrNotContentIndexed FileAttributes = 0x2000
	AttrEncrypted         FileAttributes = 0x4000
)

var attributeNames = []struct {
	attr FileAttributes
	name string
}{
	{AttrReadOnly, "ReadOnly"},
	{AttrHidden, "Hidden"},
	{AttrSystem, "System"},
	{AttrDirectory, "Directory"},
	{AttrArchive, "Archive"},
	{AttrDevice, "Device"},
	{AttrNormal, "Normal"},
	{AttrTemporary, "Temporary"},
	{AttrSparseFile, "SparseFile"},
	{AttrReparsePoint, "ReparsePoint"},
	{AttrCompressed, "Compressed"},
	{AttrOffline, "Offline"},
	{AttrNotContentIndexed, "NotContentIndexed"},
	{AttrEncrypted, "Encrypted"},
}

// Has reports whether every flag in f is set.
func (a FileAttributes) Has(f FileAttributes) bool {
	return a&f == f
}

// String returns the flags joined with ", ", e.g. "ReadOnly, Hidden".
func (a FileAttributes) String() string {
	if a == 0 {
		return "0"
	}

	var names []string
	rest := a
	for _, n := range attributeNames {
		if a&n.attr != 0 {
			names = append(names, n.name)
			rest &^= n.attr
		}
	}
	if rest != 0 {
		names = append(names, fmt.Sprintf("0x%x", uint32(rest)))
	}
	return strings.Join(names, ", ")
}

// ParseFileAttributes parses a comma separated list of attribute names.
func ParseFileAttributes(s string) (FileAttributes, error) {
	var out FileAttributes
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		found := false
		for _, n := range attributeNames {
			if strings.EqualFold(n.name, part) {
				out |= n.attr
				found = true
				break
			}
		}
		if !found {
			return 0, fmt.Errorf("iomock: unknown file attribute %q", part)
		}
	}
	return out, nil
}

// FileShare is the sharing mode declared for a file: which accesses other
// openers may still obtain while it is in use.
type FileShare int

const (
	ShareNone      FileShare = 0
	ShareRead      FileShare = 1
	ShareWrite     FileShare = 2
	ShareReadWrite FileShare = ShareRead | ShareWrite
	ShareDelete    FileShare = 4
)

// String returns the share mode name.
func (s FileShare) String() string {
	switch s {
	case ShareNone:
		return "None"
	case ShareRead:
		return "Read"
	case ShareWrite:
		return "Write"
	case ShareReadWrite:
		return "ReadWrite"
	case ShareDelete:
		return "Delete"
	}

	var names []string
	for _, f := range []FileShare{ShareRead, ShareWrite, ShareDelete} {
		if s&f != 0 {
			names = append(names, f.String())
		}
	}
	return strings.Join(names, ", ")
}

// ParseFileShare parses a share mode name such as "ReadWrite" or "Read, Delete".
func ParseFileShare(s string) (FileShare, error) {
	var out FileShare
	for _, part := range strings.Split(s, ",") {
		switch strings.ToLower(strings.TrimSpace(part)) {
		case "none", "":
		case "read":
			out |= ShareRead
		case "write":
			out |= ShareWrite
		case "readwrite":
			out |= ShareReadWrite
		case "delete":
			out |= ShareDelete
		default:
			return 0, fmt.Errorf("iomock: unknown file share %q", part)
		}
	}
	return out, nil
}

// FileAccess is the access requested when a file is opened.
type FileAccess int

const (
	AccessRead      FileAccess = 1
	AccessWrite     FileAccess = 2
	AccessReadWrite FileAccess = AccessRead | AccessWrite
)

// String returns the access name.
func (a FileAccess) String() string {
	switch a {
	case AccessRead:
		return "Read"
	case AccessWrite:
		return "Write"
	case AccessReadWrite:
		return "ReadWrite"
	}
	return fmt.Sprintf("FileAccess(%d)", int(a))
}

// FileMode selects how Open treats an existing or missing file.
type FileMode int

const (
	ModeCreateNew    FileMode = iota + 1 // ModeCreateNew fails if the file exists.
	ModeCreate                           // ModeCreate creates or truncates.
	ModeOpen                             // ModeOpen fails if the file is missing.
	ModeOpenOrCreate                     // ModeOpenOrCreate opens or creates.
	ModeTruncate                         // ModeTruncate opens and truncates; the file must exist.
	ModeAppend                           // ModeAppend opens or creates and seeks to the end.
)

var fileModeNames = map[FileMode]string{
	ModeCreateNew:    "CreateNew",
	ModeCreate:       "Create",
	ModeOpen:         "Open",
	ModeOpenOrCreate: "OpenOrCreate",
	ModeTruncate:     "Truncate",
	ModeAppend:       "Append",
}

// String returns the mode name.
func (m FileMode) String() string {
	if s, ok := fileModeNames[m]; ok {
		return s
	}
	return fmt.Sprintf("FileMode(%d)", int(m))
}

// SearchOption selects whether enumeration descends into subdirectories.
type SearchOption int

const (
	TopDirectoryOnly SearchOption = iota // TopDirectoryOnly lists immediate children only.
	AllDirectories                       // AllDirectories lists every descendant.
)
