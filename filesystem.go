package iomock

import (
	"io"
	"io/fs"
	"iter"
	"time"

	"golang.org/x/text/encoding"
)

// FileSystem is the capability set shared by the mock and any real
// OS-backed implementation. Code written against it cannot tell which
// backing store it runs on.
type FileSystem interface {
	File() FileAPI
	Directory() DirectoryAPI
	Path() PathAPI
	FileInfo() FileInfoFactory
	DirectoryInfo() DirectoryInfoFactory
	DriveInfo() DriveInfoFactory
}

// TimestampAPI reads and writes entry timestamps. Local variants use the
// filesystem's configured location; UTC variants convert to UTC.
type TimestampAPI interface {
	GetCreationTime(path string) (time.Time, error)
	GetCreationTimeUTC(path string) (time.Time, error)
	SetCreationTime(path string, t time.Time) error
	SetCreationTimeUTC(path string, t time.Time) error
	GetLastAccessTime(path string) (time.Time, error)
	GetLastAccessTimeUTC(path string) (time.Time, error)
	SetLastAccessTime(path string, t time.Time) error
	SetLastAccessTimeUTC(path string, t time.Time) error
	GetLastWriteTime(path string) (time.Time, error)
	GetLastWriteTimeUTC(path string) (time.Time, error)
	SetLastWriteTime(path string, t time.Time) error
	SetLastWriteTimeUTC(path string, t time.Time) error
}

// FileAPI operates on files.
type FileAPI interface {
	TimestampAPI

	// Exists reports whether path names an existing file. It is false for
	// directories and for malformed paths.
	Exists(path string) bool

	ReadAllBytes(path string) ([]byte, error)
	ReadAllText(path string) (string, error)
	ReadAllTextEncoded(path string, enc encoding.Encoding) (string, error)
	ReadAllLines(path string) ([]string, error)

	WriteAllBytes(path string, b []byte) error
	WriteAllText(path, contents string) error
	WriteAllTextEncoded(path, contents string, enc encoding.Encoding) error
	WriteAllLines(path string, lines []string) error

	AppendAllText(path, contents string) error
	AppendAllTextEncoded(path, contents string, enc encoding.Encoding) error
	AppendAllLines(path string, lines []string) error

	// Copy copies src to dst, replacing dst only if overwrite is set.
	Copy(src, dst string, overwrite bool) error

	// Move renames src to dst. dst must not exist.
	Move(src, dst string) error

	// Delete removes a file. A missing file is not an error.
	Delete(path string) error

	Open(path string, mode FileMode, access FileAccess, share FileShare) (FileStream, error)
	OpenRead(path string) (FileStream, error)
	OpenWrite(path string) (FileStream, error)
	Create(path string) (FileStream, error)

	GetAttributes(path string) (FileAttributes, error)
	SetAttributes(path string, a FileAttributes) error
}

// DirectoryAPI operates on directories.
type DirectoryAPI interface {
	TimestampAPI

	// CreateDirectory creates path and every missing ancestor.
	CreateDirectory(path string) (DirectoryInfo, error)

	// Delete removes an empty directory, or a whole tree if recursive is set.
	Delete(path string, recursive bool) error

	// Exists reports whether path names an existing directory.
	Exists(path string) bool

	// Move renames a directory and everything below it.
	Move(src, dst string) error

	GetFiles(path, pattern string, opt SearchOption) ([]string, error)
	GetDirectories(path, pattern string, opt SearchOption) ([]string, error)
	GetFileSystemEntries(path, pattern string, opt SearchOption) ([]string, error)

	EnumerateFiles(path, pattern string, opt SearchOption) (iter.Seq[string], error)
	EnumerateDirectories(path, pattern string, opt SearchOption) (iter.Seq[string], error)
	EnumerateFileSystemEntries(path, pattern string, opt SearchOption) (iter.Seq[string], error)

	// GetParent returns the directory one level up; ok is false at a root.
	GetParent(path string) (parent DirectoryInfo, ok bool, err error)

	GetDirectoryRoot(path string) (string, error)
	GetCurrentDirectory() string
	SetCurrentDirectory(path string) error
	GetLogicalDrives() []string
}

// PathAPI manipulates path strings under the filesystem's platform rules.
type PathAPI interface {
	DirectorySeparatorChar() rune
	AltDirectorySeparatorChar() rune
	VolumeSeparatorChar() rune
	PathSeparator() rune

	// Normalize returns the canonical absolute form of path.
	Normalize(path string) (string, error)

	// GetFullPath is Normalize, keeping one trailing separator if path had one.
	GetFullPath(path string) (string, error)

	// GetDirectoryName strips the last segment. It returns "" for a root or
	// a bare file name.
	GetDirectoryName(path string) (string, error)

	GetFileName(path string) string
	GetFileNameWithoutExtension(path string) string
	GetExtension(path string) string
	HasExtension(path string) bool

	// ChangeExtension replaces the extension; an empty ext removes it.
	ChangeExtension(path, ext string) string

	GetPathRoot(path string) (string, error)
	IsPathRooted(path string) bool
	Combine(paths ...string) (string, error)

	GetInvalidPathChars() []rune
	GetInvalidFileNameChars() []rune

	GetTempPath() string
	GetTempFileName() (string, error)
	GetRandomFileName() string
}

// FileStream is an open file.
type FileStream interface {
	io.ReadWriteSeeker
	io.Closer

	// Name returns the canonical path the stream was opened on.
	Name() string

	// Length returns the current stream length.
	Length() int64

	// Flush commits buffered writes to the file.
	Flush() error
}

// FileSystemInfo is the part shared by file and directory handles.
// Handles hold a path, not a snapshot: every call consults the store.
type FileSystemInfo interface {
	Name() string
	FullName() string
	Extension() string
	Exists() bool

	Attributes() (FileAttributes, error)
	SetAttributes(a FileAttributes) error

	CreationTime() (time.Time, error)
	CreationTimeUTC() (time.Time, error)
	SetCreationTime(t time.Time) error
	LastAccessTime() (time.Time, error)
	LastAccessTimeUTC() (time.Time, error)
	SetLastAccessTime(t time.Time) error
	LastWriteTime() (time.Time, error)
	LastWriteTimeUTC() (time.Time, error)
	SetLastWriteTime(t time.Time) error

	Delete() error

	// Stat returns a point-in-time snapshot usable with [io/fs].
	Stat() (fs.FileInfo, error)
}

// FileInfo is a handle on a file path.
type FileInfo interface {
	FileSystemInfo

	Length() (int64, error)
	DirectoryName() string
	Directory() DirectoryInfo
	IsReadOnly() (bool, error)
	SetReadOnly(readOnly bool) error

	CopyTo(dst string, overwrite bool) (FileInfo, error)
	MoveTo(dst string) error

	Open(mode FileMode, access FileAccess, share FileShare) (FileStream, error)
	OpenRead() (FileStream, error)
	OpenWrite() (FileStream, error)
	Create() (FileStream, error)
}

// DirectoryInfo is a handle on a directory path.
type DirectoryInfo interface {
	FileSystemInfo

	Parent() (DirectoryInfo, bool)
	Root() DirectoryInfo
	Create() error
	CreateSubdirectory(path string) (DirectoryInfo, error)
	DeleteRecursive() error
	MoveTo(dst string) error

	GetFiles(pattern string, opt SearchOption) ([]FileInfo, error)
	GetDirectories(pattern string, opt SearchOption) ([]DirectoryInfo, error)
	GetFileSystemInfos(pattern string, opt SearchOption) ([]FileSystemInfo, error)

	EnumerateFiles(pattern string, opt SearchOption) (iter.Seq[FileInfo], error)
	EnumerateDirectories(pattern string, opt SearchOption) (iter.Seq[DirectoryInfo], error)
	EnumerateFileSystemInfos(pattern string, opt SearchOption) (iter.Seq[FileSystemInfo], error)
}

// DriveInfo describes a drive root.
type DriveInfo interface {
	Name() string
	RootDirectory() DirectoryInfo
	IsReady() bool
	VolumeLabel() string
	TotalSize() int64
	UsedSize() int64
}

// FileInfoFactory wraps paths into file handles.
type FileInfoFactory interface {
	FromFileName(name string) (FileInfo, error)
}

// DirectoryInfoFactory wraps paths into directory handles.
type DirectoryInfoFactory interface {
	FromDirectoryName(name string) (DirectoryInfo, error)
}

// DriveInfoFactory lists and wraps drives.
type DriveInfoFactory interface {
	GetDrives() []DriveInfo
	FromDriveName(name string) (DriveInfo, error)
}
