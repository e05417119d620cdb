package iomock

import (
	"strings"
)

// driveCapacity is the size every emulated drive reports.
const driveCapacity int64 = 1 << 40

// Drive is a DriveInfo for one root of a MockFileSystem.
type Drive struct {
	fs   *MockFileSystem
	root string
}

var _ DriveInfo = (*Drive)(nil)

// Name returns the canonical root, such as "C:\" or "/".
func (d *Drive) Name() string {
	return d.root
}

func (d *Drive) RootDirectory() DirectoryInfo {
	return newDirectoryHandle(d.fs, d.root)
}

// IsReady reports whether the root exists in the store.
func (d *Drive) IsReady() bool {
	return d.fs.directory.Exists(d.root)
}

// VolumeLabel returns the label of the drive, which is always empty.
func (d *Drive) VolumeLabel() string {
	return ""
}

func (d *Drive) TotalSize() int64 {
	return driveCapacity
}

// UsedSize sums the content length of every file on the drive. Lazy
// content is materialized; files whose supplier fails count as empty.
func (d *Drive) UsedSize() int64 {
	m := d.fs

	var used int64
	for _, e := range m.store.Enumerate() {
		if e.Data.IsDirectory() || !m.cmp.Equal(m.norm.Root(e.Path), d.root) {
			continue
		}
		if n, err := e.Data.Length(); err == nil {
			used += n
		}
	}
	return used
}

type driveInfoFactory struct {
	fs *MockFileSystem
}

// GetDrives returns a Drive for every drive root in the store.
func (f driveInfoFactory) GetDrives() []DriveInfo {
	var out []DriveInfo
	for _, root := range f.fs.directory.GetLogicalDrives() {
		out = append(out, &Drive{fs: f.fs, root: root})
	}
	return out
}

// FromDriveName returns the drive named by a letter ("c"), a drive prefix
// ("c:") or a drive root ("c:\"). UNC names are rejected. On POSIX the
// only drive is "/".
func (f driveInfoFactory) FromDriveName(name string) (DriveInfo, error) {
	m := f.fs

	if m.platform != PlatformWindows {
		if name != "/" {
			return nil, argumentInvalid("driveName", name, msgDriveName)
		}
		return &Drive{fs: m, root: "/"}, nil
	}

	valid := false
	switch len(name) {
	case 1:
		valid = isASCIILetter(name[0])
	case 2:
		valid = m.platform.hasDrivePrefix(name)
	case 3:
		valid = m.platform.hasDrivePrefix(name) && m.platform.isSeparator(name[2])
	}
	if !valid {
		return nil, argumentInvalid("driveName", name, msgDriveName)
	}

	return &Drive{fs: m, root: strings.ToUpper(name[:1]) + `:\`}, nil
}
