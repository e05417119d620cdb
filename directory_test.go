package iomock_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/balinomad/go-iomock"
)

func TestDirectoryCreate(t *testing.T) {
	t.Parallel()

	mfs := newWindowsFS(t, map[string]*iomock.FileData{
		`C:\f.txt`: iomock.NewTextFileData("x"),
	})
	d := mfs.Directory()

	info, err := d.CreateDirectory(`C:\a\b\c`)
	require.NoError(t, err)
	assert.Equal(t, `C:\a\b\c`, info.FullName())
	assert.Equal(t, "c", info.Name())
	assert.True(t, info.Exists())
	assert.True(t, d.Exists(`C:\a\b`))

	_, err = d.CreateDirectory(`c:\A\B\C`)
	require.NoError(t, err, "creating an existing directory is not an error")
	assert.Equal(t, []string{`C:\`, `C:\a`, `C:\a\b`, `C:\a\b\c`}, mfs.AllDirectories())

	_, err = d.CreateDirectory(`C:\f.txt`)
	requireFailure(t, err, iomock.KindAlreadyExists,
		`Cannot create 'C:\f.txt' because a file or directory with the same name already exists.`)

	_, err = d.CreateDirectory(`C:\f.txt\sub`)
	requireFailure(t, err, iomock.KindAlreadyExists,
		`Cannot create 'C:\f.txt' because a file or directory with the same name already exists.`)

	_, err = d.CreateDirectory("")
	requireKind(t, err, iomock.KindArgumentInvalid)
}

func TestDirectoryExists(t *testing.T) {
	t.Parallel()

	mfs := newWindowsFS(t, map[string]*iomock.FileData{
		`C:\dir\f.txt`: iomock.NewTextFileData("x"),
	})
	d := mfs.Directory()

	assert.True(t, d.Exists(`C:\dir`))
	assert.True(t, d.Exists(`C:\DIR\`))
	assert.True(t, d.Exists(`C:\`))
	assert.False(t, d.Exists(`C:\dir\f.txt`))
	assert.False(t, d.Exists(`C:\nope`))
	assert.False(t, d.Exists(""))
}

func TestDirectoryDelete(t *testing.T) {
	t.Parallel()

	seed := func() map[string]*iomock.FileData {
		return map[string]*iomock.FileData{
			`C:\empty`:          iomock.NewDirectoryData(),
			`C:\tree\a.txt`:     iomock.NewTextFileData("a"),
			`C:\tree\sub\b.txt`: iomock.NewTextFileData("b"),
			`C:\guarded\ok.txt`: iomock.NewTextFileData("ok"),
			`C:\guarded\ro.txt`: iomock.NewTextFileData("ro").WithAttributes(iomock.AttrReadOnly),
			`C:\rodir`:          iomock.NewDirectoryData().WithAttributes(iomock.AttrReadOnly),
			`C:\f.txt`:          iomock.NewTextFileData("f"),
		}
	}

	t.Run("empty", func(t *testing.T) {
		mfs := newWindowsFS(t, seed())
		require.NoError(t, mfs.Directory().Delete(`C:\empty`, false))
		assert.False(t, mfs.Directory().Exists(`C:\empty`))
	})

	t.Run("recursive", func(t *testing.T) {
		mfs := newWindowsFS(t, seed())
		require.NoError(t, mfs.Directory().Delete(`C:\tree`, true))
		for _, p := range []string{`C:\tree`, `C:\tree\a.txt`, `C:\tree\sub`, `C:\tree\sub\b.txt`} {
			assert.False(t, mfs.Exists(p), p)
		}
	})

	t.Run("nothing removed when one entry is protected", func(t *testing.T) {
		mfs := newWindowsFS(t, seed())
		before := mfs.AllPaths()

		err := mfs.Directory().Delete(`C:\guarded`, true)
		requireFailure(t, err, iomock.KindAccessDenied, `Access to the path 'C:\guarded\ro.txt' is denied.`)
		assert.Equal(t, before, mfs.AllPaths())
	})

	tests := []struct {
		name      string
		path      string
		recursive bool
		kind      iomock.ErrorKind
		msg       string
	}{
		{"not empty", `C:\tree`, false, iomock.KindIO, "The directory is not empty."},
		{"missing", `C:\nope`, true, iomock.KindDirectoryNotFound, `Could not find a part of the path 'C:\nope'.`},
		{"file", `C:\f.txt`, false, iomock.KindIO, "The directory name is invalid."},
		{"root", `C:\`, true, iomock.KindAccessDenied, `Access to the path 'C:\' is denied.`},
		{"read-only", `C:\rodir`, false, iomock.KindAccessDenied, `Access to the path 'C:\rodir' is denied.`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mfs := newWindowsFS(t, seed())
			err := mfs.Directory().Delete(tt.path, tt.recursive)
			requireFailure(t, err, tt.kind, tt.msg)
		})
	}
}

func TestDirectoryMove(t *testing.T) {
	t.Parallel()

	seed := func() map[string]*iomock.FileData {
		return map[string]*iomock.FileData{
			`C:\src\a.txt`:     iomock.NewTextFileData("a"),
			`C:\src\sub\b.txt`: iomock.NewTextFileData("b"),
			`C:\taken`:         iomock.NewDirectoryData(),
			`C:\dest`:          iomock.NewDirectoryData(),
			`C:\f.txt`:         iomock.NewTextFileData("f"),
			`D:\other`:         iomock.NewDirectoryData(),
		}
	}

	t.Run("re-keys the subtree", func(t *testing.T) {
		mfs := newWindowsFS(t, seed())
		require.NoError(t, mfs.Directory().Move(`C:\src`, `C:\dest\moved`))

		assert.False(t, mfs.Exists(`C:\src`))
		assert.False(t, mfs.Exists(`C:\src\sub\b.txt`))
		assert.Equal(t, "a", readText(t, mfs, `C:\dest\moved\a.txt`))
		assert.Equal(t, "b", readText(t, mfs, `C:\dest\moved\sub\b.txt`))
		assert.True(t, mfs.Directory().Exists(`C:\dest\moved\sub`))
	})

	t.Run("case only", func(t *testing.T) {
		mfs := newWindowsFS(t, seed())
		require.NoError(t, mfs.Directory().Move(`C:\src`, `C:\SRC`))

		assert.Contains(t, mfs.AllDirectories(), `C:\SRC`)
		assert.Contains(t, mfs.AllFiles(), `C:\SRC\a.txt`)
	})

	t.Run("single file", func(t *testing.T) {
		mfs := newWindowsFS(t, seed())
		require.NoError(t, mfs.Directory().Move(`C:\f.txt`, `C:\g.txt`))
		assert.Equal(t, "f", readText(t, mfs, `C:\g.txt`))
	})

	tests := []struct {
		name     string
		src, dst string
		kind     iomock.ErrorKind
		msg      string
	}{
		{"same path", `C:\src`, `C:\src`, iomock.KindIO, "Source and destination path must be different."},
		{"different roots", `C:\src`, `D:\x`, iomock.KindIO, "Source and destination path must have identical roots. Move will not work across volumes."},
		{"missing source", `C:\nope`, `C:\x`, iomock.KindDirectoryNotFound, `Could not find a part of the path 'C:\nope'.`},
		{"into itself", `C:\src`, `C:\src\sub\x`, iomock.KindSharingViolation, "The process cannot access the file because it is being used by another process."},
		{"existing destination", `C:\src`, `C:\taken`, iomock.KindAlreadyExists, `Cannot create 'C:\taken' because a file or directory with the same name already exists.`},
		{"missing destination parent", `C:\src`, `C:\no\x`, iomock.KindDirectoryNotFound, `Could not find a part of the path 'C:\no\x'.`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mfs := newWindowsFS(t, seed())
			before := mfs.AllPaths()

			err := mfs.Directory().Move(tt.src, tt.dst)
			requireFailure(t, err, tt.kind, tt.msg)
			assert.Equal(t, before, mfs.AllPaths(), "a failed move changes nothing")
		})
	}
}

func TestDirectoryNavigation(t *testing.T) {
	t.Parallel()

	mfs := newWindowsFS(t, map[string]*iomock.FileData{
		`C:\work\sub`:          iomock.NewDirectoryData(),
		`D:\data\x.txt`:        iomock.NewTextFileData("x"),
		`\\srv\share\file.txt`: iomock.NewTextFileData("u"),
	})
	d := mfs.Directory()

	t.Run("parent", func(t *testing.T) {
		p, ok, err := d.GetParent(`C:\work\sub`)
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, `C:\work`, p.FullName())

		_, ok, err = d.GetParent(`C:\`)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("root", func(t *testing.T) {
		root, err := d.GetDirectoryRoot(`C:\work\sub`)
		require.NoError(t, err)
		assert.Equal(t, `C:\`, root)

		root, err = d.GetDirectoryRoot(`\\srv\share\file.txt`)
		require.NoError(t, err)
		assert.Equal(t, `\\srv\share`, root)
	})

	t.Run("logical drives", func(t *testing.T) {
		assert.Equal(t, []string{`C:\`, `D:\`}, d.GetLogicalDrives())
		assert.Equal(t, []string{"/"}, newPOSIXFS(t, nil).Directory().GetLogicalDrives())
	})
}

func TestDirectoryCurrentDirectory(t *testing.T) {
	t.Parallel()

	mfs := newWindowsFS(t, map[string]*iomock.FileData{
		`C:\work\a.txt`: iomock.NewTextFileData("a"),
	})
	d := mfs.Directory()

	assert.Equal(t, `C:\`, d.GetCurrentDirectory())

	require.NoError(t, d.SetCurrentDirectory(`C:\work`))
	assert.Equal(t, `C:\work`, d.GetCurrentDirectory())
	assert.Equal(t, "a", readText(t, mfs, "a.txt"))

	require.NoError(t, d.SetCurrentDirectory(".."))
	assert.Equal(t, `C:\`, mfs.CurrentDirectory())

	err := d.SetCurrentDirectory(`C:\missing`)
	requireFailure(t, err, iomock.KindDirectoryNotFound, `Could not find a part of the path 'C:\missing'.`)
	assert.Equal(t, `C:\`, mfs.CurrentDirectory())
}

func TestDirectoryTimestamps(t *testing.T) {
	t.Parallel()

	mfs := newWindowsFS(t, map[string]*iomock.FileData{
		`C:\ro`: iomock.NewDirectoryData().WithAttributes(iomock.AttrReadOnly),
	})
	d := mfs.Directory()

	when := time.Date(2022, time.July, 7, 7, 7, 7, 0, time.UTC)
	require.NoError(t, d.SetLastWriteTimeUTC(`C:\ro`, when), "read-only directories keep settable times")

	got, err := d.GetLastWriteTimeUTC(`C:\ro`)
	require.NoError(t, err)
	assert.True(t, when.Equal(got))

	info, err := d.CreateDirectory(`C:\fresh`)
	require.NoError(t, err)
	created, err := info.CreationTimeUTC()
	require.NoError(t, err)
	assert.True(t, testNow.Equal(created), "new directories are stamped with the clock")
}
