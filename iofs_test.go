package iomock_test

import (
	"errors"
	"io"
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/balinomad/go-iomock"
)

func newSiteFS(t *testing.T) (*iomock.MockFileSystem, *iomock.DirFS) {
	t.Helper()

	mfs := newWindowsFS(t, map[string]*iomock.FileData{
		`C:\site\index.html`:   iomock.NewTextFileData("hi"),
		`C:\site\css\main.css`: iomock.NewTextFileData("body"),
		`C:\site\img`:          iomock.NewDirectoryData(),
		`C:\outside.txt`:       iomock.NewTextFileData("secret"),
	})
	fsys, err := mfs.DirFS(`C:\site`)
	require.NoError(t, err)
	return mfs, fsys
}

func TestDirFSReadFile(t *testing.T) {
	t.Parallel()

	mfs, fsys := newSiteFS(t)

	b, err := fs.ReadFile(fsys, "index.html")
	require.NoError(t, err)
	assert.Equal(t, "hi", string(b))

	b, err = fs.ReadFile(fsys, "css/main.css")
	require.NoError(t, err)
	assert.Equal(t, "body", string(b))

	b, err = fs.ReadFile(fsys, "INDEX.HTML")
	require.NoError(t, err, "names follow the platform comparer")
	assert.Equal(t, "hi", string(b))

	assert.Equal(t, 3, mfs.Counters().Count(iomock.OpRead))
}

func TestDirFSReadDir(t *testing.T) {
	t.Parallel()

	_, fsys := newSiteFS(t)

	entries, err := fs.ReadDir(fsys, ".")
	require.NoError(t, err)

	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	assert.Equal(t, []string{"css", "img", "index.html"}, names)
	assert.True(t, entries[0].IsDir())
	assert.False(t, entries[2].IsDir())

	info, err := entries[2].Info()
	require.NoError(t, err)
	assert.Equal(t, int64(2), info.Size())

	empty, err := fs.ReadDir(fsys, "img")
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestDirFSWalk(t *testing.T) {
	t.Parallel()

	_, fsys := newSiteFS(t)

	var walked []string
	err := fs.WalkDir(fsys, ".", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		walked = append(walked, path)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []string{".", "css", "css/main.css", "img", "index.html"}, walked)

	matches, err := fs.Glob(fsys, "*/*.css")
	require.NoError(t, err)
	assert.Equal(t, []string{"css/main.css"}, matches)
}

func TestDirFSStat(t *testing.T) {
	t.Parallel()

	_, fsys := newSiteFS(t)

	fi, err := fs.Stat(fsys, "css/main.css")
	require.NoError(t, err)
	assert.Equal(t, "main.css", fi.Name())
	assert.Equal(t, int64(4), fi.Size())
	assert.False(t, fi.IsDir())

	fi, err = fs.Stat(fsys, "css")
	require.NoError(t, err)
	assert.True(t, fi.IsDir())
}

func TestDirFSSub(t *testing.T) {
	t.Parallel()

	_, fsys := newSiteFS(t)

	sub, err := fs.Sub(fsys, "css")
	require.NoError(t, err)

	b, err := fs.ReadFile(sub, "main.css")
	require.NoError(t, err)
	assert.Equal(t, "body", string(b))

	_, err = fs.Sub(fsys, "nope")
	assert.ErrorIs(t, err, fs.ErrNotExist)
}

func TestDirFSOpen(t *testing.T) {
	t.Parallel()

	mfs, fsys := newSiteFS(t)

	t.Run("file", func(t *testing.T) {
		f, err := fsys.Open("index.html")
		require.NoError(t, err)
		defer f.Close()

		b, err := io.ReadAll(f)
		require.NoError(t, err)
		assert.Equal(t, "hi", string(b))

		st, err := f.Stat()
		require.NoError(t, err)
		assert.Equal(t, "index.html", st.Name())
	})

	t.Run("directory", func(t *testing.T) {
		f, err := fsys.Open(".")
		require.NoError(t, err)
		defer f.Close()

		dir, ok := f.(fs.ReadDirFile)
		require.True(t, ok)

		for _, want := range []string{"css", "img", "index.html"} {
			got, err := dir.ReadDir(1)
			require.NoError(t, err)
			require.Len(t, got, 1)
			assert.Equal(t, want, got[0].Name())
		}
		_, err = dir.ReadDir(1)
		assert.ErrorIs(t, err, io.EOF)

		rest, err := dir.ReadDir(-1)
		require.NoError(t, err)
		assert.Empty(t, rest)

		_, err = f.Read(make([]byte, 1))
		assert.ErrorIs(t, err, fs.ErrInvalid)
	})

	t.Run("locked file", func(t *testing.T) {
		s, err := mfs.File().Open(`C:\site\index.html`, iomock.ModeOpen, iomock.AccessWrite, iomock.ShareNone)
		require.NoError(t, err)
		defer s.Close()

		_, err = fsys.Open("index.html")
		assert.ErrorIs(t, err, fs.ErrPermission)
	})
}

func TestDirFSErrors(t *testing.T) {
	t.Parallel()

	mfs, fsys := newSiteFS(t)

	tests := []struct {
		name   string
		target error
	}{
		{"../outside.txt", fs.ErrInvalid},
		{"/outside.txt", fs.ErrInvalid},
		{"css/", fs.ErrInvalid},
		{`css\main.css`, fs.ErrInvalid},
		{"c:main.css", fs.ErrInvalid},
		{"missing.txt", fs.ErrNotExist},
		{"missing/file.txt", fs.ErrNotExist},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := fsys.Open(tt.name)
			assert.ErrorIs(t, err, tt.target)

			var pe *fs.PathError
			require.True(t, errors.As(err, &pe))
			assert.Equal(t, "open", pe.Op)
			assert.Equal(t, tt.name, pe.Path)

			_, err = fs.ReadFile(fsys, tt.name)
			assert.ErrorIs(t, err, tt.target)
		})
	}

	_, err := mfs.DirFS(`C:\nope`)
	requireKind(t, err, iomock.KindDirectoryNotFound)

	_, err = mfs.DirFS(`C:\outside.txt`)
	requireKind(t, err, iomock.KindDirectoryNotFound)
}
