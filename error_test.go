package iomock_test

import (
	"errors"
	"fmt"
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/balinomad/go-iomock"
)

func TestErrorIs(t *testing.T) {
	t.Parallel()

	tests := []struct {
		kind  iomock.ErrorKind
		is    []error
		isNot []error
	}{
		{
			kind:  iomock.KindArgumentNull,
			is:    []error{iomock.ErrArgumentNull, fs.ErrInvalid},
			isNot: []error{iomock.ErrArgumentInvalid, iomock.ErrIO},
		},
		{
			kind:  iomock.KindArgumentInvalid,
			is:    []error{iomock.ErrArgumentInvalid, fs.ErrInvalid},
			isNot: []error{iomock.ErrIO, fs.ErrNotExist},
		},
		{
			kind:  iomock.KindUnsupportedFormat,
			is:    []error{iomock.ErrUnsupportedFormat, fs.ErrInvalid},
			isNot: []error{iomock.ErrIO},
		},
		{
			kind:  iomock.KindFileNotFound,
			is:    []error{iomock.ErrFileNotFound, iomock.ErrIO, fs.ErrNotExist},
			isNot: []error{iomock.ErrDirectoryNotFound, fs.ErrExist},
		},
		{
			kind:  iomock.KindDirectoryNotFound,
			is:    []error{iomock.ErrDirectoryNotFound, iomock.ErrIO, fs.ErrNotExist},
			isNot: []error{iomock.ErrFileNotFound},
		},
		{
			kind:  iomock.KindAlreadyExists,
			is:    []error{iomock.ErrAlreadyExists, iomock.ErrIO, fs.ErrExist},
			isNot: []error{fs.ErrNotExist},
		},
		{
			kind:  iomock.KindIO,
			is:    []error{iomock.ErrIO},
			isNot: []error{fs.ErrNotExist, fs.ErrPermission},
		},
		{
			kind:  iomock.KindAccessDenied,
			is:    []error{iomock.ErrAccessDenied, fs.ErrPermission},
			isNot: []error{iomock.ErrIO},
		},
		{
			kind:  iomock.KindSharingViolation,
			is:    []error{iomock.ErrSharingViolation, iomock.ErrIO, fs.ErrPermission},
			isNot: []error{iomock.ErrAccessDenied},
		},
	}

	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			err := error(&iomock.Error{Kind: tt.kind, Msg: "boom"})
			wrapped := fmt.Errorf("context: %w", err)

			for _, target := range tt.is {
				assert.ErrorIs(t, err, target)
				assert.ErrorIs(t, wrapped, target)
			}
			for _, target := range tt.isNot {
				assert.NotErrorIs(t, err, target)
			}
			assert.False(t, errors.Is(err, nil))
		})
	}
}

func TestErrorKindOf(t *testing.T) {
	t.Parallel()

	kind, ok := iomock.KindOf(fmt.Errorf("wrapped: %w", &iomock.Error{Kind: iomock.KindIO}))
	assert.True(t, ok)
	assert.Equal(t, iomock.KindIO, kind)

	_, ok = iomock.KindOf(errors.New("plain"))
	assert.False(t, ok)

	_, ok = iomock.KindOf(nil)
	assert.False(t, ok)

	assert.Equal(t, "SharingViolation", iomock.KindSharingViolation.String())
	assert.Equal(t, "ErrorKind(99)", iomock.ErrorKind(99).String())
}

func TestErrorFieldsFromOperations(t *testing.T) {
	t.Parallel()

	mfs := newWindowsFS(t, map[string]*iomock.FileData{
		`C:\a.txt`: iomock.NewTextFileData("a"),
	})

	t.Run("not found", func(t *testing.T) {
		_, err := mfs.File().ReadAllText(`C:\missing.txt`)
		requireFailure(t, err, iomock.KindFileNotFound, `Could not find file 'C:\missing.txt'.`)

		var e *iomock.Error
		require.ErrorAs(t, err, &e)
		assert.Equal(t, "Read", e.Op)
		assert.Equal(t, `C:\missing.txt`, e.Path)
	})

	t.Run("argument", func(t *testing.T) {
		err := mfs.File().Copy(`C:\a.txt`, "", false)
		requireKind(t, err, iomock.KindArgumentInvalid)

		var e *iomock.Error
		require.ErrorAs(t, err, &e)
		assert.Equal(t, "Copy", e.Op)
		assert.Equal(t, "destFileName", e.Param)
	})

	t.Run("exists", func(t *testing.T) {
		err := mfs.File().Copy(`C:\a.txt`, `C:\a.txt`, false)
		requireFailure(t, err, iomock.KindAlreadyExists, `The file 'C:\a.txt' already exists.`)
		assert.ErrorIs(t, err, iomock.ErrIO)
		assert.ErrorIs(t, err, fs.ErrExist)
	})

	t.Run("each failure is stamped separately", func(t *testing.T) {
		_, first := mfs.File().ReadAllText(`C:\gone.txt`)
		_, second := mfs.File().ReadAllBytes(`C:\gone.txt`)

		var a, b *iomock.Error
		require.ErrorAs(t, first, &a)
		require.ErrorAs(t, second, &b)
		assert.NotSame(t, a, b)
		assert.Equal(t, "Read", a.Op)
	})

	t.Run("injected errors pass through unchanged", func(t *testing.T) {
		mfs := newWindowsFS(t, nil)
		mfs.Injector().AddAll(iomock.OpWrite, errDisk, iomock.ErrorModeAlways, 0)

		err := mfs.File().WriteAllText(`C:\x.txt`, "x")
		assert.Same(t, errDisk, err)
		_, ok := iomock.KindOf(err)
		assert.False(t, ok)
	})
}
