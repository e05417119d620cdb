package iomock_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/balinomad/go-iomock"
)

// testNow is the clock of every filesystem built by the helpers below.
var testNow = time.Date(2024, time.March, 15, 9, 30, 0, 0, time.UTC)

func fixedClock() time.Time { return testNow }

// newWindowsFS returns a Windows mock seeded with seed, with a fixed clock
// and UTC local time.
func newWindowsFS(t *testing.T, seed map[string]*iomock.FileData, opts ...iomock.Option) *iomock.MockFileSystem {
	t.Helper()

	base := []iomock.Option{
		iomock.WithClock(fixedClock),
		iomock.WithLocation(time.UTC),
	}
	mfs, err := iomock.New(seed, append(base, opts...)...)
	require.NoError(t, err)
	return mfs
}

// newPOSIXFS is newWindowsFS with POSIX path rules.
func newPOSIXFS(t *testing.T, seed map[string]*iomock.FileData, opts ...iomock.Option) *iomock.MockFileSystem {
	t.Helper()

	return newWindowsFS(t, seed, append([]iomock.Option{iomock.WithPlatform(iomock.PlatformPOSIX)}, opts...)...)
}

// requireKind asserts that err is an *iomock.Error of the given kind.
func requireKind(t *testing.T, err error, kind iomock.ErrorKind) {
	t.Helper()

	require.Error(t, err)
	got, ok := iomock.KindOf(err)
	require.True(t, ok, "error %v is not an *iomock.Error", err)
	require.Equal(t, kind, got, "error %q", err)
}

// requireFailure asserts the kind and the exact message of err.
func requireFailure(t *testing.T, err error, kind iomock.ErrorKind, msg string) {
	t.Helper()

	requireKind(t, err, kind)
	require.Equal(t, msg, err.Error())
}

// readText reads a file that is expected to exist.
func readText(t *testing.T, mfs *iomock.MockFileSystem, path string) string {
	t.Helper()

	s, err := mfs.File().ReadAllText(path)
	require.NoError(t, err)
	return s
}

// storedText returns the content of the record at path without going
// through the sharing checks of the File API.
func storedText(t *testing.T, mfs *iomock.MockFileSystem, path string) string {
	t.Helper()

	d, err := mfs.GetFile(path)
	require.NoError(t, err)
	b, err := d.Contents()
	require.NoError(t, err)
	return string(b)
}
