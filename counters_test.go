package iomock_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/balinomad/go-iomock"
)

func TestCountersThroughFileSystem(t *testing.T) {
	t.Parallel()

	mfs := newWindowsFS(t, map[string]*iomock.FileData{
		`C:\a.txt`: iomock.NewTextFileData("a"),
	})
	f := mfs.File()

	_, err := f.ReadAllText(`C:\a.txt`)
	require.NoError(t, err)
	_, err = f.ReadAllText(`C:\missing.txt`)
	require.Error(t, err)
	_, err = f.ReadAllText("")
	require.Error(t, err)
	require.NoError(t, f.WriteAllText(`C:\b.txt`, "b"))

	c := mfs.Counters()
	assert.Equal(t, 3, c.Count(iomock.OpRead))
	assert.Equal(t, 2, c.Failures(iomock.OpRead))
	assert.Equal(t, 1, c.Successes(iomock.OpRead))
	assert.Equal(t, 1, c.Count(iomock.OpWrite))
	assert.Equal(t, 4, c.Total())

	snap := c.Snapshot()
	assert.Equal(t, 3, snap[iomock.OpRead])

	require.NoError(t, f.Delete(`C:\b.txt`))
	assert.Equal(t, 4, c.Total(), "Counters returns a copy")
	assert.Equal(t, 5, mfs.Counters().Total())

	mfs.ResetCounters()
	assert.Zero(t, mfs.Counters().Total())
}

func TestCountersInvalidOperations(t *testing.T) {
	t.Parallel()

	c := iomock.NewCounters()
	assert.Zero(t, c.Count(iomock.InvalidOperation))
	assert.Zero(t, c.Count(iomock.OpUnknown))
	assert.Zero(t, c.Failures(iomock.NumOperations))
	assert.Zero(t, c.Successes(iomock.InvalidOperation))
}

func TestCountersCloneAndEqual(t *testing.T) {
	t.Parallel()

	mfs := newWindowsFS(t, nil)
	assert.True(t, mfs.Counters().Equal(iomock.NewCounters()))

	_ = mfs.File().Exists(`C:\x`)
	require.NoError(t, mfs.AddDirectory(`C:\d`))
	_, err := mfs.Directory().GetFiles(`C:\d`, "*", iomock.TopDirectoryOnly)
	require.NoError(t, err)

	a := mfs.Counters()
	b := a.Clone()
	assert.True(t, a.Equal(b))
	assert.True(t, a.Equal(a))
	assert.False(t, a.Equal(iomock.NewCounters()))

	b.ResetAll()
	assert.False(t, a.Equal(b))
	assert.Equal(t, 1, a.Count(iomock.OpEnumerate))
}

func TestCountersConcurrent(t *testing.T) {
	t.Parallel()

	mfs := newWindowsFS(t, map[string]*iomock.FileData{
		`C:\shared.txt`: iomock.NewTextFileData("x"),
	})

	const workers, reads = 8, 50

	var g errgroup.Group
	for range workers {
		g.Go(func() error {
			for range reads {
				if _, err := mfs.File().ReadAllText(`C:\shared.txt`); err != nil {
					return err
				}
			}
			return nil
		})
	}
	require.NoError(t, g.Wait())

	assert.Equal(t, workers*reads, mfs.Counters().Count(iomock.OpRead))
}
