package iomock_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/balinomad/go-iomock"
)

func TestOperationString(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		op   iomock.Operation
		want string
	}{
		{"stat", iomock.OpStat, "Stat"},
		{"open", iomock.OpOpen, "Open"},
		{"copy", iomock.OpCopy, "Copy"},
		{"move directory", iomock.OpMoveDirectory, "MoveDirectory"},
		{"stream write", iomock.OpStreamWrite, "StreamWrite"},
		{"close", iomock.OpClose, "Close"},
		{"unknown", iomock.OpUnknown, "Unknown"},
		{"out of range", iomock.NumOperations, "Invalid"},
		{"invalid", iomock.InvalidOperation, "Invalid"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.op.String())
		})
	}
}

func TestOperationIsValid(t *testing.T) {
	t.Parallel()

	assert.False(t, iomock.InvalidOperation.IsValid())
	assert.False(t, iomock.OpUnknown.IsValid())
	assert.False(t, iomock.NumOperations.IsValid())
	for op := iomock.OpStat; op < iomock.NumOperations; op++ {
		assert.True(t, op.IsValid(), op.String())
		assert.NotEqual(t, "Invalid", op.String())
	}
}

func TestStringToOperation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want iomock.Operation
	}{
		{"Read", iomock.OpRead},
		{"read", iomock.OpRead},
		{"CREATEDIRECTORY", iomock.OpCreateDirectory},
		{"Unknown", iomock.OpUnknown},
		{"Invalid", iomock.InvalidOperation},
		{"Mkdir", iomock.InvalidOperation},
		{"", iomock.InvalidOperation},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, iomock.StringToOperation(tt.in))
		})
	}

	for op := iomock.OpStat; op < iomock.NumOperations; op++ {
		assert.Equal(t, op, iomock.StringToOperation(op.String()))
	}
}
