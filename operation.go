package iomock

import "strings"

// Operation identifies a mock filesystem operation for counting and fault injection.
type Operation int

const (
	// InvalidOperation is an invalid operation.
	InvalidOperation Operation = iota - 1

	OpUnknown // OpUnknown matches every operation when used in an error rule.

	OpStat            // OpStat represents existence probes and Stat calls.
	OpOpen            // OpOpen represents opening a stream.
	OpRead            // OpRead represents whole-file reads.
	OpWrite           // OpWrite represents whole-file writes.
	OpAppend          // OpAppend represents whole-file appends.
	OpCopy            // OpCopy represents File.Copy.
	OpMove            // OpMove represents File.Move.
	OpDelete          // OpDelete represents File.Delete.
	OpGetAttributes   // OpGetAttributes represents attribute and timestamp reads.
	OpSetAttributes   // OpSetAttributes represents attribute and timestamp writes.
	OpCreateDirectory // OpCreateDirectory represents Directory.CreateDirectory.
	OpDeleteDirectory // OpDeleteDirectory represents Directory.Delete.
	OpMoveDirectory   // OpMoveDirectory represents Directory.Move.
	OpEnumerate       // OpEnumerate represents directory listings.
	OpStreamRead      // OpStreamRead represents Read on an open stream.
	OpStreamWrite     // OpStreamWrite represents Write on an open stream.
	OpClose           // OpClose represents closing a stream.

	// NumOperations is the number of available operations.
	NumOperations
)

// operationNames maps each operation to a human-readable string.
var operationNames = map[Operation]string{
	InvalidOperation:  "Invalid",
	OpUnknown:         "Unknown",
	OpStat:            "Stat",
	OpOpen:            "Open",
	OpRead:            "Read",
	OpWrite:           "Write",
	OpAppend:          "Append",
	OpCopy:            "Copy",
	OpMove:            "Move",
	OpDelete:          "Delete",
	OpGetAttributes:   "GetAttributes",
	OpSetAttributes:   "SetAttributes",
	OpCreateDirectory: "CreateDirectory",
	OpDeleteDirectory: "DeleteDirectory",
	OpMoveDirectory:   "MoveDirectory",
	OpEnumerate:       "Enumerate",
	OpStreamRead:      "StreamRead",
	OpStreamWrite:     "StreamWrite",
	OpClose:           "Close",
}

// IsValid returns true if the operation is a concrete operation.
func (op Operation) IsValid() bool {
	return op > OpUnknown && op < NumOperations
}

// String returns a human-readable string representation of the operation.
func (op Operation) String() string {
	if !op.IsValid() && op != OpUnknown {
		return operationNames[InvalidOperation]
	}

	return operationNames[op]
}

// StringToOperation converts a string to an Operation, ignoring case.
// It returns InvalidOperation if the string does not name an operation.
func StringToOperation(s string) Operation {
	for op := OpUnknown; op < NumOperations; op++ {
		if strings.EqualFold(operationNames[op], s) {
			return op
		}
	}

	return InvalidOperation
}
