package iomock

import (
	"errors"
	"fmt"
	"io/fs"
)

// ErrorKind classifies the failures reported by the mock filesystem.
// The kinds line up with the exception families raised by the host APIs
// the mock stands in for.
type ErrorKind int

const (
	KindArgumentNull      ErrorKind = iota + 1 // KindArgumentNull reports a required argument that was nil.
	KindArgumentInvalid                        // KindArgumentInvalid reports an empty, blank or malformed argument.
	KindUnsupportedFormat                      // KindUnsupportedFormat reports a misplaced drive separator.
	KindFileNotFound                           // KindFileNotFound reports a missing file entry.
	KindDirectoryNotFound                      // KindDirectoryNotFound reports a missing directory segment.
	KindAlreadyExists                          // KindAlreadyExists reports a destination that already exists.
	KindIO                                     // KindIO reports any other I/O rule violation.
	KindAccessDenied                           // KindAccessDenied reports a mutation of a read-only or hidden entry.
	KindSharingViolation                       // KindSharingViolation reports a conflict with a sharing mode.
)

var kindNames = map[ErrorKind]string{
	KindArgumentNull:      "ArgumentNull",
	KindArgumentInvalid:   "ArgumentInvalid",
	KindUnsupportedFormat: "UnsupportedFormat",
	KindFileNotFound:      "FileNotFound",
	KindDirectoryNotFound: "DirectoryNotFound",
	KindAlreadyExists:     "AlreadyExists",
	KindIO:                "IO",
	KindAccessDenied:      "AccessDenied",
	KindSharingViolation:  "SharingViolation",
}

// String returns the name of the kind.
func (k ErrorKind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("ErrorKind(%d)", int(k))
}

func (k ErrorKind) isIO() bool {
	switch k {
	case KindFileNotFound, KindDirectoryNotFound, KindAlreadyExists, KindIO, KindSharingViolation:
		return true
	}
	return false
}

// Sentinel errors, one per kind.
// Errors returned by the mock can be tested against these using [errors.Is].
var (
	ErrArgumentNull      = errors.New("argument is nil")                 // ErrArgumentNull matches KindArgumentNull.
	ErrArgumentInvalid   = errors.New("argument is invalid")             // ErrArgumentInvalid matches KindArgumentInvalid.
	ErrUnsupportedFormat = errors.New("path format is not supported")    // ErrUnsupportedFormat matches KindUnsupportedFormat.
	ErrFileNotFound      = errors.New("file not found")                  // ErrFileNotFound matches KindFileNotFound.
	ErrDirectoryNotFound = errors.New("directory not found")             // ErrDirectoryNotFound matches KindDirectoryNotFound.
	ErrAlreadyExists     = errors.New("already exists")                  // ErrAlreadyExists matches KindAlreadyExists.
	ErrIO                = errors.New("i/o error")                       // ErrIO matches KindIO and every other I/O kind.
	ErrAccessDenied      = errors.New("access denied")                   // ErrAccessDenied matches KindAccessDenied.
	ErrSharingViolation  = errors.New("file is used by another process") // ErrSharingViolation matches KindSharingViolation.
)

var kindSentinels = map[ErrorKind]error{
	KindArgumentNull:      ErrArgumentNull,
	KindArgumentInvalid:   ErrArgumentInvalid,
	KindUnsupportedFormat: ErrUnsupportedFormat,
	KindFileNotFound:      ErrFileNotFound,
	KindDirectoryNotFound: ErrDirectoryNotFound,
	KindAlreadyExists:     ErrAlreadyExists,
	KindIO:                ErrIO,
	KindAccessDenied:      ErrAccessDenied,
	KindSharingViolation:  ErrSharingViolation,
}

// Message templates. Callers of the real APIs assert on this text, so it
// must not change.
const (
	msgValueNull          = "Value cannot be null."
	msgEmptyFileName      = "Empty file name is not legal."
	msgNotLegalForm       = "The path is not of a legal form."
	msgIllegalCharacters  = "Illegal characters in path."
	msgFormatNotSupported = "The given path's format is not supported."
	msgBadUNC             = `The UNC path should be of the form \\server\share.`
	msgSearchPatternUp    = `Search pattern cannot contain ".." to move up directories and can be contained only internally in file/directory names, as in "a..b".`
	msgFileNotFound       = "Could not find file '%s'."
	msgPartNotFound       = "Could not find a part of the path '%s'."
	msgPartNotFoundBare   = "Could not find a part of the path."
	msgFileExists         = "The file '%s' already exists."
	msgMoveTargetExists   = "A file can not be created if it already exists."
	msgMoveSourceMissing  = `The file "%s" could not be found.`
	msgCannotCreate       = "Cannot create '%s' because a file or directory with the same name already exists."
	msgAccessDenied       = "Access to the path '%s' is denied."
	msgInUse              = "The process cannot access the file '%s' because it is being used by another process."
	msgInUseBare          = "The process cannot access the file because it is being used by another process."
	msgDirNotEmpty        = "The directory is not empty."
	msgDirNameInvalid     = "The directory name is invalid."
	msgSameSourceDest     = "Source and destination path must be different."
	msgDifferentRoots     = "Source and destination path must have identical roots. Move will not work across volumes."
	msgDriveName          = "Drive name must be a root directory ('C:\\') or a drive letter ('C')."
	msgStreamClosed       = "Cannot access a closed file."
	msgStreamNoRead       = "Stream does not support reading."
	msgStreamNoWrite      = "Stream does not support writing."
	msgInvalidCombination = "Combining FileMode: %s with FileAccess: %s is invalid."
	msgNegativeSeek       = "An attempt was made to move the position before the beginning of the stream."
	msgEnumOutOfRange     = "Enum value was out of legal range."
	msgNotSubdir          = "The directory specified, '%s', is not a subdirectory of '%s'."
	msgAppendSeek         = "Unable seek backward to overwrite data that previously existed in a file opened in Append mode."
)

// Error is the error type returned by every mock filesystem operation.
// Error() yields the message alone, matching the text the host APIs
// produce; the remaining fields carry structured context.
type Error struct {
	Kind  ErrorKind // Kind classifies the failure.
	Op    string    // Op is the operation that failed, e.g. "Copy".
	Path  string    // Path is the offending path, if any.
	Param string    // Param names the offending argument, if any.
	Msg   string    // Msg is the exact message text.
}

// Error returns the message text.
func (e *Error) Error() string {
	return e.Msg
}

// Is reports whether target is the sentinel of e's kind, a broader
// sentinel that covers it, or the matching [io/fs] error.
func (e *Error) Is(target error) bool {
	if target == nil {
		return false
	}
	if s, ok := kindSentinels[e.Kind]; ok && s == target {
		return true
	}

	switch target {
	case ErrIO:
		return e.Kind.isIO()
	case fs.ErrNotExist:
		return e.Kind == KindFileNotFound || e.Kind == KindDirectoryNotFound
	case fs.ErrExist:
		return e.Kind == KindAlreadyExists
	case fs.ErrPermission:
		return e.Kind == KindAccessDenied || e.Kind == KindSharingViolation
	case fs.ErrInvalid:
		return e.Kind == KindArgumentNull || e.Kind == KindArgumentInvalid || e.Kind == KindUnsupportedFormat
	}

	return false
}

// KindOf returns the kind of err if it is, or wraps, an *Error.
func KindOf(err error) (ErrorKind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return 0, false
}

func newError(kind ErrorKind, path, msg string) *Error {
	return &Error{Kind: kind, Path: path, Msg: msg}
}

func argumentNull(param, msg string) *Error {
	return &Error{Kind: KindArgumentNull, Param: param, Msg: msg}
}

func argumentInvalid(param, path, msg string) *Error {
	return &Error{Kind: KindArgumentInvalid, Param: param, Path: path, Msg: msg}
}

func unsupportedFormat(path string) *Error {
	return newError(KindUnsupportedFormat, path, msgFormatNotSupported)
}

func fileNotFound(path string) *Error {
	return newError(KindFileNotFound, path, fmt.Sprintf(msgFileNotFound, path))
}

func directoryNotFound(path string) *Error {
	return newError(KindDirectoryNotFound, path, fmt.Sprintf(msgPartNotFound, path))
}

func accessDenied(path string) *Error {
	return newError(KindAccessDenied, path, fmt.Sprintf(msgAccessDenied, path))
}

func sharingViolation(path string) *Error {
	return newError(KindSharingViolation, path, fmt.Sprintf(msgInUse, path))
}

func ioError(path, msg string) *Error {
	return newError(KindIO, path, msg)
}

// withOp returns a copy of err stamped with the failing operation when err
// is an unstamped *Error. Wrapped errors are left alone.
func withOp(op Operation, err error) error {
	e, ok := err.(*Error)
	if !ok || e.Op != "" {
		return err
	}
	stamped := *e
	stamped.Op = op.String()
	return &stamped
}
