// Package iomock provides an in-memory filesystem that behaves like the
// host OS file APIs, for deterministic, isolated tests of code that
// manipulates files and directories.
//
// Code under test is written against the [FileSystem] interface and its
// File, Directory and Path APIs. In production a pass-through
// implementation forwards to the real OS; in tests a [MockFileSystem]
// stands in for it and reproduces the OS's observable behavior:
//   - Drive letters, UNC roots and case-insensitive names (Windows rules),
//     or a single "/" root and case-sensitive names (POSIX rules).
//   - Read-only and hidden attributes, and timestamps with a zone offset.
//   - Declared sharing modes and open streams that lock each other out.
//   - The same error kinds, with the same message text, that the OS reports.
//
// # Basic Usage
//
// Seed a mock with records keyed by path:
//
//	mfs := iomock.MustNew(map[string]*iomock.FileData{
//	    `C:\app\config.json`: iomock.NewTextFileData(`{"debug":true}`),
//	    `C:\app\logs`:        iomock.NewDirectoryData(),
//	})
//
//	text, err := mfs.File().ReadAllText(`C:\app\config.json`)
//	files, err := mfs.Directory().GetFiles(`C:\app`, "*.json", iomock.TopDirectoryOnly)
//
// Missing ancestors of seeded paths are created. Relative paths resolve
// against the current directory, set with [WithCurrentDirectory].
//
// # Errors
//
// Every failure is an [*Error]. Its Error method returns the OS message
// text verbatim, and its Kind classifies it. Use [errors.Is] with the
// sentinels, or with the matching [io/fs] errors:
//
//	_, err := mfs.File().ReadAllBytes(`C:\missing.txt`)
//	errors.Is(err, iomock.ErrFileNotFound) // true
//	errors.Is(err, fs.ErrNotExist)         // true
//	err.Error()                            // Could not find file 'C:\missing.txt'.
//
// Arguments are validated before anything is looked up, so an illegal
// path always reports an argument error, never a not-found error.
//
// # Sharing
//
// A record's declared [FileShare] says which accesses other openers may
// obtain. Whole-file reads and writes check it as if they opened and
// closed the file; a [Stream] returned by File().Open registers its own
// access and share mode until it is closed:
//
//	s, _ := mfs.File().Open(path, iomock.ModeOpen, iomock.AccessRead, iomock.ShareNone)
//	err := mfs.File().WriteAllText(path, "x") // sharing violation
//	s.Close()
//
// # Fault Injection
//
// Inject errors to simulate I/O failures the mock would not produce on its
// own. Rules match the canonical path of the first path argument:
//
//	inj := mfs.Injector()
//	inj.AddExact(iomock.OpRead, `C:\data.bin`, io.ErrUnexpectedEOF, iomock.ErrorModeAlways, 0)
//	inj.AddGlob(iomock.OpWrite, `C:\logs\*.log`, errDiskFull, iomock.ErrorModeOnce, 0)
//	inj.AddAll(iomock.OpUnknown, errFlaky, iomock.ErrorModeAfterSuccesses, 3)
//
// Error modes control when errors are returned:
//   - ErrorModeAlways: Error returned on every matching operation
//   - ErrorModeOnce: Error returned once, then rule becomes inactive
//   - ErrorModeAfterSuccesses: Error returned after N successful operations
//
// # Counters and Latency
//
// Every operation is counted, including failed ones:
//
//	c := mfs.Counters()
//	c.Count(iomock.OpRead)    // calls
//	c.Failures(iomock.OpRead) // calls that returned an error
//
// [WithLatency] delays operations to exercise timeout handling.
//
// # Fixtures
//
// Trees can be described in YAML with [LoadSeed] and built with
// [NewFromSeed]; [MockFileSystem.Seed] captures a tree back. Use
// [MockFileSystem.Fingerprint] to compare whole trees in assertions.
//
// # io/fs
//
// [MockFileSystem.DirFS] exposes a directory as an [fs.FS], so helpers
// written against io/fs can run on the mock.
//
// # Concurrency
//
// MockFileSystem is safe for concurrent use. Compound operations such as
// Move or recursive Delete run under a single store lock and either
// complete or leave the tree unchanged. Listings are taken as snapshots
// and may be iterated while other goroutines mutate the tree.
package iomock
