package iomock

import (
	"fmt"
	"slices"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/text/encoding"
)

// MockFileSystem is an in-memory FileSystem that emulates the host OS's
// file semantics: sharing modes, attributes, timestamps, case rules, drive
// and UNC parsing, and the exact error messages the OS reports.
//
// All methods are safe for concurrent use. Every compound operation runs
// under the store's lock, so a failed operation leaves no partial state.
type MockFileSystem struct {
	platform Platform          // Path rules.
	norm     *Normalizer       // Path normalizer for platform.
	cmp      KeyComparer       // Key comparer for platform.
	store    *Store            // Entry store.
	mu       sync.RWMutex      // Guards cwd.
	cwd      string            // Current directory, canonical.
	tempPath string            // Temporary directory, canonical.
	encoding encoding.Encoding // Default text encoding.
	now      func() time.Time  // Clock for timestamps of new content.
	location *time.Location    // Location of local timestamps.
	logger   *zap.Logger       // Debug logger.
	injector ErrorInjector     // Fault injector.
	latency  LatencySimulator  // Delay simulator.
	counters *Counters         // Operation counters.

	file      *mockFile
	directory *mockDirectory
	path      *mockPath
}

// Ensure interface implementations.
var (
	_ FileSystem   = (*MockFileSystem)(nil)
	_ FileAPI      = (*mockFile)(nil)
	_ DirectoryAPI = (*mockDirectory)(nil)
	_ PathAPI      = (*mockPath)(nil)
)

// Option is a function type for configuring MockFileSystem.
type Option func(*MockFileSystem)

// WithPlatform selects Windows or POSIX path rules. The default is Windows.
func WithPlatform(p Platform) Option {
	return func(m *MockFileSystem) {
		m.platform = p
	}
}

// WithCurrentDirectory sets the directory relative paths resolve against.
// It must be absolute and is created if missing. The default is the root
// ("C:\" or "/").
func WithCurrentDirectory(dir string) Option {
	return func(m *MockFileSystem) {
		m.cwd = dir
	}
}

// WithTempPath sets the directory returned by Path().GetTempPath.
// The default is "C:\Temp" or "/tmp".
func WithTempPath(dir string) Option {
	return func(m *MockFileSystem) {
		m.tempPath = dir
	}
}

// WithEncoding sets the default text encoding. The default is UTF-8
// without a byte order mark.
func WithEncoding(enc encoding.Encoding) Option {
	return func(m *MockFileSystem) {
		if enc != nil {
			m.encoding = enc
		}
	}
}

// WithClock sets the clock used to stamp created and modified entries.
func WithClock(now func() time.Time) Option {
	return func(m *MockFileSystem) {
		if now != nil {
			m.now = now
		}
	}
}

// WithLocation sets the location of the local-time accessors. The default
// is [time.Local].
func WithLocation(loc *time.Location) Option {
	return func(m *MockFileSystem) {
		if loc != nil {
			m.location = loc
		}
	}
}

// WithLogger sets the logger. Operations and failures are logged at debug
// level. The default discards everything.
func WithLogger(l *zap.Logger) Option {
	return func(m *MockFileSystem) {
		if l != nil {
			m.logger = l
		}
	}
}

// WithInjector sets the error injector.
func WithInjector(i ErrorInjector) Option {
	return func(m *MockFileSystem) {
		if i != nil {
			m.injector = i
		}
	}
}

// WithLatency sets the latency simulator applied to every operation.
func WithLatency(ls LatencySimulator) Option {
	return func(m *MockFileSystem) {
		if ls != nil {
			m.latency = ls
		}
	}
}

// New creates a mock filesystem seeded with the given records, keyed by
// path. Relative seed paths resolve against the current directory; missing
// ancestors are created.
func New(seed map[string]*FileData, opts ...Option) (*MockFileSystem, error) {
	m := &MockFileSystem{
		platform: PlatformWindows,
		encoding: DefaultEncoding,
		now:      time.Now,
		location: time.Local,
		logger:   zap.NewNop(),
		latency:  noLatency{},
		counters: NewCounters(),
	}

	for _, opt := range opts {
		opt(m)
	}

	m.norm = NewNormalizer(m.platform)
	m.cmp = m.platform.Comparer()
	m.store = NewStore(m.cmp)
	if m.injector == nil {
		m.injector = NewErrorInjector(m.cmp)
	}

	root := `C:\`
	tmp := `C:\Temp`
	if m.platform == PlatformPOSIX {
		root, tmp = "/", "/tmp"
	}
	if m.cwd == "" {
		m.cwd = root
	}
	if m.tempPath == "" {
		m.tempPath = tmp
	}

	var err error
	if m.cwd, err = m.norm.Normalize(m.cwd, root); err != nil {
		return nil, err
	}
	if m.tempPath, err = m.norm.Normalize(m.tempPath, root); err != nil {
		return nil, err
	}
	if err := m.AddDirectory(m.cwd); err != nil {
		return nil, err
	}

	m.file = &mockFile{timestamps: timestamps{fs: m}, fs: m}
	m.directory = &mockDirectory{timestamps: timestamps{fs: m}, fs: m}
	m.path = &mockPath{fs: m}

	if err := m.seed(seed); err != nil {
		return nil, err
	}

	return m, nil
}

// MustNew is like New but panics on error. It simplifies test setup.
func MustNew(seed map[string]*FileData, opts ...Option) *MockFileSystem {
	m, err := New(seed, opts...)
	if err != nil {
		panic(err)
	}
	return m
}

// seed adds records in path order so that explicit directory records win
// over implicitly created ancestors.
func (m *MockFileSystem) seed(seed map[string]*FileData) error {
	type item struct {
		path string
		data *FileData
	}

	items := make([]item, 0, len(seed))
	for p, d := range seed {
		full, err := m.full(p, "path")
		if err != nil {
			return err
		}
		items = append(items, item{path: full, data: d})
	}
	slices.SortFunc(items, func(a, b item) int {
		return m.cmp.Compare(a.path, b.path)
	})

	for _, it := range items {
		if it.data != nil && it.data.IsDirectory() {
			if err := m.addDirectory(it.path, it.data); err != nil {
				return err
			}
			continue
		}
		if err := m.AddFile(it.path, it.data); err != nil {
			return err
		}
	}
	return nil
}

// File returns the file API.
func (m *MockFileSystem) File() FileAPI { return m.file }

// Directory returns the directory API.
func (m *MockFileSystem) Directory() DirectoryAPI { return m.directory }

// Path returns the path API.
func (m *MockFileSystem) Path() PathAPI { return m.path }

// FileInfo returns the file handle factory.
func (m *MockFileSystem) FileInfo() FileInfoFactory { return fileInfoFactory{fs: m} }

// DirectoryInfo returns the directory handle factory.
func (m *MockFileSystem) DirectoryInfo() DirectoryInfoFactory { return directoryInfoFactory{fs: m} }

// DriveInfo returns the drive factory.
func (m *MockFileSystem) DriveInfo() DriveInfoFactory { return driveInfoFactory{fs: m} }

// Platform returns the emulated platform.
func (m *MockFileSystem) Platform() Platform { return m.platform }

// Injector returns the error injector for configuring faults.
func (m *MockFileSystem) Injector() ErrorInjector { return m.injector }

// Counters returns a copy of the operation counts.
func (m *MockFileSystem) Counters() *Counters { return m.counters.Clone() }

// ResetCounters sets every operation count to zero.
func (m *MockFileSystem) ResetCounters() { m.counters.ResetAll() }

// AddFile stores data at path, creating missing ancestor directories.
// A nil data stores an empty file. Replacing a read-only or hidden file
// fails with access denied.
func (m *MockFileSystem) AddFile(path string, data *FileData) error {
	full, err := m.full(path, "path")
	if err != nil {
		return err
	}
	if data == nil {
		data = NewFileData(nil)
	}
	if data.IsDirectory() {
		return m.addDirectory(full, data)
	}

	err = m.store.update(func(tx *storeTx) error {
		if err := m.ensureAncestors(tx, full); err != nil {
			return err
		}
		return tx.put(full, data)
	})
	if err != nil {
		return err
	}

	m.logger.Debug("added file", zap.String("path", full))
	return nil
}

// AddDirectory creates a directory and every missing ancestor.
func (m *MockFileSystem) AddDirectory(path string) error {
	full, err := m.full(path, "path")
	if err != nil {
		return err
	}
	return m.addDirectory(full, nil)
}

func (m *MockFileSystem) addDirectory(full string, data *FileData) error {
	err := m.store.update(func(tx *storeTx) error {
		if err := m.ensureAncestors(tx, full); err != nil {
			return err
		}
		if cur, ok := tx.get(full); ok {
			if !cur.IsDirectory() {
				return newError(KindAlreadyExists, full, fmt.Sprintf(msgCannotCreate, full))
			}
			// An explicit record replaces an implicitly created one.
			if data != nil {
				tx.m.Set(full, data)
			}
			return nil
		}
		if data == nil {
			data = m.newDirectoryData()
		}
		return tx.put(full, data)
	})
	if err != nil {
		return err
	}

	m.logger.Debug("added directory", zap.String("path", full))
	return nil
}

// TryGetFile returns the record stored at path, if any. It never fails:
// a malformed path simply yields false.
func (m *MockFileSystem) TryGetFile(path string) (*FileData, bool) {
	full, err := m.full(path, "path")
	if err != nil {
		return nil, false
	}
	return m.store.Get(full)
}

// GetFile returns the record stored at path.
func (m *MockFileSystem) GetFile(path string) (*FileData, error) {
	full, err := m.full(path, "path")
	if err != nil {
		return nil, err
	}
	d, ok := m.store.Get(full)
	if !ok {
		return nil, fileNotFound(full)
	}
	return d, nil
}

// RemoveFile removes the single entry at path, whatever its kind or
// attributes. Removing a missing entry is a no-op.
func (m *MockFileSystem) RemoveFile(path string) error {
	full, err := m.full(path, "path")
	if err != nil {
		return err
	}
	if m.store.Remove(full) {
		m.logger.Debug("removed entry", zap.String("path", full))
	}
	return nil
}

// Exists reports whether any entry, file or directory, is stored at path.
func (m *MockFileSystem) Exists(path string) bool {
	_, ok := m.TryGetFile(path)
	return ok
}

// AllPaths returns the canonical path of every entry, in order.
func (m *MockFileSystem) AllPaths() []string {
	return m.paths(func(*FileData) bool { return true })
}

// AllFiles returns the canonical path of every file, in order.
func (m *MockFileSystem) AllFiles() []string {
	return m.paths(func(d *FileData) bool { return !d.IsDirectory() })
}

// AllDirectories returns the canonical path of every directory, in order.
func (m *MockFileSystem) AllDirectories() []string {
	return m.paths(func(d *FileData) bool { return d.IsDirectory() })
}

func (m *MockFileSystem) paths(keep func(*FileData) bool) []string {
	var out []string
	for _, e := range m.store.Enumerate() {
		if keep(e.Data) {
			out = append(out, e.Path)
		}
	}
	return out
}

// CurrentDirectory returns the directory relative paths resolve against.
func (m *MockFileSystem) CurrentDirectory() string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.cwd
}

func (m *MockFileSystem) setCurrentDirectory(full string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.cwd = full
}

// full verifies and normalizes a path argument.
func (m *MockFileSystem) full(path, param string) (string, error) {
	return m.norm.normalize(path, m.CurrentDirectory(), param)
}

// begin counts op, then validates path and consults the injector. It
// returns the canonical path.
func (m *MockFileSystem) begin(op Operation, path, param string) (string, error) {
	m.counters.inc(op)

	full, err := m.full(path, param)
	if err != nil {
		return "", m.fail(op, err)
	}
	if err := m.admit(op, full); err != nil {
		return "", err
	}
	return full, nil
}

// admit consults the injector for op on a canonical path, then applies the
// configured latency. An injected error belongs to the caller and may be
// returned by several goroutines at once, so it is never stamped.
func (m *MockFileSystem) admit(op Operation, full string) error {
	if err := m.injector.CheckAndApply(op, full); err != nil {
		m.record(op, err)
		return err
	}
	m.latency.Simulate(op)
	return nil
}

// fail stamps, counts and logs a failure raised by the mock itself.
func (m *MockFileSystem) fail(op Operation, err error) error {
	err = withOp(op, err)
	m.record(op, err)
	return err
}

func (m *MockFileSystem) record(op Operation, err error) {
	m.counters.failed(op)
	m.logger.Debug("operation failed", zap.Stringer("op", op), zap.Error(err))
}

// done logs a successful mutation.
func (m *MockFileSystem) done(op Operation, path string, fields ...zap.Field) {
	m.logger.Debug("operation completed", append([]zap.Field{zap.Stringer("op", op), zap.String("path", path)}, fields...)...)
}

// clock returns the current time in the configured location.
func (m *MockFileSystem) clock() time.Time {
	return m.now().In(m.location)
}

func (m *MockFileSystem) newDirectoryData() *FileData {
	t := m.clock()
	return NewDirectoryData().WithCreationTime(t).WithLastAccessTime(t).WithLastWriteTime(t)
}

func (m *MockFileSystem) newFileData(b []byte) *FileData {
	t := m.clock()
	return NewFileData(b).WithCreationTime(t).WithLastAccessTime(t).WithLastWriteTime(t)
}

// conflictingAncestor returns the first ancestor of full that is stored as
// a file.
func (m *MockFileSystem) conflictingAncestor(tx *storeTx, full string) (string, bool) {
	for _, a := range m.norm.Ancestors(full) {
		if _, ok := tx.file(a); ok {
			return a, true
		}
	}
	return "", false
}

// ensureAncestors creates every missing ancestor directory of full. It
// fails without changing anything if an ancestor is a file.
func (m *MockFileSystem) ensureAncestors(tx *storeTx, full string) error {
	if a, ok := m.conflictingAncestor(tx, full); ok {
		return newError(KindDirectoryNotFound, a, fmt.Sprintf(msgPartNotFound, full))
	}
	for _, a := range m.norm.Ancestors(full) {
		if _, ok := tx.get(a); !ok {
			tx.m.Set(a, m.newDirectoryData())
		}
	}
	return nil
}

// parentExists reports whether the parent of full is a directory. A root
// has no parent and always passes; a drive or share root counts only once
// something has been stored on it.
func (m *MockFileSystem) parentExists(tx *storeTx, full string) bool {
	parent, ok := m.norm.Parent(full)
	if !ok {
		return true
	}
	if m.norm.IsRoot(parent) {
		return m.isDirectory(tx, parent)
	}
	if _, ok := tx.dir(parent); ok {
		return true
	}
	if _, isFile := tx.file(parent); isFile {
		return false
	}
	return tx.hasChildren(m.norm, parent)
}
