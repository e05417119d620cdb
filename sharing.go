package iomock

import "slices"

// openHandle records the access and share mode of one open stream.
type openHandle struct {
	access FileAccess
	share  FileShare
}

// declaredAllows applies the declared sharing mode of an entry to a new
// open. A Delete declaration admits both reads and writes.
func declaredAllows(share FileShare, access FileAccess) bool {
	if share&ShareDelete != 0 {
		share |= ShareReadWrite
	}
	return strictAllows(share, access)
}

// strictAllows reports whether share admits every access bit requested.
func strictAllows(share FileShare, access FileAccess) bool {
	want := FileShare(access) & ShareReadWrite
	return share&want == want
}

// permitsMove reports whether a declared mode lets the file be moved or
// deleted while other openers may hold it.
func permitsMove(share FileShare) bool {
	return share&ShareDelete != 0 || share&ShareReadWrite == ShareReadWrite
}

// checkOpen reports a sharing violation if a new open with the given access
// and share conflicts with the declared mode or with a stream already open.
func (d *FileData) checkOpen(path string, access FileAccess, share FileShare) error {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if !declaredAllows(d.share, access) {
		return sharingViolation(path)
	}
	for _, h := range d.handles {
		if !strictAllows(h.share, access) || !strictAllows(share, h.access) {
			return sharingViolation(path)
		}
	}
	return nil
}

// checkMove reports a sharing violation if the file may not be renamed.
// The message carries no path, as the host OS reports it.
func (d *FileData) checkMove() error {
	if err := d.checkRelocate(""); err != nil {
		err.Msg = msgInUseBare
		return err
	}
	return nil
}

// checkDelete reports a sharing violation if the file may not be deleted.
func (d *FileData) checkDelete(path string) error {
	if err := d.checkRelocate(path); err != nil {
		return err
	}
	return nil
}

func (d *FileData) checkRelocate(path string) *Error {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if !permitsMove(d.share) {
		return sharingViolation(path)
	}
	for _, h := range d.handles {
		if h.share&ShareDelete == 0 {
			return sharingViolation(path)
		}
	}
	return nil
}

// acquire verifies and registers a new open handle in one step.
func (d *FileData) acquire(path string, access FileAccess, share FileShare) (*openHandle, error) {
	if err := d.checkOpen(path, access, share); err != nil {
		return nil, err
	}

	h := &openHandle{access: access, share: share}

	d.mu.Lock()
	defer d.mu.Unlock()

	d.handles = append(d.handles, h)
	return h, nil
}

// release unregisters h. Releasing twice is a no-op.
func (d *FileData) release(h *openHandle) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.handles = slices.DeleteFunc(d.handles, func(o *openHandle) bool { return o == h })
}

// openCount returns the number of streams open on the file.
func (d *FileData) openCount() int {
	d.mu.RLock()
	defer d.mu.RUnlock()

	return len(d.handles)
}
