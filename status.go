package gitcore

import "unsafe"

// StatusList wraps a git_status_list handle. Owned: Free releases it.
type StatusList struct {
	lib *Lib
	h   *Handle
}

// NewStatusList computes the working tree status with the library's default
// options.
func NewStatusList(repo *Repository) (*StatusList, error) {
	rp, err := repo.ptr()
	if err != nil {
		return nil, err
	}
	out := NewOutParam()
	defer out.Free()
	// NULL options selects the native defaults.
	rc := repo.lib.fn("git_status_list_new").callInt(ptrArg(out.Addr()), ptrArg(rp), ptrArg(nil))
	if err := CheckResult(int(rc), "git_status_list_new"); err != nil {
		return nil, err
	}
	return &StatusList{
		lib: repo.lib,
		h:   newOwnedHandle("status list", out.Pointer(), repo.lib.releaser("git_status_list_free")),
	}, nil
}

// Free releases the status list. Idempotent.
func (s *StatusList) Free() { s.h.Free() }

func (s *StatusList) ptr() (unsafe.Pointer, error) { return s.h.Pointer() }

// EntryCount returns the number of status entries.
func (s *StatusList) EntryCount() (uint64, error) {
	p, err := s.ptr()
	if err != nil {
		return 0, err
	}
	return s.lib.fn("git_status_list_entrycount").callSize(ptrArg(p)), nil
}

// EntryByIndex decodes the entry at index i. The decoded value is a host
// copy; its delta views stay valid only while this list is alive.
func (s *StatusList) EntryByIndex(i uint64) (StatusEntry, error) {
	p, err := s.ptr()
	if err != nil {
		return StatusEntry{}, err
	}
	ep := s.lib.fn("git_status_byindex").callPtr(ptrArg(p), sizeArg(i))
	if ep == nil {
		return StatusEntry{}, &InvalidPointerError{Context: "status entry index out of range"}
	}
	return decodeStatusEntry(ep)
}

// Entries decodes every status entry in list order.
func (s *StatusList) Entries() ([]StatusEntry, error) {
	n, err := s.EntryCount()
	if err != nil {
		return nil, err
	}
	entries := make([]StatusEntry, 0, n)
	for i := uint64(0); i < n; i++ {
		e, err := s.EntryByIndex(i)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, nil
}
