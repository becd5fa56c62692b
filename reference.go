package gitcore

import "unsafe"

// Reference wraps a git_reference handle. Owned: Free releases it.
type Reference struct {
	lib *Lib
	h   *Handle
}

// Free releases the reference. Idempotent.
func (r *Reference) Free() { r.h.Free() }

func (r *Reference) ptr() (unsafe.Pointer, error) { return r.h.Pointer() }

// Name returns the full reference name (e.g. refs/heads/main).
func (r *Reference) Name() (string, error) {
	p, err := r.ptr()
	if err != nil {
		return "", err
	}
	return DecodeCString(r.lib.fn("git_reference_name").callPtr(ptrArg(p))), nil
}

// Shorthand returns the human-readable short name (e.g. main).
func (r *Reference) Shorthand() (string, error) {
	p, err := r.ptr()
	if err != nil {
		return "", err
	}
	return DecodeCString(r.lib.fn("git_reference_shorthand").callPtr(ptrArg(p))), nil
}

// Target returns the object id a direct reference points at. Symbolic
// references have no target and yield an InvalidPointerError.
func (r *Reference) Target() (Oid, error) {
	p, err := r.ptr()
	if err != nil {
		return Oid{}, err
	}
	tp := r.lib.fn("git_reference_target").callPtr(ptrArg(p))
	if tp == nil {
		return Oid{}, &InvalidPointerError{Context: "reference target (symbolic reference?)"}
	}
	return oidFromPtr(tp, r.lib.oidSize)
}
