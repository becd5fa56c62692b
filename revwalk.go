package gitcore

import "unsafe"

// Revision walk sorting modes. Combine with bitwise or.
const (
	SortNone        uint32 = 0
	SortTopological uint32 = 1 << 0
	SortTime        uint32 = 1 << 1
	SortReverse     uint32 = 1 << 2
)

// Revwalk wraps a git_revwalk handle. Owned: Free releases it.
type Revwalk struct {
	lib *Lib
	h   *Handle
}

// NewRevwalk allocates a revision walker over the repository.
func NewRevwalk(repo *Repository) (*Revwalk, error) {
	rp, err := repo.ptr()
	if err != nil {
		return nil, err
	}
	out := NewOutParam()
	defer out.Free()
	rc := repo.lib.fn("git_revwalk_new").callInt(ptrArg(out.Addr()), ptrArg(rp))
	if err := CheckResult(int(rc), "git_revwalk_new"); err != nil {
		return nil, err
	}
	return &Revwalk{
		lib: repo.lib,
		h:   newOwnedHandle("revwalk", out.Pointer(), repo.lib.releaser("git_revwalk_free")),
	}, nil
}

// Free releases the walker. Idempotent.
func (w *Revwalk) Free() { w.h.Free() }

func (w *Revwalk) ptr() (unsafe.Pointer, error) { return w.h.Pointer() }

// PushHead seeds the walk from the repository HEAD.
func (w *Revwalk) PushHead() error {
	p, err := w.ptr()
	if err != nil {
		return err
	}
	rc := w.lib.fn("git_revwalk_push_head").callInt(ptrArg(p))
	return CheckResult(int(rc), "git_revwalk_push_head")
}

// Push seeds the walk from a specific commit id.
func (w *Revwalk) Push(id Oid) error {
	p, err := w.ptr()
	if err != nil {
		return err
	}
	ob := oidArg(id)
	defer ob.Free()
	rc := w.lib.fn("git_revwalk_push").callInt(ptrArg(p), ptrArg(ob.Addr()))
	return CheckResult(int(rc), "git_revwalk_push")
}

// Sorting sets the traversal order. Call before the first Next.
func (w *Revwalk) Sorting(mode uint32) error {
	p, err := w.ptr()
	if err != nil {
		return err
	}
	rc := w.lib.fn("git_revwalk_sorting").callInt(ptrArg(p), uint32Arg(mode))
	return CheckResult(int(rc), "git_revwalk_sorting")
}

// Next yields the next commit id. At the end of the walk it returns
// ErrIterOver, which callers test with errors.Is to terminate their loop.
func (w *Revwalk) Next() (Oid, error) {
	p, err := w.ptr()
	if err != nil {
		return Oid{}, err
	}
	buf := NewBuffer(w.lib.oidSize)
	defer buf.Free()
	rc := w.lib.fn("git_revwalk_next").callInt(ptrArg(buf.Addr()), ptrArg(p))
	if err := CheckResult(int(rc), "git_revwalk_next"); err != nil {
		return Oid{}, err
	}
	return NewOid(buf.Bytes())
}

// EachCommit walks history from HEAD in the given sort order, invoking fn
// for each commit id until the walk ends or fn returns an error.
// ErrIterationStop from fn ends the walk cleanly.
func EachCommit(repo *Repository, sorting uint32, fn func(id Oid) error) error {
	w, err := NewRevwalk(repo)
	if err != nil {
		return err
	}
	defer w.Free()
	if sorting != SortNone {
		if err := w.Sorting(sorting); err != nil {
			return err
		}
	}
	if err := w.PushHead(); err != nil {
		return err
	}
	for {
		id, err := w.Next()
		if err == ErrIterOver {
			return nil
		}
		if err != nil {
			return err
		}
		if err := fn(id); err != nil {
			if err == ErrIterationStop {
				return nil
			}
			return err
		}
	}
}
