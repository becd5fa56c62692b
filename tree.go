package gitcore

import "unsafe"

// Tree wraps a git_tree handle. Owned: Free releases it.
type Tree struct {
	lib *Lib
	h   *Handle
}

// Free releases the tree. Idempotent.
func (t *Tree) Free() { t.h.Free() }

func (t *Tree) ptr() (unsafe.Pointer, error) { return t.h.Pointer() }

// ID returns the tree's object id.
func (t *Tree) ID() (Oid, error) {
	p, err := t.ptr()
	if err != nil {
		return Oid{}, err
	}
	return oidFromPtr(t.lib.fn("git_tree_id").callPtr(ptrArg(p)), t.lib.oidSize)
}

// EntryCount returns the number of direct entries.
func (t *Tree) EntryCount() (uint64, error) {
	p, err := t.ptr()
	if err != nil {
		return 0, err
	}
	return t.lib.fn("git_tree_entrycount").callSize(ptrArg(p)), nil
}

// EntryByIndex returns the entry at index i. The entry is borrowed: its
// memory belongs to this tree and becomes invalid when the tree is freed,
// which is why TreeEntry has no Free of its own.
func (t *Tree) EntryByIndex(i uint64) (*TreeEntry, error) {
	p, err := t.ptr()
	if err != nil {
		return nil, err
	}
	ep := t.lib.fn("git_tree_entry_byindex").callPtr(ptrArg(p), sizeArg(i))
	if ep == nil {
		return nil, &InvalidPointerError{Context: "tree entry index out of range"}
	}
	return &TreeEntry{
		lib:    t.lib,
		parent: t,
		h:      newBorrowedHandle("tree entry", ep),
	}, nil
}

// TreeEntry is one row of a tree listing. Borrowed from its parent Tree; do
// not use it after the tree is freed.
type TreeEntry struct {
	lib    *Lib
	parent *Tree
	h      *Handle
}

func (e *TreeEntry) ptr() (unsafe.Pointer, error) {
	// The borrow dies with the parent.
	if e.parent.h.Freed() {
		return nil, &UseAfterCloseError{Context: "tree entry (parent tree freed)"}
	}
	return e.h.Pointer()
}

// Name returns the entry's file name.
func (e *TreeEntry) Name() (string, error) {
	p, err := e.ptr()
	if err != nil {
		return "", err
	}
	return DecodeCString(e.lib.fn("git_tree_entry_name").callPtr(ptrArg(p))), nil
}

// ID returns the id of the object the entry points at.
func (e *TreeEntry) ID() (Oid, error) {
	p, err := e.ptr()
	if err != nil {
		return Oid{}, err
	}
	return oidFromPtr(e.lib.fn("git_tree_entry_id").callPtr(ptrArg(p)), e.lib.oidSize)
}

// Type returns the object type of the entry's target.
func (e *TreeEntry) Type() (ObjectType, error) {
	p, err := e.ptr()
	if err != nil {
		return ObjectInvalid, err
	}
	return ObjectType(e.lib.fn("git_tree_entry_type").callInt(ptrArg(p))), nil
}

// Filemode returns the entry's unix mode bits.
func (e *TreeEntry) Filemode() (uint32, error) {
	p, err := e.ptr()
	if err != nil {
		return 0, err
	}
	return uint32(e.lib.fn("git_tree_entry_filemode").callInt(ptrArg(p))), nil
}
