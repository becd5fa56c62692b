package gitcore

import "unsafe"

// Commit wraps a git_commit handle. Owned: Free releases it.
type Commit struct {
	lib *Lib
	h   *Handle
}

// Free releases the commit. Idempotent.
func (c *Commit) Free() { c.h.Free() }

func (c *Commit) ptr() (unsafe.Pointer, error) { return c.h.Pointer() }

// ID returns the commit's object id.
func (c *Commit) ID() (Oid, error) {
	p, err := c.ptr()
	if err != nil {
		return Oid{}, err
	}
	return oidFromPtr(c.lib.fn("git_commit_id").callPtr(ptrArg(p)), c.lib.oidSize)
}

// Message returns the full commit message.
func (c *Commit) Message() (string, error) {
	p, err := c.ptr()
	if err != nil {
		return "", err
	}
	return DecodeCString(c.lib.fn("git_commit_message").callPtr(ptrArg(p))), nil
}

// Summary returns the first paragraph of the message, collapsed to one line.
func (c *Commit) Summary() (string, error) {
	p, err := c.ptr()
	if err != nil {
		return "", err
	}
	return DecodeCString(c.lib.fn("git_commit_summary").callPtr(ptrArg(p))), nil
}

// Author decodes the author signature. The native struct is borrowed from
// the commit; the returned value is a host-side copy.
func (c *Commit) Author() (Signature, error) {
	p, err := c.ptr()
	if err != nil {
		return Signature{}, err
	}
	return decodeSignature(c.lib.fn("git_commit_author").callPtr(ptrArg(p)))
}

// Committer decodes the committer signature.
func (c *Commit) Committer() (Signature, error) {
	p, err := c.ptr()
	if err != nil {
		return Signature{}, err
	}
	return decodeSignature(c.lib.fn("git_commit_committer").callPtr(ptrArg(p)))
}

// TimeUnix returns the commit time in epoch seconds.
func (c *Commit) TimeUnix() (int64, error) {
	p, err := c.ptr()
	if err != nil {
		return 0, err
	}
	return c.lib.fn("git_commit_time").callInt64(ptrArg(p)), nil
}

// Tree loads the tree this commit points at. The caller frees it.
func (c *Commit) Tree() (*Tree, error) {
	p, err := c.ptr()
	if err != nil {
		return nil, err
	}
	out := NewOutParam()
	defer out.Free()
	rc := c.lib.fn("git_commit_tree").callInt(ptrArg(out.Addr()), ptrArg(p))
	if err := CheckResult(int(rc), "git_commit_tree"); err != nil {
		return nil, err
	}
	return &Tree{
		lib: c.lib,
		h:   newOwnedHandle("tree", out.Pointer(), c.lib.releaser("git_tree_free")),
	}, nil
}

// ParentCount returns the number of parents (0 for a root commit).
func (c *Commit) ParentCount() (uint32, error) {
	p, err := c.ptr()
	if err != nil {
		return 0, err
	}
	return c.lib.fn("git_commit_parentcount").callUint32(ptrArg(p)), nil
}

// ParentID returns the id of parent n without loading the parent commit.
func (c *Commit) ParentID(n uint32) (Oid, error) {
	p, err := c.ptr()
	if err != nil {
		return Oid{}, err
	}
	op := c.lib.fn("git_commit_parent_id").callPtr(ptrArg(p), uint32Arg(n))
	if op == nil {
		return Oid{}, &InvalidPointerError{Context: "commit parent id out of range"}
	}
	return oidFromPtr(op, c.lib.oidSize)
}
