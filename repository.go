package gitcore

import "unsafe"

// Repository wraps a git_repository handle. Owned: Free releases it.
type Repository struct {
	lib *Lib
	h   *Handle
}

// Open opens an existing repository at path (worktree or .git directory).
func Open(path string) (*Repository, error) {
	lib, err := Get()
	if err != nil {
		return nil, err
	}
	out := NewOutParam()
	defer out.Free()
	cpath := EncodeCString(path)
	defer cpath.Free()
	rc := lib.fn("git_repository_open").callInt(ptrArg(out.Addr()), ptrArg(cpath.Ptr()))
	if err := CheckResult(int(rc), "git_repository_open"); err != nil {
		return nil, err
	}
	return &Repository{
		lib: lib,
		h:   newOwnedHandle("repository", out.Pointer(), lib.releaser("git_repository_free")),
	}, nil
}

// Free releases the repository. Idempotent.
func (r *Repository) Free() { r.h.Free() }

func (r *Repository) ptr() (unsafe.Pointer, error) { return r.h.Pointer() }

// Path returns the path to the repository's .git directory.
func (r *Repository) Path() (string, error) {
	rp, err := r.ptr()
	if err != nil {
		return "", err
	}
	return DecodeCString(r.lib.fn("git_repository_path").callPtr(ptrArg(rp))), nil
}

// IsBare reports whether the repository has no working tree.
func (r *Repository) IsBare() (bool, error) {
	rp, err := r.ptr()
	if err != nil {
		return false, err
	}
	return r.lib.fn("git_repository_is_bare").callInt(ptrArg(rp)) != 0, nil
}

// IsEmpty reports whether HEAD is unborn and nothing has been committed.
func (r *Repository) IsEmpty() (bool, error) {
	rp, err := r.ptr()
	if err != nil {
		return false, err
	}
	rc := r.lib.fn("git_repository_is_empty").callInt(ptrArg(rp))
	if err := CheckResult(int(rc), "git_repository_is_empty"); err != nil {
		return false, err
	}
	return rc != 0, nil
}

// Head resolves the repository HEAD reference. The caller frees it.
func (r *Repository) Head() (*Reference, error) {
	rp, err := r.ptr()
	if err != nil {
		return nil, err
	}
	out := NewOutParam()
	defer out.Free()
	rc := r.lib.fn("git_repository_head").callInt(ptrArg(out.Addr()), ptrArg(rp))
	if err := CheckResult(int(rc), "git_repository_head"); err != nil {
		return nil, err
	}
	return &Reference{
		lib: r.lib,
		h:   newOwnedHandle("reference", out.Pointer(), r.lib.releaser("git_reference_free")),
	}, nil
}

// lookup runs one of the git_*_lookup out-pointer calls and wraps the result.
func (r *Repository) lookup(sym, freeSym, what string, id Oid) (*Handle, error) {
	rp, err := r.ptr()
	if err != nil {
		return nil, err
	}
	out := NewOutParam()
	defer out.Free()
	ob := oidArg(id)
	defer ob.Free()
	rc := r.lib.fn(sym).callInt(ptrArg(out.Addr()), ptrArg(rp), ptrArg(ob.Addr()))
	if err := CheckResult(int(rc), sym); err != nil {
		return nil, err
	}
	return newOwnedHandle(what, out.Pointer(), r.lib.releaser(freeSym)), nil
}

// LookupCommit loads the commit identified by id.
func (r *Repository) LookupCommit(id Oid) (*Commit, error) {
	h, err := r.lookup("git_commit_lookup", "git_commit_free", "commit", id)
	if err != nil {
		return nil, err
	}
	return &Commit{lib: r.lib, h: h}, nil
}

// LookupCommitPrefix loads a commit by abbreviated id. The prefix must carry
// at least OidMinPrefixLen hex characters; an ambiguous prefix surfaces as a
// NativeCallError with the "ambiguous prefix" class.
func (r *Repository) LookupCommitPrefix(prefix OidPrefix) (*Commit, error) {
	rp, err := r.ptr()
	if err != nil {
		return nil, err
	}
	out := NewOutParam()
	defer out.Free()
	raw := prefix.rawBytes(r.lib.oidSize)
	ob := NewBuffer(len(raw))
	defer ob.Free()
	ob.SetBytes(raw)
	rc := r.lib.fn("git_commit_lookup_prefix").callInt(
		ptrArg(out.Addr()), ptrArg(rp), ptrArg(ob.Addr()), sizeArg(uint64(prefix.Len())))
	if err := CheckResult(int(rc), "git_commit_lookup_prefix"); err != nil {
		return nil, err
	}
	return &Commit{
		lib: r.lib,
		h:   newOwnedHandle("commit", out.Pointer(), r.lib.releaser("git_commit_free")),
	}, nil
}

// LookupTree loads the tree identified by id.
func (r *Repository) LookupTree(id Oid) (*Tree, error) {
	h, err := r.lookup("git_tree_lookup", "git_tree_free", "tree", id)
	if err != nil {
		return nil, err
	}
	return &Tree{lib: r.lib, h: h}, nil
}

// LookupBlob loads the blob identified by id.
func (r *Repository) LookupBlob(id Oid) (*Blob, error) {
	h, err := r.lookup("git_blob_lookup", "git_blob_free", "blob", id)
	if err != nil {
		return nil, err
	}
	return &Blob{lib: r.lib, h: h}, nil
}

// LookupTag loads the annotated tag identified by id.
func (r *Repository) LookupTag(id Oid) (*Tag, error) {
	h, err := r.lookup("git_tag_lookup", "git_tag_free", "tag", id)
	if err != nil {
		return nil, err
	}
	return &Tag{lib: r.lib, h: h}, nil
}

// Config opens the repository's configuration. The caller frees it.
func (r *Repository) Config() (*Config, error) {
	rp, err := r.ptr()
	if err != nil {
		return nil, err
	}
	out := NewOutParam()
	defer out.Free()
	rc := r.lib.fn("git_repository_config").callInt(ptrArg(out.Addr()), ptrArg(rp))
	if err := CheckResult(int(rc), "git_repository_config"); err != nil {
		return nil, err
	}
	return &Config{
		lib: r.lib,
		h:   newOwnedHandle("config", out.Pointer(), r.lib.releaser("git_config_free")),
	}, nil
}

// ReadHeader reads an object's size and type from the object database
// without inflating its content.
func (r *Repository) ReadHeader(id Oid) (size uint64, typ ObjectType, err error) {
	rp, err := r.ptr()
	if err != nil {
		return 0, ObjectInvalid, err
	}
	out := NewOutParam()
	defer out.Free()
	rc := r.lib.fn("git_repository_odb").callInt(ptrArg(out.Addr()), ptrArg(rp))
	if err := CheckResult(int(rc), "git_repository_odb"); err != nil {
		return 0, ObjectInvalid, err
	}
	odb := newOwnedHandle("odb", out.Pointer(), r.lib.releaser("git_odb_free"))
	defer odb.Free()
	odbPtr, err := odb.Pointer()
	if err != nil {
		return 0, ObjectInvalid, err
	}

	lenBuf := NewBuffer(int(ptrSize))
	defer lenBuf.Free()
	typeBuf := NewBuffer(4)
	defer typeBuf.Free()
	ob := oidArg(id)
	defer ob.Free()
	rc = r.lib.fn("git_odb_read_header").callInt(
		ptrArg(lenBuf.Addr()), ptrArg(typeBuf.Addr()), ptrArg(odbPtr), ptrArg(ob.Addr()))
	if err := CheckResult(int(rc), "git_odb_read_header"); err != nil {
		return 0, ObjectInvalid, err
	}
	return peekSize(lenBuf.Addr(), 0), ObjectType(peekInt32(typeBuf.Addr(), 0)), nil
}
