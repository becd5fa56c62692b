package gitcore

import (
	"strings"
	"unsafe"
)

// Tag wraps an annotated git_tag handle. Owned: Free releases it.
type Tag struct {
	lib *Lib
	h   *Handle
}

// Free releases the tag. Idempotent.
func (t *Tag) Free() { t.h.Free() }

func (t *Tag) ptr() (unsafe.Pointer, error) { return t.h.Pointer() }

// Name returns the tag name (without the refs/tags/ prefix).
func (t *Tag) Name() (string, error) {
	p, err := t.ptr()
	if err != nil {
		return "", err
	}
	return DecodeCString(t.lib.fn("git_tag_name").callPtr(ptrArg(p))), nil
}

// Message returns the tag message.
func (t *Tag) Message() (string, error) {
	p, err := t.ptr()
	if err != nil {
		return "", err
	}
	return DecodeCString(t.lib.fn("git_tag_message").callPtr(ptrArg(p))), nil
}

// TargetID returns the id of the tagged object.
func (t *Tag) TargetID() (Oid, error) {
	p, err := t.ptr()
	if err != nil {
		return Oid{}, err
	}
	return oidFromPtr(t.lib.fn("git_tag_target_id").callPtr(ptrArg(p)), t.lib.oidSize)
}

// Tagger decodes the tagger signature. Lightweight tags have none; that
// surfaces as an InvalidPointerError.
func (t *Tag) Tagger() (Signature, error) {
	p, err := t.ptr()
	if err != nil {
		return Signature{}, err
	}
	return decodeSignature(t.lib.fn("git_tag_tagger").callPtr(ptrArg(p)))
}

// EachTag iterates every tag in the repository, invoking fn with the short
// tag name and the tagged object id, in the order the native library
// reports them. Returning ErrIterationStop from fn ends the iteration
// early without error; any other error stops it and is returned.
//
// The trampoline handed to the native call lives exactly as long as the
// call itself.
func EachTag(repo *Repository, fn func(name string, id Oid) error) error {
	rp, err := repo.ptr()
	if err != nil {
		return err
	}
	lib := repo.lib
	tr, err := newTrampoline([]ctype{ctPointer, ctPointer, ctPointer}, func(a *callbackArgs) error {
		name := DecodeCString(a.pointer(0))
		id, err := oidFromPtr(a.pointer(1), lib.oidSize)
		if err != nil {
			return err
		}
		return fn(strings.TrimPrefix(name, "refs/tags/"), id)
	})
	if err != nil {
		return err
	}
	defer tr.release()

	rc := lib.fn("git_tag_foreach").callInt(ptrArg(rp), ptrArg(tr.entry), ptrArg(nil))
	return tr.finish(rc, "git_tag_foreach")
}

// TagNames collects every tag name via EachTag.
func TagNames(repo *Repository) ([]string, error) {
	var names []string
	err := EachTag(repo, func(name string, _ Oid) error {
		names = append(names, name)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return names, nil
}
