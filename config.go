package gitcore

import "unsafe"

// Config wraps a git_config handle. Owned: Free releases it.
type Config struct {
	lib *Lib
	h   *Handle
}

// Free releases the config. Idempotent.
func (c *Config) Free() { c.h.Free() }

func (c *Config) ptr() (unsafe.Pointer, error) { return c.h.Pointer() }

// String reads the string value for name. Reads go through a consistent
// snapshot because get_string on a live config object is not allowed by
// the native library.
func (c *Config) String(name string) (string, error) {
	p, err := c.ptr()
	if err != nil {
		return "", err
	}
	out := NewOutParam()
	defer out.Free()
	rc := c.lib.fn("git_config_snapshot").callInt(ptrArg(out.Addr()), ptrArg(p))
	if err := CheckResult(int(rc), "git_config_snapshot"); err != nil {
		return "", err
	}
	snap := newOwnedHandle("config snapshot", out.Pointer(), c.lib.releaser("git_config_free"))
	defer snap.Free()
	sp, err := snap.Pointer()
	if err != nil {
		return "", err
	}

	val := NewOutParam()
	defer val.Free()
	cname := EncodeCString(name)
	defer cname.Free()
	rc = c.lib.fn("git_config_get_string").callInt(ptrArg(val.Addr()), ptrArg(sp), ptrArg(cname.Ptr()))
	if err := CheckResult(int(rc), "git_config_get_string"); err != nil {
		return "", err
	}
	// The returned string is borrowed from the snapshot; copy before the
	// deferred free runs.
	return DecodeCString(val.Pointer()), nil
}

// ForEach visits every configuration entry. Returning ErrIterationStop from
// fn ends the walk early without error; any other error stops it and is
// returned.
func (c *Config) ForEach(fn func(entry ConfigEntry) error) error {
	p, err := c.ptr()
	if err != nil {
		return err
	}
	tr, err := newTrampoline([]ctype{ctPointer, ctPointer}, func(a *callbackArgs) error {
		entry, err := decodeConfigEntry(a.pointer(0))
		if err != nil {
			return err
		}
		return fn(entry)
	})
	if err != nil {
		return err
	}
	defer tr.release()

	rc := c.lib.fn("git_config_foreach").callInt(ptrArg(p), ptrArg(tr.entry), ptrArg(nil))
	return tr.finish(rc, "git_config_foreach")
}

// Entries collects every configuration entry via ForEach.
func (c *Config) Entries() ([]ConfigEntry, error) {
	var entries []ConfigEntry
	err := c.ForEach(func(e ConfigEntry) error {
		entries = append(entries, e)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return entries, nil
}
