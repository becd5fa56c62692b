package gitcore

import "unsafe"

// Raw struct decoders. Each native record the library hands back without
// accessor functions gets a layout (built per pointer width) and a decoder
// that copies the fields into host values. Layouts are verified by tests
// against the sizes the library publishes for the 64-bit ABI.
//
// Decoders are deliberately conservative: a null required pointer is an
// InvalidPointerError, never a silent default.

// git_error { char *message; int klass; }
func errorLayoutAt(w uintptr) *structLayout {
	return newLayout(w,
		pointerField("message"),
		scalarField("klass", 4),
	)
}

// git_time { git_time_t time; int offset; char sign; }
// git_signature { char *name; char *email; git_time when; }
func timeLayoutAt(w uintptr) *structLayout {
	return newLayout(w,
		scalarField("time", 8),
		scalarField("offset", 4),
		scalarField("sign", 1),
	)
}

func signatureLayoutAt(w uintptr) *structLayout {
	return newLayout(w,
		pointerField("name"),
		pointerField("email"),
		structField("when", timeLayoutAt(w)),
	)
}

// git_diff_file { git_oid id; char *path; git_object_size_t size;
//                 uint32_t flags; uint16_t mode; uint16_t id_abbrev; }
//
// The leading 20-byte id array is the classic decode trap: the path pointer
// after it must still land on a pointer-width boundary.
func diffFileLayoutAt(w uintptr) *structLayout {
	return newLayout(w,
		bytesField("id", OidSHA1Size),
		pointerField("path"),
		scalarField("size", 8),
		scalarField("flags", 4),
		scalarField("mode", 2),
		scalarField("id_abbrev", 2),
	)
}

// git_diff_delta { git_delta_t status; uint32_t flags; uint16_t similarity;
//                  uint16_t nfiles; git_diff_file old_file, new_file; }
func diffDeltaLayoutAt(w uintptr) *structLayout {
	file := diffFileLayoutAt(w)
	return newLayout(w,
		scalarField("status", 4),
		scalarField("flags", 4),
		scalarField("similarity", 2),
		scalarField("nfiles", 2),
		structField("old_file", file),
		structField("new_file", file),
	)
}

// git_config_entry { char *name; char *value; char *backend_type;
//                    char *origin_path; unsigned include_depth;
//                    git_config_level_t level; void (*free)(...); }
//
// backend_type and origin_path appeared in libgit2 1.4; on older builds the
// decoder reads the free/payload slots instead, so those two fields are
// exposed as optional.
func configEntryLayoutAt(w uintptr) *structLayout {
	return newLayout(w,
		pointerField("name"),
		pointerField("value"),
		pointerField("backend_type"),
		pointerField("origin_path"),
		scalarField("include_depth", 4),
		scalarField("level", 4),
		pointerField("free"),
		pointerField("payload"),
	)
}

// git_status_entry { git_status_t status; git_diff_delta *head_to_index;
//                    git_diff_delta *index_to_workdir; }
func statusEntryLayoutAt(w uintptr) *structLayout {
	return newLayout(w,
		scalarField("status", 4),
		pointerField("head_to_index"),
		pointerField("index_to_workdir"),
	)
}

// Host-width layouts, computed once.
var (
	errorLayout       = errorLayoutAt(ptrSize)
	signatureLayout   = signatureLayoutAt(ptrSize)
	diffFileLayout    = diffFileLayoutAt(ptrSize)
	diffDeltaLayout   = diffDeltaLayoutAt(ptrSize)
	configEntryLayout = configEntryLayoutAt(ptrSize)
	statusEntryLayout = statusEntryLayoutAt(ptrSize)
)

// ErrorRecord is the decoded thread-local error slot.
type ErrorRecord struct {
	Message string
	Klass   int
}

func decodeError(p unsafe.Pointer) (ErrorRecord, error) {
	if p == nil {
		return ErrorRecord{}, &InvalidPointerError{Context: "git_error"}
	}
	return ErrorRecord{
		Message: DecodeCString(peekPointer(p, errorLayout.offset("message"))),
		Klass:   int(peekInt32(p, errorLayout.offset("klass"))),
	}, nil
}

// Signature is a decoded git_signature: author/committer/tagger identity
// plus the commit clock. Offset is signed minutes east of UTC; Sign is the
// textual indicator and always agrees with Offset's sign (a '-' with zero
// offset encodes -0000, which git distinguishes from +0000).
type Signature struct {
	Name   string
	Email  string
	Time   int64 // epoch seconds
	Offset int   // minutes east of UTC
	Sign   byte  // '+' or '-'
}

func decodeSignature(p unsafe.Pointer) (Signature, error) {
	if p == nil {
		return Signature{}, &InvalidPointerError{Context: "git_signature"}
	}
	when := signatureLayout.offset("when")
	tl := timeLayoutAt(ptrSize)
	sig := Signature{
		Name:   DecodeCString(peekPointer(p, signatureLayout.offset("name"))),
		Email:  DecodeCString(peekPointer(p, signatureLayout.offset("email"))),
		Time:   peekInt64(p, when+tl.offset("time")),
		Offset: int(peekInt32(p, when+tl.offset("offset"))),
		Sign:   peekByte(p, when+tl.offset("sign")),
	}
	// Keep sign and offset consistent whatever the native side stored.
	switch {
	case sig.Offset < 0:
		sig.Sign = '-'
	case sig.Offset > 0:
		sig.Sign = '+'
	case sig.Sign != '-':
		sig.Sign = '+'
	}
	return sig, nil
}

// DiffFile is one side of a delta.
type DiffFile struct {
	ID       Oid
	Path     string
	Size     uint64
	Flags    uint32
	Mode     uint16
	IDAbbrev uint16
}

func decodeDiffFileAt(p unsafe.Pointer, base uintptr) (DiffFile, error) {
	id, err := NewOid(peekBytes(p, base+diffFileLayout.offset("id"), OidSHA1Size))
	if err != nil {
		return DiffFile{}, err
	}
	return DiffFile{
		ID:       id,
		Path:     DecodeCString(peekPointer(p, base+diffFileLayout.offset("path"))),
		Size:     peekUint64(p, base+diffFileLayout.offset("size")),
		Flags:    peekUint32(p, base+diffFileLayout.offset("flags")),
		Mode:     peekUint16(p, base+diffFileLayout.offset("mode")),
		IDAbbrev: peekUint16(p, base+diffFileLayout.offset("id_abbrev")),
	}, nil
}

// DeltaStatus mirrors git_delta_t.
type DeltaStatus int32

const (
	DeltaUnmodified DeltaStatus = 0
	DeltaAdded      DeltaStatus = 1
	DeltaDeleted    DeltaStatus = 2
	DeltaModified   DeltaStatus = 3
	DeltaRenamed    DeltaStatus = 4
	DeltaCopied     DeltaStatus = 5
	DeltaIgnored    DeltaStatus = 6
	DeltaUntracked  DeltaStatus = 7
	DeltaTypeChange DeltaStatus = 8
	DeltaUnreadable DeltaStatus = 9
	DeltaConflicted DeltaStatus = 10
)

// DiffDelta is a decoded git_diff_delta.
type DiffDelta struct {
	Status     DeltaStatus
	Flags      uint32
	Similarity uint16
	NFiles     uint16
	OldFile    DiffFile
	NewFile    DiffFile
}

func decodeDiffDelta(p unsafe.Pointer) (DiffDelta, error) {
	if p == nil {
		return DiffDelta{}, &InvalidPointerError{Context: "git_diff_delta"}
	}
	old, err := decodeDiffFileAt(p, diffDeltaLayout.offset("old_file"))
	if err != nil {
		return DiffDelta{}, err
	}
	nw, err := decodeDiffFileAt(p, diffDeltaLayout.offset("new_file"))
	if err != nil {
		return DiffDelta{}, err
	}
	return DiffDelta{
		Status:     DeltaStatus(peekInt32(p, diffDeltaLayout.offset("status"))),
		Flags:      peekUint32(p, diffDeltaLayout.offset("flags")),
		Similarity: peekUint16(p, diffDeltaLayout.offset("similarity")),
		NFiles:     peekUint16(p, diffDeltaLayout.offset("nfiles")),
		OldFile:    old,
		NewFile:    nw,
	}, nil
}

// ConfigEntry is a decoded git_config_entry. BackendType and OriginPath are
// optional; empty on library builds that predate them.
type ConfigEntry struct {
	Name         string
	Value        string
	BackendType  string
	OriginPath   string
	IncludeDepth uint32
	Level        int32
}

func decodeConfigEntry(p unsafe.Pointer) (ConfigEntry, error) {
	if p == nil {
		return ConfigEntry{}, &InvalidPointerError{Context: "git_config_entry"}
	}
	return ConfigEntry{
		Name:         DecodeCString(peekPointer(p, configEntryLayout.offset("name"))),
		Value:        DecodeCString(peekPointer(p, configEntryLayout.offset("value"))),
		BackendType:  DecodeCString(peekPointer(p, configEntryLayout.offset("backend_type"))),
		OriginPath:   DecodeCString(peekPointer(p, configEntryLayout.offset("origin_path"))),
		IncludeDepth: peekUint32(p, configEntryLayout.offset("include_depth")),
		Level:        peekInt32(p, configEntryLayout.offset("level")),
	}, nil
}

// StatusEntry is a decoded git_status_entry. The embedded delta pointers are
// kept raw and decoded on demand: their layout is verified for the 1.x ABI
// only, and a missing side is legitimately NULL (e.g. no index change).
type StatusEntry struct {
	Status uint32

	headToIndex    unsafe.Pointer
	indexToWorkdir unsafe.Pointer
}

func decodeStatusEntry(p unsafe.Pointer) (StatusEntry, error) {
	if p == nil {
		return StatusEntry{}, &InvalidPointerError{Context: "git_status_entry"}
	}
	return StatusEntry{
		Status:         peekUint32(p, statusEntryLayout.offset("status")),
		headToIndex:    peekPointer(p, statusEntryLayout.offset("head_to_index")),
		indexToWorkdir: peekPointer(p, statusEntryLayout.offset("index_to_workdir")),
	}, nil
}

// HeadToIndex decodes the staged-side delta. Second return is false when the
// native side is NULL.
func (s StatusEntry) HeadToIndex() (DiffDelta, bool, error) {
	if s.headToIndex == nil {
		return DiffDelta{}, false, nil
	}
	d, err := decodeDiffDelta(s.headToIndex)
	return d, err == nil, err
}

// IndexToWorkdir decodes the worktree-side delta. Second return is false
// when the native side is NULL.
func (s StatusEntry) IndexToWorkdir() (DiffDelta, bool, error) {
	if s.indexToWorkdir == nil {
		return DiffDelta{}, false, nil
	}
	d, err := decodeDiffDelta(s.indexToWorkdir)
	return d, err == nil, err
}
