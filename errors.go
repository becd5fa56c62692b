package gitcore

import (
	"errors"
	"fmt"
)

// Native return codes, mirroring git_error_code. Non-negative is success.
const (
	codeOK             = 0
	codeError          = -1
	codeNotFound       = -3
	codeExists         = -4
	codeAmbiguous      = -5
	codeBufTooShort    = -6
	codeUser           = -7
	codeBareRepo       = -8
	codeUnbornBranch   = -9
	codeUnmerged       = -10
	codeNonFastForward = -11
	codeInvalidSpec    = -12
	codeConflict       = -13
	codeLocked         = -14
	codeModified       = -15
	codeAuth           = -16
	codeCertificate    = -17
	codeApplied        = -18
	codePeel           = -19
	codeEOF            = -20
	codeInvalid        = -21
	codeUncommitted    = -22
	codeDirectory      = -23
	codeMergeConflict  = -24
	codePassthrough    = -30
	codeIterOver       = -31
	codeRetry          = -32
	codeMismatch       = -33
	codeIndexDirty     = -34
	codeApplyFail      = -35
)

// ErrIterOver is returned by iteration-style calls (revwalk next, foreach
// drivers) when the native library reports GIT_ITEROVER. It marks normal
// termination, not a failure; loops test for it with errors.Is.
var ErrIterOver = errors.New("gitcore: iteration over")

// ErrIterationStop is returned from a host callback to stop a foreach early.
// The driving call then returns nil.
var ErrIterationStop = errors.New("gitcore: iteration stopped by callback")

// LoadError reports a shared library or symbol that could not be resolved.
type LoadError struct {
	Msg string
	Err error
}

func (e *LoadError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("gitcore: load: %s: %v", e.Msg, e.Err)
	}
	return "gitcore: load: " + e.Msg
}

func (e *LoadError) Unwrap() error { return e.Err }

// UninitializedError reports use of the binding before Load (or after
// Unload).
type UninitializedError struct{}

func (e *UninitializedError) Error() string {
	return "gitcore: library not loaded; call Load first"
}

// InvalidPointerError reports a decode attempted on a null or unusable
// native address.
type InvalidPointerError struct {
	Context string
}

func (e *InvalidPointerError) Error() string {
	return "gitcore: null native pointer: " + e.Context
}

// UseAfterCloseError reports an operation on a handle that was already
// released.
type UseAfterCloseError struct {
	Context string
}

func (e *UseAfterCloseError) Error() string {
	return "gitcore: use after close: " + e.Context
}

// NativeCallError is a negative native return code plus its symbolic class
// and the library's last-error message. Immutable once constructed.
type NativeCallError struct {
	Code    int
	Class   string
	Message string
	Context string
}

func (e *NativeCallError) Error() string {
	return fmt.Sprintf("gitcore: %s: %s (code %d, %s)", e.Context, e.Message, e.Code, e.Class)
}

var errorClasses = map[int]string{
	codeError:          "generic",
	codeNotFound:       "not found",
	codeExists:         "already exists",
	codeAmbiguous:      "ambiguous prefix",
	codeBufTooShort:    "buffer too short",
	codeUser:           "callback abort",
	codeBareRepo:       "bare repository",
	codeUnbornBranch:   "unborn branch",
	codeUnmerged:       "unmerged entries",
	codeNonFastForward: "non fast-forward",
	codeInvalidSpec:    "invalid spec",
	codeConflict:       "conflict",
	codeLocked:         "locked",
	codeModified:       "modified",
	codeAuth:           "authentication",
	codeCertificate:    "certificate",
	codeApplied:        "already applied",
	codePeel:           "peel",
	codeEOF:            "end of file",
	codeInvalid:        "invalid",
	codeUncommitted:    "uncommitted changes",
	codeDirectory:      "directory",
	codeMergeConflict:  "merge conflict",
	codePassthrough:    "passthrough",
	codeRetry:          "retry",
	codeMismatch:       "hash mismatch",
	codeIndexDirty:     "dirty index",
	codeApplyFail:      "patch apply failed",
}

func classify(code int) string {
	if c, ok := errorClasses[code]; ok {
		return c
	}
	return "unknown"
}

// CheckResult is the uniform gate on native return codes: non-negative codes
// pass through as nil, GIT_ITEROVER becomes the ErrIterOver sentinel, and
// any other negative code becomes a NativeCallError carrying the last-error
// message when the library can supply one.
func CheckResult(code int, context string) error {
	if code >= 0 {
		return nil
	}
	if code == codeIterOver {
		return ErrIterOver
	}
	msg := lastErrorMessage()
	if msg == "" {
		msg = classify(code) + " error"
	}
	return &NativeCallError{
		Code:    code,
		Class:   classify(code),
		Message: msg,
		Context: context,
	}
}

// lastErrorMessage pulls the message out of the library's thread-local error
// slot. Best effort: before Load (or when the slot is clear) it returns "".
func lastErrorMessage() string {
	libMu.Lock()
	l := loaded
	libMu.Unlock()
	if l == nil {
		return ""
	}
	p := l.fn("git_error_last").callPtr()
	if p == nil {
		return ""
	}
	rec, err := decodeError(p)
	if err != nil {
		return ""
	}
	return rec.Message
}
