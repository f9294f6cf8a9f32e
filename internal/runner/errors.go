package runner

import "fmt"

// Kind classifies a run failure for user-visible reporting.
type Kind string

const (
	KindIO         Kind = "io"
	KindNetwork    Kind = "network"
	KindDecode     Kind = "decode"
	KindFileSystem Kind = "filesystem"
	KindManifest   Kind = "manifest"
	KindLockfile   Kind = "lockfile"
	KindPermission Kind = "permission"
	KindOther      Kind = "other"
)

// Error tags a failure with the component kind it came from. Every failure is
// fatal to the run; the orchestrator never retries.
type Error struct {
	Kind Kind
	Err  error
}

func (e *Error) Error() string {
	switch e.Kind {
	case KindIO:
		return fmt.Sprintf("I/O error: %v", e.Err)
	case KindNetwork:
		return fmt.Sprintf("network error: %v", e.Err)
	case KindDecode:
		return fmt.Sprintf("decode error: %v", e.Err)
	case KindFileSystem:
		return fmt.Sprintf("file system error: %v", e.Err)
	case KindManifest:
		return fmt.Sprintf("manifest error: %v", e.Err)
	case KindLockfile:
		return fmt.Sprintf("lockfile error: %v", e.Err)
	case KindPermission:
		return fmt.Sprintf("permission error: %v", e.Err)
	default:
		return e.Err.Error()
	}
}

func (e *Error) Unwrap() error {
	return e.Err
}

func fail(kind Kind, format string, v ...any) *Error {
	return &Error{Kind: kind, Err: fmt.Errorf(format, v...)}
}
