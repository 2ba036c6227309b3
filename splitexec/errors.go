package splitexec

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	// ErrExhausted is returned by Iterator.Next once every split point has
	// been produced. It marks the normal end of a sequence.
	ErrExhausted = errors.New("splitexec: no more split points")

	// ErrDefect is matched by every *DefectError.
	ErrDefect = errors.New("splitexec: malformed method body")

	// ErrInvalidConfig is returned by New for unusable bounds.
	ErrInvalidConfig = errors.New("splitexec: invalid configuration")
)

// DefectError reports a method body that cannot be analyzed: an unresolved
// branch target, an unrecognized or mispaired stack value, a stack
// underflow. Analysis of the method stops at the first defect.
type DefectError struct {
	Method string // name and descriptor
	Index  int    // instruction index, -1 when not tied to one
	Reason string
}

func (e *DefectError) Error() string {
	if e.Index < 0 {
		return fmt.Sprintf("%s: %s", e.Method, e.Reason)
	}
	return fmt.Sprintf("%s: instruction %d: %s", e.Method, e.Index, e.Reason)
}

// Is makes errors.Is(err, ErrDefect) hold for every defect.
func (e *DefectError) Is(target error) bool {
	return target == ErrDefect
}

// defect panics with a *DefectError. Panics never leave the package: the
// session boundary recovers them.
func defect(index int, format string, args ...any) {
	panic(&DefectError{Index: index, Reason: fmt.Sprintf(format, args...)})
}

// recoverDefect converts a defect panic into an error carrying method
// context. Other panics are re-raised.
func recoverDefect(method string, errp *error) {
	r := recover()
	if r == nil {
		return
	}
	d, ok := r.(*DefectError)
	if !ok {
		panic(r)
	}
	d.Method = method
	*errp = errors.WithStack(d)
}
