package rewrite

import (
	"errors"
	"fmt"

	"github.com/ai8future/encryptsql/statement"
)

var (
	// ErrUnsupportedRewrite matches every *UnsupportedRewriteError.
	ErrUnsupportedRewrite = errors.New("rewrite: unsupported statement shape")

	// ErrParameterIndex indicates a placeholder refers past the end of the
	// supplied parameters.
	ErrParameterIndex = errors.New("rewrite: parameter index out of range")
)

// UnsupportedRewriteError reports a statement shape that cannot be rewritten
// without changing its meaning, such as a range comparison on a cipher
// column. Start and Stop locate the offending segment.
type UnsupportedRewriteError struct {
	Reason string
	Start  int
	Stop   int
}

func (e *UnsupportedRewriteError) Error() string {
	return fmt.Sprintf("rewrite: %s at [%d, %d]", e.Reason, e.Start, e.Stop)
}

// Is reports true for ErrUnsupportedRewrite.
func (e *UnsupportedRewriteError) Is(target error) bool { return target == ErrUnsupportedRewrite }

func unsupported(seg statement.Segment, format string, args ...any) error {
	return &UnsupportedRewriteError{
		Reason: fmt.Sprintf(format, args...),
		Start:  seg.StartIndex(),
		Stop:   seg.StopIndex(),
	}
}
