package series

import (
	"errors"
	"fmt"
	"time"

	"cryptomomentum/internal/types"
)

// ErrInsufficientHistory is the sentinel for alignment failures. Match with
// errors.Is.
var ErrInsufficientHistory = errors.New("insufficient aligned history")

// InsufficientHistoryError reports an aligned calendar that is too short to
// backtest, with enough context to diagnose without re-running.
type InsufficientHistoryError struct {
	Required int
	Actual   int
	From     time.Time
	To       time.Time
}

func (e *InsufficientHistoryError) Error() string {
	if e.Actual == 0 {
		return fmt.Sprintf("insufficient aligned history: need %d overlapping days, have none", e.Required)
	}
	return fmt.Sprintf("insufficient aligned history: need %d overlapping days, have %d (%s to %s)",
		e.Required, e.Actual, e.From.Format(types.DateFormat), e.To.Format(types.DateFormat))
}

func (e *InsufficientHistoryError) Unwrap() error {
	return ErrInsufficientHistory
}

// MalformedRowError reports an unparsable row in one asset's input. The asset
// is excluded from the run; the run itself continues.
type MalformedRowError struct {
	Path string
	Line int
	Err  error
}

func (e *MalformedRowError) Error() string {
	return fmt.Sprintf("malformed row in %s (line %d): %v", e.Path, e.Line, e.Err)
}

func (e *MalformedRowError) Unwrap() error {
	return e.Err
}
