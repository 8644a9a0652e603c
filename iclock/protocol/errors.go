package protocol

import (
	"errors"
	"fmt"
)

var (
	ErrMissingSerialNumber = errors.New("serial number not provided")
	ErrMalformedRecord     = errors.New("malformed record")
	ErrMalformedTimestamp  = errors.New("malformed timestamp")
)

// RecordError reports a single body line that could not be decoded.
// Line is 1-based.
type RecordError struct {
	Line int
	Text string
	Err  error
}

func (e *RecordError) Error() string {
	return fmt.Sprintf("line %d: %v", e.Line, e.Err)
}

func (e *RecordError) Unwrap() error {
	return e.Err
}

func malformed(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrMalformedRecord, fmt.Sprintf(format, args...))
}
