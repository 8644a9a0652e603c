package protocol

import (
	"fmt"
	"time"
)

// DateLayout is the naive local timestamp layout used by the terminals.
const DateLayout = "2006-01-02 15:04:05"

const offsetLayout = DateLayout + "-0700"

// RenderOffset renders a whole-hour UTC offset as ±HH00. Zero renders as +0000.
func RenderOffset(hours int) string {
	sign := '+'
	if hours < 0 {
		sign = '-'
		hours = -hours
	}
	return fmt.Sprintf("%c%02d00", sign, hours)
}

// Normalize interprets a device-local timestamp at the given hour offset and
// returns the same instant in the canonical location.
func Normalize(local string, hours int, canonical *time.Location) (time.Time, error) {
	if len(local) != len(DateLayout) {
		return time.Time{}, fmt.Errorf("%w: %q", ErrMalformedTimestamp, local)
	}
	t, err := time.Parse(offsetLayout, local+RenderOffset(hours))
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrMalformedTimestamp, local)
	}
	if canonical == nil {
		canonical = time.UTC
	}
	return t.In(canonical), nil
}

// Localize is the inverse of Normalize: it renders an instant as the naive
// local string a terminal at the given offset would have reported.
func Localize(t time.Time, hours int) string {
	return t.In(time.FixedZone(RenderOffset(hours), hours*3600)).Format(DateLayout)
}
