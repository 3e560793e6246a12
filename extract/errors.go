package extract

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidLimit is returned when fewer than one object is requested.
	ErrInvalidLimit = errors.New("max objects must be at least 1")

	// ErrNeedMoreData means the input ended before the array was located or
	// before it was closed.
	ErrNeedMoreData = errors.New("need more data")

	// ErrUnexpectedLayout means the search limit was exceeded before the
	// array was located.
	ErrUnexpectedLayout = errors.New("array not found within search limit")

	// ErrBufferLimit means the buffer limit was exceeded before enough
	// objects were found.
	ErrBufferLimit = errors.New("buffer limit exceeded")
)

// A StreamError is a failure of the underlying reader.  No partial result
// comes with it.
type StreamError struct {
	Offset int64 // bytes successfully read before the failure
	Err    error
}

func (e *StreamError) Error() string {
	return fmt.Sprintf("read failed after %d bytes: %s", e.Offset, e.Err)
}

func (e *StreamError) Unwrap() error {
	return e.Err
}

// A MalformedError is returned when an extracted fragment does not parse as
// an array of the objects it was cut around.  This happens with invalid input.
type MalformedError struct {
	Fragment string
	Err      error
}

const maxQuotedFragment = 64

func (e *MalformedError) Error() string {
	frag := e.Fragment
	if len(frag) > maxQuotedFragment {
		frag = frag[:maxQuotedFragment] + "..."
	}
	return fmt.Sprintf("malformed fragment %q: %s", frag, e.Err)
}

func (e *MalformedError) Unwrap() error {
	return e.Err
}
