package revlines

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidUTF8 is wrapped by decoding errors.
	ErrInvalidUTF8 = errors.New("line is not valid UTF-8")
	// ErrInvalidBufferSize is returned by New for a chunk size below 1.
	ErrInvalidBufferSize = errors.New("invalid buffer size")
)

// Kind classifies the errors produced while scanning.
type Kind uint8

const (
	// KindIO means a seek or read against the stream failed or came up short.
	KindIO Kind = iota + 1
	// KindDecode means a completed line is not valid UTF-8.
	KindDecode
)

func (k Kind) String() string {
	switch k {
	case KindIO:
		return "io"
	case KindDecode:
		return "decode"
	default:
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
}

// Error is returned for every failure after construction succeeded.
type Error struct {
	Kind Kind
	// Offset is where the failing chunk or line starts in the stream.
	Offset int64
	Err    error
}

func (e *Error) Error() string {
	return fmt.Sprintf("revlines: %s error at offset %d: %s", e.Kind, e.Offset, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// KindOf returns the Kind of err, or 0 if err is not an *Error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}

func ioError(off int64, err error) error {
	return &Error{Kind: KindIO, Offset: off, Err: err}
}
