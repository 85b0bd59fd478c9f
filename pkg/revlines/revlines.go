// Package revlines reads the lines of a seekable stream in reverse order.
//
// The stream is consumed backward in fixed-size chunks starting from its end,
// so only the line under construction and one chunk are held in memory.
package revlines

import (
	"fmt"
	"io"
	"iter"
	"slices"
	"unicode/utf8"
)

// DefaultBufferSize is the chunk size used when no option overrides it.
const DefaultBufferSize = 4096

const (
	lf = '\n'
	cr = '\r'
)

// Option configures a Scanner.
type Option func(*Scanner)

// WithBufferSize sets the number of bytes read per backward chunk.
func WithBufferSize(n int) Option {
	return func(s *Scanner) {
		s.bufSize = int64(n)
	}
}

// Scanner produces the lines of a stream from last to first.
// A Scanner owns its stream and must not be used from multiple goroutines.
type Scanner struct {
	r       io.ReadSeeker
	pos     int64
	bufSize int64

	chunk   []byte
	acc     []byte
	start   int64
	pending bool
	skipCR  bool
	err     error
}

// New seeks r to its end and prepares a Scanner over it.
// A trailing "\n" or "\r\n" does not produce an empty last line.
func New(r io.ReadSeeker, opts ...Option) (*Scanner, error) {
	s := &Scanner{
		r:       r,
		bufSize: DefaultBufferSize,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.bufSize < 1 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidBufferSize, s.bufSize)
	}

	size, err := r.Seek(0, io.SeekEnd)
	if err != nil {
		return nil, ioError(0, fmt.Errorf("seek end: %w", err))
	}
	s.pos = size
	s.pending = size > 0

	n := min(size, 2)
	tail, err := s.readChunk(n)
	if err != nil {
		return nil, err
	}
	var keep int64
	switch {
	case n == 0:
	case n == 2 && tail[0] == cr && tail[1] == lf:
	case tail[n-1] == lf:
		keep = n - 1
	default:
		keep = n
	}
	if err := s.advance(keep); err != nil {
		return nil, err
	}
	return s, nil
}

// Next returns the next line, without its terminator.
// It returns io.EOF once the start of the stream has been reached. Any other
// error is an *Error and ends production: later calls return it again.
func (s *Scanner) Next() (string, error) {
	b, err := s.next()
	if err != nil {
		return "", err
	}
	if !utf8.Valid(b) {
		s.err = &Error{Kind: KindDecode, Offset: s.start, Err: ErrInvalidUTF8}
		return "", s.err
	}
	return string(b), nil
}

// NextBytes is like Next but skips UTF-8 validation.
// The returned slice is only valid until the next call.
func (s *Scanner) NextBytes() ([]byte, error) {
	return s.next()
}

// All returns an iterator over the remaining lines. Iteration stops after
// the first error is yielded.
func (s *Scanner) All() iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		for {
			line, err := s.Next()
			if err == io.EOF {
				return
			}
			if !yield(line, err) || err != nil {
				return
			}
		}
	}
}

// Offset reports how many bytes from the start of the stream are still unread.
func (s *Scanner) Offset() int64 {
	return s.pos
}

// Close closes the underlying stream if it implements io.Closer.
func (s *Scanner) Close() error {
	if c, ok := s.r.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

func (s *Scanner) next() ([]byte, error) {
	if s.err != nil {
		return nil, s.err
	}
	s.acc = s.acc[:0]
	for {
		if s.pos == 0 {
			if !s.pending {
				return nil, io.EOF
			}
			s.pending = false
			s.skipCR = false
			s.start = 0
			return s.finish(), nil
		}

		buf, err := s.readChunk(min(s.bufSize, s.pos))
		if err != nil {
			s.err = err
			return nil, err
		}
		for i := len(buf) - 1; i >= 0; i-- {
			c := buf[i]
			if s.skipCR {
				s.skipCR = false
				if c == cr {
					continue
				}
			}
			if c == lf {
				// Park right before the terminator; the next line ends there.
				if err := s.advance(int64(i)); err != nil {
					s.err = err
					return nil, err
				}
				s.skipCR = true
				s.start = s.pos + 1
				return s.finish(), nil
			}
			s.acc = append(s.acc, c)
		}
	}
}

func (s *Scanner) finish() []byte {
	slices.Reverse(s.acc)
	return s.acc
}

// readChunk reads the size bytes ending at the current position and leaves
// the stream positioned at their start.
func (s *Scanner) readChunk(size int64) ([]byte, error) {
	if int64(cap(s.chunk)) < size {
		s.chunk = make([]byte, size)
	}
	buf := s.chunk[:size]
	if size == 0 {
		return buf, nil
	}
	start := s.pos - size
	if _, err := s.r.Seek(-size, io.SeekCurrent); err != nil {
		return nil, ioError(start, fmt.Errorf("seek: %w", err))
	}
	if _, err := io.ReadFull(s.r, buf); err != nil {
		if err == io.EOF {
			err = io.ErrUnexpectedEOF
		}
		return nil, ioError(start, fmt.Errorf("read %d bytes: %w", size, err))
	}
	if _, err := s.r.Seek(-size, io.SeekCurrent); err != nil {
		return nil, ioError(start, fmt.Errorf("seek: %w", err))
	}
	s.pos = start
	return buf, nil
}

func (s *Scanner) advance(n int64) error {
	if n == 0 {
		return nil
	}
	if _, err := s.r.Seek(n, io.SeekCurrent); err != nil {
		return ioError(s.pos, fmt.Errorf("seek: %w", err))
	}
	s.pos += n
	return nil
}
