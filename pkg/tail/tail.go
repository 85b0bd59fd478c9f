// Package tail provides support for outputing the last N lines of a ReadSeeker.
package tail

import (
	"bytes"
	"io"

	"github.com/ustclug/revlines/pkg/revlines"
)

var eol = []byte("\n")

// Tail prints the last N lines.
type Tail struct {
	r    io.ReadSeeker
	n    int
	opts []revlines.Option

	prepared bool
	lines    [][]byte
	written  int
}

// New returns an instance of Tail. Options are passed to the underlying
// reverse scanner.
func New(r io.ReadSeeker, n int, opts ...revlines.Option) *Tail {
	return &Tail{r: r, n: n, opts: opts}
}

// Prepare performs every read needed before output starts: it collects the
// last N lines, or rewinds the stream when the whole of it is copied.
// WriteTo calls it when it has not been called yet.
func (t *Tail) Prepare() error {
	if t.prepared {
		return nil
	}
	if t.n <= 0 {
		if _, err := t.r.Seek(0, io.SeekStart); err != nil {
			return err
		}
		t.prepared = true
		return nil
	}

	s, err := revlines.New(t.r, t.opts...)
	if err != nil {
		return err
	}
	lines := make([][]byte, 0, min(t.n, 1024))
	for len(lines) < t.n {
		l, err := s.NextBytes()
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}
		lines = append(lines, bytes.Clone(l))
	}
	t.lines = lines
	t.prepared = true
	return nil
}

// WriteTo writes last N lines to the Writer, oldest first.
// Every line is terminated by "\n", including the last one.
func (t *Tail) WriteTo(w io.Writer) (n int64, err error) {
	if err := t.Prepare(); err != nil {
		return 0, err
	}
	if t.n <= 0 {
		lc := &lineCounter{w: w}
		n, err = io.Copy(lc, t.r)
		t.written = lc.lines()
		return n, err
	}

	for i := len(t.lines) - 1; i >= 0; i-- {
		written, err := w.Write(append(t.lines[i], eol...))
		n += int64(written)
		if err != nil {
			return n, err
		}
		t.written++
	}
	return n, nil
}

// Lines reports how many lines the last WriteTo wrote. A final line without
// a terminator counts as a line.
func (t *Tail) Lines() int {
	return t.written
}

type lineCounter struct {
	w     io.Writer
	n     int
	total int64
	last  byte
}

func (lc *lineCounter) Write(p []byte) (int, error) {
	n, err := lc.w.Write(p)
	lc.n += bytes.Count(p[:n], eol)
	if n > 0 {
		lc.total += int64(n)
		lc.last = p[n-1]
	}
	return n, err
}

func (lc *lineCounter) lines() int {
	if lc.total > 0 && lc.last != '\n' {
		return lc.n + 1
	}
	return lc.n
}
