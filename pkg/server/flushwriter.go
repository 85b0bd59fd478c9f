package server

import (
	"io"
)

// FlushWriter is implemented by *echo.Response.
type FlushWriter interface {
	io.Writer
	Flush()
}

// flushWriter pushes every write to the client so long tails stream out
// instead of being buffered until the handler returns.
type flushWriter struct {
	w FlushWriter
}

func (f *flushWriter) Write(p []byte) (n int, err error) {
	n, err = f.w.Write(p)
	f.w.Flush()
	return n, err
}

func newFlushWriter(w FlushWriter) io.Writer {
	return &flushWriter{w}
}
