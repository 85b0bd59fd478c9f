// Package tabwriter renders aligned tables for the command line.
package tabwriter

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
)

const (
	minWidth = 6
	width    = 4
	padding  = 3
	padChar  = ' '
)

type Writer struct {
	out    io.Writer
	header []string
	rows   [][]string
}

func New(out io.Writer) *Writer {
	return &Writer{out: out}
}

// SetHeader sets the column names. They are printed in upper case.
func (w *Writer) SetHeader(header []string) {
	w.header = make([]string, 0, len(header))
	for _, col := range header {
		w.header = append(w.header, strings.ToUpper(col))
	}
}

// Append adds a row, formatting every cell with fmt.Sprint.
func (w *Writer) Append(cells ...any) {
	row := make([]string, 0, len(cells))
	for _, c := range cells {
		row = append(row, fmt.Sprint(c))
	}
	w.rows = append(w.rows, row)
}

// Render writes the header and all rows appended so far.
func (w *Writer) Render() error {
	tw := tabwriter.NewWriter(w.out, minWidth, width, padding, padChar, 0)
	if len(w.header) > 0 {
		if _, err := fmt.Fprintln(tw, strings.Join(w.header, "\t")); err != nil {
			return err
		}
	}
	for _, row := range w.rows {
		if _, err := fmt.Fprintln(tw, strings.Join(row, "\t")); err != nil {
			return err
		}
	}
	return tw.Flush()
}
