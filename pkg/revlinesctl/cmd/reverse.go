package cmd

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/ustclug/revlines/pkg/fs"
	"github.com/ustclug/revlines/pkg/revlines"
	"github.com/ustclug/revlines/pkg/revlinesctl/factory"
	"github.com/ustclug/revlines/pkg/utils"
)

const stdinName = "-"

// ReverseOptions prints files last line first.
type ReverseOptions struct {
	bufferSize string
	lines      int
	raw        bool
}

func (o *ReverseOptions) AddFlags(flags *pflag.FlagSet) {
	flags.StringVarP(&o.bufferSize, "buffer-size", "b", "4KiB", "Bytes read per backward chunk, e.g. 512, 64k, 1MiB")
	flags.IntVarP(&o.lines, "lines", "n", 0, "Print at most N lines per file (0 means all)")
	flags.BoolVar(&o.raw, "raw", false, "Do not reject lines that are not valid UTF-8")
}

// Run reverses every file in names, or stdin when names is empty.
func (o *ReverseOptions) Run(cmd *cobra.Command, f factory.Factory, names []string) error {
	size, err := utils.ParseSize(o.bufferSize)
	if err != nil {
		return fmt.Errorf("invalid buffer size: %w", err)
	}
	if len(names) == 0 {
		names = []string{stdinName}
	}
	l := f.Logger()
	out := bufio.NewWriter(cmd.OutOrStdout())
	for _, name := range names {
		err := o.reverse(out, cmd.InOrStdin(), l.With(slog.String("file", name)), name, size)
		if err != nil {
			_ = out.Flush()
			return fmt.Errorf("%s: %w", name, err)
		}
	}
	return out.Flush()
}

func (o *ReverseOptions) reverse(w io.Writer, stdin io.Reader, l *slog.Logger, name string, size int) error {
	sc, err := openScanner(stdin, name, size)
	if err != nil {
		return err
	}
	defer sc.Close()
	l.Debug("Scanning", slog.Int("buffer_size", size), slog.Int64("bytes", sc.Offset()))

	n := 0
	for o.lines <= 0 || n < o.lines {
		var line []byte
		if o.raw {
			line, err = sc.NextBytes()
		} else {
			var s string
			s, err = sc.Next()
			line = []byte(s)
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}
		if _, err := w.Write(append(line, '\n')); err != nil {
			return err
		}
		n++
	}
	l.Debug("Done", slog.Int("lines", n))
	return nil
}

func openScanner(stdin io.Reader, name string, size int) (*revlines.Scanner, error) {
	var (
		f   *fs.File
		err error
	)
	if name == stdinName {
		f, err = fs.Spool(stdin)
	} else {
		f, err = fs.OpenPath(name)
	}
	if err != nil {
		return nil, err
	}
	sc, err := revlines.New(f, revlines.WithBufferSize(size))
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	return sc, nil
}
