package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ustclug/revlines/pkg/fs"
	"github.com/ustclug/revlines/pkg/revlines"
	"github.com/ustclug/revlines/pkg/tail"
	"github.com/ustclug/revlines/pkg/utils"
)

type tailOptions struct {
	name       string
	n          int
	bufferSize string
}

func (o *tailOptions) Run(cmd *cobra.Command) error {
	size, err := utils.ParseSize(o.bufferSize)
	if err != nil {
		return fmt.Errorf("invalid buffer size: %w", err)
	}
	var f *fs.File
	if o.name == stdinName {
		f, err = fs.Spool(cmd.InOrStdin())
	} else {
		f, err = fs.OpenPath(o.name)
	}
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = tail.New(f, o.n, revlines.WithBufferSize(size)).WriteTo(cmd.OutOrStdout())
	return err
}

func NewCmdTail() *cobra.Command {
	o := tailOptions{}
	cmd := &cobra.Command{
		Use:     "tail FILE",
		Args:    cobra.ExactArgs(1),
		Example: "  revlines tail -n 20 /var/log/syslog",
		Short:   "Output the last N lines of a file in their original order",
		RunE: func(cmd *cobra.Command, args []string) error {
			o.name = args[0]
			return o.Run(cmd)
		},
	}
	flags := cmd.Flags()
	flags.IntVarP(&o.n, "lines", "n", 10, "Output the last N lines (0 means the whole file)")
	flags.StringVarP(&o.bufferSize, "buffer-size", "b", "4KiB", "Bytes read per backward chunk")
	return cmd
}
