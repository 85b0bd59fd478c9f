package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ustclug/revlines/pkg/server"
)

type serveOptions struct {
	config string
}

func (o *serveOptions) Run(cmd *cobra.Command) error {
	s, err := server.New(o.config)
	if err != nil {
		return err
	}
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return s.Start(ctx)
}

func NewCmdServe() *cobra.Command {
	o := serveOptions{}
	cmd := &cobra.Command{
		Use:   "serve",
		Args:  cobra.NoArgs,
		Short: "Serve the files of a directory over HTTP, newest lines first",
		RunE: func(cmd *cobra.Command, args []string) error {
			return o.Run(cmd)
		},
	}
	cmd.Flags().StringVarP(&o.config, "config", "c", "/etc/revlines/config.toml", "Path to the config file")
	return cmd
}
