package remote

import (
	"fmt"

	"github.com/labstack/echo/v4"
	"github.com/spf13/cobra"

	"github.com/ustclug/revlines/pkg/revlinesctl/factory"
)

func NewCmdRemote(f factory.Factory) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "remote",
		Short: "Read files served by a revlines server",
	}
	cmd.AddCommand(
		NewCmdRemoteLs(f),
		NewCmdRemoteLines(f),
		NewCmdRemoteTail(f),
		NewCmdRemoteStats(f),
	)
	return cmd
}

func errorOf(errMsg *echo.HTTPError) error {
	return fmt.Errorf("%v", errMsg.Message)
}
