package remote

import (
	"github.com/labstack/echo/v4"
	"github.com/spf13/cobra"

	"github.com/ustclug/revlines/pkg/api"
	"github.com/ustclug/revlines/pkg/revlinesctl/factory"
	"github.com/ustclug/revlines/pkg/tabwriter"
	"github.com/ustclug/revlines/pkg/utils"
)

func runLs(cmd *cobra.Command, f factory.Factory) error {
	var (
		errMsg echo.HTTPError
		result api.ListFilesResponse
	)
	resp, err := f.RESTClient().R().
		SetError(&errMsg).
		SetResult(&result).
		Get("api/v1/files")
	if err != nil {
		return err
	}
	if resp.IsError() {
		return errorOf(&errMsg)
	}

	out := cmd.OutOrStdout()
	encoder, err := f.Encoder(out)
	if err != nil {
		return err
	}
	if encoder != nil {
		return encoder.Encode(result)
	}
	printer := tabwriter.New(out)
	printer.SetHeader([]string{
		"name",
		"size",
		"modified",
	})
	for _, r := range result {
		printer.Append(r.Name, utils.PrettySize(r.Size), r.Mtime.Local().Format("2006-01-02 15:04:05"))
	}
	return printer.Render()
}

func NewCmdRemoteLs(f factory.Factory) *cobra.Command {
	return &cobra.Command{
		Use:   "ls",
		Args:  cobra.NoArgs,
		Short: "List the files served by the remote",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLs(cmd, f)
		},
	}
}
