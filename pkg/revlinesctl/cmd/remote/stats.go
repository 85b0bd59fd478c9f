package remote

import (
	"time"

	"github.com/labstack/echo/v4"
	"github.com/spf13/cobra"

	"github.com/ustclug/revlines/pkg/api"
	"github.com/ustclug/revlines/pkg/revlinesctl/factory"
	"github.com/ustclug/revlines/pkg/tabwriter"
)

func runStats(cmd *cobra.Command, f factory.Factory) error {
	var (
		errMsg echo.HTTPError
		result api.ListStatsResponse
	)
	resp, err := f.RESTClient().R().
		SetError(&errMsg).
		SetResult(&result).
		Get("api/v1/stats")
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
		"requests",
		"lines",
		"last-scan",
	})
	for _, r := range result {
		printer.Append(r.Name, r.Requests, r.Lines, time.Unix(r.LastScan, 0).Format(time.RFC3339))
	}
	return printer.Render()
}

func NewCmdRemoteStats(f factory.Factory) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Args:  cobra.NoArgs,
		Short: "Show how often the remote files have been read",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStats(cmd, f)
		},
	}
}
