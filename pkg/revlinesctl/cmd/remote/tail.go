package remote

import (
	"encoding/json"
	"io"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/spf13/cobra"

	"github.com/ustclug/revlines/pkg/revlinesctl/factory"
)

type tailOptions struct {
	name string
	n    int
}

func (o *tailOptions) Run(cmd *cobra.Command, f factory.Factory) error {
	resp, err := f.RESTClient().R().
		SetDoNotParseResponse(true).
		SetPathParam("name", o.name).
		SetQueryParam("n", strconv.Itoa(o.n)).
		Get("api/v1/files/{name}/tail")
	if err != nil {
		return err
	}
	body := resp.RawBody()
	defer body.Close()
	if resp.IsError() {
		var errMsg echo.HTTPError
		err = json.NewDecoder(body).Decode(&errMsg)
		if err != nil {
			return err
		}
		return errorOf(&errMsg)
	}
	_, err = io.Copy(cmd.OutOrStdout(), body)
	return err
}

func NewCmdRemoteTail(f factory.Factory) *cobra.Command {
	o := tailOptions{}
	cmd := &cobra.Command{
		Use:   "tail NAME",
		Args:  cobra.ExactArgs(1),
		Short: "Output the last N lines of a remote file",
		RunE: func(cmd *cobra.Command, args []string) error {
			o.name = args[0]
			return o.Run(cmd, f)
		},
	}
	cmd.Flags().IntVarP(&o.n, "lines", "n", 10, "Output the last N lines (0 means the whole file)")
	return cmd
}
