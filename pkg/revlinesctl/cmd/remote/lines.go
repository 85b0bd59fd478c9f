package remote

import (
	"bufio"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/spf13/cobra"

	"github.com/ustclug/revlines/pkg/api"
	"github.com/ustclug/revlines/pkg/revlinesctl/factory"
)

type linesOptions struct {
	name       string
	limit      int
	bufferSize string
	all        bool
}

func (o *linesOptions) fetch(f factory.Factory, cursor string) (*api.GetLinesResponse, error) {
	var (
		errMsg echo.HTTPError
		result api.GetLinesResponse
	)
	req := f.RESTClient().R().
		SetError(&errMsg).
		SetResult(&result).
		SetPathParam("name", o.name)
	if o.limit > 0 {
		req.SetQueryParam("limit", strconv.Itoa(o.limit))
	}
	if len(o.bufferSize) > 0 {
		req.SetQueryParam("bufferSize", o.bufferSize)
	}
	if len(cursor) > 0 {
		req.SetQueryParam("cursor", cursor)
	}
	resp, err := req.Get("api/v1/files/{name}/lines")
	if err != nil {
		return nil, err
	}
	if resp.IsError() {
		return nil, errorOf(&errMsg)
	}
	return &result, nil
}

func (o *linesOptions) Run(cmd *cobra.Command, f factory.Factory) error {
	out := cmd.OutOrStdout()
	encoder, err := f.Encoder(out)
	if err != nil {
		return err
	}

	var pages []*api.GetLinesResponse
	w := bufio.NewWriter(out)
	defer w.Flush()
	cursor := ""
	for {
		page, err := o.fetch(f, cursor)
		if err != nil {
			return err
		}
		if encoder != nil {
			pages = append(pages, page)
		} else {
			for _, line := range page.Lines {
				_, _ = w.WriteString(line)
				_ = w.WriteByte('\n')
			}
		}
		if page.EOF || !o.all {
			break
		}
		cursor = page.Cursor
	}
	if encoder == nil {
		return w.Flush()
	}
	if !o.all {
		return encoder.Encode(pages[0])
	}
	merged := api.GetLinesResponse{
		Lines: []string{},
		EOF:   true,
	}
	for _, p := range pages {
		merged.Lines = append(merged.Lines, p.Lines...)
	}
	return encoder.Encode(merged)
}

func NewCmdRemoteLines(f factory.Factory) *cobra.Command {
	o := linesOptions{}
	cmd := &cobra.Command{
		Use:     "lines NAME",
		Args:    cobra.ExactArgs(1),
		Example: "  revlines remote lines -n 50 result.log",
		Short:   "Print the lines of a remote file, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			o.name = args[0]
			return o.Run(cmd, f)
		},
	}
	flags := cmd.Flags()
	flags.IntVarP(&o.limit, "lines", "n", 0, "Lines per request (server default when 0)")
	flags.StringVarP(&o.bufferSize, "buffer-size", "b", "", "Bytes read per backward chunk on the server")
	flags.BoolVarP(&o.all, "all", "a", false, "Follow cursors until the start of the file")
	return cmd
}
