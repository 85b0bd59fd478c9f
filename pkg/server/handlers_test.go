package server

import (
	"bytes"
	"compress/gzip"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ustclug/revlines/pkg/api"
)

const multiLine = "ABCDEF\nGHIJK\nLMNOPQRST\nUVWXYZ"

func TestHandlerListFiles(t *testing.T) {
	te := NewTestEnv(t, map[string]string{
		"b.log":   "bb\n",
		"a.log":   "a\n",
		".hidden": "x",
	})

	var files api.ListFilesResponse
	resp, err := te.RESTClient().R().SetResult(&files).Get("/files")
	require.NoError(t, err)
	require.True(t, resp.IsSuccess(), "Unexpected response: %s", resp.Body())
	require.Len(t, files, 2)
	require.Equal(t, "a.log", files[0].Name)
	require.EqualValues(t, 3, files[1].Size)
}

func TestHandlerGetLines(t *testing.T) {
	te := NewTestEnv(t, map[string]string{
		"multi.log": multiLine,
		"blank.log": "ABCD\n\nXYZ\n\n\n",
		"crlf.log":  "one\r\ntwo\r\n",
		"empty.log": "",
	})
	cli := te.RESTClient()

	for name, want := range map[string][]string{
		"multi.log": {"UVWXYZ", "LMNOPQRST", "GHIJK", "ABCDEF"},
		"blank.log": {"", "", "XYZ", "", "ABCD"},
		"crlf.log":  {"two", "one"},
		"empty.log": {},
	} {
		for _, bufSize := range []string{"1", "5", "4KiB"} {
			var result api.GetLinesResponse
			resp, err := cli.R().
				SetPathParam("name", name).
				SetQueryParam("bufferSize", bufSize).
				SetResult(&result).
				Get("/files/{name}/lines")
			require.NoError(t, err)
			require.True(t, resp.IsSuccess(), "Unexpected response: %s", resp.Body())
			require.Equal(t, want, result.Lines, "%s with buffer %s", name, bufSize)
			require.True(t, result.EOF)
			require.Empty(t, result.Cursor)
		}
	}
	require.Zero(t, te.server.cursors.count())
}

func TestHandlerGetLinesPaging(t *testing.T) {
	te := NewTestEnv(t, map[string]string{
		"multi.log": multiLine,
	})
	cli := te.RESTClient()

	var (
		lines  []string
		cursor string
		pages  int
	)
	for {
		var result api.GetLinesResponse
		req := cli.R().SetQueryParam("limit", "3").SetResult(&result)
		if len(cursor) > 0 {
			req.SetQueryParam("cursor", cursor)
		}
		resp, err := req.Get("/files/multi.log/lines")
		require.NoError(t, err)
		require.True(t, resp.IsSuccess(), "Unexpected response: %s", resp.Body())
		pages++
		lines = append(lines, result.Lines...)
		if result.EOF {
			require.Empty(t, result.Cursor)
			break
		}
		require.NotEmpty(t, result.Cursor)
		require.NotEqual(t, cursor, result.Cursor)
		cursor = result.Cursor
	}
	require.Equal(t, 2, pages)
	require.Equal(t, []string{"UVWXYZ", "LMNOPQRST", "GHIJK", "ABCDEF"}, lines)
	require.Zero(t, te.server.cursors.count())

	// Cursors are single use.
	resp, err := cli.R().SetQueryParam("cursor", cursor).Get("/files/multi.log/lines")
	require.NoError(t, err)
	require.Equal(t, http.StatusNotFound, resp.StatusCode())
}

func TestHandlerGetLinesCursorMismatch(t *testing.T) {
	te := NewTestEnv(t, map[string]string{
		"a.log": "1\n2\n3",
		"b.log": "x",
	})
	cli := te.RESTClient()

	var result api.GetLinesResponse
	resp, err := cli.R().SetQueryParam("limit", "1").SetResult(&result).Get("/files/a.log/lines")
	require.NoError(t, err)
	require.True(t, resp.IsSuccess())
	require.Equal(t, []string{"3"}, result.Lines)

	resp, err = cli.R().SetQueryParam("cursor", result.Cursor).Get("/files/b.log/lines")
	require.NoError(t, err)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode())

	// The cursor is still usable for its own file.
	var next api.GetLinesResponse
	resp, err = cli.R().SetQueryParam("cursor", result.Cursor).SetResult(&next).Get("/files/a.log/lines")
	require.NoError(t, err)
	require.True(t, resp.IsSuccess(), "Unexpected response: %s", resp.Body())
	require.Equal(t, []string{"2", "1"}, next.Lines)
	require.True(t, next.EOF)
}

func TestHandlerGetLinesErrors(t *testing.T) {
	te := NewTestEnv(t, map[string]string{
		"bad.log": "ok\n\xff\xfe\nlast",
	})
	cli := te.RESTClient()

	for _, tc := range []struct {
		name   string
		query  map[string]string
		status int
	}{
		{"missing.log", nil, http.StatusNotFound},
		{"bad.log", map[string]string{"bufferSize": "nope"}, http.StatusBadRequest},
		{"bad.log", map[string]string{"bufferSize": "1TiB"}, http.StatusBadRequest},
		{"bad.log", map[string]string{"bufferSize": "2MiB"}, http.StatusBadRequest},
		{"bad.log", map[string]string{"limit": "-1"}, http.StatusBadRequest},
		{"bad.log", map[string]string{"limit": "100000"}, http.StatusBadRequest},
		{"bad.log", nil, http.StatusUnprocessableEntity},
	} {
		resp, err := cli.R().
			SetPathParam("name", tc.name).
			SetQueryParams(tc.query).
			Get("/files/{name}/lines")
		require.NoError(t, err)
		require.Equal(t, tc.status, resp.StatusCode(), "%s %v: %s", tc.name, tc.query, resp.Body())
	}

	var result api.GetLinesResponse
	resp, err := cli.R().SetQueryParam("limit", "1").SetResult(&result).Get("/files/bad.log/lines")
	require.NoError(t, err)
	require.True(t, resp.IsSuccess())
	require.Equal(t, []string{"last"}, result.Lines)
}

func TestHandlerGetLinesGzip(t *testing.T) {
	te := NewTestEnv(t, nil)
	var buf bytes.Buffer
	gw := gzip.NewWriter(&buf)
	_, err := gw.Write([]byte(multiLine + "\n"))
	require.NoError(t, err)
	require.NoError(t, gw.Close())
	require.NoError(t, os.WriteFile(filepath.Join(te.server.config.LogDir, "old.log.gz"), buf.Bytes(), 0o644))

	var result api.GetLinesResponse
	resp, err := te.RESTClient().R().SetResult(&result).Get("/files/old.log.gz/lines")
	require.NoError(t, err)
	require.True(t, resp.IsSuccess(), "Unexpected response: %s", resp.Body())
	require.Equal(t, []string{"UVWXYZ", "LMNOPQRST", "GHIJK", "ABCDEF"}, result.Lines)
}

func TestHandlerGetTail(t *testing.T) {
	te := NewTestEnv(t, map[string]string{
		"multi.log": multiLine,
	})
	cli := te.RESTClient()

	resp, err := cli.R().SetQueryParam("n", "2").Get("/files/multi.log/tail")
	require.NoError(t, err)
	require.True(t, resp.IsSuccess(), "Unexpected response: %s", resp.Body())
	require.Equal(t, "LMNOPQRST\nUVWXYZ\n", string(resp.Body()))
	require.True(t, strings.HasPrefix(resp.Header().Get("Content-Type"), "text/plain"))

	resp, err = cli.R().Get("/files/multi.log/tail")
	require.NoError(t, err)
	require.Equal(t, multiLine, string(resp.Body()))

	resp, err = cli.R().Get("/files/nope.log/tail")
	require.NoError(t, err)
	require.Equal(t, http.StatusNotFound, resp.StatusCode())
}

func TestHandlerRemoveCursor(t *testing.T) {
	te := NewTestEnv(t, map[string]string{
		"a.log": "1\n2\n3",
	})
	cli := te.RESTClient()

	var result api.GetLinesResponse
	resp, err := cli.R().SetQueryParam("limit", "1").SetResult(&result).Get("/files/a.log/lines")
	require.NoError(t, err)
	require.True(t, resp.IsSuccess())
	require.Equal(t, 1, te.server.cursors.count())

	resp, err = cli.R().SetPathParam("id", result.Cursor).Delete("/cursors/{id}")
	require.NoError(t, err)
	require.Equal(t, http.StatusNoContent, resp.StatusCode())
	require.Zero(t, te.server.cursors.count())

	resp, err = cli.R().SetPathParam("id", result.Cursor).Delete("/cursors/{id}")
	require.NoError(t, err)
	require.Equal(t, http.StatusNotFound, resp.StatusCode())
}

func TestHandlerListStats(t *testing.T) {
	te := NewTestEnv(t, map[string]string{
		"a.log": "1\n2\n3\n",
		"b.log": "x\n",
	})
	cli := te.RESTClient()

	for i := 0; i < 2; i++ {
		resp, err := cli.R().Get("/files/a.log/lines")
		require.NoError(t, err)
		require.True(t, resp.IsSuccess())
	}
	resp, err := cli.R().SetQueryParam("n", "1").Get("/files/b.log/tail")
	require.NoError(t, err)
	require.True(t, resp.IsSuccess())

	var stats api.ListStatsResponse
	resp, err = cli.R().SetResult(&stats).Get("/stats")
	require.NoError(t, err)
	require.True(t, resp.IsSuccess(), "Unexpected response: %s", resp.Body())
	require.Len(t, stats, 2)
	require.Equal(t, "a.log", stats[0].Name)
	require.EqualValues(t, 2, stats[0].Requests)
	require.EqualValues(t, 6, stats[0].Lines)
	require.NotZero(t, stats[0].LastScan)
	require.Equal(t, "b.log", stats[1].Name)
	require.EqualValues(t, 1, stats[1].Requests)
	require.EqualValues(t, 1, stats[1].Lines)
}

func TestHandlerGetTailRecordsServedLines(t *testing.T) {
	te := NewTestEnv(t, map[string]string{
		"c.log": "1\n2\n3\n",
	})
	cli := te.RESTClient()

	resp, err := cli.R().SetQueryParam("n", "100").Get("/files/c.log/tail")
	require.NoError(t, err)
	require.True(t, resp.IsSuccess())
	resp, err = cli.R().Get("/files/c.log/tail")
	require.NoError(t, err)
	require.True(t, resp.IsSuccess())

	var stats api.ListStatsResponse
	resp, err = cli.R().SetResult(&stats).Get("/stats")
	require.NoError(t, err)
	require.True(t, resp.IsSuccess(), "Unexpected response: %s", resp.Body())
	require.Len(t, stats, 1)
	require.EqualValues(t, 2, stats[0].Requests)
	require.EqualValues(t, 6, stats[0].Lines)
}

func TestHandlerGetLinesMaxBufferSize(t *testing.T) {
	te := NewTestEnv(t, map[string]string{
		"a.log": multiLine,
	})
	te.server.config.MaxBufferSize = 8
	cli := te.RESTClient()

	resp, err := cli.R().SetQueryParam("bufferSize", "9").Get("/files/a.log/lines")
	require.NoError(t, err)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode(), "%s", resp.Body())

	var result api.GetLinesResponse
	resp, err = cli.R().SetQueryParam("bufferSize", "8").SetResult(&result).Get("/files/a.log/lines")
	require.NoError(t, err)
	require.True(t, resp.IsSuccess(), "Unexpected response: %s", resp.Body())
	require.Equal(t, []string{"UVWXYZ", "LMNOPQRST", "GHIJK", "ABCDEF"}, result.Lines)
}
