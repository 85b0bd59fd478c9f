package tabwriter

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRender(t *testing.T) {
	var buf bytes.Buffer
	w := New(&buf)
	w.SetHeader([]string{"name", "size"})
	w.Append("a.log", 12)
	w.Append("longer.log", "4KiB")
	require.NoError(t, w.Render())
	require.Equal(t, ""+
		"NAME         SIZE\n"+
		"a.log        12\n"+
		"longer.log   4KiB\n", buf.String())
}
