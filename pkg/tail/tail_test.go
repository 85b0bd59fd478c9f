package tail

import (
	"bytes"
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ustclug/revlines/pkg/revlines"
)

type config struct {
	lens []int
	n    int
}

func TestWithoutEOL(t *testing.T) {
	t.Parallel()
	l := []int{1, 2, 3, 4}
	testReadLines(t, config{l, 10}, false)
}

func TestReadLongLines(t *testing.T) {
	t.Parallel()
	l := []int{128 * 1024, 256 * 1024, 3, 4, 5}
	testReadLines(t, config{l, 3}, true)
}

func TestReadLongLastLine(t *testing.T) {
	t.Parallel()
	l := []int{3, 4, 64 * 1024}
	testReadLines(t, config{l, 1}, true)
}

func testReadLines(t *testing.T, cfg config, hasEOL bool) {
	var (
		lines    [][]byte
		input    []byte
		expected []byte
	)
	for _, leng := range cfg.lens {
		line := make([]byte, 0, leng)
		for i := 1; i < leng; i++ {
			line = append(line, 'a')
		}
		line = append(line, '\n')
		lines = append(lines, line)
		input = append(input, line...)
	}
	i := len(lines) - cfg.n
	if i < 0 {
		i = 0
	}
	for ; i < len(lines); i++ {
		expected = append(expected, lines[i]...)
	}
	if !hasEOL {
		input = input[:len(input)-1]
	}
	reader := bytes.NewReader(input)
	tail := New(reader, cfg.n)
	buffer := new(bytes.Buffer)
	written, err := tail.WriteTo(buffer)
	if err != nil {
		t.Fatal(err)
	}
	if written != int64(len(expected)) {
		t.Fatalf("expected length: %d, but got %d", len(expected), written)
	}
	if !reflect.DeepEqual(buffer.Bytes(), expected) {
		t.Fatalf("expected content:\n%s\nbut got:\n%s", string(expected), string(buffer.Bytes()))
	}
}

func TestCopyAll(t *testing.T) {
	t.Parallel()
	const input = "a\nb\nc"
	r := strings.NewReader(input)
	_, err := r.Seek(2, 0)
	require.NoError(t, err)

	var buf bytes.Buffer
	n, err := New(r, 0).WriteTo(&buf)
	require.NoError(t, err)
	require.Equal(t, int64(len(input)), n)
	require.Equal(t, input, buf.String())
}

func TestCRLFAndSmallChunks(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	_, err := New(strings.NewReader("one\r\ntwo\r\nthree\r\n"), 2, revlines.WithBufferSize(1)).WriteTo(&buf)
	require.NoError(t, err)
	require.Equal(t, "two\nthree\n", buf.String())
}

func TestBlankLines(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	_, err := New(strings.NewReader("x\n\n\ny\n"), 3).WriteTo(&buf)
	require.NoError(t, err)
	require.Equal(t, "\n\ny\n", buf.String())
}

func TestEmpty(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	n, err := New(strings.NewReader(""), 5).WriteTo(&buf)
	require.NoError(t, err)
	require.Zero(t, n)
	require.Empty(t, buf.String())
}

func TestInvalidBufferSize(t *testing.T) {
	t.Parallel()
	_, err := New(strings.NewReader("a"), 1, revlines.WithBufferSize(-1)).WriteTo(new(bytes.Buffer))
	require.ErrorIs(t, err, revlines.ErrInvalidBufferSize)
}

func TestLines(t *testing.T) {
	t.Parallel()
	for _, tc := range []struct {
		input string
		n     int
		lines int
	}{
		{"1\n2\n3\n", 100, 3},
		{"1\n2\n3\n", 2, 2},
		{"1\n2\n3\n", 0, 3},
		{"1\n2\n3", 0, 3},
		{"", 0, 0},
		{"", 4, 0},
		{"\n\n", 0, 2},
	} {
		tl := New(strings.NewReader(tc.input), tc.n)
		_, err := tl.WriteTo(new(bytes.Buffer))
		require.NoError(t, err)
		require.Equal(t, tc.lines, tl.Lines(), "input %q, n %d", tc.input, tc.n)
	}
}

type failingReader struct {
	*strings.Reader
	failAfter int
}

var errBrokenRead = errors.New("broken read")

func (r *failingReader) Read(p []byte) (int, error) {
	if r.failAfter <= 0 {
		return 0, errBrokenRead
	}
	r.failAfter--
	return r.Reader.Read(p)
}

func TestPrepareReportsErrorsBeforeOutput(t *testing.T) {
	t.Parallel()
	// The first read succeeds while the terminator is trimmed; the scan fails.
	r := &failingReader{Reader: strings.NewReader("a\nb\nc\n"), failAfter: 1}
	tl := New(r, 2)
	err := tl.Prepare()
	require.ErrorIs(t, err, errBrokenRead)
	require.Equal(t, revlines.KindIO, revlines.KindOf(err))

	var buf bytes.Buffer
	_, err = tl.WriteTo(&buf)
	require.ErrorIs(t, err, errBrokenRead)
	require.Zero(t, buf.Len())
}
