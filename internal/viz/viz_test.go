package viz

import (
	"bytes"
	"context"
	"errors"
	"math"
	randv2 "math/rand/v2"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/samber/lo"
	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"

	"github.com/benz9527/xrbtree/xlog"
)

func newTree(keys ...int) *KeyTree {
	kt := NewKeyTree()
	for _, key := range keys {
		kt.Insert(key)
	}
	return kt
}

func testLogger(buf *bytes.Buffer) xlog.XLogger {
	return xlog.NewXLogger(
		xlog.WithXLoggerWriter(buf),
		xlog.WithXLoggerLevel(xlog.LogLevelDebug),
	)
}

func TestParseKeys(t *testing.T) {
	testcases := []struct {
		name     string
		input    string
		expected []int
	}{
		{
			name:     "plain",
			input:    "10\n20\n30\n",
			expected: []int{10, 20, 30},
		},
		{
			name:     "skips non keys",
			input:    "# keys\n5\n 7\nabc\n\n-3\n",
			expected: []int{5, -3},
		},
		{
			name:     "trailing junk",
			input:    "12abc\n-8 apples\n42",
			expected: []int{12, -8, 42},
		},
		{
			name:     "sign only",
			input:    "-\n-x\n",
			expected: []int{0, 0},
		},
		{
			name:     "empty",
			input:    "",
			expected: []int{},
		},
	}
	for _, tc := range testcases {
		t.Run(tc.name, func(tt *testing.T) {
			keys, err := ParseKeys(strings.NewReader(tc.input))
			require.NoError(tt, err)
			require.Equal(tt, tc.expected, keys)
		})
	}
}

func TestParseKeys_LongLines(t *testing.T) {
	huge := strings.Repeat("x", 70*1024)
	zeros := strings.Repeat("0", 70*1024)
	testcases := []struct {
		name     string
		input    string
		expected []int
	}{
		{
			name:     "long comment between keys",
			input:    "5\n# " + huge + "\n7\n",
			expected: []int{5, 7},
		},
		{
			name:     "long trailing junk",
			input:    "5" + huge + "\n7",
			expected: []int{5, 7},
		},
		{
			name:     "leading zeros across chunks",
			input:    "-" + zeros + "42\n" + zeros + "9\n",
			expected: []int{-42, 9},
		},
		{
			name:     "long last line without newline",
			input:    "1\n# " + huge,
			expected: []int{1},
		},
	}
	for _, tc := range testcases {
		t.Run(tc.name, func(tt *testing.T) {
			keys, err := ParseKeys(strings.NewReader(tc.input))
			require.NoError(tt, err)
			require.Equal(tt, tc.expected, keys)
		})
	}
}

func TestParseKeys_Clamps(t *testing.T) {
	keys, err := ParseKeys(strings.NewReader(
		"99999999999999999999\n" +
			"-99999999999999999999\n" +
			strconv.Itoa(math.MaxInt) + "\n" +
			strconv.Itoa(math.MinInt) + "\n" +
			strconv.Itoa(math.MaxInt) + "0\n" +
			"-" + strings.Repeat("9", 5000) + "\n",
	))
	require.NoError(t, err)
	require.Equal(t, []int{
		math.MaxInt,
		math.MinInt,
		math.MaxInt,
		math.MinInt,
		math.MaxInt,
		math.MinInt,
	}, keys)
}

func TestLoad_IgnoresDuplicates(t *testing.T) {
	kt := NewKeyTree()
	inserted, err := Load(strings.NewReader("3\n1\n3\n2\n1\n"), kt)
	require.NoError(t, err)
	require.Equal(t, 3, inserted)
	require.Equal(t, 3, kt.Len())
	require.Equal(t, []int{1, 2, 3}, kt.Keys())
}

func TestKeyTree_Random(t *testing.T) {
	kt := NewKeyTree()
	keys := randv2.Perm(2000)
	for _, key := range keys {
		require.True(t, kt.Insert(key))
	}
	require.False(t, kt.Insert(keys[0]))
	require.NoError(t, kt.Validate())
	require.Equal(t, lo.Range(2000), kt.Keys())

	h, err := kt.BlackHeight()
	require.NoError(t, err)
	require.Greater(t, h, 0)
	// 2*log2(n+1) bounds the height of a red-black tree.
	require.Less(t, kt.Depth(), 22)

	for _, key := range keys[:1000] {
		require.True(t, kt.Delete(key))
		require.False(t, kt.Contains(key))
	}
	require.False(t, kt.Delete(keys[0]))
	require.NoError(t, kt.Validate())
	require.Equal(t, 1000, kt.Len())

	kt.Release()
	require.Equal(t, 0, kt.Len())
	require.Nil(t, kt.Root())
	require.Equal(t, -1, kt.Depth())
}

func TestWriteDot(t *testing.T) {
	buf := &bytes.Buffer{}
	require.NoError(t, WriteDot(buf, newTree(10, 20, 30)))
	require.Equal(t, dotHeader+
		"20->10\n"+
		"20->30\n"+
		"10 [fillcolor=red]\n"+
		"30 [fillcolor=red]\n"+
		"}\n", buf.String())

	buf.Reset()
	kt := newTree(lo.Range(50)...)
	require.NoError(t, WriteDot(buf, kt))
	// Every node but the root has exactly one incoming edge.
	require.Equal(t, kt.Len()-1, strings.Count(buf.String(), "->"))
}

func TestWriteASCII(t *testing.T) {
	buf := &bytes.Buffer{}
	require.NoError(t, WriteASCII(buf, newTree(10, 20, 30), false))
	require.Equal(t, "    <30>\n[20]\n    <10>\n", buf.String())

	buf.Reset()
	require.NoError(t, WriteASCII(buf, newTree(10, 20, 30), true))
	require.Contains(t, buf.String(), "\x1b[31m<30>")
	require.Contains(t, buf.String(), "[20]")

	buf.Reset()
	require.NoError(t, WriteASCII(buf, NewKeyTree(), false))
	require.Empty(t, buf.String())
}

func TestLoadAndWriteDotFile(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "keys.txt")
	require.NoError(t, os.WriteFile(input, []byte("10\n20\nskip\n30\n"), 0o600))

	kt, err := LoadFile(input, nil)
	require.NoError(t, err)
	require.Equal(t, []int{10, 20, 30}, kt.Keys())

	out, err := WriteDotFile(dir, "tree.dot", kt)
	require.NoError(t, err)
	require.Equal(t, filepath.Join(dir, "tree.dot"), out)
	content, err := os.ReadFile(out)
	require.NoError(t, err)
	require.Contains(t, string(content), "20->10\n")

	kt, err = LoadFile(StdinInput, strings.NewReader("1\n2\n"))
	require.NoError(t, err)
	require.Equal(t, 2, kt.Len())

	_, err = LoadFile(filepath.Join(dir, "missing.txt"), nil)
	require.Error(t, err)
}

func TestDotName(t *testing.T) {
	require.Equal(t, "tree.dot", DotName("a/keys.txt", "tree.dot", 1))
	require.Equal(t, "keys.dot", DotName("a/keys.txt", "tree.dot", 3))
	require.Equal(t, "tree.dot", DotName(StdinInput, "tree.dot", 3))
}

func TestDotNames(t *testing.T) {
	names, err := DotNames([]string{"a/x.txt", "b/y.txt", StdinInput}, "tree.dot")
	require.NoError(t, err)
	require.Equal(t, map[string]string{
		"a/x.txt":  "x.dot",
		"b/y.txt":  "y.dot",
		StdinInput: "tree.dot",
	}, names)

	names, err = DotNames([]string{"a/tree.txt"}, "tree.dot")
	require.NoError(t, err)
	require.Equal(t, "tree.dot", names["a/tree.txt"])

	testcases := []struct {
		name   string
		inputs []string
	}{
		{
			name:   "same base name",
			inputs: []string{"a/x.txt", "b/x.txt"},
		},
		{
			name:   "stdin and configured name",
			inputs: []string{StdinInput, "c/tree.txt"},
		},
		{
			name:   "repeated input",
			inputs: []string{"a/x.txt", "a/x.txt"},
		},
		{
			name:   "different extensions",
			inputs: []string{"x.txt", "x.keys"},
		},
	}
	for _, tc := range testcases {
		t.Run(tc.name, func(tt *testing.T) {
			_, err := DotNames(tc.inputs, "tree.dot")
			require.Error(tt, err)
			require.Contains(tt, err.Error(), "both write")
		})
	}
}

func TestCheckInputs(t *testing.T) {
	require.NoError(t, CheckInputs([]string{StdinInput}))
	require.NoError(t, CheckInputs([]string{"a.txt", StdinInput, "b.txt"}))
	require.Error(t, CheckInputs([]string{StdinInput, "a.txt", StdinInput}))
}

func TestBatch(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := testLogger(buf)

	inputs := lo.Map(lo.Range(20), func(i int, _ int) string {
		return filepath.Join("in", string(rune('a'+i))+".txt")
	})
	var calls atomic.Int32
	errBad := errors.New("bad input")
	err := Batch(context.Background(), logger, 4, inputs, func(_ context.Context, input string) error {
		calls.Add(1)
		switch filepath.Base(input) {
		case "c.txt":
			return errBad
		case "e.txt":
			panic("[rbtree] corrupted")
		}
		return nil
	})
	require.Equal(t, int32(20), calls.Load())
	require.Error(t, err)
	errs := multierr.Errors(err)
	require.Len(t, errs, 2)
	require.ErrorIs(t, errs[0], errBad)
	require.Contains(t, errs[0].Error(), "c.txt")
	require.Contains(t, errs[1].Error(), "[rbtree] corrupted")

	require.NoError(t, Batch(context.Background(), logger, 4, nil, nil))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err = Batch(ctx, logger, 2, []string{"x", "y"}, func(context.Context, string) error {
		return nil
	})
	require.ErrorIs(t, err, context.Canceled)
}

func TestWatch(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := testLogger(buf)

	dir := t.TempDir()
	input := filepath.Join(dir, "keys.txt")
	require.NoError(t, os.WriteFile(input, []byte("1\n"), 0o600))

	var calls atomic.Int32
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- Watch(ctx, logger, input, func(context.Context) error {
			calls.Add(1)
			return nil
		})
	}()

	require.Eventually(t, func() bool {
		return calls.Load() >= 1
	}, 2*time.Second, 10*time.Millisecond)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.txt"), []byte("2\n"), 0o600))
	require.NoError(t, os.WriteFile(input, []byte("1\n2\n"), 0o600))
	require.Eventually(t, func() bool {
		return calls.Load() >= 2
	}, 2*time.Second, 10*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("watch did not stop")
	}
}
