package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zoobzio/tnetstring"
)

func runCLI(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	err := run(args, strings.NewReader(stdin), &stdout, &stderr)
	return stdout.String(), stderr.String(), err
}

func TestEncode_JSONFromStdin(t *testing.T) {
	out, _, err := runCLI(t, `{"x":1}`, "encode")
	require.NoError(t, err)
	assert.Equal(t, "8:1:x,1:1#}", out)
}

func TestEncode_YAMLFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "doc.yaml")
	require.NoError(t, os.WriteFile(path, []byte("x: 1\n"), 0644))

	out, _, err := runCLI(t, "", "encode", "--from", "yaml", path)
	require.NoError(t, err)
	assert.Equal(t, "8:1:x,1:1#}", out)
}

func TestEncode_InvalidInput(t *testing.T) {
	_, _, err := runCLI(t, `{"x":`, "encode")
	require.Error(t, err)
}

func TestEncode_UnknownFormat(t *testing.T) {
	_, _, err := runCLI(t, `{}`, "encode", "--from", "xml")
	require.Error(t, err)
}

func TestDecode_ToJSON(t *testing.T) {
	out, _, err := runCLI(t, "8:1:x,1:1#}", "decode", "--to", "json")
	require.NoError(t, err)
	assert.Equal(t, `{"x":1}`, out)
}

func TestDecode_Errors(t *testing.T) {
	t.Run("truncated", func(t *testing.T) {
		_, _, err := runCLI(t, "5:abc,", "decode")
		require.ErrorIs(t, err, tnetstring.ErrTruncatedPayload)
	})

	t.Run("multiple values", func(t *testing.T) {
		_, _, err := runCLI(t, "1:1#1:2#", "decode")
		require.ErrorIs(t, err, tnetstring.ErrMultipleValues)
	})

	t.Run("too deep", func(t *testing.T) {
		_, _, err := runCLI(t, "6:3:0:~]]", "decode", "--max-depth", "1")
		require.ErrorIs(t, err, tnetstring.ErrTooDeep)
	})

	t.Run("too large", func(t *testing.T) {
		_, _, err := runCLI(t, "5:hello,", "decode", "--max-length", "4")
		require.ErrorIs(t, err, tnetstring.ErrTooLarge)
	})
}

func TestEncodeDecode_MsgpackRoundTrip(t *testing.T) {
	const input = "24:5:12345#5:67890#5:xxxxx,]"

	packed, _, err := runCLI(t, input, "decode", "--to", "msgpack")
	require.NoError(t, err)

	out, _, err := runCLI(t, packed, "encode", "--from", "msgpack")
	require.NoError(t, err)
	assert.Equal(t, input, out)
}

func TestThrash(t *testing.T) {
	out, _, err := runCLI(t, "", "thrash", "-n", "10")
	require.NoError(t, err)
	assert.Contains(t, out, "10 thrashes")
}

func TestThrash_RejectsBadInput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.tnet")
	require.NoError(t, os.WriteFile(path, []byte("nope"), 0644))

	_, _, err := runCLI(t, "", "thrash", "-n", "1", path)
	require.ErrorIs(t, err, tnetstring.ErrMalformedLength)
}

func TestVerboseLogging(t *testing.T) {
	_, stderr, err := runCLI(t, "0:~", "-v", "-v", "--no-color", "decode")
	require.NoError(t, err)
	assert.Contains(t, stderr, "decoded tnetstring")
	assert.Contains(t, stderr, "kind=null")
}

func TestQuietByDefault(t *testing.T) {
	_, stderr, err := runCLI(t, "0:~", "decode")
	require.NoError(t, err)
	assert.Empty(t, stderr)
}
