package cli

import (
	"bufio"
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetSimpleText(t *testing.T) {
	t.Run("reads one trimmed line", func(t *testing.T) {
		var out bytes.Buffer
		r := bufio.NewReader(strings.NewReader("  ann@example.com  \n"))

		got, err := GetSimpleText(r, "Enter email", &out)
		require.NoError(t, err)
		assert.Equal(t, "ann@example.com", got)
		assert.Contains(t, out.String(), "Enter email")
	})

	t.Run("partial line at EOF is returned", func(t *testing.T) {
		var out bytes.Buffer
		r := bufio.NewReader(strings.NewReader("no-newline"))

		got, err := GetSimpleText(r, "Enter email", &out)
		require.NoError(t, err)
		assert.Equal(t, "no-newline", got)
	})

	t.Run("empty input at EOF errors", func(t *testing.T) {
		var out bytes.Buffer
		r := bufio.NewReader(strings.NewReader(""))

		_, err := GetSimpleText(r, "Enter email", &out)
		require.Error(t, err)
	})
}

func TestGetPassword(t *testing.T) {
	orig := readPassword
	t.Cleanup(func() { readPassword = orig })
	readPassword = func(int) ([]byte, error) { return []byte("s3cret"), nil }

	var out bytes.Buffer
	pw, err := GetPassword(&out)
	require.NoError(t, err)
	assert.Equal(t, []byte("s3cret"), pw)
	assert.Contains(t, out.String(), "Enter password")
}
