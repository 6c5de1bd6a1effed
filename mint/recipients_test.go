package mint

import (
	"bytes"
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/iov-one/nftdrop/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadRecipients(t *testing.T) {
	input := "terra1a\n  terra1b  \n\n\tterra1c\nterra1a\n\n"
	got, err := ReadRecipients(strings.NewReader(input))
	require.NoError(t, err)
	assert.Equal(t, []string{"terra1a", "terra1b", "terra1c", "terra1a"}, got)

	got, err = ReadRecipients(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestShuffle(t *testing.T) {
	in := make([]string, 100)
	for i := range in {
		in[i] = "terra1recipient" + string(rune('a'+i%26)) + strings.Repeat("x", i/26)
	}
	orig := append([]string(nil), in...)

	a := Shuffle(in, 42)
	b := Shuffle(in, 42)
	c := Shuffle(in, 43)

	assert.Equal(t, orig, in, "input must not be modified")
	assert.Equal(t, a, b, "same seed must give the same order")
	assert.NotEqual(t, a, c)
	assert.ElementsMatch(t, in, a)
	assert.Empty(t, Shuffle(nil, 1))
}

func TestRecipientsFileRoundTrip(t *testing.T) {
	dir, err := ioutil.TempDir("", "nftdrop")
	require.NoError(t, err)
	defer os.RemoveAll(dir)

	path := filepath.Join(dir, "shuffled.txt")
	recipients := []string{"terra1c", "terra1a", "terra1b"}

	require.NoError(t, WriteRecipientsFile(path, recipients, false))
	got, err := ReadRecipientsFile(path)
	require.NoError(t, err)
	assert.Equal(t, recipients, got)

	err = WriteRecipientsFile(path, recipients, false)
	assert.True(t, errors.ErrInput.Is(err))
	assert.NoError(t, WriteRecipientsFile(path, recipients[:1], true))
	got, err = ReadRecipientsFile(path)
	require.NoError(t, err)
	assert.Equal(t, recipients[:1], got)

	_, err = ReadRecipientsFile(filepath.Join(dir, "missing.txt"))
	assert.True(t, errors.ErrNotFound.Is(err))
}

func TestWriteRecipients(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteRecipients(&buf, []string{"terra1a", "terra1b"}))
	assert.Equal(t, "terra1a\nterra1b\n", buf.String())
}

func TestRecipientsPath(t *testing.T) {
	assert.Equal(t, "../data/level_3_owners.txt", RecipientsPath("../data/", 3))
	assert.Equal(t, "data/level_1_owners.txt", RecipientsPath("data", 1))
	assert.Equal(t, "data/level_1_owners_unminted.txt", UnmintedPath("data/level_1_owners.txt"))
	assert.Equal(t, "owners_unminted.txt", UnmintedPath("owners"))
}
