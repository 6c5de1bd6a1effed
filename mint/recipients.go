package mint

import (
	"bufio"
	"fmt"
	"io"
	"math/rand"
	"os"
	"strings"

	"github.com/iov-one/nftdrop/errors"
)

// RecipientsPath returns the conventional location of the recipient list
// of a level.
func RecipientsPath(dataDir string, level uint8) string {
	return fmt.Sprintf("%s/level_%d_owners.txt", strings.TrimRight(dataDir, "/"), level)
}

// UnmintedPath returns the file the recipients left over by a run reading
// the given recipient list are written to.
func UnmintedPath(recipientsPath string) string {
	return strings.TrimSuffix(recipientsPath, ".txt") + "_unminted.txt"
}

// ReadRecipients reads one address per line. Surrounding whitespace and
// blank lines are dropped, the order is kept and duplicates are not
// removed.
func ReadRecipients(r io.Reader) ([]string, error) {
	var res []string
	s := bufio.NewScanner(r)
	for s.Scan() {
		line := strings.TrimSpace(s.Text())
		if line == "" {
			continue
		}
		res = append(res, line)
	}
	if err := s.Err(); err != nil {
		return nil, errors.Wrapf(errors.ErrInput, "read recipients: %s", err)
	}
	return res, nil
}

// ReadRecipientsFile is ReadRecipients reading from the named file.
func ReadRecipientsFile(path string) ([]string, error) {
	fd, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrNotFound, path)
		}
		return nil, errors.Wrap(errors.ErrInput, err.Error())
	}
	defer fd.Close()
	return ReadRecipients(fd)
}

// WriteRecipients writes one address per line.
func WriteRecipients(w io.Writer, recipients []string) error {
	bw := bufio.NewWriter(w)
	for _, r := range recipients {
		if _, err := bw.WriteString(r + "\n"); err != nil {
			return errors.Wrap(errors.ErrInput, err.Error())
		}
	}
	if err := bw.Flush(); err != nil {
		return errors.Wrap(errors.ErrInput, err.Error())
	}
	return nil
}

// WriteRecipientsFile writes the recipients to the named file. An existing
// file is not overwritten unless force is true.
func WriteRecipientsFile(path string, recipients []string, force bool) error {
	flags := os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	if !force {
		flags |= os.O_EXCL
	}
	fd, err := os.OpenFile(path, flags, 0644)
	if err != nil {
		if os.IsExist(err) {
			return errors.ErrInput.Newf("refusing to overwrite: %s", path)
		}
		return errors.Wrap(errors.ErrInput, err.Error())
	}
	if err := WriteRecipients(fd, recipients); err != nil {
		fd.Close()
		return err
	}
	if err := fd.Close(); err != nil {
		return errors.Wrap(errors.ErrInput, err.Error())
	}
	return nil
}

// Shuffle returns a permutation of recipients. The same seed always gives
// the same permutation of the same input. The input is not modified.
func Shuffle(recipients []string, seed int64) []string {
	res := make([]string, len(recipients))
	copy(res, recipients)
	rnd := rand.New(rand.NewSource(seed))
	rnd.Shuffle(len(res), func(i, j int) {
		res[i], res[j] = res[j], res[i]
	})
	return res
}
