package broadcast

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/iov-one/nftdrop/errors"
)

// Confirmer asks the operator to approve a transaction. Confirm blocks until
// an answer is given.
type Confirmer interface {
	Confirm(ctx context.Context, summary string) (bool, error)
}

// ConfirmPrompt is displayed after the transaction summary.
const ConfirmPrompt = "Confirm transaction before broadcasting [y/N]: "

// TerminalConfirmer prints the summary and reads the answer from the input.
// Only "y" and "yes" approve, anything else including the end of the input
// declines.
//
// A TerminalConfirmer must not be used by concurrent callers. When Confirm
// returns because the context is done, the line being read is kept and
// answers the next call.
type TerminalConfirmer struct {
	in      *bufio.Reader
	out     io.Writer
	pending chan answer
}

type answer struct {
	line string
	err  error
}

var _ Confirmer = (*TerminalConfirmer)(nil)

// NewTerminalConfirmer returns a confirmer interacting through in and out.
func NewTerminalConfirmer(in io.Reader, out io.Writer) *TerminalConfirmer {
	return &TerminalConfirmer{in: bufio.NewReader(in), out: out}
}

func (c *TerminalConfirmer) Confirm(ctx context.Context, summary string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	fmt.Fprintf(c.out, "\n%s\n\n%s", summary, ConfirmPrompt)

	read := c.pending
	c.pending = nil
	if read == nil {
		read = make(chan answer, 1)
		go func() {
			line, err := c.in.ReadString('\n')
			read <- answer{line: line, err: err}
		}()
	}

	var a answer
	select {
	case <-ctx.Done():
		c.pending = read
		fmt.Fprintln(c.out)
		return false, ctx.Err()
	case a = <-read:
	}
	if a.err != nil && a.err != io.EOF {
		return false, errors.Wrapf(errors.ErrInput, "read confirmation: %s", a.err)
	}
	switch strings.ToLower(strings.TrimSpace(a.line)) {
	case "y", "yes":
		return true, nil
	default:
		if a.err == io.EOF {
			fmt.Fprintln(c.out)
		}
		return false, nil
	}
}

// AutoConfirmer approves every transaction. Use it for scripted runs only.
type AutoConfirmer struct{}

var _ Confirmer = AutoConfirmer{}

func (AutoConfirmer) Confirm(ctx context.Context, summary string) (bool, error) {
	return ctx.Err() == nil, ctx.Err()
}
