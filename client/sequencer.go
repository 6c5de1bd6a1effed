package client

import (
	"context"

	"github.com/iov-one/nftdrop/errors"
)

// Sequencer hands out sequence numbers for consecutive transactions of a
// single account.
//
// The account sequence is queried once, when the sequencer is created, and
// then advanced locally. This is valid only as long as no other process
// submits transactions signed by the same account. A sequence mismatch is
// detected by the ledger and reported as a failed broadcast.
type Sequencer struct {
	addr  string
	start uint64
}

// NewSequencer queries the current sequence of the account.
func NewSequencer(ctx context.Context, q SequenceQuerier, addr string) (*Sequencer, error) {
	if addr == "" {
		return nil, errors.Wrap(errors.ErrEmpty, "address")
	}
	seq, err := q.Sequence(ctx, addr)
	if err != nil {
		return nil, errors.Wrapf(err, "query sequence of %s", addr)
	}
	return &Sequencer{addr: addr, start: seq}, nil
}

// Address returns the account this sequencer serves.
func (s *Sequencer) Address() string {
	return s.addr
}

// Start returns the sequence the account had when queried.
func (s *Sequencer) Start() uint64 {
	return s.start
}

// Allocate returns the sequence of the index-th (0 based) transaction of the
// run.
func (s *Sequencer) Allocate(index int) uint64 {
	if index < 0 {
		panic("sequencer: negative index")
	}
	return s.start + uint64(index)
}
