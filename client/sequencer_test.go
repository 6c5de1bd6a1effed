package client

import (
	"context"
	"testing"

	"github.com/iov-one/nftdrop/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type querierMock struct {
	seq   uint64
	err   error
	calls int
}

func (q *querierMock) Sequence(ctx context.Context, addr string) (uint64, error) {
	q.calls++
	return q.seq, q.err
}

func TestSequencer(t *testing.T) {
	q := &querierMock{seq: 17}
	s, err := NewSequencer(context.Background(), q, "terra1signer")
	require.NoError(t, err)

	assert.Equal(t, uint64(17), s.Start())
	assert.Equal(t, "terra1signer", s.Address())
	for i := 0; i < 5; i++ {
		assert.Equal(t, uint64(17+i), s.Allocate(i))
	}
	assert.Equal(t, 1, q.calls, "sequence must be queried exactly once")
	assert.Panics(t, func() { s.Allocate(-1) })
}

func TestSequencerQueryFailure(t *testing.T) {
	q := &querierMock{err: errors.ErrNetwork.New("connection refused")}
	_, err := NewSequencer(context.Background(), q, "terra1signer")
	assert.True(t, errors.ErrNetwork.Is(err))

	_, err = NewSequencer(context.Background(), q, "")
	assert.True(t, errors.ErrEmpty.Is(err))
}
