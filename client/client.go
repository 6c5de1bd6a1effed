/*
Package client provides access to a remote ledger.

Client is the minimal set of operations the deployment and mint flows need.
Two implementations are provided: TendermintClient talks to the node RPC
directly and LCDClient talks to the REST light client daemon.
*/
package client

import (
	"context"

	"github.com/iov-one/nftdrop/errors"
)

// Client is the remote ledger as seen by this tool.
type Client interface {
	// ChainID returns the identifier of the chain this client talks to.
	ChainID(ctx context.Context) (string, error)

	// Sequence returns the current sequence of the account with the given
	// bech32 address. A not yet known account has sequence 0.
	Sequence(ctx context.Context, address string) (uint64, error)

	// Simulate runs the serialized transaction without committing it and
	// returns the amount of gas it consumed.
	Simulate(ctx context.Context, txBytes []byte) (uint64, error)

	// Broadcast submits the serialized transaction and waits until it is
	// included in a block. A transport failure is returned as an error.
	// A transaction rejected by the ledger is reported with a non zero
	// result code.
	Broadcast(ctx context.Context, txBytes []byte) (*BroadcastResult, error)
}

// SequenceQuerier is implemented by every Client.
type SequenceQuerier interface {
	Sequence(ctx context.Context, address string) (uint64, error)
}

// BroadcastResult is the ledger response to a submitted transaction.
type BroadcastResult struct {
	Code      uint32
	RawLog    string
	Hash      string
	Height    int64
	GasWanted int64
	GasUsed   int64
	Logs      TxLogs
}

// Err returns an error carrying the raw log if the ledger rejected the
// transaction and nil otherwise.
func (r *BroadcastResult) Err() error {
	return errors.ABCIError(r.Code, r.RawLog)
}
