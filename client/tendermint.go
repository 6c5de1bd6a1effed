package client

import (
	"context"
	"encoding/binary"
	"strings"

	"github.com/iov-one/nftdrop/crypto/bech32"
	"github.com/iov-one/nftdrop/errors"
	"github.com/iov-one/nftdrop/tx"
	cmn "github.com/tendermint/tendermint/libs/common"
	"github.com/tendermint/tendermint/libs/log"
	rpcclient "github.com/tendermint/tendermint/rpc/client"
	ctypes "github.com/tendermint/tendermint/rpc/core/types"
	tmtypes "github.com/tendermint/tendermint/types"
)

const (
	// QueryAccounts is the ABCI query path returning an account by its
	// raw address.
	QueryAccounts = "/accounts"

	// QuerySimulate is the ABCI query path that executes a serialized
	// transaction without committing it. The response value is the
	// consumed gas as an 8 byte big endian integer.
	QuerySimulate = "/simulate"
)

// Account is the ledger representation of an account as returned by the
// accounts query.
type Account struct {
	Address       []byte `json:"address"`
	PubKey        []byte `json:"pub_key"`
	AccountNumber uint64 `json:"account_number"`
	Sequence      uint64 `json:"sequence"`
}

// Conn is the subset of the tendermint RPC client used by TendermintClient.
type Conn interface {
	ABCIQuery(path string, data cmn.HexBytes) (*ctypes.ResultABCIQuery, error)
	BroadcastTxCommit(tx tmtypes.Tx) (*ctypes.ResultBroadcastTxCommit, error)
	Genesis() (*ctypes.ResultGenesis, error)
}

var _ Conn = (*rpcclient.HTTP)(nil)

// NewHTTPConnection returns a tendermint RPC connection to given address.
func NewHTTPConnection(remote string) *rpcclient.HTTP {
	if !strings.Contains(remote, "://") {
		remote = "http://" + remote
	}
	return rpcclient.NewHTTP(remote, "/websocket")
}

// TendermintClient implements Client on top of the tendermint RPC.
type TendermintClient struct {
	conn   Conn
	logger log.Logger
}

var _ Client = (*TendermintClient)(nil)

// NewTendermintClient wraps a tendermint connection.
func NewTendermintClient(conn Conn, logger log.Logger) *TendermintClient {
	if logger == nil {
		logger = log.NewNopLogger()
	}
	return &TendermintClient{
		conn:   conn,
		logger: logger.With("client", "tendermint"),
	}
}

func (c *TendermintClient) ChainID(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	gen, err := c.conn.Genesis()
	if err != nil {
		return "", errors.Wrapf(errors.ErrNetwork, "genesis: %s", err)
	}
	if gen.Genesis == nil || gen.Genesis.ChainID == "" {
		return "", errors.Wrap(errors.ErrNotFound, "chain id not in genesis")
	}
	return gen.Genesis.ChainID, nil
}

func (c *TendermintClient) Sequence(ctx context.Context, address string) (uint64, error) {
	_, raw, err := bech32.Decode(address)
	if err != nil {
		return 0, errors.Wrapf(err, "account address %q", address)
	}
	value, err := c.query(ctx, QueryAccounts, raw)
	if err != nil {
		return 0, err
	}
	// A new account does not exist until it receives a transfer.
	if len(value) == 0 {
		c.logger.Debug("account not found", "address", address)
		return 0, nil
	}
	var acc Account
	if err := tx.Codec.UnmarshalBinaryBare(value, &acc); err != nil {
		return 0, errors.Wrapf(errors.ErrEncoding, "account: %s", err)
	}
	c.logger.Debug("account sequence", "address", address, "sequence", acc.Sequence)
	return acc.Sequence, nil
}

func (c *TendermintClient) Simulate(ctx context.Context, txBytes []byte) (uint64, error) {
	value, err := c.query(ctx, QuerySimulate, txBytes)
	if err != nil {
		return 0, errors.Wrap(err, "simulate")
	}
	if len(value) != 8 {
		return 0, errors.Wrapf(errors.ErrEncoding, "simulate: gas of %d bytes", len(value))
	}
	return binary.BigEndian.Uint64(value), nil
}

func (c *TendermintClient) query(ctx context.Context, path string, data []byte) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	res, err := c.conn.ABCIQuery(path, data)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrNetwork, "query %s: %s", path, err)
	}
	if resp := res.Response; resp.IsErr() {
		return nil, errors.ABCIError(resp.Code, resp.Log)
	}
	return res.Response.Value, nil
}

func (c *TendermintClient) Broadcast(ctx context.Context, txBytes []byte) (*BroadcastResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	res, err := c.conn.BroadcastTxCommit(txBytes)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrNetwork, "broadcast: %s", err)
	}

	// A check failure means the transaction did not make it into the
	// mempool and will not make it into a block.
	if res.CheckTx.IsErr() {
		return &BroadcastResult{
			Code:      res.CheckTx.Code,
			RawLog:    res.CheckTx.Log,
			Hash:      res.Hash.String(),
			GasWanted: res.CheckTx.GasWanted,
			GasUsed:   res.CheckTx.GasUsed,
		}, nil
	}
	c.logger.Debug("transaction committed", "hash", res.Hash.String(), "height", res.Height)
	return &BroadcastResult{
		Code:      res.DeliverTx.Code,
		RawLog:    res.DeliverTx.Log,
		Hash:      res.Hash.String(),
		Height:    res.Height,
		GasWanted: res.DeliverTx.GasWanted,
		GasUsed:   res.DeliverTx.GasUsed,
		Logs:      ParseLogs(res.DeliverTx.Log),
	}, nil
}
