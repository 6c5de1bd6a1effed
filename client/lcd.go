package client

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/iov-one/nftdrop/errors"
	"github.com/tendermint/tendermint/libs/log"
)

// LCD REST endpoints.
const (
	lcdNodeInfoPath  = "/cosmos/base/tendermint/v1beta1/node_info"
	lcdAccountPath   = "/cosmos/auth/v1beta1/accounts/{address}"
	lcdSimulatePath  = "/cosmos/tx/v1beta1/simulate"
	lcdBroadcastPath = "/cosmos/tx/v1beta1/txs"

	lcdBroadcastModeBlock = "BROADCAST_MODE_BLOCK"
)

// DefaultLCDTimeout limits a single request to the light client daemon.
// Broadcasting in block mode waits for the next block.
const DefaultLCDTimeout = 2 * time.Minute

// LCDClient implements Client on top of the REST light client daemon.
//
// Transactions are posted as tx_bytes exactly as given, which for this
// module is the amino encoding of tx.Tx signed with ed25519. The daemon's
// ledger must decode that format. Ledgers whose tx service expects a
// protobuf TxRaw reject it.
type LCDClient struct {
	http   *resty.Client
	logger log.Logger
}

var _ Client = (*LCDClient)(nil)

// NewLCDClient returns a client of the light client daemon at the given
// base URL.
func NewLCDClient(baseURL string, logger log.Logger) *LCDClient {
	if logger == nil {
		logger = log.NewNopLogger()
	}
	r := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(DefaultLCDTimeout).
		SetHeader("Accept", "application/json")
	return &LCDClient{
		http:   r,
		logger: logger.With("client", "lcd"),
	}
}

// lcdError is the body of a failed LCD request.
type lcdError struct {
	Code    uint32 `json:"code"`
	Message string `json:"message"`
}

func (c *LCDClient) ChainID(ctx context.Context) (string, error) {
	var out struct {
		DefaultNodeInfo struct {
			Network string `json:"network"`
		} `json:"default_node_info"`
	}
	resp, err := c.http.R().
		SetContext(ctx).
		SetResult(&out).
		SetError(&lcdError{}).
		Get(lcdNodeInfoPath)
	if err := checkResponse(resp, err, "node info"); err != nil {
		return "", err
	}
	if out.DefaultNodeInfo.Network == "" {
		return "", errors.Wrap(errors.ErrNotFound, "chain id not in node info")
	}
	return out.DefaultNodeInfo.Network, nil
}

func (c *LCDClient) Sequence(ctx context.Context, address string) (uint64, error) {
	var out struct {
		Account struct {
			Sequence string `json:"sequence"`
		} `json:"account"`
	}
	resp, err := c.http.R().
		SetContext(ctx).
		SetPathParam("address", address).
		SetResult(&out).
		SetError(&lcdError{}).
		Get(lcdAccountPath)
	// A new account does not exist until it receives a transfer.
	if err == nil && resp.StatusCode() == http.StatusNotFound {
		c.logger.Debug("account not found", "address", address)
		return 0, nil
	}
	if err := checkResponse(resp, err, "account"); err != nil {
		return 0, err
	}
	if out.Account.Sequence == "" {
		return 0, nil
	}
	seq, err := strconv.ParseUint(out.Account.Sequence, 10, 64)
	if err != nil {
		return 0, errors.Wrapf(errors.ErrEncoding, "account sequence %q", out.Account.Sequence)
	}
	c.logger.Debug("account sequence", "address", address, "sequence", seq)
	return seq, nil
}

func (c *LCDClient) Simulate(ctx context.Context, txBytes []byte) (uint64, error) {
	var out struct {
		GasInfo struct {
			GasUsed string `json:"gas_used"`
		} `json:"gas_info"`
	}
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(map[string]interface{}{"tx_bytes": txBytes}).
		SetResult(&out).
		SetError(&lcdError{}).
		Post(lcdSimulatePath)
	if err := checkResponse(resp, err, "simulate"); err != nil {
		return 0, err
	}
	gas, err := strconv.ParseUint(out.GasInfo.GasUsed, 10, 64)
	if err != nil {
		return 0, errors.Wrapf(errors.ErrEncoding, "simulated gas %q", out.GasInfo.GasUsed)
	}
	return gas, nil
}

func (c *LCDClient) Broadcast(ctx context.Context, txBytes []byte) (*BroadcastResult, error) {
	var out struct {
		TxResponse struct {
			Height    string `json:"height"`
			TxHash    string `json:"txhash"`
			Code      uint32 `json:"code"`
			RawLog    string `json:"raw_log"`
			Logs      TxLogs `json:"logs"`
			GasWanted string `json:"gas_wanted"`
			GasUsed   string `json:"gas_used"`
		} `json:"tx_response"`
	}
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(map[string]interface{}{
			"tx_bytes": txBytes,
			"mode":     lcdBroadcastModeBlock,
		}).
		SetResult(&out).
		SetError(&lcdError{}).
		Post(lcdBroadcastPath)
	if err := checkResponse(resp, err, "broadcast"); err != nil {
		return nil, err
	}

	r := out.TxResponse
	res := &BroadcastResult{
		Code:      r.Code,
		RawLog:    r.RawLog,
		Hash:      r.TxHash,
		Height:    parseInt(r.Height),
		GasWanted: parseInt(r.GasWanted),
		GasUsed:   parseInt(r.GasUsed),
		Logs:      r.Logs,
	}
	if len(res.Logs) == 0 && res.Code == 0 {
		res.Logs = ParseLogs(r.RawLog)
	}
	c.logger.Debug("transaction broadcast", "hash", res.Hash, "height", res.Height, "code", res.Code)
	return res, nil
}

// checkResponse converts a transport failure or an unsuccessful HTTP
// status into an error.
func checkResponse(resp *resty.Response, err error, what string) error {
	if err != nil {
		return errors.Wrapf(errors.ErrNetwork, "%s: %s", what, err)
	}
	if !resp.IsError() {
		return nil
	}
	if e, ok := resp.Error().(*lcdError); ok && e.Message != "" {
		return errors.Wrapf(errors.ErrNetwork, "%s: status %d: %s", what, resp.StatusCode(), e.Message)
	}
	return errors.Wrapf(errors.ErrNetwork, "%s: status %d", what, resp.StatusCode())
}

func parseInt(s string) int64 {
	n, _ := strconv.ParseInt(s, 10, 64)
	return n
}
