// Package deploy uploads the token contract code and instantiates it.
package deploy

import (
	"context"
	"encoding/json"
	"strconv"

	"github.com/iov-one/nftdrop/broadcast"
	"github.com/iov-one/nftdrop/errors"
	"github.com/iov-one/nftdrop/wasm"
	"github.com/tendermint/tendermint/libs/log"
)

// Ledger event attributes carrying the deployment results.
const (
	eventStoreCode   = "store_code"
	attrCodeID       = "code_id"
	eventInstantiate = "instantiate_contract"
	attrContract     = "contract_address"
)

// Submitter is implemented by broadcast.Broadcaster.
type Submitter interface {
	Submit(ctx context.Context, msgs []wasm.Msg, opts ...broadcast.SubmitOption) broadcast.Outcome
	Address() string
}

var _ Submitter = (*broadcast.Broadcaster)(nil)

// Deployer runs each deployment step as a single confirmed submission. Any
// failure, including a declined confirmation, stops the deployment.
type Deployer struct {
	submitter Submitter
	logger    log.Logger
}

// New returns a deployer submitting through s.
func New(s Submitter, logger log.Logger) *Deployer {
	if logger == nil {
		logger = log.NewNopLogger()
	}
	return &Deployer{submitter: s, logger: logger.With("flow", "deploy")}
}

// StoreCode uploads the contract bytecode and returns the code id assigned
// by the ledger.
func (d *Deployer) StoreCode(ctx context.Context, code []byte) (uint64, error) {
	msg := &wasm.MsgStoreCode{
		Sender:       d.submitter.Address(),
		WASMByteCode: code,
	}
	out := d.submitter.Submit(ctx, []wasm.Msg{msg})
	if out.Err != nil {
		return 0, errors.Wrap(out.Err, "store code")
	}
	raw, err := attribute(out, eventStoreCode, attrCodeID)
	if err != nil {
		return 0, err
	}
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, errors.Wrapf(errors.ErrEncoding, "code id %q", raw)
	}
	d.logger.Info("code uploaded", "code_id", id, "hash", out.Hash)
	return id, nil
}

// Instantiate creates a contract instance from uploaded code and returns its
// address.
func (d *Deployer) Instantiate(ctx context.Context, admin string, codeID uint64, initMsg json.RawMessage) (string, error) {
	msg := &wasm.MsgInstantiateContract{
		Sender:  d.submitter.Address(),
		Admin:   admin,
		CodeID:  codeID,
		InitMsg: initMsg,
	}
	out := d.submitter.Submit(ctx, []wasm.Msg{msg})
	if out.Err != nil {
		return "", errors.Wrap(out.Err, "instantiate")
	}
	addr, err := attribute(out, eventInstantiate, attrContract)
	if err != nil {
		return "", err
	}
	d.logger.Info("contract instantiated", "contract", addr, "hash", out.Hash)
	return addr, nil
}

// Params describes a deployment.
type Params struct {
	// Code is the contract bytecode. It is ignored when CodeID is set.
	Code []byte
	// CodeID of already uploaded code. Zero means Code must be uploaded.
	CodeID uint64
	// Admin may migrate the contract.
	Admin   string
	InitMsg json.RawMessage
}

func (p Params) Validate() error {
	var errs error
	if p.CodeID == 0 && len(p.Code) == 0 {
		errs = errors.AppendField(errs, "Code", errors.ErrEmpty.New("code or code id required"))
	}
	if _, err := wasm.ParseInstantiateMsg(p.InitMsg); err != nil {
		errs = errors.AppendField(errs, "InitMsg", err)
	}
	return errs
}

// Result of a deployment.
type Result struct {
	CodeID   uint64
	Uploaded bool
	Contract string
}

// Run uploads the code unless a code id is given and instantiates the
// contract.
func (d *Deployer) Run(ctx context.Context, p Params) (*Result, error) {
	if err := p.Validate(); err != nil {
		return nil, errors.Wrap(errors.Append(errors.ErrConfiguration, err), "deployment")
	}
	res := &Result{CodeID: p.CodeID}
	if res.CodeID == 0 {
		id, err := d.StoreCode(ctx, p.Code)
		if err != nil {
			return nil, err
		}
		res.CodeID = id
		res.Uploaded = true
	} else {
		d.logger.Info("using uploaded code", "code_id", res.CodeID)
	}

	addr, err := d.Instantiate(ctx, p.Admin, res.CodeID, p.InitMsg)
	if err != nil {
		return res, err
	}
	res.Contract = addr
	return res, nil
}

// attribute returns the first value of the attribute emitted by the only
// message of a committed transaction.
func attribute(out broadcast.Outcome, eventType, key string) (string, error) {
	values := out.Logs.Attribute(0, eventType, key)
	if len(values) == 0 {
		return "", errors.Wrapf(errors.ErrNotFound, "%s.%s in logs of %s", eventType, key, out.Hash)
	}
	return values[0], nil
}
