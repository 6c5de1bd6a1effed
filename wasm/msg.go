package wasm

import (
	"encoding/json"

	"github.com/iov-one/nftdrop/coin"
	"github.com/iov-one/nftdrop/errors"
)

// Msg is a single ledger operation carried by a transaction.
type Msg interface {
	// Path returns the route the ledger dispatches this message to.
	Path() string
	// Validate performs stateless checks.
	Validate() error
}

const (
	pathStoreCode   = "wasm/MsgStoreCode"
	pathInstantiate = "wasm/MsgInstantiateContract"
	pathExecute     = "wasm/MsgExecuteContract"
)

// MsgStoreCode uploads contract bytecode.
type MsgStoreCode struct {
	Sender       string `json:"sender"`
	WASMByteCode []byte `json:"wasm_byte_code"`
}

var _ Msg = (*MsgStoreCode)(nil)

func (MsgStoreCode) Path() string { return pathStoreCode }

func (m MsgStoreCode) Validate() error {
	var errs error
	if m.Sender == "" {
		errs = errors.AppendField(errs, "Sender", errors.ErrEmpty)
	}
	if len(m.WASMByteCode) == 0 {
		errs = errors.AppendField(errs, "WASMByteCode", errors.ErrEmpty)
	}
	return errs
}

// MsgInstantiateContract creates a contract instance from uploaded code.
type MsgInstantiateContract struct {
	Sender    string          `json:"sender"`
	Admin     string          `json:"admin"`
	CodeID    uint64          `json:"code_id,string"`
	InitMsg   json.RawMessage `json:"init_msg"`
	InitCoins coin.Coins      `json:"init_coins"`
}

var _ Msg = (*MsgInstantiateContract)(nil)

func (MsgInstantiateContract) Path() string { return pathInstantiate }

func (m MsgInstantiateContract) Validate() error {
	var errs error
	if m.Sender == "" {
		errs = errors.AppendField(errs, "Sender", errors.ErrEmpty)
	}
	if m.CodeID == 0 {
		errs = errors.AppendField(errs, "CodeID", errors.ErrEmpty)
	}
	errs = errors.AppendField(errs, "InitMsg", validateJSONObject(m.InitMsg))
	errs = errors.AppendField(errs, "InitCoins", m.InitCoins.Validate())
	return errs
}

// MsgExecuteContract calls a contract. ExecuteMsg is passed to the contract
// as it is.
type MsgExecuteContract struct {
	Sender     string          `json:"sender"`
	Contract   string          `json:"contract"`
	ExecuteMsg json.RawMessage `json:"execute_msg"`
	Coins      coin.Coins      `json:"coins"`
}

var _ Msg = (*MsgExecuteContract)(nil)

func (MsgExecuteContract) Path() string { return pathExecute }

func (m MsgExecuteContract) Validate() error {
	var errs error
	if m.Sender == "" {
		errs = errors.AppendField(errs, "Sender", errors.ErrEmpty)
	}
	if m.Contract == "" {
		errs = errors.AppendField(errs, "Contract", errors.ErrEmpty)
	}
	errs = errors.AppendField(errs, "ExecuteMsg", validateJSONObject(m.ExecuteMsg))
	errs = errors.AppendField(errs, "Coins", m.Coins.Validate())
	return errs
}

func validateJSONObject(raw json.RawMessage) error {
	if len(raw) == 0 {
		return errors.ErrEmpty
	}
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(raw, &obj); err != nil {
		return errors.Wrapf(errors.ErrInput, "not a JSON object: %s", err)
	}
	return nil
}
