package wasm

import (
	"encoding/json"

	"github.com/iov-one/nftdrop/errors"
)

// MaxLevel is the highest token level the contract accepts.
const MaxLevel = 255

// ContractInfo is the name and symbol of the token series.
type ContractInfo struct {
	Name   string `json:"name"`
	Symbol string `json:"symbol"`
}

// InstantiateMsg is the contract initialization payload. Metadatas holds one
// entry per level, the first one being level 1. The metadata layout belongs
// to the contract and is passed through as it is.
type InstantiateMsg struct {
	ContractInfo ContractInfo      `json:"contract_info"`
	Minter       string            `json:"minter"`
	Metadatas    []json.RawMessage `json:"metadatas"`
}

func (m InstantiateMsg) Validate() error {
	var errs error
	if m.ContractInfo.Name == "" {
		errs = errors.AppendField(errs, "ContractInfo.Name", errors.ErrEmpty)
	}
	if m.ContractInfo.Symbol == "" {
		errs = errors.AppendField(errs, "ContractInfo.Symbol", errors.ErrEmpty)
	}
	if m.Minter == "" {
		errs = errors.AppendField(errs, "Minter", errors.ErrEmpty)
	}
	if len(m.Metadatas) > MaxLevel {
		errs = errors.AppendField(errs, "Metadatas",
			errors.ErrInput.Newf("%d levels, at most %d allowed", len(m.Metadatas), MaxLevel))
	}
	return errs
}

// ParseInstantiateMsg decodes and validates an initialization payload.
func ParseInstantiateMsg(raw []byte) (*InstantiateMsg, error) {
	var m InstantiateMsg
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, errors.Wrapf(errors.ErrInput, "instantiate message: %s", err)
	}
	if err := m.Validate(); err != nil {
		return nil, errors.Wrap(err, "instantiate message")
	}
	return &m, nil
}

// ExecuteMsg is the contract call payload. Exactly one field is set.
type ExecuteMsg struct {
	Mint *Mint `json:"mint,omitempty"`
}

// Mint creates one token of the given level for every owner.
type Mint struct {
	Level  uint8    `json:"level"`
	Owners []string `json:"owners"`
}

func (m Mint) Validate() error {
	var errs error
	if m.Level == 0 {
		errs = errors.AppendField(errs, "Level", errors.ErrInput.New("levels start at 1"))
	}
	if len(m.Owners) == 0 {
		errs = errors.AppendField(errs, "Owners", errors.ErrEmpty)
	}
	return errs
}

// NewMintMsg returns an execute message minting a token of the given level
// to every owner, in order.
func NewMintMsg(sender, contract string, level uint8, owners []string) (*MsgExecuteContract, error) {
	mint := Mint{Level: level, Owners: owners}
	if err := mint.Validate(); err != nil {
		return nil, errors.Wrap(err, "mint")
	}
	raw, err := json.Marshal(ExecuteMsg{Mint: &mint})
	if err != nil {
		return nil, errors.Wrap(errors.ErrEncoding, err.Error())
	}
	return &MsgExecuteContract{
		Sender:     sender,
		Contract:   contract,
		ExecuteMsg: raw,
	}, nil
}
