package wasm

import (
	"encoding/json"
	"testing"

	"github.com/iov-one/nftdrop/coin"
	"github.com/iov-one/nftdrop/droptest/assert"
	"github.com/iov-one/nftdrop/errors"
	"github.com/stretchr/testify/require"
	amino "github.com/tendermint/go-amino"
)

func TestMsgValidate(t *testing.T) {
	cases := map[string]struct {
		msg        Msg
		wantErrors map[string]*errors.Error
	}{
		"valid store code": {
			msg: &MsgStoreCode{Sender: "terra1sender", WASMByteCode: []byte("\x00asm")},
			wantErrors: map[string]*errors.Error{
				"Sender":       nil,
				"WASMByteCode": nil,
			},
		},
		"store code without bytecode": {
			msg: &MsgStoreCode{Sender: "terra1sender"},
			wantErrors: map[string]*errors.Error{
				"Sender":       nil,
				"WASMByteCode": errors.ErrEmpty,
			},
		},
		"instantiate with a broken init message": {
			msg: &MsgInstantiateContract{Sender: "terra1sender", CodeID: 4, InitMsg: json.RawMessage(`[1, 2]`)},
			wantErrors: map[string]*errors.Error{
				"Sender":  nil,
				"CodeID":  nil,
				"InitMsg": errors.ErrInput,
			},
		},
		"instantiate without code id": {
			msg: &MsgInstantiateContract{Sender: "terra1sender", InitMsg: json.RawMessage(`{}`)},
			wantErrors: map[string]*errors.Error{
				"CodeID":  errors.ErrEmpty,
				"InitMsg": nil,
			},
		},
		"execute with coins of an invalid denomination": {
			msg: &MsgExecuteContract{
				Sender:     "terra1sender",
				Contract:   "terra1contract",
				ExecuteMsg: json.RawMessage(`{"mint":{}}`),
				Coins:      coin.Coins{coin.NewCoin(1, "X")},
			},
			wantErrors: map[string]*errors.Error{
				"Contract":   nil,
				"ExecuteMsg": nil,
				"Coins":      errors.ErrInput,
			},
		},
		"execute without anything": {
			msg: &MsgExecuteContract{},
			wantErrors: map[string]*errors.Error{
				"Sender":     errors.ErrEmpty,
				"Contract":   errors.ErrEmpty,
				"ExecuteMsg": errors.ErrEmpty,
			},
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			err := tc.msg.Validate()
			for field, want := range tc.wantErrors {
				assert.FieldError(t, err, field, want)
			}
		})
	}
}

func TestNewMintMsg(t *testing.T) {
	msg, err := NewMintMsg("terra1minter", "terra1contract", 3, []string{"terra1a", "terra1b"})
	require.NoError(t, err)
	assert.IsErr(t, nil, msg.Validate())
	assert.Equal(t, `{"mint":{"level":3,"owners":["terra1a","terra1b"]}}`, string(msg.ExecuteMsg))

	_, err = NewMintMsg("terra1minter", "terra1contract", 0, []string{"terra1a"})
	assert.IsErr(t, errors.ErrInput, err)

	_, err = NewMintMsg("terra1minter", "terra1contract", 1, nil)
	assert.IsErr(t, errors.ErrEmpty, err)
}

func TestParseInstantiateMsg(t *testing.T) {
	raw := []byte(`{
		"contract_info": {"name": "Lockdrop", "symbol": "LOCK"},
		"minter": "terra1minter",
		"metadatas": [{"name": "Level 1"}, {"name": "Level 2"}]
	}`)
	m, err := ParseInstantiateMsg(raw)
	require.NoError(t, err)
	assert.Equal(t, "LOCK", m.ContractInfo.Symbol)
	assert.Equal(t, 2, len(m.Metadatas))

	_, err = ParseInstantiateMsg([]byte(`{"minter": "terra1minter"}`))
	assert.IsErr(t, errors.ErrEmpty, err)
	assert.FieldError(t, err, "ContractInfo.Name", errors.ErrEmpty)

	_, err = ParseInstantiateMsg([]byte(`not json`))
	assert.IsErr(t, errors.ErrInput, err)
}

func TestCodecRoundTrip(t *testing.T) {
	cdc := amino.NewCodec()
	RegisterCodec(cdc)

	type envelope struct {
		Msgs []Msg
	}
	msgs := []Msg{
		&MsgStoreCode{Sender: "terra1sender", WASMByteCode: []byte("\x00asm\x01")},
		&MsgExecuteContract{
			Sender:     "terra1sender",
			Contract:   "terra1contract",
			ExecuteMsg: json.RawMessage(`{"mint":{"level":1,"owners":["a"]}}`),
		},
	}
	raw, err := cdc.MarshalBinaryLengthPrefixed(envelope{Msgs: msgs})
	require.NoError(t, err)

	var got envelope
	require.NoError(t, cdc.UnmarshalBinaryLengthPrefixed(raw, &got))
	assert.Equal(t, msgs, got.Msgs)
}
