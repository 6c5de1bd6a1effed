package deploy

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/iov-one/nftdrop/broadcast"
	"github.com/iov-one/nftdrop/client"
	"github.com/iov-one/nftdrop/errors"
	"github.com/iov-one/nftdrop/wasm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const initMsg = `{"contract_info": {"name": "Lockdrop", "symbol": "LOCK"}, "minter": "terra1minter", "metadatas": []}`

// submitterMock returns queued outcomes in order and records submitted
// messages.
type submitterMock struct {
	outcomes  []broadcast.Outcome
	submitted [][]wasm.Msg
}

func (s *submitterMock) Address() string { return "terra1deployer" }

func (s *submitterMock) Submit(ctx context.Context, msgs []wasm.Msg, opts ...broadcast.SubmitOption) broadcast.Outcome {
	s.submitted = append(s.submitted, msgs)
	out := s.outcomes[0]
	s.outcomes = s.outcomes[1:]
	return out
}

func withEvent(typ, key, value string) broadcast.Outcome {
	return broadcast.Outcome{
		Hash: "AABB",
		Logs: client.TxLogs{{
			MsgIndex: 0,
			Events: []client.Event{{
				Type:       typ,
				Attributes: []client.Attribute{{Key: key, Value: value}},
			}},
		}},
	}
}

func TestRunUploadsAndInstantiates(t *testing.T) {
	s := &submitterMock{outcomes: []broadcast.Outcome{
		withEvent("store_code", "code_id", "17"),
		withEvent("instantiate_contract", "contract_address", "terra1contract"),
	}}

	res, err := New(s, nil).Run(context.Background(), Params{
		Code:    []byte("\x00asm"),
		Admin:   "terra1admin",
		InitMsg: json.RawMessage(initMsg),
	})
	require.NoError(t, err)
	assert.Equal(t, &Result{CodeID: 17, Uploaded: true, Contract: "terra1contract"}, res)

	require.Len(t, s.submitted, 2)
	store := s.submitted[0][0].(*wasm.MsgStoreCode)
	assert.Equal(t, "terra1deployer", store.Sender)
	inst := s.submitted[1][0].(*wasm.MsgInstantiateContract)
	assert.Equal(t, uint64(17), inst.CodeID)
	assert.Equal(t, "terra1admin", inst.Admin)
	assert.JSONEq(t, initMsg, string(inst.InitMsg))
}

func TestRunWithCodeIDSkipsUpload(t *testing.T) {
	s := &submitterMock{outcomes: []broadcast.Outcome{
		withEvent("instantiate_contract", "contract_address", "terra1contract"),
	}}

	res, err := New(s, nil).Run(context.Background(), Params{
		CodeID:  4,
		InitMsg: json.RawMessage(initMsg),
	})
	require.NoError(t, err)
	assert.False(t, res.Uploaded)
	assert.Equal(t, uint64(4), res.CodeID)
	assert.Len(t, s.submitted, 1)
}

func TestRunFailsFast(t *testing.T) {
	s := &submitterMock{outcomes: []broadcast.Outcome{
		{Err: errors.Wrap(errors.ErrUserAbort, "declined")},
	}}

	_, err := New(s, nil).Run(context.Background(), Params{
		Code:    []byte("\x00asm"),
		InitMsg: json.RawMessage(initMsg),
	})
	assert.True(t, errors.ErrUserAbort.Is(err))
	assert.Len(t, s.submitted, 1, "instantiate must not run after a failed upload")
}

func TestRunMissingEvent(t *testing.T) {
	s := &submitterMock{outcomes: []broadcast.Outcome{
		withEvent("store_code", "sender", "terra1deployer"),
	}}

	_, err := New(s, nil).Run(context.Background(), Params{
		Code:    []byte("\x00asm"),
		InitMsg: json.RawMessage(initMsg),
	})
	assert.True(t, errors.ErrNotFound.Is(err))
}

func TestRunInvalidParams(t *testing.T) {
	s := &submitterMock{}

	_, err := New(s, nil).Run(context.Background(), Params{InitMsg: json.RawMessage(initMsg)})
	assert.True(t, errors.ErrConfiguration.Is(err))

	_, err = New(s, nil).Run(context.Background(), Params{CodeID: 1, InitMsg: json.RawMessage(`{}`)})
	assert.True(t, errors.ErrConfiguration.Is(err))
	assert.Empty(t, s.submitted)
}
