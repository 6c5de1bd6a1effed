package tx

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/iov-one/nftdrop/coin"
	"github.com/iov-one/nftdrop/crypto"
	"github.com/iov-one/nftdrop/errors"
	"github.com/iov-one/nftdrop/wasm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestTx(t testing.TB) *Tx {
	t.Helper()
	msg, err := wasm.NewMintMsg("terra1minter", "terra1contract", 1, []string{"terra1a", "terra1b"})
	require.NoError(t, err)
	return New([]wasm.Msg{msg}, Fee{Amount: coin.Coins{coin.NewCoin(30000, "uusd")}, Gas: 200000}, "mint")
}

func TestSignAndVerify(t *testing.T) {
	key, err := crypto.GenPrivateKey()
	require.NoError(t, err)

	tx := newTestTx(t)
	require.NoError(t, tx.Sign(key, "bombay-12", 7))
	require.Len(t, tx.Signatures, 1)
	assert.Equal(t, uint64(7), tx.Signatures[0].Sequence)

	signers, err := tx.VerifySignatures("bombay-12")
	require.NoError(t, err)
	assert.Equal(t, []crypto.Address{key.Address()}, signers)

	_, err = tx.VerifySignatures("columbus-5")
	assert.True(t, errors.ErrInput.Is(err), "a signature must be bound to the chain")

	tx.Signatures[0].Sequence = 8
	_, err = tx.VerifySignatures("bombay-12")
	assert.True(t, errors.ErrInput.Is(err), "a signature must be bound to the sequence")
}

func TestSignBytesIgnoreSignatures(t *testing.T) {
	key, err := crypto.GenPrivateKey()
	require.NoError(t, err)

	tx := newTestTx(t)
	before, err := tx.SignBytes()
	require.NoError(t, err)
	require.NoError(t, tx.Sign(key, "bombay-12", 1))
	after, err := tx.SignBytes()
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestBuildSignBytes(t *testing.T) {
	a, err := BuildSignBytes([]byte("payload"), "bombay-12", 1)
	require.NoError(t, err)
	assert.Len(t, a, 64)

	b, err := BuildSignBytes([]byte("payload"), "bombay-12", 2)
	require.NoError(t, err)
	assert.NotEqual(t, a, b)

	_, err = BuildSignBytes([]byte("payload"), "x", 1)
	assert.True(t, errors.ErrInput.Is(err))
}

func TestEncodeDecode(t *testing.T) {
	key, err := crypto.GenPrivateKey()
	require.NoError(t, err)
	tx := newTestTx(t)
	require.NoError(t, tx.Sign(key, "bombay-12", 3))

	raw, err := Encode(tx)
	require.NoError(t, err)
	got, err := Decode(raw)
	require.NoError(t, err)
	assert.Equal(t, tx, got)

	_, err = Decode([]byte{0xff, 0x01})
	assert.True(t, errors.ErrEncoding.Is(err))

	assert.Len(t, Hash(raw), 64)
}

func TestRender(t *testing.T) {
	out, err := Render(newTestTx(t))
	require.NoError(t, err)

	assert.True(t, strings.Contains(out, `"type": "wasm/MsgExecuteContract"`), out)
	assert.True(t, strings.Contains(out, `"owners"`), "contract payload must stay readable: %s", out)

	var generic map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(out), &generic))
}

func TestValidate(t *testing.T) {
	assert.NoError(t, newTestTx(t).Validate())
	assert.True(t, errors.ErrEmpty.Is(New(nil, Fee{}, "").Validate()))

	broken := newTestTx(t)
	broken.Msgs = append(broken.Msgs, &wasm.MsgExecuteContract{Sender: "terra1minter"})
	assert.True(t, errors.ErrEmpty.Is(broken.Validate()))
}
