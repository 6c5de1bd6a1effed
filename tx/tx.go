// Package tx builds, signs and serializes ledger transactions.
package tx

import (
	"crypto/sha512"
	"encoding/binary"
	"fmt"
	"regexp"

	"github.com/iov-one/nftdrop/coin"
	"github.com/iov-one/nftdrop/crypto"
	"github.com/iov-one/nftdrop/errors"
	"github.com/iov-one/nftdrop/wasm"
	amino "github.com/tendermint/go-amino"
	tmtypes "github.com/tendermint/tendermint/types"
)

// SignCodeV1 is the current way to prefix the bytes we use to build
// a signature
var SignCodeV1 = []byte{0, 0xCA, 0xFE, 0}

// IsValidChainID is the RegExp to ensure valid chain IDs
var IsValidChainID = regexp.MustCompile(`^[a-zA-Z0-9_\-]{6,20}$`).MatchString

// Codec serializes transactions and everything they carry.
var Codec = amino.NewCodec()

func init() {
	wasm.RegisterCodec(Codec)
	Codec.Seal()
}

// Fee is paid by the signer for the transaction execution.
type Fee struct {
	Amount coin.Coins `json:"amount"`
	Gas    uint64     `json:"gas"`
}

// StdSignature is a signature together with the key and the account sequence
// it was created for.
type StdSignature struct {
	PubKey    crypto.PublicKey `json:"pub_key"`
	Signature []byte           `json:"signature"`
	Sequence  uint64           `json:"sequence"`
}

// Tx is a ledger transaction. All messages are executed atomically.
type Tx struct {
	Msgs       []wasm.Msg     `json:"msg"`
	Fee        Fee            `json:"fee"`
	Memo       string         `json:"memo"`
	Signatures []StdSignature `json:"signatures"`
}

// New returns an unsigned transaction.
func New(msgs []wasm.Msg, fee Fee, memo string) *Tx {
	return &Tx{Msgs: msgs, Fee: fee, Memo: memo}
}

// Validate performs stateless checks of the transaction and all carried
// messages.
func (tx *Tx) Validate() error {
	if len(tx.Msgs) == 0 {
		return errors.Wrap(errors.ErrEmpty, "messages")
	}
	var errs error
	for i, m := range tx.Msgs {
		errs = errors.AppendField(errs, fmt.Sprintf("Msgs.%d", i), m.Validate())
	}
	errs = errors.AppendField(errs, "Fee.Amount", tx.Fee.Amount.Validate())
	return errs
}

// SignBytes returns the serialized form of the transaction without
// signatures. This is what every signature commits to.
func (tx *Tx) SignBytes() ([]byte, error) {
	unsigned := *tx
	unsigned.Signatures = nil
	raw, err := Codec.MarshalBinaryBare(unsigned)
	if err != nil {
		return nil, errors.Wrap(errors.ErrEncoding, err.Error())
	}
	return raw, nil
}

/*
BuildSignBytes combines all info on the actual tx before signing

The following format is used:

version | len(chainID) | chainID      | nonce              | signBytes
4bytes  | uint8        | ascii string | uint64 (bigendian) | serialized transaction

This is then prehashed with sha512 before fed into
the public key signing/verification step
*/
func BuildSignBytes(signBytes []byte, chainID string, seq uint64) ([]byte, error) {
	if !IsValidChainID(chainID) {
		return nil, errors.Wrapf(errors.ErrInput, "chain id: %v", chainID)
	}

	// encode nonce as 8 byte, big-endian
	nonce := make([]byte, 8)
	binary.BigEndian.PutUint64(nonce, seq)

	output := make([]byte, 0, 4+1+len(chainID)+8+len(signBytes))
	output = append(output, SignCodeV1...)
	output = append(output, uint8(len(chainID)))
	output = append(output, []byte(chainID)...)
	output = append(output, nonce...)
	output = append(output, signBytes...)

	hashed := sha512.Sum512(output)
	return hashed[:], nil
}

// Sign adds a signature created by the key for the given chain and account
// sequence.
func (tx *Tx) Sign(key crypto.PrivateKey, chainID string, seq uint64) error {
	bz, err := tx.SignBytes()
	if err != nil {
		return err
	}
	toSign, err := BuildSignBytes(bz, chainID, seq)
	if err != nil {
		return err
	}
	sig, err := key.Sign(toSign)
	if err != nil {
		return errors.Wrap(err, "sign")
	}
	tx.Signatures = append(tx.Signatures, StdSignature{
		PubKey:    key.PublicKey(),
		Signature: sig,
		Sequence:  seq,
	})
	return nil
}

// VerifySignatures checks every signature against the transaction content.
// Signers are returned in the signature order.
func (tx *Tx) VerifySignatures(chainID string) ([]crypto.Address, error) {
	if len(tx.Signatures) == 0 {
		return nil, errors.Wrap(errors.ErrEmpty, "signatures")
	}
	bz, err := tx.SignBytes()
	if err != nil {
		return nil, err
	}
	signers := make([]crypto.Address, 0, len(tx.Signatures))
	for i, sig := range tx.Signatures {
		toSign, err := BuildSignBytes(bz, chainID, sig.Sequence)
		if err != nil {
			return nil, err
		}
		if !sig.PubKey.Verify(toSign, sig.Signature) {
			return nil, errors.ErrInput.Newf("invalid signature %d", i)
		}
		signers = append(signers, sig.PubKey.Address())
	}
	return signers, nil
}

// Encode serializes the transaction for broadcasting.
func Encode(tx *Tx) ([]byte, error) {
	raw, err := Codec.MarshalBinaryLengthPrefixed(*tx)
	if err != nil {
		return nil, errors.Wrap(errors.ErrEncoding, err.Error())
	}
	return raw, nil
}

// Decode is the reverse of Encode.
func Decode(raw []byte) (*Tx, error) {
	var tx Tx
	if err := Codec.UnmarshalBinaryLengthPrefixed(raw, &tx); err != nil {
		return nil, errors.Wrap(errors.ErrEncoding, err.Error())
	}
	return &tx, nil
}

// Render returns an indented JSON representation meant for the operator
// to review before signing off the transaction.
func Render(tx *Tx) (string, error) {
	raw, err := Codec.MarshalJSONIndent(*tx, "", "  ")
	if err != nil {
		return "", errors.Wrap(errors.ErrEncoding, err.Error())
	}
	return string(raw), nil
}

// Hash returns the hex encoded hash the ledger identifies given serialized
// transaction by.
func Hash(raw []byte) string {
	return fmt.Sprintf("%X", tmtypes.Tx(raw).Hash())
}
