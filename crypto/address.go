package crypto

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"strings"

	"github.com/iov-one/nftdrop/crypto/bech32"
	"github.com/iov-one/nftdrop/errors"
)

// AddressLength is the length of all addresses.
const AddressLength = 20

// conditionPrefix is prepended to an ed25519 public key before hashing it
// into an address.
const conditionPrefix = "sigs/ed25519/"

// Address represents a collision-free, one-way digest of a public key.
//
// It will be of size AddressLength.
type Address []byte

// NewAddress hashes given public key into an address.
func NewAddress(pub PublicKey) Address {
	h := sha256.Sum256(append([]byte(conditionPrefix), pub...))
	return Address(h[:AddressLength])
}

// ParseAddress decodes a bech32 address and requires its human readable
// part to be the given prefix.
func ParseAddress(prefix, raw string) (Address, error) {
	payload, err := bech32.DecodePrefixed(prefix, raw)
	if err != nil {
		return nil, errors.Wrap(err, "parse address")
	}
	addr := Address(payload)
	if err := addr.Validate(); err != nil {
		return nil, err
	}
	return addr, nil
}

// Equals checks if two addresses are the same
func (a Address) Equals(b Address) bool {
	return bytes.Equal(a, b)
}

// Validate returns an error if the address is not the proper length.
func (a Address) Validate() error {
	if len(a) == 0 {
		return errors.Wrap(errors.ErrEmpty, "address")
	}
	if len(a) != AddressLength {
		return errors.ErrInput.Newf("address: invalid length %d", len(a))
	}
	return nil
}

// Bech32 renders the address with the given human readable prefix, as
// expected by the ledger and the contract.
func (a Address) Bech32(prefix string) (string, error) {
	if err := a.Validate(); err != nil {
		return "", err
	}
	return bech32.Encode(prefix, a)
}

// String returns the upper case hex form.
func (a Address) String() string {
	if len(a) == 0 {
		return "(nil)"
	}
	return strings.ToUpper(hex.EncodeToString(a))
}

// MarshalJSON provides a hex representation for JSON,
// to override the standard base64 []byte encoding
func (a Address) MarshalJSON() ([]byte, error) {
	return json.Marshal(strings.ToUpper(hex.EncodeToString(a)))
}

func (a *Address) UnmarshalJSON(raw []byte) error {
	var enc string
	if err := json.Unmarshal(raw, &enc); err != nil {
		return errors.Wrap(errors.ErrEncoding, err.Error())
	}
	if enc == "" {
		*a = nil
		return nil
	}
	val, err := hex.DecodeString(enc)
	if err != nil {
		return errors.Wrapf(errors.ErrEncoding, "cannot decode hex: %s", err)
	}
	if err := Address(val).Validate(); err != nil {
		return err
	}
	*a = val
	return nil
}
