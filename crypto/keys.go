package crypto

import (
	"crypto/rand"
	"encoding/hex"
	"io/ioutil"
	"os"
	"strings"

	"github.com/iov-one/nftdrop/errors"
	"golang.org/x/crypto/ed25519"
)

// KeyPerm is the file permissions for saved private keys
const KeyPerm = 0600

// PublicKey is an ed25519 public key.
type PublicKey []byte

// Address returns the account address controlled by this key.
func (p PublicKey) Address() Address {
	return NewAddress(p)
}

// Verify returns true if sig is a valid signature of msg.
func (p PublicKey) Verify(msg, sig []byte) bool {
	if len(p) != ed25519.PublicKeySize {
		return false
	}
	return ed25519.Verify(ed25519.PublicKey(p), msg, sig)
}

// PrivateKey is an ed25519 private key: the 32 byte seed followed by the
// public key.
type PrivateKey []byte

// GenPrivateKey creates a new random key.
func GenPrivateKey() (PrivateKey, error) {
	_, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return nil, errors.Wrap(errors.ErrInvalidState, err.Error())
	}
	return PrivateKey(priv), nil
}

// PrivateKeyFromSeed builds a key from a 32 byte ed25519 seed.
func PrivateKeyFromSeed(seed []byte) (PrivateKey, error) {
	if len(seed) != ed25519.SeedSize {
		return nil, errors.ErrInput.Newf("seed: invalid length %d", len(seed))
	}
	return PrivateKey(ed25519.NewKeyFromSeed(seed)), nil
}

// PublicKey returns the public half of the key.
func (k PrivateKey) PublicKey() PublicKey {
	pub := make([]byte, ed25519.PublicKeySize)
	copy(pub, k[ed25519.SeedSize:])
	return PublicKey(pub)
}

// Address is a shortcut for k.PublicKey().Address().
func (k PrivateKey) Address() Address {
	return k.PublicKey().Address()
}

// Sign returns the signature of given message.
func (k PrivateKey) Sign(msg []byte) ([]byte, error) {
	if len(k) != ed25519.PrivateKeySize {
		return nil, errors.ErrInvalidState.Newf("private key: invalid length %d", len(k))
	}
	return ed25519.Sign(ed25519.PrivateKey(k), msg), nil
}

// DecodePrivateKey reads a hex string created by EncodePrivateKey
// and returns the original PrivateKey
func DecodePrivateKey(hexKey string) (PrivateKey, error) {
	data, err := hex.DecodeString(strings.TrimSpace(hexKey))
	if err != nil {
		return nil, errors.Wrapf(errors.ErrEncoding, "cannot decode hex: %s", err)
	}
	if len(data) != ed25519.PrivateKeySize {
		return nil, errors.ErrInput.Newf("private key: invalid length %d", len(data))
	}
	return PrivateKey(data), nil
}

// EncodePrivateKey stores the private key as a hex string
// that can be saved and later loaded
func EncodePrivateKey(key PrivateKey) string {
	return hex.EncodeToString(key)
}

// LoadPrivateKey will load a private key from a file,
// Which was previously written by SavePrivateKey
func LoadPrivateKey(filename string) (PrivateKey, error) {
	raw, err := ioutil.ReadFile(filename)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrNotFound, filename)
		}
		return nil, errors.Wrap(err, "read key file")
	}
	return DecodePrivateKey(string(raw))
}

// SavePrivateKey will encode the private key in hex and write to
// the named file
//
// Refuses to overwrite a file unless force is true
func SavePrivateKey(key PrivateKey, filename string, force bool) error {
	if err := canWrite(filename, force); err != nil {
		return err
	}
	return ioutil.WriteFile(filename, []byte(EncodePrivateKey(key)), KeyPerm)
}

func canWrite(filename string, force bool) error {
	if force {
		return nil
	}
	if _, err := os.Stat(filename); err == nil {
		return errors.ErrInput.Newf("refusing to overwrite: %s", filename)
	}
	return nil
}
