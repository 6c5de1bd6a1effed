package crypto

import (
	"github.com/cosmos/go-bip39"
	"github.com/iov-one/nftdrop/errors"
	"github.com/stellar/go/exp/crypto/derivation"
)

// DefaultHDPath is the SLIP-10 derivation path used when none is configured.
const DefaultHDPath = "m/44'/234'/0'"

// mnemonicEntropy is the entropy size in bits of a generated mnemonic, which
// gives 24 words.
const mnemonicEntropy = 256

// NewMnemonic returns a fresh random mnemonic.
func NewMnemonic() (string, error) {
	entropy, err := bip39.NewEntropy(mnemonicEntropy)
	if err != nil {
		return "", errors.Wrap(errors.ErrInvalidState, err.Error())
	}
	m, err := bip39.NewMnemonic(entropy)
	if err != nil {
		return "", errors.Wrap(errors.ErrInvalidState, err.Error())
	}
	return m, nil
}

// PrivateKeyFromMnemonic derives an ed25519 key from a BIP39 mnemonic.
// An empty path means DefaultHDPath.
func PrivateKeyFromMnemonic(mnemonic, passphrase, path string) (PrivateKey, error) {
	if mnemonic == "" {
		return nil, errors.Wrap(errors.ErrEmpty, "mnemonic")
	}
	if path == "" {
		path = DefaultHDPath
	}
	seed, err := bip39.NewSeedWithErrorChecking(mnemonic, passphrase)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInput, "mnemonic: %s", err)
	}
	k, err := derivation.DeriveForPath(path, seed)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInput, "derive path %q: %s", path, err)
	}
	pub, err := k.PublicKey()
	if err != nil {
		return nil, errors.Wrap(errors.ErrInvalidState, err.Error())
	}
	key := make([]byte, 0, len(k.Key)+len(pub))
	key = append(key, k.Key...)
	return PrivateKey(append(key, pub...)), nil
}
