package main

import (
	"flag"
	"fmt"
	"io"

	"github.com/iov-one/nftdrop/crypto"
	"github.com/iov-one/nftdrop/errors"
)

func cmdKeygen(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Generate a new mnemonic and print it together with the address of the key
derived from it.

Keep the mnemonic secret. Provide it to other commands with the
NFTDROP_MNEMONIC environment variable or the configuration file. When -key is
given, the derived private key is also written to that file, which must not
exist.
`)
		fl.PrintDefaults()
	}
	var (
		prefixFl = fl.String("prefix", "terra",
			"Bech32 prefix of the printed address.")
		pathFl = fl.String("path", crypto.DefaultHDPath,
			"Derivation path of the key.")
		keyFl = fl.String("key", "",
			"Optional path of a private key file to create.")
	)
	fl.Parse(args)

	mnemonic, err := crypto.NewMnemonic()
	if err != nil {
		return errors.Wrap(err, "cannot generate mnemonic")
	}
	key, err := crypto.PrivateKeyFromMnemonic(mnemonic, "", *pathFl)
	if err != nil {
		return errors.Wrap(errors.Append(errUsage, err), "cannot derive key")
	}
	addr, err := key.Address().Bech32(*prefixFl)
	if err != nil {
		return errors.Wrap(errors.Append(errUsage, err), "cannot encode address")
	}
	if *keyFl != "" {
		// Never overwrite an existing key, it must be removed by hand.
		if err := crypto.SavePrivateKey(key, *keyFl, false); err != nil {
			return errors.Wrap(err, "cannot write private key")
		}
	}
	fmt.Fprintln(output, mnemonic)
	fmt.Fprintln(output, addr)
	return nil
}

func cmdKeyaddr(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Print out the address of the configured signing account.
`)
		fl.PrintDefaults()
	}
	s := newSettings(fl)
	hexFl := fl.Bool("hex", false, "Print the hex encoded address instead of the bech32 one.")
	fl.Parse(args)

	cfg, err := s.load()
	if err != nil {
		return err
	}
	network, err := cfg.ActiveNetwork()
	if err != nil {
		return err
	}
	key, err := cfg.Signer()
	if err != nil {
		return err
	}
	if *hexFl {
		_, err = fmt.Fprintln(output, key.Address())
		return err
	}
	addr, err := key.Address().Bech32(network.Bech32Prefix)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(output, addr)
	return err
}
