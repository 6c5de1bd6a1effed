package main

import (
	"flag"
	"fmt"
	"io"

	"github.com/iov-one/nftdrop/errors"
)

func cmdSequence(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Print the sequence number the next transaction of an account must be signed
with. By default the configured signing account is queried.
`)
		fl.PrintDefaults()
	}
	s := newSettings(fl)
	addressFl := fl.String("address", "", "Bech32 address of the account to query.")
	fl.Parse(args)

	cfg, err := s.load()
	if err != nil {
		return err
	}
	logger, err := s.logger()
	if err != nil {
		return err
	}
	network, err := cfg.ActiveNetwork()
	if err != nil {
		return err
	}
	address := *addressFl
	if address == "" {
		key, err := cfg.Signer()
		if err != nil {
			return err
		}
		if address, err = key.Address().Bech32(network.Bech32Prefix); err != nil {
			return err
		}
	}

	cl, err := cfg.Client(logger)
	if err != nil {
		return err
	}
	ctx, cancel := commandContext()
	defer cancel()

	seq, err := cl.Sequence(ctx, address)
	if err != nil {
		return errors.Wrapf(err, "cannot query sequence of %s", address)
	}
	_, err = fmt.Fprintln(output, seq)
	return err
}
