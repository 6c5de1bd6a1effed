package main

import (
	"context"
	"flag"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/iov-one/nftdrop/broadcast"
	"github.com/iov-one/nftdrop/client"
	"github.com/iov-one/nftdrop/coin"
	"github.com/iov-one/nftdrop/config"
	"github.com/iov-one/nftdrop/errors"
	"github.com/tendermint/tendermint/libs/log"
)

// Logs and the progress bar are written there. Tests replace it.
var stderr io.Writer = os.Stderr

// env returns the value of an environment variable if provided (even if empty)
// or a fallback value.
func env(name, fallback string) string {
	if v, ok := os.LookupEnv(name); ok {
		return v
	}
	return fallback
}

// settings declares the flags of a command that reads the configuration.
// A flag bound to a configuration key overrides it only when given on the
// command line, so that the environment and the configuration file are
// respected otherwise.
type settings struct {
	fl       *flag.FlagSet
	file     *string
	logLevel *string
	keys     map[string]string
}

func newSettings(fl *flag.FlagSet) *settings {
	s := &settings{
		fl:   fl,
		keys: make(map[string]string),
	}
	s.file = fl.String("config", env("NFTDROP_CONFIG", ""),
		"Path to the configuration file. Defaults to $HOME/"+config.FileName+". You can use NFTDROP_CONFIG environment variable to set it.")
	s.logLevel = fl.String("log-level", env("NFTDROP_LOG_LEVEL", "info"),
		"Log level, one of debug, info, error or none. You can use NFTDROP_LOG_LEVEL environment variable to set it.")
	s.bindString("network", "network", "Name of the network: mainnet, testnet, local or one declared in the configuration file.")
	s.bindString("key", "key_file", "Path to the private key file, used when no mnemonic is configured. Set the mnemonic with NFTDROP_MNEMONIC environment variable.")
	s.bindString("hd-path", "hd_path", "Derivation path of the key.")
	return s
}

func (s *settings) bindString(name, key, usage string) {
	s.fl.String(name, "", usage)
	s.keys[name] = key
}

func (s *settings) bindBool(name, key, usage string) {
	s.fl.Bool(name, false, usage)
	s.keys[name] = key
}

func (s *settings) bindInt(name, key, usage string) {
	s.fl.Int(name, 0, usage)
	s.keys[name] = key
}

func (s *settings) bindInt64(name, key, usage string) {
	s.fl.Int64(name, 0, usage)
	s.keys[name] = key
}

func (s *settings) bindUint64(name, key, usage string) {
	s.fl.Uint64(name, 0, usage)
	s.keys[name] = key
}

func (s *settings) bindFloat64(name, key, usage string) {
	s.fl.Float64(name, 0, usage)
	s.keys[name] = key
}

// bindDecCoin declares a flag that is parsed as a decimal coin, so that a
// malformed amount is rejected before anything is loaded.
func (s *settings) bindDecCoin(name, key, usage string) {
	s.fl.Var(new(coin.DecCoin), name, usage)
	s.keys[name] = key
}

// gasFlags declares the flags every signing command accepts.
func (s *settings) gasFlags() {
	s.bindDecCoin("gas-price", "gas.price", "Fee paid per unit of gas, for example 0.15uusd.")
	s.bindFloat64("gas-adjustment", "gas.adjustment", "Multiplier of the simulated gas.")
	s.bindUint64("gas-limit", "gas.limit", "Gas limit of every transaction. When set, no simulation is done.")
	s.bindString("memo", "memo", "Memo attached to every transaction.")
}

// load returns the validated configuration.
func (s *settings) load() (*config.Config, error) {
	overrides := make(map[string]interface{})
	s.fl.Visit(func(f *flag.Flag) {
		key, ok := s.keys[f.Name]
		if !ok {
			return
		}
		if g, ok := f.Value.(flag.Getter); ok {
			overrides[key] = g.Get()
		}
	})
	c, err := config.Load(*s.file, overrides)
	if err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *settings) logger() (log.Logger, error) {
	return newLogger(stderr, *s.logLevel)
}

func newLogger(w io.Writer, level string) (log.Logger, error) {
	opt, err := log.AllowLevel(level)
	if err != nil {
		return nil, errors.Wrap(errUsage, err.Error())
	}
	logger := log.NewTMLogger(log.NewSyncWriter(w)).With("module", "nftdrop")
	return log.NewFilter(logger, opt), nil
}

// commandContext returns a context that is cancelled when the process is
// interrupted.
func commandContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

// session holds everything a command submitting transactions needs.
type session struct {
	client      client.Client
	broadcaster *broadcast.Broadcaster
	logger      log.Logger
}

// openSession connects to the configured network and prepares a
// broadcaster of the configured account. Unless autoConfirm is set, every
// transaction is confirmed through input and output.
func openSession(ctx context.Context, s *settings, input io.Reader, output io.Writer, autoConfirm bool) (*session, error) {
	cfg, err := s.load()
	if err != nil {
		return nil, err
	}
	logger, err := s.logger()
	if err != nil {
		return nil, err
	}
	network, err := cfg.ActiveNetwork()
	if err != nil {
		return nil, err
	}
	key, err := cfg.Signer()
	if err != nil {
		return nil, err
	}
	address, err := key.Address().Bech32(network.Bech32Prefix)
	if err != nil {
		return nil, errors.Wrap(errors.ErrConfiguration, err.Error())
	}
	gas, err := cfg.GasConfig()
	if err != nil {
		return nil, errors.Wrap(errors.Append(errors.ErrConfiguration, err), "gas")
	}

	cl, err := cfg.Client(logger)
	if err != nil {
		return nil, err
	}
	chainID, err := cl.ChainID(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "cannot reach ledger")
	}
	if chainID != network.ChainID {
		return nil, errors.ErrConfiguration.Newf("ledger runs %q but network %q is configured with %q", chainID, cfg.Network, network.ChainID)
	}

	var confirmer broadcast.Confirmer = broadcast.NewTerminalConfirmer(input, output)
	if autoConfirm {
		confirmer = broadcast.AutoConfirmer{}
	}
	b, err := broadcast.New(broadcast.Config{
		Client:    cl,
		Key:       key,
		Address:   address,
		ChainID:   chainID,
		Gas:       gas,
		Memo:      cfg.Memo,
		Confirmer: confirmer,
		Logger:    logger,
	})
	if err != nil {
		return nil, err
	}
	logger.Info("session open", "network", cfg.Network, "chain_id", chainID, "account", address)
	return &session{
		client:      cl,
		broadcaster: b,
		logger:      logger,
	}, nil
}
