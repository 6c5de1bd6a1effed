/*
Package config resolves the run parameters of nftdrop.

Values are looked up in the following order, first match wins: explicit
overrides (command line flags), environment variables prefixed with
NFTDROP_, the configuration file and finally the defaults. Nested keys are
addressed with a dot and map to environment variables with an underscore,
for example gas.price is read from NFTDROP_GAS_PRICE.

A minimal configuration file ($HOME/.nftdrop.yaml) could be

	network: testnet
	mnemonic: "..."
	gas:
	  adjustment: 1.5
	networks:
	  testnet:
	    lcd: https://my-lcd.example.com

The ledger behind the selected endpoint must accept amino encoded
transactions, see client.LCDClient.
*/
package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/iov-one/nftdrop/broadcast"
	"github.com/iov-one/nftdrop/client"
	"github.com/iov-one/nftdrop/coin"
	"github.com/iov-one/nftdrop/crypto"
	"github.com/iov-one/nftdrop/errors"
	"github.com/iov-one/nftdrop/mint"
	"github.com/iov-one/nftdrop/tx"
	"github.com/spf13/viper"
	"github.com/tendermint/tendermint/libs/log"
)

const (
	// EnvPrefix is prepended to every environment variable name.
	EnvPrefix = "NFTDROP"

	// FileName is the configuration file looked up in the home directory
	// when no file is given explicitly.
	FileName = ".nftdrop.yaml"
)

// Transports a network can be reached with.
const (
	TransportLCD        = "lcd"
	TransportTendermint = "tendermint"
)

// Network describes a ledger.
type Network struct {
	ChainID      string `mapstructure:"chain_id"`
	LCD          string `mapstructure:"lcd"`
	RPC          string `mapstructure:"rpc"`
	Transport    string `mapstructure:"transport"`
	Bech32Prefix string `mapstructure:"bech32_prefix"`
}

func (n Network) Validate() error {
	var errs error
	if !tx.IsValidChainID(n.ChainID) {
		errs = errors.AppendField(errs, "ChainID", errors.ErrInput.Newf("invalid chain id %q", n.ChainID))
	}
	switch n.Transport {
	case TransportLCD:
		if n.LCD == "" {
			errs = errors.AppendField(errs, "LCD", errors.ErrEmpty)
		}
	case TransportTendermint:
		if n.RPC == "" {
			errs = errors.AppendField(errs, "RPC", errors.ErrEmpty)
		}
	default:
		errs = errors.AppendField(errs, "Transport", errors.ErrInput.Newf("unknown transport %q", n.Transport))
	}
	if n.Bech32Prefix == "" {
		errs = errors.AppendField(errs, "Bech32Prefix", errors.ErrEmpty)
	}
	return errs
}

// merge returns n with all non empty values of o applied.
func (n Network) merge(o Network) Network {
	if o.ChainID != "" {
		n.ChainID = o.ChainID
	}
	if o.LCD != "" {
		n.LCD = o.LCD
	}
	if o.RPC != "" {
		n.RPC = o.RPC
	}
	if o.Transport != "" {
		n.Transport = o.Transport
	}
	if o.Bech32Prefix != "" {
		n.Bech32Prefix = o.Bech32Prefix
	}
	return n
}

// BuiltinNetworks returns the networks known without any configuration.
//
// Their endpoints are the public ones of each chain. Submitting requires a
// ledger that accepts the amino encoded transactions this module signs, see
// client.LCDClient. Override lcd or rpc in the configuration file to point a
// network at such a node.
func BuiltinNetworks() map[string]Network {
	return map[string]Network{
		"mainnet": {
			ChainID:      "columbus-5",
			LCD:          "https://lcd.terra.dev",
			Transport:    TransportLCD,
			Bech32Prefix: "terra",
		},
		"testnet": {
			ChainID:      "bombay-12",
			LCD:          "https://bombay-lcd.terra.dev",
			Transport:    TransportLCD,
			Bech32Prefix: "terra",
		},
		"local": {
			ChainID:      "localterra",
			LCD:          "http://localhost:1317",
			RPC:          "localhost:26657",
			Transport:    TransportLCD,
			Bech32Prefix: "terra",
		},
	}
}

type GasConfig struct {
	Price      string  `mapstructure:"price"`
	Adjustment float64 `mapstructure:"adjustment"`
	// Limit skips the simulation when not zero.
	Limit uint64 `mapstructure:"limit"`
}

type BatchConfig struct {
	MaxOperationsPerMessage   int `mapstructure:"max_operations_per_message"`
	MaxMessagesPerTransaction int `mapstructure:"max_messages_per_transaction"`
}

// ShuffleConfig controls the optional permutation of the recipients
// before minting.
type ShuffleConfig struct {
	Enabled bool  `mapstructure:"enabled"`
	Seed    int64 `mapstructure:"seed"`
	// Output is the side file the shuffled order is written to.
	Output string `mapstructure:"output"`
}

// Config holds all run parameters.
type Config struct {
	// Network is the name of the selected network.
	Network  string             `mapstructure:"network"`
	Networks map[string]Network `mapstructure:"networks"`

	Mnemonic   string `mapstructure:"mnemonic"`
	Passphrase string `mapstructure:"passphrase"`
	HDPath     string `mapstructure:"hd_path"`
	// KeyFile is used when no mnemonic is given.
	KeyFile string `mapstructure:"key_file"`

	Gas            GasConfig     `mapstructure:"gas"`
	Batch          BatchConfig   `mapstructure:"batch"`
	Shuffle        ShuffleConfig `mapstructure:"shuffle"`
	AbortOnFailure bool          `mapstructure:"abort_on_failure"`
	Memo           string        `mapstructure:"memo"`
	DataDir        string        `mapstructure:"data_dir"`
}

// Load reads the configuration file and the environment. An empty file
// means the optional FileName in the home directory. Overrides are keyed
// the same way as the file and take precedence over every other source.
func Load(file string, overrides map[string]interface{}) (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	if file != "" {
		v.SetConfigFile(file)
	} else if home, err := os.UserHomeDir(); err == nil {
		v.SetConfigFile(filepath.Join(home, FileName))
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if v.ConfigFileUsed() != "" {
		if err := v.ReadInConfig(); err != nil {
			// Only an explicitly requested file must exist.
			if file != "" || !os.IsNotExist(err) {
				return nil, errors.Wrapf(errors.ErrConfiguration, "read config file: %s", err)
			}
		}
	}

	for key, value := range overrides {
		v.Set(key, value)
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, errors.Wrapf(errors.ErrConfiguration, "unmarshal config: %s", err)
	}

	// Viper lowercases map keys, so network names are case insensitive.
	c.Network = strings.ToLower(c.Network)
	networks := BuiltinNetworks()
	for name, n := range c.Networks {
		name = strings.ToLower(name)
		networks[name] = networks[name].merge(n)
	}
	c.Networks = networks
	return &c, nil
}

// setDefaults registers every key, which is required for the environment
// lookup to work with Unmarshal.
func setDefaults(v *viper.Viper) {
	v.SetDefault("network", "testnet")

	v.SetDefault("mnemonic", "")
	v.SetDefault("passphrase", "")
	v.SetDefault("hd_path", crypto.DefaultHDPath)
	v.SetDefault("key_file", "")

	v.SetDefault("gas.price", broadcast.DefaultGasPrice)
	v.SetDefault("gas.adjustment", broadcast.DefaultGasAdjustment)
	v.SetDefault("gas.limit", 0)

	v.SetDefault("batch.max_operations_per_message", mint.DefaultOperationsPerMessage)
	v.SetDefault("batch.max_messages_per_transaction", mint.DefaultMessagesPerTransaction)

	v.SetDefault("shuffle.enabled", false)
	v.SetDefault("shuffle.seed", 0)
	v.SetDefault("shuffle.output", "")

	v.SetDefault("abort_on_failure", false)
	v.SetDefault("memo", "")
	v.SetDefault("data_dir", "data")
}

// Validate checks the parameters every command relies on. Credentials are
// checked by Signer, only when a command signs.
func (c *Config) Validate() error {
	var errs error
	if n, ok := c.Networks[c.Network]; !ok {
		errs = errors.AppendField(errs, "Network", errors.ErrNotFound.Newf("unknown network %q", c.Network))
	} else {
		errs = errors.AppendField(errs, "Networks."+c.Network, n.Validate())
	}
	if _, err := c.GasConfig(); err != nil {
		errs = errors.AppendField(errs, "Gas", err)
	}
	if c.Batch.MaxOperationsPerMessage < 1 {
		errs = errors.AppendField(errs, "Batch.MaxOperationsPerMessage",
			errors.ErrInput.Newf("%d is less than 1", c.Batch.MaxOperationsPerMessage))
	}
	if c.Batch.MaxMessagesPerTransaction < 1 {
		errs = errors.AppendField(errs, "Batch.MaxMessagesPerTransaction",
			errors.ErrInput.Newf("%d is less than 1", c.Batch.MaxMessagesPerTransaction))
	}
	if errs != nil {
		return errors.Append(errors.ErrConfiguration, errs)
	}
	return nil
}

// ActiveNetwork returns the selected network.
func (c *Config) ActiveNetwork() (Network, error) {
	n, ok := c.Networks[c.Network]
	if !ok {
		return Network{}, errors.Wrapf(errors.ErrConfiguration, "unknown network %q", c.Network)
	}
	return n, nil
}

// GasConfig returns the gas settings of a broadcaster.
func (c *Config) GasConfig() (broadcast.GasConfig, error) {
	price, err := coin.ParseDecCoin(c.Gas.Price)
	if err != nil {
		return broadcast.GasConfig{}, err
	}
	g := broadcast.GasConfig{
		Price:      price,
		Adjustment: c.Gas.Adjustment,
		Limit:      c.Gas.Limit,
	}
	return g, g.Validate()
}

// Signer returns the key transactions are signed with, derived from the
// mnemonic or, if none is configured, read from the key file.
func (c *Config) Signer() (crypto.PrivateKey, error) {
	switch {
	case c.Mnemonic != "":
		key, err := crypto.PrivateKeyFromMnemonic(c.Mnemonic, c.Passphrase, c.HDPath)
		if err != nil {
			return nil, errors.Wrap(errors.Append(errors.ErrConfiguration, err), "mnemonic")
		}
		return key, nil
	case c.KeyFile != "":
		key, err := crypto.LoadPrivateKey(c.KeyFile)
		if err != nil {
			return nil, errors.Wrap(errors.Append(errors.ErrConfiguration, err), "key file")
		}
		return key, nil
	default:
		return nil, errors.Wrap(errors.ErrConfiguration, "mnemonic or key file required, set NFTDROP_MNEMONIC")
	}
}

// Client returns a ledger client of the selected network.
func (c *Config) Client(logger log.Logger) (client.Client, error) {
	n, err := c.ActiveNetwork()
	if err != nil {
		return nil, err
	}
	switch n.Transport {
	case TransportLCD:
		return client.NewLCDClient(n.LCD, logger), nil
	case TransportTendermint:
		return client.NewTendermintClient(client.NewHTTPConnection(n.RPC), logger), nil
	default:
		return nil, errors.Wrapf(errors.ErrConfiguration, "unknown transport %q", n.Transport)
	}
}

// ShuffleOutput returns the side file the shuffled recipients of a level
// are written to.
func (c *Config) ShuffleOutput(level uint8) string {
	if c.Shuffle.Output != "" {
		return c.Shuffle.Output
	}
	return strings.TrimSuffix(mint.RecipientsPath(c.DataDir, level), ".txt") + "_shuffled.txt"
}
