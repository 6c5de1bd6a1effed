package broadcast

import (
	"context"
	"fmt"

	"github.com/iov-one/nftdrop/client"
	"github.com/iov-one/nftdrop/coin"
	"github.com/iov-one/nftdrop/crypto"
	"github.com/iov-one/nftdrop/errors"
	"github.com/iov-one/nftdrop/tx"
	"github.com/iov-one/nftdrop/wasm"
	"github.com/tendermint/tendermint/libs/log"
)

const (
	// DefaultGasPrice is paid for every unit of gas.
	DefaultGasPrice = "0.15uusd"

	// DefaultGasAdjustment scales the simulated gas to leave a margin
	// for state changes between simulation and execution.
	DefaultGasAdjustment = 1.4
)

// GasConfig decides the gas limit and the fee of a transaction.
type GasConfig struct {
	// Price is the fee paid per unit of gas.
	Price coin.DecCoin
	// Adjustment multiplies the simulated gas.
	Adjustment float64
	// Limit, when not zero, is used instead of simulating.
	Limit uint64
}

// DefaultGasConfig returns the default gas price and adjustment.
func DefaultGasConfig() GasConfig {
	return GasConfig{
		Price:      coin.MustParseDecCoin(DefaultGasPrice),
		Adjustment: DefaultGasAdjustment,
	}
}

func (g GasConfig) Validate() error {
	var errs error
	if g.Price.Amount == nil || g.Price.Amount.Sign() < 0 {
		errs = errors.AppendField(errs, "Price", errors.ErrInput.New("price required"))
	}
	if g.Limit == 0 && g.Adjustment < 1 {
		errs = errors.AppendField(errs, "Adjustment", errors.ErrInput.Newf("%v is less than 1", g.Adjustment))
	}
	return errs
}

// Config holds everything a Broadcaster needs.
type Config struct {
	Client client.Client
	// Key signs all transactions.
	Key crypto.PrivateKey
	// Address is the bech32 address of the Key account.
	Address string
	// ChainID every signature is bound to.
	ChainID   string
	Gas       GasConfig
	Memo      string
	Confirmer Confirmer
	Logger    log.Logger
}

// Broadcaster signs, confirms and submits transactions of a single account.
type Broadcaster struct {
	client    client.Client
	key       crypto.PrivateKey
	address   string
	chainID   string
	gas       GasConfig
	memo      string
	confirmer Confirmer
	logger    log.Logger
}

// New returns a broadcaster. Missing gas configuration falls back to the
// defaults.
func New(c Config) (*Broadcaster, error) {
	var errs error
	if c.Client == nil {
		errs = errors.AppendField(errs, "Client", errors.ErrEmpty)
	}
	if len(c.Key) == 0 {
		errs = errors.AppendField(errs, "Key", errors.ErrEmpty)
	}
	if c.Address == "" {
		errs = errors.AppendField(errs, "Address", errors.ErrEmpty)
	}
	if !tx.IsValidChainID(c.ChainID) {
		errs = errors.AppendField(errs, "ChainID", errors.ErrInput.Newf("invalid chain id %q", c.ChainID))
	}
	if c.Confirmer == nil {
		errs = errors.AppendField(errs, "Confirmer", errors.ErrEmpty)
	}
	if c.Gas.Price.Amount == nil {
		def := DefaultGasConfig()
		c.Gas.Price = def.Price
		if c.Gas.Adjustment == 0 {
			c.Gas.Adjustment = def.Adjustment
		}
	}
	errs = errors.AppendField(errs, "Gas", c.Gas.Validate())
	if errs != nil {
		return nil, errors.Wrap(errors.Append(errors.ErrConfiguration, errs), "broadcaster")
	}
	if c.Logger == nil {
		c.Logger = log.NewNopLogger()
	}
	return &Broadcaster{
		client:    c.Client,
		key:       c.Key,
		address:   c.Address,
		chainID:   c.ChainID,
		gas:       c.Gas,
		memo:      c.Memo,
		confirmer: c.Confirmer,
		logger:    c.Logger,
	}, nil
}

// Address returns the account that signs all transactions.
func (b *Broadcaster) Address() string {
	return b.address
}

// Outcome is the result of a single submission.
type Outcome struct {
	// Sequence the transaction was signed with. Zero if the submission
	// failed before it was known.
	Sequence uint64
	// Hash identifies the signed transaction. It is set even when the
	// broadcast failed, so that the transaction can be looked up.
	Hash string
	// Height and Logs are set if the ledger executed the transaction.
	Height int64
	Logs   client.TxLogs
	// RawLog is the ledger log, also set for a rejected transaction.
	RawLog string
	// Err is nil for a committed transaction.
	Err error
}

// OK returns true if the transaction was committed successfully.
func (o Outcome) OK() bool {
	return o.Err == nil
}

// SubmitOption alters a single submission.
type SubmitOption func(*submitOptions)

type submitOptions struct {
	sequence    uint64
	hasSequence bool
}

// WithSequence signs the transaction with the given sequence instead of the
// one currently stored by the ledger.
func WithSequence(seq uint64) SubmitOption {
	return func(o *submitOptions) {
		o.sequence = seq
		o.hasSequence = true
	}
}

// SequenceOption returns the sequence set by WithSequence among opts.
func SequenceOption(opts ...SubmitOption) (uint64, bool) {
	var o submitOptions
	for _, fn := range opts {
		fn(&o)
	}
	return o.sequence, o.hasSequence
}

// Submit builds a transaction from msgs, asks for confirmation and
// broadcasts it. It never panics and never returns without an Outcome.
func (b *Broadcaster) Submit(ctx context.Context, msgs []wasm.Msg, opts ...SubmitOption) (out Outcome) {
	var panicErr error
	defer func() {
		if panicErr != nil {
			b.logger.Error("submission panicked", "err", panicErr)
			out = Outcome{Sequence: out.Sequence, Err: panicErr}
		}
	}()
	defer errors.Recover(&panicErr)

	if len(msgs) == 0 {
		return Outcome{Err: errors.Wrap(errors.ErrEmpty, "no messages")}
	}

	seq, ok := SequenceOption(opts...)
	if !ok {
		s, err := b.client.Sequence(ctx, b.address)
		if err != nil {
			return Outcome{Err: errors.Wrap(errors.Append(errors.ErrSequence, err), "query sequence")}
		}
		seq = s
	}
	out.Sequence = seq

	t, err := b.build(ctx, msgs, seq)
	if err != nil {
		out.Err = err
		return out
	}
	raw, err := tx.Encode(t)
	if err != nil {
		out.Err = err
		return out
	}
	out.Hash = tx.Hash(raw)

	summary, err := b.summary(t, seq)
	if err != nil {
		out.Err = err
		return out
	}
	ok, err = b.confirmer.Confirm(ctx, summary)
	if err != nil {
		out.Err = errors.Wrap(errors.Append(errors.ErrUserAbort, err), "confirmation")
		return out
	}
	if !ok {
		b.logger.Info("transaction declined", "sequence", seq)
		out.Err = errors.Wrapf(errors.ErrUserAbort, "sequence %d", seq)
		return out
	}

	res, err := b.client.Broadcast(ctx, raw)
	if err != nil {
		b.logger.Error("broadcast failed", "sequence", seq, "hash", out.Hash, "err", err)
		if !errors.ErrNetwork.Is(err) {
			err = errors.Append(errors.ErrNetwork, err)
		}
		out.Err = errors.Wrapf(err, "broadcast sequence %d", seq)
		return out
	}
	if res.Hash != "" {
		out.Hash = res.Hash
	}
	out.Height = res.Height
	out.Logs = res.Logs
	out.RawLog = res.RawLog
	if err := res.Err(); err != nil {
		b.logger.Error("transaction failed", "sequence", seq, "hash", res.Hash, "code", res.Code, "log", res.RawLog)
		out.Err = errors.Wrapf(err, "sequence %d", seq)
		return out
	}
	b.logger.Info("transaction committed", "sequence", seq, "hash", res.Hash, "height", res.Height)
	return out
}

// build returns a signed transaction with the fee decided by the gas
// configuration.
func (b *Broadcaster) build(ctx context.Context, msgs []wasm.Msg, seq uint64) (*tx.Tx, error) {
	gas := b.gas.Limit
	if gas == 0 {
		used, err := b.simulate(ctx, msgs, seq)
		if err != nil {
			return nil, err
		}
		gas = coin.MulCeil(used, b.gas.Adjustment)
		b.logger.Debug("gas estimated", "simulated", used, "limit", gas)
	}
	fee := tx.Fee{
		Amount: coin.Coins{b.gas.Price.MulCeil(gas)},
		Gas:    gas,
	}
	t := tx.New(msgs, fee, b.memo)
	if err := t.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid transaction")
	}
	if err := t.Sign(b.key, b.chainID, seq); err != nil {
		return nil, err
	}
	return t, nil
}

func (b *Broadcaster) simulate(ctx context.Context, msgs []wasm.Msg, seq uint64) (uint64, error) {
	t := tx.New(msgs, tx.Fee{}, b.memo)
	if err := t.Sign(b.key, b.chainID, seq); err != nil {
		return 0, err
	}
	raw, err := tx.Encode(t)
	if err != nil {
		return 0, err
	}
	gas, err := b.client.Simulate(ctx, raw)
	if err != nil {
		return 0, errors.Wrap(err, "simulate")
	}
	return gas, nil
}

func (b *Broadcaster) summary(t *tx.Tx, seq uint64) (string, error) {
	rendered, err := tx.Render(t)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s\n\nsigner %s, chain %s, sequence %d, %d messages, fee %s, gas %d",
		rendered, b.address, b.chainID, seq, len(t.Msgs), t.Fee.Amount, t.Fee.Gas), nil
}
