package mint

import (
	"context"
	"fmt"
	"io"

	"github.com/iov-one/nftdrop/batch"
	"github.com/iov-one/nftdrop/broadcast"
	"github.com/iov-one/nftdrop/client"
	"github.com/iov-one/nftdrop/errors"
	"github.com/iov-one/nftdrop/wasm"
	"github.com/schollz/progressbar/v3"
	"github.com/tendermint/tendermint/libs/log"
)

const (
	// DefaultOperationsPerMessage is the number of recipients a single
	// mint message carries.
	DefaultOperationsPerMessage = 50

	// DefaultMessagesPerTransaction is the number of mint messages a
	// single transaction carries.
	DefaultMessagesPerTransaction = 10
)

// Submitter is implemented by broadcast.Broadcaster.
type Submitter interface {
	Submit(ctx context.Context, msgs []wasm.Msg, opts ...broadcast.SubmitOption) broadcast.Outcome
	Address() string
}

var _ Submitter = (*broadcast.Broadcaster)(nil)

// RunConfig describes a mint run.
type RunConfig struct {
	Submitter Submitter
	// Ledger is queried once for the sequence of the Submitter account.
	Ledger     client.SequenceQuerier
	Contract   string
	Level      uint8
	Recipients []string

	OperationsPerMessage   int
	MessagesPerTransaction int

	// AbortOnFailure stops the run at the first failed transaction. By
	// default every transaction is attempted and failures are reported.
	AbortOnFailure bool

	// Progress, when set, receives a progress bar of submitted
	// transactions.
	Progress io.Writer

	Logger log.Logger
}

func (c RunConfig) Validate() error {
	var errs error
	if c.Submitter == nil {
		errs = errors.AppendField(errs, "Submitter", errors.ErrEmpty)
	}
	if c.Ledger == nil {
		errs = errors.AppendField(errs, "Ledger", errors.ErrEmpty)
	}
	if c.Contract == "" {
		errs = errors.AppendField(errs, "Contract", errors.ErrEmpty)
	}
	if c.Level == 0 {
		errs = errors.AppendField(errs, "Level", errors.ErrInput.New("levels start at 1"))
	}
	if c.OperationsPerMessage < 1 {
		errs = errors.AppendField(errs, "OperationsPerMessage", errors.ErrInput.Newf("%d", c.OperationsPerMessage))
	}
	if c.MessagesPerTransaction < 1 {
		errs = errors.AppendField(errs, "MessagesPerTransaction", errors.ErrInput.Newf("%d", c.MessagesPerTransaction))
	}
	return errs
}

// Run mints a token to every recipient.
//
// An error is returned only if the run could not start. Failed transactions
// are reported in the Report, see Report.Err.
func Run(ctx context.Context, c RunConfig) (*Report, error) {
	if err := c.Validate(); err != nil {
		return nil, errors.Wrap(errors.Append(errors.ErrConfiguration, err), "mint run")
	}
	logger := c.Logger
	if logger == nil {
		logger = log.NewNopLogger()
	}
	logger = logger.With("flow", "mint", "level", c.Level)

	plan := batch.Plan(c.Recipients, c.OperationsPerMessage, c.MessagesPerTransaction)
	report := &Report{Stats: batch.StatsOf(plan), plan: plan}
	logger.Info("mint planned", "plan", report.Stats.String())
	if len(plan) == 0 {
		return report, nil
	}

	// All messages are built before the first submission.
	msgs, err := NewMessages(c.Submitter.Address(), c.Contract, c.Level, c.Recipients, c.OperationsPerMessage)
	if err != nil {
		return nil, err
	}
	txs := batch.Chunk(msgs, c.MessagesPerTransaction)

	seqs, err := client.NewSequencer(ctx, c.Ledger, c.Submitter.Address())
	if err != nil {
		return nil, err
	}
	logger.Info("sequence fetched", "account", seqs.Address(), "start", seqs.Start())

	var bar *progressbar.ProgressBar
	if c.Progress != nil {
		bar = progressbar.NewOptions(len(plan),
			progressbar.OptionSetWriter(c.Progress),
			progressbar.OptionSetDescription(fmt.Sprintf("minting level %d", c.Level)),
			progressbar.OptionShowCount(),
		)
		defer bar.Finish()
	}

	for i, groups := range plan {
		if err := ctx.Err(); err != nil {
			logger.Error("run cancelled", "remaining", len(plan)-i)
			break
		}

		seq := seqs.Allocate(i)
		tr := TxReport{Index: i, Sequence: seq, Messages: len(groups)}
		for _, owners := range groups {
			tr.Operations += len(owners)
		}

		tr.Outcome = c.Submitter.Submit(ctx, txs[i], broadcast.WithSequence(seq))
		report.Transactions = append(report.Transactions, tr)
		if bar != nil {
			bar.Add(1)
		}

		if tr.Outcome.OK() {
			logger.Info("transaction minted", "tx", i+1, "of", len(plan), "sequence", seq, "hash", tr.Outcome.Hash)
			continue
		}
		logger.Error("transaction failed", "tx", i+1, "of", len(plan), "sequence", seq, "err", tr.Outcome.Err)
		if c.AbortOnFailure {
			break
		}
	}
	return report, nil
}

// TxReport is the result of a single transaction of a run.
type TxReport struct {
	Index      int
	Sequence   uint64
	Messages   int
	Operations int
	Outcome    broadcast.Outcome
}

// Report describes a finished run.
type Report struct {
	// Stats of the whole plan, including transactions that were not
	// attempted.
	Stats batch.Stats
	// Transactions attempted, in submission order.
	Transactions []TxReport

	plan [][][]string
}

// Succeeded returns the number of committed transactions.
func (r *Report) Succeeded() int {
	var n int
	for _, t := range r.Transactions {
		if t.Outcome.OK() {
			n++
		}
	}
	return n
}

// Failed returns the number of attempted but not committed transactions.
func (r *Report) Failed() int {
	return len(r.Transactions) - r.Succeeded()
}

// NotAttempted returns the number of planned transactions that were never
// submitted.
func (r *Report) NotAttempted() int {
	return r.Stats.Transactions - len(r.Transactions)
}

// Minted returns the number of recipients in committed transactions.
func (r *Report) Minted() int {
	var n int
	for _, t := range r.Transactions {
		if t.Outcome.OK() {
			n += t.Operations
		}
	}
	return n
}

// Unminted returns, in run order, the recipients of failed and
// not attempted transactions. Minting them in a new run completes the level.
func (r *Report) Unminted() []string {
	var res []string
	for i := range r.plan {
		if i < len(r.Transactions) && r.Transactions[i].Outcome.OK() {
			continue
		}
		res = append(res, batch.Flatten(r.plan[i:i+1])...)
	}
	return res
}

// Err returns all transaction failures combined, or nil if every planned
// transaction was committed.
func (r *Report) Err() error {
	var errs error
	for _, t := range r.Transactions {
		if t.Outcome.Err != nil {
			errs = errors.Append(errs, errors.Wrapf(t.Outcome.Err, "transaction %d", t.Index+1))
		}
	}
	if n := r.NotAttempted(); n > 0 {
		errs = errors.Append(errs, errors.ErrInvalidState.Newf("%d transactions not attempted", n))
	}
	return errs
}

// Write prints a line per transaction followed by a summary.
func (r *Report) Write(w io.Writer) {
	total := r.Stats.Transactions
	for _, t := range r.Transactions {
		if t.Outcome.OK() {
			fmt.Fprintf(w, "tx %d/%d sequence %d: success, %d recipients, hash %s\n",
				t.Index+1, total, t.Sequence, t.Operations, t.Outcome.Hash)
			continue
		}
		fmt.Fprintf(w, "tx %d/%d sequence %d: failed, %d recipients: %s\n",
			t.Index+1, total, t.Sequence, t.Operations, t.Outcome.Err)
		if raw := errors.RawLog(t.Outcome.Err); raw != "" {
			fmt.Fprintf(w, "\traw log: %s\n", raw)
		}
	}
	fmt.Fprintf(w, "%d succeeded, %d failed, %d not attempted; %d of %d recipients minted\n",
		r.Succeeded(), r.Failed(), r.NotAttempted(), r.Minted(), r.Stats.Operations)
}
