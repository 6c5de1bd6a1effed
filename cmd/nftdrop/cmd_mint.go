package main

import (
	"flag"
	"fmt"
	"io"

	"github.com/iov-one/nftdrop/batch"
	"github.com/iov-one/nftdrop/config"
	"github.com/iov-one/nftdrop/errors"
	"github.com/iov-one/nftdrop/mint"
	"github.com/iov-one/nftdrop/wasm"
	"github.com/tendermint/tendermint/libs/log"
)

func cmdMint(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Mint a token of the given level to every recipient of the owners file.

Recipients are read one per line. They are batched into mint messages and the
messages into transactions, which are submitted one by one with consecutive
sequence numbers. Each transaction is displayed and must be confirmed before
it is broadcast, unless -yes is given.

By default every transaction is attempted and all failures are reported at
the end. Use -abort-on-failure to stop at the first failure. Recipients of
failed and not attempted transactions are written to a file next to the
recipients file, with the _unminted suffix, that can be given to -owners of
the next run.
`)
		fl.PrintDefaults()
	}
	s := newSettings(fl)
	s.gasFlags()
	r := recipientFlags(s)
	s.bindBool("abort-on-failure", "abort_on_failure", "Stop at the first failed transaction.")
	var (
		contractFl = fl.String("contract", env("NFTDROP_CONTRACT", ""),
			"Address of the token contract. You can use NFTDROP_CONTRACT environment variable to set it. Required.")
		yesFl = fl.Bool("yes", false,
			"Broadcast without asking for confirmation.")
		progressFl = fl.Bool("progress", true,
			"Display a progress bar when broadcasting without confirmation.")
		forceFl = fl.Bool("force", false,
			"Overwrite the shuffled recipients file if it exists.")
	)
	fl.Parse(args)

	if *contractFl == "" {
		return errors.Wrap(errUsage, "-contract is required")
	}
	level, err := r.level()
	if err != nil {
		return err
	}
	cfg, err := s.load()
	if err != nil {
		return err
	}
	logger, err := s.logger()
	if err != nil {
		return err
	}
	recipients, err := r.load(cfg, level, logger, *forceFl)
	if err != nil {
		return err
	}

	ctx, cancel := commandContext()
	defer cancel()

	sess, err := openSession(ctx, s, input, output, *yesFl)
	if err != nil {
		return err
	}
	rc := mint.RunConfig{
		Submitter:              sess.broadcaster,
		Ledger:                 sess.client,
		Contract:               *contractFl,
		Level:                  level,
		Recipients:             recipients,
		OperationsPerMessage:   cfg.Batch.MaxOperationsPerMessage,
		MessagesPerTransaction: cfg.Batch.MaxMessagesPerTransaction,
		AbortOnFailure:         cfg.AbortOnFailure,
		Logger:                 sess.logger,
	}
	if *yesFl && *progressFl {
		rc.Progress = stderr
	}
	report, err := mint.Run(ctx, rc)
	if err != nil {
		return err
	}
	report.Write(output)
	if err := report.Err(); err != nil {
		if left := report.Unminted(); len(left) > 0 {
			path := mint.UnmintedPath(r.path(cfg, level))
			// Always replaced, it describes the latest run only.
			if werr := mint.WriteRecipientsFile(path, left, true); werr != nil {
				sess.logger.Error("cannot write unminted recipients", "file", path, "err", werr)
			} else {
				fmt.Fprintf(output, "unminted recipients: %s\n", path)
			}
		}
		return errors.Wrap(err, "mint incomplete")
	}
	return nil
}

func cmdPlan(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Print how the recipients of a level would be batched into messages and
transactions, without connecting to the network.
`)
		fl.PrintDefaults()
	}
	s := newSettings(fl)
	r := recipientFlags(s)
	fl.Parse(args)

	level, err := r.level()
	if err != nil {
		return err
	}
	cfg, err := s.load()
	if err != nil {
		return err
	}
	logger, err := s.logger()
	if err != nil {
		return err
	}
	// Shuffling is only previewed, the order is not written out.
	recipients, err := r.read(cfg, level)
	if err != nil {
		return err
	}
	if cfg.Shuffle.Enabled {
		recipients = mint.Shuffle(recipients, cfg.Shuffle.Seed)
		logger.Debug("recipients shuffled", "seed", cfg.Shuffle.Seed)
	}

	plan := batch.Plan(recipients, cfg.Batch.MaxOperationsPerMessage, cfg.Batch.MaxMessagesPerTransaction)
	for i, msgs := range plan {
		var ops int
		for _, m := range msgs {
			ops += len(m)
		}
		first := msgs[0][0]
		last := msgs[len(msgs)-1][len(msgs[len(msgs)-1])-1]
		fmt.Fprintf(output, "tx %d: %d messages, %d recipients, %s .. %s\n", i+1, len(msgs), ops, first, last)
	}
	fmt.Fprintln(output, batch.StatsOf(plan))
	return nil
}

func cmdShuffle(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Shuffle the recipients of a level and write them to a new file.

The same seed always produces the same order. The path of the written file is
printed out.
`)
		fl.PrintDefaults()
	}
	s := newSettings(fl)
	r := recipientFlags(s)
	forceFl := fl.Bool("force", false, "Overwrite the output file if it exists.")
	fl.Parse(args)

	level, err := r.level()
	if err != nil {
		return err
	}
	cfg, err := s.load()
	if err != nil {
		return err
	}
	logger, err := s.logger()
	if err != nil {
		return err
	}
	cfg.Shuffle.Enabled = true
	if _, err := r.load(cfg, level, logger, *forceFl); err != nil {
		return err
	}
	fmt.Fprintln(output, cfg.ShuffleOutput(level))
	return nil
}

// recipientSource declares the flags selecting the recipients of a run.
type recipientSource struct {
	levelFl  *uint
	ownersFl *string
}

func recipientFlags(s *settings) *recipientSource {
	r := &recipientSource{
		levelFl: s.fl.Uint("level", 0,
			fmt.Sprintf("Token level, 1 to %d. Required.", wasm.MaxLevel)),
		ownersFl: s.fl.String("owners", "",
			"Path to the recipients file. Defaults to level_<level>_owners.txt in the data directory."),
	}
	s.bindString("data-dir", "data_dir", "Directory of the recipients files.")
	s.bindInt("max-ops", "batch.max_operations_per_message", "Maximum number of recipients in a single message.")
	s.bindInt("max-msgs", "batch.max_messages_per_transaction", "Maximum number of messages in a single transaction.")
	s.bindBool("shuffle", "shuffle.enabled", "Shuffle the recipients before minting.")
	s.bindInt64("seed", "shuffle.seed", "Seed of the shuffle.")
	s.bindString("shuffle-out", "shuffle.output", "Path the shuffled recipients are written to. Defaults to level_<level>_owners_shuffled.txt in the data directory.")
	return r
}

func (r *recipientSource) level() (uint8, error) {
	if *r.levelFl < 1 || *r.levelFl > wasm.MaxLevel {
		return 0, errors.Wrapf(errUsage, "-level must be between 1 and %d", wasm.MaxLevel)
	}
	return uint8(*r.levelFl), nil
}

func (r *recipientSource) path(cfg *config.Config, level uint8) string {
	if *r.ownersFl != "" {
		return *r.ownersFl
	}
	return mint.RecipientsPath(cfg.DataDir, level)
}

func (r *recipientSource) read(cfg *config.Config, level uint8) ([]string, error) {
	res, err := mint.ReadRecipientsFile(r.path(cfg, level))
	if err != nil {
		return nil, errors.Wrap(err, "cannot read recipients")
	}
	return res, nil
}

// load reads the recipients and, if configured, shuffles them and writes
// the shuffled order out.
func (r *recipientSource) load(cfg *config.Config, level uint8, logger log.Logger, force bool) ([]string, error) {
	res, err := r.read(cfg, level)
	if err != nil {
		return nil, err
	}
	if !cfg.Shuffle.Enabled {
		return res, nil
	}
	res = mint.Shuffle(res, cfg.Shuffle.Seed)
	out := cfg.ShuffleOutput(level)
	if err := mint.WriteRecipientsFile(out, res, force); err != nil {
		return nil, errors.Wrap(err, "cannot write shuffled recipients")
	}
	logger.Info("recipients shuffled", "seed", cfg.Shuffle.Seed, "file", out)
	return res, nil
}
