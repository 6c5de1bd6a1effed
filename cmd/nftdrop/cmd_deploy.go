package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"io/ioutil"
	"strings"

	"github.com/iov-one/nftdrop/deploy"
	"github.com/iov-one/nftdrop/errors"
)

const defaultWasmPath = "../contract/artifacts/lockdrop_nft.wasm"

func cmdDeploy(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Upload the token contract code and instantiate the contract.

Each of the two transactions is displayed and must be confirmed before it is
broadcast, unless -yes is given. The upload is skipped when -code-id is
given. Any failure stops the deployment.

On success the code id and the contract address are written out.
`)
		fl.PrintDefaults()
	}
	s := newSettings(fl)
	s.gasFlags()
	var (
		wasmFl = fl.String("wasm", env("NFTDROP_WASM", defaultWasmPath),
			"Path to the contract bytecode. You can use NFTDROP_WASM environment variable to set it.")
		codeIDFl = fl.Uint64("code-id", 0,
			"Identifier of already uploaded code. When given, no code is uploaded.")
		adminFl = fl.String("admin", "",
			"Address allowed to migrate the contract. Required.")
		msgFl = fl.String("msg", "",
			"Instantiate message as JSON. Prefix with @ to read it from a file, for example @init.json. Required.")
		yesFl = fl.Bool("yes", false,
			"Broadcast without asking for confirmation.")
	)
	fl.Parse(args)

	if *adminFl == "" {
		return errors.Wrap(errUsage, "-admin is required")
	}
	if *msgFl == "" {
		return errors.Wrap(errUsage, "-msg is required")
	}
	initMsg, err := readJSONArg(*msgFl)
	if err != nil {
		return err
	}

	params := deploy.Params{
		CodeID:  *codeIDFl,
		Admin:   *adminFl,
		InitMsg: initMsg,
	}
	if params.CodeID == 0 {
		code, err := ioutil.ReadFile(*wasmFl)
		if err != nil {
			return errors.Wrapf(errors.ErrConfiguration, "cannot read contract code: %s", err)
		}
		params.Code = code
	}
	if err := params.Validate(); err != nil {
		return errors.Wrap(errors.Append(errors.ErrConfiguration, err), "deployment")
	}

	ctx, cancel := commandContext()
	defer cancel()

	sess, err := openSession(ctx, s, input, output, *yesFl)
	if err != nil {
		return err
	}
	res, err := deploy.New(sess.broadcaster, sess.logger).Run(ctx, params)
	// Uploaded code is reported even if the instantiation failed, so
	// that it can be reused with -code-id.
	if res != nil {
		fmt.Fprintf(output, "code id: %d\n", res.CodeID)
	}
	if err != nil {
		return errors.Wrap(err, "deployment failed")
	}
	fmt.Fprintf(output, "contract: %s\n", res.Contract)
	return nil
}

// readJSONArg returns the JSON given as the value or, when prefixed with
// @, the content of the named file.
func readJSONArg(arg string) (json.RawMessage, error) {
	raw := []byte(arg)
	if strings.HasPrefix(arg, "@") {
		b, err := ioutil.ReadFile(arg[1:])
		if err != nil {
			return nil, errors.Wrapf(errors.ErrConfiguration, "cannot read %s: %s", arg[1:], err)
		}
		raw = b
	}
	if !json.Valid(raw) {
		return nil, errors.Wrap(errUsage, "message is not valid JSON")
	}
	return json.RawMessage(raw), nil
}
