package mint

import (
	"github.com/iov-one/nftdrop/batch"
	"github.com/iov-one/nftdrop/errors"
	"github.com/iov-one/nftdrop/wasm"
)

// NewMessages returns mint messages for all recipients, in order, each
// carrying at most perMessage recipients.
func NewMessages(sender, contract string, level uint8, recipients []string, perMessage int) ([]wasm.Msg, error) {
	if perMessage < 1 {
		return nil, errors.ErrConfiguration.Newf("operations per message: %d", perMessage)
	}
	groups := batch.Chunk(recipients, perMessage)
	msgs := make([]wasm.Msg, 0, len(groups))
	for i, owners := range groups {
		m, err := wasm.NewMintMsg(sender, contract, level, owners)
		if err != nil {
			return nil, errors.Wrapf(err, "message %d", i)
		}
		msgs = append(msgs, m)
	}
	return msgs, nil
}
