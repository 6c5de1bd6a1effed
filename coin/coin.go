package coin

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"

	"github.com/iov-one/nftdrop/errors"
)

// IsDenom is the RegExp to ensure valid denominations, for example "uusd"
// or "uluna".
var IsDenom = regexp.MustCompile(`^[a-z][a-z0-9/]{2,127}$`).MatchString

// Coin is an amount of a single denomination expressed in its smallest
// unit.
type Coin struct {
	Denom  string `json:"denom"`
	Amount uint64 `json:"amount,string"`
}

// NewCoin creates a new coin object
func NewCoin(amount uint64, denom string) Coin {
	return Coin{Denom: denom, Amount: amount}
}

// Validate ensures that the denomination is well formed.
func (c Coin) Validate() error {
	if !IsDenom(c.Denom) {
		return errors.ErrInput.Newf("invalid denomination %q", c.Denom)
	}
	return nil
}

// String returns the compact form, for example "1500uusd". The result can
// be parsed back with ParseCoin.
func (c Coin) String() string {
	return strconv.FormatUint(c.Amount, 10) + c.Denom
}

// ParseCoin parses the compact coin representation:
//   "<amount><denom>"
func ParseCoin(raw string) (Coin, error) {
	m := coinFormatRx.FindStringSubmatch(raw)
	if m == nil {
		return Coin{}, errors.ErrInput.Newf("invalid coin format %q", raw)
	}
	amount, err := strconv.ParseUint(m[1], 10, 64)
	if err != nil {
		return Coin{}, errors.Wrapf(errors.ErrInput, "invalid amount: %s", err)
	}
	c := Coin{Denom: m[2], Amount: amount}
	return c, c.Validate()
}

var coinFormatRx = regexp.MustCompile(`^\s*(\d+)\s*([a-z][a-z0-9/]*)\s*$`)

// MarshalJSON writes the ledger form, with the amount as a decimal string.
func (c Coin) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Denom  string `json:"denom"`
		Amount string `json:"amount"`
	}{
		Denom:  c.Denom,
		Amount: strconv.FormatUint(c.Amount, 10),
	})
}

func (c *Coin) UnmarshalJSON(raw []byte) error {
	// Prioritize the compact format that is a string "<amount><denom>".
	var compact string
	if err := json.Unmarshal(raw, &compact); err == nil {
		parsed, err := ParseCoin(compact)
		if err != nil {
			return err
		}
		*c = parsed
		return nil
	}

	// Fallback into the default unmarhaling. Because UnmarshalJSON method
	// is provided, we can no longer use Coin type for this.
	var coin struct {
		Denom  string `json:"denom"`
		Amount uint64 `json:"amount,string"`
	}
	if err := json.Unmarshal(raw, &coin); err != nil {
		return errors.Wrap(errors.ErrEncoding, err.Error())
	}
	c.Denom = coin.Denom
	c.Amount = coin.Amount
	return nil
}

// Coins is a list of coins as used by a transaction fee.
type Coins []Coin

// Validate ensures every coin is valid and no denomination repeats.
func (cs Coins) Validate() error {
	seen := make(map[string]struct{}, len(cs))
	for i, c := range cs {
		if err := c.Validate(); err != nil {
			return errors.Wrapf(err, "coin %d", i)
		}
		if _, ok := seen[c.Denom]; ok {
			return errors.ErrInput.Newf("duplicated denomination %q", c.Denom)
		}
		seen[c.Denom] = struct{}{}
	}
	return nil
}

func (cs Coins) String() string {
	if len(cs) == 0 {
		return ""
	}
	s := cs[0].String()
	for _, c := range cs[1:] {
		s = fmt.Sprintf("%s,%s", s, c)
	}
	return s
}
