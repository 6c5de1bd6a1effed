package coin

import (
	"math/big"
	"regexp"
	"strconv"

	"github.com/iov-one/nftdrop/errors"
)

// DecCoin is a coin with a decimal amount. It is used to express a gas price,
// for example "0.15uusd" per unit of gas.
type DecCoin struct {
	Denom  string
	Amount *big.Rat
}

var decCoinFormatRx = regexp.MustCompile(`^\s*(\d+(?:\.\d+)?)\s*([a-z][a-z0-9/]*)\s*$`)

// ParseDecCoin parses a decimal coin representation:
//   "<amount>[.<fraction>]<denom>"
func ParseDecCoin(raw string) (DecCoin, error) {
	m := decCoinFormatRx.FindStringSubmatch(raw)
	if m == nil {
		return DecCoin{}, errors.ErrInput.Newf("invalid decimal coin format %q", raw)
	}
	amount, ok := new(big.Rat).SetString(m[1])
	if !ok {
		return DecCoin{}, errors.ErrInput.Newf("invalid decimal amount %q", m[1])
	}
	d := DecCoin{Denom: m[2], Amount: amount}
	if !IsDenom(d.Denom) {
		return DecCoin{}, errors.ErrInput.Newf("invalid denomination %q", d.Denom)
	}
	return d, nil
}

// MustParseDecCoin is like ParseDecCoin but panics on error. Use it only
// for constants.
func MustParseDecCoin(raw string) DecCoin {
	d, err := ParseDecCoin(raw)
	if err != nil {
		panic(err)
	}
	return d
}

// MulCeil returns the amount multiplied by n and rounded up to a whole
// coin.
func (d DecCoin) MulCeil(n uint64) Coin {
	if d.Amount == nil {
		return Coin{Denom: d.Denom}
	}
	total := new(big.Rat).Mul(d.Amount, new(big.Rat).SetInt(new(big.Int).SetUint64(n)))
	return Coin{Denom: d.Denom, Amount: ceilRat(total)}
}

func (d DecCoin) String() string {
	if d.Amount == nil {
		return "0" + d.Denom
	}
	return d.Amount.FloatString(precision(d.Amount)) + d.Denom
}

// Set implements flag.Value interface.
func (d *DecCoin) Set(raw string) error {
	val, err := ParseDecCoin(raw)
	if err != nil {
		return err
	}
	*d = val
	return nil
}

// Get implements flag.Getter interface. It returns the compact string form
// that ParseDecCoin accepts.
func (d *DecCoin) Get() interface{} {
	return d.String()
}

// MulCeil multiplies n by factor, rounding the result up. It is used to
// scale a simulated gas amount.
func MulCeil(n uint64, factor float64) uint64 {
	// The shortest decimal form keeps 1.1 from becoming 1.1000000000000000888.
	f, ok := new(big.Rat).SetString(strconv.FormatFloat(factor, 'f', -1, 64))
	if !ok {
		return n
	}
	total := new(big.Rat).Mul(f, new(big.Rat).SetInt(new(big.Int).SetUint64(n)))
	return ceilRat(total)
}

func ceilRat(r *big.Rat) uint64 {
	if r.Sign() <= 0 {
		return 0
	}
	q, m := new(big.Int).QuoRem(r.Num(), r.Denom(), new(big.Int))
	if m.Sign() != 0 {
		q.Add(q, big.NewInt(1))
	}
	return q.Uint64()
}

// precision returns the number of decimal places needed to render r
// exactly, limited to 18.
func precision(r *big.Rat) int {
	denom := new(big.Int).Set(r.Denom())
	ten := big.NewInt(10)
	for p := 0; p < 18; p++ {
		if new(big.Int).Mod(new(big.Int).Exp(ten, big.NewInt(int64(p)), nil), denom).Sign() == 0 {
			return p
		}
	}
	return 18
}
