package coin

import (
	"encoding/json"
	"testing"

	"github.com/iov-one/nftdrop/droptest/assert"
	"github.com/iov-one/nftdrop/errors"
)

func TestParseCoin(t *testing.T) {
	cases := map[string]struct {
		raw     string
		want    Coin
		wantErr *errors.Error
	}{
		"simple": {
			raw:  "1500uusd",
			want: NewCoin(1500, "uusd"),
		},
		"zero": {
			raw:  "0uluna",
			want: NewCoin(0, "uluna"),
		},
		"spaces are allowed around": {
			raw:  " 42 uusd ",
			want: NewCoin(42, "uusd"),
		},
		"missing denomination": {
			raw:     "1500",
			wantErr: errors.ErrInput,
		},
		"decimal amount": {
			raw:     "1.5uusd",
			wantErr: errors.ErrInput,
		},
		"negative amount": {
			raw:     "-1uusd",
			wantErr: errors.ErrInput,
		},
		"too short denomination": {
			raw:     "1u",
			wantErr: errors.ErrInput,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			got, err := ParseCoin(tc.raw)
			assert.IsErr(t, tc.wantErr, err)
			if tc.wantErr == nil {
				assert.Equal(t, tc.want, got)
				assert.Equal(t, got.String(), NewCoin(tc.want.Amount, tc.want.Denom).String())
			}
		})
	}
}


func TestCoinJSON(t *testing.T) {
	var c Coin
	assert.IsErr(t, nil, json.Unmarshal([]byte(`"77uusd"`), &c))
	assert.Equal(t, NewCoin(77, "uusd"), c)

	assert.IsErr(t, nil, json.Unmarshal([]byte(`{"denom":"uluna","amount":"12"}`), &c))
	assert.Equal(t, NewCoin(12, "uluna"), c)

	raw, err := json.Marshal(NewCoin(9, "uusd"))
	assert.IsErr(t, nil, err)
	assert.Equal(t, `{"denom":"uusd","amount":"9"}`, string(raw))
}

func TestCoinsValidate(t *testing.T) {
	assert.IsErr(t, nil, Coins{NewCoin(1, "uusd"), NewCoin(2, "uluna")}.Validate())
	assert.IsErr(t, errors.ErrInput, Coins{NewCoin(1, "uusd"), NewCoin(2, "uusd")}.Validate())
	assert.IsErr(t, errors.ErrInput, Coins{NewCoin(1, "U")}.Validate())
	assert.Equal(t, "1uusd,2uluna", Coins{NewCoin(1, "uusd"), NewCoin(2, "uluna")}.String())
}
