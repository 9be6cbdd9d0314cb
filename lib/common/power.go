//
// Define the `Power` type, the voting weight used accross the code base.
//
// Voting power comes from an external snapshot source and must be treated as
// attacker influenced input, so every operation is overflow checked:
// - `Add` / `Sub` return an error instead of wrapping around
// - `SaturatingAdd` / `SaturatingSub` clamp to the valid range, used only where
//   the outcome is compared and never stored
// - `MustAdd` / `MustSub` panic, for tests only
//
package common

import (
	"fmt"
	"math"
	"strconv"

	"boscoin.io/congress/lib/errors"
)

const MaximumPower Power = Power(math.MaxUint64)

type Power uint64

func (p Power) String() string {
	return strconv.FormatUint(uint64(p), 10)
}

func (p Power) IsZero() bool {
	return p == 0
}

func (p Power) Add(added Power) (Power, error) {
	if n := p + added; n >= p {
		return n, nil
	}

	return 0, errors.Overflow.Clone().SetData("a", p.String()).SetData("b", added.String())
}

func (p Power) Sub(sub Power) (Power, error) {
	if p < sub {
		return 0, errors.Underflow.Clone().SetData("a", p.String()).SetData("b", sub.String())
	}

	return p - sub, nil
}

func (p Power) SaturatingAdd(added Power) Power {
	if n := p + added; n >= p {
		return n
	}

	return MaximumPower
}

func (p Power) SaturatingSub(sub Power) Power {
	if p < sub {
		return 0
	}

	return p - sub
}

// Counterpart of `Add` which panic instead of returning an error
func (p Power) MustAdd(added Power) Power {
	n, err := p.Add(added)
	if err != nil {
		panic(err)
	}

	return n
}

// Counterpart of `Sub` which panic instead of returning an error
func (p Power) MustSub(sub Power) Power {
	n, err := p.Sub(sub)
	if err != nil {
		panic(err)
	}

	return n
}

// Implement JSON's Marshaler interface; the value is quoted so javascript
// clients do not lose precision.
func (p Power) MarshalJSON() ([]byte, error) {
	return []byte(fmt.Sprintf("\"%s\"", p.String())), nil
}

func (p *Power) UnmarshalJSON(b []byte) (err error) {
	s := string(b)
	if len(s) > 1 && s[0] == '"' && s[len(s)-1] == '"' {
		s = s[1 : len(s)-1]
	}

	*p, err = PowerFromString(s)
	return
}

func PowerFromString(s string) (Power, error) {
	value, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, err
	}

	return Power(value), nil
}

// SumPower adds up the given powers, failing on overflow.
func SumPower(ps ...Power) (sum Power, err error) {
	for _, p := range ps {
		if sum, err = sum.Add(p); err != nil {
			return 0, err
		}
	}

	return
}
