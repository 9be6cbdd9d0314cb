package common

import (
	"strconv"
	"strings"

	"boscoin.io/congress/lib/errors"
)

// DecimalPlaces is the fixed precision of `Decimal`.
const DecimalPlaces = 18

// DecimalFractional is 10^DecimalPlaces, the atomics of `DecimalOne`.
const DecimalFractional uint64 = 1000000000000000000

var (
	DecimalZero = Decimal{}
	DecimalOne  = Decimal{atomics: DecimalFractional}
)

// Decimal is an unsigned fixed point number with 18 decimal places. It is
// only used for ratios, so values up to about 18.44 are representable.
type Decimal struct {
	atomics uint64
}

func NewDecimalFromAtomics(atomics uint64) Decimal {
	return Decimal{atomics: atomics}
}

// DecimalPercent returns `p` percent, `DecimalPercent(50)` is 0.5.
func DecimalPercent(p uint64) Decimal {
	return Decimal{atomics: p * (DecimalFractional / 100)}
}

// ParseDecimal parses strings like "1", "0.5" or "0.333333333333333333".
// More than 18 fractional digits are rejected instead of being rounded.
func ParseDecimal(s string) (Decimal, error) {
	invalid := func() (Decimal, error) {
		return DecimalZero, errors.InvalidDecimal.Clone().SetData("decimal", s)
	}

	s = strings.TrimSpace(s)
	if len(s) < 1 {
		return invalid()
	}

	parts := strings.Split(s, ".")
	if len(parts) > 2 || len(parts[0]) < 1 {
		return invalid()
	}

	fraction := ""
	if len(parts) == 2 {
		fraction = parts[1]
		if len(fraction) < 1 || len(fraction) > DecimalPlaces {
			return invalid()
		}
	}

	digits := parts[0] + fraction + strings.Repeat("0", DecimalPlaces-len(fraction))
	for _, c := range digits {
		if c < '0' || c > '9' {
			return invalid()
		}
	}

	n, err := strconv.ParseUint(digits, 10, 64)
	if err != nil {
		return invalid()
	}

	return Decimal{atomics: n}, nil
}

func MustParseDecimal(s string) Decimal {
	d, err := ParseDecimal(s)
	if err != nil {
		panic(err)
	}

	return d
}

func (d Decimal) Atomics() uint64 {
	return d.atomics
}

func (d Decimal) IsZero() bool {
	return d.atomics == 0
}

func (d Decimal) Equal(o Decimal) bool {
	return d.atomics == o.atomics
}

func (d Decimal) GreaterThan(o Decimal) bool {
	return d.atomics > o.atomics
}

// OneMinus returns `1 - d`; `d` must not be over one.
func (d Decimal) OneMinus() Decimal {
	if d.atomics >= DecimalFractional {
		return DecimalZero
	}

	return Decimal{atomics: DecimalFractional - d.atomics}
}

func (d Decimal) String() string {
	whole := d.atomics / DecimalFractional
	fraction := d.atomics % DecimalFractional

	s := strconv.FormatUint(whole, 10)
	if fraction == 0 {
		return s
	}

	f := strconv.FormatUint(fraction, 10)
	f = strings.Repeat("0", DecimalPlaces-len(f)) + f

	return s + "." + strings.TrimRight(f, "0")
}

func (d Decimal) MarshalJSON() ([]byte, error) {
	return []byte("\"" + d.String() + "\""), nil
}

func (d *Decimal) UnmarshalJSON(b []byte) (err error) {
	s := string(b)
	if len(s) > 1 && s[0] == '"' && s[len(s)-1] == '"' {
		s = s[1 : len(s)-1]
	}

	*d, err = ParseDecimal(s)
	return
}

func (d Decimal) MarshalYAML() (interface{}, error) {
	return d.String(), nil
}

func (d *Decimal) UnmarshalYAML(unmarshal func(interface{}) error) (err error) {
	var s string
	if err = unmarshal(&s); err != nil {
		return
	}

	*d, err = ParseDecimal(s)
	return
}
