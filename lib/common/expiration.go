package common

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"time"

	"boscoin.io/congress/lib/errors"
)

type ExpirationKind uint8

const (
	ExpirationNever ExpirationKind = iota
	ExpirationHeight
	ExpirationTime
)

// Expiration is a point in block height or block time after which something
// is considered expired. It is a comparable value type, so statuses holding
// it can be compared with `==`.
type Expiration struct {
	Kind   ExpirationKind
	Height uint64
	Time   uint64 // unix seconds
}

func ExpiresNever() Expiration {
	return Expiration{Kind: ExpirationNever}
}

func ExpiresAtHeight(height uint64) Expiration {
	return Expiration{Kind: ExpirationHeight, Height: height}
}

func ExpiresAtTime(t time.Time) Expiration {
	return ExpiresAtUnix(uint64(t.Unix()))
}

func ExpiresAtUnix(seconds uint64) Expiration {
	return Expiration{Kind: ExpirationTime, Time: seconds}
}

func (e Expiration) IsExpired(block BlockInfo) bool {
	switch e.Kind {
	case ExpirationHeight:
		return block.Height >= e.Height
	case ExpirationTime:
		return block.Unix() >= e.Time
	default:
		return false
	}
}

// Add extends the expiration by `d`. Height expirations only accept height
// durations and time expirations only time durations; `Never` stays `Never`.
func (e Expiration) Add(d Duration) (Expiration, error) {
	switch {
	case e.Kind == ExpirationNever:
		return e, nil
	case e.Kind == ExpirationHeight && d.Kind == DurationHeight:
		if e.Height+d.Value < e.Height {
			return e, errors.Overflow
		}
		return ExpiresAtHeight(e.Height + d.Value), nil
	case e.Kind == ExpirationTime && d.Kind == DurationTime:
		if e.Time+d.Value < e.Time {
			return e, errors.Overflow
		}
		return ExpiresAtUnix(e.Time + d.Value), nil
	default:
		return e, errors.InvalidExpiration.Clone().SetData("expiration", e.String()).SetData("duration", d.String())
	}
}

func (e Expiration) String() string {
	switch e.Kind {
	case ExpirationHeight:
		return fmt.Sprintf("expiration height: %d", e.Height)
	case ExpirationTime:
		return fmt.Sprintf("expiration time: %s", FormatISO8601(time.Unix(int64(e.Time), 0).UTC()))
	default:
		return "expiration: never"
	}
}

type expirationJSON struct {
	AtHeight *uint64   `json:"at_height,omitempty"`
	AtTime   *string   `json:"at_time,omitempty"`
	Never    *struct{} `json:"never,omitempty"`
}

func (e Expiration) MarshalJSON() ([]byte, error) {
	var j expirationJSON
	switch e.Kind {
	case ExpirationHeight:
		h := e.Height
		j.AtHeight = &h
	case ExpirationTime:
		t := strconv.FormatUint(e.Time, 10)
		j.AtTime = &t
	default:
		j.Never = &struct{}{}
	}

	return json.Marshal(j)
}

func (e *Expiration) UnmarshalJSON(b []byte) error {
	var j expirationJSON
	if err := json.Unmarshal(b, &j); err != nil {
		return err
	}

	switch {
	case j.AtHeight != nil:
		*e = ExpiresAtHeight(*j.AtHeight)
	case j.AtTime != nil:
		t, err := strconv.ParseUint(*j.AtTime, 10, 64)
		if err != nil {
			return err
		}
		*e = ExpiresAtUnix(t)
	case j.Never != nil:
		*e = ExpiresNever()
	default:
		return errors.InvalidExpiration.Clone().SetData("expiration", string(b))
	}

	return nil
}

type DurationKind uint8

const (
	DurationHeight DurationKind = iota + 1
	DurationTime
)

// Duration is a span of blocks or of seconds.
type Duration struct {
	Kind  DurationKind
	Value uint64
}

func DurationOfHeight(blocks uint64) Duration {
	return Duration{Kind: DurationHeight, Value: blocks}
}

func DurationOfTime(d time.Duration) Duration {
	return Duration{Kind: DurationTime, Value: uint64(d / time.Second)}
}

func saturatingAdd(a, b uint64) uint64 {
	if c := a + b; c >= a {
		return c
	}
	return math.MaxUint64
}

// After returns the expiration `d` after the given block; it saturates at
// the highest height or time.
func (d Duration) After(block BlockInfo) Expiration {
	switch d.Kind {
	case DurationHeight:
		return ExpiresAtHeight(saturatingAdd(block.Height, d.Value))
	default:
		return ExpiresAtUnix(saturatingAdd(block.Unix(), d.Value))
	}
}

func (d Duration) UnitsMismatch(o Duration) bool {
	return d.Kind != o.Kind
}

func (d Duration) IsValid() error {
	if d.Kind != DurationHeight && d.Kind != DurationTime {
		return errors.InvalidConfig.Clone().SetData("duration", d.String())
	}

	return nil
}

func (d Duration) String() string {
	switch d.Kind {
	case DurationHeight:
		return fmt.Sprintf("%d blocks", d.Value)
	case DurationTime:
		return (time.Duration(d.Value) * time.Second).String()
	default:
		return "<invalid duration>"
	}
}

type durationJSON struct {
	Height *uint64 `json:"height,omitempty" yaml:"height,omitempty"`
	Time   *uint64 `json:"time,omitempty" yaml:"time,omitempty"`
}

func (d Duration) toJSON() durationJSON {
	v := d.Value
	switch d.Kind {
	case DurationHeight:
		return durationJSON{Height: &v}
	case DurationTime:
		return durationJSON{Time: &v}
	}

	return durationJSON{}
}

func (d *Duration) fromJSON(j durationJSON) error {
	switch {
	case j.Height != nil && j.Time == nil:
		*d = DurationOfHeight(*j.Height)
	case j.Time != nil && j.Height == nil:
		*d = Duration{Kind: DurationTime, Value: *j.Time}
	default:
		return errors.InvalidConfig.Clone().SetData("duration", "exactly one of 'height' or 'time' must be set")
	}

	return nil
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.toJSON())
}

func (d *Duration) UnmarshalJSON(b []byte) error {
	var j durationJSON
	if err := json.Unmarshal(b, &j); err != nil {
		return err
	}

	return d.fromJSON(j)
}

func (d Duration) MarshalYAML() (interface{}, error) {
	return d.toJSON(), nil
}

func (d *Duration) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var j durationJSON
	if err := unmarshal(&j); err != nil {
		return err
	}

	return d.fromJSON(j)
}
