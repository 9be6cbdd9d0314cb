package voting

import (
	"encoding/json"
	"fmt"

	"boscoin.io/congress/lib/common"
	"boscoin.io/congress/lib/errors"
)

// PercentageThreshold is either `Majority` or `Percent`.
type PercentageThreshold interface {
	isPercentageThreshold()
	String() string
}

// Majority passes with strictly more than half of the votes.
type Majority struct{}

// Percent passes with at least `Value` of the votes.
type Percent struct {
	Value common.Decimal
}

func (Majority) isPercentageThreshold() {}
func (Percent) isPercentageThreshold()  {}

func (Majority) String() string  { return "majority" }
func (p Percent) String() string { return fmt.Sprintf("percent(%s)", p.Value) }

func NewPercent(s string) (Percent, error) {
	d, err := common.ParseDecimal(s)
	if err != nil {
		return Percent{}, err
	}

	return Percent{Value: d}, nil
}

func MustPercent(s string) Percent {
	p, err := NewPercent(s)
	if err != nil {
		panic(err)
	}

	return p
}

// IsHundredPercent reports whether the threshold demands every eligible vote.
func IsHundredPercent(p PercentageThreshold) bool {
	if v, ok := p.(Percent); ok {
		return v.Value.Equal(common.DecimalOne)
	}

	return false
}

func validatePercentage(p PercentageThreshold) error {
	switch t := p.(type) {
	case nil:
		return errors.InvalidThreshold.Clone().SetData("reason", "percentage is missing")
	case Majority:
		return nil
	case Percent:
		if t.Value.IsZero() {
			return errors.ZeroThreshold
		}
		if t.Value.GreaterThan(common.DecimalOne) {
			return errors.UnreachableThreshold
		}
		return nil
	default:
		panic(fmt.Errorf("unknown percentage threshold: %T", p))
	}
}

// ValidateQuorum checks a quorum; the same (0, 1] range as thresholds
// applies.
func ValidateQuorum(p PercentageThreshold) error {
	return validatePercentage(p)
}

// Threshold is one of `AbsoluteCount`, `AbsolutePercentage` or
// `ThresholdQuorum`.
type Threshold interface {
	isThreshold()
	Validate() error
	String() string
}

// AbsoluteCount passes once the yes votes reach a fixed amount of power.
type AbsoluteCount struct {
	Threshold common.Power
}

// AbsolutePercentage passes once the yes votes reach a percentage of all the
// non-abstaining voting power.
type AbsolutePercentage struct {
	Percentage PercentageThreshold
}

// ThresholdQuorum requires a minimum participation before `Threshold` is
// evaluated.
type ThresholdQuorum struct {
	Threshold PercentageThreshold
	Quorum    PercentageThreshold
}

func (AbsoluteCount) isThreshold()      {}
func (AbsolutePercentage) isThreshold() {}
func (ThresholdQuorum) isThreshold()    {}

func (t AbsoluteCount) Validate() error {
	if t.Threshold.IsZero() {
		return errors.ZeroThreshold
	}

	return nil
}

func (t AbsolutePercentage) Validate() error {
	return validatePercentage(t.Percentage)
}

func (t ThresholdQuorum) Validate() error {
	if t.Threshold == nil || t.Quorum == nil {
		return errors.InvalidThreshold.Clone().SetData("reason", "threshold and quorum must be both set")
	}
	if err := validatePercentage(t.Threshold); err != nil {
		return err
	}

	return ValidateQuorum(t.Quorum)
}

func (t AbsoluteCount) String() string {
	return fmt.Sprintf("absolute_count(%s)", t.Threshold)
}

func (t AbsolutePercentage) String() string {
	return fmt.Sprintf("absolute_percentage(%v)", t.Percentage)
}

func (t ThresholdQuorum) String() string {
	return fmt.Sprintf("threshold_quorum(threshold=%v quorum=%v)", t.Threshold, t.Quorum)
}

type percentageJSON struct {
	Majority *struct{}      `json:"majority,omitempty"`
	Percent  *common.Decimal `json:"percent,omitempty"`
}

func (Majority) MarshalJSON() ([]byte, error) {
	return json.Marshal(percentageJSON{Majority: &struct{}{}})
}

func (p Percent) MarshalJSON() ([]byte, error) {
	v := p.Value
	return json.Marshal(percentageJSON{Percent: &v})
}

func UnmarshalPercentageThreshold(b []byte) (PercentageThreshold, error) {
	var j percentageJSON
	if err := json.Unmarshal(b, &j); err != nil {
		return nil, err
	}

	switch {
	case j.Majority != nil && j.Percent == nil:
		return Majority{}, nil
	case j.Percent != nil && j.Majority == nil:
		return Percent{Value: *j.Percent}, nil
	default:
		return nil, errors.InvalidThreshold.Clone().SetData("percentage", string(b))
	}
}

type absoluteCountJSON struct {
	Threshold common.Power `json:"threshold"`
}

type absolutePercentageJSON struct {
	Percentage json.RawMessage `json:"percentage"`
}

type thresholdQuorumJSON struct {
	Threshold json.RawMessage `json:"threshold"`
	Quorum    json.RawMessage `json:"quorum"`
}

type thresholdJSON struct {
	AbsoluteCount      *absoluteCountJSON      `json:"absolute_count,omitempty"`
	AbsolutePercentage *absolutePercentageJSON `json:"absolute_percentage,omitempty"`
	ThresholdQuorum    *thresholdQuorumJSON    `json:"threshold_quorum,omitempty"`
}

func (t AbsoluteCount) MarshalJSON() ([]byte, error) {
	return json.Marshal(thresholdJSON{AbsoluteCount: &absoluteCountJSON{Threshold: t.Threshold}})
}

func (t AbsolutePercentage) MarshalJSON() ([]byte, error) {
	p, err := json.Marshal(t.Percentage)
	if err != nil {
		return nil, err
	}

	return json.Marshal(thresholdJSON{AbsolutePercentage: &absolutePercentageJSON{Percentage: p}})
}

func (t ThresholdQuorum) MarshalJSON() ([]byte, error) {
	th, err := json.Marshal(t.Threshold)
	if err != nil {
		return nil, err
	}
	q, err := json.Marshal(t.Quorum)
	if err != nil {
		return nil, err
	}

	return json.Marshal(thresholdJSON{ThresholdQuorum: &thresholdQuorumJSON{Threshold: th, Quorum: q}})
}

func UnmarshalThreshold(b []byte) (Threshold, error) {
	var j thresholdJSON
	if err := json.Unmarshal(b, &j); err != nil {
		return nil, err
	}

	switch {
	case j.AbsoluteCount != nil:
		return AbsoluteCount{Threshold: j.AbsoluteCount.Threshold}, nil
	case j.AbsolutePercentage != nil:
		p, err := UnmarshalPercentageThreshold(j.AbsolutePercentage.Percentage)
		if err != nil {
			return nil, err
		}
		return AbsolutePercentage{Percentage: p}, nil
	case j.ThresholdQuorum != nil:
		th, err := UnmarshalPercentageThreshold(j.ThresholdQuorum.Threshold)
		if err != nil {
			return nil, err
		}
		q, err := UnmarshalPercentageThreshold(j.ThresholdQuorum.Quorum)
		if err != nil {
			return nil, err
		}
		return ThresholdQuorum{Threshold: th, Quorum: q}, nil
	default:
		return nil, errors.InvalidThreshold.Clone().SetData("threshold", string(b))
	}
}
