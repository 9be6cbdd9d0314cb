package proposal

import (
	"encoding/json"
	"fmt"

	"boscoin.io/congress/lib/common"
	"boscoin.io/congress/lib/errors"
)

// Status is the stage of a proposal. The stored status is only a cache of
// the last computation; `CurrentStatus` must be used to read it.
type Status interface {
	isStatus()
	String() string
	CanTransitTo(Status) bool
	IsTerminal() bool
}

type Open struct{}
type Passed struct{}
type Rejected struct{}
type Executed struct{}
type ExecutionFailed struct{}
type Closed struct{}
type Vetoed struct{}

// VetoTimelock holds a passed proposal until `Expiration`, during which the
// vetoer may still veto it.
type VetoTimelock struct {
	Expiration common.Expiration
}

func (Open) isStatus()            {}
func (Passed) isStatus()          {}
func (Rejected) isStatus()        {}
func (VetoTimelock) isStatus()    {}
func (Executed) isStatus()        {}
func (ExecutionFailed) isStatus() {}
func (Closed) isStatus()          {}
func (Vetoed) isStatus()          {}

func (Open) String() string            { return "open" }
func (Passed) String() string          { return "passed" }
func (Rejected) String() string        { return "rejected" }
func (Executed) String() string        { return "executed" }
func (ExecutionFailed) String() string { return "execution_failed" }
func (Closed) String() string          { return "closed" }
func (Vetoed) String() string          { return "vetoed" }

func (s VetoTimelock) String() string {
	return fmt.Sprintf("veto_timelock(%s)", s.Expiration)
}

func (Open) CanTransitTo(next Status) bool {
	switch next.(type) {
	case Passed, Rejected, VetoTimelock, Vetoed:
		return true
	default:
		return false
	}
}

func (Passed) CanTransitTo(next Status) bool {
	switch next.(type) {
	case Executed, ExecutionFailed:
		return true
	default:
		return false
	}
}

func (Rejected) CanTransitTo(next Status) bool {
	_, ok := next.(Closed)
	return ok
}

func (VetoTimelock) CanTransitTo(next Status) bool {
	switch next.(type) {
	case Passed, Vetoed, Executed, ExecutionFailed:
		return true
	default:
		return false
	}
}

func (Executed) CanTransitTo(Status) bool        { return false }
func (ExecutionFailed) CanTransitTo(Status) bool { return false }
func (Closed) CanTransitTo(Status) bool          { return false }
func (Vetoed) CanTransitTo(Status) bool          { return false }

func (Open) IsTerminal() bool            { return false }
func (Passed) IsTerminal() bool          { return false }
func (Rejected) IsTerminal() bool        { return false }
func (VetoTimelock) IsTerminal() bool    { return false }
func (Executed) IsTerminal() bool        { return true }
func (ExecutionFailed) IsTerminal() bool { return true }
func (Closed) IsTerminal() bool          { return true }
func (Vetoed) IsTerminal() bool          { return true }

var simpleStatuses = map[string]Status{
	Open{}.String():            Open{},
	Passed{}.String():          Passed{},
	Rejected{}.String():        Rejected{},
	Executed{}.String():        Executed{},
	ExecutionFailed{}.String(): ExecutionFailed{},
	Closed{}.String():          Closed{},
	Vetoed{}.String():          Vetoed{},
}

type vetoTimelockBody struct {
	Expiration common.Expiration `json:"expiration"`
}

type vetoTimelockJSON struct {
	VetoTimelock *vetoTimelockBody `json:"veto_timelock"`
}

// MarshalStatus encodes the simple statuses as plain strings, like `"open"`,
// and `VetoTimelock` as `{"veto_timelock":{"expiration":..}}`.
func MarshalStatus(s Status) ([]byte, error) {
	switch t := s.(type) {
	case nil:
		return nil, errors.InvalidProposalStatus.Clone().SetData("status", nil)
	case VetoTimelock:
		return json.Marshal(vetoTimelockJSON{VetoTimelock: &vetoTimelockBody{Expiration: t.Expiration}})
	default:
		return json.Marshal(t.String())
	}
}

func UnmarshalStatus(b []byte) (Status, error) {
	var name string
	if err := json.Unmarshal(b, &name); err == nil {
		if s, found := simpleStatuses[name]; found {
			return s, nil
		}
		return nil, errors.InvalidProposalStatus.Clone().SetData("status", name)
	}

	var j vetoTimelockJSON
	if err := json.Unmarshal(b, &j); err != nil {
		return nil, err
	}
	if j.VetoTimelock == nil {
		return nil, errors.InvalidProposalStatus.Clone().SetData("status", string(b))
	}

	return VetoTimelock{Expiration: j.VetoTimelock.Expiration}, nil
}

// StatusName is the status without its parameters, used for metrics labels
// and API filtering.
func StatusName(s Status) string {
	if _, ok := s.(VetoTimelock); ok {
		return "veto_timelock"
	}

	return s.String()
}
