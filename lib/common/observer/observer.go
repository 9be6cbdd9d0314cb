package observer

import (
	"fmt"
	"strings"

	"github.com/GianlucaGuarini/go-observable"
)

// ProposalObserver notifies the subscribers of proposals. Every event is
// triggered twice, once under its name and once under `<name>-<proposal id>`,
// so subscribers can follow either everything or a single proposal.
var ProposalObserver = observable.New()

const (
	EventProposalCreated = "proposal-created"
	EventVoteCast        = "vote-cast"
	EventStatusChanged   = "status-changed"
)

type Event struct {
	Name       string
	ProposalID uint64
}

func NewEvent(name string, id uint64) Event {
	return Event{Name: name, ProposalID: id}
}

// Filter is the event name to subscribe to a single proposal.
func (e Event) Filter() string {
	return fmt.Sprintf("%s-%d", e.Name, e.ProposalID)
}

// String is the event to trigger; go-observable splits it by spaces.
func (e Event) String() string {
	return strings.Join([]string{e.Name, e.Filter()}, " ")
}

func Trigger(e Event, args ...interface{}) {
	ProposalObserver.Trigger(e.String(), args...)
}
