package congress

import (
	"boscoin.io/congress/lib/common"
	"boscoin.io/congress/lib/common/observer"
	"boscoin.io/congress/lib/proposal"
	"boscoin.io/congress/lib/voting"
)

// The hook payloads are triggered through `observer.ProposalObserver` once
// the action that caused them is committed.

type ProposalCreated struct {
	EventID  string
	ID       uint64
	Kind     string
	Proposer string
}

type VoteCast struct {
	EventID string
	ID      uint64
	Voter   string
	Vote    voting.Choice
	Power   common.Power
}

type StatusChanged struct {
	EventID   string
	ID        uint64
	OldStatus proposal.Status
	NewStatus proposal.Status
}

type hook struct {
	event   observer.Event
	payload interface{}
}

func newHook(name string, id uint64, payload interface{}) hook {
	return hook{event: observer.NewEvent(name, id), payload: payload}
}

func fireHooks(hooks []hook) {
	for _, h := range hooks {
		observer.Trigger(h.event, h.payload)
	}
}
