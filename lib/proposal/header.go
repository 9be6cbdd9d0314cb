package proposal

import (
	"encoding/json"

	"boscoin.io/congress/lib/common"
	"boscoin.io/congress/lib/voting"
)

// Header holds what single and multiple choice proposals have in common.
type Header struct {
	ID          uint64
	Title       string
	Description string
	Proposer    string
	// StartHeight is the height voting power is looked up at.
	StartHeight     uint64
	MinVotingPeriod *common.Expiration
	Expiration      common.Expiration
	// TotalPower is the total voting power at `StartHeight`; it never changes
	// after creation.
	TotalPower    common.Power
	AllowRevoting bool
	Veto          *VetoConfig
	Status        Status
	Hash          string
}

// Record is a proposal whose status can be resolved.
type Record interface {
	GetHeader() *Header
	Kind() string
	IsPassed(common.BlockInfo) bool
	IsRejected(common.BlockInfo) bool
	Tally() voting.Tally
	// Messages returns the payload to execute if the proposal passed.
	Messages() []Message
}

const (
	KindSingle   = "single"
	KindMultiple = "multiple"
)

func (h *Header) GetHeader() *Header {
	return h
}

func (h Header) IsExpired(block common.BlockInfo) bool {
	return h.Expiration.IsExpired(block)
}

// revotingOpen is true while ballots can still be changed, so the outcome
// is not known before expiration.
func (h Header) revotingOpen(block common.BlockInfo) bool {
	return h.AllowRevoting && !h.IsExpired(block)
}

func (h Header) minVotingPeriodOpen(block common.BlockInfo) bool {
	return h.MinVotingPeriod != nil && !h.MinVotingPeriod.IsExpired(block)
}

type headerJSON struct {
	ID              uint64             `json:"id"`
	Title           string             `json:"title"`
	Description     string             `json:"description"`
	Proposer        string             `json:"proposer"`
	StartHeight     uint64             `json:"start_height"`
	MinVotingPeriod *common.Expiration `json:"min_voting_period,omitempty"`
	Expiration      common.Expiration  `json:"expiration"`
	TotalPower      common.Power       `json:"total_power"`
	AllowRevoting   bool               `json:"allow_revoting"`
	Veto            *VetoConfig        `json:"veto,omitempty"`
	Status          json.RawMessage    `json:"status"`
	Hash            string             `json:"hash"`
}

func (h Header) toJSON() (headerJSON, error) {
	status, err := MarshalStatus(h.Status)
	if err != nil {
		return headerJSON{}, err
	}

	return headerJSON{
		ID:              h.ID,
		Title:           h.Title,
		Description:     h.Description,
		Proposer:        h.Proposer,
		StartHeight:     h.StartHeight,
		MinVotingPeriod: h.MinVotingPeriod,
		Expiration:      h.Expiration,
		TotalPower:      h.TotalPower,
		AllowRevoting:   h.AllowRevoting,
		Veto:            h.Veto,
		Status:          status,
		Hash:            h.Hash,
	}, nil
}

func (j headerJSON) header() (Header, error) {
	status, err := UnmarshalStatus(j.Status)
	if err != nil {
		return Header{}, err
	}

	return Header{
		ID:              j.ID,
		Title:           j.Title,
		Description:     j.Description,
		Proposer:        j.Proposer,
		StartHeight:     j.StartHeight,
		MinVotingPeriod: j.MinVotingPeriod,
		Expiration:      j.Expiration,
		TotalPower:      j.TotalPower,
		AllowRevoting:   j.AllowRevoting,
		Veto:            j.Veto,
		Status:          status,
		Hash:            j.Hash,
	}, nil
}
