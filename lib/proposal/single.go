package proposal

import (
	"encoding/json"
	"fmt"

	"boscoin.io/congress/lib/common"
	"boscoin.io/congress/lib/voting"
)

// Proposal is a yes/no/abstain proposal.
type Proposal struct {
	Header
	Threshold voting.Threshold
	Msgs      []Message
	Votes     voting.Votes
}

func (p *Proposal) Kind() string {
	return KindSingle
}

func (p *Proposal) Tally() voting.Tally {
	return &p.Votes
}

func (p *Proposal) Messages() []Message {
	return p.Msgs
}

// IsPassed reports whether the yes votes already reach the threshold. Before
// expiration the votes not cast yet are assumed to be against.
func (p *Proposal) IsPassed(block common.BlockInfo) bool {
	if p.revotingOpen(block) || p.minVotingPeriodOpen(block) {
		return false
	}

	switch t := p.Threshold.(type) {
	case voting.AbsoluteCount:
		return p.Votes.Yes >= t.Threshold
	case voting.AbsolutePercentage:
		options := p.TotalPower.SaturatingSub(p.Votes.Abstain)
		return voting.PercentageMet(p.Votes.Yes, options, t.Percentage)
	case voting.ThresholdQuorum:
		if !voting.PercentageMet(p.Votes.Total(), p.TotalPower, t.Quorum) {
			return false
		}

		return voting.PercentageMet(p.Votes.Yes, p.nonAbstaining(block), t.Threshold)
	default:
		panic(fmt.Errorf("unknown threshold: %T", p.Threshold))
	}
}

// IsRejected reports whether the threshold can no longer be reached.
func (p *Proposal) IsRejected(block common.BlockInfo) bool {
	if p.revotingOpen(block) {
		return false
	}

	switch t := p.Threshold.(type) {
	case voting.AbsoluteCount:
		outstanding := p.TotalPower.SaturatingSub(p.Votes.Total())
		return p.Votes.Yes.SaturatingAdd(outstanding) < t.Threshold
	case voting.AbsolutePercentage:
		options := p.TotalPower.SaturatingSub(p.Votes.Abstain)
		return voting.PercentageFailed(p.Votes.No, options, t.Percentage)
	case voting.ThresholdQuorum:
		quorum := voting.PercentageMet(p.Votes.Total(), p.TotalPower, t.Quorum)
		if !quorum && p.IsExpired(block) {
			return true
		}

		return voting.PercentageFailed(p.Votes.No, p.nonAbstaining(block), t.Threshold)
	default:
		panic(fmt.Errorf("unknown threshold: %T", p.Threshold))
	}
}

// nonAbstaining is the power a quorum threshold is measured against: the
// cast votes once expired, otherwise every vote that could still be cast.
func (p *Proposal) nonAbstaining(block common.BlockInfo) common.Power {
	if p.IsExpired(block) {
		return p.Votes.Total().SaturatingSub(p.Votes.Abstain)
	}

	return p.TotalPower.SaturatingSub(p.Votes.Abstain)
}

type proposalHashable struct {
	Title       string
	Description string
	Proposer    string
	Msgs        []Message
}

func (p *Proposal) ComputeHash() (string, error) {
	return common.MakeObjectHashString(proposalHashable{
		Title:       p.Title,
		Description: p.Description,
		Proposer:    p.Proposer,
		Msgs:        p.Msgs,
	})
}

type proposalJSON struct {
	headerJSON
	Kind      string          `json:"kind"`
	Threshold json.RawMessage `json:"threshold"`
	Msgs      []Message       `json:"msgs"`
	Votes     voting.Votes    `json:"votes"`
}

func (p Proposal) MarshalJSON() ([]byte, error) {
	h, err := p.Header.toJSON()
	if err != nil {
		return nil, err
	}
	threshold, err := json.Marshal(p.Threshold)
	if err != nil {
		return nil, err
	}

	msgs := p.Msgs
	if msgs == nil {
		msgs = []Message{}
	}

	return json.Marshal(proposalJSON{
		headerJSON: h,
		Kind:       KindSingle,
		Threshold:  threshold,
		Msgs:       msgs,
		Votes:      p.Votes,
	})
}

func (p *Proposal) UnmarshalJSON(b []byte) error {
	var j proposalJSON
	if err := json.Unmarshal(b, &j); err != nil {
		return err
	}

	h, err := j.headerJSON.header()
	if err != nil {
		return err
	}
	threshold, err := voting.UnmarshalThreshold(j.Threshold)
	if err != nil {
		return err
	}

	p.Header = h
	p.Threshold = threshold
	p.Msgs = j.Msgs
	p.Votes = j.Votes

	return nil
}
