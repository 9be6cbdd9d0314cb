package resource

import (
	"strconv"

	"github.com/nvellon/hal"

	"boscoin.io/congress/lib/ballot"
)

type Vote struct {
	b *ballot.Ballot
}

func NewVote(b *ballot.Ballot) *Vote {
	return &Vote{b: b}
}

func (v Vote) GetMap() hal.Entry {
	entry := hal.Entry{
		"proposal_id": v.b.ProposalID,
		"voter":       v.b.Voter,
		"power":       v.b.Power,
		"vote":        v.b.Vote.String(),
		"height":      v.b.Height,
	}
	if v.b.Rationale != nil {
		entry["rationale"] = *v.b.Rationale
	}

	return entry
}

func (v Vote) Resource() *hal.Resource {
	r := hal.NewResource(v, v.LinkSelf())
	r.AddLink("proposal", hal.NewLink(replace(URLProposal, "{id}", v.id())))

	return r
}

func (v Vote) id() string {
	return strconv.FormatUint(v.b.ProposalID, 10)
}

func (v Vote) LinkSelf() string {
	return replace(URLProposalVote, "{id}", v.id(), "{voter}", v.b.Voter)
}
