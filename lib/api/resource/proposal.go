package resource

import (
	"strconv"

	"github.com/nvellon/hal"

	"boscoin.io/congress/lib/proposal"
)

// Proposal is a proposal of either kind with its status as of the request.
type Proposal struct {
	record proposal.Record
}

func NewProposal(record proposal.Record) *Proposal {
	return &Proposal{record: record}
}

func (p Proposal) id() string {
	return strconv.FormatUint(p.record.GetHeader().ID, 10)
}

func (p Proposal) GetMap() hal.Entry {
	return toEntry(p.record)
}

func (p Proposal) Resource() *hal.Resource {
	r := hal.NewResource(p, p.LinkSelf())
	r.AddLink("votes", hal.NewLink(
		replace(URLProposalVotes, "{id}", p.id())+"{?after,limit}",
		hal.LinkAttr{"templated": true},
	))

	return r
}

func (p Proposal) LinkSelf() string {
	return replace(URLProposal, "{id}", p.id())
}
