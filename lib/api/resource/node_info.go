package resource

import (
	"github.com/nvellon/hal"

	"boscoin.io/congress/lib/common"
	"boscoin.io/congress/lib/version"
)

type NodeInfo struct {
	Version       version.Info
	Block         common.BlockInfo
	ProposalCount uint64
}

func (n NodeInfo) GetMap() hal.Entry {
	return hal.Entry{
		"version":        n.Version,
		"height":         n.Block.Height,
		"time":           n.Block.Unix(),
		"proposal_count": n.ProposalCount,
	}
}

func (n NodeInfo) Resource() *hal.Resource {
	r := hal.NewResource(n, n.LinkSelf())
	r.AddLink("proposals", hal.NewLink(URLProposals+"{?after,limit,reverse}", hal.LinkAttr{"templated": true}))
	r.AddLink("config", hal.NewLink(URLConfig))
	r.AddLink("account", hal.NewLink(URLAccount, hal.LinkAttr{"templated": true}))

	return r
}

func (n NodeInfo) LinkSelf() string {
	return URLNodeInfo
}
