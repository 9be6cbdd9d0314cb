package resource

const (
	APIVersionV1 = "/v1"

	URLNodeInfo      = "/"
	URLProposals     = APIVersionV1 + "/proposals"
	URLProposal      = APIVersionV1 + "/proposals/{id}"
	URLProposalVotes = APIVersionV1 + "/proposals/{id}/votes"
	URLProposalVote  = APIVersionV1 + "/proposals/{id}/votes/{voter}"
	URLConfig        = APIVersionV1 + "/config"
	URLAccount       = APIVersionV1 + "/accounts/{id}"
	URLJSONRPC       = APIVersionV1 + "/jsonrpc"
	URLMetrics       = "/metrics"
)
