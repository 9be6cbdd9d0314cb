package api

import (
	"net/http"

	"github.com/gorilla/mux"

	"boscoin.io/congress/lib/api/resource"
	"boscoin.io/congress/lib/httputils"
)

func (api *HandlerAPI) GetVoteHandler(w http.ResponseWriter, r *http.Request) {
	id, err := proposalID(r)
	if err != nil {
		httputils.WriteJSONError(w, err)
		return
	}

	b, err := api.congress.GetVote(id, mux.Vars(r)["voter"])
	if err != nil {
		httputils.WriteJSONError(w, err)
		return
	}

	httputils.MustWriteJSON(w, http.StatusOK, resource.NewVote(b))
}

// GetVotesHandler lists the votes ordered by voter; `reverse` is not
// supported.
func (api *HandlerAPI) GetVotesHandler(w http.ResponseWriter, r *http.Request) {
	id, err := proposalID(r)
	if err != nil {
		httputils.WriteJSONError(w, err)
		return
	}

	p, err := NewPageQuery(r)
	if err != nil {
		httputils.WriteJSONError(w, err)
		return
	}

	ballots, err := api.congress.ListVotes(id, p.After(), p.Limit())
	if err != nil {
		httputils.WriteJSONError(w, err)
		return
	}

	var last string
	rs := []resource.Resource{}
	for _, b := range ballots {
		rs = append(rs, resource.NewVote(b))
		last = b.Voter
	}

	httputils.MustWriteJSON(w, http.StatusOK, p.ResourceList(rs, last))
}
