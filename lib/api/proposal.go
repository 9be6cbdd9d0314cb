package api

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"boscoin.io/congress/lib/api/resource"
	"boscoin.io/congress/lib/errors"
	"boscoin.io/congress/lib/httputils"
	"boscoin.io/congress/lib/proposal"
)

func proposalID(r *http.Request) (uint64, error) {
	s := mux.Vars(r)["id"]
	id, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, errors.BadRequestParameter.Clone().SetData("id", s)
	}

	return id, nil
}

func (api *HandlerAPI) GetProposalHandler(w http.ResponseWriter, r *http.Request) {
	id, err := proposalID(r)
	if err != nil {
		httputils.WriteJSONError(w, err)
		return
	}

	record, err := api.congress.GetProposal(api.now(), id)
	if err != nil {
		httputils.WriteJSONError(w, err)
		return
	}

	httputils.MustWriteJSON(w, http.StatusOK, resource.NewProposal(record))
}

func (api *HandlerAPI) GetProposalsHandler(w http.ResponseWriter, r *http.Request) {
	p, err := NewPageQuery(r)
	if err != nil {
		httputils.WriteJSONError(w, err)
		return
	}

	after, err := p.AfterID()
	if err != nil {
		httputils.WriteJSONError(w, err)
		return
	}

	var records []proposal.Record
	if p.Reverse() {
		records, err = api.congress.ReverseProposals(api.now(), after, p.Limit())
	} else {
		records, err = api.congress.ListProposals(api.now(), after, p.Limit())
	}
	if err != nil {
		httputils.WriteJSONError(w, err)
		return
	}

	var last string
	rs := []resource.Resource{}
	for _, record := range records {
		rs = append(rs, resource.NewProposal(record))
		last = strconv.FormatUint(record.GetHeader().ID, 10)
	}

	httputils.MustWriteJSON(w, http.StatusOK, p.ResourceList(rs, last))
}
