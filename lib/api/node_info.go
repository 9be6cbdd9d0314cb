package api

import (
	"net/http"

	"boscoin.io/congress/lib/api/resource"
	"boscoin.io/congress/lib/httputils"
	"boscoin.io/congress/lib/version"
)

func (api *HandlerAPI) GetNodeInfoHandler(w http.ResponseWriter, r *http.Request) {
	count, err := api.congress.ProposalCount()
	if err != nil {
		httputils.WriteJSONError(w, err)
		return
	}

	httputils.MustWriteJSON(w, http.StatusOK, resource.NodeInfo{
		Version:       version.GetInfo(),
		Block:         api.now(),
		ProposalCount: count,
	})
}

func (api *HandlerAPI) GetConfigHandler(w http.ResponseWriter, r *http.Request) {
	config, err := api.congress.Config()
	if err != nil {
		httputils.WriteJSONError(w, err)
		return
	}

	httputils.MustWriteJSON(w, http.StatusOK, resource.NewConfig(config))
}
