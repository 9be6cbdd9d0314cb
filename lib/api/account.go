package api

import (
	"net/http"

	"github.com/gorilla/mux"

	"boscoin.io/congress/lib/api/resource"
	"boscoin.io/congress/lib/httputils"
)

// GetAccountHandler shows the sequence id the next signed action of the
// address must carry.
func (api *HandlerAPI) GetAccountHandler(w http.ResponseWriter, r *http.Request) {
	account, err := api.congress.Account(mux.Vars(r)["id"])
	if err != nil {
		httputils.WriteJSONError(w, err)
		return
	}

	httputils.MustWriteJSON(w, http.StatusOK, resource.NewAccount(account))
}
