package api

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	rpcjson "github.com/gorilla/rpc/json"
	"github.com/stellar/go/keypair"
	"github.com/stretchr/testify/require"

	"boscoin.io/congress/lib/api/resource"
	"boscoin.io/congress/lib/congress"
	"boscoin.io/congress/lib/errors"
)

var networkID = []byte("congress-test-network")

func prepareJSONRPC(t *testing.T) (http.Handler, func()) {
	return prepareAPI(t, Config{JSONRPC: true, NetworkID: networkID})
}

func call(t *testing.T, router http.Handler, method string, args SignedArgs, result interface{}) error {
	message, err := rpcjson.EncodeClientRequest(method, &args)
	require.NoError(t, err)

	req := httptest.NewRequest("POST", resource.URLJSONRPC, bytes.NewBuffer(message))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	return rpcjson.DecodeClientResponse(w.Body, result)
}

func full(t *testing.T, kp keypair.KP) *keypair.Full {
	f, ok := kp.(*keypair.Full)
	require.True(t, ok)

	return f
}

// sign signs `body` with the current sequence id of the account of `kp`.
func sign(t *testing.T, router http.Handler, kp keypair.KP, body interface{}) SignedArgs {
	w, m := request(t, router, "/v1/accounts/"+kp.Address())
	require.Equal(t, http.StatusOK, w.Code)

	args, err := NewSignedArgs(full(t, kp), networkID, uint64(m["sequence_id"].(float64)), body)
	require.NoError(t, err)

	return args
}

func TestJSONRPCProposeVoteExecute(t *testing.T) {
	router, done := prepareJSONRPC(t)
	defer done()

	proposerKP := keypair.Master("showme")
	voterKP := keypair.Master("findme")

	var result ActionResult
	err := call(t, router, "Congress.Propose", sign(t, router, proposerKP, congress.ProposeMsg{Title: "upgrade"}), &result)
	require.NoError(t, err)
	require.Equal(t, uint64(4), result.ID)
	require.Equal(t, "open", result.Status)

	err = call(t, router, "Congress.Vote", sign(t, router, voterKP, VoteArgs{ID: 4, Vote: "yes"}), &result)
	require.NoError(t, err)
	require.Equal(t, uint64(4), result.ID)
	require.Equal(t, "passed", result.Status)

	err = call(t, router, "Congress.Execute", sign(t, router, proposerKP, ProposalArgs{ID: 4}), &result)
	require.NoError(t, err)
	require.Equal(t, "executed", result.Status)

	{ // the query api sees the action
		w, m := request(t, router, "/v1/proposals/4")
		require.Equal(t, http.StatusOK, w.Code)
		require.Equal(t, "executed", m["status"])
	}
}

func TestJSONRPCUpdateRationale(t *testing.T) {
	router, done := prepareJSONRPC(t)
	defer done()

	rationale := "changed my mind about the reason"

	var result ActionResult
	err := call(t, router, "Congress.UpdateRationale", sign(t, router, keypair.Master("findme"), RationaleArgs{ID: 1, Rationale: &rationale}), &result)
	require.NoError(t, err)
	require.Equal(t, "open", result.Status)

	_, m := request(t, router, "/v1/proposals/1/votes/"+voter)
	require.Equal(t, rationale, m["rationale"])
}

func TestJSONRPCSignature(t *testing.T) {
	router, done := prepareJSONRPC(t)
	defer done()

	kp := keypair.Master("showme")

	{ // body changed after signing
		args := sign(t, router, kp, congress.ProposeMsg{Title: "upgrade"})
		args.Body = []byte(`{"title":"steal"}`)

		var result ActionResult
		err := call(t, router, "Congress.Propose", args, &result)
		require.Error(t, err)
		require.Contains(t, err.Error(), errors.InvalidSignature.Message)
	}

	{ // signed for another network
		args, err := NewSignedArgs(full(t, kp), []byte("another-network"), 0, congress.ProposeMsg{Title: "upgrade"})
		require.NoError(t, err)

		var result ActionResult
		err = call(t, router, "Congress.Propose", args, &result)
		require.Error(t, err)
		require.Contains(t, err.Error(), errors.InvalidSignature.Message)
	}

	{ // signed by someone else
		args := sign(t, router, keypair.Master("findme"), congress.ProposeMsg{Title: "upgrade"})
		args.Sender = kp.Address()

		var result ActionResult
		err := call(t, router, "Congress.Propose", args, &result)
		require.Error(t, err)
		require.Contains(t, err.Error(), errors.InvalidSignature.Message)
	}

	{ // not an address
		args := sign(t, router, kp, congress.ProposeMsg{Title: "upgrade"})
		args.Sender = "showme"

		var result ActionResult
		err := call(t, router, "Congress.Propose", args, &result)
		require.Error(t, err)
		require.Contains(t, err.Error(), errors.InvalidAddress.Message)
	}

	// nothing was created
	_, m := request(t, router, "/")
	require.Equal(t, float64(3), m["proposal_count"])
}

func TestJSONRPCActionErrors(t *testing.T) {
	router, done := prepareJSONRPC(t)
	defer done()

	voterKP := keypair.Master("findme")
	choice := uint32(0)

	var result ActionResult
	err := call(t, router, "Congress.Vote", sign(t, router, voterKP, VoteArgs{ID: 2, Vote: "yes", Choice: &choice}), &result)
	require.Error(t, err)
	require.Contains(t, err.Error(), errors.BadRequestParameter.Message)

	err = call(t, router, "Congress.Vote", sign(t, router, voterKP, VoteArgs{ID: 2, Vote: "maybe"}), &result)
	require.Error(t, err)
	require.Contains(t, err.Error(), errors.InvalidVote.Message)

	err = call(t, router, "Congress.Vote", sign(t, router, voterKP, VoteArgs{ID: 1, Vote: "yes"}), &result)
	require.Error(t, err)
	require.Contains(t, err.Error(), errors.AlreadyVoted.Message)

	err = call(t, router, "Congress.Close", sign(t, router, voterKP, ProposalArgs{ID: 2}), &result)
	require.Error(t, err)
	require.Contains(t, err.Error(), errors.NotExpired.Message)

	err = call(t, router, "Congress.Veto", sign(t, router, voterKP, ProposalArgs{ID: 2}), &result)
	require.Error(t, err)
	require.Contains(t, err.Error(), errors.NoVetoConfiguration.Message)

	err = call(t, router, "Congress.Execute", sign(t, router, voterKP, ProposalArgs{ID: 99}), &result)
	require.Error(t, err)
	require.Contains(t, err.Error(), errors.NoSuchProposal.Message)
}

func TestJSONRPCUpdateConfig(t *testing.T) {
	router, done := prepareJSONRPC(t)
	defer done()

	config := congress.DefaultConfig(dao)
	config.AllowRevoting = true

	var result ConfigResult
	err := call(t, router, "Congress.UpdateConfig", sign(t, router, keypair.Master("showme"), config), &result)
	require.Error(t, err)
	require.Contains(t, err.Error(), errors.Unauthorized.Message)

	err = call(t, router, "Congress.UpdateConfig", sign(t, router, keypair.Master("dao"), config), &result)
	require.NoError(t, err)
	require.Equal(t, dao, result.DAO)

	_, m := request(t, router, "/v1/config")
	require.Equal(t, true, m["allow_revoting"])
}

func TestJSONRPCDisabled(t *testing.T) {
	router, done := prepareAPI(t, Config{})
	defer done()

	req := httptest.NewRequest("POST", resource.URLJSONRPC, bytes.NewBufferString("{}"))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.NotEqual(t, http.StatusOK, w.Code)
}

func TestClient(t *testing.T) {
	router, done := prepareJSONRPC(t)
	defer done()

	server := httptest.NewServer(router)
	defer server.Close()

	client := NewClient(server.URL+"/", networkID, full(t, keypair.Master("showme")))

	var result ActionResult
	require.NoError(t, client.Call("Propose", congress.ProposeMsg{Title: "from client"}, &result))
	require.Equal(t, uint64(4), result.ID)
	require.Equal(t, "open", result.Status)

	err := client.Call("Close", ProposalArgs{ID: 4}, &result)
	require.Error(t, err)
	require.Contains(t, err.Error(), errors.NotExpired.Message)

	other := NewClient(server.URL, []byte("another-network"), full(t, keypair.Master("showme")))
	err = other.Call("Propose", congress.ProposeMsg{Title: "from client"}, &result)
	require.Error(t, err)
	require.Contains(t, err.Error(), errors.InvalidSignature.Message)
}

func TestJSONRPCSignedSequenceID(t *testing.T) {
	router, done := prepareJSONRPC(t)
	defer done()

	kp := keypair.Master("showme")

	{ // sequence id changed after signing
		args := sign(t, router, kp, congress.ProposeMsg{Title: "upgrade"})
		args.SequenceID++

		var result ActionResult
		err := call(t, router, "Congress.Propose", args, &result)
		require.Error(t, err)
		require.Contains(t, err.Error(), errors.InvalidSignature.Message)
	}

	{ // signed for a sequence id the account is not at
		args, err := NewSignedArgs(full(t, kp), networkID, 5, congress.ProposeMsg{Title: "upgrade"})
		require.NoError(t, err)

		var result ActionResult
		err = call(t, router, "Congress.Propose", args, &result)
		require.Error(t, err)
		require.Contains(t, err.Error(), errors.InvalidSequenceID.Message)
	}

	_, m := request(t, router, "/")
	require.Equal(t, float64(3), m["proposal_count"])
}

func TestJSONRPCReplay(t *testing.T) {
	router, done := prepareJSONRPC(t)
	defer done()

	proposerKP := keypair.Master("showme")
	voterKP := keypair.Master("findme")

	config := congress.DefaultConfig(dao)
	config.AllowRevoting = true

	var configResult ConfigResult
	configArgs := sign(t, router, keypair.Master("dao"), config)
	require.NoError(t, call(t, router, "Congress.UpdateConfig", configArgs, &configResult))

	var result ActionResult
	proposeArgs := sign(t, router, proposerKP, congress.ProposeMsg{Title: "upgrade"})
	require.NoError(t, call(t, router, "Congress.Propose", proposeArgs, &result))
	require.Equal(t, uint64(4), result.ID)

	// the same signed proposal does not create another one
	err := call(t, router, "Congress.Propose", proposeArgs, &result)
	require.Error(t, err)
	require.Contains(t, err.Error(), errors.InvalidSequenceID.Message)

	_, m := request(t, router, "/")
	require.Equal(t, float64(4), m["proposal_count"])

	yesArgs := sign(t, router, voterKP, VoteArgs{ID: 4, Vote: "yes"})
	require.NoError(t, call(t, router, "Congress.Vote", yesArgs, &result))
	require.NoError(t, call(t, router, "Congress.Vote", sign(t, router, voterKP, VoteArgs{ID: 4, Vote: "no"}), &result))

	// an old vote can not be sent again to flip the ballot back
	err = call(t, router, "Congress.Vote", yesArgs, &result)
	require.Error(t, err)
	require.Contains(t, err.Error(), errors.InvalidSequenceID.Message)

	_, m = request(t, router, "/v1/proposals/4/votes/"+voter)
	require.Equal(t, "no", m["vote"])

	// neither can an old config
	err = call(t, router, "Congress.UpdateConfig", configArgs, &configResult)
	require.Error(t, err)
	require.Contains(t, err.Error(), errors.InvalidSequenceID.Message)

	_, m = request(t, router, "/v1/accounts/"+voter)
	require.Equal(t, float64(2), m["sequence_id"])
}

func TestJSONRPCFailedActionKeepsSequenceID(t *testing.T) {
	router, done := prepareJSONRPC(t)
	defer done()

	voterKP := keypair.Master("findme")

	var result ActionResult
	err := call(t, router, "Congress.Vote", sign(t, router, voterKP, VoteArgs{ID: 99, Vote: "yes"}), &result)
	require.Error(t, err)
	require.Contains(t, err.Error(), errors.NoSuchProposal.Message)

	_, m := request(t, router, "/v1/accounts/"+voter)
	require.Equal(t, float64(0), m["sequence_id"])

	require.NoError(t, call(t, router, "Congress.Vote", sign(t, router, voterKP, VoteArgs{ID: 2, Vote: "yes"}), &result))

	_, m = request(t, router, "/v1/accounts/"+voter)
	require.Equal(t, float64(1), m["sequence_id"])
}

func TestGetAccount(t *testing.T) {
	router, done := prepareAPI(t, Config{})
	defer done()

	w, m := request(t, router, "/v1/accounts/"+proposer)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, proposer, m["address"])
	require.Equal(t, float64(0), m["sequence_id"])
	require.Equal(t, "/v1/accounts/"+proposer, link(m, "self"))

	w, _ = request(t, router, "/v1/accounts/showme")
	require.Equal(t, http.StatusBadRequest, w.Code)
}
