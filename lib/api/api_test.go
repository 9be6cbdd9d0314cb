package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stellar/go/keypair"
	"github.com/stretchr/testify/require"

	"boscoin.io/congress/lib/common"
	"boscoin.io/congress/lib/congress"
	"boscoin.io/congress/lib/power"
	"boscoin.io/congress/lib/storage"
	"boscoin.io/congress/lib/voting"
)

var (
	dao      = keypair.Master("dao").Address()
	proposer = keypair.Master("showme").Address()
	voter    = keypair.Master("findme").Address()
)

type fixedClock common.BlockInfo

func (c fixedClock) Now() common.BlockInfo {
	return common.BlockInfo(c)
}

func prepareAPI(t *testing.T, config Config) (*mux.Router, func()) {
	st, err := storage.NewTestMemoryLevelDBBackend()
	require.NoError(t, err)

	registry, err := power.NewRegistry(st, 0)
	require.NoError(t, err)
	require.NoError(t, registry.SetPower(proposer, 1, 1))
	require.NoError(t, registry.SetPower(voter, 1, 2))

	cfg := congress.DefaultConfig(dao)
	cfg.MaxVotingPeriod = common.DurationOfHeight(100)

	c, err := congress.New(st, registry, nil, cfg)
	require.NoError(t, err)

	env := congress.Env{Sender: proposer, Block: common.BlockInfo{Height: 10}}
	for i := 0; i < 3; i++ {
		_, err = c.Propose(env, congress.ProposeMsg{Title: "payout"})
		require.NoError(t, err)
	}

	rationale := "fair enough"
	env.Sender = voter
	require.NoError(t, c.Vote(env, 1, voting.Abstain, &rationale))

	router, err := NewHandlerAPI(c, fixedClock{Height: 20}).Router(config)
	require.NoError(t, err)

	return router, func() { st.Close() }
}

func request(t *testing.T, router http.Handler, url string) (*httptest.ResponseRecorder, map[string]interface{}) {
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", url, nil))

	var m map[string]interface{}
	if strings.Contains(w.Header().Get("Content-Type"), "json") {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &m), w.Body.String())
	}

	return w, m
}

func records(m map[string]interface{}) []interface{} {
	return m["_embedded"].(map[string]interface{})["records"].([]interface{})
}

func link(m map[string]interface{}, rel string) interface{} {
	l, found := m["_links"].(map[string]interface{})[rel]
	if !found {
		return nil
	}

	return l.(map[string]interface{})["href"]
}

func TestGetNodeInfo(t *testing.T) {
	router, closeFunc := prepareAPI(t, Config{})
	defer closeFunc()

	w, m := request(t, router, "/")
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "application/hal+json", w.Header().Get("Content-Type"))
	require.Equal(t, float64(3), m["proposal_count"])
	require.Equal(t, float64(20), m["height"])
	require.Equal(t, "/", link(m, "self"))
}

func TestGetProposal(t *testing.T) {
	router, closeFunc := prepareAPI(t, Config{})
	defer closeFunc()

	{
		w, m := request(t, router, "/v1/proposals/1")
		require.Equal(t, http.StatusOK, w.Code)
		require.Equal(t, float64(1), m["id"])
		require.Equal(t, "single", m["kind"])
		require.Equal(t, "payout", m["title"])
		require.Equal(t, proposer, m["proposer"])
		require.Equal(t, "open", m["status"])
		require.Equal(t, "/v1/proposals/1", link(m, "self"))
		require.Equal(t, "/v1/proposals/1/votes{?after,limit}", link(m, "votes"))
	}

	{
		w, m := request(t, router, "/v1/proposals/9")
		require.Equal(t, http.StatusNotFound, w.Code)
		require.Equal(t, "application/problem+json", w.Header().Get("Content-Type"))
		require.Equal(t, float64(http.StatusNotFound), m["status"])
	}

	{
		w, _ := request(t, router, "/v1/proposals/showme")
		require.Equal(t, http.StatusBadRequest, w.Code)
	}
}

func TestGetProposals(t *testing.T) {
	router, closeFunc := prepareAPI(t, Config{})
	defer closeFunc()

	{
		w, m := request(t, router, "/v1/proposals")
		require.Equal(t, http.StatusOK, w.Code)
		require.Equal(t, 3, len(records(m)))
		require.Nil(t, link(m, "next"))
	}

	{
		w, m := request(t, router, "/v1/proposals?limit=2")
		require.Equal(t, http.StatusOK, w.Code)

		rs := records(m)
		require.Equal(t, 2, len(rs))
		require.Equal(t, float64(1), rs[0].(map[string]interface{})["id"])
		require.Equal(t, "/v1/proposals?after=2&limit=2&reverse=false", link(m, "next"))

		w, m = request(t, router, link(m, "next").(string))
		require.Equal(t, http.StatusOK, w.Code)
		rs = records(m)
		require.Equal(t, 1, len(rs))
		require.Equal(t, float64(3), rs[0].(map[string]interface{})["id"])
	}

	{
		w, m := request(t, router, "/v1/proposals?reverse=true&after=3")
		require.Equal(t, http.StatusOK, w.Code)

		rs := records(m)
		require.Equal(t, 2, len(rs))
		require.Equal(t, float64(2), rs[0].(map[string]interface{})["id"])
		require.Equal(t, float64(1), rs[1].(map[string]interface{})["id"])
	}

	{
		w, _ := request(t, router, "/v1/proposals?limit=101")
		require.Equal(t, http.StatusBadRequest, w.Code)

		w, _ = request(t, router, "/v1/proposals?reverse=maybe")
		require.Equal(t, http.StatusBadRequest, w.Code)

		w, _ = request(t, router, "/v1/proposals?after=showme")
		require.Equal(t, http.StatusBadRequest, w.Code)
	}
}

func TestGetVotes(t *testing.T) {
	router, closeFunc := prepareAPI(t, Config{})
	defer closeFunc()

	{
		w, m := request(t, router, "/v1/proposals/1/votes")
		require.Equal(t, http.StatusOK, w.Code)

		rs := records(m)
		require.Equal(t, 1, len(rs))

		v := rs[0].(map[string]interface{})
		require.Equal(t, voter, v["voter"])
		require.Equal(t, "abstain", v["vote"])
		require.Equal(t, "fair enough", v["rationale"])
	}

	{
		w, m := request(t, router, "/v1/proposals/1/votes/"+voter)
		require.Equal(t, http.StatusOK, w.Code)
		require.Equal(t, float64(1), m["proposal_id"])
		require.Equal(t, "/v1/proposals/1", link(m, "proposal"))
	}

	{
		w, _ := request(t, router, "/v1/proposals/2/votes/"+voter)
		require.Equal(t, http.StatusNotFound, w.Code)

		w, _ = request(t, router, "/v1/proposals/9/votes")
		require.Equal(t, http.StatusNotFound, w.Code)
	}
}

func TestGetConfig(t *testing.T) {
	router, closeFunc := prepareAPI(t, Config{})
	defer closeFunc()

	w, m := request(t, router, "/v1/config")
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, dao, m["dao"])
	require.Equal(t, "/v1/config", link(m, "self"))
}

func TestMetrics(t *testing.T) {
	router, closeFunc := prepareAPI(t, Config{})
	defer closeFunc()

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)
}

func TestRateLimit(t *testing.T) {
	_, err := RateLimitMiddleware("showme")
	require.Error(t, err)

	router, closeFunc := prepareAPI(t, Config{RateLimit: "2-M"})
	defer closeFunc()

	for i := 0; i < 2; i++ {
		w, _ := request(t, router, "/v1/config")
		require.Equal(t, http.StatusOK, w.Code)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/v1/config", nil))
	require.Equal(t, http.StatusTooManyRequests, w.Code)
}

func TestRecoverMiddleware(t *testing.T) {
	router := mux.NewRouter()
	router.Use(RecoverMiddleware(false))
	router.HandleFunc("/panic", func(w http.ResponseWriter, r *http.Request) {
		panic("showme")
	})

	w, m := request(t, router, "/panic")
	require.Equal(t, http.StatusInternalServerError, w.Code)
	require.Equal(t, "panic: showme", m["detail"])
}
