package api

import (
	ghandlers "github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"boscoin.io/congress/lib/api/resource"
	"boscoin.io/congress/lib/common"
	"boscoin.io/congress/lib/congress"
)

// Clock gives the block the proposal statuses are computed against.
type Clock interface {
	Now() common.BlockInfo
}

type Config struct {
	// RateLimit is a `ulule/limiter` formatted rate like "100-S"; empty
	// disables rate limiting.
	RateLimit      string
	AllowedOrigins []string
	PrintStack     bool
	// JSONRPC mounts the signed governance actions on `URLJSONRPC`;
	// signatures are bound to `NetworkID`.
	JSONRPC   bool
	NetworkID []byte
}

func DefaultConfig() Config {
	return Config{
		RateLimit:      "100-S",
		AllowedOrigins: []string{"*"},
	}
}

// HandlerAPI serves the governance queries and, when enabled, the signed
// governance actions.
type HandlerAPI struct {
	congress *congress.Congress
	clock    Clock
}

func NewHandlerAPI(c *congress.Congress, clock Clock) *HandlerAPI {
	return &HandlerAPI{congress: c, clock: clock}
}

// Router routes the API with its middlewares.
func (api *HandlerAPI) Router(config Config) (*mux.Router, error) {
	router := mux.NewRouter()

	router.Use(RecoverMiddleware(config.PrintStack))
	router.Use(MetricsMiddleware)
	if len(config.RateLimit) > 0 {
		rateLimit, err := RateLimitMiddleware(config.RateLimit)
		if err != nil {
			return nil, err
		}
		router.Use(rateLimit)
	}

	cors := ghandlers.CORS(
		ghandlers.AllowedOrigins(config.AllowedOrigins),
		ghandlers.AllowedMethods([]string{"GET", "POST", "OPTIONS"}),
		ghandlers.AllowedHeaders([]string{"Content-Type", "X-Requested-With", "Cache-Control"}),
	)
	router.Use(mux.MiddlewareFunc(cors))

	router.HandleFunc(resource.URLNodeInfo, api.GetNodeInfoHandler).Methods("GET", "OPTIONS")
	router.HandleFunc(resource.URLProposals, api.GetProposalsHandler).Methods("GET", "OPTIONS")
	router.HandleFunc(resource.URLProposal, api.GetProposalHandler).Methods("GET", "OPTIONS")
	router.HandleFunc(resource.URLProposalVotes, api.GetVotesHandler).Methods("GET", "OPTIONS")
	router.HandleFunc(resource.URLProposalVote, api.GetVoteHandler).Methods("GET", "OPTIONS")
	router.HandleFunc(resource.URLConfig, api.GetConfigHandler).Methods("GET", "OPTIONS")
	router.HandleFunc(resource.URLAccount, api.GetAccountHandler).Methods("GET", "OPTIONS")
	router.Handle(resource.URLMetrics, promhttp.Handler()).Methods("GET")

	if config.JSONRPC {
		handler, err := api.JSONRPCHandler(config.NetworkID)
		if err != nil {
			return nil, err
		}
		router.Handle(resource.URLJSONRPC, handler).Methods("POST", "OPTIONS")
	}

	return router, nil
}

func (api *HandlerAPI) now() common.BlockInfo {
	return api.clock.Now()
}
