package cmd

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/oklog/run"
	"github.com/spf13/cobra"
	"golang.org/x/net/http2"

	"boscoin.io/congress/cmd/congress/common"
	"boscoin.io/congress/lib/api"
	cgcommon "boscoin.io/congress/lib/common"
	"boscoin.io/congress/lib/congress"
	"boscoin.io/congress/lib/metrics"
	"boscoin.io/congress/lib/power"
	"boscoin.io/congress/lib/storage"
)

const (
	defaultBind      string = "0.0.0.0:12345"
	defaultGenesis   string = "2019-01-01T00:00:00.000000000Z"
	defaultBlockTime string = "5s"
)

var (
	flagBind           string = cgcommon.GetENVValue("CONGRESS_BIND", defaultBind)
	flagTLSCertFile    string = cgcommon.GetENVValue("CONGRESS_TLS_CERT", "")
	flagTLSKeyFile     string = cgcommon.GetENVValue("CONGRESS_TLS_KEY", "")
	flagConfigFile     string = cgcommon.GetENVValue("CONGRESS_CONFIG", "")
	flagDAO            string = cgcommon.GetENVValue("CONGRESS_DAO", "")
	flagGenesis        string = cgcommon.GetENVValue("CONGRESS_GENESIS", defaultGenesis)
	flagBlockTime      string = cgcommon.GetENVValue("CONGRESS_BLOCK_TIME", defaultBlockTime)
	flagNTPServer      string = cgcommon.GetENVValue("CONGRESS_NTP_SERVER", "")
	flagRateLimit      string = cgcommon.GetENVValue("CONGRESS_RATE_LIMIT", api.DefaultConfig().RateLimit)
	flagPrintStack     bool   = cgcommon.GetENVValue("CONGRESS_PRINT_STACK", "0") == "1"
	flagPowerCacheSize int    = power.DefaultCacheSize
	flagJSONRPC        bool   = cgcommon.GetENVValue("CONGRESS_JSONRPC", "1") == "1"
	flagNetworkID      string = cgcommon.GetENVValue("CONGRESS_NETWORK_ID", "")
	flagVerbose        bool   = cgcommon.GetENVValue("CONGRESS_VERBOSE", "0") == "1"
	flagCORSOrigins    common.ListFlags
)

var (
	nodeCmd *cobra.Command

	genesis   time.Time
	blockTime time.Duration
)

func init() {
	nodeCmd = &cobra.Command{
		Use:   "node",
		Short: "Run congress node",
		Run: func(c *cobra.Command, args []string) {
			if flagName, err := parseFlagsNode(); err != nil {
				common.PrintFlagsError(c, flagName, err)
			}

			runNode()
		},
	}

	nodeCmd.Flags().StringVar(&flagBind, "bind", flagBind, "address the api listens on")
	nodeCmd.Flags().StringVar(&flagTLSCertFile, "tls-cert", flagTLSCertFile, "tls certificate file")
	nodeCmd.Flags().StringVar(&flagTLSKeyFile, "tls-key", flagTLSKeyFile, "tls key file")
	nodeCmd.Flags().StringVar(&flagConfigFile, "config", flagConfigFile, "governance config file; used only when the storage has no config yet")
	nodeCmd.Flags().StringVar(&flagDAO, "dao", flagDAO, "dao address of the default config")
	nodeCmd.Flags().StringVar(&flagGenesis, "genesis", flagGenesis, "time of height 0, ISO8601")
	nodeCmd.Flags().StringVar(&flagBlockTime, "block-time", flagBlockTime, "time between heights")
	nodeCmd.Flags().StringVar(&flagNTPServer, "ntp-server", flagNTPServer, "ntp server to adjust the clock with")
	nodeCmd.Flags().StringVar(&flagRateLimit, "rate-limit", flagRateLimit, "api rate limit like '100-S'; empty to disable")
	nodeCmd.Flags().BoolVar(&flagPrintStack, "print-stack", flagPrintStack, "print the stack of api panics")
	nodeCmd.Flags().Var(&flagCORSOrigins, "cors", "allowed cors origins, comma separated")
	nodeCmd.Flags().BoolVar(&flagJSONRPC, "jsonrpc", flagJSONRPC, "serve the signed governance actions over json-rpc")
	nodeCmd.Flags().StringVar(&flagNetworkID, "network-id", flagNetworkID, "network id the json-rpc signatures are bound to")
	nodeCmd.Flags().BoolVar(&flagVerbose, "verbose", flagVerbose, "verbose")
	nodeCmd.Flags().IntVar(&flagPowerCacheSize, "power-cache-size", flagPowerCacheSize, "number of cached voting power lookups")

	rootCmd.AddCommand(nodeCmd)
}

func parseFlagsNode() (string, error) {
	var err error

	if (len(flagTLSCertFile) > 0) != (len(flagTLSKeyFile) > 0) {
		return "--tls-cert", fmt.Errorf("--tls-cert and --tls-key must be given together")
	}
	for _, f := range []string{flagTLSCertFile, flagTLSKeyFile} {
		if len(f) < 1 {
			continue
		}
		if _, err = os.Stat(f); os.IsNotExist(err) {
			return "--tls-cert", err
		}
	}

	if _, err = storage.NewConfigFromString(flagStorage); err != nil {
		return "--storage", err
	}

	if genesis, err = cgcommon.ParseISO8601(flagGenesis); err != nil {
		return "--genesis", err
	}
	if blockTime, err = time.ParseDuration(flagBlockTime); err != nil {
		return "--block-time", err
	}
	if blockTime <= 0 {
		return "--block-time", fmt.Errorf("block time must be positive")
	}

	if len(flagConfigFile) < 1 && len(flagDAO) < 1 {
		return "--dao", fmt.Errorf("--dao or --config must be given")
	}

	if len(flagRateLimit) > 0 {
		if _, err = api.RateLimitMiddleware(flagRateLimit); err != nil {
			return "--rate-limit", err
		}
	}

	if flagJSONRPC && len(flagNetworkID) < 1 {
		return "--network-id", fmt.Errorf("--network-id must be given with --jsonrpc")
	}

	if flagPowerCacheSize < 1 {
		return "--power-cache-size", fmt.Errorf("cache size must be positive")
	}

	if flagName, err := parseLogging(); err != nil {
		return flagName, err
	}

	log.Info("Starting congress")

	parsedFlags := []interface{}{}
	parsedFlags = append(parsedFlags, "\n\tbind", flagBind)
	parsedFlags = append(parsedFlags, "\n\tstorage", flagStorage)
	parsedFlags = append(parsedFlags, "\n\tconfig", flagConfigFile)
	parsedFlags = append(parsedFlags, "\n\tdao", flagDAO)
	parsedFlags = append(parsedFlags, "\n\tgenesis", flagGenesis)
	parsedFlags = append(parsedFlags, "\n\tblock-time", flagBlockTime)
	parsedFlags = append(parsedFlags, "\n\tntp-server", flagNTPServer)
	parsedFlags = append(parsedFlags, "\n\trate-limit", flagRateLimit)
	parsedFlags = append(parsedFlags, "\n\tcors", flagCORSOrigins.String())
	parsedFlags = append(parsedFlags, "\n\tjsonrpc", flagJSONRPC)
	parsedFlags = append(parsedFlags, "\n\tnetwork-id", flagNetworkID)
	parsedFlags = append(parsedFlags, "\n\tlog-level", flagLogLevel)
	parsedFlags = append(parsedFlags, "\n\tlog-output", flagLogOutput)

	log.Debug("parsed flags:", parsedFlags...)

	// NOTE instead of set `http2.VerboseLogs`, `GODEBUG="http2debug=2"` also
	// works.
	if flagVerbose {
		http2.VerboseLogs = true
	}

	return "", nil
}

// Node is everything a running congress node holds.
type Node struct {
	Storage  *storage.LevelDBBackend
	Registry *power.Registry
	Congress *congress.Congress
	Clock    *cgcommon.Clock
	Server   *http.Server
}

func newNode() (node *Node, err error) {
	node = &Node{}

	if node.Storage, err = openStorage(flagStorage); err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			node.Storage.Close()
		}
	}()

	if node.Registry, err = power.NewRegistry(node.Storage, flagPowerCacheSize); err != nil {
		return
	}

	var config congress.Config
	if config, err = loadConfig(flagConfigFile, flagDAO); err != nil {
		return
	}
	if node.Congress, err = congress.New(node.Storage, node.Registry, congress.LogExecutor{}, config); err != nil {
		return
	}

	node.Clock = cgcommon.NewClock(genesis, blockTime)
	if len(flagNTPServer) > 0 {
		if err := node.Clock.SyncNTP(flagNTPServer); err != nil {
			log.Warn("failed to sync clock with ntp server; local clock is used", "server", flagNTPServer, "error", err)
		} else {
			log.Debug("clock synced", "server", flagNTPServer, "offset", node.Clock.Offset())
		}
	}

	apiConfig := api.DefaultConfig()
	apiConfig.RateLimit = flagRateLimit
	apiConfig.PrintStack = flagPrintStack
	apiConfig.JSONRPC = flagJSONRPC
	apiConfig.NetworkID = []byte(flagNetworkID)
	if len(flagCORSOrigins) > 0 {
		apiConfig.AllowedOrigins = []string(flagCORSOrigins)
	}

	handler, err := api.NewHandlerAPI(node.Congress, node.Clock).Router(apiConfig)
	if err != nil {
		return
	}

	node.Server = &http.Server{
		Addr:              flagBind,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       30 * time.Second,
	}
	if len(flagTLSCertFile) > 0 {
		if err = http2.ConfigureServer(node.Server, &http2.Server{}); err != nil {
			return
		}
	}

	return
}

func (n *Node) listenAndServe() error {
	log.Info("api listening", "bind", n.Server.Addr, "tls", len(flagTLSCertFile) > 0)

	var err error
	if len(flagTLSCertFile) > 0 {
		err = n.Server.ListenAndServeTLS(flagTLSCertFile, flagTLSKeyFile)
	} else {
		err = n.Server.ListenAndServe()
	}
	if err == http.ErrServerClosed {
		return nil
	}

	return err
}

func (n *Node) stop() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := n.Server.Shutdown(ctx); err != nil {
		log.Error("failed to shutdown api", "error", err)
	}
	if err := n.Storage.Close(); err != nil {
		log.Error("failed to close storage", "error", err)
	}
}

func runNode() {
	metrics.InitPrometheusMetrics()
	metrics.SetVersion()

	node, err := newNode()
	if err != nil {
		log.Crit("failed to start node", "error", err)

		os.Exit(1)
	}

	var g run.Group
	{
		g.Add(func() error {
			return node.listenAndServe()
		}, func(error) {
			node.stop()
		})
	}
	{
		ticker := time.NewTicker(blockTime)
		done := make(chan struct{})
		g.Add(func() error {
			for {
				select {
				case <-ticker.C:
					metrics.Governance.SetHeight(node.Clock.Now().Height)
				case <-done:
					return nil
				}
			}
		}, func(error) {
			ticker.Stop()
			close(done)
		})
	}
	{
		cancel := make(chan struct{})
		g.Add(func() error {
			return common.Interrupt(cancel)
		}, func(error) {
			close(cancel)
		})
	}

	if err := g.Run(); err != nil {
		log.Info("node stopped", "reason", err)
	}
}
