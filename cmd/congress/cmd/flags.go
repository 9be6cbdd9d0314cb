package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	logging "github.com/inconshreveable/log15"
	isatty "github.com/mattn/go-isatty"

	"boscoin.io/congress/lib/api"
	"boscoin.io/congress/lib/common"
	"boscoin.io/congress/lib/congress"
	"boscoin.io/congress/lib/power"
	"boscoin.io/congress/lib/storage"
)

const defaultLogLevel logging.Lvl = logging.LvlInfo

var (
	flagLogLevel  string = common.GetENVValue("CONGRESS_LOG_LEVEL", defaultLogLevel.String())
	flagLogOutput string = common.GetENVValue("CONGRESS_LOG_OUTPUT", "")
	flagStorage   string
)

var (
	logLevel logging.Lvl
	log      logging.Logger = logging.New("module", "main")
)

func init() {
	currentDirectory, err := os.Getwd()
	if err == nil {
		currentDirectory, err = filepath.Abs(currentDirectory)
	}
	if err != nil {
		currentDirectory = "."
	}
	flagStorage = common.GetENVValue("CONGRESS_STORAGE", fmt.Sprintf("file://%s/db", currentDirectory))

	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", flagLogLevel, "log level, {crit, error, warn, info, debug}")
	rootCmd.PersistentFlags().StringVar(&flagLogOutput, "log-output", flagLogOutput, "set log output file")
	rootCmd.PersistentFlags().StringVar(&flagStorage, "storage", flagStorage, "storage uri, 'file:///path' or 'memory://'")
}

// parseLogging sets the handler of every package logger from
// `--log-level` and `--log-output`.
func parseLogging() (string, error) {
	var err error
	if logLevel, err = logging.LvlFromString(flagLogLevel); err != nil {
		return "--log-level", err
	}

	var formatter logging.Format
	if isatty.IsTerminal(os.Stdout.Fd()) {
		formatter = logging.TerminalFormat()
	} else {
		formatter = common.JsonFormatEx(false, true)
	}
	logHandler := logging.StreamHandler(os.Stdout, formatter)

	if len(flagLogOutput) > 0 {
		if logHandler, err = logging.FileHandler(flagLogOutput, common.JsonFormatEx(false, true)); err != nil {
			return "--log-output", err
		}
	}

	common.SetLogging(log, logLevel, logHandler)
	congress.SetLogging(logLevel, logHandler)
	power.SetLogging(logLevel, logHandler)
	api.SetLogging(logLevel, logHandler)

	return "", nil
}

func openStorage(uri string) (*storage.LevelDBBackend, error) {
	config, err := storage.NewConfigFromString(uri)
	if err != nil {
		return nil, err
	}

	st := &storage.LevelDBBackend{}
	if err = st.Init(config); err != nil {
		return nil, err
	}

	return st, nil
}
