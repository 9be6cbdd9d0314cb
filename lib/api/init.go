package api

import (
	logging "github.com/inconshreveable/log15"

	"boscoin.io/congress/lib/common"
)

var log logging.Logger = common.NewLogger("api")

func SetLogging(level logging.Lvl, handler logging.Handler) {
	common.SetLogging(log, level, handler)
}
