package resource

import (
	logging "github.com/inconshreveable/log15"

	"boscoin.io/congress/lib/common"
)

var log logging.Logger = common.NewLogger("api-resource")
