package common

import (
	"github.com/stellar/go/keypair"

	"boscoin.io/congress/lib/errors"
)

// CheckAddress accepts only public addresses; secret seeds are rejected so
// they never end up stored in a proposal or ballot.
func CheckAddress(address string) error {
	kp, err := keypair.Parse(address)
	if err != nil {
		return errors.InvalidAddress.Clone().SetData("address", address)
	}
	if _, ok := kp.(*keypair.FromAddress); !ok {
		return errors.InvalidAddress.Clone().SetData("address", "<secret seed>")
	}

	return nil
}
