package congress

import (
	"fmt"

	"boscoin.io/congress/lib/common"
	"boscoin.io/congress/lib/errors"
	"boscoin.io/congress/lib/storage"
)

// Account counts the signed actions of a sender. A signed action must
// carry the current `SequenceID`, which then moves forward by one.
//
// models
//  * 'ca-<address>': `Account`
const AccountPrefix string = "ca-"

type Account struct {
	Address    string `json:"address"`
	SequenceID uint64 `json:"sequence_id"`
}

func GetAccountKey(address string) string {
	return fmt.Sprintf("%s%s", AccountPrefix, address)
}

// GetAccount returns the account of `address`; an address which never
// signed an action has the sequence id 0.
func GetAccount(st *storage.LevelDBBackend, address string) (account Account, err error) {
	if err = st.Get(GetAccountKey(address), &account); err != nil {
		if errors.Is(err, errors.StorageRecordDoesNotExist) {
			return Account{Address: address}, nil
		}
		return
	}

	return
}

// useSequenceID checks `sequenceID` against the account of `address` and
// advances it; it must run in the transaction of the action.
func useSequenceID(st *storage.LevelDBBackend, address string, sequenceID uint64) error {
	account, err := GetAccount(st, address)
	if err != nil {
		return err
	}
	if account.SequenceID != sequenceID {
		return errors.InvalidSequenceID.Clone().
			SetData("sequence_id", sequenceID).
			SetData("expected", account.SequenceID)
	}

	account.SequenceID++
	if account.SequenceID == 0 {
		return errors.Overflow.Clone().SetData("sequence_id", sequenceID)
	}

	return st.Put(GetAccountKey(address), account)
}

// Account returns the account of `address` with the sequence id its next
// signed action must carry.
func (c *Congress) Account(address string) (Account, error) {
	if err := common.CheckAddress(address); err != nil {
		return Account{}, err
	}

	return GetAccount(c.st, address)
}
