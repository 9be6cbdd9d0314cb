package congress

import (
	"encoding/json"
	"fmt"
	"strconv"

	"boscoin.io/congress/lib/common"
	"boscoin.io/congress/lib/errors"
	"boscoin.io/congress/lib/proposal"
	"boscoin.io/congress/lib/storage"
)

// Proposals are stored by id; ids are sequential and start from 1.
//
// models
//  * 'cp-<padded proposal id>': `proposal.Proposal` or `proposal.MultipleChoiceProposal`
//  * 'cc-proposal-count': number of created proposals
const (
	ProposalPrefix   string = "cp-"
	ProposalCountKey string = "cc-proposal-count"

	// MaxProposalSize bounds the encoded proposal, so listing proposals
	// stays within reasonable responses.
	MaxProposalSize int = 30000
)

func GetProposalKey(id uint64) string {
	return fmt.Sprintf("%s%s", ProposalPrefix, common.PaddedUint64(id))
}

func GetProposalCount(st *storage.LevelDBBackend) (count uint64, err error) {
	if err = st.Get(ProposalCountKey, &count); err != nil {
		if errors.Is(err, errors.StorageRecordDoesNotExist) {
			return 0, nil
		}
		return
	}

	return
}

// nextProposalID advances the proposal counter; it must run in the same
// transaction the proposal is saved in.
func nextProposalID(st *storage.LevelDBBackend) (uint64, error) {
	count, err := GetProposalCount(st)
	if err != nil {
		return 0, err
	}

	count++
	if err = st.Put(ProposalCountKey, count); err != nil {
		return 0, err
	}

	return count, nil
}

// checkProposalSize refuses records whose encoded form is over
// `MaxProposalSize`.
func checkProposalSize(record proposal.Record) ([]byte, error) {
	b, err := json.Marshal(record)
	if err != nil {
		return nil, err
	}
	if len(b) > MaxProposalSize {
		return nil, errors.ProposalTooLarge.Clone().
			SetData("size", len(b)).
			SetData("max", MaxProposalSize)
	}

	return b, nil
}

func SaveProposal(st *storage.LevelDBBackend, record proposal.Record) error {
	return st.Put(GetProposalKey(record.GetHeader().ID), record)
}

func GetProposal(st *storage.LevelDBBackend, id uint64) (proposal.Record, error) {
	b, err := st.GetRaw(GetProposalKey(id))
	if err != nil {
		if errors.Is(err, errors.StorageRecordDoesNotExist) {
			return nil, errors.NoSuchProposal.Clone().SetData("id", id)
		}
		return nil, err
	}

	return proposal.Unmarshal(b)
}

// GetProposals iterates the proposals by id. The cursor of the options is
// a proposal id.
func GetProposals(st *storage.LevelDBBackend, options storage.ListOptions) (func() (proposal.Record, bool, []byte), func()) {
	if options != nil && len(options.Cursor()) > 0 {
		var cursor []byte
		if id, err := strconv.ParseUint(string(options.Cursor()), 10, 64); err == nil {
			cursor = []byte(GetProposalKey(id))
		}
		options = storage.NewDefaultListOptions(options.Reverse(), cursor, options.Limit())
	}

	iterFunc, closeFunc := st.GetIterator(ProposalPrefix, options)

	return (func() (proposal.Record, bool, []byte) {
			item, hasNext := iterFunc()
			if !hasNext {
				return nil, false, nil
			}

			record, err := proposal.Unmarshal(item.Value)
			if err != nil {
				log.Error("failed to decode proposal", "key", string(item.Key), "error", err)
				return nil, false, nil
			}

			return record, true, []byte(strconv.FormatUint(record.GetHeader().ID, 10))
		}), (func() {
			closeFunc()
		})
}
