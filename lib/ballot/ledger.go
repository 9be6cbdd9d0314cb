package ballot

import (
	"boscoin.io/congress/lib/common"
	"boscoin.io/congress/lib/errors"
	"boscoin.io/congress/lib/proposal"
	"boscoin.io/congress/lib/storage"
	"boscoin.io/congress/lib/voting"
)

// Cast records the vote of `voter` and updates the tally of the record. With
// revoting, a previous ballot is taken out of the tally before the new one
// is added. Both the ballot and the record are expected to be written within
// the transaction of `st`; the record itself is saved by the caller.
func Cast(
	st *storage.LevelDBBackend,
	record proposal.Record,
	voter string,
	power common.Power,
	vote voting.Choice,
	rationale *string,
	block common.BlockInfo,
) (*Ballot, error) {
	h := record.GetHeader()

	if h.IsExpired(block) {
		return nil, errors.Expired.Clone().SetData("id", h.ID)
	}
	if power.IsZero() {
		return nil, errors.NotRegistered.Clone().SetData("voter", voter)
	}

	tally := record.Tally()

	existing, err := GetBallot(st, h.ID, voter)
	switch {
	case err == nil:
		if !h.AllowRevoting {
			return nil, errors.AlreadyVoted.Clone().SetData("id", h.ID).SetData("voter", voter)
		}
		if existing.Vote == vote {
			return nil, errors.AlreadyCast.Clone().SetData("id", h.ID).SetData("voter", voter)
		}
		if err = tally.Remove(existing.Vote, existing.Power); err != nil {
			return nil, err
		}
	case errors.Is(err, errors.NoSuchVote):
	default:
		return nil, err
	}

	if err = tally.Add(vote, power); err != nil {
		return nil, err
	}

	b := NewBallot(h.ID, voter, power, vote, rationale, block.Height)
	if err = b.Save(st); err != nil {
		return nil, err
	}

	return b, nil
}

// UpdateRationale replaces the rationale of an existing ballot; the vote
// itself is untouched.
func UpdateRationale(st *storage.LevelDBBackend, id uint64, voter string, rationale *string) (*Ballot, error) {
	b, err := GetBallot(st, id, voter)
	if err != nil {
		return nil, err
	}

	b.Rationale = rationale
	if err = b.Save(st); err != nil {
		return nil, err
	}

	return b, nil
}
