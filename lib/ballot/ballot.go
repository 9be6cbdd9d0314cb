package ballot

import (
	"encoding/json"
	"fmt"

	"boscoin.io/congress/lib/common"
	"boscoin.io/congress/lib/errors"
	"boscoin.io/congress/lib/storage"
	"boscoin.io/congress/lib/voting"
)

// Ballot is the vote of one voter on one proposal.
//
// models
//  * 'cb-<padded proposal id>-<voter>': `Ballot`
const BallotPrefix string = "cb-"

type Ballot struct {
	ProposalID uint64        `json:"proposal_id"`
	Voter      string        `json:"voter"`
	Power      common.Power  `json:"power"`
	Vote       voting.Choice `json:"vote"`
	Rationale  *string       `json:"rationale,omitempty"`
	// Height is where the ballot was last cast.
	Height uint64 `json:"height"`
}

func NewBallot(id uint64, voter string, power common.Power, vote voting.Choice, rationale *string, height uint64) *Ballot {
	return &Ballot{
		ProposalID: id,
		Voter:      voter,
		Power:      power,
		Vote:       vote,
		Rationale:  rationale,
		Height:     height,
	}
}

func (b *Ballot) String() string {
	return string(common.MustMarshalJSON(b))
}

func (b *Ballot) Save(st *storage.LevelDBBackend) error {
	return st.Put(GetBallotKey(b.ProposalID, b.Voter), b)
}

func GetBallotPrefix(id uint64) string {
	return fmt.Sprintf("%s%s-", BallotPrefix, common.PaddedUint64(id))
}

func GetBallotKey(id uint64, voter string) string {
	return GetBallotPrefix(id) + voter
}

func ExistsBallot(st *storage.LevelDBBackend, id uint64, voter string) (bool, error) {
	return st.Has(GetBallotKey(id, voter))
}

func GetBallot(st *storage.LevelDBBackend, id uint64, voter string) (b *Ballot, err error) {
	if err = st.Get(GetBallotKey(id, voter), &b); err != nil {
		if errors.Is(err, errors.StorageRecordDoesNotExist) {
			err = errors.NoSuchVote.Clone().SetData("id", id).SetData("voter", voter)
		}
		return nil, err
	}

	return
}

// GetBallotsByProposal iterates the ballots of a proposal ordered by voter.
// The cursor of the options is a voter address.
func GetBallotsByProposal(st *storage.LevelDBBackend, id uint64, options storage.ListOptions) (func() (*Ballot, bool, []byte), func()) {
	if options != nil && len(options.Cursor()) > 0 {
		options = storage.NewDefaultListOptions(
			options.Reverse(),
			[]byte(GetBallotKey(id, string(options.Cursor()))),
			options.Limit(),
		)
	}

	iterFunc, closeFunc := st.GetIterator(GetBallotPrefix(id), options)

	return (func() (*Ballot, bool, []byte) {
			item, hasNext := iterFunc()
			if !hasNext {
				return nil, false, nil
			}

			var b Ballot
			if err := json.Unmarshal(item.Value, &b); err != nil {
				return nil, false, nil
			}

			return &b, true, []byte(b.Voter)
		}), (func() {
			closeFunc()
		})
}
