package congress

import (
	"strconv"

	"boscoin.io/congress/lib/ballot"
	"boscoin.io/congress/lib/common"
	"boscoin.io/congress/lib/proposal"
	"boscoin.io/congress/lib/storage"
)

// Queries never write: the status of a returned proposal is recomputed for
// the given block but not stored.

func limit(l uint64) uint64 {
	switch {
	case l == 0:
		return storage.DefaultLimitListOptions
	case l > storage.DefaultMaxLimitListOptions:
		return storage.DefaultMaxLimitListOptions
	}

	return l
}

func withCurrentStatus(record proposal.Record, block common.BlockInfo) (proposal.Record, error) {
	current, err := proposal.CurrentStatus(record, block)
	if err != nil {
		return nil, err
	}
	record.GetHeader().Status = current

	return record, nil
}

func (c *Congress) GetProposal(block common.BlockInfo, id uint64) (proposal.Record, error) {
	record, err := GetProposal(c.st, id)
	if err != nil {
		return nil, err
	}

	return withCurrentStatus(record, block)
}

func (c *Congress) listProposals(block common.BlockInfo, reverse bool, cursor *uint64, l uint64) (records []proposal.Record, err error) {
	var options storage.ListOptions = storage.NewDefaultListOptions(reverse, nil, limit(l))
	if cursor != nil {
		options.SetCursor([]byte(strconv.FormatUint(*cursor, 10)))
	}

	iterFunc, closeFunc := GetProposals(c.st, options)
	defer closeFunc()

	records = []proposal.Record{}
	for {
		record, hasNext, _ := iterFunc()
		if !hasNext {
			break
		}
		if record, err = withCurrentStatus(record, block); err != nil {
			return nil, err
		}
		records = append(records, record)
	}

	return
}

// ListProposals returns the proposals with an id greater than `after`, in
// ascending order.
func (c *Congress) ListProposals(block common.BlockInfo, after *uint64, l uint64) ([]proposal.Record, error) {
	return c.listProposals(block, false, after, l)
}

// ReverseProposals returns the proposals with an id lower than `before`, in
// descending order.
func (c *Congress) ReverseProposals(block common.BlockInfo, before *uint64, l uint64) ([]proposal.Record, error) {
	return c.listProposals(block, true, before, l)
}

func (c *Congress) GetVote(id uint64, voter string) (*ballot.Ballot, error) {
	if _, err := GetProposal(c.st, id); err != nil {
		return nil, err
	}

	return ballot.GetBallot(c.st, id, voter)
}

// ListVotes returns the ballots of a proposal ordered by voter, starting
// after the voter `after`.
func (c *Congress) ListVotes(id uint64, after string, l uint64) (ballots []*ballot.Ballot, err error) {
	if _, err = GetProposal(c.st, id); err != nil {
		return
	}

	var options storage.ListOptions = storage.NewDefaultListOptions(false, nil, limit(l))
	if len(after) > 0 {
		options.SetCursor([]byte(after))
	}

	iterFunc, closeFunc := ballot.GetBallotsByProposal(c.st, id, options)
	defer closeFunc()

	ballots = []*ballot.Ballot{}
	for {
		b, hasNext, _ := iterFunc()
		if !hasNext {
			break
		}
		ballots = append(ballots, b)
	}

	return
}

func (c *Congress) ProposalCount() (uint64, error) {
	return GetProposalCount(c.st)
}

func (c *Congress) Config() (Config, error) {
	return GetConfig(c.st)
}
