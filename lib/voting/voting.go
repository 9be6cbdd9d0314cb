package voting

import (
	"fmt"

	"boscoin.io/congress/lib/common"
	"boscoin.io/congress/lib/errors"
)

// Choice is the option a ballot is cast for. Single choice proposals use
// `Yes`, `No` and `Abstain`; multiple choice proposals use the option index.
type Choice uint32

const (
	Yes Choice = iota
	No
	Abstain
)

func (c Choice) String() string {
	switch c {
	case Yes:
		return "yes"
	case No:
		return "no"
	case Abstain:
		return "abstain"
	default:
		return fmt.Sprintf("choice(%d)", uint32(c))
	}
}

func ParseChoice(s string) (Choice, error) {
	switch s {
	case "yes":
		return Yes, nil
	case "no":
		return No, nil
	case "abstain":
		return Abstain, nil
	default:
		return 0, errors.InvalidVote.Clone().SetData("vote", s)
	}
}

// Votes is the tally of a single choice proposal.
type Votes struct {
	Yes     common.Power `json:"yes"`
	No      common.Power `json:"no"`
	Abstain common.Power `json:"abstain"`
}

func NewVotes(choice Choice, power common.Power) (Votes, error) {
	var v Votes
	if err := v.Add(choice, power); err != nil {
		return Votes{}, err
	}

	return v, nil
}

// Total returns the power of every cast vote; it saturates instead of
// wrapping.
func (v Votes) Total() common.Power {
	return v.Yes.SaturatingAdd(v.No).SaturatingAdd(v.Abstain)
}

func (v *Votes) slot(choice Choice) (*common.Power, error) {
	switch choice {
	case Yes:
		return &v.Yes, nil
	case No:
		return &v.No, nil
	case Abstain:
		return &v.Abstain, nil
	default:
		return nil, errors.InvalidVote.Clone().SetData("vote", choice)
	}
}

func (v *Votes) Add(choice Choice, power common.Power) error {
	s, err := v.slot(choice)
	if err != nil {
		return err
	}

	added, err := s.Add(power)
	if err != nil {
		return err
	}
	*s = added

	return nil
}

func (v *Votes) Remove(choice Choice, power common.Power) error {
	s, err := v.slot(choice)
	if err != nil {
		return err
	}

	removed, err := s.Sub(power)
	if err != nil {
		return err
	}
	*s = removed

	return nil
}

// Tally is the running count of a proposal, either `*Votes` or
// `*MultipleChoiceVotes`.
type Tally interface {
	Add(Choice, common.Power) error
	Remove(Choice, common.Power) error
	Total() common.Power
}
