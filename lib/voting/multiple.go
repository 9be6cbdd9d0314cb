package voting

import (
	"encoding/json"

	"boscoin.io/congress/lib/common"
	"boscoin.io/congress/lib/errors"
)

// MultipleChoiceVotes holds one weight per option.
type MultipleChoiceVotes struct {
	Weights []common.Power
}

func NewMultipleChoiceVotes(options int) MultipleChoiceVotes {
	return MultipleChoiceVotes{Weights: make([]common.Power, options)}
}

func (v MultipleChoiceVotes) Total() common.Power {
	var total common.Power
	for _, w := range v.Weights {
		total = total.SaturatingAdd(w)
	}

	return total
}

func (v MultipleChoiceVotes) check(option Choice) error {
	if int(option) >= len(v.Weights) {
		return errors.InvalidVote.Clone().SetData("option", option)
	}

	return nil
}

func (v *MultipleChoiceVotes) Add(option Choice, power common.Power) error {
	if err := v.check(option); err != nil {
		return err
	}

	added, err := v.Weights[option].Add(power)
	if err != nil {
		return err
	}
	v.Weights[option] = added

	return nil
}

func (v *MultipleChoiceVotes) Remove(option Choice, power common.Power) error {
	if err := v.check(option); err != nil {
		return err
	}

	removed, err := v.Weights[option].Sub(power)
	if err != nil {
		return err
	}
	v.Weights[option] = removed

	return nil
}

func (v MultipleChoiceVotes) Clone() MultipleChoiceVotes {
	w := make([]common.Power, len(v.Weights))
	copy(w, v.Weights)

	return MultipleChoiceVotes{Weights: w}
}

func (v MultipleChoiceVotes) MarshalJSON() ([]byte, error) {
	w := v.Weights
	if w == nil {
		w = []common.Power{}
	}

	return json.Marshal(struct {
		Weights []common.Power `json:"vote_weights"`
	}{Weights: w})
}

func (v *MultipleChoiceVotes) UnmarshalJSON(b []byte) error {
	var j struct {
		Weights []common.Power `json:"vote_weights"`
	}
	if err := json.Unmarshal(b, &j); err != nil {
		return err
	}
	v.Weights = j.Weights

	return nil
}

// VoteResult is either `SingleWinner` or `Tie`.
type VoteResult interface {
	isVoteResult()
}

type SingleWinner struct {
	Option Choice
	Power  common.Power
}

type Tie struct {
	Power common.Power
}

func (SingleWinner) isVoteResult() {}
func (Tie) isVoteResult()          {}

// Result finds the option with the highest weight. When several options
// share the highest weight the result is a `Tie`, so an all-zero tally is
// always a tie.
func (v MultipleChoiceVotes) Result() VoteResult {
	var best common.Power
	var winner Choice
	var count int

	for i, w := range v.Weights {
		switch {
		case count == 0 || w > best:
			best, winner, count = w, Choice(i), 1
		case w == best:
			count++
		}
	}

	if count != 1 {
		return Tie{Power: best}
	}

	return SingleWinner{Option: winner, Power: best}
}

// IsUnbeatable reports whether the runner-up could no longer overtake
// `winner` even if all the outstanding power went to it. A "none of the
// above" winner only needs to stay level, since a tie rejects the proposal
// anyway.
func (v MultipleChoiceVotes) IsUnbeatable(winner Choice, noneOfTheAbove bool, totalPower common.Power) bool {
	if int(winner) >= len(v.Weights) {
		return false
	}

	var second common.Power
	for i, w := range v.Weights {
		if Choice(i) == winner {
			continue
		}
		if w > second {
			second = w
		}
	}

	outstanding := totalPower.SaturatingSub(v.Total())
	reachable := second.SaturatingAdd(outstanding)

	if noneOfTheAbove {
		return v.Weights[winner] >= reachable
	}

	return v.Weights[winner] > reachable
}
