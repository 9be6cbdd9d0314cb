package proposal

import (
	"encoding/json"
	"fmt"

	"boscoin.io/congress/lib/common"
	"boscoin.io/congress/lib/errors"
	"boscoin.io/congress/lib/voting"
)

const (
	MinChoices = 2
	MaxChoices = 20

	NoneOfTheAboveTitle       = "None of the above"
	NoneOfTheAboveDescription = "None of the above"
)

type OptionType uint8

const (
	OptionStandard OptionType = iota
	OptionNone
)

func (o OptionType) String() string {
	switch o {
	case OptionNone:
		return "none"
	default:
		return "standard"
	}
}

func (o OptionType) MarshalJSON() ([]byte, error) {
	return json.Marshal(o.String())
}

func (o *OptionType) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}

	switch s {
	case "standard":
		*o = OptionStandard
	case "none":
		*o = OptionNone
	default:
		return errors.InvalidVote.Clone().SetData("option_type", s)
	}

	return nil
}

// ChoiceInput is a choice as submitted by the proposer.
type ChoiceInput struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Msgs        []Message `json:"msgs"`
}

type Choice struct {
	Index       uint32     `json:"index"`
	OptionType  OptionType `json:"option_type"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Msgs        []Message  `json:"msgs"`
}

// NewChoices numbers the given choices and appends "None of the above".
func NewChoices(inputs []ChoiceInput) ([]Choice, error) {
	if len(inputs) < MinChoices || len(inputs) > MaxChoices {
		return nil, errors.WrongNumberOfChoices.Clone().
			SetData("choices", len(inputs)).
			SetData("min", MinChoices).
			SetData("max", MaxChoices)
	}

	choices := make([]Choice, 0, len(inputs)+1)
	for i, in := range inputs {
		msgs := in.Msgs
		if msgs == nil {
			msgs = []Message{}
		}
		choices = append(choices, Choice{
			Index:       uint32(i),
			OptionType:  OptionStandard,
			Title:       in.Title,
			Description: in.Description,
			Msgs:        msgs,
		})
	}

	choices = append(choices, Choice{
		Index:       uint32(len(inputs)),
		OptionType:  OptionNone,
		Title:       NoneOfTheAboveTitle,
		Description: NoneOfTheAboveDescription,
		Msgs:        []Message{},
	})

	return choices, nil
}

// MultipleChoiceProposal is won by the option with the most votes; its last
// choice is always "None of the above".
type MultipleChoiceProposal struct {
	Header
	Quorum  voting.PercentageThreshold
	Choices []Choice
	Votes   voting.MultipleChoiceVotes
}

func (p *MultipleChoiceProposal) Kind() string {
	return KindMultiple
}

func (p *MultipleChoiceProposal) Tally() voting.Tally {
	return &p.Votes
}

func (p *MultipleChoiceProposal) isNone(option voting.Choice) bool {
	return int(option) < len(p.Choices) && p.Choices[option].OptionType == OptionNone
}

func (p *MultipleChoiceProposal) quorumMet() bool {
	return voting.PercentageMet(p.Votes.Total(), p.TotalPower, p.Quorum)
}

// Messages returns the messages of the winning choice.
func (p *MultipleChoiceProposal) Messages() []Message {
	winner, ok := p.Votes.Result().(voting.SingleWinner)
	if !ok || int(winner.Option) >= len(p.Choices) {
		return nil
	}

	return p.Choices[winner.Option].Msgs
}

func (p *MultipleChoiceProposal) IsPassed(block common.BlockInfo) bool {
	if p.revotingOpen(block) || p.minVotingPeriodOpen(block) {
		return false
	}
	if !p.quorumMet() {
		return false
	}

	winner, ok := p.Votes.Result().(voting.SingleWinner)
	if !ok || p.isNone(winner.Option) {
		return false
	}
	if p.IsExpired(block) {
		return true
	}

	return p.Votes.IsUnbeatable(winner.Option, false, p.TotalPower)
}

func (p *MultipleChoiceProposal) IsRejected(block common.BlockInfo) bool {
	if p.revotingOpen(block) {
		return false
	}

	expired := p.IsExpired(block)

	switch r := p.Votes.Result().(type) {
	case voting.Tie:
		return expired || p.TotalPower <= p.Votes.Total()
	case voting.SingleWinner:
		none := p.isNone(r.Option)
		switch {
		case !expired:
			return none && p.Votes.IsUnbeatable(r.Option, true, p.TotalPower)
		case p.quorumMet():
			return none
		default:
			return true
		}
	default:
		panic(fmt.Errorf("unknown vote result: %T", r))
	}
}

type multipleHashable struct {
	Title       string
	Description string
	Proposer    string
	Choices     []Choice
}

func (p *MultipleChoiceProposal) ComputeHash() (string, error) {
	return common.MakeObjectHashString(multipleHashable{
		Title:       p.Title,
		Description: p.Description,
		Proposer:    p.Proposer,
		Choices:     p.Choices,
	})
}

type multipleJSON struct {
	headerJSON
	Kind    string                     `json:"kind"`
	Quorum  json.RawMessage            `json:"quorum"`
	Choices []Choice                   `json:"choices"`
	Votes   voting.MultipleChoiceVotes `json:"votes"`
}

func (p MultipleChoiceProposal) MarshalJSON() ([]byte, error) {
	h, err := p.Header.toJSON()
	if err != nil {
		return nil, err
	}
	quorum, err := json.Marshal(p.Quorum)
	if err != nil {
		return nil, err
	}

	return json.Marshal(multipleJSON{
		headerJSON: h,
		Kind:       KindMultiple,
		Quorum:     quorum,
		Choices:    p.Choices,
		Votes:      p.Votes,
	})
}

func (p *MultipleChoiceProposal) UnmarshalJSON(b []byte) error {
	var j multipleJSON
	if err := json.Unmarshal(b, &j); err != nil {
		return err
	}

	h, err := j.headerJSON.header()
	if err != nil {
		return err
	}
	quorum, err := voting.UnmarshalPercentageThreshold(j.Quorum)
	if err != nil {
		return err
	}

	p.Header = h
	p.Quorum = quorum
	p.Choices = j.Choices
	p.Votes = j.Votes

	return nil
}
