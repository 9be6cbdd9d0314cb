package congress

import (
	"boscoin.io/congress/lib/common/observer"
	"boscoin.io/congress/lib/errors"
	"boscoin.io/congress/lib/metrics"
	"boscoin.io/congress/lib/power"
	"boscoin.io/congress/lib/proposal"
	"boscoin.io/congress/lib/voting"
)

type ProposeMsg struct {
	Title       string             `json:"title"`
	Description string             `json:"description"`
	Msgs        []proposal.Message `json:"msgs"`
}

type ProposeMultipleMsg struct {
	Title       string                 `json:"title"`
	Description string                 `json:"description"`
	Choices     []proposal.ChoiceInput `json:"choices"`
}

// newHeader checks the creation policy and takes the voting power snapshot
// of a new proposal.
func (a *action) newHeader(config Config, title, description string) (h proposal.Header, err error) {
	block := a.env.Block

	if config.CreationPolicy == CreationMembers {
		p, err := a.c.source.VotingPowerAt(a.env.Sender, block.Height)
		if err != nil {
			return h, err
		}
		if p.IsZero() {
			return h, errors.Unauthorized.Clone().SetData("sender", a.env.Sender)
		}
	}

	total, err := a.c.source.TotalVotingPowerAt(block.Height)
	if err != nil {
		return
	}
	if sealer, ok := a.c.source.(power.Sealer); ok {
		if err = sealer.Seal(a.ts, block.Height); err != nil {
			return
		}
	}

	id, err := nextProposalID(a.ts)
	if err != nil {
		return
	}

	h = proposal.Header{
		ID:            id,
		Title:         title,
		Description:   description,
		Proposer:      a.env.Sender,
		StartHeight:   block.Height,
		Expiration:    config.MaxVotingPeriod.After(block),
		TotalPower:    total,
		AllowRevoting: config.AllowRevoting,
		Status:        proposal.Open{},
	}
	if config.MinVotingPeriod != nil {
		e := config.MinVotingPeriod.After(block)
		h.MinVotingPeriod = &e
	}
	if config.Veto != nil {
		veto := *config.Veto
		h.Veto = &veto
	}

	return
}

// create resolves the status of the new record right away, a proposal may
// already be decided at creation, and stores it.
func (a *action) create(record proposal.Record) error {
	if err := a.updateStatus(record); err != nil {
		return err
	}
	if _, err := checkProposalSize(record); err != nil {
		return err
	}
	if err := a.save(record); err != nil {
		return err
	}

	h := record.GetHeader()
	a.hooks = append([]hook{newHook(observer.EventProposalCreated, h.ID, ProposalCreated{
		EventID:  h.Hash,
		ID:       h.ID,
		Kind:     record.Kind(),
		Proposer: h.Proposer,
	})}, a.hooks...)

	metrics.Governance.AddProposal(record.Kind())
	log.Debug("proposal created", "id", h.ID, "kind", record.Kind(), "proposer", h.Proposer, "status", h.Status)

	return nil
}

// Propose creates a single choice proposal and returns its id.
func (c *Congress) Propose(env Env, msg ProposeMsg) (id uint64, err error) {
	err = c.run(metrics.ActionPropose, env, func(a *action) error {
		config, err := a.config()
		if err != nil {
			return err
		}

		h, err := a.newHeader(config, msg.Title, msg.Description)
		if err != nil {
			return err
		}

		msgs := msg.Msgs
		if msgs == nil {
			msgs = []proposal.Message{}
		}

		p := &proposal.Proposal{
			Header:    h,
			Threshold: config.Threshold,
			Msgs:      msgs,
		}
		if p.Hash, err = p.ComputeHash(); err != nil {
			return err
		}
		if err = a.create(p); err != nil {
			return err
		}

		id = h.ID
		return nil
	})

	return
}

// ProposeMultiple creates a multiple choice proposal; "None of the above" is
// added to the given choices.
func (c *Congress) ProposeMultiple(env Env, msg ProposeMultipleMsg) (id uint64, err error) {
	err = c.run(metrics.ActionProposeMultiple, env, func(a *action) error {
		choices, err := proposal.NewChoices(msg.Choices)
		if err != nil {
			return err
		}

		config, err := a.config()
		if err != nil {
			return err
		}

		h, err := a.newHeader(config, msg.Title, msg.Description)
		if err != nil {
			return err
		}

		p := &proposal.MultipleChoiceProposal{
			Header:  h,
			Quorum:  config.Quorum,
			Choices: choices,
			Votes:   voting.NewMultipleChoiceVotes(len(choices)),
		}
		if p.Hash, err = p.ComputeHash(); err != nil {
			return err
		}
		if err = a.create(p); err != nil {
			return err
		}

		id = h.ID
		return nil
	})

	return
}
