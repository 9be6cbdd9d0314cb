package congress

import (
	"boscoin.io/congress/lib/ballot"
	"boscoin.io/congress/lib/common"
	"boscoin.io/congress/lib/common/observer"
	"boscoin.io/congress/lib/metrics"
	"boscoin.io/congress/lib/voting"
)

// Vote casts the ballot of the sender with the voting power it had when the
// proposal started. The status is recomputed afterwards, so a vote may pass
// or reject the proposal before its expiration.
func (c *Congress) Vote(env Env, id uint64, choice voting.Choice, rationale *string) error {
	return c.run(metrics.ActionVote, env, func(a *action) error {
		record, err := a.proposal(id)
		if err != nil {
			return err
		}

		h := record.GetHeader()
		power, err := c.source.VotingPowerAt(env.Sender, h.StartHeight)
		if err != nil {
			return err
		}

		b, err := ballot.Cast(a.ts, record, env.Sender, power, choice, rationale, env.Block)
		if err != nil {
			return err
		}

		a.hooks = append(a.hooks, newHook(observer.EventVoteCast, id, VoteCast{
			EventID: common.GenerateUUID(),
			ID:      id,
			Voter:   b.Voter,
			Vote:    b.Vote,
			Power:   b.Power,
		}))

		if err = a.updateStatus(record); err != nil {
			return err
		}
		if err = a.save(record); err != nil {
			return err
		}

		metrics.Governance.AddVote(record.Kind())
		log.Debug("vote cast", "id", id, "voter", b.Voter, "vote", b.Vote, "power", b.Power, "status", h.Status)

		return nil
	})
}

// UpdateRationale changes the rationale of the sender's ballot; the vote is
// kept.
func (c *Congress) UpdateRationale(env Env, id uint64, rationale *string) error {
	return c.run(metrics.ActionUpdateRationale, env, func(a *action) error {
		record, err := a.proposal(id)
		if err != nil {
			return err
		}

		_, err = ballot.UpdateRationale(a.ts, record.GetHeader().ID, env.Sender, rationale)
		return err
	})
}
