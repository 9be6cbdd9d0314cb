package congress

import (
	"boscoin.io/congress/lib/errors"
	"boscoin.io/congress/lib/metrics"
	"boscoin.io/congress/lib/proposal"
)

// checkMember fails with `Unauthorized` when the config restricts execution
// to members and the sender had no voting power when the proposal started.
func (a *action) checkMember(config Config, h *proposal.Header) error {
	if !config.OnlyMembersExecute {
		return nil
	}

	p, err := a.c.source.VotingPowerAt(a.env.Sender, h.StartHeight)
	if err != nil {
		return err
	}
	if p.IsZero() {
		return errors.Unauthorized.Clone().SetData("sender", a.env.Sender)
	}

	return nil
}

// Execute runs the messages of a passed proposal. While the veto timelock
// runs only the vetoer may execute, and only with early execution enabled.
func (c *Congress) Execute(env Env, id uint64) error {
	return c.run(metrics.ActionExecute, env, func(a *action) error {
		config, err := a.config()
		if err != nil {
			return err
		}

		record, err := a.proposal(id)
		if err != nil {
			return err
		}
		if err = a.updateStatus(record); err != nil {
			return err
		}

		h := record.GetHeader()
		switch h.Status.(type) {
		case proposal.Passed:
			if err = a.checkMember(config, h); err != nil {
				return err
			}
		case proposal.VetoTimelock:
			if h.Veto != nil && h.Veto.IsVetoer(env.Sender) {
				if err = h.Veto.CheckEarlyExecuteEnabled(); err != nil {
					return err
				}
				break
			}
			if err = a.checkMember(config, h); err != nil {
				return err
			}
			return errors.Timelocked.Clone().SetData("id", id).SetData("until", h.Status.String())
		default:
			return errors.WrongExecuteStatus.Clone().SetData("id", id).SetData("status", h.Status.String())
		}

		next := proposal.Status(proposal.Executed{})
		if err = a.c.executor.Execute(id, record.Messages()); err != nil {
			if !config.CloseProposalOnExecutionFailure {
				return errors.ExecutionFailed.Clone().SetData("id", id).SetData("error", err.Error())
			}

			log.Warn("proposal execution failed", "id", id, "error", err)
			next = proposal.ExecutionFailed{}
		}

		if err = a.setStatus(record, next); err != nil {
			return err
		}

		return a.save(record)
	})
}

// Close closes a rejected proposal.
func (c *Congress) Close(env Env, id uint64) error {
	return c.run(metrics.ActionClose, env, func(a *action) error {
		record, err := a.proposal(id)
		if err != nil {
			return err
		}
		if err = a.updateStatus(record); err != nil {
			return err
		}

		switch s := record.GetHeader().Status.(type) {
		case proposal.Rejected:
		case proposal.Open:
			return errors.NotExpired.Clone().SetData("id", id)
		default:
			return errors.WrongCloseStatus.Clone().SetData("id", id).SetData("status", s.String())
		}

		if err = a.setStatus(record, proposal.Closed{}); err != nil {
			return err
		}

		return a.save(record)
	})
}

// Veto blocks a proposal under a veto configuration. Only the vetoer can veto.
func (c *Congress) Veto(env Env, id uint64) error {
	return c.run(metrics.ActionVeto, env, func(a *action) error {
		record, err := a.proposal(id)
		if err != nil {
			return err
		}

		h := record.GetHeader()
		if h.Veto == nil {
			return errors.NoVetoConfiguration.Clone().SetData("id", id)
		}
		if err = h.Veto.CheckIsVetoer(env.Sender); err != nil {
			return err
		}
		if err = a.updateStatus(record); err != nil {
			return err
		}

		next, err := h.Veto.Veto(h.Status)
		if err != nil {
			return err
		}
		if err = a.setStatus(record, next); err != nil {
			return err
		}

		return a.save(record)
	})
}

// UpdateConfig replaces the config. Only the governing address may update it
// and existing proposals keep the rules they were created with.
func (c *Congress) UpdateConfig(env Env, config Config) error {
	return c.run(metrics.ActionUpdateConfig, env, func(a *action) error {
		current, err := a.config()
		if err != nil {
			return err
		}
		if current.DAO != env.Sender {
			return errors.Unauthorized.Clone().SetData("sender", env.Sender)
		}
		if err = config.Validate(); err != nil {
			return err
		}

		if err = SaveConfig(a.ts, config); err != nil {
			return err
		}
		log.Info("config updated", "dao", config.DAO, "threshold", config.Threshold)

		return nil
	})
}
