package proposal

import (
	"boscoin.io/congress/lib/common"
	"boscoin.io/congress/lib/errors"
)

// VetoConfig lets `Vetoer` block a passed proposal while it waits out
// `TimelockDuration` after its voting expiration.
type VetoConfig struct {
	TimelockDuration common.Duration `json:"timelock_duration" yaml:"timelock_duration"`
	Vetoer           string          `json:"vetoer" yaml:"vetoer"`
	EarlyExecute     bool            `json:"early_execute" yaml:"early_execute"`
	VetoBeforePassed bool            `json:"veto_before_passed" yaml:"veto_before_passed"`
}

// Validate checks the vetoer address and that the timelock is measured in the
// same unit as the voting period it is added to.
func (v VetoConfig) Validate(maxVotingPeriod common.Duration) error {
	if err := common.CheckAddress(v.Vetoer); err != nil {
		return err
	}
	if err := v.TimelockDuration.IsValid(); err != nil {
		return err
	}
	if v.TimelockDuration.UnitsMismatch(maxVotingPeriod) {
		return errors.TimelockDurationUnitMismatch.Clone().
			SetData("timelock_duration", v.TimelockDuration.String()).
			SetData("max_voting_period", maxVotingPeriod.String())
	}

	return nil
}

func (v VetoConfig) IsVetoer(address string) bool {
	return v.Vetoer == address
}

func (v VetoConfig) CheckIsVetoer(address string) error {
	if !v.IsVetoer(address) {
		return errors.Unauthorized.Clone().SetData("sender", address)
	}

	return nil
}

func (v VetoConfig) CheckEarlyExecuteEnabled() error {
	if !v.EarlyExecute {
		return errors.NoEarlyExecute
	}

	return nil
}

func (v VetoConfig) CheckVetoBeforePassedEnabled() error {
	if !v.VetoBeforePassed {
		return errors.NoVetoBeforePassed
	}

	return nil
}

// Veto returns the status a proposal currently in `current` gets when the
// vetoer vetoes it. `current` must already be recomputed for this block; a
// `Passed` proposal under a veto configuration has outlived its timelock.
func (v VetoConfig) Veto(current Status) (Status, error) {
	switch current.(type) {
	case Open:
		if err := v.CheckVetoBeforePassedEnabled(); err != nil {
			return nil, err
		}
		return Vetoed{}, nil
	case VetoTimelock:
		return Vetoed{}, nil
	case Passed:
		return nil, errors.TimelockExpired
	default:
		return nil, errors.InvalidProposalStatus.Clone().SetData("status", current.String())
	}
}
