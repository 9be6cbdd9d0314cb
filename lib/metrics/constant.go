package metrics

const (
	Namespace           = "congress"
	GovernanceSubsystem = "governance"
	APISubsystem        = "api"
)

const (
	ActionPropose         = "propose"
	ActionProposeMultiple = "propose_multiple"
	ActionVote            = "vote"
	ActionUpdateRationale = "update_rationale"
	ActionExecute         = "execute"
	ActionClose           = "close"
	ActionVeto            = "veto"
	ActionUpdateConfig    = "update_config"
)
