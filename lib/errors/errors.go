package errors

// pre-defined `Errors`
var (
	// actions
	Unauthorized          = NewError(100, "unauthorized")
	NotRegistered         = NewError(101, "voter has no voting power")
	AlreadyVoted          = NewError(102, "already voted")
	AlreadyCast           = NewError(103, "already cast a vote with that option")
	Expired               = NewError(104, "proposal is expired")
	NoSuchProposal        = NewError(105, "proposal does not exist")
	NoSuchVote            = NewError(106, "vote does not exist")
	WrongExecuteStatus    = NewError(107, "proposal is not in 'passed' state")
	WrongCloseStatus      = NewError(108, "only rejected proposals may be closed")
	NotExpired            = NewError(109, "proposal is not expired")
	ProposalTooLarge      = NewError(110, "proposal is too large")
	InvalidVote           = NewError(111, "invalid vote selected")
	WrongNumberOfChoices  = NewError(112, "wrong number of choices")
	ExecutionFailed       = NewError(113, "proposal execution failed")
	InvalidAddress        = NewError(114, "invalid address")
	InvalidProposalStatus = NewError(115, "action is not allowed in the current proposal status")

	// veto
	NoVetoConfiguration          = NewError(120, "proposal has no veto configuration")
	TimelockExpired              = NewError(121, "veto timelock has expired")
	Timelocked                   = NewError(122, "proposal is timelocked")
	NoEarlyExecute               = NewError(123, "early execution is not enabled")
	NoVetoBeforePassed           = NewError(124, "veto before the proposal passes is not enabled")
	TimelockDurationUnitMismatch = NewError(125, "timelock duration units must match the voting period units")

	// threshold and config
	ZeroThreshold          = NewError(130, "threshold must be greater than zero")
	UnreachableThreshold   = NewError(131, "threshold can not be over 100 percent")
	InvalidThreshold       = NewError(132, "threshold is not well formed")
	InvalidDecimal         = NewError(133, "invalid decimal")
	DurationUnitsConflict  = NewError(134, "min and max voting periods must have the same units")
	InvalidMinVotingPeriod = NewError(135, "min voting period must be less than or equal to max voting period")
	InvalidExpiration      = NewError(136, "expiration and duration units conflict")
	InvalidConfig          = NewError(137, "invalid config")

	// arithmetic
	Overflow  = NewError(140, "voting power overflow")
	Underflow = NewError(141, "voting power underflow")

	// storage
	StorageRecordDoesNotExist  = NewError(150, "record does not exist in storage")
	StorageRecordAlreadyExists = NewError(151, "record already exists in storage")
	StorageCoreError           = NewError(152, "storage error")

	// voting power
	StaleCheckpoint = NewError(155, "voting power checkpoint is not after the latest or the sealed one")

	// api
	BadRequestParameter     = NewError(160, "bad request parameter")
	PageQueryLimitMaxExceed = NewError(161, "limit exceeds the maximum")
	InvalidSignature        = NewError(162, "signature verification failed")
	InvalidSequenceID       = NewError(163, "sequence id does not match the account")
)
