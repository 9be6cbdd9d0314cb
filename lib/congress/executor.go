package congress

import (
	"boscoin.io/congress/lib/proposal"
)

// Executor runs the messages of a passed proposal. An error makes the
// proposal `ExecutionFailed` or fails the execution, depending on
// `Config.CloseProposalOnExecutionFailure`.
type Executor interface {
	Execute(id uint64, msgs []proposal.Message) error
}

type ExecutorFunc func(id uint64, msgs []proposal.Message) error

func (f ExecutorFunc) Execute(id uint64, msgs []proposal.Message) error {
	return f(id, msgs)
}

// LogExecutor only logs the messages.
type LogExecutor struct{}

func (LogExecutor) Execute(id uint64, msgs []proposal.Message) error {
	log.Info("proposal executed", "id", id, "messages", len(msgs), "types", proposal.MessageTypes(msgs))
	return nil
}
