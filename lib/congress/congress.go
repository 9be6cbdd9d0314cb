package congress

import (
	"boscoin.io/congress/lib/common"
	"boscoin.io/congress/lib/common/observer"
	"boscoin.io/congress/lib/errors"
	"boscoin.io/congress/lib/metrics"
	"boscoin.io/congress/lib/power"
	"boscoin.io/congress/lib/proposal"
	"boscoin.io/congress/lib/storage"
)

// Env is who submits an action and when. Actions signed by the sender
// carry the `SequenceID` of the sender's account; a consumed sequence id
// can not be used again.
type Env struct {
	Sender     string
	Block      common.BlockInfo
	SequenceID *uint64
}

// Congress is the governance module. Every action runs in its own storage
// transaction: it is either committed entirely or not at all, and its hooks
// are triggered only after the commit. Concurrent actions wait for each
// other in OpenTransaction.
type Congress struct {
	st       *storage.LevelDBBackend
	source   power.Source
	executor Executor
}

// New opens the governance module on `st`. `config` is stored when the
// storage has none yet; otherwise the stored one stays in effect.
func New(st *storage.LevelDBBackend, source power.Source, executor Executor, config Config) (*Congress, error) {
	if executor == nil {
		executor = LogExecutor{}
	}

	c := &Congress{st: st, source: source, executor: executor}

	if _, err := GetConfig(st); err == nil {
		log.Debug("config already stored")
		return c, nil
	} else if !errors.Is(err, errors.InvalidConfig) {
		return nil, err
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	if err := SaveConfig(st, config); err != nil {
		return nil, err
	}
	log.Debug("config stored", "dao", config.DAO, "threshold", config.Threshold)

	return c, nil
}

// action is the state of one running action.
type action struct {
	c     *Congress
	env   Env
	ts    *storage.LevelDBBackend
	hooks []hook
}

func (c *Congress) run(name string, env Env, f func(a *action) error) (err error) {
	defer func() {
		metrics.Governance.AddAction(name, err)
		metrics.Governance.SetHeight(env.Block.Height)
	}()

	if err = common.CheckAddress(env.Sender); err != nil {
		return
	}

	var ts *storage.LevelDBBackend
	if ts, err = c.st.OpenTransaction(); err != nil {
		return
	}

	if env.SequenceID != nil {
		if err = useSequenceID(ts, env.Sender, *env.SequenceID); err != nil {
			ts.Discard()
			log.Debug("action refused", "action", name, "sender", env.Sender, "error", err)
			return
		}
	}

	a := &action{c: c, env: env, ts: ts}
	if err = f(a); err != nil {
		ts.Discard()
		log.Debug("action failed", "action", name, "sender", env.Sender, "height", env.Block.Height, "error", err)
		return
	}

	if err = ts.Commit(); err != nil {
		log.Error("failed to commit action", "action", name, "error", err)
		return
	}

	log.Debug("action done", "action", name, "sender", env.Sender, "height", env.Block.Height)
	fireHooks(a.hooks)

	return
}

func (a *action) config() (Config, error) {
	return GetConfig(a.ts)
}

func (a *action) proposal(id uint64) (proposal.Record, error) {
	return GetProposal(a.ts, id)
}

// updateStatus recomputes the status of the record and queues a hook when
// it changed.
func (a *action) updateStatus(record proposal.Record) error {
	old, err := proposal.UpdateStatus(record, a.env.Block)
	if err != nil {
		return err
	}
	a.statusChanged(record, old)

	return nil
}

func (a *action) setStatus(record proposal.Record, next proposal.Status) error {
	old := record.GetHeader().Status
	if err := proposal.SetStatus(record, next); err != nil {
		return err
	}
	a.statusChanged(record, old)

	return nil
}

func (a *action) statusChanged(record proposal.Record, old proposal.Status) {
	h := record.GetHeader()
	if old == h.Status {
		return
	}

	log.Debug("status changed", "id", h.ID, "from", old, "to", h.Status)
	metrics.Governance.AddStatusTransition(proposal.StatusName(old), proposal.StatusName(h.Status))

	a.hooks = append(a.hooks, newHook(observer.EventStatusChanged, h.ID, StatusChanged{
		EventID:   common.GenerateUUID(),
		ID:        h.ID,
		OldStatus: old,
		NewStatus: h.Status,
	}))
}

func (a *action) save(record proposal.Record) error {
	return SaveProposal(a.ts, record)
}
