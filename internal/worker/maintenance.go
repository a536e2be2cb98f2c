package worker

import (
	"context"
	"log/slog"
	"time"
)

// StatePersister is the slice of the session manager the autosave job needs.
type StatePersister interface {
	PersistAll(ctx context.Context) error
	Count() int
}

// AutosaveJob periodically flushes live session state to the repository, so
// a crash between join and leave loses at most one interval of changes.
type AutosaveJob struct {
	Sessions StatePersister
}

func (j *AutosaveJob) Process(ctx context.Context) error {
	start := time.Now()
	if err := j.Sessions.PersistAll(ctx); err != nil {
		return err
	}
	slog.Debug(LogMsgAutosaveCompleted,
		"sessions", j.Sessions.Count(),
		"duration", time.Since(start).Round(time.Millisecond))
	return nil
}

// LedgerPruner is the slice of the cooldown ledger the prune job needs.
type LedgerPruner interface {
	Prune(horizon time.Duration) int
}

// LedgerPruneJob drops cooldown stamps old enough to be meaningless, keeping
// the ledger bounded for long-lived sessions.
type LedgerPruneJob struct {
	Ledger  LedgerPruner
	Horizon time.Duration
}

func (j *LedgerPruneJob) Process(ctx context.Context) error {
	if pruned := j.Ledger.Prune(j.Horizon); pruned > 0 {
		slog.Debug(LogMsgLedgerPruned, "entries", pruned)
	}
	return nil
}
