package worker

// Log messages for the worker pool
const (
	LogMsgWorkerJobFailed = "Worker job failed"
	LogMsgWorkerQueueFull = "Worker queue full, dropping job"
)

// Log messages for maintenance jobs
const (
	LogMsgAutosaveCompleted = "Autosave sweep completed"
	LogMsgLedgerPruned      = "Cooldown ledger pruned"
)
