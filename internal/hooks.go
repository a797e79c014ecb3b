package internal

import "time"

// BatchStats describes one scheduler batch.
type BatchStats struct {
	// Size is the number of wires notified by the triggering write.
	Size int

	Ran          int
	Failed       int
	Deferred     int // paused wires, marked as owing a run
	Deduplicated int // wires whose ancestor was in the same batch
	Dropped      int // disposed, already running, or under a running ancestor
}

// Hooks observes the engine. Implementations must not write signals or
// mutate stores.
type Hooks interface {
	WireRun(id ID, took time.Duration, err error)
	BatchRun(stats BatchStats)
}

type NopHooks struct{}

func (NopHooks) WireRun(ID, time.Duration, error) {}
func (NopHooks) BatchRun(BatchStats)              {}
