package internal

import (
	"errors"

	"github.com/sirupsen/logrus"
)

type Scheduler struct {
	rt *Runtime

	// nesting of Run calls: a wire run (or one of its tasks) writing a signal
	// starts a fresh batch before the current one finished
	depth    int
	maxDepth int
}

func NewScheduler(rt *Runtime, maxDepth int) *Scheduler {
	return &Scheduler{
		rt:       rt,
		maxDepth: maxDepth,
	}
}

// Run re-runs the wires implicated by a single write or mutation.
func (s *Scheduler) Run(wires []*Wire) error {
	// snapshot: writes made by the runs below start their own batch instead
	// of growing this one
	batch := NewSet(wires...)
	if batch.Len() == 0 {
		return nil
	}

	if s.depth >= s.maxDepth {
		s.rt.log.
			WithError(ErrCycle).
			WithField("depth", s.depth).
			WithField("wires", batch.Len()).
			Error("aborting batch")
		return ErrCycle
	}

	s.depth++
	defer func() { s.depth-- }()

	stats := BatchStats{Size: batch.Len()}

	for w := range batch.All() {
		switch {
		case w.disposed:
			batch.Remove(w)
			stats.Dropped++
		case w.running:
			// the running wire runs again once its current run commits
			batch.Remove(w)
			w.dirty = true
			w.needsRun = true
			stats.Dropped++
		case w.paused:
			batch.Remove(w)
			w.needsRun = true
			w.missed = true
			stats.Deferred++
		}
	}

	for w := range batch.All() {
		for up := w.parent; up != nil; up = up.parent {
			// re-running the ancestor disposes and rebuilds w anyway
			if batch.Has(up) {
				batch.Remove(w)
				stats.Deduplicated++
				break
			}
			if up.running {
				batch.Remove(w)
				w.needsRun = true
				stats.Dropped++
				break
			}
		}
	}

	for w := range batch.All() {
		// an earlier run of this batch may have disposed or paused it
		if w.disposed {
			stats.Dropped++
			continue
		}
		if w.paused {
			w.needsRun = true
			w.missed = true
			stats.Deferred++
			continue
		}

		if _, err := w.run(); err != nil {
			if errors.Is(err, ErrDisposed) {
				stats.Dropped++
				continue
			}
			stats.Failed++
			s.rt.log.WithError(err).WithField("wire", w.id.String()).Warn("wire run failed")
			continue
		}
		stats.Ran++
	}

	s.rt.log.WithFields(logrus.Fields{
		"size":         stats.Size,
		"ran":          stats.Ran,
		"failed":       stats.Failed,
		"deferred":     stats.Deferred,
		"deduplicated": stats.Deduplicated,
		"dropped":      stats.Dropped,
	}).Debug("batch done")
	s.rt.hooks.BatchRun(stats)

	return nil
}
