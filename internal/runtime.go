package internal

import (
	"github.com/sirupsen/logrus"
)

const DefaultMaxDepth = 100

// Runtime owns the ids, the scheduler and the lock shared by every signal,
// wire and store created through it.
type Runtime struct {
	mu reentrantMutex

	ids       IDGen
	batcher   *Batcher
	scheduler *Scheduler

	log   *logrus.Entry
	hooks Hooks

	// tokens of the wires currently running, innermost last
	active []*Token
}

type Option func(*Runtime)

func WithLogger(l *logrus.Entry) Option {
	return func(r *Runtime) {
		if l != nil {
			r.log = l
		}
	}
}

func WithHooks(h Hooks) Option {
	return func(r *Runtime) {
		if h != nil {
			r.hooks = h
		}
	}
}

func WithMaxDepth(depth int) Option {
	return func(r *Runtime) {
		if depth > 0 {
			r.scheduler.maxDepth = depth
		}
	}
}

func NewRuntime(opts ...Option) *Runtime {
	r := &Runtime{
		batcher: NewBatcher(),
		log:     Logger(),
		hooks:   NopHooks{},
	}
	r.scheduler = NewScheduler(r, DefaultMaxDepth)

	for _, opt := range opts {
		opt(r)
	}

	return r
}

func (r *Runtime) Logger() *logrus.Entry {
	return r.log
}

// notify hands the wires implicated by one write to the scheduler, or parks
// them until the enclosing batch completes.
func (r *Runtime) notify(wires []*Wire) {
	if len(wires) == 0 {
		return
	}

	if r.batcher.IsBatching() {
		r.batcher.Enqueue(wires)
		return
	}

	_ = r.scheduler.Run(wires)
}

// invalidateRunning flags the running wires whose current run already read
// something that just changed.
func (r *Runtime) invalidateRunning(read func(t *Token) bool) {
	for _, t := range r.active {
		if read(t) {
			t.wire.dirty = true
		}
	}
}
