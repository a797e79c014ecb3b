package internal

import (
	"errors"
	"time"
)

// Body is a wire's computation. It reads its dependencies through t.
type Body func(t *Token) (any, error)

type Wire struct {
	id ID
	rt *Runtime

	body  Body
	value any
	err   error
	runs  int
	equal func(a, b any) bool

	running  bool
	paused   bool
	needsRun bool
	disposed bool

	// something this run read changed before the run finished
	dirty bool
	// a batch skipped the wire because it was paused
	missed bool

	// read during the last successful run
	signals *Set[*Signal]
	stores  map[*Store]*Set[Path]

	tasks *taskList

	parent   *Wire
	children *Set[*Wire]
}

func (r *Runtime) NewWire(body Body) *Wire {
	return &Wire{
		id:       r.ids.Next(KindWire),
		rt:       r,
		body:     body,
		equal:    isEqual,
		needsRun: true,
		signals:  NewSet[*Signal](),
		stores:   make(map[*Store]*Set[Path]),
		tasks:    newTaskList(),
		children: NewSet[*Wire](),
	}
}

func (w *Wire) ID() ID {
	return w.id
}

// Get returns the wire's value, running the body first if it never ran or
// owes a run and is not paused.
func (w *Wire) Get() (any, error) {
	w.rt.mu.Lock()
	defer w.rt.mu.Unlock()

	if err := w.runnable(); err != nil {
		return w.value, err
	}

	if w.runs == 0 || (w.needsRun && !w.paused) {
		return w.run()
	}

	return w.value, nil
}

// Run forces a run, paused or not.
func (w *Wire) Run() (any, error) {
	w.rt.mu.Lock()
	defer w.rt.mu.Unlock()

	if err := w.runnable(); err != nil {
		return w.value, err
	}

	return w.run()
}

func (w *Wire) runnable() error {
	switch {
	case w.disposed:
		return ErrDisposed
	case w.running:
		return ErrReentrantRun
	}

	return nil
}

// run executes the body, then again while the run itself invalidated what
// it read, up to the scheduler's max depth.
func (w *Wire) run() (any, error) {
	for n := 1; ; n++ {
		v, err := w.runOnce()
		if err != nil || !w.dirty || w.disposed {
			w.dirty = false
			return v, err
		}
		w.dirty = false

		if n >= w.rt.scheduler.maxDepth {
			w.needsRun = true
			w.err = &RunError{Wire: w.id, Err: ErrCycle}
			w.rt.log.
				WithError(ErrCycle).
				WithField("wire", w.id.String()).
				WithField("runs", n).
				Error("wire keeps invalidating itself")
			return v, w.err
		}
	}
}

func (w *Wire) runOnce() (any, error) {
	t := newToken(w)

	start := time.Now()
	w.running = true
	w.rt.active = append(w.rt.active, t)
	v, err := w.call(t)
	w.rt.active = w.rt.active[:len(w.rt.active)-1]
	w.running = false
	t.done = true
	w.rt.hooks.WireRun(w.id, time.Since(start), err)

	// disposed by its own body, a task or a nested write
	if w.disposed {
		t.discard()
		return w.value, ErrDisposed
	}

	if err != nil {
		t.discard()

		var perr *PanicError
		if errors.As(err, &perr) && programmingError(perr.Value) {
			panic(perr.Value)
		}

		w.err = &RunError{Wire: w.id, Err: err}
		w.needsRun = true
		return w.value, w.err
	}

	w.reset()
	t.commit()
	for child := range t.children.All() {
		if !child.disposed {
			w.addChild(child)
		}
	}

	prev, initial := w.value, w.runs == 0
	w.value = v
	w.err = nil
	w.needsRun = false
	w.missed = false
	w.runs++

	if !initial && !w.equal(prev, v) {
		w.tasks.run(v, func(err error) {
			w.rt.log.WithError(err).WithField("wire", w.id.String()).Warn("post-run task failed")
		})
	}

	return v, nil
}

func (w *Wire) call(t *Token) (v any, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &PanicError{Value: r}
		}
	}()

	return w.body(t)
}

func (w *Wire) Value() any {
	w.rt.mu.Lock()
	defer w.rt.mu.Unlock()

	return w.value
}

// Err returns the error of the last run, nil if it succeeded.
func (w *Wire) Err() error {
	w.rt.mu.Lock()
	defer w.rt.mu.Unlock()

	return w.err
}

func (w *Wire) Runs() int {
	w.rt.mu.Lock()
	defer w.rt.mu.Unlock()

	return w.runs
}

func (w *Wire) SetEqual(fn func(a, b any) bool) {
	if fn != nil {
		w.equal = fn
	}
}

// OnChange registers a post-run task and returns a function removing it.
func (w *Wire) OnChange(fn func(any)) func() {
	w.rt.mu.Lock()
	defer w.rt.mu.Unlock()

	id := w.tasks.add(fn)
	return func() {
		w.rt.mu.Lock()
		defer w.rt.mu.Unlock()

		w.tasks.remove(id)
	}
}

// Pause defers runs of w and its children until Resume.
func (w *Wire) Pause() {
	w.rt.mu.Lock()
	defer w.rt.mu.Unlock()

	w.pause()
}

// Resume lifts a pause and reports whether a batch skipped w or one of its
// children meanwhile. A run owed for another reason, such as a failed run,
// is not reported; NeedsRun tells about those.
func (w *Wire) Resume() bool {
	w.rt.mu.Lock()
	defer w.rt.mu.Unlock()

	return w.resume()
}

func (w *Wire) Paused() bool {
	w.rt.mu.Lock()
	defer w.rt.mu.Unlock()

	return w.paused
}

func (w *Wire) NeedsRun() bool {
	w.rt.mu.Lock()
	defer w.rt.mu.Unlock()

	return w.needsRun
}

// Dispose unlinks w and its children for good.
func (w *Wire) Dispose() {
	w.rt.mu.Lock()
	defer w.rt.mu.Unlock()

	w.dispose()
}

func (w *Wire) Disposed() bool {
	w.rt.mu.Lock()
	defer w.rt.mu.Unlock()

	return w.disposed
}
