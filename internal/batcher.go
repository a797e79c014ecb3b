package internal

// Batcher parks the wires notified while a Batch is open. Nested batches
// share the parked set; only the outermost one releases it.
type Batcher struct {
	depth   int
	pending *Set[*Wire]
}

func NewBatcher() *Batcher {
	return &Batcher{pending: NewSet[*Wire]()}
}

func (b *Batcher) IsBatching() bool {
	return b.depth > 0
}

func (b *Batcher) Enqueue(wires []*Wire) {
	for _, w := range wires {
		b.pending.Add(w)
	}
}

// Wrap runs fn inside a batch and returns the wires parked by it, or nil
// when fn ran nested in another batch.
func (b *Batcher) Wrap(fn func()) (released []*Wire) {
	b.depth++
	defer func() {
		b.depth--
		if b.depth == 0 {
			released = b.pending.Slice()
			b.pending = NewSet[*Wire]()
		}
	}()

	fn()
	return nil
}

// Batch defers every notification raised inside fn and runs them as one
// scheduler batch once the outermost Batch returns.
func (r *Runtime) Batch(fn func()) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if wires := r.batcher.Wrap(fn); len(wires) > 0 {
		_ = r.scheduler.Run(wires)
	}
}
