package internal

type Signal struct {
	id ID
	rt *Runtime

	value any
	equal func(a, b any) bool

	// wires that read this signal during their last run
	subs *Set[*Wire]
}

func (r *Runtime) NewSignal(initial any) *Signal {
	return &Signal{
		id:    r.ids.Next(KindSignal),
		rt:    r,
		value: initial,
		equal: isEqual,
		subs:  NewSet[*Wire](),
	}
}

func (s *Signal) ID() ID {
	return s.id
}

func (s *Signal) SetEqual(fn func(a, b any) bool) {
	if fn != nil {
		s.equal = fn
	}
}

// Read returns the current value without subscribing.
func (s *Signal) Read() any {
	s.rt.mu.Lock()
	defer s.rt.mu.Unlock()

	return s.value
}

// ReadTracked returns the current value and records the signal as a
// dependency of the token's run.
func (s *Signal) ReadTracked(t *Token) any {
	s.rt.mu.Lock()
	defer s.rt.mu.Unlock()

	t.trackSignal(s)
	t.last = s.value
	return s.value
}

// Write stores v and synchronously re-runs the subscribers, unless v equals
// the current value.
func (s *Signal) Write(v any) {
	s.rt.mu.Lock()
	defer s.rt.mu.Unlock()

	if s.equal(s.value, v) {
		return
	}

	s.value = v
	s.rt.invalidateRunning(func(t *Token) bool { return t.signals.Has(s) })
	s.rt.notify(s.subs.Slice())
}

func (s *Signal) Subscribers() []*Wire {
	s.rt.mu.Lock()
	defer s.rt.mu.Unlock()

	return s.subs.Slice()
}
