package internal

import "fmt"

// Token binds tracked reads to one run of one wire. Reads are recorded here
// and only linked to the wire once the run succeeds.
type Token struct {
	wire *Wire
	done bool

	// last value read through this token
	last any

	signals    *Set[*Signal]
	stores     map[*Store]*Set[Path]
	storeOrder []*Store
	children   *Set[*Wire]
}

func newToken(w *Wire) *Token {
	return &Token{
		wire:     w,
		signals:  NewSet[*Signal](),
		stores:   make(map[*Store]*Set[Path]),
		children: NewSet[*Wire](),
	}
}

func (t *Token) Wire() *Wire {
	return t.wire
}

func (t *Token) Last() any {
	return t.last
}

// Read reads a *Signal or a Cursor with tracking. Any other argument is a
// programming error and panics with ErrInvalidSource.
func (t *Token) Read(src any) any {
	switch s := src.(type) {
	case *Signal:
		return s.ReadTracked(t)
	case Cursor:
		return s.store.readTracked(t, s.path)
	default:
		panic(fmt.Errorf("%w: got %T", ErrInvalidSource, src))
	}
}

// Sub creates a wire owned by the token's wire.
func (t *Token) Sub(body Body) *Wire {
	t.check()

	parent := t.wire
	child := parent.rt.NewWire(body)
	child.paused = parent.paused

	child.parent = parent
	t.children.Add(child)
	return child
}

func (t *Token) check() {
	if t.done {
		panic(ErrStaleToken)
	}
}

func (t *Token) trackSignal(s *Signal) {
	t.check()
	t.signals.Add(s)
}

func (t *Token) trackPath(st *Store, p Path) {
	t.check()

	paths, ok := t.stores[st]
	if !ok {
		paths = NewSet[Path]()
		t.stores[st] = paths
		t.storeOrder = append(t.storeOrder, st)
	}
	paths.Add(p)
}

// discard throws away what a failed run built.
func (t *Token) discard() {
	for child := range t.children.All() {
		child.parent = nil
		child.dispose()
	}
}
