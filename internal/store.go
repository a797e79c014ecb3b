package internal

import (
	"slices"
	"strconv"

	"github.com/AnatoleLucet/wires/internal/observe"
)

type Store struct {
	id ID
	rt *Runtime

	tree     *observe.Tree
	observer int
	closed   bool

	// wires that read a cursor of this store during their last run; the
	// paths each one read live on the wire
	subs *Set[*Wire]
}

// NewStore wraps obj, normalized to maps, slices and scalars, and starts
// observing it.
func (r *Runtime) NewStore(obj any) (*Store, error) {
	tree, err := observe.New(obj)
	if err != nil {
		return nil, err
	}

	s := &Store{
		id:   r.ids.Next(KindStore),
		rt:   r,
		tree: tree,
		subs: NewSet[*Wire](),
	}
	s.observer = tree.Observe(s.onChanges)

	return s, nil
}

func (s *Store) ID() ID {
	return s.id
}

func (s *Store) Root() Cursor {
	return Cursor{store: s}
}

// Get returns the live value at path, untracked.
func (s *Store) Get(path []string) (any, error) {
	s.rt.mu.Lock()
	defer s.rt.mu.Unlock()

	return s.tree.Get(path)
}

// Produce applies fn to the live value at path and re-runs the wires whose
// read paths the resulting changes overlap.
func (s *Store) Produce(path []string, fn func(any) any) error {
	s.rt.mu.Lock()
	defer s.rt.mu.Unlock()

	return s.tree.Mutate(path, fn)
}

// Close stops observing the tree; later mutations notify nobody.
func (s *Store) Close() {
	s.rt.mu.Lock()
	defer s.rt.mu.Unlock()

	if s.closed {
		return
	}
	s.closed = true
	s.tree.Unobserve(s.observer)
}

func (s *Store) Subscribers() []*Wire {
	s.rt.mu.Lock()
	defer s.rt.mu.Unlock()

	return s.subs.Slice()
}

// PathsOf returns the paths w read from this store during its last run.
func (s *Store) PathsOf(w *Wire) []Path {
	s.rt.mu.Lock()
	defer s.rt.mu.Unlock()

	return w.stores[s].Slice()
}

func (s *Store) readTracked(t *Token, path []string) any {
	s.rt.mu.Lock()
	defer s.rt.mu.Unlock()

	t.trackPath(s, EncodePath(path))

	// a missing path reads as nil and stays subscribed, so inserting it
	// later re-runs the reader
	v, _ := s.tree.Get(path)
	t.last = v
	return v
}

func (s *Store) onChanges(changes []observe.Change) {
	affected := func(paths *Set[Path]) bool {
		for p := range paths.All() {
			if slices.ContainsFunc(changes, func(c observe.Change) bool { return p.Overlaps(c.Path) }) {
				return true
			}
		}
		return false
	}

	var matched []*Wire
	for w := range s.subs.All() {
		if affected(w.stores[s]) {
			matched = append(matched, w)
		}
	}
	s.rt.invalidateRunning(func(t *Token) bool { return affected(t.stores[s]) })

	s.rt.log.
		WithField("store", s.id.String()).
		WithField("changes", len(changes)).
		WithField("matched", len(matched)).
		Debug("store changed")
	s.rt.notify(matched)
}

// Cursor addresses a path inside a store without copying anything.
type Cursor struct {
	store *Store
	path  []string
}

func (c Cursor) Store() *Store {
	return c.store
}

func (c Cursor) Path() []string {
	return slices.Clone(c.path)
}

func (c Cursor) Key(key string) Cursor {
	return Cursor{store: c.store, path: append(slices.Clip(c.path), key)}
}

func (c Cursor) Index(i int) Cursor {
	return c.Key(strconv.Itoa(i))
}

func (c Cursor) Get() (any, error) {
	return c.store.Get(c.path)
}

func (c Cursor) Produce(fn func(any) any) error {
	return c.store.Produce(c.path, fn)
}
