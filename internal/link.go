package internal

// The dependency index is kept on both sides: a signal or store owns the set
// of its subscribers, a wire owns what it read during its last run. Links
// are only ever created by commit and removed by unlink, so both sides
// change together.

// commit links w to everything its finished run read.
func (t *Token) commit() {
	w := t.wire

	for s := range t.signals.All() {
		s.subs.Add(w)
		w.signals.Add(s)
	}

	for _, st := range t.storeOrder {
		st.subs.Add(w)

		paths, ok := w.stores[st]
		if !ok {
			paths = NewSet[Path]()
			w.stores[st] = paths
		}
		for p := range t.stores[st].All() {
			paths.Add(p)
		}
	}
}

// unlink removes w from every signal and store it is subscribed to.
func (w *Wire) unlink() {
	for s := range w.signals.All() {
		s.subs.Remove(w)
	}
	w.signals = NewSet[*Signal]()

	for st := range w.stores {
		st.subs.Remove(w)
	}
	w.stores = make(map[*Store]*Set[Path])
}
