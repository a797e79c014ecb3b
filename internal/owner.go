package internal

import "iter"

// A wire owns the wires created by its body during its last run. Children
// never outlive their parent's next run: committing a new run disposes the
// previous children before adopting the new ones.

func (w *Wire) addChild(child *Wire) {
	child.parent = w
	w.children.Add(child)
}

func (w *Wire) Children() iter.Seq[*Wire] {
	return w.children.All()
}

func (w *Wire) Parent() *Wire {
	return w.parent
}

func (w *Wire) disposeChildren() {
	for child := range w.children.All() {
		child.dispose()
	}
	w.children = NewSet[*Wire]()
}

// reset tears down everything the last run built and marks a run as owed.
func (w *Wire) reset() {
	w.disposeChildren()
	w.unlink()
	w.needsRun = true
}

func (w *Wire) dispose() {
	if w.disposed {
		return
	}

	w.reset()
	w.disposed = true
	w.tasks.clear()

	if w.parent != nil {
		w.parent.children.Remove(w)
		w.parent = nil
	}
}

func (w *Wire) pause() {
	for child := range w.children.All() {
		child.pause()
	}
	w.paused = true
}

func (w *Wire) resume() bool {
	missed := w.missed
	w.missed = false
	for child := range w.children.All() {
		if child.resume() {
			missed = true
		}
	}
	w.paused = false

	return missed
}
