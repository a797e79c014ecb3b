// Package wires is a fine-grained reactive runtime. Wires are computations
// that re-run when the signals or store paths they read change.
package wires

import (
	"fmt"

	"github.com/AnatoleLucet/wires/internal"
	"github.com/sirupsen/logrus"
)

func as[T any](v any) T {
	if v == nil {
		var zero T
		return zero
	}

	return v.(T)
}

type (
	ID         = internal.ID
	Hooks      = internal.Hooks
	BatchStats = internal.BatchStats
	RunError   = internal.RunError
	PanicError = internal.PanicError
)

// source is implemented by everything a Token can read.
type source interface {
	source() any
}

type Signal[T any] struct {
	signal *internal.Signal
}

type SignalOption[T any] func(*Signal[T])

// WithEquals replaces the equality used to skip writes of an unchanged value.
func WithEquals[T any](fn func(a, b T) bool) SignalOption[T] {
	return func(s *Signal[T]) {
		s.signal.SetEqual(func(a, b any) bool { return fn(as[T](a), as[T](b)) })
	}
}

// NewSignal creates a reactive value cell.
func NewSignal[T any](initial T, opts ...SignalOption[T]) *Signal[T] {
	s := &Signal[T]{internal.GetRuntime().NewSignal(initial)}
	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Read the current value without subscribing.
func (s *Signal[T]) Read() T {
	return as[T](s.signal.Read())
}

// Write a new value, synchronously re-running every wire that read the signal.
// Writing a value equal to the current one does nothing.
func (s *Signal[T]) Write(v T) {
	s.signal.Write(v)
}

// ReadTracked reads the value and subscribes the wire running t.
func (s *Signal[T]) ReadTracked(t *Token) T {
	return as[T](s.signal.ReadTracked(t.token))
}

func (s *Signal[T]) ID() ID { return s.signal.ID() }

// Subscribers is the number of wires that read the signal during their last run.
func (s *Signal[T]) Subscribers() int { return len(s.signal.Subscribers()) }

func (s *Signal[T]) source() any { return s.signal }

// Token is handed to a wire body for one run. Reads made through it become
// the wire's dependencies.
type Token struct {
	token *internal.Token
}

// Read a *Signal or a Cursor with tracking. It panics on anything else.
func (t *Token) Read(src any) any {
	if s, ok := src.(source); ok {
		return t.token.Read(s.source())
	}

	return t.token.Read(src)
}

// Last returns the last value read through t.
func (t *Token) Last() any {
	return t.token.Last()
}

// Track reads src through t and converts the result to T.
func Track[T any](t *Token, src any) T {
	return as[T](t.Read(src))
}

type Wire[T any] struct {
	wire *internal.Wire
}

func body[T any](fn func(t *Token) (T, error)) internal.Body {
	return func(t *internal.Token) (any, error) {
		v, err := fn(&Token{t})
		return v, err
	}
}

// NewWire creates a computation. It runs lazily, on the first Get.
func NewWire[T any](fn func(t *Token) T) *Wire[T] {
	return NewWireE(func(t *Token) (T, error) { return fn(t), nil })
}

// NewWireE creates a computation that can fail. A failed run keeps the value
// and the dependencies of the last successful run.
func NewWireE[T any](fn func(t *Token) (T, error)) *Wire[T] {
	return &Wire[T]{internal.GetRuntime().NewWire(body(fn))}
}

// WireSignal creates a wire mirroring a signal.
func WireSignal[T any](s *Signal[T]) *Wire[T] {
	return NewWire(func(t *Token) T { return s.ReadTracked(t) })
}

// WireCursor creates a wire mirroring the value at a cursor.
func WireCursor(c Cursor) *Wire[any] {
	return NewWire(func(t *Token) any { return t.Read(c) })
}

// Sub creates a wire owned by the wire running t. It is disposed when its
// parent runs again.
func Sub[T any](t *Token, fn func(t *Token) T) *Wire[T] {
	return SubE(t, func(t *Token) (T, error) { return fn(t), nil })
}

func SubE[T any](t *Token, fn func(t *Token) (T, error)) *Wire[T] {
	return &Wire[T]{t.token.Sub(body(fn))}
}

// Get returns the wire's value, running it first if it never ran or missed
// an update. Errors are reported by Err.
func (w *Wire[T]) Get() T {
	v, _ := w.wire.Get()
	return as[T](v)
}

// Value is Get with the error of the run it forced, if any.
func (w *Wire[T]) Value() (T, error) {
	v, err := w.wire.Get()
	return as[T](v), err
}

// Run forces a run, even if the wire is paused or up to date.
func (w *Wire[T]) Run() (T, error) {
	v, err := w.wire.Run()
	return as[T](v), err
}

// Err returns the error of the last run.
func (w *Wire[T]) Err() error { return w.wire.Err() }

// Runs counts successful runs.
func (w *Wire[T]) Runs() int { return w.wire.Runs() }

// OnChange registers fn to be called after a re-run produced a new value.
// The returned function unregisters it.
func (w *Wire[T]) OnChange(fn func(v T)) func() {
	return w.wire.OnChange(func(v any) { fn(as[T](v)) })
}

// Pause defers runs of the wire and its children. Notifications received
// while paused are remembered.
func (w *Wire[T]) Pause() { w.wire.Pause() }

// Resume reports whether a run was missed while paused; Run catches up.
func (w *Wire[T]) Resume() bool { return w.wire.Resume() }

func (w *Wire[T]) Paused() bool { return w.wire.Paused() }

// Dispose unsubscribes the wire and its children for good.
func (w *Wire[T]) Dispose() { w.wire.Dispose() }

func (w *Wire[T]) Disposed() bool { return w.wire.Disposed() }

func (w *Wire[T]) ID() ID { return w.wire.ID() }

// Store is a deeply observed object graph.
type Store struct {
	store *internal.Store
}

func (s *Store) ID() ID { return s.store.ID() }

// Close stops observing the store; later mutations re-run nothing.
func (s *Store) Close() { s.store.Close() }

// Subscribers is the number of wires that read the store during their last run.
func (s *Store) Subscribers() int { return len(s.store.Subscribers()) }

// Root returns a cursor on the whole store.
func (s *Store) Root() Cursor { return Cursor{s.store.Root()} }

// Cursor addresses a path in a store. Navigating extends the path, it never
// copies data.
type Cursor struct {
	cursor internal.Cursor
}

// NewStore wraps obj and returns a cursor on its root. Structs, typed maps
// and typed slices are converted to map[string]any and []any.
func NewStore(obj any) (Cursor, error) {
	s, err := internal.GetRuntime().NewStore(obj)
	if err != nil {
		return Cursor{}, err
	}

	return Cursor{s.Root()}, nil
}

// MustStore is NewStore panicking on error.
func MustStore(obj any) Cursor {
	c, err := NewStore(obj)
	if err != nil {
		panic(err)
	}

	return c
}

func (c Cursor) Key(key string) Cursor { return Cursor{c.cursor.Key(key)} }

func (c Cursor) Index(i int) Cursor { return Cursor{c.cursor.Index(i)} }

// At extends the path by several keys; ints are list indexes.
func (c Cursor) At(keys ...any) Cursor {
	for _, k := range keys {
		switch k := k.(type) {
		case string:
			c = c.Key(k)
		case int:
			c = c.Index(k)
		default:
			c = c.Key(fmt.Sprint(k))
		}
	}

	return c
}

func (c Cursor) Path() []string { return c.cursor.Path() }

func (c Cursor) Store() *Store { return &Store{c.cursor.Store()} }

func (c Cursor) source() any { return c.cursor }

// Reify returns the live value at the cursor, untracked. Missing paths read as nil.
func Reify(c Cursor) any {
	v, _ := c.cursor.Get()
	return v
}

// ReifyAs decodes the live value at the cursor into T.
func ReifyAs[T any](c Cursor) (T, error) {
	var out T

	v, err := c.cursor.Get()
	if err != nil {
		return out, err
	}
	if typed, ok := v.(T); ok {
		return typed, nil
	}
	if err := decode(v, &out); err != nil {
		return out, fmt.Errorf("wires: reify %v: %w", c.Path(), err)
	}

	return out, nil
}

// Produce hands the live value at the cursor to fn and stores what fn
// returns. Maps and slices may be mutated in place. Wires that read an
// affected path re-run before Produce returns.
func Produce(c Cursor, fn func(v any) any) error {
	return c.cursor.Produce(fn)
}

// Update is Produce for a value of a known type.
func Update[T any](c Cursor, fn func(v T) T) error {
	return Produce(c, func(v any) any { return fn(as[T](v)) })
}

// Batch runs fn and re-runs the wires notified by its writes once, after fn returns.
func Batch(fn func()) {
	internal.GetRuntime().Batch(fn)
}

// SetLogger sets the logger of runtimes created afterwards, including the
// per-goroutine default ones.
func SetLogger(l *logrus.Entry) {
	internal.SetLogger(l)
}
