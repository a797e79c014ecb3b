package internal

import (
	"strconv"
	"sync/atomic"
)

type Kind uint8

const (
	KindSignal Kind = iota + 1
	KindWire
	KindStore
)

func (k Kind) String() string {
	switch k {
	case KindSignal:
		return "signal"
	case KindWire:
		return "wire"
	case KindStore:
		return "store"
	default:
		return "unknown"
	}
}

// ID identifies a reactive node within its runtime.
type ID struct {
	Kind Kind
	N    uint64
}

func (id ID) String() string {
	return id.Kind.String() + "|" + strconv.FormatUint(id.N, 10)
}

// IDGen hands out identities for the nodes of a single runtime.
// Each runtime owns its own generator so ids never leak between runtimes.
type IDGen struct {
	signals atomic.Uint64
	wires   atomic.Uint64
	stores  atomic.Uint64
}

func (g *IDGen) Next(kind Kind) ID {
	var n uint64
	switch kind {
	case KindSignal:
		n = g.signals.Add(1)
	case KindWire:
		n = g.wires.Add(1)
	case KindStore:
		n = g.stores.Add(1)
	}

	return ID{Kind: kind, N: n}
}
