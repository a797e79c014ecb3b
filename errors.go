package wires

import (
	"github.com/AnatoleLucet/wires/internal"
	"github.com/AnatoleLucet/wires/internal/observe"
)

var (
	ErrInvalidSource = internal.ErrInvalidSource
	ErrStaleToken    = internal.ErrStaleToken
	ErrDisposed      = internal.ErrDisposed
	ErrReentrantRun  = internal.ErrReentrantRun
	ErrCycle         = internal.ErrCycle
	ErrPathNotFound  = observe.ErrPathNotFound
)
