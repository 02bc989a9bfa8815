package generator

import (
	"github.com/cockroachdb/errors"
)

var (
	// ErrUnresolvableType is returned when a referenced type has no registered
	// rendering and is not a class or enum of the model.
	ErrUnresolvableType = errors.New("unresolvable type")

	// ErrUnresolvableBaseType is returned when a class's base type cannot be named.
	ErrUnresolvableBaseType = errors.New("unresolvable base type")

	// ErrInheritanceCycle is returned when a class is, transitively, its own base.
	ErrInheritanceCycle = errors.New("inheritance cycle")
)
