package expr

import "errors"

// ErrUnknownIdentifier is returned when an expression references a root
// identifier that is not a property of the data scope.
var ErrUnknownIdentifier = errors.New("weft: unknown identifier")

// ErrUnknownAttribute is returned when an expression traverses into an
// attribute that the addressed object does not have.
var ErrUnknownAttribute = errors.New("weft: unknown attribute")

// ErrUnsupportedValue is returned when a scope value cannot be bridged into
// the expression value system.
var ErrUnsupportedValue = errors.New("weft: unsupported value type")
