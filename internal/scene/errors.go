package scene

import "errors"

var (
	// ErrOutOfRange is returned by edits that name a molecule, atom or bond
	// that does not exist.
	ErrOutOfRange = errors.New("scene: index out of range")

	// ErrInvalidRadius rejects radii that are not positive finite numbers.
	ErrInvalidRadius = errors.New("scene: invalid radius")
)
