// README: Opaque identifier type shared across modules.
package types

import "github.com/google/uuid"

type ID string

// NewID returns a fresh random identifier.
func NewID() ID {
	return ID(uuid.NewString())
}
