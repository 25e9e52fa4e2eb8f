package board

import (
	"time"

	"github.com/google/uuid"
)

// Invite is a pending-membership record for a (user, board) pair. Confirming
// an invite grants the user a USER entitlement and board membership; the
// record is deleted once consumed or when the board is deleted.
type Invite struct {
	ID        uuid.UUID
	BoardID   uuid.UUID
	UserID    uuid.UUID
	CreatedAt time.Time
}
