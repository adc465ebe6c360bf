package candidate

import (
	"context"
	"time"

	"hirepath/internal/common"
)

// Candidate is an external directory entry; the core treats it as an opaque
// reference plus a display name for notifications.
type Candidate struct {
	ID        common.UUID `json:"id"`
	FullName  string      `json:"full_name"`
	Email     string      `json:"email,omitempty"`
	CreatedAt time.Time   `json:"created_at"`
}

type Repository interface {
	GetByID(ctx context.Context, id common.UUID) (*Candidate, error)
}
