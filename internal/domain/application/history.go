package application

import (
	"time"

	"hirepath/internal/common"
)

// HistoryEntry is one row of the append-only stage log. Exactly one entry
// per application has a nil ExitedAt: the stage it currently sits in.
type HistoryEntry struct {
	ID            common.UUID `json:"id"`
	ApplicationID common.UUID `json:"application_id"`
	StageID       common.UUID `json:"stage_id"`
	EnteredAt     time.Time   `json:"entered_at"`
	ExitedAt      *time.Time  `json:"exited_at,omitempty"`
	MovedBy       common.UUID `json:"moved_by,omitempty"`
	Notes         string      `json:"notes,omitempty"`
}
