package vacancy

import (
	"time"

	"hirepath/internal/common"
)

// Vacancy is an external entity owned elsewhere; the pipeline core only
// reads the fields it needs for reassignment and notification text.
type Vacancy struct {
	ID           common.UUID `json:"id"`
	Title        string      `json:"title"`
	RecruiterID  common.UUID `json:"recruiter_id"`
	Requirements []string    `json:"requirements,omitempty"`
	CreatedAt    time.Time   `json:"created_at"`
}
