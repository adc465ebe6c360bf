package application

import (
	"time"

	"hirepath/internal/common"
)

const DiscardReasonKnockout = "knockout failed"

// Application tracks one candidate moving through one vacancy's pipeline.
// At most one non-discarded application may exist per (vacancy, candidate)
// pair; a discarded one is terminal and never reinstated.
type Application struct {
	ID             common.UUID `json:"id"`
	VacancyID      common.UUID `json:"vacancy_id"`
	CandidateID    common.UUID `json:"candidate_id"`
	CurrentStageID common.UUID `json:"current_stage_id"`
	Discarded      bool        `json:"discarded"`
	DiscardReason  string      `json:"discard_reason,omitempty"`
	Notes          string      `json:"notes,omitempty"`
	CreatedAt      time.Time   `json:"created_at"`
	LastUpdatedAt  time.Time   `json:"last_updated_at"`
}
