package interview

import (
	"time"

	"hirepath/internal/common"
)

type State string

const (
	StateProposed    State = "proposed"
	StateScheduled   State = "scheduled"
	StateRescheduled State = "rescheduled"
	StateCompleted   State = "completed"
	StateCancelled   State = "cancelled"
)

type Type string

const (
	TypeInternal     Type = "internal"
	TypeClientFacing Type = "client_facing"
	TypeTechnical    Type = "technical"
	TypeFollowUp     Type = "follow_up"
)

type Modality string

const (
	ModalityInPerson Modality = "in_person"
	ModalityOnline   Modality = "online"
)

// Slot is one candidate-facing time option. Times are stored UTC.
type Slot struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

func (s Slot) Equal(other Slot) bool {
	return s.Start.Equal(other.Start) && s.End.Equal(other.End)
}

type Interview struct {
	ID          common.UUID `json:"id"`
	VacancyID   common.UUID `json:"vacancy_id"`
	CandidateID common.UUID `json:"candidate_id"`
	StageID     common.UUID `json:"stage_id"`
	Type        Type        `json:"type"`
	Modality    Modality    `json:"modality"`
	State       State       `json:"state"`
	StartAt     *time.Time  `json:"start_at,omitempty"`
	EndAt       *time.Time  `json:"end_at,omitempty"`
	// ProposedSlots is only populated while State is proposed; slot
	// selection discards the options that lost.
	ProposedSlots []Slot `json:"proposed_slots,omitempty"`
	MeetingLink   string `json:"meeting_link,omitempty"`
	Location      string `json:"location,omitempty"`
	// AttendanceConfirmed is tri-state: nil until the candidate answers.
	AttendanceConfirmed *bool       `json:"attendance_confirmed,omitempty"`
	CancelReason        string      `json:"cancel_reason,omitempty"`
	CancelledBy         common.UUID `json:"cancelled_by,omitempty"`
	CreatedBy           common.UUID `json:"created_by"`
	CreatedAt           time.Time   `json:"created_at"`
	UpdatedAt           time.Time   `json:"updated_at"`
}

func (i *Interview) Terminal() bool {
	return i.State == StateCompleted || i.State == StateCancelled
}
