package interview

import (
	"context"
	"time"

	"hirepath/internal/common"
)

// Repository implements every transition as a single conditional update
// guarded by the current state. A guard that matches no row means another
// actor got there first; implementations report that as CodeConflict, never
// as silent success.
type Repository interface {
	Create(ctx context.Context, iv Interview) (*Interview, error)
	GetByID(ctx context.Context, id common.UUID) (*Interview, error)
	ListByCandidate(ctx context.Context, candidateID common.UUID) ([]Interview, error)
	ListByVacancy(ctx context.Context, vacancyID common.UUID) ([]Interview, error)
	// SelectSlot fixes the chosen slot iff the interview is still proposed.
	SelectSlot(ctx context.Context, id common.UUID, slot Slot) (*Interview, error)
	// Reschedule overwrites the time and clears attendance iff the state is
	// scheduled or rescheduled.
	Reschedule(ctx context.Context, id common.UUID, start, end time.Time) (*Interview, error)
	// SetAttendance records the answer iff the interview still ends at
	// endAt; a concurrent reschedule changes the end time and voids the
	// answer the caller validated against the old one.
	SetAttendance(ctx context.Context, id common.UUID, confirmed bool, endAt time.Time) (*Interview, error)
	Cancel(ctx context.Context, id common.UUID, reason string, actor common.UUID) (*Interview, error)
	Complete(ctx context.Context, id common.UUID) (*Interview, error)
	// CompleteElapsed sweeps every scheduled/rescheduled interview whose end
	// time has passed and returns how many it closed.
	CompleteElapsed(ctx context.Context, now time.Time) (int64, error)
}
