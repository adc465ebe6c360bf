package application

import (
	"context"

	"hirepath/internal/common"
)

type Repository interface {
	// Create inserts the application and its first history entry in one
	// transaction. The storage layer's partial unique index turns a
	// concurrent duplicate into CodeDuplicateApplication.
	Create(ctx context.Context, app Application, entry HistoryEntry) (*Application, error)
	GetByID(ctx context.Context, id common.UUID) (*Application, error)
	FindActive(ctx context.Context, vacancyID, candidateID common.UUID) (*Application, error)
	ListByVacancy(ctx context.Context, vacancyID common.UUID) ([]Application, error)
	ListByCandidate(ctx context.Context, candidateID common.UUID) ([]Application, error)
	// TransitionStage moves the application from fromStageID to toStageID,
	// closing the open history entry and opening a new one in the same
	// transaction. The update is guarded by the caller's known current
	// stage; a stale guard yields CodeConflict and no change.
	TransitionStage(ctx context.Context, id, fromStageID, toStageID, movedBy common.UUID, notes string) (*Application, error)
	// Discard marks the application discarded and closes the open history
	// entry. The returned bool is false when it was already discarded.
	Discard(ctx context.Context, id common.UUID, reason string, movedBy common.UUID) (*Application, bool, error)
	History(ctx context.Context, id common.UUID) ([]HistoryEntry, error)
}
