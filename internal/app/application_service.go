package app

import (
	"context"

	"hirepath/internal/common"
	"hirepath/internal/domain/application"
	"hirepath/internal/domain/screening"
	"hirepath/internal/domain/stage"
)

type Logger interface {
	Info(msg string)
	Warn(msg string)
	Error(msg string)
}

// Screener runs knockout screening for a vacancy. Implemented by
// ScreeningService; faked in tests.
type Screener interface {
	Evaluate(ctx context.Context, vacancyID common.UUID, answers map[common.UUID]screening.Answer) (screening.Result, error)
}

// ApplicationService is the ledger: it owns every write to an application's
// stage, discard flag and stage history.
type ApplicationService struct {
	repo     application.Repository
	stages   stage.Repository
	screener Screener
	logger   Logger
}

func NewApplicationService(repo application.Repository, stages stage.Repository, screener Screener, logger Logger) *ApplicationService {
	return &ApplicationService{repo: repo, stages: stages, screener: screener, logger: logger}
}

// Intake screens the candidate's answers and commits the application. A
// failed screening still creates the application, pre-discarded, with a
// single already-closed history entry at the initial stage.
func (s *ApplicationService) Intake(ctx context.Context, vacancyID, candidateID common.UUID, answers map[common.UUID]screening.Answer) (*application.Application, screening.Result, error) {
	result, err := s.screener.Evaluate(ctx, vacancyID, answers)
	if err != nil {
		return nil, screening.Result{}, err
	}
	created, err := s.Create(ctx, vacancyID, candidateID, result)
	if err != nil {
		return nil, screening.Result{}, err
	}
	return created, result, nil
}

func (s *ApplicationService) Create(ctx context.Context, vacancyID, candidateID common.UUID, result screening.Result) (*application.Application, error) {
	if vacancyID == "" {
		return nil, common.NewError(common.CodeValidation, "vacancy_id is required", nil)
	}
	if candidateID == "" {
		return nil, common.NewError(common.CodeValidation, "candidate_id is required", nil)
	}
	first, err := s.stages.First(ctx)
	if err != nil {
		if common.Is(err, common.CodeNotFound) {
			return nil, common.NewError(common.CodeNoStagesConfigured, "no pipeline stages configured", err)
		}
		return nil, err
	}
	// An existing active application blocks the intake whether or not the
	// new one would pass screening: the pair may not hold a second row of
	// any kind while one is live. The storage layer re-checks this inside
	// the insert, so a racing intake still loses there.
	if _, err := s.repo.FindActive(ctx, vacancyID, candidateID); err == nil {
		return nil, common.NewError(common.CodeDuplicateApplication, "candidate already has an active application on this vacancy", nil)
	} else if !common.Is(err, common.CodeNotFound) {
		return nil, err
	}
	app := application.Application{
		VacancyID:      vacancyID,
		CandidateID:    candidateID,
		CurrentStageID: first.ID,
	}
	if !result.Pass {
		app.Discarded = true
		app.DiscardReason = application.DiscardReasonKnockout
	}
	entry := application.HistoryEntry{StageID: first.ID}
	created, err := s.repo.Create(ctx, app, entry)
	if err != nil {
		return nil, err
	}
	return created, nil
}

// AdvanceStage moves the application forward. Backward moves need the
// override capability (manual recruiter correction). The repository guards
// the update with the stage we read here, so a concurrent move surfaces as
// CodeConflict instead of being clobbered.
func (s *ApplicationService) AdvanceStage(ctx context.Context, applicationID, targetStageID, movedBy common.UUID, notes string, override bool) (*application.Application, error) {
	app, err := s.repo.GetByID(ctx, applicationID)
	if err != nil {
		return nil, err
	}
	if app.Discarded {
		return nil, common.NewError(common.CodeApplicationDiscarded, "application is discarded", nil)
	}
	target, err := s.stages.GetByID(ctx, targetStageID)
	if err != nil {
		if common.Is(err, common.CodeNotFound) {
			return nil, common.NewError(common.CodeInvalidTransition, "target stage does not exist", err)
		}
		return nil, err
	}
	current, err := s.stages.GetByID(ctx, app.CurrentStageID)
	if err != nil {
		return nil, err
	}
	if target.Order == current.Order {
		return nil, common.NewError(common.CodeInvalidTransition, "application is already at this stage", nil)
	}
	if target.Order < current.Order && !override {
		return nil, common.NewError(common.CodeInvalidTransition, "stage transitions are forward-only", nil)
	}
	return s.repo.TransitionStage(ctx, applicationID, app.CurrentStageID, targetStageID, movedBy, notes)
}

// Discard is terminal and idempotent: a repeat call is a warning-level
// no-op, never an error. Reinstating is not supported; a reconsidered
// candidate goes through reassignment instead.
func (s *ApplicationService) Discard(ctx context.Context, applicationID common.UUID, reason string, movedBy common.UUID) (*application.Application, error) {
	app, changed, err := s.repo.Discard(ctx, applicationID, reason, movedBy)
	if err != nil {
		return nil, err
	}
	if !changed && s.logger != nil {
		s.logger.Warn("discard ignored, application already discarded: " + applicationID.String())
	}
	return app, nil
}

func (s *ApplicationService) Get(ctx context.Context, id common.UUID) (*application.Application, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *ApplicationService) History(ctx context.Context, id common.UUID) ([]application.HistoryEntry, error) {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return nil, err
	}
	return s.repo.History(ctx, id)
}

func (s *ApplicationService) ListByVacancy(ctx context.Context, vacancyID common.UUID) ([]application.Application, error) {
	return s.repo.ListByVacancy(ctx, vacancyID)
}

func (s *ApplicationService) ListByCandidate(ctx context.Context, candidateID common.UUID) ([]application.Application, error) {
	return s.repo.ListByCandidate(ctx, candidateID)
}
