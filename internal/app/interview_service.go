package app

import (
	"context"
	"strconv"
	"time"

	"hirepath/internal/common"
	"hirepath/internal/domain/application"
	"hirepath/internal/domain/interview"
	"hirepath/internal/domain/stage"
)

// StageAdvancer is the one write path the scheduler has into the ledger.
// The ledger validates the request; the scheduler never touches application
// rows itself.
type StageAdvancer interface {
	AdvanceStage(ctx context.Context, applicationID, targetStageID, movedBy common.UUID, notes string, override bool) (*application.Application, error)
}

type InterviewService struct {
	repo         interview.Repository
	applications application.Repository
	stages       stage.Repository
	ledger       StageAdvancer
	logger       Logger
}

func NewInterviewService(repo interview.Repository, applications application.Repository, stages stage.Repository, ledger StageAdvancer, logger Logger) *InterviewService {
	return &InterviewService{repo: repo, applications: applications, stages: stages, ledger: ledger, logger: logger}
}

type ProposeParams struct {
	VacancyID   common.UUID
	CandidateID common.UUID
	StageID     common.UUID
	Type        interview.Type
	Modality    interview.Modality
	Slots       []interview.Slot
	MeetingLink string
	Location    string
	CreatedBy   common.UUID
}

func (s *InterviewService) Propose(ctx context.Context, params ProposeParams) (*interview.Interview, error) {
	if params.VacancyID == "" {
		return nil, common.NewError(common.CodeValidation, "vacancy_id is required", nil)
	}
	if params.CandidateID == "" {
		return nil, common.NewError(common.CodeValidation, "candidate_id is required", nil)
	}
	if params.StageID == "" {
		return nil, common.NewError(common.CodeValidation, "stage_id is required", nil)
	}
	if len(params.Slots) == 0 {
		return nil, common.NewError(common.CodeValidation, "at least one slot is required", nil)
	}
	for _, slot := range params.Slots {
		if !slot.End.After(slot.Start) {
			return nil, common.NewValidationError("invalid slot", map[string]string{"slots": "slot end must be after start"})
		}
	}
	if !isKnownInterviewType(params.Type) {
		return nil, common.NewValidationError("invalid type", map[string]string{"type": "type must be internal, client_facing, technical, or follow_up"})
	}
	if !isKnownModality(params.Modality) {
		return nil, common.NewValidationError("invalid modality", map[string]string{"modality": "modality must be in_person or online"})
	}
	if _, err := s.stages.GetByID(ctx, params.StageID); err != nil {
		return nil, err
	}
	iv := interview.Interview{
		VacancyID:     params.VacancyID,
		CandidateID:   params.CandidateID,
		StageID:       params.StageID,
		Type:          params.Type,
		Modality:      params.Modality,
		State:         interview.StateProposed,
		ProposedSlots: params.Slots,
		MeetingLink:   params.MeetingLink,
		Location:      params.Location,
		CreatedBy:     params.CreatedBy,
	}
	return s.repo.Create(ctx, iv)
}

// SelectSlot fixes one of the proposed slots. Exactly-once: the repository
// only flips rows still in proposed state, so whichever concurrent caller
// lands first wins and everyone else gets CodeConflict.
func (s *InterviewService) SelectSlot(ctx context.Context, id common.UUID, slot interview.Slot) (*interview.Interview, error) {
	iv, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if iv.State != interview.StateProposed {
		return nil, common.NewError(common.CodeConflict, "interview is no longer awaiting slot selection", nil)
	}
	if !containsSlot(iv.ProposedSlots, slot) {
		return nil, common.NewError(common.CodeValidation, "chosen slot was not among the proposed slots", nil)
	}
	updated, err := s.repo.SelectSlot(ctx, id, slot)
	if err != nil {
		return nil, err
	}
	if updated.Type == interview.TypeClientFacing {
		s.requestStageAdvance(ctx, updated)
	}
	return updated, nil
}

// requestStageAdvance asks the ledger to move the application to the
// interview's stage after a client-facing interview is fixed. The ledger
// may legitimately refuse (already past that stage, concurrent move); that
// never unwinds the scheduling itself.
func (s *InterviewService) requestStageAdvance(ctx context.Context, iv *interview.Interview) {
	app, err := s.applications.FindActive(ctx, iv.VacancyID, iv.CandidateID)
	if err != nil {
		if s.logger != nil {
			s.logger.Warn("stage advance skipped, no active application: " + err.Error())
		}
		return
	}
	if app.CurrentStageID == iv.StageID {
		return
	}
	if _, err := s.ledger.AdvanceStage(ctx, app.ID, iv.StageID, iv.CreatedBy, "client interview scheduled", false); err != nil {
		if s.logger != nil {
			s.logger.Warn("stage advance rejected by ledger: " + err.Error())
		}
	}
}

func (s *InterviewService) Reschedule(ctx context.Context, id common.UUID, start, end time.Time, actor common.UUID) (*interview.Interview, error) {
	if !end.After(start) {
		return nil, common.NewValidationError("invalid time range", map[string]string{"end": "end must be after start"})
	}
	iv, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if iv.State != interview.StateScheduled && iv.State != interview.StateRescheduled {
		return nil, common.NewError(common.CodeConflict, "only a scheduled interview can be rescheduled", nil)
	}
	return s.repo.Reschedule(ctx, id, start, end)
}

// ConfirmAttendance records the candidate's answer. The value may flip any
// number of times until the interview ends; re-sending the same value is a
// no-op.
func (s *InterviewService) ConfirmAttendance(ctx context.Context, id common.UUID, confirmed bool) (*interview.Interview, error) {
	iv, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if iv.State != interview.StateScheduled && iv.State != interview.StateRescheduled {
		return nil, common.NewError(common.CodeConflict, "interview is not scheduled", nil)
	}
	if iv.EndAt == nil || !iv.EndAt.After(time.Now().UTC()) {
		return nil, common.NewError(common.CodeConflict, "interview has already ended", nil)
	}
	if iv.AttendanceConfirmed != nil && *iv.AttendanceConfirmed == confirmed {
		return iv, nil
	}
	// Keyed to the end time read above so a racing reschedule, which resets
	// attendance and moves the end, cannot be overwritten by a stale answer.
	return s.repo.SetAttendance(ctx, id, confirmed, *iv.EndAt)
}

func (s *InterviewService) Cancel(ctx context.Context, id common.UUID, reason string, actor common.UUID) (*interview.Interview, error) {
	iv, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if iv.Terminal() {
		return nil, common.NewError(common.CodeConflict, "interview is already "+string(iv.State), nil)
	}
	return s.repo.Cancel(ctx, id, reason, actor)
}

func (s *InterviewService) MarkCompleted(ctx context.Context, id common.UUID) (*interview.Interview, error) {
	iv, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if iv.State != interview.StateScheduled && iv.State != interview.StateRescheduled {
		return nil, common.NewError(common.CodeConflict, "interview is not scheduled", nil)
	}
	if iv.EndAt == nil || iv.EndAt.After(time.Now().UTC()) {
		return nil, common.NewError(common.CodeValidation, "interview has not ended yet", nil)
	}
	return s.repo.Complete(ctx, id)
}

// CompleteElapsed is the periodic sweep behind MarkCompleted.
func (s *InterviewService) CompleteElapsed(ctx context.Context) (int64, error) {
	count, err := s.repo.CompleteElapsed(ctx, time.Now().UTC())
	if err != nil {
		return 0, err
	}
	if count > 0 && s.logger != nil {
		s.logger.Info("completed elapsed interviews: " + strconv.FormatInt(count, 10))
	}
	return count, nil
}

func (s *InterviewService) Get(ctx context.Context, id common.UUID) (*interview.Interview, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *InterviewService) ListByCandidate(ctx context.Context, candidateID common.UUID) ([]interview.Interview, error) {
	return s.repo.ListByCandidate(ctx, candidateID)
}

func (s *InterviewService) ListByVacancy(ctx context.Context, vacancyID common.UUID) ([]interview.Interview, error) {
	return s.repo.ListByVacancy(ctx, vacancyID)
}

func containsSlot(slots []interview.Slot, slot interview.Slot) bool {
	for _, candidate := range slots {
		if candidate.Equal(slot) {
			return true
		}
	}
	return false
}

func isKnownInterviewType(t interview.Type) bool {
	switch t {
	case interview.TypeInternal, interview.TypeClientFacing, interview.TypeTechnical, interview.TypeFollowUp:
		return true
	default:
		return false
	}
}

func isKnownModality(m interview.Modality) bool {
	switch m {
	case interview.ModalityInPerson, interview.ModalityOnline:
		return true
	default:
		return false
	}
}
