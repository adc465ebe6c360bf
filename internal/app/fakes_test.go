package app

import (
	"context"
	"sort"
	"sync"
	"time"

	"hirepath/internal/common"
	"hirepath/internal/domain/application"
	"hirepath/internal/domain/candidate"
	"hirepath/internal/domain/interview"
	"hirepath/internal/domain/screening"
	"hirepath/internal/domain/stage"
	"hirepath/internal/domain/vacancy"
)

type noopLogger struct{}

func (noopLogger) Info(msg string)  {}
func (noopLogger) Warn(msg string)  {}
func (noopLogger) Error(msg string) {}

type fakeStageRepo struct {
	mu     sync.Mutex
	stages []stage.Stage
}

func newFakeStageRepo(stages ...stage.Stage) *fakeStageRepo {
	return &fakeStageRepo{stages: stages}
}

func (r *fakeStageRepo) List(ctx context.Context) ([]stage.Stage, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	items := append([]stage.Stage(nil), r.stages...)
	sort.Slice(items, func(i, j int) bool { return items[i].Order < items[j].Order })
	return items, nil
}

func (r *fakeStageRepo) GetByID(ctx context.Context, id common.UUID) (*stage.Stage, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, item := range r.stages {
		if item.ID == id {
			copy := item
			return &copy, nil
		}
	}
	return nil, common.NewError(common.CodeNotFound, "stage not found", nil)
}

func (r *fakeStageRepo) First(ctx context.Context) (*stage.Stage, error) {
	items, _ := r.List(ctx)
	if len(items) == 0 {
		return nil, common.NewError(common.CodeNotFound, "no stages configured", nil)
	}
	copy := items[0]
	return &copy, nil
}

// fakeApplicationRepo mirrors the storage guarantees the service relies on:
// the active-pair uniqueness check and the guarded conditional updates all
// happen under one lock, so concurrent test calls race realistically.
type fakeApplicationRepo struct {
	mu      sync.Mutex
	items   map[common.UUID]*application.Application
	history map[common.UUID][]application.HistoryEntry
}

func newFakeApplicationRepo() *fakeApplicationRepo {
	return &fakeApplicationRepo{
		items:   make(map[common.UUID]*application.Application),
		history: make(map[common.UUID][]application.HistoryEntry),
	}
}

func (r *fakeApplicationRepo) Create(ctx context.Context, app application.Application, entry application.HistoryEntry) (*application.Application, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.items {
		if existing.VacancyID == app.VacancyID && existing.CandidateID == app.CandidateID && !existing.Discarded {
			return nil, common.NewError(common.CodeDuplicateApplication, "candidate already has an active application on this vacancy", nil)
		}
	}
	now := time.Now().UTC()
	app.ID = common.NewUUID()
	app.CreatedAt = now
	app.LastUpdatedAt = now
	entry.ID = common.NewUUID()
	entry.ApplicationID = app.ID
	entry.EnteredAt = now
	if app.Discarded {
		entry.ExitedAt = &now
	}
	stored := app
	r.items[app.ID] = &stored
	r.history[app.ID] = []application.HistoryEntry{entry}
	result := app
	return &result, nil
}

func (r *fakeApplicationRepo) GetByID(ctx context.Context, id common.UUID) (*application.Application, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	item, ok := r.items[id]
	if !ok {
		return nil, common.NewError(common.CodeNotFound, "application not found", nil)
	}
	copy := *item
	return &copy, nil
}

func (r *fakeApplicationRepo) FindActive(ctx context.Context, vacancyID, candidateID common.UUID) (*application.Application, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, item := range r.items {
		if item.VacancyID == vacancyID && item.CandidateID == candidateID && !item.Discarded {
			copy := *item
			return &copy, nil
		}
	}
	return nil, common.NewError(common.CodeNotFound, "application not found", nil)
}

func (r *fakeApplicationRepo) ListByVacancy(ctx context.Context, vacancyID common.UUID) ([]application.Application, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var items []application.Application
	for _, item := range r.items {
		if item.VacancyID == vacancyID {
			items = append(items, *item)
		}
	}
	return items, nil
}

func (r *fakeApplicationRepo) ListByCandidate(ctx context.Context, candidateID common.UUID) ([]application.Application, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var items []application.Application
	for _, item := range r.items {
		if item.CandidateID == candidateID {
			items = append(items, *item)
		}
	}
	return items, nil
}

func (r *fakeApplicationRepo) TransitionStage(ctx context.Context, id, fromStageID, toStageID, movedBy common.UUID, notes string) (*application.Application, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	item, ok := r.items[id]
	if !ok {
		return nil, common.NewError(common.CodeNotFound, "application not found", nil)
	}
	if item.Discarded || item.CurrentStageID != fromStageID {
		return nil, common.NewError(common.CodeConflict, "application changed concurrently", nil)
	}
	now := time.Now().UTC()
	r.closeOpenEntry(id, now)
	r.history[id] = append(r.history[id], application.HistoryEntry{
		ID:            common.NewUUID(),
		ApplicationID: id,
		StageID:       toStageID,
		EnteredAt:     now,
		MovedBy:       movedBy,
		Notes:         notes,
	})
	item.CurrentStageID = toStageID
	item.LastUpdatedAt = now
	copy := *item
	return &copy, nil
}

func (r *fakeApplicationRepo) Discard(ctx context.Context, id common.UUID, reason string, movedBy common.UUID) (*application.Application, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	item, ok := r.items[id]
	if !ok {
		return nil, false, common.NewError(common.CodeNotFound, "application not found", nil)
	}
	if item.Discarded {
		copy := *item
		return &copy, false, nil
	}
	now := time.Now().UTC()
	item.Discarded = true
	item.DiscardReason = reason
	item.LastUpdatedAt = now
	r.closeOpenEntry(id, now)
	copy := *item
	return &copy, true, nil
}

func (r *fakeApplicationRepo) closeOpenEntry(id common.UUID, now time.Time) {
	entries := r.history[id]
	for i := range entries {
		if entries[i].ExitedAt == nil {
			exited := now
			entries[i].ExitedAt = &exited
		}
	}
	r.history[id] = entries
}

func (r *fakeApplicationRepo) History(ctx context.Context, id common.UUID) ([]application.HistoryEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]application.HistoryEntry(nil), r.history[id]...), nil
}

type fakeInterviewRepo struct {
	mu    sync.Mutex
	items map[common.UUID]*interview.Interview
}

func newFakeInterviewRepo() *fakeInterviewRepo {
	return &fakeInterviewRepo{items: make(map[common.UUID]*interview.Interview)}
}

func (r *fakeInterviewRepo) Create(ctx context.Context, iv interview.Interview) (*interview.Interview, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now().UTC()
	iv.ID = common.NewUUID()
	iv.CreatedAt = now
	iv.UpdatedAt = now
	stored := iv
	r.items[iv.ID] = &stored
	result := iv
	return &result, nil
}

func (r *fakeInterviewRepo) GetByID(ctx context.Context, id common.UUID) (*interview.Interview, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.cloneLocked(id)
}

func (r *fakeInterviewRepo) cloneLocked(id common.UUID) (*interview.Interview, error) {
	item, ok := r.items[id]
	if !ok {
		return nil, common.NewError(common.CodeNotFound, "interview not found", nil)
	}
	copy := *item
	copy.ProposedSlots = append([]interview.Slot(nil), item.ProposedSlots...)
	if item.AttendanceConfirmed != nil {
		confirmed := *item.AttendanceConfirmed
		copy.AttendanceConfirmed = &confirmed
	}
	return &copy, nil
}

func (r *fakeInterviewRepo) ListByCandidate(ctx context.Context, candidateID common.UUID) ([]interview.Interview, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var items []interview.Interview
	for _, item := range r.items {
		if item.CandidateID == candidateID {
			items = append(items, *item)
		}
	}
	return items, nil
}

func (r *fakeInterviewRepo) ListByVacancy(ctx context.Context, vacancyID common.UUID) ([]interview.Interview, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var items []interview.Interview
	for _, item := range r.items {
		if item.VacancyID == vacancyID {
			items = append(items, *item)
		}
	}
	return items, nil
}

func (r *fakeInterviewRepo) SelectSlot(ctx context.Context, id common.UUID, slot interview.Slot) (*interview.Interview, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	item, ok := r.items[id]
	if !ok {
		return nil, common.NewError(common.CodeNotFound, "interview not found", nil)
	}
	if item.State != interview.StateProposed {
		return nil, common.NewError(common.CodeConflict, "interview is no longer awaiting slot selection", nil)
	}
	start := slot.Start
	end := slot.End
	item.State = interview.StateScheduled
	item.StartAt = &start
	item.EndAt = &end
	item.ProposedSlots = nil
	item.UpdatedAt = time.Now().UTC()
	return r.cloneLocked(id)
}

func (r *fakeInterviewRepo) Reschedule(ctx context.Context, id common.UUID, start, end time.Time) (*interview.Interview, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	item, ok := r.items[id]
	if !ok {
		return nil, common.NewError(common.CodeNotFound, "interview not found", nil)
	}
	if item.State != interview.StateScheduled && item.State != interview.StateRescheduled {
		return nil, common.NewError(common.CodeConflict, "only a scheduled interview can be rescheduled", nil)
	}
	item.State = interview.StateRescheduled
	item.StartAt = &start
	item.EndAt = &end
	item.AttendanceConfirmed = nil
	item.UpdatedAt = time.Now().UTC()
	return r.cloneLocked(id)
}

func (r *fakeInterviewRepo) SetAttendance(ctx context.Context, id common.UUID, confirmed bool, endAt time.Time) (*interview.Interview, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	item, ok := r.items[id]
	if !ok {
		return nil, common.NewError(common.CodeNotFound, "interview not found", nil)
	}
	if item.State != interview.StateScheduled && item.State != interview.StateRescheduled {
		return nil, common.NewError(common.CodeConflict, "interview is not scheduled", nil)
	}
	if item.EndAt == nil || !item.EndAt.Equal(endAt) {
		return nil, common.NewError(common.CodeConflict, "interview was rescheduled concurrently", nil)
	}
	value := confirmed
	item.AttendanceConfirmed = &value
	item.UpdatedAt = time.Now().UTC()
	return r.cloneLocked(id)
}

func (r *fakeInterviewRepo) Cancel(ctx context.Context, id common.UUID, reason string, actor common.UUID) (*interview.Interview, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	item, ok := r.items[id]
	if !ok {
		return nil, common.NewError(common.CodeNotFound, "interview not found", nil)
	}
	if item.State == interview.StateCancelled || item.State == interview.StateCompleted {
		return nil, common.NewError(common.CodeConflict, "interview is already terminal", nil)
	}
	item.State = interview.StateCancelled
	item.CancelReason = reason
	item.CancelledBy = actor
	item.ProposedSlots = nil
	item.UpdatedAt = time.Now().UTC()
	return r.cloneLocked(id)
}

func (r *fakeInterviewRepo) Complete(ctx context.Context, id common.UUID) (*interview.Interview, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	item, ok := r.items[id]
	if !ok {
		return nil, common.NewError(common.CodeNotFound, "interview not found", nil)
	}
	if item.State != interview.StateScheduled && item.State != interview.StateRescheduled {
		return nil, common.NewError(common.CodeConflict, "interview is not scheduled", nil)
	}
	item.State = interview.StateCompleted
	item.UpdatedAt = time.Now().UTC()
	return r.cloneLocked(id)
}

func (r *fakeInterviewRepo) CompleteElapsed(ctx context.Context, now time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var count int64
	for _, item := range r.items {
		if (item.State == interview.StateScheduled || item.State == interview.StateRescheduled) && item.EndAt != nil && item.EndAt.Before(now) {
			item.State = interview.StateCompleted
			item.UpdatedAt = now
			count++
		}
	}
	return count, nil
}

type fakeVacancyRepo struct {
	mu        sync.Mutex
	vacancies map[common.UUID]*vacancy.Vacancy
	questions map[common.UUID][]screening.Question
}

func newFakeVacancyRepo() *fakeVacancyRepo {
	return &fakeVacancyRepo{
		vacancies: make(map[common.UUID]*vacancy.Vacancy),
		questions: make(map[common.UUID][]screening.Question),
	}
}

func (r *fakeVacancyRepo) GetByID(ctx context.Context, id common.UUID) (*vacancy.Vacancy, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	item, ok := r.vacancies[id]
	if !ok {
		return nil, common.NewError(common.CodeNotFound, "vacancy not found", nil)
	}
	copy := *item
	return &copy, nil
}

func (r *fakeVacancyRepo) ListQuestions(ctx context.Context, vacancyID common.UUID) ([]screening.Question, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]screening.Question(nil), r.questions[vacancyID]...), nil
}

type fakeCandidateRepo struct {
	mu         sync.Mutex
	candidates map[common.UUID]*candidate.Candidate
}

func newFakeCandidateRepo() *fakeCandidateRepo {
	return &fakeCandidateRepo{candidates: make(map[common.UUID]*candidate.Candidate)}
}

func (r *fakeCandidateRepo) GetByID(ctx context.Context, id common.UUID) (*candidate.Candidate, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	item, ok := r.candidates[id]
	if !ok {
		return nil, common.NewError(common.CodeNotFound, "candidate not found", nil)
	}
	copy := *item
	return &copy, nil
}

type sentNotification struct {
	userID  common.UUID
	title   string
	message string
}

type recordingNotifier struct {
	mu   sync.Mutex
	err  error
	sent []sentNotification
}

func (n *recordingNotifier) Notify(ctx context.Context, userID common.UUID, title, message string, metadata map[string]string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, sentNotification{userID: userID, title: title, message: message})
	return n.err
}

type fakeScreener struct {
	result screening.Result
	err    error
}

func (s *fakeScreener) Evaluate(ctx context.Context, vacancyID common.UUID, answers map[common.UUID]screening.Answer) (screening.Result, error) {
	if s.err != nil {
		return screening.Result{}, s.err
	}
	return s.result, nil
}

type recordedAdvance struct {
	applicationID common.UUID
	targetStageID common.UUID
}

type recordingAdvancer struct {
	mu       sync.Mutex
	err      error
	requests []recordedAdvance
}

func (a *recordingAdvancer) AdvanceStage(ctx context.Context, applicationID, targetStageID, movedBy common.UUID, notes string, override bool) (*application.Application, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.requests = append(a.requests, recordedAdvance{applicationID: applicationID, targetStageID: targetStageID})
	if a.err != nil {
		return nil, a.err
	}
	return &application.Application{ID: applicationID, CurrentStageID: targetStageID}, nil
}
