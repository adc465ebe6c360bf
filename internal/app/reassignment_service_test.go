package app

import (
	"context"
	"errors"
	"testing"

	"hirepath/internal/common"
	"hirepath/internal/domain/application"
	"hirepath/internal/domain/candidate"
	"hirepath/internal/domain/vacancy"
)

type reassignmentFixture struct {
	service      *ReassignmentService
	applications *fakeApplicationRepo
	stages       *fakeStageRepo
	vacancies    *fakeVacancyRepo
	candidates   *fakeCandidateRepo
	notifier     *recordingNotifier
	source       *application.Application
	target       vacancy.Vacancy
}

func newReassignmentFixture(t *testing.T) *reassignmentFixture {
	t.Helper()
	applications := newFakeApplicationRepo()
	stages, applied, _, _ := pipelineStages()
	vacancies := newFakeVacancyRepo()
	candidates := newFakeCandidateRepo()
	notifier := &recordingNotifier{}

	cand := candidate.Candidate{ID: common.NewUUID(), FullName: "Dana Reyes", Email: "dana@example.com"}
	candidates.candidates[cand.ID] = &cand

	sourceVacancy := vacancy.Vacancy{ID: common.NewUUID(), Title: "Backend Engineer", RecruiterID: common.NewUUID()}
	targetVacancy := vacancy.Vacancy{ID: common.NewUUID(), Title: "Platform Engineer", RecruiterID: common.NewUUID()}
	vacancies.vacancies[sourceVacancy.ID] = &sourceVacancy
	vacancies.vacancies[targetVacancy.ID] = &targetVacancy

	source, err := applications.Create(context.Background(),
		application.Application{VacancyID: sourceVacancy.ID, CandidateID: cand.ID, CurrentStageID: applied.ID},
		application.HistoryEntry{StageID: applied.ID},
	)
	if err != nil {
		t.Fatalf("expected source application to insert, got %v", err)
	}

	return &reassignmentFixture{
		service:      NewReassignmentService(applications, stages, vacancies, candidates, notifier, noopLogger{}),
		applications: applications,
		stages:       stages,
		vacancies:    vacancies,
		candidates:   candidates,
		notifier:     notifier,
		source:       source,
		target:       targetVacancy,
	}
}

func TestReassignmentServiceReassign(t *testing.T) {
	f := newReassignmentFixture(t)
	actor := common.NewUUID()

	created, err := f.service.Reassign(context.Background(), f.source.ID, f.target.ID, actor)
	if err != nil {
		t.Fatalf("expected reassignment to succeed, got %v", err)
	}
	first, _ := f.stages.First(context.Background())
	if created.VacancyID != f.target.ID || created.CandidateID != f.source.CandidateID {
		t.Fatalf("expected new application on target vacancy for the same candidate, got %+v", created)
	}
	if created.CurrentStageID != first.ID {
		t.Fatalf("expected new application at the first stage %s, got %s", first.ID, created.CurrentStageID)
	}
	if created.ID == f.source.ID {
		t.Fatal("expected a fresh application, not the source row")
	}

	history, _ := f.applications.History(context.Background(), created.ID)
	if len(history) != 1 || history[0].MovedBy != actor {
		t.Fatalf("expected one history entry attributed to the actor, got %+v", history)
	}

	// Source pipeline is untouched.
	source, _ := f.applications.GetByID(context.Background(), f.source.ID)
	if source.VacancyID != f.source.VacancyID || source.Discarded || source.CurrentStageID != f.source.CurrentStageID {
		t.Fatalf("expected source application to stay as it was, got %+v", source)
	}

	if len(f.notifier.sent) != 2 {
		t.Fatalf("expected candidate and recruiter notifications, got %d", len(f.notifier.sent))
	}
	if f.notifier.sent[0].userID != f.source.CandidateID {
		t.Fatalf("expected the candidate notified first, got %s", f.notifier.sent[0].userID)
	}
	if f.notifier.sent[1].userID != f.target.RecruiterID {
		t.Fatalf("expected the target recruiter notified, got %s", f.notifier.sent[1].userID)
	}
}

func TestReassignmentServiceSameVacancy(t *testing.T) {
	f := newReassignmentFixture(t)

	_, err := f.service.Reassign(context.Background(), f.source.ID, f.source.VacancyID, common.NewUUID())
	if !common.Is(err, common.CodeValidation) {
		t.Fatalf("expected validation error reassigning onto the same vacancy, got %v", err)
	}
	if len(f.notifier.sent) != 0 {
		t.Fatal("expected no notifications on a rejected reassignment")
	}
}

func TestReassignmentServiceDuplicateOnTarget(t *testing.T) {
	f := newReassignmentFixture(t)
	first, _ := f.stages.First(context.Background())

	if _, err := f.applications.Create(context.Background(),
		application.Application{VacancyID: f.target.ID, CandidateID: f.source.CandidateID, CurrentStageID: first.ID},
		application.HistoryEntry{StageID: first.ID},
	); err != nil {
		t.Fatalf("expected existing target application to insert, got %v", err)
	}

	_, err := f.service.Reassign(context.Background(), f.source.ID, f.target.ID, common.NewUUID())
	if !common.Is(err, common.CodeDuplicateApplication) {
		t.Fatalf("expected duplicate application error, got %v", err)
	}

	onTarget, _ := f.applications.ListByVacancy(context.Background(), f.target.ID)
	if len(onTarget) != 1 {
		t.Fatalf("expected no extra application rows on the target vacancy, got %d", len(onTarget))
	}
	if len(f.notifier.sent) != 0 {
		t.Fatal("expected no notifications on a rejected reassignment")
	}
}

func TestReassignmentServiceUnknownTargetVacancy(t *testing.T) {
	f := newReassignmentFixture(t)

	_, err := f.service.Reassign(context.Background(), f.source.ID, common.NewUUID(), common.NewUUID())
	if !common.Is(err, common.CodeNotFound) {
		t.Fatalf("expected not found for unknown target vacancy, got %v", err)
	}
}

func TestReassignmentServiceNoStagesConfigured(t *testing.T) {
	f := newReassignmentFixture(t)
	service := NewReassignmentService(f.applications, newFakeStageRepo(), f.vacancies, f.candidates, f.notifier, noopLogger{})

	_, err := service.Reassign(context.Background(), f.source.ID, f.target.ID, common.NewUUID())
	if !common.Is(err, common.CodeNoStagesConfigured) {
		t.Fatalf("expected no-stages error, got %v", err)
	}
}

func TestReassignmentServiceActorIsRecruiter(t *testing.T) {
	f := newReassignmentFixture(t)

	_, err := f.service.Reassign(context.Background(), f.source.ID, f.target.ID, f.target.RecruiterID)
	if err != nil {
		t.Fatalf("expected reassignment to succeed, got %v", err)
	}
	if len(f.notifier.sent) != 1 {
		t.Fatalf("expected only the candidate notification when the recruiter acted, got %d", len(f.notifier.sent))
	}
	if f.notifier.sent[0].userID != f.source.CandidateID {
		t.Fatalf("expected the candidate notified, got %s", f.notifier.sent[0].userID)
	}
}

func TestReassignmentServiceNotifierFailureIsNotFatal(t *testing.T) {
	f := newReassignmentFixture(t)
	f.notifier.err = errors.New("notification service unavailable")

	created, err := f.service.Reassign(context.Background(), f.source.ID, f.target.ID, common.NewUUID())
	if err != nil {
		t.Fatalf("expected reassignment to succeed despite notifier failure, got %v", err)
	}
	if created == nil || created.VacancyID != f.target.ID {
		t.Fatalf("expected a created application on the target vacancy, got %+v", created)
	}
}
