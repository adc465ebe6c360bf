package app

import (
	"context"

	"hirepath/internal/common"
	"hirepath/internal/domain/application"
	"hirepath/internal/domain/candidate"
	"hirepath/internal/domain/notification"
	"hirepath/internal/domain/stage"
	"hirepath/internal/domain/vacancy"
)

// ReassignmentService moves a candidate onto another vacancy's pipeline by
// creating a fresh application there. The source application is left
// untouched, and screening is not re-run: the candidate already passed it
// for the original vacancy.
type ReassignmentService struct {
	applications application.Repository
	stages       stage.Repository
	vacancies    vacancy.Repository
	candidates   candidate.Repository
	notifier     notification.Notifier
	logger       Logger
}

func NewReassignmentService(applications application.Repository, stages stage.Repository, vacancies vacancy.Repository, candidates candidate.Repository, notifier notification.Notifier, logger Logger) *ReassignmentService {
	return &ReassignmentService{applications: applications, stages: stages, vacancies: vacancies, candidates: candidates, notifier: notifier, logger: logger}
}

func (s *ReassignmentService) Reassign(ctx context.Context, applicationID, targetVacancyID, actor common.UUID) (*application.Application, error) {
	if targetVacancyID == "" {
		return nil, common.NewError(common.CodeValidation, "target_vacancy_id is required", nil)
	}
	source, err := s.applications.GetByID(ctx, applicationID)
	if err != nil {
		return nil, err
	}
	if source.VacancyID == targetVacancyID {
		return nil, common.NewError(common.CodeValidation, "application already belongs to this vacancy", nil)
	}
	target, err := s.vacancies.GetByID(ctx, targetVacancyID)
	if err != nil {
		return nil, err
	}
	first, err := s.stages.First(ctx)
	if err != nil {
		if common.Is(err, common.CodeNotFound) {
			return nil, common.NewError(common.CodeNoStagesConfigured, "no pipeline stages configured", err)
		}
		return nil, err
	}
	// The storage layer's unique index is the real duplicate gate; this
	// lookup only gives a cheap early answer without the insert attempt.
	if _, err := s.applications.FindActive(ctx, targetVacancyID, source.CandidateID); err == nil {
		return nil, common.NewError(common.CodeDuplicateApplication, "candidate already has an active application on this vacancy", nil)
	} else if !common.Is(err, common.CodeNotFound) {
		return nil, err
	}
	created, err := s.applications.Create(ctx, application.Application{
		VacancyID:      targetVacancyID,
		CandidateID:    source.CandidateID,
		CurrentStageID: first.ID,
	}, application.HistoryEntry{StageID: first.ID, MovedBy: actor})
	if err != nil {
		return nil, err
	}
	s.notifyReassigned(ctx, created, target, actor)
	return created, nil
}

func (s *ReassignmentService) notifyReassigned(ctx context.Context, app *application.Application, target *vacancy.Vacancy, actor common.UUID) {
	metadata := map[string]string{
		"application_id": app.ID.String(),
		"vacancy_id":     target.ID.String(),
	}
	title := "Application moved"
	message := "Your application was moved to the vacancy \"" + target.Title + "\"."
	if cand, err := s.candidates.GetByID(ctx, app.CandidateID); err == nil && cand.FullName != "" {
		message = cand.FullName + ", your application was moved to the vacancy \"" + target.Title + "\"."
	}
	if err := s.notifier.Notify(ctx, app.CandidateID, title, message, metadata); err != nil && s.logger != nil {
		s.logger.Warn("candidate notification failed: " + err.Error())
	}
	if target.RecruiterID != "" && target.RecruiterID != actor {
		recruiterMessage := "A candidate was reassigned to your vacancy \"" + target.Title + "\"."
		if err := s.notifier.Notify(ctx, target.RecruiterID, "Candidate reassigned", recruiterMessage, metadata); err != nil && s.logger != nil {
			s.logger.Warn("recruiter notification failed: " + err.Error())
		}
	}
}
