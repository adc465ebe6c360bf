package app

import (
	"context"

	"hirepath/internal/common"
	"hirepath/internal/domain/screening"
	"hirepath/internal/domain/vacancy"
)

// ScreeningService resolves a vacancy's knockout questions and runs the pure
// evaluation over the candidate's answers. It never writes anything.
type ScreeningService struct {
	vacancies vacancy.Repository
}

func NewScreeningService(vacancies vacancy.Repository) *ScreeningService {
	return &ScreeningService{vacancies: vacancies}
}

func (s *ScreeningService) Evaluate(ctx context.Context, vacancyID common.UUID, answers map[common.UUID]screening.Answer) (screening.Result, error) {
	if vacancyID == "" {
		return screening.Result{}, common.NewError(common.CodeValidation, "vacancy_id is required", nil)
	}
	questions, err := s.vacancies.ListQuestions(ctx, vacancyID)
	if err != nil {
		return screening.Result{}, err
	}
	return screening.Evaluate(questions, answers), nil
}
