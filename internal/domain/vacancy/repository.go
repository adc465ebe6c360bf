package vacancy

import (
	"context"

	"hirepath/internal/common"
	"hirepath/internal/domain/screening"
)

type Repository interface {
	GetByID(ctx context.Context, id common.UUID) (*Vacancy, error)
	ListQuestions(ctx context.Context, vacancyID common.UUID) ([]screening.Question, error)
}
