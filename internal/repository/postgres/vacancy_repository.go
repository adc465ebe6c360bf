package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"

	"hirepath/internal/common"
	"hirepath/internal/domain/screening"
	"hirepath/internal/domain/vacancy"
)

// VacancyRepository is a read-only view over the vacancy directory owned by
// the rest of the product; the pipeline core only ever looks vacancies up.
type VacancyRepository struct {
	db *sql.DB
}

func NewVacancyRepository(db *sql.DB) *VacancyRepository {
	return &VacancyRepository{db: db}
}

func (r *VacancyRepository) GetByID(ctx context.Context, id common.UUID) (*vacancy.Vacancy, error) {
	row := r.db.QueryRowContext(ctx, `SELECT id, title, recruiter_id, requirements, created_at FROM vacancies WHERE id = $1`, id)
	var item vacancy.Vacancy
	if err := row.Scan(&item.ID, &item.Title, &item.RecruiterID, pq.Array(&item.Requirements), &item.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.NewError(common.CodeNotFound, "vacancy not found", err)
		}
		return nil, common.NewError(common.CodeInternal, "failed to load vacancy", err)
	}
	return &item, nil
}

func (r *VacancyRepository) ListQuestions(ctx context.Context, vacancyID common.UUID) ([]screening.Question, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, vacancy_id, question_text, question_type, rule, reference_value
		FROM knockout_questions WHERE vacancy_id = $1 ORDER BY created_at`, vacancyID)
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to list knockout questions", err)
	}
	defer rows.Close()
	var items []screening.Question
	for rows.Next() {
		var q screening.Question
		if err := rows.Scan(&q.ID, &q.VacancyID, &q.Text, &q.Type, &q.Rule, &q.ReferenceValue); err != nil {
			return nil, common.NewError(common.CodeInternal, "failed to scan knockout question", err)
		}
		items = append(items, q)
	}
	return items, nil
}
