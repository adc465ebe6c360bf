package postgres

import (
	"context"
	"database/sql"
	"errors"

	"hirepath/internal/common"
	"hirepath/internal/domain/candidate"
)

type CandidateRepository struct {
	db *sql.DB
}

func NewCandidateRepository(db *sql.DB) *CandidateRepository {
	return &CandidateRepository{db: db}
}

func (r *CandidateRepository) GetByID(ctx context.Context, id common.UUID) (*candidate.Candidate, error) {
	row := r.db.QueryRowContext(ctx, `SELECT id, full_name, email, created_at FROM candidates WHERE id = $1`, id)
	var item candidate.Candidate
	if err := row.Scan(&item.ID, &item.FullName, &item.Email, &item.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.NewError(common.CodeNotFound, "candidate not found", err)
		}
		return nil, common.NewError(common.CodeInternal, "failed to load candidate", err)
	}
	return &item, nil
}
