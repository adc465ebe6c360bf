package postgres

import (
	"context"
	"database/sql"
	"errors"

	"hirepath/internal/common"
	"hirepath/internal/domain/stage"
)

type StageRepository struct {
	db *sql.DB
}

func NewStageRepository(db *sql.DB) *StageRepository {
	return &StageRepository{db: db}
}

func (r *StageRepository) List(ctx context.Context) ([]stage.Stage, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name, stage_order, color, is_final FROM stages ORDER BY stage_order`)
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to list stages", err)
	}
	defer rows.Close()
	var items []stage.Stage
	for rows.Next() {
		var item stage.Stage
		if err := rows.Scan(&item.ID, &item.Name, &item.Order, &item.Color, &item.IsFinal); err != nil {
			return nil, common.NewError(common.CodeInternal, "failed to scan stage", err)
		}
		items = append(items, item)
	}
	return items, nil
}

func (r *StageRepository) GetByID(ctx context.Context, id common.UUID) (*stage.Stage, error) {
	row := r.db.QueryRowContext(ctx, `SELECT id, name, stage_order, color, is_final FROM stages WHERE id = $1`, id)
	var item stage.Stage
	if err := row.Scan(&item.ID, &item.Name, &item.Order, &item.Color, &item.IsFinal); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.NewError(common.CodeNotFound, "stage not found", err)
		}
		return nil, common.NewError(common.CodeInternal, "failed to load stage", err)
	}
	return &item, nil
}

func (r *StageRepository) First(ctx context.Context) (*stage.Stage, error) {
	row := r.db.QueryRowContext(ctx, `SELECT id, name, stage_order, color, is_final FROM stages ORDER BY stage_order LIMIT 1`)
	var item stage.Stage
	if err := row.Scan(&item.ID, &item.Name, &item.Order, &item.Color, &item.IsFinal); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.NewError(common.CodeNotFound, "no stages configured", err)
		}
		return nil, common.NewError(common.CodeInternal, "failed to load first stage", err)
	}
	return &item, nil
}
