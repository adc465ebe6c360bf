package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgconn"

	"hirepath/internal/common"
	"hirepath/internal/domain/application"
)

type ApplicationRepository struct {
	db *sql.DB
}

func NewApplicationRepository(db *sql.DB) *ApplicationRepository {
	return &ApplicationRepository{db: db}
}

const applicationColumns = `id, vacancy_id, candidate_id, current_stage_id, discarded, discard_reason, notes, created_at, last_updated_at`

// Create inserts the application and its first history entry in one
// transaction. The partial unique index on active (vacancy, candidate)
// pairs turns a concurrent duplicate into CodeDuplicateApplication, so two
// racing intakes can never both win.
func (r *ApplicationRepository) Create(ctx context.Context, app application.Application, entry application.HistoryEntry) (*application.Application, error) {
	app.ID = common.NewUUID()
	now := time.Now().UTC()
	app.CreatedAt = now
	app.LastUpdatedAt = now

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to begin transaction", err)
	}
	defer tx.Rollback()

	// The partial index only covers active rows, so a pre-discarded insert
	// would slip past it. Check for a live pair explicitly in that case.
	if app.Discarded {
		var exists bool
		if err := tx.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM applications WHERE vacancy_id = $1 AND candidate_id = $2 AND NOT discarded)`,
			app.VacancyID, app.CandidateID).Scan(&exists); err != nil {
			return nil, common.NewError(common.CodeInternal, "failed to check for an active application", err)
		}
		if exists {
			return nil, common.NewError(common.CodeDuplicateApplication, "candidate already has an active application on this vacancy", nil)
		}
	}

	_, err = tx.ExecContext(ctx, `INSERT INTO applications (id, vacancy_id, candidate_id, current_stage_id, discarded, discard_reason, notes, created_at, last_updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		app.ID, app.VacancyID, app.CandidateID, app.CurrentStageID, app.Discarded, app.DiscardReason, app.Notes, app.CreatedAt, app.LastUpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, common.NewError(common.CodeDuplicateApplication, "candidate already has an active application on this vacancy", err)
		}
		return nil, common.NewError(common.CodeInternal, "failed to create application", err)
	}

	entry.ID = common.NewUUID()
	entry.ApplicationID = app.ID
	entry.EnteredAt = now
	// A knockout-failed application never enters the live pipeline: its
	// only history entry is closed the moment it is written.
	if app.Discarded {
		entry.ExitedAt = &now
	}
	_, err = tx.ExecContext(ctx, `INSERT INTO application_stage_history (id, application_id, stage_id, entered_at, exited_at, moved_by, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		entry.ID, entry.ApplicationID, entry.StageID, entry.EnteredAt, entry.ExitedAt, nullableUUID(entry.MovedBy), entry.Notes)
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to write stage history", err)
	}

	if err := tx.Commit(); err != nil {
		if isUniqueViolation(err) {
			return nil, common.NewError(common.CodeDuplicateApplication, "candidate already has an active application on this vacancy", err)
		}
		return nil, common.NewError(common.CodeInternal, "failed to commit application", err)
	}
	return &app, nil
}

func (r *ApplicationRepository) GetByID(ctx context.Context, id common.UUID) (*application.Application, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+applicationColumns+` FROM applications WHERE id = $1`, id)
	return scanApplication(row)
}

func (r *ApplicationRepository) FindActive(ctx context.Context, vacancyID, candidateID common.UUID) (*application.Application, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+applicationColumns+` FROM applications WHERE vacancy_id = $1 AND candidate_id = $2 AND NOT discarded`, vacancyID, candidateID)
	return scanApplication(row)
}

func (r *ApplicationRepository) ListByVacancy(ctx context.Context, vacancyID common.UUID) ([]application.Application, error) {
	return r.list(ctx, `SELECT `+applicationColumns+` FROM applications WHERE vacancy_id = $1 ORDER BY created_at DESC`, vacancyID)
}

func (r *ApplicationRepository) ListByCandidate(ctx context.Context, candidateID common.UUID) ([]application.Application, error) {
	return r.list(ctx, `SELECT `+applicationColumns+` FROM applications WHERE candidate_id = $1 ORDER BY created_at DESC`, candidateID)
}

func (r *ApplicationRepository) list(ctx context.Context, query string, arg any) ([]application.Application, error) {
	rows, err := r.db.QueryContext(ctx, query, arg)
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to list applications", err)
	}
	defer rows.Close()
	var items []application.Application
	for rows.Next() {
		app, err := scanApplication(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *app)
	}
	return items, nil
}

// TransitionStage performs the stage move as one transaction: a guarded
// update on the application row, closing the open history entry, and
// opening the next one. The guard on current_stage_id makes a stale caller
// fail with CodeConflict instead of clobbering a concurrent move.
func (r *ApplicationRepository) TransitionStage(ctx context.Context, id, fromStageID, toStageID, movedBy common.UUID, notes string) (*application.Application, error) {
	now := time.Now().UTC()

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to begin transaction", err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx, `UPDATE applications SET current_stage_id = $1, last_updated_at = $2
		WHERE id = $3 AND current_stage_id = $4 AND NOT discarded`,
		toStageID, now, id, fromStageID)
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to update application stage", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to read affected rows", err)
	}
	if affected == 0 {
		return nil, common.NewError(common.CodeConflict, "application changed concurrently", nil)
	}

	if _, err := tx.ExecContext(ctx, `UPDATE application_stage_history SET exited_at = $1 WHERE application_id = $2 AND exited_at IS NULL`, now, id); err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to close stage history", err)
	}
	if _, err := tx.ExecContext(ctx, `INSERT INTO application_stage_history (id, application_id, stage_id, entered_at, exited_at, moved_by, notes)
		VALUES ($1, $2, $3, $4, NULL, $5, $6)`,
		common.NewUUID(), id, toStageID, now, nullableUUID(movedBy), notes); err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to write stage history", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to commit stage transition", err)
	}
	return r.GetByID(ctx, id)
}

// Discard closes the application. The second return value reports whether
// this call actually discarded it; a repeat call finds zero rows to update
// and returns the row unchanged.
func (r *ApplicationRepository) Discard(ctx context.Context, id common.UUID, reason string, movedBy common.UUID) (*application.Application, bool, error) {
	now := time.Now().UTC()

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, false, common.NewError(common.CodeInternal, "failed to begin transaction", err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx, `UPDATE applications SET discarded = TRUE, discard_reason = $1, last_updated_at = $2
		WHERE id = $3 AND NOT discarded`, reason, now, id)
	if err != nil {
		return nil, false, common.NewError(common.CodeInternal, "failed to discard application", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return nil, false, common.NewError(common.CodeInternal, "failed to read affected rows", err)
	}
	if affected > 0 {
		if _, err := tx.ExecContext(ctx, `UPDATE application_stage_history SET exited_at = $1 WHERE application_id = $2 AND exited_at IS NULL`, now, id); err != nil {
			return nil, false, common.NewError(common.CodeInternal, "failed to close stage history", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return nil, false, common.NewError(common.CodeInternal, "failed to commit discard", err)
	}

	app, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, false, err
	}
	return app, affected > 0, nil
}

func (r *ApplicationRepository) History(ctx context.Context, id common.UUID) ([]application.HistoryEntry, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, application_id, stage_id, entered_at, exited_at, moved_by, notes
		FROM application_stage_history WHERE application_id = $1 ORDER BY entered_at`, id)
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to list stage history", err)
	}
	defer rows.Close()
	var items []application.HistoryEntry
	for rows.Next() {
		var entry application.HistoryEntry
		var movedBy sql.NullString
		if err := rows.Scan(&entry.ID, &entry.ApplicationID, &entry.StageID, &entry.EnteredAt, &entry.ExitedAt, &movedBy, &entry.Notes); err != nil {
			return nil, common.NewError(common.CodeInternal, "failed to scan stage history", err)
		}
		if movedBy.Valid {
			entry.MovedBy = common.UUID(movedBy.String)
		}
		items = append(items, entry)
	}
	return items, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanApplication(row rowScanner) (*application.Application, error) {
	var app application.Application
	if err := row.Scan(&app.ID, &app.VacancyID, &app.CandidateID, &app.CurrentStageID, &app.Discarded, &app.DiscardReason, &app.Notes, &app.CreatedAt, &app.LastUpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.NewError(common.CodeNotFound, "application not found", err)
		}
		return nil, common.NewError(common.CodeInternal, "failed to load application", err)
	}
	return &app, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

func nullableUUID(id common.UUID) any {
	if id == "" {
		return nil
	}
	return id
}
