package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"hirepath/internal/common"
	"hirepath/internal/domain/interview"
)

type InterviewRepository struct {
	db *sql.DB
}

func NewInterviewRepository(db *sql.DB) *InterviewRepository {
	return &InterviewRepository{db: db}
}

const interviewColumns = `id, vacancy_id, candidate_id, stage_id, interview_type, modality, state, start_at, end_at, proposed_slots, meeting_link, location, attendance_confirmed, cancel_reason, cancelled_by, created_by, created_at, updated_at`

func (r *InterviewRepository) Create(ctx context.Context, iv interview.Interview) (*interview.Interview, error) {
	iv.ID = common.NewUUID()
	now := time.Now().UTC()
	iv.CreatedAt = now
	iv.UpdatedAt = now

	slots, err := json.Marshal(iv.ProposedSlots)
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to encode proposed slots", err)
	}
	_, err = r.db.ExecContext(ctx, `INSERT INTO interviews (id, vacancy_id, candidate_id, stage_id, interview_type, modality, state, proposed_slots, meeting_link, location, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
		iv.ID, iv.VacancyID, iv.CandidateID, iv.StageID, iv.Type, iv.Modality, iv.State, slots, iv.MeetingLink, iv.Location, nullableUUID(iv.CreatedBy), iv.CreatedAt, iv.UpdatedAt)
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to create interview", err)
	}
	return &iv, nil
}

func (r *InterviewRepository) GetByID(ctx context.Context, id common.UUID) (*interview.Interview, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+interviewColumns+` FROM interviews WHERE id = $1`, id)
	return scanInterview(row)
}

func (r *InterviewRepository) ListByCandidate(ctx context.Context, candidateID common.UUID) ([]interview.Interview, error) {
	return r.list(ctx, `SELECT `+interviewColumns+` FROM interviews WHERE candidate_id = $1 ORDER BY created_at DESC`, candidateID)
}

func (r *InterviewRepository) ListByVacancy(ctx context.Context, vacancyID common.UUID) ([]interview.Interview, error) {
	return r.list(ctx, `SELECT `+interviewColumns+` FROM interviews WHERE vacancy_id = $1 ORDER BY created_at DESC`, vacancyID)
}

func (r *InterviewRepository) list(ctx context.Context, query string, arg any) ([]interview.Interview, error) {
	rows, err := r.db.QueryContext(ctx, query, arg)
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to list interviews", err)
	}
	defer rows.Close()
	var items []interview.Interview
	for rows.Next() {
		iv, err := scanInterview(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *iv)
	}
	return items, nil
}

// SelectSlot is the exactly-once transition: only a row still in proposed
// state is updated, and the affected-row count decides between success and
// CodeConflict. The losing caller of a race gets the conflict, never a
// silent overwrite.
func (r *InterviewRepository) SelectSlot(ctx context.Context, id common.UUID, slot interview.Slot) (*interview.Interview, error) {
	result, err := r.db.ExecContext(ctx, `UPDATE interviews SET state = $1, start_at = $2, end_at = $3, proposed_slots = NULL, updated_at = $4
		WHERE id = $5 AND state = $6`,
		interview.StateScheduled, slot.Start, slot.End, time.Now().UTC(), id, interview.StateProposed)
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to select slot", err)
	}
	return r.afterConditionalUpdate(ctx, id, result, "interview is no longer awaiting slot selection")
}

func (r *InterviewRepository) Reschedule(ctx context.Context, id common.UUID, start, end time.Time) (*interview.Interview, error) {
	result, err := r.db.ExecContext(ctx, `UPDATE interviews SET state = $1, start_at = $2, end_at = $3, attendance_confirmed = NULL, updated_at = $4
		WHERE id = $5 AND state IN ($6, $7)`,
		interview.StateRescheduled, start, end, time.Now().UTC(), id, interview.StateScheduled, interview.StateRescheduled)
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to reschedule interview", err)
	}
	return r.afterConditionalUpdate(ctx, id, result, "only a scheduled interview can be rescheduled")
}

func (r *InterviewRepository) SetAttendance(ctx context.Context, id common.UUID, confirmed bool, endAt time.Time) (*interview.Interview, error) {
	result, err := r.db.ExecContext(ctx, `UPDATE interviews SET attendance_confirmed = $1, updated_at = $2
		WHERE id = $3 AND state IN ($4, $5) AND end_at = $6`,
		confirmed, time.Now().UTC(), id, interview.StateScheduled, interview.StateRescheduled, endAt)
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to set attendance", err)
	}
	return r.afterConditionalUpdate(ctx, id, result, "interview is not scheduled")
}

func (r *InterviewRepository) Cancel(ctx context.Context, id common.UUID, reason string, actor common.UUID) (*interview.Interview, error) {
	result, err := r.db.ExecContext(ctx, `UPDATE interviews SET state = $1, cancel_reason = $2, cancelled_by = $3, proposed_slots = NULL, updated_at = $4
		WHERE id = $5 AND state NOT IN ($6, $7)`,
		interview.StateCancelled, reason, nullableUUID(actor), time.Now().UTC(), id, interview.StateCancelled, interview.StateCompleted)
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to cancel interview", err)
	}
	return r.afterConditionalUpdate(ctx, id, result, "interview is already terminal")
}

func (r *InterviewRepository) Complete(ctx context.Context, id common.UUID) (*interview.Interview, error) {
	result, err := r.db.ExecContext(ctx, `UPDATE interviews SET state = $1, updated_at = $2
		WHERE id = $3 AND state IN ($4, $5)`,
		interview.StateCompleted, time.Now().UTC(), id, interview.StateScheduled, interview.StateRescheduled)
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to complete interview", err)
	}
	return r.afterConditionalUpdate(ctx, id, result, "interview is not scheduled")
}

func (r *InterviewRepository) CompleteElapsed(ctx context.Context, now time.Time) (int64, error) {
	result, err := r.db.ExecContext(ctx, `UPDATE interviews SET state = $1, updated_at = $2
		WHERE state IN ($3, $4) AND end_at < $5`,
		interview.StateCompleted, now, interview.StateScheduled, interview.StateRescheduled, now)
	if err != nil {
		return 0, common.NewError(common.CodeInternal, "failed to sweep elapsed interviews", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return 0, common.NewError(common.CodeInternal, "failed to read affected rows", err)
	}
	return affected, nil
}

func (r *InterviewRepository) afterConditionalUpdate(ctx context.Context, id common.UUID, result sql.Result, conflictMsg string) (*interview.Interview, error) {
	affected, err := result.RowsAffected()
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to read affected rows", err)
	}
	if affected == 0 {
		// Distinguish a lost race from a missing row.
		if _, err := r.GetByID(ctx, id); err != nil {
			return nil, err
		}
		return nil, common.NewError(common.CodeConflict, conflictMsg, nil)
	}
	return r.GetByID(ctx, id)
}

func scanInterview(row rowScanner) (*interview.Interview, error) {
	var iv interview.Interview
	var slots []byte
	var attendance sql.NullBool
	var cancelledBy, createdBy sql.NullString
	if err := row.Scan(&iv.ID, &iv.VacancyID, &iv.CandidateID, &iv.StageID, &iv.Type, &iv.Modality, &iv.State,
		&iv.StartAt, &iv.EndAt, &slots, &iv.MeetingLink, &iv.Location, &attendance, &iv.CancelReason, &cancelledBy, &createdBy, &iv.CreatedAt, &iv.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.NewError(common.CodeNotFound, "interview not found", err)
		}
		return nil, common.NewError(common.CodeInternal, "failed to load interview", err)
	}
	if len(slots) > 0 {
		if err := json.Unmarshal(slots, &iv.ProposedSlots); err != nil {
			return nil, common.NewError(common.CodeInternal, "failed to decode proposed slots", err)
		}
	}
	if attendance.Valid {
		iv.AttendanceConfirmed = &attendance.Bool
	}
	if cancelledBy.Valid {
		iv.CancelledBy = common.UUID(cancelledBy.String)
	}
	if createdBy.Valid {
		iv.CreatedBy = common.UUID(createdBy.String)
	}
	return &iv, nil
}
