package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/campusleave/leavedesk/internal/app/models"
	"github.com/campusleave/leavedesk/internal/db"
	"github.com/campusleave/leavedesk/internal/pkg/apperrors"
	"github.com/campusleave/leavedesk/internal/pkg/dberrors"
	"github.com/campusleave/leavedesk/internal/pkg/logger"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var leaveColumns = []string{
	"l.id", "l.student_id", "l.parent_id", "l.advisor_id", "l.warden_id", "l.reason",
	"l.start_date", "l.end_date", "l.type", "l.status", "l.proof_submitted", "l.proof_verified",
	"l.meeting_at", "l.meeting_note", "l.arrival_timestamp", "l.created_at", "l.updated_at",
	"s.name", "s.email",
}

// handledColumns lists the columns LeaveFilter.HandledColumn may name
var handledColumns = map[string]bool{"advisor_id": true, "warden_id": true}

// ILeaveRepository defines the leave store. Every status change is a
// compare-and-set on the current status and is logged in the same transaction.
type ILeaveRepository interface {
	Create(ctx context.Context, leave *models.Leave) error
	GetByID(ctx context.Context, id int64) (*models.Leave, error)
	List(ctx context.Context, filter models.LeaveFilter) ([]*models.Leave, int64, error)
	ApplyTransition(ctx context.Context, id int64, update models.LeaveUpdate, entry *models.ActivityLog) (*models.Leave, error)
	MarkProofSubmitted(ctx context.Context, id int64, at time.Time, entry *models.ActivityLog) (*models.Leave, error)
	MarkProofVerified(ctx context.Context, id int64, at time.Time, entry *models.ActivityLog) (*models.Leave, error)
}

// LeaveRepository handles leave database operations
type LeaveRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewLeaveRepository creates a new LeaveRepository
func NewLeaveRepository(db *pgxpool.Pool) *LeaveRepository {
	return &LeaveRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

func scanLeave(row pgx.Row) (*models.Leave, error) {
	l := &models.Leave{}
	var studentName, studentEmail *string
	err := row.Scan(
		&l.ID, &l.StudentID, &l.ParentID, &l.AdvisorID, &l.WardenID, &l.Reason,
		&l.StartDate, &l.EndDate, &l.Type, &l.Status, &l.ProofSubmitted, &l.ProofVerified,
		&l.MeetingAt, &l.MeetingNote, &l.ArrivalTimestamp, &l.CreatedAt, &l.UpdatedAt,
		&studentName, &studentEmail,
	)
	if err != nil {
		return nil, err
	}
	if studentName != nil {
		l.Student = &models.User{ID: l.StudentID, Name: *studentName, Role: models.RoleStudent}
		if studentEmail != nil {
			l.Student.Email = *studentEmail
		}
	}
	return l, nil
}

func (r *LeaveRepository) selectLeaves(columns ...string) squirrel.SelectBuilder {
	return r.sb.Select(columns...).
		From("leaves l").
		LeftJoin("users s ON s.id = l.student_id")
}

// Create inserts a new leave application
func (r *LeaveRepository) Create(ctx context.Context, leave *models.Leave) error {
	sql, args, err := r.sb.Insert("leaves").
		Columns("student_id", "parent_id", "reason", "start_date", "end_date", "type", "status").
		Values(leave.StudentID, leave.ParentID, leave.Reason, leave.StartDate, leave.EndDate,
			string(leave.Type), string(leave.Status)).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building create leave SQL")
		return fmt.Errorf("failed to build create leave query: %w", err)
	}

	err = r.db.QueryRow(ctx, sql, args...).Scan(&leave.ID, &leave.CreatedAt, &leave.UpdatedAt)
	if err != nil {
		if dberrors.IsCheckViolation(err) {
			return apperrors.ErrInvalidLeaveDates
		}
		if dberrors.IsForeignKeyViolation(err) {
			return apperrors.ErrUserNotFound
		}
		logger.Error().Err(err).Int64("studentID", leave.StudentID).Msg("Error executing create leave query")
		return fmt.Errorf("error creating leave: %w", err)
	}
	return nil
}

func (r *LeaveRepository) getByID(ctx context.Context, q queryRower, id int64) (*models.Leave, error) {
	sql, args, err := r.selectLeaves(leaveColumns...).
		Where(squirrel.Eq{"l.id": id}).
		Limit(1).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building get leave SQL")
		return nil, fmt.Errorf("failed to build get leave query: %w", err)
	}

	leave, err := scanLeave(q.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrLeaveNotFound
		}
		logger.Error().Err(err).Int64("leaveID", id).Msg("Error scanning leave row")
		return nil, fmt.Errorf("error fetching leave: %w", err)
	}
	return leave, nil
}

// GetByID retrieves a leave with its student's name
func (r *LeaveRepository) GetByID(ctx context.Context, id int64) (*models.Leave, error) {
	return r.getByID(ctx, r.db, id)
}

func applyLeaveFilter(q squirrel.SelectBuilder, filter models.LeaveFilter) squirrel.SelectBuilder {
	if filter.StudentID != nil {
		q = q.Where(squirrel.Eq{"l.student_id": *filter.StudentID})
	}
	if filter.ParentID != nil {
		q = q.Where(squirrel.Eq{"l.parent_id": *filter.ParentID})
	}
	if len(filter.QueueStatuses) > 0 || filter.HandledBy != nil {
		scope := squirrel.Or{}
		if len(filter.QueueStatuses) > 0 {
			statuses := make([]string, len(filter.QueueStatuses))
			for i, s := range filter.QueueStatuses {
				statuses[i] = string(s)
			}
			scope = append(scope, squirrel.Eq{"l.status": statuses})
		}
		if filter.HandledBy != nil && handledColumns[filter.HandledColumn] {
			scope = append(scope, squirrel.Eq{"l." + filter.HandledColumn: *filter.HandledBy})
		}
		q = q.Where(scope)
	}
	if filter.Status != "" {
		q = q.Where(squirrel.Eq{"l.status": string(filter.Status)})
	}
	if filter.Type != "" {
		q = q.Where(squirrel.Eq{"l.type": string(filter.Type)})
	}
	return q
}

// List returns leaves matching filter, newest first, with the total count
func (r *LeaveRepository) List(ctx context.Context, filter models.LeaveFilter) ([]*models.Leave, int64, error) {
	countSQL, countArgs, err := applyLeaveFilter(r.selectLeaves("COUNT(*)"), filter).ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building count leaves SQL")
		return nil, 0, fmt.Errorf("failed to build count leaves query: %w", err)
	}

	var total int64
	if err := r.db.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		logger.Error().Err(err).Msg("Error counting leaves")
		return nil, 0, fmt.Errorf("error counting leaves: %w", err)
	}

	q := applyLeaveFilter(r.selectLeaves(leaveColumns...), filter).OrderBy("l.created_at DESC", "l.id DESC")
	if filter.Limit > 0 {
		q = q.Limit(filter.Limit).Offset(filter.Offset)
	}
	sql, args, err := q.ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building list leaves SQL")
		return nil, 0, fmt.Errorf("failed to build list leaves query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing list leaves query")
		return nil, 0, fmt.Errorf("error listing leaves: %w", err)
	}
	defer rows.Close()

	leaves := make([]*models.Leave, 0)
	for rows.Next() {
		leave, err := scanLeave(rows)
		if err != nil {
			logger.Error().Err(err).Msg("Error scanning leave row")
			return nil, 0, fmt.Errorf("error scanning leave: %w", err)
		}
		leaves = append(leaves, leave)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating leaves: %w", err)
	}

	return leaves, total, nil
}

// conditionalUpdate applies set to the leave only when guard still holds,
// writes entry in the same transaction and returns the fresh row. miss is
// returned when the guard no longer matches.
func (r *LeaveRepository) conditionalUpdate(ctx context.Context, id int64, set map[string]interface{},
	guard squirrel.Sqlizer, entry *models.ActivityLog, miss error) (*models.Leave, error) {

	sql, args, err := r.sb.Update("leaves").
		SetMap(set).
		Where(squirrel.Eq{"id": id}).
		Where(guard).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building update leave SQL")
		return nil, fmt.Errorf("failed to build update leave query: %w", err)
	}

	var updated *models.Leave
	err = db.RunInTx(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		var gotID int64
		if err := tx.QueryRow(ctx, sql, args...).Scan(&gotID); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return miss
			}
			logger.Error().Err(err).Int64("leaveID", id).Msg("Error executing update leave query")
			return fmt.Errorf("error updating leave: %w", err)
		}

		if entry != nil {
			if err := insertActivityLog(ctx, tx, r.sb, entry); err != nil {
				return err
			}
		}

		leave, err := r.getByID(ctx, tx, id)
		if err != nil {
			return err
		}
		updated = leave
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// ApplyTransition moves the leave from update.FromStatus to update.ToStatus.
// If another request changed the status first, nothing is written and
// ErrInvalidTransition is returned.
func (r *LeaveRepository) ApplyTransition(ctx context.Context, id int64, update models.LeaveUpdate,
	entry *models.ActivityLog) (*models.Leave, error) {

	set := map[string]interface{}{
		"status":     string(update.ToStatus),
		"updated_at": update.UpdatedAt,
	}
	if update.AdvisorID != nil {
		set["advisor_id"] = *update.AdvisorID
	}
	if update.WardenID != nil {
		set["warden_id"] = *update.WardenID
	}
	if update.MeetingAt != nil {
		set["meeting_at"] = *update.MeetingAt
	}
	if update.MeetingNote != nil {
		set["meeting_note"] = *update.MeetingNote
	}
	if update.ArrivalTimestamp != nil {
		set["arrival_timestamp"] = *update.ArrivalTimestamp
	}

	miss := apperrors.NewInvalidTransitionError(
		fmt.Sprintf("leave is no longer %s", update.FromStatus))
	return r.conditionalUpdate(ctx, id, set,
		squirrel.Eq{"status": string(update.FromStatus)}, entry, miss)
}

// MarkProofSubmitted flags proof on a completed emergency leave exactly once
func (r *LeaveRepository) MarkProofSubmitted(ctx context.Context, id int64, at time.Time,
	entry *models.ActivityLog) (*models.Leave, error) {

	return r.conditionalUpdate(ctx, id,
		map[string]interface{}{"proof_submitted": true, "updated_at": at},
		squirrel.Eq{
			"type":            string(models.LeaveEmergency),
			"status":          string(models.StatusCompleted),
			"proof_submitted": false,
		},
		entry, apperrors.ErrProofAlreadyStated)
}

// MarkProofVerified flags submitted proof as verified exactly once
func (r *LeaveRepository) MarkProofVerified(ctx context.Context, id int64, at time.Time,
	entry *models.ActivityLog) (*models.Leave, error) {

	return r.conditionalUpdate(ctx, id,
		map[string]interface{}{"proof_verified": true, "updated_at": at},
		squirrel.Eq{"proof_submitted": true, "proof_verified": false},
		entry, apperrors.ErrProofAlreadyStated)
}
