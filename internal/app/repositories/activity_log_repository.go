package repositories

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/campusleave/leavedesk/internal/app/models"
	"github.com/campusleave/leavedesk/internal/pkg/logger"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// IActivityLogRepository defines the audit log store
type IActivityLogRepository interface {
	Create(ctx context.Context, entry *models.ActivityLog) error
	List(ctx context.Context, offset, limit uint64) ([]*models.ActivityLog, int64, error)
}

// queryRower is implemented by both the pool and a transaction
type queryRower interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// ActivityLogRepository handles activity_logs database operations
type ActivityLogRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewActivityLogRepository creates a new ActivityLogRepository
func NewActivityLogRepository(db *pgxpool.Pool) *ActivityLogRepository {
	return &ActivityLogRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

func insertActivityLog(ctx context.Context, q queryRower, sb squirrel.StatementBuilderType, entry *models.ActivityLog) error {
	sql, args, err := sb.Insert("activity_logs").
		Columns("actor_id", "actor_role", "action", "entity", "entity_id", "detail").
		Values(entry.ActorID, string(entry.ActorRole), entry.Action, entry.Entity, entry.EntityID, entry.Detail).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building create activity log SQL")
		return fmt.Errorf("failed to build create activity log query: %w", err)
	}

	if err := q.QueryRow(ctx, sql, args...).Scan(&entry.ID, &entry.CreatedAt); err != nil {
		logger.Error().Err(err).Str("action", entry.Action).Msg("Error executing create activity log query")
		return fmt.Errorf("error creating activity log: %w", err)
	}
	return nil
}

// Create appends an entry to the log
func (r *ActivityLogRepository) Create(ctx context.Context, entry *models.ActivityLog) error {
	return insertActivityLog(ctx, r.db, r.sb, entry)
}

// List returns a page of entries, newest first, and the total count
func (r *ActivityLogRepository) List(ctx context.Context, offset, limit uint64) ([]*models.ActivityLog, int64, error) {
	var total int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM activity_logs`).Scan(&total); err != nil {
		logger.Error().Err(err).Msg("Error counting activity logs")
		return nil, 0, fmt.Errorf("error counting activity logs: %w", err)
	}

	q := r.sb.Select("id", "actor_id", "actor_role", "action", "entity", "entity_id", "detail", "created_at").
		From("activity_logs").
		OrderBy("created_at DESC", "id DESC")
	if limit > 0 {
		q = q.Limit(limit).Offset(offset)
	}
	sql, args, err := q.ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building list activity logs SQL")
		return nil, 0, fmt.Errorf("failed to build list activity logs query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing list activity logs query")
		return nil, 0, fmt.Errorf("error listing activity logs: %w", err)
	}
	defer rows.Close()

	entries := make([]*models.ActivityLog, 0)
	for rows.Next() {
		e := &models.ActivityLog{}
		if err := rows.Scan(&e.ID, &e.ActorID, &e.ActorRole, &e.Action, &e.Entity, &e.EntityID, &e.Detail, &e.CreatedAt); err != nil {
			return nil, 0, fmt.Errorf("error scanning activity log: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating activity logs: %w", err)
	}

	return entries, total, nil
}
