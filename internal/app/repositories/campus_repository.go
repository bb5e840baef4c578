package repositories

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/campusleave/leavedesk/internal/app/models"
	"github.com/campusleave/leavedesk/internal/pkg/apperrors"
	"github.com/campusleave/leavedesk/internal/pkg/dberrors"
	"github.com/campusleave/leavedesk/internal/pkg/logger"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ICampusRepository defines the hostel and branch directory store
type ICampusRepository interface {
	CreateHostel(ctx context.Context, hostel *models.Hostel) error
	ListHostels(ctx context.Context) ([]*models.Hostel, error)
	CreateBranch(ctx context.Context, branch *models.Branch) error
	ListBranches(ctx context.Context) ([]*models.Branch, error)
}

// CampusRepository handles hostels and branches database operations
type CampusRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewCampusRepository creates a new CampusRepository
func NewCampusRepository(db *pgxpool.Pool) *CampusRepository {
	return &CampusRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// CreateHostel creates a new hostel
func (r *CampusRepository) CreateHostel(ctx context.Context, hostel *models.Hostel) error {
	sql, args, err := r.sb.Insert("hostels").
		Columns("name", "capacity").
		Values(hostel.Name, hostel.Capacity).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building create hostel SQL")
		return fmt.Errorf("failed to build create hostel query: %w", err)
	}

	if err := r.db.QueryRow(ctx, sql, args...).Scan(&hostel.ID, &hostel.CreatedAt); err != nil {
		if dberrors.IsUniqueViolation(err) {
			return apperrors.ErrHostelAlreadyExists
		}
		logger.Error().Err(err).Msg("Error executing create hostel query")
		return fmt.Errorf("error creating hostel: %w", err)
	}
	return nil
}

// ListHostels returns all hostels ordered by name
func (r *CampusRepository) ListHostels(ctx context.Context) ([]*models.Hostel, error) {
	sql, args, err := r.sb.Select("id", "name", "capacity", "created_at").
		From("hostels").
		OrderBy("name ASC").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building list hostels SQL")
		return nil, fmt.Errorf("failed to build list hostels query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing list hostels query")
		return nil, fmt.Errorf("error listing hostels: %w", err)
	}
	defer rows.Close()

	hostels := make([]*models.Hostel, 0)
	for rows.Next() {
		h := &models.Hostel{}
		if err := rows.Scan(&h.ID, &h.Name, &h.Capacity, &h.CreatedAt); err != nil {
			return nil, fmt.Errorf("error scanning hostel: %w", err)
		}
		hostels = append(hostels, h)
	}
	return hostels, rows.Err()
}

// CreateBranch creates a new branch
func (r *CampusRepository) CreateBranch(ctx context.Context, branch *models.Branch) error {
	sql, args, err := r.sb.Insert("branches").
		Columns("name", "code").
		Values(branch.Name, branch.Code).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building create branch SQL")
		return fmt.Errorf("failed to build create branch query: %w", err)
	}

	if err := r.db.QueryRow(ctx, sql, args...).Scan(&branch.ID, &branch.CreatedAt); err != nil {
		if dberrors.IsUniqueViolation(err) {
			return apperrors.ErrBranchAlreadyExists
		}
		logger.Error().Err(err).Msg("Error executing create branch query")
		return fmt.Errorf("error creating branch: %w", err)
	}
	return nil
}

// ListBranches returns all branches ordered by code
func (r *CampusRepository) ListBranches(ctx context.Context) ([]*models.Branch, error) {
	sql, args, err := r.sb.Select("id", "name", "code", "created_at").
		From("branches").
		OrderBy("code ASC").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building list branches SQL")
		return nil, fmt.Errorf("failed to build list branches query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing list branches query")
		return nil, fmt.Errorf("error listing branches: %w", err)
	}
	defer rows.Close()

	branches := make([]*models.Branch, 0)
	for rows.Next() {
		b := &models.Branch{}
		if err := rows.Scan(&b.ID, &b.Name, &b.Code, &b.CreatedAt); err != nil {
			return nil, fmt.Errorf("error scanning branch: %w", err)
		}
		branches = append(branches, b)
	}
	return branches, rows.Err()
}
