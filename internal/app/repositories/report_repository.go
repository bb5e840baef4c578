package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/campusleave/leavedesk/internal/app/models"
	"github.com/campusleave/leavedesk/internal/pkg/apperrors"
	"github.com/campusleave/leavedesk/internal/pkg/logger"
	"github.com/jmoiron/sqlx"
)

// IReportRepository defines the read-only aggregation queries
type IReportRepository interface {
	CountUsersByRole(ctx context.Context) ([]models.KeyCount, error)
	CountLeavesByStatus(ctx context.Context) ([]models.KeyCount, error)
	CountLeavesByType(ctx context.Context) ([]models.KeyCount, error)
	CountLeavesByBranch(ctx context.Context) ([]models.KeyCount, error)
	CountLeavesByHostel(ctx context.Context) ([]models.KeyCount, error)
	CountLeavesByMonth(ctx context.Context, since time.Time) ([]models.MonthCount, error)
	TopReasons(ctx context.Context, limit int) ([]models.KeyCount, error)
	LeaveCountsPerStudent(ctx context.Context) ([]models.StudentLeaveCount, error)
}

// ReportRepository runs reporting queries through sqlx so rows land directly
// in tagged structs.
type ReportRepository struct {
	db *sqlx.DB
}

// NewReportRepository creates a new ReportRepository
func NewReportRepository(db *sqlx.DB) *ReportRepository {
	return &ReportRepository{db: db}
}

const (
	usersByRoleQuery = `
		SELECT role AS key, COUNT(*) AS count
		FROM users
		GROUP BY role
		ORDER BY role`

	leavesByStatusQuery = `
		SELECT status AS key, COUNT(*) AS count
		FROM leaves
		GROUP BY status
		ORDER BY status`

	leavesByTypeQuery = `
		SELECT type AS key, COUNT(*) AS count
		FROM leaves
		GROUP BY type
		ORDER BY type`

	leavesByBranchQuery = `
		SELECT COALESCE(b.name, 'Unassigned') AS key, COUNT(l.id) AS count
		FROM leaves l
		JOIN users s ON s.id = l.student_id
		LEFT JOIN branches b ON b.id = s.branch_id
		GROUP BY 1
		ORDER BY count DESC, key ASC`

	leavesByHostelQuery = `
		SELECT COALESCE(h.name, 'Unassigned') AS key, COUNT(l.id) AS count
		FROM leaves l
		JOIN users s ON s.id = l.student_id
		LEFT JOIN hostels h ON h.id = s.hostel_id
		GROUP BY 1
		ORDER BY count DESC, key ASC`

	leavesByMonthQuery = `
		SELECT date_trunc('month', created_at) AS month, COUNT(*) AS count
		FROM leaves
		WHERE created_at >= $1
		GROUP BY 1
		ORDER BY 1`

	topReasonsQuery = `
		SELECT LOWER(TRIM(reason)) AS key, COUNT(*) AS count
		FROM leaves
		GROUP BY 1
		ORDER BY count DESC, key ASC
		LIMIT $1`

	// Students with no leaves count as zero so they take part in the mean.
	perStudentQuery = `
		SELECT u.id AS student_id, u.name, u.email, COUNT(l.id) AS count
		FROM users u
		LEFT JOIN leaves l ON l.student_id = u.id
		WHERE u.role = 'student'
		GROUP BY u.id, u.name, u.email
		ORDER BY u.id`
)

func (r *ReportRepository) selectKeyCounts(ctx context.Context, name, query string, args ...interface{}) ([]models.KeyCount, error) {
	out := make([]models.KeyCount, 0)
	if err := r.db.SelectContext(ctx, &out, query, args...); err != nil {
		logger.Error().Err(err).Str("report", name).Msg("Error executing report query")
		return nil, fmt.Errorf("%w: %s: %v", apperrors.ErrQueryFailed, name, err)
	}
	return out, nil
}

// CountUsersByRole counts users per role
func (r *ReportRepository) CountUsersByRole(ctx context.Context) ([]models.KeyCount, error) {
	return r.selectKeyCounts(ctx, "users by role", usersByRoleQuery)
}

// CountLeavesByStatus counts leaves per status
func (r *ReportRepository) CountLeavesByStatus(ctx context.Context) ([]models.KeyCount, error) {
	return r.selectKeyCounts(ctx, "leaves by status", leavesByStatusQuery)
}

// CountLeavesByType counts leaves per type
func (r *ReportRepository) CountLeavesByType(ctx context.Context) ([]models.KeyCount, error) {
	return r.selectKeyCounts(ctx, "leaves by type", leavesByTypeQuery)
}

// CountLeavesByBranch counts leaves per branch of the applying student
func (r *ReportRepository) CountLeavesByBranch(ctx context.Context) ([]models.KeyCount, error) {
	return r.selectKeyCounts(ctx, "leaves by branch", leavesByBranchQuery)
}

// CountLeavesByHostel counts leaves per hostel of the applying student
func (r *ReportRepository) CountLeavesByHostel(ctx context.Context) ([]models.KeyCount, error) {
	return r.selectKeyCounts(ctx, "leaves by hostel", leavesByHostelQuery)
}

// CountLeavesByMonth counts leaves per calendar month created on or after since.
// Months without leaves are absent.
func (r *ReportRepository) CountLeavesByMonth(ctx context.Context, since time.Time) ([]models.MonthCount, error) {
	out := make([]models.MonthCount, 0)
	if err := r.db.SelectContext(ctx, &out, leavesByMonthQuery, since); err != nil {
		logger.Error().Err(err).Str("report", "leaves by month").Msg("Error executing report query")
		return nil, fmt.Errorf("%w: leaves by month: %v", apperrors.ErrQueryFailed, err)
	}
	return out, nil
}

// TopReasons returns the most frequent normalised leave reasons
func (r *ReportRepository) TopReasons(ctx context.Context, limit int) ([]models.KeyCount, error) {
	return r.selectKeyCounts(ctx, "top reasons", topReasonsQuery, limit)
}

// LeaveCountsPerStudent returns how many leaves every student applied for
func (r *ReportRepository) LeaveCountsPerStudent(ctx context.Context) ([]models.StudentLeaveCount, error) {
	out := make([]models.StudentLeaveCount, 0)
	if err := r.db.SelectContext(ctx, &out, perStudentQuery); err != nil {
		logger.Error().Err(err).Str("report", "leaves per student").Msg("Error executing report query")
		return nil, fmt.Errorf("%w: leaves per student: %v", apperrors.ErrQueryFailed, err)
	}
	return out, nil
}
