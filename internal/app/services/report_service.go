package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/campusleave/leavedesk/internal/app/models"
	"github.com/campusleave/leavedesk/internal/app/repositories"
	"github.com/campusleave/leavedesk/internal/pkg/apperrors"
	"github.com/campusleave/leavedesk/internal/pkg/cache"
	"github.com/campusleave/leavedesk/internal/pkg/stats"
	"github.com/rs/zerolog"
)

// Report bounds
const (
	MaxTrendMonths  = 60
	MaxReasonsLimit = 50
)

// ReportConfig holds analytics defaults
type ReportConfig struct {
	DefaultMonths    int
	DefaultReasons   int
	AnomalyThreshold float64
	CacheTTL         time.Duration
}

// ReportService defines the read-only admin aggregations
type ReportService interface {
	Stats(ctx context.Context) (*models.Stats, error)
	BranchBreakdown(ctx context.Context) ([]models.KeyCount, error)
	HostelBreakdown(ctx context.Context) ([]models.KeyCount, error)
	MonthlyTrend(ctx context.Context, months int) ([]models.MonthCount, error)
	CommonReasons(ctx context.Context, limit int) ([]models.KeyCount, error)
	Anomalies(ctx context.Context, threshold float64) ([]models.Anomaly, error)
}

type reportServiceImpl struct {
	repo   repositories.IReportRepository
	cache  cache.Cache
	cfg    ReportConfig
	logger zerolog.Logger
	now    func() time.Time
}

// NewReportService creates a new report service. A nil cache disables caching.
func NewReportService(repo repositories.IReportRepository, c cache.Cache, cfg ReportConfig, logger zerolog.Logger) ReportService {
	if c == nil {
		c = cache.Nop{}
	}
	if cfg.DefaultMonths <= 0 {
		cfg.DefaultMonths = 12
	}
	if cfg.DefaultReasons <= 0 {
		cfg.DefaultReasons = 10
	}
	if cfg.AnomalyThreshold <= 0 {
		cfg.AnomalyThreshold = 2.0
	}
	return &reportServiceImpl{
		repo:   repo,
		cache:  c,
		cfg:    cfg,
		logger: logger,
		now:    time.Now,
	}
}

// queryError makes sure every failure surfaces as ErrQueryFailed
func queryError(name string, err error) error {
	if errors.Is(err, apperrors.ErrQueryFailed) {
		return err
	}
	return fmt.Errorf("%w: %s: %v", apperrors.ErrQueryFailed, name, err)
}

// cached serves key from the cache or computes it with fn and stores the
// result. Cache failures only cost a recomputation.
func cached[T any](ctx context.Context, s *reportServiceImpl, key string, fn func() (T, error)) (T, error) {
	var out T
	if s.cfg.CacheTTL > 0 {
		found, err := s.cache.Get(ctx, key, &out)
		if err != nil {
			s.logger.Warn().Err(err).Str("key", key).Msg("Analytics cache read failed")
		} else if found {
			return out, nil
		}
	}

	out, err := fn()
	if err != nil {
		return out, err
	}

	if s.cfg.CacheTTL > 0 {
		if err := s.cache.Set(ctx, key, out, s.cfg.CacheTTL); err != nil {
			s.logger.Warn().Err(err).Str("key", key).Msg("Analytics cache write failed")
		}
	}
	return out, nil
}

func sumCounts(counts []models.KeyCount) int64 {
	var total int64
	for _, c := range counts {
		total += c.Count
	}
	return total
}

// Stats returns dashboard totals. Pending counts every leave not yet in a
// terminal status.
func (s *reportServiceImpl) Stats(ctx context.Context) (*models.Stats, error) {
	return cached(ctx, s, "analytics:stats", func() (*models.Stats, error) {
		byRole, err := s.repo.CountUsersByRole(ctx)
		if err != nil {
			return nil, queryError("users by role", err)
		}
		byStatus, err := s.repo.CountLeavesByStatus(ctx)
		if err != nil {
			return nil, queryError("leaves by status", err)
		}
		byType, err := s.repo.CountLeavesByType(ctx)
		if err != nil {
			return nil, queryError("leaves by type", err)
		}

		var pending int64
		for _, c := range byStatus {
			if !models.LeaveStatus(c.Key).Terminal() {
				pending += c.Count
			}
		}

		return &models.Stats{
			TotalUsers:     sumCounts(byRole),
			TotalLeaves:    sumCounts(byStatus),
			PendingLeaves:  pending,
			UsersByRole:    byRole,
			LeavesByStatus: byStatus,
			LeavesByType:   byType,
		}, nil
	})
}

// BranchBreakdown counts leaves per student branch
func (s *reportServiceImpl) BranchBreakdown(ctx context.Context) ([]models.KeyCount, error) {
	return cached(ctx, s, "analytics:branches", func() ([]models.KeyCount, error) {
		out, err := s.repo.CountLeavesByBranch(ctx)
		if err != nil {
			return nil, queryError("leaves by branch", err)
		}
		return out, nil
	})
}

// HostelBreakdown counts leaves per student hostel
func (s *reportServiceImpl) HostelBreakdown(ctx context.Context) ([]models.KeyCount, error) {
	return cached(ctx, s, "analytics:hostels", func() ([]models.KeyCount, error) {
		out, err := s.repo.CountLeavesByHostel(ctx)
		if err != nil {
			return nil, queryError("leaves by hostel", err)
		}
		return out, nil
	})
}

func monthStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// MonthlyTrend returns one entry per calendar month for the last months
// months, oldest first, including months without leaves.
func (s *reportServiceImpl) MonthlyTrend(ctx context.Context, months int) ([]models.MonthCount, error) {
	if months == 0 {
		months = s.cfg.DefaultMonths
	}
	if months < 1 || months > MaxTrendMonths {
		return nil, apperrors.NewValidationError(fmt.Sprintf("months must be between 1 and %d", MaxTrendMonths))
	}

	current := monthStart(s.now().UTC())
	since := current.AddDate(0, -(months - 1), 0)

	key := fmt.Sprintf("analytics:monthly:%d:%s", months, current.Format("2006-01"))
	return cached(ctx, s, key, func() ([]models.MonthCount, error) {
		rows, err := s.repo.CountLeavesByMonth(ctx, since)
		if err != nil {
			return nil, queryError("leaves by month", err)
		}

		byMonth := make(map[string]int64, len(rows))
		for _, r := range rows {
			byMonth[monthStart(r.Month.UTC()).Format("2006-01")] += r.Count
		}

		out := make([]models.MonthCount, 0, months)
		for m := since; !m.After(current); m = m.AddDate(0, 1, 0) {
			label := m.Format("2006-01")
			out = append(out, models.MonthCount{Month: m, Label: label, Count: byMonth[label]})
		}
		return out, nil
	})
}

// CommonReasons returns the most frequent reasons, compared case-insensitively
func (s *reportServiceImpl) CommonReasons(ctx context.Context, limit int) ([]models.KeyCount, error) {
	if limit == 0 {
		limit = s.cfg.DefaultReasons
	}
	if limit < 1 || limit > MaxReasonsLimit {
		return nil, apperrors.NewValidationError(fmt.Sprintf("limit must be between 1 and %d", MaxReasonsLimit))
	}

	return cached(ctx, s, fmt.Sprintf("analytics:reasons:%d", limit), func() ([]models.KeyCount, error) {
		out, err := s.repo.TopReasons(ctx, limit)
		if err != nil {
			return nil, queryError("top reasons", err)
		}
		return out, nil
	})
}

// Anomalies flags students whose leave count has a z-score of at least
// threshold against all students. No student is flagged when every count
// is equal.
func (s *reportServiceImpl) Anomalies(ctx context.Context, threshold float64) ([]models.Anomaly, error) {
	if threshold == 0 {
		threshold = s.cfg.AnomalyThreshold
	}
	if threshold < 0 {
		return nil, apperrors.NewValidationError("threshold must be positive")
	}

	return cached(ctx, s, fmt.Sprintf("analytics:anomalies:%g", threshold), func() ([]models.Anomaly, error) {
		counts, err := s.repo.LeaveCountsPerStudent(ctx)
		if err != nil {
			return nil, queryError("leaves per student", err)
		}

		values := make([]float64, len(counts))
		for i, c := range counts {
			values[i] = float64(c.Count)
		}
		scores := stats.ZScores(values)

		out := make([]models.Anomaly, 0)
		for _, i := range stats.Outliers(values, threshold) {
			out = append(out, models.Anomaly{StudentLeaveCount: counts[i], ZScore: scores[i]})
		}
		return out, nil
	})
}
