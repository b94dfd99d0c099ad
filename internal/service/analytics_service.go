package service

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/noah-isme/scholarhub-api/internal/models"
	appErrors "github.com/noah-isme/scholarhub-api/pkg/errors"
	"github.com/noah-isme/scholarhub-api/pkg/export"
)

const (
	analyticsCacheKey   = "analytics:platform-stats"
	msgAnalyticsFailure = "Failed to fetch analytics data."
)

type analyticsRepository interface {
	CountUsers(ctx context.Context) (int, error)
	CountScholarships(ctx context.Context) (int, error)
	SumApplicationFees(ctx context.Context) (float64, error)
	ApplicationsByCategory(ctx context.Context) ([]models.CategoryCount, error)
}

// AnalyticsService aggregates platform wide statistics.
type AnalyticsService struct {
	repo     analyticsRepository
	cache    *CacheService
	cacheTTL time.Duration
	metrics  *MetricsService
	logger   *zap.Logger
	now      func() time.Time
}

// NewAnalyticsService creates an instance of AnalyticsService. cache may be nil.
func NewAnalyticsService(repo analyticsRepository, cache *CacheService, cacheTTL time.Duration, metrics *MetricsService, logger *zap.Logger) *AnalyticsService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AnalyticsService{repo: repo, cache: cache, cacheTTL: cacheTTL, metrics: metrics, logger: logger, now: time.Now}
}

// PlatformStats returns the totals and per-category counts. The four reads
// run concurrently and any failure fails the whole call.
func (s *AnalyticsService) PlatformStats(ctx context.Context) (*models.PlatformStats, bool, error) {
	var cached models.PlatformStats
	if s.cache.Get(ctx, analyticsCacheKey, &cached) {
		return &cached, true, nil
	}

	stats := models.PlatformStats{}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return s.timed("count_users", func() (err error) {
			stats.TotalUsers, err = s.repo.CountUsers(gctx)
			return err
		})
	})
	g.Go(func() error {
		return s.timed("count_scholarships", func() (err error) {
			stats.TotalScholarships, err = s.repo.CountScholarships(gctx)
			return err
		})
	})
	g.Go(func() error {
		return s.timed("sum_application_fees", func() (err error) {
			stats.TotalFeesCollected, err = s.repo.SumApplicationFees(gctx)
			return err
		})
	})
	g.Go(func() error {
		return s.timed("applications_by_category", func() (err error) {
			stats.ApplicationsByCategory, err = s.repo.ApplicationsByCategory(gctx)
			return err
		})
	})
	if err := g.Wait(); err != nil {
		s.logger.Error("platform stats aggregation failed", zap.Error(err))
		return nil, false, appErrors.Internal(err, msgAnalyticsFailure)
	}

	if stats.ApplicationsByCategory == nil {
		stats.ApplicationsByCategory = []models.CategoryCount{}
	}
	stats.GeneratedAt = s.now().UTC()
	s.cache.Set(ctx, analyticsCacheKey, stats, s.cacheTTL)
	return &stats, false, nil
}

// Invalidate drops the cached platform stats.
func (s *AnalyticsService) Invalidate(ctx context.Context) {
	s.cache.Invalidate(ctx, analyticsCacheKey)
}

// ExportPlatformStats renders the platform stats as a downloadable document.
func (s *AnalyticsService) ExportPlatformStats(ctx context.Context, format string) ([]byte, export.Renderer, error) {
	renderer, err := export.ForFormat(format)
	if err != nil {
		return nil, nil, appErrors.Validation(err, "Unsupported export format. Use csv or pdf.")
	}
	stats, _, err := s.PlatformStats(ctx)
	if err != nil {
		return nil, nil, err
	}
	body, err := renderer.Render(platformReport(stats))
	if err != nil {
		return nil, nil, appErrors.Internal(err, "Failed to render export.")
	}
	return body, renderer, nil
}

func (s *AnalyticsService) timed(label string, fn func() error) error {
	start := time.Now()
	err := fn()
	s.metrics.ObserveDBQuery(label, time.Since(start))
	if err != nil {
		return fmt.Errorf("%s: %w", label, err)
	}
	return nil
}

func platformReport(stats *models.PlatformStats) export.Report {
	categories := append([]models.CategoryCount(nil), stats.ApplicationsByCategory...)
	sort.Slice(categories, func(i, j int) bool {
		if categories[i].Count != categories[j].Count {
			return categories[i].Count > categories[j].Count
		}
		return categories[i].Category < categories[j].Category
	})
	rows := make([][]string, 0, len(categories))
	for _, c := range categories {
		rows = append(rows, []string{c.Category, strconv.Itoa(c.Count)})
	}
	return export.Report{
		Title: "Platform statistics",
		Summary: []export.Field{
			{Label: "Total users", Value: strconv.Itoa(stats.TotalUsers)},
			{Label: "Total scholarships", Value: strconv.Itoa(stats.TotalScholarships)},
			{Label: "Total fees collected", Value: strconv.FormatFloat(stats.TotalFeesCollected, 'f', 2, 64)},
			{Label: "Generated at", Value: stats.GeneratedAt.Format(time.RFC3339)},
		},
		Headers: []string{"Category", "Applications"},
		Rows:    rows,
	}
}
