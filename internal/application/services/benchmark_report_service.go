package services

import (
	"context"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/clearesthealth/idr-benchmarking/backend/internal/domain/entities"
	"github.com/clearesthealth/idr-benchmarking/backend/internal/infrastructure/observability"
)

// BenchmarkReportService orchestrates one full benchmark run: cohort
// resolution, the three independent evaluations, then insight generation.
type BenchmarkReportService struct {
	cohorts    *CohortService
	benchmarks *BenchmarkService
	codes      *ServiceCodeService
	insights   *InsightService
}

// NewBenchmarkReportService creates a new report orchestration service.
func NewBenchmarkReportService(
	cohorts *CohortService,
	benchmarks *BenchmarkService,
	codes *ServiceCodeService,
	insights *InsightService,
) *BenchmarkReportService {
	return &BenchmarkReportService{
		cohorts:    cohorts,
		benchmarks: benchmarks,
		codes:      codes,
		insights:   insights,
	}
}

// Run produces the full report for a profile. The mine aggregate, peer
// aggregate and service-code breakdown have no ordering dependency, so they
// are evaluated concurrently; the first store failure cancels the rest and
// propagates unchanged. Insight generation joins on the two aggregates.
func (s *BenchmarkReportService) Run(ctx context.Context, profile entities.BenchmarkProfile, breakdownLimit int) (*entities.BenchmarkReport, error) {
	ctx, span := observability.StartSpan(ctx, "benchmark_report.run")
	defer span.End()

	profile.UserType = strings.TrimSpace(profile.UserType)

	minePredicate, peerPredicate, err := s.cohorts.ResolveCohorts(profile)
	if err != nil {
		observability.RecordError(span, err)
		return nil, err
	}

	var (
		mine      *entities.BenchmarkResult
		peers     *entities.BenchmarkResult
		breakdown []entities.ServiceCodeRow
		summary   *entities.ServiceCodeSummary
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		mine, err = s.benchmarks.ComputeBenchmark(gctx, minePredicate, profile.UserType)
		return err
	})
	g.Go(func() error {
		var err error
		peers, err = s.benchmarks.ComputeBenchmark(gctx, peerPredicate, profile.UserType)
		return err
	})
	g.Go(func() error {
		var err error
		breakdown, summary, err = s.codes.ComputeBreakdown(gctx, minePredicate, breakdownLimit)
		return err
	})
	if err := g.Wait(); err != nil {
		observability.RecordError(span, err)
		return nil, err
	}

	return &entities.BenchmarkReport{
		Profile:          profile,
		Mine:             mine,
		Peers:            peers,
		Breakdown:        breakdown,
		BreakdownSummary: summary,
		Insights:         s.insights.GenerateInsights(mine, peers, profile.UserType),
	}, nil
}
