package application

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/battleroid/dwms/internal/domain"
	"github.com/battleroid/dwms/internal/domain/classify"
	"github.com/battleroid/dwms/internal/domain/patterns"
	"github.com/battleroid/dwms/internal/domain/severity"
)

// CheckService orchestrates the evaluation pipeline:
// expand patterns -> health check -> fetch inventory -> classify -> reduce.
type CheckService struct {
	sources domain.SourceFactory
	logger  zerolog.Logger
}

func NewCheckService(sources domain.SourceFactory, logger zerolog.Logger) *CheckService {
	return &CheckService{
		sources: sources,
		logger:  logger,
	}
}

// Run evaluates every configured cluster for date. cfg must already carry
// defaults. The only error returned is a ConfigError raised before any
// cluster is contacted; every other failure degrades a single cluster or
// repository to a sentinel Status.
func (s *CheckService) Run(ctx context.Context, cfg domain.Config, date time.Time) (*domain.RunReport, error) {
	// 1. Expand every pattern up front so a bad template aborts the whole run.
	expectations := make([][]domain.RepositoryExpectation, len(cfg.Clusters))
	for i, cluster := range cfg.Clusters {
		exps, err := patterns.Expectations(cluster, date)
		if err != nil {
			return nil, err
		}
		expectations[i] = exps
	}

	report := &domain.RunReport{
		RunID:    uuid.NewString(),
		Date:     date.Format(patterns.DateLayout),
		Clusters: make([]domain.ClusterReport, len(cfg.Clusters)),
	}
	logger := s.logger.With().Str("run_id", report.RunID).Str("date", report.Date).Logger()

	// 2. Fan out one worker per cluster. Each worker owns its slot in
	// report.Clusters, so no lock is needed.
	limit := cfg.Concurrency
	if limit <= 0 {
		limit = domain.DefaultConcurrency
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for i, cluster := range cfg.Clusters {
		g.Go(func() error {
			report.Clusters[i] = s.evaluateCluster(gctx, logger, cluster, expectations[i])
			return nil
		})
	}
	_ = g.Wait() // workers never fail

	logger.Info().
		Int("clusters", len(report.Clusters)).
		Str("worst", report.Worst().Name()).
		Msg("evaluation complete")

	return report, nil
}

// Expectations expands the patterns of every cluster without contacting any.
func (s *CheckService) Expectations(cfg domain.Config, date time.Time) (map[string][]domain.RepositoryExpectation, error) {
	out := make(map[string][]domain.RepositoryExpectation, len(cfg.Clusters))
	for _, cluster := range cfg.Clusters {
		exps, err := patterns.Expectations(cluster, date)
		if err != nil {
			return nil, err
		}
		out[cluster.ID()] = exps
	}
	return out, nil
}

func (s *CheckService) evaluateCluster(
	ctx context.Context,
	logger zerolog.Logger,
	cluster domain.ClusterConfig,
	exps []domain.RepositoryExpectation,
) domain.ClusterReport {
	id := cluster.ID()
	logger = logger.With().Str("cluster", id).Logger()
	report := domain.ClusterReport{
		Cluster:      id,
		Repositories: make(map[string]domain.ClassificationResult, len(exps)),
	}

	source, err := s.sources.ForCluster(cluster)
	if err == nil {
		err = s.healthCheck(ctx, source, cluster.Settings.Timeout)
	}
	if err != nil {
		rerr := &domain.ReachabilityError{Cluster: id, Err: err}
		logger.Error().Err(rerr).Msg("cluster health check failed, skipping")
		report.Status = domain.StatusBadHealth
		report.Reason = rerr.Error()
		return report
	}

	for _, exp := range exps {
		inventory, err := s.fetch(ctx, source, exp.Repository, cluster.Settings.Timeout)
		if err != nil {
			err = &domain.FetchError{Cluster: id, Repository: exp.Repository, Err: err}
			logger.Warn().Err(err).Str("repository", exp.Repository).
				Bool("timeout", errors.Is(err, domain.ErrTimeout)).
				Msg("snapshot inventory unavailable")
		}
		result := classify.FromFetch(exp, inventory, err)
		report.Repositories[exp.Repository] = result

		logger.Debug().
			Str("repository", exp.Repository).
			Str("status", severity.RepositoryStatus(result).Name()).
			Int("found", len(result.Found)).
			Strs("missing", result.Missing).
			Msg("repository classified")
	}

	report.Status = severity.ClusterStatus(report.Repositories)
	logger.Info().Str("status", report.Status.Name()).Msg("cluster evaluated")
	return report
}

func (s *CheckService) healthCheck(ctx context.Context, source domain.SnapshotSource, timeout time.Duration) error {
	ctx, cancel := withTimeout(ctx, timeout)
	defer cancel()
	return source.Health(ctx)
}

func (s *CheckService) fetch(ctx context.Context, source domain.SnapshotSource, repository string, timeout time.Duration) ([]domain.SnapshotRecord, error) {
	ctx, cancel := withTimeout(ctx, timeout)
	defer cancel()
	return source.ListSnapshots(ctx, repository)
}

func withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, timeout)
}
