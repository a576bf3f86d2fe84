package batch

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"credit-engine/internal/domain/loan"
	"credit-engine/internal/infrastructure/monitoring"
)

// PortfolioSnapshotJob periodically refreshes the portfolio gauges from the
// loans table so the metrics stay accurate across restarts and writes made
// outside this process.
type PortfolioSnapshotJob struct {
	loanRepo loan.Repository
	logger   *slog.Logger
}

func NewPortfolioSnapshotJob(loanRepo loan.Repository, logger *slog.Logger) *PortfolioSnapshotJob {
	if loanRepo == nil || logger == nil {
		panic("PortfolioSnapshotJob dependencies cannot be nil")
	}
	return &PortfolioSnapshotJob{
		loanRepo: loanRepo,
		logger:   logger.With("job", "PortfolioSnapshot"),
	}
}

func (j *PortfolioSnapshotJob) Run(ctx context.Context) error {
	startTime := time.Now()
	j.logger.InfoContext(ctx, "Starting portfolio snapshot job.")

	loanCount, totalPrincipal, err := j.loanRepo.GetPortfolioStats(ctx)
	if err != nil {
		j.logger.ErrorContext(ctx, "Failed to compute portfolio stats, aborting job.", slog.Any("error", err))
		return fmt.Errorf("cannot run job, failed to compute portfolio stats: %w", err)
	}

	monitoring.RecordPortfolioSnapshot(loanCount, totalPrincipal)

	j.logger.InfoContext(ctx, "Portfolio snapshot job finished successfully.",
		slog.Duration("duration", time.Since(startTime)),
		slog.Int64("loan_count", loanCount),
		slog.Float64("total_principal", totalPrincipal),
	)
	return nil
}
