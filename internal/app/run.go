package app

import (
	"context"
	"os/signal"
	"syscall"

	"go.uber.org/zap"
	"mee6-level/internal/app/verify"
	"mee6-level/internal/config"
)

func Run(cfg *config.Config, logger *zap.SugaredLogger) {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Fatalw("verification failed", "error", err)
	}
}

func run(ctx context.Context, cfg *config.Config, logger *zap.SugaredLogger) error {
	logger.Infow("verifying levels", "start", cfg.Verify.Start, "end", cfg.Verify.End,
		"workers", cfg.Verify.Workers, "chunkSize", cfg.Verify.ChunkSize)

	svc := verify.NewService(logger, cfg.Verify)

	report, err := svc.Verify(ctx, cfg.Verify.Start, cfg.Verify.End)
	if err != nil {
		logger.Errorw("verification stopped", "checked", report.Checked, "mismatches", len(report.Mismatches))
		return err
	}

	logger.Infow("verification passed", "checked", report.Checked)
	return nil
}
