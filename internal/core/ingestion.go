package core

import (
	"context"
	"log/slog"
	"time"

	"github.com/bwatkins/story-index/internal/observability"
	"github.com/bwatkins/story-index/internal/store"
)

// IngestionService keeps the stored record set in sync with the source
// listing, refreshing on an interval and on demand.
type IngestionService struct {
	store    *store.Store
	pipeline *Pipeline
	logger   *slog.Logger
}

func NewIngestionService(st *store.Store, pipeline *Pipeline, logger *slog.Logger) *IngestionService {
	if logger == nil {
		logger = slog.Default()
	}
	return &IngestionService{store: st, pipeline: pipeline, logger: logger}
}

func (s *IngestionService) Start(ctx context.Context, interval time.Duration) {
	go s.refreshLoop(ctx, interval)
}

func (s *IngestionService) refreshLoop(ctx context.Context, interval time.Duration) {
	if err := s.RefreshOnce(ctx); err != nil {
		s.logger.Error("initial refresh failed", "error", err)
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := s.RefreshOnce(ctx); err != nil {
				s.logger.Error("refresh failed", "error", err)
			}
		}
	}
}

// RefreshOnce runs the full pipeline and replaces the stored record set.
func (s *IngestionService) RefreshOnce(ctx context.Context) error {
	stories, err := s.pipeline.Run(ctx)
	if err != nil {
		observability.IncError(observability.ClassifyIngestError(err), "ingestion")
		return err
	}

	if err := s.store.ReplaceStories(ctx, stories); err != nil {
		observability.IncError(observability.ErrorStore, "ingestion")
		return err
	}

	s.logger.Info("record set refreshed", "stories", len(stories))
	return nil
}
