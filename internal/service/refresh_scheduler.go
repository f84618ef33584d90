package service

import (
	"context"
	"time"

	"github.com/zihao-lin/photoframe/internal/pkg/logger"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

const scheduledRefreshTimeout = 2 * time.Minute

// RefreshScheduler refreshes the photo cache in the background so a client
// request rarely pays for a cold cache and signed URLs are renewed before
// they expire. An empty spec disables the job.
type RefreshScheduler struct {
	cache *PhotoCache
	cron  *cron.Cron
	spec  string
}

func NewRefreshScheduler(cache *PhotoCache, spec string) *RefreshScheduler {
	return &RefreshScheduler{
		cache: cache,
		cron:  cron.New(),
		spec:  spec,
	}
}

// Start registers and launches the refresh job.
func (s *RefreshScheduler) Start() error {
	if s.spec == "" {
		logger.L().Info("background refresh disabled")
		return nil
	}
	_, err := s.cron.AddFunc(s.spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), scheduledRefreshTimeout)
		defer cancel()
		s.cache.Refresh(ctx)
		logger.L().Debug("scheduled refresh completed", zap.Time("fetched_at", s.cache.FetchedAt()))
	})
	if err != nil {
		return err
	}
	s.cron.Start()
	logger.L().Info("background refresh started", zap.String("spec", s.spec))
	return nil
}

// Stop halts the job and waits for an in-flight run to finish.
func (s *RefreshScheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}
