package services

import (
	"context"
	"time"

	"github.com/go-co-op/gocron"

	"legalease-backend/internal/logger"
)

// ReaperService marks analyses stuck in "processing" as failed. A run
// that crashed mid-pipeline never reaches Complete or Fail, so without
// this job the record would show "processing" forever.
type ReaperService struct {
	store      AnalysisStore
	scheduler  *gocron.Scheduler
	staleAfter time.Duration
	interval   time.Duration
}

func NewReaperService(store AnalysisStore, staleAfterMinutes, intervalMinutes int) *ReaperService {
	return &ReaperService{
		store:      store,
		scheduler:  gocron.NewScheduler(time.UTC),
		staleAfter: time.Duration(staleAfterMinutes) * time.Minute,
		interval:   time.Duration(intervalMinutes) * time.Minute,
	}
}

// Start schedules the reaper and returns immediately.
func (r *ReaperService) Start() error {
	_, err := r.scheduler.Every(int(r.interval.Minutes())).Minutes().Do(r.reap)
	if err != nil {
		return err
	}
	r.scheduler.StartAsync()
	logger.Info("Stale analysis reaper started", "interval", r.interval.String(), "stale_after", r.staleAfter.String())
	return nil
}

func (r *ReaperService) Stop() {
	r.scheduler.Stop()
}

func (r *ReaperService) reap() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	count, err := r.store.FailStale(ctx, r.staleAfter)
	if err != nil {
		logger.Error("Stale analysis reap failed", "error", err)
		return
	}
	if count > 0 {
		logger.Warn("Marked stale analyses as failed", "count", count)
	}
}
