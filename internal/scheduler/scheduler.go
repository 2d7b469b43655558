package scheduler

import (
	"context"
	"fmt"
	"log"

	"github.com/robfig/cron/v3"

	"SkinIndex/internal/calculator"
	"SkinIndex/internal/recorder"
	"SkinIndex/internal/store"
)

const (
	TriggerStartup = "STARTUP"
	TriggerCron    = "CRON"
	TriggerAPI     = "API"
)

// Indexer is the part of the store the scheduler drives.
type Indexer interface {
	Rebuild(ctx context.Context) (store.BuildStats, error)
}

// Scheduler rebuilds the indexes on a cron schedule and on demand.
type Scheduler struct {
	Cron     *cron.Cron
	Store    Indexer
	Recorder recorder.Recorder
	Ctx      context.Context
}

// NewScheduler creates a new Scheduler.
func NewScheduler(ctx context.Context, st Indexer, rec recorder.Recorder) *Scheduler {
	return &Scheduler{
		Cron:     cron.New(cron.WithSeconds()),
		Store:    st,
		Recorder: rec,
		Ctx:      ctx,
	}
}

// RegisterAll registers the periodic rebuild.
func (s *Scheduler) RegisterAll(rebuildCron string) error {
	if _, err := s.Cron.AddFunc(rebuildCron, func() {
		if _, err := s.Rebuild(s.Ctx, TriggerCron); err != nil {
			log.Printf("[ERROR] scheduled rebuild: %v", err)
		}
	}); err != nil {
		return fmt.Errorf("register rebuild task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	log.Println("[INFO] scheduler started")
}

// Stop stops the cron scheduler and waits for a running rebuild.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	log.Println("[INFO] scheduler stopped")
}

// Rebuild runs one rebuild now and records its outcome.
func (s *Scheduler) Rebuild(ctx context.Context, trigger string) (store.BuildStats, error) {
	log.Printf("[INFO] running rebuild (%s)", trigger)
	stats, err := s.Store.Rebuild(ctx)

	evt := &recorder.RebuildEvent{
		Trigger:      trigger,
		BuiltAt:      stats.BuiltAt,
		Duration:     stats.Duration,
		Items:        stats.Items,
		EmptyItems:   stats.EmptyItems,
		Observations: stats.Observations,
		Indexes:      stats.Indexes,
	}
	if err != nil {
		evt.Err = err.Error()
	}
	if rerr := s.Recorder.RecordRebuild(evt); rerr != nil {
		log.Printf("[ERROR] record rebuild: %v", rerr)
	}
	if err != nil {
		return stats, err
	}

	if err := s.recordDays(stats); err != nil {
		log.Printf("[ERROR] record index days: %v", err)
	}
	return stats, nil
}

// recordDays stores the daily means of the snapshot the rebuild published,
// not whatever snapshot is current by now.
func (s *Scheduler) recordDays(stats store.BuildStats) error {
	var days []recorder.IndexDay
	for _, idx := range stats.Built {
		for _, d := range idx.Days {
			mean, err := calculator.Mean(d.Prices)
			if err != nil {
				continue
			}
			days = append(days, recorder.IndexDay{
				Index:  idx.Name,
				Date:   d.Date,
				Mean:   mean,
				Count:  d.Len(),
				Volume: d.Volume().String(),
			})
		}
	}
	return s.Recorder.RecordIndexDays(stats.BuiltAt, days)
}
