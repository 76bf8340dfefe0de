package worker

import (
	"context"
	"log"
	"time"

	"algopulse/internal/app/service"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	syncLockKey        = "algopulse:global_sync_lock"
	maintenanceLockKey = "algopulse:daily_maintenance_lock"
)

// Scheduler owns all timing: the periodic global stats sync and the
// once-a-day maintenance sweep. The services it drives take explicit
// arguments and hold no timers of their own, so they stay testable in
// isolation. Redis locks keep multiple replicas from running the same
// batch concurrently.
type Scheduler struct {
	rdb          *redis.Client
	syncService  *service.SyncService
	maintenance  *service.MaintenanceService
	syncInterval time.Duration
}

func NewScheduler(
	rdb *redis.Client,
	syncService *service.SyncService,
	maintenance *service.MaintenanceService,
	syncInterval time.Duration,
) *Scheduler {
	return &Scheduler{
		rdb:          rdb,
		syncService:  syncService,
		maintenance:  maintenance,
		syncInterval: syncInterval,
	}
}

func (s *Scheduler) Start(ctx context.Context) {
	log.Printf("Scheduler started: sync every %s, maintenance at midnight UTC", s.syncInterval)

	// One sync pass right away so a fresh deployment is not stale until
	// the first tick.
	s.runGlobalSync(ctx)

	syncTicker := time.NewTicker(s.syncInterval)
	defer syncTicker.Stop()

	maintenanceTimer := time.NewTimer(untilNextMidnightUTC(time.Now()))
	defer maintenanceTimer.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("Scheduler stopping...")
			return
		case <-syncTicker.C:
			s.runGlobalSync(ctx)
		case <-maintenanceTimer.C:
			s.runDailyMaintenance(ctx)
			maintenanceTimer.Reset(untilNextMidnightUTC(time.Now()))
		}
	}
}

func (s *Scheduler) runGlobalSync(ctx context.Context) {
	release, ok := s.acquireLock(ctx, syncLockKey, s.syncInterval)
	if !ok {
		log.Println("Global sync already running elsewhere, skipping this tick.")
		return
	}
	defer release()

	ids, err := s.syncService.SyncableIDs(ctx)
	if err != nil {
		log.Printf("ERROR: could not list profiles for global sync: %v", err)
		return
	}
	summary := s.syncService.SyncAll(ctx, ids)
	log.Printf("Global sync completed: %d total, %d synced, %d failed",
		summary.Total, summary.Synced, summary.Failed)
}

func (s *Scheduler) runDailyMaintenance(ctx context.Context) {
	release, ok := s.acquireLock(ctx, maintenanceLockKey, time.Hour)
	if !ok {
		log.Println("Daily maintenance already running elsewhere, skipping.")
		return
	}
	defer release()

	if _, err := s.maintenance.RunDailyMaintenance(ctx, time.Now()); err != nil {
		log.Printf("ERROR: daily maintenance failed: %v", err)
	}
}

// acquireLock takes a best-effort distributed lock. Without redis
// configured the scheduler assumes a single replica and proceeds.
func (s *Scheduler) acquireLock(ctx context.Context, key string, ttl time.Duration) (func(), bool) {
	if s.rdb == nil {
		return func() {}, true
	}
	token := uuid.NewString()
	ok, err := s.rdb.SetNX(ctx, key, token, ttl).Result()
	if err != nil {
		log.Printf("WARN: lock %s unavailable (%v), proceeding without it", key, err)
		return func() {}, true
	}
	if !ok {
		return nil, false
	}
	return func() {
		// Only release a lock we still hold.
		current, err := s.rdb.Get(ctx, key).Result()
		if err == nil && current == token {
			s.rdb.Del(ctx, key)
		}
	}, true
}

func untilNextMidnightUTC(now time.Time) time.Duration {
	now = now.UTC()
	next := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC).AddDate(0, 0, 1)
	return next.Sub(now)
}
