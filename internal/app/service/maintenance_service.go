package service

import (
	"context"
	"log"
	"sync"
	"time"

	appsync "algopulse/internal/app/sync"
	"algopulse/internal/domain/repository"

	"golang.org/x/sync/errgroup"
)

type MaintenanceService struct {
	userRepo repository.UserRepository
	lbCache  *LeaderboardCache
	penalty  int
	fanout   int
}

func NewMaintenanceService(userRepo repository.UserRepository, lbCache *LeaderboardCache, penalty, fanout int) *MaintenanceService {
	if fanout < 1 {
		fanout = 1
	}
	return &MaintenanceService{userRepo: userRepo, lbCache: lbCache, penalty: penalty, fanout: fanout}
}

type MaintenanceSummary struct {
	Date      string `json:"date"`
	Processed int    `json:"processed"`
	Penalized int    `json:"penalized"`
	Failed    int    `json:"failed"`
}

// RunDailyMaintenance applies the inactivity penalty for the given day:
// every profile whose last solve was not today loses penalty points
// (floored at zero) and has its streak reset. Profiles are processed with
// bounded fan-out and per-profile error isolation.
func (s *MaintenanceService) RunDailyMaintenance(ctx context.Context, today time.Time) (MaintenanceSummary, error) {
	todayStr := today.UTC().Format(appsync.DateLayout)
	summary := MaintenanceSummary{Date: todayStr}

	ids, err := s.userRepo.ListSyncableIDs(ctx)
	if err != nil {
		return summary, err
	}
	summary.Processed = len(ids)

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.fanout)
	for _, id := range ids {
		id := id
		g.Go(func() error {
			penalized, err := s.userRepo.PenalizeInactive(gctx, id, todayStr, s.penalty)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				log.Printf("WARN: daily maintenance failed for user %s: %v", id, err)
				summary.Failed++
				return nil
			}
			if penalized {
				summary.Penalized++
			}
			return nil
		})
	}
	g.Wait()

	s.lbCache.Invalidate(ctx)
	log.Printf("Daily maintenance for %s: %d processed, %d penalized, %d failed",
		todayStr, summary.Processed, summary.Penalized, summary.Failed)
	return summary, nil
}
