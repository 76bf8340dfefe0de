package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"algopulse/internal/app/leetcode"
	appsync "algopulse/internal/app/sync"
	"algopulse/internal/common"
	"algopulse/internal/domain/model"
	"algopulse/internal/domain/repository"

	"golang.org/x/sync/errgroup"
)

// StatsFetcher is the provider boundary; satisfied by *leetcode.Client.
type StatsFetcher interface {
	Fetch(ctx context.Context, handle string) (*leetcode.Stats, error)
}

type SyncService struct {
	userRepo     repository.UserRepository
	fetcher      StatsFetcher
	engine       *appsync.Engine
	lbCache      *LeaderboardCache
	writeRetries int
	fanout       int
	now          func() time.Time
}

func NewSyncService(
	userRepo repository.UserRepository,
	fetcher StatsFetcher,
	engine *appsync.Engine,
	lbCache *LeaderboardCache,
	writeRetries int,
	fanout int,
) *SyncService {
	if writeRetries < 1 {
		writeRetries = 1
	}
	if fanout < 1 {
		fanout = 1
	}
	return &SyncService{
		userRepo:     userRepo,
		fetcher:      fetcher,
		engine:       engine,
		lbCache:      lbCache,
		writeRetries: writeRetries,
		fanout:       fanout,
		now:          time.Now,
	}
}

// SyncUser runs one load -> fetch -> apply -> persist cycle for a profile.
// A provider failure aborts before any local mutation. A concurrent write
// is retried with a fresh read up to the configured bound; the snapshot is
// re-applied each time, which is safe because the engine is idempotent on
// an unchanged delta.
func (s *SyncService) SyncUser(ctx context.Context, userID string) (*model.User, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load profile for sync: %w", err)
	}

	stats, err := s.fetcher.Fetch(ctx, user.LeetCodeHandle)
	if err != nil {
		return nil, fmt.Errorf("stats fetch for %q failed: %w", user.LeetCodeHandle, err)
	}

	for attempt := 0; attempt < s.writeRetries; attempt++ {
		s.engine.Apply(user, stats, s.now())

		err = s.userRepo.UpdateProfile(ctx, user)
		if err == nil {
			s.lbCache.Invalidate(ctx)
			user.HashedPassword = ""
			return user, nil
		}
		if !errors.Is(err, common.ErrConflict) {
			return nil, fmt.Errorf("failed to persist synced profile: %w", err)
		}

		user, err = s.userRepo.FindByID(ctx, userID)
		if err != nil {
			return nil, fmt.Errorf("failed to reload profile after write conflict: %w", err)
		}
	}
	return nil, fmt.Errorf("profile %s kept changing during sync: %w", userID, common.ErrConflict)
}

type SyncSummary struct {
	Total  int `json:"total"`
	Synced int `json:"synced"`
	Failed int `json:"failed"`
}

// SyncAll syncs the given profiles with bounded concurrency. Individual
// failures are logged and counted, never fatal to the batch.
func (s *SyncService) SyncAll(ctx context.Context, userIDs []string) SyncSummary {
	summary := SyncSummary{Total: len(userIDs)}
	results := make(chan bool, len(userIDs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.fanout)
	for _, id := range userIDs {
		id := id
		g.Go(func() error {
			if _, err := s.SyncUser(gctx, id); err != nil {
				log.Printf("WARN: sync failed for user %s: %v", id, err)
				results <- false
			} else {
				results <- true
			}
			return nil
		})
	}
	g.Wait()
	close(results)

	for ok := range results {
		if ok {
			summary.Synced++
		} else {
			summary.Failed++
		}
	}
	return summary
}

// SyncableIDs lists the profiles eligible for a batch sync (those with a
// LeetCode handle configured). Exposed so the scheduler owns the timing
// and the service owns none of it.
func (s *SyncService) SyncableIDs(ctx context.Context) ([]string, error) {
	ids, err := s.userRepo.ListSyncableIDs(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list syncable profiles: %w", err)
	}
	return ids, nil
}
