package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	appsync "algopulse/internal/app/sync"
	"algopulse/internal/app/leetcode"
	"algopulse/internal/common"
	"algopulse/internal/domain/model"
)

// fakeUserRepo is an in-memory UserRepository with the same
// compare-and-swap semantics as the postgres implementation.
type fakeUserRepo struct {
	mu    sync.Mutex
	users map[string]*model.User

	conflictsLeft int // force this many CAS failures on UpdateProfile
	updateCalls   int
}

func newFakeUserRepo(users ...*model.User) *fakeUserRepo {
	r := &fakeUserRepo{users: make(map[string]*model.User)}
	for _, u := range users {
		r.users[u.ID] = u
	}
	return r
}

func cloneUser(u *model.User) *model.User {
	c := *u
	c.Badges = append([]string(nil), u.Badges...)
	c.Topics = append([]model.TopicCount(nil), u.Topics...)
	c.DailyHistory = append([]model.DailyActivity(nil), u.DailyHistory...)
	return &c
}

func (r *fakeUserRepo) Create(ctx context.Context, user *model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users[user.ID] = cloneUser(user)
	return nil
}

func (r *fakeUserRepo) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			return cloneUser(u), nil
		}
	}
	return nil, common.ErrNotFound
}

func (r *fakeUserRepo) FindByID(ctx context.Context, id string) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	return cloneUser(u), nil
}

func (r *fakeUserRepo) UpdateProfile(ctx context.Context, user *model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.updateCalls++

	stored, ok := r.users[user.ID]
	if !ok {
		return common.ErrNotFound
	}
	if r.conflictsLeft > 0 {
		r.conflictsLeft--
		stored.Version++ // someone else won the write
		return fmt.Errorf("stale write: %w", common.ErrConflict)
	}
	if stored.Version != user.Version {
		return fmt.Errorf("stale write: %w", common.ErrConflict)
	}
	c := cloneUser(user)
	c.Version++
	r.users[user.ID] = c
	user.Version++
	return nil
}

func (r *fakeUserRepo) UpdateAvatar(ctx context.Context, userID, profilePic string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[userID]
	if !ok {
		return common.ErrNotFound
	}
	u.ProfilePic = profilePic
	return nil
}

func (r *fakeUserRepo) Leaderboard(ctx context.Context) ([]model.LeaderboardEntry, error) {
	return nil, nil
}

func (r *fakeUserRepo) TopUser(ctx context.Context) (*model.User, error) {
	return nil, common.ErrNotFound
}

func (r *fakeUserRepo) ListSyncableIDs(ctx context.Context) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var ids []string
	for id, u := range r.users {
		if u.LeetCodeHandle != "" {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

func (r *fakeUserRepo) PenalizeInactive(ctx context.Context, userID, today string, penalty int) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[userID]
	if !ok {
		return false, common.ErrNotFound
	}
	if u.LastSolveDate == today {
		return false, nil
	}
	u.Streak = 0
	u.Points -= penalty
	if u.Points < 0 {
		u.Points = 0
	}
	return true, nil
}

func (r *fakeUserRepo) ResetAllPoints(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		u.Points = 0
	}
	return nil
}

func (r *fakeUserRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[id]; !ok {
		return common.ErrNotFound
	}
	delete(r.users, id)
	return nil
}

type fakeFetcher struct {
	stats map[string]*leetcode.Stats
	err   error
}

func (f *fakeFetcher) Fetch(ctx context.Context, handle string) (*leetcode.Stats, error) {
	if f.err != nil {
		return nil, f.err
	}
	stats, ok := f.stats[handle]
	if !ok {
		return nil, leetcode.ErrNoSuchHandle
	}
	return stats, nil
}

func newTestSyncService(repo *fakeUserRepo, fetcher StatsFetcher) *SyncService {
	s := NewSyncService(repo, fetcher, appsync.NewEngine(appsync.DefaultScoring),
		NewLeaderboardCache(nil, 0), 3, 2)
	s.now = func() time.Time {
		return time.Date(2024, 6, 10, 12, 0, 0, 0, time.UTC)
	}
	return s
}

func solverProfile(id, handle string) *model.User {
	return &model.User{
		ID:             id,
		Name:           "Solver",
		Email:          id + "@example.com",
		LeetCodeHandle: handle,
		Stats:          model.SolveStats{EasySolved: 10, MediumSolved: 5, HardSolved: 1, TotalSolved: 16},
		Points:         100,
		Streak:         2,
		LastSolveDate:  "2024-06-09",
	}
}

func TestSyncUser_FetchApplyPersist(t *testing.T) {
	repo := newFakeUserRepo(solverProfile("u1", "naina"))
	fetcher := &fakeFetcher{stats: map[string]*leetcode.Stats{
		"naina": {EasySolved: 12, MediumSolved: 5, HardSolved: 1, TotalSolved: 18},
	}}
	s := newTestSyncService(repo, fetcher)

	user, err := s.SyncUser(context.Background(), "u1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if user.Points != 120 || user.Streak != 3 || user.LastSolveDate != "2024-06-10" {
		t.Fatalf("unexpected synced state: points=%d streak=%d last=%q",
			user.Points, user.Streak, user.LastSolveDate)
	}

	stored, _ := repo.FindByID(context.Background(), "u1")
	if stored.Points != 120 {
		t.Fatalf("synced profile not persisted: %d", stored.Points)
	}
}

func TestSyncUser_ProviderFailureLeavesProfileUntouched(t *testing.T) {
	repo := newFakeUserRepo(solverProfile("u1", "naina"))
	s := newTestSyncService(repo, &fakeFetcher{err: leetcode.ErrUnavailable})

	_, err := s.SyncUser(context.Background(), "u1")
	if !errors.Is(err, common.ErrServiceUnavailable) {
		t.Fatalf("expected service-unavailable error, got %v", err)
	}
	if repo.updateCalls != 0 {
		t.Fatalf("provider failure must not persist anything, saw %d writes", repo.updateCalls)
	}
	stored, _ := repo.FindByID(context.Background(), "u1")
	if stored.Points != 100 || stored.Streak != 2 {
		t.Fatalf("profile mutated despite fetch failure: %+v", stored)
	}
}

func TestSyncUser_UnknownHandleSurfacedDistinctly(t *testing.T) {
	repo := newFakeUserRepo(solverProfile("u1", "ghost"))
	s := newTestSyncService(repo, &fakeFetcher{stats: map[string]*leetcode.Stats{}})

	_, err := s.SyncUser(context.Background(), "u1")
	if !errors.Is(err, leetcode.ErrNoSuchHandle) {
		t.Fatalf("expected no-such-handle error, got %v", err)
	}
}

func TestSyncUser_RetriesOnWriteConflict(t *testing.T) {
	repo := newFakeUserRepo(solverProfile("u1", "naina"))
	repo.conflictsLeft = 2
	fetcher := &fakeFetcher{stats: map[string]*leetcode.Stats{
		"naina": {EasySolved: 12, MediumSolved: 5, HardSolved: 1, TotalSolved: 18},
	}}
	s := newTestSyncService(repo, fetcher)

	user, err := s.SyncUser(context.Background(), "u1")
	if err != nil {
		t.Fatalf("expected retry to succeed, got %v", err)
	}
	if user.Points != 120 {
		t.Fatalf("retried sync produced wrong points: %d", user.Points)
	}
	if repo.updateCalls != 3 {
		t.Fatalf("expected 3 write attempts, saw %d", repo.updateCalls)
	}
}

func TestSyncUser_ConflictRetriesExhausted(t *testing.T) {
	repo := newFakeUserRepo(solverProfile("u1", "naina"))
	repo.conflictsLeft = 10
	fetcher := &fakeFetcher{stats: map[string]*leetcode.Stats{
		"naina": {EasySolved: 12, MediumSolved: 5, HardSolved: 1, TotalSolved: 18},
	}}
	s := newTestSyncService(repo, fetcher)

	_, err := s.SyncUser(context.Background(), "u1")
	if !errors.Is(err, common.ErrConflict) {
		t.Fatalf("expected conflict after exhausted retries, got %v", err)
	}
	if repo.updateCalls != 3 {
		t.Fatalf("expected exactly 3 bounded attempts, saw %d", repo.updateCalls)
	}
}

func TestSyncAll_IsolatesPerProfileFailures(t *testing.T) {
	repo := newFakeUserRepo(
		solverProfile("u1", "alpha"),
		solverProfile("u2", "ghost"),
		solverProfile("u3", "gamma"),
	)
	fetcher := &fakeFetcher{stats: map[string]*leetcode.Stats{
		"alpha": {EasySolved: 11, MediumSolved: 5, HardSolved: 1, TotalSolved: 17},
		"gamma": {EasySolved: 10, MediumSolved: 6, HardSolved: 1, TotalSolved: 17},
	}}
	s := newTestSyncService(repo, fetcher)

	summary := s.SyncAll(context.Background(), []string{"u1", "u2", "u3"})

	if summary.Total != 3 || summary.Synced != 2 || summary.Failed != 1 {
		t.Fatalf("unexpected summary: %+v", summary)
	}
	u1, _ := repo.FindByID(context.Background(), "u1")
	if u1.Points != 110 {
		t.Fatalf("u1 not synced by batch: %d", u1.Points)
	}
}
