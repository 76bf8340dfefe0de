package service

import (
	"context"
	"testing"
	"time"
)

func TestRunDailyMaintenance_PenalizesOnlyInactive(t *testing.T) {
	active := solverProfile("u1", "alpha")
	active.LastSolveDate = "2024-06-10"
	active.Streak = 5

	idle := solverProfile("u2", "beta")
	idle.LastSolveDate = "2024-06-08"
	idle.Points = 3
	idle.Streak = 9

	repo := newFakeUserRepo(active, idle)
	s := NewMaintenanceService(repo, NewLeaderboardCache(nil, 0), 5, 2)

	today := time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC)
	summary, err := s.RunDailyMaintenance(context.Background(), today)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if summary.Processed != 2 || summary.Penalized != 1 || summary.Failed != 0 {
		t.Fatalf("unexpected summary: %+v", summary)
	}

	gotActive, _ := repo.FindByID(context.Background(), "u1")
	if gotActive.Streak != 5 || gotActive.Points != 100 {
		t.Fatalf("active profile was penalized: %+v", gotActive)
	}

	gotIdle, _ := repo.FindByID(context.Background(), "u2")
	if gotIdle.Streak != 0 {
		t.Fatalf("idle streak not reset: %d", gotIdle.Streak)
	}
	if gotIdle.Points != 0 {
		t.Fatalf("expected points floored at 0, got %d", gotIdle.Points)
	}
}

func TestRunDailyMaintenance_PointsStayNonNegativeAcrossSweeps(t *testing.T) {
	idle := solverProfile("u1", "alpha")
	idle.LastSolveDate = "2024-05-01"
	idle.Points = 12

	repo := newFakeUserRepo(idle)
	s := NewMaintenanceService(repo, NewLeaderboardCache(nil, 0), 5, 1)

	for i := 0; i < 10; i++ {
		today := time.Date(2024, 6, 1+i, 0, 0, 0, 0, time.UTC)
		if _, err := s.RunDailyMaintenance(context.Background(), today); err != nil {
			t.Fatalf("sweep %d failed: %v", i, err)
		}
		got, _ := repo.FindByID(context.Background(), "u1")
		if got.Points < 0 {
			t.Fatalf("sweep %d drove points negative: %d", i, got.Points)
		}
	}

	got, _ := repo.FindByID(context.Background(), "u1")
	if got.Points != 0 {
		t.Fatalf("expected points drained to 0, got %d", got.Points)
	}
}
