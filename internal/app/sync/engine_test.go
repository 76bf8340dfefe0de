package sync

import (
	"fmt"
	"testing"
	"time"

	"algopulse/internal/app/leetcode"
	"algopulse/internal/domain/model"
)

func day(s string) time.Time {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestApply_AwardsWeightedPointsAndAdvancesStreak(t *testing.T) {
	e := NewEngine(DefaultScoring)
	user := &model.User{
		Stats:         model.SolveStats{EasySolved: 10, MediumSolved: 5, HardSolved: 1, TotalSolved: 16},
		Points:        100,
		Streak:        2,
		LastSolveDate: "2024-06-09",
	}
	fresh := &leetcode.Stats{EasySolved: 12, MediumSolved: 5, HardSolved: 1, TotalSolved: 18}

	e.Apply(user, fresh, day("2024-06-10"))

	if user.Points != 120 {
		t.Fatalf("expected 120 points (two new easy), got %d", user.Points)
	}
	if user.Streak != 3 {
		t.Fatalf("expected streak 3, got %d", user.Streak)
	}
	if user.LastSolveDate != "2024-06-10" {
		t.Fatalf("expected lastSolveDate 2024-06-10, got %q", user.LastSolveDate)
	}
	if user.Stats.TotalSolved != 18 {
		t.Fatalf("expected counts replaced, got %+v", user.Stats)
	}
}

func TestApply_NoChangeIsANoOp(t *testing.T) {
	e := NewEngine(DefaultScoring)
	user := &model.User{
		Stats:         model.SolveStats{EasySolved: 10, MediumSolved: 5, HardSolved: 1, TotalSolved: 16},
		Points:        100,
		Streak:        2,
		LastSolveDate: "2024-06-09",
	}
	fresh := &leetcode.Stats{EasySolved: 10, MediumSolved: 5, HardSolved: 1, TotalSolved: 16}

	e.Apply(user, fresh, day("2024-06-10"))

	if user.Points != 100 || user.Streak != 2 || user.LastSolveDate != "2024-06-09" {
		t.Fatalf("no-change sync mutated points/streak: %d/%d/%q",
			user.Points, user.Streak, user.LastSolveDate)
	}
}

func TestApply_SecondApplyWithSameSnapshotIsIdempotent(t *testing.T) {
	e := NewEngine(DefaultScoring)
	user := &model.User{
		Stats:  model.SolveStats{EasySolved: 3, TotalSolved: 3},
		Points: 10,
	}
	fresh := &leetcode.Stats{EasySolved: 5, MediumSolved: 1, TotalSolved: 6}
	today := day("2024-06-10")

	e.Apply(user, fresh, today)
	points, streak, badges := user.Points, user.Streak, len(user.Badges)

	e.Apply(user, fresh, today)

	if user.Points != points || user.Streak != streak || len(user.Badges) != badges {
		t.Fatalf("repeat apply changed state: points %d->%d streak %d->%d badges %d->%d",
			points, user.Points, streak, user.Streak, badges, len(user.Badges))
	}
}

func TestApply_StreakResetsAfterGap(t *testing.T) {
	e := NewEngine(DefaultScoring)
	user := &model.User{
		Stats:         model.SolveStats{EasySolved: 1, TotalSolved: 1},
		Streak:        3,
		LastSolveDate: "2024-05-01",
	}
	fresh := &leetcode.Stats{EasySolved: 2, TotalSolved: 2}

	e.Apply(user, fresh, day("2024-05-04"))

	if user.Streak != 1 {
		t.Fatalf("expected streak reset to 1 after gap, got %d", user.Streak)
	}
	if user.LastSolveDate != "2024-05-04" {
		t.Fatalf("expected lastSolveDate 2024-05-04, got %q", user.LastSolveDate)
	}
}

func TestApply_StreakContinuesOnConsecutiveDay(t *testing.T) {
	e := NewEngine(DefaultScoring)
	user := &model.User{
		Stats:         model.SolveStats{EasySolved: 1, TotalSolved: 1},
		Streak:        3,
		LastSolveDate: "2024-05-01",
	}
	fresh := &leetcode.Stats{EasySolved: 2, TotalSolved: 2}

	e.Apply(user, fresh, day("2024-05-02"))

	if user.Streak != 4 {
		t.Fatalf("expected streak 4, got %d", user.Streak)
	}
}

func TestApply_SecondSolveSameDayHoldsStreak(t *testing.T) {
	e := NewEngine(DefaultScoring)
	user := &model.User{
		Stats:         model.SolveStats{EasySolved: 2, TotalSolved: 2},
		Streak:        4,
		LastSolveDate: "2024-05-02",
	}
	fresh := &leetcode.Stats{EasySolved: 3, TotalSolved: 3}

	e.Apply(user, fresh, day("2024-05-02"))

	if user.Streak != 4 {
		t.Fatalf("expected streak to hold at 4 on same-day solve, got %d", user.Streak)
	}
}

func TestApply_InconsistentAggregateCannotMintPoints(t *testing.T) {
	e := NewEngine(DefaultScoring)
	user := &model.User{
		Stats:  model.SolveStats{EasySolved: 10, MediumSolved: 5, HardSolved: 1, TotalSolved: 16},
		Points: 50,
	}
	// Aggregate jumped but per-difficulty counts did not.
	fresh := &leetcode.Stats{EasySolved: 10, MediumSolved: 5, HardSolved: 1, TotalSolved: 25}

	e.Apply(user, fresh, day("2024-06-10"))

	if user.Points != 50 {
		t.Fatalf("aggregate-only jump awarded points: %d", user.Points)
	}
	if user.Stats.TotalSolved != 25 {
		t.Fatalf("reported total should still be stored, got %d", user.Stats.TotalSolved)
	}
}

func TestApply_BadgesAreMonotonic(t *testing.T) {
	e := NewEngine(DefaultScoring)
	user := &model.User{}

	totals := []int{10, 55, 60, 120, 120, 600}
	var prev []string
	for i, total := range totals {
		fresh := &leetcode.Stats{EasySolved: total, TotalSolved: total}
		e.Apply(user, fresh, day("2024-06-10"))

		for _, b := range prev {
			if !user.HasBadge(b) {
				t.Fatalf("step %d revoked badge %q", i, b)
			}
		}
		prev = append([]string(nil), user.Badges...)
	}

	for _, want := range []string{"50 Solver", "Centurion", "LeetCode Legend"} {
		if !user.HasBadge(want) {
			t.Fatalf("expected badge %q, have %v", want, user.Badges)
		}
	}
}

func TestApply_AwardsCenturionAtThreshold(t *testing.T) {
	e := NewEngine(DefaultScoring)
	user := &model.User{
		Stats:  model.SolveStats{EasySolved: 99, TotalSolved: 99},
		Badges: []string{"50 Solver"},
	}
	fresh := &leetcode.Stats{EasySolved: 100, TotalSolved: 100}

	e.Apply(user, fresh, day("2024-06-10"))

	if !user.HasBadge("Centurion") {
		t.Fatalf("expected Centurion at 100 solved, have %v", user.Badges)
	}
	count := 0
	for _, b := range user.Badges {
		if b == "50 Solver" {
			count++
		}
	}
	if count != 1 {
		t.Fatalf("held badge duplicated: %v", user.Badges)
	}
}

func TestApply_StreakBadgeOnSeventhDay(t *testing.T) {
	e := NewEngine(DefaultScoring)
	user := &model.User{
		Streak:        6,
		LastSolveDate: "2024-05-06",
		Stats:         model.SolveStats{EasySolved: 6, TotalSolved: 6},
	}
	fresh := &leetcode.Stats{EasySolved: 7, TotalSolved: 7}

	e.Apply(user, fresh, day("2024-05-07"))

	if user.Streak != 7 {
		t.Fatalf("expected streak 7, got %d", user.Streak)
	}
	if !user.HasBadge("7-Day Streak") {
		t.Fatalf("expected 7-Day Streak badge, have %v", user.Badges)
	}
}

func TestApply_CalendarReplacesHistory(t *testing.T) {
	e := NewEngine(DefaultScoring)
	user := &model.User{
		DailyHistory: []model.DailyActivity{{Date: "2023-01-01", Count: 2}},
	}
	fresh := &leetcode.Stats{
		Calendar: []model.DailyActivity{
			{Date: "2024-06-09", Count: 1},
			{Date: "2024-06-10", Count: 3},
		},
	}

	e.Apply(user, fresh, day("2024-06-10"))

	if len(user.DailyHistory) != 2 {
		t.Fatalf("expected full replace with 2 entries, got %v", user.DailyHistory)
	}
	if user.DailyHistory[0].Date != "2024-06-09" || user.DailyHistory[1].Count != 3 {
		t.Fatalf("unexpected history: %v", user.DailyHistory)
	}
}

func TestApply_EmptyCalendarKeepsExistingHistory(t *testing.T) {
	e := NewEngine(DefaultScoring)
	user := &model.User{
		DailyHistory: []model.DailyActivity{{Date: "2024-06-01", Count: 2}},
	}
	fresh := &leetcode.Stats{}

	e.Apply(user, fresh, day("2024-06-10"))

	if len(user.DailyHistory) != 1 || user.DailyHistory[0].Date != "2024-06-01" {
		t.Fatalf("empty calendar wiped history: %v", user.DailyHistory)
	}
}

func TestNormalizeHistory_CapsAtMostRecent365(t *testing.T) {
	start := day("2023-01-01")
	var entries []model.DailyActivity
	for i := 0; i < 400; i++ {
		entries = append(entries, model.DailyActivity{
			Date:  start.AddDate(0, 0, i).Format(DateLayout),
			Count: 1,
		})
	}

	out := NormalizeHistory(entries)

	if len(out) != model.MaxDailyHistory {
		t.Fatalf("expected %d entries, got %d", model.MaxDailyHistory, len(out))
	}
	// The 35 oldest days must be the ones dropped.
	wantOldest := start.AddDate(0, 0, 400-model.MaxDailyHistory).Format(DateLayout)
	if out[0].Date != wantOldest {
		t.Fatalf("expected oldest retained %s, got %s", wantOldest, out[0].Date)
	}
	if out[len(out)-1].Date != start.AddDate(0, 0, 399).Format(DateLayout) {
		t.Fatalf("expected newest retained, got %s", out[len(out)-1].Date)
	}
}

func TestNormalizeHistory_MergesDuplicateDates(t *testing.T) {
	out := NormalizeHistory([]model.DailyActivity{
		{Date: "2024-06-10", Count: 2},
		{Date: "2024-06-09", Count: 1},
		{Date: "2024-06-10", Count: 3},
	})

	if len(out) != 2 {
		t.Fatalf("expected duplicates merged, got %v", out)
	}
	seen := map[string]bool{}
	for _, e := range out {
		if seen[e.Date] {
			t.Fatalf("duplicate date %s survived", e.Date)
		}
		seen[e.Date] = true
	}
	if out[1].Date != "2024-06-10" || out[1].Count != 5 {
		t.Fatalf("expected summed count 5 for 2024-06-10, got %v", out[1])
	}
}

func TestNormalizeHistory_PanicsOnMalformedDate(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic on malformed date")
		}
	}()
	NormalizeHistory([]model.DailyActivity{{Date: "June 10", Count: 1}})
}

func TestApply_HistoryBoundHoldsAcrossManySyncs(t *testing.T) {
	e := NewEngine(DefaultScoring)
	user := &model.User{}
	start := day("2022-01-01")

	for i := 0; i < 5; i++ {
		var calendar []model.DailyActivity
		for d := 0; d < 100+i*80; d++ {
			calendar = append(calendar, model.DailyActivity{
				Date:  start.AddDate(0, 0, d).Format(DateLayout),
				Count: 1,
			})
		}
		e.Apply(user, &leetcode.Stats{Calendar: calendar}, day("2024-06-10"))

		if len(user.DailyHistory) > model.MaxDailyHistory {
			t.Fatalf("sync %d exceeded history bound: %d", i, len(user.DailyHistory))
		}
	}
}

func TestBadgeRules_TableIsComplete(t *testing.T) {
	want := map[string]int{
		"50 Solver": 50, "Centurion": 100, "LeetCode Legend": 500,
		"7-Day Streak": 7, "Monthly Warrior": 30, "Consistent King": 100,
	}
	if len(BadgeRules) != len(want) {
		t.Fatalf("expected %d rules, got %d", len(want), len(BadgeRules))
	}
	for _, rule := range BadgeRules {
		threshold, ok := want[rule.Name]
		if !ok {
			t.Fatalf("unexpected badge %q", rule.Name)
		}
		if rule.Threshold != threshold {
			t.Fatalf("badge %q: threshold %d, want %d", rule.Name, rule.Threshold, threshold)
		}
	}
}

func TestApply_PointsNeverNegative(t *testing.T) {
	e := NewEngine(DefaultScoring)
	user := &model.User{}
	for i := 1; i <= 3; i++ {
		fresh := &leetcode.Stats{EasySolved: i, TotalSolved: i}
		e.Apply(user, fresh, day(fmt.Sprintf("2024-06-%02d", 9+i)))
		if user.Points < 0 {
			t.Fatalf("points went negative: %d", user.Points)
		}
	}
}
