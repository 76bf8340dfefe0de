// Package sync holds the gamification scoring engine: the pure
// transformation that reconciles a fresh LeetCode snapshot into a stored
// user profile (points, streak, badges, heatmap).
package sync

import (
	"fmt"
	"sort"
	"time"

	"algopulse/internal/app/leetcode"
	"algopulse/internal/domain/model"
)

const DateLayout = "2006-01-02"

// Scoring is the point award per newly solved problem, by difficulty.
type Scoring struct {
	Easy   int
	Medium int
	Hard   int
}

// DefaultScoring is the canonical weighted rule. A flat per-solve rule
// existed historically; it is intentionally not supported.
var DefaultScoring = Scoring{Easy: 10, Medium: 20, Hard: 40}

type Engine struct {
	scoring Scoring
}

func NewEngine(scoring Scoring) *Engine {
	return &Engine{scoring: scoring}
}

// Apply reconciles fresh stats into the profile in place. It is a pure
// state transition: no I/O, total on well-formed input, and idempotent
// when called again with the same snapshot (delta collapses to zero).
// Persisting the mutated profile is the caller's job.
func (e *Engine) Apply(user *model.User, fresh *leetcode.Stats, today time.Time) {
	if user == nil || fresh == nil {
		panic("sync: Apply called with nil profile or stats")
	}

	// Deltas are derived per difficulty; the reported aggregate is stored
	// but never drives scoring, so inconsistent provider totals cannot
	// mint points.
	deltaEasy := positive(fresh.EasySolved - user.Stats.EasySolved)
	deltaMedium := positive(fresh.MediumSolved - user.Stats.MediumSolved)
	deltaHard := positive(fresh.HardSolved - user.Stats.HardSolved)
	diff := deltaEasy + deltaMedium + deltaHard

	if diff > 0 {
		user.Points += deltaEasy*e.scoring.Easy + deltaMedium*e.scoring.Medium + deltaHard*e.scoring.Hard

		todayStr := today.UTC().Format(DateLayout)
		yesterdayStr := today.UTC().AddDate(0, 0, -1).Format(DateLayout)
		switch user.LastSolveDate {
		case yesterdayStr:
			user.Streak++
		case todayStr:
			// Already credited today; streak holds.
		default:
			user.Streak = 1
		}
		user.LastSolveDate = todayStr
	}

	user.Stats = model.SolveStats{
		EasySolved:   fresh.EasySolved,
		MediumSolved: fresh.MediumSolved,
		HardSolved:   fresh.HardSolved,
		TotalSolved:  fresh.TotalSolved,
	}
	user.Topics = append([]model.TopicCount(nil), fresh.Topics...)

	awardBadges(user)

	// Heatmap: full replace from the provider's calendar, which self-heals
	// from missed syncs. An empty calendar keeps the stored history rather
	// than wiping a year of activity.
	if len(fresh.Calendar) > 0 {
		user.DailyHistory = NormalizeHistory(fresh.Calendar)
	} else {
		user.DailyHistory = NormalizeHistory(user.DailyHistory)
	}
}

// NormalizeHistory enforces the heatmap invariants: unique dates, sorted
// ascending, capped at the most recent model.MaxDailyHistory entries.
func NormalizeHistory(entries []model.DailyActivity) []model.DailyActivity {
	byDate := make(map[string]int, len(entries))
	for _, e := range entries {
		if _, err := time.Parse(DateLayout, e.Date); err != nil {
			panic(fmt.Sprintf("sync: malformed history date %q", e.Date))
		}
		byDate[e.Date] += e.Count
	}

	out := make([]model.DailyActivity, 0, len(byDate))
	for date, count := range byDate {
		out = append(out, model.DailyActivity{Date: date, Count: count})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })

	if len(out) > model.MaxDailyHistory {
		out = out[len(out)-model.MaxDailyHistory:]
	}
	return out
}

func positive(n int) int {
	if n < 0 {
		return 0
	}
	return n
}
