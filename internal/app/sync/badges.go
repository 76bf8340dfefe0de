package sync

import "algopulse/internal/domain/model"

type BadgeMetric int

const (
	MetricTotalSolved BadgeMetric = iota
	MetricStreak
)

// BadgeRule is one row of the achievement table: earn Name once Metric
// reaches Threshold. Badges are append-only and never revoked.
type BadgeRule struct {
	Metric    BadgeMetric
	Threshold int
	Name      string
}

var BadgeRules = []BadgeRule{
	{MetricTotalSolved, 50, "50 Solver"},
	{MetricTotalSolved, 100, "Centurion"},
	{MetricTotalSolved, 500, "LeetCode Legend"},
	{MetricStreak, 7, "7-Day Streak"},
	{MetricStreak, 30, "Monthly Warrior"},
	{MetricStreak, 100, "Consistent King"},
}

// awardBadges appends every newly crossed threshold. Evaluation order does
// not matter; re-evaluation is a no-op for badges already held.
func awardBadges(user *model.User) {
	for _, rule := range BadgeRules {
		var value int
		switch rule.Metric {
		case MetricTotalSolved:
			value = user.Stats.TotalSolved
		case MetricStreak:
			value = user.Streak
		}
		if value >= rule.Threshold && !user.HasBadge(rule.Name) {
			user.Badges = append(user.Badges, rule.Name)
		}
	}
}
