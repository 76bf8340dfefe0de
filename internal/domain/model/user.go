package model

import (
	"time"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

const DefaultProfilePic = "https://cdn-icons-png.flaticon.com/512/3135/3135715.png"

// SolveStats is the aggregate per-difficulty counts as reported by LeetCode.
type SolveStats struct {
	EasySolved   int `json:"easy_solved"`
	MediumSolved int `json:"medium_solved"`
	HardSolved   int `json:"hard_solved"`
	TotalSolved  int `json:"total_solved"`
}

// TopicCount is one entry of the top-N most-solved tag categories.
type TopicCount struct {
	Name   string `json:"name"`
	Solved int    `json:"solved"`
}

// DailyActivity is one day of the sparse activity heatmap.
// Date is formatted "YYYY-MM-DD"; at most one entry per date.
type DailyActivity struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

// MaxDailyHistory bounds the heatmap to the most recent year of entries.
const MaxDailyHistory = 365

// User holds the account plus all gamification state. The gamification
// fields are rewritten wholesale on each sync; Version backs the
// optimistic-concurrency check on that write.
type User struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	Email          string    `json:"email"`
	HashedPassword string    `json:"-"` // Not exposed
	LeetCodeHandle string    `json:"leetcode_handle"`
	ProfilePic     string    `json:"profile_pic"`
	Role           string    `json:"role"`

	Stats         SolveStats      `json:"stats"`
	Points        int             `json:"points"`
	Streak        int             `json:"streak"`
	LastSolveDate string          `json:"last_solve_date"` // "YYYY-MM-DD", empty if never
	Badges        []string        `json:"badges"`
	Topics        []TopicCount    `json:"topics"`
	DailyHistory  []DailyActivity `json:"daily_history"`

	Version   int       `json:"-"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// HasBadge reports whether the badge was already earned.
func (u *User) HasBadge(name string) bool {
	for _, b := range u.Badges {
		if b == name {
			return true
		}
	}
	return false
}
