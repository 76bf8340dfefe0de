package model

import "time"

// Winner is a Hall of Fame snapshot taken when a weekly winner is declared.
type Winner struct {
	ID             string     `json:"id"`
	WeekEnding     time.Time  `json:"week_ending"`
	UserID         string     `json:"user_id"`
	Name           string     `json:"name"`
	Points         int        `json:"points"`
	LeetCodeHandle string     `json:"leetcode_handle"`
	ProfilePic     string     `json:"profile_pic"`
	Stats          SolveStats `json:"stats"`
	CreatedAt      time.Time  `json:"created_at"`
}
