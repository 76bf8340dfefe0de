package model

// LeaderboardEntry is one ranked row, ordered by points then total solved.
type LeaderboardEntry struct {
	Rank           int        `json:"rank"`
	UserID         string     `json:"user_id"`
	Name           string     `json:"name"`
	LeetCodeHandle string     `json:"leetcode_handle"`
	ProfilePic     string     `json:"profile_pic"`
	Points         int        `json:"points"`
	Streak         int        `json:"streak"`
	Stats          SolveStats `json:"stats"`
}
