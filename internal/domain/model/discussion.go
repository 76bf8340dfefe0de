package model

import "time"

// Reply is a nested comment on a discussion post.
type Reply struct {
	ID         string    `json:"id"`
	UserID     string    `json:"user_id"`
	Username   string    `json:"username"`
	ProfilePic string    `json:"profile_pic"`
	Content    string    `json:"content"`
	CreatedAt  time.Time `json:"created_at"`
}

// Discussion is a board post. Likes holds the IDs of users who liked it;
// Replies are embedded, mirroring the document shape the API exposes.
type Discussion struct {
	ID         string    `json:"id"`
	UserID     string    `json:"user_id"`
	Username   string    `json:"username"`
	ProfilePic string    `json:"profile_pic"`
	Content    string    `json:"content"`
	Image      *string   `json:"image,omitempty"`
	Likes      []string  `json:"likes"`
	Replies    []Reply   `json:"replies"`
	CreatedAt  time.Time `json:"created_at"`
}

func (d *Discussion) LikedBy(userID string) bool {
	for _, id := range d.Likes {
		if id == userID {
			return true
		}
	}
	return false
}
