package leetcode

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"time"

	"algopulse/internal/common"
	"algopulse/internal/domain/model"
)

var (
	// ErrUnavailable covers network failures, timeouts and malformed
	// responses: no data, nothing to apply.
	ErrUnavailable = fmt.Errorf("leetcode api unavailable: %w", common.ErrServiceUnavailable)
	// ErrNoSuchHandle means LeetCode has no profile for the handle; the
	// user should fix their handle rather than retry.
	ErrNoSuchHandle = fmt.Errorf("no leetcode profile for handle: %w", common.ErrNotFound)
)

// TopTopics bounds the merged tag list to the most-solved categories.
const TopTopics = 9

// Stats is one fully parsed snapshot of a solver's LeetCode profile.
type Stats struct {
	EasySolved   int
	MediumSolved int
	HardSolved   int
	TotalSolved  int
	Calendar     []model.DailyActivity
	Topics       []model.TopicCount
}

const userProfileQuery = `
    query userProfile($username: String!) {
      matchedUser(username: $username) {
        submitStats {
          acSubmissionNum { difficulty count }
        }
        submissionCalendar
        tagProblemCounts {
          fundamental { tagName problemsSolved }
          intermediate { tagName problemsSolved }
          advanced { tagName problemsSolved }
        }
      }
    }
  `

type Client struct {
	endpoint   string
	httpClient *http.Client
}

func NewClient(endpoint string, timeout time.Duration) *Client {
	return &Client{
		endpoint:   endpoint,
		httpClient: &http.Client{Timeout: timeout},
	}
}

type graphQLRequest struct {
	Query     string            `json:"query"`
	Variables map[string]string `json:"variables"`
}

type tagCount struct {
	TagName        string `json:"tagName"`
	ProblemsSolved int    `json:"problemsSolved"`
}

type userProfileResponse struct {
	Data struct {
		MatchedUser *struct {
			SubmitStats struct {
				ACSubmissionNum []struct {
					Difficulty string `json:"difficulty"`
					Count      int    `json:"count"`
				} `json:"acSubmissionNum"`
			} `json:"submitStats"`
			SubmissionCalendar string `json:"submissionCalendar"`
			TagProblemCounts   struct {
				Fundamental  []tagCount `json:"fundamental"`
				Intermediate []tagCount `json:"intermediate"`
				Advanced     []tagCount `json:"advanced"`
			} `json:"tagProblemCounts"`
		} `json:"matchedUser"`
	} `json:"data"`
}

// Fetch issues a single GraphQL request for the handle's profile. It never
// caches: every call is a fresh snapshot.
func (c *Client) Fetch(ctx context.Context, handle string) (*Stats, error) {
	if handle == "" {
		return nil, ErrNoSuchHandle
	}

	body, err := json.Marshal(graphQLRequest{
		Query:     userProfileQuery,
		Variables: map[string]string{"username": handle},
	})
	if err != nil {
		return nil, fmt.Errorf("leetcode.Fetch: marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("leetcode.Fetch: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %v: %w", err, ErrUnavailable)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d: %w", resp.StatusCode, ErrUnavailable)
	}

	var parsed userProfileResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("decode response: %v: %w", err, ErrUnavailable)
	}

	matched := parsed.Data.MatchedUser
	if matched == nil {
		return nil, fmt.Errorf("handle %q: %w", handle, ErrNoSuchHandle)
	}
	if len(matched.SubmitStats.ACSubmissionNum) == 0 {
		// A profile without submission buckets is a malformed payload,
		// treated the same as the service being down.
		return nil, fmt.Errorf("handle %q: no submission stats: %w", handle, ErrUnavailable)
	}

	stats := &Stats{}
	for _, bucket := range matched.SubmitStats.ACSubmissionNum {
		switch bucket.Difficulty {
		case "All":
			stats.TotalSolved = bucket.Count
		case "Easy":
			stats.EasySolved = bucket.Count
		case "Medium":
			stats.MediumSolved = bucket.Count
		case "Hard":
			stats.HardSolved = bucket.Count
		}
	}

	calendar, err := ParseCalendar(matched.SubmissionCalendar)
	if err != nil {
		return nil, fmt.Errorf("handle %q: bad submission calendar: %v: %w", handle, err, ErrUnavailable)
	}
	stats.Calendar = calendar

	merged := append([]tagCount{}, matched.TagProblemCounts.Fundamental...)
	merged = append(merged, matched.TagProblemCounts.Intermediate...)
	merged = append(merged, matched.TagProblemCounts.Advanced...)
	stats.Topics = topTopics(merged, TopTopics)

	return stats, nil
}

// ParseCalendar decodes LeetCode's submissionCalendar: a JSON object whose
// keys are unix timestamps (as strings) and values are submission counts.
// Timestamps landing on the same UTC date are summed. The result is sorted
// by date ascending.
func ParseCalendar(raw string) ([]model.DailyActivity, error) {
	if raw == "" {
		return []model.DailyActivity{}, nil
	}

	var byTimestamp map[string]int
	if err := json.Unmarshal([]byte(raw), &byTimestamp); err != nil {
		return nil, err
	}

	byDate := make(map[string]int, len(byTimestamp))
	for key, count := range byTimestamp {
		ts, err := strconv.ParseInt(key, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("calendar key %q: %w", key, err)
		}
		date := time.Unix(ts, 0).UTC().Format("2006-01-02")
		byDate[date] += count
	}

	entries := make([]model.DailyActivity, 0, len(byDate))
	for date, count := range byDate {
		entries = append(entries, model.DailyActivity{Date: date, Count: count})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Date < entries[j].Date })
	return entries, nil
}

func topTopics(tags []tagCount, limit int) []model.TopicCount {
	sort.SliceStable(tags, func(i, j int) bool { return tags[i].ProblemsSolved > tags[j].ProblemsSolved })
	if len(tags) > limit {
		tags = tags[:limit]
	}
	topics := make([]model.TopicCount, 0, len(tags))
	for _, t := range tags {
		topics = append(topics, model.TopicCount{Name: t.TagName, Solved: t.ProblemsSolved})
	}
	return topics
}
