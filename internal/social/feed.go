package social

import (
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/hard75/api/pkg/entity"
)

// ComposeFeed filters the globally most recent activities down to those
// authored by friends and orders them newest first. Authors are resolved by
// clerk id against the user set and membership is tested on the internal
// friend-id set; activities whose author cannot be resolved, or whose author
// is not a friend, are discarded. The viewer's own activities never pass the
// filter because the friend set excludes the viewer.
func ComposeFeed(activities []*entity.Activity, users []*entity.User, friendIDs []uuid.UUID, now time.Time) []*entity.FeedItem {
	byClerkID := indexByClerkID(users)
	isFriend := make(map[uuid.UUID]bool, len(friendIDs))
	for _, id := range friendIDs {
		isFriend[id] = true
	}
	items := make([]*entity.FeedItem, 0)
	for _, a := range activities {
		author, ok := byClerkID[a.ClerkUserID]
		if !ok || !isFriend[author.ID] {
			continue
		}
		name := author.Name
		if name == "" {
			name = author.Username
		}
		items = append(items, &entity.FeedItem{
			Activity: *a,
			Author:   author,
			Message:  FormatMessage(a, name),
			TimeAgo:  TimeAgo(a.CreatedAt, now),
		})
	}
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].CreatedAt.After(items[j].CreatedAt)
	})
	return items
}

// FormatMessage renders the kind-specific feed line for an activity.
func FormatMessage(a *entity.Activity, name string) string {
	switch a.Kind {
	case entity.ActivityTaskCompleted:
		return fmt.Sprintf("%s completed %s", name, dataString(a.Data, "taskName", "a task"))
	case entity.ActivityStreakMilestone:
		return fmt.Sprintf("%s reached a %d-day streak! 🔥", name, dataInt(a.Data, "streakDays"))
	case entity.ActivityDayCompleted:
		return fmt.Sprintf("%s crushed all tasks for day %d! 💪", name, dataInt(a.Data, "dayNumber"))
	case entity.ActivityFriendAdded:
		return fmt.Sprintf("%s added %s", name, dataString(a.Data, "friendName", "a new friend"))
	default:
		return fmt.Sprintf("%s completed an activity", name)
	}
}

// TimeAgo renders a coarse human-readable age for feed rows.
func TimeAgo(t, now time.Time) string {
	seconds := int(now.Sub(t).Seconds())
	switch {
	case seconds < 60:
		return "Just now"
	case seconds < 3600:
		return fmt.Sprintf("%dm ago", seconds/60)
	case seconds < 86400:
		return fmt.Sprintf("%dh ago", seconds/3600)
	case seconds < 604800:
		return fmt.Sprintf("%dd ago", seconds/86400)
	default:
		return fmt.Sprintf("%dw ago", seconds/604800)
	}
}

func dataString(data map[string]any, key, fallback string) string {
	if v, ok := data[key].(string); ok && v != "" {
		return v
	}
	return fallback
}

// dataInt tolerates both int and float64: payloads arrive as jsonb and decode
// numbers as float64.
func dataInt(data map[string]any, key string) int {
	switch v := data[key].(type) {
	case int:
		return v
	case float64:
		return int(v)
	default:
		return 0
	}
}
