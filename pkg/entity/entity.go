package entity

import (
	"time"

	"github.com/google/uuid"
)

type FriendshipStatus string

const (
	StatusPending  FriendshipStatus = "pending"
	StatusAccepted FriendshipStatus = "accepted"
	StatusRejected FriendshipStatus = "rejected"
)

type ActivityKind string

const (
	ActivityTaskCompleted   ActivityKind = "task_completed"
	ActivityDayCompleted    ActivityKind = "day_completed"
	ActivityStreakMilestone ActivityKind = "streak_milestone"
	ActivityFriendAdded     ActivityKind = "friend_added"
)

type EncouragementKind string

const (
	KindEncouragement EncouragementKind = "encouragement"
	KindCelebration   EncouragementKind = "celebration"
	KindMotivation    EncouragementKind = "motivation"
)

type User struct {
	ID            uuid.UUID `json:"id"`
	ClerkID       string    `json:"clerk_id"`
	Email         string    `json:"email"`
	Username      string    `json:"username"`
	Name          string    `json:"name"`
	PasswordHash  string    `json:"-"`
	CurrentStreak int       `json:"current_streak"`
	LongestStreak int       `json:"longest_streak"`
	StartDate     time.Time `json:"start_date"`
	CreatedAt     time.Time `json:"created_at"`
}

// Friendship is a directed request that may become a bidirectional
// relationship. Both identity spaces are stored on every edge: some queries
// join on clerk ids, some on internal ids.
type Friendship struct {
	ID               uuid.UUID        `json:"id"`
	RequesterID      uuid.UUID        `json:"requester_id"`
	ReceiverID       uuid.UUID        `json:"receiver_id"`
	ClerkRequesterID string           `json:"clerk_requester_id"`
	ClerkReceiverID  string           `json:"clerk_receiver_id"`
	Status           FriendshipStatus `json:"status"`
	CreatedAt        time.Time        `json:"created_at"`
}

// Activity is an append-only fact about a user's progress. Data shape depends
// on Kind.
type Activity struct {
	ID          uuid.UUID      `json:"id"`
	UserID      uuid.UUID      `json:"user_id"`
	ClerkUserID string         `json:"clerk_user_id"`
	Kind        ActivityKind   `json:"type"`
	Data        map[string]any `json:"data"`
	IsPublic    bool           `json:"is_public"`
	CreatedAt   time.Time      `json:"created_at"`
}

type Encouragement struct {
	ID          uuid.UUID         `json:"id"`
	FromClerkID string            `json:"from_user_id"`
	ToClerkID   string            `json:"to_user_id"`
	ActivityID  *uuid.UUID        `json:"activity_id,omitempty"`
	Message     string            `json:"message"`
	Kind        EncouragementKind `json:"type"`
	CreatedAt   time.Time         `json:"created_at"`
}

// FriendRequest is a pending friendship edge enriched with the other party's
// user record for display.
type FriendRequest struct {
	Friendship
	Requester *User `json:"requester,omitempty"`
	Receiver  *User `json:"receiver,omitempty"`
}

type FeedItem struct {
	Activity
	Author  *User  `json:"author"`
	Message string `json:"message"`
	TimeAgo string `json:"time_ago"`
}

type LeaderboardEntry struct {
	User
	Rank int `json:"rank"`
}

type ReceivedEncouragement struct {
	Encouragement
	Sender     *User  `json:"sender,omitempty"`
	SenderName string `json:"sender_name"`
}
