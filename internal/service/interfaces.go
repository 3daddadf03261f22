package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/hard75/api/internal/social"
	"github.com/hard75/api/pkg/entity"
)

type RegisterRequest struct {
	Username string `validate:"required,alphanum_underscore,min=3,max=100"`
	Password string `validate:"required,min=8,max=72"`
	Email    string `validate:"required,email"`
	Name     string `validate:"max=200"`
}

type SyncRequest struct {
	ClerkID  string `validate:"required"`
	Email    string `validate:"required,email"`
	Username string `validate:"required,alphanum_underscore,min=3,max=100"`
	Name     string `validate:"max=200"`
}

// InviteRequest addresses a friend request target by clerk id or by username.
// At least one must be present.
type InviteRequest struct {
	ClerkID  string
	Username string
}

type EncouragementRequest struct {
	ToClerkID  string `validate:"required"`
	Message    string `validate:"required,max=500"`
	Kind       entity.EncouragementKind
	ActivityID *uuid.UUID
}

type FriendsOverview struct {
	Friends  []*entity.User          `json:"friends"`
	Incoming []*entity.FriendRequest `json:"incoming"`
	Outgoing []*entity.FriendRequest `json:"outgoing"`
}

type UserServiceI interface {
	// Validates credentials, creates new row in database. Returns user's data with ID
	Register(ctx context.Context, req *RegisterRequest) (*entity.User, error)
	// Compares given credentials. If ok, gives back user's data with ID
	Login(ctx context.Context, username, password string) (*entity.User, error)
	// Idempotent upsert keyed by the auth provider's id
	Sync(ctx context.Context, req *SyncRequest) (*entity.User, error)
	GetByClerkID(ctx context.Context, clerkID string) (*entity.User, error)
	// Matches query against username, email and name, excluding the searcher
	Search(ctx context.Context, query, selfClerkID string) ([]*entity.User, error)
}

type FriendsServiceI interface {
	Overview(ctx context.Context, viewerClerkID string) (*FriendsOverview, error)
	SendRequest(ctx context.Context, viewerClerkID string, req *InviteRequest) (uuid.UUID, error)
	Accept(ctx context.Context, viewerClerkID string, requestID uuid.UUID) error
	Reject(ctx context.Context, viewerClerkID string, requestID uuid.UUID) error
	Remove(ctx context.Context, viewerClerkID, friendClerkID string) error
	CleanupDuplicates(ctx context.Context, viewerClerkID string) (int, error)
	Leaderboard(ctx context.Context, viewerClerkID string, typ social.LeaderboardType) ([]*entity.LeaderboardEntry, error)
}

type ActivityServiceI interface {
	Create(ctx context.Context, clerkID string, kind entity.ActivityKind, data map[string]any, isPublic bool) (uuid.UUID, error)
	FriendFeed(ctx context.Context, viewerClerkID string, limit int) ([]*entity.FeedItem, error)
	// Writes both counters (longest = max of current and stored longest) and
	// logs a milestone activity when current hits one
	UpdateStreak(ctx context.Context, clerkID string, current int) error
}

type EncouragementServiceI interface {
	Send(ctx context.Context, fromClerkID string, req *EncouragementRequest) (uuid.UUID, error)
	ListForUser(ctx context.Context, clerkID string, limit int) ([]*entity.ReceivedEncouragement, error)
}

// IdentityResolver maps external identity tokens to internal record ids.
type IdentityResolver interface {
	Resolve(externalID string) (uuid.UUID, error)
	ReverseResolve(internalID uuid.UUID) (string, bool)
}
