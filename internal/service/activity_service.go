package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	errorvalues "github.com/hard75/api/internal/error_values"
	"github.com/hard75/api/internal/repository"
	"github.com/hard75/api/internal/social"
	"github.com/hard75/api/pkg/entity"
)

// Streak lengths that produce a streak_milestone activity.
var milestones = map[int]bool{7: true, 14: true, 21: true, 30: true, 50: true, 75: true}

type ActivityService struct {
	activities  repository.ActivitiesRepositoryI
	friendships repository.FriendshipsRepositoryI
	users       repository.UsersRepositoryI
	identity    IdentityResolver
}

func NewActivityService(
	activitiesRepo repository.ActivitiesRepositoryI,
	friendshipsRepo repository.FriendshipsRepositoryI,
	usersRepo repository.UsersRepositoryI,
	identity IdentityResolver,
) *ActivityService {
	return &ActivityService{
		activities:  activitiesRepo,
		friendships: friendshipsRepo,
		users:       usersRepo,
		identity:    identity,
	}
}

// Create appends one activity record. It never touches streak counters;
// counter maintenance is the separate UpdateStreak operation.
func (as *ActivityService) Create(ctx context.Context, clerkID string, kind entity.ActivityKind, data map[string]any, isPublic bool) (uuid.UUID, error) {
	internalID, err := as.identity.Resolve(clerkID)
	if err != nil {
		return uuid.UUID{}, errors.New("resolving identity error: " + err.Error())
	}
	id, err := as.activities.Create(ctx, &entity.Activity{
		UserID:      internalID,
		ClerkUserID: clerkID,
		Kind:        kind,
		Data:        data,
		IsPublic:    isPublic,
	})
	if err != nil {
		return uuid.UUID{}, errors.New("activities repository error: " + err.Error())
	}
	return id, nil
}

// FriendFeed composes the viewer's feed from the globally most recent
// activities, filtered to current friends.
func (as *ActivityService) FriendFeed(ctx context.Context, viewerClerkID string, limit int) ([]*entity.FeedItem, error) {
	activities, err := as.activities.ListRecent(ctx, limit)
	if err != nil {
		return nil, errors.New("activities repository error: " + err.Error())
	}
	users, err := as.users.List(ctx)
	if err != nil {
		return nil, errors.New("users repository error: " + err.Error())
	}
	edges, err := as.friendships.ListByClerkID(ctx, viewerClerkID)
	if err != nil {
		return nil, errors.New("friendships repository error: " + err.Error())
	}
	friends := social.Friends(edges, users, viewerClerkID)
	friendIDs := make([]uuid.UUID, len(friends))
	for i, f := range friends {
		friendIDs[i] = f.ID
	}
	return social.ComposeFeed(activities, users, friendIDs, time.Now()), nil
}

func (as *ActivityService) UpdateStreak(ctx context.Context, clerkID string, current int) error {
	user, err := as.users.FindByClerkID(ctx, clerkID)
	if err != nil {
		if errors.Is(err, errorvalues.ErrUserNotFound) {
			return err
		}
		return errors.New("users repository error: " + err.Error())
	}
	longest := user.LongestStreak
	if current > longest {
		longest = current
	}
	if err = as.users.UpdateStreaks(ctx, clerkID, current, longest); err != nil {
		if errors.Is(err, errorvalues.ErrUserNotFound) {
			return err
		}
		return errors.New("users repository error: " + err.Error())
	}
	if milestones[current] {
		// Milestone activity is cosmetic: the counters are already written.
		_, err = as.Create(ctx, clerkID, entity.ActivityStreakMilestone, map[string]any{"streakDays": current}, true)
		if err != nil {
			slog.Error("creating streak_milestone activity", slog.String("error", err.Error()))
		}
	}
	return nil
}
