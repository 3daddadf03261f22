package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"

	errorvalues "github.com/hard75/api/internal/error_values"
	"github.com/hard75/api/internal/repository"
	"github.com/hard75/api/internal/social"
	"github.com/hard75/api/pkg/entity"
)

// FriendsService owns every friendship-edge mutation and hands derivations to
// the social package. It is the only friend-graph implementation.
type FriendsService struct {
	friendships repository.FriendshipsRepositoryI
	users       repository.UsersRepositoryI
	activities  repository.ActivitiesRepositoryI
	identity    IdentityResolver
}

func NewFriendsService(
	friendshipsRepo repository.FriendshipsRepositoryI,
	usersRepo repository.UsersRepositoryI,
	activitiesRepo repository.ActivitiesRepositoryI,
	identity IdentityResolver,
) *FriendsService {
	return &FriendsService{
		friendships: friendshipsRepo,
		users:       usersRepo,
		activities:  activitiesRepo,
		identity:    identity,
	}
}

// Overview recomputes the viewer's friends and pending requests from scratch
// out of the flat edge and user sets.
func (fs *FriendsService) Overview(ctx context.Context, viewerClerkID string) (*FriendsOverview, error) {
	edges, err := fs.friendships.ListByClerkID(ctx, viewerClerkID)
	if err != nil {
		return nil, errors.New("friendships repository error: " + err.Error())
	}
	users, err := fs.users.List(ctx)
	if err != nil {
		return nil, errors.New("users repository error: " + err.Error())
	}
	return &FriendsOverview{
		Friends:  social.Friends(edges, users, viewerClerkID),
		Incoming: social.IncomingRequests(edges, users, viewerClerkID),
		Outgoing: social.OutgoingRequests(edges, users, viewerClerkID),
	}, nil
}

func (fs *FriendsService) SendRequest(ctx context.Context, viewerClerkID string, req *InviteRequest) (uuid.UUID, error) {
	if req == nil || (req.ClerkID == "" && req.Username == "") {
		return uuid.UUID{}, errorvalues.ErrInvalidInvite
	}
	targetClerkID := req.ClerkID
	if targetClerkID == "" {
		target, err := fs.users.FindByUsername(ctx, req.Username)
		if err != nil {
			if errors.Is(err, errorvalues.ErrUserNotFound) {
				return uuid.UUID{}, errorvalues.ErrUserNotFound
			}
			return uuid.UUID{}, errors.New("users repository error: " + err.Error())
		}
		targetClerkID = target.ClerkID
	}
	if targetClerkID == viewerClerkID {
		return uuid.UUID{}, errorvalues.ErrSelfRequest
	}
	edges, err := fs.friendships.ListByClerkID(ctx, viewerClerkID)
	if err != nil {
		return uuid.UUID{}, errors.New("friendships repository error: " + err.Error())
	}
	// Rejected edges don't block: a fresh pending edge may coexist with them.
	if social.AreFriends(edges, viewerClerkID, targetClerkID) {
		return uuid.UUID{}, errorvalues.ErrAlreadyFriends
	}
	if social.HasPendingRequest(edges, viewerClerkID, targetClerkID) {
		return uuid.UUID{}, errorvalues.ErrRequestPending
	}
	requesterID, err := fs.identity.Resolve(viewerClerkID)
	if err != nil {
		return uuid.UUID{}, errors.New("resolving requester identity error: " + err.Error())
	}
	receiverID, err := fs.identity.Resolve(targetClerkID)
	if err != nil {
		return uuid.UUID{}, errors.New("resolving receiver identity error: " + err.Error())
	}
	id, err := fs.friendships.Create(ctx, &entity.Friendship{
		RequesterID:      requesterID,
		ReceiverID:       receiverID,
		ClerkRequesterID: viewerClerkID,
		ClerkReceiverID:  targetClerkID,
		Status:           entity.StatusPending,
	})
	if err != nil {
		return uuid.UUID{}, errors.New("friendships repository error: " + err.Error())
	}
	return id, nil
}

func (fs *FriendsService) Accept(ctx context.Context, viewerClerkID string, requestID uuid.UUID) error {
	f, err := fs.getPendingFor(ctx, viewerClerkID, requestID)
	if err != nil {
		return err
	}
	if err = fs.friendships.UpdateStatus(ctx, requestID, entity.StatusAccepted); err != nil {
		if errors.Is(err, errorvalues.ErrFriendshipNotFound) {
			return err
		}
		return errors.New("friendships repository error: " + err.Error())
	}
	// Both parties surface the new friendship in their feeds.
	fs.logFriendAdded(ctx, viewerClerkID, f.ClerkRequesterID)
	fs.logFriendAdded(ctx, f.ClerkRequesterID, viewerClerkID)
	return nil
}

func (fs *FriendsService) Reject(ctx context.Context, viewerClerkID string, requestID uuid.UUID) error {
	if _, err := fs.getPendingFor(ctx, viewerClerkID, requestID); err != nil {
		return err
	}
	if err := fs.friendships.UpdateStatus(ctx, requestID, entity.StatusRejected); err != nil {
		if errors.Is(err, errorvalues.ErrFriendshipNotFound) {
			return err
		}
		return errors.New("friendships repository error: " + err.Error())
	}
	return nil
}

// Remove deletes every accepted edge between the pair. Derived friend lists
// simply stop seeing them on the next recompute.
func (fs *FriendsService) Remove(ctx context.Context, viewerClerkID, friendClerkID string) error {
	edges, err := fs.friendships.ListByClerkID(ctx, viewerClerkID)
	if err != nil {
		return errors.New("friendships repository error: " + err.Error())
	}
	removed := false
	for _, f := range edges {
		if f.Status != entity.StatusAccepted {
			continue
		}
		if social.OtherParty(f, viewerClerkID) != friendClerkID {
			continue
		}
		if err = fs.friendships.Delete(ctx, f.ID); err != nil {
			return errors.New("friendships repository error: " + err.Error())
		}
		removed = true
	}
	if !removed {
		return errorvalues.ErrFriendshipNotFound
	}
	return nil
}

// CleanupDuplicates removes redundant edges per unordered pair, keeping the
// accepted one if any exists, otherwise the oldest. Returns how many edges
// were deleted.
func (fs *FriendsService) CleanupDuplicates(ctx context.Context, viewerClerkID string) (int, error) {
	edges, err := fs.friendships.ListByClerkID(ctx, viewerClerkID)
	if err != nil {
		return 0, errors.New("friendships repository error: " + err.Error())
	}
	removed := 0
	for _, f := range social.DuplicateCleanup(edges) {
		if err = fs.friendships.Delete(ctx, f.ID); err != nil {
			return removed, errors.New("friendships repository error: " + err.Error())
		}
		removed++
	}
	return removed, nil
}

func (fs *FriendsService) Leaderboard(ctx context.Context, viewerClerkID string, typ social.LeaderboardType) ([]*entity.LeaderboardEntry, error) {
	viewer, err := fs.users.FindByClerkID(ctx, viewerClerkID)
	if err != nil {
		if errors.Is(err, errorvalues.ErrUserNotFound) {
			return nil, err
		}
		return nil, errors.New("users repository error: " + err.Error())
	}
	edges, err := fs.friendships.ListByClerkID(ctx, viewerClerkID)
	if err != nil {
		return nil, errors.New("friendships repository error: " + err.Error())
	}
	users, err := fs.users.List(ctx)
	if err != nil {
		return nil, errors.New("users repository error: " + err.Error())
	}
	friends := social.Friends(edges, users, viewerClerkID)
	return social.Leaderboard(viewer, friends, typ), nil
}

func (fs *FriendsService) getPendingFor(ctx context.Context, viewerClerkID string, requestID uuid.UUID) (*entity.Friendship, error) {
	f, err := fs.friendships.GetByID(ctx, requestID)
	if err != nil {
		if errors.Is(err, errorvalues.ErrFriendshipNotFound) {
			return nil, err
		}
		return nil, errors.New("friendships repository error: " + err.Error())
	}
	if f.ClerkReceiverID != viewerClerkID {
		return nil, errorvalues.ErrNotReceiver
	}
	// pending -> accepted|rejected is terminal either way
	if f.Status != entity.StatusPending {
		return nil, errorvalues.ErrRequestClosed
	}
	return f, nil
}

// logFriendAdded appends a friend_added activity. Failures are logged and
// swallowed: the edge write already succeeded and the feed entry is cosmetic.
func (fs *FriendsService) logFriendAdded(ctx context.Context, authorClerkID, friendClerkID string) {
	authorID, err := fs.identity.Resolve(authorClerkID)
	if err != nil {
		slog.Error("resolving identity for friend_added activity", slog.String("error", err.Error()))
		return
	}
	data := map[string]any{"friendId": friendClerkID}
	if friend, err := fs.users.FindByClerkID(ctx, friendClerkID); err == nil {
		data["friendName"] = friend.Name
	}
	_, err = fs.activities.Create(ctx, &entity.Activity{
		UserID:      authorID,
		ClerkUserID: authorClerkID,
		Kind:        entity.ActivityFriendAdded,
		Data:        data,
		IsPublic:    true,
	})
	if err != nil {
		slog.Error("creating friend_added activity", slog.String("error", err.Error()))
	}
}
