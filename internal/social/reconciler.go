// Package social derives friend lists, request lists and the activity feed
// from flat record sets. Every function here is a pure derivation recomputed
// from scratch on each call; the database rows are the only state.
package social

import (
	"sort"

	"github.com/hard75/api/pkg/entity"
)

// OtherParty returns the clerk id of the edge party that is not viewer.
func OtherParty(f *entity.Friendship, viewerClerkID string) string {
	if f.ClerkRequesterID == viewerClerkID {
		return f.ClerkReceiverID
	}
	return f.ClerkRequesterID
}

// Friends derives the viewer's friend list from accepted edges. The other
// party is resolved against users by clerk id; identities with no matching
// user record are dropped from the result. Duplicated edges yield one entry,
// first-seen order.
func Friends(edges []*entity.Friendship, users []*entity.User, viewerClerkID string) []*entity.User {
	byClerkID := indexByClerkID(users)
	seen := make(map[string]bool)
	friends := make([]*entity.User, 0)
	for _, f := range edges {
		if f.Status != entity.StatusAccepted {
			continue
		}
		if f.ClerkRequesterID != viewerClerkID && f.ClerkReceiverID != viewerClerkID {
			continue
		}
		other := OtherParty(f, viewerClerkID)
		if seen[other] {
			continue
		}
		seen[other] = true
		if u, ok := byClerkID[other]; ok {
			friends = append(friends, u)
		}
	}
	return friends
}

// IncomingRequests returns pending edges addressed to the viewer, enriched
// with the requester's user record when one is known.
func IncomingRequests(edges []*entity.Friendship, users []*entity.User, viewerClerkID string) []*entity.FriendRequest {
	byClerkID := indexByClerkID(users)
	incoming := make([]*entity.FriendRequest, 0)
	for _, f := range edges {
		if f.Status != entity.StatusPending || f.ClerkReceiverID != viewerClerkID {
			continue
		}
		incoming = append(incoming, &entity.FriendRequest{
			Friendship: *f,
			Requester:  byClerkID[f.ClerkRequesterID],
		})
	}
	return incoming
}

// OutgoingRequests returns pending edges the viewer sent, enriched with the
// receiver's user record when one is known.
func OutgoingRequests(edges []*entity.Friendship, users []*entity.User, viewerClerkID string) []*entity.FriendRequest {
	byClerkID := indexByClerkID(users)
	outgoing := make([]*entity.FriendRequest, 0)
	for _, f := range edges {
		if f.Status != entity.StatusPending || f.ClerkRequesterID != viewerClerkID {
			continue
		}
		outgoing = append(outgoing, &entity.FriendRequest{
			Friendship: *f,
			Receiver:   byClerkID[f.ClerkReceiverID],
		})
	}
	return outgoing
}

// AreFriends reports whether any accepted edge connects a and b.
func AreFriends(edges []*entity.Friendship, a, b string) bool {
	for _, f := range edges {
		if f.Status == entity.StatusAccepted && connects(f, a, b) {
			return true
		}
	}
	return false
}

// HasPendingRequest reports whether a pending edge from one clerk id targets
// the other, in either direction.
func HasPendingRequest(edges []*entity.Friendship, a, b string) bool {
	for _, f := range edges {
		if f.Status == entity.StatusPending && connects(f, a, b) {
			return true
		}
	}
	return false
}

// DuplicateCleanup plans the removal of duplicate edges. Edges are grouped by
// unordered clerk pair; in every group with more than one edge the accepted
// one is kept (the oldest accepted, if several), otherwise the oldest, and the
// rest are returned for deletion. Rejected edges coexisting with a newer
// pending edge count as duplicates of the same pair.
func DuplicateCleanup(edges []*entity.Friendship) []*entity.Friendship {
	groups := make(map[string][]*entity.Friendship)
	order := make([]string, 0)
	for _, f := range edges {
		key := pairKey(f.ClerkRequesterID, f.ClerkReceiverID)
		if _, ok := groups[key]; !ok {
			order = append(order, key)
		}
		groups[key] = append(groups[key], f)
	}
	remove := make([]*entity.Friendship, 0)
	for _, key := range order {
		group := groups[key]
		if len(group) < 2 {
			continue
		}
		sort.SliceStable(group, func(i, j int) bool {
			ai, aj := group[i].Status == entity.StatusAccepted, group[j].Status == entity.StatusAccepted
			if ai != aj {
				return ai
			}
			return group[i].CreatedAt.Before(group[j].CreatedAt)
		})
		remove = append(remove, group[1:]...)
	}
	return remove
}

func connects(f *entity.Friendship, a, b string) bool {
	return (f.ClerkRequesterID == a && f.ClerkReceiverID == b) ||
		(f.ClerkRequesterID == b && f.ClerkReceiverID == a)
}

func pairKey(a, b string) string {
	if a < b {
		return a + "|" + b
	}
	return b + "|" + a
}

func indexByClerkID(users []*entity.User) map[string]*entity.User {
	index := make(map[string]*entity.User, len(users))
	for _, u := range users {
		index[u.ClerkID] = u
	}
	return index
}
