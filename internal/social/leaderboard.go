package social

import (
	"sort"

	"github.com/hard75/api/pkg/entity"
)

type LeaderboardType string

const (
	LeaderboardCurrent LeaderboardType = "current"
	LeaderboardLongest LeaderboardType = "longest"
)

// Leaderboard ranks the viewer and their friends by the chosen streak counter,
// descending. The sort is stable: ties keep the original order (viewer first,
// then friends in derivation order).
func Leaderboard(viewer *entity.User, friends []*entity.User, typ LeaderboardType) []*entity.LeaderboardEntry {
	ranked := make([]*entity.User, 0, len(friends)+1)
	if viewer != nil {
		ranked = append(ranked, viewer)
	}
	ranked = append(ranked, friends...)
	streak := func(u *entity.User) int {
		if typ == LeaderboardLongest {
			return u.LongestStreak
		}
		return u.CurrentStreak
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return streak(ranked[i]) > streak(ranked[j])
	})
	entries := make([]*entity.LeaderboardEntry, len(ranked))
	for i, u := range ranked {
		entries[i] = &entity.LeaderboardEntry{User: *u, Rank: i + 1}
	}
	return entries
}
