package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hard75/api/internal/service"
	"github.com/hard75/api/pkg/entity"
)

func newEncouragementFixture() (*service.EncouragementService, *encouragementsRepoMock, *usersRepoMock) {
	encouragements := &encouragementsRepoMock{}
	users := &usersRepoMock{users: []*entity.User{
		mockUser("user_alice", "alice"),
		mockUser("user_bob", "bob"),
	}}
	es := service.NewEncouragementService(encouragements, users)
	return es, encouragements, users
}

func TestSendEncouragement(t *testing.T) {
	ctx := context.Background()
	t.Run("sent", func(t *testing.T) {
		es, encouragements, _ := newEncouragementFixture()
		_, err := es.Send(ctx, "user_alice", &service.EncouragementRequest{
			ToClerkID: "user_bob",
			Message:   "Keep it up!",
			Kind:      entity.KindCelebration,
		})
		assert.NoError(t, err)
		require.Len(t, encouragements.sent, 1)
		assert.Equal(t, "user_alice", encouragements.sent[0].FromClerkID)
		assert.Equal(t, entity.KindCelebration, encouragements.sent[0].Kind)
	})
	t.Run("empty kind defaults to encouragement", func(t *testing.T) {
		es, encouragements, _ := newEncouragementFixture()
		_, err := es.Send(ctx, "user_alice", &service.EncouragementRequest{
			ToClerkID: "user_bob",
			Message:   "You got this",
		})
		assert.NoError(t, err)
		require.Len(t, encouragements.sent, 1)
		assert.Equal(t, entity.KindEncouragement, encouragements.sent[0].Kind)
	})
	t.Run("unknown kind", func(t *testing.T) {
		es, _, _ := newEncouragementFixture()
		_, err := es.Send(ctx, "user_alice", &service.EncouragementRequest{
			ToClerkID: "user_bob",
			Message:   "hmm",
			Kind:      entity.EncouragementKind("sarcasm"),
		})
		assert.Error(t, err)
	})
	t.Run("missing message", func(t *testing.T) {
		es, _, _ := newEncouragementFixture()
		_, err := es.Send(ctx, "user_alice", &service.EncouragementRequest{
			ToClerkID: "user_bob",
		})
		assert.Error(t, err)
	})
}

func TestListForUser(t *testing.T) {
	ctx := context.Background()
	es, _, users := newEncouragementFixture()
	_, err := es.Send(ctx, "user_alice", &service.EncouragementRequest{
		ToClerkID: "user_bob",
		Message:   "Keep it up!",
	})
	require.NoError(t, err)
	_, err = es.Send(ctx, "user_ghost", &service.EncouragementRequest{
		ToClerkID: "user_bob",
		Message:   "From a stranger",
	})
	require.NoError(t, err)

	received, err := es.ListForUser(ctx, "user_bob", 20)
	assert.NoError(t, err)
	require.Len(t, received, 2)
	// Newest first; unknown senders fall back to a placeholder name
	assert.Equal(t, "Someone", received[0].SenderName)
	assert.Nil(t, received[0].Sender)
	assert.Equal(t, "alice", received[1].SenderName)
	assert.Equal(t, users.users[0], received[1].Sender)
}
