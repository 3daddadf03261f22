package api_test

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/bytedance/sonic"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hard75/api/internal/api"
	errorvalues "github.com/hard75/api/internal/error_values"
	"github.com/hard75/api/internal/service"
	"github.com/hard75/api/internal/social"
	"github.com/hard75/api/pkg/entity"
	jwtservice "github.com/hard75/api/pkg/jwt_service"
)

var (
	clerkID  = "user_2abc"
	username = "test_user"
	uid      = uuid.New()
)

func testUser() *entity.User {
	return &entity.User{
		ID:       uid,
		ClerkID:  clerkID,
		Username: username,
		Email:    "test@example.com",
	}
}

func authed(r *http.Request) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), "Clerk-ID", clerkID))
}

type userServiceMock struct {
	success bool
}

func (m *userServiceMock) ChangeState(success bool) {
	m.success = success
}

func (m *userServiceMock) Register(ctx context.Context, req *service.RegisterRequest) (*entity.User, error) {
	if m.success {
		return testUser(), nil
	}
	return nil, errors.New("mocked error")
}

func (m *userServiceMock) Login(ctx context.Context, username, password string) (*entity.User, error) {
	if m.success {
		return testUser(), nil
	}
	return nil, errors.New("mocked error")
}

func (m *userServiceMock) Sync(ctx context.Context, req *service.SyncRequest) (*entity.User, error) {
	if m.success {
		return testUser(), nil
	}
	return nil, errors.New("mocked error")
}

func (m *userServiceMock) GetByClerkID(ctx context.Context, clerkID string) (*entity.User, error) {
	if m.success {
		return testUser(), nil
	}
	return nil, errorvalues.ErrUserNotFound
}

func (m *userServiceMock) Search(ctx context.Context, query, selfClerkID string) ([]*entity.User, error) {
	if m.success {
		return []*entity.User{testUser()}, nil
	}
	return nil, errors.New("mocked error")
}

type friendsServiceMock struct {
	err       error
	requestID uuid.UUID
	removed   int
}

func (m *friendsServiceMock) Overview(ctx context.Context, viewerClerkID string) (*service.FriendsOverview, error) {
	if m.err != nil {
		return nil, m.err
	}
	return &service.FriendsOverview{
		Friends:  []*entity.User{testUser()},
		Incoming: []*entity.FriendRequest{},
		Outgoing: []*entity.FriendRequest{},
	}, nil
}

func (m *friendsServiceMock) SendRequest(ctx context.Context, viewerClerkID string, req *service.InviteRequest) (uuid.UUID, error) {
	if m.err != nil {
		return uuid.UUID{}, m.err
	}
	return m.requestID, nil
}

func (m *friendsServiceMock) Accept(ctx context.Context, viewerClerkID string, requestID uuid.UUID) error {
	return m.err
}

func (m *friendsServiceMock) Reject(ctx context.Context, viewerClerkID string, requestID uuid.UUID) error {
	return m.err
}

func (m *friendsServiceMock) Remove(ctx context.Context, viewerClerkID, friendClerkID string) error {
	return m.err
}

func (m *friendsServiceMock) CleanupDuplicates(ctx context.Context, viewerClerkID string) (int, error) {
	return m.removed, m.err
}

func (m *friendsServiceMock) Leaderboard(ctx context.Context, viewerClerkID string, typ social.LeaderboardType) ([]*entity.LeaderboardEntry, error) {
	if m.err != nil {
		return nil, m.err
	}
	return []*entity.LeaderboardEntry{{User: *testUser(), Rank: 1}}, nil
}

type activityServiceMock struct {
	err      error
	lastKind entity.ActivityKind
}

func (m *activityServiceMock) Create(ctx context.Context, clerkID string, kind entity.ActivityKind, data map[string]any, isPublic bool) (uuid.UUID, error) {
	if m.err != nil {
		return uuid.UUID{}, m.err
	}
	m.lastKind = kind
	return uuid.New(), nil
}

func (m *activityServiceMock) FriendFeed(ctx context.Context, viewerClerkID string, limit int) ([]*entity.FeedItem, error) {
	if m.err != nil {
		return nil, m.err
	}
	return []*entity.FeedItem{}, nil
}

func (m *activityServiceMock) UpdateStreak(ctx context.Context, clerkID string, current int) error {
	return m.err
}

type encouragementServiceMock struct {
	err error
}

func (m *encouragementServiceMock) Send(ctx context.Context, fromClerkID string, req *service.EncouragementRequest) (uuid.UUID, error) {
	if m.err != nil {
		return uuid.UUID{}, m.err
	}
	return uuid.New(), nil
}

func (m *encouragementServiceMock) ListForUser(ctx context.Context, clerkID string, limit int) ([]*entity.ReceivedEncouragement, error) {
	if m.err != nil {
		return nil, m.err
	}
	return []*entity.ReceivedEncouragement{}, nil
}

func TestRegister(t *testing.T) {
	body, err := sonic.ConfigDefault.Marshal(api.RegisterRequest{
		Username: username,
		Password: "test_password",
		Email:    "test@example.com",
	})
	require.NoError(t, err)
	mock := userServiceMock{}
	serv := api.New(&api.ServicesList{
		UserService: &mock,
	})
	t.Run("registered", func(t *testing.T) {
		rr := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/register", bytes.NewReader(body))
		mock.ChangeState(true)
		serv.Register(rr, req)
		assert.Equal(t, http.StatusCreated, rr.Result().StatusCode)
	})
	t.Run("service error", func(t *testing.T) {
		rr := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/register", bytes.NewReader(body))
		mock.ChangeState(false)
		serv.Register(rr, req)
		assert.Equal(t, http.StatusInternalServerError, rr.Result().StatusCode)
	})
	t.Run("invalid body", func(t *testing.T) {
		rr := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/register", nil)
		mock.ChangeState(true)
		serv.Register(rr, req)
		assert.Equal(t, http.StatusBadRequest, rr.Result().StatusCode)
	})
}

func TestLogin(t *testing.T) {
	body, err := sonic.ConfigDefault.Marshal(api.LoginRequest{
		Username: username,
		Password: "test_password",
	})
	require.NoError(t, err)
	mock := userServiceMock{}
	serv := api.New(&api.ServicesList{
		UserService: &mock,
		JwtService:  jwtservice.New("test_secret"),
	})
	t.Run("logged in with token", func(t *testing.T) {
		rr := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", bytes.NewReader(body))
		mock.ChangeState(true)
		serv.Login(rr, req)
		assert.Equal(t, http.StatusOK, rr.Result().StatusCode)
		result := make(map[string]any)
		require.NoError(t, sonic.ConfigDefault.NewDecoder(rr.Result().Body).Decode(&result))
		token, ok := result["token"].(string)
		assert.True(t, ok)
		assert.NotEmpty(t, token)
	})
	t.Run("service error", func(t *testing.T) {
		rr := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", bytes.NewReader(body))
		mock.ChangeState(false)
		serv.Login(rr, req)
		assert.Equal(t, http.StatusInternalServerError, rr.Result().StatusCode)
	})
	t.Run("invalid body", func(t *testing.T) {
		rr := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", nil)
		mock.ChangeState(true)
		serv.Login(rr, req)
		assert.Equal(t, http.StatusBadRequest, rr.Result().StatusCode)
	})
}

func TestSyncUser(t *testing.T) {
	body, err := sonic.ConfigDefault.Marshal(api.SyncUserRequest{
		ClerkID:  clerkID,
		Email:    "test@example.com",
		Username: username,
	})
	require.NoError(t, err)
	mock := userServiceMock{}
	serv := api.New(&api.ServicesList{
		UserService: &mock,
		JwtService:  jwtservice.New("test_secret"),
	})
	t.Run("synced", func(t *testing.T) {
		rr := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/v1/users/sync", bytes.NewReader(body))
		mock.ChangeState(true)
		serv.SyncUser(rr, req)
		assert.Equal(t, http.StatusOK, rr.Result().StatusCode)
		result := make(map[string]any)
		require.NoError(t, sonic.ConfigDefault.NewDecoder(rr.Result().Body).Decode(&result))
		assert.NotEmpty(t, result["token"])
		assert.NotNil(t, result["user"])
	})
	t.Run("service error", func(t *testing.T) {
		rr := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/v1/users/sync", bytes.NewReader(body))
		mock.ChangeState(false)
		serv.SyncUser(rr, req)
		assert.Equal(t, http.StatusInternalServerError, rr.Result().StatusCode)
	})
}

func TestSearchUsers(t *testing.T) {
	mock := userServiceMock{}
	serv := api.New(&api.ServicesList{
		UserService: &mock,
	})
	t.Run("found", func(t *testing.T) {
		rr := httptest.NewRecorder()
		req := authed(httptest.NewRequest(http.MethodGet, "/api/v1/users/search?q=test", nil))
		mock.ChangeState(true)
		serv.SearchUsers(rr, req)
		assert.Equal(t, http.StatusOK, rr.Result().StatusCode)
	})
	t.Run("missing query", func(t *testing.T) {
		rr := httptest.NewRecorder()
		req := authed(httptest.NewRequest(http.MethodGet, "/api/v1/users/search", nil))
		serv.SearchUsers(rr, req)
		assert.Equal(t, http.StatusBadRequest, rr.Result().StatusCode)
	})
	t.Run("unauthorized", func(t *testing.T) {
		rr := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/v1/users/search?q=test", nil)
		serv.SearchUsers(rr, req)
		assert.Equal(t, http.StatusUnauthorized, rr.Result().StatusCode)
	})
}

func TestSendFriendRequest(t *testing.T) {
	mock := friendsServiceMock{requestID: uuid.New()}
	serv := api.New(&api.ServicesList{
		FriendsService: &mock,
	})
	body, err := sonic.ConfigDefault.Marshal(api.InviteRequest{ClerkID: "user_2def"})
	require.NoError(t, err)

	testCases := []struct {
		Err          error
		ExpectedCode int
	}{
		{nil, http.StatusCreated},
		{errorvalues.ErrInvalidInvite, http.StatusBadRequest},
		{errorvalues.ErrSelfRequest, http.StatusBadRequest},
		{errorvalues.ErrUserNotFound, http.StatusNotFound},
		{errorvalues.ErrAlreadyFriends, http.StatusConflict},
		{errorvalues.ErrRequestPending, http.StatusConflict},
		{errors.New("service error"), http.StatusInternalServerError},
	}
	for _, tc := range testCases {
		mock.err = tc.Err
		rr := httptest.NewRecorder()
		req := authed(httptest.NewRequest(http.MethodPost, "/api/v1/friends/requests", bytes.NewReader(body)))
		serv.SendFriendRequest(rr, req)
		assert.Equal(t, tc.ExpectedCode, rr.Result().StatusCode)
	}

	t.Run("invalid body", func(t *testing.T) {
		mock.err = nil
		rr := httptest.NewRecorder()
		req := authed(httptest.NewRequest(http.MethodPost, "/api/v1/friends/requests", bytes.NewReader([]byte("corrupted"))))
		serv.SendFriendRequest(rr, req)
		assert.Equal(t, http.StatusBadRequest, rr.Result().StatusCode)
	})
}

func TestRespondToFriendRequest(t *testing.T) {
	mock := friendsServiceMock{}
	serv := api.New(&api.ServicesList{
		FriendsService: &mock,
	})
	requestID := uuid.New()
	testCases := []struct {
		Err          error
		ExpectedCode int
	}{
		{nil, http.StatusOK},
		{errorvalues.ErrFriendshipNotFound, http.StatusNotFound},
		{errorvalues.ErrNotReceiver, http.StatusForbidden},
		{errorvalues.ErrRequestClosed, http.StatusConflict},
		{errors.New("service error"), http.StatusInternalServerError},
	}
	for _, tc := range testCases {
		mock.err = tc.Err
		rr := httptest.NewRecorder()
		req := authed(httptest.NewRequest(http.MethodPost, "/api/v1/friends/requests/"+requestID.String()+"/accept", nil))
		req.SetPathValue("id", requestID.String())
		serv.AcceptFriendRequest(rr, req)
		assert.Equal(t, tc.ExpectedCode, rr.Result().StatusCode)
	}
	t.Run("invalid id", func(t *testing.T) {
		mock.err = nil
		rr := httptest.NewRecorder()
		req := authed(httptest.NewRequest(http.MethodPost, "/api/v1/friends/requests/garbage/reject", nil))
		req.SetPathValue("id", "garbage")
		serv.RejectFriendRequest(rr, req)
		assert.Equal(t, http.StatusBadRequest, rr.Result().StatusCode)
	})
}

func TestRemoveFriend(t *testing.T) {
	mock := friendsServiceMock{}
	serv := api.New(&api.ServicesList{
		FriendsService: &mock,
	})
	t.Run("removed", func(t *testing.T) {
		rr := httptest.NewRecorder()
		req := authed(httptest.NewRequest(http.MethodDelete, "/api/v1/friends/user_2def", nil))
		req.SetPathValue("clerkID", "user_2def")
		serv.RemoveFriend(rr, req)
		assert.Equal(t, http.StatusOK, rr.Result().StatusCode)
	})
	t.Run("not found", func(t *testing.T) {
		mock.err = errorvalues.ErrFriendshipNotFound
		defer func() { mock.err = nil }()
		rr := httptest.NewRecorder()
		req := authed(httptest.NewRequest(http.MethodDelete, "/api/v1/friends/user_2def", nil))
		req.SetPathValue("clerkID", "user_2def")
		serv.RemoveFriend(rr, req)
		assert.Equal(t, http.StatusNotFound, rr.Result().StatusCode)
	})
	t.Run("empty clerk id", func(t *testing.T) {
		rr := httptest.NewRecorder()
		req := authed(httptest.NewRequest(http.MethodDelete, "/api/v1/friends/", nil))
		serv.RemoveFriend(rr, req)
		assert.Equal(t, http.StatusBadRequest, rr.Result().StatusCode)
	})
}

func TestCleanupFriendships(t *testing.T) {
	mock := friendsServiceMock{removed: 3}
	serv := api.New(&api.ServicesList{
		FriendsService: &mock,
	})
	rr := httptest.NewRecorder()
	req := authed(httptest.NewRequest(http.MethodPost, "/api/v1/friends/cleanup", nil))
	serv.CleanupFriendships(rr, req)
	assert.Equal(t, http.StatusOK, rr.Result().StatusCode)
	result := make(map[string]any)
	require.NoError(t, sonic.ConfigDefault.NewDecoder(rr.Result().Body).Decode(&result))
	assert.Equal(t, float64(3), result["removed"])
}

func TestGetLeaderboard(t *testing.T) {
	mock := friendsServiceMock{}
	serv := api.New(&api.ServicesList{
		FriendsService: &mock,
	})
	t.Run("current by default", func(t *testing.T) {
		rr := httptest.NewRecorder()
		req := authed(httptest.NewRequest(http.MethodGet, "/api/v1/leaderboard", nil))
		serv.GetLeaderboard(rr, req)
		assert.Equal(t, http.StatusOK, rr.Result().StatusCode)
		result := make(map[string]any)
		require.NoError(t, sonic.ConfigDefault.NewDecoder(rr.Result().Body).Decode(&result))
		assert.Equal(t, "current", result["type"])
	})
	t.Run("longest by query", func(t *testing.T) {
		rr := httptest.NewRecorder()
		req := authed(httptest.NewRequest(http.MethodGet, "/api/v1/leaderboard?type=longest", nil))
		serv.GetLeaderboard(rr, req)
		assert.Equal(t, http.StatusOK, rr.Result().StatusCode)
		result := make(map[string]any)
		require.NoError(t, sonic.ConfigDefault.NewDecoder(rr.Result().Body).Decode(&result))
		assert.Equal(t, "longest", result["type"])
	})
	t.Run("unexist user", func(t *testing.T) {
		mock.err = errorvalues.ErrUserNotFound
		defer func() { mock.err = nil }()
		rr := httptest.NewRecorder()
		req := authed(httptest.NewRequest(http.MethodGet, "/api/v1/leaderboard", nil))
		serv.GetLeaderboard(rr, req)
		assert.Equal(t, http.StatusNotFound, rr.Result().StatusCode)
	})
}

func TestGetFeed(t *testing.T) {
	mock := activityServiceMock{}
	serv := api.New(&api.ServicesList{
		ActivityService: &mock,
	})
	t.Run("default limit", func(t *testing.T) {
		rr := httptest.NewRecorder()
		req := authed(httptest.NewRequest(http.MethodGet, "/api/v1/feed", nil))
		serv.GetFeed(rr, req)
		assert.Equal(t, http.StatusOK, rr.Result().StatusCode)
		result := make(map[string]any)
		require.NoError(t, sonic.ConfigDefault.NewDecoder(rr.Result().Body).Decode(&result))
		assert.Equal(t, float64(50), result["limit"])
	})
	t.Run("out-of-range limit falls back", func(t *testing.T) {
		rr := httptest.NewRecorder()
		req := authed(httptest.NewRequest(http.MethodGet, "/api/v1/feed?limit=1000", nil))
		serv.GetFeed(rr, req)
		assert.Equal(t, http.StatusOK, rr.Result().StatusCode)
		result := make(map[string]any)
		require.NoError(t, sonic.ConfigDefault.NewDecoder(rr.Result().Body).Decode(&result))
		assert.Equal(t, float64(50), result["limit"])
	})
	t.Run("service error", func(t *testing.T) {
		mock.err = errors.New("service error")
		defer func() { mock.err = nil }()
		rr := httptest.NewRecorder()
		req := authed(httptest.NewRequest(http.MethodGet, "/api/v1/feed", nil))
		serv.GetFeed(rr, req)
		assert.Equal(t, http.StatusInternalServerError, rr.Result().StatusCode)
	})
}

func TestCreateActivityHandler(t *testing.T) {
	mock := activityServiceMock{}
	serv := api.New(&api.ServicesList{
		ActivityService: &mock,
	})
	t.Run("created", func(t *testing.T) {
		body, err := sonic.ConfigDefault.Marshal(api.CreateActivityRequest{
			Type: "task_completed",
			Data: map[string]any{"taskName": "Run"},
		})
		require.NoError(t, err)
		rr := httptest.NewRecorder()
		req := authed(httptest.NewRequest(http.MethodPost, "/api/v1/activities", bytes.NewReader(body)))
		serv.CreateActivity(rr, req)
		assert.Equal(t, http.StatusCreated, rr.Result().StatusCode)
		assert.Equal(t, entity.ActivityTaskCompleted, mock.lastKind)
	})
	t.Run("unknown type", func(t *testing.T) {
		body, err := sonic.ConfigDefault.Marshal(api.CreateActivityRequest{
			Type: "napping",
		})
		require.NoError(t, err)
		rr := httptest.NewRecorder()
		req := authed(httptest.NewRequest(http.MethodPost, "/api/v1/activities", bytes.NewReader(body)))
		serv.CreateActivity(rr, req)
		assert.Equal(t, http.StatusBadRequest, rr.Result().StatusCode)
	})
	t.Run("invalid body", func(t *testing.T) {
		rr := httptest.NewRecorder()
		req := authed(httptest.NewRequest(http.MethodPost, "/api/v1/activities", bytes.NewReader([]byte("corrupted"))))
		serv.CreateActivity(rr, req)
		assert.Equal(t, http.StatusBadRequest, rr.Result().StatusCode)
	})
}

func TestUpdateStreakHandler(t *testing.T) {
	mock := activityServiceMock{}
	serv := api.New(&api.ServicesList{
		ActivityService: &mock,
	})
	marshal := func(streak int) []byte {
		body, err := sonic.ConfigDefault.Marshal(api.UpdateStreakRequest{CurrentStreak: streak})
		require.NoError(t, err)
		return body
	}
	t.Run("updated", func(t *testing.T) {
		rr := httptest.NewRecorder()
		req := authed(httptest.NewRequest(http.MethodPost, "/api/v1/streak", bytes.NewReader(marshal(7))))
		serv.UpdateStreak(rr, req)
		assert.Equal(t, http.StatusOK, rr.Result().StatusCode)
	})
	t.Run("negative streak", func(t *testing.T) {
		rr := httptest.NewRecorder()
		req := authed(httptest.NewRequest(http.MethodPost, "/api/v1/streak", bytes.NewReader(marshal(-1))))
		serv.UpdateStreak(rr, req)
		assert.Equal(t, http.StatusBadRequest, rr.Result().StatusCode)
	})
	t.Run("unexist user", func(t *testing.T) {
		mock.err = errorvalues.ErrUserNotFound
		defer func() { mock.err = nil }()
		rr := httptest.NewRecorder()
		req := authed(httptest.NewRequest(http.MethodPost, "/api/v1/streak", bytes.NewReader(marshal(7))))
		serv.UpdateStreak(rr, req)
		assert.Equal(t, http.StatusNotFound, rr.Result().StatusCode)
	})
}

func TestEncouragementHandlers(t *testing.T) {
	mock := encouragementServiceMock{}
	serv := api.New(&api.ServicesList{
		EncouragementService: &mock,
	})
	t.Run("sent", func(t *testing.T) {
		body, err := sonic.ConfigDefault.Marshal(api.SendEncouragementRequest{
			ToClerkID: "user_2def",
			Message:   "Keep it up!",
		})
		require.NoError(t, err)
		rr := httptest.NewRecorder()
		req := authed(httptest.NewRequest(http.MethodPost, "/api/v1/encouragements", bytes.NewReader(body)))
		serv.SendEncouragement(rr, req)
		assert.Equal(t, http.StatusCreated, rr.Result().StatusCode)
	})
	t.Run("service rejects", func(t *testing.T) {
		mock.err = errors.New("validation error")
		defer func() { mock.err = nil }()
		body, err := sonic.ConfigDefault.Marshal(api.SendEncouragementRequest{})
		require.NoError(t, err)
		rr := httptest.NewRecorder()
		req := authed(httptest.NewRequest(http.MethodPost, "/api/v1/encouragements", bytes.NewReader(body)))
		serv.SendEncouragement(rr, req)
		assert.Equal(t, http.StatusBadRequest, rr.Result().StatusCode)
	})
	t.Run("listed", func(t *testing.T) {
		rr := httptest.NewRecorder()
		req := authed(httptest.NewRequest(http.MethodGet, "/api/v1/encouragements", nil))
		serv.GetEncouragements(rr, req)
		assert.Equal(t, http.StatusOK, rr.Result().StatusCode)
	})
}
