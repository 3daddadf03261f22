package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/bytedance/sonic"
	"github.com/google/uuid"

	errorvalues "github.com/hard75/api/internal/error_values"
	"github.com/hard75/api/internal/service"
	"github.com/hard75/api/internal/social"
	"github.com/hard75/api/pkg/httputil"
)

type InviteRequest struct {
	ClerkID  string `json:"clerk_id"`
	Username string `json:"username"`
}

func (s *Server) GetFriends(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	clerkID, err := GetClerkIDFromContext(r)
	if err != nil {
		logger.Error("get friends error: unauthorized")
		httputil.WriteErrorResponse(w, http.StatusUnauthorized, "no authorization", nil)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*15)
	defer cancel()
	overview, err := s.friendsService.Overview(ctx, clerkID)
	if err != nil {
		logger.Error("get friends error: service error", slog.String("error", err.Error()))
		httputil.WriteErrorResponse(w, http.StatusInternalServerError, "error while getting friends list", nil)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, map[string]any{"friends": overview.Friends})
	logger.Info("friends provided")
}

func (s *Server) GetFriendRequests(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	clerkID, err := GetClerkIDFromContext(r)
	if err != nil {
		logger.Error("get friend requests error: unauthorized")
		httputil.WriteErrorResponse(w, http.StatusUnauthorized, "no authorization", nil)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*15)
	defer cancel()
	overview, err := s.friendsService.Overview(ctx, clerkID)
	if err != nil {
		logger.Error("get friend requests error: service error", slog.String("error", err.Error()))
		httputil.WriteErrorResponse(w, http.StatusInternalServerError, "error while getting friend requests", nil)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, map[string]any{
		"incoming": overview.Incoming,
		"outgoing": overview.Outgoing,
	})
	logger.Info("friend requests provided")
}

func (s *Server) SendFriendRequest(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	clerkID, err := GetClerkIDFromContext(r)
	if err != nil {
		logger.Error("send friend request error: unauthorized")
		httputil.WriteErrorResponse(w, http.StatusUnauthorized, "no authorization", nil)
		return
	}
	var req InviteRequest
	defer r.Body.Close()
	err = sonic.ConfigDefault.NewDecoder(r.Body).Decode(&req)
	if err != nil {
		logger.Error("send friend request error: invalid request body")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid request body", nil)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()
	id, err := s.friendsService.SendRequest(ctx, clerkID, &service.InviteRequest{
		ClerkID:  req.ClerkID,
		Username: req.Username,
	})
	if err != nil {
		switch {
		case errors.Is(err, errorvalues.ErrInvalidInvite):
			logger.Error("send friend request error: invite without target")
			httputil.WriteErrorResponse(w, http.StatusBadRequest, "invite must contain a clerk id or a username", nil)
		case errors.Is(err, errorvalues.ErrSelfRequest):
			logger.Error("send friend request error: self request")
			httputil.WriteErrorResponse(w, http.StatusBadRequest, "cannot send friend request to yourself", nil)
		case errors.Is(err, errorvalues.ErrUserNotFound):
			logger.Error("send friend request error: unexist target")
			httputil.WriteErrorResponse(w, http.StatusNotFound, "user not found, make sure they have signed in at least once", nil)
		case errors.Is(err, errorvalues.ErrAlreadyFriends):
			logger.Error("send friend request error: already friends")
			httputil.WriteErrorResponse(w, http.StatusConflict, "already friends with this user", nil)
		case errors.Is(err, errorvalues.ErrRequestPending):
			logger.Error("send friend request error: pending request")
			httputil.WriteErrorResponse(w, http.StatusConflict, "friend request already pending", nil)
		default:
			logger.Error("send friend request error: service error", slog.String("error", err.Error()))
			httputil.WriteErrorResponse(w, http.StatusInternalServerError, "internal error while sending friend request", nil)
		}
		return
	}
	httputil.WriteJSONResponse(w, http.StatusCreated, map[string]any{"request_id": id.String()})
	logger.Info("friend request sent")
}

func (s *Server) AcceptFriendRequest(w http.ResponseWriter, r *http.Request) {
	s.respondToFriendRequest(w, r, true)
}

func (s *Server) RejectFriendRequest(w http.ResponseWriter, r *http.Request) {
	s.respondToFriendRequest(w, r, false)
}

func (s *Server) respondToFriendRequest(w http.ResponseWriter, r *http.Request, accept bool) {
	logger := GetLoggerFromCtx(r.Context())
	clerkID, err := GetClerkIDFromContext(r)
	if err != nil {
		logger.Error("respond to friend request error: unauthorized")
		httputil.WriteErrorResponse(w, http.StatusUnauthorized, "no authorization", nil)
		return
	}
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		logger.Error("respond to friend request error: invalid id in path value")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid request id in path value", nil)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()
	if accept {
		err = s.friendsService.Accept(ctx, clerkID, id)
	} else {
		err = s.friendsService.Reject(ctx, clerkID, id)
	}
	if err != nil {
		switch {
		case errors.Is(err, errorvalues.ErrFriendshipNotFound):
			logger.Error("respond to friend request error: unexist request")
			httputil.WriteErrorResponse(w, http.StatusNotFound, "friend request doesn't exist", nil)
		case errors.Is(err, errorvalues.ErrNotReceiver):
			logger.Error("respond to friend request error: responder is not the receiver")
			httputil.WriteErrorResponse(w, http.StatusForbidden, "only the receiver can respond to this request", nil)
		case errors.Is(err, errorvalues.ErrRequestClosed):
			logger.Error("respond to friend request error: request already closed")
			httputil.WriteErrorResponse(w, http.StatusConflict, "request already accepted or rejected", nil)
		default:
			logger.Error("respond to friend request error: service error", slog.String("error", err.Error()))
			httputil.WriteErrorResponse(w, http.StatusInternalServerError, "internal error while responding to friend request", nil)
		}
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, nil)
	logger.Info("friend request responded")
}

func (s *Server) RemoveFriend(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	clerkID, err := GetClerkIDFromContext(r)
	if err != nil {
		logger.Error("remove friend error: unauthorized")
		httputil.WriteErrorResponse(w, http.StatusUnauthorized, "no authorization", nil)
		return
	}
	friendClerkID := r.PathValue("clerkID")
	if friendClerkID == "" {
		logger.Error("remove friend error: empty clerk id in path value")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid clerk id in path value", nil)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()
	err = s.friendsService.Remove(ctx, clerkID, friendClerkID)
	if err != nil {
		if errors.Is(err, errorvalues.ErrFriendshipNotFound) {
			logger.Error("remove friend error: unexist friendship")
			httputil.WriteErrorResponse(w, http.StatusNotFound, "friendship doesn't exist", nil)
			return
		}
		logger.Error("remove friend error: service error", slog.String("error", err.Error()))
		httputil.WriteErrorResponse(w, http.StatusInternalServerError, "internal error while removing friend", nil)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, nil)
	logger.Info("friend removed")
}

func (s *Server) CleanupFriendships(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	clerkID, err := GetClerkIDFromContext(r)
	if err != nil {
		logger.Error("friendships cleanup error: unauthorized")
		httputil.WriteErrorResponse(w, http.StatusUnauthorized, "no authorization", nil)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*15)
	defer cancel()
	removed, err := s.friendsService.CleanupDuplicates(ctx, clerkID)
	if err != nil {
		logger.Error("friendships cleanup error: service error", slog.String("error", err.Error()))
		httputil.WriteErrorResponse(w, http.StatusInternalServerError, "internal error while cleaning up friendships", nil)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, map[string]any{"removed": removed})
	logger.Info("friendships cleanup done")
}

func (s *Server) GetLeaderboard(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	clerkID, err := GetClerkIDFromContext(r)
	if err != nil {
		logger.Error("get leaderboard error: unauthorized")
		httputil.WriteErrorResponse(w, http.StatusUnauthorized, "no authorization", nil)
		return
	}
	typ := social.LeaderboardCurrent
	if r.URL.Query().Get("type") == "longest" {
		typ = social.LeaderboardLongest
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*15)
	defer cancel()
	entries, err := s.friendsService.Leaderboard(ctx, clerkID, typ)
	if err != nil {
		if errors.Is(err, errorvalues.ErrUserNotFound) {
			logger.Error("get leaderboard error: unexist user")
			httputil.WriteErrorResponse(w, http.StatusNotFound, "user doesn't exist", nil)
			return
		}
		logger.Error("get leaderboard error: service error", slog.String("error", err.Error()))
		httputil.WriteErrorResponse(w, http.StatusInternalServerError, "error while getting leaderboard", nil)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, map[string]any{
		"type":    string(typ),
		"entries": entries,
	})
	logger.Info("leaderboard provided")
}
