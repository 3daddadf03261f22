package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/bytedance/sonic"
	"github.com/google/uuid"

	errorvalues "github.com/hard75/api/internal/error_values"
	"github.com/hard75/api/internal/service"
	"github.com/hard75/api/pkg/entity"
	"github.com/hard75/api/pkg/httputil"
)

type CreateActivityRequest struct {
	Type     string         `json:"type"`
	Data     map[string]any `json:"data"`
	IsPublic *bool          `json:"is_public"`
}

type UpdateStreakRequest struct {
	CurrentStreak int `json:"current_streak"`
}

type SendEncouragementRequest struct {
	ToClerkID  string     `json:"to_clerk_id"`
	Message    string     `json:"message"`
	Type       string     `json:"type"`
	ActivityID *uuid.UUID `json:"activity_id"`
}

func (s *Server) GetFeed(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	clerkID, err := GetClerkIDFromContext(r)
	if err != nil {
		logger.Error("get feed error: unauthorized")
		httputil.WriteErrorResponse(w, http.StatusUnauthorized, "no authorization", nil)
		return
	}
	limit, err := strconv.Atoi(r.URL.Query().Get("limit"))
	if err != nil || limit < 1 || limit > 100 {
		limit = 50
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*15)
	defer cancel()
	feed, err := s.activityService.FriendFeed(ctx, clerkID, limit)
	if err != nil {
		logger.Error("get feed error: service error", slog.String("error", err.Error()))
		httputil.WriteErrorResponse(w, http.StatusInternalServerError, "error while getting activity feed", nil)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, map[string]any{
		"limit":      limit,
		"activities": feed,
	})
	logger.Info("feed provided")
}

func (s *Server) CreateActivity(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	clerkID, err := GetClerkIDFromContext(r)
	if err != nil {
		logger.Error("create activity error: unauthorized")
		httputil.WriteErrorResponse(w, http.StatusUnauthorized, "no authorization", nil)
		return
	}
	var req CreateActivityRequest
	defer r.Body.Close()
	err = sonic.ConfigDefault.NewDecoder(r.Body).Decode(&req)
	if err != nil {
		logger.Error("create activity error: invalid request body")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid request body", nil)
		return
	}
	kind := entity.ActivityKind(req.Type)
	switch kind {
	case entity.ActivityTaskCompleted, entity.ActivityDayCompleted, entity.ActivityStreakMilestone, entity.ActivityFriendAdded:
	default:
		logger.Error("create activity error: unknown activity type")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "unknown activity type", nil)
		return
	}
	isPublic := true
	if req.IsPublic != nil {
		isPublic = *req.IsPublic
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()
	id, err := s.activityService.Create(ctx, clerkID, kind, req.Data, isPublic)
	if err != nil {
		logger.Error("create activity error: service error", slog.String("error", err.Error()))
		httputil.WriteErrorResponse(w, http.StatusInternalServerError, "internal error while creating activity", nil)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusCreated, map[string]any{"activity_id": id.String()})
	logger.Info("activity created")
}

func (s *Server) UpdateStreak(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	clerkID, err := GetClerkIDFromContext(r)
	if err != nil {
		logger.Error("update streak error: unauthorized")
		httputil.WriteErrorResponse(w, http.StatusUnauthorized, "no authorization", nil)
		return
	}
	var req UpdateStreakRequest
	defer r.Body.Close()
	err = sonic.ConfigDefault.NewDecoder(r.Body).Decode(&req)
	if err != nil {
		logger.Error("update streak error: invalid request body")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid request body", nil)
		return
	}
	if req.CurrentStreak < 0 {
		logger.Error("update streak error: negative streak")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "streak cannot be negative", nil)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()
	err = s.activityService.UpdateStreak(ctx, clerkID, req.CurrentStreak)
	if err != nil {
		if errors.Is(err, errorvalues.ErrUserNotFound) {
			logger.Error("update streak error: unexist user")
			httputil.WriteErrorResponse(w, http.StatusNotFound, "user doesn't exist", nil)
			return
		}
		logger.Error("update streak error: service error", slog.String("error", err.Error()))
		httputil.WriteErrorResponse(w, http.StatusInternalServerError, "internal error while updating streak", nil)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, nil)
	logger.Info("streak updated")
}

func (s *Server) GetEncouragements(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	clerkID, err := GetClerkIDFromContext(r)
	if err != nil {
		logger.Error("get encouragements error: unauthorized")
		httputil.WriteErrorResponse(w, http.StatusUnauthorized, "no authorization", nil)
		return
	}
	limit, err := strconv.Atoi(r.URL.Query().Get("limit"))
	if err != nil || limit < 1 || limit > 100 {
		limit = 50
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*15)
	defer cancel()
	list, err := s.encouragementService.ListForUser(ctx, clerkID, limit)
	if err != nil {
		logger.Error("get encouragements error: service error", slog.String("error", err.Error()))
		httputil.WriteErrorResponse(w, http.StatusInternalServerError, "error while getting encouragements", nil)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, map[string]any{"encouragements": list})
	logger.Info("encouragements provided")
}

func (s *Server) SendEncouragement(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	clerkID, err := GetClerkIDFromContext(r)
	if err != nil {
		logger.Error("send encouragement error: unauthorized")
		httputil.WriteErrorResponse(w, http.StatusUnauthorized, "no authorization", nil)
		return
	}
	var req SendEncouragementRequest
	defer r.Body.Close()
	err = sonic.ConfigDefault.NewDecoder(r.Body).Decode(&req)
	if err != nil {
		logger.Error("send encouragement error: invalid request body")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid request body", nil)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()
	id, err := s.encouragementService.Send(ctx, clerkID, &service.EncouragementRequest{
		ToClerkID:  req.ToClerkID,
		Message:    req.Message,
		Kind:       entity.EncouragementKind(req.Type),
		ActivityID: req.ActivityID,
	})
	if err != nil {
		logger.Error("send encouragement error: service error", slog.String("error", err.Error()))
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "couldn't send encouragement", nil)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusCreated, map[string]any{"encouragement_id": id.String()})
	logger.Info("encouragement sent")
}
