package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/hard75/api/internal/service"
)

type Server struct {
	mx                   *chi.Mux
	userService          service.UserServiceI
	friendsService       service.FriendsServiceI
	activityService      service.ActivityServiceI
	encouragementService service.EncouragementServiceI
	jwtService           JwtServiceI
}

type ServicesList struct {
	UserService          service.UserServiceI
	FriendsService       service.FriendsServiceI
	ActivityService      service.ActivityServiceI
	EncouragementService service.EncouragementServiceI
	JwtService           JwtServiceI
}

func New(servicesOptions *ServicesList) *Server {
	s := &Server{
		mx:                   chi.NewMux(),
		userService:          servicesOptions.UserService,
		friendsService:       servicesOptions.FriendsService,
		activityService:      servicesOptions.ActivityService,
		encouragementService: servicesOptions.EncouragementService,
		jwtService:           servicesOptions.JwtService,
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.mx.Use(s.RequestIDMiddleware)
	s.mx.Use(s.SettingUpLoggerMiddleware)
	s.mx.Route("/api/v1", func(r chi.Router) {
		r.Post("/auth/register", s.Register)
		r.Post("/auth/login", s.Login)
		r.Post("/users/sync", s.SyncUser)
		r.Group(func(r chi.Router) {
			r.Use(s.AuthMiddleware)
			r.Use(s.LoggerExtensionMiddleware)
			r.Get("/users/search", s.SearchUsers)
			r.Get("/friends", s.GetFriends)
			r.Delete("/friends/{clerkID}", s.RemoveFriend)
			r.Get("/friends/requests", s.GetFriendRequests)
			r.Post("/friends/requests", s.SendFriendRequest)
			r.Post("/friends/requests/{id}/accept", s.AcceptFriendRequest)
			r.Post("/friends/requests/{id}/reject", s.RejectFriendRequest)
			r.Post("/friends/cleanup", s.CleanupFriendships)
			r.Get("/feed", s.GetFeed)
			r.Post("/activities", s.CreateActivity)
			r.Post("/streak", s.UpdateStreak)
			r.Get("/leaderboard", s.GetLeaderboard)
			r.Get("/encouragements", s.GetEncouragements)
			r.Post("/encouragements", s.SendEncouragement)
		})
	})
}

func (s *Server) Handler() http.Handler {
	return s.mx
}

func (s *Server) Run(addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.mx,
		ReadHeaderTimeout: 5 * time.Second,
	}
	return srv.ListenAndServe()
}
