// @title 75 Hard social API
// @description API for the 75 Hard challenge tracker's social features
// @BasePath /api/v1
// @schemes http
package main

import (
	"log"

	"github.com/hard75/api/internal/api"
	"github.com/hard75/api/internal/identity"
	"github.com/hard75/api/internal/repository"
	"github.com/hard75/api/internal/service"
	"github.com/hard75/api/pkg/cleanup"
	"github.com/hard75/api/pkg/config"
	jwtservice "github.com/hard75/api/pkg/jwt_service"
)

func init() {
	service.InitValidator()
}

func main() {
	defer cleanup.CleanUp()
	cfg := config.New()
	dbCfg := repository.PGCfg{
		Address:  cfg.GetString("POSTGRES_DB_ADDRESS"),
		Username: cfg.GetString("POSTGRES_USER"),
		Password: cfg.GetString("POSTGRES_PASSWORD"),
		DB:       cfg.GetString("POSTGRES_DB"),
	}
	identityStore, err := identity.Open(cfg.GetStringOr("IDENTITY_STORE_PATH", "./identity_map.json"))
	if err != nil {
		log.Fatal("opening identity store error: " + err.Error())
	}
	usersRepo := repository.NewUsersRepo(&dbCfg)
	friendshipsRepo := repository.NewFriendshipsRepo(&dbCfg)
	activitiesRepo := repository.NewActivitiesRepo(&dbCfg)
	encouragementsRepo := repository.NewEncouragementsRepo(&dbCfg)

	serv := api.New(&api.ServicesList{
		UserService:          service.NewUserService(usersRepo),
		FriendsService:       service.NewFriendsService(friendshipsRepo, usersRepo, activitiesRepo, identityStore),
		ActivityService:      service.NewActivityService(activitiesRepo, friendshipsRepo, usersRepo, identityStore),
		EncouragementService: service.NewEncouragementService(encouragementsRepo, usersRepo),
		JwtService:           jwtservice.New(cfg.GetString("JWT_SECRET")),
	})
	err = serv.Run(cfg.GetString("API_ADDRESS"))
	if err != nil {
		log.Println("Server error: " + err.Error())
	}
}
