package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	errorvalues "github.com/hard75/api/internal/error_values"
	"github.com/hard75/api/internal/repository"
	"github.com/hard75/api/pkg/entity"
)

type UserService struct {
	repo repository.UsersRepositoryI
}

func NewUserService(usersRepo repository.UsersRepositoryI) *UserService {
	return &UserService{
		repo: usersRepo,
	}
}

func (us *UserService) Register(ctx context.Context, req *RegisterRequest) (*entity.User, error) {
	if err := validateStruct(req); err != nil {
		return nil, err
	}
	passwordHash, err := Hash(req.Password)
	if err != nil {
		return nil, errors.New("hashing password error: " + err.Error())
	}
	// Locally registered accounts get a minted external identity so the rest
	// of the system sees one identity space.
	user := &entity.User{
		ClerkID:      "local_" + uuid.NewString(),
		Email:        req.Email,
		Username:     req.Username,
		Name:         req.Name,
		PasswordHash: passwordHash,
		StartDate:    time.Now(),
	}
	err = us.repo.Create(ctx, user)
	if err != nil {
		if errors.Is(err, errorvalues.ErrUserExists) {
			return nil, errorvalues.ErrUserExists
		}
		return nil, errors.New("repository creating error: " + err.Error())
	}
	created, err := us.repo.FindByUsername(ctx, req.Username)
	if err != nil {
		return nil, errors.New("repository searching error: " + err.Error())
	}
	return created, nil
}

func (us *UserService) Login(ctx context.Context, username, password string) (*entity.User, error) {
	user, err := us.repo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, errorvalues.ErrUserNotFound) {
			return nil, errorvalues.ErrUserNotFound
		}
		return nil, errors.New("repository searching error: " + err.Error())
	}
	if err = bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, errorvalues.ErrWrongCredentials
	}
	return user, nil
}

func (us *UserService) Sync(ctx context.Context, req *SyncRequest) (*entity.User, error) {
	if err := validateStruct(req); err != nil {
		return nil, err
	}
	user := &entity.User{
		ClerkID:   req.ClerkID,
		Email:     req.Email,
		Username:  req.Username,
		Name:      req.Name,
		StartDate: time.Now(),
	}
	if err := us.repo.Upsert(ctx, user); err != nil {
		return nil, errors.New("repository upserting error: " + err.Error())
	}
	synced, err := us.repo.FindByClerkID(ctx, req.ClerkID)
	if err != nil {
		return nil, errors.New("repository searching error: " + err.Error())
	}
	return synced, nil
}

func (us *UserService) GetByClerkID(ctx context.Context, clerkID string) (*entity.User, error) {
	user, err := us.repo.FindByClerkID(ctx, clerkID)
	if err != nil {
		if errors.Is(err, errorvalues.ErrUserNotFound) {
			return nil, errorvalues.ErrUserNotFound
		}
		return nil, errors.New("repository searching error: " + err.Error())
	}
	return user, nil
}

// Search matches query against username, email and name, case-insensitively,
// excluding the searcher from the result.
func (us *UserService) Search(ctx context.Context, query, selfClerkID string) ([]*entity.User, error) {
	users, err := us.repo.List(ctx)
	if err != nil {
		return nil, errors.New("repository listing error: " + err.Error())
	}
	term := strings.ToLower(query)
	matched := make([]*entity.User, 0)
	for _, u := range users {
		if u.ClerkID == selfClerkID {
			continue
		}
		if strings.Contains(strings.ToLower(u.Username), term) ||
			strings.Contains(strings.ToLower(u.Email), term) ||
			strings.Contains(strings.ToLower(u.Name), term) {
			matched = append(matched, u)
		}
	}
	return matched, nil
}

func Hash(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func validateStruct(req any) error {
	err := validate.Struct(req)
	if err != nil {
		if validationError, ok := err.(validator.ValidationErrors); ok {
			err = errors.New("validation error: ")
			for _, fieldErr := range validationError {
				err = errors.Join(err, fieldErr)
			}
			return err
		}
		return errors.New("validation unexpected error: " + err.Error())
	}
	return nil
}
