package service

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/hard75/api/internal/repository"
	"github.com/hard75/api/pkg/entity"
)

type EncouragementService struct {
	encouragements repository.EncouragementsRepositoryI
	users          repository.UsersRepositoryI
}

func NewEncouragementService(
	encouragementsRepo repository.EncouragementsRepositoryI,
	usersRepo repository.UsersRepositoryI,
) *EncouragementService {
	return &EncouragementService{
		encouragements: encouragementsRepo,
		users:          usersRepo,
	}
}

func (es *EncouragementService) Send(ctx context.Context, fromClerkID string, req *EncouragementRequest) (uuid.UUID, error) {
	if err := validateStruct(req); err != nil {
		return uuid.UUID{}, err
	}
	kind := req.Kind
	switch kind {
	case entity.KindEncouragement, entity.KindCelebration, entity.KindMotivation:
	case "":
		kind = entity.KindEncouragement
	default:
		return uuid.UUID{}, errors.New("unknown encouragement type: " + string(kind))
	}
	id, err := es.encouragements.Create(ctx, &entity.Encouragement{
		FromClerkID: fromClerkID,
		ToClerkID:   req.ToClerkID,
		ActivityID:  req.ActivityID,
		Message:     req.Message,
		Kind:        kind,
	})
	if err != nil {
		return uuid.UUID{}, errors.New("encouragements repository error: " + err.Error())
	}
	return id, nil
}

// ListForUser returns the newest encouragements addressed to clerkID,
// enriched with sender display data looked up by clerk id.
func (es *EncouragementService) ListForUser(ctx context.Context, clerkID string, limit int) ([]*entity.ReceivedEncouragement, error) {
	list, err := es.encouragements.ListByRecipient(ctx, clerkID, limit)
	if err != nil {
		return nil, errors.New("encouragements repository error: " + err.Error())
	}
	users, err := es.users.List(ctx)
	if err != nil {
		return nil, errors.New("users repository error: " + err.Error())
	}
	byClerkID := make(map[string]*entity.User, len(users))
	for _, u := range users {
		byClerkID[u.ClerkID] = u
	}
	received := make([]*entity.ReceivedEncouragement, len(list))
	for i, e := range list {
		sender := byClerkID[e.FromClerkID]
		name := "Someone"
		if sender != nil {
			if sender.Username != "" {
				name = sender.Username
			} else if sender.Name != "" {
				name = sender.Name
			}
		}
		received[i] = &entity.ReceivedEncouragement{
			Encouragement: *e,
			Sender:        sender,
			SenderName:    name,
		}
	}
	return received, nil
}
