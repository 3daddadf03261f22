package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/hard75/api/pkg/entity"
)

type UsersRepositoryI interface {
	// Creates new user row. Used by registration
	Create(ctx context.Context, user *entity.User) error
	// Idempotent upsert keyed by clerk id. Fills user.ID from the row
	Upsert(ctx context.Context, user *entity.User) error
	// Looks up user by username. Can be used for login
	FindByUsername(ctx context.Context, username string) (*entity.User, error)
	// Looks up user by the auth provider's id
	FindByClerkID(ctx context.Context, clerkID string) (*entity.User, error)
	FindByID(ctx context.Context, uid uuid.UUID) (*entity.User, error)
	// Full user set. Friend/feed derivations join against it client-side
	List(ctx context.Context) ([]*entity.User, error)
	// Writes both streak counters for the user with clerkID
	UpdateStreaks(ctx context.Context, clerkID string, current, longest int) error
}

type FriendshipsRepositoryI interface {
	// Inserts a new edge, returns its id
	Create(ctx context.Context, f *entity.Friendship) (uuid.UUID, error)
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Friendship, error)
	// All edges touching clerkID on either side, any status
	ListByClerkID(ctx context.Context, clerkID string) ([]*entity.Friendship, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status entity.FriendshipStatus) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type ActivitiesRepositoryI interface {
	Create(ctx context.Context, a *entity.Activity) (uuid.UUID, error)
	// Most recent limit rows globally. Friend filtering happens in the caller
	ListRecent(ctx context.Context, limit int) ([]*entity.Activity, error)
}

type EncouragementsRepositoryI interface {
	Create(ctx context.Context, e *entity.Encouragement) (uuid.UUID, error)
	ListByRecipient(ctx context.Context, toClerkID string, limit int) ([]*entity.Encouragement, error)
}

type DBConfig interface {
	ConnString() string
}

type PgConnection interface {
	Ping(ctx context.Context) error
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Begin(ctx context.Context) (pgx.Tx, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type PGCfg struct {
	Address  string
	Username string
	Password string
	DB       string
}

func (pgcfg *PGCfg) ConnString() string {
	return fmt.Sprintf("postgresql://%s:%s@%s/%s", pgcfg.Username, pgcfg.Password, pgcfg.Address, pgcfg.DB)
}
