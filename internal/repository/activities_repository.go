package repository

import (
	"context"
	"errors"
	"log"

	"github.com/bytedance/sonic"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	errorvalues "github.com/hard75/api/internal/error_values"
	"github.com/hard75/api/pkg/cleanup"
	"github.com/hard75/api/pkg/entity"
)

type ActivitiesRepository struct {
	conn PgConnection
}

func NewActivitiesRepo(cfg DBConfig) *ActivitiesRepository {
	pool, err := pgxpool.New(context.Background(), cfg.ConnString())
	if err != nil {
		log.Fatal("creating connection for activitiesRepo error: " + err.Error())
	}
	err = pool.Ping(context.Background())
	if err != nil {
		log.Fatal("error while pinging connection for activitiesRepo: " + err.Error())
	}
	cleanup.Register(&cleanup.Job{
		Name: "closing pgxpool",
		F: func() error {
			pool.Close()
			return nil
		},
	})
	return &ActivitiesRepository{
		conn: pool,
	}
}

func NewActivitiesRepoWithConn(conn PgConnection) *ActivitiesRepository {
	err := conn.Ping(context.Background())
	if err != nil {
		log.Fatal("error while pinging connection for activitiesRepo: " + err.Error())
	}
	return &ActivitiesRepository{
		conn: conn,
	}
}

func (ar *ActivitiesRepository) Create(ctx context.Context, a *entity.Activity) (uuid.UUID, error) {
	if a == nil {
		return uuid.UUID{}, errors.New("activity is nil")
	}
	payload, err := sonic.Marshal(a.Data)
	if err != nil {
		return uuid.UUID{}, errors.New("marshalling activity payload error: " + err.Error())
	}
	var id uuid.UUID
	row := ar.conn.QueryRow(ctx,
		`INSERT INTO social_activities (user_id, clerk_user_id, type, data, is_public)
		VALUES ($1, $2, $3, $4, $5) RETURNING id;`,
		a.UserID, a.ClerkUserID, a.Kind, payload, a.IsPublic,
	)
	if err := row.Scan(&id); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			// FK violation
			case "23503":
				return uuid.UUID{}, errorvalues.ErrUserNotFound
			}
		}
		return uuid.UUID{}, errors.New("creating activity db error: " + err.Error())
	}
	return id, nil
}

// ListRecent returns at most limit rows, newest first. This is a retrieval
// cap, not a pagination cursor: rows beyond it are unreachable through the
// feed path.
func (ar *ActivitiesRepository) ListRecent(ctx context.Context, limit int) ([]*entity.Activity, error) {
	activities := make([]*entity.Activity, 0)
	rows, err := ar.conn.Query(ctx,
		`SELECT id, user_id, clerk_user_id, type, data, is_public, created_at
		FROM social_activities ORDER BY created_at DESC LIMIT $1;`, limit)
	if err != nil {
		return nil, errors.New("listing activities error: " + err.Error())
	}
	defer rows.Close()
	for rows.Next() {
		var a entity.Activity
		var payload []byte
		err = rows.Scan(&a.ID, &a.UserID, &a.ClerkUserID, &a.Kind, &payload, &a.IsPublic, &a.CreatedAt)
		if err != nil {
			return nil, errors.New("unmarshalling activity error: " + err.Error())
		}
		if len(payload) > 0 {
			if err = sonic.Unmarshal(payload, &a.Data); err != nil {
				return nil, errors.New("unmarshalling activity payload error: " + err.Error())
			}
		}
		activities = append(activities, &a)
	}
	if rows.Err() != nil {
		return nil, errors.New("unexpected error after scanning: " + rows.Err().Error())
	}
	return activities, nil
}
