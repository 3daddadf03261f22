package repository

import (
	"context"
	"errors"
	"log"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hard75/api/pkg/cleanup"
	"github.com/hard75/api/pkg/entity"
)

type EncouragementsRepository struct {
	conn PgConnection
}

func NewEncouragementsRepo(cfg DBConfig) *EncouragementsRepository {
	pool, err := pgxpool.New(context.Background(), cfg.ConnString())
	if err != nil {
		log.Fatal("creating connection for encouragementsRepo error: " + err.Error())
	}
	err = pool.Ping(context.Background())
	if err != nil {
		log.Fatal("error while pinging connection for encouragementsRepo: " + err.Error())
	}
	cleanup.Register(&cleanup.Job{
		Name: "closing pgxpool",
		F: func() error {
			pool.Close()
			return nil
		},
	})
	return &EncouragementsRepository{
		conn: pool,
	}
}

func NewEncouragementsRepoWithConn(conn PgConnection) *EncouragementsRepository {
	err := conn.Ping(context.Background())
	if err != nil {
		log.Fatal("error while pinging connection for encouragementsRepo: " + err.Error())
	}
	return &EncouragementsRepository{
		conn: conn,
	}
}

func (er *EncouragementsRepository) Create(ctx context.Context, e *entity.Encouragement) (uuid.UUID, error) {
	if e == nil {
		return uuid.UUID{}, errors.New("encouragement is nil")
	}
	var id uuid.UUID
	row := er.conn.QueryRow(ctx,
		`INSERT INTO encouragements (from_user_id, to_user_id, activity_id, message, type)
		VALUES ($1, $2, $3, $4, $5) RETURNING id;`,
		e.FromClerkID, e.ToClerkID, e.ActivityID, e.Message, e.Kind,
	)
	if err := row.Scan(&id); err != nil {
		return uuid.UUID{}, errors.New("creating encouragement db error: " + err.Error())
	}
	return id, nil
}

func (er *EncouragementsRepository) ListByRecipient(ctx context.Context, toClerkID string, limit int) ([]*entity.Encouragement, error) {
	result := make([]*entity.Encouragement, 0)
	rows, err := er.conn.Query(ctx,
		`SELECT id, from_user_id, to_user_id, activity_id, message, type, created_at
		FROM encouragements WHERE to_user_id = $1 ORDER BY created_at DESC LIMIT $2;`,
		toClerkID, limit)
	if err != nil {
		return nil, errors.New("listing encouragements error: " + err.Error())
	}
	defer rows.Close()
	for rows.Next() {
		var e entity.Encouragement
		err = rows.Scan(&e.ID, &e.FromClerkID, &e.ToClerkID, &e.ActivityID, &e.Message, &e.Kind, &e.CreatedAt)
		if err != nil {
			return nil, errors.New("unmarshalling encouragement error: " + err.Error())
		}
		result = append(result, &e)
	}
	if rows.Err() != nil {
		return nil, errors.New("unexpected error after scanning: " + rows.Err().Error())
	}
	return result, nil
}
