package repository

import (
	"context"
	"errors"
	"log"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	errorvalues "github.com/hard75/api/internal/error_values"
	"github.com/hard75/api/pkg/cleanup"
	"github.com/hard75/api/pkg/entity"
)

type FriendshipsRepository struct {
	conn PgConnection
}

func NewFriendshipsRepo(cfg DBConfig) *FriendshipsRepository {
	pool, err := pgxpool.New(context.Background(), cfg.ConnString())
	if err != nil {
		log.Fatal("creating connection for friendshipsRepo error: " + err.Error())
	}
	err = pool.Ping(context.Background())
	if err != nil {
		log.Fatal("error while pinging connection for friendshipsRepo: " + err.Error())
	}
	cleanup.Register(&cleanup.Job{
		Name: "closing pgxpool",
		F: func() error {
			pool.Close()
			return nil
		},
	})
	return &FriendshipsRepository{
		conn: pool,
	}
}

func NewFriendshipsRepoWithConn(conn PgConnection) *FriendshipsRepository {
	err := conn.Ping(context.Background())
	if err != nil {
		log.Fatal("error while pinging connection for friendshipsRepo: " + err.Error())
	}
	return &FriendshipsRepository{
		conn: conn,
	}
}

func (fr *FriendshipsRepository) Create(ctx context.Context, f *entity.Friendship) (uuid.UUID, error) {
	if f == nil {
		return uuid.UUID{}, errors.New("friendship is nil")
	}
	var id uuid.UUID
	row := fr.conn.QueryRow(ctx,
		`INSERT INTO friendships (requester_id, receiver_id, clerk_requester_id, clerk_receiver_id, status)
		VALUES ($1, $2, $3, $4, $5) RETURNING id;`,
		f.RequesterID, f.ReceiverID, f.ClerkRequesterID, f.ClerkReceiverID, f.Status,
	)
	if err := row.Scan(&id); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			// Check violation on status
			case "23514":
				return uuid.UUID{}, errors.New("invalid friendship status: " + string(f.Status))
			}
		}
		return uuid.UUID{}, errors.New("creating friendship db error: " + err.Error())
	}
	return id, nil
}

func (fr *FriendshipsRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Friendship, error) {
	var f entity.Friendship
	row := fr.conn.QueryRow(ctx,
		`SELECT id, requester_id, receiver_id, clerk_requester_id, clerk_receiver_id, status, created_at
		FROM friendships WHERE id = $1;`, id)
	err := row.Scan(&f.ID, &f.RequesterID, &f.ReceiverID, &f.ClerkRequesterID, &f.ClerkReceiverID, &f.Status, &f.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errorvalues.ErrFriendshipNotFound
		}
		return nil, errors.New("getting friendship by id error: " + err.Error())
	}
	return &f, nil
}

func (fr *FriendshipsRepository) ListByClerkID(ctx context.Context, clerkID string) ([]*entity.Friendship, error) {
	edges := make([]*entity.Friendship, 0)
	rows, err := fr.conn.Query(ctx,
		`SELECT id, requester_id, receiver_id, clerk_requester_id, clerk_receiver_id, status, created_at
		FROM friendships WHERE clerk_requester_id = $1 OR clerk_receiver_id = $1;`, clerkID)
	if err != nil {
		return nil, errors.New("listing friendships error: " + err.Error())
	}
	defer rows.Close()
	for rows.Next() {
		var f entity.Friendship
		err = rows.Scan(&f.ID, &f.RequesterID, &f.ReceiverID, &f.ClerkRequesterID, &f.ClerkReceiverID, &f.Status, &f.CreatedAt)
		if err != nil {
			return nil, errors.New("unmarshalling friendship error: " + err.Error())
		}
		edges = append(edges, &f)
	}
	if rows.Err() != nil {
		return nil, errors.New("unexpected error after scanning: " + rows.Err().Error())
	}
	return edges, nil
}

func (fr *FriendshipsRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status entity.FriendshipStatus) error {
	ct, err := fr.conn.Exec(ctx, `UPDATE friendships SET status = $1 WHERE id = $2;`, status, id)
	if err != nil {
		return errors.New("updating friendship status error: " + err.Error())
	}
	if ct.RowsAffected() == 0 {
		return errorvalues.ErrFriendshipNotFound
	}
	return nil
}

func (fr *FriendshipsRepository) Delete(ctx context.Context, id uuid.UUID) error {
	ct, err := fr.conn.Exec(ctx, `DELETE FROM friendships WHERE id = $1;`, id)
	if err != nil {
		return errors.New("deleting friendship error: " + err.Error())
	}
	if ct.RowsAffected() == 0 {
		return errorvalues.ErrFriendshipNotFound
	}
	return nil
}
