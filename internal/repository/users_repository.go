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

type UsersRepository struct {
	conn PgConnection
}

func NewUsersRepo(cfg DBConfig) *UsersRepository {
	pool, err := pgxpool.New(context.Background(), cfg.ConnString())
	if err != nil {
		log.Fatal("creating connection for usersRepo error: " + err.Error())
	}
	err = pool.Ping(context.Background())
	if err != nil {
		log.Fatal("error while pinging connection for usersRepo: " + err.Error())
	}
	cleanup.Register(&cleanup.Job{
		Name: "closing pgxpool",
		F: func() error {
			pool.Close()
			return nil
		},
	})
	return &UsersRepository{
		conn: pool,
	}
}

func NewUsersRepoWithConn(conn PgConnection) *UsersRepository {
	err := conn.Ping(context.Background())
	if err != nil {
		log.Fatal("error while pinging connection for usersRepo: " + err.Error())
	}
	return &UsersRepository{
		conn: conn,
	}
}

func (ur *UsersRepository) Create(ctx context.Context, user *entity.User) error {
	if user == nil {
		return errors.New("user is nil")
	}
	_, err := ur.conn.Exec(ctx,
		`INSERT INTO users (clerk_id, email, username, name, password_hash, start_date) VALUES ($1, $2, $3, $4, $5, $6);`,
		user.ClerkID, user.Email, user.Username, user.Name, user.PasswordHash, user.StartDate,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			// Unique violation
			case "23505":
				return errorvalues.ErrUserExists
			}
		}
		return errors.New("creating user db error: " + err.Error())
	}
	return nil
}

// Upsert keys on clerk_id so the same external identity never forks into two
// rows, regardless of how many devices race on first sync.
func (ur *UsersRepository) Upsert(ctx context.Context, user *entity.User) error {
	if user == nil {
		return errors.New("user is nil")
	}
	row := ur.conn.QueryRow(ctx,
		`INSERT INTO users (clerk_id, email, username, name, current_streak, longest_streak, start_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (clerk_id) DO UPDATE SET email = $2, username = $3, name = $4
		RETURNING id, created_at;`,
		user.ClerkID, user.Email, user.Username, user.Name, user.CurrentStreak, user.LongestStreak, user.StartDate,
	)
	if err := row.Scan(&user.ID, &user.CreatedAt); err != nil {
		return errors.New("upserting user db error: " + err.Error())
	}
	return nil
}

func (ur *UsersRepository) FindByUsername(ctx context.Context, username string) (*entity.User, error) {
	row := ur.conn.QueryRow(ctx, selectUser+`WHERE username = $1;`, username)
	return scanUser(row)
}

func (ur *UsersRepository) FindByClerkID(ctx context.Context, clerkID string) (*entity.User, error) {
	row := ur.conn.QueryRow(ctx, selectUser+`WHERE clerk_id = $1;`, clerkID)
	return scanUser(row)
}

func (ur *UsersRepository) FindByID(ctx context.Context, uid uuid.UUID) (*entity.User, error) {
	row := ur.conn.QueryRow(ctx, selectUser+`WHERE id = $1;`, uid)
	return scanUser(row)
}

func (ur *UsersRepository) List(ctx context.Context) ([]*entity.User, error) {
	users := make([]*entity.User, 0)
	rows, err := ur.conn.Query(ctx, selectUser+`ORDER BY created_at;`)
	if err != nil {
		return nil, errors.New("listing users error: " + err.Error())
	}
	defer rows.Close()
	for rows.Next() {
		var u entity.User
		err = rows.Scan(&u.ID, &u.ClerkID, &u.Email, &u.Username, &u.Name, &u.PasswordHash,
			&u.CurrentStreak, &u.LongestStreak, &u.StartDate, &u.CreatedAt)
		if err != nil {
			return nil, errors.New("unmarshalling user error: " + err.Error())
		}
		users = append(users, &u)
	}
	if rows.Err() != nil {
		return nil, errors.New("unexpected error after scanning: " + rows.Err().Error())
	}
	return users, nil
}

func (ur *UsersRepository) UpdateStreaks(ctx context.Context, clerkID string, current, longest int) error {
	ct, err := ur.conn.Exec(ctx, `UPDATE users SET current_streak = $1, longest_streak = $2 WHERE clerk_id = $3;`,
		current, longest, clerkID,
	)
	if err != nil {
		return errors.New("updating streaks error: " + err.Error())
	}
	if ct.RowsAffected() == 0 {
		return errorvalues.ErrUserNotFound
	}
	return nil
}

const selectUser = `SELECT id, clerk_id, email, username, name, password_hash, current_streak, longest_streak, start_date, created_at FROM users `

func scanUser(row pgx.Row) (*entity.User, error) {
	var user entity.User
	err := row.Scan(&user.ID, &user.ClerkID, &user.Email, &user.Username, &user.Name, &user.PasswordHash,
		&user.CurrentStreak, &user.LongestStreak, &user.StartDate, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errorvalues.ErrUserNotFound
		}
		return nil, errors.New("searching user error: " + err.Error())
	}
	return &user, nil
}
