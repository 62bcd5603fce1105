// Package sqlite provides the durable user store backed by a local
// SQLite file. The schema is created on first use.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	_ "modernc.org/sqlite" // sqlite driver

	"github.com/textforge/humanizer/models"
	"github.com/textforge/humanizer/web"
)

type repo struct {
	db *sql.DB
}

func New(path string) (web.UserRepository, error) {
	db, err := initDatabase(path)
	if err != nil {
		return nil, err
	}

	return &repo{db: db}, nil
}

func (r *repo) Get(ctx context.Context, id string) (models.User, error) {
	const q = `SELECT id, is_subscribed, subscription_id FROM users WHERE id = ?`

	row := r.db.QueryRowContext(ctx, q, id)

	return rowToUser(row)
}

func (r *repo) Create(ctx context.Context, user *models.User) error {
	const q = `INSERT INTO users (id, is_subscribed, subscription_id) VALUES (?, ?, ?)
		ON CONFLICT (id) DO NOTHING`

	res, err := r.db.ExecContext(ctx, q, user.ID, boolToInt(user.IsSubscribed), toNullString(user.SubscriptionID))
	if err != nil {
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}

	if affected == 0 {
		return web.ErrAlreadyExists
	}

	return nil
}

func (r *repo) UpdateSubscription(ctx context.Context, id string, isSubscribed bool, subscriptionID string) error {
	const q = `INSERT INTO users (id, is_subscribed, subscription_id) VALUES (?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET is_subscribed = excluded.is_subscribed, subscription_id = excluded.subscription_id`

	_, err := r.db.ExecContext(ctx, q, id, boolToInt(isSubscribed), toNullString(subscriptionID))

	return err
}

type scannable interface {
	Scan(dest ...any) error
}

func rowToUser(row scannable) (models.User, error) {
	var (
		u          models.User
		subscribed int
		subID      sql.NullString
	)

	err := row.Scan(&u.ID, &subscribed, &subID)
	if errors.Is(err, sql.ErrNoRows) {
		return models.User{}, web.ErrNotFound
	}

	if err != nil {
		return models.User{}, err
	}

	u.IsSubscribed = subscribed != 0
	u.SubscriptionID = subID.String

	return u, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}

	return 0
}

func toNullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func initDatabase(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(30 * time.Minute)

	_, err = db.Exec("PRAGMA busy_timeout = 5000")
	if err != nil {
		return nil, err
	}

	_, err = db.Exec("PRAGMA journal_mode=WAL")
	if err != nil {
		return nil, err
	}

	_, err = db.Exec("PRAGMA synchronous=NORMAL")
	if err != nil {
		return nil, err
	}

	err = db.Ping()
	if err != nil {
		return nil, err
	}

	return db, createSchema(db)
}

func createSchema(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS users (
			id TEXT PRIMARY KEY,
			is_subscribed INT NOT NULL DEFAULT 0,
			subscription_id TEXT
		)
	`)

	return err
}
