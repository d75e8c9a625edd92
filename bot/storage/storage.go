// Package storage provides the sqlx repositories behind the bot: users,
// subscriptions and calculator settings.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/Yulia-Kablukova/runenburg/core/logger"
	"log/slog"
)

// User is a registered chat. ChatID is the delivery address for broadcasts.
type User struct {
	ID       int64  `db:"id"`
	ChatID   int64  `db:"chat_id"`
	Username string `db:"username"`
	Name     string `db:"name"`
}

// Subscription is one (chat, sex, brand, size) mailing preference row.
type Subscription struct {
	ID     int64  `db:"id"`
	ChatID int64  `db:"chat_id"`
	Sex    string `db:"sex"`
	Brand  string `db:"brand"`
	Size   string `db:"size"`
}

// Setting keys used by the price calculator.
const (
	SettingRate       = "rate"
	SettingCommission = "commission"
)

// Repository wraps the database handle with the bot's queries.
type Repository struct {
	db *sqlx.DB
}

// New creates a Repository over an open database connection.
func New(db *sqlx.DB) *Repository {
	return &Repository{db: db}
}

// CreateUser registers a chat, ignoring repeats of the same chat_id.
func (r *Repository) CreateUser(ctx context.Context, u User) error {
	const q = `INSERT INTO users (id, chat_id, username, name)
	           VALUES ($1, $2, $3, $4)
	           ON CONFLICT (chat_id) DO NOTHING`
	if _, err := r.db.ExecContext(ctx, q, u.ID, u.ChatID, u.Username, u.Name); err != nil {
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

// ListUsers returns all registered users in registration order.
func (r *Repository) ListUsers(ctx context.Context) ([]User, error) {
	var users []User
	if err := r.db.SelectContext(ctx, &users, `SELECT id, chat_id, username, name FROM users ORDER BY id`); err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

// CreateSubscription stores one preference row; the unique tuple constraint
// makes repeated confirmations idempotent.
func (r *Repository) CreateSubscription(ctx context.Context, chatID int64, sex, brand, size string) error {
	const q = `INSERT INTO subscriptions (chat_id, sex, brand, size)
	           VALUES ($1, $2, $3, $4)
	           ON CONFLICT (chat_id, sex, brand, size) DO NOTHING`
	if _, err := r.db.ExecContext(ctx, q, chatID, sex, brand, size); err != nil {
		return fmt.Errorf("create subscription: %w", err)
	}
	return nil
}

// ListSubscriptions returns every subscription row.
func (r *Repository) ListSubscriptions(ctx context.Context) ([]Subscription, error) {
	var subs []Subscription
	if err := r.db.SelectContext(ctx, &subs, `SELECT id, chat_id, sex, brand, size FROM subscriptions ORDER BY id`); err != nil {
		return nil, fmt.Errorf("list subscriptions: %w", err)
	}
	return subs, nil
}

// ChatSubscriptions returns the chat's rows ordered by id. The order matters:
// unsubscribe buttons address rows by their position in this listing.
func (r *Repository) ChatSubscriptions(ctx context.Context, chatID int64) ([]Subscription, error) {
	var subs []Subscription
	const q = `SELECT id, chat_id, sex, brand, size FROM subscriptions WHERE chat_id = $1 ORDER BY id`
	if err := r.db.SelectContext(ctx, &subs, q, chatID); err != nil {
		return nil, fmt.Errorf("chat subscriptions: %w", err)
	}
	return subs, nil
}

// TargetChats resolves the distinct chat ids matching a broadcast's criteria.
func (r *Repository) TargetChats(ctx context.Context, sex string, brands, sizes []string) ([]int64, error) {
	if len(brands) == 0 || len(sizes) == 0 {
		return nil, nil
	}
	q, args, err := sqlx.In(
		`SELECT DISTINCT chat_id FROM subscriptions WHERE sex = ? AND brand IN (?) AND size IN (?)`,
		sex, brands, sizes,
	)
	if err != nil {
		return nil, fmt.Errorf("target chats: %w", err)
	}
	q = r.db.Rebind(q)

	var chats []int64
	if err := r.db.SelectContext(ctx, &chats, q, args...); err != nil {
		return nil, fmt.Errorf("target chats: %w", err)
	}
	logger.Debug(ctx, "db", "db.targets",
		slog.String("sex", sex),
		slog.Int("targets", len(chats)),
	)
	return chats, nil
}

// DeleteSubscription removes a single row by primary key.
func (r *Repository) DeleteSubscription(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM subscriptions WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete subscription: %w", err)
	}
	return nil
}

// DeleteChatSubscriptions removes all rows for a chat.
func (r *Repository) DeleteChatSubscriptions(ctx context.Context, chatID int64) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM subscriptions WHERE chat_id = $1`, chatID); err != nil {
		return fmt.Errorf("delete chat subscriptions: %w", err)
	}
	return nil
}

// SetSetting stores a calculator setting with replace semantics.
func (r *Repository) SetSetting(ctx context.Context, key, value string) error {
	const q = `INSERT INTO settings (key, value) VALUES ($1, $2)
	           ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value`
	if _, err := r.db.ExecContext(ctx, q, key, value); err != nil {
		return fmt.Errorf("set setting %s: %w", key, err)
	}
	return nil
}

// GetSetting returns the stored value for key; found is false when unset.
func (r *Repository) GetSetting(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := r.db.GetContext(ctx, &value, `SELECT value FROM settings WHERE key = $1`, key)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get setting %s: %w", key, err)
	}
	return value, true, nil
}

// SeedSetting inserts a default value only when the key is absent.
func (r *Repository) SeedSetting(ctx context.Context, key, value string) error {
	const q = `INSERT INTO settings (key, value) VALUES ($1, $2) ON CONFLICT (key) DO NOTHING`
	if _, err := r.db.ExecContext(ctx, q, key, value); err != nil {
		return fmt.Errorf("seed setting %s: %w", key, err)
	}
	return nil
}
