package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/gearswap/gearswap-api/internal/apperrors"
	"github.com/gearswap/gearswap-api/internal/models"
)

// uniqueViolation is the PostgreSQL error code for duplicate keys.
const uniqueViolation = "23505"

// NewPool creates and pings a pgx connection pool.
func NewPool(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}

	poolConfig.MaxConns = 10
	poolConfig.MinConns = 2

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return pool, nil
}

// PostgresStorage implements Storage on top of a pgx pool.
type PostgresStorage struct {
	pool *pgxpool.Pool
}

var _ Storage = (*PostgresStorage)(nil)

func NewPostgresStorage(pool *pgxpool.Pool) *PostgresStorage {
	return &PostgresStorage{pool: pool}
}

// Migrate creates the schema if it does not exist yet.
func (s *PostgresStorage) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS users (
			id            UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			username      TEXT UNIQUE NOT NULL,
			password_hash TEXT NOT NULL,
			email         TEXT NOT NULL DEFAULT '',
			bio           TEXT NOT NULL DEFAULT '',
			location      TEXT NOT NULL DEFAULT '',
			latitude      DOUBLE PRECISION,
			longitude     DOUBLE PRECISION,
			created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);
		CREATE TABLE IF NOT EXISTS items (
			id          UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			owner_id    UUID NOT NULL REFERENCES users(id),
			title       TEXT NOT NULL,
			description TEXT NOT NULL,
			category    TEXT NOT NULL,
			images      TEXT[] NOT NULL DEFAULT '{}',
			status      TEXT NOT NULL DEFAULT 'available',
			location    TEXT NOT NULL DEFAULT '',
			latitude    DOUBLE PRECISION,
			longitude   DOUBLE PRECISION,
			created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);
		CREATE TABLE IF NOT EXISTS trades (
			id           UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			-- no FK: items stay deletable, a trade keeps its reference
			item_id      UUID NOT NULL,
			requester_id UUID NOT NULL REFERENCES users(id),
			owner_id     UUID NOT NULL REFERENCES users(id),
			status       TEXT NOT NULL DEFAULT 'requested',
			created_at   TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at   TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);
		CREATE TABLE IF NOT EXISTS messages (
			id         UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			trade_id   UUID NOT NULL REFERENCES trades(id) ON DELETE CASCADE,
			sender_id  UUID NOT NULL REFERENCES users(id),
			content    TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);
	`)
	return err
}

// --- Users ---

func (s *PostgresStorage) CreateUser(ctx context.Context, user *models.User) error {
	err := s.pool.QueryRow(ctx, `
		INSERT INTO users (username, password_hash, email, bio, location, latitude, longitude)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at
	`, user.Username, user.PasswordHash, user.Email, user.Bio, user.Location, user.Latitude, user.Longitude).
		Scan(&user.ID, &user.CreatedAt)

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return fmt.Errorf("username %q taken: %w", user.Username, apperrors.ErrConflict)
	}
	if err != nil {
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

func (s *PostgresStorage) GetUser(ctx context.Context, id uuid.UUID) (*models.User, error) {
	return s.scanUser(s.pool.QueryRow(ctx, `
		SELECT id, username, password_hash, email, bio, location, latitude, longitude, created_at
		FROM users WHERE id = $1
	`, id))
}

func (s *PostgresStorage) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	return s.scanUser(s.pool.QueryRow(ctx, `
		SELECT id, username, password_hash, email, bio, location, latitude, longitude, created_at
		FROM users WHERE username = $1
	`, username))
}

func (s *PostgresStorage) UpdateUser(ctx context.Context, id uuid.UUID, upd models.UserUpdate) (*models.User, error) {
	user, err := s.GetUser(ctx, id)
	if err != nil {
		return nil, err
	}
	applyUserUpdate(user, upd)

	_, err = s.pool.Exec(ctx, `
		UPDATE users SET email = $2, bio = $3, location = $4, latitude = $5, longitude = $6
		WHERE id = $1
	`, id, user.Email, user.Bio, user.Location, user.Latitude, user.Longitude)
	if err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}
	return user, nil
}

func (s *PostgresStorage) scanUser(row pgx.Row) (*models.User, error) {
	var u models.User
	err := row.Scan(&u.ID, &u.Username, &u.PasswordHash, &u.Email, &u.Bio, &u.Location,
		&u.Latitude, &u.Longitude, &u.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("user: %w", apperrors.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("scan user: %w", err)
	}
	return &u, nil
}

// --- Items ---

func (s *PostgresStorage) GetItems(ctx context.Context, filters ItemFilters) ([]models.Item, error) {
	query := `
		SELECT id, owner_id, title, description, category, images, status, location, latitude, longitude, created_at
		FROM items WHERE 1=1`
	var args []any

	if filters.Status != "" {
		args = append(args, filters.Status)
		query += fmt.Sprintf(" AND status = $%d", len(args))
	}
	if filters.Category != "" {
		args = append(args, filters.Category)
		query += fmt.Sprintf(" AND category = $%d", len(args))
	}
	if filters.Search != "" {
		args = append(args, "%"+filters.Search+"%")
		query += fmt.Sprintf(" AND (title ILIKE $%d OR description ILIKE $%d)", len(args), len(args))
	}
	query += " ORDER BY created_at DESC"

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query items: %w", err)
	}
	defer rows.Close()

	var items []models.Item
	for rows.Next() {
		var it models.Item
		if err := rows.Scan(&it.ID, &it.OwnerID, &it.Title, &it.Description, &it.Category,
			&it.Images, &it.Status, &it.Location, &it.Latitude, &it.Longitude, &it.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

func (s *PostgresStorage) GetItem(ctx context.Context, id uuid.UUID) (*models.Item, error) {
	var it models.Item
	err := s.pool.QueryRow(ctx, `
		SELECT id, owner_id, title, description, category, images, status, location, latitude, longitude, created_at
		FROM items WHERE id = $1
	`, id).Scan(&it.ID, &it.OwnerID, &it.Title, &it.Description, &it.Category,
		&it.Images, &it.Status, &it.Location, &it.Latitude, &it.Longitude, &it.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("item: %w", apperrors.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get item: %w", err)
	}
	return &it, nil
}

func (s *PostgresStorage) CreateItem(ctx context.Context, item *models.Item) error {
	if item.Status == "" {
		item.Status = models.ItemAvailable
	}
	if item.Images == nil {
		item.Images = []string{}
	}
	err := s.pool.QueryRow(ctx, `
		INSERT INTO items (owner_id, title, description, category, images, status, location, latitude, longitude)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at
	`, item.OwnerID, item.Title, item.Description, item.Category, item.Images,
		item.Status, item.Location, item.Latitude, item.Longitude).
		Scan(&item.ID, &item.CreatedAt)
	if err != nil {
		return fmt.Errorf("create item: %w", err)
	}
	return nil
}

func (s *PostgresStorage) UpdateItem(ctx context.Context, id uuid.UUID, upd models.ItemUpdate) (*models.Item, error) {
	item, err := s.GetItem(ctx, id)
	if err != nil {
		return nil, err
	}
	applyItemUpdate(item, upd)

	_, err = s.pool.Exec(ctx, `
		UPDATE items
		SET title = $2, description = $3, category = $4, images = $5, location = $6, latitude = $7, longitude = $8
		WHERE id = $1
	`, id, item.Title, item.Description, item.Category, item.Images, item.Location, item.Latitude, item.Longitude)
	if err != nil {
		return nil, fmt.Errorf("update item: %w", err)
	}
	return item, nil
}

func (s *PostgresStorage) DeleteItem(ctx context.Context, id uuid.UUID) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM items WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete item: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("item: %w", apperrors.ErrNotFound)
	}
	return nil
}

func (s *PostgresStorage) SetItemStatus(ctx context.Context, id uuid.UUID, status string) error {
	tag, err := s.pool.Exec(ctx, `UPDATE items SET status = $2 WHERE id = $1`, id, status)
	if err != nil {
		return fmt.Errorf("set item status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("item: %w", apperrors.ErrNotFound)
	}
	return nil
}

// --- Trades ---

func (s *PostgresStorage) CreateTrade(ctx context.Context, trade *models.Trade) error {
	if trade.Status == "" {
		trade.Status = models.TradeRequested
	}
	err := s.pool.QueryRow(ctx, `
		INSERT INTO trades (item_id, requester_id, owner_id, status)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at
	`, trade.ItemID, trade.RequesterID, trade.OwnerID, trade.Status).
		Scan(&trade.ID, &trade.CreatedAt, &trade.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create trade: %w", err)
	}
	return nil
}

func (s *PostgresStorage) GetTrade(ctx context.Context, id uuid.UUID) (*models.Trade, error) {
	var t models.Trade
	err := s.pool.QueryRow(ctx, `
		SELECT id, item_id, requester_id, owner_id, status, created_at, updated_at
		FROM trades WHERE id = $1
	`, id).Scan(&t.ID, &t.ItemID, &t.RequesterID, &t.OwnerID, &t.Status, &t.CreatedAt, &t.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("trade: %w", apperrors.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get trade: %w", err)
	}
	return &t, nil
}

func (s *PostgresStorage) GetTradesForUser(ctx context.Context, userID uuid.UUID) ([]models.Trade, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, item_id, requester_id, owner_id, status, created_at, updated_at
		FROM trades
		WHERE requester_id = $1 OR owner_id = $1
		ORDER BY created_at DESC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("query trades: %w", err)
	}
	defer rows.Close()

	var trades []models.Trade
	for rows.Next() {
		var t models.Trade
		if err := rows.Scan(&t.ID, &t.ItemID, &t.RequesterID, &t.OwnerID, &t.Status, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan trade: %w", err)
		}
		trades = append(trades, t)
	}
	return trades, rows.Err()
}

func (s *PostgresStorage) UpdateTradeStatus(ctx context.Context, id uuid.UUID, expectedStatus, newStatus string) (*models.Trade, error) {
	var t models.Trade
	err := s.pool.QueryRow(ctx, `
		UPDATE trades SET status = $3, updated_at = NOW()
		WHERE id = $1 AND status = $2
		RETURNING id, item_id, requester_id, owner_id, status, created_at, updated_at
	`, id, expectedStatus, newStatus).
		Scan(&t.ID, &t.ItemID, &t.RequesterID, &t.OwnerID, &t.Status, &t.CreatedAt, &t.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		// Distinguish an unknown trade from one that moved under us.
		if _, getErr := s.GetTrade(ctx, id); getErr != nil {
			return nil, getErr
		}
		return nil, fmt.Errorf("trade status changed concurrently: %w", apperrors.ErrConflict)
	}
	if err != nil {
		return nil, fmt.Errorf("update trade status: %w", err)
	}
	return &t, nil
}

// --- Messages ---

func (s *PostgresStorage) CreateMessage(ctx context.Context, msg *models.Message) error {
	err := s.pool.QueryRow(ctx, `
		INSERT INTO messages (trade_id, sender_id, content)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`, msg.TradeID, msg.SenderID, msg.Content).
		Scan(&msg.ID, &msg.CreatedAt)
	if err != nil {
		return fmt.Errorf("create message: %w", err)
	}
	return nil
}

func (s *PostgresStorage) GetMessages(ctx context.Context, tradeID uuid.UUID) ([]models.Message, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, trade_id, sender_id, content, created_at
		FROM messages
		WHERE trade_id = $1
		ORDER BY created_at ASC
	`, tradeID)
	if err != nil {
		return nil, fmt.Errorf("query messages: %w", err)
	}
	defer rows.Close()

	var messages []models.Message
	for rows.Next() {
		var m models.Message
		if err := rows.Scan(&m.ID, &m.TradeID, &m.SenderID, &m.Content, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan message: %w", err)
		}
		messages = append(messages, m)
	}
	return messages, rows.Err()
}

// applyUserUpdate copies set fields of upd onto u.
func applyUserUpdate(u *models.User, upd models.UserUpdate) {
	if upd.Email != nil {
		u.Email = *upd.Email
	}
	if upd.Bio != nil {
		u.Bio = *upd.Bio
	}
	if upd.Location != nil {
		u.Location = *upd.Location
	}
	if upd.Latitude != nil {
		u.Latitude = upd.Latitude
	}
	if upd.Longitude != nil {
		u.Longitude = upd.Longitude
	}
}

// applyItemUpdate copies set fields of upd onto it.
func applyItemUpdate(it *models.Item, upd models.ItemUpdate) {
	if upd.Title != nil {
		it.Title = *upd.Title
	}
	if upd.Description != nil {
		it.Description = *upd.Description
	}
	if upd.Category != nil {
		it.Category = *upd.Category
	}
	if upd.Images != nil {
		it.Images = *upd.Images
	}
	if upd.Location != nil {
		it.Location = *upd.Location
	}
	if upd.Latitude != nil {
		it.Latitude = upd.Latitude
	}
	if upd.Longitude != nil {
		it.Longitude = upd.Longitude
	}
}
