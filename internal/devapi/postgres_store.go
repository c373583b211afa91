package devapi

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/excursio/excursio-client/internal/domain/booking"
	"github.com/excursio/excursio-client/internal/domain/excursion"
	"github.com/excursio/excursio-client/internal/domain/inventory"
)

// PostgresStore backs the dev API with Postgres so inventory survives
// restarts. The schema is ensured on start; this is dev tooling, not a
// migration system.
type PostgresStore struct {
	db *sqlx.DB
}

// NewPostgresStore creates the store and ensures its schema.
func NewPostgresStore(ctx context.Context, db *sqlx.DB) (*PostgresStore, error) {
	s := &PostgresStore{db: db}
	if err := s.ensureSchema(ctx); err != nil {
		return nil, fmt.Errorf("ensure schema: %w", err)
	}
	return s, nil
}

func (s *PostgresStore) ensureSchema(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS excursions (
			id          UUID PRIMARY KEY,
			title       TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			city        TEXT NOT NULL DEFAULT ''
		)`,
		`CREATE TABLE IF NOT EXISTS ticket_slots (
			excursion_id UUID NOT NULL REFERENCES excursions(id) ON DELETE CASCADE,
			date_key     TEXT NOT NULL,
			category     TEXT NOT NULL,
			count        INT NOT NULL CHECK (count >= 0),
			price_minor  BIGINT NOT NULL CHECK (price_minor >= 0),
			currency     TEXT NOT NULL,
			PRIMARY KEY (excursion_id, date_key, category)
		)`,
		`CREATE TABLE IF NOT EXISTS bookings (
			id           UUID PRIMARY KEY,
			user_id      UUID NOT NULL,
			excursion_id UUID NOT NULL REFERENCES excursions(id),
			date_key     TEXT NOT NULL,
			category     TEXT NOT NULL,
			quantity     INT NOT NULL CHECK (quantity >= 1),
			total_minor  BIGINT NOT NULL,
			currency     TEXT NOT NULL,
			status       TEXT NOT NULL,
			created_at   TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

func (s *PostgresStore) PutExcursion(ctx context.Context, exc *excursion.Excursion) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO excursions (id, title, description, city)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (id) DO UPDATE SET title = $2, description = $3, city = $4
	`, exc.ID, exc.Title, exc.Description, exc.City); err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM ticket_slots WHERE excursion_id = $1`, exc.ID); err != nil {
		return err
	}
	for dateKey, categories := range exc.Inventory {
		for category, slot := range categories {
			if _, err := tx.ExecContext(ctx, `
				INSERT INTO ticket_slots (excursion_id, date_key, category, count, price_minor, currency)
				VALUES ($1, $2, $3, $4, $5, $6)
			`, exc.ID, dateKey, category, slot.Count, slot.PriceMinor, slot.Currency); err != nil {
				return err
			}
		}
	}

	return tx.Commit()
}

type excursionRow struct {
	ID          uuid.UUID `db:"id"`
	Title       string    `db:"title"`
	Description string    `db:"description"`
	City        string    `db:"city"`
}

type slotRow struct {
	ExcursionID uuid.UUID `db:"excursion_id"`
	DateKey     string    `db:"date_key"`
	Category    string    `db:"category"`
	Count       int       `db:"count"`
	PriceMinor  int64     `db:"price_minor"`
	Currency    string    `db:"currency"`
}

func (s *PostgresStore) ListExcursions(ctx context.Context) ([]*excursion.Excursion, error) {
	var rows []excursionRow
	if err := s.db.SelectContext(ctx, &rows, `SELECT id, title, description, city FROM excursions ORDER BY title`); err != nil {
		return nil, err
	}

	out := make([]*excursion.Excursion, 0, len(rows))
	for _, row := range rows {
		exc, err := s.loadExcursion(ctx, row)
		if err != nil {
			return nil, err
		}
		out = append(out, exc)
	}
	return out, nil
}

func (s *PostgresStore) GetExcursion(ctx context.Context, id uuid.UUID) (*excursion.Excursion, error) {
	var row excursionRow
	err := s.db.GetContext(ctx, &row, `SELECT id, title, description, city FROM excursions WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrExcursionNotFound
	}
	if err != nil {
		return nil, err
	}
	return s.loadExcursion(ctx, row)
}

func (s *PostgresStore) loadExcursion(ctx context.Context, row excursionRow) (*excursion.Excursion, error) {
	var slots []slotRow
	if err := s.db.SelectContext(ctx, &slots, `
		SELECT excursion_id, date_key, category, count, price_minor, currency
		FROM ticket_slots WHERE excursion_id = $1
	`, row.ID); err != nil {
		return nil, err
	}

	inv := make(inventory.Inventory)
	for _, slot := range slots {
		if inv[slot.DateKey] == nil {
			inv[slot.DateKey] = make(map[string]inventory.TicketSlot)
		}
		inv[slot.DateKey][slot.Category] = inventory.TicketSlot{
			Count:      slot.Count,
			PriceMinor: slot.PriceMinor,
			Currency:   slot.Currency,
		}
	}

	return &excursion.Excursion{
		ID:          row.ID,
		Title:       row.Title,
		Description: row.Description,
		City:        row.City,
		Inventory:   inv,
	}, nil
}

func (s *PostgresStore) CreateBooking(ctx context.Context, req booking.Request) (*booking.Booking, error) {
	excursionID, err := uuid.Parse(req.ExcursionID)
	if err != nil {
		return nil, requestErrorf("invalid excursion id: %v", err)
	}
	userID, err := uuid.Parse(req.UserID)
	if err != nil {
		return nil, requestErrorf("invalid user id: %v", err)
	}

	tx, err := s.db.BeginTxx(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	// Conditional decrement: the count >= quantity guard makes the check and
	// the decrement one atomic statement.
	var slot slotRow
	err = tx.GetContext(ctx, &slot, `
		UPDATE ticket_slots
		SET count = count - $1
		WHERE excursion_id = $2 AND date_key = $3 AND category = $4 AND count >= $1
		RETURNING excursion_id, date_key, category, count, price_minor, currency
	`, req.Quantity, excursionID, req.DateTime, req.TicketCategory)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, s.rejectWithAvailable(ctx, tx, excursionID, req)
	}
	if err != nil {
		return nil, err
	}

	total := slot.PriceMinor * int64(req.Quantity)
	if req.Total != inventory.FormatPrice(total) || req.Currency != slot.Currency {
		return nil, requestErrorf("total mismatch: expected %s %s", inventory.FormatPrice(total), slot.Currency)
	}

	record := booking.Booking{
		ID:             uuid.New(),
		UserID:         userID,
		ExcursionID:    excursionID,
		TicketCategory: req.TicketCategory,
		DateTime:       req.DateTime,
		Quantity:       req.Quantity,
		Status:         booking.StatusPending,
		Total:          inventory.FormatPrice(total),
		Currency:       slot.Currency,
	}
	err = tx.GetContext(ctx, &record.CreatedAt, `
		INSERT INTO bookings (id, user_id, excursion_id, date_key, category, quantity, total_minor, currency, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING created_at
	`, record.ID, record.UserID, record.ExcursionID, record.DateTime, record.TicketCategory,
		record.Quantity, total, record.Currency, record.Status)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return &record, nil
}

// rejectWithAvailable distinguishes a missing excursion from an exhausted
// slot and reports the remaining count for the latter.
func (s *PostgresStore) rejectWithAvailable(ctx context.Context, tx *sqlx.Tx, excursionID uuid.UUID, req booking.Request) error {
	var exists bool
	if err := tx.GetContext(ctx, &exists, `SELECT EXISTS (SELECT 1 FROM excursions WHERE id = $1)`, excursionID); err != nil {
		return err
	}
	if !exists {
		return ErrExcursionNotFound
	}

	var available int
	err := tx.GetContext(ctx, &available, `
		SELECT count FROM ticket_slots
		WHERE excursion_id = $1 AND date_key = $2 AND category = $3
	`, excursionID, req.DateTime, req.TicketCategory)
	if errors.Is(err, sql.ErrNoRows) {
		return &InsufficientError{Available: 0}
	}
	if err != nil {
		return err
	}
	return &InsufficientError{Available: available}
}

func (s *PostgresStore) ListBookings(ctx context.Context, userID uuid.UUID) ([]booking.Booking, error) {
	type bookingRow struct {
		booking.Booking
		TotalMinor int64 `db:"total_minor"`
	}

	var rows []bookingRow
	if err := s.db.SelectContext(ctx, &rows, `
		SELECT id, user_id, excursion_id, date_key, category, quantity, total_minor, currency, status, created_at
		FROM bookings WHERE user_id = $1 ORDER BY created_at DESC
	`, userID); err != nil {
		return nil, err
	}

	out := make([]booking.Booking, 0, len(rows))
	for _, row := range rows {
		record := row.Booking
		record.Total = inventory.FormatPrice(row.TotalMinor)
		out = append(out, record)
	}
	return out, nil
}
