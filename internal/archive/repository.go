package archive

import (
	"context"
	"errors"
	"fmt"
	"time"

	"minibar/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// Repository defines write access to the PostgreSQL order archive, plus the
// reads needed to inspect it.
type Repository interface {
	// UpsertLine inserts the line or overwrites the archived copy with the same ID.
	UpsertLine(ctx context.Context, line model.OrderLine) error

	// DeleteLine removes an archived line. Unknown IDs are ignored.
	DeleteLine(ctx context.Context, id uuid.UUID) error

	// UpsertSlot records the committed time slot of a room.
	UpsertSlot(ctx context.Context, room string, slot model.TimeSlot) error

	// ClearSlot removes a room's committed time slot.
	ClearSlot(ctx context.Context, room string) error

	// LinesByRoom returns the archived lines of a room, newest first.
	LinesByRoom(ctx context.Context, room string) ([]model.OrderLine, error)

	// SlotByRoom returns a room's archived slot, or nil when none is stored.
	SlotByRoom(ctx context.Context, room string) (*model.TimeSlot, error)
}

// postgresRepository implements Repository using PostgreSQL.
type postgresRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewRepository creates a new PostgreSQL-backed archive repository.
func NewRepository(pool *pgxpool.Pool, logger zerolog.Logger) Repository {
	return &postgresRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "archive").Logger(),
	}
}

// UpsertLine inserts the line or overwrites the archived copy with the same ID.
func (r *postgresRepository) UpsertLine(ctx context.Context, line model.OrderLine) error {
	query := `
		INSERT INTO order_lines (id, room, product_id, product_name, unit_price, quantity, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5::numeric, $6, $7, now())
		ON CONFLICT (id) DO UPDATE SET
			quantity   = EXCLUDED.quantity,
			created_at = EXCLUDED.created_at,
			updated_at = now()
	`

	_, err := r.pool.Exec(ctx, query,
		line.ID,
		line.Room,
		line.Product.ID,
		line.Product.Name,
		line.Product.Price.String(),
		line.Quantity,
		line.CreatedAt,
	)
	if err != nil {
		r.logger.Error().
			Err(err).
			Str("line_id", line.ID.String()).
			Str("room", line.Room).
			Msg("failed to upsert order line")
		return fmt.Errorf("failed to upsert order line: %w", err)
	}

	r.logger.Debug().
		Str("line_id", line.ID.String()).
		Int("quantity", line.Quantity).
		Msg("order line archived")

	return nil
}

// DeleteLine removes an archived line. Unknown IDs are ignored.
func (r *postgresRepository) DeleteLine(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM order_lines WHERE id = $1`, id)
	if err != nil {
		r.logger.Error().Err(err).Str("line_id", id.String()).Msg("failed to delete order line")
		return fmt.Errorf("failed to delete order line: %w", err)
	}

	r.logger.Debug().
		Str("line_id", id.String()).
		Int64("rows", tag.RowsAffected()).
		Msg("order line removed from archive")

	return nil
}

// UpsertSlot records the committed time slot of a room.
func (r *postgresRepository) UpsertSlot(ctx context.Context, room string, slot model.TimeSlot) error {
	query := `
		INSERT INTO scheduled_slots (room, start_at, end_at, updated_at)
		VALUES ($1, $2, $3, now())
		ON CONFLICT (room) DO UPDATE SET
			start_at   = EXCLUDED.start_at,
			end_at     = EXCLUDED.end_at,
			updated_at = now()
	`

	if _, err := r.pool.Exec(ctx, query, room, slot.Start, slot.End); err != nil {
		r.logger.Error().Err(err).Str("room", room).Msg("failed to upsert scheduled slot")
		return fmt.Errorf("failed to upsert scheduled slot: %w", err)
	}

	return nil
}

// ClearSlot removes a room's committed time slot.
func (r *postgresRepository) ClearSlot(ctx context.Context, room string) error {
	if _, err := r.pool.Exec(ctx, `DELETE FROM scheduled_slots WHERE room = $1`, room); err != nil {
		r.logger.Error().Err(err).Str("room", room).Msg("failed to clear scheduled slot")
		return fmt.Errorf("failed to clear scheduled slot: %w", err)
	}

	return nil
}

// LinesByRoom returns the archived lines of a room, newest first.
func (r *postgresRepository) LinesByRoom(ctx context.Context, room string) ([]model.OrderLine, error) {
	query := `
		SELECT id, room, product_id, product_name, unit_price::text, quantity, created_at
		FROM order_lines
		WHERE room = $1
		ORDER BY created_at DESC, id
	`

	rows, err := r.pool.Query(ctx, query, room)
	if err != nil {
		r.logger.Error().Err(err).Str("room", room).Msg("failed to query order lines")
		return nil, fmt.Errorf("failed to query order lines: %w", err)
	}
	defer rows.Close()

	var lines []model.OrderLine
	for rows.Next() {
		var (
			line  model.OrderLine
			price string
		)
		err := rows.Scan(
			&line.ID,
			&line.Room,
			&line.Product.ID,
			&line.Product.Name,
			&price,
			&line.Quantity,
			&line.CreatedAt,
		)
		if err != nil {
			r.logger.Error().Err(err).Msg("failed to scan order line row")
			return nil, fmt.Errorf("failed to scan order line: %w", err)
		}

		line.Product.Price, err = decimal.NewFromString(price)
		if err != nil {
			return nil, fmt.Errorf("failed to parse unit price %q: %w", price, err)
		}
		lines = append(lines, line)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating order line rows")
		return nil, fmt.Errorf("error iterating order lines: %w", err)
	}

	return lines, nil
}

// SlotByRoom returns a room's archived slot, or nil when none is stored.
func (r *postgresRepository) SlotByRoom(ctx context.Context, room string) (*model.TimeSlot, error) {
	var start, end time.Time
	err := r.pool.QueryRow(ctx,
		`SELECT start_at, end_at FROM scheduled_slots WHERE room = $1`, room,
	).Scan(&start, &end)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		r.logger.Error().Err(err).Str("room", room).Msg("failed to query scheduled slot")
		return nil, fmt.Errorf("failed to query scheduled slot: %w", err)
	}

	return &model.TimeSlot{Start: start, End: end}, nil
}
