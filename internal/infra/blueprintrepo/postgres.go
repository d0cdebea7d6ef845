package blueprintrepo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/yanqian/trip-blueprint/internal/domain/blueprint"
)

const schema = `
CREATE TABLE IF NOT EXISTS blueprints (
	id               UUID PRIMARY KEY,
	origin           TEXT NOT NULL,
	destination_name TEXT NOT NULL,
	departure_date   DATE NOT NULL,
	duration         INT NOT NULL,
	travelers        INT NOT NULL,
	total_cost       INT NOT NULL,
	payload          JSONB NOT NULL,
	generated_at     TIMESTAMPTZ NOT NULL
)`

// PostgresRepository archives blueprints as JSONB rows using pgx.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository constructs the repository.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// EnsureSchema creates the archive table when missing.
func (r *PostgresRepository) EnsureSchema(ctx context.Context) error {
	if _, err := r.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("create blueprints table: %w", err)
	}
	return nil
}

// Save implements blueprint.Archive.
func (r *PostgresRepository) Save(ctx context.Context, bp blueprint.Blueprint) error {
	id, err := uuid.Parse(bp.ID)
	if err != nil {
		return fmt.Errorf("archive blueprint: %w", err)
	}
	payload, err := json.Marshal(bp)
	if err != nil {
		return err
	}
	_, err = r.pool.Exec(ctx, `
		INSERT INTO blueprints (id, origin, destination_name, departure_date, duration, travelers, total_cost, payload, generated_at)
		VALUES ($1, $2, $3, $4::date, $5, $6, $7, $8, $9)
		ON CONFLICT (id) DO NOTHING
	`, id, bp.TripDetails.Origin, bp.TripDetails.DestinationName, bp.TripDetails.DepartureDate,
		bp.TripDetails.Duration, bp.TripDetails.Travelers, bp.Budget.TotalEstimatedCost, payload, bp.GeneratedAt)
	return err
}

// Find implements blueprint.Archive.
func (r *PostgresRepository) Find(ctx context.Context, id uuid.UUID) (blueprint.Blueprint, bool, error) {
	var payload []byte
	err := r.pool.QueryRow(ctx, `SELECT payload FROM blueprints WHERE id = $1`, id).Scan(&payload)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return blueprint.Blueprint{}, false, nil
		}
		return blueprint.Blueprint{}, false, err
	}
	var bp blueprint.Blueprint
	if err := json.Unmarshal(payload, &bp); err != nil {
		return blueprint.Blueprint{}, false, fmt.Errorf("decode archived blueprint: %w", err)
	}
	return bp, true, nil
}

var _ blueprint.Archive = (*PostgresRepository)(nil)
