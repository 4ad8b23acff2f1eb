package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/verdant-io/planttracker/internal/plant"
)

// PlantStore implements plant.Store using PostgreSQL. The record body lives
// in a JSONB document; owner and visibility are mirrored into indexed columns
// for the two lookup paths. The columns are authoritative on read.
type PlantStore struct {
	pool         *pgxpool.Pool
	queryTimeout time.Duration
}

// NewPlantStore creates a plant store. queryTimeout sets the per-query
// context deadline; zero means no timeout.
func NewPlantStore(pool *pgxpool.Pool, queryTimeout time.Duration) *PlantStore {
	return &PlantStore{pool: pool, queryTimeout: queryTimeout}
}

// withTimeout derives a child context with the configured query timeout.
// If queryTimeout is zero, the parent context is returned unchanged.
func (s *PlantStore) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.queryTimeout > 0 {
		return context.WithTimeout(ctx, s.queryTimeout)
	}
	return ctx, func() {}
}

// marshalDoc serializes the document body. Fields mirrored into columns (and
// the derived overdue flag) are cleared first so the row never carries two
// copies of the same fact.
func marshalDoc(p *plant.Plant) ([]byte, error) {
	cp := *p
	cp.ID = uuid.Nil
	cp.Owner = ""
	cp.Public = false
	cp.Overdue = false
	cp.CreatedAt = time.Time{}
	cp.UpdatedAt = time.Time{}
	doc, err := json.Marshal(&cp)
	if err != nil {
		return nil, fmt.Errorf("marshal plant doc: %w", err)
	}
	return doc, nil
}

func scanPlant(row pgx.Row) (*plant.Plant, error) {
	var (
		id        uuid.UUID
		owner     string
		isPublic  bool
		doc       []byte
		createdAt time.Time
		updatedAt time.Time
	)
	if err := row.Scan(&id, &owner, &isPublic, &doc, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	var p plant.Plant
	if err := json.Unmarshal(doc, &p); err != nil {
		return nil, fmt.Errorf("unmarshal plant doc: %w", err)
	}
	p.ID = id
	p.Owner = owner
	p.Public = isPublic
	p.CreatedAt = createdAt
	p.UpdatedAt = updatedAt
	p.Normalize()
	return &p, nil
}

const plantColumns = "id, owner_username, is_public, doc, created_at, updated_at"

func (s *PlantStore) FindByID(ctx context.Context, id uuid.UUID) (*plant.Plant, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	row := s.pool.QueryRow(ctx,
		`SELECT `+plantColumns+` FROM plants WHERE id = $1`, id)
	p, err := scanPlant(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, plant.ErrNotFound
		}
		return nil, fmt.Errorf("find plant by id: %w", err)
	}
	return p, nil
}

func (s *PlantStore) FindByOwner(ctx context.Context, owner string) ([]plant.Plant, error) {
	return s.findWhere(ctx, `owner_username = $1`, owner)
}

func (s *PlantStore) FindPublic(ctx context.Context) ([]plant.Plant, error) {
	return s.findWhere(ctx, `is_public`)
}

func (s *PlantStore) findWhere(ctx context.Context, where string, args ...any) ([]plant.Plant, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	rows, err := s.pool.Query(ctx,
		`SELECT `+plantColumns+` FROM plants WHERE `+where+` ORDER BY created_at`, args...)
	if err != nil {
		return nil, fmt.Errorf("query plants: %w", err)
	}
	defer rows.Close()

	var plants []plant.Plant
	for rows.Next() {
		p, err := scanPlant(rows)
		if err != nil {
			return nil, fmt.Errorf("scan plant: %w", err)
		}
		plants = append(plants, *p)
	}
	return plants, rows.Err()
}

// FindDue returns plants whose watering interval had fully elapsed before
// asOf's calendar date. Plants never watered or without a positive interval
// are not due. The date arithmetic runs in SQL against the JSONB document so
// the reminder scan does not page every plant through the process.
func (s *PlantStore) FindDue(ctx context.Context, asOf time.Time) ([]plant.Plant, error) {
	return s.findWhere(ctx, `
		doc->>'lastWateredDate' IS NOT NULL
		AND COALESCE((doc->>'wateringFrequencyDays')::int, 0) > 0
		AND (doc->>'lastWateredDate')::date + (doc->>'wateringFrequencyDays')::int < $1::date`,
		asOf.Format("2006-01-02"))
}

func (s *PlantStore) Create(ctx context.Context, p *plant.Plant) (*plant.Plant, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	doc, err := marshalDoc(p)
	if err != nil {
		return nil, err
	}
	row := s.pool.QueryRow(ctx, `
		INSERT INTO plants (owner_username, is_public, doc)
		VALUES ($1, $2, $3)
		RETURNING `+plantColumns,
		p.Owner, p.Public, doc)
	created, err := scanPlant(row)
	if err != nil {
		return nil, fmt.Errorf("insert plant: %w", err)
	}
	created.Overdue = p.Overdue
	return created, nil
}

func (s *PlantStore) Save(ctx context.Context, p *plant.Plant) (*plant.Plant, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	doc, err := marshalDoc(p)
	if err != nil {
		return nil, err
	}
	row := s.pool.QueryRow(ctx, `
		UPDATE plants
		SET owner_username = $2, is_public = $3, doc = $4, updated_at = now()
		WHERE id = $1
		RETURNING `+plantColumns,
		p.ID, p.Owner, p.Public, doc)
	saved, err := scanPlant(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, plant.ErrNotFound
		}
		return nil, fmt.Errorf("update plant: %w", err)
	}
	saved.Overdue = p.Overdue
	return saved, nil
}

func (s *PlantStore) Delete(ctx context.Context, id uuid.UUID) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	tag, err := s.pool.Exec(ctx, `DELETE FROM plants WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete plant: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return plant.ErrNotFound
	}
	return nil
}
