package itineraryrepo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/lakbay-tourism/itinerary-api/internal/adapters/postgres"
	"github.com/lakbay-tourism/itinerary-api/internal/domain"
	"github.com/lakbay-tourism/itinerary-api/internal/ports/out/itineraryrepo"
)

// Repo is a Postgres implementation of itineraryrepo.Repository.
// Day lists are stored as one JSONB column: the repository is a whole-record
// store by contract, so there is nothing to gain from relational day rows.
type Repo struct {
	pool *pgxpool.Pool
}

func NewRepo(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

func (r *Repo) Create(ctx context.Context, rec itineraryrepo.Record) error {
	if r.pool == nil {
		return errors.New("nil postgres pool")
	}
	days, err := marshalDays(rec.Days)
	if err != nil {
		return err
	}
	_, err = r.pool.Exec(ctx, `
		INSERT INTO itineraries (
			id, owner_subject, title, start_date, end_date, days, created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
	`,
		string(rec.ID),
		string(rec.Owner),
		rec.Title,
		rec.Start,
		rec.End,
		days,
		rec.CreatedAt.UTC(),
		rec.UpdatedAt.UTC(),
	)
	if err != nil {
		if pe, ok := postgres.AsPgError(err); ok && pe.Code == postgres.UniqueViolationCode {
			return itineraryrepo.ErrAlreadyExists
		}
		return err
	}
	return nil
}

func (r *Repo) Save(ctx context.Context, rec itineraryrepo.Record) error {
	if r.pool == nil {
		return errors.New("nil postgres pool")
	}
	days, err := marshalDays(rec.Days)
	if err != nil {
		return err
	}
	tag, err := r.pool.Exec(ctx, `
		UPDATE itineraries
		SET owner_subject = $2,
		    title = $3,
		    start_date = $4,
		    end_date = $5,
		    days = $6,
		    updated_at = $7
		WHERE id = $1
	`,
		string(rec.ID),
		string(rec.Owner),
		rec.Title,
		rec.Start,
		rec.End,
		days,
		rec.UpdatedAt.UTC(),
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return itineraryrepo.ErrNotFound
	}
	return nil
}

func (r *Repo) GetByID(ctx context.Context, id domain.ItineraryID) (itineraryrepo.Record, error) {
	if r.pool == nil {
		return itineraryrepo.Record{}, errors.New("nil postgres pool")
	}
	row := r.pool.QueryRow(ctx, `
		SELECT id, owner_subject, title, start_date, end_date, days, created_at, updated_at
		FROM itineraries
		WHERE id = $1
	`, string(id))
	rec, err := scanRecord(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return itineraryrepo.Record{}, itineraryrepo.ErrNotFound
	}
	return rec, err
}

func (r *Repo) ListByOwner(ctx context.Context, owner domain.SubjectID) ([]itineraryrepo.Record, error) {
	if r.pool == nil {
		return nil, errors.New("nil postgres pool")
	}
	rows, err := r.pool.Query(ctx, `
		SELECT id, owner_subject, title, start_date, end_date, days, created_at, updated_at
		FROM itineraries
		WHERE owner_subject = $1
		ORDER BY created_at, id
	`, string(owner))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]itineraryrepo.Record, 0)
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (r *Repo) Delete(ctx context.Context, id domain.ItineraryID) error {
	if r.pool == nil {
		return errors.New("nil postgres pool")
	}
	tag, err := r.pool.Exec(ctx, `DELETE FROM itineraries WHERE id = $1`, string(id))
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return itineraryrepo.ErrNotFound
	}
	return nil
}

func marshalDays(days domain.DaySpots) ([]byte, error) {
	if days == nil {
		days = domain.DaySpots{}
	}
	b, err := json.Marshal(days)
	if err != nil {
		return nil, fmt.Errorf("marshal itinerary days: %w", err)
	}
	return b, nil
}

func scanRecord(row pgx.Row) (itineraryrepo.Record, error) {
	var (
		rec  itineraryrepo.Record
		id   string
		own  string
		days []byte
	)
	if err := row.Scan(&id, &own, &rec.Title, &rec.Start, &rec.End, &days, &rec.CreatedAt, &rec.UpdatedAt); err != nil {
		return itineraryrepo.Record{}, err
	}
	rec.ID = domain.ItineraryID(id)
	rec.Owner = domain.SubjectID(own)
	if err := json.Unmarshal(days, &rec.Days); err != nil {
		return itineraryrepo.Record{}, fmt.Errorf("unmarshal itinerary days: %w", err)
	}
	return rec, nil
}
