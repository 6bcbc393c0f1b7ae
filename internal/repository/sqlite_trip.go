package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/alexanderramin/trek/internal/db"
	"github.com/alexanderramin/trek/internal/domain"
)

const tripColumns = `id, name, location, start_date, end_date, days, budget, spent, status,
		itinerary_json, lodging_json, transport_tips, packing_json, notes, source,
		created_at, updated_at`

// SQLiteTripRepo implements TripRepo.
type SQLiteTripRepo struct {
	db db.DBTX
}

func NewSQLiteTripRepo(conn db.DBTX) *SQLiteTripRepo {
	return &SQLiteTripRepo{db: conn}
}

// tripDayRow is the stored form of a TripDay.
type tripDayRow struct {
	Day        int               `json:"day"`
	Date       string            `json:"date"`
	Theme      string            `json:"theme"`
	Activities []domain.Activity `json:"activities"`
}

func (r *SQLiteTripRepo) Create(ctx context.Context, t *domain.TripRecord) error {
	args, err := tripArgs(t)
	if err != nil {
		return err
	}
	query := `INSERT INTO trips (` + tripColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("inserting trip: %w", err)
	}
	return nil
}

func (r *SQLiteTripRepo) GetByID(ctx context.Context, id string) (*domain.TripRecord, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+tripColumns+` FROM trips WHERE id = ?`, id)
	return scanTrip(row)
}

// Resolve accepts a full ID or a unique prefix of one, as printed by the
// trip list.
func (r *SQLiteTripRepo) Resolve(ctx context.Context, idOrPrefix string) (*domain.TripRecord, error) {
	if idOrPrefix == "" {
		return nil, fmt.Errorf("trip: %w", ErrNotFound)
	}
	t, err := r.GetByID(ctx, idOrPrefix)
	if err == nil || !errors.Is(err, ErrNotFound) {
		return t, err
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT `+tripColumns+` FROM trips WHERE id LIKE ? ESCAPE '\' LIMIT 2`,
		escapeLike(idOrPrefix)+"%")
	if err != nil {
		return nil, fmt.Errorf("resolving trip id: %w", err)
	}
	defer rows.Close()
	trips, err := scanTrips(rows)
	if err != nil {
		return nil, err
	}
	switch len(trips) {
	case 0:
		return nil, fmt.Errorf("trip %s: %w", idOrPrefix, ErrNotFound)
	case 1:
		return trips[0], nil
	}
	return nil, fmt.Errorf("trip %s: %w", idOrPrefix, ErrAmbiguousID)
}

// List returns trips by start date, newest first. An empty status lists all.
func (r *SQLiteTripRepo) List(ctx context.Context, status domain.TripStatus) ([]*domain.TripRecord, error) {
	query := `SELECT ` + tripColumns + ` FROM trips`
	var args []any
	if status != "" {
		query += ` WHERE status = ?`
		args = append(args, string(status))
	}
	query += ` ORDER BY start_date DESC, created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing trips: %w", err)
	}
	defer rows.Close()
	return scanTrips(rows)
}

func (r *SQLiteTripRepo) Update(ctx context.Context, t *domain.TripRecord) error {
	args, err := tripArgs(t)
	if err != nil {
		return err
	}
	query := `UPDATE trips SET name = ?, location = ?, start_date = ?, end_date = ?, days = ?,
		budget = ?, spent = ?, status = ?, itinerary_json = ?, lodging_json = ?,
		transport_tips = ?, packing_json = ?, notes = ?, source = ?, created_at = ?, updated_at = ?
		WHERE id = ?`
	res, err := r.db.ExecContext(ctx, query, append(args[1:], t.ID)...)
	if err != nil {
		return fmt.Errorf("updating trip: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("trip %s: %w", t.ID, ErrNotFound)
	}
	return nil
}

func (r *SQLiteTripRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM trips WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting trip: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("trip %s: %w", id, ErrNotFound)
	}
	return nil
}

func tripArgs(t *domain.TripRecord) ([]any, error) {
	days := make([]tripDayRow, len(t.Itinerary))
	for i, d := range t.Itinerary {
		days[i] = tripDayRow{Day: d.DayIndex, Date: d.Date.Format(domain.DateLayout), Theme: d.Theme, Activities: d.Activities}
	}
	itinerary, err := encodeJSON(days)
	if err != nil {
		return nil, fmt.Errorf("encoding itinerary: %w", err)
	}
	lodging, err := encodeJSON(t.AccommodationSuggestions)
	if err != nil {
		return nil, fmt.Errorf("encoding accommodation: %w", err)
	}
	packing, err := encodeJSON(t.PackingList)
	if err != nil {
		return nil, fmt.Errorf("encoding packing list: %w", err)
	}
	return []any{
		t.ID,
		t.Name,
		t.Location,
		t.StartDate.Format(domain.DateLayout),
		t.EndDate.Format(domain.DateLayout),
		t.Days,
		t.Budget,
		t.Spent,
		string(t.Status),
		itinerary,
		lodging,
		t.TransportTips,
		packing,
		t.Notes,
		string(t.Source),
		t.CreatedAt.UTC().Format(time.RFC3339),
		t.UpdatedAt.UTC().Format(time.RFC3339),
	}, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTrip(row *sql.Row) (*domain.TripRecord, error) {
	t, err := scanTripRow(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("trip: %w", ErrNotFound)
	}
	return t, err
}

func scanTrips(rows *sql.Rows) ([]*domain.TripRecord, error) {
	var trips []*domain.TripRecord
	for rows.Next() {
		t, err := scanTripRow(rows)
		if err != nil {
			return nil, err
		}
		trips = append(trips, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating trips: %w", err)
	}
	return trips, nil
}

func scanTripRow(s rowScanner) (*domain.TripRecord, error) {
	var t domain.TripRecord
	var start, end, status, itinerary, lodging, packing, source, created, updated string
	err := s.Scan(
		&t.ID, &t.Name, &t.Location, &start, &end, &t.Days, &t.Budget, &t.Spent, &status,
		&itinerary, &lodging, &t.TransportTips, &packing, &t.Notes, &source,
		&created, &updated,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning trip: %w", err)
	}
	t.Status = domain.TripStatus(status)
	t.Source = domain.PlanSource(source)

	if t.StartDate, err = time.Parse(domain.DateLayout, start); err != nil {
		return nil, fmt.Errorf("parsing trip start_date: %w", err)
	}
	if t.EndDate, err = time.Parse(domain.DateLayout, end); err != nil {
		return nil, fmt.Errorf("parsing trip end_date: %w", err)
	}
	if t.CreatedAt, err = time.Parse(time.RFC3339, created); err != nil {
		return nil, fmt.Errorf("parsing trip created_at: %w", err)
	}
	if t.UpdatedAt, err = time.Parse(time.RFC3339, updated); err != nil {
		return nil, fmt.Errorf("parsing trip updated_at: %w", err)
	}

	days, err := decodeJSON[tripDayRow](itinerary, "itinerary_json")
	if err != nil {
		return nil, err
	}
	t.Itinerary = make([]domain.TripDay, len(days))
	for i, d := range days {
		date, err := time.Parse(domain.DateLayout, d.Date)
		if err != nil {
			return nil, fmt.Errorf("parsing itinerary date: %w", err)
		}
		t.Itinerary[i] = domain.TripDay{DayIndex: d.Day, Date: date, Theme: d.Theme, Activities: d.Activities}
	}
	if t.AccommodationSuggestions, err = decodeJSON[domain.Accommodation](lodging, "lodging_json"); err != nil {
		return nil, err
	}
	if t.PackingList, err = decodeJSON[string](packing, "packing_json"); err != nil {
		return nil, err
	}
	return &t, nil
}
