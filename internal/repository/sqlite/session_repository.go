package sqlite

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/akorhonen/icefish-log/internal/domain"
)

// SessionRepository implements domain.SessionRepository using SQLite.
// After every confirmed mutation it re-reads the table and delivers a
// full snapshot, newest trip first, to all subscribers. This mirrors a
// realtime backend's observe-the-whole-collection feed: the caller never
// applies a mutation locally, it waits for the snapshot.
type SessionRepository struct {
	db *Database

	mu     sync.Mutex
	nextID int
	subs   map[int]func([]domain.Session)
}

// NewSessionRepository creates a new SessionRepository
func NewSessionRepository(db *Database) *SessionRepository {
	return &SessionRepository{
		db:   db,
		subs: make(map[int]func([]domain.Session)),
	}
}

// Load retrieves the full session collection, newest trip date first.
// Rows missing an id or location are skipped and unknown enum values are
// defaulted or dropped, so one malformed record never fails the load.
func (r *SessionRepository) Load(ctx context.Context) ([]domain.Session, error) {
	query := `
		SELECT id, date, location, water_type, ice_condition, weather, fish_caught, overall_result, notes, created_at, updated_at
		FROM sessions
		ORDER BY date DESC
	`

	rows, err := r.db.GetDB().QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to load sessions: %w", err)
	}
	defer rows.Close()

	sessions := make([]domain.Session, 0)

	for rows.Next() {
		var (
			id, location, waterType, iceCondition string
			weatherJSON, fishJSON                 string
			result, notes                         string
			date, createdAt, updatedAt            int64
		)

		if err := rows.Scan(&id, &date, &location, &waterType, &iceCondition,
			&weatherJSON, &fishJSON, &result, &notes, &createdAt, &updatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan session: %w", err)
		}

		if id == "" || location == "" {
			continue
		}

		sessions = append(sessions, domain.Session{
			ID:            id,
			Date:          time.Unix(date, 0).UTC(),
			Location:      location,
			WaterType:     domain.ParseWaterType(waterType),
			IceCondition:  domain.ParseIceCondition(iceCondition),
			Weather:       domain.ParseWeatherList(decodeStringList(weatherJSON)),
			FishCaught:    domain.ParseFishList(decodeStringList(fishJSON)),
			OverallResult: domain.ParseSessionResult(result),
			Notes:         notes,
			CreatedAt:     time.Unix(createdAt, 0).UTC(),
			UpdatedAt:     time.Unix(updatedAt, 0).UTC(),
		})
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read sessions: %w", err)
	}

	return sessions, nil
}

// Save upserts a session by id and notifies subscribers
func (r *SessionRepository) Save(ctx context.Context, session domain.Session) error {
	weatherJSON, err := encodeStringList(weatherStrings(session.Weather))
	if err != nil {
		return fmt.Errorf("failed to encode weather: %w", err)
	}
	fishJSON, err := encodeStringList(fishStrings(session.FishCaught))
	if err != nil {
		return fmt.Errorf("failed to encode fish: %w", err)
	}

	query := `
		INSERT INTO sessions (id, date, location, water_type, ice_condition, weather, fish_caught, overall_result, notes, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			date = excluded.date,
			location = excluded.location,
			water_type = excluded.water_type,
			ice_condition = excluded.ice_condition,
			weather = excluded.weather,
			fish_caught = excluded.fish_caught,
			overall_result = excluded.overall_result,
			notes = excluded.notes,
			updated_at = excluded.updated_at
	`

	_, err = r.db.GetDB().ExecContext(ctx, query,
		session.ID,
		session.Date.Unix(),
		session.Location,
		string(session.WaterType),
		string(session.IceCondition),
		weatherJSON,
		fishJSON,
		string(session.OverallResult),
		session.Notes,
		session.CreatedAt.Unix(),
		session.UpdatedAt.Unix(),
	)
	if err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}

	r.notify(ctx)
	return nil
}

// Delete removes a session by id and notifies subscribers
func (r *SessionRepository) Delete(ctx context.Context, id string) error {
	_, err := r.db.GetDB().ExecContext(ctx, `DELETE FROM sessions WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}

	r.notify(ctx)
	return nil
}

// DeleteAll removes every session and notifies subscribers
func (r *SessionRepository) DeleteAll(ctx context.Context) error {
	_, err := r.db.GetDB().ExecContext(ctx, `DELETE FROM sessions`)
	if err != nil {
		return fmt.Errorf("failed to delete sessions: %w", err)
	}

	r.notify(ctx)
	return nil
}

// Subscribe registers a snapshot callback and returns an unsubscribe
// function. Snapshots are delivered on the mutating goroutine, after the
// mutation has been confirmed by the database.
func (r *SessionRepository) Subscribe(fn func([]domain.Session)) func() {
	r.mu.Lock()
	defer r.mu.Unlock()

	id := r.nextID
	r.nextID++
	r.subs[id] = fn

	return func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		delete(r.subs, id)
	}
}

// Close closes the underlying database
func (r *SessionRepository) Close() error {
	return r.db.Close()
}

// notify reloads the collection and fans the snapshot out to subscribers.
// A failed reload is dropped; subscribers keep their last snapshot and the
// next successful mutation delivers a fresh one.
func (r *SessionRepository) notify(ctx context.Context) {
	snapshot, err := r.Load(ctx)
	if err != nil {
		return
	}

	r.mu.Lock()
	fns := make([]func([]domain.Session), 0, len(r.subs))
	for _, fn := range r.subs {
		fns = append(fns, fn)
	}
	r.mu.Unlock()

	for _, fn := range fns {
		fn(snapshot)
	}
}

func encodeStringList(values []string) (string, error) {
	raw, err := json.Marshal(values)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

// decodeStringList tolerates malformed stored JSON by returning an empty
// list, in line with the lenient per-record decode policy.
func decodeStringList(raw string) []string {
	var values []string
	if err := json.Unmarshal([]byte(raw), &values); err != nil {
		return nil
	}
	return values
}

func weatherStrings(values []domain.WeatherCondition) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = string(v)
	}
	return out
}

func fishStrings(values []domain.FishSpecies) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = string(v)
	}
	return out
}

var _ domain.SessionRepository = (*SessionRepository)(nil)
