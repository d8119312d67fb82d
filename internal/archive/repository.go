package archive

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

// Repository defines the persistence operations for decode sessions.
// The abstraction keeps handlers and the pipeline testable without a
// real database.
type Repository interface {
	// CreateSession inserts a new session row.
	// Returns ErrSessionExists if the ID is already recorded.
	CreateSession(ctx context.Context, s Session) error

	// FinishSession stamps a session's finished_at.
	// Returns ErrSessionNotFound if the session does not exist.
	FinishSession(ctx context.Context, id string, at time.Time) error

	// GetSession retrieves a session by ID.
	// Returns ErrSessionNotFound if the session does not exist.
	GetSession(ctx context.Context, id string) (*Session, error)

	// ListSessions retrieves all sessions, newest first.
	ListSessions(ctx context.Context) ([]Session, error)

	// InsertAnnotation archives one decoded annotation.
	InsertAnnotation(ctx context.Context, a Annotation) error

	// ListAnnotations retrieves a session's annotations in bus order.
	// A non-empty row filters to that annotation row. A positive limit
	// pages the result; offset skips rows from the start.
	ListAnnotations(ctx context.Context, sessionID, row string, limit, offset int) ([]Annotation, error)

	// InsertMeasurement archives one numeric temperature sample.
	InsertMeasurement(ctx context.Context, m Measurement) error

	// ListMeasurements retrieves a session's measurements in bus order.
	ListMeasurements(ctx context.Context, sessionID string) ([]Measurement, error)
}

// SQLiteRepository implements Repository using SQLite.
type SQLiteRepository struct {
	db *sql.DB
}

// NewSQLiteRepository creates a new SQLite-backed repository.
// The db parameter should be an open SQLite connection with the archive
// schema migrated.
func NewSQLiteRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

// CreateSession inserts a new session row.
func (r *SQLiteRepository) CreateSession(ctx context.Context, s Session) error {
	query := `
		INSERT INTO sessions (id, source, radix, unit, started_at, finished_at)
		VALUES (?, ?, ?, ?, ?, ?)`

	_, err := r.db.ExecContext(ctx, query,
		s.ID,
		s.Source,
		s.Radix,
		s.Unit,
		s.StartedAt.UTC().Format(time.RFC3339),
		nullableTime(s.FinishedAt),
	)
	if err != nil {
		if isUniqueConstraintError(err) {
			return ErrSessionExists
		}
		return fmt.Errorf("inserting session: %w", err)
	}
	return nil
}

// FinishSession stamps a session's finished_at.
func (r *SQLiteRepository) FinishSession(ctx context.Context, id string, at time.Time) error {
	query := `UPDATE sessions SET finished_at = ? WHERE id = ?`

	res, err := r.db.ExecContext(ctx, query, at.UTC().Format(time.RFC3339), id)
	if err != nil {
		return fmt.Errorf("finishing session: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("finishing session: %w", err)
	}
	if rows == 0 {
		return ErrSessionNotFound
	}
	return nil
}

// GetSession retrieves a session by ID.
func (r *SQLiteRepository) GetSession(ctx context.Context, id string) (*Session, error) {
	query := `
		SELECT id, source, radix, unit, started_at, finished_at
		FROM sessions
		WHERE id = ?`

	s, err := scanSession(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("querying session by id: %w", err)
	}
	return s, nil
}

// ListSessions retrieves all sessions, newest first.
func (r *SQLiteRepository) ListSessions(ctx context.Context) ([]Session, error) {
	query := `
		SELECT id, source, radix, unit, started_at, finished_at
		FROM sessions
		ORDER BY started_at DESC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("querying sessions: %w", err)
	}
	defer rows.Close()

	var sessions []Session
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning session: %w", err)
		}
		sessions = append(sessions, *s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating sessions: %w", err)
	}
	return sessions, nil
}

// InsertAnnotation archives one decoded annotation.
func (r *SQLiteRepository) InsertAnnotation(ctx context.Context, a Annotation) error {
	variantsJSON, err := json.Marshal(a.Variants)
	if err != nil {
		return fmt.Errorf("marshalling variants: %w", err)
	}

	query := `
		INSERT INTO annotations (session_id, row, ss, es, text, variants)
		VALUES (?, ?, ?, ?, ?, ?)`

	_, err = r.db.ExecContext(ctx, query,
		a.SessionID,
		a.Row,
		a.Start,
		a.End,
		a.Text,
		string(variantsJSON),
	)
	if err != nil {
		return fmt.Errorf("inserting annotation: %w", err)
	}
	return nil
}

// ListAnnotations retrieves a session's annotations in bus order.
func (r *SQLiteRepository) ListAnnotations(ctx context.Context, sessionID, row string, limit, offset int) ([]Annotation, error) {
	query := `
		SELECT id, session_id, row, ss, es, text, variants
		FROM annotations
		WHERE session_id = ?`
	args := []any{sessionID}

	if row != "" {
		query += ` AND row = ?`
		args = append(args, row)
	}
	query += ` ORDER BY ss, id`

	if limit > 0 {
		query += ` LIMIT ? OFFSET ?`
		args = append(args, limit, offset)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying annotations: %w", err)
	}
	defer rows.Close()

	var annotations []Annotation
	for rows.Next() {
		var a Annotation
		var variantsJSON string
		if err := rows.Scan(&a.ID, &a.SessionID, &a.Row, &a.Start, &a.End, &a.Text, &variantsJSON); err != nil {
			return nil, fmt.Errorf("scanning annotation: %w", err)
		}
		if err := json.Unmarshal([]byte(variantsJSON), &a.Variants); err != nil {
			return nil, fmt.Errorf("unmarshalling variants: %w", err)
		}
		annotations = append(annotations, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating annotations: %w", err)
	}
	return annotations, nil
}

// InsertMeasurement archives one numeric temperature sample.
func (r *SQLiteRepository) InsertMeasurement(ctx context.Context, m Measurement) error {
	query := `
		INSERT INTO measurements (session_id, register, celsius, value, unit, ss, es)
		VALUES (?, ?, ?, ?, ?, ?, ?)`

	_, err := r.db.ExecContext(ctx, query,
		m.SessionID,
		m.Register,
		m.Celsius,
		m.Value,
		m.Unit,
		m.Start,
		m.End,
	)
	if err != nil {
		return fmt.Errorf("inserting measurement: %w", err)
	}
	return nil
}

// ListMeasurements retrieves a session's measurements in bus order.
func (r *SQLiteRepository) ListMeasurements(ctx context.Context, sessionID string) ([]Measurement, error) {
	query := `
		SELECT id, session_id, register, celsius, value, unit, ss, es
		FROM measurements
		WHERE session_id = ?
		ORDER BY ss, id`

	rows, err := r.db.QueryContext(ctx, query, sessionID)
	if err != nil {
		return nil, fmt.Errorf("querying measurements: %w", err)
	}
	defer rows.Close()

	var measurements []Measurement
	for rows.Next() {
		var m Measurement
		if err := rows.Scan(&m.ID, &m.SessionID, &m.Register, &m.Celsius, &m.Value, &m.Unit, &m.Start, &m.End); err != nil {
			return nil, fmt.Errorf("scanning measurement: %w", err)
		}
		measurements = append(measurements, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating measurements: %w", err)
	}
	return measurements, nil
}

// scanner abstracts sql.Row and sql.Rows for shared scan logic.
type scanner interface {
	Scan(dest ...any) error
}

// scanSession reads one session row.
func scanSession(sc scanner) (*Session, error) {
	var s Session
	var startedAt string
	var finishedAt sql.NullString

	if err := sc.Scan(&s.ID, &s.Source, &s.Radix, &s.Unit, &startedAt, &finishedAt); err != nil {
		return nil, err
	}

	var err error
	s.StartedAt, err = time.Parse(time.RFC3339, startedAt)
	if err != nil {
		return nil, fmt.Errorf("parsing started_at: %w", err)
	}
	if finishedAt.Valid {
		t, err := time.Parse(time.RFC3339, finishedAt.String)
		if err != nil {
			return nil, fmt.Errorf("parsing finished_at: %w", err)
		}
		s.FinishedAt = &t
	}
	return &s, nil
}

// nullableTime returns a sql.NullString for optional time pointers (as RFC3339 strings).
func nullableTime(t *time.Time) sql.NullString {
	if t == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: t.UTC().Format(time.RFC3339), Valid: true}
}

// isUniqueConstraintError checks if an error is a SQLite unique constraint violation.
func isUniqueConstraintError(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "unique constraint")
}
