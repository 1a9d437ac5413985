package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"eventhub/internal/domain"
)

const eventColumns = `id, title, description, image_url, max_participants, event_date, is_done, created_by, created_at, updated_at`

type eventRepository struct {
	DB *sql.DB
}

func NewEventRepository(db *sql.DB) domain.EventRepository {
	return &eventRepository{
		DB: db,
	}
}

type rowScanner interface {
	Scan(dest ...any) error
}

// scanEvent reads eventColumns (in order) followed by any extra destinations.
func scanEvent(row rowScanner, extra ...any) (*domain.Event, error) {
	e := &domain.Event{}
	var descNull, imageNull sql.NullString
	dest := []any{
		&e.ID, &e.Title, &descNull, &imageNull, &e.MaxParticipants, &e.EventDate,
		&e.IsDone, &e.CreatedBy, &e.CreatedAt, &e.UpdatedAt,
	}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		return nil, err
	}
	if descNull.Valid {
		e.Description = &descNull.String
	}
	if imageNull.Valid {
		e.ImageURL = &imageNull.String
	}
	return e, nil
}

func (r *eventRepository) Create(ctx context.Context, e *domain.Event) error {
	query := `
		INSERT INTO events (title, description, image_url, max_participants, event_date, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, is_done
	`
	err := r.DB.QueryRowContext(ctx, query,
		e.Title, e.Description, e.ImageURL, e.MaxParticipants, e.EventDate, e.CreatedBy, e.CreatedAt, e.UpdatedAt,
	).Scan(&e.ID, &e.IsDone)
	if err != nil {
		if isPQCode(err, pqForeignKeyViolation) {
			return domain.ErrUserNotFound
		}
		return err
	}
	return nil
}

func (r *eventRepository) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE id = $1`
	e, err := scanEvent(r.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return e, nil
}

func (r *eventRepository) ListWithParticipantCount(ctx context.Context) ([]*domain.EventWithCount, error) {
	query := `
		SELECT e.id, e.title, e.description, e.image_url, e.max_participants, e.event_date, e.is_done,
			e.created_by, e.created_at, e.updated_at, COUNT(p.user_id) AS participant_count
		FROM events e
		LEFT JOIN participations p ON p.event_id = e.id
		GROUP BY e.id
		ORDER BY e.event_date ASC, e.created_at ASC
	`
	rows, err := r.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	events := make([]*domain.EventWithCount, 0)
	for rows.Next() {
		var count int
		e, err := scanEvent(rows, &count)
		if err != nil {
			return nil, err
		}
		events = append(events, &domain.EventWithCount{Event: *e, ParticipantCount: count})
	}
	return events, rows.Err()
}

func (r *eventRepository) Update(ctx context.Context, id string, upd domain.EventUpdate) (*domain.Event, error) {
	if upd.Empty() {
		return r.GetByID(ctx, id)
	}

	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	// Same lock as JoinWithinCapacity, so a capacity decrease cannot interleave with a join.
	var currentMax int
	err = tx.QueryRowContext(ctx, `SELECT max_participants FROM events WHERE id = $1 FOR UPDATE`, id).Scan(&currentMax)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("lock event: %w", err)
	}
	if upd.MaxParticipants != nil && *upd.MaxParticipants < currentMax {
		var count int
		if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM participations WHERE event_id = $1`, id).Scan(&count); err != nil {
			return nil, fmt.Errorf("count participants: %w", err)
		}
		if count > *upd.MaxParticipants {
			return nil, domain.ErrCapacityBelowParticipants
		}
	}

	setClauses := []string{"updated_at = NOW()"}
	args := []any{}
	n := 1
	add := func(column string, value any) {
		setClauses = append(setClauses, fmt.Sprintf("%s = $%d", column, n))
		args = append(args, value)
		n++
	}
	if upd.Title != nil {
		add("title", *upd.Title)
	}
	if upd.Description != nil {
		add("description", *upd.Description)
	}
	if upd.ImageURL != nil {
		add("image_url", *upd.ImageURL)
	}
	if upd.MaxParticipants != nil {
		add("max_participants", *upd.MaxParticipants)
	}
	if upd.EventDate != nil {
		add("event_date", *upd.EventDate)
	}
	args = append(args, id)
	query := fmt.Sprintf(`
		UPDATE events SET %s
		WHERE id = $%d
		RETURNING %s
	`, strings.Join(setClauses, ", "), n, eventColumns)

	e, err := scanEvent(tx.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("update event: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	return e, nil
}

func (r *eventRepository) SetDone(ctx context.Context, id string, isDone bool) error {
	query := `UPDATE events SET is_done = $1, updated_at = NOW() WHERE id = $2`
	result, err := r.DB.ExecContext(ctx, query, isDone, id)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *eventRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM events WHERE id = $1`
	result, err := r.DB.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}
