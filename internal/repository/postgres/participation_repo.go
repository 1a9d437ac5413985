package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"eventhub/internal/domain"
)

type participationRepository struct {
	DB *sql.DB
}

func NewParticipationRepository(db *sql.DB) domain.ParticipationRepository {
	return &participationRepository{
		DB: db,
	}
}

// JoinWithinCapacity locks the event row, so concurrent joins on one event run
// the count-check-insert sequence one after another and never overshoot capacity.
func (r *participationRepository) JoinWithinCapacity(ctx context.Context, p *domain.Participation) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var maxParticipants int
	err = tx.QueryRowContext(ctx, `SELECT max_participants FROM events WHERE id = $1 FOR UPDATE`, p.EventID).Scan(&maxParticipants)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("lock event: %w", err)
	}

	var count int
	if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM participations WHERE event_id = $1`, p.EventID).Scan(&count); err != nil {
		return fmt.Errorf("count participants: %w", err)
	}
	if count >= maxParticipants {
		return domain.ErrEventFull
	}

	query := `
		INSERT INTO participations (user_id, event_id, joined_at)
		VALUES ($1, $2, $3)
	`
	if _, err := tx.ExecContext(ctx, query, p.UserID, p.EventID, p.JoinedAt); err != nil {
		switch {
		case isPQCode(err, pqUniqueViolation):
			return domain.ErrAlreadyJoined
		case isPQCode(err, pqForeignKeyViolation):
			return domain.ErrUserNotFound
		}
		return fmt.Errorf("insert participation: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func (r *participationRepository) Delete(ctx context.Context, eventID, userID string) error {
	query := `DELETE FROM participations WHERE event_id = $1 AND user_id = $2`
	result, err := r.DB.ExecContext(ctx, query, eventID, userID)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotParticipating
	}
	return nil
}

func (r *participationRepository) ListUsersByEventID(ctx context.Context, eventID string) ([]*domain.UserSummary, error) {
	query := `
		SELECT u.id, u.name, u.email
		FROM participations p
		JOIN users u ON u.id = p.user_id
		WHERE p.event_id = $1
		ORDER BY p.joined_at, u.id
	`
	rows, err := r.DB.QueryContext(ctx, query, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	users := make([]*domain.UserSummary, 0)
	for rows.Next() {
		u := &domain.UserSummary{}
		if err := rows.Scan(&u.ID, &u.Name, &u.Email); err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}
