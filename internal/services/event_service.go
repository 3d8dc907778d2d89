package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/okravets/calendar-be/internal/errs"
	"github.com/okravets/calendar-be/internal/models"
)

// EventCreate carries the fields accepted when creating an event.
type EventCreate struct {
	Title       string
	Description string
	StartDate   time.Time
	EndDate     *time.Time
	Importance  models.Importance // empty means normal
}

// EventUpdate carries a partial update. Nil fields leave the stored value
// untouched.
type EventUpdate struct {
	Title       *string
	Description *string
	StartDate   *time.Time
	EndDate     *time.Time
	Importance  *models.Importance
}

// EventFilter narrows List results. Zero values mean no constraint; the
// importance and keyword constraints compose with AND.
type EventFilter struct {
	Importance *models.Importance
	Keyword    string
}

// EventServiceProvider defines the interface for event services. Every
// operation takes the owner id resolved from the verified token, never from
// client input; events of other owners are indistinguishable from absent ones.
type EventServiceProvider interface {
	Create(ctx context.Context, ownerID string, in EventCreate) (models.Event, error)
	List(ctx context.Context, ownerID string, filter EventFilter) ([]models.Event, error)
	Get(ctx context.Context, ownerID, eventID string) (models.Event, error)
	Update(ctx context.Context, ownerID, eventID string, patch EventUpdate) (models.Event, error)
	Delete(ctx context.Context, ownerID, eventID string) error
	ListStartingBetween(ctx context.Context, from, to time.Time) ([]models.Event, error)
}

// EventService provides ownership-scoped CRUD over calendar events.
type EventService struct {
	db *sql.DB
}

// NewEventService creates a new EventService.
func NewEventService(db *sql.DB) *EventService {
	return &EventService{db: db}
}

const eventColumns = "id, title, description, start_date, end_date, importance, user_id, created_at, updated_at"

func scanEvent(row interface{ Scan(...any) error }) (models.Event, error) {
	var event models.Event
	var endDate sql.NullTime
	err := row.Scan(&event.ID, &event.Title, &event.Description, &event.StartDate,
		&endDate, &event.Importance, &event.UserID, &event.CreatedAt, &event.UpdatedAt)
	if err != nil {
		return models.Event{}, err
	}
	if endDate.Valid {
		event.EndDate = &endDate.Time
	}
	return event, nil
}

func validateDates(start time.Time, end *time.Time) error {
	if start.IsZero() {
		return fmt.Errorf("%w: startDate is required", errs.ErrValidation)
	}
	if end != nil && !end.After(start) {
		return fmt.Errorf("%w: endDate must be after startDate", errs.ErrValidation)
	}
	return nil
}

// Create stores a new event for the given owner. Importance defaults to
// normal when absent.
func (s *EventService) Create(ctx context.Context, ownerID string, in EventCreate) (models.Event, error) {
	if strings.TrimSpace(in.Title) == "" {
		return models.Event{}, fmt.Errorf("%w: title is required", errs.ErrValidation)
	}
	if err := validateDates(in.StartDate, in.EndDate); err != nil {
		return models.Event{}, err
	}
	if in.Importance == "" {
		in.Importance = models.ImportanceNormal
	}

	id := uuid.New().String()
	var endDate sql.NullTime
	if in.EndDate != nil {
		endDate = sql.NullTime{Time: *in.EndDate, Valid: true}
	}

	_, err := s.db.ExecContext(ctx,
		"INSERT INTO events (id, title, description, start_date, end_date, importance, user_id) VALUES (?, ?, ?, ?, ?, ?, ?)",
		id, in.Title, in.Description, in.StartDate, endDate, in.Importance, ownerID)
	if err != nil {
		return models.Event{}, err
	}

	return s.Get(ctx, ownerID, id)
}

// List returns the owner's events ordered by start time ascending. The
// keyword matches case-insensitively as a substring of title or description.
func (s *EventService) List(ctx context.Context, ownerID string, filter EventFilter) ([]models.Event, error) {
	query := "SELECT " + eventColumns + " FROM events WHERE user_id = ?"
	args := []any{ownerID}

	if filter.Importance != nil {
		query += " AND importance = ?"
		args = append(args, *filter.Importance)
	}
	if filter.Keyword != "" {
		query += " AND (LOWER(title) LIKE ? OR LOWER(description) LIKE ?)"
		pattern := "%" + strings.ToLower(filter.Keyword) + "%"
		args = append(args, pattern, pattern)
	}
	query += " ORDER BY start_date ASC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []models.Event
	for rows.Next() {
		event, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, event)
	}
	return events, rows.Err()
}

// Get retrieves a single event scoped to its owner.
func (s *EventService) Get(ctx context.Context, ownerID, eventID string) (models.Event, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT "+eventColumns+" FROM events WHERE id = ? AND user_id = ?", eventID, ownerID)
	event, err := scanEvent(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Event{}, errs.ErrNotFound
		}
		return models.Event{}, err
	}
	return event, nil
}

// Update applies the supplied fields to an owned event, leaving the rest
// untouched, and returns the updated row.
func (s *EventService) Update(ctx context.Context, ownerID, eventID string, patch EventUpdate) (models.Event, error) {
	event, err := s.Get(ctx, ownerID, eventID)
	if err != nil {
		return models.Event{}, err
	}

	if patch.Title != nil {
		if strings.TrimSpace(*patch.Title) == "" {
			return models.Event{}, fmt.Errorf("%w: title is required", errs.ErrValidation)
		}
		event.Title = *patch.Title
	}
	if patch.Description != nil {
		event.Description = *patch.Description
	}
	if patch.StartDate != nil {
		event.StartDate = *patch.StartDate
	}
	if patch.EndDate != nil {
		event.EndDate = patch.EndDate
	}
	if patch.Importance != nil {
		event.Importance = *patch.Importance
	}
	if err := validateDates(event.StartDate, event.EndDate); err != nil {
		return models.Event{}, err
	}

	var endDate sql.NullTime
	if event.EndDate != nil {
		endDate = sql.NullTime{Time: *event.EndDate, Valid: true}
	}

	_, err = s.db.ExecContext(ctx,
		"UPDATE events SET title = ?, description = ?, start_date = ?, end_date = ?, importance = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ? AND user_id = ?",
		event.Title, event.Description, event.StartDate, endDate, event.Importance, eventID, ownerID)
	if err != nil {
		return models.Event{}, err
	}

	return s.Get(ctx, ownerID, eventID)
}

// Delete removes an owned event.
func (s *EventService) Delete(ctx context.Context, ownerID, eventID string) error {
	res, err := s.db.ExecContext(ctx,
		"DELETE FROM events WHERE id = ? AND user_id = ?", eventID, ownerID)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return errs.ErrNotFound
	}
	return nil
}

// ListStartingBetween returns events across all owners whose start time falls
// in [from, to), ordered by start time. Used by the reminder scanner.
func (s *EventService) ListStartingBetween(ctx context.Context, from, to time.Time) ([]models.Event, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+eventColumns+" FROM events WHERE start_date >= ? AND start_date < ? ORDER BY start_date ASC",
		from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []models.Event
	for rows.Next() {
		event, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, event)
	}
	return events, rows.Err()
}
