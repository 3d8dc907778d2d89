package services

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/okravets/calendar-be/internal/errs"
	"github.com/okravets/calendar-be/internal/models"
	"github.com/stretchr/testify/require"
)

func registerUser(t *testing.T, db *sql.DB, email string) string {
	t.Helper()
	user, err := NewUserService(db).Register(context.Background(), email, "pw", "Test", "User")
	require.NoError(t, err)
	return user.ID
}

func TestEventService_CreateDefaults(t *testing.T) {
	db := newTestDB(t)
	svc := NewEventService(db)
	ctx := context.Background()
	owner := registerUser(t, db, "alice@example.com")

	start := time.Date(2024, 1, 10, 9, 0, 0, 0, time.UTC)
	event, err := svc.Create(ctx, owner, EventCreate{Title: "Standup", StartDate: start})
	require.NoError(t, err)
	require.Equal(t, models.ImportanceNormal, event.Importance)
	require.Equal(t, owner, event.UserID)
	require.Nil(t, event.EndDate)
	require.WithinDuration(t, start, event.StartDate, time.Second)
}

func TestEventService_CreateValidation(t *testing.T) {
	db := newTestDB(t)
	svc := NewEventService(db)
	ctx := context.Background()
	owner := registerUser(t, db, "alice@example.com")

	start := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

	_, err := svc.Create(ctx, owner, EventCreate{Title: "  ", StartDate: start})
	require.ErrorIs(t, err, errs.ErrValidation)

	_, err = svc.Create(ctx, owner, EventCreate{Title: "No start"})
	require.ErrorIs(t, err, errs.ErrValidation)

	before := start.Add(-time.Hour)
	_, err = svc.Create(ctx, owner, EventCreate{Title: "Backwards", StartDate: start, EndDate: &before})
	require.ErrorIs(t, err, errs.ErrValidation)
}

func TestEventService_OwnershipIsolation(t *testing.T) {
	db := newTestDB(t)
	svc := NewEventService(db)
	ctx := context.Background()
	alice := registerUser(t, db, "alice@example.com")
	bob := registerUser(t, db, "bob@example.com")

	event, err := svc.Create(ctx, alice, EventCreate{
		Title:     "Private meeting",
		StartDate: time.Date(2024, 2, 1, 14, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	// Owner sees it.
	_, err = svc.Get(ctx, alice, event.ID)
	require.NoError(t, err)

	// Another user gets the same answer as for a non-existent id.
	_, err = svc.Get(ctx, bob, event.ID)
	require.ErrorIs(t, err, errs.ErrNotFound)

	title := "hijacked"
	_, err = svc.Update(ctx, bob, event.ID, EventUpdate{Title: &title})
	require.ErrorIs(t, err, errs.ErrNotFound)

	err = svc.Delete(ctx, bob, event.ID)
	require.ErrorIs(t, err, errs.ErrNotFound)

	// Untouched by the failed attempts.
	got, err := svc.Get(ctx, alice, event.ID)
	require.NoError(t, err)
	require.Equal(t, "Private meeting", got.Title)
}

func TestEventService_ListFiltersAndOrder(t *testing.T) {
	db := newTestDB(t)
	svc := NewEventService(db)
	ctx := context.Background()
	owner := registerUser(t, db, "alice@example.com")
	other := registerUser(t, db, "bob@example.com")

	day := func(d int) time.Time { return time.Date(2024, 5, d, 12, 0, 0, 0, time.UTC) }

	_, err := svc.Create(ctx, owner, EventCreate{Title: "Quarterly BUDGET review", StartDate: day(20)})
	require.NoError(t, err)
	_, err = svc.Create(ctx, owner, EventCreate{Title: "Lunch", Description: "discuss budget", StartDate: day(5)})
	require.NoError(t, err)
	_, err = svc.Create(ctx, owner, EventCreate{Title: "Dentist", StartDate: day(10), Importance: models.ImportanceCritical})
	require.NoError(t, err)
	_, err = svc.Create(ctx, other, EventCreate{Title: "Bob's budget", StartDate: day(1)})
	require.NoError(t, err)

	// No filter: all of the owner's events, start time ascending.
	all, err := svc.List(ctx, owner, EventFilter{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	require.Equal(t, []string{"Lunch", "Dentist", "Quarterly BUDGET review"},
		[]string{all[0].Title, all[1].Title, all[2].Title})

	// Keyword matches title or description, case-insensitively.
	matched, err := svc.List(ctx, owner, EventFilter{Keyword: "budget"})
	require.NoError(t, err)
	require.Len(t, matched, 2)
	require.Equal(t, "Lunch", matched[0].Title)
	require.Equal(t, "Quarterly BUDGET review", matched[1].Title)

	// Importance is an exact match.
	critical := models.ImportanceCritical
	crit, err := svc.List(ctx, owner, EventFilter{Importance: &critical})
	require.NoError(t, err)
	require.Len(t, crit, 1)
	require.Equal(t, "Dentist", crit[0].Title)

	// Both filters AND together.
	none, err := svc.List(ctx, owner, EventFilter{Importance: &critical, Keyword: "budget"})
	require.NoError(t, err)
	require.Empty(t, none)
}

func TestEventService_UpdateMergesOnlyProvidedFields(t *testing.T) {
	db := newTestDB(t)
	svc := NewEventService(db)
	ctx := context.Background()
	owner := registerUser(t, db, "alice@example.com")

	start := time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)
	end := start.Add(time.Hour)
	event, err := svc.Create(ctx, owner, EventCreate{
		Title:       "Planning",
		Description: "sprint planning",
		StartDate:   start,
		EndDate:     &end,
		Importance:  models.ImportanceImportant,
	})
	require.NoError(t, err)

	title := "Planning (moved)"
	updated, err := svc.Update(ctx, owner, event.ID, EventUpdate{Title: &title})
	require.NoError(t, err)
	require.Equal(t, title, updated.Title)
	require.Equal(t, "sprint planning", updated.Description)
	require.Equal(t, models.ImportanceImportant, updated.Importance)
	require.WithinDuration(t, start, updated.StartDate, time.Second)
	require.NotNil(t, updated.EndDate)
	require.WithinDuration(t, end, *updated.EndDate, time.Second)

	// A fresh read agrees.
	got, err := svc.Get(ctx, owner, event.ID)
	require.NoError(t, err)
	require.Equal(t, title, got.Title)
	require.Equal(t, "sprint planning", got.Description)
}

func TestEventService_UpdateValidatesMergedDates(t *testing.T) {
	db := newTestDB(t)
	svc := NewEventService(db)
	ctx := context.Background()
	owner := registerUser(t, db, "alice@example.com")

	start := time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)
	end := start.Add(time.Hour)
	event, err := svc.Create(ctx, owner, EventCreate{Title: "Call", StartDate: start, EndDate: &end})
	require.NoError(t, err)

	// Moving the start past the kept end date must fail.
	late := end.Add(time.Hour)
	_, err = svc.Update(ctx, owner, event.ID, EventUpdate{StartDate: &late})
	require.ErrorIs(t, err, errs.ErrValidation)

	empty := ""
	_, err = svc.Update(ctx, owner, event.ID, EventUpdate{Title: &empty})
	require.ErrorIs(t, err, errs.ErrValidation)
}

func TestEventService_Delete(t *testing.T) {
	db := newTestDB(t)
	svc := NewEventService(db)
	ctx := context.Background()
	owner := registerUser(t, db, "alice@example.com")

	event, err := svc.Create(ctx, owner, EventCreate{
		Title:     "Throwaway",
		StartDate: time.Date(2024, 7, 1, 8, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, owner, event.ID))

	_, err = svc.Get(ctx, owner, event.ID)
	require.ErrorIs(t, err, errs.ErrNotFound)

	err = svc.Delete(ctx, owner, event.ID)
	require.ErrorIs(t, err, errs.ErrNotFound)
}

func TestEventService_ListStartingBetween(t *testing.T) {
	db := newTestDB(t)
	svc := NewEventService(db)
	ctx := context.Background()
	alice := registerUser(t, db, "alice@example.com")
	bob := registerUser(t, db, "bob@example.com")

	base := time.Date(2024, 8, 1, 0, 0, 0, 0, time.UTC)
	_, err := svc.Create(ctx, alice, EventCreate{Title: "Inside", StartDate: base.Add(2 * time.Hour)})
	require.NoError(t, err)
	_, err = svc.Create(ctx, bob, EventCreate{Title: "Also inside", StartDate: base.Add(20 * time.Hour)})
	require.NoError(t, err)
	_, err = svc.Create(ctx, alice, EventCreate{Title: "Outside", StartDate: base.Add(48 * time.Hour)})
	require.NoError(t, err)

	events, err := svc.ListStartingBetween(ctx, base, base.Add(24*time.Hour))
	require.NoError(t, err)
	require.Len(t, events, 2)
	require.Equal(t, "Inside", events[0].Title)
	require.Equal(t, "Also inside", events[1].Title)
}
