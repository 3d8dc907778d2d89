package services

import (
	"context"
	"database/sql"
	"testing"

	"github.com/okravets/calendar-be/internal/database"
	"github.com/okravets/calendar-be/internal/errs"
	"github.com/stretchr/testify/require"
)

// newTestDB opens an in-memory database with the full schema applied. The
// pool is pinned to one connection so every query sees the same memory DB.
func newTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := database.New(":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	require.NoError(t, database.Migrate(db))
	t.Cleanup(func() { db.Close() })
	return db
}

func TestUserService_RegisterAndAuthenticate(t *testing.T) {
	db := newTestDB(t)
	svc := NewUserService(db)
	ctx := context.Background()

	user, err := svc.Register(ctx, "alice@example.com", "secret1", "Alice", "A")
	require.NoError(t, err)
	require.NotEmpty(t, user.ID)
	require.Equal(t, "alice@example.com", user.Email)
	require.Equal(t, "Alice", user.FirstName)
	require.Empty(t, user.PasswordHash, "hash must never be returned")

	got, err := svc.Authenticate(ctx, "alice@example.com", "secret1")
	require.NoError(t, err)
	require.Equal(t, user.ID, got.ID)
	require.Empty(t, got.PasswordHash)
}

func TestUserService_EmailIsCaseInsensitive(t *testing.T) {
	db := newTestDB(t)
	svc := NewUserService(db)
	ctx := context.Background()

	user, err := svc.Register(ctx, "Bob@Example.COM", "pw", "Bob", "B")
	require.NoError(t, err)
	require.Equal(t, "bob@example.com", user.Email)

	got, err := svc.Authenticate(ctx, "bob@EXAMPLE.com", "pw")
	require.NoError(t, err)
	require.Equal(t, user.ID, got.ID)

	_, err = svc.Register(ctx, "BOB@example.com", "other", "Bobby", "B")
	require.ErrorIs(t, err, errs.ErrEmailTaken)
}

func TestUserService_DuplicateEmail(t *testing.T) {
	db := newTestDB(t)
	svc := NewUserService(db)
	ctx := context.Background()

	_, err := svc.Register(ctx, "carol@example.com", "pw1", "Carol", "C")
	require.NoError(t, err)

	_, err = svc.Register(ctx, "carol@example.com", "pw2", "Caroline", "C")
	require.ErrorIs(t, err, errs.ErrEmailTaken)

	// No second record was created.
	var count int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM users WHERE email = ?", "carol@example.com").Scan(&count))
	require.Equal(t, 1, count)
}

func TestUserService_AuthenticateFailures(t *testing.T) {
	db := newTestDB(t)
	svc := NewUserService(db)
	ctx := context.Background()

	_, err := svc.Register(ctx, "alice@example.com", "secret1", "Alice", "A")
	require.NoError(t, err)

	_, err = svc.Authenticate(ctx, "alice@example.com", "wrong")
	require.ErrorIs(t, err, errs.ErrBadPassword)

	_, err = svc.Authenticate(ctx, "nobody@example.com", "secret1")
	require.ErrorIs(t, err, errs.ErrNotFound)
}

func TestUserService_RegisterValidation(t *testing.T) {
	db := newTestDB(t)
	svc := NewUserService(db)
	ctx := context.Background()

	_, err := svc.Register(ctx, "", "pw", "X", "Y")
	require.ErrorIs(t, err, errs.ErrValidation)

	_, err = svc.Register(ctx, "x@example.com", "", "X", "Y")
	require.ErrorIs(t, err, errs.ErrValidation)
}

func TestUserService_PasswordStoredHashed(t *testing.T) {
	db := newTestDB(t)
	svc := NewUserService(db)
	ctx := context.Background()

	_, err := svc.Register(ctx, "dave@example.com", "hunter2", "Dave", "D")
	require.NoError(t, err)

	var hash string
	require.NoError(t, db.QueryRow("SELECT password_hash FROM users WHERE email = ?", "dave@example.com").Scan(&hash))
	require.NotEmpty(t, hash)
	require.NotContains(t, hash, "hunter2")
}

func TestUserService_GetByID_NotFound(t *testing.T) {
	db := newTestDB(t)
	svc := NewUserService(db)

	_, err := svc.GetByID(context.Background(), "no-such-id")
	require.ErrorIs(t, err, errs.ErrNotFound)
}
