package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/okravets/calendar-be/internal/errs"
	"github.com/okravets/calendar-be/internal/models"
	"golang.org/x/crypto/bcrypt"
)

// UserServiceProvider defines the interface for user services.
type UserServiceProvider interface {
	Register(ctx context.Context, email, password, firstName, lastName string) (models.User, error)
	Authenticate(ctx context.Context, email, password string) (models.User, error)
	GetByID(ctx context.Context, id string) (models.User, error)
}

// UserService provides registration, login and account lookup.
type UserService struct {
	db *sql.DB
}

// NewUserService creates a new UserService.
func NewUserService(db *sql.DB) *UserService {
	return &UserService{db: db}
}

// GetByID retrieves a single user by their ID.
func (s *UserService) GetByID(ctx context.Context, id string) (models.User, error) {
	var user models.User
	row := s.db.QueryRowContext(ctx,
		"SELECT id, email, first_name, last_name, created_at, updated_at FROM users WHERE id = ?", id)
	err := row.Scan(&user.ID, &user.Email, &user.FirstName, &user.LastName, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.User{}, errs.ErrNotFound
		}
		return models.User{}, err
	}
	return user, nil
}

// getByEmail retrieves a user by email, including the password hash.
func (s *UserService) getByEmail(ctx context.Context, email string) (models.User, error) {
	var user models.User
	row := s.db.QueryRowContext(ctx,
		"SELECT id, email, password_hash, first_name, last_name, created_at, updated_at FROM users WHERE email = ?", email)
	err := row.Scan(&user.ID, &user.Email, &user.PasswordHash, &user.FirstName, &user.LastName, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.User{}, errs.ErrNotFound
		}
		return models.User{}, err
	}
	return user, nil
}

// Register creates a new account. Emails are lowercased so uniqueness and
// login are case-insensitive. The plaintext password is hashed with bcrypt
// and never stored or returned.
func (s *UserService) Register(ctx context.Context, email, password, firstName, lastName string) (models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return models.User{}, fmt.Errorf("%w: email is required", errs.ErrValidation)
	}
	if password == "" {
		return models.User{}, fmt.Errorf("%w: password is required", errs.ErrValidation)
	}

	// Checked before insert; the race window is closed by the UNIQUE constraint.
	_, err := s.getByEmail(ctx, email)
	if err == nil {
		return models.User{}, errs.ErrEmailTaken
	}
	if !errors.Is(err, errs.ErrNotFound) {
		return models.User{}, err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return models.User{}, fmt.Errorf("failed to hash password: %w", err)
	}

	id := uuid.New().String()
	_, err = s.db.ExecContext(ctx,
		"INSERT INTO users(id, email, password_hash, first_name, last_name) VALUES(?, ?, ?, ?, ?)",
		id, email, string(hashedPassword), firstName, lastName)
	if err != nil {
		return models.User{}, err
	}

	return s.GetByID(ctx, id)
}

// Authenticate verifies a user's credentials. It distinguishes an unknown
// email (errs.ErrNotFound) from a wrong password (errs.ErrBadPassword).
func (s *UserService) Authenticate(ctx context.Context, email, password string) (models.User, error) {
	user, err := s.getByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return models.User{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return models.User{}, errs.ErrBadPassword
	}

	// Don't send the password hash to the client
	user.PasswordHash = ""
	return user, nil
}
