package repository

import (
	"context"
	"errors"
	"fmt"

	"covid_tracker/internal/model"

	"github.com/jackc/pgx/v5"
)

// UserRepository defines operations for user data
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	FindByUsername(ctx context.Context, username string) (*model.User, error)
	FindByID(ctx context.Context, id int) (*model.User, error)
	FindBySocial(ctx context.Context, provider, socialID string) (*model.User, error)
	UpdateRole(ctx context.Context, id int, role string) error
}

type userRepository struct {
	db DB
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db DB) UserRepository {
	return &userRepository{db: db}
}

// Create inserts a new user into the database. A duplicate username (or
// duplicate provider/social_id pair) surfaces as ErrUniqueViolation.
func (r *userRepository) Create(ctx context.Context, user *model.User) error {
	sql := `INSERT INTO users (username, email, password_hash, role, social_id, provider, created_at)
            VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id`
	err := r.db.QueryRow(ctx, sql,
		user.Username, user.Email, user.PasswordHash, user.Role, user.SocialID, user.Provider, user.CreatedAt,
	).Scan(&user.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrUniqueViolation
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// FindByUsername retrieves a user by username
func (r *userRepository) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	user := &model.User{}
	sql := `SELECT id, username, email, password_hash, role, social_id, provider, created_at
            FROM users WHERE username = $1`
	err := r.db.QueryRow(ctx, sql, username).Scan(
		&user.ID, &user.Username, &user.Email, &user.PasswordHash,
		&user.Role, &user.SocialID, &user.Provider, &user.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil // User not found is not an error for this method's contract, service layer handles it
		}
		return nil, fmt.Errorf("failed to find user by username: %w", err)
	}
	return user, nil
}

// FindByID retrieves a user by their ID
func (r *userRepository) FindByID(ctx context.Context, id int) (*model.User, error) {
	user := &model.User{}
	sql := `SELECT id, username, email, password_hash, role, social_id, provider, created_at
            FROM users WHERE id = $1`
	err := r.db.QueryRow(ctx, sql, id).Scan(
		&user.ID, &user.Username, &user.Email, &user.PasswordHash,
		&user.Role, &user.SocialID, &user.Provider, &user.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil // User not found
		}
		return nil, fmt.Errorf("failed to find user by ID: %w", err)
	}
	return user, nil
}

// FindBySocial retrieves a user by their OAuth provider identity
func (r *userRepository) FindBySocial(ctx context.Context, provider, socialID string) (*model.User, error) {
	user := &model.User{}
	sql := `SELECT id, username, email, password_hash, role, social_id, provider, created_at
            FROM users WHERE provider = $1 AND social_id = $2`
	err := r.db.QueryRow(ctx, sql, provider, socialID).Scan(
		&user.ID, &user.Username, &user.Email, &user.PasswordHash,
		&user.Role, &user.SocialID, &user.Provider, &user.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find user by social identity: %w", err)
	}
	return user, nil
}

// UpdateRole changes a user's role. There is no API surface for this;
// it exists for administrative provisioning. Outstanding tokens keep the
// role they were issued with.
func (r *userRepository) UpdateRole(ctx context.Context, id int, role string) error {
	sql := `UPDATE users SET role = $1 WHERE id = $2`
	cmdTag, err := r.db.Exec(ctx, sql, role, id)
	if err != nil {
		return fmt.Errorf("failed to update user role: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("user not found for role update")
	}
	return nil
}
