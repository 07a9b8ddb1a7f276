package repository

import (
	"context"
	"testing"
	"time"

	"covid_tracker/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newUserRepoMock(t *testing.T) (pgxmock.PgxPoolIface, UserRepository) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return mock, NewUserRepository(mock)
}

func TestUserRepository_Create(t *testing.T) {
	mock, repo := newUserRepoMock(t)

	hash := "bcrypt-hash"
	user := &model.User{
		Username:     "u1",
		PasswordHash: &hash,
		Role:         model.RoleUser,
		CreatedAt:    time.Now(),
	}

	mock.ExpectQuery(`INSERT INTO users`).
		WithArgs(user.Username, user.Email, user.PasswordHash, user.Role, user.SocialID, user.Provider, user.CreatedAt).
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(1))

	err := repo.Create(context.Background(), user)
	assert.NoError(t, err)
	assert.Equal(t, 1, user.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_Create_DuplicateUsername(t *testing.T) {
	mock, repo := newUserRepoMock(t)

	hash := "bcrypt-hash"
	user := &model.User{Username: "dup", PasswordHash: &hash, Role: model.RoleUser, CreatedAt: time.Now()}

	mock.ExpectQuery(`INSERT INTO users`).
		WithArgs(user.Username, user.Email, user.PasswordHash, user.Role, user.SocialID, user.Provider, user.CreatedAt).
		WillReturnError(&pgconn.PgError{Code: "23505"})

	err := repo.Create(context.Background(), user)
	assert.ErrorIs(t, err, ErrUniqueViolation)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_FindByUsername(t *testing.T) {
	mock, repo := newUserRepoMock(t)

	hash := "bcrypt-hash"
	now := time.Now()
	mock.ExpectQuery(`SELECT id, username, email, password_hash, role, social_id, provider, created_at`).
		WithArgs("u1").
		WillReturnRows(pgxmock.NewRows([]string{"id", "username", "email", "password_hash", "role", "social_id", "provider", "created_at"}).
			AddRow(1, "u1", (*string)(nil), &hash, model.RoleUser, (*string)(nil), (*string)(nil), now))

	user, err := repo.FindByUsername(context.Background(), "u1")
	assert.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, "u1", user.Username)
	assert.Equal(t, model.RoleUser, user.Role)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_FindByUsername_NotFound(t *testing.T) {
	mock, repo := newUserRepoMock(t)

	mock.ExpectQuery(`SELECT id, username, email, password_hash, role, social_id, provider, created_at`).
		WithArgs("missing").
		WillReturnError(pgx.ErrNoRows)

	user, err := repo.FindByUsername(context.Background(), "missing")
	assert.NoError(t, err)
	assert.Nil(t, user)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_FindBySocial(t *testing.T) {
	mock, repo := newUserRepoMock(t)

	socialID := "sub-123"
	provider := "google"
	username := "google:sub-123"
	now := time.Now()
	mock.ExpectQuery(`SELECT id, username, email, password_hash, role, social_id, provider, created_at`).
		WithArgs(provider, socialID).
		WillReturnRows(pgxmock.NewRows([]string{"id", "username", "email", "password_hash", "role", "social_id", "provider", "created_at"}).
			AddRow(3, username, (*string)(nil), (*string)(nil), model.RoleUser, &socialID, &provider, now))

	user, err := repo.FindBySocial(context.Background(), provider, socialID)
	assert.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, username, user.Username)
	assert.Nil(t, user.PasswordHash)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_UpdateRole(t *testing.T) {
	mock, repo := newUserRepoMock(t)

	mock.ExpectExec(`UPDATE users SET role`).
		WithArgs(model.RoleAdmin, 1).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	err := repo.UpdateRole(context.Background(), 1, model.RoleAdmin)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_UpdateRole_NotFound(t *testing.T) {
	mock, repo := newUserRepoMock(t)

	mock.ExpectExec(`UPDATE users SET role`).
		WithArgs(model.RoleAdmin, 99).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := repo.UpdateRole(context.Background(), 99, model.RoleAdmin)
	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
