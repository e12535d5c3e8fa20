package mysql

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sqlmock "gopkg.in/DATA-DOG/go-sqlmock.v1"

	"github.com/Guyuepp/Go-Comment-Moderation/domain"
)

func TestPermissionRepository_PermissionsByUser(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPermissionRepository(db)

	mock.ExpectQuery("SELECT DISTINCT .* FROM `permissions` JOIN role_permissions .* JOIN user_roles .* WHERE user_roles.user_id = \\?").
		WithArgs(int64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "slug"}).
			AddRow(int64(1), "Moderate comments", "moderate-comments"))

	perms, err := repo.PermissionsByUser(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, []domain.Permission{{ID: 1, Name: "Moderate comments", Slug: "moderate-comments"}}, perms)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_GetByID(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepository(db)

	mock.ExpectQuery("SELECT \\* FROM `user` WHERE id = \\?").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "username", "email"}).
			AddRow(int64(2), "Ann", "ann", "ann@example.com"))
	mock.ExpectQuery("SELECT \\* FROM `user` WHERE id = \\?").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	ctx := context.Background()
	u, err := repo.GetByID(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, "ann", u.Username)

	_, err = repo.GetByID(ctx, 5)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
