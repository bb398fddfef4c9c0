package repository

import (
	"context"
	"testing"
	"time"

	"property-service/internal/model"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func userColumns() []string {
	return []string{"id", "name", "email", "password", "created_at", "updated_at"}
}

func TestUserFindByEmail(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		db, mock := setupDB(t)
		repo := NewUserRepository(db)

		mock.ExpectQuery(`SELECT \* FROM "users" WHERE email = \$1`).
			WithArgs("jordan@example.com", 1).
			WillReturnRows(sqlmock.NewRows(userColumns()).
				AddRow(7, "Jordan", "jordan@example.com", "hashed", time.Now(), time.Now()))

		user, err := repo.FindByEmail("jordan@example.com")
		require.NoError(t, err)
		assert.Equal(t, uint(7), user.ID)
	})

	t.Run("missing", func(t *testing.T) {
		db, mock := setupDB(t)
		repo := NewUserRepository(db)

		mock.ExpectQuery(`SELECT \* FROM "users"`).
			WillReturnRows(sqlmock.NewRows(userColumns()))

		_, err := repo.FindByEmail("nobody@example.com")
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestUserEmailTaken(t *testing.T) {
	db, mock := setupDB(t)
	repo := NewUserRepository(db)

	mock.ExpectQuery(`SELECT count\(\*\) FROM "users" WHERE email = \$1`).
		WithArgs("jordan@example.com").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	taken, err := repo.EmailTaken("jordan@example.com")
	require.NoError(t, err)
	assert.True(t, taken)
}

func TestUserOwnerOf(t *testing.T) {
	db, mock := setupDB(t)
	repo := NewUserRepository(db)

	mock.ExpectQuery(`SELECT \* FROM "users" WHERE "users"\."id" = \$1`).
		WithArgs(uint(7), 1).
		WillReturnRows(sqlmock.NewRows(userColumns()).
			AddRow(7, "Jordan", "jordan@example.com", "hashed", time.Now(), time.Now()))

	owner, err := repo.OwnerOf(context.Background(), &model.Property{ID: 1, UserID: 7})
	require.NoError(t, err)
	assert.Equal(t, "jordan@example.com", owner.Email)
}
