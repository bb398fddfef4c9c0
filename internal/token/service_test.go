package token

import (
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func setupService(t *testing.T) (*Service, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	dialector := postgres.New(postgres.Config{
		Conn:                 sqlDB,
		PreferSimpleProtocol: true,
	})
	db, err := gorm.Open(dialector, &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	return NewService(db, 24), mock
}

func tokenColumns() []string {
	return []string{"id", "token", "user_id", "expires_at", "revoked", "created_at", "updated_at"}
}

func TestIssueGeneratesOpaqueToken(t *testing.T) {
	svc, mock := setupService(t)

	mock.ExpectQuery(`INSERT INTO "access_tokens"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))

	raw, err := svc.Issue(7)
	require.NoError(t, err)

	// 32 random bytes, base64url without padding
	assert.Len(t, raw, 43)
	assert.NotContains(t, raw, "=")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestIssueTokensAreUnique(t *testing.T) {
	svc, mock := setupService(t)

	mock.ExpectQuery(`INSERT INTO "access_tokens"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
	mock.ExpectQuery(`INSERT INTO "access_tokens"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(2))

	first, err := svc.Issue(7)
	require.NoError(t, err)
	second, err := svc.Issue(7)
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

func TestVerify(t *testing.T) {
	t.Run("valid token resolves the user", func(t *testing.T) {
		svc, mock := setupService(t)

		mock.ExpectQuery(`SELECT \* FROM "access_tokens" WHERE token = \$1`).
			WithArgs("tok-123", 1).
			WillReturnRows(sqlmock.NewRows(tokenColumns()).
				AddRow(1, "tok-123", 7, time.Now().Add(time.Hour), false, time.Now(), time.Now()))
		mock.ExpectQuery(`SELECT \* FROM "users"`).
			WillReturnRows(sqlmock.NewRows([]string{"id", "name", "email"}).
				AddRow(7, "Jordan", "jordan@example.com"))

		user, err := svc.Verify("tok-123")
		require.NoError(t, err)
		assert.Equal(t, uint(7), user.ID)
		assert.Equal(t, "jordan@example.com", user.Email)
	})

	t.Run("unknown token", func(t *testing.T) {
		svc, mock := setupService(t)

		mock.ExpectQuery(`SELECT \* FROM "access_tokens"`).
			WillReturnRows(sqlmock.NewRows(tokenColumns()))

		_, err := svc.Verify("nope")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("revoked token", func(t *testing.T) {
		svc, mock := setupService(t)

		mock.ExpectQuery(`SELECT \* FROM "access_tokens"`).
			WillReturnRows(sqlmock.NewRows(tokenColumns()).
				AddRow(1, "tok-123", 7, time.Now().Add(time.Hour), true, time.Now(), time.Now()))

		_, err := svc.Verify("tok-123")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("expired token", func(t *testing.T) {
		svc, mock := setupService(t)

		mock.ExpectQuery(`SELECT \* FROM "access_tokens"`).
			WillReturnRows(sqlmock.NewRows(tokenColumns()).
				AddRow(1, "tok-123", 7, time.Now().Add(-time.Minute), false, time.Now(), time.Now()))

		_, err := svc.Verify("tok-123")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}

func TestRevoke(t *testing.T) {
	svc, mock := setupService(t)

	mock.ExpectExec(`UPDATE "access_tokens" SET`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, svc.Revoke("tok-123"))
	require.NoError(t, mock.ExpectationsWereMet())
}
