package auth

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupRememberMeTest(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	db, smock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("An error '%s' was not expected when opening a stub database connection", err)
	}

	gormDB, err := gorm.Open(postgres.New(postgres.Config{
		Conn: db,
	}), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		t.Fatalf("An error '%s' was not expected when opening gorm database", err)
	}

	t.Cleanup(func() { db.Close() })
	return gormDB, smock
}

func persistentLoginRow(series string, userID uuid.UUID, token string, lastUsed time.Time) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"series", "user_id", "token", "last_used_at"}).
		AddRow(series, userID, token, lastUsed)
}

func TestRedeemRememberMe_UnknownSeries(t *testing.T) {
	db, smock := setupRememberMeTest(t)

	smock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "persistent_logins" WHERE series = $1`)).
		WithArgs("series-x", 1).
		WillReturnRows(sqlmock.NewRows([]string{"series", "user_id", "token", "last_used_at"}))

	user, cred, err := RedeemRememberMe(context.Background(), db, "series-x", "tok")
	assert.ErrorIs(t, err, ErrRememberMeInvalid)
	assert.Nil(t, user)
	assert.Nil(t, cred)
	assert.NoError(t, smock.ExpectationsWereMet())
}

func TestRedeemRememberMe_TokenMismatchRevokesAll(t *testing.T) {
	db, smock := setupRememberMeTest(t)

	userID := uuid.New()
	smock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "persistent_logins" WHERE series = $1`)).
		WithArgs("series-a", 1).
		WillReturnRows(persistentLoginRow("series-a", userID, "the-real-token", time.Now()))
	smock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "users" WHERE "users"."id" = $1`)).
		WithArgs(userID).
		WillReturnRows(sqlmock.NewRows([]string{"id", "email", "enabled"}).AddRow(userID, "alice@example.com", true))

	// Cookie roubado: apaga todos os logins do usuário, não só a série afetada.
	smock.ExpectBegin()
	smock.ExpectExec(regexp.QuoteMeta(`DELETE FROM "persistent_logins" WHERE user_id = $1`)).
		WithArgs(userID).
		WillReturnResult(sqlmock.NewResult(0, 2))
	smock.ExpectCommit()

	user, cred, err := RedeemRememberMe(context.Background(), db, "series-a", "a-stolen-guess")
	assert.ErrorIs(t, err, ErrRememberMeInvalid)
	assert.Nil(t, user)
	assert.Nil(t, cred)
	assert.NoError(t, smock.ExpectationsWereMet())
}

func TestRedeemRememberMe_Expired(t *testing.T) {
	db, smock := setupRememberMeTest(t)

	userID := uuid.New()
	stale := time.Now().Add(-400 * time.Hour) // bem além da janela de 168h
	smock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "persistent_logins" WHERE series = $1`)).
		WithArgs("series-a", 1).
		WillReturnRows(persistentLoginRow("series-a", userID, "tok-1", stale))
	smock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "users" WHERE "users"."id" = $1`)).
		WithArgs(userID).
		WillReturnRows(sqlmock.NewRows([]string{"id", "email", "enabled"}).AddRow(userID, "alice@example.com", true))

	smock.ExpectBegin()
	smock.ExpectExec(regexp.QuoteMeta(`DELETE FROM "persistent_logins"`)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	smock.ExpectCommit()

	_, _, err := RedeemRememberMe(context.Background(), db, "series-a", "tok-1")
	assert.ErrorIs(t, err, ErrRememberMeInvalid)
	assert.NoError(t, smock.ExpectationsWereMet())
}

func TestRedeemRememberMe_RotatesToken(t *testing.T) {
	db, smock := setupRememberMeTest(t)

	userID := uuid.New()
	smock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "persistent_logins" WHERE series = $1`)).
		WithArgs("series-a", 1).
		WillReturnRows(persistentLoginRow("series-a", userID, "tok-1", time.Now().Add(-time.Hour)))
	smock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "users" WHERE "users"."id" = $1`)).
		WithArgs(userID).
		WillReturnRows(sqlmock.NewRows([]string{"id", "email", "enabled"}).AddRow(userID, "alice@example.com", true))

	smock.ExpectBegin()
	smock.ExpectExec(regexp.QuoteMeta(`UPDATE "persistent_logins" SET`)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	smock.ExpectCommit()

	user, cred, err := RedeemRememberMe(context.Background(), db, "series-a", "tok-1")
	assert.NoError(t, err)
	assert.NotNil(t, user)
	assert.Equal(t, "alice@example.com", user.Email)
	assert.Equal(t, "series-a", cred.Series, "series is stable across redemptions")
	assert.NotEqual(t, "tok-1", cred.Token, "token must be rotated on every redemption")
	assert.NoError(t, smock.ExpectationsWereMet())
}

func TestClearRememberMe(t *testing.T) {
	db, smock := setupRememberMeTest(t)

	userID := uuid.New()
	smock.ExpectBegin()
	smock.ExpectExec(regexp.QuoteMeta(`DELETE FROM "persistent_logins" WHERE user_id = $1`)).
		WithArgs(userID).
		WillReturnResult(sqlmock.NewResult(0, 1))
	smock.ExpectCommit()

	err := ClearRememberMe(context.Background(), db, userID)
	assert.NoError(t, err)
	assert.NoError(t, smock.ExpectationsWereMet())
}
