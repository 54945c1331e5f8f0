package handlers

import (
	"net/http"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func registrationRouter() *gin.Engine {
	router := gin.New()
	router.POST("/auth/register", RegisterHandler)
	router.GET("/auth/confirm", ConfirmRegistrationHandler)
	return router
}

func TestRegisterHandler_Success(t *testing.T) {
	smock := setupHandlersTest(t)
	router := registrationRouter()

	smock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "users" WHERE email = $1`)).
		WithArgs("alice@example.com", 1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "email"}))
	smock.ExpectBegin()
	smock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "users"`)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(uuid.New()))
	smock.ExpectCommit()
	smock.ExpectBegin()
	smock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "verification_tokens"`)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
	smock.ExpectCommit()
	// Resolução da base dos links do e-mail (sem override no banco)
	smock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "system_settings" WHERE key = $1`)).
		WithArgs("FRONTEND_BASE_URL", 1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "key", "value"}))

	w := performJSONRequest(router, http.MethodPost, "/auth/register", RegisterPayload{
		Name:                 "Alice",
		Email:                "alice@example.com",
		Password:             "secret-password",
		PasswordConfirmation: "secret-password",
	})

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), "check your email")
	assert.NoError(t, smock.ExpectationsWereMet())
}

func TestRegisterHandler_PasswordConfirmationMismatch(t *testing.T) {
	setupHandlersTest(t)
	router := registrationRouter()

	w := performJSONRequest(router, http.MethodPost, "/auth/register", RegisterPayload{
		Name:                 "Alice",
		Email:                "alice@example.com",
		Password:             "secret-password",
		PasswordConfirmation: "different-password",
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Passwords do not match")
}

func TestRegisterHandler_DuplicateEmail(t *testing.T) {
	smock := setupHandlersTest(t)
	router := registrationRouter()

	smock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "users" WHERE email = $1`)).
		WithArgs("alice@example.com", 1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "email"}).AddRow(uuid.New(), "alice@example.com"))

	w := performJSONRequest(router, http.MethodPost, "/auth/register", RegisterPayload{
		Name:                 "Alice",
		Email:                "alice@example.com",
		Password:             "secret-password",
		PasswordConfirmation: "secret-password",
	})

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "There is an account with that email address: alice@example.com")
	assert.NoError(t, smock.ExpectationsWereMet())
}

func TestConfirmRegistrationHandler_Success(t *testing.T) {
	smock := setupHandlersTest(t)
	router := registrationRouter()

	userID := uuid.New()
	smock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "verification_tokens" WHERE token = $1`)).
		WithArgs("tok-valid", 1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "token", "user_id", "expires_at"}).
			AddRow(1, "tok-valid", userID, time.Now().Add(time.Hour)))
	smock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "users" WHERE "users"."id" = $1`)).
		WithArgs(userID).
		WillReturnRows(sqlmock.NewRows([]string{"id", "email", "enabled"}).AddRow(userID, "alice@example.com", false))
	smock.ExpectBegin()
	smock.ExpectExec(regexp.QuoteMeta(`UPDATE "users" SET`)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	smock.ExpectCommit()

	w := performJSONRequest(router, http.MethodGet, "/auth/confirm?token=tok-valid", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Your account verified successfully")
	assert.NoError(t, smock.ExpectationsWereMet())
}

func TestConfirmRegistrationHandler_ExpiredToken(t *testing.T) {
	smock := setupHandlersTest(t)
	router := registrationRouter()

	userID := uuid.New()
	smock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "verification_tokens" WHERE token = $1`)).
		WithArgs("tok-expired", 1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "token", "user_id", "expires_at"}).
			AddRow(1, "tok-expired", userID, time.Now().Add(-time.Minute)))
	smock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "users" WHERE "users"."id" = $1`)).
		WithArgs(userID).
		WillReturnRows(sqlmock.NewRows([]string{"id", "email", "enabled"}).AddRow(userID, "alice@example.com", false))

	w := performJSONRequest(router, http.MethodGet, "/auth/confirm?token=tok-expired", nil)

	assert.Equal(t, http.StatusGone, w.Code)
	assert.Contains(t, w.Body.String(), "Your registration token has expired")
	assert.NoError(t, smock.ExpectationsWereMet())
}

func TestConfirmRegistrationHandler_UnknownToken(t *testing.T) {
	smock := setupHandlersTest(t)
	router := registrationRouter()

	smock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "verification_tokens" WHERE token = $1`)).
		WithArgs("tok-unknown", 1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "token", "user_id", "expires_at"}))

	w := performJSONRequest(router, http.MethodGet, "/auth/confirm?token=tok-unknown", nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid account confirmation token")
	assert.NoError(t, smock.ExpectationsWereMet())
}

func TestConfirmRegistrationHandler_MissingToken(t *testing.T) {
	setupHandlersTest(t)
	router := registrationRouter()

	w := performJSONRequest(router, http.MethodGet, "/auth/confirm", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
