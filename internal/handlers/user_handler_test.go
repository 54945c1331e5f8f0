package handlers

import (
	"encoding/json"
	"net/http"
	"regexp"
	"testing"

	"aegisaccounts/backend/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

// userRouter injeta o userID no contexto, como faria o AuthMiddleware.
func userRouter(userID uuid.UUID) *gin.Engine {
	router := gin.New()
	router.Use(func(c *gin.Context) {
		c.Set("userID", userID)
		c.Next()
	})
	router.GET("/api/v1/me", MeHandler)
	router.PUT("/api/v1/me", UpdateMeHandler)
	router.PUT("/api/v1/me/password", ChangePasswordHandler)
	router.DELETE("/api/v1/users/:userId", DeleteUserHandler)
	return router
}

func TestMeHandler(t *testing.T) {
	smock := setupHandlersTest(t)
	userID := uuid.New()
	router := userRouter(userID)

	smock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "users" WHERE id = $1`)).
		WithArgs(userID, 1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "email", "password_hash", "enabled", "role"}).
			AddRow(userID, "Alice", "alice@example.com", "hash", true, models.RoleUser))

	w := performJSONRequest(router, http.MethodGet, "/api/v1/me", nil)

	assert.Equal(t, http.StatusOK, w.Code)

	var response UserResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, "alice@example.com", response.Email)

	// O hash jamais aparece na resposta.
	assert.NotContains(t, w.Body.String(), "hash")
	assert.NoError(t, smock.ExpectationsWereMet())
}

func TestChangePasswordHandler(t *testing.T) {
	smock := setupHandlersTest(t)
	userID := uuid.New()
	router := userRouter(userID)

	smock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "users" WHERE id = $1`)).
		WithArgs(userID, 1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "email", "password_hash", "enabled", "role"}).
			AddRow(userID, "Alice", "alice@example.com", "old-hash", true, models.RoleUser))
	smock.ExpectBegin()
	smock.ExpectExec(regexp.QuoteMeta(`UPDATE "users" SET`)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	smock.ExpectCommit()

	w := performJSONRequest(router, http.MethodPut, "/api/v1/me/password", ChangePasswordPayload{
		NewPassword: "a-brand-new-password",
	})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Password changed successfully.")
	assert.NoError(t, smock.ExpectationsWereMet())
}

func TestChangePasswordHandler_TooShort(t *testing.T) {
	setupHandlersTest(t)
	router := userRouter(uuid.New())

	w := performJSONRequest(router, http.MethodPut, "/api/v1/me/password", ChangePasswordPayload{
		NewPassword: "short",
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUpdateMeHandler_EmailTaken(t *testing.T) {
	smock := setupHandlersTest(t)
	userID := uuid.New()
	router := userRouter(userID)

	smock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "users" WHERE id = $1`)).
		WithArgs(userID, 1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "email", "password_hash", "enabled", "role"}).
			AddRow(userID, "Alice", "alice@example.com", "hash", true, models.RoleUser))

	// O e-mail alvo pertence a outro usuário.
	smock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "users" WHERE email = $1`)).
		WithArgs("taken@example.com", 1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "email"}).AddRow(uuid.New(), "taken@example.com"))

	w := performJSONRequest(router, http.MethodPut, "/api/v1/me", UpdateMePayload{
		Email: "taken@example.com",
	})

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "Email not available.")
	assert.NoError(t, smock.ExpectationsWereMet())
}

func TestDeleteUserHandler_NotFound(t *testing.T) {
	smock := setupHandlersTest(t)
	router := userRouter(uuid.New())

	targetID := uuid.New()
	smock.ExpectBegin()
	smock.ExpectExec(regexp.QuoteMeta(`DELETE FROM "users" WHERE id = $1`)).
		WithArgs(targetID).
		WillReturnResult(sqlmock.NewResult(0, 0))
	smock.ExpectCommit()

	w := performJSONRequest(router, http.MethodDelete, "/api/v1/users/"+targetID.String(), nil)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.NoError(t, smock.ExpectationsWereMet())
}
