package auth

import (
	"net/http"

	"aegisaccounts/backend/internal/models"

	"github.com/gin-gonic/gin"
)

// RoutePolicy mapeia (método, padrão de rota) para o papel mínimo exigido.
// A tabela é avaliada antes das operações de ciclo de vida serem invocadas;
// rotas sem entrada exigem apenas autenticação.
type RoutePolicy struct {
	Method  string
	Pattern string
	MinRole models.UserRole
}

var routePolicies = []RoutePolicy{
	{http.MethodGet, "/api/v1/users", models.RoleAdmin},
	{http.MethodGet, "/api/v1/users/:userId", models.RoleAdmin},
	{http.MethodPut, "/api/v1/users/:userId/role", models.RoleAdmin},
	{http.MethodDelete, "/api/v1/users/:userId", models.RoleAdmin},
	{http.MethodGet, "/api/v1/admin/settings", models.RoleAdmin},
	{http.MethodPut, "/api/v1/admin/settings", models.RoleAdmin},
	{http.MethodPost, "/api/v1/admin/settings/test-email", models.RoleAdmin},
}

// RequiredRole retorna o papel mínimo configurado para uma rota, se houver.
func RequiredRole(method, pattern string) (models.UserRole, bool) {
	for _, p := range routePolicies {
		if p.Method == method && p.Pattern == pattern {
			return p.MinRole, true
		}
	}
	return "", false
}

// roleSatisfies define a ordem dos papéis: admin atende qualquer exigência,
// user atende apenas "user".
func roleSatisfies(have, want models.UserRole) bool {
	if have == models.RoleAdmin {
		return true
	}
	return have == want
}

// Authorize é o middleware que aplica a tabela de políticas. Deve rodar depois
// do AuthMiddleware, que popula "userRole" no contexto.
func Authorize() gin.HandlerFunc {
	return func(c *gin.Context) {
		required, ok := RequiredRole(c.Request.Method, c.FullPath())
		if !ok {
			c.Next()
			return
		}

		roleVal, exists := c.Get("userRole")
		if !exists {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Role not found in token"})
			return
		}
		role, ok := roleVal.(models.UserRole)
		if !ok || !roleSatisfies(role, required) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Insufficient permissions"})
			return
		}

		c.Next()
	}
}
