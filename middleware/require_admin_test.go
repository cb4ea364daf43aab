package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func runRoleGate(role string, allowed ...string) *httptest.ResponseRecorder {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/api/admin/stats", nil)
	if role != "" {
		c.Set("role", role)
	}

	RequireRoles(allowed...)(c)
	if !c.IsAborted() {
		c.Status(http.StatusOK)
	}
	return w
}

func TestRequireRoles_AllowsMatchingRole(t *testing.T) {
	w := runRoleGate("admin", "admin")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRequireRoles_ForbidsOtherRole(t *testing.T) {
	w := runRoleGate("user", "admin")
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestRequireRoles_MissingRole(t *testing.T) {
	w := runRoleGate("", "admin")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
