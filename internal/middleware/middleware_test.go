package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"kedai_pos_backend/pkg/utils"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func protectedRouter(t *testing.T, jwtManager *utils.JWTManager, roles ...string) *gin.Engine {
	t.Helper()
	r := gin.New()
	r.GET("/secret", AuthMiddleware(jwtManager), RoleAuthMiddleware(roles...), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"operator": c.GetString(ContextOperatorID)})
	})
	return r
}

func TestAuthMiddleware(t *testing.T) {
	jwtManager, err := utils.NewJWTManager("secret", time.Hour)
	require.NoError(t, err)
	token, _, err := jwtManager.GenerateAccessToken("operator", utils.RoleOperator)
	require.NoError(t, err)

	other, err := utils.NewJWTManager("other-secret", time.Hour)
	require.NoError(t, err)
	forged, _, err := other.GenerateAccessToken("operator", utils.RoleOperator)
	require.NoError(t, err)

	r := protectedRouter(t, jwtManager, utils.RoleOperator)
	cases := []struct {
		name   string
		header string
		status int
	}{
		{"missing header", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic " + token, http.StatusUnauthorized},
		{"bad signature", "Bearer " + forged, http.StatusUnauthorized},
		{"valid", "Bearer " + token, http.StatusOK},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/secret", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			assert.Equal(t, tc.status, w.Code)
		})
	}
}

func TestRoleAuthMiddlewareRejectsOtherRoles(t *testing.T) {
	jwtManager, err := utils.NewJWTManager("secret", time.Hour)
	require.NoError(t, err)
	token, _, err := jwtManager.GenerateAccessToken("operator", utils.RoleOperator)
	require.NoError(t, err)

	r := protectedRouter(t, jwtManager, "admin")
	req := httptest.NewRequest(http.MethodGet, "/secret", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), utils.ErrCodeForbidden)
}

func TestRateLimit(t *testing.T) {
	limit, err := RateLimit("2-M")
	require.NoError(t, err)

	calls := 0
	r := gin.New()
	r.POST("/submit", limit, func(c *gin.Context) {
		calls++
		c.Status(http.StatusCreated)
	})

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodPost, "/submit", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		codes = append(codes, w.Code)
		if w.Code == http.StatusTooManyRequests {
			assert.Contains(t, w.Body.String(), utils.ErrCodeTooManyRequests)
		}
	}
	assert.Equal(t, []int{http.StatusCreated, http.StatusCreated, http.StatusTooManyRequests}, codes)
	assert.Equal(t, 2, calls)

	_, err = RateLimit("lots")
	assert.Error(t, err)
}
