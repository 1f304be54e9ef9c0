package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"gemstore_server/pkg/util/jwt"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestEngine(mw ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handlers := append(mw, func(c *gin.Context) {
		actor := CurrentActor(c)
		if actor == nil {
			c.JSON(http.StatusOK, gin.H{"anonymous": true})
			return
		}
		c.JSON(http.StatusOK, gin.H{"userId": actor.UserID, "isAdmin": actor.IsAdmin})
	})
	r.GET("/x", handlers...)
	return r
}

func do(r http.Handler, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestJWTAuthTokenSources(t *testing.T) {
	jwt.Init("mw-secret", 60, 168)
	token, err := jwt.GenerateAccessToken(7, false)
	require.NoError(t, err)
	r := newTestEngine(JWTAuth())

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := do(r, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"userId":7,"isAdmin":false}`, w.Body.String())

	req = httptest.NewRequest(http.MethodGet, "/x", nil)
	req.AddCookie(&http.Cookie{Name: "access_token", Value: token})
	assert.Equal(t, http.StatusOK, do(r, req).Code)

	req = httptest.NewRequest(http.MethodGet, "/x?token="+token, nil)
	assert.Equal(t, http.StatusOK, do(r, req).Code)
}

func TestJWTAuthRejects(t *testing.T) {
	jwt.Init("mw-secret", 60, 168)
	refresh, _, err := jwt.GenerateRefreshToken(7, false)
	require.NoError(t, err)
	r := newTestEngine(JWTAuth())

	assert.Equal(t, http.StatusUnauthorized, do(r, httptest.NewRequest(http.MethodGet, "/x", nil)).Code)

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("Authorization", "Token abc")
	assert.Equal(t, http.StatusUnauthorized, do(r, req).Code)

	req = httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("Authorization", "Bearer "+refresh)
	assert.Equal(t, http.StatusUnauthorized, do(r, req).Code)
}

func TestOptionalAuthAndAdminOnly(t *testing.T) {
	jwt.Init("mw-secret", 60, 168)
	admin, err := jwt.GenerateAccessToken(1, true)
	require.NoError(t, err)
	customer, err := jwt.GenerateAccessToken(2, false)
	require.NoError(t, err)

	opt := newTestEngine(OptionalAuth())
	w := do(opt, httptest.NewRequest(http.MethodGet, "/x?token=bogus", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"anonymous":true}`, w.Body.String())

	adm := newTestEngine(JWTAuth(), AdminOnly())
	assert.Equal(t, http.StatusForbidden, do(adm, httptest.NewRequest(http.MethodGet, "/x?token="+customer, nil)).Code)
	w = do(adm, httptest.NewRequest(http.MethodGet, "/x?token="+admin, nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"userId":1,"isAdmin":true}`, w.Body.String())
}
