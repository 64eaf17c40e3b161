package internal

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func testRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/me", Auth(testSecret), func(c *gin.Context) {
		c.JSON(200, gin.H{"uid": uid(c)})
	})
	r.GET("/logs", Auth(testSecret), RequireRole("organizer"), func(c *gin.Context) {
		c.JSON(200, gin.H{"ok": true})
	})
	return r
}

func signToken(t *testing.T, secret string, userID int, role string, ttl time.Duration) string {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		UserID: userID,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Issuer:    "hackhub",
		},
	})
	s, err := tok.SignedString([]byte(secret))
	require.NoError(t, err)
	return s
}

func doRequest(r *gin.Engine, token string) *httptest.ResponseRecorder {
	return doRequestPath(r, token, "/me")
}

func doRequestPath(r *gin.Engine, token, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.AddCookie(&http.Cookie{Name: cookieName, Value: token})
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuth_NoCookie(t *testing.T) {
	w := doRequest(testRouter(), "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuth_ValidToken(t *testing.T) {
	token := signToken(t, testSecret, 42, "participant", time.Hour)
	w := doRequest(testRouter(), token)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"uid":42}`, w.Body.String())
}

func TestAuth_WrongSecret(t *testing.T) {
	token := signToken(t, "other-secret", 42, "participant", time.Hour)
	w := doRequest(testRouter(), token)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuth_ExpiredToken(t *testing.T) {
	token := signToken(t, testSecret, 42, "participant", -time.Hour)
	w := doRequest(testRouter(), token)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireRole_Allows(t *testing.T) {
	token := signToken(t, testSecret, 1, "organizer", time.Hour)
	w := doRequestPath(testRouter(), token, "/logs")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRequireRole_Rejects(t *testing.T) {
	token := signToken(t, testSecret, 1, "judge", time.Hour)
	w := doRequestPath(testRouter(), token, "/logs")
	assert.Equal(t, http.StatusForbidden, w.Code)
}
