package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-redis/redismock/v8"
	"github.com/golang-jwt/jwt/v5"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signToken(t *testing.T, userID int, role string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": userID,
		"role":    role,
		"exp":     time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte(viper.GetString("jwt.secret_key")))
	require.NoError(t, err)
	return signed
}

func TestAuthMiddleware(t *testing.T) {
	viper.Set("jwt.secret_key", "test-secret")
	InitAuthMiddleware(nil)

	var gotUserID, gotRole string
	handler := AuthMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUserID, _ = r.Context().Value("userID").(string)
		gotRole, _ = r.Context().Value("userRole").(string)
		w.WriteHeader(http.StatusOK)
	}))

	t.Run("valid token passes with identity in context", func(t *testing.T) {
		r := httptest.NewRequest("GET", "/api/auth/me", nil)
		r.Header.Set("Authorization", "Bearer "+signToken(t, 7, "rt"))
		w := httptest.NewRecorder()

		handler.ServeHTTP(w, r)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "7", gotUserID)
		assert.Equal(t, "rt", gotRole)
	})

	t.Run("missing header rejected", func(t *testing.T) {
		r := httptest.NewRequest("GET", "/api/auth/me", nil)
		w := httptest.NewRecorder()

		handler.ServeHTTP(w, r)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("malformed header rejected", func(t *testing.T) {
		r := httptest.NewRequest("GET", "/api/auth/me", nil)
		r.Header.Set("Authorization", "Token abc")
		w := httptest.NewRecorder()

		handler.ServeHTTP(w, r)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("garbage token rejected", func(t *testing.T) {
		r := httptest.NewRequest("GET", "/api/auth/me", nil)
		r.Header.Set("Authorization", "Bearer not-a-jwt")
		w := httptest.NewRecorder()

		handler.ServeHTTP(w, r)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("expired token rejected", func(t *testing.T) {
		token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
			"user_id": 7,
			"role":    "rt",
			"exp":     time.Now().Add(-time.Hour).Unix(),
		})
		signed, err := token.SignedString([]byte("test-secret"))
		require.NoError(t, err)

		r := httptest.NewRequest("GET", "/api/auth/me", nil)
		r.Header.Set("Authorization", "Bearer "+signed)
		w := httptest.NewRecorder()

		handler.ServeHTTP(w, r)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestAuthMiddleware_BlacklistedToken(t *testing.T) {
	viper.Set("jwt.secret_key", "test-secret")

	rdb, rmock := redismock.NewClientMock()
	InitAuthMiddleware(rdb)
	defer InitAuthMiddleware(nil)

	token := signToken(t, 7, "rt")
	rmock.ExpectGet("blacklist:" + token).SetVal("1")

	handler := AuthMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	r := httptest.NewRequest("GET", "/api/auth/me", nil)
	r.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, r)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.NoError(t, rmock.ExpectationsWereMet())
}

func TestRequireAdminRole(t *testing.T) {
	viper.Set("jwt.secret_key", "test-secret")
	InitAuthMiddleware(nil)

	chain := AuthMiddleware(RequireAdminRole(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})))

	t.Run("admin roles pass", func(t *testing.T) {
		for _, role := range []string{"admin", "rt", "rw"} {
			r := httptest.NewRequest("GET", "/api/users", nil)
			r.Header.Set("Authorization", "Bearer "+signToken(t, 1, role))
			w := httptest.NewRecorder()

			chain.ServeHTTP(w, r)

			assert.Equal(t, http.StatusOK, w.Code, "role %s should pass", role)
		}
	})

	t.Run("warga is refused with the standard denial message", func(t *testing.T) {
		r := httptest.NewRequest("GET", "/api/users", nil)
		r.Header.Set("Authorization", "Bearer "+signToken(t, 9, "warga"))
		w := httptest.NewRecorder()

		chain.ServeHTTP(w, r)

		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.Contains(t, w.Body.String(), "Akses Ditolak: Anda tidak memiliki izin untuk mengakses halaman ini.")
	})
}
