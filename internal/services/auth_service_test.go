package services

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-redis/redismock/v8"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupAuthConfig() {
	viper.Set("argon2.salt_length", 16)
	viper.Set("argon2.time", 1)
	viper.Set("argon2.memory", 64*1024)
	viper.Set("argon2.threads", 4)
	viper.Set("argon2.key_length", 32)
	viper.Set("jwt.secret_key", "test-secret")
	viper.Set("jwt.expiry_hours", 24)
}

func TestAuthService_Login(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	setupAuthConfig()
	service := NewAuthService(db, nil)

	userColumns := []string{"id", "nik", "nama", "email", "password", "role"}

	t.Run("successful login with email", func(t *testing.T) {
		hashedPassword, _ := hashPassword("rahasia123")

		mock.ExpectQuery("SELECT id, nik, nama, email, password, role FROM users").
			WithArgs("ketua@example.com").
			WillReturnRows(sqlmock.NewRows(userColumns).
				AddRow(1, "3175094104890002", "Pak Ketua", "ketua@example.com", hashedPassword, "rt"))

		body, _ := json.Marshal(LoginRequest{Email: "ketua@example.com", Password: "rahasia123"})
		r := httptest.NewRequest("POST", "/api/auth/admin/login", bytes.NewBuffer(body))
		w := httptest.NewRecorder()

		service.Login(w, r)

		assert.Equal(t, http.StatusOK, w.Code)
		var response struct {
			Data AuthResponse `json:"data"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		assert.NotEmpty(t, response.Data.Token)
		assert.Equal(t, "Pak Ketua", response.Data.User.Nama)
		assert.Equal(t, "rt", response.Data.User.Role)
	})

	t.Run("user not found", func(t *testing.T) {
		mock.ExpectQuery("SELECT id, nik, nama, email, password, role FROM users").
			WithArgs("nobody@example.com").
			WillReturnError(sql.ErrNoRows)

		body, _ := json.Marshal(LoginRequest{Email: "nobody@example.com", Password: "rahasia123"})
		r := httptest.NewRequest("POST", "/api/auth/admin/login", bytes.NewBuffer(body))
		w := httptest.NewRecorder()

		service.Login(w, r)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("wrong password", func(t *testing.T) {
		hashedPassword, _ := hashPassword("benar123")

		mock.ExpectQuery("SELECT id, nik, nama, email, password, role FROM users").
			WithArgs("ketua@example.com").
			WillReturnRows(sqlmock.NewRows(userColumns).
				AddRow(1, "3175094104890002", "Pak Ketua", "ketua@example.com", hashedPassword, "rt"))

		body, _ := json.Marshal(LoginRequest{Email: "ketua@example.com", Password: "salah123"})
		r := httptest.NewRequest("POST", "/api/auth/admin/login", bytes.NewBuffer(body))
		w := httptest.NewRecorder()

		service.Login(w, r)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("warga account refused at admin login", func(t *testing.T) {
		hashedPassword, _ := hashPassword("rahasia123")

		mock.ExpectQuery("SELECT id, nik, nama, email, password, role FROM users").
			WithArgs("warga@example.com").
			WillReturnRows(sqlmock.NewRows(userColumns).
				AddRow(7, "3175094104890009", "Bu Warga", "warga@example.com", hashedPassword, "warga"))

		body, _ := json.Marshal(LoginRequest{Email: "warga@example.com", Password: "rahasia123"})
		r := httptest.NewRequest("POST", "/api/auth/admin/login", bytes.NewBuffer(body))
		w := httptest.NewRecorder()

		service.Login(w, r)

		assert.Equal(t, http.StatusForbidden, w.Code)
		var resp ErrorResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Contains(t, resp.Message, "Akses Ditolak")
	})

	t.Run("NIK accepted as identifier", func(t *testing.T) {
		hashedPassword, _ := hashPassword("rahasia123")

		mock.ExpectQuery("SELECT id, nik, nama, email, password, role FROM users").
			WithArgs("3175094104890002").
			WillReturnRows(sqlmock.NewRows(userColumns).
				AddRow(1, "3175094104890002", "Pak Ketua", "ketua@example.com", hashedPassword, "admin"))

		body, _ := json.Marshal(LoginRequest{Email: "3175094104890002", Password: "rahasia123"})
		r := httptest.NewRequest("POST", "/api/auth/admin/login", bytes.NewBuffer(body))
		w := httptest.NewRecorder()

		service.Login(w, r)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("invalid request body", func(t *testing.T) {
		r := httptest.NewRequest("POST", "/api/auth/admin/login", bytes.NewBuffer([]byte("invalid")))
		w := httptest.NewRecorder()

		service.Login(w, r)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestAuthService_Me(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	service := NewAuthService(db, nil)

	t.Run("returns identity from context user", func(t *testing.T) {
		mock.ExpectQuery("SELECT id, nik, nama, email, no_hp, rt, rw, alamat, role FROM users").
			WithArgs("1").
			WillReturnRows(sqlmock.NewRows([]string{"id", "nik", "nama", "email", "no_hp", "rt", "rw", "alamat", "role"}).
				AddRow(1, "3175094104890002", "Pak Ketua", "ketua@example.com", "0812345678", "03", "05", "Jl. Melati 1", "rt"))

		r := httptest.NewRequest("GET", "/api/auth/me", nil)
		ctx := context.WithValue(r.Context(), "userID", "1")
		ctx = context.WithValue(ctx, "userRole", "rt")
		r = r.WithContext(ctx)
		w := httptest.NewRecorder()

		service.Me(w, r)

		assert.Equal(t, http.StatusOK, w.Code)
		var resp struct {
			Data struct {
				Nama string `json:"nama"`
				NIK  string `json:"nik"`
				Role string `json:"role"`
			} `json:"data"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "Pak Ketua", resp.Data.Nama)
		assert.Equal(t, "3175094104890002", resp.Data.NIK)
	})

	t.Run("unauthorized without context user", func(t *testing.T) {
		r := httptest.NewRequest("GET", "/api/auth/me", nil)
		w := httptest.NewRecorder()

		service.Me(w, r)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestAuthService_Logout(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	viper.Set("jwt.expiry_hours", 24)

	rdb, rmock := redismock.NewClientMock()
	service := NewAuthService(db, rdb)

	rmock.ExpectSet("blacklist:some-token", "1", 24*time.Hour).SetVal("OK")

	r := httptest.NewRequest("POST", "/api/auth/logout", nil)
	r.Header.Set("Authorization", "Bearer some-token")
	w := httptest.NewRecorder()

	service.Logout(w, r)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.NoError(t, rmock.ExpectationsWereMet())
}

func TestPasswordHashing(t *testing.T) {
	setupAuthConfig()

	password := "testpassword"

	hashed, err := hashPassword(password)
	assert.NoError(t, err)
	assert.NotEmpty(t, hashed)

	assert.True(t, verifyPassword(password, hashed))
	assert.False(t, verifyPassword("wrongpassword", hashed))
}

func TestGenerateJWT(t *testing.T) {
	setupAuthConfig()

	token, err := generateJWT(123, "admin")
	assert.NoError(t, err)
	assert.NotEmpty(t, token)
}
