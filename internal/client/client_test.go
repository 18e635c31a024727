package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_ListRekapKas(t *testing.T) {
	t.Run("decodes entry array", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/api/rekap-kas", r.URL.Path)
			assert.Equal(t, "03", r.URL.Query().Get("rt"))
			json.NewEncoder(w).Encode(map[string]any{
				"data": []map[string]any{
					{"id": 1, "tanggal": "2024-01-05T00:00:00Z", "keterangan": "Iuran warga", "jenis": "pemasukan", "jumlah": 100000, "saldo": 100000},
				},
			})
		}))
		defer server.Close()

		entries, err := New(server.URL).ListRekapKas(context.Background(), "03")
		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Equal(t, "Iuran warga", entries[0].Keterangan)
		assert.Equal(t, int64(100000), entries[0].Jumlah)
	})

	t.Run("non-array payload fails whole, no partial result", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(map[string]any{"data": map[string]any{"oops": true}})
		}))
		defer server.Close()

		entries, err := New(server.URL).ListRekapKas(context.Background(), "")
		assert.ErrorIs(t, err, ErrMalformedPayload)
		assert.Nil(t, entries)
	})
}

func TestClient_ErrorMessagePassthrough(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		json.NewEncoder(w).Encode(map[string]string{"message": "NIK atau email sudah terdaftar"})
	}))
	defer server.Close()

	_, err := New(server.URL).CreateUser(context.Background(), CreateUserInput{})
	require.Error(t, err)
	assert.Equal(t, "NIK atau email sudah terdaftar", err.Error())

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusConflict, apiErr.StatusCode)
}

func TestClient_NonJSONErrorBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte("<html>bad gateway</html>"))
	}))
	defer server.Close()

	_, err := New(server.URL).Me(context.Background())
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadGateway, apiErr.StatusCode)
	assert.Equal(t, http.StatusText(http.StatusBadGateway), apiErr.Message)
}

func TestClient_BearerToken(t *testing.T) {
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		json.NewEncoder(w).Encode(map[string]any{"data": map[string]any{"id": 1, "nama": "Pak Ketua", "role": "rt"}})
	}))
	defer server.Close()

	c := New(server.URL)
	c.SetToken("tok-1")
	_, err := c.Me(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Bearer tok-1", gotAuth)
}

func TestClient_LoginInstallsToken(t *testing.T) {
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/auth/admin/login":
			json.NewEncoder(w).Encode(map[string]any{
				"data": map[string]any{
					"token": "tok-issued",
					"user":  map[string]any{"id": 1, "nama": "Pak Ketua", "role": "rt"},
				},
			})
		case "/api/auth/logout":
			gotAuth = r.Header.Get("Authorization")
			json.NewEncoder(w).Encode(map[string]string{"message": "Logout berhasil"})
		}
	}))
	defer server.Close()

	c := New(server.URL)
	user, token, err := c.Login(context.Background(), "ketua@example.com", "rahasia123")
	require.NoError(t, err)
	assert.Equal(t, "tok-issued", token)
	assert.Equal(t, "Pak Ketua", user.Nama)

	require.NoError(t, c.Logout(context.Background()))
	assert.Equal(t, "Bearer tok-issued", gotAuth)
}

func TestIsUnauthorized(t *testing.T) {
	assert.True(t, IsUnauthorized(&APIError{StatusCode: http.StatusUnauthorized}))
	assert.False(t, IsUnauthorized(&APIError{StatusCode: http.StatusForbidden}))
	assert.False(t, IsUnauthorized(context.Canceled))
}
