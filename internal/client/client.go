// Package client is a thin HTTP client over the Cepat Tanggap REST API.
// Every call is a single request/response with no retry; errors carry the
// backend's own message so screens can surface it verbatim.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/wanziee/cepat-tanggap-admin/internal/ledger"
	"github.com/wanziee/cepat-tanggap-admin/internal/models"
)

// ErrMalformedPayload reports a response body whose shape does not match
// the contract (e.g. a rekap-kas payload that is not an array).
var ErrMalformedPayload = errors.New("format data tidak valid dari server")

// APIError is a non-2xx response. Message is the backend's text, shown
// to the user as-is.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("server error (HTTP %d)", e.StatusCode)
}

// IsUnauthorized reports whether err is a 401 from the backend.
func IsUnauthorized(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusUnauthorized
}

type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

func New(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 15 * time.Second},
	}
}

// SetToken installs the bearer token used on authenticated calls.
func (c *Client) SetToken(token string) { c.token = token }

type envelope struct {
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
}

// do issues one request and returns the decoded data envelope. A non-2xx
// status becomes an *APIError carrying the backend message.
func (c *Client) do(ctx context.Context, method, path string, contentType string, body io.Reader) (*envelope, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 10<<20))
	if err != nil {
		return nil, err
	}

	var env envelope
	if len(raw) > 0 {
		// Tolerate non-JSON error bodies; the status code still decides.
		_ = json.Unmarshal(raw, &env)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := env.Message
		if msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		return nil, &APIError{StatusCode: resp.StatusCode, Message: msg}
	}

	return &env, nil
}

func (c *Client) doJSON(ctx context.Context, method, path string, payload any) (*envelope, error) {
	var body io.Reader
	if payload != nil {
		buf, err := json.Marshal(payload)
		if err != nil {
			return nil, err
		}
		body = bytes.NewReader(buf)
	}
	return c.do(ctx, method, path, "application/json", body)
}

// Login authenticates against the admin login endpoint and installs the
// returned token on the client.
func (c *Client) Login(ctx context.Context, identifier, password string) (models.User, string, error) {
	env, err := c.doJSON(ctx, http.MethodPost, "/api/auth/admin/login", map[string]string{
		"email":    identifier,
		"password": password,
	})
	if err != nil {
		return models.User{}, "", err
	}

	var data struct {
		User  models.User `json:"user"`
		Token string      `json:"token"`
	}
	if err := json.Unmarshal(env.Data, &data); err != nil || data.Token == "" {
		return models.User{}, "", ErrMalformedPayload
	}

	c.token = data.Token
	return data.User, data.Token, nil
}

// Me fetches the identity behind the current token.
func (c *Client) Me(ctx context.Context) (models.User, error) {
	env, err := c.do(ctx, http.MethodGet, "/api/auth/me", "", nil)
	if err != nil {
		return models.User{}, err
	}

	var user models.User
	if err := json.Unmarshal(env.Data, &user); err != nil || user.ID == 0 {
		return models.User{}, ErrMalformedPayload
	}
	return user, nil
}

// Logout invalidates the current token server-side.
func (c *Client) Logout(ctx context.Context) error {
	_, err := c.do(ctx, http.MethodPost, "/api/auth/logout", "", nil)
	return err
}

// ListUsers returns accounts, optionally filtered by role.
func (c *Client) ListUsers(ctx context.Context, role string) ([]models.User, error) {
	path := "/api/users"
	if role != "" {
		path += "?role=" + url.QueryEscape(role)
	}
	env, err := c.do(ctx, http.MethodGet, path, "", nil)
	if err != nil {
		return nil, err
	}

	var users []models.User
	if err := json.Unmarshal(env.Data, &users); err != nil {
		return nil, ErrMalformedPayload
	}
	return users, nil
}

// CreateUserInput mirrors the resident-creation form.
type CreateUserInput struct {
	NIK      string `json:"nik"`
	Nama     string `json:"nama"`
	Email    string `json:"email"`
	Password string `json:"password"`
	NoHP     string `json:"no_hp"`
	RT       string `json:"rt"`
	RW       string `json:"rw"`
	Alamat   string `json:"alamat"`
	Role     string `json:"role,omitempty"`
}

// CreateUser registers a new account (role defaults to warga server-side).
func (c *Client) CreateUser(ctx context.Context, in CreateUserInput) (models.User, error) {
	env, err := c.doJSON(ctx, http.MethodPost, "/api/users", in)
	if err != nil {
		return models.User{}, err
	}

	var user models.User
	if err := json.Unmarshal(env.Data, &user); err != nil {
		return models.User{}, ErrMalformedPayload
	}
	return user, nil
}

// DeleteUser removes an account by id.
func (c *Client) DeleteUser(ctx context.Context, id int) error {
	_, err := c.do(ctx, http.MethodDelete, "/api/users/"+strconv.Itoa(id), "", nil)
	return err
}

// ListLaporan returns complaints, optionally filtered by status.
func (c *Client) ListLaporan(ctx context.Context, status string) ([]models.Laporan, error) {
	path := "/api/laporan"
	if status != "" {
		path += "?status=" + url.QueryEscape(status)
	}
	env, err := c.do(ctx, http.MethodGet, path, "", nil)
	if err != nil {
		return nil, err
	}

	var laporans []models.Laporan
	if err := json.Unmarshal(env.Data, &laporans); err != nil {
		return nil, ErrMalformedPayload
	}
	return laporans, nil
}

// GetLaporan returns one complaint with its reporter.
func (c *Client) GetLaporan(ctx context.Context, id int) (models.Laporan, error) {
	env, err := c.do(ctx, http.MethodGet, "/api/laporan/"+strconv.Itoa(id), "", nil)
	if err != nil {
		return models.Laporan{}, err
	}

	var laporan models.Laporan
	if err := json.Unmarshal(env.Data, &laporan); err != nil || laporan.ID == 0 {
		return models.Laporan{}, ErrMalformedPayload
	}
	return laporan, nil
}

// UpdateLaporanStatus moves a complaint through its workflow. photo may
// be nil; photoName is its filename when present.
func (c *Client) UpdateLaporanStatus(ctx context.Context, id int, status, tanggapan string, photo io.Reader, photoName string) error {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	if err := mw.WriteField("status", status); err != nil {
		return err
	}
	if err := mw.WriteField("tanggapan", tanggapan); err != nil {
		return err
	}
	if photo != nil {
		part, err := mw.CreateFormFile("photo", photoName)
		if err != nil {
			return err
		}
		if _, err := io.Copy(part, photo); err != nil {
			return err
		}
	}
	if err := mw.Close(); err != nil {
		return err
	}

	path := "/api/laporan/" + strconv.Itoa(id) + "/status"
	_, err := c.do(ctx, http.MethodPut, path, mw.FormDataContentType(), &buf)
	return err
}

// ListKasBulanan returns the monthly PDF documents.
func (c *Client) ListKasBulanan(ctx context.Context) ([]models.KasBulanan, error) {
	env, err := c.do(ctx, http.MethodGet, "/api/kas-bulanan", "", nil)
	if err != nil {
		return nil, err
	}

	var docs []models.KasBulanan
	if err := json.Unmarshal(env.Data, &docs); err != nil {
		return nil, ErrMalformedPayload
	}
	return docs, nil
}

// UploadKasBulanan sends a monthly ledger PDF with its description.
func (c *Client) UploadKasBulanan(ctx context.Context, file io.Reader, filename, description string) error {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	part, err := mw.CreateFormFile("file", filename)
	if err != nil {
		return err
	}
	if _, err := io.Copy(part, file); err != nil {
		return err
	}
	if err := mw.WriteField("description", description); err != nil {
		return err
	}
	if err := mw.Close(); err != nil {
		return err
	}

	_, err = c.do(ctx, http.MethodPost, "/api/kas-bulanan/upload", mw.FormDataContentType(), &buf)
	return err
}

// ListRekapKas fetches the itemized ledger for one RT scope. A payload
// that is not a JSON array fails with ErrMalformedPayload; no partial
// result is returned.
func (c *Client) ListRekapKas(ctx context.Context, rt string) ([]ledger.Entry, error) {
	path := "/api/rekap-kas"
	if rt != "" {
		path += "?rt=" + url.QueryEscape(rt)
	}
	env, err := c.do(ctx, http.MethodGet, path, "", nil)
	if err != nil {
		return nil, err
	}

	var entries []ledger.Entry
	if err := json.Unmarshal(env.Data, &entries); err != nil {
		return nil, ErrMalformedPayload
	}
	return entries, nil
}

// CreateRekapKasInput is the itemized ledger entry payload.
type CreateRekapKasInput struct {
	Keterangan string `json:"keterangan"`
	Jenis      string `json:"jenis"`
	Jumlah     int64  `json:"jumlah"`
	Tanggal    string `json:"tanggal"` // 2006-01-02
	RT         string `json:"rt"`
	RW         string `json:"rw"`
	UserID     int    `json:"user_id"`
}

// CreateRekapKas records one itemized ledger entry.
func (c *Client) CreateRekapKas(ctx context.Context, in CreateRekapKasInput) (ledger.Entry, error) {
	env, err := c.doJSON(ctx, http.MethodPost, "/api/rekap-kas", in)
	if err != nil {
		return ledger.Entry{}, err
	}

	var entry ledger.Entry
	if err := json.Unmarshal(env.Data, &entry); err != nil || entry.ID == 0 {
		return ledger.Entry{}, ErrMalformedPayload
	}
	return entry, nil
}
