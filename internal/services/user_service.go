package services

import (
	"database/sql"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/wanziee/cepat-tanggap-admin/internal/models"
)

type UserService struct {
	db        *sql.DB
	validator *validator.Validate
}

// CreateUserRequest is the resident-creation payload. Role defaults to
// warga when absent; only the four known roles are accepted.
type CreateUserRequest struct {
	NIK      string `json:"nik" validate:"required,len=16,numeric"`
	Nama     string `json:"nama" validate:"required,min=2"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	NoHP     string `json:"no_hp" validate:"required"`
	RT       string `json:"rt" validate:"required,max=3"`
	RW       string `json:"rw" validate:"required,max=3"`
	Alamat   string `json:"alamat" validate:"required"`
	Role     string `json:"role" validate:"omitempty,oneof=admin rt rw warga"`
}

func NewUserService(db *sql.DB) *UserService {
	return &UserService{
		db:        db,
		validator: validator.New(),
	}
}

// ListUsers returns all accounts, optionally filtered by ?role=.
func (s *UserService) ListUsers(w http.ResponseWriter, r *http.Request) {
	role := r.URL.Query().Get("role")

	query := "SELECT id, nik, nama, email, no_hp, rt, rw, alamat, role, created_at FROM users ORDER BY nama"
	args := []any{}
	if role != "" {
		query = "SELECT id, nik, nama, email, no_hp, rt, rw, alamat, role, created_at FROM users WHERE role = $1 ORDER BY nama"
		args = append(args, role)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		log.Printf("[USERS] Failed to list users: %v", err)
		SendErrorResponse(w, "Gagal memuat data user", http.StatusInternalServerError, nil)
		return
	}
	defer rows.Close()

	users := []models.User{}
	for rows.Next() {
		var u models.User
		var noHP, rt, rw, alamat sql.NullString
		if err := rows.Scan(&u.ID, &u.NIK, &u.Nama, &u.Email, &noHP, &rt, &rw, &alamat, &u.Role, &u.CreatedAt); err != nil {
			log.Printf("[USERS] Row scan failed: %v", err)
			SendErrorResponse(w, "Gagal memuat data user", http.StatusInternalServerError, nil)
			return
		}
		u.NoHP, u.RT, u.RW, u.Alamat = noHP.String, rt.String, rw.String, alamat.String
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		log.Printf("[USERS] Row iteration failed: %v", err)
		SendErrorResponse(w, "Gagal memuat data user", http.StatusInternalServerError, nil)
		return
	}

	SendDataResponse(w, http.StatusOK, users)
}

// CreateUser registers a new account, typically a warga added by an
// admin from the resident form.
func (s *UserService) CreateUser(w http.ResponseWriter, r *http.Request) {
	maxBytes := 1_048_576 // 1 MB
	r.Body = http.MaxBytesReader(w, r.Body, int64(maxBytes))

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	var req CreateUserRequest
	if err := dec.Decode(&req); err != nil {
		log.Printf("[USERS] Create failed - invalid request: %v", err)
		SendErrorResponse(w, "Permintaan tidak valid", http.StatusBadRequest, nil)
		return
	}

	if err := dec.Decode(&struct{}{}); err != io.EOF {
		SendErrorResponse(w, "Request body must only contain a single JSON object", http.StatusBadRequest, nil)
		return
	}

	if err := s.validator.Struct(&req); err != nil {
		log.Printf("[USERS] Create validation failed: %v", err)
		SendErrorResponse(w, "Validasi gagal", http.StatusBadRequest, err)
		return
	}

	if req.Role == "" {
		req.Role = models.RoleWarga
	}

	hashedPassword, err := hashPassword(req.Password)
	if err != nil {
		log.Printf("[USERS] Password hashing failed for %s: %v", req.Email, err)
		SendErrorResponse(w, "Terjadi kesalahan internal", http.StatusInternalServerError, nil)
		return
	}

	var userID int
	err = s.db.QueryRow(
		"INSERT INTO users (nik, nama, email, password, no_hp, rt, rw, alamat, role) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9) RETURNING id",
		req.NIK, req.Nama, strings.ToLower(req.Email), hashedPassword, req.NoHP, req.RT, req.RW, req.Alamat, req.Role).Scan(&userID)
	if err != nil {
		log.Printf("[USERS] User creation failed for %s: %v", req.Email, err)
		SendErrorResponse(w, "NIK atau email sudah terdaftar", http.StatusConflict, nil)
		return
	}

	log.Printf("[USERS] User created - ID: %d, NIK: %s, role: %s", userID, req.NIK, req.Role)

	user := models.User{
		ID: userID, NIK: req.NIK, Nama: req.Nama, Email: strings.ToLower(req.Email),
		NoHP: req.NoHP, RT: req.RT, RW: req.RW, Alamat: req.Alamat, Role: req.Role,
	}
	SendDataResponse(w, http.StatusCreated, user)
}

// DeleteUser removes an account by id.
func (s *UserService) DeleteUser(w http.ResponseWriter, r *http.Request) {
	idParam := chi.URLParam(r, "id")
	id, err := strconv.Atoi(idParam)
	if err != nil {
		SendErrorResponse(w, "ID user tidak valid", http.StatusBadRequest, nil)
		return
	}

	result, err := s.db.Exec("DELETE FROM users WHERE id = $1", id)
	if err != nil {
		log.Printf("[USERS] Delete failed for user %d: %v", id, err)
		SendErrorResponse(w, "Gagal menghapus user", http.StatusInternalServerError, nil)
		return
	}

	affected, err := result.RowsAffected()
	if err != nil {
		log.Printf("[USERS] RowsAffected failed for user %d: %v", id, err)
		SendErrorResponse(w, "Gagal menghapus user", http.StatusInternalServerError, nil)
		return
	}
	if affected == 0 {
		SendErrorResponse(w, "User tidak ditemukan", http.StatusNotFound, nil)
		return
	}

	log.Printf("[USERS] User %d deleted", id)
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"message": "User berhasil dihapus"})
}
