package services

import (
	"context"
	cryptorand "crypto/rand"
	"database/sql"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/go-redis/redis/v8"
	"github.com/golang-jwt/jwt/v5"
	"github.com/spf13/viper"
	"golang.org/x/crypto/argon2"

	"github.com/wanziee/cepat-tanggap-admin/internal/models"
)

type AuthService struct {
	db        *sql.DB
	redis     *redis.Client
	validator *validator.Validate
}

// LoginRequest is the admin login payload. Email doubles as the
// identifier field: a 16-digit NIK is accepted in its place.
type LoginRequest struct {
	Email    string `json:"email" validate:"required"`          // Email address or NIK
	Password string `json:"password" validate:"required,min=6"` // Account password
}

// AuthResponse carries the token and identity issued on login.
type AuthResponse struct {
	Token string      `json:"token"`
	User  models.User `json:"user"`
}

func NewAuthService(db *sql.DB, redisClient *redis.Client) *AuthService {
	return &AuthService{
		db:        db,
		redis:     redisClient,
		validator: validator.New(),
	}
}

// Login authenticates an admin-panel account against email or NIK.
// Warga accounts are valid users but are refused here: the admin login
// only issues tokens for roles allowed past the gate.
func (s *AuthService) Login(w http.ResponseWriter, r *http.Request) {
	log.Printf("[AUTH] Login attempt from IP: %s", r.RemoteAddr)

	maxBytes := 1_048_576 // 1 MB
	r.Body = http.MaxBytesReader(w, r.Body, int64(maxBytes))

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	var req LoginRequest
	if err := dec.Decode(&req); err != nil {
		log.Printf("[AUTH] Login failed - invalid request: %v", err)
		SendErrorResponse(w, "Permintaan tidak valid", http.StatusBadRequest, nil)
		return
	}

	if err := dec.Decode(&struct{}{}); err != io.EOF {
		log.Printf("[AUTH] Multiple JSON objects detected")
		SendErrorResponse(w, "Request body must only contain a single JSON object", http.StatusBadRequest, nil)
		return
	}

	if err := s.validator.Struct(&req); err != nil {
		log.Printf("[AUTH] Login validation failed: %v", err)
		SendErrorResponse(w, "Validasi gagal", http.StatusBadRequest, err)
		return
	}

	identifier := strings.ToLower(strings.TrimSpace(req.Email))
	log.Printf("[AUTH] Login request for identifier: %s", identifier)

	var user models.User
	var hashedPassword string
	err := s.db.QueryRow(
		"SELECT id, nik, nama, email, password, role FROM users WHERE LOWER(email) = $1 OR nik = $1",
		identifier).Scan(&user.ID, &user.NIK, &user.Nama, &user.Email, &hashedPassword, &user.Role)
	if err != nil {
		log.Printf("[AUTH] User not found for identifier: %s", identifier)
		SendErrorResponse(w, "Email atau password salah", http.StatusUnauthorized, nil)
		return
	}

	if !verifyPassword(req.Password, hashedPassword) {
		log.Printf("[AUTH] Invalid password for user: %s", identifier)
		SendErrorResponse(w, "Email atau password salah", http.StatusUnauthorized, nil)
		return
	}

	if !models.IsAdminRole(user.Role) {
		log.Printf("[AUTH] Non-admin role %q refused at admin login: %s", user.Role, identifier)
		SendErrorResponse(w, "Akses Ditolak: akun ini bukan akun pengurus", http.StatusForbidden, nil)
		return
	}

	token, err := generateJWT(user.ID, user.Role)
	if err != nil {
		log.Printf("[AUTH] JWT generation failed for user %d: %v", user.ID, err)
		SendErrorResponse(w, "Gagal membuat token", http.StatusInternalServerError, nil)
		return
	}

	log.Printf("[AUTH] Login successful for user %d (%s)", user.ID, user.Role)
	SendDataResponse(w, http.StatusOK, AuthResponse{Token: token, User: user})
}

// Me returns the identity behind the presented token. The panel calls
// this on session restore.
func (s *AuthService) Me(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value("userID")
	if userID == nil {
		log.Printf("[AUTH] Unauthorized identity request - no user ID in context")
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var user models.User
	var noHP, rt, rw, alamat sql.NullString
	err := s.db.QueryRow(
		"SELECT id, nik, nama, email, no_hp, rt, rw, alamat, role FROM users WHERE id = $1",
		userID).Scan(&user.ID, &user.NIK, &user.Nama, &user.Email, &noHP, &rt, &rw, &alamat, &user.Role)
	if err != nil {
		if err == sql.ErrNoRows {
			log.Printf("[AUTH] User not found for ID: %v", userID)
			SendErrorResponse(w, "User tidak ditemukan", http.StatusNotFound, nil)
		} else {
			log.Printf("[AUTH] Failed to fetch identity for ID %v: %v", userID, err)
			SendErrorResponse(w, "Gagal memuat data user", http.StatusInternalServerError, nil)
		}
		return
	}
	user.NoHP, user.RT, user.RW, user.Alamat = noHP.String, rt.String, rw.String, alamat.String

	SendDataResponse(w, http.StatusOK, user)
}

// Logout blacklists the presented token until its natural expiry.
func (s *AuthService) Logout(w http.ResponseWriter, r *http.Request) {
	token := r.Header.Get("Authorization")
	if token != "" && len(token) > 7 {
		token = token[7:] // Remove "Bearer " prefix

		if s.redis != nil {
			ctx := context.Background()
			key := fmt.Sprintf("blacklist:%s", token)
			// Blacklist token until its expiration
			expiry := time.Duration(viper.GetInt("jwt.expiry_hours")) * time.Hour
			if err := s.redis.Set(ctx, key, "1", expiry).Err(); err != nil {
				log.Printf("[AUTH] Failed to blacklist token: %v", err)
			}
		}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"message": "Logout berhasil"})
}

func generateJWT(userID int, role string) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": userID,
		"role":    role,
		"exp":     time.Now().Add(time.Duration(viper.GetInt("jwt.expiry_hours")) * time.Hour).Unix(),
	})

	return token.SignedString([]byte(viper.GetString("jwt.secret_key")))
}

func hashPassword(password string) (string, error) {
	salt := make([]byte, viper.GetInt("argon2.salt_length"))
	if _, err := cryptorand.Read(salt); err != nil {
		return "", err
	}

	hash := argon2.IDKey([]byte(password), salt,
		uint32(viper.GetInt("argon2.time")),
		uint32(viper.GetInt("argon2.memory")),
		uint8(viper.GetInt("argon2.threads")),
		uint32(viper.GetInt("argon2.key_length")))
	return fmt.Sprintf("%s$%s", base64.StdEncoding.EncodeToString(salt), base64.StdEncoding.EncodeToString(hash)), nil
}

func verifyPassword(password, hashedPassword string) bool {
	parts := strings.Split(hashedPassword, "$")
	if len(parts) != 2 {
		return false
	}

	salt, err := base64.StdEncoding.DecodeString(parts[0])
	if err != nil {
		return false
	}

	hash, err := base64.StdEncoding.DecodeString(parts[1])
	if err != nil {
		return false
	}

	computedHash := argon2.IDKey([]byte(password), salt,
		uint32(viper.GetInt("argon2.time")),
		uint32(viper.GetInt("argon2.memory")),
		uint8(viper.GetInt("argon2.threads")),
		uint32(viper.GetInt("argon2.key_length")))
	return string(hash) == string(computedHash)
}
