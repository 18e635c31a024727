package services

import (
	"database/sql"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/spf13/viper"

	"github.com/wanziee/cepat-tanggap-admin/internal/models"
)

const maxPhotoBytes = 5 << 20 // 5 MB

type LaporanService struct {
	db *sql.DB
}

func NewLaporanService(db *sql.DB) *LaporanService {
	return &LaporanService{db: db}
}

// ListLaporan returns complaints, optionally filtered by ?status=.
func (s *LaporanService) ListLaporan(w http.ResponseWriter, r *http.Request) {
	status := r.URL.Query().Get("status")
	if status != "" && !models.ValidStatus(status) {
		SendErrorResponse(w, "Status tidak dikenal", http.StatusBadRequest, nil)
		return
	}

	query := `SELECT l.id, l.user_id, l.judul, l.isi, l.lokasi, l.photo, l.status,
		l.tanggapan, l.tanggapan_photo, l.created_at, l.updated_at, u.nama
		FROM laporan l JOIN users u ON u.id = l.user_id`
	args := []any{}
	if status != "" {
		query += " WHERE l.status = $1"
		args = append(args, status)
	}
	query += " ORDER BY l.created_at DESC"

	rows, err := s.db.Query(query, args...)
	if err != nil {
		log.Printf("[LAPORAN] Failed to list laporan: %v", err)
		SendErrorResponse(w, "Gagal memuat data laporan", http.StatusInternalServerError, nil)
		return
	}
	defer rows.Close()

	laporans := []models.Laporan{}
	for rows.Next() {
		var l models.Laporan
		var lokasi, photo, tanggapan, tanggapanPhoto sql.NullString
		var nama string
		if err := rows.Scan(&l.ID, &l.UserID, &l.Judul, &l.Isi, &lokasi, &photo, &l.Status,
			&tanggapan, &tanggapanPhoto, &l.CreatedAt, &l.UpdatedAt, &nama); err != nil {
			log.Printf("[LAPORAN] Row scan failed: %v", err)
			SendErrorResponse(w, "Gagal memuat data laporan", http.StatusInternalServerError, nil)
			return
		}
		l.Lokasi, l.Photo = lokasi.String, photo.String
		l.Tanggapan, l.TanggapanPhoto = tanggapan.String, tanggapanPhoto.String
		l.User = &models.User{ID: l.UserID, Nama: nama}
		laporans = append(laporans, l)
	}
	if err := rows.Err(); err != nil {
		log.Printf("[LAPORAN] Row iteration failed: %v", err)
		SendErrorResponse(w, "Gagal memuat data laporan", http.StatusInternalServerError, nil)
		return
	}

	SendDataResponse(w, http.StatusOK, laporans)
}

// GetLaporan returns one complaint with its reporter joined in.
func (s *LaporanService) GetLaporan(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		SendErrorResponse(w, "ID laporan tidak valid", http.StatusBadRequest, nil)
		return
	}

	var l models.Laporan
	var u models.User
	var lokasi, photo, tanggapan, tanggapanPhoto sql.NullString
	var noHP, rt, rw, alamat sql.NullString
	err = s.db.QueryRow(`SELECT l.id, l.user_id, l.judul, l.isi, l.lokasi, l.photo, l.status,
		l.tanggapan, l.tanggapan_photo, l.created_at, l.updated_at,
		u.id, u.nik, u.nama, u.email, u.no_hp, u.rt, u.rw, u.alamat, u.role
		FROM laporan l JOIN users u ON u.id = l.user_id WHERE l.id = $1`, id).
		Scan(&l.ID, &l.UserID, &l.Judul, &l.Isi, &lokasi, &photo, &l.Status,
			&tanggapan, &tanggapanPhoto, &l.CreatedAt, &l.UpdatedAt,
			&u.ID, &u.NIK, &u.Nama, &u.Email, &noHP, &rt, &rw, &alamat, &u.Role)
	if err != nil {
		if err == sql.ErrNoRows {
			SendErrorResponse(w, "Laporan tidak ditemukan", http.StatusNotFound, nil)
		} else {
			log.Printf("[LAPORAN] Failed to fetch laporan %d: %v", id, err)
			SendErrorResponse(w, "Gagal memuat data laporan", http.StatusInternalServerError, nil)
		}
		return
	}
	l.Lokasi, l.Photo = lokasi.String, photo.String
	l.Tanggapan, l.TanggapanPhoto = tanggapan.String, tanggapanPhoto.String
	u.NoHP, u.RT, u.RW, u.Alamat = noHP.String, rt.String, rw.String, alamat.String
	l.User = &u

	SendDataResponse(w, http.StatusOK, l)
}

// UpdateStatus moves a complaint through its workflow. Multipart form:
// status (required), tanggapan text, optional photo attachment.
func (s *LaporanService) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		SendErrorResponse(w, "ID laporan tidak valid", http.StatusBadRequest, nil)
		return
	}

	if err := r.ParseMultipartForm(maxPhotoBytes); err != nil {
		SendErrorResponse(w, "Form tidak valid", http.StatusBadRequest, nil)
		return
	}

	status := r.FormValue("status")
	if !models.ValidStatus(status) {
		SendErrorResponse(w, "Status tidak dikenal", http.StatusBadRequest, nil)
		return
	}
	tanggapan := r.FormValue("tanggapan")

	var photoPath string
	file, header, err := r.FormFile("photo")
	if err == nil {
		defer file.Close()
		photoPath, err = storeUpload(file, header.Filename, "laporan")
		if err != nil {
			log.Printf("[LAPORAN] Photo store failed for laporan %d: %v", id, err)
			SendErrorResponse(w, "Gagal menyimpan foto", http.StatusInternalServerError, nil)
			return
		}
	} else if err != http.ErrMissingFile {
		SendErrorResponse(w, "Form tidak valid", http.StatusBadRequest, nil)
		return
	}

	query := "UPDATE laporan SET status = $1, tanggapan = $2, updated_at = NOW() WHERE id = $3"
	args := []any{status, tanggapan, id}
	if photoPath != "" {
		query = "UPDATE laporan SET status = $1, tanggapan = $2, tanggapan_photo = $3, updated_at = NOW() WHERE id = $4"
		args = []any{status, tanggapan, photoPath, id}
	}

	result, err := s.db.Exec(query, args...)
	if err != nil {
		log.Printf("[LAPORAN] Status update failed for laporan %d: %v", id, err)
		SendErrorResponse(w, "Gagal menyimpan perubahan", http.StatusInternalServerError, nil)
		return
	}
	affected, _ := result.RowsAffected()
	if affected == 0 {
		SendErrorResponse(w, "Laporan tidak ditemukan", http.StatusNotFound, nil)
		return
	}

	log.Printf("[LAPORAN] Laporan %d moved to status %s", id, status)
	SendDataResponse(w, http.StatusOK, map[string]any{"id": id, "status": status})
}

// storeUpload writes an uploaded file under the uploads dir in the given
// subdirectory with a uuid filename, returning the relative path stored
// in the database.
func storeUpload(src io.Reader, originalName, subdir string) (string, error) {
	viper.SetDefault("uploads.dir", "./uploads")
	base := viper.GetString("uploads.dir")

	dir := filepath.Join(base, subdir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create upload dir: %w", err)
	}

	name := uuid.NewString() + filepath.Ext(originalName)
	dst, err := os.Create(filepath.Join(dir, name))
	if err != nil {
		return "", fmt.Errorf("create upload file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return "", fmt.Errorf("write upload file: %w", err)
	}

	return filepath.ToSlash(filepath.Join(subdir, name)), nil
}
