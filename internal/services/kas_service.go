package services

import (
	"database/sql"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/wanziee/cepat-tanggap-admin/internal/ledger"
	"github.com/wanziee/cepat-tanggap-admin/internal/models"
)

const maxPDFBytes = 10 << 20 // 10 MB

type KasService struct {
	db        *sql.DB
	validator *validator.Validate
}

// CreateRekapKasRequest is the itemized ledger entry payload.
type CreateRekapKasRequest struct {
	Keterangan string `json:"keterangan" validate:"required"`
	Jenis      string `json:"jenis" validate:"required,oneof=pemasukan pengeluaran"`
	Jumlah     int64  `json:"jumlah" validate:"required,gt=0"`
	Tanggal    string `json:"tanggal" validate:"required,datetime=2006-01-02"`
	RT         string `json:"rt" validate:"required,max=3"`
	RW         string `json:"rw" validate:"required,max=3"`
	UserID     int    `json:"user_id" validate:"required,gt=0"`
}

func NewKasService(db *sql.DB) *KasService {
	return &KasService{
		db:        db,
		validator: validator.New(),
	}
}

// ListRekapKas returns the itemized ledger for one RT scope. Saldo is
// recomputed from jenis, jumlah and the canonical entry order before the
// response is written; the cached column is never trusted.
func (s *KasService) ListRekapKas(w http.ResponseWriter, r *http.Request) {
	rt := r.URL.Query().Get("rt")

	query := "SELECT id, tanggal, keterangan, jenis, jumlah, rt, rw, user_id, created_at FROM rekap_kas"
	args := []any{}
	if rt != "" {
		query += " WHERE rt = $1"
		args = append(args, rt)
	}
	query += " ORDER BY tanggal, created_at, id"

	rows, err := s.db.Query(query, args...)
	if err != nil {
		log.Printf("[KAS] Failed to list rekap kas: %v", err)
		SendErrorResponse(w, "Gagal memuat data rekap kas", http.StatusInternalServerError, nil)
		return
	}
	defer rows.Close()

	entries := []ledger.Entry{}
	for rows.Next() {
		var e ledger.Entry
		var entryRT, entryRW sql.NullString
		var userID sql.NullInt64
		if err := rows.Scan(&e.ID, &e.Tanggal, &e.Keterangan, &e.Jenis, &e.Jumlah,
			&entryRT, &entryRW, &userID, &e.CreatedAt); err != nil {
			log.Printf("[KAS] Row scan failed: %v", err)
			SendErrorResponse(w, "Gagal memuat data rekap kas", http.StatusInternalServerError, nil)
			return
		}
		e.RT, e.RW = entryRT.String, entryRW.String
		e.UserID = int(userID.Int64)
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		log.Printf("[KAS] Row iteration failed: %v", err)
		SendErrorResponse(w, "Gagal memuat data rekap kas", http.StatusInternalServerError, nil)
		return
	}

	SendDataResponse(w, http.StatusOK, ledger.Recompute(entries))
}

// CreateRekapKas inserts one itemized ledger entry. Saldo is stored as a
// cache only; readers always rebuild it.
func (s *KasService) CreateRekapKas(w http.ResponseWriter, r *http.Request) {
	maxBytes := 1_048_576 // 1 MB
	r.Body = http.MaxBytesReader(w, r.Body, int64(maxBytes))

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	var req CreateRekapKasRequest
	if err := dec.Decode(&req); err != nil {
		log.Printf("[KAS] Create failed - invalid request: %v", err)
		SendErrorResponse(w, "Permintaan tidak valid", http.StatusBadRequest, nil)
		return
	}

	if err := dec.Decode(&struct{}{}); err != io.EOF {
		SendErrorResponse(w, "Request body must only contain a single JSON object", http.StatusBadRequest, nil)
		return
	}

	if err := s.validator.Struct(&req); err != nil {
		log.Printf("[KAS] Create validation failed: %v", err)
		SendErrorResponse(w, "Validasi gagal", http.StatusBadRequest, err)
		return
	}

	tanggal, _ := time.Parse("2006-01-02", req.Tanggal)

	var id int
	var createdAt time.Time
	err := s.db.QueryRow(
		"INSERT INTO rekap_kas (tanggal, keterangan, jenis, jumlah, rt, rw, user_id) VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id, created_at",
		tanggal, req.Keterangan, req.Jenis, req.Jumlah, req.RT, req.RW, req.UserID).Scan(&id, &createdAt)
	if err != nil {
		log.Printf("[KAS] Entry creation failed: %v", err)
		SendErrorResponse(w, "Gagal menyimpan data kas", http.StatusInternalServerError, nil)
		return
	}

	log.Printf("[KAS] Rekap kas entry %d created (%s %d, RT %s)", id, req.Jenis, req.Jumlah, req.RT)

	entry := ledger.Entry{
		ID:         id,
		Tanggal:    tanggal,
		Keterangan: req.Keterangan,
		Jenis:      ledger.Jenis(req.Jenis),
		Jumlah:     req.Jumlah,
		RT:         req.RT,
		RW:         req.RW,
		UserID:     req.UserID,
		CreatedAt:  createdAt,
	}
	SendDataResponse(w, http.StatusCreated, entry)
}

// ListKasBulanan returns the monthly PDF documents with their uploader.
func (s *KasService) ListKasBulanan(w http.ResponseWriter, r *http.Request) {
	rows, err := s.db.Query(`SELECT k.id, k.filename, k.filepath, k.mimetype, k.filesize,
		k.description, k.uploaded_by_user_id, k.related_rt, k.related_rw, k.upload_date,
		k.created_at, k.updated_at, u.id, u.nama, u.email
		FROM kas_bulanan k JOIN users u ON u.id = k.uploaded_by_user_id
		ORDER BY k.upload_date DESC`)
	if err != nil {
		log.Printf("[KAS] Failed to list kas bulanan: %v", err)
		SendErrorResponse(w, "Gagal memuat data kas bulanan", http.StatusInternalServerError, nil)
		return
	}
	defer rows.Close()

	docs := []models.KasBulanan{}
	for rows.Next() {
		var k models.KasBulanan
		var u models.User
		var description, relatedRT, relatedRW sql.NullString
		if err := rows.Scan(&k.ID, &k.Filename, &k.Filepath, &k.Mimetype, &k.Filesize,
			&description, &k.UploadedByUserID, &relatedRT, &relatedRW, &k.UploadDate,
			&k.CreatedAt, &k.UpdatedAt, &u.ID, &u.Nama, &u.Email); err != nil {
			log.Printf("[KAS] Row scan failed: %v", err)
			SendErrorResponse(w, "Gagal memuat data kas bulanan", http.StatusInternalServerError, nil)
			return
		}
		k.Description = description.String
		k.RelatedRT, k.RelatedRW = relatedRT.String, relatedRW.String
		k.Uploader = &u
		docs = append(docs, k)
	}
	if err := rows.Err(); err != nil {
		log.Printf("[KAS] Row iteration failed: %v", err)
		SendErrorResponse(w, "Gagal memuat data kas bulanan", http.StatusInternalServerError, nil)
		return
	}

	SendDataResponse(w, http.StatusOK, docs)
}

// UploadKasBulanan stores a monthly PDF ledger document. Multipart form:
// file (PDF only) + description. RT/RW scope comes from the uploader's
// own account.
func (s *KasService) UploadKasBulanan(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value("userID")
	if userID == nil {
		SendErrorResponse(w, "Unauthorized", http.StatusUnauthorized, nil)
		return
	}

	if err := r.ParseMultipartForm(maxPDFBytes); err != nil {
		SendErrorResponse(w, "Form tidak valid", http.StatusBadRequest, nil)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		SendErrorResponse(w, "Mohon pilih file PDF terlebih dahulu", http.StatusBadRequest, nil)
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	if contentType != "application/pdf" && !strings.HasSuffix(strings.ToLower(header.Filename), ".pdf") {
		SendErrorResponse(w, "Hanya file PDF yang diperbolehkan", http.StatusBadRequest, nil)
		return
	}

	description := r.FormValue("description")

	var uploaderRT, uploaderRW sql.NullString
	if err := s.db.QueryRow("SELECT rt, rw FROM users WHERE id = $1", userID).Scan(&uploaderRT, &uploaderRW); err != nil {
		log.Printf("[KAS] Uploader lookup failed for user %v: %v", userID, err)
		SendErrorResponse(w, "Gagal mengunggah file", http.StatusInternalServerError, nil)
		return
	}

	storedPath, err := storeUpload(file, header.Filename, "kas")
	if err != nil {
		log.Printf("[KAS] File store failed: %v", err)
		SendErrorResponse(w, "Gagal mengunggah file", http.StatusInternalServerError, nil)
		return
	}

	var id int
	err = s.db.QueryRow(
		`INSERT INTO kas_bulanan (filename, filepath, mimetype, filesize, description, uploaded_by_user_id, related_rt, related_rw)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING id`,
		header.Filename, storedPath, "application/pdf", header.Size, description,
		userID, uploaderRT.String, uploaderRW.String).Scan(&id)
	if err != nil {
		log.Printf("[KAS] Kas bulanan insert failed: %v", err)
		SendErrorResponse(w, "Gagal mengunggah file", http.StatusInternalServerError, nil)
		return
	}

	log.Printf("[KAS] Kas bulanan %d uploaded by user %v (%s)", id, userID, header.Filename)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(DataResponse{
		Data:    map[string]any{"id": id, "filename": header.Filename, "filepath": storedPath},
		Message: "File berhasil diunggah",
	})
}
