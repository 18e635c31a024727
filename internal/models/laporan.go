package models

import "time"

// Laporan status workflow: pending -> diproses -> selesai/ditolak.
const (
	StatusPending  = "pending"
	StatusDiproses = "diproses"
	StatusSelesai  = "selesai"
	StatusDitolak  = "ditolak"
)

// ValidStatus reports whether s is one of the four workflow states.
func ValidStatus(s string) bool {
	switch s {
	case StatusPending, StatusDiproses, StatusSelesai, StatusDitolak:
		return true
	}
	return false
}

// Laporan is a citizen-submitted complaint record.
type Laporan struct {
	ID             int       `json:"id"`
	UserID         int       `json:"user_id"`
	Judul          string    `json:"judul"`
	Isi            string    `json:"isi"`
	Lokasi         string    `json:"lokasi,omitempty"`
	Photo          string    `json:"photo,omitempty"`
	Status         string    `json:"status"`
	Tanggapan      string    `json:"tanggapan,omitempty"`       // response text from the admin side
	TanggapanPhoto string    `json:"tanggapan_photo,omitempty"` // optional photo attached to the response
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
	User           *User     `json:"user,omitempty"` // reporter, joined on detail reads
}
