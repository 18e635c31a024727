package models

import "time"

// KasBulanan is a monthly PDF ledger document uploaded by an RT/RW admin.
type KasBulanan struct {
	ID               int       `json:"id"`
	Filename         string    `json:"filename"`
	Filepath         string    `json:"filepath"` // relative to the uploads dir, e.g. kas/<uuid>.pdf
	Mimetype         string    `json:"mimetype"`
	Filesize         int64     `json:"filesize"`
	Description      string    `json:"description"`
	UploadedByUserID int       `json:"uploaded_by_user_id"`
	RelatedRT        string    `json:"related_rt,omitempty"`
	RelatedRW        string    `json:"related_rw,omitempty"`
	UploadDate       time.Time `json:"upload_date"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`
	Uploader         *User     `json:"uploader,omitempty"`
}
