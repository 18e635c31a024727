package models

import "time"

// Roles recognized by the system. "warga" accounts live in the same table
// but are never allowed past the admin gate.
const (
	RoleAdmin = "admin"
	RoleRT    = "rt"
	RoleRW    = "rw"
	RoleWarga = "warga"
)

// AdminRoles lists the roles permitted to use the admin panel.
var AdminRoles = []string{RoleAdmin, RoleRT, RoleRW}

// IsAdminRole reports whether role belongs to the admin panel set.
func IsAdminRole(role string) bool {
	for _, r := range AdminRoles {
		if role == r {
			return true
		}
	}
	return false
}

type User struct {
	ID        int       `json:"id" example:"1"`                        // User ID
	NIK       string    `json:"nik" example:"3175094104890002"`        // National identity number
	Nama      string    `json:"nama" example:"Budi Santoso"`           // Full name
	Email     string    `json:"email" example:"budi@example.com"`      // Email address
	NoHP      string    `json:"no_hp,omitempty" example:"0812345678"`  // Phone number
	RT        string    `json:"rt,omitempty" example:"03"`             // RT subdivision
	RW        string    `json:"rw,omitempty" example:"05"`             // RW subdivision
	Alamat    string    `json:"alamat,omitempty"`                      // Street address
	Role      string    `json:"role" example:"warga"`                  // admin, rt, rw or warga
	CreatedAt time.Time `json:"createdAt,omitempty"`
	UpdatedAt time.Time `json:"updatedAt,omitempty"`
}
