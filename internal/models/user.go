package models

// AdminUser is the single administrator allowed to review applications.
type AdminUser struct {
	Username     string
	PasswordHash []byte
}
