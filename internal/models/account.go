package models

// Account represents a registered user account.
type Account struct {
	ID           int64  `json:"id"`
	Email        string `json:"email"`
	PasswordHash string `json:"-"` // Never expose this to the client
	IsActive     bool   `json:"isActive"`
}
