package models

import (
	"time"
)

// User is a registered account. Email is unique and stored exactly as
// submitted (no case folding). VerifyToken is non-empty only while email
// confirmation is pending.
type User struct {
	ID           string
	Email        string
	PasswordHash string
	Name         string // first name
	LastName     string
	Phone        string
	Bio          string
	Photo        string // photo URL, empty until set
	IsVerified   bool
	VerifyToken  string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
