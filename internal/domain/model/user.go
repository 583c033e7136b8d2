package model

import (
	"strings"
	"time"
)

// User is an account holder. Account is the external login (email).
type User struct {
	ID           string
	Account      string
	FirstName    string
	LastName     string
	Phone        string
	RegisteredAt time.Time
}

func (u *User) IsZero() bool { return u == nil || u.ID == "" }

// IsProfileEmpty reports whether the questionnaire fields required for paid plans are missing.
func (u *User) IsProfileEmpty() bool {
	if u == nil {
		return true
	}
	return strings.TrimSpace(u.FirstName) == "" ||
		strings.TrimSpace(u.LastName) == "" ||
		strings.TrimSpace(u.Phone) == ""
}
