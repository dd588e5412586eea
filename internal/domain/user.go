package domain

import (
	"strings"
	"time"
)

// Role enumerates the account roles the service issues tokens for.
type Role string

const (
	RoleStudent Role = "STUDENT"
	RoleTeacher Role = "TEACHER"
)

// ParseRole maps a raw role string onto the closed role set.
func ParseRole(raw string) (Role, bool) {
	switch Role(strings.ToUpper(strings.TrimSpace(raw))) {
	case RoleStudent:
		return RoleStudent, true
	case RoleTeacher:
		return RoleTeacher, true
	default:
		return "", false
	}
}

// User is the credential record shared by every account regardless of role.
// Role-specific profile rows reference it by ID.
type User struct {
	ID               string
	Name             string
	LastName         string
	Email            string
	PasswordHash     string
	Role             Role
	CelPhone         string
	RegistrationDate time.Time
	CreatedAt        time.Time
	UpdatedAt        time.Time
}
