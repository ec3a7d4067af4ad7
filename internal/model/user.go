package model

import (
	"encoding/json"
	"fmt"
)

// Role is the closed set of portal roles.
type Role string

const (
	RoleCandidate Role = "candidate"
	RoleLecturer  Role = "lecturer"
	RoleAdmin     Role = "admin"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleCandidate, RoleLecturer, RoleAdmin:
		return true
	}
	return false
}

func (r *Role) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	if !Role(s).Valid() {
		return fmt.Errorf("unknown role %q", s)
	}
	*r = Role(s)
	return nil
}

// User table users
type User struct {
	UserID       int64  `gorm:"primaryKey;autoIncrement"                     json:"id"    yaml:"id"`
	Name         string `gorm:"type:varchar(100);not null"                   json:"name"  yaml:"name"`
	Email        string `gorm:"type:varchar(255);not null;uniqueIndex"       json:"email" yaml:"email"`
	PasswordHash string `gorm:"type:varchar(255);not null"                   json:"-"     yaml:"-"`
	Role         Role   `gorm:"type:varchar(20);not null;default:'candidate'" json:"role"  yaml:"role"`
	BaseModel    `yaml:"-"`
}

// TableName table name
func (User) TableName() string { return "users" }

// UserSummary is the shape persisted in the users snapshot.
type UserSummary struct {
	ID    int64  `json:"id"    yaml:"id"`
	Name  string `json:"name"  yaml:"name"`
	Email string `json:"email" yaml:"email"`
	Role  Role   `json:"role"  yaml:"role"`
}

// Summary drops credentials and audit fields.
func (u *User) Summary() UserSummary {
	return UserSummary{ID: u.UserID, Name: u.Name, Email: u.Email, Role: u.Role}
}
