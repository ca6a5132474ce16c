package entities

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// User represents a directory user that can attend meetings or own tasks
type User struct {
	ID       uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	Email    string    `json:"email" gorm:"type:varchar(255);uniqueIndex;not null"`
	Name     string    `json:"name" gorm:"type:varchar(255);not null"`
	Role     UserRole  `json:"role" gorm:"type:varchar(50);default:'member';not null"`
	IsActive bool      `json:"is_active" gorm:"default:true;not null"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// UserRole defines user roles
type UserRole string

const (
	RoleAdmin  UserRole = "admin"
	RoleMember UserRole = "member"
)

// IsValid checks if the user role is valid
func (r UserRole) IsValid() bool {
	switch r {
	case RoleAdmin, RoleMember:
		return true
	}
	return false
}

// NewUser creates a new user with default values
func NewUser(email, name string) *User {
	now := time.Now()
	return &User{
		ID:        uuid.New(),
		Email:     email,
		Name:      name,
		Role:      RoleMember,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Project groups meeting records, versions are counted per project
type Project struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	Name      string    `json:"name" gorm:"type:varchar(255);not null"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// ProjectMember links a user to a project with a role bucket
type ProjectMember struct {
	ProjectID uuid.UUID `json:"project_id" gorm:"type:uuid;primaryKey"`
	UserID    uuid.UUID `json:"user_id" gorm:"type:uuid;primaryKey"`
	Role      UserRole  `json:"role" gorm:"type:varchar(50);default:'member';not null"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`

	User User `json:"user" gorm:"foreignKey:UserID"`
}

// Identity is a directory entry as seen by the minutes pipeline
type Identity struct {
	ID   string   `json:"id"`
	Name string   `json:"name"`
	Role UserRole `json:"role"`
}

// FindIdentityByName matches a display name case-insensitively
func FindIdentityByName(people []Identity, name string) (Identity, bool) {
	needle := strings.ToLower(strings.TrimSpace(name))
	if needle == "" {
		return Identity{}, false
	}
	for _, p := range people {
		if strings.ToLower(strings.TrimSpace(p.Name)) == needle {
			return p, true
		}
	}
	return Identity{}, false
}

// AccessFromMembers buckets project members into admin and member lists
func AccessFromMembers(members []Identity) AccessList {
	access := AccessList{Admin: []string{}, Member: []string{}}
	for _, m := range members {
		if m.Role == RoleAdmin {
			access.Admin = append(access.Admin, m.ID)
			continue
		}
		access.Member = append(access.Member, m.ID)
	}
	return access
}
