package models

import "time"

// ProjectStatus is the closed set of lifecycle states a project can be in.
type ProjectStatus string

const (
	ProjectStatusActive    ProjectStatus = "active"
	ProjectStatusCompleted ProjectStatus = "completed"
	ProjectStatusOnHold    ProjectStatus = "on_hold"
)

// Valid reports whether the status is one of the enumerated values.
func (s ProjectStatus) Valid() bool {
	switch s {
	case ProjectStatusActive, ProjectStatusCompleted, ProjectStatusOnHold:
		return true
	}
	return false
}

// Project is a tracked project owned by its creating user. There is no
// membership entity yet; MemberCount is always 1 (the creator) until the
// join/leave feature lands.
type Project struct {
	ID            uint          `gorm:"primaryKey" json:"id"`
	Title         string        `gorm:"not null" json:"title"`
	Description   string        `gorm:"not null" json:"description"`
	Technologies  string        `json:"technologies"`
	RepositoryURL string        `json:"repository_url"`
	LiveURL       string        `json:"live_url"`
	Status        ProjectStatus `gorm:"not null;default:active" json:"status"`
	UserID        uint          `gorm:"not null" json:"user_id"`
	User          User          `gorm:"foreignKey:UserID" json:"user"`
	MemberCount   int           `gorm:"-" json:"member_count"`
	CreatedAt     time.Time     `json:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at"`
}
