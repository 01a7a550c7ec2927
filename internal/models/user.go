// Package models contains data structures for the application's domain models.
package models

import "time"

// User represents a registered account. Usernames and emails are globally
// unique; the password field always holds a bcrypt hash, never plaintext.
type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Username  string    `gorm:"unique;not null" json:"username"`
	Email     string    `gorm:"unique;not null" json:"email"`
	Password  string    `gorm:"not null" json:"-"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Posts     []Post    `gorm:"foreignKey:UserID" json:"posts,omitempty"`
	Projects  []Project `gorm:"foreignKey:UserID" json:"projects,omitempty"`
}
