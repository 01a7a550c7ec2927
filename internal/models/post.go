package models

import "time"

// Post is a community post. Deleting a post removes its comments in the same
// transaction (see repository.PostRepository.DeleteWithComments).
type Post struct {
	ID      uint   `gorm:"primaryKey" json:"id"`
	Title   string `gorm:"not null" json:"title"`
	Content string `gorm:"not null" json:"content"`
	Tags    string `json:"tags"`
	UserID  uint   `gorm:"not null" json:"user_id"`
	User    User   `gorm:"foreignKey:UserID" json:"user"`
	// CommentCount is not persisted; computed at query time.
	CommentCount int64     `gorm:"-" json:"comment_count"`
	Comments     []Comment `gorm:"foreignKey:PostID" json:"comments,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
