package entities

import (
	"time"
)

// User is a registered account. The username is the login identity and is
// unique at the database level so concurrent registrations cannot both win.
type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Username     string    `gorm:"uniqueIndex;size:100" json:"username"`
	PasswordHash string    `gorm:"size:255" json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// Book is a catalog entry keyed by ISBN. The catalog is populated by an
// out-of-band import and is read-only to the application.
type Book struct {
	ISBN   string `gorm:"primaryKey;size:13" json:"isbn"`
	Title  string `gorm:"index;size:512" json:"title"`
	Author string `gorm:"index;size:256" json:"author"`
	Year   int    `json:"year"`
}

// Review is a single user's rating (1-5) and optional text for a book.
// The composite unique index enforces at most one review per (isbn, user)
// pair; a violation is surfaced to the caller as a conflict.
type Review struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	ISBN      string    `gorm:"uniqueIndex:idx_reviews_isbn_user;size:13" json:"isbn"`
	UserID    uint      `gorm:"uniqueIndex:idx_reviews_isbn_user" json:"user_id"`
	Rating    int       `json:"rating"`
	Text      string    `gorm:"size:4096" json:"review,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
