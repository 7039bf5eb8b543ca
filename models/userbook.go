package models

import "time"

// UserBook is a user's personal library entry for a book: reading status plus
// preferred format. At most one row exists per (user, book) pair, enforced by
// the composite unique index; writes go through an ON CONFLICT upsert.
type UserBook struct {
	ID      uint      `gorm:"primaryKey" json:"id"`
	UserID  uint      `gorm:"not null;uniqueIndex:idx_user_books_user_book" json:"user_id"`
	BookID  uint      `gorm:"not null;uniqueIndex:idx_user_books_user_book" json:"book_id"`
	Status  string    `gorm:"not null;default:'Want to Read'" json:"status"`
	Format  string    `gorm:"not null;default:'paperback'" json:"format"`
	AddedAt time.Time `json:"added_at"`

	Book *Book `gorm:"foreignKey:BookID" json:"-"`
	User *User `gorm:"foreignKey:UserID" json:"-"`
}
