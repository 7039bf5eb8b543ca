package models

import "time"

// Review is a user's opinion on a book. The composite unique index makes
// one-review-per-user-per-book a storage-level invariant; a duplicate insert
// surfaces as gorm.ErrDuplicatedKey instead of racing a pre-insert check.
type Review struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	BookID    uint      `gorm:"not null;uniqueIndex:idx_reviews_user_book" json:"book_id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_reviews_user_book" json:"user_id"`
	Rating    int       `gorm:"not null" json:"rating"`
	Comment   string    `json:"comment"`
	Format    string    `gorm:"not null;default:'paperback'" json:"format"`
	CreatedAt time.Time `json:"created_at"`

	Book *Book `gorm:"foreignKey:BookID" json:"-"`
	User *User `gorm:"foreignKey:UserID" json:"-"`
}
