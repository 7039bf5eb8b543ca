package models

import "time"

// Book is a catalog record. Rating aggregates are never stored; they are
// computed from the reviews table on every read.
type Book struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	Title         string    `gorm:"not null" json:"title"`
	Author        string    `gorm:"not null" json:"author"`
	ISBN          string    `json:"isbn"`
	Description   string    `json:"description"`
	CoverURL      string    `json:"cover_url"`
	PublishedDate time.Time `json:"published_date"`

	Reviews   []Review   `gorm:"foreignKey:BookID;constraint:OnDelete:CASCADE" json:"-"`
	UserBooks []UserBook `gorm:"foreignKey:BookID;constraint:OnDelete:CASCADE" json:"-"`
}
