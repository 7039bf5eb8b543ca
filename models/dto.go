package models

import "time"

// BookSummary is the catalog read model: a book row annotated with its
// review aggregate, recomputed on every read.
type BookSummary struct {
	ID            uint      `json:"id"`
	Title         string    `json:"title"`
	Author        string    `json:"author"`
	ISBN          string    `json:"isbn"`
	Description   string    `json:"description"`
	CoverURL      string    `json:"cover_url"`
	PublishedDate time.Time `json:"published_date"`
	AverageRating float64   `json:"average_rating"`
	ReviewCount   int64     `json:"review_count"`
}

// BookRef is the abbreviated book shape nested inside a user's review list.
type BookRef struct {
	ID       uint   `json:"id"`
	Title    string `json:"title"`
	Author   string `json:"author"`
	ISBN     string `json:"isbn"`
	CoverURL string `json:"cover_url"`
}

// ReviewDetail is a review enriched for presentation: the reviewer name when
// listing a book's reviews, a nested book reference when listing a user's.
type ReviewDetail struct {
	ID        uint      `json:"id"`
	BookID    uint      `json:"book_id"`
	UserID    uint      `json:"user_id"`
	UserName  string    `json:"user_name,omitempty"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment"`
	Format    string    `json:"format"`
	CreatedAt time.Time `json:"created_at"`
	Book      *BookRef  `json:"book,omitempty"`
}

// ReadingStats aggregates a user's library and review activity.
type ReadingStats struct {
	TotalBooksRead   int64            `json:"total_books_read"`
	CurrentlyReading int64            `json:"currently_reading"`
	WantToRead       int64            `json:"want_to_read"`
	FormatBreakdown  map[string]int64 `json:"format_breakdown"`
	AverageRating    float64          `json:"average_rating"`
	TotalReviews     int64            `json:"total_reviews"`
}

// Profile is a user's public profile with embedded reading statistics.
type Profile struct {
	ID           uint         `json:"id"`
	Name         string       `json:"name"`
	Email        string       `json:"email"`
	Bio          string       `json:"bio"`
	AvatarURL    string       `json:"avatar_url"`
	CreatedAt    time.Time    `json:"created_at"`
	ReadingStats ReadingStats `json:"reading_stats"`
}

// LibraryEntry is one row of a user's library listing.
type LibraryEntry struct {
	BookID   uint      `json:"book_id"`
	Title    string    `json:"title"`
	Author   string    `json:"author"`
	CoverURL string    `json:"cover_url"`
	Status   string    `json:"status"`
	Format   string    `json:"format"`
	AddedAt  time.Time `json:"added_at"`
}
