package repository

import (
	"context"
	"time"

	"shelfie/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// UserBookRepository defines the interface for library-entry data operations.
type UserBookRepository interface {
	ListByUser(ctx context.Context, userID uint, status string) ([]models.LibraryEntry, error)
	GetEntry(ctx context.Context, userID, bookID uint) (*models.LibraryEntry, error)
	Upsert(ctx context.Context, userID, bookID uint, status, format string) error
	EnsureCompleted(ctx context.Context, userID, bookID uint, format string) error
	UpdatePair(ctx context.Context, userID, bookID uint, status, format string) error
	DeletePair(ctx context.Context, userID, bookID uint) error
	CountByStatus(ctx context.Context, userID uint) (map[string]int64, error)
	CountByFormat(ctx context.Context, userID uint) (map[string]int64, error)
}

type userBookRepository struct {
	db *gorm.DB
}

// NewUserBookRepository creates a new library-entry repository.
func NewUserBookRepository(db *gorm.DB) UserBookRepository {
	return &userBookRepository{db: db}
}

// ListByUser returns the user's library joined with book details, newest
// first, optionally filtered to one exact status.
func (r *userBookRepository) ListByUser(ctx context.Context, userID uint, status string) ([]models.LibraryEntry, error) {
	q := r.db.WithContext(ctx).
		Model(&models.UserBook{}).
		Select("user_books.book_id, books.title, books.author, books.cover_url, " +
			"user_books.status, user_books.format, user_books.added_at").
		Joins("JOIN books ON books.id = user_books.book_id").
		Where("user_books.user_id = ?", userID).
		Order("user_books.added_at DESC")
	if status != "" {
		q = q.Where("user_books.status = ?", status)
	}

	var entries []models.LibraryEntry
	err := q.Scan(&entries).Error
	return entries, err
}

func (r *userBookRepository) GetEntry(ctx context.Context, userID, bookID uint) (*models.LibraryEntry, error) {
	var entries []models.LibraryEntry
	err := r.db.WithContext(ctx).
		Model(&models.UserBook{}).
		Select("user_books.book_id, books.title, books.author, books.cover_url, "+
			"user_books.status, user_books.format, user_books.added_at").
		Joins("JOIN books ON books.id = user_books.book_id").
		Where("user_books.user_id = ? AND user_books.book_id = ?", userID, bookID).
		Scan(&entries).Error
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return &entries[0], nil
}

// Upsert inserts a library entry or, when the (user, book) pair already
// exists, overwrites its status and format in place. added_at is kept from
// the first insert. The ON CONFLICT clause makes this a single atomic
// statement instead of a racy check-then-write.
func (r *userBookRepository) Upsert(ctx context.Context, userID, bookID uint, status, format string) error {
	entry := models.UserBook{
		UserID:  userID,
		BookID:  bookID,
		Status:  status,
		Format:  format,
		AddedAt: time.Now().UTC(),
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "book_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"status", "format"}),
		}).
		Create(&entry).Error
}

// EnsureCompleted creates a Completed entry for the pair unless one already
// exists, in which case the existing entry is left untouched. Used by review
// creation, which implies the reviewer finished the book.
func (r *userBookRepository) EnsureCompleted(ctx context.Context, userID, bookID uint, format string) error {
	entry := models.UserBook{
		UserID:  userID,
		BookID:  bookID,
		Status:  models.StatusCompleted,
		Format:  format,
		AddedAt: time.Now().UTC(),
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "book_id"}},
			DoNothing: true,
		}).
		Create(&entry).Error
}

// UpdatePair overwrites status and format of an existing entry. Unlike
// Upsert it never creates one: gorm.ErrRecordNotFound when the pair is absent.
func (r *userBookRepository) UpdatePair(ctx context.Context, userID, bookID uint, status, format string) error {
	res := r.db.WithContext(ctx).
		Model(&models.UserBook{}).
		Where("user_id = ? AND book_id = ?", userID, bookID).
		Updates(map[string]any{
			"status": status,
			"format": format,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *userBookRepository) DeletePair(ctx context.Context, userID, bookID uint) error {
	res := r.db.WithContext(ctx).
		Where("user_id = ? AND book_id = ?", userID, bookID).
		Delete(&models.UserBook{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// CountByStatus groups the user's library entries by reading status.
func (r *userBookRepository) CountByStatus(ctx context.Context, userID uint) (map[string]int64, error) {
	return r.countGrouped(ctx, userID, "status")
}

// CountByFormat groups the user's library entries by format.
func (r *userBookRepository) CountByFormat(ctx context.Context, userID uint) (map[string]int64, error) {
	return r.countGrouped(ctx, userID, "format")
}

func (r *userBookRepository) countGrouped(ctx context.Context, userID uint, column string) (map[string]int64, error) {
	var rows []struct {
		Key   string
		Count int64
	}
	err := r.db.WithContext(ctx).
		Model(&models.UserBook{}).
		Select(column+" AS key, COUNT(*) AS count").
		Where("user_id = ?", userID).
		Group(column).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		counts[row.Key] = row.Count
	}
	return counts, nil
}
