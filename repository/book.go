package repository

import (
	"context"

	"shelfie/models"

	"gorm.io/gorm"
)

const bookSummaryColumns = "books.id, books.title, books.author, books.isbn, books.description, " +
	"books.cover_url, books.published_date, " +
	"COALESCE(AVG(reviews.rating), 0) AS average_rating, COUNT(reviews.id) AS review_count"

// BookRepository defines the interface for catalog data operations.
type BookRepository interface {
	List(ctx context.Context) ([]models.BookSummary, error)
	GetByID(ctx context.Context, id uint) (*models.BookSummary, error)
	GetRecord(ctx context.Context, id uint) (*models.Book, error)
	Exists(ctx context.Context, id uint) (bool, error)
	Create(ctx context.Context, book *models.Book) error
	Update(ctx context.Context, book *models.Book) error
	Delete(ctx context.Context, id uint) error
}

type bookRepository struct {
	db *gorm.DB
}

// NewBookRepository creates a new book repository.
func NewBookRepository(db *gorm.DB) BookRepository {
	return &bookRepository{db: db}
}

// List returns every book with its review aggregate. The aggregate is
// recomputed on each call; nothing is materialized.
func (r *bookRepository) List(ctx context.Context) ([]models.BookSummary, error) {
	var books []models.BookSummary
	err := r.db.WithContext(ctx).
		Model(&models.Book{}).
		Select(bookSummaryColumns).
		Joins("LEFT JOIN reviews ON reviews.book_id = books.id").
		Group("books.id").
		Order("books.id").
		Scan(&books).Error
	return books, err
}

func (r *bookRepository) GetByID(ctx context.Context, id uint) (*models.BookSummary, error) {
	var books []models.BookSummary
	err := r.db.WithContext(ctx).
		Model(&models.Book{}).
		Select(bookSummaryColumns).
		Joins("LEFT JOIN reviews ON reviews.book_id = books.id").
		Where("books.id = ?", id).
		Group("books.id").
		Scan(&books).Error
	if err != nil {
		return nil, err
	}
	if len(books) == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return &books[0], nil
}

// GetRecord returns the raw book row, without aggregates, for mutation.
func (r *bookRepository) GetRecord(ctx context.Context, id uint) (*models.Book, error) {
	var book models.Book
	if err := r.db.WithContext(ctx).First(&book, id).Error; err != nil {
		return nil, err
	}
	return &book, nil
}

func (r *bookRepository) Exists(ctx context.Context, id uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Book{}).
		Where("id = ?", id).
		Count(&count).Error
	return count > 0, err
}

func (r *bookRepository) Create(ctx context.Context, book *models.Book) error {
	return r.db.WithContext(ctx).Create(book).Error
}

func (r *bookRepository) Update(ctx context.Context, book *models.Book) error {
	return r.db.WithContext(ctx).Save(book).Error
}

// Delete hard-deletes the book. Child reviews and library entries go with it
// via the ON DELETE CASCADE constraints.
func (r *bookRepository) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&models.Book{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
