package repository

import (
	"context"

	"shelfie/models"

	"gorm.io/gorm"
)

// ReviewRepository defines the interface for review data operations.
// UpdateOwned and DeleteOwned scope their predicate to (id, user_id), so a
// review that exists but belongs to someone else is indistinguishable from a
// missing one.
type ReviewRepository interface {
	ListByBook(ctx context.Context, bookID uint) ([]models.ReviewDetail, error)
	ListByUser(ctx context.Context, userID uint) ([]models.ReviewDetail, error)
	Create(ctx context.Context, review *models.Review) error
	UpdateOwned(ctx context.Context, reviewID, userID uint, rating int, comment, format string) (*models.Review, error)
	DeleteOwned(ctx context.Context, reviewID, userID uint) error
	RatingSummary(ctx context.Context, userID uint) (avg float64, count int64, err error)
}

type reviewRepository struct {
	db *gorm.DB
}

// NewReviewRepository creates a new review repository.
func NewReviewRepository(db *gorm.DB) ReviewRepository {
	return &reviewRepository{db: db}
}

// ListByBook returns the book's reviews annotated with each reviewer's name.
func (r *reviewRepository) ListByBook(ctx context.Context, bookID uint) ([]models.ReviewDetail, error) {
	var reviews []models.ReviewDetail
	err := r.db.WithContext(ctx).
		Model(&models.Review{}).
		Select("reviews.id, reviews.book_id, reviews.user_id, users.name AS user_name, "+
			"reviews.rating, reviews.comment, reviews.format, reviews.created_at").
		Joins("JOIN users ON users.id = reviews.user_id").
		Where("reviews.book_id = ?", bookID).
		Order("reviews.created_at DESC").
		Scan(&reviews).Error
	return reviews, err
}

// ListByUser returns the user's reviews, each with an abbreviated book
// reference (no aggregate).
func (r *reviewRepository) ListByUser(ctx context.Context, userID uint) ([]models.ReviewDetail, error) {
	var rows []models.Review
	err := r.db.WithContext(ctx).
		Preload("Book").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	reviews := make([]models.ReviewDetail, 0, len(rows))
	for _, rev := range rows {
		detail := models.ReviewDetail{
			ID:        rev.ID,
			BookID:    rev.BookID,
			UserID:    rev.UserID,
			Rating:    rev.Rating,
			Comment:   rev.Comment,
			Format:    rev.Format,
			CreatedAt: rev.CreatedAt,
		}
		if rev.Book != nil {
			detail.Book = &models.BookRef{
				ID:       rev.Book.ID,
				Title:    rev.Book.Title,
				Author:   rev.Book.Author,
				ISBN:     rev.Book.ISBN,
				CoverURL: rev.Book.CoverURL,
			}
		}
		reviews = append(reviews, detail)
	}
	return reviews, nil
}

// Create inserts the review. A second review for the same (user, book) pair
// violates the composite unique index and returns gorm.ErrDuplicatedKey.
func (r *reviewRepository) Create(ctx context.Context, review *models.Review) error {
	return r.db.WithContext(ctx).Create(review).Error
}

// UpdateOwned overwrites rating, comment and format of the caller's review.
// Returns gorm.ErrRecordNotFound when no row matches the (id, user_id) pair.
func (r *reviewRepository) UpdateOwned(ctx context.Context, reviewID, userID uint, rating int, comment, format string) (*models.Review, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Review{}).
		Where("id = ? AND user_id = ?", reviewID, userID).
		Updates(map[string]any{
			"rating":  rating,
			"comment": comment,
			"format":  format,
		})
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, gorm.ErrRecordNotFound
	}

	var review models.Review
	if err := r.db.WithContext(ctx).First(&review, reviewID).Error; err != nil {
		return nil, err
	}
	return &review, nil
}

// DeleteOwned removes the caller's review, same (id, user_id) predicate as
// UpdateOwned.
func (r *reviewRepository) DeleteOwned(ctx context.Context, reviewID, userID uint) error {
	res := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", reviewID, userID).
		Delete(&models.Review{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// RatingSummary returns the average rating and count across the user's
// reviews; the average is 0 when the user has none.
func (r *reviewRepository) RatingSummary(ctx context.Context, userID uint) (float64, int64, error) {
	var agg struct {
		AverageRating float64
		TotalReviews  int64
	}
	err := r.db.WithContext(ctx).
		Model(&models.Review{}).
		Select("COALESCE(AVG(rating), 0) AS average_rating, COUNT(*) AS total_reviews").
		Where("user_id = ?", userID).
		Scan(&agg).Error
	return agg.AverageRating, agg.TotalReviews, err
}
