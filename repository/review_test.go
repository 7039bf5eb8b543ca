package repository

import (
	"context"
	"testing"
	"time"

	"shelfie/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestReviewRepository_Create_DuplicatePair(t *testing.T) {
	db := setupTestDB(t)
	repo := NewReviewRepository(db)
	ctx := context.Background()

	user := createTestUser(t, db, "dup@example.com")
	book := createTestBook(t, db, "Reviewed Once")

	first := &models.Review{
		BookID: book.ID, UserID: user.ID, Rating: 4,
		Format: models.FormatEbook, CreatedAt: time.Now().UTC(),
	}
	require.NoError(t, repo.Create(ctx, first))

	second := &models.Review{
		BookID: book.ID, UserID: user.ID, Rating: 2,
		Format: models.FormatEbook, CreatedAt: time.Now().UTC(),
	}
	err := repo.Create(ctx, second)
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)

	var count int64
	require.NoError(t, db.Model(&models.Review{}).
		Where("user_id = ? AND book_id = ?", user.ID, book.ID).
		Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestReviewRepository_ListByBook_IncludesUserName(t *testing.T) {
	db := setupTestDB(t)
	repo := NewReviewRepository(db)
	ctx := context.Background()

	user := createTestUser(t, db, "named@example.com")
	book := createTestBook(t, db, "Named Reviews")
	createTestReview(t, db, user.ID, book.ID, 5)

	reviews, err := repo.ListByBook(ctx, book.ID)
	require.NoError(t, err)
	require.Len(t, reviews, 1)
	assert.Equal(t, user.Name, reviews[0].UserName)
	assert.Equal(t, 5, reviews[0].Rating)
	assert.Nil(t, reviews[0].Book)
}

func TestReviewRepository_ListByUser_NestsBookRef(t *testing.T) {
	db := setupTestDB(t)
	repo := NewReviewRepository(db)
	ctx := context.Background()

	user := createTestUser(t, db, "nested@example.com")
	book := createTestBook(t, db, "Nested Book")
	createTestReview(t, db, user.ID, book.ID, 3)

	reviews, err := repo.ListByUser(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, reviews, 1)
	require.NotNil(t, reviews[0].Book)
	assert.Equal(t, book.ID, reviews[0].Book.ID)
	assert.Equal(t, book.Title, reviews[0].Book.Title)
	assert.Equal(t, book.Author, reviews[0].Book.Author)
	assert.Empty(t, reviews[0].UserName)
}

func TestReviewRepository_UpdateOwned(t *testing.T) {
	db := setupTestDB(t)
	repo := NewReviewRepository(db)
	ctx := context.Background()

	owner := createTestUser(t, db, "owner@example.com")
	stranger := createTestUser(t, db, "stranger@example.com")
	book := createTestBook(t, db, "Owned")
	review := createTestReview(t, db, owner.ID, book.ID, 2)

	// Not the owner: reads as not found, not as forbidden.
	_, err := repo.UpdateOwned(ctx, review.ID, stranger.ID, 5, "mine now", models.FormatKindle)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	updated, err := repo.UpdateOwned(ctx, review.ID, owner.ID, 5, "changed my mind", models.FormatKindle)
	require.NoError(t, err)
	assert.Equal(t, 5, updated.Rating)
	assert.Equal(t, "changed my mind", updated.Comment)
	assert.Equal(t, models.FormatKindle, updated.Format)
}

func TestReviewRepository_DeleteOwned(t *testing.T) {
	db := setupTestDB(t)
	repo := NewReviewRepository(db)
	ctx := context.Background()

	owner := createTestUser(t, db, "deleter@example.com")
	stranger := createTestUser(t, db, "bystander@example.com")
	book := createTestBook(t, db, "Deletable")
	review := createTestReview(t, db, owner.ID, book.ID, 1)

	assert.ErrorIs(t, repo.DeleteOwned(ctx, review.ID, stranger.ID), gorm.ErrRecordNotFound)
	require.NoError(t, repo.DeleteOwned(ctx, review.ID, owner.ID))
	assert.ErrorIs(t, repo.DeleteOwned(ctx, review.ID, owner.ID), gorm.ErrRecordNotFound)
}

func TestReviewRepository_RatingSummary(t *testing.T) {
	db := setupTestDB(t)
	repo := NewReviewRepository(db)
	ctx := context.Background()

	user := createTestUser(t, db, "summary@example.com")
	for i, rating := range []int{5, 3, 4} {
		book := createTestBook(t, db, "Summary Book "+string(rune('A'+i)))
		createTestReview(t, db, user.ID, book.ID, rating)
	}

	avg, count, err := repo.RatingSummary(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, 4.0, avg)
	assert.Equal(t, int64(3), count)

	// No reviews: average is 0, not an error.
	other := createTestUser(t, db, "quiet@example.com")
	avg, count, err = repo.RatingSummary(ctx, other.ID)
	require.NoError(t, err)
	assert.Equal(t, 0.0, avg)
	assert.Equal(t, int64(0), count)
}
