package repository

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"shelfie/database"
	"shelfie/models"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestDB opens a private in-memory SQLite database with the full schema
// migrated. TranslateError is on so unique violations surface as
// gorm.ErrDuplicatedKey, same as the postgres setup.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared",
		strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	t.Cleanup(func() {
		sqlDB, _ := db.DB()
		sqlDB.Close()
	})

	return db
}

func createTestUser(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()
	user := &models.User{
		Email:        email,
		PasswordHash: "x",
		Name:         "Test Reader",
		CreatedAt:    time.Now().UTC(),
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func createTestBook(t *testing.T, db *gorm.DB, title string) *models.Book {
	t.Helper()
	book := &models.Book{
		Title:  title,
		Author: "Test Author",
	}
	require.NoError(t, db.Create(book).Error)
	return book
}

func createTestReview(t *testing.T, db *gorm.DB, userID, bookID uint, rating int) *models.Review {
	t.Helper()
	review := &models.Review{
		BookID:    bookID,
		UserID:    userID,
		Rating:    rating,
		Format:    models.FormatPaperback,
		CreatedAt: time.Now().UTC(),
	}
	require.NoError(t, db.Create(review).Error)
	return review
}
