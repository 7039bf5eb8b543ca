// Command seed populates the database with demo users, books, reviews and
// library entries for local development.
package main

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"time"

	"shelfie/config"
	"shelfie/database"
	"shelfie/models"
	"shelfie/repository"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
)

const (
	userCount = 10
	bookCount = 25
)

func main() {
	_ = godotenv.Load()

	cfg := config.LoadConfig()
	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	ctx := context.Background()
	users := repository.NewUserRepository(db)
	books := repository.NewBookRepository(db)
	reviews := repository.NewReviewRepository(db)
	userBooks := repository.NewUserBookRepository(db)

	// All seeded accounts share one password so they are usable in dev.
	hashed, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("Failed to hash seed password: %v", err)
	}

	var userIDs []uint
	for i := 0; i < userCount; i++ {
		user := &models.User{
			Email:        fmt.Sprintf("%d_%s", i, gofakeit.Email()),
			PasswordHash: string(hashed),
			Name:         gofakeit.Name(),
			Bio:          gofakeit.Sentence(8),
			AvatarURL:    gofakeit.ImageURL(128, 128),
			CreatedAt:    time.Now().UTC(),
		}
		if err := users.Create(ctx, user); err != nil {
			log.Fatalf("Failed to seed user: %v", err)
		}
		userIDs = append(userIDs, user.ID)
	}

	var bookIDs []uint
	for i := 0; i < bookCount; i++ {
		fake := gofakeit.Book()
		book := &models.Book{
			Title:         fake.Title,
			Author:        fake.Author,
			ISBN:          gofakeit.Numerify("978-#-###-#####-#"),
			Description:   gofakeit.Paragraph(1, 3, 12, " "),
			CoverURL:      gofakeit.ImageURL(300, 450),
			PublishedDate: gofakeit.DateRange(time.Date(1950, 1, 1, 0, 0, 0, 0, time.UTC), time.Now()),
		}
		if err := books.Create(ctx, book); err != nil {
			log.Fatalf("Failed to seed book: %v", err)
		}
		bookIDs = append(bookIDs, book.ID)
	}

	reviewCount := 0
	entryCount := 0
	for _, userID := range userIDs {
		for _, bookID := range bookIDs {
			switch rand.Intn(4) {
			case 0:
				review := &models.Review{
					BookID:    bookID,
					UserID:    userID,
					Rating:    gofakeit.Number(1, 5),
					Comment:   gofakeit.Sentence(12),
					Format:    gofakeit.RandomString(models.Formats),
					CreatedAt: time.Now().UTC(),
				}
				if err := reviews.Create(ctx, review); err != nil {
					log.Fatalf("Failed to seed review: %v", err)
				}
				if err := userBooks.EnsureCompleted(ctx, userID, bookID, review.Format); err != nil {
					log.Fatalf("Failed to seed library entry: %v", err)
				}
				reviewCount++
				entryCount++
			case 1:
				status := gofakeit.RandomString(models.Statuses)
				format := gofakeit.RandomString(models.Formats)
				if err := userBooks.Upsert(ctx, userID, bookID, status, format); err != nil {
					log.Fatalf("Failed to seed library entry: %v", err)
				}
				entryCount++
			}
		}
	}

	log.Printf("Seeded %d users, %d books, %d reviews, %d library entries",
		len(userIDs), len(bookIDs), reviewCount, entryCount)
}
