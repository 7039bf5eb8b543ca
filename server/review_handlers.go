package server

import (
	"errors"
	"time"

	"shelfie/models"
	"shelfie/validation"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type createReviewRequest struct {
	BookID  uint   `json:"book_id" validate:"required"`
	Rating  int    `json:"rating" validate:"required,min=1,max=5"`
	Comment string `json:"comment"`
	Format  string `json:"format" validate:"omitempty,bookformat"`
}

type updateReviewRequest struct {
	Rating  int    `json:"rating" validate:"required,min=1,max=5"`
	Comment string `json:"comment"`
	Format  string `json:"format" validate:"required,bookformat"`
}

// GetBookReviews handles GET /api/reviews/book/:bookId
func (s *Server) GetBookReviews(c *fiber.Ctx) error {
	bookID, err := c.ParamsInt("bookId")
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid book ID"))
	}

	reviews, err := s.reviewRepo.ListByBook(c.Context(), uint(bookID))
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}
	return c.JSON(reviews)
}

// GetUserReviews handles GET /api/reviews/user/:userId
func (s *Server) GetUserReviews(c *fiber.Ctx) error {
	userID, err := c.ParamsInt("userId")
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid user ID"))
	}

	reviews, err := s.reviewRepo.ListByUser(c.Context(), uint(userID))
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}
	return c.JSON(reviews)
}

// CreateReview handles POST /api/reviews. Reviewing a book also guarantees a
// library entry exists for it: when the caller has none, a Completed entry
// with the review's format is created alongside the review.
func (s *Server) CreateReview(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	var req createReviewRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}
	if err := s.validate.Struct(req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError(validation.Message(err)))
	}
	if req.Format == "" {
		req.Format = models.FormatPaperback
	}

	review := &models.Review{
		BookID:    req.BookID,
		UserID:    userID,
		Rating:    req.Rating,
		Comment:   req.Comment,
		Format:    req.Format,
		CreatedAt: time.Now().UTC(),
	}

	// The composite unique index is the one-review-per-user-per-book check.
	if err := s.reviewRepo.Create(c.Context(), review); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return models.RespondWithError(c, fiber.StatusBadRequest,
				models.NewConflictError("You have already reviewed this book"))
		}
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}

	if err := s.userBookRepo.EnsureCompleted(c.Context(), userID, req.BookID, req.Format); err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}

	return c.Status(fiber.StatusCreated).JSON(review)
}

// UpdateReview handles PUT /api/reviews/:id. The ownership predicate lives in
// the query itself, so a foreign review reads as not found.
func (s *Server) UpdateReview(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	reviewID, err := c.ParamsInt("id")
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid review ID"))
	}

	var req updateReviewRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}
	if err := s.validate.Struct(req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError(validation.Message(err)))
	}

	review, err := s.reviewRepo.UpdateOwned(c.Context(), uint(reviewID), userID,
		req.Rating, req.Comment, req.Format)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.RespondWithError(c, fiber.StatusNotFound,
				models.NewNotFoundError("Review", reviewID))
		}
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}
	return c.JSON(review)
}

// DeleteReview handles DELETE /api/reviews/:id
func (s *Server) DeleteReview(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	reviewID, err := c.ParamsInt("id")
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid review ID"))
	}

	if err := s.reviewRepo.DeleteOwned(c.Context(), uint(reviewID), userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.RespondWithError(c, fiber.StatusNotFound,
				models.NewNotFoundError("Review", reviewID))
		}
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}

	return c.SendStatus(fiber.StatusNoContent)
}
