package server

import (
	"errors"

	"shelfie/models"
	"shelfie/validation"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type updateProfileRequest struct {
	Name      *string `json:"name"`
	Bio       *string `json:"bio"`
	AvatarURL *string `json:"avatar_url"`
}

type addUserBookRequest struct {
	BookID uint   `json:"book_id" validate:"required"`
	Status string `json:"status" validate:"omitempty,readingstatus"`
	Format string `json:"format" validate:"omitempty,bookformat"`
}

type updateUserBookRequest struct {
	Status string `json:"status" validate:"required,readingstatus"`
	Format string `json:"format" validate:"required,bookformat"`
}

// GetUserProfile handles GET /api/user/profile/:userId
func (s *Server) GetUserProfile(c *fiber.Ctx) error {
	userID, err := c.ParamsInt("userId")
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid user ID"))
	}
	return s.respondWithProfile(c, uint(userID))
}

// UpdateProfile handles PUT /api/user/profile. Only supplied fields
// overwrite; omitted ones keep their stored value. Email and password are
// not mutable through this endpoint.
func (s *Server) UpdateProfile(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	var req updateProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	user, err := s.userRepo.GetByID(c.Context(), userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.RespondWithError(c, fiber.StatusNotFound,
				models.NewNotFoundError("User", userID))
		}
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}

	if req.Name != nil {
		user.Name = *req.Name
	}
	if req.Bio != nil {
		user.Bio = *req.Bio
	}
	if req.AvatarURL != nil {
		user.AvatarURL = *req.AvatarURL
	}

	if err := s.userRepo.Update(c.Context(), user); err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}

	return s.respondWithProfile(c, userID)
}

// GetUserBooks handles GET /api/user/:userId/books?status=
func (s *Server) GetUserBooks(c *fiber.Ctx) error {
	userID, err := c.ParamsInt("userId")
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid user ID"))
	}

	entries, err := s.userBookRepo.ListByUser(c.Context(), uint(userID), c.Query("status"))
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}
	return c.JSON(entries)
}

// AddUserBook handles POST /api/user/books. Upsert semantics: a second add
// for the same book overwrites status and format in place, keeping the
// original added_at. The book is resolved before the upsert so a missing
// book never leaves a partial write behind.
func (s *Server) AddUserBook(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	var req addUserBookRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}
	if err := s.validate.Struct(req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError(validation.Message(err)))
	}
	if req.Status == "" {
		req.Status = models.StatusWantToRead
	}
	if req.Format == "" {
		req.Format = models.FormatPaperback
	}

	exists, err := s.bookRepo.Exists(c.Context(), req.BookID)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}
	if !exists {
		return models.RespondWithError(c, fiber.StatusNotFound,
			models.NewNotFoundError("Book", req.BookID))
	}

	if err := s.userBookRepo.Upsert(c.Context(), userID, req.BookID, req.Status, req.Format); err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}

	entry, err := s.userBookRepo.GetEntry(c.Context(), userID, req.BookID)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}
	return c.JSON(entry)
}

// UpdateUserBook handles PUT /api/user/books/:bookId. Unlike AddUserBook it
// never creates an entry: a missing pair is not found.
func (s *Server) UpdateUserBook(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	bookID, err := c.ParamsInt("bookId")
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid book ID"))
	}

	var req updateUserBookRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}
	if err := s.validate.Struct(req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError(validation.Message(err)))
	}

	if err := s.userBookRepo.UpdatePair(c.Context(), userID, uint(bookID), req.Status, req.Format); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.RespondWithError(c, fiber.StatusNotFound,
				models.NewNotFoundError("Library entry", bookID))
		}
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}

	entry, err := s.userBookRepo.GetEntry(c.Context(), userID, uint(bookID))
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}
	return c.JSON(entry)
}

// RemoveUserBook handles DELETE /api/user/books/:bookId
func (s *Server) RemoveUserBook(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	bookID, err := c.ParamsInt("bookId")
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid book ID"))
	}

	if err := s.userBookRepo.DeletePair(c.Context(), userID, uint(bookID)); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.RespondWithError(c, fiber.StatusNotFound,
				models.NewNotFoundError("Library entry", bookID))
		}
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// respondWithProfile assembles the profile plus reading statistics.
func (s *Server) respondWithProfile(c *fiber.Ctx, userID uint) error {
	user, err := s.userRepo.GetByID(c.Context(), userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.RespondWithError(c, fiber.StatusNotFound,
				models.NewNotFoundError("User", userID))
		}
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}

	statusCounts, err := s.userBookRepo.CountByStatus(c.Context(), userID)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}
	formatCounts, err := s.userBookRepo.CountByFormat(c.Context(), userID)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}
	avgRating, totalReviews, err := s.reviewRepo.RatingSummary(c.Context(), userID)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}

	return c.JSON(models.Profile{
		ID:        user.ID,
		Name:      user.Name,
		Email:     user.Email,
		Bio:       user.Bio,
		AvatarURL: user.AvatarURL,
		CreatedAt: user.CreatedAt,
		ReadingStats: models.ReadingStats{
			TotalBooksRead:   statusCounts[models.StatusCompleted],
			CurrentlyReading: statusCounts[models.StatusCurrentlyReading],
			WantToRead:       statusCounts[models.StatusWantToRead],
			FormatBreakdown:  formatCounts,
			AverageRating:    avgRating,
			TotalReviews:     totalReviews,
		},
	})
}
