package server

import (
	"errors"
	"time"

	"shelfie/models"
	"shelfie/validation"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type createBookRequest struct {
	Title         string    `json:"title" validate:"required"`
	Author        string    `json:"author" validate:"required"`
	ISBN          string    `json:"isbn"`
	Description   string    `json:"description"`
	CoverURL      string    `json:"cover_url"`
	PublishedDate time.Time `json:"published_date"`
}

type updateBookRequest struct {
	Title         string     `json:"title"`
	Author        string     `json:"author"`
	ISBN          string     `json:"isbn"`
	Description   string     `json:"description"`
	CoverURL      string     `json:"cover_url"`
	PublishedDate *time.Time `json:"published_date"`
}

// GetBooks handles GET /api/books
func (s *Server) GetBooks(c *fiber.Ctx) error {
	books, err := s.bookRepo.List(c.Context())
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}
	return c.JSON(books)
}

// GetBook handles GET /api/books/:id
func (s *Server) GetBook(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid book ID"))
	}

	book, err := s.bookRepo.GetByID(c.Context(), uint(id))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.RespondWithError(c, fiber.StatusNotFound,
				models.NewNotFoundError("Book", id))
		}
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}
	return c.JSON(book)
}

// CreateBook handles POST /api/books
func (s *Server) CreateBook(c *fiber.Ctx) error {
	var req createBookRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}
	if err := s.validate.Struct(req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError(validation.Message(err)))
	}

	book := &models.Book{
		Title:         req.Title,
		Author:        req.Author,
		ISBN:          req.ISBN,
		Description:   req.Description,
		CoverURL:      req.CoverURL,
		PublishedDate: req.PublishedDate,
	}
	if err := s.bookRepo.Create(c.Context(), book); err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}

	return c.Status(fiber.StatusCreated).JSON(models.BookSummary{
		ID:            book.ID,
		Title:         book.Title,
		Author:        book.Author,
		ISBN:          book.ISBN,
		Description:   book.Description,
		CoverURL:      book.CoverURL,
		PublishedDate: book.PublishedDate,
		AverageRating: 0,
		ReviewCount:   0,
	})
}

// UpdateBook handles PUT /api/books/:id.
//
// Partial-update policy: title and author are overwritten only when the
// caller supplies a non-empty value; isbn, description and cover_url are
// overwritten unconditionally, so omitting them clears the stored value;
// published_date changes only when explicitly supplied.
func (s *Server) UpdateBook(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid book ID"))
	}

	var req updateBookRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	book, err := s.bookRepo.GetRecord(c.Context(), uint(id))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.RespondWithError(c, fiber.StatusNotFound,
				models.NewNotFoundError("Book", id))
		}
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}

	if req.Title != "" {
		book.Title = req.Title
	}
	if req.Author != "" {
		book.Author = req.Author
	}
	book.ISBN = req.ISBN
	book.Description = req.Description
	book.CoverURL = req.CoverURL
	if req.PublishedDate != nil {
		book.PublishedDate = *req.PublishedDate
	}

	if err := s.bookRepo.Update(c.Context(), book); err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}

	summary, err := s.bookRepo.GetByID(c.Context(), book.ID)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}
	return c.JSON(summary)
}

// DeleteBook handles DELETE /api/books/:id
func (s *Server) DeleteBook(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid book ID"))
	}

	if err := s.bookRepo.Delete(c.Context(), uint(id)); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.RespondWithError(c, fiber.StatusNotFound,
				models.NewNotFoundError("Book", id))
		}
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}

	return c.SendStatus(fiber.StatusNoContent)
}
