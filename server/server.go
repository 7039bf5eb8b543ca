// Package server contains the HTTP handlers and wiring for the API.
package server

import (
	"context"
	"log"
	"strconv"
	"strings"
	"time"

	"shelfie/config"
	"shelfie/database"
	"shelfie/googleauth"
	"shelfie/middleware"
	"shelfie/models"
	"shelfie/repository"
	"shelfie/validation"

	playgroundvalidator "github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/golang-jwt/jwt/v5"
	"gorm.io/gorm"
)

const (
	tokenIssuer   = "shelfie-api"
	tokenAudience = "shelfie-client"
	tokenLifetime = 7 * 24 * time.Hour
)

// Server holds all dependencies and provides handlers.
type Server struct {
	config       *config.Config
	db           *gorm.DB
	userRepo     repository.UserRepository
	bookRepo     repository.BookRepository
	reviewRepo   repository.ReviewRepository
	userBookRepo repository.UserBookRepository
	verifier     googleauth.Verifier
	validate     *playgroundvalidator.Validate
	app          *fiber.App
}

// NewServer connects the database and wires all dependencies.
func NewServer(cfg *config.Config) (*Server, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, err
	}
	return NewServerWithDB(cfg, db, googleauth.NewClient()), nil
}

// NewServerWithDB wires a server around an existing database handle. Tests
// use it with in-memory sqlite and a fake token verifier.
func NewServerWithDB(cfg *config.Config, db *gorm.DB, verifier googleauth.Verifier) *Server {
	return &Server{
		config:       cfg,
		db:           db,
		userRepo:     repository.NewUserRepository(db),
		bookRepo:     repository.NewBookRepository(db),
		reviewRepo:   repository.NewReviewRepository(db),
		userBookRepo: repository.NewUserBookRepository(db),
		verifier:     verifier,
		validate:     validation.New(),
	}
}

// SetupMiddleware configures middleware for the Fiber app.
func (s *Server) SetupMiddleware(app *fiber.App) {
	app.Use(requestid.New())
	app.Use(middleware.StructuredLogger())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))
}

// SetupRoutes configures all routes for the application.
func (s *Server) SetupRoutes(app *fiber.App) {
	api := app.Group("/api")

	// Health check
	api.Get("/", s.HealthCheck)

	// Auth routes
	auth := api.Group("/auth")
	auth.Post("/register", s.Register)
	auth.Post("/login", s.Login)
	auth.Post("/google", s.GoogleAuth)

	// Book routes
	books := api.Group("/books")
	books.Get("/", s.GetBooks)
	books.Get("/:id", s.GetBook)
	books.Post("/", s.AuthRequired(), s.CreateBook)
	books.Put("/:id", s.AuthRequired(), s.UpdateBook)
	books.Delete("/:id", s.AuthRequired(), s.DeleteBook)

	// Review routes
	reviews := api.Group("/reviews")
	reviews.Get("/book/:bookId", s.GetBookReviews)
	reviews.Get("/user/:userId", s.GetUserReviews)
	reviews.Post("/", s.AuthRequired(), s.CreateReview)
	reviews.Put("/:id", s.AuthRequired(), s.UpdateReview)
	reviews.Delete("/:id", s.AuthRequired(), s.DeleteReview)

	// User and library routes. Literal segments before parameterized ones.
	user := api.Group("/user")
	user.Get("/profile/:userId", s.GetUserProfile)
	user.Put("/profile", s.AuthRequired(), s.UpdateProfile)
	user.Post("/books", s.AuthRequired(), s.AddUserBook)
	user.Put("/books/:bookId", s.AuthRequired(), s.UpdateUserBook)
	user.Delete("/books/:bookId", s.AuthRequired(), s.RemoveUserBook)
	user.Get("/:userId/books", s.GetUserBooks)
}

// HealthCheck handles GET /api/.
func (s *Server) HealthCheck(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 5*time.Second)
	defer cancel()

	dbStatus := "healthy"
	sqlDB, err := s.db.DB()
	if err != nil {
		dbStatus = "unhealthy"
	} else if err := sqlDB.PingContext(ctx); err != nil {
		dbStatus = "unhealthy"
	}

	status := fiber.StatusOK
	if dbStatus == "unhealthy" {
		status = fiber.StatusServiceUnavailable
	}

	return c.Status(status).JSON(fiber.Map{
		"message": "Shelfie API",
		"version": "1.0.0",
		"checks": fiber.Map{
			"database": dbStatus,
		},
		"time": time.Now(),
	})
}

// AuthRequired returns the authentication middleware. A missing or
// unparseable subject claim rejects the request; it never falls back to a
// zero user id.
func (s *Server) AuthRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		tokenString := ""
		if authHeader != "" {
			parts := strings.Split(authHeader, " ")
			if len(parts) == 2 && parts[0] == "Bearer" {
				tokenString = parts[1]
			}
		}

		if tokenString == "" {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError("Authorization required"))
		}

		token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fiber.NewError(fiber.StatusUnauthorized, "Invalid signing method")
			}
			return []byte(s.config.JWTSecret), nil
		})
		if err != nil || !token.Valid {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError("Invalid or expired token"))
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError("Invalid token claims"))
		}

		if issuer, issuerOk := claims["iss"].(string); !issuerOk || issuer != tokenIssuer {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError("Invalid token issuer"))
		}
		if audience, audienceOk := claims["aud"].(string); !audienceOk || audience != tokenAudience {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError("Invalid token audience"))
		}

		sub, ok := claims["sub"].(string)
		if !ok {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError("Invalid subject claim"))
		}

		userID, err := strconv.ParseUint(sub, 10, 32)
		if err != nil || userID == 0 {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError("Invalid user ID in token"))
		}

		c.Locals("userID", uint(userID))

		return c.Next()
	}
}

// Start builds the Fiber app and begins serving.
func (s *Server) Start() error {
	app := fiber.New(fiber.Config{
		AppName: "Shelfie API",
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			log.Printf("Error: %v", err)
			return models.RespondWithError(c, fiber.StatusInternalServerError,
				models.NewInternalError(err))
		},
	})
	s.app = app

	s.SetupMiddleware(app)
	s.SetupRoutes(app)

	log.Printf("Server starting on port %s...", s.config.Port)
	return app.Listen(":" + s.config.Port)
}

// Shutdown gracefully stops the server and closes the database connection.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.app != nil {
		if err := s.app.ShutdownWithContext(ctx); err != nil {
			log.Printf("error shutting down http server: %v", err)
		}
	}

	if sqlDB, err := s.db.DB(); err == nil {
		if cerr := sqlDB.Close(); cerr != nil {
			log.Printf("error closing sql DB: %v", cerr)
		}
	}

	log.Println("Server shutdown complete")
	return nil
}
