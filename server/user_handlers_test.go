package server

import (
	"net/http"
	"testing"

	"shelfie/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func addUserBook(t *testing.T, app *fiber.App, token string, payload map[string]any) *http.Response {
	t.Helper()
	resp, err := app.Test(authReq(t, http.MethodPost, "/api/user/books", token, payload), -1)
	require.NoError(t, err)
	return resp
}

func TestGetUserProfile_ReadingStats(t *testing.T) {
	_, app := newTestServer(t, nil)
	user := registerUser(t, app, "stats@example.com")

	bookIDs := []uint{
		createBook(t, app, user.Token, "Finished One"),
		createBook(t, app, user.Token, "Finished Two"),
		createBook(t, app, user.Token, "Someday"),
	}

	entries := []map[string]any{
		{"book_id": bookIDs[0], "status": models.StatusCompleted, "format": models.FormatPaperback},
		{"book_id": bookIDs[1], "status": models.StatusCompleted, "format": models.FormatEbook},
		{"book_id": bookIDs[2], "status": models.StatusWantToRead, "format": models.FormatPaperback},
	}
	for _, entry := range entries {
		resp := addUserBook(t, app, user.Token, entry)
		require.Equal(t, http.StatusOK, resp.StatusCode)
	}

	for _, rated := range []struct {
		bookID uint
		rating int
	}{{bookIDs[0], 5}, {bookIDs[1], 3}} {
		resp, err := app.Test(authReq(t, http.MethodPost, "/api/reviews", user.Token, map[string]any{
			"book_id": rated.bookID, "rating": rated.rating,
		}), -1)
		require.NoError(t, err)
		require.Equal(t, http.StatusCreated, resp.StatusCode)
	}

	resp, err := app.Test(jsonReq(t, http.MethodGet, "/api/user/profile/"+itoa(user.ID), nil), -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var profile models.Profile
	decodeBody(t, resp, &profile)
	assert.Equal(t, "stats@example.com", profile.Email)
	assert.Equal(t, int64(2), profile.ReadingStats.TotalBooksRead)
	assert.Equal(t, int64(0), profile.ReadingStats.CurrentlyReading)
	assert.Equal(t, int64(1), profile.ReadingStats.WantToRead)
	assert.Equal(t, int64(2), profile.ReadingStats.FormatBreakdown[models.FormatPaperback])
	assert.Equal(t, int64(1), profile.ReadingStats.FormatBreakdown[models.FormatEbook])
	assert.Equal(t, 4.0, profile.ReadingStats.AverageRating)
	assert.Equal(t, int64(2), profile.ReadingStats.TotalReviews)
}

func TestGetUserProfile_NotFound(t *testing.T) {
	_, app := newTestServer(t, nil)

	resp, err := app.Test(jsonReq(t, http.MethodGet, "/api/user/profile/9999", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestUpdateProfile_PartialFields(t *testing.T) {
	_, app := newTestServer(t, nil)
	user := registerUser(t, app, "partial@example.com")

	// Only bio supplied: name keeps the registered value.
	resp, err := app.Test(authReq(t, http.MethodPut, "/api/user/profile", user.Token, map[string]any{
		"bio": "likes long walks through libraries",
	}), -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var profile models.Profile
	decodeBody(t, resp, &profile)
	assert.Equal(t, "Reader partial@example.com", profile.Name)
	assert.Equal(t, "likes long walks through libraries", profile.Bio)

	// An explicit empty string clears the field.
	resp, err = app.Test(authReq(t, http.MethodPut, "/api/user/profile", user.Token, map[string]any{
		"bio": "",
	}), -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	decodeBody(t, resp, &profile)
	assert.Empty(t, profile.Bio)
	assert.Equal(t, "Reader partial@example.com", profile.Name)
}

func TestAddUserBook_UpsertSemantics(t *testing.T) {
	srv, app := newTestServer(t, nil)
	user := registerUser(t, app, "shelver@example.com")
	bookID := createBook(t, app, user.Token, "Reshelvable")

	resp := addUserBook(t, app, user.Token, map[string]any{"book_id": bookID})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var first models.LibraryEntry
	decodeBody(t, resp, &first)
	assert.Equal(t, models.StatusWantToRead, first.Status)
	assert.Equal(t, models.FormatPaperback, first.Format)

	// A second add overwrites status and format, keeps added_at, and never
	// grows a second row.
	resp = addUserBook(t, app, user.Token, map[string]any{
		"book_id": bookID,
		"status":  models.StatusCurrentlyReading,
		"format":  models.FormatAudiobook,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var second models.LibraryEntry
	decodeBody(t, resp, &second)
	assert.Equal(t, models.StatusCurrentlyReading, second.Status)
	assert.Equal(t, models.FormatAudiobook, second.Format)
	assert.True(t, second.AddedAt.Equal(first.AddedAt))

	var count int64
	require.NoError(t, srv.db.Model(&models.UserBook{}).
		Where("user_id = ?", user.ID).
		Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestAddUserBook_MissingBook(t *testing.T) {
	srv, app := newTestServer(t, nil)
	user := registerUser(t, app, "nobook@example.com")

	resp := addUserBook(t, app, user.Token, map[string]any{"book_id": 9999})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	// Nothing is written for a book that does not exist.
	var count int64
	require.NoError(t, srv.db.Model(&models.UserBook{}).
		Where("user_id = ?", user.ID).
		Count(&count).Error)
	assert.Equal(t, int64(0), count)
}

func TestAddUserBook_RejectsUnknownStatus(t *testing.T) {
	_, app := newTestServer(t, nil)
	user := registerUser(t, app, "badstatus@example.com")
	bookID := createBook(t, app, user.Token, "Statusless")

	resp := addUserBook(t, app, user.Token, map[string]any{
		"book_id": bookID,
		"status":  "Abandoned",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestGetUserBooks_StatusFilter(t *testing.T) {
	_, app := newTestServer(t, nil)
	user := registerUser(t, app, "filterer@example.com")

	reading := createBook(t, app, user.Token, "In Progress")
	queued := createBook(t, app, user.Token, "Queued")

	require.Equal(t, http.StatusOK, addUserBook(t, app, user.Token, map[string]any{
		"book_id": reading, "status": models.StatusCurrentlyReading,
	}).StatusCode)
	require.Equal(t, http.StatusOK, addUserBook(t, app, user.Token, map[string]any{
		"book_id": queued,
	}).StatusCode)

	resp, err := app.Test(jsonReq(t, http.MethodGet, "/api/user/"+itoa(user.ID)+"/books", nil), -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var all []models.LibraryEntry
	decodeBody(t, resp, &all)
	assert.Len(t, all, 2)

	resp, err = app.Test(jsonReq(t, http.MethodGet,
		"/api/user/"+itoa(user.ID)+"/books?status=Currently+Reading", nil), -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var filtered []models.LibraryEntry
	decodeBody(t, resp, &filtered)
	require.Len(t, filtered, 1)
	assert.Equal(t, "In Progress", filtered[0].Title)
	assert.Equal(t, models.StatusCurrentlyReading, filtered[0].Status)
}

func TestUpdateUserBook_NeverCreates(t *testing.T) {
	srv, app := newTestServer(t, nil)
	user := registerUser(t, app, "noupsert@example.com")
	bookID := createBook(t, app, user.Token, "Unshelved")

	resp, err := app.Test(authReq(t, http.MethodPut, "/api/user/books/"+itoa(bookID), user.Token, map[string]any{
		"status": models.StatusCompleted,
		"format": models.FormatHardcover,
	}), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	var count int64
	require.NoError(t, srv.db.Model(&models.UserBook{}).
		Where("user_id = ?", user.ID).
		Count(&count).Error)
	assert.Equal(t, int64(0), count)
}

func TestUpdateUserBook_ExistingEntry(t *testing.T) {
	_, app := newTestServer(t, nil)
	user := registerUser(t, app, "promoter@example.com")
	bookID := createBook(t, app, user.Token, "Promoted")

	require.Equal(t, http.StatusOK, addUserBook(t, app, user.Token, map[string]any{
		"book_id": bookID,
	}).StatusCode)

	resp, err := app.Test(authReq(t, http.MethodPut, "/api/user/books/"+itoa(bookID), user.Token, map[string]any{
		"status": models.StatusCompleted,
		"format": models.FormatHardcover,
	}), -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var entry models.LibraryEntry
	decodeBody(t, resp, &entry)
	assert.Equal(t, models.StatusCompleted, entry.Status)
	assert.Equal(t, models.FormatHardcover, entry.Format)
}

func TestRemoveUserBook(t *testing.T) {
	_, app := newTestServer(t, nil)
	user := registerUser(t, app, "remover@example.com")
	bookID := createBook(t, app, user.Token, "Discarded")

	require.Equal(t, http.StatusOK, addUserBook(t, app, user.Token, map[string]any{
		"book_id": bookID,
	}).StatusCode)

	resp, err := app.Test(authReq(t, http.MethodDelete, "/api/user/books/"+itoa(bookID), user.Token, nil), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp, err = app.Test(authReq(t, http.MethodDelete, "/api/user/books/"+itoa(bookID), user.Token, nil), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestHealthCheck(t *testing.T) {
	_, app := newTestServer(t, nil)

	resp, err := app.Test(jsonReq(t, http.MethodGet, "/api/", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
