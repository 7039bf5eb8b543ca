package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"shelfie/config"
	"shelfie/database"
	"shelfie/googleauth"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type authUser struct {
	ID    uint
	Token string
}

// fakeVerifier stands in for the Google tokeninfo collaborator.
type fakeVerifier struct {
	info *googleauth.UserInfo
	err  error
}

func (f *fakeVerifier) Verify(ctx context.Context, idToken string) (*googleauth.UserInfo, error) {
	return f.info, f.err
}

func newTestServer(t *testing.T, verifier googleauth.Verifier) (*Server, *fiber.App) {
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

	if verifier == nil {
		verifier = &fakeVerifier{err: googleauth.ErrInvalidToken}
	}

	cfg := &config.Config{JWTSecret: "test-secret-key"}
	srv := NewServerWithDB(cfg, db, verifier)

	app := fiber.New()
	srv.SetupRoutes(app)
	return srv, app
}

func itoa(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}

func jsonReq(t *testing.T, method, path string, payload any) *http.Request {
	t.Helper()
	if payload == nil {
		return httptest.NewRequest(method, path, nil)
	}
	body, err := json.Marshal(payload)
	require.NoError(t, err)
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func authReq(t *testing.T, method, path, token string, payload any) *http.Request {
	t.Helper()
	req := jsonReq(t, method, path, payload)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req
}

func decodeBody(t *testing.T, resp *http.Response, dest any) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(dest))
}

func registerUser(t *testing.T, app *fiber.App, email string) authUser {
	t.Helper()

	payload := map[string]string{
		"email":    email,
		"password": "password123",
		"name":     "Reader " + email,
	}
	resp, err := app.Test(jsonReq(t, http.MethodPost, "/api/auth/register", payload), -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Token string `json:"token"`
		User  struct {
			ID uint `json:"id"`
		} `json:"user"`
	}
	decodeBody(t, resp, &body)
	require.NotEmpty(t, body.Token)
	require.NotZero(t, body.User.ID)

	return authUser{ID: body.User.ID, Token: body.Token}
}

func createBook(t *testing.T, app *fiber.App, token, title string) uint {
	t.Helper()

	payload := map[string]string{
		"title":  title,
		"author": "Some Author",
	}
	resp, err := app.Test(authReq(t, http.MethodPost, "/api/books", token, payload), -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var body struct {
		ID uint `json:"id"`
	}
	decodeBody(t, resp, &body)
	require.NotZero(t, body.ID)
	return body.ID
}
