package server

import (
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"gestufas/internal/config"
	"gestufas/internal/models"
	"gestufas/internal/session"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// newTestServer builds a server on an in-memory SQLite database and a
// miniredis-backed session store.
func newTestServer(t *testing.T) *Server {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{}, &models.Post{}, &models.Project{}, &models.Comment{}))

	mr := miniredis.RunT(t)
	redisClient := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { redisClient.Close() })

	cfg := &config.Config{
		Env:             "test",
		Port:            "0",
		SessionTTLHours: 1,
		JWTSecret:       "test-secret-key",
	}

	srv, err := NewServerWithDeps(cfg, db, redisClient)
	require.NoError(t, err)
	return srv
}

// createTestUser inserts a user whose password is the given plaintext.
func createTestUser(t *testing.T, srv *Server, username, password string) *models.User {
	t.Helper()

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)

	user := &models.User{
		Username: username,
		Email:    username + "@example.com",
		Password: string(hashed),
	}
	require.NoError(t, srv.db.Create(user).Error)
	return user
}

// formRequest builds a form-encoded POST to a front-controller URL.
func formRequest(target string, form url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

// login performs a real login request and returns the session cookie to
// attach to subsequent requests.
func login(t *testing.T, srv *Server, username, password string) *http.Cookie {
	t.Helper()

	req := formRequest("/?c=auth&a=login", url.Values{
		"username": {username},
		"password": {password},
	})
	resp, err := srv.App().Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusFound, resp.StatusCode, "login should redirect")

	for _, cookie := range resp.Cookies() {
		if cookie.Name == session.CookieName && cookie.Value != "" {
			return cookie
		}
	}
	t.Fatal("no session cookie after login")
	return nil
}

func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(body)
}
