package server

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"gestufas/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUsersIndexRequiresLogin(t *testing.T) {
	srv := newTestServer(t)

	resp, err := srv.App().Test(httptest.NewRequest(http.MethodGet, "/?c=users&a=index", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/?c=auth&a=login", resp.Header.Get("Location"))
}

func TestUsersSelfDeleteBlocked(t *testing.T) {
	srv := newTestServer(t)
	me := createTestUser(t, srv, "admin", "password123")
	other := createTestUser(t, srv, "colleague", "password123")
	cookie := login(t, srv, "admin", "password123")

	// Deleting yourself is refused.
	req := formRequest(fmt.Sprintf("/?c=users&a=delete&id=%d", me.ID), url.Values{})
	req.AddCookie(cookie)
	resp, err := srv.App().Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusFound, resp.StatusCode)

	var count int64
	require.NoError(t, srv.db.Model(&models.User{}).Where("id = ?", me.ID).Count(&count).Error)
	assert.EqualValues(t, 1, count, "self-delete must be refused")

	// Deleting another account works.
	req = formRequest(fmt.Sprintf("/?c=users&a=delete&id=%d", other.ID), url.Values{})
	req.AddCookie(cookie)
	resp, err = srv.App().Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusFound, resp.StatusCode)

	require.NoError(t, srv.db.Model(&models.User{}).Where("id = ?", other.ID).Count(&count).Error)
	assert.Zero(t, count)
}

func TestUsersShow(t *testing.T) {
	srv := newTestServer(t)
	user := createTestUser(t, srv, "showme", "password123")
	createTestPost(t, srv, user.ID, "Visible on profile")
	createTestProject(t, srv, user.ID, "Profile Project", models.ProjectStatusActive)
	cookie := login(t, srv, "showme", "password123")

	req := httptest.NewRequest(http.MethodGet, fmt.Sprintf("/?c=users&a=show&id=%d", user.ID), nil)
	req.AddCookie(cookie)
	resp, err := srv.App().Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body := readBody(t, resp)
	assert.Contains(t, body, "showme")
	assert.Contains(t, body, "Visible on profile")
	assert.Contains(t, body, "Profile Project")
}

func TestUsersShowMissingRedirects(t *testing.T) {
	srv := newTestServer(t)
	createTestUser(t, srv, "viewer", "password123")
	cookie := login(t, srv, "viewer", "password123")

	req := httptest.NewRequest(http.MethodGet, "/?c=users&a=show&id=9999", nil)
	req.AddCookie(cookie)
	resp, err := srv.App().Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/?c=users&a=index", resp.Header.Get("Location"))

	req = httptest.NewRequest(http.MethodGet, resp.Header.Get("Location"), nil)
	req.AddCookie(cookie)
	resp, err = srv.App().Test(req, -1)
	require.NoError(t, err)
	assert.Contains(t, readBody(t, resp), "User not found.")
}

func TestUsersUpdateKeepsPasswordWhenBlank(t *testing.T) {
	srv := newTestServer(t)
	user := createTestUser(t, srv, "renameme", "password123")
	original := user.Password
	cookie := login(t, srv, "renameme", "password123")

	req := formRequest(fmt.Sprintf("/?c=users&a=update&id=%d", user.ID), url.Values{
		"username": {"renamed"},
		"email":    {"renamed@example.com"},
	})
	req.AddCookie(cookie)
	resp, err := srv.App().Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusFound, resp.StatusCode)

	var reloaded models.User
	require.NoError(t, srv.db.First(&reloaded, user.ID).Error)
	assert.Equal(t, "renamed", reloaded.Username)
	assert.Equal(t, "renamed@example.com", reloaded.Email)
	assert.Equal(t, original, reloaded.Password, "blank password keeps the stored hash")
}
