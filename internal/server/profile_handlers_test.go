package server

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"gestufas/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProfileIndex(t *testing.T) {
	srv := newTestServer(t)
	user := createTestUser(t, srv, "me", "password123")
	createTestPost(t, srv, user.ID, "A post of mine")
	cookie := login(t, srv, "me", "password123")

	req := httptest.NewRequest(http.MethodGet, "/?c=profile&a=index", nil)
	req.AddCookie(cookie)
	resp, err := srv.App().Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body := readBody(t, resp)
	assert.Contains(t, body, "me@example.com")
}

func TestProfileEditUpdatesSessionUsername(t *testing.T) {
	srv := newTestServer(t)
	createTestUser(t, srv, "oldname", "password123")
	cookie := login(t, srv, "oldname", "password123")

	req := formRequest("/?c=profile&a=edit", url.Values{
		"username": {"newname"},
		"email":    {"oldname@example.com"},
	})
	req.AddCookie(cookie)
	resp, err := srv.App().Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/?c=profile&a=index", resp.Header.Get("Location"))

	var user models.User
	require.NoError(t, srv.db.Where("username = ?", "newname").First(&user).Error)

	// The navigation greets with the new name on the next page view.
	req = httptest.NewRequest(http.MethodGet, "/?c=profile&a=index", nil)
	req.AddCookie(cookie)
	resp, err = srv.App().Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, readBody(t, resp), "newname")
}

func TestProfileEditRejectsTakenUsername(t *testing.T) {
	srv := newTestServer(t)
	createTestUser(t, srv, "first", "password123")
	createTestUser(t, srv, "second", "password123")
	cookie := login(t, srv, "second", "password123")

	req := formRequest("/?c=profile&a=edit", url.Values{
		"username": {"first"},
		"email":    {"second@example.com"},
	})
	req.AddCookie(cookie)
	resp, err := srv.App().Test(req, -1)
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, readBody(t, resp), "Username is already taken.")
}

func TestProfilePostsListsOnlyOwn(t *testing.T) {
	srv := newTestServer(t)
	me := createTestUser(t, srv, "me", "password123")
	other := createTestUser(t, srv, "other", "password123")
	createTestPost(t, srv, me.ID, "Mine alone")
	createTestPost(t, srv, other.ID, "Not mine")
	cookie := login(t, srv, "me", "password123")

	req := httptest.NewRequest(http.MethodGet, "/?c=profile&a=posts", nil)
	req.AddCookie(cookie)
	resp, err := srv.App().Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body := readBody(t, resp)
	assert.Contains(t, body, "Mine alone")
	assert.NotContains(t, body, "Not mine")
}
