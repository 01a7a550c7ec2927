package session

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestManager(t *testing.T) (*Manager, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewManager(client, time.Hour), mr
}

func sessionCookie(resp *http.Response) *http.Cookie {
	for _, c := range resp.Cookies() {
		if c.Name == CookieName {
			return c
		}
	}
	return nil
}

func TestMiddlewareCreatesSession(t *testing.T) {
	manager, mr := newTestManager(t)

	app := fiber.New()
	app.Use(manager.Middleware())
	app.Get("/", func(c *fiber.Ctx) error {
		sess := FromCtx(c)
		require.NotNil(t, sess)
		assert.False(t, sess.LoggedIn())
		return c.SendString("ok")
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil), -1)
	require.NoError(t, err)

	cookie := sessionCookie(resp)
	require.NotNil(t, cookie, "middleware must set a session cookie")
	assert.True(t, cookie.HttpOnly)
	assert.True(t, mr.Exists(keyPrefix+cookie.Value), "session must be persisted")
}

func TestLoginStatePersistsAcrossRequests(t *testing.T) {
	manager, _ := newTestManager(t)

	app := fiber.New()
	app.Use(manager.Middleware())
	app.Get("/login", func(c *fiber.Ctx) error {
		FromCtx(c).SetUser(7, "alice")
		return c.SendString("ok")
	})
	app.Get("/whoami", func(c *fiber.Ctx) error {
		sess := FromCtx(c)
		if !sess.LoggedIn() {
			return c.SendString("anonymous")
		}
		return c.SendString(sess.Username())
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/login", nil), -1)
	require.NoError(t, err)
	cookie := sessionCookie(resp)
	require.NotNil(t, cookie)

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.AddCookie(cookie)
	resp, err = app.Test(req, -1)
	require.NoError(t, err)

	body := make([]byte, 32)
	n, _ := resp.Body.Read(body)
	assert.Equal(t, "alice", string(body[:n]))
}

func TestFlashesAreOneShot(t *testing.T) {
	manager, _ := newTestManager(t)

	app := fiber.New()
	app.Use(manager.Middleware())
	app.Get("/set", func(c *fiber.Ctx) error {
		FromCtx(c).Flash(FlashSuccess, "it worked")
		return c.SendString("ok")
	})
	app.Get("/pop", func(c *fiber.Ctx) error {
		flashes := FromCtx(c).PopFlashes()
		if len(flashes) == 0 {
			return c.SendString("empty")
		}
		return c.SendString(flashes[0].Kind + ":" + flashes[0].Message)
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/set", nil), -1)
	require.NoError(t, err)
	cookie := sessionCookie(resp)
	require.NotNil(t, cookie)

	readPop := func() string {
		req := httptest.NewRequest(http.MethodGet, "/pop", nil)
		req.AddCookie(cookie)
		resp, err := app.Test(req, -1)
		require.NoError(t, err)
		body := make([]byte, 64)
		n, _ := resp.Body.Read(body)
		return string(body[:n])
	}

	assert.Equal(t, "success:it worked", readPop())
	assert.Equal(t, "empty", readPop(), "flashes must not survive a second read")
}

func TestDestroyRemovesBackingEntry(t *testing.T) {
	manager, mr := newTestManager(t)

	app := fiber.New()
	app.Use(manager.Middleware())
	app.Get("/login", func(c *fiber.Ctx) error {
		FromCtx(c).SetUser(1, "bob")
		return c.SendString("ok")
	})
	app.Get("/logout", func(c *fiber.Ctx) error {
		FromCtx(c).Destroy()
		return c.SendString("ok")
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/login", nil), -1)
	require.NoError(t, err)
	cookie := sessionCookie(resp)
	require.NotNil(t, cookie)
	require.True(t, mr.Exists(keyPrefix+cookie.Value))

	req := httptest.NewRequest(http.MethodGet, "/logout", nil)
	req.AddCookie(cookie)
	resp, err = app.Test(req, -1)
	require.NoError(t, err)

	assert.False(t, mr.Exists(keyPrefix+cookie.Value), "destroy must delete the redis entry")

	cleared := sessionCookie(resp)
	require.NotNil(t, cleared, "logout must clear the cookie")
	assert.Empty(t, cleared.Value)
}

func TestTamperedCookieGetsFreshSession(t *testing.T) {
	manager, mr := newTestManager(t)

	app := fiber.New()
	app.Use(manager.Middleware())
	app.Get("/", func(c *fiber.Ctx) error {
		if FromCtx(c).LoggedIn() {
			return c.SendString("logged in")
		}
		return c.SendString("anonymous")
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: CookieName, Value: "forged-session-id"})
	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	body := make([]byte, 32)
	n, _ := resp.Body.Read(body)
	assert.Equal(t, "anonymous", string(body[:n]))

	// A fresh session replaces the forged id.
	fresh := sessionCookie(resp)
	require.NotNil(t, fresh)
	assert.NotEqual(t, "forged-session-id", fresh.Value)
	assert.True(t, mr.Exists(keyPrefix+fresh.Value))
}
