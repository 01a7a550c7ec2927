package server

import (
	"fmt"
	"log/slog"
	"strconv"

	"gestufas/internal/middleware"
	"gestufas/internal/session"

	"github.com/gofiber/fiber/v2"
)

// routeURL builds a front-controller URL for the given resource and action.
// Extra arguments are appended as key/value query pairs.
func routeURL(resource, action string, pairs ...string) string {
	url := fmt.Sprintf("/?c=%s&a=%s", resource, action)
	for i := 0; i+1 < len(pairs); i += 2 {
		url += fmt.Sprintf("&%s=%s", pairs[i], pairs[i+1])
	}
	return url
}

// redirectTo issues the 302 used by the POST-redirect-GET pattern.
func redirectTo(c *fiber.Ctx, resource, action string, pairs ...string) error {
	return c.Redirect(routeURL(resource, action, pairs...), fiber.StatusFound)
}

// requireUser gates an action behind authentication. When the session carries
// no user it flashes a prompt and redirects to the login page, returning
// (nil, false); callers must stop immediately in that case.
func (s *Server) requireUser(c *fiber.Ctx) (*session.Session, bool) {
	sess := session.FromCtx(c)
	if sess == nil || !sess.LoggedIn() {
		if sess != nil {
			sess.Flash(session.FlashInfo, "Please log in to continue.")
		}
		return nil, false
	}
	return sess, true
}

// loginRedirect is the companion to requireUser.
func loginRedirect(c *fiber.Ctx) error {
	return redirectTo(c, "auth", "login")
}

// queryUint parses a numeric query parameter, returning zero when absent or
// malformed.
func queryUint(c *fiber.Ctx, key string) uint {
	raw := c.Query(key)
	if raw == "" {
		return 0
	}
	n, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return 0
	}
	return uint(n)
}

// queryPage parses the page query parameter, clamping to 1.
func queryPage(c *fiber.Ctx) int {
	n, err := strconv.Atoi(c.Query("page"))
	if err != nil || n < 1 {
		return 1
	}
	return n
}

// totalPages computes the page count for a pagination footer.
func totalPages(total int64, pageSize int) int {
	pages := int((total + int64(pageSize) - 1) / int64(pageSize))
	if pages < 1 {
		pages = 1
	}
	return pages
}

// render draws a view inside the main layout, injecting the session-derived
// bindings every page needs: flash messages, login state and page title.
func (s *Server) render(c *fiber.Ctx, name, title string, data fiber.Map) error {
	if data == nil {
		data = fiber.Map{}
	}
	data["Title"] = title
	if sess := session.FromCtx(c); sess != nil {
		data["Flashes"] = sess.PopFlashes()
		data["LoggedIn"] = sess.LoggedIn()
		data["CurrentUsername"] = sess.Username()
		data["CurrentUserID"] = sess.UserID()
	} else {
		data["Flashes"] = nil
		data["LoggedIn"] = false
		data["CurrentUsername"] = ""
		data["CurrentUserID"] = uint(0)
	}
	return c.Render(name, data)
}

// failRedirect logs a storage-layer failure at the controller boundary,
// flashes a generic error and redirects. Handlers use it so infrastructure
// errors never leak raw to the browser.
func (s *Server) failRedirect(c *fiber.Ctx, err error, resource, action string, pairs ...string) error {
	middleware.Logger.Error("request failed",
		slog.String("resource", c.Query("c")),
		slog.String("action", c.Query("a")),
		slog.String("error", err.Error()))
	if sess := session.FromCtx(c); sess != nil {
		sess.Flash(session.FlashError, "Something went wrong. Please try again.")
	}
	return redirectTo(c, resource, action, pairs...)
}
