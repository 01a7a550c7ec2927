// Package session implements the Redis-backed request session store and the
// one-shot flash message mechanism used for user feedback across redirects.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"gestufas/internal/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// CookieName is the browser cookie carrying the session identifier.
const CookieName = "gestufas_session"

const localsKey = "session"

const keyPrefix = "session:"

// Flash kinds rendered by the layout.
const (
	FlashSuccess = "success"
	FlashError   = "error"
	FlashInfo    = "info"
)

// FlashMessage is a one-shot feedback message: set by one request, read and
// cleared by the next request that renders a view.
type FlashMessage struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

type sessionData struct {
	UserID   uint           `json:"user_id,omitempty"`
	Username string         `json:"username,omitempty"`
	Flashes  []FlashMessage `json:"flashes,omitempty"`
}

// Session is the per-request view of one browser session. Mutations are
// written back to Redis by the manager middleware after the handler returns.
type Session struct {
	id        string
	data      sessionData
	dirty     bool
	destroyed bool
}

// ID returns the session identifier.
func (s *Session) ID() string { return s.id }

// UserID returns the authenticated user's ID, or zero when not logged in.
func (s *Session) UserID() uint { return s.data.UserID }

// Username returns the authenticated user's name, or empty when not logged in.
func (s *Session) Username() string { return s.data.Username }

// LoggedIn reports whether the session carries an authenticated user.
func (s *Session) LoggedIn() bool { return s.data.UserID != 0 }

// SetUser marks the session as authenticated for the given user.
func (s *Session) SetUser(id uint, username string) {
	s.data.UserID = id
	s.data.Username = username
	s.dirty = true
}

// Destroy clears all session state and removes the backing Redis entry when
// the request completes.
func (s *Session) Destroy() {
	s.data = sessionData{}
	s.destroyed = true
	s.dirty = true
}

// Flash queues a one-shot feedback message.
func (s *Session) Flash(kind, message string) {
	s.data.Flashes = append(s.data.Flashes, FlashMessage{Kind: kind, Message: message})
	s.dirty = true
}

// PopFlashes returns all queued flash messages and clears them.
func (s *Session) PopFlashes() []FlashMessage {
	if len(s.data.Flashes) == 0 {
		return nil
	}
	flashes := s.data.Flashes
	s.data.Flashes = nil
	s.dirty = true
	return flashes
}

// Manager loads and persists sessions against Redis.
type Manager struct {
	redis *redis.Client
	ttl   time.Duration
}

// NewManager creates a session manager with the given time-to-live.
func NewManager(client *redis.Client, ttl time.Duration) *Manager {
	return &Manager{redis: client, ttl: ttl}
}

// FromCtx returns the request's session. The session middleware must have run.
func FromCtx(c *fiber.Ctx) *Session {
	sess, _ := c.Locals(localsKey).(*Session)
	return sess
}

func (m *Manager) load(ctx context.Context, id string) (*Session, error) {
	raw, err := m.redis.Get(ctx, keyPrefix+id).Bytes()
	if err != nil {
		return nil, err
	}
	var data sessionData
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, err
	}
	return &Session{id: id, data: data}, nil
}

func (m *Manager) save(ctx context.Context, sess *Session) error {
	if sess.destroyed {
		return m.redis.Del(ctx, keyPrefix+sess.id).Err()
	}
	if !sess.dirty {
		// Sliding expiration for untouched sessions.
		return m.redis.Expire(ctx, keyPrefix+sess.id, m.ttl).Err()
	}
	raw, err := json.Marshal(sess.data)
	if err != nil {
		return err
	}
	return m.redis.Set(ctx, keyPrefix+sess.id, raw, m.ttl).Err()
}

// Middleware loads (or creates) the session for each request and writes it
// back after the handler chain completes.
func (m *Manager) Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx := c.Context()

		var sess *Session
		if id := c.Cookies(CookieName); id != "" {
			loaded, err := m.load(ctx, id)
			if err == nil {
				sess = loaded
			} else if !errors.Is(err, redis.Nil) {
				middleware.Logger.Warn("session load failed",
					slog.String("session_id", id),
					slog.String("error", err.Error()))
			}
		}

		if sess == nil {
			sess = &Session{id: uuid.NewString(), dirty: true}
			c.Cookie(&fiber.Cookie{
				Name:     CookieName,
				Value:    sess.id,
				Path:     "/",
				MaxAge:   int(m.ttl.Seconds()),
				HTTPOnly: true,
				SameSite: fiber.CookieSameSiteLaxMode,
			})
		}

		c.Locals(localsKey, sess)
		if sess.LoggedIn() {
			c.Locals("userID", sess.UserID())
		}

		err := c.Next()

		if saveErr := m.save(ctx, sess); saveErr != nil {
			middleware.Logger.Error("session save failed",
				slog.String("session_id", sess.id),
				slog.String("error", saveErr.Error()))
		}
		if sess.destroyed {
			c.Cookie(&fiber.Cookie{
				Name:     CookieName,
				Value:    "",
				Path:     "/",
				MaxAge:   -1,
				HTTPOnly: true,
				SameSite: fiber.CookieSameSiteLaxMode,
			})
		}

		return err
	}
}
