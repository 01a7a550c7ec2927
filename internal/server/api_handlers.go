package server

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"gestufas/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// The api resource is a small JSON surface for scripts and integrations. It
// authenticates with bearer tokens instead of the browser session.

const (
	tokenIssuer   = "gestufas-api"
	tokenAudience = "gestufas-client"
	tokenLifetime = 24 * time.Hour
)

type tokenRequest struct {
	Username string `json:"username" form:"username"`
	Password string `json:"password" form:"password"`
}

// APIToken exchanges a username/password pair for a signed JWT.
func (s *Server) APIToken(c *fiber.Ctx) error {
	var req tokenRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	if req.Username == "" || req.Password == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Username and password are required"))
	}

	user, err := s.userRepo.GetByUsername(c.Context(), req.Username)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}
	if user == nil || bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)) != nil {
		return models.RespondWithError(c, fiber.StatusUnauthorized,
			models.NewUnauthorizedError("Invalid credentials"))
	}

	now := time.Now()
	claims := jwt.MapClaims{
		"iss": tokenIssuer,
		"aud": tokenAudience,
		"sub": fmt.Sprint(user.ID),
		"jti": uuid.NewString(),
		"iat": now.Unix(),
		"exp": now.Add(tokenLifetime).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.config.JWTSecret))
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}

	return c.JSON(fiber.Map{
		"token":      signed,
		"token_type": "Bearer",
		"expires_in": int(tokenLifetime.Seconds()),
	})
}

// APIUsers lists accounts as JSON.
func (s *Server) APIUsers(c *fiber.Ctx) error {
	if _, ok := s.bearerUserID(c); !ok {
		return models.RespondWithError(c, fiber.StatusUnauthorized,
			models.NewUnauthorizedError("Authorization required"))
	}

	users, err := s.userRepo.List(c.Context())
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}

	out := make([]fiber.Map, 0, len(users))
	for _, u := range users {
		out = append(out, fiber.Map{
			"id":         u.ID,
			"username":   u.Username,
			"email":      u.Email,
			"created_at": u.CreatedAt,
		})
	}
	return c.JSON(fiber.Map{"users": out})
}

// APIPosts lists recent posts as JSON, paginated like the HTML listing.
func (s *Server) APIPosts(c *fiber.Ctx) error {
	if _, ok := s.bearerUserID(c); !ok {
		return models.RespondWithError(c, fiber.StatusUnauthorized,
			models.NewUnauthorizedError("Authorization required"))
	}

	page := queryPage(c)
	posts, err := s.postRepo.List(c.Context(), postsPageSize, (page-1)*postsPageSize)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}
	total, err := s.postRepo.Count(c.Context())
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}

	out := make([]fiber.Map, 0, len(posts))
	for _, p := range posts {
		out = append(out, fiber.Map{
			"id":            p.ID,
			"title":         p.Title,
			"tags":          p.Tags,
			"author":        p.User.Username,
			"comment_count": p.CommentCount,
			"created_at":    p.CreatedAt,
		})
	}
	return c.JSON(fiber.Map{
		"posts": out,
		"page":  page,
		"total": total,
	})
}

// APIStats reports the site-wide counters.
func (s *Server) APIStats(c *fiber.Ctx) error {
	if _, ok := s.bearerUserID(c); !ok {
		return models.RespondWithError(c, fiber.StatusUnauthorized,
			models.NewUnauthorizedError("Authorization required"))
	}

	ctx := c.Context()
	users, err := s.userRepo.Count(ctx)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, models.NewInternalError(err))
	}
	posts, err := s.postRepo.Count(ctx)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, models.NewInternalError(err))
	}
	comments, err := s.commentRepo.Count(ctx)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, models.NewInternalError(err))
	}
	projects, err := s.projectRepo.CountAll(ctx)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, models.NewInternalError(err))
	}

	return c.JSON(fiber.Map{
		"users":    users,
		"posts":    posts,
		"comments": comments,
		"projects": projects,
	})
}

// bearerUserID validates the Authorization header's bearer token and returns
// the subject user ID.
func (s *Server) bearerUserID(c *fiber.Ctx) (uint, bool) {
	authHeader := c.Get(fiber.HeaderAuthorization)
	if authHeader == "" {
		return 0, false
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" {
		return 0, false
	}

	token, err := jwt.Parse(parts[1], func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return []byte(s.config.JWTSecret), nil
	}, jwt.WithIssuer(tokenIssuer), jwt.WithAudience(tokenAudience))
	if err != nil || !token.Valid {
		return 0, false
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return 0, false
	}
	sub, ok := claims["sub"].(string)
	if !ok {
		return 0, false
	}
	id, err := strconv.ParseUint(sub, 10, 32)
	if err != nil {
		return 0, false
	}
	return uint(id), true
}
