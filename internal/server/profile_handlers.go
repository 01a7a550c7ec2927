package server

import (
	"errors"
	"strings"

	"gestufas/internal/session"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// ProfileIndex shows the logged-in user's own account with post and project
// summaries.
func (s *Server) ProfileIndex(c *fiber.Ctx) error {
	sess, ok := s.requireUser(c)
	if !ok {
		return loginRedirect(c)
	}

	user, err := s.userRepo.GetWithRelations(c.Context(), sess.UserID())
	if errors.Is(err, gorm.ErrRecordNotFound) {
		// The account vanished underneath a live session.
		sess.Destroy()
		return loginRedirect(c)
	}
	if err != nil {
		return err
	}

	return s.render(c, "profile/index", "My Profile", fiber.Map{
		"User": user,
	})
}

// ProfileEdit lets the user edit their own account: form on GET, update on
// POST. A blank password keeps the current one.
func (s *Server) ProfileEdit(c *fiber.Ctx) error {
	sess, ok := s.requireUser(c)
	if !ok {
		return loginRedirect(c)
	}

	user, err := s.userRepo.GetByID(c.Context(), sess.UserID())
	if errors.Is(err, gorm.ErrRecordNotFound) {
		sess.Destroy()
		return loginRedirect(c)
	}
	if err != nil {
		return err
	}

	if c.Method() == fiber.MethodGet {
		return s.render(c, "profile/edit", "Edit Profile", fiber.Map{
			"User": user,
		})
	}

	username := strings.TrimSpace(c.FormValue("username"))
	email := strings.TrimSpace(c.FormValue("email"))
	password := c.FormValue("password")
	confirm := c.FormValue("confirm_password")

	errs, err := s.validateUserEdit(c, user, username, email, password, confirm)
	if err != nil {
		return s.failRedirect(c, err, "profile", "index")
	}
	if len(errs) > 0 {
		user.Username = username
		user.Email = email
		return s.render(c, "profile/edit", "Edit Profile", fiber.Map{
			"Errors": errs,
			"User":   user,
		})
	}

	user.Username = username
	user.Email = email
	if password != "" {
		hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			return s.failRedirect(c, err, "profile", "index")
		}
		user.Password = string(hashed)
	}

	if err := s.userRepo.Update(c.Context(), user); err != nil {
		return s.failRedirect(c, err, "profile", "index")
	}

	sess.SetUser(user.ID, user.Username)
	sess.Flash(session.FlashSuccess, "Profile updated.")
	return redirectTo(c, "profile", "index")
}

// ProfilePosts lists all of the user's posts.
func (s *Server) ProfilePosts(c *fiber.Ctx) error {
	sess, ok := s.requireUser(c)
	if !ok {
		return loginRedirect(c)
	}

	posts, err := s.postRepo.ListByUser(c.Context(), sess.UserID())
	if err != nil {
		return err
	}

	return s.render(c, "profile/posts", "My Posts", fiber.Map{
		"Posts": posts,
	})
}

// ProfileProjects lists all of the user's projects.
func (s *Server) ProfileProjects(c *fiber.Ctx) error {
	sess, ok := s.requireUser(c)
	if !ok {
		return loginRedirect(c)
	}

	projects, err := s.projectRepo.ListByUser(c.Context(), sess.UserID())
	if err != nil {
		return err
	}

	return s.render(c, "profile/projects", "My Projects", fiber.Map{
		"Projects": projects,
	})
}
