package server

import (
	"errors"
	"fmt"
	"strings"

	"gestufas/internal/models"
	"gestufas/internal/session"
	"gestufas/internal/validation"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// The users resource is the account management surface. Every action requires
// a logged-in session.

// UsersIndex lists all accounts ordered by username.
func (s *Server) UsersIndex(c *fiber.Ctx) error {
	if _, ok := s.requireUser(c); !ok {
		return loginRedirect(c)
	}

	users, err := s.userRepo.List(c.Context())
	if err != nil {
		return err
	}

	return s.render(c, "users/index", "Users", fiber.Map{
		"Users": users,
	})
}

// UsersShow renders one account with its posts and projects.
func (s *Server) UsersShow(c *fiber.Ctx) error {
	sess, ok := s.requireUser(c)
	if !ok {
		return loginRedirect(c)
	}

	id := queryUint(c, "id")
	if id == 0 {
		return redirectTo(c, "users", "index")
	}

	user, err := s.userRepo.GetWithRelations(c.Context(), id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		sess.Flash(session.FlashError, "User not found.")
		return redirectTo(c, "users", "index")
	}
	if err != nil {
		return err
	}

	return s.render(c, "users/show", user.Username, fiber.Map{
		"User": user,
	})
}

// UsersCreate renders the new-account form.
func (s *Server) UsersCreate(c *fiber.Ctx) error {
	if _, ok := s.requireUser(c); !ok {
		return loginRedirect(c)
	}
	return s.render(c, "users/create", "New User", fiber.Map{
		"Form": registrationForm{},
	})
}

// UsersStore creates an account from the admin form. Same validation as
// self-service registration.
func (s *Server) UsersStore(c *fiber.Ctx) error {
	sess, ok := s.requireUser(c)
	if !ok {
		return loginRedirect(c)
	}

	form := registrationForm{
		Username: strings.TrimSpace(c.FormValue("username")),
		Email:    strings.TrimSpace(c.FormValue("email")),
	}
	password := c.FormValue("password")
	confirm := c.FormValue("confirm_password")

	errs := validation.ValidateRegistration(form.Username, form.Email, password, confirm)
	if len(errs) == 0 {
		var err error
		errs, err = s.checkUserUnique(c, form.Username, form.Email, 0)
		if err != nil {
			return s.failRedirect(c, err, "users", "index")
		}
	}
	if len(errs) > 0 {
		return s.render(c, "users/create", "New User", fiber.Map{
			"Errors": errs,
			"Form":   form,
		})
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return s.failRedirect(c, err, "users", "index")
	}

	user := &models.User{
		Username: form.Username,
		Email:    form.Email,
		Password: string(hashed),
	}
	if err := s.userRepo.Create(c.Context(), user); err != nil {
		return s.failRedirect(c, err, "users", "index")
	}

	sess.Flash(session.FlashSuccess, "User created.")
	return redirectTo(c, "users", "show", "id", fmt.Sprint(user.ID))
}

// UsersEdit renders the account edit form.
func (s *Server) UsersEdit(c *fiber.Ctx) error {
	sess, ok := s.requireUser(c)
	if !ok {
		return loginRedirect(c)
	}

	id := queryUint(c, "id")
	if id == 0 {
		return redirectTo(c, "users", "index")
	}

	user, err := s.userRepo.GetByID(c.Context(), id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		sess.Flash(session.FlashError, "User not found.")
		return redirectTo(c, "users", "index")
	}
	if err != nil {
		return err
	}

	return s.render(c, "users/edit", "Edit User", fiber.Map{
		"User": user,
	})
}

// UsersUpdate applies account edits. A blank password keeps the current one.
func (s *Server) UsersUpdate(c *fiber.Ctx) error {
	sess, ok := s.requireUser(c)
	if !ok {
		return loginRedirect(c)
	}

	id := queryUint(c, "id")
	if id == 0 {
		return redirectTo(c, "users", "index")
	}

	user, err := s.userRepo.GetByID(c.Context(), id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		sess.Flash(session.FlashError, "User not found.")
		return redirectTo(c, "users", "index")
	}
	if err != nil {
		return err
	}

	username := strings.TrimSpace(c.FormValue("username"))
	email := strings.TrimSpace(c.FormValue("email"))
	password := c.FormValue("password")
	confirm := c.FormValue("confirm_password")

	errs, err := s.validateUserEdit(c, user, username, email, password, confirm)
	if err != nil {
		return s.failRedirect(c, err, "users", "index")
	}
	if len(errs) > 0 {
		user.Username = username
		user.Email = email
		return s.render(c, "users/edit", "Edit User", fiber.Map{
			"Errors": errs,
			"User":   user,
		})
	}

	user.Username = username
	user.Email = email
	if password != "" {
		hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			return s.failRedirect(c, err, "users", "index")
		}
		user.Password = string(hashed)
	}

	if err := s.userRepo.Update(c.Context(), user); err != nil {
		return s.failRedirect(c, err, "users", "index")
	}

	// Keep the session display name in sync when editing oneself.
	if user.ID == sess.UserID() {
		sess.SetUser(user.ID, user.Username)
	}

	sess.Flash(session.FlashSuccess, "User updated.")
	return redirectTo(c, "users", "show", "id", fmt.Sprint(user.ID))
}

// UsersDelete removes an account. Deleting the account that owns the current
// session is refused so an operator cannot lock themselves out mid-session.
func (s *Server) UsersDelete(c *fiber.Ctx) error {
	sess, ok := s.requireUser(c)
	if !ok {
		return loginRedirect(c)
	}

	id := queryUint(c, "id")
	if id == 0 {
		return redirectTo(c, "users", "index")
	}

	if id == sess.UserID() {
		sess.Flash(session.FlashError, "You cannot delete your own account while logged in.")
		return redirectTo(c, "users", "index")
	}

	user, err := s.userRepo.GetByID(c.Context(), id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		sess.Flash(session.FlashError, "User not found.")
		return redirectTo(c, "users", "index")
	}
	if err != nil {
		return err
	}

	if err := s.userRepo.Delete(c.Context(), user.ID); err != nil {
		return s.failRedirect(c, err, "users", "index")
	}

	sess.Flash(session.FlashSuccess, "User "+user.Username+" deleted.")
	return redirectTo(c, "users", "index")
}

// validateUserEdit checks an edit form: identity fields always, password
// fields only when a new password was supplied.
func (s *Server) validateUserEdit(c *fiber.Ctx, user *models.User, username, email, password, confirm string) ([]string, error) {
	var errs []string

	if err := validation.ValidateUsername(username); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validation.ValidateEmail(email); err != nil {
		errs = append(errs, err.Error())
	}
	if password != "" {
		if len(password) < validation.PasswordMinLen {
			errs = append(errs, fmt.Sprintf("Password must be at least %d characters.", validation.PasswordMinLen))
		}
		if password != confirm {
			errs = append(errs, "Passwords do not match.")
		}
	}

	if len(errs) > 0 {
		return errs, nil
	}

	return s.checkUserUnique(c, username, email, user.ID)
}
