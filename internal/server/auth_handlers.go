package server

import (
	"strings"

	"gestufas/internal/models"
	"gestufas/internal/session"
	"gestufas/internal/validation"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
)

// LoginForm renders the login page. Logged-in users are sent to their
// dashboard instead.
func (s *Server) LoginForm(c *fiber.Ctx) error {
	if sess := session.FromCtx(c); sess != nil && sess.LoggedIn() {
		return redirectTo(c, "home", "dashboard")
	}
	return s.render(c, "auth/login", "Login", nil)
}

// Login authenticates a username/password pair. The failure message is the
// same for unknown users and wrong passwords so the form does not reveal
// which usernames exist.
func (s *Server) Login(c *fiber.Ctx) error {
	if c.Method() == fiber.MethodGet {
		return s.LoginForm(c)
	}

	username := strings.TrimSpace(c.FormValue("username"))
	password := c.FormValue("password")

	fail := func() error {
		return s.render(c, "auth/login", "Login", fiber.Map{
			"Error":    "Invalid credentials.",
			"Username": username,
		})
	}

	if username == "" || password == "" {
		return fail()
	}

	user, err := s.userRepo.GetByUsername(c.Context(), username)
	if err != nil {
		return s.failRedirect(c, err, "auth", "login")
	}
	if user == nil {
		return fail()
	}
	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) != nil {
		return fail()
	}

	sess := session.FromCtx(c)
	sess.SetUser(user.ID, user.Username)
	sess.Flash(session.FlashSuccess, "Welcome back, "+user.Username+"!")
	return redirectTo(c, "home", "dashboard")
}

// Register renders the signup form on GET and creates the account on POST.
func (s *Server) Register(c *fiber.Ctx) error {
	if c.Method() == fiber.MethodGet {
		if sess := session.FromCtx(c); sess != nil && sess.LoggedIn() {
			return redirectTo(c, "home", "dashboard")
		}
		return s.render(c, "auth/register", "Register", fiber.Map{
			"Form": registrationForm{},
		})
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
			return s.failRedirect(c, err, "auth", "register")
		}
	}

	if len(errs) > 0 {
		return s.render(c, "auth/register", "Register", fiber.Map{
			"Errors": errs,
			"Form":   form,
		})
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return s.failRedirect(c, err, "auth", "register")
	}

	user := &models.User{
		Username: form.Username,
		Email:    form.Email,
		Password: string(hashed),
	}
	if err := s.userRepo.Create(c.Context(), user); err != nil {
		return s.failRedirect(c, err, "auth", "register")
	}

	sess := session.FromCtx(c)
	sess.Flash(session.FlashSuccess, "Account created. You can log in now.")
	return redirectTo(c, "auth", "login")
}

// Logout destroys the session and returns to the public home page.
func (s *Server) Logout(c *fiber.Ctx) error {
	if sess := session.FromCtx(c); sess != nil {
		sess.Destroy()
	}
	return redirectTo(c, "home", "index")
}

type registrationForm struct {
	Username string
	Email    string
}

// checkUserUnique reports username/email collisions as form errors. selfID
// exempts the user's own record during profile updates.
func (s *Server) checkUserUnique(c *fiber.Ctx, username, email string, selfID uint) ([]string, error) {
	var errs []string

	existing, err := s.userRepo.GetByUsername(c.Context(), username)
	if err != nil {
		return nil, err
	}
	if existing != nil && existing.ID != selfID {
		errs = append(errs, "Username is already taken.")
	}

	existing, err = s.userRepo.GetByEmail(c.Context(), email)
	if err != nil {
		return nil, err
	}
	if existing != nil && existing.ID != selfID {
		errs = append(errs, "Email is already registered.")
	}

	return errs, nil
}
