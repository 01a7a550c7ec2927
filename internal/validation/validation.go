// Package validation provides input validation utilities for form submissions.
package validation

import (
	"fmt"
	"net/url"
	"regexp"

	"gestufas/internal/models"
)

const (
	TitleMinLen      = 3
	TitleMaxLen      = 255
	ContentMinLen    = 10
	CommentMinLen    = 5
	PasswordMinLen   = 8
	UsernameMaxLen   = 30
	DescriptionMin   = 10
	EmailMaxLen      = 254
	TechnologiesMax  = 255
	CommentMaxLen    = 10000
	PostContentMax   = 65535
	ProjectDescMax   = 65535
	PasswordMaxLen   = 128
	UsernameMinChars = 3
)

var (
	emailRegex    = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
	usernameRegex = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)
)

// ValidateUsername checks if a username meets requirements.
func ValidateUsername(username string) error {
	if len(username) < UsernameMinChars {
		return fmt.Errorf("username must be at least %d characters long", UsernameMinChars)
	}
	if len(username) > UsernameMaxLen {
		return fmt.Errorf("username must not exceed %d characters", UsernameMaxLen)
	}
	if !usernameRegex.MatchString(username) {
		return fmt.Errorf("username can only contain letters, numbers, underscores, and hyphens")
	}
	return nil
}

// ValidateEmail checks basic email format.
func ValidateEmail(email string) error {
	if !emailRegex.MatchString(email) {
		return fmt.Errorf("invalid email format")
	}
	if len(email) > EmailMaxLen {
		return fmt.Errorf("email must not exceed %d characters", EmailMaxLen)
	}
	return nil
}

// ValidateAbsoluteURL checks that raw parses as an absolute http(s) URL.
func ValidateAbsoluteURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid URL")
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("URL must be absolute (http or https)")
	}
	return nil
}

// ValidatePost validates post form fields and returns itemized error messages.
// Title must be 3..255 characters, content at least 10.
func ValidatePost(title, content string) []string {
	var errs []string

	switch {
	case title == "":
		errs = append(errs, "Title is required.")
	case len(title) < TitleMinLen:
		errs = append(errs, fmt.Sprintf("Title must be at least %d characters.", TitleMinLen))
	case len(title) > TitleMaxLen:
		errs = append(errs, fmt.Sprintf("Title must not exceed %d characters.", TitleMaxLen))
	}

	switch {
	case content == "":
		errs = append(errs, "Content is required.")
	case len(content) < ContentMinLen:
		errs = append(errs, fmt.Sprintf("Content must be at least %d characters.", ContentMinLen))
	case len(content) > PostContentMax:
		errs = append(errs, "Content is too long.")
	}

	return errs
}

// ValidateProject validates project form fields. The status must come from
// the closed enum; repository/live URLs are optional but must be absolute
// http(s) URLs when present.
func ValidateProject(title, description, status, repositoryURL, liveURL string) []string {
	var errs []string

	switch {
	case title == "":
		errs = append(errs, "Title is required.")
	case len(title) < TitleMinLen:
		errs = append(errs, fmt.Sprintf("Title must be at least %d characters.", TitleMinLen))
	case len(title) > TitleMaxLen:
		errs = append(errs, fmt.Sprintf("Title must not exceed %d characters.", TitleMaxLen))
	}

	switch {
	case description == "":
		errs = append(errs, "Description is required.")
	case len(description) < DescriptionMin:
		errs = append(errs, fmt.Sprintf("Description must be at least %d characters.", DescriptionMin))
	case len(description) > ProjectDescMax:
		errs = append(errs, "Description is too long.")
	}

	if !models.ProjectStatus(status).Valid() {
		errs = append(errs, "Invalid status.")
	}

	if repositoryURL != "" {
		if err := ValidateAbsoluteURL(repositoryURL); err != nil {
			errs = append(errs, "Invalid repository URL.")
		}
	}
	if liveURL != "" {
		if err := ValidateAbsoluteURL(liveURL); err != nil {
			errs = append(errs, "Invalid live URL.")
		}
	}

	return errs
}

// ValidateComment validates a comment body (required, 5..10000 characters).
func ValidateComment(content string) error {
	switch {
	case content == "":
		return fmt.Errorf("comment must not be empty")
	case len(content) < CommentMinLen:
		return fmt.Errorf("comment must be at least %d characters", CommentMinLen)
	case len(content) > CommentMaxLen:
		return fmt.Errorf("comment must not exceed %d characters", CommentMaxLen)
	}
	return nil
}

// ValidateRegistration validates new-account form fields and returns itemized
// error messages. Password rules are intentionally lighter than a hardened
// deployment would use; bcrypt hashing happens at the controller.
func ValidateRegistration(username, email, password, confirm string) []string {
	var errs []string

	if username == "" {
		errs = append(errs, "Username is required.")
	} else if err := ValidateUsername(username); err != nil {
		errs = append(errs, err.Error())
	}

	if email == "" {
		errs = append(errs, "Email is required.")
	} else if err := ValidateEmail(email); err != nil {
		errs = append(errs, err.Error())
	}

	switch {
	case password == "":
		errs = append(errs, "Password is required.")
	case len(password) < PasswordMinLen:
		errs = append(errs, fmt.Sprintf("Password must be at least %d characters.", PasswordMinLen))
	case len(password) > PasswordMaxLen:
		errs = append(errs, fmt.Sprintf("Password must not exceed %d characters.", PasswordMaxLen))
	}

	if password != confirm {
		errs = append(errs, "Passwords do not match.")
	}

	return errs
}
