package server

import (
	"errors"
	"fmt"
	"strings"

	"gestufas/internal/models"
	"gestufas/internal/session"
	"gestufas/internal/validation"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// The comments resource edits and deletes individual comments. Creation lives
// on the posts/community comment action, next to the post being discussed.

// CommentsEdit renders the edit form for an owned comment.
func (s *Server) CommentsEdit(c *fiber.Ctx) error {
	sess, ok := s.requireUser(c)
	if !ok {
		return loginRedirect(c)
	}

	comment, handled, err := s.ownedComment(c, sess)
	if handled || err != nil {
		return err
	}

	return s.render(c, "comments/edit", "Edit Comment", fiber.Map{
		"Comment": comment,
	})
}

// CommentsUpdate applies an edit to an owned comment.
func (s *Server) CommentsUpdate(c *fiber.Ctx) error {
	sess, ok := s.requireUser(c)
	if !ok {
		return loginRedirect(c)
	}

	comment, handled, err := s.ownedComment(c, sess)
	if handled || err != nil {
		return err
	}

	content := strings.TrimSpace(c.FormValue("content"))
	if err := validation.ValidateComment(content); err != nil {
		return s.render(c, "comments/edit", "Edit Comment", fiber.Map{
			"Errors":  []string{err.Error()},
			"Comment": comment,
		})
	}

	comment.Content = content
	if err := s.commentRepo.Update(c.Context(), comment); err != nil {
		return s.failRedirect(c, err, "posts", "show", "id", fmt.Sprint(comment.PostID))
	}

	sess.Flash(session.FlashSuccess, "Comment updated.")
	return redirectTo(c, "posts", "show", "id", fmt.Sprint(comment.PostID))
}

// CommentsDelete removes an owned comment.
func (s *Server) CommentsDelete(c *fiber.Ctx) error {
	sess, ok := s.requireUser(c)
	if !ok {
		return loginRedirect(c)
	}

	comment, handled, err := s.ownedComment(c, sess)
	if handled || err != nil {
		return err
	}

	if err := s.commentRepo.Delete(c.Context(), comment.ID); err != nil {
		return s.failRedirect(c, err, "posts", "show", "id", fmt.Sprint(comment.PostID))
	}

	sess.Flash(session.FlashSuccess, "Comment deleted.")
	return redirectTo(c, "posts", "show", "id", fmt.Sprint(comment.PostID))
}

// ownedComment mirrors ownedPost for individual comments.
func (s *Server) ownedComment(c *fiber.Ctx, sess *session.Session) (comment *models.Comment, handled bool, err error) {
	id := queryUint(c, "id")
	if id == 0 {
		return nil, true, redirectTo(c, "posts", "index")
	}

	comment, err = s.commentRepo.GetByID(c.Context(), id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		sess.Flash(session.FlashError, "Comment not found.")
		return nil, true, redirectTo(c, "posts", "index")
	}
	if err != nil {
		return nil, false, err
	}

	if comment.UserID != sess.UserID() {
		sess.Flash(session.FlashError, "You can only modify your own comments.")
		return nil, true, redirectTo(c, "posts", "show", "id", fmt.Sprint(comment.PostID))
	}

	return comment, false, nil
}
