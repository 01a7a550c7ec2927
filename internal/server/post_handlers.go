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

const postsPageSize = 10

// The community and posts resources expose the same post CRUD under two URL
// prefixes, so each handler is a closure parameterized by the resource name.
// Redirects and view links stay inside whichever prefix the request used.

func resourceHeading(resource string) string {
	if resource == "community" {
		return "Community"
	}
	return "Posts"
}

type postForm struct {
	Title   string
	Content string
	Tags    string
}

func (s *Server) postIndex(resource string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, ok := s.requireUser(c); !ok {
			return loginRedirect(c)
		}

		ctx := c.Context()
		page := queryPage(c)

		posts, err := s.postRepo.List(ctx, postsPageSize, (page-1)*postsPageSize)
		if err != nil {
			return err
		}
		total, err := s.postRepo.Count(ctx)
		if err != nil {
			return err
		}

		return s.render(c, "posts/index", resourceHeading(resource), fiber.Map{
			"Heading":    resourceHeading(resource),
			"Resource":   resource,
			"Posts":      posts,
			"Page":       page,
			"TotalPages": totalPages(total, postsPageSize),
			"PrevPage":   page - 1,
			"NextPage":   page + 1,
		})
	}
}

func (s *Server) postShow(resource string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sess, ok := s.requireUser(c)
		if !ok {
			return loginRedirect(c)
		}

		id := queryUint(c, "id")
		if id == 0 {
			return redirectTo(c, resource, "index")
		}

		post, err := s.postRepo.GetWithComments(c.Context(), id)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			sess.Flash(session.FlashError, "Post not found.")
			return redirectTo(c, resource, "index")
		}
		if err != nil {
			return err
		}

		return s.render(c, "posts/show", post.Title, fiber.Map{
			"Resource": resource,
			"Post":     post,
			"IsOwner":  sess.UserID() == post.UserID,
		})
	}
}

func (s *Server) postCreateForm(resource string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, ok := s.requireUser(c); !ok {
			return loginRedirect(c)
		}
		return s.render(c, "posts/create", "New Post", fiber.Map{
			"Resource": resource,
			"Form":     postForm{},
		})
	}
}

func (s *Server) postStore(resource string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sess, ok := s.requireUser(c)
		if !ok {
			return loginRedirect(c)
		}

		form := postForm{
			Title:   strings.TrimSpace(c.FormValue("title")),
			Content: strings.TrimSpace(c.FormValue("content")),
			Tags:    strings.TrimSpace(c.FormValue("tags")),
		}

		if errs := validation.ValidatePost(form.Title, form.Content); len(errs) > 0 {
			return s.render(c, "posts/create", "New Post", fiber.Map{
				"Resource": resource,
				"Errors":   errs,
				"Form":     form,
			})
		}

		post := &models.Post{
			Title:   form.Title,
			Content: form.Content,
			Tags:    form.Tags,
			UserID:  sess.UserID(),
		}
		if err := s.postRepo.Create(c.Context(), post); err != nil {
			return s.failRedirect(c, err, resource, "index")
		}

		sess.Flash(session.FlashSuccess, "Post published.")
		return redirectTo(c, resource, "show", "id", fmt.Sprint(post.ID))
	}
}

func (s *Server) postEdit(resource string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sess, ok := s.requireUser(c)
		if !ok {
			return loginRedirect(c)
		}

		post, handled, err := s.ownedPost(c, sess, resource)
		if handled || err != nil {
			return err
		}

		return s.render(c, "posts/edit", "Edit Post", fiber.Map{
			"Resource": resource,
			"Post":     post,
		})
	}
}

func (s *Server) postUpdate(resource string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sess, ok := s.requireUser(c)
		if !ok {
			return loginRedirect(c)
		}

		post, handled, err := s.ownedPost(c, sess, resource)
		if handled || err != nil {
			return err
		}

		form := postForm{
			Title:   strings.TrimSpace(c.FormValue("title")),
			Content: strings.TrimSpace(c.FormValue("content")),
			Tags:    strings.TrimSpace(c.FormValue("tags")),
		}

		if errs := validation.ValidatePost(form.Title, form.Content); len(errs) > 0 {
			post.Title = form.Title
			post.Content = form.Content
			post.Tags = form.Tags
			return s.render(c, "posts/edit", "Edit Post", fiber.Map{
				"Resource": resource,
				"Errors":   errs,
				"Post":     post,
			})
		}

		post.Title = form.Title
		post.Content = form.Content
		post.Tags = form.Tags
		if err := s.postRepo.Update(c.Context(), post); err != nil {
			return s.failRedirect(c, err, resource, "show", "id", fmt.Sprint(post.ID))
		}

		sess.Flash(session.FlashSuccess, "Post updated.")
		return redirectTo(c, resource, "show", "id", fmt.Sprint(post.ID))
	}
}

func (s *Server) postDelete(resource string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sess, ok := s.requireUser(c)
		if !ok {
			return loginRedirect(c)
		}

		post, handled, err := s.ownedPost(c, sess, resource)
		if handled || err != nil {
			return err
		}

		if err := s.postRepo.DeleteWithComments(c.Context(), post.ID); err != nil {
			return s.failRedirect(c, err, resource, "show", "id", fmt.Sprint(post.ID))
		}

		sess.Flash(session.FlashSuccess, "Post and its comments deleted.")
		return redirectTo(c, resource, "index")
	}
}

func (s *Server) postComment(resource string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sess, ok := s.requireUser(c)
		if !ok {
			return loginRedirect(c)
		}

		id := queryUint(c, "id")
		if id == 0 {
			return redirectTo(c, resource, "index")
		}

		post, err := s.postRepo.GetByID(c.Context(), id)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			sess.Flash(session.FlashError, "Post not found.")
			return redirectTo(c, resource, "index")
		}
		if err != nil {
			return err
		}

		content := strings.TrimSpace(c.FormValue("content"))
		if err := validation.ValidateComment(content); err != nil {
			sess.Flash(session.FlashError, err.Error())
			return redirectTo(c, resource, "show", "id", fmt.Sprint(post.ID))
		}

		comment := &models.Comment{
			Content: content,
			UserID:  sess.UserID(),
			PostID:  post.ID,
		}
		if err := s.commentRepo.Create(c.Context(), comment); err != nil {
			return s.failRedirect(c, err, resource, "show", "id", fmt.Sprint(post.ID))
		}

		sess.Flash(session.FlashSuccess, "Comment added.")
		return redirectTo(c, resource, "show", "id", fmt.Sprint(post.ID))
	}
}

// ownedPost loads the post named by the id query parameter and enforces that
// the session user owns it. When handled is true a terminal response (a
// missing-record redirect to the index or an ownership redirect) has already
// been written and the caller must return err as-is.
func (s *Server) ownedPost(c *fiber.Ctx, sess *session.Session, resource string) (post *models.Post, handled bool, err error) {
	id := queryUint(c, "id")
	if id == 0 {
		return nil, true, redirectTo(c, resource, "index")
	}

	post, err = s.postRepo.GetByID(c.Context(), id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		sess.Flash(session.FlashError, "Post not found.")
		return nil, true, redirectTo(c, resource, "index")
	}
	if err != nil {
		return nil, false, err
	}

	if post.UserID != sess.UserID() {
		sess.Flash(session.FlashError, "You can only modify your own posts.")
		return nil, true, redirectTo(c, resource, "show", "id", fmt.Sprint(post.ID))
	}

	return post, false, nil
}
