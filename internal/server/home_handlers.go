package server

import (
	"time"

	"github.com/gofiber/fiber/v2"
)

const recentLimit = 5

type siteStats struct {
	Users          int64
	Posts          int64
	Comments       int64
	Projects       int64
	UsersThisMonth int64
	PostsThisMonth int64
}

// HomeIndex is the public landing page: site-wide counters plus the most
// recent posts and comments.
func (s *Server) HomeIndex(c *fiber.Ctx) error {
	ctx := c.Context()

	stats := siteStats{}
	var err error
	if stats.Users, err = s.userRepo.Count(ctx); err != nil {
		return err
	}
	if stats.Posts, err = s.postRepo.Count(ctx); err != nil {
		return err
	}
	if stats.Comments, err = s.commentRepo.Count(ctx); err != nil {
		return err
	}
	if stats.Projects, err = s.projectRepo.CountAll(ctx); err != nil {
		return err
	}

	recentPosts, err := s.postRepo.List(ctx, recentLimit, 0)
	if err != nil {
		return err
	}
	recentComments, err := s.commentRepo.ListRecent(ctx, recentLimit)
	if err != nil {
		return err
	}

	return s.render(c, "home/index", "Home", fiber.Map{
		"Stats":          stats,
		"RecentPosts":    recentPosts,
		"RecentComments": recentComments,
	})
}

// Dashboard is the logged-in overview: the public counters, month-to-date
// growth, and the user's own recent posts and projects.
func (s *Server) Dashboard(c *fiber.Ctx) error {
	sess, ok := s.requireUser(c)
	if !ok {
		return loginRedirect(c)
	}

	ctx := c.Context()
	monthStart := time.Now().AddDate(0, -1, 0)

	stats := siteStats{}
	var err error
	if stats.Users, err = s.userRepo.Count(ctx); err != nil {
		return err
	}
	if stats.Posts, err = s.postRepo.Count(ctx); err != nil {
		return err
	}
	if stats.Comments, err = s.commentRepo.Count(ctx); err != nil {
		return err
	}
	if stats.Projects, err = s.projectRepo.CountAll(ctx); err != nil {
		return err
	}
	if stats.UsersThisMonth, err = s.userRepo.CountSince(ctx, monthStart); err != nil {
		return err
	}
	if stats.PostsThisMonth, err = s.postRepo.CountSince(ctx, monthStart); err != nil {
		return err
	}

	myPosts, err := s.postRepo.ListByUser(ctx, sess.UserID())
	if err != nil {
		return err
	}
	if len(myPosts) > recentLimit {
		myPosts = myPosts[:recentLimit]
	}

	myProjects, err := s.projectRepo.ListByUser(ctx, sess.UserID())
	if err != nil {
		return err
	}

	return s.render(c, "home/dashboard", "Dashboard", fiber.Map{
		"Stats":      stats,
		"MyPosts":    myPosts,
		"MyProjects": myProjects,
	})
}
