package server

import (
	"errors"
	"fmt"
	"strings"

	"gestufas/internal/models"
	"gestufas/internal/repository"
	"gestufas/internal/session"
	"gestufas/internal/validation"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

const projectsPageSize = 12

type projectForm struct {
	Title         string
	Description   string
	Technologies  string
	RepositoryURL string
	LiveURL       string
	Status        string
}

func projectFormFromRequest(c *fiber.Ctx) projectForm {
	return projectForm{
		Title:         strings.TrimSpace(c.FormValue("title")),
		Description:   strings.TrimSpace(c.FormValue("description")),
		Technologies:  strings.TrimSpace(c.FormValue("technologies")),
		RepositoryURL: strings.TrimSpace(c.FormValue("repository_url")),
		LiveURL:       strings.TrimSpace(c.FormValue("live_url")),
		Status:        c.FormValue("status", string(models.ProjectStatusActive)),
	}
}

// ProjectsIndex lists projects with optional status and free-text filters.
// Filters survive pagination through the query string.
func (s *Server) ProjectsIndex(c *fiber.Ctx) error {
	if _, ok := s.requireUser(c); !ok {
		return loginRedirect(c)
	}

	ctx := c.Context()
	page := queryPage(c)

	filter := repository.ProjectFilter{
		Status: models.ProjectStatus(c.Query("status")),
		Search: strings.TrimSpace(c.Query("search")),
	}
	// An unknown status value filters nothing rather than erroring.
	if filter.Status != "" && !filter.Status.Valid() {
		filter.Status = ""
	}

	projects, err := s.projectRepo.List(ctx, filter, projectsPageSize, (page-1)*projectsPageSize)
	if err != nil {
		return err
	}
	total, err := s.projectRepo.Count(ctx, filter)
	if err != nil {
		return err
	}

	return s.render(c, "projects/index", "Projects", fiber.Map{
		"Projects":   projects,
		"Filter":     filter,
		"Page":       page,
		"TotalPages": totalPages(total, projectsPageSize),
		"PrevPage":   page - 1,
		"NextPage":   page + 1,
	})
}

// ProjectsShow renders one project.
func (s *Server) ProjectsShow(c *fiber.Ctx) error {
	sess, ok := s.requireUser(c)
	if !ok {
		return loginRedirect(c)
	}

	id := queryUint(c, "id")
	if id == 0 {
		return redirectTo(c, "projects", "index")
	}

	project, err := s.projectRepo.GetByID(c.Context(), id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		sess.Flash(session.FlashError, "Project not found.")
		return redirectTo(c, "projects", "index")
	}
	if err != nil {
		return err
	}

	return s.render(c, "projects/show", project.Title, fiber.Map{
		"Project": project,
		"IsOwner": sess.UserID() == project.UserID,
	})
}

// ProjectsCreate renders the new-project form.
func (s *Server) ProjectsCreate(c *fiber.Ctx) error {
	if _, ok := s.requireUser(c); !ok {
		return loginRedirect(c)
	}
	return s.render(c, "projects/create", "New Project", fiber.Map{
		"Form": projectForm{Status: string(models.ProjectStatusActive)},
	})
}

// ProjectsStore creates a project from the submitted form.
func (s *Server) ProjectsStore(c *fiber.Ctx) error {
	sess, ok := s.requireUser(c)
	if !ok {
		return loginRedirect(c)
	}

	form := projectFormFromRequest(c)
	errs := validation.ValidateProject(form.Title, form.Description, form.Status, form.RepositoryURL, form.LiveURL)
	if len(errs) > 0 {
		return s.render(c, "projects/create", "New Project", fiber.Map{
			"Errors": errs,
			"Form":   form,
		})
	}

	project := &models.Project{
		Title:         form.Title,
		Description:   form.Description,
		Technologies:  form.Technologies,
		RepositoryURL: form.RepositoryURL,
		LiveURL:       form.LiveURL,
		Status:        models.ProjectStatus(form.Status),
		UserID:        sess.UserID(),
	}
	if err := s.projectRepo.Create(c.Context(), project); err != nil {
		return s.failRedirect(c, err, "projects", "index")
	}

	sess.Flash(session.FlashSuccess, "Project created.")
	return redirectTo(c, "projects", "show", "id", fmt.Sprint(project.ID))
}

// ProjectsEdit renders the edit form for a project the session user owns.
func (s *Server) ProjectsEdit(c *fiber.Ctx) error {
	sess, ok := s.requireUser(c)
	if !ok {
		return loginRedirect(c)
	}

	project, handled, err := s.ownedProject(c, sess)
	if handled || err != nil {
		return err
	}

	return s.render(c, "projects/edit", "Edit Project", fiber.Map{
		"Project": project,
	})
}

// ProjectsUpdate applies edits to an owned project.
func (s *Server) ProjectsUpdate(c *fiber.Ctx) error {
	sess, ok := s.requireUser(c)
	if !ok {
		return loginRedirect(c)
	}

	project, handled, err := s.ownedProject(c, sess)
	if handled || err != nil {
		return err
	}

	form := projectFormFromRequest(c)
	errs := validation.ValidateProject(form.Title, form.Description, form.Status, form.RepositoryURL, form.LiveURL)
	if len(errs) > 0 {
		project.Title = form.Title
		project.Description = form.Description
		project.Technologies = form.Technologies
		project.RepositoryURL = form.RepositoryURL
		project.LiveURL = form.LiveURL
		return s.render(c, "projects/edit", "Edit Project", fiber.Map{
			"Errors":  errs,
			"Project": project,
		})
	}

	project.Title = form.Title
	project.Description = form.Description
	project.Technologies = form.Technologies
	project.RepositoryURL = form.RepositoryURL
	project.LiveURL = form.LiveURL
	project.Status = models.ProjectStatus(form.Status)

	if err := s.projectRepo.Update(c.Context(), project); err != nil {
		return s.failRedirect(c, err, "projects", "show", "id", fmt.Sprint(project.ID))
	}

	sess.Flash(session.FlashSuccess, "Project updated.")
	return redirectTo(c, "projects", "show", "id", fmt.Sprint(project.ID))
}

// ProjectsDelete removes an owned project.
func (s *Server) ProjectsDelete(c *fiber.Ctx) error {
	sess, ok := s.requireUser(c)
	if !ok {
		return loginRedirect(c)
	}

	project, handled, err := s.ownedProject(c, sess)
	if handled || err != nil {
		return err
	}

	if err := s.projectRepo.Delete(c.Context(), project.ID); err != nil {
		return s.failRedirect(c, err, "projects", "show", "id", fmt.Sprint(project.ID))
	}

	sess.Flash(session.FlashSuccess, "Project deleted.")
	return redirectTo(c, "projects", "index")
}

// ProjectsJoin acknowledges a membership request. Project membership has no
// backing model yet, so this flashes a notice and returns to the project.
func (s *Server) ProjectsJoin(c *fiber.Ctx) error {
	return s.membershipPlaceholder(c, "Joining projects is not available yet.")
}

// ProjectsLeave is the counterpart placeholder to ProjectsJoin.
func (s *Server) ProjectsLeave(c *fiber.Ctx) error {
	return s.membershipPlaceholder(c, "Leaving projects is not available yet.")
}

func (s *Server) membershipPlaceholder(c *fiber.Ctx, message string) error {
	sess, ok := s.requireUser(c)
	if !ok {
		return loginRedirect(c)
	}

	id := queryUint(c, "id")
	if id == 0 {
		return redirectTo(c, "projects", "index")
	}
	if _, err := s.projectRepo.GetByID(c.Context(), id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			sess.Flash(session.FlashError, "Project not found.")
			return redirectTo(c, "projects", "index")
		}
		return err
	}

	sess.Flash(session.FlashInfo, message)
	return redirectTo(c, "projects", "show", "id", fmt.Sprint(id))
}

// ownedProject mirrors ownedPost for the projects resource.
func (s *Server) ownedProject(c *fiber.Ctx, sess *session.Session) (project *models.Project, handled bool, err error) {
	id := queryUint(c, "id")
	if id == 0 {
		return nil, true, redirectTo(c, "projects", "index")
	}

	project, err = s.projectRepo.GetByID(c.Context(), id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		sess.Flash(session.FlashError, "Project not found.")
		return nil, true, redirectTo(c, "projects", "index")
	}
	if err != nil {
		return nil, false, err
	}

	if project.UserID != sess.UserID() {
		sess.Flash(session.FlashError, "You can only modify your own projects.")
		return nil, true, redirectTo(c, "projects", "show", "id", fmt.Sprint(project.ID))
	}

	return project, false, nil
}
