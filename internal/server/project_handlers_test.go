package server

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"gestufas/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestProject(t *testing.T, srv *Server, userID uint, title string, status models.ProjectStatus) *models.Project {
	t.Helper()
	project := &models.Project{
		Title:       title,
		Description: "A test project description of sufficient length.",
		Status:      status,
		UserID:      userID,
	}
	require.NoError(t, srv.db.Create(project).Error)
	return project
}

func TestProjectStoreValidation(t *testing.T) {
	srv := newTestServer(t)
	createTestUser(t, srv, "maker", "password123")
	cookie := login(t, srv, "maker", "password123")

	tests := []struct {
		name       string
		form       url.Values
		wantStored bool
		wantError  string
	}{
		{
			name: "valid project",
			form: url.Values{
				"title":          {"Greenhouse Monitor"},
				"description":    {"Tracks temperature and humidity in the greenhouse."},
				"repository_url": {"https://github.com/maker/greenhouse"},
				"live_url":       {"https://greenhouse.example.com"},
				"status":         {"active"},
			},
			wantStored: true,
		},
		{
			name: "relative repository URL",
			form: url.Values{
				"title":          {"Bad URL Project"},
				"description":    {"This project has a URL that is not absolute."},
				"repository_url": {"not-a-url"},
				"status":         {"active"},
			},
			wantError: "Invalid repository URL.",
		},
		{
			name: "ftp live URL",
			form: url.Values{
				"title":       {"FTP Project"},
				"description": {"Only http and https schemes are accepted."},
				"live_url":    {"ftp://files.example.com"},
				"status":      {"active"},
			},
			wantError: "Invalid live URL.",
		},
		{
			name: "unknown status",
			form: url.Values{
				"title":       {"Status Project"},
				"description": {"The status enum is closed."},
				"status":      {"abandoned"},
			},
			wantError: "Invalid status.",
		},
		{
			name: "missing description",
			form: url.Values{
				"title":  {"Empty Project"},
				"status": {"active"},
			},
			wantError: "Description is required.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := formRequest("/?c=projects&a=store", tt.form)
			req.AddCookie(cookie)
			resp, err := srv.App().Test(req, -1)
			require.NoError(t, err)

			if tt.wantStored {
				assert.Equal(t, http.StatusFound, resp.StatusCode)
				var count int64
				require.NoError(t, srv.db.Model(&models.Project{}).
					Where("title = ?", tt.form.Get("title")).Count(&count).Error)
				assert.EqualValues(t, 1, count)
			} else {
				assert.Equal(t, http.StatusOK, resp.StatusCode)
				assert.Contains(t, readBody(t, resp), tt.wantError)
			}
		})
	}
}

func TestProjectIndexFilters(t *testing.T) {
	srv := newTestServer(t)
	user := createTestUser(t, srv, "maker", "password123")
	createTestProject(t, srv, user.ID, "Greenhouse Monitor", models.ProjectStatusActive)
	createTestProject(t, srv, user.ID, "Weather Station", models.ProjectStatusCompleted)
	createTestProject(t, srv, user.ID, "Greenhouse Archive", models.ProjectStatusOnHold)
	cookie := login(t, srv, "maker", "password123")

	tests := []struct {
		name       string
		query      string
		wantTitles []string
		missTitles []string
	}{
		{
			name:       "no filter lists everything",
			query:      "",
			wantTitles: []string{"Greenhouse Monitor", "Weather Station", "Greenhouse Archive"},
		},
		{
			name:       "status filter",
			query:      "&status=completed",
			wantTitles: []string{"Weather Station"},
			missTitles: []string{"Greenhouse Monitor", "Greenhouse Archive"},
		},
		{
			name:       "search filter",
			query:      "&search=Greenhouse",
			wantTitles: []string{"Greenhouse Monitor", "Greenhouse Archive"},
			missTitles: []string{"Weather Station"},
		},
		{
			name:       "combined filters",
			query:      "&status=on_hold&search=Greenhouse",
			wantTitles: []string{"Greenhouse Archive"},
			missTitles: []string{"Greenhouse Monitor", "Weather Station"},
		},
		{
			name:       "unknown status ignored",
			query:      "&status=bogus",
			wantTitles: []string{"Greenhouse Monitor", "Weather Station", "Greenhouse Archive"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/?c=projects&a=index"+tt.query, nil)
			req.AddCookie(cookie)
			resp, err := srv.App().Test(req, -1)
			require.NoError(t, err)
			require.Equal(t, http.StatusOK, resp.StatusCode)

			body := readBody(t, resp)
			for _, title := range tt.wantTitles {
				assert.Contains(t, body, title)
			}
			for _, title := range tt.missTitles {
				assert.NotContains(t, body, title)
			}
		})
	}
}

func TestProjectListingRequiresLogin(t *testing.T) {
	srv := newTestServer(t)
	owner := createTestUser(t, srv, "maker", "password123")
	project := createTestProject(t, srv, owner.ID, "Members Project", models.ProjectStatusActive)

	targets := []string{
		"/?c=projects&a=index",
		fmt.Sprintf("/?c=projects&a=show&id=%d", project.ID),
	}
	for _, target := range targets {
		t.Run(target, func(t *testing.T) {
			resp, err := srv.App().Test(httptest.NewRequest(http.MethodGet, target, nil), -1)
			require.NoError(t, err)
			assert.Equal(t, http.StatusFound, resp.StatusCode)
			assert.Equal(t, "/?c=auth&a=login", resp.Header.Get("Location"))
		})
	}
}

func TestProjectShowMissingRedirects(t *testing.T) {
	srv := newTestServer(t)
	createTestUser(t, srv, "maker", "password123")
	cookie := login(t, srv, "maker", "password123")

	req := httptest.NewRequest(http.MethodGet, "/?c=projects&a=show&id=424242", nil)
	req.AddCookie(cookie)
	resp, err := srv.App().Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/?c=projects&a=index", resp.Header.Get("Location"))

	req = httptest.NewRequest(http.MethodGet, resp.Header.Get("Location"), nil)
	req.AddCookie(cookie)
	resp, err = srv.App().Test(req, -1)
	require.NoError(t, err)
	assert.Contains(t, readBody(t, resp), "Project not found.")
}

func TestProjectOwnershipOnDelete(t *testing.T) {
	srv := newTestServer(t)
	owner := createTestUser(t, srv, "owner", "password123")
	createTestUser(t, srv, "intruder", "password123")
	project := createTestProject(t, srv, owner.ID, "Guarded Project", models.ProjectStatusActive)

	cookie := login(t, srv, "intruder", "password123")
	req := formRequest(fmt.Sprintf("/?c=projects&a=delete&id=%d", project.ID), url.Values{})
	req.AddCookie(cookie)
	resp, err := srv.App().Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusFound, resp.StatusCode)

	var count int64
	require.NoError(t, srv.db.Model(&models.Project{}).Where("id = ?", project.ID).Count(&count).Error)
	assert.EqualValues(t, 1, count, "non-owner delete must not remove the project")
}

func TestProjectJoinIsPlaceholder(t *testing.T) {
	srv := newTestServer(t)
	owner := createTestUser(t, srv, "owner", "password123")
	createTestUser(t, srv, "joiner", "password123")
	project := createTestProject(t, srv, owner.ID, "Open Project", models.ProjectStatusActive)

	cookie := login(t, srv, "joiner", "password123")
	req := formRequest(fmt.Sprintf("/?c=projects&a=join&id=%d", project.ID), url.Values{})
	req.AddCookie(cookie)
	resp, err := srv.App().Test(req, -1)
	require.NoError(t, err)

	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, fmt.Sprintf("/?c=projects&a=show&id=%d", project.ID), resp.Header.Get("Location"))

	// The notice arrives as a flash on the next page view.
	req = httptest.NewRequest(http.MethodGet, resp.Header.Get("Location"), nil)
	req.AddCookie(cookie)
	resp, err = srv.App().Test(req, -1)
	require.NoError(t, err)
	assert.Contains(t, readBody(t, resp), "Joining projects is not available yet.")
}
