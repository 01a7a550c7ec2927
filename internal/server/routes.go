package server

import (
	"gestufas/internal/router"

	"github.com/gofiber/fiber/v2"
)

// routeTable declares every dispatchable resource/action pair. Form pages
// accept GET and POST so the same URL renders the form and receives the
// submission; mutations that follow the POST-redirect-GET pattern are
// POST-only.
func (s *Server) routeTable() router.Table {
	return router.Table{
		Default: router.GET("home", "index"),
		Routes: map[string]map[string]router.Route{
			"home": {
				"index":     router.GET("home", "index"),
				"dashboard": router.GET("home", "dashboard"),
			},
			"auth": {
				"index":    router.GET("auth", "index"),
				"login":    router.GetOrPost("auth", "login"),
				"logout":   router.GET("auth", "logout"),
				"register": router.GetOrPost("auth", "register"),
			},
			"users": {
				"index":  router.GET("users", "index"),
				"show":   router.GET("users", "show"),
				"create": router.GET("users", "create"),
				"store":  router.POST("users", "store"),
				"edit":   router.GET("users", "edit"),
				"update": router.POST("users", "update"),
				"delete": router.POST("users", "delete"),
			},
			"community": {
				"index":   router.GET("community", "index"),
				"show":    router.GET("community", "show"),
				"create":  router.GetOrPost("community", "create"),
				"edit":    router.GET("community", "edit"),
				"update":  router.POST("community", "update"),
				"delete":  router.POST("community", "delete"),
				"comment": router.POST("community", "comment"),
			},
			"posts": {
				"index":   router.GET("posts", "index"),
				"show":    router.GET("posts", "show"),
				"create":  router.GetOrPost("posts", "create"),
				"store":   router.POST("posts", "store"),
				"edit":    router.GET("posts", "edit"),
				"update":  router.POST("posts", "update"),
				"delete":  router.POST("posts", "delete"),
				"comment": router.POST("posts", "comment"),
			},
			"projects": {
				"index":  router.GET("projects", "index"),
				"show":   router.GET("projects", "show"),
				"create": router.GET("projects", "create"),
				"store":  router.POST("projects", "store"),
				"edit":   router.GET("projects", "edit"),
				"update": router.POST("projects", "update"),
				"delete": router.POST("projects", "delete"),
				"join":   router.POST("projects", "join"),
				"leave":  router.POST("projects", "leave"),
			},
			"profile": {
				"index":    router.GET("profile", "index"),
				"edit":     router.GetOrPost("profile", "edit"),
				"posts":    router.GET("profile", "posts"),
				"projects": router.GET("profile", "projects"),
			},
			"comments": {
				"edit":   router.GET("comments", "edit"),
				"update": router.POST("comments", "update"),
				"delete": router.POST("comments", "delete"),
			},
			"api": {
				"token": router.POST("api", "token"),
				"users": router.GET("api", "users"),
				"posts": router.GET("api", "posts"),
				"stats": router.GET("api", "stats"),
			},
		},
	}
}

// registry binds controller/action names to handler methods. The dispatcher
// resolves the whole route table against it at startup, so a typo here or in
// routeTable fails before the server accepts traffic.
func (s *Server) registry() router.Registry {
	return router.Registry{
		"home": {
			"index":     s.HomeIndex,
			"dashboard": s.Dashboard,
		},
		"auth": {
			"index":    s.LoginForm,
			"login":    s.Login,
			"logout":   s.Logout,
			"register": s.Register,
		},
		"users": {
			"index":  s.UsersIndex,
			"show":   s.UsersShow,
			"create": s.UsersCreate,
			"store":  s.UsersStore,
			"edit":   s.UsersEdit,
			"update": s.UsersUpdate,
			"delete": s.UsersDelete,
		},
		"community": {
			"index":   s.postIndex("community"),
			"show":    s.postShow("community"),
			"create":  s.postCreateOrStore("community"),
			"edit":    s.postEdit("community"),
			"update":  s.postUpdate("community"),
			"delete":  s.postDelete("community"),
			"comment": s.postComment("community"),
		},
		"posts": {
			"index":   s.postIndex("posts"),
			"show":    s.postShow("posts"),
			"create":  s.postCreateOrStore("posts"),
			"store":   s.postStore("posts"),
			"edit":    s.postEdit("posts"),
			"update":  s.postUpdate("posts"),
			"delete":  s.postDelete("posts"),
			"comment": s.postComment("posts"),
		},
		"projects": {
			"index":  s.ProjectsIndex,
			"show":   s.ProjectsShow,
			"create": s.ProjectsCreate,
			"store":  s.ProjectsStore,
			"edit":   s.ProjectsEdit,
			"update": s.ProjectsUpdate,
			"delete": s.ProjectsDelete,
			"join":   s.ProjectsJoin,
			"leave":  s.ProjectsLeave,
		},
		"profile": {
			"index":    s.ProfileIndex,
			"edit":     s.ProfileEdit,
			"posts":    s.ProfilePosts,
			"projects": s.ProfileProjects,
		},
		"comments": {
			"edit":   s.CommentsEdit,
			"update": s.CommentsUpdate,
			"delete": s.CommentsDelete,
		},
		"api": {
			"token": s.APIToken,
			"users": s.APIUsers,
			"posts": s.APIPosts,
			"stats": s.APIStats,
		},
	}
}

// postCreateOrStore serves the combined create route: GET renders the form,
// POST stores the submission. Posts additionally keep a POST-only store
// action for clients that target it directly.
func (s *Server) postCreateOrStore(resource string) fiber.Handler {
	form := s.postCreateForm(resource)
	store := s.postStore(resource)
	return func(c *fiber.Ctx) error {
		if c.Method() == fiber.MethodPost {
			return store(c)
		}
		return form(c)
	}
}
