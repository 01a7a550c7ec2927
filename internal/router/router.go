// Package router implements the front-controller dispatch core: a static
// route table keyed by resource prefix and action name, and a dispatcher that
// resolves `?c=<resource>&a=<action>` requests against it.
package router

import (
	"fmt"
	"sort"
	"strings"

	"github.com/gofiber/fiber/v2"
)

// Route describes one dispatchable endpoint: the HTTP methods it accepts and
// the controller/action pair that handles it. Controller and action are keys
// into the Registry, resolved once at startup.
type Route struct {
	Methods    []string
	Controller string
	Action     string
}

// GET builds a GET-only route.
func GET(controller, action string) Route {
	return Route{Methods: []string{fiber.MethodGet}, Controller: controller, Action: action}
}

// POST builds a POST-only route.
func POST(controller, action string) Route {
	return Route{Methods: []string{fiber.MethodPost}, Controller: controller, Action: action}
}

// GetOrPost builds a route accepting both GET and POST, used for form pages
// that render on GET and submit to themselves on POST.
func GetOrPost(controller, action string) Route {
	return Route{Methods: []string{fiber.MethodGet, fiber.MethodPost}, Controller: controller, Action: action}
}

// Table is the static route configuration: a default route for requests with
// no resource/action parameters, and a two-level resource -> action map.
type Table struct {
	Default Route
	Routes  map[string]map[string]Route
}

// Registry maps controller names to their named actions. It is the typed
// replacement for string-based reflection dispatch: every route must resolve
// against it at startup, so a route pointing at a nonexistent controller or
// action fails deployment rather than the first request.
type Registry map[string]map[string]fiber.Handler

type resolved struct {
	methods []string
	handler fiber.Handler
}

// Dispatcher routes requests through the table. Construct with New.
type Dispatcher struct {
	defaultRoute resolved
	routes       map[string]map[string]resolved
}

// New validates the table against the registry and returns a dispatcher.
// Any route referencing an unregistered controller or action is a
// configuration error and aborts startup.
func New(table Table, registry Registry) (*Dispatcher, error) {
	d := &Dispatcher{routes: make(map[string]map[string]resolved)}

	def, err := resolve(registry, "default", table.Default)
	if err != nil {
		return nil, err
	}
	d.defaultRoute = def

	for resource, actions := range table.Routes {
		d.routes[resource] = make(map[string]resolved, len(actions))
		for action, route := range actions {
			r, err := resolve(registry, resource+"/"+action, route)
			if err != nil {
				return nil, err
			}
			d.routes[resource][action] = r
		}
	}

	return d, nil
}

func resolve(registry Registry, name string, route Route) (resolved, error) {
	if len(route.Methods) == 0 {
		return resolved{}, fmt.Errorf("route %q has no allowed methods", name)
	}
	for _, m := range route.Methods {
		switch m {
		case fiber.MethodGet, fiber.MethodPost, fiber.MethodPut, fiber.MethodDelete:
		default:
			return resolved{}, fmt.Errorf("route %q has unsupported method %q", name, m)
		}
	}

	actions, ok := registry[route.Controller]
	if !ok {
		return resolved{}, fmt.Errorf("route %q references unknown controller %q", name, route.Controller)
	}
	handler, ok := actions[route.Action]
	if !ok || handler == nil {
		return resolved{}, fmt.Errorf("route %q references unknown action %q on controller %q",
			name, route.Action, route.Controller)
	}

	return resolved{methods: route.Methods, handler: handler}, nil
}

// Handler returns the fiber handler implementing the dispatch state machine:
// resolve the resource/action pair, enforce the method allow-list, invoke.
func (d *Dispatcher) Handler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		resource := c.Query("c")
		action := c.Query("a")

		var route resolved
		if resource == "" && action == "" {
			route = d.defaultRoute
		} else {
			actions, ok := d.routes[resource]
			if ok {
				route, ok = actions[action]
			}
			if !ok {
				return c.Status(fiber.StatusNotFound).SendString("Page not found")
			}
		}

		allowed := false
		for _, m := range route.methods {
			if c.Method() == m {
				allowed = true
				break
			}
		}
		if !allowed {
			c.Set(fiber.HeaderAllow, strings.Join(route.methods, ", "))
			return c.Status(fiber.StatusMethodNotAllowed).SendString("Method not allowed")
		}

		return route.handler(c)
	}
}

// Resources returns the sorted resource prefixes known to the dispatcher.
func (d *Dispatcher) Resources() []string {
	out := make([]string, 0, len(d.routes))
	for resource := range d.routes {
		out = append(out, resource)
	}
	sort.Strings(out)
	return out
}
