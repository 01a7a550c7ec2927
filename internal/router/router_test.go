package router

import (
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func noopHandler(c *fiber.Ctx) error { return nil }

func testRegistry() Registry {
	return Registry{
		"home": {
			"index": noopHandler,
		},
		"posts": {
			"index": noopHandler,
			"show":  noopHandler,
		},
	}
}

func TestNewResolvesValidTable(t *testing.T) {
	table := Table{
		Default: GET("home", "index"),
		Routes: map[string]map[string]Route{
			"posts": {
				"index": GET("posts", "index"),
				"show":  GetOrPost("posts", "show"),
			},
		},
	}

	d, err := New(table, testRegistry())
	require.NoError(t, err)
	assert.Equal(t, []string{"posts"}, d.Resources())
}

func TestNewRejectsBrokenConfiguration(t *testing.T) {
	tests := []struct {
		name    string
		table   Table
		wantErr string
	}{
		{
			name: "unknown controller",
			table: Table{
				Default: GET("home", "index"),
				Routes: map[string]map[string]Route{
					"posts": {"index": GET("ghosts", "index")},
				},
			},
			wantErr: `unknown controller "ghosts"`,
		},
		{
			name: "unknown action",
			table: Table{
				Default: GET("home", "index"),
				Routes: map[string]map[string]Route{
					"posts": {"index": GET("posts", "explode")},
				},
			},
			wantErr: `unknown action "explode"`,
		},
		{
			name: "broken default route",
			table: Table{
				Default: GET("missing", "index"),
			},
			wantErr: `unknown controller "missing"`,
		},
		{
			name: "route without methods",
			table: Table{
				Default: GET("home", "index"),
				Routes: map[string]map[string]Route{
					"posts": {"index": {Controller: "posts", Action: "index"}},
				},
			},
			wantErr: "no allowed methods",
		},
		{
			name: "unsupported method",
			table: Table{
				Default: GET("home", "index"),
				Routes: map[string]map[string]Route{
					"posts": {
						"index": {Methods: []string{"PATCH"}, Controller: "posts", Action: "index"},
					},
				},
			},
			wantErr: `unsupported method "PATCH"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.table, testRegistry())
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
