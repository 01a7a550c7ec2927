// Package views embeds the HTML templates rendered by the controllers.
package views

import "embed"

// FS holds the layout and per-resource template directories.
//
//go:embed layouts auth home posts profile projects users comments
var FS embed.FS
