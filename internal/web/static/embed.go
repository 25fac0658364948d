// Package static embeds the browser preview page.
package static

import "embed"

//go:embed all:dist/*
var distFS embed.FS

// Index returns the preview page.
func Index() ([]byte, error) {
	return distFS.ReadFile("dist/index.html")
}
