// Package views embeds the html templates of the viewer pages.
package views

import "embed"

// FS holds layout.html plus the per-page and shared templates.
//
//go:embed *.html writing/*.html anonymous/*.html shared/*.html
var FS embed.FS
