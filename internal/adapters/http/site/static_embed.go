package site

import (
	"embed"
	"io/fs"
	"net/http"
)

//go:embed static/* templates/*
var staticFS embed.FS

// FS returns an http.FileSystem for the embedded static assets.
func FS() http.FileSystem {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		// Expose the unrooted FS on error.
		return http.FS(staticFS)
	}
	return http.FS(sub)
}
