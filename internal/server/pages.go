package server

import (
	"errors"
	"io/fs"
	"log/slog"
	"net/http"

	"github.com/xurxxo/termfolio/internal/site"
)

// pageHandler serves one page of the site table as HTML.
func pageHandler(siteFS fs.FS, page site.Page) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		data, err := fs.ReadFile(siteFS, page.File)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				slog.Warn("page file missing", "route", page.Route, "file", page.File)
				http.NotFound(w, r)
				return
			}
			slog.Error("failed to read page", "route", page.Route, "error", err)
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Header().Set("Cache-Control", "no-cache")
		_, _ = w.Write(data)
	}
}

// staticHandler serves the static/ tree of siteFS. Directory listings are
// not exposed.
func staticHandler(siteFS fs.FS) http.Handler {
	files := http.FileServerFS(siteFS)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		info, err := fs.Stat(siteFS, r.URL.Path[1:])
		if err != nil || info.IsDir() {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Cache-Control", "public, max-age=3600")
		files.ServeHTTP(w, r)
	})
}
