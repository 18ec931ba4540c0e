package site

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
)

// Page is one routed page of the portfolio.
type Page struct {
	Route string
	File  string
	Title string
}

var Pages = []Page{
	{Route: "/", File: "index.html", Title: "Home"},
	{Route: "/whoami", File: "whoami.html", Title: "whoami"},
	{Route: "/ls", File: "ls.html", Title: "projects"},
	{Route: "/man", File: "man.html", Title: "man"},
	{Route: "/work", File: "work.html", Title: "workhistory"},
	{Route: "/studies", File: "studies.html", Title: "studies"},
}

// Lookup finds the page served at route.
func Lookup(route string) (Page, bool) {
	for _, p := range Pages {
		if p.Route == route {
			return p, true
		}
	}
	return Page{}, false
}

// ErrOutputOverlapsSite is returned by Export when the output directory is
// the site directory or one of its parents.
var ErrOutputOverlapsSite = errors.New("output directory overlaps the site directory")

// Export renders every page through handler into outDir and copies the
// static directory of siteFS next to them. siteDir is the on-disk location
// of siteFS, or "" when it has none. Pages are rendered into a staging
// directory first, and outDir is only replaced once every page rendered.
func Export(handler http.Handler, siteFS fs.FS, siteDir, outDir string) error {
	if err := checkOutput(siteDir, outDir); err != nil {
		return err
	}

	parent := filepath.Dir(filepath.Clean(outDir))
	if err := os.MkdirAll(parent, 0o755); err != nil {
		return fmt.Errorf("create output parent: %w", err)
	}
	staging, err := os.MkdirTemp(parent, ".export-*")
	if err != nil {
		return fmt.Errorf("create staging dir: %w", err)
	}
	defer func() { _ = os.RemoveAll(staging) }()

	if err := render(handler, siteFS, staging); err != nil {
		return err
	}

	if err := os.RemoveAll(outDir); err != nil {
		return fmt.Errorf("clear output dir: %w", err)
	}
	if err := os.Rename(staging, outDir); err != nil {
		return fmt.Errorf("move export into place: %w", err)
	}
	return os.Chmod(outDir, 0o755)
}

// checkOutput rejects an outDir whose removal would delete siteDir.
func checkOutput(siteDir, outDir string) error {
	if siteDir == "" {
		return nil
	}
	site, err := filepath.Abs(siteDir)
	if err != nil {
		return fmt.Errorf("resolve site dir: %w", err)
	}
	out, err := filepath.Abs(outDir)
	if err != nil {
		return fmt.Errorf("resolve output dir: %w", err)
	}
	rel, err := filepath.Rel(out, site)
	if err != nil {
		return nil
	}
	if rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))) {
		return fmt.Errorf("%w: %s contains %s", ErrOutputOverlapsSite, out, site)
	}
	return nil
}

func render(handler http.Handler, siteFS fs.FS, dir string) error {
	if siteFS != nil {
		if err := copyStatic(siteFS, dir); err != nil {
			return err
		}
	}

	for _, page := range Pages {
		req := httptest.NewRequest(http.MethodGet, page.Route, nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			return fmt.Errorf("render %s: status %d", page.Route, rec.Code)
		}
		if err := os.WriteFile(filepath.Join(dir, page.File), rec.Body.Bytes(), 0o644); err != nil {
			return fmt.Errorf("write %s: %w", page.File, err)
		}
	}
	return nil
}

func copyStatic(siteFS fs.FS, outDir string) error {
	if _, err := fs.Stat(siteFS, "static"); errors.Is(err, fs.ErrNotExist) {
		return nil
	}

	return fs.WalkDir(siteFS, "static", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		target := filepath.Join(outDir, filepath.FromSlash(path))
		if d.IsDir() {
			return os.MkdirAll(target, 0o755)
		}

		src, err := siteFS.Open(path)
		if err != nil {
			return fmt.Errorf("open %s: %w", path, err)
		}
		defer func() { _ = src.Close() }()

		dst, err := os.Create(target)
		if err != nil {
			return fmt.Errorf("create %s: %w", target, err)
		}
		if _, err := io.Copy(dst, src); err != nil {
			_ = dst.Close()
			return fmt.Errorf("copy %s: %w", path, err)
		}
		return dst.Close()
	})
}
