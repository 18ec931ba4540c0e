package site

import (
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"
)

func TestLookup(t *testing.T) {
	page, ok := Lookup("/work")
	if !ok {
		t.Fatal("expected /work to be a page")
	}
	if page.File != "work.html" || page.Title != "workhistory" {
		t.Errorf("unexpected page: %+v", page)
	}

	if _, ok := Lookup("/missing"); ok {
		t.Error("expected /missing to be unknown")
	}
}

func TestExportWritesEveryPageAndStaticFiles(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("<html>" + r.URL.Path + "</html>"))
	})
	siteFS := fstest.MapFS{
		"static/js/unzip.js": {Data: []byte("// js")},
		"static/css/app.css": {Data: []byte("body{}")},
	}
	out := filepath.Join(t.TempDir(), "dist")

	if err := Export(handler, siteFS, "", out); err != nil {
		t.Fatalf("export failed: %v", err)
	}

	for _, page := range Pages {
		data, err := os.ReadFile(filepath.Join(out, page.File))
		if err != nil {
			t.Fatalf("read %s: %v", page.File, err)
		}
		if string(data) != "<html>"+page.Route+"</html>" {
			t.Errorf("unexpected content for %s: %q", page.File, data)
		}
	}
	if _, err := os.Stat(filepath.Join(out, "static", "js", "unzip.js")); err != nil {
		t.Errorf("expected static file to be copied: %v", err)
	}
}

func TestExportFailsOnErrorStatus(t *testing.T) {
	handler := http.NotFoundHandler()
	if err := Export(handler, nil, "", filepath.Join(t.TempDir(), "dist")); err == nil {
		t.Fatal("expected error when a page does not render")
	}
}

func writeSiteDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	for _, page := range Pages {
		if err := os.WriteFile(filepath.Join(dir, page.File), []byte("<html>"+page.Title+"</html>"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

func TestExportRefusesToOverwriteSite(t *testing.T) {
	dir := writeSiteDir(t)
	handler := http.FileServerFS(os.DirFS(dir))

	for _, out := range []string{dir, filepath.Dir(dir)} {
		err := Export(handler, os.DirFS(dir), dir, out)
		if !errors.Is(err, ErrOutputOverlapsSite) {
			t.Errorf("Export to %s: expected ErrOutputOverlapsSite, got %v", out, err)
		}
	}

	data, err := os.ReadFile(filepath.Join(dir, "index.html"))
	if err != nil {
		t.Fatalf("site page was removed: %v", err)
	}
	if string(data) != "<html>Home</html>" {
		t.Errorf("site page was modified: %q", data)
	}
}

func TestExportAllowsOutputInsideOrBesideSite(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("ok"))
	})
	dir := writeSiteDir(t)

	for _, out := range []string{filepath.Join(dir, "dist"), dir + "-dist"} {
		if err := Export(handler, nil, dir, out); err != nil {
			t.Errorf("Export to %s: unexpected error %v", out, err)
		}
		t.Cleanup(func() { _ = os.RemoveAll(out) })
	}
}

func TestExportFailureKeepsPreviousOutput(t *testing.T) {
	out := filepath.Join(t.TempDir(), "dist")
	if err := os.MkdirAll(out, 0o755); err != nil {
		t.Fatal(err)
	}
	previous := filepath.Join(out, "index.html")
	if err := os.WriteFile(previous, []byte("old"), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := Export(http.NotFoundHandler(), nil, "", out); err == nil {
		t.Fatal("expected error when a page does not render")
	}

	data, err := os.ReadFile(previous)
	if err != nil || string(data) != "old" {
		t.Errorf("expected previous export to survive, got %q, %v", data, err)
	}
	entries, _ := os.ReadDir(filepath.Dir(out))
	if len(entries) != 1 {
		t.Errorf("expected staging dir to be cleaned up, found %d entries", len(entries))
	}
}

func TestExportReplacesPreviousOutput(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("new"))
	})
	out := filepath.Join(t.TempDir(), "dist")
	if err := os.MkdirAll(out, 0o755); err != nil {
		t.Fatal(err)
	}
	stale := filepath.Join(out, "stale.html")
	if err := os.WriteFile(stale, []byte("stale"), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := Export(handler, nil, "", out); err != nil {
		t.Fatalf("export failed: %v", err)
	}
	if _, err := os.Stat(stale); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected stale file to be removed, got %v", err)
	}
	info, err := os.Stat(out)
	if err != nil || info.Mode().Perm() != 0o755 {
		t.Errorf("expected output dir with mode 0755, got %v, %v", info, err)
	}
}
