package docs

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func newDocs(t *testing.T) *Docs {
	t.Helper()
	d, err := New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return d
}

func TestHandleSpec(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/docs/openapi.yaml", nil)
	rec := httptest.NewRecorder()

	newDocs(t).HandleSpec(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/yaml" {
		t.Errorf("Content-Type = %q, want %q", ct, "application/yaml")
	}
	if !strings.HasPrefix(rec.Body.String(), "openapi:") {
		t.Error("body should start with 'openapi:'")
	}
}

func TestHandleManual(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/docs", nil)
	rec := httptest.NewRecorder()

	newDocs(t).HandleManual(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/plain") {
		t.Errorf("Content-Type = %q, want text/plain", ct)
	}
	body := rec.Body.String()
	for _, want := range []string{
		"termfolio API(1.0.0)",
		"GET /api/health",
		"POST /send-email",
		"429  Too many requests from this client",
		"/api/docs/openapi.yaml",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("manual missing %q:\n%s", want, body)
		}
	}
	if strings.Contains(body, "https://") {
		t.Error("manual should not load anything from another origin")
	}
}

func TestParseOrdersEndpointsAndStatuses(t *testing.T) {
	ref, err := Parse([]byte(`
info:
  title: demo
  version: "2"
paths:
  /b:
    post:
      summary: post b
      responses:
        "500": {description: broken}
        "200": {description: fine}
    get:
      summary: get b
  /a:
    get:
      summary: get a
`))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	var got []string
	for _, ep := range ref.Endpoints {
		got = append(got, ep.Method+" "+ep.Path)
	}
	if strings.Join(got, ",") != "GET /a,GET /b,POST /b" {
		t.Errorf("unexpected endpoint order: %v", got)
	}
	post := ref.Endpoints[2]
	if len(post.Responses) != 2 || post.Responses[0].Status != "200" || post.Responses[1].Description != "broken" {
		t.Errorf("unexpected responses: %+v", post.Responses)
	}
}

func TestParseRejectsDocumentWithoutPaths(t *testing.T) {
	if _, err := Parse([]byte("info:\n  title: empty\n")); err == nil {
		t.Error("expected error for a document without paths")
	}
	if _, err := Parse([]byte("paths: [")); err == nil {
		t.Error("expected error for malformed yaml")
	}
}

func TestSpecContainsAllEndpoints(t *testing.T) {
	spec := string(specYAML)
	for _, ep := range []string{"/api/health", "/send-email"} {
		if !strings.Contains(spec, ep) {
			t.Errorf("spec missing endpoint: %s", ep)
		}
	}
}

func TestSpecDocumentsReplyStatuses(t *testing.T) {
	spec := string(specYAML)
	for _, status := range []string{`"200"`, `"400"`, `"429"`, `"502"`} {
		if !strings.Contains(spec, status) {
			t.Errorf("spec missing response %s", status)
		}
	}
}
