package docs

import (
	"bytes"
	_ "embed"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"text/template"

	"gopkg.in/yaml.v3"
)

//go:embed openapi.yaml
var specYAML []byte

// Response is one documented status of an endpoint.
type Response struct {
	Status      string
	Description string
}

// Endpoint is one method on one path of the API.
type Endpoint struct {
	Method    string
	Path      string
	Summary   string
	Responses []Response
}

// Reference is the manual view of an OpenAPI document.
type Reference struct {
	Title       string
	Version     string
	Description string
	Endpoints   []Endpoint
}

type openAPI struct {
	Info struct {
		Title       string `yaml:"title"`
		Version     string `yaml:"version"`
		Description string `yaml:"description"`
	} `yaml:"info"`
	Paths map[string]map[string]struct {
		Summary   string `yaml:"summary"`
		Responses map[string]struct {
			Description string `yaml:"description"`
		} `yaml:"responses"`
	} `yaml:"paths"`
}

// Parse reads an OpenAPI document into a Reference sorted by path, method
// and status.
func Parse(spec []byte) (Reference, error) {
	var doc openAPI
	if err := yaml.Unmarshal(spec, &doc); err != nil {
		return Reference{}, fmt.Errorf("parse openapi document: %w", err)
	}
	if len(doc.Paths) == 0 {
		return Reference{}, fmt.Errorf("openapi document has no paths")
	}

	ref := Reference{
		Title:       doc.Info.Title,
		Version:     doc.Info.Version,
		Description: strings.TrimSpace(doc.Info.Description),
	}
	for path, ops := range doc.Paths {
		for method, op := range ops {
			ep := Endpoint{Method: strings.ToUpper(method), Path: path, Summary: op.Summary}
			for status, resp := range op.Responses {
				ep.Responses = append(ep.Responses, Response{Status: status, Description: resp.Description})
			}
			sort.Slice(ep.Responses, func(i, j int) bool { return ep.Responses[i].Status < ep.Responses[j].Status })
			ref.Endpoints = append(ref.Endpoints, ep)
		}
	}
	sort.Slice(ref.Endpoints, func(i, j int) bool {
		a, b := ref.Endpoints[i], ref.Endpoints[j]
		if a.Path != b.Path {
			return a.Path < b.Path
		}
		return a.Method < b.Method
	})
	return ref, nil
}

var manTemplate = template.Must(template.New("man").Parse(`{{.Title}}({{.Version}})

NAME
    {{.Title}} - {{.Description}}

ENDPOINTS
{{- range .Endpoints}}
    {{.Method}} {{.Path}}
        {{.Summary}}
{{- range .Responses}}
        {{printf "%-4s" .Status}} {{.Description}}
{{- end}}
{{end}}
SEE ALSO
    /api/docs/openapi.yaml
`))

// Docs serves the embedded OpenAPI document and a plain text manual
// rendered from it.
type Docs struct {
	manual []byte
}

func New() (*Docs, error) {
	ref, err := Parse(specYAML)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := manTemplate.Execute(&buf, ref); err != nil {
		return nil, fmt.Errorf("render manual: %w", err)
	}
	return &Docs{manual: buf.Bytes()}, nil
}

func (d *Docs) HandleSpec(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/yaml")
	_, _ = w.Write(specYAML)
}

func (d *Docs) HandleManual(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write(d.manual)
}
