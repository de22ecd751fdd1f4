package schemarules_test

import (
	"io"
	"log/slog"
	"testing"
	"testing/fstest"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/google/go-cmp/cmp"

	schemarules "github.com/goliatone/go-schemarules"
	"github.com/goliatone/go-schemarules/pkg/bindings"
)

const articlesDocument = `
openapi: 3.0.3
info:
  title: Articles
  version: 1.0.0
paths:
  /articles:
    get:
      operationId: listArticles
      parameters:
        - name: title
          in: query
          schema:
            type: string
      responses:
        '200':
          description: ok
components:
  schemas:
    Article:
      type: object
      properties:
        title:
          type: string
        rating:
          type: number
`

type article struct {
	Title  string  `json:"title"`
	Rating float64 `json:"rating"`
}

func loadDocument(t *testing.T) *openapi3.T {
	t.Helper()
	loader := &openapi3.Loader{}
	doc, err := loader.LoadFromData([]byte(articlesDocument))
	if err != nil {
		t.Fatalf("load document: %v", err)
	}
	return doc
}

func newTestEngine() *schemarules.Engine {
	registry := schemarules.NewRegistry()
	rs := schemarules.NewRuleSet()
	rs.For("Title").NotEmpty().MaxLength(80).
		For("Rating").Between(1, 5)
	registry.Register(article{}, rs)

	return schemarules.New(
		schemarules.WithRegistry(registry),
		schemarules.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
	)
}

func TestAnnotateComponents(t *testing.T) {
	doc := loadDocument(t)
	eng := newTestEngine()

	diags := schemarules.AnnotateComponents(doc, eng, map[string]any{"Article": article{}})
	if diags.HasWarnings() {
		t.Fatalf("unexpected warnings: %#v", diags)
	}

	schema := doc.Components.Schemas["Article"].Value
	if diff := cmp.Diff([]string{"title"}, schema.Required); diff != "" {
		t.Fatalf("required set (-want +got):\n%s", diff)
	}
	title := schema.Properties["title"].Value
	if title.MaxLength == nil || *title.MaxLength != 80 {
		t.Fatalf("title maxLength = %v, want 80", title.MaxLength)
	}
	rating := schema.Properties["rating"].Value
	if rating.Min == nil || *rating.Min != 1 || rating.Max == nil || *rating.Max != 5 {
		t.Fatalf("rating bounds: min=%v max=%v", rating.Min, rating.Max)
	}
}

func TestAnnotateComponents_UnmappedComponentUntouched(t *testing.T) {
	doc := loadDocument(t)
	eng := newTestEngine()

	diags := schemarules.AnnotateComponents(doc, eng, nil)
	if len(diags) != 0 {
		t.Fatalf("nothing mapped, expected no diagnostics: %#v", diags)
	}
	if got := doc.Components.Schemas["Article"].Value.Required; len(got) != 0 {
		t.Fatalf("component must stay untouched, got required=%v", got)
	}
}

func TestAnnotateOperations(t *testing.T) {
	doc := loadDocument(t)
	eng := newTestEngine()

	diags := schemarules.AnnotateOperations(doc, eng, map[string]any{"listArticles": article{}})
	if diags.HasWarnings() {
		t.Fatalf("unexpected warnings: %#v", diags)
	}

	op := doc.Paths.Find("/articles").Get
	param := op.Parameters[0].Value
	if !param.Required {
		t.Fatalf("title parameter should be required")
	}
	if param.Schema.Value.MaxLength == nil || *param.Schema.Value.MaxLength != 80 {
		t.Fatalf("title parameter maxLength = %v, want 80", param.Schema.Value.MaxLength)
	}
}

func TestAnnotateDocument_WithBindings(t *testing.T) {
	doc := loadDocument(t)
	eng := newTestEngine()

	store, err := bindings.LoadFS(fstest.MapFS{
		"bindings.yaml": {Data: []byte(`
components:
  Article: article
operations:
  listArticles: article
`)},
	})
	if err != nil {
		t.Fatalf("load bindings: %v", err)
	}

	diags := schemarules.AnnotateDocument(doc, eng, store, map[string]any{"article": article{}})
	if diags.HasWarnings() {
		t.Fatalf("unexpected warnings: %#v", diags)
	}

	schema := doc.Components.Schemas["Article"].Value
	if diff := cmp.Diff([]string{"title"}, schema.Required); diff != "" {
		t.Fatalf("required set (-want +got):\n%s", diff)
	}
	param := doc.Paths.Find("/articles").Get.Parameters[0].Value
	if !param.Required {
		t.Fatalf("bindings should drive parameter annotation too")
	}
}

func TestDefaultCatalog_IsOverridable(t *testing.T) {
	catalog := schemarules.DefaultCatalog()
	merged := catalog.Override(schemarules.Rule{
		Name:    "custom",
		Matches: func(schemarules.FieldRule) bool { return false },
		Apply:   func(*schemarules.Context) error { return nil },
	})
	if len(merged) != len(catalog)+1 {
		t.Fatalf("expected custom rule appended: %v", merged.Names())
	}
}
