package restbind

import (
	"net/http"

	spec "github.com/getkin/kin-openapi/openapi3"
)

const defaultMediaType = "application/json"

// OpenAPI describes all methods of the table as an OpenAPI 3 document.
// Base URLs become servers. If methods of the table use different base
// URLs, every operation lists its own server.
func OpenAPI(t *Table) *spec.T {
	swag := &spec.T{
		OpenAPI: "3.0.0",
		Info: &spec.Info{
			Title:   "restbind",
			Version: "3.0.0",
		},
		Paths: spec.Paths{},
	}

	descriptors := t.Descriptors()
	var baseURLs []string
	seen := make(map[string]bool)
	for _, d := range descriptors {
		if !seen[d.BaseURL()] {
			seen[d.BaseURL()] = true
			baseURLs = append(baseURLs, d.BaseURL())
		}
	}
	for _, baseURL := range baseURLs {
		swag.AddServer(&spec.Server{URL: baseURL})
	}

	for _, d := range descriptors {
		op := describeOperation(d)
		if len(baseURLs) > 1 {
			op.Servers = &spec.Servers{{URL: d.BaseURL()}}
		}

		path := d.Path()
		if path == "" {
			path = "/"
		}
		p := swag.Paths.Find(path)
		if p == nil {
			p = &spec.PathItem{}
			swag.Paths[path] = p
		}
		p.SetOperation(d.Method(), op)
	}

	return swag
}

func describeOperation(d *Descriptor) *spec.Operation {
	op := spec.NewOperation()
	op.OperationID = string(d.ID())
	op.Tags = append(op.Tags, d.Service())

	headers := d.Headers()
	for _, name := range headers.Names() {
		if http.CanonicalHeaderKey(name) == "Content-Type" || http.CanonicalHeaderKey(name) == "Accept" {
			continue
		}
		var enum []interface{}
		for _, value := range headers.Values(name) {
			enum = append(enum, value)
		}
		op.AddParameter(spec.NewHeaderParameter(name).
			WithRequired(true).
			WithSchema(spec.NewStringSchema().WithEnum(enum...)))
	}

	for _, p := range d.Params() {
		switch p.Role {
		case PathVariable:
			op.AddParameter(spec.NewPathParameter(p.Name).
				WithSchema(spec.NewStringSchema()))
		case QueryParam:
			op.AddParameter(spec.NewQueryParameter(p.Name).
				WithRequired(p.Required).
				WithSchema(spec.NewStringSchema()))
		case Header:
			op.AddParameter(spec.NewHeaderParameter(p.Name).
				WithRequired(p.Required).
				WithSchema(spec.NewStringSchema()))
		case Body:
			contentType := orDefault(headers.Get("Content-Type"), defaultMediaType)
			body := spec.NewRequestBody().
				WithRequired(p.Required).
				WithContent(spec.NewContentWithSchema(spec.NewSchema(), []string{contentType}))
			op.RequestBody = &spec.RequestBodyRef{Value: body}
		}
	}

	accept := orDefault(headers.Get("Accept"), defaultMediaType)
	resp := spec.NewResponse().
		WithDescription("success").
		WithContent(spec.NewContentWithSchema(spec.NewSchema(), []string{accept}))
	op.Responses = spec.NewResponses()
	op.AddResponse(http.StatusOK, resp)

	return op
}
