package gen

import (
	"bytes"
	"fmt"
	"go/format"
	"strconv"
	"strings"
	"text/template"
)

const adapterTemplate = `// Code generated by restbind-gen. DO NOT EDIT.

package {{.Package}}

import (
{{- range .Imports}}
	{{if .Name}}{{.Name}} {{end}}{{quote .Path}}
{{- end}}
)
{{range $s := .Services}}
// {{$s.Name}}Binding binds methods of {{$s.Name}} to HTTP requests.
var {{$s.Name}}Binding = &restbind.ServiceBinding{
	Name: {{quote $s.Name}},
	URL:  {{quote (index $s.URLs 0)}},
	{{- if $s.Paths}}
	Paths: {{strings $s.Paths}},
	{{- end}}
	Methods: []restbind.MethodBinding{
	{{- range $s.Methods}}
		{
			Name: {{quote .Name}},
			{{- if .Verbs}}
			Verbs: {{strings .Verbs}},
			{{- end}}
			{{- if .Paths}}
			Paths: {{strings .Paths}},
			{{- end}}
			{{- if .Headers}}
			Headers: {{strings .Headers}},
			{{- end}}
			{{- if .Consumes}}
			Consumes: {{strings .Consumes}},
			{{- end}}
			{{- if .Produces}}
			Produces: {{strings .Produces}},
			{{- end}}
			{{- if .Params}}
			Params: []restbind.ParamBinding{
			{{- range .Params}}
				{
					Name: {{quote .Name}},
					Type: {{quote .Type}},
					{{- if .Roles}}
					Roles: []restbind.RoleBinding{
					{{- range .Roles}}
						{Role: restbind.{{.Const}}{{if .Key}}, Name: {{quote .Key}}{{end}}{{if .Optional}}, Optional: true{{end}}},
					{{- end}}
					},
					{{- end}}
				},
			{{- end}}
			},
			{{- end}}
		},
	{{- end}}
	},
	{{- if $s.Embeds}}
	Embeds: []*restbind.ServiceBinding{
	{{- range $s.Embeds}}
		{{.}}Binding,
	{{- end}}
	},
	{{- end}}
}
{{if $s.Methods}}
const (
{{- range $s.Methods}}
	{{$s.Name}}{{.Name}} restbind.MethodID = {{quote (print .ID)}}
{{- end}}
)
{{end}}
// {{$s.Name}}Client implements {{$s.Name}} by sending HTTP requests.
type {{$s.Name}}Client struct {
	client *restbind.Client
}

var _ {{$s.Name}} = (*{{$s.Name}}Client)(nil)

// New{{$s.Name}}Client creates a client of {{$s.Name}}.
func New{{$s.Name}}Client(opts ...restbind.Option) (*{{$s.Name}}Client, error) {
	client, err := restbind.NewClient({{$s.Name}}Binding, opts...)
	if err != nil {
		return nil, err
	}
	return &{{$s.Name}}Client{client: client}, nil
}

// Close releases resources of the client.
func (c *{{$s.Name}}Client) Close() error {
	return c.client.Close()
}
{{range methods $s}}
func (c *{{$s.Name}}Client) {{.Name}}(ctx context.Context{{range .Params}}, {{.Var}} {{.Type}}{{end}}) {{if .Result}}({{.Result}}, error){{else}}error{{end}} {
	{{- if .Result}}
	var out {{.Result}}
	err := c.client.Call(ctx, {{.Service}}{{.Name}}, &out{{range .Params}}, {{.Var}}{{end}})
	return out, err
	{{- else}}
	return c.client.Call(ctx, {{.Service}}{{.Name}}, nil{{range .Params}}, {{.Var}}{{end}})
	{{- end}}
}
{{end}}
{{- end}}`

type templateData struct {
	Package  string
	Imports  []importSpec
	Services []*service
}

func render(pkgName string, services []*service, byName map[string]*service) ([]byte, error) {
	tmpl, err := template.New("adapter").Funcs(template.FuncMap{
		"quote": strconv.Quote,
		"strings": func(values []string) string {
			quoted := make([]string, len(values))
			for i, v := range values {
				quoted[i] = strconv.Quote(v)
			}
			return "[]string{" + strings.Join(quoted, ", ") + "}"
		},
		"methods": func(s *service) []*method {
			return allMethods(s, byName)
		},
	}).Parse(adapterTemplate)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	err = tmpl.Execute(&buf, templateData{
		Package:  pkgName,
		Imports:  collectImports(services, byName),
		Services: services,
	})
	if err != nil {
		return nil, err
	}

	formatted, err := format.Source(buf.Bytes())
	if err != nil {
		return nil, fmt.Errorf("failed to format generated code: %w\n%s", err, buf.String())
	}
	return formatted, nil
}
