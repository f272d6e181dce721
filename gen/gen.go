// Package gen generates adapters of API interfaces.
//
// An API interface is marked with a service directive. Its methods are
// marked with mapping directives and their parameters with param
// directives:
//
//	//restbind:service url=${posts.url} path=/v1
//	type PostsAPI interface {
//		//restbind:mapping method=GET path=/posts/{id} produces=application/json
//		//restbind:param id path
//		GetPost(ctx context.Context, id int64) (*Post, error)
//	}
//
// For every file declaring API interfaces, a file with suffix
// _restbind.go is generated. For PostsAPI it contains PostsAPIBinding
// (*restbind.ServiceBinding), a restbind.MethodID constant per method
// (PostsAPIGetPost) and PostsAPIClient implementing PostsAPI with
// restbind.Client.
//
// Every method must take context.Context first and return either error
// or a value and error. Embedded interfaces must be API interfaces of the
// same package.
package gen

import (
	"fmt"
	"go/ast"
	"go/token"
	"go/types"
	"path/filepath"
	"sort"
	"strings"

	"github.com/starius/restbind"
)

const restbindPath = "github.com/starius/restbind"

// File is a generated file.
type File struct {
	// Path of the file: the path of the source file with suffix
	// "_restbind.go" instead of ".go".
	Path    string
	Content []byte
}

type service struct {
	Name    string
	URLs    []string
	Paths   []string
	Methods []*method
	Embeds  []string

	file string
	pos  token.Position
}

type method struct {
	Service  string
	Name     string
	ID       restbind.MethodID
	Verbs    []string
	Paths    []string
	Headers  []string
	Consumes []string
	Produces []string
	Params   []*param
	Result   string

	// Import path to package name.
	imports map[string]string
}

type param struct {
	Name  string
	Var   string
	Type  string
	Roles []role
}

type role struct {
	Const    string
	Key      string
	Optional bool
}

// reservedVars are names used by generated method bodies.
var reservedVars = map[string]bool{
	"_": true, "c": true, "ctx": true, "out": true, "err": true,
	"context": true, "restbind": true,
}

// Generate generates adapters for API interfaces of pkg. files are the
// parsed files of pkg including comments.
func Generate(fset *token.FileSet, pkg *types.Package, files []*ast.File) ([]File, error) {
	var services []*service
	byName := make(map[string]*service)

	for _, file := range files {
		filename := fset.Position(file.Pos()).Filename
		if strings.HasSuffix(filename, "_restbind.go") {
			continue
		}
		for _, decl := range file.Decls {
			gd, ok := decl.(*ast.GenDecl)
			if !ok || gd.Tok != token.TYPE {
				continue
			}
			for _, spec := range gd.Specs {
				ts := spec.(*ast.TypeSpec)
				doc := ts.Doc
				if doc == nil && len(gd.Specs) == 1 {
					doc = gd.Doc
				}
				found := directives(doc, servicePrefix)
				if len(found) == 0 {
					continue
				}
				s, err := parseService(fset, pkg, ts, found)
				if err != nil {
					return nil, err
				}
				s.file = filename
				services = append(services, s)
				byName[s.Name] = s
			}
		}
	}

	for _, s := range services {
		for _, embed := range s.Embeds {
			if byName[embed] == nil {
				return nil, fmt.Errorf("%s: interface %s embeds %s which is not an API interface", s.pos, s.Name, embed)
			}
		}
	}

	var fileOrder []string
	byFile := make(map[string][]*service)
	for _, s := range services {
		if _, has := byFile[s.file]; !has {
			fileOrder = append(fileOrder, s.file)
		}
		byFile[s.file] = append(byFile[s.file], s)
	}

	var result []File
	for _, filename := range fileOrder {
		content, err := render(pkg.Name(), byFile[filename], byName)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", filename, err)
		}
		result = append(result, File{
			Path:    strings.TrimSuffix(filename, filepath.Ext(filename)) + "_restbind.go",
			Content: content,
		})
	}
	return result, nil
}

func parseService(fset *token.FileSet, pkg *types.Package, ts *ast.TypeSpec, found [][]string) (*service, error) {
	pos := fset.Position(ts.Pos())
	it, ok := ts.Type.(*ast.InterfaceType)
	if !ok {
		return nil, fmt.Errorf("%s: %s has service directive but is not an interface", pos, ts.Name.Name)
	}
	obj := pkg.Scope().Lookup(ts.Name.Name)
	if obj == nil {
		return nil, fmt.Errorf("%s: type %s not found", pos, ts.Name.Name)
	}
	iface, ok := obj.Type().Underlying().(*types.Interface)
	if !ok {
		return nil, fmt.Errorf("%s: %s is not an interface", pos, ts.Name.Name)
	}

	s := &service{
		Name: ts.Name.Name,
		pos:  pos,
	}
	for _, tokens := range found {
		kv, err := keyValues(tokens, "url", "path")
		if err != nil {
			return nil, fmt.Errorf("%s: service %s: %w", pos, s.Name, err)
		}
		s.URLs = append(s.URLs, kv["url"]...)
		s.Paths = append(s.Paths, kv["path"]...)
	}
	if len(s.URLs) != 1 {
		return nil, fmt.Errorf("%s: service %s must have exactly one url, got %d", pos, s.Name, len(s.URLs))
	}

	for _, field := range it.Methods.List {
		if len(field.Names) == 0 {
			ident, ok := field.Type.(*ast.Ident)
			if !ok {
				return nil, fmt.Errorf("%s: interface %s embeds %s which is not an API interface of this package", fset.Position(field.Pos()), s.Name, types.ExprString(field.Type))
			}
			s.Embeds = append(s.Embeds, ident.Name)
			continue
		}
		for _, name := range field.Names {
			fn := findMethod(iface, name.Name)
			if fn == nil {
				return nil, fmt.Errorf("%s: method %s not found in type info", fset.Position(name.Pos()), name.Name)
			}
			m, err := parseMethod(pkg, s.Name, fn, field.Doc)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", fset.Position(name.Pos()), err)
			}
			s.Methods = append(s.Methods, m)
		}
	}

	return s, nil
}

func findMethod(iface *types.Interface, name string) *types.Func {
	for i := 0; i < iface.NumExplicitMethods(); i++ {
		if fn := iface.ExplicitMethod(i); fn.Name() == name {
			return fn
		}
	}
	return nil
}

func parseMethod(pkg *types.Package, serviceName string, fn *types.Func, doc *ast.CommentGroup) (*method, error) {
	where := serviceName + "." + fn.Name()
	sig := fn.Type().(*types.Signature)
	if sig.Variadic() {
		return nil, fmt.Errorf("method %s is variadic", where)
	}

	params := sig.Params()
	if params.Len() == 0 || types.TypeString(params.At(0).Type(), nil) != "context.Context" {
		return nil, fmt.Errorf("method %s must take context.Context as the first parameter", where)
	}

	m := &method{
		Service: serviceName,
		Name:    fn.Name(),
		imports: make(map[string]string),
	}
	qualifier := nameQualifier(pkg, m.imports)

	results := sig.Results()
	switch {
	case results.Len() == 1 && isError(results.At(0).Type()):
	case results.Len() == 2 && isError(results.At(1).Type()):
		m.Result = types.TypeString(results.At(0).Type(), qualifier)
	default:
		return nil, fmt.Errorf("method %s must return error or (T, error)", where)
	}

	byName := make(map[string]*param)
	var paramTypes []string
	for i := 1; i < params.Len(); i++ {
		v := params.At(i)
		p := &param{
			Name: v.Name(),
			Var:  v.Name(),
			Type: types.TypeString(v.Type(), qualifier),
		}
		if p.Var == "" || reservedVars[p.Var] {
			p.Var = fmt.Sprintf("arg%d", i-1)
		}
		if p.Name != "" && p.Name != "_" {
			byName[p.Name] = p
		}
		m.Params = append(m.Params, p)
		paramTypes = append(paramTypes, p.Type)
	}
	m.ID = restbind.NewMethodID(m.Name, paramTypes...)

	for _, tokens := range directives(doc, mappingPrefix) {
		kv, err := keyValues(tokens, "method", "path", "header", "consumes", "produces")
		if err != nil {
			return nil, fmt.Errorf("method %s: %w", where, err)
		}
		m.Verbs = append(m.Verbs, kv["method"]...)
		m.Paths = append(m.Paths, kv["path"]...)
		m.Headers = append(m.Headers, kv["header"]...)
		m.Consumes = append(m.Consumes, kv["consumes"]...)
		m.Produces = append(m.Produces, kv["produces"]...)
	}

	for _, tokens := range directives(doc, paramPrefix) {
		name, roles, err := parseParamDirective(tokens)
		if err != nil {
			return nil, fmt.Errorf("method %s: %w", where, err)
		}
		p := byName[name]
		if p == nil {
			return nil, fmt.Errorf("method %s has no parameter %s", where, name)
		}
		p.Roles = append(p.Roles, roles...)
	}

	return m, nil
}

// nameQualifier qualifies types of other packages by package name and
// records their paths in imports.
func nameQualifier(pkg *types.Package, imports map[string]string) types.Qualifier {
	return func(p *types.Package) string {
		if p == pkg {
			return ""
		}
		imports[p.Path()] = p.Name()
		return p.Name()
	}
}

func isError(t types.Type) bool {
	return types.Identical(t, types.Universe.Lookup("error").Type())
}

// allMethods returns methods of s and of embedded services, skipping
// methods already seen.
func allMethods(s *service, byName map[string]*service) []*method {
	var result []*method
	seen := make(map[string]bool)
	visited := make(map[string]bool)
	var walk func(s *service)
	walk = func(s *service) {
		if visited[s.Name] {
			return
		}
		visited[s.Name] = true
		for _, m := range s.Methods {
			if seen[m.Name] {
				continue
			}
			seen[m.Name] = true
			result = append(result, m)
		}
		for _, embed := range s.Embeds {
			walk(byName[embed])
		}
	}
	walk(s)
	return result
}

type importSpec struct {
	Name string
	Path string
}

// collectImports returns imports needed by methods of services.
func collectImports(services []*service, byName map[string]*service) []importSpec {
	paths := map[string]string{
		restbindPath: "restbind",
	}
	for _, s := range services {
		for _, m := range allMethods(s, byName) {
			paths["context"] = "context"
			for path, name := range m.imports {
				paths[path] = name
			}
		}
	}

	result := make([]importSpec, 0, len(paths))
	for path, name := range paths {
		spec := importSpec{Path: path}
		if filepath.Base(path) != name {
			spec.Name = name
		}
		result = append(result, spec)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Path < result[j].Path
	})
	return result
}
