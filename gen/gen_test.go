package gen

import (
	"go/ast"
	"go/importer"
	"go/parser"
	"go/token"
	"go/types"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func check(t *testing.T, sources map[string]string) (*token.FileSet, *types.Package, []*ast.File) {
	t.Helper()
	fset := token.NewFileSet()
	var files []*ast.File
	for name, src := range sources {
		file, err := parser.ParseFile(fset, name, src, parser.ParseComments)
		require.NoError(t, err)
		files = append(files, file)
	}
	conf := types.Config{Importer: importer.ForCompiler(fset, "source", nil)}
	pkg, err := conf.Check("example.com/posts", fset, files, nil)
	require.NoError(t, err)
	return fset, pkg, files
}

const postsSource = `package posts

import (
	"context"
	"time"
)

type Post struct {
	ID    int64  ` + "`json:\"id\"`" + `
	Title string ` + "`json:\"title\"`" + `
}

//restbind:service url=${base.url}
type BaseAPI interface {
	//restbind:mapping method=GET path=/ping
	Ping(ctx context.Context) error
}

// PostsAPI is an API of posts.
//
//restbind:service url=${posts.url} path=/v1
type PostsAPI interface {
	BaseAPI

	//restbind:mapping method=GET path=/posts/{postId} produces=application/json
	//restbind:param id path=postId
	GetPost(ctx context.Context, id int64) (*Post, error)

	//restbind:mapping method=POST path=/posts consumes=application/json header=X-Api=1
	//restbind:param post body
	//restbind:param timeout header=X-Timeout optional
	CreatePost(ctx context.Context, post *Post, timeout *time.Duration) (*Post, error)

	//restbind:mapping method=GET path=/posts
	//restbind:param c query=userId
	ListPosts(ctx context.Context, c int64, unbound string) ([]Post, error)
}

type NotAnAPI interface {
	Foo()
}
`

func TestGenerate(t *testing.T) {
	fset, pkg, files := check(t, map[string]string{"posts.go": postsSource})

	generated, err := Generate(fset, pkg, files)
	require.NoError(t, err)
	require.Len(t, generated, 1)
	require.Equal(t, "posts_restbind.go", generated[0].Path)

	code := string(generated[0].Content)

	_, err = parser.ParseFile(token.NewFileSet(), "posts_restbind.go", code, 0)
	require.NoError(t, err, code)

	for _, want := range []string{
		"// Code generated by restbind-gen. DO NOT EDIT.",
		`"context"`,
		`"github.com/starius/restbind"`,
		`"time"`,
		"var BaseAPIBinding = &restbind.ServiceBinding{",
		`URL:  "${base.url}",`,
		"var PostsAPIBinding = &restbind.ServiceBinding{",
		`Paths: []string{"/v1"},`,
		`Paths:    []string{"/posts/{postId}"},`,
		`Produces: []string{"application/json"},`,
		`Headers:  []string{"X-Api=1"},`,
		`{Role: restbind.PathVariable, Name: "postId"},`,
		`{Role: restbind.Body},`,
		`{Role: restbind.Header, Name: "X-Timeout", Optional: true},`,
		`{Role: restbind.QueryParam, Name: "userId"},`,
		`Type: "*time.Duration",`,
		"BaseAPIBinding,",
		`BaseAPIPing restbind.MethodID = "Ping()"`,
		`PostsAPIGetPost    restbind.MethodID = "GetPost(int64)"`,
		`PostsAPICreatePost restbind.MethodID = "CreatePost(*Post,*time.Duration)"`,
		`PostsAPIListPosts  restbind.MethodID = "ListPosts(int64,string)"`,
		"var _ PostsAPI = (*PostsAPIClient)(nil)",
		"func NewPostsAPIClient(opts ...restbind.Option) (*PostsAPIClient, error) {",
		"func (c *PostsAPIClient) GetPost(ctx context.Context, id int64) (*Post, error) {",
		"err := c.client.Call(ctx, PostsAPIGetPost, &out, id)",
		"func (c *PostsAPIClient) ListPosts(ctx context.Context, arg0 int64, unbound string) ([]Post, error) {",
		"func (c *PostsAPIClient) Ping(ctx context.Context) error {",
		"return c.client.Call(ctx, BaseAPIPing, nil)",
	} {
		require.Contains(t, code, want)
	}

	require.NotContains(t, code, "NotAnAPI")
	require.Equal(t, 1, strings.Count(code, "func (c *PostsAPIClient) Ping("))
}

func TestGenerateSkipsGeneratedFiles(t *testing.T) {
	fset, pkg, files := check(t, map[string]string{
		"posts.go": postsSource,
		"extra_restbind.go": `package posts

//restbind:service url=http://example.com
type Ignored interface{}
`,
	})

	generated, err := Generate(fset, pkg, files)
	require.NoError(t, err)
	require.Len(t, generated, 1)
	require.NotContains(t, string(generated[0].Content), "Ignored")
}

func TestGenerateErrors(t *testing.T) {
	cases := []struct {
		name    string
		source  string
		wantErr string
	}{
		{
			name: "no context",
			source: `package posts
//restbind:service url=http://example.com
type API interface {
	Get(id int64) error
}`,
			wantErr: "context.Context",
		},
		{
			name: "bad results",
			source: `package posts
import "context"
//restbind:service url=http://example.com
type API interface {
	Get(ctx context.Context) (int, int)
}`,
			wantErr: "must return",
		},
		{
			name: "unknown parameter",
			source: `package posts
import "context"
//restbind:service url=http://example.com
type API interface {
	//restbind:param id path
	Get(ctx context.Context, key string) error
}`,
			wantErr: "has no parameter id",
		},
		{
			name: "unknown role",
			source: `package posts
import "context"
//restbind:service url=http://example.com
type API interface {
	//restbind:param key cookie
	Get(ctx context.Context, key string) error
}`,
			wantErr: `unknown role "cookie"`,
		},
		{
			name: "unknown mapping key",
			source: `package posts
import "context"
//restbind:service url=http://example.com
type API interface {
	//restbind:mapping verb=GET
	Get(ctx context.Context) error
}`,
			wantErr: `unknown key "verb"`,
		},
		{
			name: "no url",
			source: `package posts
//restbind:service path=/v1
type API interface {}`,
			wantErr: "exactly one url",
		},
		{
			name: "not an interface",
			source: `package posts
//restbind:service url=http://example.com
type API struct {}`,
			wantErr: "not an interface",
		},
		{
			name: "embeds plain interface",
			source: `package posts
type Plain interface {}
//restbind:service url=http://example.com
type API interface {
	Plain
}`,
			wantErr: "embeds Plain",
		},
		{
			name: "variadic",
			source: `package posts
import "context"
//restbind:service url=http://example.com
type API interface {
	Get(ctx context.Context, ids ...int) error
}`,
			wantErr: "variadic",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			fset, pkg, files := check(t, map[string]string{"api.go": tc.source})
			_, err := Generate(fset, pkg, files)
			require.ErrorContains(t, err, tc.wantErr)
		})
	}
}

func TestParseParamDirective(t *testing.T) {
	name, roles, err := parseParamDirective([]string{"id", "path=postId", "optional"})
	require.NoError(t, err)
	require.Equal(t, "id", name)
	require.Equal(t, []role{{Const: "PathVariable", Key: "postId", Optional: true}}, roles)

	_, _, err = parseParamDirective([]string{"id"})
	require.Error(t, err)

	_, _, err = parseParamDirective([]string{"id", "optional"})
	require.Error(t, err)
}

func TestDirectives(t *testing.T) {
	doc := &ast.CommentGroup{List: []*ast.Comment{
		{Text: "// Doc."},
		{Text: "//restbind:mapping method=GET header=A=b=c"},
		{Text: "//restbind:mappings method=POST"},
	}}
	found := directives(doc, mappingPrefix)
	require.Equal(t, [][]string{{"method=GET", "header=A=b=c"}}, found)

	kv, err := keyValues(found[0], "method", "header")
	require.NoError(t, err)
	require.Equal(t, map[string][]string{"method": {"GET"}, "header": {"A=b=c"}}, kv)
}
