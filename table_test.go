package restbind

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/starius/restbind/errors"
)

func ids(descriptors []*Descriptor) []MethodID {
	var result []MethodID
	for _, d := range descriptors {
		result = append(result, d.ID())
	}
	return result
}

func TestTable(t *testing.T) {
	base := &ServiceBinding{
		Name:  "BaseAPI",
		URL:   "http://base",
		Paths: []string{"/base"},
		Methods: []MethodBinding{
			{Name: "Ping", Paths: []string{"/ping"}},
		},
	}
	posts := &ServiceBinding{
		Name:  "PostsAPI",
		URL:   "http://posts",
		Paths: []string{"/v1"},
		Methods: []MethodBinding{
			{Name: "GetPost", Paths: []string{"/posts/{id}"}, Params: []ParamBinding{
				{Name: "id", Type: "int64", Roles: []RoleBinding{{Role: PathVariable}}},
			}},
			{Name: "GetPost", Paths: []string{"/posts/by-slug/{slug}"}, Params: []ParamBinding{
				{Name: "slug", Type: "string", Roles: []RoleBinding{{Role: PathVariable}}},
			}},
		},
		Embeds: []*ServiceBinding{base},
	}

	table, err := NewTable(NewParser(nil), posts)
	require.NoError(t, err)

	require.Equal(t, []MethodID{"GetPost(int64)", "GetPost(string)", "Ping()"}, ids(table.Descriptors()))

	d, err := table.Lookup("GetPost(string)")
	require.NoError(t, err)
	require.Equal(t, "/v1/posts/by-slug/{slug}", d.Path())

	// Embedded methods keep their own type-level bindings.
	ping, err := table.Lookup(NewMethodID("Ping"))
	require.NoError(t, err)
	require.Equal(t, "PostsAPI", d.Service())
	require.Equal(t, "BaseAPI", ping.Service())
	require.Equal(t, "http://base", ping.BaseURL())
	require.Equal(t, "/base/ping", ping.Path())

	_, err = table.Lookup("Missing()")
	require.True(t, errors.IsDispatch(err))

	descriptors := table.Descriptors()
	descriptors[0] = nil
	require.NotNil(t, table.Descriptors()[0])
}

func TestTableDiamond(t *testing.T) {
	base := &ServiceBinding{
		Name:    "BaseAPI",
		URL:     testURL,
		Methods: []MethodBinding{{Name: "Ping"}},
	}
	left := &ServiceBinding{Name: "Left", URL: testURL, Embeds: []*ServiceBinding{base}}
	right := &ServiceBinding{Name: "Right", URL: testURL, Embeds: []*ServiceBinding{base}}
	top := &ServiceBinding{Name: "Top", URL: testURL, Embeds: []*ServiceBinding{left, right}}

	table, err := NewTable(NewParser(nil), top)
	require.NoError(t, err)
	require.Equal(t, []MethodID{"Ping()"}, ids(table.Descriptors()))
}

func TestTableErrors(t *testing.T) {
	_, err := NewTable(NewParser(nil), nil)
	require.True(t, errors.IsConfiguration(err))

	duplicate := &ServiceBinding{
		Name: "API",
		URL:  testURL,
		Methods: []MethodBinding{
			{Name: "Get", Paths: []string{"/a"}},
			{Name: "Get", Paths: []string{"/b"}},
		},
	}
	_, err = NewTable(NewParser(nil), duplicate)
	require.True(t, errors.IsConfiguration(err))
	require.ErrorContains(t, err, "already declared")

	shadowed := &ServiceBinding{
		Name:    "API",
		URL:     testURL,
		Methods: []MethodBinding{{Name: "Get"}},
		Embeds: []*ServiceBinding{{
			Name:    "Base",
			URL:     testURL,
			Methods: []MethodBinding{{Name: "Get"}},
		}},
	}
	_, err = NewTable(NewParser(nil), shadowed)
	require.True(t, errors.IsConfiguration(err))

	broken := &ServiceBinding{
		Name:    "API",
		URL:     testURL,
		Methods: []MethodBinding{{Name: "Get"}},
		Embeds: []*ServiceBinding{{
			Name:    "Base",
			Methods: []MethodBinding{{Name: "Ping"}},
		}},
	}
	_, err = NewTable(NewParser(nil), broken)
	require.True(t, errors.IsConfiguration(err))
}
