package restbind_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/starius/restbind"
	"github.com/starius/restbind/errors"
	"github.com/starius/restbind/placeholder"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type Post struct {
	ID    int64  `json:"id,omitempty"`
	Title string `json:"title" validate:"required"`
}

var (
	getPost    = restbind.NewMethodID("GetPost", "int64", "string")
	createPost = restbind.NewMethodID("CreatePost", "*Post", "bool")
	sendNote   = restbind.NewMethodID("SendNote", "string")
	ping       = restbind.NewMethodID("Ping")
)

var postsBinding = &restbind.ServiceBinding{
	Name:  "PostsAPI",
	URL:   "${posts.url}",
	Paths: []string{"/v1"},
	Methods: []restbind.MethodBinding{
		{
			Name:     "GetPost",
			Paths:    []string{"/posts/{id}"},
			Produces: []string{"application/json"},
			Params: []restbind.ParamBinding{
				{Name: "id", Type: "int64", Roles: []restbind.RoleBinding{{Role: restbind.PathVariable}}},
				{Name: "trace", Type: "string", Roles: []restbind.RoleBinding{{Role: restbind.Header, Name: "X-Trace", Optional: true}}},
			},
		},
		{
			Name:     "CreatePost",
			Verbs:    []string{"POST"},
			Paths:    []string{"/posts"},
			Consumes: []string{"application/json"},
			Produces: []string{"application/json"},
			Headers:  []string{"X-Api=${api.version:1}"},
			Params: []restbind.ParamBinding{
				{Name: "post", Type: "*Post", Roles: []restbind.RoleBinding{{Role: restbind.Body}}},
				{Name: "draft", Type: "bool", Roles: []restbind.RoleBinding{{Role: restbind.QueryParam}}},
			},
		},
		{
			Name:  "SendNote",
			Verbs: []string{"PUT"},
			Paths: []string{"/notes"},
			Params: []restbind.ParamBinding{
				{Name: "note", Type: "string", Roles: []restbind.RoleBinding{{Role: restbind.Body}}},
			},
		},
	},
	Embeds: []*restbind.ServiceBinding{{
		Name:    "HealthAPI",
		URL:     "${posts.url}",
		Methods: []restbind.MethodBinding{{Name: "Ping", Paths: []string{"/ping"}}},
	}},
}

type capturedRequest struct {
	method string
	uri    string
	header http.Header
	body   string
}

func postsServer(t *testing.T) (*httptest.Server, <-chan capturedRequest) {
	t.Helper()
	requests := make(chan capturedRequest, 10)
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		requests <- capturedRequest{
			method: r.Method,
			uri:    r.URL.RequestURI(),
			header: r.Header.Clone(),
			body:   string(body),
		}
		switch {
		case r.URL.Path == "/v1/posts/404":
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"error":"post not found"}`))
		case strings.HasPrefix(r.URL.Path, "/v1/posts/"):
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"id":1,"title":"first"}`))
		case r.URL.Path == "/v1/posts":
			var post Post
			if err := json.Unmarshal(body, &post); err != nil {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			post.ID = 101
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusCreated)
			_ = json.NewEncoder(w).Encode(post)
		default:
			w.WriteHeader(http.StatusNoContent)
		}
	})
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return server, requests
}

func newPostsClient(t *testing.T, server *httptest.Server, opts ...restbind.Option) *restbind.Client {
	t.Helper()
	resolver := placeholder.New(placeholder.Map{"posts.url": server.URL})
	opts = append([]restbind.Option{restbind.WithResolver(resolver)}, opts...)
	client, err := restbind.NewClient(postsBinding, opts...)
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, client.Close())
	})
	return client
}

func TestClient(t *testing.T) {
	server, requests := postsServer(t)
	client := newPostsClient(t, server)
	ctx := context.Background()

	var post *Post
	require.NoError(t, client.Call(ctx, getPost, &post, int64(1), "abc"))
	require.Equal(t, &Post{ID: 1, Title: "first"}, post)
	req := <-requests
	require.Equal(t, http.MethodGet, req.method)
	require.Equal(t, "/v1/posts/1", req.uri)
	require.Equal(t, "application/json", req.header.Get("Accept"))
	require.Equal(t, "abc", req.header.Get("X-Trace"))

	require.NoError(t, client.Call(ctx, getPost, &post, int64(2), nil))
	req = <-requests
	require.Equal(t, "/v1/posts/2", req.uri)
	require.NotContains(t, req.header, "X-Trace")

	var created Post
	require.NoError(t, client.Call(ctx, createPost, &created, &Post{Title: "new"}, true))
	require.Equal(t, Post{ID: 101, Title: "new"}, created)
	req = <-requests
	require.Equal(t, http.MethodPost, req.method)
	require.Equal(t, "/v1/posts?draft=true", req.uri)
	require.Equal(t, "application/json", req.header.Get("Content-Type"))
	require.Equal(t, "1", req.header.Get("X-Api"))
	require.JSONEq(t, `{"title":"new"}`, req.body)

	require.NoError(t, client.Call(ctx, sendNote, nil, "remember"))
	req = <-requests
	require.Equal(t, http.MethodPut, req.method)
	require.Equal(t, "text/plain; charset=utf-8", req.header.Get("Content-Type"))
	require.Equal(t, "remember", req.body)

	require.NoError(t, client.Call(ctx, ping, nil))
	req = <-requests
	require.Equal(t, "/ping", req.uri)
	require.Empty(t, req.header.Get("Authorization"))
}

func TestClientErrors(t *testing.T) {
	server, requests := postsServer(t)
	client := newPostsClient(t, server)
	ctx := context.Background()

	var post Post
	err := client.Call(ctx, getPost, &post, int64(404), nil)
	require.True(t, errors.IsStatus(err))
	require.ErrorContains(t, err, "post not found")
	<-requests

	err = client.Call(ctx, restbind.NewMethodID("DeletePost", "int64"), nil, int64(1))
	require.True(t, errors.IsDispatch(err))

	err = client.Call(ctx, createPost, &post, nil, true)
	require.True(t, errors.IsInvalidArgument(err))

	err = client.Call(ctx, createPost, &post, &Post{Title: "x"})
	require.True(t, errors.IsInvalidArgument(err))

	require.Empty(t, requests)
}

func TestNewClientErrors(t *testing.T) {
	_, err := restbind.NewClient(postsBinding)
	require.True(t, errors.IsConfiguration(err), "unresolved placeholder: %v", err)

	_, err = restbind.NewClient(postsBinding, restbind.WithResolver(placeholder.New(placeholder.Map{
		"posts.url": "/relative",
	})))
	require.True(t, errors.IsConfiguration(err))

	_, err = restbind.NewClient(nil)
	require.True(t, errors.IsConfiguration(err))
}

func TestClientOptions(t *testing.T) {
	server, requests := postsServer(t)

	var logs bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug}))

	client := newPostsClient(t, server,
		restbind.ValidateBody(nil),
		restbind.RequestIDHeader("X-Request-Id"),
		restbind.Authorization("Bearer secret"),
		restbind.Logger(logger),
		restbind.WithResolver(placeholder.New(placeholder.Map{
			"posts.url":   server.URL,
			"api.version": "2",
		})),
	)
	ctx := context.Background()

	var created Post
	require.NoError(t, client.Call(ctx, createPost, &created, &Post{Title: "valid"}, false))
	req := <-requests
	require.Equal(t, "Bearer secret", req.header.Get("Authorization"))
	require.Equal(t, "2", req.header.Get("X-Api"))
	_, err := uuid.Parse(req.header.Get("X-Request-Id"))
	require.NoError(t, err)

	require.NoError(t, client.Call(ctx, ping, nil))
	req2 := <-requests
	require.NotEqual(t, req.header.Get("X-Request-Id"), req2.header.Get("X-Request-Id"))

	err = client.Call(ctx, createPost, &created, &Post{}, false)
	require.True(t, errors.IsInvalidArgument(err))
	require.ErrorContains(t, err, "Title")
	require.Empty(t, requests)

	var messages []string
	decoder := json.NewDecoder(&logs)
	for decoder.More() {
		var record struct {
			Msg    string `json:"msg"`
			Method string `json:"method"`
		}
		require.NoError(t, decoder.Decode(&record))
		messages = append(messages, record.Msg+" "+record.Method)
	}
	require.Equal(t, []string{
		"call started CreatePost(*Post,bool)",
		"call completed CreatePost(*Post,bool)",
		"call started Ping()",
		"call completed Ping()",
		"call started CreatePost(*Post,bool)",
		"call failed CreatePost(*Post,bool)",
	}, messages)
}

type recordingTransport struct {
	exchanges []*restbind.Exchange
	response  *restbind.Response
	err       error
}

func (t *recordingTransport) Exchange(ctx context.Context, ex *restbind.Exchange) (*restbind.Response, error) {
	t.exchanges = append(t.exchanges, ex)
	return t.response, t.err
}

type upperCodec struct {
	restbind.DefaultCodec
}

func (upperCodec) Encode(v interface{}, mediaType string) ([]byte, string, error) {
	return []byte(strings.ToUpper(v.(string))), "text/x-upper", nil
}

func TestClientCustomTransport(t *testing.T) {
	transport := &recordingTransport{
		response: &restbind.Response{
			Status: http.StatusOK,
			Header: http.Header{"Content-Type": {"application/json"}},
			Body:   []byte(`{"id":7,"title":"fake"}`),
		},
	}
	client, err := restbind.NewClient(postsBinding,
		restbind.WithResolver(placeholder.New(placeholder.Map{"posts.url": "http://posts.invalid"})),
		restbind.WithTransport(transport),
		restbind.WithCodec(upperCodec{}),
	)
	require.NoError(t, err)
	defer func() {
		require.NoError(t, client.Close())
	}()
	ctx := context.Background()

	var post Post
	require.NoError(t, client.Call(ctx, getPost, &post, int64(7), nil))
	require.Equal(t, Post{ID: 7, Title: "fake"}, post)

	require.NoError(t, client.Call(ctx, sendNote, nil, "quiet"))

	require.Len(t, transport.exchanges, 2)
	require.Equal(t, "http://posts.invalid/v1/posts/7", transport.exchanges[0].URL)
	require.Nil(t, transport.exchanges[0].Body)
	note := transport.exchanges[1]
	require.Equal(t, http.MethodPut, note.Method)
	require.Equal(t, "QUIET", string(note.Body))
	require.Equal(t, "text/x-upper", note.Header.Get("Content-Type"))

	transport.err = io.ErrUnexpectedEOF
	err = client.Call(ctx, ping, nil)
	require.ErrorIs(t, err, io.ErrUnexpectedEOF)

	descriptors := client.Table().Descriptors()
	require.Len(t, descriptors, 4)
}
