/*
Package restbind turns annotated Go interfaces into HTTP clients.

How to use this package. Describe the remote API as a Go interface. Each
method corresponds to one HTTP endpoint. The first parameter is
context.Context, the results are either error or (T, error). Bindings are
written as directives in doc comments:

	//restbind:service url=${posts.url:https://jsonplaceholder.typicode.com}
	type PostsAPI interface {
		//restbind:mapping method=GET path=/posts/{id} produces=application/json
		//restbind:param id path
		GetPost(ctx context.Context, id int64) (*Post, error)

		//restbind:mapping method=GET path=/posts
		//restbind:param userID query=userId
		ListUserPosts(ctx context.Context, userID int64) ([]Post, error)

		//restbind:mapping method=POST path=/posts consumes=application/json
		//restbind:param post body
		CreatePost(ctx context.Context, post *Post) (*Post, error)
	}

Directive restbind:service is put on the interface. It has exactly one url
and optionally a path prefix, e.g. path=/posts/{postId}. Both apply only to
methods declared directly in the interface: methods of embedded interfaces
use bindings of their own interface.

Directive restbind:mapping is put on a method. Keys:

  - method: HTTP method, GET by default;
  - path: path template relative to the service path;
  - header: static header name=value, may be repeated; conditions
    name!=value are ignored by the client;
  - consumes: media type of the body, the first is sent as Content-Type;
  - produces: accepted media type, the first is sent as Accept.

Directive restbind:param binds a parameter: "name role[=key]... [optional]".
Roles are path, query, header and body. The key defaults to the parameter
name. Bindings are required unless marked optional: a nil value of a
required binding fails the call before anything is sent. A parameter
without directive is not sent at all.

URLs, paths and header names and values may contain placeholders
${key} and ${key:default}. They are resolved once, when the client is
created, with the resolver passed in option WithResolver. See package
placeholder for resolvers backed by maps, environment and YAML files.

Run restbind-gen in the package to generate bindings and clients:

	//go:generate go run github.com/starius/restbind/cmd/restbind-gen .

For interface PostsAPI it writes a file with variable PostsAPIBinding,
method identities PostsAPIGetPost etc. and type PostsAPIClient which
implements PostsAPI:

	client, err := example.NewPostsAPIClient(
		restbind.WithResolver(placeholder.New(placeholder.Env(nil))),
	)
	if err != nil {
		...
	}
	defer client.Close()

	post, err := client.GetPost(ctx, 1)

Arguments are converted to strings as follows. encoding.TextMarshaler and
fmt.Stringer are used if implemented, []byte is sent as is, other values
are formatted with fmt. Query parameters also accept slices (repeated
key), maps (one pair per key, sorted) and structs which are encoded with
gorilla/schema using tag "query":

	type ListOptions struct {
		Page  int `query:"_page,omitempty"`
		Limit int `query:"_limit,omitempty"`
	}

Request body is encoded by Codec, DefaultCodec by default. It sends
strings and byte slices as is, protobuf messages in binary form (or as
JSON if the endpoint consumes JSON) and everything else as JSON. Response
bodies are decoded the same way, by the type of the result.

Responses with non-2xx status are returned as errors of kind
errors.Status. If the body is JSON of the form {"error": "...", "code": "..."},
the message is extracted from it. Redirects are not followed.

Errors are classified by package errors: invalid bindings found when the
client is created are errors.Configuration, bad arguments of a call are
errors.InvalidArgument, calls of methods unknown to the client are
errors.Dispatch. Errors of the transport and the codec are passed as is.

The client can be tuned with options: CustomClient replaces http.Client
(see packages closingclient and debugclient), WithTransport replaces the
whole HTTP layer, Logger enables structured logs of calls, ValidateBody
checks struct bodies with go-playground/validator and RequestIDHeader
adds a random request id to every call.

Function OpenAPI describes the methods of a client as OpenAPI 3 document.
*/
package restbind
