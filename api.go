package restbind

import (
	"context"
	"fmt"
	"net/http"
	"strings"
)

// Role is the binding category of a method parameter.
type Role int

const (
	// PathVariable fills a {name} placeholder of the path template.
	PathVariable Role = iota + 1

	// QueryParam is appended to the URL as a query parameter.
	QueryParam

	// Header is sent as an HTTP header.
	Header

	// Body is encoded by the codec and sent as the request body.
	Body
)

func (r Role) String() string {
	switch r {
	case PathVariable:
		return "PathVariable"
	case QueryParam:
		return "QueryParam"
	case Header:
		return "Header"
	case Body:
		return "Body"
	default:
		return fmt.Sprintf("Role(%d)", int(r))
	}
}

// ServiceBinding describes one Go interface of the API. Its URL and Paths
// are type-level bindings: they apply only to the methods listed in
// Methods, i.e. declared directly on this interface. Methods of embedded
// interfaces are listed in their own ServiceBinding in Embeds and are
// parsed against that binding only.
type ServiceBinding struct {
	// Name of the interface, used in error messages.
	Name string

	// Base URL of the service. May contain ${...} placeholders.
	URL string

	// Path prefix of all methods. At most one non-empty value is allowed.
	Paths []string

	Methods []MethodBinding

	Embeds []*ServiceBinding
}

// MethodBinding is the method-level binding of one endpoint.
type MethodBinding struct {
	// Name of Go method.
	Name string

	// HTTP methods. Empty means GET. More than one is an error.
	Verbs []string

	// Path template relative to the service path, e.g. "/posts/{id}".
	// At most one value is allowed.
	Paths []string

	// Header conditions in the form "name=value". Conditions with "!="
	// are checked by servers, they are not sent by the client.
	Headers []string

	// Media types the server consumes. The first one is sent as Content-Type.
	Consumes []string

	// Media types the server produces. The first one is sent as Accept.
	Produces []string

	// Parameters of Go method, excluding leading context.Context.
	Params []ParamBinding
}

// ParamBinding is one formal parameter of a method.
type ParamBinding struct {
	// Name of Go parameter. Used as binding key if role has no name.
	Name string

	// Type of Go parameter as written in source, e.g. "int64" or "*Post".
	Type string

	// Declared roles. A parameter without roles is not sent.
	Roles []RoleBinding
}

// RoleBinding is a role marker declared on a parameter.
type RoleBinding struct {
	Role Role

	// Binding key: path variable, query parameter or header name.
	// Ignored for Body.
	Name string

	// Optional allows nil argument values. Bindings are required by default.
	Optional bool
}

// MethodID identifies a method of API interface by its name and
// parameter types, e.g. "GetPost(int64)".
type MethodID string

// NewMethodID builds MethodID from method name and parameter types.
func NewMethodID(name string, paramTypes ...string) MethodID {
	return MethodID(name + "(" + strings.Join(paramTypes, ",") + ")")
}

// ID returns identity of the method.
func (m *MethodBinding) ID() MethodID {
	types := make([]string, 0, len(m.Params))
	for _, p := range m.Params {
		types = append(types, p.Type)
	}
	return NewMethodID(m.Name, types...)
}

// Resolver substitutes placeholders in binding strings. Implementations
// must return already resolved strings unchanged.
type Resolver interface {
	Resolve(raw string) (string, error)
}

// ResolverFunc adapts a function to Resolver.
type ResolverFunc func(raw string) (string, error)

func (f ResolverFunc) Resolve(raw string) (string, error) {
	return f(raw)
}

// NopResolver returns strings as is.
var NopResolver = ResolverFunc(func(raw string) (string, error) {
	return raw, nil
})

// Transport performs HTTP exchange. Timeouts and cancellation are
// controlled by ctx and the transport itself.
type Transport interface {
	Exchange(ctx context.Context, ex *Exchange) (*Response, error)
}

// Exchange is an encoded outbound request.
type Exchange struct {
	Method string
	URL    string
	Header Headers
	Body   []byte
}

// Response is what the transport received.
type Response struct {
	Status int
	Header http.Header
	Body   []byte
}

// Codec serializes request bodies and deserializes response bodies.
type Codec interface {
	// Encode returns body and its content type. mediaType is Content-Type
	// declared by the endpoint or "" if the codec is free to choose.
	Encode(v interface{}, mediaType string) (body []byte, contentType string, err error)

	// Decode parses body into out, a pointer to the expected result type.
	Decode(body []byte, contentType string, out interface{}) error
}
