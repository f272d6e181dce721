package restbind

// Param is a parameter binding of a descriptor.
type Param struct {
	// Index of the argument in the call, context excluded.
	Index int

	// Binding key. Empty for Body.
	Name string

	Role Role

	Required bool
}

// Descriptor is the parsed, validated binding of one API method. It is
// created once by Parser and never modified, so it can be used by any
// number of concurrent calls.
type Descriptor struct {
	id       MethodID
	service  string
	baseURL  string
	method   string
	segments []string
	headers  Headers
	params   []Param
}

func (d *Descriptor) ID() MethodID {
	return d.id
}

// Service returns name of the interface declaring the method.
func (d *Descriptor) Service() string {
	return d.service
}

// BaseURL returns resolved base URL of the service.
func (d *Descriptor) BaseURL() string {
	return d.baseURL
}

// Method returns HTTP method.
func (d *Descriptor) Method() string {
	return d.method
}

// PathSegments returns path templates, the service path first.
func (d *Descriptor) PathSegments() []string {
	return append([]string(nil), d.segments...)
}

// Headers returns static headers sent with every request.
func (d *Descriptor) Headers() Headers {
	return d.headers.Clone()
}

// Params returns parameter bindings in declaration order.
func (d *Descriptor) Params() []Param {
	return append([]Param(nil), d.params...)
}

// ParamsOf returns parameter bindings of the role in declaration order.
func (d *Descriptor) ParamsOf(role Role) []Param {
	var params []Param
	for _, p := range d.params {
		if p.Role == role {
			params = append(params, p)
		}
	}
	return params
}

// Path returns the path template: all segments joined.
func (d *Descriptor) Path() string {
	return joinPath("", d.segments)
}
