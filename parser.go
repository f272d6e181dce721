package restbind

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/starius/restbind/errors"
)

var verbs = map[string]struct{}{
	http.MethodGet:     {},
	http.MethodPost:    {},
	http.MethodPut:     {},
	http.MethodDelete:  {},
	http.MethodPatch:   {},
	http.MethodHead:    {},
	http.MethodOptions: {},
	http.MethodTrace:   {},
}

// rolePrecedence is the order in which role markers of a parameter are
// looked up. The first declared role in this order binds the parameter.
var rolePrecedence = []Role{PathVariable, QueryParam, Header, Body}

// Parser turns bindings of a method into a Descriptor.
type Parser struct {
	resolver Resolver
}

// NewParser creates a parser. All URLs, paths and header names and values
// are passed through resolver before they are stored in descriptors.
// If resolver is nil, NopResolver is used.
func NewParser(resolver Resolver) *Parser {
	if resolver == nil {
		resolver = NopResolver
	}
	return &Parser{resolver: resolver}
}

// serviceLevel is the resolved type-level binding.
type serviceLevel struct {
	name    string
	baseURL string
	path    string
}

// methodLevel is the resolved method-level binding.
type methodLevel struct {
	id      MethodID
	verb    string
	path    string
	headers Headers
	params  []Param
}

// Parse parses method m declared directly in svc. Only bindings of svc
// itself apply to m: the type which embeds svc or types embedded into svc
// do not contribute. All errors are of kind errors.Configuration.
func (p *Parser) Parse(svc *ServiceBinding, m *MethodBinding) (*Descriptor, error) {
	if svc == nil {
		return nil, errors.Configurationf("nil service binding")
	}
	if m == nil {
		return nil, errors.Configurationf("service %s: nil method binding", svc.Name)
	}
	sl, err := p.parseService(svc)
	if err != nil {
		return nil, err
	}
	ml, err := p.parseMethod(svc.Name, m)
	if err != nil {
		return nil, err
	}
	return merge(sl, ml), nil
}

func (p *Parser) parseService(svc *ServiceBinding) (serviceLevel, error) {
	sl := serviceLevel{name: svc.Name}

	if strings.TrimSpace(svc.URL) == "" {
		return sl, errors.Configurationf("service %s: no base URL", svc.Name)
	}
	baseURL, err := p.resolve(svc.URL)
	if err != nil {
		return sl, errors.Configurationf("service %s: failed to resolve base URL %q: %w", svc.Name, svc.URL, err)
	}
	if strings.TrimSpace(baseURL) == "" {
		return sl, errors.Configurationf("service %s: base URL %q resolved to empty string", svc.Name, svc.URL)
	}
	u, err := url.Parse(baseURL)
	if err != nil {
		return sl, errors.Configurationf("service %s: bad base URL %q: %w", svc.Name, baseURL, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return sl, errors.Configurationf("service %s: base URL %q is not absolute", svc.Name, baseURL)
	}
	sl.baseURL = baseURL

	path, err := p.atMostOnePath(svc.Paths)
	if err != nil {
		return sl, errors.Configurationf("service %s: %w", svc.Name, err)
	}
	sl.path = path

	return sl, nil
}

func (p *Parser) parseMethod(service string, m *MethodBinding) (methodLevel, error) {
	ml := methodLevel{id: m.ID()}
	where := service + "." + m.Name

	switch len(m.Verbs) {
	case 0:
		ml.verb = http.MethodGet
	case 1:
		verb := strings.ToUpper(strings.TrimSpace(m.Verbs[0]))
		if _, has := verbs[verb]; !has {
			return ml, errors.Configurationf("method %s: unknown HTTP method %q", where, m.Verbs[0])
		}
		ml.verb = verb
	default:
		return ml, errors.Configurationf("method %s: found HTTP methods %q, want at most one", where, m.Verbs)
	}

	path, err := p.atMostOnePath(m.Paths)
	if err != nil {
		return ml, errors.Configurationf("method %s: %w", where, err)
	}
	ml.path = path

	if contentType := firstOrEmpty(m.Consumes); contentType != "" {
		ml.headers.Add("Content-Type", contentType)
	}
	if accept := firstOrEmpty(m.Produces); accept != "" {
		ml.headers.Add("Accept", accept)
	}
	for _, condition := range m.Headers {
		if strings.Contains(condition, "!=") {
			// Negated conditions are checked on server side.
			continue
		}
		name, value, found := strings.Cut(condition, "=")
		if !found {
			// Presence condition, nothing to send.
			continue
		}
		name, err := p.resolve(strings.TrimSpace(name))
		if err != nil {
			return ml, errors.Configurationf("method %s: failed to resolve header %q: %w", where, condition, err)
		}
		if name == "" {
			return ml, errors.Configurationf("method %s: header condition %q has no name", where, condition)
		}
		value, err = p.resolve(strings.TrimSpace(value))
		if err != nil {
			return ml, errors.Configurationf("method %s: failed to resolve header %q: %w", where, condition, err)
		}
		ml.headers.Add(name, value)
	}

	hasBody := false
	for i := range m.Params {
		param, bound, err := bindParam(i, &m.Params[i])
		if err != nil {
			return ml, errors.Configurationf("method %s: %w", where, err)
		}
		if !bound {
			continue
		}
		if param.Role == Body {
			if hasBody {
				return ml, errors.Configurationf("method %s: more than one parameter is bound to request body", where)
			}
			hasBody = true
		}
		ml.params = append(ml.params, param)
	}

	return ml, nil
}

// bindParam returns binding of parameter number index. It fails if the
// parameter carries more than one role.
func bindParam(index int, pb *ParamBinding) (param Param, bound bool, err error) {
	var found *RoleBinding
	for _, role := range rolePrecedence {
		for i := range pb.Roles {
			rb := &pb.Roles[i]
			if rb.Role != role {
				continue
			}
			if found != nil {
				return param, false, errors.Configurationf("parameter %s is bound as %s and as %s, want one role", pb.Name, found.Role, rb.Role)
			}
			found = rb
		}
	}
	for _, rb := range pb.Roles {
		if !knownRole(rb.Role) {
			return param, false, errors.Configurationf("parameter %s has unknown role %s", pb.Name, rb.Role)
		}
	}
	if found == nil {
		return param, false, nil
	}

	param = Param{
		Index:    index,
		Role:     found.Role,
		Required: !found.Optional,
	}
	if found.Role != Body {
		param.Name = strings.TrimSpace(found.Name)
		if param.Name == "" {
			param.Name = pb.Name
		}
		if param.Name == "" {
			return param, false, errors.Configurationf("parameter #%d bound as %s has no name", index, found.Role)
		}
	}
	return param, true, nil
}

func knownRole(role Role) bool {
	for _, r := range rolePrecedence {
		if r == role {
			return true
		}
	}
	return false
}

// merge combines type-level and method-level bindings.
func merge(sl serviceLevel, ml methodLevel) *Descriptor {
	var segments []string
	if sl.path != "" {
		segments = append(segments, sl.path)
	}
	if ml.path != "" {
		segments = append(segments, ml.path)
	}
	return &Descriptor{
		id:       ml.id,
		service:  sl.name,
		baseURL:  sl.baseURL,
		method:   ml.verb,
		segments: segments,
		headers:  ml.headers,
		params:   ml.params,
	}
}

func (p *Parser) atMostOnePath(paths []string) (string, error) {
	if len(paths) > 1 {
		return "", errors.Configurationf("found paths %q, want at most one", paths)
	}
	path := firstOrEmpty(paths)
	if path == "" {
		return "", nil
	}
	resolved, err := p.resolve(path)
	if err != nil {
		return "", errors.Configurationf("failed to resolve path %q: %w", path, err)
	}
	if _, err := findPathKeys(resolved); err != nil {
		return "", errors.Configurationf("bad path template: %w", err)
	}
	return resolved, nil
}

func (p *Parser) resolve(value string) (string, error) {
	if strings.TrimSpace(value) == "" {
		return value, nil
	}
	return p.resolver.Resolve(value)
}

func firstOrEmpty(values []string) string {
	if len(values) == 0 {
		return ""
	}
	return strings.TrimSpace(values[0])
}
