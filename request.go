package restbind

import (
	"github.com/starius/restbind/errors"
)

// Request is an outbound request built from a descriptor and call
// arguments. Body is not encoded yet.
type Request struct {
	Method  string
	URL     string
	Header  Headers
	Body    interface{}
	HasBody bool
}

// Build creates the request for a call of d with arguments args.
// It does not modify d and does no I/O. Errors are of kind
// errors.InvalidArgument.
func Build(d *Descriptor, args []interface{}) (*Request, error) {
	for _, p := range d.params {
		if p.Index >= len(args) {
			return nil, errors.InvalidArgumentf("%s: argument #%d (%s %s) is missing, got %d arguments", d.id, p.Index, p.Role, p.Name, len(args))
		}
	}

	url, err := buildURL(d, args)
	if err != nil {
		return nil, err
	}

	header := d.headers.Clone()
	for _, p := range d.params {
		if p.Role != Header {
			continue
		}
		v := args[p.Index]
		if isNil(v) {
			if p.Required {
				return nil, errors.InvalidArgumentf("%s: required header %s is nil", d.id, p.Name)
			}
			continue
		}
		value, err := formatValue(v)
		if err != nil {
			return nil, errors.InvalidArgumentf("%s: failed to format header %s: %w", d.id, p.Name, err)
		}
		header.Add(p.Name, value)
	}

	req := &Request{
		Method: d.method,
		URL:    url,
		Header: header,
	}

	for _, p := range d.params {
		if p.Role != Body {
			continue
		}
		v := args[p.Index]
		if isNil(v) {
			if p.Required {
				return nil, errors.InvalidArgumentf("%s: required body is nil", d.id)
			}
			break
		}
		req.Body = v
		req.HasBody = true
	}

	return req, nil
}

func buildURL(d *Descriptor, args []interface{}) (string, error) {
	param2value := make(map[string]string)
	for _, p := range d.params {
		if p.Role != PathVariable {
			continue
		}
		v := args[p.Index]
		if isNil(v) {
			if p.Required {
				return "", errors.InvalidArgumentf("%s: required path variable %s is nil", d.id, p.Name)
			}
			param2value[p.Name] = ""
			continue
		}
		value, err := formatValue(v)
		if err != nil {
			return "", errors.InvalidArgumentf("%s: failed to format path variable %s: %w", d.id, p.Name, err)
		}
		param2value[p.Name] = value
	}

	base, rawQuery := splitBaseURL(d.baseURL)
	segments := make([]string, 0, len(d.segments))
	for _, segment := range d.segments {
		path, err := buildPath(segment, param2value)
		if err != nil {
			return "", errors.InvalidArgumentf("%s: %w", d.id, err)
		}
		segments = append(segments, path)
	}
	url := joinPath(base, segments)

	var pairs []queryPair
	for _, p := range d.params {
		if p.Role != QueryParam {
			continue
		}
		v := args[p.Index]
		if isNil(v) && p.Required {
			return "", errors.InvalidArgumentf("%s: required query parameter %s is nil", d.id, p.Name)
		}
		items, err := queryPairs(p.Name, v)
		if err != nil {
			return "", errors.InvalidArgumentf("%s: %w", d.id, err)
		}
		pairs = append(pairs, items...)
	}
	if query := encodeQuery(rawQuery, pairs); query != "" {
		url += "?" + query
	}

	return url, nil
}
