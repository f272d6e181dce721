package restbind

import (
	"fmt"
	"net/url"
	"strings"
)

// splitBaseURL separates query of base URL. Fragment is dropped.
func splitBaseURL(baseURL string) (base, rawQuery string) {
	base, _, _ = strings.Cut(baseURL, "#")
	base, rawQuery, _ = strings.Cut(base, "?")
	return base, rawQuery
}

// joinPath appends segments to base putting exactly one "/" between them.
func joinPath(base string, segments []string) string {
	result := base
	for _, segment := range segments {
		if segment == "" {
			continue
		}
		result = strings.TrimRight(result, "/") + "/" + strings.TrimLeft(segment, "/")
	}
	return result
}

// findPathKeys returns names of {name} placeholders in order of appearance.
func findPathKeys(template string) ([]string, error) {
	var keys []string
	rest := template
	for {
		open := strings.IndexAny(rest, "{}")
		if open == -1 {
			return keys, nil
		}
		if rest[open] == '}' {
			return nil, fmt.Errorf("unexpected '}' in path %q", template)
		}
		closing := strings.IndexAny(rest[open+1:], "{}")
		if closing == -1 || rest[open+1+closing] == '{' {
			return nil, fmt.Errorf("unclosed '{' in path %q", template)
		}
		key := rest[open+1 : open+1+closing]
		if key == "" {
			return nil, fmt.Errorf("empty placeholder in path %q", template)
		}
		keys = append(keys, key)
		rest = rest[open+1+closing+1:]
	}
}

// buildPath replaces {name} placeholders of template with path-escaped
// values.
func buildPath(template string, param2value map[string]string) (string, error) {
	keys, err := findPathKeys(template)
	if err != nil {
		return "", err
	}
	if len(keys) == 0 {
		return template, nil
	}
	oldnew := make([]string, 0, 2*len(keys))
	for _, key := range keys {
		value, has := param2value[key]
		if !has {
			return "", fmt.Errorf("no value for path variable %q", key)
		}
		oldnew = append(oldnew, "{"+key+"}", url.PathEscape(value))
	}
	return strings.NewReplacer(oldnew...).Replace(template), nil
}

type queryPair struct {
	key   string
	value string
	bare  bool
}

// encodeQuery encodes pairs keeping their order. Bare pairs have no "=".
func encodeQuery(rawQuery string, pairs []queryPair) string {
	var sb strings.Builder
	sb.WriteString(rawQuery)
	for _, p := range pairs {
		if sb.Len() > 0 {
			sb.WriteByte('&')
		}
		sb.WriteString(url.QueryEscape(p.key))
		if p.bare {
			continue
		}
		sb.WriteByte('=')
		sb.WriteString(url.QueryEscape(p.value))
	}
	return sb.String()
}
