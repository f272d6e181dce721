// Package placeholder resolves ${key} and ${key:default} tokens in binding
// strings such as base URLs, paths and header values.
//
// Values are taken from a Source: a Map, the process environment, a YAML
// document or a Chain of them. Resolved values are not expanded again, so
// resolving an already resolved string returns it unchanged, unless a value
// itself contains "${": such a string is read as a placeholder on the next
// pass. Placeholders do not nest: a default value must not contain "${".
package placeholder

import (
	"fmt"
	"os"
	"strings"
)

// Source provides values of keys.
type Source interface {
	Lookup(key string) (string, bool)
}

// Map is a Source backed by a map.
type Map map[string]string

func (m Map) Lookup(key string) (string, bool) {
	value, has := m[key]
	return value, has
}

// Env is a Source backed by a lookup function of environment variables.
// Nil Env uses os.LookupEnv.
type Env func(key string) (string, bool)

func (e Env) Lookup(key string) (string, bool) {
	if e == nil {
		return os.LookupEnv(key)
	}
	return e(key)
}

// Chain looks keys up in its sources in order. The first source
// which has the key wins.
type Chain []Source

func (c Chain) Lookup(key string) (string, bool) {
	for _, source := range c {
		if value, has := source.Lookup(key); has {
			return value, true
		}
	}
	return "", false
}

// Resolver expands placeholders using a Source.
// It implements restbind.Resolver.
type Resolver struct {
	source Source
}

func New(source Source) *Resolver {
	return &Resolver{source: source}
}

func (r *Resolver) Resolve(raw string) (string, error) {
	return Expand(raw, r.source)
}

// Expand replaces every ${key} in raw with the value of key. A token may
// carry a default value after the first ':' which is used if the key is
// absent. Absent key without default is an error.
func Expand(raw string, source Source) (string, error) {
	if !strings.Contains(raw, "${") {
		return raw, nil
	}

	var sb strings.Builder
	rest := raw
	for {
		start := strings.Index(rest, "${")
		if start == -1 {
			sb.WriteString(rest)
			return sb.String(), nil
		}
		sb.WriteString(rest[:start])
		end := strings.IndexByte(rest[start:], '}')
		if end == -1 {
			return "", fmt.Errorf("unclosed placeholder in %q", raw)
		}
		token := rest[start+2 : start+end]
		if strings.Contains(token, "${") {
			return "", fmt.Errorf("nested placeholder in %q", raw)
		}
		key, def, hasDefault := strings.Cut(token, ":")
		key = strings.TrimSpace(key)
		if key == "" {
			return "", fmt.Errorf("empty placeholder in %q", raw)
		}
		value, has := source.Lookup(key)
		if !has {
			if !hasDefault {
				return "", fmt.Errorf("unknown placeholder %q in %q", key, raw)
			}
			value = def
		}
		sb.WriteString(value)
		rest = rest[start+end+1:]
	}
}
