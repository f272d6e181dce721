package gen

import (
	"fmt"
	"go/ast"
	"strings"
)

const (
	servicePrefix = "//restbind:service"
	mappingPrefix = "//restbind:mapping"
	paramPrefix   = "//restbind:param"
)

// directives returns the arguments of comment lines starting with prefix.
func directives(doc *ast.CommentGroup, prefix string) [][]string {
	if doc == nil {
		return nil
	}
	var result [][]string
	for _, c := range doc.List {
		rest, found := strings.CutPrefix(c.Text, prefix)
		if !found {
			continue
		}
		if rest != "" && rest[0] != ' ' && rest[0] != '\t' {
			// E.g. //restbind:services.
			continue
		}
		result = append(result, strings.Fields(rest))
	}
	return result
}

// keyValues parses "key=value" tokens. Values may contain "=".
func keyValues(tokens []string, allowed ...string) (map[string][]string, error) {
	result := make(map[string][]string)
	for _, token := range tokens {
		key, value, found := strings.Cut(token, "=")
		if !found {
			return nil, fmt.Errorf("token %q is not key=value", token)
		}
		known := false
		for _, a := range allowed {
			if a == key {
				known = true
				break
			}
		}
		if !known {
			return nil, fmt.Errorf("unknown key %q, want one of %s", key, strings.Join(allowed, ", "))
		}
		result[key] = append(result[key], value)
	}
	return result, nil
}

var roleNames = map[string]string{
	"path":   "PathVariable",
	"query":  "QueryParam",
	"header": "Header",
	"body":   "Body",
}

// parseParamDirective parses "name role[=key]... [optional]".
func parseParamDirective(tokens []string) (name string, roles []role, err error) {
	if len(tokens) < 2 {
		return "", nil, fmt.Errorf("want parameter name and role, got %q", strings.Join(tokens, " "))
	}
	name = tokens[0]
	optional := false
	for _, token := range tokens[1:] {
		if token == "optional" {
			optional = true
			continue
		}
		roleName, key, _ := strings.Cut(token, "=")
		constant, has := roleNames[roleName]
		if !has {
			return "", nil, fmt.Errorf("unknown role %q of parameter %s", roleName, name)
		}
		roles = append(roles, role{Const: constant, Key: key})
	}
	if len(roles) == 0 {
		return "", nil, fmt.Errorf("parameter %s has no role", name)
	}
	for i := range roles {
		roles[i].Optional = optional
	}
	return name, roles, nil
}
