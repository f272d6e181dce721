package restbind

import (
	"encoding"
	"fmt"
	"reflect"
	"sort"

	"github.com/gorilla/schema"
)

var schemaEncoder = func() *schema.Encoder {
	e := schema.NewEncoder()
	e.SetAliasTag("query")
	return e
}()

var textMarshalerType = reflect.TypeOf((*encoding.TextMarshaler)(nil)).Elem()

func isNil(v interface{}) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Ptr, reflect.Map, reflect.Slice, reflect.Interface, reflect.Func, reflect.Chan:
		return rv.IsNil()
	}
	return false
}

// formatValue converts an argument to string. Types implementing
// encoding.TextMarshaler are encoded using it, others with fmt.
// Non-nil pointers are dereferenced.
func formatValue(v interface{}) (string, error) {
	if marshaler, ok := v.(encoding.TextMarshaler); ok {
		valueBytes, err := marshaler.MarshalText()
		if err != nil {
			return "", err
		}
		return string(valueBytes), nil
	}
	if b, ok := v.([]byte); ok {
		return string(b), nil
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Ptr && !rv.IsNil() {
		return formatValue(rv.Elem().Interface())
	}
	return fmt.Sprintf("%v", v), nil
}

// queryPairs expands an argument of a query binding into query pairs.
// nil produces a bare key, slices repeat the key, maps and structs are
// expanded into their own keys (sorted), everything else is one pair.
func queryPairs(name string, v interface{}) ([]queryPair, error) {
	if isNil(v) {
		return []queryPair{{key: name, bare: true}}, nil
	}

	rv := reflect.ValueOf(v)
	if rv.Type().Implements(textMarshalerType) {
		value, err := formatValue(v)
		if err != nil {
			return nil, err
		}
		return []queryPair{{key: name, value: value}}, nil
	}

	elem := rv
	if elem.Kind() == reflect.Ptr {
		elem = elem.Elem()
	}

	switch elem.Kind() {
	case reflect.Slice, reflect.Array:
		if elem.Kind() == reflect.Slice && elem.Type().Elem().Kind() == reflect.Uint8 {
			return []queryPair{{key: name, value: string(elem.Bytes())}}, nil
		}
		pairs := make([]queryPair, 0, elem.Len())
		for i := 0; i < elem.Len(); i++ {
			item := elem.Index(i).Interface()
			if isNil(item) {
				pairs = append(pairs, queryPair{key: name, bare: true})
				continue
			}
			value, err := formatValue(item)
			if err != nil {
				return nil, err
			}
			pairs = append(pairs, queryPair{key: name, value: value})
		}
		return pairs, nil

	case reflect.Map:
		if elem.Type().Key().Kind() != reflect.String {
			return nil, fmt.Errorf("map query parameter %s must have string keys, got %s", name, elem.Type())
		}
		keys := make([]string, 0, elem.Len())
		byKey := make(map[string][]queryPair, elem.Len())
		iter := elem.MapRange()
		for iter.Next() {
			key := iter.Key().String()
			items, err := queryPairs(key, iter.Value().Interface())
			if err != nil {
				return nil, err
			}
			keys = append(keys, key)
			byKey[key] = items
		}
		sort.Strings(keys)
		var pairs []queryPair
		for _, key := range keys {
			pairs = append(pairs, byKey[key]...)
		}
		return pairs, nil

	case reflect.Struct:
		values := make(map[string][]string)
		if err := schemaEncoder.Encode(elem.Interface(), values); err != nil {
			return nil, fmt.Errorf("failed to encode query parameter %s: %w", name, err)
		}
		return sortedPairs(values), nil
	}

	value, err := formatValue(v)
	if err != nil {
		return nil, err
	}
	return []queryPair{{key: name, value: value}}, nil
}

func sortedPairs(values map[string][]string) []queryPair {
	keys := make([]string, 0, len(values))
	for key := range values {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	var pairs []queryPair
	for _, key := range keys {
		for _, value := range values[key] {
			pairs = append(pairs, queryPair{key: key, value: value})
		}
	}
	return pairs
}
