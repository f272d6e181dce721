package restbind

import (
	"encoding/json"
	"fmt"
	"mime"
	"reflect"
	"strings"

	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/proto"
)

const (
	contentTypeJSON     = "application/json"
	contentTypeProtobuf = "application/x-protobuf"
	contentTypeText     = "text/plain; charset=utf-8"
	contentTypeBinary   = "application/octet-stream"
	contentTypeCSV      = "text/csv"
)

// DefaultCodec encodes request bodies by their Go type:
//
//   - string is sent as is, text/plain by default;
//   - []byte is sent as is, application/octet-stream by default;
//   - proto.Message is sent in binary form, or as JSON if the endpoint
//     consumes JSON;
//   - [][]string is sent as CSV if the endpoint consumes text/csv;
//   - everything else is sent as JSON.
//
// Responses are decoded by the type of the target: *string and *[]byte
// receive raw body, protobuf messages are parsed from binary form or from
// JSON if Content-Type says so, *[][]string is parsed from CSV and other
// types from JSON. An empty response body leaves the target untouched.
type DefaultCodec struct{}

func (DefaultCodec) Encode(v interface{}, mediaType string) ([]byte, string, error) {
	switch body := v.(type) {
	case string:
		return []byte(body), orDefault(mediaType, contentTypeText), nil

	case []byte:
		return body, orDefault(mediaType, contentTypeBinary), nil

	case proto.Message:
		if isJSON(mediaType) {
			data, err := protojson.Marshal(body)
			return data, mediaType, err
		}
		data, err := proto.Marshal(body)
		return data, orDefault(mediaType, contentTypeProtobuf), err

	case [][]string:
		if isCSV(mediaType) {
			data, err := encodeCSV(body)
			return data, mediaType, err
		}
	}

	if mediaType != "" && !isJSON(mediaType) {
		return nil, "", fmt.Errorf("can not encode %T as %s", v, mediaType)
	}
	data, err := json.Marshal(v)
	if err != nil {
		return nil, "", err
	}
	return data, orDefault(mediaType, contentTypeJSON), nil
}

func (DefaultCodec) Decode(body []byte, contentType string, out interface{}) error {
	if out == nil || len(body) == 0 {
		return nil
	}

	switch target := out.(type) {
	case *string:
		*target = string(body)
		return nil

	case *[]byte:
		*target = append([]byte(nil), body...)
		return nil

	case *[][]string:
		records, err := decodeCSV(body)
		if err != nil {
			return err
		}
		*target = records
		return nil

	case proto.Message:
		return decodeProto(body, contentType, target)
	}

	// Pointer to a nil message pointer, e.g. **timestamppb.Timestamp.
	outValue := reflect.ValueOf(out)
	if outValue.Kind() == reflect.Ptr && outValue.Elem().Kind() == reflect.Ptr {
		if _, ok := reflect.Zero(outValue.Elem().Type()).Interface().(proto.Message); ok {
			msg := reflect.New(outValue.Elem().Type().Elem())
			if err := decodeProto(body, contentType, msg.Interface().(proto.Message)); err != nil {
				return err
			}
			outValue.Elem().Set(msg)
			return nil
		}
	}

	return json.Unmarshal(body, out)
}

func decodeProto(body []byte, contentType string, msg proto.Message) error {
	if isJSON(contentType) {
		return protojson.Unmarshal(body, msg)
	}
	return proto.Unmarshal(body, msg)
}

func orDefault(value, def string) string {
	if value == "" {
		return def
	}
	return value
}

func baseMediaType(contentType string) string {
	if contentType == "" {
		return ""
	}
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return strings.ToLower(strings.TrimSpace(contentType))
	}
	return mediaType
}

func isJSON(contentType string) bool {
	mediaType := baseMediaType(contentType)
	return mediaType == contentTypeJSON || strings.HasSuffix(mediaType, "+json")
}

func isCSV(contentType string) bool {
	return baseMediaType(contentType) == contentTypeCSV
}
