package shared

import (
	"encoding/json"
	"fmt"
)

// ErrorMessage is the JSON envelope of error responses:
//
//	{"error": "post not found", "code": "not_found", "detail": {...}}
type ErrorMessage struct {
	Error  string          `json:"error"`
	Detail json.RawMessage `json:"detail,omitempty"`
	Code   string          `json:"code,omitempty"`
}

// ParseErrorMessage returns the envelope if body is one, i.e. a JSON
// object with non-empty "error".
func ParseErrorMessage(body []byte) (*ErrorMessage, bool) {
	var msg ErrorMessage
	if err := json.Unmarshal(body, &msg); err != nil || msg.Error == "" {
		return nil, false
	}
	return &msg, true
}

func (m *ErrorMessage) String() string {
	text := m.Error
	if m.Code != "" {
		text = fmt.Sprintf("%s (%s)", text, m.Code)
	}
	if len(m.Detail) != 0 && string(m.Detail) != "null" {
		text = fmt.Sprintf("%s: %s", text, m.Detail)
	}
	return text
}
