package validation

import (
	"bytes"
	"encoding/json"
	"reflect"

	"github.com/lib/pq"
)

// StringList decodes either a JSON string or an array of strings. A single
// string becomes a one-element list.
type StringList []string

func (l *StringList) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if bytes.Equal(trimmed, []byte("null")) {
		*l = nil
		return nil
	}
	if len(trimmed) > 0 && trimmed[0] == '"' {
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return err
		}
		*l = StringList{s}
		return nil
	}
	var items []string
	if err := json.Unmarshal(trimmed, &items); err != nil {
		return &json.UnmarshalTypeError{Value: jsonKind(trimmed), Type: reflect.TypeOf(StringList{})}
	}
	*l = items
	return nil
}

func (l StringList) StringArray() pq.StringArray {
	return pq.StringArray(append([]string(nil), l...))
}

func jsonKind(data []byte) string {
	if len(data) == 0 {
		return "empty"
	}
	switch data[0] {
	case '{':
		return "object"
	case '[':
		return "array"
	case 't', 'f':
		return "bool"
	case 'n':
		return "null"
	default:
		return "number"
	}
}
