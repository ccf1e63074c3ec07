package backend

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"strings"
)

// Kind tags what a response body turned out to be.
type Kind int

const (
	KindEmpty Kind = iota
	KindJSON
	KindText
)

// Decoded is a response body after layered decoding: JSON if it parses,
// otherwise trimmed text, otherwise empty.
type Decoded struct {
	Kind Kind
	JSON interface{}
	Text string
}

const maxTextMessage = 500

func Decode(body []byte) Decoded {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return Decoded{Kind: KindEmpty}
	}
	var v interface{}
	if err := json.Unmarshal(trimmed, &v); err == nil {
		return Decoded{Kind: KindJSON, JSON: v}
	}
	return Decoded{Kind: KindText, Text: string(trimmed)}
}

// Message derives a human readable message from a decoded error body. The
// conventional fields are checked in order: error, message, title/detail,
// then the errors map, whose field names are always included.
func Message(d Decoded, status int) string {
	switch d.Kind {
	case KindJSON:
		if msg := jsonMessage(d.JSON); msg != "" {
			return msg
		}
	case KindText:
		text := d.Text
		lower := strings.ToLower(text)
		if strings.HasPrefix(lower, "<!doctype") || strings.HasPrefix(lower, "<html") {
			break
		}
		if runes := []rune(text); len(runes) > maxTextMessage {
			text = string(runes[:maxTextMessage]) + "..."
		}
		return text
	}
	if text := http.StatusText(status); text != "" {
		return text
	}
	return fmt.Sprintf("backend returned status %d", status)
}

func jsonMessage(v interface{}) string {
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t)
	case []interface{}:
		return joinStrings(t)
	case map[string]interface{}:
		base := ""
		for _, key := range []string{"error", "message", "title", "detail"} {
			if msg := fieldMessage(lookup(t, key)); msg != "" {
				base = msg
				break
			}
		}
		details := errorsDetail(lookup(t, "errors"))
		switch {
		case details == "":
			return base
		case base == "":
			return details
		default:
			return base + " " + details
		}
	}
	return ""
}

func fieldMessage(v interface{}) string {
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t)
	case map[string]interface{}:
		// {"error": {"message": "..."}}
		return fieldMessage(lookup(t, "message"))
	case []interface{}:
		return joinStrings(t)
	}
	return ""
}

// errorsDetail renders {"Title": ["required"], "Price": ["must be > 0"]} as
// "Price: must be > 0; Title: required". Field order is sorted so the
// message is stable.
func errorsDetail(v interface{}) string {
	switch t := v.(type) {
	case map[string]interface{}:
		fields := make([]string, 0, len(t))
		for k := range t {
			fields = append(fields, k)
		}
		sort.Strings(fields)
		parts := make([]string, 0, len(fields))
		for _, field := range fields {
			msg := fieldMessage(t[field])
			if msg == "" {
				parts = append(parts, field)
				continue
			}
			parts = append(parts, field+": "+msg)
		}
		return strings.Join(parts, "; ")
	case []interface{}:
		return joinStrings(t)
	case string:
		return t
	}
	return ""
}

func joinStrings(items []interface{}) string {
	parts := make([]string, 0, len(items))
	for _, item := range items {
		if msg := fieldMessage(item); msg != "" {
			parts = append(parts, msg)
		}
	}
	return strings.Join(parts, ", ")
}

// lookup is a case-insensitive map access; the backend is not consistent
// about "Message" vs "message".
func lookup(m map[string]interface{}, key string) interface{} {
	if v, ok := m[key]; ok {
		return v
	}
	for k, v := range m {
		if strings.EqualFold(k, key) {
			return v
		}
	}
	return nil
}

var envelopeKeys = []string{"data", "items", "$values", "result", "value"}

// envelopeMetaKeys may sit beside the payload key in a wrapper object.
var envelopeMetaKeys = map[string]bool{
	"success": true, "succeeded": true, "message": true, "status": true, "statuscode": true,
	"code": true, "error": true, "errors": true, "count": true, "total": true, "totalcount": true,
	"page": true, "pagesize": true, "$id": true,
}

func isEnvelopeKey(key string) bool {
	for _, k := range envelopeKeys {
		if strings.EqualFold(k, key) {
			return true
		}
	}
	return false
}

// wrappedPayload returns the object or array held by a wrapper such as
// {"data": {...}, "success": true}. Any key that is neither the single
// payload key nor response metadata means raw is a record, not a wrapper.
func wrappedPayload(raw []byte) json.RawMessage {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(raw, &obj); err != nil {
		return nil
	}
	var payload json.RawMessage
	for k, v := range obj {
		switch {
		case isEnvelopeKey(k):
			v = bytes.TrimSpace(v)
			if payload != nil || len(v) == 0 || (v[0] != '{' && v[0] != '[') {
				return nil
			}
			payload = v
		case envelopeMetaKeys[strings.ToLower(k)]:
		default:
			return nil
		}
	}
	return payload
}

// unwrapEnvelope returns the payload inside {"data": ...}-style wrappers,
// or nil when raw is not such a wrapper.
func unwrapEnvelope(raw []byte) json.RawMessage {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(raw, &obj); err != nil {
		return nil
	}
	for _, key := range envelopeKeys {
		for k, v := range obj {
			if strings.EqualFold(k, key) {
				return v
			}
		}
	}
	return nil
}
