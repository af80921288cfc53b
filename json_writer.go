package folio

import (
	"bytes"
	"encoding/json"
	"fmt"
	"reflect"
)

// jsonObjectWriter builds a JSON object whose keys keep their insertion order.
// The zero value is an empty object.
type jsonObjectWriter struct {
	bytes.Buffer
	err error
}

// Embed merges the members of a raw JSON object into the object.
func (w *jsonObjectWriter) Embed(raw []byte) *jsonObjectWriter {
	if w.err != nil {
		return w
	}
	members := bytes.TrimSpace(raw)
	if len(members) >= 2 && members[0] == '{' && members[len(members)-1] == '}' {
		members = bytes.TrimSpace(members[1 : len(members)-1])
	}
	if len(members) > 0 {
		w.Write(members)
		w.WriteByte(',')
	}
	return w
}

// EmbedFrom marshals v, which must encode as an object, and merges its members.
func (w *jsonObjectWriter) EmbedFrom(v any) *jsonObjectWriter {
	if w.err != nil {
		return w
	}
	raw, err := json.Marshal(v)
	if err != nil {
		w.err = fmt.Errorf("could not embed %T: %w", v, err)
		return w
	}
	return w.Embed(raw)
}

// Append adds the member key with the JSON encoding of value.
func (w *jsonObjectWriter) Append(key string, value any) *jsonObjectWriter {
	if w.err != nil {
		return w
	}
	k, err := json.Marshal(key)
	if err != nil {
		w.err = err
		return w
	}
	v, err := json.Marshal(value)
	if err != nil {
		w.err = fmt.Errorf("could not encode %q: %w", key, err)
		return w
	}
	w.Write(k)
	w.WriteByte(':')
	w.Write(v)
	w.WriteByte(',')
	return w
}

// Optional is like Append but skips zero values.
func (w *jsonObjectWriter) Optional(key string, value any) *jsonObjectWriter {
	if v := reflect.ValueOf(value); !v.IsValid() || v.IsZero() {
		return w
	}
	return w.Append(key, value)
}

// MarshalJSON returns the object built so far, or the first error encountered.
func (w *jsonObjectWriter) MarshalJSON() ([]byte, error) {
	if w.err != nil {
		return nil, w.err
	}
	members := bytes.TrimSuffix(w.Bytes(), []byte(","))
	out := make([]byte, 0, len(members)+2)
	out = append(out, '{')
	out = append(out, members...)
	return append(out, '}'), nil
}
