package decode

import (
	"bytes"
	"encoding/json"

	"github.com/pkg/errors"
)

type Entry[V any] struct {
	Key   string
	Value V
}

// Ordered decodes a JSON object keeping the key order of the document.
// The backend sends [] instead of {} when the object would be empty.
type Ordered[V any] []Entry[V]

func (o *Ordered[V]) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	*o = nil

	if len(data) == 0 || bytes.Equal(data, jsonNull) || bytes.Equal(data, jsonFalse) {
		return nil
	}

	if data[0] == '[' {
		var items []V
		if err := json.Unmarshal(data, &items); err != nil {
			return errors.Wrap(err, "expected object or empty array")
		}
		if len(items) != 0 {
			return errors.New("expected object or empty array")
		}
		return nil
	}

	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return errors.Errorf("expected object, got %v", tok)
	}

	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}

		key, ok := tok.(string)
		if !ok {
			return errors.Errorf("expected object key, got %v", tok)
		}

		var value V
		if err := dec.Decode(&value); err != nil {
			return errors.Wrapf(err, "could not decode value for key %q", key)
		}

		*o = append(*o, Entry[V]{Key: key, Value: value})
	}

	if _, err := dec.Token(); err != nil {
		return err
	}

	return nil
}
