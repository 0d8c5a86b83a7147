package decode

import (
	"bytes"
	"encoding/json"

	"github.com/pkg/errors"
)

var (
	jsonFalse = []byte("false")
	jsonNull  = []byte("null")
)

// List is a field the backend types as an array but replaces with false when
// there is nothing to return.
type List[T any] struct {
	items []T
	set   bool
}

func (l *List[T]) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)

	if bytes.Equal(data, jsonFalse) || bytes.Equal(data, jsonNull) {
		l.items, l.set = nil, false
		return nil
	}

	var items []T
	if err := json.Unmarshal(data, &items); err != nil {
		return errors.Wrap(err, "expected array or false")
	}

	l.items, l.set = items, true
	return nil
}

// Items is nil when the field was the false sentinel.
func (l List[T]) Items() []T {
	return l.items
}

// IsEmpty reports the sentinel case. An empty array is not the sentinel.
func (l List[T]) IsEmpty() bool {
	return !l.set
}

func ListOf[T any](items ...T) List[T] {
	return List[T]{items: items, set: true}
}
