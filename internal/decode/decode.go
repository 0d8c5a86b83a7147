// Package decode turns raw backend bodies into typed records.
//
// Every endpoint of the backend shares one error envelope, so Decode checks
// for it before decoding the expected shape.
package decode

import (
	"bytes"
	"encoding/json"

	"leitor/internal/domain"

	"github.com/pkg/errors"
)

type envelope struct {
	Message *string `json:"message"`
}

// Decode reports a *domain.RemoteError when body carries a non-empty message,
// otherwise it unmarshals body into T.
func Decode[T any](body []byte) (T, error) {
	var v T

	if err := CheckEnvelope(body); err != nil {
		return v, err
	}

	if err := json.Unmarshal(body, &v); err != nil {
		return v, errors.Wrap(err, "could not decode response")
	}

	return v, nil
}

// CheckEnvelope only looks at JSON objects. Arrays, booleans and garbage are
// left for the typed decode to judge.
func CheckEnvelope(body []byte) error {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return nil
	}

	var env envelope
	if err := json.Unmarshal(trimmed, &env); err != nil {
		return nil
	}

	if env.Message != nil && *env.Message != "" {
		return &domain.RemoteError{Message: *env.Message}
	}

	return nil
}
