package domain

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	ErrMangaRemoved  = errors.New("manga licensed and removed by the publisher")
	ErrTokenNotFound = errors.New("could not find the reader token")
)

// RemoteError carries a message reported by the backend in its error envelope.
type RemoteError struct {
	Message string
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("remote error: %s", e.Message)
}
