package sharedhttp

import (
	"crypto/tls"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/avast/retry-go"
)

var Transport = &http.Transport{
	Proxy: http.ProxyFromEnvironment,
	DialContext: (&net.Dialer{
		Timeout:   30 * time.Second,
		KeepAlive: 30 * time.Second,
	}).DialContext,
	ForceAttemptHTTP2:     true,
	MaxIdleConns:          100,
	MaxIdleConnsPerHost:   10,
	IdleConnTimeout:       90 * time.Second,
	TLSHandshakeTimeout:   10 * time.Second,
	ExpectContinueTimeout: 1 * time.Second,
	ReadBufferSize:        65536,
	WriteBufferSize:       65536,
	TLSClientConfig: &tls.Config{
		MinVersion: tls.VersionTLS12,
	},
}

// CheckStatusCode maps a status code to an error. Errors for statuses that
// will not change on a second attempt are marked unrecoverable for retry-go.
func CheckStatusCode(statusCode int) error {
	switch statusCode {
	case http.StatusOK:

	case http.StatusUnauthorized, http.StatusForbidden:
		return retry.Unrecoverable(fmt.Errorf("access denied: status code %d", statusCode))

	case http.StatusMethodNotAllowed:
		return retry.Unrecoverable(fmt.Errorf("method not allowed: status code %d", statusCode))

	case http.StatusNotFound:
		return fmt.Errorf("not found: status code %d", statusCode)

	case http.StatusTooManyRequests:
		return fmt.Errorf("rate limited: status code %d", statusCode)

	case http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout, http.StatusInternalServerError:
		return fmt.Errorf("server error: status code %d", statusCode)

	default:
		return retry.Unrecoverable(fmt.Errorf("unexpected status code %d", statusCode))
	}

	return nil
}
