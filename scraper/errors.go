package scraper

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
)

// Kind labels a fetch failure.
type Kind string

const (
	KindTimeout     Kind = "timeout"
	KindConnection  Kind = "connection"
	KindForbidden   Kind = "forbidden"
	KindNotFound    Kind = "not_found"
	KindRateLimited Kind = "rate_limited"
	KindHTTPStatus  Kind = "http_status"
	KindOther       Kind = "other"
	KindUnknown     Kind = "unknown"
)

// FetchError is returned for every failed page fetch. The run treats it as
// fatal.
type FetchError struct {
	URL        string
	StatusCode int
	Kind       Kind
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("fetch %s: %s (status %d): %v", e.URL, e.Kind, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("fetch %s: %s: %v", e.URL, e.Kind, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// KindOf returns the label of a fetch failure anywhere in err's chain.
func KindOf(err error) Kind {
	if err == nil {
		return KindUnknown
	}
	var fe *FetchError
	if errors.As(err, &fe) {
		return fe.Kind
	}
	return KindOther
}

func classifyError(rawURL string, err error, statusCode int) *FetchError {
	if err == nil && statusCode == 0 {
		return nil
	}
	fe := &FetchError{URL: rawURL, StatusCode: statusCode, Err: err}
	if fe.Err == nil {
		fe.Err = fmt.Errorf("http status %d", statusCode)
	}

	var netErr net.Error
	var opErr *net.OpError
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		fe.Kind = KindTimeout
	case errors.As(err, &netErr) && netErr.Timeout():
		fe.Kind = KindTimeout
	case errors.As(err, &opErr):
		fe.Kind = KindConnection
	case statusCode == http.StatusForbidden:
		fe.Kind = KindForbidden
	case statusCode == http.StatusNotFound:
		fe.Kind = KindNotFound
	case statusCode == http.StatusTooManyRequests:
		fe.Kind = KindRateLimited
	case statusCode != 0:
		fe.Kind = KindHTTPStatus
	default:
		fe.Kind = KindOther
	}
	return fe
}
