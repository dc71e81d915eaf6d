package gateway

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/google/go-github/v62/github"
)

// TransportError reports a request that never reached the API or never returned.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("GitHub API request failed: %v", e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// HTTPError reports a response with a non-successful status code.
type HTTPError struct {
	Status int
	Body   string
}

func (e *HTTPError) Error() string {
	body := e.Body
	if body == "" {
		body = http.StatusText(e.Status)
	}
	return fmt.Sprintf("GitHub API %d: %s", e.Status, body)
}

// DecodeError reports a successful response whose body was not valid JSON.
// It reads like an HTTPError so callers can surface either the same way.
type DecodeError struct {
	Status int
	Err    error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("GitHub API %d: malformed JSON: %v", e.Status, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// As lets errors.As match a DecodeError as an *HTTPError.
func (e *DecodeError) As(target any) bool {
	httpErr, ok := target.(**HTTPError)
	if !ok {
		return false
	}
	*httpErr = &HTTPError{Status: e.Status, Body: fmt.Sprintf("malformed JSON: %v", e.Err)}
	return true
}

// IsNotFound reports whether err carries a 404 response.
func IsNotFound(err error) bool {
	var httpErr *HTTPError
	return errors.As(err, &httpErr) && httpErr.Status == http.StatusNotFound
}

// classify maps the result of github.Client.Do onto the gateway error taxonomy.
func classify(resp *github.Response, err error) error {
	if err == nil {
		return nil
	}
	if resp == nil || resp.Response == nil {
		return &TransportError{Err: err}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &HTTPError{Status: resp.StatusCode, Body: errorMessage(err)}
	}
	var accepted *github.AcceptedError
	if errors.As(err, &accepted) {
		return &HTTPError{Status: resp.StatusCode, Body: string(accepted.Raw)}
	}
	return &DecodeError{Status: resp.StatusCode, Err: err}
}

func errorMessage(err error) string {
	var errResp *github.ErrorResponse
	if errors.As(err, &errResp) {
		return errResp.Message
	}
	var rateErr *github.RateLimitError
	if errors.As(err, &rateErr) {
		return rateErr.Message
	}
	var abuseErr *github.AbuseRateLimitError
	if errors.As(err, &abuseErr) {
		return abuseErr.Message
	}
	return ""
}
