package gewechat

import (
	"errors"
	"fmt"
)

// RetOK is the ret value of a successful gewechat response.
const RetOK = 200

var (
	// ErrEmptyAppID is returned when a call is made without a device app id.
	ErrEmptyAppID = errors.New("gewechat: app id is empty")
	// ErrUnexpectedData is returned when the response data field has an unexpected shape.
	ErrUnexpectedData = errors.New("gewechat: unexpected response data")
)

// APIError is returned when the server answers with a non-success ret or HTTP status.
type APIError struct {
	Route      string
	StatusCode int
	Ret        int
	Msg        string
}

func (e *APIError) Error() string {
	if e.Ret != 0 {
		return fmt.Sprintf("gewechat %s: ret=%d msg=%s", e.Route, e.Ret, e.Msg)
	}
	return fmt.Sprintf("gewechat %s: http status %d: %s", e.Route, e.StatusCode, e.Msg)
}

// IsAPIError reports whether err carries an *APIError and returns it.
func IsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}
