package billingapi

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// Error is a non-2xx answer from the billing service.
type Error struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *Error) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("billing api: %d %s: %s", e.StatusCode, e.Code, e.Message)
	}
	return fmt.Sprintf("billing api: %d: %s", e.StatusCode, e.Message)
}

func (e *Error) HTTPStatus() int   { return e.StatusCode }
func (e *Error) ErrorCode() string { return e.Code }

// errorBody is the service's error envelope, e.g.
// {"error": "Subscription already cancelled", "code": "already_cancelled"}.
type errorBody struct {
	Error   string `json:"error"`
	Code    string `json:"code"`
	Details any    `json:"details"`
}

func decodeError(resp *http.Response) *Error {
	e := &Error{StatusCode: resp.StatusCode}

	b, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	var body errorBody
	if err := json.Unmarshal(b, &body); err == nil {
		e.Code = strings.TrimSpace(body.Code)
		e.Message = body.Error
		if d, ok := body.Details.(string); ok && d != "" {
			e.Message = strings.TrimSpace(e.Message + ": " + d)
		}
	}
	if e.Message == "" {
		e.Message = http.StatusText(resp.StatusCode)
	}
	return e
}
