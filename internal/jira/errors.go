package jira

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
)

// RequestFailedError indicates that no response was received from Jira:
// DNS failure, refused connection, timeout or a cancelled context.
type RequestFailedError struct {
	Method string
	URL    string
	Err    error
}

func (e *RequestFailedError) Error() string {
	return fmt.Sprintf("request %s %s failed: %v", e.Method, e.URL, e.Err)
}

func (e *RequestFailedError) Unwrap() error {
	return e.Err
}

// ServiceError indicates that Jira answered with a non-success status.
// Body is the response body, unmodified.
type ServiceError struct {
	StatusCode int
	Body       []byte

	// Messages are the human-readable entries of a standard Jira error
	// body, when the body has that shape.
	Messages []string
}

func newServiceError(status int, body []byte) *ServiceError {
	e := &ServiceError{StatusCode: status, Body: body}

	var jiraErr ErrorResponse
	if json.Unmarshal(body, &jiraErr) == nil {
		e.Messages = append(e.Messages, jiraErr.ErrorMessages...)

		fields := make([]string, 0, len(jiraErr.Errors))
		for field := range jiraErr.Errors {
			fields = append(fields, field)
		}
		sort.Strings(fields)
		for _, field := range fields {
			e.Messages = append(e.Messages,
				fmt.Sprintf("%s: %s", field, jiraErr.Errors[field]))
		}
	}

	return e
}

func (e *ServiceError) Error() string {
	if len(e.Messages) > 0 {
		return fmt.Sprintf(
			"jira API error (%d): %s",
			e.StatusCode, strings.Join(e.Messages, "; "),
		)
	}
	return fmt.Sprintf("jira API error (%d): %s", e.StatusCode, string(e.Body))
}

// IsRequestFailed reports whether err (or any error in its chain) is a
// RequestFailedError.
func IsRequestFailed(err error) bool {
	var reqErr *RequestFailedError
	return errors.As(err, &reqErr)
}

// AsServiceError returns the ServiceError in err's chain, if any.
func AsServiceError(err error) (*ServiceError, bool) {
	var svcErr *ServiceError
	if errors.As(err, &svcErr) {
		return svcErr, true
	}
	return nil, false
}
