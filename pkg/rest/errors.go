package rest

import (
	"errors"
	"fmt"
	"strings"
)

// APIError is returned when an administration endpoint responds with a
// non-success status.
type APIError struct {
	Method     string
	Path       string
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	body := e.Body
	if len(body) > 256 {
		body = body[:256] + "..."
	}
	return fmt.Sprintf("%s %s returned %d: %s", e.Method, e.Path, e.StatusCode, body)
}

// QueryError is returned when the query service reports one or more
// problems for a statement.
type QueryError struct {
	Statement string
	Problems  []QueryProblem
}

func (e *QueryError) Error() string {
	msgs := make([]string, 0, len(e.Problems))
	for _, p := range e.Problems {
		msgs = append(msgs, fmt.Sprintf("[%d] %s", p.Code, p.Msg))
	}
	return fmt.Sprintf("query failed: %s", strings.Join(msgs, "; "))
}

// IsDeferredBuild reports whether the error is the query service
// telling us an index build was handed off to the background. The
// creation has succeeded in that case; the caller still has to poll
// system:indexes until the index comes online.
func IsDeferredBuild(err error) bool {
	var qerr *QueryError
	if !errors.As(err, &qerr) {
		return false
	}
	for _, p := range qerr.Problems {
		if strings.Contains(strings.ToLower(p.Msg), "background") {
			return true
		}
	}
	return false
}
