package api

import (
	"errors"
	"log/slog"
	"net/http"

	"messageapi/internal/message"
)

// Problem is an RFC 7807 error body.
type Problem struct {
	Type   string `json:"type"`
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail,omitempty"`
}

// badRequestError marks malformed client input such as an unparsable id.
type badRequestError struct {
	param string
	msg   string
}

func (e *badRequestError) Error() string {
	return e.param + ": " + e.msg
}

// statusFor maps an error to its HTTP status and a client-safe detail.
func statusFor(err error) (int, string) {
	var (
		badReq   *badRequestError
		invalid  *message.ValidationError
		conflict *message.ConflictError
	)
	switch {
	case errors.As(err, &badReq):
		return http.StatusBadRequest, badReq.Error()
	case errors.As(err, &invalid):
		return http.StatusUnprocessableEntity, invalid.Error()
	case errors.As(err, &conflict):
		return http.StatusConflict, conflict.Error()
	case errors.Is(err, message.ErrNotFound):
		return http.StatusNotFound, message.ErrNotFound.Error()
	default:
		return http.StatusInternalServerError, "An internal error occurred."
	}
}

func writeError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	status, detail := statusFor(err)
	if status >= http.StatusInternalServerError {
		logger.ErrorContext(r.Context(), "Request failed",
			"method", r.Method,
			"path", r.URL.Path,
			"error", err,
		)
	}
	writeProblem(w, status, detail)
}

func writeProblem(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, contentTypeProblem, Problem{
		Type:   "about:blank",
		Title:  http.StatusText(status),
		Status: status,
		Detail: detail,
	})
}
