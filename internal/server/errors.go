package server

import (
	"encoding/json"
	"net/http"

	merr "github.com/matzehuels/meru/pkg/errors"
)

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// statusFor maps an error code to an HTTP status.
func statusFor(code merr.Code) int {
	switch code {
	case merr.ErrCodeInvalidArgument, merr.ErrCodeInvalidFormat, merr.ErrCodeInvalidKind,
		merr.ErrCodeInvalidConfig, merr.ErrCodeInvalidPath:
		return http.StatusBadRequest
	case merr.ErrCodeSizeMismatch:
		return http.StatusUnprocessableEntity
	case merr.ErrCodeNotFound:
		return http.StatusNotFound
	case merr.ErrCodeUnsupported:
		return http.StatusNotImplemented
	default:
		return http.StatusInternalServerError
	}
}

// writeError sends err as a JSON error body. Errors without a code are
// reported as internal and their message is not exposed.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	code := merr.GetCode(err)
	status := statusFor(code)
	body := errorBody{Code: string(code), Message: merr.UserMessage(err)}
	if code == "" {
		body = errorBody{Code: string(merr.ErrCodeInternal), Message: "internal error"}
	}
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "path", r.URL.Path, "error", err)
	}
	writeJSON(w, status, body)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
