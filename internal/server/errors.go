package server

import (
	"net/http"
	"strings"

	"forummini/internal/util"
	"forummini/pkg/domain"
)

const (
	codeNotFound       = "NOT_FOUND"
	codeValidation     = "VALIDATION_FAILED"
	codePersistence    = "PERSISTENCE_FAILURE"
	codeInternal       = "SYSTEM_INTERNAL_ERROR"
	codeInvalidRequest = "INVALID_REQUEST"
	codeRateLimited    = "RATE_LIMITED"
)

type errorResponse struct {
	Error      string `json:"error"`
	StatusCode int    `json:"statusCode"`
	Code       string `json:"code"`
	RequestID  string `json:"requestId,omitempty"`
}

type errorMapping struct {
	status int
	code   string
}

// statusByKind is the only place error kinds become HTTP statuses.
var statusByKind = map[domain.Kind]errorMapping{
	domain.KindNotFound:    {http.StatusNotFound, codeNotFound},
	domain.KindValidation:  {http.StatusBadRequest, codeValidation},
	domain.KindPersistence: {http.StatusInternalServerError, codePersistence},
	domain.KindUnknown:     {http.StatusInternalServerError, codeInternal},
}

func mappingFor(kind domain.Kind) errorMapping {
	if m, ok := statusByKind[kind]; ok {
		return m
	}
	return statusByKind[domain.KindUnknown]
}

func writeError(w http.ResponseWriter, status int, code, msg string) {
	writeJSON(w, status, errorResponse{
		Error:      msg,
		StatusCode: status,
		Code:       code,
		RequestID:  strings.TrimSpace(w.Header().Get(util.RequestIDHeader)),
	})
}

func writeBadRequest(w http.ResponseWriter, msg string) {
	writeError(w, http.StatusBadRequest, codeInvalidRequest, msg)
}

// writeAppError maps err through statusByKind. Server errors are logged
// with their detail and answered with a generic message.
func writeAppError(w http.ResponseWriter, r *http.Request, err error) {
	m := mappingFor(domain.KindOf(err))
	msg := err.Error()
	if m.status >= http.StatusInternalServerError {
		util.LoggerFromContext(r.Context()).Error("request failed", "path", r.URL.Path, "err", err)
		msg = "internal error"
	}
	writeError(w, m.status, m.code, msg)
}
