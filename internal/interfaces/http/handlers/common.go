// Package handlers implements the HTTP handlers of the layout API. Every
// response uses the common.APIResponse envelope.
package handlers

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/turtacn/molsdg/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/molsdg/pkg/errors"
	"github.com/turtacn/molsdg/pkg/types/common"
)

// DefaultMaxBodySize bounds request bodies when no limit is configured.
const DefaultMaxBodySize int64 = 1 << 20

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if data != nil {
		_ = json.NewEncoder(w).Encode(data)
	}
}

// writeData writes a successful envelope.
func writeData[T any](w http.ResponseWriter, r *http.Request, statusCode int, data T) {
	writeJSON(w, statusCode, common.APIResponse[T]{
		Success:   true,
		Data:      data,
		RequestID: logging.RequestIDFromContext(r.Context()),
		Timestamp: common.Now(),
	})
}

// writeAppError maps err to its HTTP status and writes a failed envelope.
// Errors without a code are masked as internal errors.
func writeAppError(w http.ResponseWriter, r *http.Request, logger logging.Logger, err error) {
	code := errors.GetCode(err)
	status := errors.HTTPStatusForCode(code)
	if status >= http.StatusInternalServerError {
		logger.WithContext(r.Context()).Error("request failed",
			logging.String("module", errors.ModuleForCode(code)),
			logging.String("code", string(code)),
			logging.Err(err),
		)
	}
	writeJSON(w, status, common.APIResponse[any]{
		Success:   false,
		Error:     common.NewErrorDetail(err),
		RequestID: logging.RequestIDFromContext(r.Context()),
		Timestamp: common.Now(),
	})
}

// decodeJSON reads a JSON body of at most limit bytes into dst.
func decodeJSON(w http.ResponseWriter, r *http.Request, limit int64, dst interface{}) error {
	if limit <= 0 {
		limit = DefaultMaxBodySize
	}
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, limit))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		var tooLarge *http.MaxBytesError
		switch {
		case errors.As(err, &tooLarge):
			return errors.InvalidParam("request body too large").WithDetailf("limit=%d", limit)
		case err == io.EOF:
			return errors.InvalidParam("request body is empty")
		default:
			return errors.InvalidParam("invalid JSON body").WithCause(err)
		}
	}
	return nil
}

//Personal.AI order the ending
