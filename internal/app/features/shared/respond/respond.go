// Package respond writes the JSON envelopes shared by every feature
// handler: {data, message} on success, the apperr envelope on failure.
package respond

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/tripnest/tripnest/internal/app/system/apperr"
)

// JSON writes v with the given status.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// Data writes the standard success envelope {data, message}.
func Data(w http.ResponseWriter, status int, data any, message string) {
	JSON(w, status, map[string]any{"data": data, "message": message})
}

// NoContent writes a bare 204. Listing endpoints use it when the
// filtered set is empty, distinguishing "nothing visible" from an
// empty page of a non-empty set.
func NoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}

// Error logs err when it is unclassified and writes the apperr JSON
// envelope with the status mapped from its kind.
func Error(w http.ResponseWriter, log *zap.Logger, err error) {
	if apperr.KindOf(err) == apperr.Internal && log != nil {
		log.Error("request failed", zap.Error(err))
	}
	apperr.WriteJSON(w, err)
}
