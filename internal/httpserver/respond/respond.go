// Package respond writes JSON bodies and the shared error envelope.
package respond

import (
	"encoding/json"
	"net/http"

	"github.com/aTrapDeer/portfolio-backend/internal/apperr"
	"github.com/aTrapDeer/portfolio-backend/internal/logger"
)

type errorBody struct {
	Error *apperr.Error `json:"error"`
	Input any           `json:"input,omitempty"`
}

func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// Error renders err as {"error": {...}}. Unknown errors become a 500 and are
// logged; their text never reaches the client.
func Error(w http.ResponseWriter, log logger.Logger, err error) {
	WithInput(w, log, err, nil)
}

// WithInput is Error plus the submitted input echoed back, so forms can be
// refilled after a rejected write.
func WithInput(w http.ResponseWriter, log logger.Logger, err error, input any) {
	e := apperr.From(err)
	if e.Status >= http.StatusInternalServerError {
		log.Error("request failed", logger.String("code", string(e.Code)), logger.Error(err))
	}
	if e.Code != apperr.CodeValidation && e.Code != apperr.CodeSlugTaken {
		input = nil
	}
	JSON(w, e.Status, errorBody{Error: e, Input: input})
}
