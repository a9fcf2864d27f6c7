package utils

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/clientspot/clientspot/shared/errors"
	"github.com/clientspot/clientspot/shared/logger"
	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// WriteErrorAndStatusCode writes tagged errors with their own status and message.
// Anything else is logged and reported as a bare 500.
func WriteErrorAndStatusCode(w http.ResponseWriter, err error) {
	var e *errors.ErrorWithStatusCode
	if errors.As(err, &e) {
		if e.Detail != "" {
			logger.Log.Debug("request failed", "kind", e.Kind.String(), "message", e.Message, "detail", e.Detail)
		}
		if e.Kind == errors.KindUpstream {
			logger.Log.Error("upstream failure", "detail", e.Detail)
		}
		http.Error(w, e.Message, e.StatusCode)
		return
	}
	logger.Log.Error("internal error", "error", err)
	http.Error(w, "Internal server error", http.StatusInternalServerError)
}

func WriteJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logger.Log.Error("failed to encode response", "error", err)
	}
}

func DecodeValidate(r io.ReadCloser, body any) error {
	if err := Decode(r, body); err != nil {
		return err
	}
	if err := validate.Struct(body); err != nil {
		logger.Log.Debug("request validation failed", "error", err)
		return errors.Validation("Required fields missing")
	}
	return nil
}

func Decode(r io.ReadCloser, body any) error {
	if err := json.NewDecoder(r).Decode(body); err != nil {
		logger.Log.Debug("request body is not json", "error", err)
		return errors.Validation("Body is invalid json")
	}
	return nil
}
