package daemon

import (
	"encoding/json"
	"errors"
	"net/http"
)

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

func writeServiceError(w http.ResponseWriter, err error) {
	if err == nil {
		return
	}
	status := http.StatusInternalServerError
	message := "internal error"
	var svcErr *ServiceError
	if errors.As(err, &svcErr) {
		status = serviceErrorStatus(svcErr.Kind)
		message = svcErr.Error()
		if svcErr.Message != "" {
			message = svcErr.Message
		}
	}
	writeError(w, status, message)
}

func serviceErrorStatus(kind ServiceErrorKind) int {
	switch kind {
	case ServiceErrorInvalid:
		return http.StatusBadRequest
	case ServiceErrorUnauthorized:
		return http.StatusUnauthorized
	case ServiceErrorForbidden:
		return http.StatusForbidden
	case ServiceErrorNotFound:
		return http.StatusNotFound
	case ServiceErrorConflict:
		return http.StatusConflict
	case ServiceErrorUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func decodeJSONBody(w http.ResponseWriter, r *http.Request, out any) error {
	if r.Body == nil {
		return invalidError("request body is required", nil)
	}
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBodyBytes))
	if err := dec.Decode(out); err != nil {
		return invalidError("invalid json body", err)
	}
	return nil
}

const maxRequestBodyBytes = 1 << 20
