package controllers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"inkpress/app/services"
)

// envelope is the JSON response shape shared by every endpoint.
type envelope struct {
	Message string      `json:"message"`
	Data    interface{} `json:"data"`
	Errors  interface{} `json:"errors"`
}

// sendJSON writes a success envelope.
func sendJSON(w http.ResponseWriter, status int, message string, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(envelope{Message: message, Data: data})
}

// sendError maps a service error onto a transport status and writes an
// error envelope. The taxonomy is discriminated, so a policy denial can
// never surface as a not-found and vice versa.
func sendError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, services.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, services.ErrAuthFailed):
		status = http.StatusUnauthorized
	case errors.Is(err, services.ErrConflict):
		status = http.StatusConflict
	case errors.Is(err, services.ErrInvalidState):
		status = http.StatusBadRequest
	case errors.Is(err, services.ErrDependency):
		status = http.StatusInternalServerError
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(envelope{
		Message: err.Error(),
		Errors:  map[string]string{"error": err.Error()},
	})
}

// pathID parses a numeric path variable.
func pathID(r *http.Request, name string) (int, error) {
	id, err := strconv.Atoi(mux.Vars(r)[name])
	if err != nil {
		return 0, errors.New("invalid id")
	}
	return id, nil
}

// decodeBody decodes a JSON request body.
func decodeBody(r *http.Request, v interface{}) error {
	return json.NewDecoder(r.Body).Decode(v)
}
