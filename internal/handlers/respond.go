package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"strconv"

	"intake-backend/internal/apperrors"

	"github.com/go-chi/chi/v5"
)

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// errorBody shapes a failure message into the envelope an endpoint answers with.
type errorBody func(message string) interface{}

// plainError is {"error": msg}, used by the scheme service's read endpoints.
func plainError(message string) interface{} {
	return map[string]string{"error": message}
}

// successError is {"success": false, "error": msg}.
func successError(message string) interface{} {
	return map[string]interface{}{"success": false, "error": message}
}

// successMessage is {"success": false, "message": msg}, the feedback service shape.
func successMessage(message string) interface{} {
	return map[string]interface{}{"success": false, "message": message}
}

// writeError answers with the status of err's classification. Unclassified
// errors are store failures.
func writeError(w http.ResponseWriter, err error, body errorBody) {
	writeJSON(w, apperrors.HTTPStatus(err), body(err.Error()))
}

func send404(w http.ResponseWriter) {
	http.Error(w, "Not Found", http.StatusNotFound)
}

// pathID parses a positive integer route parameter.
func pathID(r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// FlexibleID accepts a JSON number or a numeric string; HTML forms post
// select values as strings.
type FlexibleID int64

func (f *FlexibleID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) || bytes.Equal(data, []byte(`""`)) {
		*f = 0
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	v, err := n.Int64()
	if err != nil {
		return err
	}
	*f = FlexibleID(v)
	return nil
}

// FlexibleString accepts a JSON string or number and keeps its text form.
type FlexibleString string

func (f *FlexibleString) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*f = FlexibleString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*f = FlexibleString(n.String())
	return nil
}
