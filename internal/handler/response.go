package handler

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/rescuelink/api/internal/service"
	"github.com/rescuelink/api/internal/validation"
)

const maxBodyBytes = 1 << 20

// Response is the envelope every endpoint answers with.
type Response struct {
	Success bool                    `json:"success"`
	Message string                  `json:"message"`
	Data    any                     `json:"data,omitempty"`
	Results *int                    `json:"results,omitempty"`
	Errors  []validation.FieldError `json:"errors,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, body Response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func respond(w http.ResponseWriter, status int, message string, data any) {
	writeJSON(w, status, Response{Success: true, Message: message, Data: data})
}

// respondList adds the result count next to the data.
func respondList[T any](w http.ResponseWriter, message string, items []T) {
	if items == nil {
		items = []T{}
	}
	n := len(items)
	writeJSON(w, http.StatusOK, Response{Success: true, Message: message, Data: items, Results: &n})
}

// statusFor maps a service error kind to its HTTP status.
func statusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrValidation), errors.Is(err, service.ErrReference):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, service.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, service.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, service.ErrUnavailable):
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

// respondError writes the failure envelope. Unclassified causes are logged, never sent.
func respondError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)

	body := Response{Message: "Internal server error"}
	var serr *service.Error
	if errors.As(err, &serr) {
		body.Errors = serr.Fields
		if status != http.StatusInternalServerError {
			body.Message = serr.Message()
		}
	}

	if status >= http.StatusInternalServerError {
		slog.Error("request failed", "error", err, "method", r.Method, "path", r.URL.Path)
	} else {
		slog.Debug("request rejected", "error", err, "status", status, "path", r.URL.Path)
	}

	writeJSON(w, status, body)
}

// decodeJSON reads a JSON body into dst. An empty body leaves dst untouched.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	err := json.NewDecoder(r.Body).Decode(dst)
	if err == nil || errors.Is(err, io.EOF) {
		return nil
	}

	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		return service.ValidationError([]validation.FieldError{{Field: "body", Message: "request body is too large"}})
	}
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field != "" {
		return service.ValidationError([]validation.FieldError{{Field: typeErr.Field, Message: typeErr.Field + " has the wrong type"}})
	}
	return service.ValidationError([]validation.FieldError{{Field: "body", Message: "request body must be valid JSON"}})
}

// queryFloat parses an optional float query parameter.
func queryFloat(r *http.Request, key string, fields *[]validation.FieldError) *float64 {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		*fields = append(*fields, validation.FieldError{Field: key, Message: key + " must be a number"})
		return nil
	}
	return &v
}

// queryInt parses an optional integer query parameter.
func queryInt(r *http.Request, key string, fields *[]validation.FieldError) *int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		*fields = append(*fields, validation.FieldError{Field: key, Message: key + " must be an integer"})
		return nil
	}
	return &v
}

// pageFromQuery reads limit and offset from the query string.
func pageFromQuery(r *http.Request) (service.PageInput, error) {
	var fields []validation.FieldError
	in := service.PageInput{
		Limit:  queryInt(r, "limit", &fields),
		Offset: queryInt(r, "offset", &fields),
	}
	if len(fields) > 0 {
		return in, service.ValidationError(fields)
	}
	return in, nil
}

// nearbyFromRequest reads search parameters from the query string, then lets a JSON body override them.
func nearbyFromRequest(w http.ResponseWriter, r *http.Request) (service.NearbyInput, error) {
	var fields []validation.FieldError
	in := service.NearbyInput{
		Latitude:     queryFloat(r, "latitude", &fields),
		Longitude:    queryFloat(r, "longitude", &fields),
		RadiusMeters: queryFloat(r, "radius", &fields),
		Limit:        queryInt(r, "limit", &fields),
		Offset:       queryInt(r, "offset", &fields),
	}
	if len(fields) > 0 {
		return in, service.ValidationError(fields)
	}

	if err := decodeJSON(w, r, &in); err != nil {
		return in, err
	}
	return in, nil
}
