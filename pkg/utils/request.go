package utils

import (
	"encoding/json"
	"errors"
	"io"
	"mime"
	"net/http"
)

const maxBodyBytes = 1 << 20

var (
	errNotJSON    = errors.New("Content-Type header is not application/json")
	errEmptyBody  = errors.New("request body is empty")
	errExtraInput = errors.New("request body must contain a single JSON object")
)

// DecodeJSONBody reads exactly one JSON object into dst, rejecting unknown
// fields. The returned status is meant for the error response.
func DecodeJSONBody(w http.ResponseWriter, r *http.Request, dst interface{}) (int, error) {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil || mediaType != "application/json" {
		return http.StatusUnsupportedMediaType, errNotJSON
	}

	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		var tooLarge *http.MaxBytesError
		switch {
		case errors.Is(err, io.EOF):
			return http.StatusBadRequest, errEmptyBody
		case errors.As(err, &tooLarge):
			return http.StatusRequestEntityTooLarge, err
		default:
			return http.StatusBadRequest, err
		}
	}

	if dec.More() {
		return http.StatusBadRequest, errExtraInput
	}

	return http.StatusOK, nil
}
