package middleware

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/mpurwadi/tdi-main-app-employee-sub000/pkg/validator"
)

// BindJSON decodes and validates a fresh T for every request before calling
// next. An empty body decodes to the zero T.
func BindJSON[T any](next func(w http.ResponseWriter, r *http.Request, body T)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body T
		if r.Body != nil && r.ContentLength != 0 {
			dec := json.NewDecoder(r.Body)
			dec.DisallowUnknownFields()
			if err := dec.Decode(&body); err != nil && !errors.Is(err, io.EOF) {
				http.Error(w, "Invalid JSON", http.StatusBadRequest)
				return
			}
		}

		if err := validator.ValidateStruct(body); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		next(w, r, body)
	}
}
