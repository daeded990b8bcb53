package mux

import (
	"net/http"

	"github.com/vitalvas/flute/jsonengine"
)

// ResponseJSON encodes v with the default JSON engine and writes it to the
// response with the given status code. The Content-Type header is set to
// "application/json". If encoding fails, an HTTP 500 Internal Server Error
// is written instead.
func ResponseJSON(w http.ResponseWriter, code int, v any) {
	if err := writeJSON(w, jsonengine.Default, code, v); err != nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}

// writeJSON serializes before writing anything, so a failed encoding leaves
// the response untouched.
func writeJSON(w http.ResponseWriter, engine jsonengine.Engine, code int, v any) error {
	data, err := engine.Serialize(v)
	if err != nil {
		return err
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(data)
	return nil
}
