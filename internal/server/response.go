package server

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
)

type errorResponse struct {
	Error  string  `json:"error"`
	Points float64 `json:"points"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError always reports zero points alongside the message.
func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

func bytesReader(b []byte) io.Reader {
	return bytes.NewReader(b)
}
