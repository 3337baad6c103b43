package utils

import (
	"encoding/json"
	"net/http"
)

func WriteJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func NotFound(w http.ResponseWriter, msg string) {
	WriteJSON(w, http.StatusNotFound, map[string]string{"error": msg})
}

func InternalError(w http.ResponseWriter, err error) {
	WriteJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
}
