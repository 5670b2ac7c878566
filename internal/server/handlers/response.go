// internal/server/handlers/response.go

package handlers

import (
	"net/http"

	"github.com/goccy/go-json"

	"localfeed/internal/logging"
)

// maxBodyBytes bounds request bodies accepted by JSON endpoints
const maxBodyBytes = 10 << 20

// Helper for JSON responses
func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		logging.Error().Err(err).Msg("failed to marshal response")
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("Failed to marshal response"))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}

// Helper for error responses
func respondWithError(w http.ResponseWriter, code int, message string, err error) {
	response := map[string]string{"error": message}

	if err != nil {
		if code >= 500 {
			logging.Error().Err(err).Int("code", code).Str("message", message).Msg("HTTP error")
		} else {
			response["detail"] = err.Error()
		}
	}

	jsonResponse, _ := json.Marshal(response)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(jsonResponse)
}

// decodeBody decodes a bounded JSON request body into v
func decodeBody(w http.ResponseWriter, r *http.Request, v interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	return json.NewDecoder(r.Body).Decode(v)
}
