// internal/controller/respond.go
package controller

import (
	"encoding/json"
	"errors"
	"log"
	"net"
	"net/http"
	"strings"

	appErrors "github.com/unclebandit/qrtrack-backend/internal/errors"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeServiceError maps the service error kinds onto status codes.
// Backend failures get a generic body; detail stays in the server log.
func writeServiceError(w http.ResponseWriter, err error) {
	var validation *appErrors.ErrValidation
	var notFound *appErrors.ErrCampaignNotFound

	switch {
	case errors.As(err, &validation):
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": validation.Error()})
	case errors.As(err, &notFound):
		writeJSON(w, http.StatusNotFound, map[string]string{"error": notFound.Error()})
	default:
		log.Println("internal error:", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
	}
}

// clientIP prefers the first X-Forwarded-For hop, falling back to the
// peer address with the port stripped.
func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		return strings.TrimSpace(strings.Split(fwd, ",")[0])
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}
