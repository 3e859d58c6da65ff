package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"parcel-routing-service/internal/domain"
	"strings"
	"time"
)

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("encode failed: method=%s path=%s err=%v", r.Method, r.URL.Path, err)
	}
}

func writeError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	writeJSON(w, r, status, map[string]string{"error": msg})
}

// writeDomainError maps the error taxonomy onto HTTP statuses.
func writeDomainError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, r, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrInvalidInput):
		writeError(w, r, http.StatusBadRequest, err.Error())
	default:
		log.Printf("request failed: method=%s path=%s err=%v", r.Method, r.URL.Path, err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
	}
}

func allowGet(w http.ResponseWriter, r *http.Request) bool {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return false
	}
	return true
}

// Clock resolves the "at" query parameter ("10:25", "1:12 PM") onto the
// service day. Requests without it use Default.
type Clock struct {
	Day     time.Time
	Default time.Time
}

func (c Clock) at(r *http.Request) (time.Time, error) {
	q := strings.TrimSpace(r.URL.Query().Get("at"))
	if q == "" {
		return c.Default, nil
	}
	return domain.At(c.Day, q)
}

// Locations names matrix indices in responses.
type Locations interface {
	Address(i int) string
}

func addressOf(l Locations, i int) string {
	if l == nil {
		return ""
	}
	return l.Address(i)
}
