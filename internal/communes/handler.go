package communes

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"log/slog"

	"github.com/google/uuid"

	"civicadmin/internal/auth"
)

type ListHandler struct {
	Store  *Store
	Logger *slog.Logger
}

func (h *ListHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		w.WriteHeader(http.StatusUnauthorized)
		return
	}

	q := r.URL.Query()
	filter := ListFilter{}
	if pub := q.Get("published"); pub != "" {
		b := pub == "true"
		filter.Published = &b
	}
	if limitStr := q.Get("limit"); limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil {
			filter.Limit = l
		}
	}

	list, err := h.Store.List(r.Context(), user, filter)
	if err != nil {
		h.Logger.Error("list communes", "err", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	if list == nil {
		list = []Commune{}
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(list)
}

// SettingsHandler serves the affiliated commune for municipal principals.
// Principals without a commune affiliation have nothing to see here.
type SettingsHandler struct {
	Store  *Store
	Logger *slog.Logger
}

func (h *SettingsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		w.WriteHeader(http.StatusUnauthorized)
		return
	}
	if user.CommuneID == nil {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	commune, err := h.Store.GetByID(r.Context(), user, *user.CommuneID)
	if err != nil {
		if errors.Is(err, ErrNotVisible) {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		h.Logger.Error("get commune settings", "err", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(commune)
}

type DetailHandler struct {
	Store  *Store
	Logger *slog.Logger
}

func (h *DetailHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		w.WriteHeader(http.StatusUnauthorized)
		return
	}

	// Path is /api/communes/{id}
	parts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
	if len(parts) < 3 {
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	id, err := uuid.Parse(parts[2])
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	commune, err := h.Store.GetByID(r.Context(), user, id)
	if err != nil {
		if errors.Is(err, ErrNotVisible) {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		h.Logger.Error("get commune", "err", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(commune)
}
