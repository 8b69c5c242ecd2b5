package contributions

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"log/slog"

	"github.com/google/uuid"

	"civicadmin/internal/auth"
)

// ListHandler serves the citizen-feedback review list. The route gate has
// already run by the time this executes; the store applies the row filter
// on top of it.
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
	filter := Filter{}
	if cid := q.Get("commune_id"); cid != "" {
		id, err := uuid.Parse(cid)
		if err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		filter.CommuneID = id
	}
	if status := q.Get("status"); status != "" {
		filter.Status = Status(status)
	}
	filter.Category = q.Get("category")
	filter.Tag = q.Get("tag")
	if sinceStr := q.Get("since"); sinceStr != "" {
		if t, err := time.Parse(time.RFC3339, sinceStr); err == nil {
			filter.Since = t
		}
	}
	if limitStr := q.Get("limit"); limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil {
			filter.Limit = l
		}
	}

	list, err := h.Store.List(r.Context(), user, filter)
	if err != nil {
		h.Logger.Error("list contributions", "err", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	if list == nil {
		list = []Contribution{}
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(list)
}
