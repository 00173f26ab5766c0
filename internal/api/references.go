package api

import (
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/erazemk/zaloga/internal/cache"
	"github.com/erazemk/zaloga/internal/model"
	"github.com/erazemk/zaloga/internal/store"
)

// ReferencesHandler serves the read-only lookup tables.
type ReferencesHandler struct {
	DB    *sql.DB
	Cache cache.Cache
}

// List returns the handler for GET /api/{categories,suppliers,locations}.
func (h *ReferencesHandler) List(kind model.ReferenceKind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		if h.Cache != nil {
			entries, ok, err := h.Cache.Get(ctx, kind)
			if err != nil {
				slog.Warn("reference cache read failed", "kind", kind, "error", err, "request_id", RequestID(ctx))
			} else if ok {
				jsonResponse(w, http.StatusOK, nonNil(entries))
				return
			}
		}

		entries, err := store.ListReferences(ctx, h.DB, kind)
		if err != nil {
			internalError(w, r, "failed to list "+kind.Table(), err)
			return
		}

		if h.Cache != nil {
			if err := h.Cache.Set(ctx, kind, entries); err != nil {
				slog.Warn("reference cache write failed", "kind", kind, "error", err, "request_id", RequestID(ctx))
			}
		}
		jsonResponse(w, http.StatusOK, nonNil(entries))
	}
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
