package api

import (
	"database/sql"
	"net/http"
)

// HealthHandler reports whether the database is reachable.
type HealthHandler struct {
	DB *sql.DB
}

// Check handles GET /api/health.
func (h *HealthHandler) Check(w http.ResponseWriter, r *http.Request) {
	if err := h.DB.PingContext(r.Context()); err != nil {
		internalError(w, r, "database ping failed", err)
		return
	}
	jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}
