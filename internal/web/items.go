package web

import (
	"log/slog"
	"net/http"

	"github.com/erazemk/zaloga/internal/model"
	"github.com/erazemk/zaloga/internal/store"
)

// Index handles GET /. The item table and selectors are rendered on the
// server; static/app.js takes over once loaded.
func (s *Server) Index(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	data := PageData{Title: "Inventory", AuthEnabled: s.AuthEnabled}

	items, err := store.ListItems(ctx, s.DB)
	if err != nil {
		slog.Error("failed to list items", "error", err)
		data.Error = "Could not load items."
	}

	refs := make(map[model.ReferenceKind][]model.ReferenceEntry, len(model.ReferenceKinds))
	for _, kind := range model.ReferenceKinds {
		entries, err := store.ListReferences(ctx, s.DB, kind)
		if err != nil {
			slog.Error("failed to list reference data", "kind", kind, "error", err)
			data.Error = "Could not load " + kind.Table() + "."
			continue
		}
		refs[kind] = entries
	}

	s.Templates.Render(w, "index.html", &struct {
		PageData
		Items      []model.Item
		References map[model.ReferenceKind][]model.ReferenceEntry
		Kinds      []model.ReferenceKind
	}{
		PageData:   data,
		Items:      items,
		References: refs,
		Kinds:      model.ReferenceKinds,
	})
}
