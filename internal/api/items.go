package api

import (
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/erazemk/zaloga/internal/model"
	"github.com/erazemk/zaloga/internal/store"
)

// ItemsHandler handles item endpoints.
type ItemsHandler struct {
	DB *sql.DB
}

type createItemResponse struct {
	Message string `json:"message"`
	ID      int64  `json:"id"`
}

type updateQuantityRequest struct {
	Quantity *int `json:"quantity"`
}

// List handles GET /api/items.
func (h *ItemsHandler) List(w http.ResponseWriter, r *http.Request) {
	items, err := store.ListItems(r.Context(), h.DB)
	if err != nil {
		internalError(w, r, "failed to list items", err)
		return
	}
	jsonResponse(w, http.StatusOK, nonNil(items))
}

// Get handles GET /api/items/{id}.
func (h *ItemsHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := itemID(w, r)
	if !ok {
		return
	}

	item, err := store.GetItem(r.Context(), h.DB, id)
	if errors.Is(err, store.ErrNotFound) {
		jsonError(w, http.StatusNotFound, msgItemNotFound)
		return
	}
	if err != nil {
		internalError(w, r, "failed to get item", err)
		return
	}
	jsonResponse(w, http.StatusOK, item)
}

// Create handles POST /api/items.
func (h *ItemsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req model.NewItem
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	item, err := store.CreateItem(r.Context(), h.DB, req)
	var verr *store.ValidationError
	if errors.As(err, &verr) {
		jsonError(w, http.StatusBadRequest, verr.Message)
		return
	}
	if err != nil {
		internalError(w, r, "failed to create item", err)
		return
	}

	slog.Info("item created", "client", clientName(r.Context()), "item", item.Name, "id", item.ID)
	jsonResponse(w, http.StatusCreated, createItemResponse{
		Message: "Item added successfully",
		ID:      item.ID,
	})
}

// UpdateQuantity handles PATCH /api/items/{id}/quantity.
func (h *ItemsHandler) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	id, ok := itemID(w, r)
	if !ok {
		return
	}

	var req updateQuantityRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Quantity == nil {
		jsonError(w, http.StatusBadRequest, "quantity required")
		return
	}
	if *req.Quantity < 0 {
		jsonError(w, http.StatusBadRequest, "quantity must not be negative")
		return
	}

	err := store.UpdateItemQuantity(r.Context(), h.DB, id, *req.Quantity)
	if errors.Is(err, store.ErrNotFound) {
		jsonError(w, http.StatusNotFound, msgItemNotFound)
		return
	}
	if err != nil {
		internalError(w, r, "failed to update quantity", err)
		return
	}

	slog.Info("quantity updated", "client", clientName(r.Context()), "id", id, "quantity", *req.Quantity)
	jsonResponse(w, http.StatusOK, map[string]string{"message": "Quantity updated successfully"})
}

// Delete handles DELETE /api/items/{id}.
func (h *ItemsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := itemID(w, r)
	if !ok {
		return
	}

	err := store.DeleteItem(r.Context(), h.DB, id)
	if errors.Is(err, store.ErrNotFound) {
		jsonError(w, http.StatusNotFound, msgItemNotFound)
		return
	}
	if err != nil {
		internalError(w, r, "failed to delete item", err)
		return
	}

	slog.Info("item deleted", "client", clientName(r.Context()), "id", id)
	jsonResponse(w, http.StatusOK, map[string]string{"message": "Item deleted successfully"})
}

// itemID parses the {id} path value, writing a 400 when it is not a number.
func itemID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid item id")
		return 0, false
	}
	return id, true
}
