package client

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erazemk/zaloga/internal/api"
	"github.com/erazemk/zaloga/internal/auth"
	"github.com/erazemk/zaloga/internal/db"
	"github.com/erazemk/zaloga/internal/model"
)

func newTestClient(t *testing.T, opts api.Options, clientOpts ...Option) *Client {
	t.Helper()
	database := db.NewSeededTestDB(t)
	server := httptest.NewServer(api.NewRouter(database, opts))
	t.Cleanup(server.Close)
	return New(server.URL+"/", clientOpts...)
}

func int64Ptr(v int64) *int64 { return &v }

func TestClientItemLifecycle(t *testing.T) {
	c := newTestClient(t, api.Options{})
	ctx := t.Context()

	id, err := c.CreateItem(ctx, model.NewItem{
		Name:       "Widget",
		CategoryID: int64Ptr(1),
		Quantity:   3,
		UnitPrice:  decimal.RequireFromString("2.50"),
	})
	require.NoError(t, err)
	assert.Positive(t, id)

	item, err := c.GetItem(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Widget", item.Name)
	assert.Equal(t, 3, item.Quantity)
	assert.True(t, item.UnitPrice.Equal(decimal.RequireFromString("2.5")))
	require.NotNil(t, item.CategoryName)
	assert.Equal(t, "Electronics", *item.CategoryName)
	assert.Nil(t, item.SupplierName)

	require.NoError(t, c.UpdateItemQuantity(ctx, id, 10))
	items, err := c.ListItems(ctx)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, 10, items[0].Quantity)

	require.NoError(t, c.DeleteItem(ctx, id))
	_, err = c.GetItem(ctx, id)
	assert.True(t, IsNotFound(err))

	err = c.DeleteItem(ctx, id)
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusNotFound, apiErr.Status)
	assert.Equal(t, "Item not found", apiErr.Message)
}

func TestClientListReferences(t *testing.T) {
	c := newTestClient(t, api.Options{})

	for _, kind := range model.ReferenceKinds {
		entries, err := c.ListReferences(t.Context(), kind)
		require.NoError(t, err, kind)
		assert.NotEmpty(t, entries, kind)
	}

	_, err := c.ListReferences(t.Context(), model.ReferenceKind("colour"))
	assert.Error(t, err)
}

func TestClientValidationError(t *testing.T) {
	c := newTestClient(t, api.Options{})

	_, err := c.CreateItem(t.Context(), model.NewItem{Name: "Ghost", LocationID: int64Ptr(999)})
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.Status)
	assert.NotEmpty(t, apiErr.Message)

	items, err := c.ListItems(t.Context())
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestClientToken(t *testing.T) {
	const secret = "client-secret"
	opts := api.Options{JWTSecret: secret}

	anon := newTestClient(t, opts)
	_, err := anon.CreateItem(t.Context(), model.NewItem{Name: "Widget"})
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnauthorized, apiErr.Status)

	token, err := auth.GenerateToken(secret, "test", auth.ScopeWrite, time.Hour)
	require.NoError(t, err)
	authed := newTestClient(t, opts, WithToken(token))
	_, err = authed.CreateItem(t.Context(), model.NewItem{Name: "Widget"})
	require.NoError(t, err)
}
