package model

import (
	"time"

	"github.com/shopspring/decimal"
)

func init() {
	// Prices travel as JSON numbers, not strings.
	decimal.MarshalJSONWithoutQuotes = true
}

// Item is an inventory record. Only Quantity changes after creation.
type Item struct {
	ID          int64           `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	CategoryID  *int64          `json:"category_id"`
	SupplierID  *int64          `json:"supplier_id"`
	LocationID  *int64          `json:"location_id"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	CreatedAt   time.Time       `json:"created_at"`

	// Joined fields, nil when the reference is unset or unresolved.
	CategoryName *string `json:"category_name"`
	SupplierName *string `json:"supplier_name"`
	LocationName *string `json:"location_name"`
}

// NewItem holds the caller-supplied fields of an item to be created.
type NewItem struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	CategoryID  *int64          `json:"category_id"`
	SupplierID  *int64          `json:"supplier_id"`
	LocationID  *int64          `json:"location_id"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
}

// Ref returns the reference id the item holds for kind.
func (n NewItem) Ref(kind ReferenceKind) *int64 {
	switch kind {
	case KindCategory:
		return n.CategoryID
	case KindSupplier:
		return n.SupplierID
	case KindLocation:
		return n.LocationID
	}
	return nil
}
