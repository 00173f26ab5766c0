package model

import "fmt"

// ReferenceEntry is a row of one of the lookup tables items point at.
type ReferenceEntry struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// ReferenceKind names a lookup table.
type ReferenceKind string

// Reference kinds.
const (
	KindCategory ReferenceKind = "category"
	KindSupplier ReferenceKind = "supplier"
	KindLocation ReferenceKind = "location"
)

// ReferenceKinds lists every kind in display order.
var ReferenceKinds = []ReferenceKind{KindCategory, KindSupplier, KindLocation}

// Table returns the table holding entries of this kind, or "" if the kind
// is unknown.
func (k ReferenceKind) Table() string {
	switch k {
	case KindCategory:
		return "categories"
	case KindSupplier:
		return "suppliers"
	case KindLocation:
		return "locations"
	default:
		return ""
	}
}

// Field returns the item column referencing this kind.
func (k ReferenceKind) Field() string {
	return string(k) + "_id"
}

// ParseReferenceKind accepts a kind either by name or by table name.
func ParseReferenceKind(s string) (ReferenceKind, error) {
	for _, k := range ReferenceKinds {
		if s == string(k) || s == k.Table() {
			return k, nil
		}
	}
	return "", fmt.Errorf("unknown reference kind %q", s)
}
