package model

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
)

func TestParseReferenceKind(t *testing.T) {
	tests := []struct {
		input    string
		expected ReferenceKind
		wantErr  bool
	}{
		{"category", KindCategory, false},
		{"categories", KindCategory, false},
		{"supplier", KindSupplier, false},
		{"suppliers", KindSupplier, false},
		{"location", KindLocation, false},
		{"locations", KindLocation, false},
		{"", "", true},
		{"items", "", true},
		{"Category", "", true},
	}

	for _, tt := range tests {
		got, err := ParseReferenceKind(tt.input)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseReferenceKind(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			continue
		}
		if got != tt.expected {
			t.Errorf("ParseReferenceKind(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestReferenceKindField(t *testing.T) {
	if KindSupplier.Field() != "supplier_id" {
		t.Errorf("unexpected field %q", KindSupplier.Field())
	}
	if ReferenceKind("bogus").Table() != "" {
		t.Error("expected empty table for unknown kind")
	}
}

func TestItemPriceIsJSONNumber(t *testing.T) {
	item := Item{Name: "Widget", UnitPrice: decimal.RequireFromString("2.50")}
	data, err := json.Marshal(item)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), `"unit_price":2.5`) {
		t.Errorf("expected numeric unit_price, got %s", data)
	}
	if !strings.Contains(string(data), `"category_name":null`) {
		t.Errorf("expected null category_name, got %s", data)
	}
}
