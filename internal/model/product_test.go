// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import (
	"database/sql"
	"testing"
)

func validProduct() Product {
	return Product{
		ProductName:        "Devgad Alphonso Mangoes",
		Price:              1200,
		StockQuantity:      50,
		AvailabilityStatus: AvailabilityInStock,
		ProductType:        ProductTypeSimple,
	}
}

func TestProductValidate_Valid(t *testing.T) {
	p := validProduct()
	if errs := p.Validate(); len(errs) != 0 {
		t.Errorf("Validate() = %v, want no errors", errs)
	}
}

func TestProductValidate_Errors(t *testing.T) {
	tests := []struct {
		name  string
		mod   func(*Product)
		field string
	}{
		{"empty name", func(p *Product) { p.ProductName = "" }, "product_name"},
		{"zero price", func(p *Product) { p.Price = 0 }, "price"},
		{"sale above price", func(p *Product) { p.SalePrice = sql.NullFloat64{Float64: 1500, Valid: true} }, "sale_price"},
		{"sale equals price", func(p *Product) { p.SalePrice = sql.NullFloat64{Float64: 1200, Valid: true} }, "sale_price"},
		{"negative stock", func(p *Product) { p.StockQuantity = -1 }, "stock_quantity"},
		{"bad availability", func(p *Product) { p.AvailabilityStatus = "sold_out" }, "availability_status"},
		{"bad type", func(p *Product) { p.ProductType = "bundle" }, "product_type"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := validProduct()
			tt.mod(&p)
			errs := p.Validate()
			if _, ok := errs[tt.field]; !ok {
				t.Errorf("Validate() = %v, want error on %q", errs, tt.field)
			}
		})
	}
}

func TestProductOnSale(t *testing.T) {
	p := validProduct()
	if p.OnSale() {
		t.Error("OnSale() = true without a sale price")
	}
	if p.EffectivePrice() != 1200 {
		t.Errorf("EffectivePrice() = %v, want 1200", p.EffectivePrice())
	}

	p.SalePrice = sql.NullFloat64{Float64: 900, Valid: true}
	if !p.OnSale() {
		t.Error("OnSale() = false with sale price below price")
	}
	if p.EffectivePrice() != 900 {
		t.Errorf("EffectivePrice() = %v, want 900", p.EffectivePrice())
	}

	// Sale price at or above the regular price shows no discount.
	p.SalePrice = sql.NullFloat64{Float64: 1200, Valid: true}
	if p.OnSale() {
		t.Error("OnSale() = true with sale price equal to price")
	}
}

func TestProductInStock(t *testing.T) {
	tests := []struct {
		status string
		want   bool
	}{
		{AvailabilityInStock, true},
		{AvailabilityOutOfStock, false},
		{AvailabilityPreOrder, false},
	}
	for _, tt := range tests {
		p := Product{AvailabilityStatus: tt.status}
		if got := p.InStock(); got != tt.want {
			t.Errorf("InStock() with %q = %v, want %v", tt.status, got, tt.want)
		}
	}
}
