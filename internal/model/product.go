// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import (
	"database/sql"
	"strings"
	"time"
)

// Product availability statuses
const (
	AvailabilityInStock    = "in_stock"
	AvailabilityOutOfStock = "out_of_stock"
	AvailabilityPreOrder   = "pre_order"
)

// Product types
const (
	ProductTypeSimple   = "simple"
	ProductTypeVariable = "variable"
	ProductTypeDigital  = "digital"
	ProductTypeService  = "service"
)

// Product represents an item in the regional products catalog.
type Product struct {
	ID                 int64           `json:"id"`
	ProductName        string          `json:"product_name"`
	Slug               string          `json:"slug"`
	Description        string          `json:"description"`
	ShortDescription   string          `json:"short_description"`
	Price              float64         `json:"price"`
	SalePrice          sql.NullFloat64 `json:"sale_price,omitempty"`
	SKU                string          `json:"sku"`
	StockQuantity      int64           `json:"stock_quantity"`
	AvailabilityStatus string          `json:"availability_status"`
	ProductType        string          `json:"product_type"`
	FeaturedImageURL   string          `json:"featured_image_url"`
	GalleryImages      []string        `json:"gallery_images"`
	Category           string          `json:"category"`
	Tags               []string        `json:"tags"`
	CreatedAt          time.Time       `json:"created_at"`
	UpdatedAt          time.Time       `json:"updated_at"`
}

// InStock returns true if the product is publicly purchasable.
func (p *Product) InStock() bool {
	return p.AvailabilityStatus == AvailabilityInStock
}

// OnSale returns true when a sale price is set below the regular price.
func (p *Product) OnSale() bool {
	return p.SalePrice.Valid && p.SalePrice.Float64 < p.Price
}

// EffectivePrice returns the sale price when on sale, the regular price
// otherwise.
func (p *Product) EffectivePrice() float64 {
	if p.OnSale() {
		return p.SalePrice.Float64
	}
	return p.Price
}

// AvailabilityStatuses returns all valid availability values.
func AvailabilityStatuses() []string {
	return []string{AvailabilityInStock, AvailabilityOutOfStock, AvailabilityPreOrder}
}

// ProductTypes returns all valid product type values.
func ProductTypes() []string {
	return []string{ProductTypeSimple, ProductTypeVariable, ProductTypeDigital, ProductTypeService}
}

// ValidAvailabilityStatus checks an availability status value.
func ValidAvailabilityStatus(status string) bool {
	for _, s := range AvailabilityStatuses() {
		if s == status {
			return true
		}
	}
	return false
}

// ValidProductType checks a product type value.
func ValidProductType(pt string) bool {
	for _, t := range ProductTypes() {
		if t == pt {
			return true
		}
	}
	return false
}

// Validate checks required fields and enum values, shared by create and
// update paths.
func (p *Product) Validate() map[string]string {
	errs := make(map[string]string)
	if strings.TrimSpace(p.ProductName) == "" {
		errs["product_name"] = "Product name is required"
	}
	if p.Price <= 0 {
		errs["price"] = "Price must be greater than zero"
	}
	if p.SalePrice.Valid && p.SalePrice.Float64 >= p.Price {
		errs["sale_price"] = "Sale price must be less than the regular price"
	}
	if p.StockQuantity < 0 {
		errs["stock_quantity"] = "Stock quantity cannot be negative"
	}
	if !ValidAvailabilityStatus(p.AvailabilityStatus) {
		errs["availability_status"] = "Invalid availability status"
	}
	if !ValidProductType(p.ProductType) {
		errs["product_type"] = "Invalid product type"
	}
	return errs
}
