// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/konkandarshan/konkan/internal/model"
	"github.com/konkandarshan/konkan/internal/store"
)

// ProductHandler serves the public product catalog API.
type ProductHandler struct {
	queries *store.Queries
}

// NewProductHandler creates a new product API handler.
func NewProductHandler(db *sql.DB) *ProductHandler {
	return &ProductHandler{queries: store.New(db)}
}

// List handles GET /api/v1/products. Only in-stock products are returned.
func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	page, perPage, offset := pagination(r)

	products, err := h.queries.ListInStockProducts(r.Context(), perPage, offset)
	if err != nil {
		slog.Error("Failed to list products", "error", err)
		WriteInternalError(w, "Failed to retrieve products")
		return
	}

	total, err := h.queries.CountInStockProducts(r.Context())
	if err != nil {
		slog.Error("Failed to count products", "error", err)
		WriteInternalError(w, "Failed to retrieve products")
		return
	}

	WriteSuccess(w, products, &Meta{
		Total:   total,
		Page:    page,
		PerPage: int(perPage),
		Pages:   pages(total, perPage),
	})
}

// Get handles GET /api/v1/products/{id}.
func (h *ProductHandler) Get(w http.ResponseWriter, r *http.Request) {
	product, ok := requireEntityByID(w, r, "product", func(id int64) (model.Product, error) {
		return h.queries.GetProductByID(r.Context(), id)
	})
	if !ok {
		return
	}

	WriteSuccess(w, product, nil)
}
