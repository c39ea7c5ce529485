// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"database/sql"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/konkandarshan/konkan/internal/cache"
	"github.com/konkandarshan/konkan/internal/middleware"
	"github.com/konkandarshan/konkan/internal/model"
	"github.com/konkandarshan/konkan/internal/render"
	"github.com/konkandarshan/konkan/internal/service"
	"github.com/konkandarshan/konkan/internal/store"
	"github.com/konkandarshan/konkan/internal/util"
)

// ProductHandler handles admin product catalog management.
type ProductHandler struct {
	queries      *store.Queries
	renderer     *render.Renderer
	eventService *service.EventService
	cacheManager *cache.Manager
}

// NewProductHandler creates a new ProductHandler.
func NewProductHandler(db *sql.DB, renderer *render.Renderer, cm *cache.Manager) *ProductHandler {
	return &ProductHandler{
		queries:      store.New(db),
		renderer:     renderer,
		eventService: service.NewEventService(db),
		cacheManager: cm,
	}
}

// productListData is the admin product list page payload.
type productListData struct {
	Products   []model.Product
	Pagination Pagination
}

// List renders the admin product list, every availability status included.
func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	page := parsePageParam(r)
	offset := int64((page - 1) * adminPerPage)

	products, total, err := ListAndCount(
		func() ([]model.Product, error) {
			return h.queries.ListProducts(r.Context(), adminPerPage, offset)
		},
		func() (int64, error) {
			return h.queries.CountProducts(r.Context())
		})
	if err != nil {
		logAndInternalError(w, "failed to list products", "error", err)
		return
	}

	data := productListData{
		Products:   products,
		Pagination: BuildPagination(page, int(total), adminPerPage, redirectAdminProducts, r.URL.Query()),
	}
	if err := h.renderer.Render(w, r, "admin/products", render.TemplateData{
		Title: "Products",
		User:  middleware.GetUser(r),
		Data:  data,
	}); err != nil {
		logAndInternalError(w, "failed to render product list", "error", err)
	}
}

func productFormExtra() map[string]any {
	return map[string]any{
		"AvailabilityStatuses": model.AvailabilityStatuses(),
		"ProductTypes":         model.ProductTypes(),
	}
}

// NewForm renders the product creation form.
func (h *ProductHandler) NewForm(w http.ResponseWriter, r *http.Request) {
	form := newEntityForm(model.Product{
		AvailabilityStatus: model.AvailabilityInStock,
		ProductType:        model.ProductTypeSimple,
	}, false)
	form.Extra = productFormExtra()
	renderEntityForm(w, r, h.renderer, "admin/product_form", "New Product", form)
}

// Create handles product creation.
func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	if !parseFormOrRedirect(w, r, h.renderer, redirectAdminProductsNew) {
		return
	}

	product := productFromForm(r)
	form := newEntityForm(product, false)
	form.Extra = productFormExtra()
	form.Errors = product.Validate()

	if product.Slug == "" {
		product.Slug = util.Slugify(product.ProductName)
		form.Record.Slug = product.Slug
	}
	if msg := ValidateSlugWithChecker(product.Slug, func() (int64, error) {
		return h.queries.CountProductsBySlug(r.Context(), product.Slug, 0)
	}); msg != "" {
		form.Errors["slug"] = msg
	}

	if form.HasErrors() {
		renderEntityForm(w, r, h.renderer, "admin/product_form", "New Product", form)
		return
	}

	now := time.Now()
	created, err := h.queries.CreateProduct(r.Context(), store.CreateProductParams{
		ProductName:        product.ProductName,
		Slug:               product.Slug,
		Description:        product.Description,
		ShortDescription:   product.ShortDescription,
		Price:              product.Price,
		SalePrice:          product.SalePrice,
		SKU:                product.SKU,
		StockQuantity:      product.StockQuantity,
		AvailabilityStatus: product.AvailabilityStatus,
		ProductType:        product.ProductType,
		FeaturedImageURL:   product.FeaturedImageURL,
		GalleryImages:      product.GalleryImages,
		Category:           product.Category,
		Tags:               product.Tags,
		CreatedAt:          now,
		UpdatedAt:          now,
	})
	if err != nil {
		logAndInternalError(w, "failed to create product", "error", err)
		return
	}

	h.cacheManager.InvalidateProducts(r.Context())
	_ = h.eventService.LogProductEvent(r.Context(), model.EventLevelInfo, "Product created",
		middleware.GetUserIDPtr(r), middleware.ClientIP(r),
		map[string]any{"product_id": created.ID, "name": created.ProductName})

	flashSuccess(w, r, h.renderer, fmt.Sprintf(redirectAdminProductsID, created.ID), "Product created")
}

// EditForm renders the product edit form.
func (h *ProductHandler) EditForm(w http.ResponseWriter, r *http.Request) {
	id, err := ParseIDParam(r)
	if err != nil {
		flashError(w, r, h.renderer, redirectAdminProducts, "Invalid product ID")
		return
	}

	product, ok := requireEntityWithRedirect(w, r, h.renderer, redirectAdminProducts, "product", id,
		func(id int64) (model.Product, error) { return h.queries.GetProductByID(r.Context(), id) })
	if !ok {
		return
	}

	form := newEntityForm(product, true)
	form.Extra = productFormExtra()
	renderEntityForm(w, r, h.renderer, "admin/product_form", "Edit Product", form)
}

// Update handles product updates.
func (h *ProductHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := ParseIDParam(r)
	if err != nil {
		flashError(w, r, h.renderer, redirectAdminProducts, "Invalid product ID")
		return
	}

	current, ok := requireEntityWithRedirect(w, r, h.renderer, redirectAdminProducts, "product", id,
		func(id int64) (model.Product, error) { return h.queries.GetProductByID(r.Context(), id) })
	if !ok {
		return
	}

	if !parseFormOrRedirect(w, r, h.renderer, fmt.Sprintf(redirectAdminProductsID, id)) {
		return
	}

	product := productFromForm(r)
	product.ID = id
	form := newEntityForm(product, true)
	form.Extra = productFormExtra()
	form.Errors = product.Validate()

	if product.Slug == "" {
		product.Slug = util.Slugify(product.ProductName)
		form.Record.Slug = product.Slug
	}
	if msg := ValidateSlugForUpdate(product.Slug, current.Slug, func() (int64, error) {
		return h.queries.CountProductsBySlug(r.Context(), product.Slug, id)
	}); msg != "" {
		form.Errors["slug"] = msg
	}

	if form.HasErrors() {
		renderEntityForm(w, r, h.renderer, "admin/product_form", "Edit Product", form)
		return
	}

	updated, err := h.queries.UpdateProduct(r.Context(), store.UpdateProductParams{
		ID:                 id,
		ProductName:        product.ProductName,
		Slug:               product.Slug,
		Description:        product.Description,
		ShortDescription:   product.ShortDescription,
		Price:              product.Price,
		SalePrice:          product.SalePrice,
		SKU:                product.SKU,
		StockQuantity:      product.StockQuantity,
		AvailabilityStatus: product.AvailabilityStatus,
		ProductType:        product.ProductType,
		FeaturedImageURL:   product.FeaturedImageURL,
		GalleryImages:      product.GalleryImages,
		Category:           product.Category,
		Tags:               product.Tags,
		UpdatedAt:          time.Now(),
	})
	if err != nil {
		logAndInternalError(w, "failed to update product", "error", err, "product_id", id)
		return
	}

	h.cacheManager.InvalidateProducts(r.Context())
	_ = h.eventService.LogProductEvent(r.Context(), model.EventLevelInfo, "Product updated",
		middleware.GetUserIDPtr(r), middleware.ClientIP(r),
		map[string]any{"product_id": updated.ID, "name": updated.ProductName})

	flashSuccess(w, r, h.renderer, fmt.Sprintf(redirectAdminProductsID, id), "Product updated")
}

// Delete handles product deletion.
func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := ParseIDParam(r)
	if err != nil {
		flashError(w, r, h.renderer, redirectAdminProducts, "Invalid product ID")
		return
	}

	product, ok := requireEntityWithRedirect(w, r, h.renderer, redirectAdminProducts, "product", id,
		func(id int64) (model.Product, error) { return h.queries.GetProductByID(r.Context(), id) })
	if !ok {
		return
	}

	if err := h.queries.DeleteProduct(r.Context(), id); err != nil {
		logAndInternalError(w, "failed to delete product", "error", err, "product_id", id)
		return
	}

	h.cacheManager.InvalidateProducts(r.Context())
	_ = h.eventService.LogProductEvent(r.Context(), model.EventLevelInfo, "Product deleted",
		middleware.GetUserIDPtr(r), middleware.ClientIP(r),
		map[string]any{"product_id": id, "name": product.ProductName})

	flashSuccess(w, r, h.renderer, redirectAdminProducts, "Product deleted")
}

// productFromForm builds a Product from submitted form values.
func productFromForm(r *http.Request) model.Product {
	return model.Product{
		ProductName:        strings.TrimSpace(r.FormValue("product_name")),
		Slug:               strings.TrimSpace(r.FormValue("slug")),
		Description:        r.FormValue("description"),
		ShortDescription:   strings.TrimSpace(r.FormValue("short_description")),
		Price:              formFloat(r, "price"),
		SalePrice:          util.ParseNullFloat64(r.FormValue("sale_price")),
		SKU:                strings.TrimSpace(r.FormValue("sku")),
		StockQuantity:      formInt64(r, "stock_quantity"),
		AvailabilityStatus: r.FormValue("availability_status"),
		ProductType:        r.FormValue("product_type"),
		FeaturedImageURL:   strings.TrimSpace(r.FormValue("featured_image_url")),
		GalleryImages:      splitList(r.FormValue("gallery_images")),
		Category:           strings.TrimSpace(r.FormValue("category")),
		Tags:               splitList(r.FormValue("tags")),
	}
}
