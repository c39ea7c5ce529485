// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/konkandarshan/konkan/internal/model"
)

const productColumns = `id, product_name, slug, description, short_description, price,
	sale_price, sku, stock_quantity, availability_status, product_type,
	featured_image_url, gallery_images, category, tags, created_at, updated_at`

func scanProduct(row interface{ Scan(...any) error }) (model.Product, error) {
	var p model.Product
	var gallery, tags string
	err := row.Scan(&p.ID, &p.ProductName, &p.Slug, &p.Description, &p.ShortDescription,
		&p.Price, &p.SalePrice, &p.SKU, &p.StockQuantity, &p.AvailabilityStatus,
		&p.ProductType, &p.FeaturedImageURL, &gallery, &p.Category, &tags,
		&p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return p, err
	}
	p.GalleryImages = decodeJSON(gallery)
	p.Tags = decodeJSON(tags)
	return p, nil
}

func (q *Queries) queryProducts(ctx context.Context, query string, args ...any) ([]model.Product, error) {
	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var products []model.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

// ListProducts returns all products regardless of availability, newest
// first. Used by the admin dashboard.
func (q *Queries) ListProducts(ctx context.Context, limit, offset int64) ([]model.Product, error) {
	return q.queryProducts(ctx, `
		SELECT `+productColumns+` FROM products
		ORDER BY created_at DESC LIMIT ? OFFSET ?`, limit, offset)
}

// ListInStockProducts returns publicly visible products, newest first.
func (q *Queries) ListInStockProducts(ctx context.Context, limit, offset int64) ([]model.Product, error) {
	return q.queryProducts(ctx, `
		SELECT `+productColumns+` FROM products
		WHERE availability_status = 'in_stock'
		ORDER BY created_at DESC LIMIT ? OFFSET ?`, limit, offset)
}

// CountProducts returns the total number of products.
func (q *Queries) CountProducts(ctx context.Context) (int64, error) {
	var n int64
	err := q.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM products`).Scan(&n)
	return n, err
}

// CountInStockProducts returns the number of publicly visible products.
func (q *Queries) CountInStockProducts(ctx context.Context) (int64, error) {
	var n int64
	err := q.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM products WHERE availability_status = 'in_stock'`).Scan(&n)
	return n, err
}

// GetProductByID fetches a product by primary key.
func (q *Queries) GetProductByID(ctx context.Context, id int64) (model.Product, error) {
	row := q.db.QueryRowContext(ctx, `SELECT `+productColumns+` FROM products WHERE id = ?`, id)
	return scanProduct(row)
}

// GetProductBySlug fetches a product by slug.
func (q *Queries) GetProductBySlug(ctx context.Context, slug string) (model.Product, error) {
	row := q.db.QueryRowContext(ctx, `SELECT `+productColumns+` FROM products WHERE slug = ?`, slug)
	return scanProduct(row)
}

// CountProductsBySlug counts products with the given slug, excluding one ID.
func (q *Queries) CountProductsBySlug(ctx context.Context, slug string, excludeID int64) (int64, error) {
	var n int64
	err := q.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM products WHERE slug = ? AND id != ?`, slug, excludeID).Scan(&n)
	return n, err
}

// CreateProductParams holds the fields for creating a product.
type CreateProductParams struct {
	ProductName        string
	Slug               string
	Description        string
	ShortDescription   string
	Price              float64
	SalePrice          sql.NullFloat64
	SKU                string
	StockQuantity      int64
	AvailabilityStatus string
	ProductType        string
	FeaturedImageURL   string
	GalleryImages      []string
	Category           string
	Tags               []string
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// CreateProduct inserts a new product and returns the stored row.
func (q *Queries) CreateProduct(ctx context.Context, arg CreateProductParams) (model.Product, error) {
	row := q.db.QueryRowContext(ctx, `
		INSERT INTO products (product_name, slug, description, short_description,
			price, sale_price, sku, stock_quantity, availability_status,
			product_type, featured_image_url, gallery_images, category, tags,
			created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING `+productColumns,
		arg.ProductName, arg.Slug, arg.Description, arg.ShortDescription,
		arg.Price, arg.SalePrice, arg.SKU, arg.StockQuantity, arg.AvailabilityStatus,
		arg.ProductType, arg.FeaturedImageURL, encodeJSON(arg.GalleryImages),
		arg.Category, encodeJSON(arg.Tags), arg.CreatedAt, arg.UpdatedAt)
	return scanProduct(row)
}

// UpdateProductParams holds the fields for updating a product.
type UpdateProductParams struct {
	ID                 int64
	ProductName        string
	Slug               string
	Description        string
	ShortDescription   string
	Price              float64
	SalePrice          sql.NullFloat64
	SKU                string
	StockQuantity      int64
	AvailabilityStatus string
	ProductType        string
	FeaturedImageURL   string
	GalleryImages      []string
	Category           string
	Tags               []string
	UpdatedAt          time.Time
}

// UpdateProduct updates a product and returns the stored row.
func (q *Queries) UpdateProduct(ctx context.Context, arg UpdateProductParams) (model.Product, error) {
	row := q.db.QueryRowContext(ctx, `
		UPDATE products SET product_name = ?, slug = ?, description = ?,
			short_description = ?, price = ?, sale_price = ?, sku = ?,
			stock_quantity = ?, availability_status = ?, product_type = ?,
			featured_image_url = ?, gallery_images = ?, category = ?, tags = ?,
			updated_at = ?
		WHERE id = ?
		RETURNING `+productColumns,
		arg.ProductName, arg.Slug, arg.Description, arg.ShortDescription,
		arg.Price, arg.SalePrice, arg.SKU, arg.StockQuantity, arg.AvailabilityStatus,
		arg.ProductType, arg.FeaturedImageURL, encodeJSON(arg.GalleryImages),
		arg.Category, encodeJSON(arg.Tags), arg.UpdatedAt, arg.ID)
	return scanProduct(row)
}

// DeleteProduct removes a product.
func (q *Queries) DeleteProduct(ctx context.Context, id int64) error {
	_, err := q.db.ExecContext(ctx, `DELETE FROM products WHERE id = ?`, id)
	return err
}
