package controllers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"freshmart/apperr"
	"freshmart/models"
	"freshmart/store"
)

// ProductController handles catalog requests
type ProductController struct {
	Store *store.Store
}

// NewProductController creates a new ProductController
func NewProductController(st *store.Store) *ProductController {
	return &ProductController{Store: st}
}

// GetProducts retrieves a filtered, sorted, paginated product listing
func (pc *ProductController) GetProducts(w http.ResponseWriter, r *http.Request) {
	qs := r.URL.Query()
	q := store.ProductQuery{
		Search:      qs.Get("query"),
		Subcategory: qs.Get("subcategory"),
		SortBy:      qs.Get("sort_by"),
		InStockOnly: qs.Get("in_stock_only") != "false",
	}
	if v := qs.Get("category_id"); v != "" {
		id, err := primitive.ObjectIDFromHex(v)
		if err != nil {
			apperr.Write(w, apperr.InvalidArgument("invalid category_id"))
			return
		}
		q.CategoryID = &id
	}
	if v := qs.Get("min_price"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			q.MinPrice = &f
		}
	}
	if v := qs.Get("max_price"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			q.MaxPrice = &f
		}
	}
	if v := qs.Get("min_discount"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			q.MinDiscount = &n
		}
	}
	if v := qs.Get("is_featured"); v != "" {
		featured := v == "true"
		q.Featured = &featured
	}
	q.Page, _ = strconv.Atoi(qs.Get("page"))
	q.PageSize, _ = strconv.Atoi(qs.Get("page_size"))

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()
	page, err := pc.Store.ListProducts(ctx, q)
	if err != nil {
		apperr.Write(w, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

// GetFeatured retrieves featured products, best discount first
func (pc *ProductController) GetFeatured(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()
	products, err := pc.Store.FeaturedProducts(ctx, limit)
	if err != nil {
		apperr.Write(w, err)
		return
	}
	writeJSON(w, http.StatusOK, products)
}

// GetCategories retrieves active categories in display order
func (pc *ProductController) GetCategories(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()
	categories, err := pc.Store.ListCategories(ctx)
	if err != nil {
		apperr.Write(w, err)
		return
	}
	writeJSON(w, http.StatusOK, categories)
}

// GetProductByID retrieves a single product by ID
func (pc *ProductController) GetProductByID(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(mux.Vars(r))
	if err != nil {
		apperr.Write(w, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()
	product, err := pc.Store.GetProduct(ctx, id)
	if err != nil {
		apperr.Write(w, err)
		return
	}
	writeJSON(w, http.StatusOK, product)
}

// CreateProduct handles adding a new product (Admin only)
func (pc *ProductController) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var product models.Product
	if err := decodeJSON(r, &product); err != nil {
		apperr.Write(w, err)
		return
	}
	if product.Name == "" || product.Price <= 0 {
		apperr.Write(w, apperr.InvalidArgument("name and a positive price are required"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()
	if err := pc.Store.CreateProduct(ctx, &product); err != nil {
		apperr.Write(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, product)
}

// UpdateProduct handles updating a product (Admin only)
func (pc *ProductController) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(mux.Vars(r))
	if err != nil {
		apperr.Write(w, err)
		return
	}

	var fields bson.M
	if err := decodeJSON(r, &fields); err != nil {
		apperr.Write(w, err)
		return
	}
	delete(fields, "_id")
	delete(fields, "id")
	if len(fields) == 0 {
		apperr.Write(w, apperr.InvalidArgument("no fields to update"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()
	updated, err := pc.Store.UpdateProduct(ctx, id, fields)
	if err != nil {
		apperr.Write(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// DeleteProduct handles deleting a product (Admin only)
func (pc *ProductController) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(mux.Vars(r))
	if err != nil {
		apperr.Write(w, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()
	if err := pc.Store.DeleteProduct(ctx, id); err != nil {
		apperr.Write(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Product deleted"})
}
