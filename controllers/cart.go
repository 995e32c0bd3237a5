package controllers

import (
	"context"
	"net/http"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"freshmart/apperr"
	"freshmart/models"
	"freshmart/store"
)

// CartController handles cart-related requests
type CartController struct {
	Store *store.Store
}

// NewCartController creates a new CartController
func NewCartController(st *store.Store) *CartController {
	return &CartController{Store: st}
}

type addToCartRequest struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

type updateCartItemRequest struct {
	Quantity int `json:"quantity"`
}

func writeCart(w http.ResponseWriter, cart *models.Cart) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"cart":     cart,
		"subtotal": cart.Subtotal(),
		"savings":  cart.Savings(),
	})
}

// GetCart retrieves the user's cart with totals
func (cc *CartController) GetCart(w http.ResponseWriter, r *http.Request) {
	user, err := currentUser(r, cc.Store)
	if err != nil {
		apperr.Write(w, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()
	cart, err := cc.Store.GetCart(ctx, user.ID)
	if err != nil {
		apperr.Write(w, err)
		return
	}
	writeCart(w, cart)
}

// AddToCart adds a product to the user's cart, merging quantities
func (cc *CartController) AddToCart(w http.ResponseWriter, r *http.Request) {
	user, err := currentUser(r, cc.Store)
	if err != nil {
		apperr.Write(w, err)
		return
	}

	var req addToCartRequest
	if err := decodeJSON(r, &req); err != nil {
		apperr.Write(w, err)
		return
	}
	productID, err := primitive.ObjectIDFromHex(req.ProductID)
	if err != nil {
		apperr.Write(w, apperr.InvalidArgument("invalid product_id"))
		return
	}
	if req.Quantity < 1 {
		req.Quantity = 1
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()
	product, err := cc.Store.GetProduct(ctx, productID)
	if err != nil {
		apperr.Write(w, err)
		return
	}
	if !product.IsInStock {
		apperr.Write(w, apperr.FailedPrecondition("product is out of stock"))
		return
	}

	cart, err := cc.Store.AddToCart(ctx, user.ID, product, req.Quantity)
	if err != nil {
		apperr.Write(w, err)
		return
	}
	writeCart(w, cart)
}

// UpdateCartItem sets the quantity on one line item; zero removes it
func (cc *CartController) UpdateCartItem(w http.ResponseWriter, r *http.Request) {
	user, err := currentUser(r, cc.Store)
	if err != nil {
		apperr.Write(w, err)
		return
	}
	itemID, err := pathID(mux.Vars(r))
	if err != nil {
		apperr.Write(w, err)
		return
	}

	var req updateCartItemRequest
	if err := decodeJSON(r, &req); err != nil {
		apperr.Write(w, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()
	cart, err := cc.Store.UpdateCartItem(ctx, user.ID, itemID, req.Quantity)
	if err != nil {
		apperr.Write(w, err)
		return
	}
	writeCart(w, cart)
}

// RemoveFromCart removes one line item from the user's cart
func (cc *CartController) RemoveFromCart(w http.ResponseWriter, r *http.Request) {
	user, err := currentUser(r, cc.Store)
	if err != nil {
		apperr.Write(w, err)
		return
	}
	itemID, err := pathID(mux.Vars(r))
	if err != nil {
		apperr.Write(w, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()
	cart, err := cc.Store.RemoveCartItem(ctx, user.ID, itemID)
	if err != nil {
		apperr.Write(w, err)
		return
	}
	writeCart(w, cart)
}

// ClearCart empties the user's cart
func (cc *CartController) ClearCart(w http.ResponseWriter, r *http.Request) {
	user, err := currentUser(r, cc.Store)
	if err != nil {
		apperr.Write(w, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()
	cart, err := cc.Store.ClearCart(ctx, user.ID)
	if err != nil {
		apperr.Write(w, err)
		return
	}
	writeCart(w, cart)
}
