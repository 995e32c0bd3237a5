package controllers

import (
	"context"
	"net/http"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"freshmart/apperr"
	"freshmart/store"
)

// WishlistController handles saved-product requests
type WishlistController struct {
	Store *store.Store
}

// NewWishlistController creates a new WishlistController
func NewWishlistController(st *store.Store) *WishlistController {
	return &WishlistController{Store: st}
}

type toggleWishlistRequest struct {
	ProductID string `json:"product_id"`
}

// GetWishlist retrieves the user's wishlist
func (wc *WishlistController) GetWishlist(w http.ResponseWriter, r *http.Request) {
	user, err := currentUser(r, wc.Store)
	if err != nil {
		apperr.Write(w, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()
	wl, err := wc.Store.GetWishlist(ctx, user.ID)
	if err != nil {
		apperr.Write(w, err)
		return
	}
	writeJSON(w, http.StatusOK, wl)
}

// ToggleWishlist adds the product when absent, removes it when present
func (wc *WishlistController) ToggleWishlist(w http.ResponseWriter, r *http.Request) {
	user, err := currentUser(r, wc.Store)
	if err != nil {
		apperr.Write(w, err)
		return
	}

	var req toggleWishlistRequest
	if err := decodeJSON(r, &req); err != nil {
		apperr.Write(w, err)
		return
	}
	productID, err := primitive.ObjectIDFromHex(req.ProductID)
	if err != nil {
		apperr.Write(w, apperr.InvalidArgument("invalid product_id"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()
	product, err := wc.Store.GetProduct(ctx, productID)
	if err != nil {
		apperr.Write(w, err)
		return
	}

	saved, err := wc.Store.ToggleWishlist(ctx, user.ID, product)
	if err != nil {
		apperr.Write(w, err)
		return
	}
	message := "Removed from wishlist"
	if saved {
		message = "Added to wishlist"
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"in_wishlist": saved,
		"message":     message,
	})
}

// CheckWishlist reports whether one product is saved
func (wc *WishlistController) CheckWishlist(w http.ResponseWriter, r *http.Request) {
	user, err := currentUser(r, wc.Store)
	if err != nil {
		apperr.Write(w, err)
		return
	}
	productID, err := primitive.ObjectIDFromHex(mux.Vars(r)["product_id"])
	if err != nil {
		apperr.Write(w, apperr.InvalidArgument("invalid product_id"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()
	saved, err := wc.Store.InWishlist(ctx, user.ID, productID)
	if err != nil {
		apperr.Write(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"in_wishlist": saved})
}

// RemoveFromWishlist deletes one saved product
func (wc *WishlistController) RemoveFromWishlist(w http.ResponseWriter, r *http.Request) {
	user, err := currentUser(r, wc.Store)
	if err != nil {
		apperr.Write(w, err)
		return
	}
	productID, err := primitive.ObjectIDFromHex(mux.Vars(r)["product_id"])
	if err != nil {
		apperr.Write(w, apperr.InvalidArgument("invalid product_id"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()
	if err := wc.Store.RemoveWishlistItem(ctx, user.ID, productID); err != nil {
		apperr.Write(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Removed from wishlist"})
}

// ClearWishlist removes every saved product
func (wc *WishlistController) ClearWishlist(w http.ResponseWriter, r *http.Request) {
	user, err := currentUser(r, wc.Store)
	if err != nil {
		apperr.Write(w, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()
	if err := wc.Store.ClearWishlist(ctx, user.ID); err != nil {
		apperr.Write(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Wishlist cleared"})
}
