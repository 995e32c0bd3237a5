package controllers

import (
	"context"
	"crypto/rand"
	"fmt"
	"log"
	"math/big"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"freshmart/apperr"
	"freshmart/models"
	"freshmart/store"
	"freshmart/utils"
)

// Orders under this subtotal carry a flat delivery fee.
const (
	freeDeliveryThreshold = 500.0
	deliveryFee           = 40.0
)

// OrderController handles storefront order requests
type OrderController struct {
	Store        *store.Store
	EmailService *utils.EmailService
}

// NewOrderController creates a new OrderController
func NewOrderController(st *store.Store, emailService *utils.EmailService) *OrderController {
	return &OrderController{Store: st, EmailService: emailService}
}

type createOrderRequest struct {
	PaymentMethod string                 `json:"payment_method"`
	Address       models.DeliveryAddress `json:"address"`
	CustomerNotes string                 `json:"customer_notes"`
}

// newOrderNumber builds "FM" + yyyymmddhhmm + a 4-digit random suffix.
func newOrderNumber(now time.Time) string {
	n, err := rand.Int(rand.Reader, big.NewInt(10000))
	if err != nil {
		n = big.NewInt(now.UnixNano() % 10000)
	}
	return fmt.Sprintf("FM%s%04d", now.Format("200601021504"), n.Int64())
}

// CreateOrder places an order from the user's cart
func (oc *OrderController) CreateOrder(w http.ResponseWriter, r *http.Request) {
	user, err := currentUser(r, oc.Store)
	if err != nil {
		apperr.Write(w, err)
		return
	}

	var req createOrderRequest
	if err := decodeJSON(r, &req); err != nil {
		apperr.Write(w, err)
		return
	}
	if !models.PaymentMethodValid(req.PaymentMethod) {
		apperr.Write(w, apperr.InvalidArgument("payment method must be cod or online"))
		return
	}
	if req.Address.Name == "" || req.Address.Phone == "" || req.Address.Address == "" {
		apperr.Write(w, apperr.InvalidArgument("delivery address requires name, phone and address"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()
	cart, err := oc.Store.GetCart(ctx, user.ID)
	if err != nil {
		apperr.Write(w, err)
		return
	}
	if len(cart.Items) == 0 {
		apperr.Write(w, apperr.InvalidArgument("cart is empty"))
		return
	}

	// Validate every line against current catalog data before touching
	// stock, so a rejected checkout leaves the catalog as it was.
	products := make(map[primitive.ObjectID]*models.Product, len(cart.Items))
	for _, line := range cart.Items {
		product, err := oc.Store.GetProduct(ctx, line.ProductID)
		if err != nil {
			apperr.Write(w, err)
			return
		}
		products[line.ProductID] = product
	}
	items, err := buildOrderItems(cart.Items, products)
	if err != nil {
		apperr.Write(w, err)
		return
	}
	if err := oc.Store.ReserveStock(ctx, items); err != nil {
		apperr.Write(w, err)
		return
	}

	subtotal, discount, fee := orderTotals(items)

	now := time.Now()
	order := models.Order{
		OrderNumber:   newOrderNumber(now),
		UserID:        user.ID,
		Items:         items,
		Subtotal:      subtotal,
		Discount:      discount,
		DeliveryFee:   fee,
		Total:         subtotal + fee,
		PaymentMethod: req.PaymentMethod,
		Address:       req.Address,
		Status:        models.StatusConfirmed,
		StatusHistory: []models.StatusEntry{{
			Status:    models.StatusConfirmed,
			Timestamp: now,
			Message:   "Order placed",
			UpdatedBy: user.Email,
		}},
		CustomerNotes: req.CustomerNotes,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := oc.Store.InsertOrder(ctx, &order); err != nil {
		oc.Store.ReleaseStock(ctx, items)
		apperr.Write(w, err)
		return
	}

	if _, err := oc.Store.ClearCart(ctx, user.ID); err != nil {
		log.Printf("order %s: failed to clear cart: %v", order.OrderNumber, err)
	}

	if email := firstNonEmpty(req.Address.Email, user.Email); email != "" {
		go func(o models.Order) {
			if err := oc.EmailService.SendOrderConfirmationEmail(email, o); err != nil {
				log.Printf("order %s: confirmation email failed: %v", o.OrderNumber, err)
			}
		}(order)
	}

	writeJSON(w, http.StatusCreated, order)
}

// GetOrders retrieves the authenticated user's orders, newest first
func (oc *OrderController) GetOrders(w http.ResponseWriter, r *http.Request) {
	user, err := currentUser(r, oc.Store)
	if err != nil {
		apperr.Write(w, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()
	orders, err := oc.Store.ListOrdersByUser(ctx, user.ID)
	if err != nil {
		apperr.Write(w, err)
		return
	}
	writeJSON(w, http.StatusOK, orders)
}

// GetOrder retrieves one of the user's orders with its status history
func (oc *OrderController) GetOrder(w http.ResponseWriter, r *http.Request) {
	user, err := currentUser(r, oc.Store)
	if err != nil {
		apperr.Write(w, err)
		return
	}
	id, err := pathID(mux.Vars(r))
	if err != nil {
		apperr.Write(w, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()
	order, err := oc.Store.GetOrder(ctx, id)
	if err != nil {
		apperr.Write(w, err)
		return
	}
	if order.UserID != user.ID {
		apperr.Write(w, apperr.NotFound("order not found"))
		return
	}
	writeJSON(w, http.StatusOK, order)
}

// buildOrderItems snapshots cart lines into order lines, rejecting the whole
// checkout when any line cannot be fulfilled from current stock.
func buildOrderItems(lines []models.CartItem, products map[primitive.ObjectID]*models.Product) ([]models.OrderItem, error) {
	items := make([]models.OrderItem, 0, len(lines))
	for _, line := range lines {
		product, ok := products[line.ProductID]
		if !ok {
			return nil, apperr.NotFound("product not found")
		}
		if !product.IsActive || !product.IsInStock {
			return nil, apperr.FailedPrecondition(fmt.Sprintf("%s is unavailable", product.Name))
		}
		if product.Stock < line.Quantity {
			return nil, apperr.FailedPrecondition(fmt.Sprintf("insufficient stock for %s", product.Name))
		}
		items = append(items, models.OrderItem{
			ProductID:     product.ID,
			Name:          product.Name,
			Image:         product.Image,
			Weight:        product.Weight,
			Quantity:      line.Quantity,
			Price:         product.Price,
			OriginalPrice: product.OriginalPrice,
		})
	}
	return items, nil
}

func orderTotals(items []models.OrderItem) (subtotal, discount, fee float64) {
	for _, item := range items {
		subtotal += item.Price * float64(item.Quantity)
		if item.OriginalPrice > item.Price {
			discount += (item.OriginalPrice - item.Price) * float64(item.Quantity)
		}
	}
	if subtotal < freeDeliveryThreshold {
		fee = deliveryFee
	}
	return subtotal, discount, fee
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
