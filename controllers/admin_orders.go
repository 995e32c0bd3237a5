package controllers

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"freshmart/apperr"
	"freshmart/models"
	"freshmart/store"
	"freshmart/utils"
)

// AdminOrderController handles the portal's order management endpoints.
// The dashboard normally rides the websocket mirror; these REST endpoints
// back it up and serve one-shot tooling.
type AdminOrderController struct {
	Store        *store.Store
	EmailService *utils.EmailService
}

// NewAdminOrderController creates a new AdminOrderController
func NewAdminOrderController(st *store.Store, emailService *utils.EmailService) *AdminOrderController {
	return &AdminOrderController{Store: st, EmailService: emailService}
}

// ListOrders returns every order, newest first, optionally filtered by status
func (aoc *AdminOrderController) ListOrders(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()
	orders, err := aoc.Store.ListOrders(ctx)
	if err != nil {
		apperr.Write(w, err)
		return
	}

	// Dashboard tiles always describe the whole book, not the filtered view.
	stats := models.ComputeOrderStats(orders, time.Now())
	if status := r.URL.Query().Get("status"); status != "" && status != "all" {
		orders = filterOrdersByStatus(orders, status)
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"orders": orders,
		"stats":  stats,
	})
}

func filterOrdersByStatus(orders []models.Order, status string) []models.Order {
	filtered := make([]models.Order, 0, len(orders))
	for _, o := range orders {
		if string(o.Status) == status {
			filtered = append(filtered, o)
		}
	}
	return filtered
}

// GetOrder retrieves one order with its full status history
func (aoc *AdminOrderController) GetOrder(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(mux.Vars(r))
	if err != nil {
		apperr.Write(w, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()
	order, err := aoc.Store.GetOrder(ctx, id)
	if err != nil {
		apperr.Write(w, err)
		return
	}
	writeJSON(w, http.StatusOK, order)
}

// UpdateOrderStatus advances an order along the fulfilment path or cancels it
func (aoc *AdminOrderController) UpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	principal, err := currentPrincipal(r)
	if err != nil {
		apperr.Write(w, err)
		return
	}
	id, err := pathID(mux.Vars(r))
	if err != nil {
		apperr.Write(w, err)
		return
	}

	var req struct {
		Status models.OrderStatus `json:"status"`
	}
	if err := decodeJSON(r, &req); err != nil {
		apperr.Write(w, err)
		return
	}
	if !req.Status.Valid() {
		apperr.Write(w, apperr.InvalidArgument("unknown order status"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()
	order, err := aoc.Store.TransitionOrder(ctx, id, req.Status, principal)
	if err != nil {
		apperr.Write(w, err)
		return
	}

	if order.Address.Email != "" {
		go func(o models.Order) {
			if err := aoc.EmailService.SendOrderStatusEmail(o.Address.Email, o); err != nil {
				log.Printf("order %s: status email failed: %v", o.OrderNumber, err)
			}
		}(*order)
	}

	writeJSON(w, http.StatusOK, order)
}

// AssignDeliveryPartner records who carries the order
func (aoc *AdminOrderController) AssignDeliveryPartner(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(mux.Vars(r))
	if err != nil {
		apperr.Write(w, err)
		return
	}

	var partner models.DeliveryPartner
	if err := decodeJSON(r, &partner); err != nil {
		apperr.Write(w, err)
		return
	}
	if partner.Name == "" || partner.Phone == "" {
		apperr.Write(w, apperr.InvalidArgument("delivery partner requires name and phone"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()
	order, err := aoc.Store.AssignDeliveryPartner(ctx, id, partner)
	if err != nil {
		apperr.Write(w, err)
		return
	}
	writeJSON(w, http.StatusOK, order)
}

// ExportOrders streams every order as a CSV download
func (aoc *AdminOrderController) ExportOrders(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()
	orders, err := aoc.Store.ListOrders(ctx)
	if err != nil {
		apperr.Write(w, err)
		return
	}

	header := []string{"Order Number", "Customer", "Phone", "Status", "Payment", "Subtotal", "Delivery Fee", "Total", "Created At"}
	rows := make([][]string, 0, len(orders))
	for _, o := range orders {
		rows = append(rows, []string{
			o.OrderNumber,
			o.Address.Name,
			o.Address.Phone,
			string(o.Status),
			o.PaymentMethod,
			fmt.Sprintf("%.2f", o.Subtotal),
			fmt.Sprintf("%.2f", o.DeliveryFee),
			fmt.Sprintf("%.2f", o.Total),
			o.CreatedAt.Format(time.RFC3339),
		})
	}
	writeCSVReport(w, "orders", header, rows)
}
