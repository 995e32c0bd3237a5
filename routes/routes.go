// routes/routes.go
package routes

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"freshmart/controllers"
	"freshmart/live"
	"freshmart/middleware"
	"freshmart/models"
	"freshmart/store"
	"freshmart/utils"
)

// Controllers groups everything RegisterRoutes wires onto the router.
type Controllers struct {
	Users       *controllers.UserController
	Products    *controllers.ProductController
	Carts       *controllers.CartController
	Wishlists   *controllers.WishlistController
	Orders      *controllers.OrderController
	Admins      *controllers.AdminController
	AdminOrders *controllers.AdminOrderController
}

// RegisterRoutes sets up all the routes for the application
func RegisterRoutes(router *mux.Router, c Controllers, st *store.Store, sessions *utils.SessionStore, gateway *live.Gateway) {
	router.Use(middleware.Metrics)

	api := router.PathPrefix("/api").Subrouter()

	// Public routes
	api.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")
	api.HandleFunc("/auth/register", c.Users.Register).Methods("POST")
	api.HandleFunc("/auth/login", c.Users.Login).Methods("POST")
	api.HandleFunc("/auth/send-otp", c.Users.SendOTP).Methods("POST")
	api.HandleFunc("/auth/verify-otp", c.Users.VerifyOTP).Methods("POST")

	// Catalog routes are open. Fixed paths register before /products/{id} so
	// mux does not swallow them as ids.
	api.HandleFunc("/products", c.Products.GetProducts).Methods("GET")
	api.HandleFunc("/products/featured", c.Products.GetFeatured).Methods("GET")
	api.HandleFunc("/products/categories", c.Products.GetCategories).Methods("GET")
	api.HandleFunc("/products/{id}", c.Products.GetProductByID).Methods("GET")

	// Storefront routes require a customer token
	protected := api.PathPrefix("/").Subrouter()
	protected.Use(middleware.AuthMiddleware)
	protected.HandleFunc("/users/me", c.Users.GetProfile).Methods("GET")
	protected.HandleFunc("/users/me", c.Users.UpdateProfile).Methods("PUT")
	protected.HandleFunc("/users/me/stats", c.Users.GetStats).Methods("GET")

	protected.HandleFunc("/cart", c.Carts.GetCart).Methods("GET")
	protected.HandleFunc("/cart/add", c.Carts.AddToCart).Methods("POST")
	protected.HandleFunc("/cart/clear", c.Carts.ClearCart).Methods("DELETE")
	protected.HandleFunc("/cart/item/{id}", c.Carts.UpdateCartItem).Methods("PUT")
	protected.HandleFunc("/cart/item/{id}", c.Carts.RemoveFromCart).Methods("DELETE")

	protected.HandleFunc("/wishlist", c.Wishlists.GetWishlist).Methods("GET")
	protected.HandleFunc("/wishlist/toggle", c.Wishlists.ToggleWishlist).Methods("POST")
	protected.HandleFunc("/wishlist/clear", c.Wishlists.ClearWishlist).Methods("DELETE")
	protected.HandleFunc("/wishlist/check/{product_id}", c.Wishlists.CheckWishlist).Methods("GET")
	protected.HandleFunc("/wishlist/{product_id}", c.Wishlists.RemoveFromWishlist).Methods("DELETE")

	protected.HandleFunc("/orders", c.Orders.GetOrders).Methods("GET")
	protected.HandleFunc("/orders", c.Orders.CreateOrder).Methods("POST")
	protected.HandleFunc("/orders/{id}", c.Orders.GetOrder).Methods("GET")

	// Admin portal. Roles come fresh from the admins collection on every
	// request; a stale or revoked token never reaches a handler.
	api.HandleFunc("/admin/login", c.Admins.Login).Methods("POST")

	admin := api.PathPrefix("/admin").Subrouter()
	admin.Use(middleware.AdminAuth(st, sessions))
	admin.Use(middleware.RequireRole(models.RoleAdmin))
	admin.HandleFunc("/logout", c.Admins.Logout).Methods("POST")
	admin.HandleFunc("/verify-role", c.Admins.VerifyRole).Methods("GET")
	admin.HandleFunc("/dashboard/stats", c.Admins.GetDashboardStats).Methods("GET")

	admin.HandleFunc("/orders", c.AdminOrders.ListOrders).Methods("GET")
	admin.HandleFunc("/orders/export", c.AdminOrders.ExportOrders).Methods("GET")
	admin.HandleFunc("/orders/{id}", c.AdminOrders.GetOrder).Methods("GET")
	admin.HandleFunc("/orders/{id}/status", c.AdminOrders.UpdateOrderStatus).Methods("PUT")
	admin.HandleFunc("/orders/{id}/delivery-partner", c.AdminOrders.AssignDeliveryPartner).Methods("PUT")

	admin.HandleFunc("/users", c.Admins.GetUsers).Methods("GET")
	admin.HandleFunc("/users/search", c.Admins.SearchUsers).Methods("GET")
	admin.HandleFunc("/users", c.Admins.CreateUser).Methods("POST")
	admin.HandleFunc("/users/report", c.Admins.GenerateUserReport).Methods("GET")
	admin.HandleFunc("/users/{id}", c.Admins.UpdateUser).Methods("PUT")
	admin.HandleFunc("/users/{id}/status", c.Admins.UpdateUserStatus).Methods("PUT")
	admin.HandleFunc("/users/{id}", c.Admins.DeleteUser).Methods("DELETE")

	admin.HandleFunc("/products", c.Products.CreateProduct).Methods("POST")
	admin.HandleFunc("/products/{id}", c.Products.UpdateProduct).Methods("PUT")
	admin.HandleFunc("/products/{id}", c.Products.DeleteProduct).Methods("DELETE")

	// Administrator accounts are super admin territory
	super := api.PathPrefix("/admin").Subrouter()
	super.Use(middleware.AdminAuth(st, sessions))
	super.Use(middleware.RequireRole(models.RoleSuperAdmin))
	super.HandleFunc("/admins", c.Admins.GetAdmins).Methods("GET")
	super.HandleFunc("/admins", c.Admins.CreateAdmin).Methods("POST")
	super.HandleFunc("/admins/report", c.Admins.GenerateAdminReport).Methods("GET")
	super.HandleFunc("/admins/{id}/status", c.Admins.ToggleAdminStatus).Methods("PUT")
	super.HandleFunc("/admins/{id}", c.Admins.DeleteAdmin).Methods("DELETE")

	// Live dashboard mirrors
	ws := router.PathPrefix("/ws/admin").Subrouter()
	ws.Use(middleware.AdminAuth(st, sessions))
	ws.Use(middleware.RequireRole(models.RoleAdmin))
	ws.HandleFunc("/orders", gateway.ServeOrders)
	ws.HandleFunc("/users", gateway.ServeUsers)

	router.Handle("/metrics", promhttp.Handler()).Methods("GET")
}
