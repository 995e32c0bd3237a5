package controllers

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson"
	"golang.org/x/crypto/bcrypt"

	"freshmart/apperr"
	"freshmart/models"
	"freshmart/store"
	"freshmart/utils"
)

// AdminController handles the admin portal: sign-in, administrator and
// customer management, dashboard numbers and CSV reports.
type AdminController struct {
	Store    *store.Store
	Sessions *utils.SessionStore
	validate *validator.Validate
}

// NewAdminController creates a new AdminController
func NewAdminController(st *store.Store, sessions *utils.SessionStore) *AdminController {
	return &AdminController{
		Store:    st,
		Sessions: sessions,
		validate: validator.New(),
	}
}

type adminLoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type createAdminRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Role     string `json:"role"`
}

type createUserRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"omitempty,email"`
	Phone    string `json:"phone"`
	Password string `json:"password" validate:"omitempty,min=6"`
}

// Login authenticates an administrator and issues a portal token
func (ac *AdminController) Login(w http.ResponseWriter, r *http.Request) {
	var req adminLoginRequest
	if err := decodeJSON(r, &req); err != nil {
		apperr.Write(w, err)
		return
	}
	if err := ac.validate.Struct(req); err != nil {
		apperr.Write(w, apperr.InvalidArgument("email and password are required"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()
	admin, err := ac.Store.GetAdminByEmail(ctx, req.Email)
	if err != nil {
		apperr.Write(w, apperr.Unauthenticated("invalid credentials"))
		return
	}
	if admin.Disabled {
		apperr.Write(w, apperr.Unauthenticated("account disabled"))
		return
	}
	if bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(req.Password)) != nil {
		apperr.Write(w, apperr.Unauthenticated("invalid credentials"))
		return
	}

	token, err := utils.GenerateJWT(admin.ID.Hex(), admin.Email, string(admin.Role))
	if err != nil {
		apperr.Write(w, apperr.Internal(err))
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"token": token,
		"admin": admin,
	})
}

// Logout revokes every outstanding token for the signed-in administrator
func (ac *AdminController) Logout(w http.ResponseWriter, r *http.Request) {
	principal, err := currentPrincipal(r)
	if err != nil {
		apperr.Write(w, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()
	if err := ac.Sessions.Revoke(ctx, principal.UID); err != nil {
		apperr.Write(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Signed out everywhere"})
}

// VerifyRole returns the caller's freshly resolved role. The portal calls
// this on load to decide which navigation to render.
func (ac *AdminController) VerifyRole(w http.ResponseWriter, r *http.Request) {
	principal, err := currentPrincipal(r)
	if err != nil {
		apperr.Write(w, err)
		return
	}
	writeJSON(w, http.StatusOK, principal)
}

// CreateAdmin registers a new administrator (super admin only)
func (ac *AdminController) CreateAdmin(w http.ResponseWriter, r *http.Request) {
	principal, err := currentPrincipal(r)
	if err != nil {
		apperr.Write(w, err)
		return
	}

	var req createAdminRequest
	if err := decodeJSON(r, &req); err != nil {
		apperr.Write(w, err)
		return
	}
	if err := ac.validate.Struct(req); err != nil {
		apperr.Write(w, apperr.InvalidArgument("name, email and a password of at least 8 characters are required"))
		return
	}
	role := models.Role(req.Role)
	if req.Role == "" {
		role = models.RoleAdmin
	}
	if !role.Valid() {
		apperr.Write(w, apperr.InvalidArgument("role must be admin or super_admin"))
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		apperr.Write(w, apperr.Internal(err))
		return
	}
	admin := models.Admin{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: string(hash),
		Role:         role,
		CreatedAt:    time.Now(),
		CreatedBy:    principal.Email,
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()
	if err := ac.Store.CreateAdmin(ctx, &admin); err != nil {
		apperr.Write(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, admin)
}

// GetAdmins lists every administrator account (super admin only)
func (ac *AdminController) GetAdmins(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()
	admins, err := ac.Store.ListAdmins(ctx)
	if err != nil {
		apperr.Write(w, err)
		return
	}
	writeJSON(w, http.StatusOK, admins)
}

// ToggleAdminStatus enables or disables an administrator (super admin only)
func (ac *AdminController) ToggleAdminStatus(w http.ResponseWriter, r *http.Request) {
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
		Disabled bool `json:"disabled"`
	}
	if err := decodeJSON(r, &req); err != nil {
		apperr.Write(w, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()
	admin, err := ac.Store.SetAdminDisabled(ctx, principal, id, req.Disabled)
	if err != nil {
		apperr.Write(w, err)
		return
	}
	if req.Disabled {
		// disabled admins lose every open session immediately
		if err := ac.Sessions.Revoke(ctx, admin.ID.Hex()); err != nil {
			apperr.Write(w, err)
			return
		}
	}
	writeJSON(w, http.StatusOK, admin)
}

// DeleteAdmin removes an administrator account (super admin only)
func (ac *AdminController) DeleteAdmin(w http.ResponseWriter, r *http.Request) {
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

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()
	if err := ac.Store.DeleteAdmin(ctx, principal, id); err != nil {
		apperr.Write(w, err)
		return
	}
	if err := ac.Sessions.Revoke(ctx, id.Hex()); err != nil {
		apperr.Write(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Admin deleted"})
}

// CreateUser registers a customer on their behalf
func (ac *AdminController) CreateUser(w http.ResponseWriter, r *http.Request) {
	principal, err := currentPrincipal(r)
	if err != nil {
		apperr.Write(w, err)
		return
	}

	var req createUserRequest
	if err := decodeJSON(r, &req); err != nil {
		apperr.Write(w, err)
		return
	}
	if err := ac.validate.Struct(req); err != nil {
		apperr.Write(w, apperr.InvalidArgument("invalid user fields"))
		return
	}
	if req.Email == "" && req.Phone == "" {
		apperr.Write(w, apperr.InvalidArgument("email or phone is required"))
		return
	}

	now := time.Now()
	user := models.User{
		UID:       uuid.NewString(),
		Name:      req.Name,
		Email:     req.Email,
		Phone:     req.Phone,
		Status:    models.UserActive,
		IsActive:  true,
		Provider:  "email",
		CreatedAt: now,
		UpdatedAt: now,
		CreatedBy: principal.Email,
	}
	if req.Phone != "" && req.Email == "" {
		user.Provider = "phone"
	}
	if req.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			apperr.Write(w, apperr.Internal(err))
			return
		}
		user.PasswordHash = string(hash)
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()
	if err := ac.Store.CreateUser(ctx, &user); err != nil {
		apperr.Write(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, user)
}

// GetUsers lists every customer account
func (ac *AdminController) GetUsers(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()
	users, err := ac.Store.ListUsers(ctx)
	if err != nil {
		apperr.Write(w, err)
		return
	}
	writeJSON(w, http.StatusOK, users)
}

// SearchUsers matches customers by name, email or phone substring
func (ac *AdminController) SearchUsers(w http.ResponseWriter, r *http.Request) {
	term := r.URL.Query().Get("q")
	if term == "" {
		apperr.Write(w, apperr.InvalidArgument("q is required"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()
	users, err := ac.Store.SearchUsers(ctx, term)
	if err != nil {
		apperr.Write(w, err)
		return
	}
	writeJSON(w, http.StatusOK, users)
}

// UpdateUser patches customer fields
func (ac *AdminController) UpdateUser(w http.ResponseWriter, r *http.Request) {
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
	for _, k := range []string{"_id", "id", "uid", "password_hash", "status", "is_active"} {
		delete(fields, k)
	}
	if len(fields) == 0 {
		apperr.Write(w, apperr.InvalidArgument("no fields to update"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()
	user, err := ac.Store.UpdateUser(ctx, id, fields)
	if err != nil {
		apperr.Write(w, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

// UpdateUserStatus sets a customer's account status; suspended and inactive
// also turn the login identity off
func (ac *AdminController) UpdateUserStatus(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(mux.Vars(r))
	if err != nil {
		apperr.Write(w, err)
		return
	}

	var req struct {
		Status models.UserStatus `json:"status"`
	}
	if err := decodeJSON(r, &req); err != nil {
		apperr.Write(w, err)
		return
	}
	if !req.Status.Valid() {
		apperr.Write(w, apperr.InvalidArgument("status must be active, inactive, suspended or pending"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()
	user, err := ac.Store.UpdateUserStatus(ctx, id, req.Status)
	if err != nil {
		apperr.Write(w, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

// DeleteUser removes a customer with their cart and wishlist
func (ac *AdminController) DeleteUser(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(mux.Vars(r))
	if err != nil {
		apperr.Write(w, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()
	if err := ac.Store.DeleteUser(ctx, id); err != nil {
		apperr.Write(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "User deleted"})
}

// GetDashboardStats returns the portal's headline numbers
func (ac *AdminController) GetDashboardStats(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()
	orders, err := ac.Store.ListOrders(ctx)
	if err != nil {
		apperr.Write(w, err)
		return
	}
	userCount, err := ac.Store.CountUsers(ctx)
	if err != nil {
		apperr.Write(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"orders":      models.ComputeOrderStats(orders, time.Now()),
		"total_users": userCount,
	})
}

// GenerateUserReport streams every customer as a CSV download
func (ac *AdminController) GenerateUserReport(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()
	users, err := ac.Store.ListUsers(ctx)
	if err != nil {
		apperr.Write(w, err)
		return
	}

	header := []string{"Name", "Email", "Phone", "Status", "Wallet Balance", "Total Savings", "Created At"}
	rows := make([][]string, 0, len(users))
	for _, u := range users {
		rows = append(rows, []string{
			u.Name,
			u.Email,
			u.Phone,
			string(u.Status),
			fmt.Sprintf("%.2f", u.WalletBalance),
			fmt.Sprintf("%.2f", u.TotalSavings),
			u.CreatedAt.Format(time.RFC3339),
		})
	}
	writeCSVReport(w, "users", header, rows)
}

// GenerateAdminReport streams every administrator as a CSV download
// (super admin only)
func (ac *AdminController) GenerateAdminReport(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()
	admins, err := ac.Store.ListAdmins(ctx)
	if err != nil {
		apperr.Write(w, err)
		return
	}

	header := []string{"Name", "Email", "Role", "Disabled", "Created At", "Created By"}
	rows := make([][]string, 0, len(admins))
	for _, a := range admins {
		rows = append(rows, []string{
			a.Name,
			a.Email,
			string(a.Role),
			fmt.Sprintf("%t", a.Disabled),
			a.CreatedAt.Format(time.RFC3339),
			a.CreatedBy,
		})
	}
	writeCSVReport(w, "admins", header, rows)
}

func writeCSVReport(w http.ResponseWriter, scope string, header []string, rows [][]string) {
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=%q", utils.ReportFilename(scope, time.Now())))
	if err := utils.WriteCSV(w, header, rows); err != nil {
		apperr.Write(w, apperr.Internal(err))
	}
}
