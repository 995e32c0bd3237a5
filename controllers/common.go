package controllers

import (
	"encoding/json"
	"net/http"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"freshmart/apperr"
	"freshmart/middleware"
	"freshmart/models"
	"freshmart/store"
)

const requestTimeout = 10 * time.Second

// writeJSON sends v as a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// decodeJSON parses the request body into v.
func decodeJSON(r *http.Request, v interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return apperr.InvalidArgument("invalid request body")
	}
	return nil
}

// pathID parses the {id} path variable as an ObjectID.
func pathID(vars map[string]string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(vars["id"])
	if err != nil {
		return primitive.NilObjectID, apperr.InvalidArgument("invalid id")
	}
	return id, nil
}

// currentUser resolves the authenticated storefront customer from the
// request context.
func currentUser(r *http.Request, st *store.Store) (*models.User, error) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		return nil, apperr.Unauthenticated("no authenticated user")
	}
	id, err := primitive.ObjectIDFromHex(claims.UID)
	if err != nil {
		return nil, apperr.Unauthenticated("invalid token subject")
	}
	user, err := st.GetUser(r.Context(), id)
	if err != nil {
		return nil, apperr.Unauthenticated("user not found")
	}
	if !user.IsActive {
		return nil, apperr.Unauthenticated("account disabled")
	}
	return user, nil
}

// currentPrincipal resolves the admin principal from the request context.
func currentPrincipal(r *http.Request) (models.Principal, error) {
	principal, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		return models.Principal{}, apperr.Unauthenticated("no principal")
	}
	return principal, nil
}
