package middleware

import (
	"context"
	"log"
	"net/http"
	"strings"

	"freshmart/apperr"
	"freshmart/models"
	"freshmart/utils"
)

// AdminDirectory is the slice of the store AdminAuth needs to resolve roles.
type AdminDirectory interface {
	GetAdminByEmail(ctx context.Context, email string) (*models.Admin, error)
}

// SessionRevoker is the slice of the session store AdminAuth needs.
type SessionRevoker interface {
	Revoke(ctx context.Context, uid string) error
	Revoked(ctx context.Context, uid string, issuedAt int64) (bool, error)
}

// Key type for context
type contextKey string

const (
	UserContextKey      = contextKey("user")
	PrincipalContextKey = contextKey("principal")
)

// bearerToken extracts the bearer token from the Authorization header.
func bearerToken(r *http.Request) (string, error) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return "", apperr.Unauthenticated("authorization header missing")
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", apperr.Unauthenticated("invalid authorization header format")
	}
	return parts[1], nil
}

// AuthMiddleware verifies JWT tokens and attaches user claims to the context
func AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tokenStr, err := bearerToken(r)
		if err != nil {
			apperr.Write(w, err)
			return
		}

		claims, err := utils.ParseJWT(tokenStr)
		if err != nil {
			apperr.Write(w, apperr.Unauthenticated("invalid token"))
			return
		}

		ctx := context.WithValue(r.Context(), UserContextKey, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// ClaimsFromContext returns the storefront claims attached by AuthMiddleware.
func ClaimsFromContext(ctx context.Context) (*utils.Claims, bool) {
	claims, ok := ctx.Value(UserContextKey).(*utils.Claims)
	return claims, ok
}

// PrincipalFromContext returns the admin principal attached by AdminAuth.
func PrincipalFromContext(ctx context.Context) (models.Principal, bool) {
	p, ok := ctx.Value(PrincipalContextKey).(models.Principal)
	return p, ok
}

// AdminAuth resolves the caller to an admin principal before any privileged
// handler runs. The role comes from a fresh read of the admins collection,
// never from the token's own role claim, so a revocation takes effect
// without a fresh login. A missing, disabled or roleless admin revokes the
// session everywhere and answers 401 so the portal falls back to its login
// entry point; a store failure answers 500 and leaves the session alone.
func AdminAuth(admins AdminDirectory, sessions SessionRevoker) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenStr, err := bearerToken(r)
			if err != nil {
				apperr.Write(w, err)
				return
			}

			claims, err := utils.ParseJWT(tokenStr)
			if err != nil {
				apperr.Write(w, apperr.Unauthenticated("invalid token"))
				return
			}

			revoked, err := sessions.Revoked(r.Context(), claims.UID, claims.IssuedAt)
			if err != nil {
				log.Printf("session check failed: %v", err)
				apperr.Write(w, err)
				return
			}
			if revoked {
				apperr.Write(w, apperr.Unauthenticated("session revoked"))
				return
			}

			admin, err := admins.GetAdminByEmail(r.Context(), claims.Email)
			if err != nil && !apperr.IsNotFound(err) {
				// transient store failure: not a verdict on the role
				log.Printf("admin lookup failed: %v", err)
				apperr.Write(w, err)
				return
			}
			if err != nil || admin.Disabled || !admin.Role.Valid() {
				// valid credential without a role: force sign-out everywhere
				if revokeErr := sessions.Revoke(r.Context(), claims.UID); revokeErr != nil {
					log.Printf("session revoke failed: %v", revokeErr)
				}
				apperr.Write(w, apperr.Unauthenticated("no admin role for this account"))
				return
			}

			principal := models.Principal{
				UID:   admin.ID.Hex(),
				Email: admin.Email,
				Role:  admin.Role,
			}
			ctx := context.WithValue(r.Context(), PrincipalContextKey, principal)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireRole fails with PermissionDenied when the resolved principal's role
// is not in allowed. super_admin is accepted wherever admin is.
func RequireRole(allowed ...models.Role) func(http.Handler) http.Handler {
	allowAll := append([]models.Role{}, allowed...)
	for _, r := range allowed {
		if r == models.RoleAdmin {
			allowAll = append(allowAll, models.RoleSuperAdmin)
		}
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			principal, ok := PrincipalFromContext(r.Context())
			if !ok {
				apperr.Write(w, apperr.Unauthenticated("no principal"))
				return
			}
			if !principal.Allowed(allowAll...) {
				apperr.Write(w, apperr.PermissionDenied("insufficient role"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
