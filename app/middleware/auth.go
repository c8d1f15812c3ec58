package middleware

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"inkpress/app/auth"
	"inkpress/app/models"
)

type contextKey int

const principalKey contextKey = iota

// Resolver turns a request into an authenticated principal. Token and
// session handling belongs to the deployment's identity layer, not to the
// core; the core only consumes what the resolver produces. A nil principal
// with a nil error means the request is anonymous.
type Resolver interface {
	Resolve(r *http.Request) (*auth.Principal, error)
}

// Authenticate resolves the principal once per request and stores it in the
// request context. Resolution failures surface as 401; anonymous requests
// pass through and are denied (or not) by the policy downstream.
func Authenticate(resolver Resolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			principal, err := resolver.Resolve(r)
			if err != nil {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}
			if principal != nil {
				r = r.WithContext(context.WithValue(r.Context(), principalKey, principal))
			}
			next.ServeHTTP(w, r)
		})
	}
}

// PrincipalFrom extracts the authenticated principal from a request
// context. Nil means anonymous.
func PrincipalFrom(ctx context.Context) *auth.Principal {
	principal, _ := ctx.Value(principalKey).(*auth.Principal)
	return principal
}

// HeaderResolver reads the identity headers set by a trusted upstream auth
// proxy: X-User-Id, X-User-Name and X-User-Roles (comma separated). It must
// only be deployed behind a gateway that strips these headers from client
// traffic.
type HeaderResolver struct{}

// Resolve implements Resolver.
func (HeaderResolver) Resolve(r *http.Request) (*auth.Principal, error) {
	idHeader := r.Header.Get("X-User-Id")
	if idHeader == "" {
		return nil, nil
	}
	id, err := strconv.Atoi(idHeader)
	if err != nil {
		return nil, err
	}

	roles := models.NewRoleSet()
	for _, role := range strings.Split(r.Header.Get("X-User-Roles"), ",") {
		if role = strings.TrimSpace(role); role != "" {
			roles.Grant(models.Role(role))
		}
	}

	return &auth.Principal{
		ID:       id,
		Username: r.Header.Get("X-User-Name"),
		Roles:    roles,
	}, nil
}
